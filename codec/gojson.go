package codec

import gojson "github.com/goccy/go-json"

// GoJSON is a JSON codec backed by github.com/goccy/go-json.
//
// With a non-empty Indent the output is indented, which keeps manifests
// readable for operators inspecting an interrupted run.
type GoJSON struct {
	Indent string
}

// Marshal encodes the value to JSON.
func (c GoJSON) Marshal(v any) ([]byte, error) {
	if c.Indent != "" {
		return gojson.MarshalIndent(v, "", c.Indent)
	}
	return gojson.Marshal(v)
}

// Unmarshal decodes the JSON data into v.
func (GoJSON) Unmarshal(data []byte, v any) error { return gojson.Unmarshal(data, v) }

// Name returns the unique name of the codec ("go-json").
func (GoJSON) Name() string { return "go-json" }
