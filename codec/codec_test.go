package codec

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	RunID     string  `json:"run_id"`
	BatchSize int     `json:"batch_size"`
	Mu        float64 `json:"mu"`
}

func TestGoJSON(t *testing.T) {
	in := sample{RunID: "abc", BatchSize: 2, Mu: 1500}

	t.Run("compact", func(t *testing.T) {
		c := GoJSON{}
		data, err := c.Marshal(in)
		require.NoError(t, err)
		assert.NotContains(t, string(data), "\n")

		var out sample
		require.NoError(t, c.Unmarshal(data, &out))
		assert.Equal(t, in, out)
	})

	t.Run("indented", func(t *testing.T) {
		data := MustMarshal(nil, in)
		assert.True(t, strings.Contains(string(data), "\n  \"run_id\""))
		assert.Equal(t, "go-json", Default.Name())
	})

	t.Run("invalid input", func(t *testing.T) {
		var out sample
		assert.Error(t, GoJSON{}.Unmarshal([]byte("{"), &out))
	})
}
