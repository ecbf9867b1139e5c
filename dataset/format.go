package dataset

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hupe1980/geoclass/geo"
	"github.com/hupe1980/geoclass/vocab"
)

// Format selects the line parser for an input file.
type Format uint8

const (
	// FormatTraining parses "key,user,lat,lon,tag tag ...". Coordinates are
	// required and lines without retained features are filtered.
	FormatTraining Format = iota
	// FormatTest parses the training shape with optional coordinates. Items
	// without features are kept.
	FormatTest
	// FormatTestHome parses test lines carrying a home location at the
	// seventh and eighth column.
	FormatTestHome
	// FormatMedoid parses "key,lat,lon".
	FormatMedoid
)

var formatNames = [...]string{
	FormatTraining: "training",
	FormatTest:     "test",
	FormatTestHome: "test-home",
	FormatMedoid:   "medoid",
}

// String returns the configuration name of the format.
func (f Format) String() string {
	if int(f) < len(formatNames) {
		return formatNames[f]
	}
	return "Format(" + strconv.Itoa(int(f)) + ")"
}

// ParseFormat resolves a configuration name.
func ParseFormat(name string) (Format, error) {
	for f, n := range formatNames {
		if strings.EqualFold(name, n) {
			return Format(f), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// needsVocab reports whether f maps tags to feature ids.
func (f Format) needsVocab() bool { return f != FormatMedoid }

// Parse parses the data line with ordinal no.
func (f Format) Parse(no int, line string, v *vocab.Vocabulary) (Item, error) {
	switch f {
	case FormatTraining:
		return parseItem(no, line, v, true, false)
	case FormatTest:
		return parseItem(no, line, v, false, false)
	case FormatTestHome:
		return parseItem(no, line, v, false, true)
	case FormatMedoid:
		return parseMedoid(no, line)
	default:
		return Item{}, fmt.Errorf("%w: %s", ErrUnknownFormat, f)
	}
}

func parseItem(no int, line string, v *vocab.Vocabulary, training, home bool) (Item, error) {
	fields := strings.Split(line, ",")
	it := Item{ID: no, Key: fields[0]}

	if len(fields) > 3 && (training || fields[2] != "" || fields[3] != "") {
		p, err := parsePoint(fields[2], fields[3])
		if err != nil {
			return Item{}, fmt.Errorf("%w: line %d: %v", ErrParse, no, err)
		}
		it.Point, it.Located = p, true
	} else if training {
		return Item{}, fmt.Errorf("%w: line %d: missing coordinates", ErrParse, no)
	}

	if len(fields) > 4 {
		it.Features = features(fields[4], v)
	}
	if training && len(it.Features) == 0 {
		return Item{}, ErrFiltered
	}

	if home && len(fields) > 7 && fields[6] != "" && fields[7] != "" {
		h, err := parsePoint(fields[6], fields[7])
		if err != nil {
			return Item{}, fmt.Errorf("%w: line %d: home: %v", ErrParse, no, err)
		}
		it.Home = &h
	}

	return it, nil
}

func parseMedoid(no int, line string) (Item, error) {
	fields := strings.Split(line, ",")
	if len(fields) < 3 {
		return Item{}, fmt.Errorf("%w: line %d: want key,lat,lon", ErrParse, no)
	}
	p, err := parsePoint(fields[1], fields[2])
	if err != nil {
		return Item{}, fmt.Errorf("%w: line %d: %v", ErrParse, no, err)
	}
	return Item{ID: no, Key: strings.TrimSpace(fields[0]), Point: p, Located: true}, nil
}

func parsePoint(lat, lon string) (geo.Point, error) {
	la, err := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	if err != nil {
		return geo.Point{}, err
	}
	lo, err := strconv.ParseFloat(strings.TrimSpace(lon), 64)
	if err != nil {
		return geo.Point{}, err
	}
	p := geo.Point{Lat: la, Lon: lo}
	if !p.Valid() {
		return geo.Point{}, fmt.Errorf("coordinate %s out of range", p)
	}
	return p, nil
}

// features maps space-separated tags to feature ids. Unknown tags are dropped
// and repeats are kept, since the model counts occurrences.
func features(tags string, v *vocab.Vocabulary) []int32 {
	toks := strings.Fields(tags)
	if len(toks) == 0 {
		return nil
	}
	out := make([]int32, 0, len(toks))
	for _, t := range toks {
		if id, ok := v.ID(strings.ToLower(t)); ok {
			out = append(out, id)
		}
	}
	return out
}
