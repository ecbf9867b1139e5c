package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/hupe1980/geoclass/geo"
)

// Item describes one training or test line.
type Item struct {
	Key   string
	User  string
	Point *geo.Point // nil writes empty coordinates
	Tags  []string
	Home  *geo.Point // only written by TestHomeLine
}

func coord(p *geo.Point) (string, string) {
	if p == nil {
		return "", ""
	}
	return strconv.FormatFloat(p.Lat, 'f', -1, 64), strconv.FormatFloat(p.Lon, 'f', -1, 64)
}

func (it Item) key(i int) string {
	if it.Key != "" {
		return it.Key
	}
	return strconv.Itoa(i + 1)
}

// TrainingLine renders "key,user,lat,lon,tag tag ...".
func TrainingLine(i int, it Item) string {
	lat, lon := coord(it.Point)
	return strings.Join([]string{it.key(i), it.User, lat, lon, strings.Join(it.Tags, " ")}, ",")
}

// TestHomeLine renders a training line extended with "x,homeLat,homeLon".
func TestHomeLine(i int, it Item) string {
	lat, lon := coord(it.Home)
	return TrainingLine(i, it) + ",x," + lat + "," + lon
}

// At returns a pointer to a coordinate literal.
func At(lat, lon float64) *geo.Point {
	return &geo.Point{Lat: lat, Lon: lon}
}

// WriteLines writes lines to dir/name and returns the path.
func WriteLines(tb testing.TB, dir, name string, lines ...string) string {
	tb.Helper()
	path := filepath.Join(dir, name)
	data := strings.Join(lines, "\n")
	if len(lines) > 0 {
		data += "\n"
	}
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		tb.Fatalf("write fixture %s: %v", path, err)
	}
	return path
}

// WriteCorpus writes a training corpus with a leading record-count line.
func WriteCorpus(tb testing.TB, dir, name string, items []Item) string {
	tb.Helper()
	lines := make([]string, 0, len(items)+1)
	lines = append(lines, strconv.Itoa(len(items)))
	for i, it := range items {
		lines = append(lines, TrainingLine(i, it))
	}
	return WriteLines(tb, dir, name, lines...)
}

// WriteTestSet writes a test file without a record-count line.
func WriteTestSet(tb testing.TB, dir, name string, items []Item) string {
	tb.Helper()
	lines := make([]string, 0, len(items))
	for i, it := range items {
		lines = append(lines, TrainingLine(i, it))
	}
	return WriteLines(tb, dir, name, lines...)
}

// WriteMedoids writes "id,lat,lon" lines with ids 100, 101, ...
func WriteMedoids(tb testing.TB, dir, name string, medoids []geo.Point) string {
	tb.Helper()
	lines := make([]string, len(medoids))
	for i, m := range medoids {
		lines[i] = fmt.Sprintf("%d,%s,%s", 100+i,
			strconv.FormatFloat(m.Lat, 'f', -1, 64), strconv.FormatFloat(m.Lon, 'f', -1, 64))
	}
	return WriteLines(tb, dir, name, lines...)
}

// WriteVocab writes "index\ttoken" lines in the given order.
func WriteVocab(tb testing.TB, dir, name string, tokens ...string) string {
	tb.Helper()
	lines := make([]string, len(tokens))
	for i, tok := range tokens {
		lines[i] = strconv.Itoa(i) + "\t" + tok
	}
	return WriteLines(tb, dir, name, lines...)
}
