package results

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_Text(t *testing.T) {
	recs := []Record{
		{TestID: 1, Class: 3, Score: -12.5, FeatureCount: 4},
		{TestID: 2, Class: 0, Score: math.Inf(-1), FeatureCount: 0},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, recs))
	assert.Equal(t, "1\t3\t-12.5\t4\n2\t0\t-Inf\t0\n", buf.String())

	var got []Record
	require.NoError(t, Read(&buf, func(r Record) error {
		got = append(got, r)
		return nil
	}))
	assert.Equal(t, recs, got)
}

func TestParseRecord_Malformed(t *testing.T) {
	for _, line := range []string{
		"1\t2\t3",
		"x\t2\t-1\t0",
		"1\tx\t-1\t0",
		"1\t2\tscore\t0",
		"1\t2\t-1\tx",
	} {
		_, err := ParseRecord(line)
		assert.ErrorIs(t, err, ErrMalformed, line)
	}

	err := Read(strings.NewReader("1\t0\t0\t0\n\nbad\n"), func(Record) error { return nil })
	assert.ErrorIs(t, err, ErrMalformed)
	assert.Contains(t, err.Error(), "line 3")
}
