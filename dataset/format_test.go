package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/geoclass/geo"
	"github.com/hupe1980/geoclass/vocab"
)

func TestParseFormat(t *testing.T) {
	for _, f := range []Format{FormatTraining, FormatTest, FormatTestHome, FormatMedoid} {
		got, err := ParseFormat(f.String())
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}

	got, err := ParseFormat("Test-Home")
	require.NoError(t, err)
	assert.Equal(t, FormatTestHome, got)

	_, err = ParseFormat("LineParserTrainingDefault")
	assert.ErrorIs(t, err, ErrUnknownFormat)
	assert.Equal(t, "Format(9)", Format(9).String())
}

func TestFormat_Parse(t *testing.T) {
	v := vocab.FromTokens("beach", "sun", "paris")

	tests := []struct {
		name    string
		format  Format
		line    string
		want    Item
		wantErr error
	}{
		{
			name:   "training",
			format: FormatTraining,
			line:   "k1,u,43.2,5.4,Beach sun beach unknown",
			want:   Item{ID: 3, Key: "k1", Point: geo.Point{Lat: 43.2, Lon: 5.4}, Located: true, Features: []int32{0, 1, 0}},
		},
		{
			name:    "training without retained features",
			format:  FormatTraining,
			line:    "k1,u,43.2,5.4,unknown",
			wantErr: ErrFiltered,
		},
		{
			name:    "training without tags",
			format:  FormatTraining,
			line:    "k1,u,43.2,5.4",
			wantErr: ErrFiltered,
		},
		{
			name:    "training missing coordinates",
			format:  FormatTraining,
			line:    "k1,u",
			wantErr: ErrParse,
		},
		{
			name:    "training bad latitude",
			format:  FormatTraining,
			line:    "k1,u,north,5.4,beach",
			wantErr: ErrParse,
		},
		{
			name:    "training out of range",
			format:  FormatTraining,
			line:    "k1,u,95,5.4,beach",
			wantErr: ErrParse,
		},
		{
			name:   "test without coordinates or features",
			format: FormatTest,
			line:   "k2,u,,,",
			want:   Item{ID: 3, Key: "k2"},
		},
		{
			name:   "test short line",
			format: FormatTest,
			line:   "k2",
			want:   Item{ID: 3, Key: "k2"},
		},
		{
			name:   "test home",
			format: FormatTestHome,
			line:   "k3,u,1,2,paris,x,48.85,2.35",
			want: Item{ID: 3, Key: "k3", Point: geo.Point{Lat: 1, Lon: 2}, Located: true,
				Features: []int32{2}, Home: &geo.Point{Lat: 48.85, Lon: 2.35}},
		},
		{
			name:   "test home missing",
			format: FormatTestHome,
			line:   "k3,u,1,2,paris,x,,",
			want:   Item{ID: 3, Key: "k3", Point: geo.Point{Lat: 1, Lon: 2}, Located: true, Features: []int32{2}},
		},
		{
			name:    "test home malformed",
			format:  FormatTestHome,
			line:    "k3,u,1,2,paris,x,abc,2",
			wantErr: ErrParse,
		},
		{
			name:   "medoid",
			format: FormatMedoid,
			line:   "812, 10.5,-20.25",
			want:   Item{ID: 3, Key: "812", Point: geo.Point{Lat: 10.5, Lon: -20.25}, Located: true},
		},
		{
			name:    "medoid short",
			format:  FormatMedoid,
			line:    "812,10.5",
			wantErr: ErrParse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.format.Parse(3, tt.line, v)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
