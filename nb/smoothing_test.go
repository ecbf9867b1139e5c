package nb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSmoothingMethod(t *testing.T) {
	m, err := ParseSmoothingMethod("Dirichlet")
	require.NoError(t, err)
	assert.Equal(t, Dirichlet, m)

	m, err = ParseSmoothingMethod("jelinek-mercer")
	require.NoError(t, err)
	assert.Equal(t, JelinekMercer, m)

	_, err = ParseSmoothingMethod("laplace")
	assert.ErrorIs(t, err, ErrInvalidSmoothing)
}

func TestSmoothing_Validate(t *testing.T) {
	assert.NoError(t, DirichletSmoothing(0).Validate())
	assert.NoError(t, JelinekMercerSmoothing(1).Validate())
	assert.ErrorIs(t, DirichletSmoothing(-1).Validate(), ErrInvalidSmoothing)
	assert.ErrorIs(t, JelinekMercerSmoothing(1.5).Validate(), ErrInvalidSmoothing)
	assert.ErrorIs(t, Smoothing{Method: 9}.Validate(), ErrInvalidSmoothing)
	assert.Equal(t, "dirichlet(mu=1500)", DirichletSmoothing(1500).String())
	assert.Equal(t, "jelinek-mercer(lambda=0.3)", JelinekMercerSmoothing(0.3).String())
}

func TestSmoothing_Probability(t *testing.T) {
	// Class: a=5 of 6 tokens. Corpus: a=10 of 40 tokens.
	const (
		a           = 5.0
		totalA      = 10.0
		classTotal  = 6.0
		corpusTotal = 40.0
		bg          = totalA / corpusTotal
		mle         = a / classTotal
	)

	t.Run("unseen feature is neutral", func(t *testing.T) {
		assert.Equal(t, 1.0, DirichletSmoothing(100).probability(0, 0, classTotal, corpusTotal))
		assert.Equal(t, 1.0, JelinekMercerSmoothing(0.5).probability(0, 0, classTotal, corpusTotal))
	})

	t.Run("dirichlet mu to zero is the class estimate", func(t *testing.T) {
		assert.InDelta(t, mle, DirichletSmoothing(0).probability(a, totalA, classTotal, corpusTotal), 1e-12)
		assert.InDelta(t, mle, DirichletSmoothing(1e-9).probability(a, totalA, classTotal, corpusTotal), 1e-9)
	})

	t.Run("dirichlet mu to infinity is the background", func(t *testing.T) {
		assert.InDelta(t, bg, DirichletSmoothing(1e12).probability(a, totalA, classTotal, corpusTotal), 1e-9)
	})

	t.Run("dirichlet blends", func(t *testing.T) {
		got := DirichletSmoothing(4).probability(a, totalA, classTotal, corpusTotal)
		assert.InDelta(t, (a+4*bg)/(classTotal+4), got, 1e-12)
	})

	t.Run("jelinek-mercer interpolates", func(t *testing.T) {
		assert.InDelta(t, bg, JelinekMercerSmoothing(1).probability(a, totalA, classTotal, corpusTotal), 1e-12)
		assert.InDelta(t, mle, JelinekMercerSmoothing(0).probability(a, totalA, classTotal, corpusTotal), 1e-12)
		assert.InDelta(t, 0.3*bg+0.7*mle, JelinekMercerSmoothing(0.3).probability(a, totalA, classTotal, corpusTotal), 1e-12)
	})

	t.Run("zero-mass class", func(t *testing.T) {
		assert.InDelta(t, 0.3*bg, JelinekMercerSmoothing(0.3).probability(0, totalA, 0, corpusTotal), 1e-12)
		assert.InDelta(t, bg, DirichletSmoothing(0).probability(0, totalA, 0, corpusTotal), 1e-12)
		assert.InDelta(t, bg, DirichletSmoothing(50).probability(0, totalA, 0, corpusTotal), 1e-12)
	})
}

func TestParsePriorMode(t *testing.T) {
	for _, m := range []PriorMode{MaxLikelihood, Uniform, Home} {
		got, err := ParsePriorMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
	_, err := ParsePriorMode("flat")
	assert.ErrorIs(t, err, ErrInvalidPrior)

	assert.ErrorIs(t, Prior{Mode: Home, HomeWeight: -1}.Validate(), ErrInvalidPrior)
	assert.ErrorIs(t, Prior{Mode: 7}.Validate(), ErrInvalidPrior)
	assert.Equal(t, "home(weight=2)", Prior{Mode: Home, HomeWeight: 2}.String())
}
