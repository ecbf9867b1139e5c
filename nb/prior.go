package nb

import (
	"fmt"
	"math"
	"strings"

	"github.com/hupe1980/geoclass/geo"
)

// PriorMode selects the prior term of a class score.
type PriorMode uint8

const (
	// MaxLikelihood uses the log relative training frequency of the class.
	MaxLikelihood PriorMode = iota
	// Uniform uses log(1/K) for every class.
	Uniform
	// Home favours classes near the owner's home location, falling back to
	// MaxLikelihood for items without one.
	Home
)

// HomeEpsilonKm keeps the home prior finite when a medoid coincides with the
// home location.
const HomeEpsilonKm = 0.001

// String returns the configuration name of the mode.
func (m PriorMode) String() string {
	switch m {
	case MaxLikelihood:
		return "max-likelihood"
	case Uniform:
		return "uniform"
	case Home:
		return "home"
	default:
		return fmt.Sprintf("PriorMode(%d)", m)
	}
}

// ParsePriorMode resolves a configuration name.
func ParsePriorMode(name string) (PriorMode, error) {
	switch strings.ToLower(name) {
	case "max-likelihood", "maxlikelihood", "ml":
		return MaxLikelihood, nil
	case "uniform":
		return Uniform, nil
	case "home":
		return Home, nil
	default:
		return 0, fmt.Errorf("%w: unknown mode %q", ErrInvalidPrior, name)
	}
}

// Prior is a prior mode with its parameter.
type Prior struct {
	Mode       PriorMode
	HomeWeight float64
}

// Validate checks the mode and weight.
func (p Prior) Validate() error {
	switch p.Mode {
	case MaxLikelihood, Uniform:
		return nil
	case Home:
		if p.HomeWeight < 0 || math.IsNaN(p.HomeWeight) {
			return fmt.Errorf("%w: home weight %g", ErrInvalidPrior, p.HomeWeight)
		}
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrInvalidPrior, p.Mode)
	}
}

// String renders the prior for logs and manifests.
func (p Prior) String() string {
	if p.Mode == Home {
		return fmt.Sprintf("%s(weight=%g)", p.Mode, p.HomeWeight)
	}
	return p.Mode.String()
}

// homeTerm returns log((d+eps)^-w) for the distance d between medoid and home.
func homeTerm(weight float64, medoid, home geo.Point) float64 {
	return -weight * math.Log(medoid.Distance(home)+HomeEpsilonKm)
}
