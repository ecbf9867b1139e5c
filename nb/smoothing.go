package nb

import (
	"fmt"
	"strings"
)

// SmoothingMethod selects how sparse class estimates are blended with the
// corpus-wide background.
type SmoothingMethod uint8

const (
	// Dirichlet smoothing: (a + mu*bg) / (classTotal + mu).
	Dirichlet SmoothingMethod = iota
	// JelinekMercer smoothing: lambda*bg + (1-lambda)*a/classTotal.
	JelinekMercer
)

// String returns the configuration name of the method.
func (m SmoothingMethod) String() string {
	switch m {
	case Dirichlet:
		return "dirichlet"
	case JelinekMercer:
		return "jelinek-mercer"
	default:
		return fmt.Sprintf("SmoothingMethod(%d)", m)
	}
}

// ParseSmoothingMethod resolves a configuration name.
func ParseSmoothingMethod(name string) (SmoothingMethod, error) {
	switch strings.ToLower(name) {
	case "dirichlet":
		return Dirichlet, nil
	case "jelinek-mercer", "jelinek", "jm":
		return JelinekMercer, nil
	default:
		return 0, fmt.Errorf("%w: unknown method %q", ErrInvalidSmoothing, name)
	}
}

// Smoothing is a method with its parameter.
type Smoothing struct {
	Method SmoothingMethod
	Mu     float64 // Dirichlet
	Lambda float64 // Jelinek-Mercer
}

// DirichletSmoothing returns Dirichlet smoothing with prior mass mu.
func DirichletSmoothing(mu float64) Smoothing {
	return Smoothing{Method: Dirichlet, Mu: mu}
}

// JelinekMercerSmoothing returns Jelinek-Mercer smoothing with weight lambda.
func JelinekMercerSmoothing(lambda float64) Smoothing {
	return Smoothing{Method: JelinekMercer, Lambda: lambda}
}

// Validate checks the parameter range of the method.
func (s Smoothing) Validate() error {
	switch s.Method {
	case Dirichlet:
		if s.Mu < 0 {
			return fmt.Errorf("%w: mu %g < 0", ErrInvalidSmoothing, s.Mu)
		}
	case JelinekMercer:
		if s.Lambda < 0 || s.Lambda > 1 {
			return fmt.Errorf("%w: lambda %g outside [0,1]", ErrInvalidSmoothing, s.Lambda)
		}
	default:
		return fmt.Errorf("%w: %s", ErrInvalidSmoothing, s.Method)
	}
	return nil
}

// String renders the smoothing for logs and manifests.
func (s Smoothing) String() string {
	if s.Method == JelinekMercer {
		return fmt.Sprintf("%s(lambda=%g)", s.Method, s.Lambda)
	}
	return fmt.Sprintf("%s(mu=%g)", s.Method, s.Mu)
}

// probability smooths count a of a feature in a class.
//
// totalA is the feature's corpus count, classTotal and corpusTotal the token
// totals of the class and of the corpus. A feature never seen in training has
// probability 1 so it does not affect any score.
func (s Smoothing) probability(a, totalA, classTotal, corpusTotal float64) float64 {
	if totalA == 0 {
		return 1
	}
	bg := totalA / corpusTotal

	switch s.Method {
	case JelinekMercer:
		if classTotal == 0 {
			return s.Lambda * bg
		}
		return s.Lambda*bg + (1-s.Lambda)*(a/classTotal)
	default:
		if classTotal+s.Mu == 0 {
			return bg
		}
		return (a + s.Mu*bg) / (classTotal + s.Mu)
	}
}
