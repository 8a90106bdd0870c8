// Package window generates the analysis windows used by the spectral
// transform. Only the raised-cosine family needed for measurement work is
// provided; Hann is the default throughout the analyzers.
package window

import (
	"errors"
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Type identifies a window function.
type Type int

const (
	TypeRectangular Type = iota
	TypeHann
	TypeHamming
	TypeBlackman
)

var errMismatchedLength = errors.New("window: samples and coefficients must have equal length")

// Generate returns window coefficients of the given length in symmetric form.
func Generate(t Type, length int) []float64 {
	if length <= 0 {
		return nil
	}

	out := make([]float64, length)
	if length == 1 {
		out[0] = 1
		return out
	}

	for i := range out {
		x := float64(i) / float64(length-1)
		out[i] = eval(t, x)
	}

	return out
}

// Hann returns Hann window coefficients.
func Hann(size int) []float64 {
	return Generate(TypeHann, size)
}

// Apply multiplies buf in place by the selected window.
func Apply(t Type, buf []float64) {
	if len(buf) == 0 {
		return
	}

	coeffs := Generate(t, len(buf))
	vecmath.MulBlockInPlace(buf, coeffs)
}

// ApplyCoefficients multiplies samples with coefficients and returns a new slice.
func ApplyCoefficients(samples, coeffs []float64) ([]float64, error) {
	if len(samples) != len(coeffs) {
		return nil, errMismatchedLength
	}

	out := make([]float64, len(samples))
	vecmath.MulBlock(out, samples, coeffs)

	return out, nil
}

// ApplyCoefficientsInPlace multiplies samples with coefficients in place.
func ApplyCoefficientsInPlace(samples, coeffs []float64) error {
	if len(samples) != len(coeffs) {
		return errMismatchedLength
	}

	vecmath.MulBlockInPlace(samples, coeffs)

	return nil
}

func eval(t Type, x float64) float64 {
	switch t {
	case TypeHann:
		return 0.5 - 0.5*cosTau(x)
	case TypeHamming:
		return 0.54 - 0.46*cosTau(x)
	case TypeBlackman:
		return 0.42 - 0.5*cosTau(x) + 0.08*cosTau(2*x)
	default:
		return 1
	}
}

// cosTau returns cos(2*pi*x).
func cosTau(x float64) float64 {
	return math.Cos(2 * math.Pi * x)
}
