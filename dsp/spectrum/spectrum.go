package spectrum

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-audioverify/dsp/window"
)

// Transform sizes used by the analyzers.
const (
	// SizeFine resolves individual harmonics and the noise floor.
	SizeFine = 16384
	// SizeCoarse is sufficient for spectral-shape and formant metrics.
	SizeCoarse = 8192
)

var errSizeNotPowerOfTwo = errors.New("spectrum: transform size must be a power of two")

// Transform computes one-sided magnitude spectra at a fixed transform size.
// It caches the FFT plan and window coefficients, so reusing one Transform
// across measurements avoids repeated setup.
type Transform struct {
	size   int
	plan   *algofft.Plan[complex128]
	coeffs []float64

	in  []complex128
	out []complex128
	re  []float64
	im  []float64
}

// NewTransform creates a transform for the given power-of-two size.
func NewTransform(size int) (*Transform, error) {
	if size < 2 || size&(size-1) != 0 {
		return nil, fmt.Errorf("%w: %d", errSizeNotPowerOfTwo, size)
	}

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("spectrum: fft plan for size %d: %w", size, err)
	}

	return &Transform{
		size:   size,
		plan:   plan,
		coeffs: window.Generate(window.TypeHann, size),
		in:     make([]complex128, size),
		out:    make([]complex128, size),
		re:     make([]float64, size/2),
		im:     make([]float64, size/2),
	}, nil
}

// Size returns the transform size.
func (t *Transform) Size() int {
	return t.size
}

// Bins returns the number of magnitude bins (size/2).
func (t *Transform) Bins() int {
	return t.size / 2
}

// Magnitude computes the one-sided magnitude spectrum of samples.
//
// The first min(len(samples), size) samples are Hann-windowed, the
// remainder is zero-padded, and magnitudes of bins [0, size/2) are
// returned. The result is freshly allocated on every call.
func (t *Transform) Magnitude(samples []float64) []float64 {
	n := len(samples)
	if n > t.size {
		n = t.size
	}

	for i := 0; i < n; i++ {
		t.in[i] = complex(samples[i]*t.coeffs[i], 0)
	}
	for i := n; i < t.size; i++ {
		t.in[i] = 0
	}

	bins := t.size / 2

	err := t.plan.Forward(t.out, t.in)
	if err != nil {
		// The plan and scratch sizes are fixed at construction, so this
		// cannot fail for valid input; keep the analyzer path total anyway.
		return make([]float64, bins)
	}
	for i := 0; i < bins; i++ {
		t.re[i] = real(t.out[i])
		t.im[i] = imag(t.out[i])
	}

	mag := make([]float64, bins)
	vecmath.Magnitude(mag, t.re, t.im)

	return mag
}

// Magnitude is a one-shot helper that allocates a Transform per call.
func Magnitude(samples []float64, size int) ([]float64, error) {
	t, err := NewTransform(size)
	if err != nil {
		return nil, err
	}
	return t.Magnitude(samples), nil
}

// BinFreq returns the center frequency in Hz of bin i for the given
// transform size and sample rate.
func BinFreq(i, size int, sampleRate float64) float64 {
	return float64(i) * sampleRate / float64(size)
}

// FreqBin returns the nearest bin index for the given frequency, clamped to
// the valid one-sided range [0, size/2).
func FreqBin(freqHz float64, size int, sampleRate float64) int {
	if sampleRate <= 0 {
		return 0
	}

	bin := int(math.Round(freqHz * float64(size) / sampleRate))
	if bin < 0 {
		return 0
	}
	if bin >= size/2 {
		return size/2 - 1
	}
	return bin
}
