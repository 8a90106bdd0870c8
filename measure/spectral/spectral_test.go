package spectral

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-audioverify/dsp/core"
	"github.com/cwbudde/algo-audioverify/dsp/spectrum"
	"github.com/cwbudde/algo-audioverify/internal/testutil"
)

// toneRate equals the transform size so whole-number frequencies land on
// exact bins.
const toneRate = float64(spectrum.SizeCoarse)

func newTestCharacterizer(t *testing.T, rate float64) *Characterizer {
	t.Helper()

	c, err := NewCharacterizer(core.WithSampleRate(rate))
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestAnalyzePureTone(t *testing.T) {
	c := newTestCharacterizer(t, toneRate)

	buf := testutil.MonoBuffer(
		testutil.Sine(1000, toneRate, 0.5, spectrum.SizeCoarse), toneRate)
	p := c.Analyze(buf)

	if p.Flatness > 0.1 {
		t.Errorf("tone flatness = %v, want near 0", p.Flatness)
	}

	if math.Abs(p.CentroidHz-1000) > 10 {
		t.Errorf("centroid = %v Hz, want ~1000", p.CentroidHz)
	}

	if math.Abs(p.RolloffHz-1000) > 5 {
		t.Errorf("rolloff = %v Hz, want ~1000", p.RolloffHz)
	}

	if p.SpreadHz > 10 {
		t.Errorf("spread = %v Hz, want narrow", p.SpreadHz)
	}

	if p.Smearing || p.Graininess {
		t.Errorf("clean tone flagged: smearing=%v graininess=%v", p.Smearing, p.Graininess)
	}

	if len(p.Magnitudes) != spectrum.SizeCoarse/2 {
		t.Errorf("magnitudes len = %d, want %d", len(p.Magnitudes), spectrum.SizeCoarse/2)
	}
}

func TestAnalyzeWhiteNoise(t *testing.T) {
	const rate = 48000.0

	c := newTestCharacterizer(t, rate)

	noise := c.Analyze(testutil.MonoBuffer(
		testutil.Noise(7, 0.5, spectrum.SizeCoarse), rate))
	tone := c.Analyze(testutil.MonoBuffer(
		testutil.Sine(1000, rate, 0.5, spectrum.SizeCoarse), rate))

	if noise.Flatness < 0.5 {
		t.Errorf("noise flatness = %v, want > 0.5", noise.Flatness)
	}

	if noise.Flatness <= tone.Flatness {
		t.Errorf("noise flatness %v should exceed tone flatness %v",
			noise.Flatness, tone.Flatness)
	}

	// White noise spreads energy across the band well past the smearing
	// threshold.
	if !noise.Smearing {
		t.Errorf("noise spread = %v Hz, smearing flag not set", noise.SpreadHz)
	}

	if noise.CentroidHz < 8000 || noise.CentroidHz > 16000 {
		t.Errorf("noise centroid = %v Hz, want near mid-band", noise.CentroidHz)
	}

	if noise.RolloffHz < 15000 {
		t.Errorf("noise rolloff = %v Hz, want high", noise.RolloffHz)
	}
}

func TestAnalyzeGraininess(t *testing.T) {
	c := newTestCharacterizer(t, toneRate)

	// A dense comb of exact-bin tones across the upper band puts a spike in
	// every eighth bin, far past the 10% spike share.
	samples := make([]float64, spectrum.SizeCoarse)
	for freq := 2052.0; freq < 3072; freq += 8 {
		tone := testutil.Sine(freq, toneRate, 0.02, spectrum.SizeCoarse)
		for i := range samples {
			samples[i] += tone[i]
		}
	}

	p := c.Analyze(testutil.MonoBuffer(samples, toneRate))

	if !p.Graininess {
		t.Error("spiky upper-band spectrum should flag graininess")
	}
}

func TestAnalyzeDegenerateInputs(t *testing.T) {
	c := newTestCharacterizer(t, toneRate)

	if p := c.Analyze(nil); p.Flatness != 0 || p.Smearing || p.Graininess {
		t.Errorf("nil buffer = %+v, want zero profile", p)
	}

	silence := c.Analyze(testutil.MonoBuffer(make([]float64, spectrum.SizeCoarse), toneRate))
	if silence.CentroidHz != 0 || silence.RolloffHz != 0 {
		t.Errorf("silence = %+v, want zero centroid and rolloff", silence)
	}

	if silence.Smearing || silence.Graininess {
		t.Error("silence must not raise flags")
	}
}
