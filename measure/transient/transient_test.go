package transient

import (
	"testing"

	"github.com/cwbudde/algo-audioverify/dsp/core"
	"github.com/cwbudde/algo-audioverify/internal/testutil"
)

const testRate = 48000.0

func burstBuffer(t *testing.T) []float64 {
	t.Helper()
	return testutil.Burst(440, testRate, 0.5, 1000, 16384)
}

func TestAnalyzeIdenticalSignals(t *testing.T) {
	a := NewAnalyzer(core.WithSampleRate(testRate))

	samples := burstBuffer(t)
	in := testutil.MonoBuffer(samples, testRate)
	out := testutil.MonoBuffer(samples, testRate)

	p := a.Analyze(in, out)

	if p.SmearingMs != 0 {
		t.Errorf("identical signals smearing = %v ms, want 0", p.SmearingMs)
	}

	if !p.Preserved {
		t.Error("identical signals should count as preserved")
	}

	testutil.RequireNear(t, p.EnvelopeCorrelation, 1, 1e-9)

	if p.InputAttackMs <= 0 {
		t.Errorf("burst input attack = %v ms, want > 0", p.InputAttackMs)
	}
}

func TestAnalyzeSmearedAttack(t *testing.T) {
	a := NewAnalyzer(core.WithSampleRate(testRate))

	in := testutil.MonoBuffer(burstBuffer(t), testRate)

	// Stretch the attack with a 2000-sample linear fade-in, roughly 40 ms
	// against the burst's sub-5 ms native attack.
	faded := burstBuffer(t)
	for i := 0; i < 2000; i++ {
		faded[1000+i] *= float64(i) / 2000
	}
	out := testutil.MonoBuffer(faded, testRate)

	p := a.Analyze(in, out)

	if p.SmearingMs <= preservedLimitMs {
		t.Errorf("smearing = %v ms, want above the preservation limit", p.SmearingMs)
	}

	if p.Preserved {
		t.Error("stretched attack should not count as preserved")
	}

	if p.EnvelopeCorrelation >= 1 || p.EnvelopeCorrelation < 0.5 {
		t.Errorf("envelope correlation = %v, want in (0.5, 1)", p.EnvelopeCorrelation)
	}
}

func TestAnalyzeNoOnset(t *testing.T) {
	a := NewAnalyzer(core.WithSampleRate(testRate))

	// Silence has no attack to measure; the analyzer reports preserved.
	in := testutil.MonoBuffer(burstBuffer(t), testRate)
	out := testutil.MonoBuffer(make([]float64, 16384), testRate)

	p := a.Analyze(in, out)

	if p.SmearingMs != 0 || !p.Preserved {
		t.Errorf("silent output = %+v, want zero smearing, preserved", p)
	}
}

func TestAnalyzeDegenerateInputs(t *testing.T) {
	a := NewAnalyzer(core.WithSampleRate(testRate))

	p := a.Analyze(nil, nil)
	if !p.Preserved || p.SmearingMs != 0 || p.EnvelopeCorrelation != 1 {
		t.Errorf("nil buffers = %+v, want pristine default", p)
	}
}
