// Package artifact detects processing artifacts in a captured buffer:
// metallic resonance, inter-channel phasiness, pre-ringing, and graininess.
package artifact

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-audioverify/dsp/buffer"
	"github.com/cwbudde/algo-audioverify/dsp/core"
	"github.com/cwbudde/algo-audioverify/measure/spectral"
)

const (
	metallicFlagDB    = -20.0 // HF within 20 dB of LF is disproportionate
	phasinessFlagCorr = 0.7
	preRingWindow     = 1000 // samples inspected before the global peak
	preRingFlagDB     = -40.0

	// Graininess carries no calibrated level of its own; the dB values are
	// nominal presence markers backing the boolean flag.
	grainyPresentDB = -20.0
	grainyAbsentDB  = -60.0
)

// Profile holds the artifact measurements and their flags.
type Profile struct {
	MetallicDB    float64
	Phasiness     float64 // cross-channel correlation, -1..1
	PreRingDB     float64
	GraininessDB  float64
	Metallic      bool
	Phasey        bool
	PreRinging    bool
	Grainy        bool
}

// FlagCount returns how many of the four artifact flags are set (0..4).
func (p Profile) FlagCount() int {
	n := 0
	for _, f := range []bool{p.Metallic, p.Phasey, p.PreRinging, p.Grainy} {
		if f {
			n++
		}
	}
	return n
}

// Detector derives artifact profiles from raw buffers and their spectral
// profiles.
type Detector struct {
	cfg core.ProcessorConfig
}

// NewDetector creates an artifact detector.
func NewDetector(opts ...core.ProcessorOption) *Detector {
	return &Detector{cfg: core.ApplyProcessorOptions(opts...)}
}

// Detect analyzes buf together with its spectral profile. Degenerate
// buffers yield a zero-flag profile; the detector never fails.
func (d *Detector) Detect(buf *buffer.Sample, sp spectral.Profile) Profile {
	p := Profile{
		Phasiness:    1,
		PreRingDB:    -120,
		GraininessDB: grainyAbsentDB,
	}

	if buf == nil || buf.Len() == 0 {
		return p
	}

	p.MetallicDB = metallic(sp.Magnitudes)
	p.Metallic = p.MetallicDB > metallicFlagDB

	if buf.Channels() >= 2 {
		p.Phasiness = correlation(buf.Channel(0), buf.Channel(1))
		p.Phasey = p.Phasiness < phasinessFlagCorr
	}

	p.PreRingDB = preRinging(buf.Channel(0))
	p.PreRinging = p.PreRingDB > preRingFlagDB

	p.Grainy = sp.Graininess
	if p.Grainy {
		p.GraininessDB = grainyPresentDB
	}

	return p
}

// metallic compares upper-half energy against lowest-quarter energy in dB.
// A high-end share within 20 dB of the low end reads as metallic ringing.
func metallic(mag []float64) float64 {
	if len(mag) < 4 {
		return -120
	}

	lfEnergy := 0.0
	for _, v := range mag[:len(mag)/4] {
		lfEnergy += v * v
	}

	hfEnergy := 0.0
	for _, v := range mag[len(mag)/2:] {
		hfEnergy += v * v
	}

	if lfEnergy == 0 || hfEnergy == 0 {
		return -120
	}

	return core.LinearPowerToDB(hfEnergy / lfEnergy)
}

// correlation returns the normalized cross-channel correlation of l and r.
func correlation(l, r []float64) float64 {
	n := len(l)
	if len(r) < n {
		n = len(r)
	}
	if n == 0 {
		return 1
	}

	l = l[:n]
	r = r[:n]

	lEnergy := floats.Dot(l, l)
	rEnergy := floats.Dot(r, r)
	if lEnergy == 0 || rEnergy == 0 {
		return 1
	}

	return floats.Dot(l, r) / math.Sqrt(lEnergy*rEnergy)
}

// preRinging locates the attack onset (first sample reaching 10% of the
// global peak) and, when enough history precedes it, reports the energy of
// the preceding window relative to the squared peak in dB. Energy within
// 40 dB of the peak before the onset indicates ringing ahead of the
// transient. Measuring before the onset rather than before the peak keeps
// the attack ramp itself out of the window.
func preRinging(samples []float64) float64 {
	peak := 0.0
	for _, v := range samples {
		av := math.Abs(v)
		if av > peak {
			peak = av
		}
	}

	if peak == 0 {
		return -120
	}

	onset := 0
	for i, v := range samples {
		if math.Abs(v) >= 0.1*peak {
			onset = i
			break
		}
	}

	// Steady periodic signals reach the threshold within their first
	// cycle and carry no history worth inspecting.
	if onset <= preRingWindow {
		return -120
	}

	energy := 0.0
	for _, v := range samples[onset-preRingWindow : onset] {
		energy += v * v
	}
	energy /= preRingWindow

	return core.LinearPowerToDB(energy / (peak * peak))
}
