// Package spectral characterizes the spectral shape of a captured buffer:
// flatness, centroid, rolloff, spread, plus smearing and graininess flags.
package spectral

import (
	"math"

	"github.com/cwbudde/algo-audioverify/dsp/buffer"
	"github.com/cwbudde/algo-audioverify/dsp/core"
	"github.com/cwbudde/algo-audioverify/dsp/spectrum"
)

const (
	flatnessLowBin   = 5      // skip DC and the lowest bins for flatness
	rolloffFraction  = 0.85   // cumulative energy fraction for rolloff
	smearingSpreadHz = 3000.0 // spread beyond this flags smearing
	graininessFactor = 3.0    // spike threshold over the band mean
	graininessShare  = 0.10   // spike count share that flags graininess
)

// Profile describes the spectral shape of a signal.
type Profile struct {
	Flatness   float64 // 0 tonal .. 1 noise-like
	CentroidHz float64
	RolloffHz  float64
	SpreadHz   float64
	Smearing   bool
	Graininess bool
	// Magnitudes is the raw one-sided magnitude spectrum the profile was
	// computed from.
	Magnitudes []float64
}

// Characterizer computes spectral-shape profiles at coarse resolution.
type Characterizer struct {
	cfg   core.ProcessorConfig
	xform *spectrum.Transform
}

// NewCharacterizer creates a spectral characterizer.
func NewCharacterizer(opts ...core.ProcessorOption) (*Characterizer, error) {
	xform, err := spectrum.NewTransform(spectrum.SizeCoarse)
	if err != nil {
		return nil, err
	}

	return &Characterizer{
		cfg:   core.ApplyProcessorOptions(opts...),
		xform: xform,
	}, nil
}

// Analyze profiles channel 0 of buf. Empty or nil buffers yield a zero
// profile; the characterizer never fails.
func (c *Characterizer) Analyze(buf *buffer.Sample) Profile {
	if buf == nil || buf.Len() == 0 {
		return Profile{}
	}

	sampleRate := buf.SampleRate()
	if sampleRate <= 0 {
		sampleRate = c.cfg.SampleRate
	}

	mag := c.xform.Magnitude(buf.Channel(0))
	size := c.xform.Size()

	centroid, spread := centroidSpread(mag, size, sampleRate)

	p := Profile{
		Flatness:   flatness(mag),
		CentroidHz: centroid,
		RolloffHz:  rolloff(mag, size, sampleRate),
		SpreadHz:   spread,
		Magnitudes: mag,
	}
	p.Smearing = p.SpreadHz > smearingSpreadHz
	p.Graininess = grainy(mag)

	return p
}

// flatness computes spectral flatness (Wiener entropy) over bins
// [flatnessLowBin, len). The geometric mean is taken in the log domain to
// avoid underflow on long spectra.
func flatness(mag []float64) float64 {
	n := len(mag)
	if n <= flatnessLowBin {
		return 0
	}

	bins := n - flatnessLowBin
	sumLin := 0.0
	sumLog := 0.0
	hasZero := false

	for i := flatnessLowBin; i < n; i++ {
		v := mag[i]
		sumLin += v
		if v > 0 {
			sumLog += math.Log(v)
		} else {
			hasZero = true
		}
	}

	meanLin := sumLin / float64(bins)
	if meanLin == 0 || hasZero {
		// A zero bin makes the geometric mean zero.
		return 0
	}

	return math.Exp(sumLog/float64(bins)) / meanLin
}

// centroidSpread returns the energy-weighted mean frequency and the
// energy-weighted standard deviation around it.
func centroidSpread(mag []float64, size int, sampleRate float64) (float64, float64) {
	totalEnergy := 0.0
	weightedSum := 0.0

	for i, v := range mag {
		e := v * v
		totalEnergy += e
		weightedSum += spectrum.BinFreq(i, size, sampleRate) * e
	}

	if totalEnergy == 0 {
		return 0, 0
	}

	centroid := weightedSum / totalEnergy

	weightedSqSum := 0.0
	for i, v := range mag {
		diff := spectrum.BinFreq(i, size, sampleRate) - centroid
		weightedSqSum += diff * diff * v * v
	}

	return centroid, math.Sqrt(weightedSqSum / totalEnergy)
}

// rolloff returns the lowest frequency at which cumulative squared-magnitude
// energy reaches 85% of the total.
func rolloff(mag []float64, size int, sampleRate float64) float64 {
	totalEnergy := 0.0
	for _, v := range mag {
		totalEnergy += v * v
	}

	if totalEnergy == 0 {
		return 0
	}

	threshold := rolloffFraction * totalEnergy
	cum := 0.0

	for i, v := range mag {
		cum += v * v
		if cum >= threshold {
			return spectrum.BinFreq(i, size, sampleRate)
		}
	}

	return spectrum.BinFreq(len(mag)-1, size, sampleRate)
}

// grainy reports spike-like texture in the upper-half-to-three-quarters
// band: bins exceeding 3x the band mean, flagged when spikes cover more
// than 10% of the band.
func grainy(mag []float64) bool {
	lo := len(mag) / 2
	hi := 3 * len(mag) / 4
	if hi <= lo {
		return false
	}

	mean := 0.0
	for i := lo; i < hi; i++ {
		mean += mag[i]
	}
	mean /= float64(hi - lo)

	if mean == 0 {
		return false
	}

	spikes := 0
	for i := lo; i < hi; i++ {
		if mag[i] > graininessFactor*mean {
			spikes++
		}
	}

	return float64(spikes) > graininessShare*float64(hi-lo)
}
