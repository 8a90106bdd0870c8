// Package thdn measures total harmonic distortion plus noise of a captured
// output buffer against a known fundamental frequency.
package thdn

import (
	"math"

	"github.com/cwbudde/algo-audioverify/dsp/buffer"
	"github.com/cwbudde/algo-audioverify/dsp/core"
	"github.com/cwbudde/algo-audioverify/dsp/spectrum"
)

const (
	// MinSamples is the shortest buffer the analyzer accepts; anything
	// shorter yields the default result.
	MinSamples = spectrum.SizeFine

	captureBins       = 2     // +-2 bins summed around each target frequency
	maxHarmonic       = 10    // harmonics 2..10 count toward THD
	levelFloor        = 1e-10 // avoids -Inf in dB conversions
	silenceThreshold  = 1e-8  // fundamental below this is treated as silence
	harmonicExcludeHz = 20.0  // noise-floor exclusion band around harmonics
	unexpectedMinHz   = 10.0  // min distance from a harmonic to be unexpected
	unexpectedRatio   = 0.01  // fraction of fundamental that flags a bin
)

// Result holds a THD+N measurement. All harmonic levels are in dB relative
// to the fundamental; THDN is a unitless ratio (multiply by 100 for a
// percentage).
type Result struct {
	THDN         float64
	H2dB         float64
	H3dB         float64
	H5dB         float64
	H7dB         float64
	EvenOddRatio float64
	NoiseFloorDB float64
	SNRdB        float64
	// UnexpectedHarmonics lists frequencies (Hz) of bins that carry more
	// than 1% of the fundamental but sit away from any expected harmonic.
	UnexpectedHarmonics []float64
}

// DefaultResult is returned for degenerate inputs: buffers shorter than
// MinSamples or a near-silent fundamental. It describes a transparent,
// noiseless measurement so that degenerate cases never fail a grade run.
func DefaultResult() Result {
	return Result{
		H2dB:         -120,
		H3dB:         -120,
		H5dB:         -120,
		H7dB:         -120,
		EvenOddRatio: 1,
		NoiseFloorDB: -120,
		SNRdB:        120,
	}
}

// Analyzer measures THD+N using a fine-resolution spectral transform.
type Analyzer struct {
	cfg   core.ProcessorConfig
	xform *spectrum.Transform
}

// NewAnalyzer creates a THD+N analyzer.
func NewAnalyzer(opts ...core.ProcessorOption) (*Analyzer, error) {
	xform, err := spectrum.NewTransform(spectrum.SizeFine)
	if err != nil {
		return nil, err
	}

	return &Analyzer{
		cfg:   core.ApplyProcessorOptions(opts...),
		xform: xform,
	}, nil
}

// Measure analyzes channel 0 of buf against the expected fundamental.
//
// Buffers shorter than MinSamples and near-silent fundamentals return
// [DefaultResult]; the analyzer never fails.
func (a *Analyzer) Measure(buf *buffer.Sample, fundamentalHz float64) Result {
	if buf == nil || buf.Len() < MinSamples || fundamentalHz <= 0 {
		return DefaultResult()
	}

	sampleRate := buf.SampleRate()
	if sampleRate <= 0 {
		sampleRate = a.cfg.SampleRate
	}

	mag := a.xform.Magnitude(buf.Channel(0))
	size := a.xform.Size()

	fundamental := bandLevel(mag, spectrum.FreqBin(fundamentalHz, size, sampleRate))
	if fundamental <= silenceThreshold {
		return DefaultResult()
	}

	res := DefaultResult()

	// Harmonic levels 2..10. THD sums squared band magnitudes; the named
	// h2/h3/h5/h7 levels are reported in dB relative to the fundamental.
	harmonicPower := 0.0
	levels := make([]float64, maxHarmonic+1)

	for k := 2; k <= maxHarmonic; k++ {
		freq := fundamentalHz * float64(k)
		if freq >= sampleRate/2 {
			break
		}

		level := bandLevel(mag, spectrum.FreqBin(freq, size, sampleRate))
		levels[k] = level
		harmonicPower += level * level
	}

	res.THDN = math.Sqrt(harmonicPower) / fundamental
	res.H2dB = relativeDB(levels[2], fundamental)
	res.H3dB = relativeDB(levels[3], fundamental)
	res.H5dB = relativeDB(levels[5], fundamental)
	res.H7dB = relativeDB(levels[7], fundamental)

	// The ratio is meaningless when both sides sit at the leakage floor,
	// so it stays at the balanced default unless at least one side carries
	// real energy relative to the fundamental. The floored denominator
	// keeps even-only distortion reading as even-dominant.
	evenEnergy := levels[2] * levels[2]
	oddEnergy := levels[3]*levels[3] + levels[5]*levels[5] + levels[7]*levels[7]

	floor := 1e-4 * fundamental
	floorEnergy := floor * floor

	if evenEnergy > floorEnergy || oddEnergy > floorEnergy {
		if oddEnergy < floorEnergy {
			oddEnergy = floorEnergy
		}
		res.EvenOddRatio = evenEnergy / oddEnergy
	}

	res.NoiseFloorDB, res.UnexpectedHarmonics = a.noiseFloor(mag, fundamental, fundamentalHz, sampleRate)
	res.SNRdB = -res.NoiseFloorDB

	return res
}

// noiseFloor averages the magnitude over bins [10, size/8), skipping bins
// within 20 Hz of the first ten harmonics, and reports it in dB relative
// to the fundamental. Bins exceeding 1% of the fundamental more than 10 Hz
// away from any expected harmonic are collected as unexpected harmonics.
func (a *Analyzer) noiseFloor(mag []float64, fundamental, fundamentalHz, sampleRate float64) (float64, []float64) {
	size := a.xform.Size()
	upper := size / 8

	sum := 0.0
	count := 0

	var unexpected []float64

	for bin := 10; bin < upper && bin < len(mag); bin++ {
		freq := spectrum.BinFreq(bin, size, sampleRate)
		dist := harmonicDistance(freq, fundamentalHz)

		if dist > harmonicExcludeHz {
			sum += mag[bin]
			count++
		}

		if dist > unexpectedMinHz && mag[bin] > unexpectedRatio*fundamental {
			unexpected = append(unexpected, freq)
		}
	}

	if count == 0 {
		return -120, unexpected
	}

	return relativeDB(sum/float64(count), fundamental), unexpected
}

// harmonicDistance returns the distance in Hz from freq to the nearest of
// the first ten harmonics of the fundamental.
func harmonicDistance(freq, fundamentalHz float64) float64 {
	nearest := math.Inf(1)
	for k := 1; k <= maxHarmonic; k++ {
		d := math.Abs(freq - fundamentalHz*float64(k))
		if d < nearest {
			nearest = d
		}
	}
	return nearest
}

// bandLevel sums magnitudes over the 5-bin window centered on bin, which
// tolerates Hann window leakage around each target frequency.
func bandLevel(mag []float64, bin int) float64 {
	lo := bin - captureBins
	if lo < 0 {
		lo = 0
	}

	hi := bin + captureBins
	if hi >= len(mag) {
		hi = len(mag) - 1
	}

	sum := 0.0
	for i := lo; i <= hi; i++ {
		sum += mag[i]
	}

	return sum
}

// relativeDB converts a level to dB relative to the reference, flooring the
// level to avoid -Inf.
func relativeDB(level, reference float64) float64 {
	if level < levelFloor {
		level = levelFloor
	}

	return core.LinearToDB(level / reference)
}
