// Package formant tracks the three lowest formant-band resonances between
// an input signal and the processed output.
package formant

import (
	"math"

	"github.com/cwbudde/algo-audioverify/dsp/buffer"
	"github.com/cwbudde/algo-audioverify/dsp/core"
	"github.com/cwbudde/algo-audioverify/dsp/spectrum"
)

const (
	smoothingBins    = 10 // +-10 bin moving average before peak picking
	preservedLimitHz = 50.0
)

// Bands F1..F3 overlap on purpose, following acoustic-phonetics convention.
var bands = [3]struct {
	loHz float64
	hiHz float64
}{
	{200, 1000},
	{800, 2500},
	{1500, 3500},
}

// Profile holds per-band formant frequencies of the output and the shifts
// relative to the input.
type Profile struct {
	F1Hz float64
	F2Hz float64
	F3Hz float64
	// ShiftHz holds |output - input| peak frequency per band.
	ShiftHz    [3]float64
	MaxShiftHz float64
	Preserved  bool
}

// Analyzer locates formant-band peaks on smoothed coarse spectra.
type Analyzer struct {
	cfg   core.ProcessorConfig
	xform *spectrum.Transform
}

// NewAnalyzer creates a formant analyzer.
func NewAnalyzer(opts ...core.ProcessorOption) (*Analyzer, error) {
	xform, err := spectrum.NewTransform(spectrum.SizeCoarse)
	if err != nil {
		return nil, err
	}

	return &Analyzer{
		cfg:   core.ApplyProcessorOptions(opts...),
		xform: xform,
	}, nil
}

// Analyze compares formant-band peaks of channel 0 between input and
// output. Degenerate buffers report zero shift and count as preserved.
func (a *Analyzer) Analyze(input, output *buffer.Sample) Profile {
	p := Profile{Preserved: true}

	if input == nil || output == nil || input.Len() == 0 || output.Len() == 0 {
		return p
	}

	sampleRate := input.SampleRate()
	if sampleRate <= 0 {
		sampleRate = a.cfg.SampleRate
	}
	if sampleRate <= 0 {
		return p
	}

	inMag := smooth(a.xform.Magnitude(input.Channel(0)))
	outMag := smooth(a.xform.Magnitude(output.Channel(0)))

	size := a.xform.Size()
	outPeaks := [3]float64{}

	for i, band := range bands {
		inPeak := bandPeak(inMag, size, sampleRate, band.loHz, band.hiHz)
		outPeak := bandPeak(outMag, size, sampleRate, band.loHz, band.hiHz)
		outPeaks[i] = outPeak

		p.ShiftHz[i] = math.Abs(outPeak - inPeak)
		if p.ShiftHz[i] > p.MaxShiftHz {
			p.MaxShiftHz = p.ShiftHz[i]
		}
	}

	p.F1Hz = outPeaks[0]
	p.F2Hz = outPeaks[1]
	p.F3Hz = outPeaks[2]
	p.Preserved = p.MaxShiftHz < preservedLimitHz

	return p
}

// smooth applies a +-smoothingBins centered moving average, broadening
// narrow harmonics into the envelope the band peak search expects.
func smooth(mag []float64) []float64 {
	n := len(mag)
	out := make([]float64, n)

	cum := make([]float64, n+1)
	for i, v := range mag {
		cum[i+1] = cum[i] + v
	}

	for i := range out {
		lo := i - smoothingBins
		if lo < 0 {
			lo = 0
		}

		hi := i + smoothingBins + 1
		if hi > n {
			hi = n
		}

		out[i] = (cum[hi] - cum[lo]) / float64(hi-lo)
	}

	return out
}

// bandPeak returns the frequency of the highest smoothed magnitude inside
// [loHz, hiHz].
func bandPeak(mag []float64, size int, sampleRate, loHz, hiHz float64) float64 {
	lo := spectrum.FreqBin(loHz, size, sampleRate)
	hi := spectrum.FreqBin(hiHz, size, sampleRate)

	bestBin := lo
	bestVal := -1.0

	for i := lo; i <= hi && i < len(mag); i++ {
		if mag[i] > bestVal {
			bestVal = mag[i]
			bestBin = i
		}
	}

	return spectrum.BinFreq(bestBin, size, sampleRate)
}
