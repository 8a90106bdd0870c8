// Package testutil provides deterministic test signals and tolerance
// assertions shared by the analyzer tests.
package testutil

import (
	"math"
	"math/rand"

	"github.com/cwbudde/algo-audioverify/dsp/buffer"
)

// Sine generates a deterministic sine wave.
func Sine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// SineWithHarmonic generates a sine with one added harmonic at the given
// relative level.
func SineWithHarmonic(freqHz, sampleRate, amplitude float64, harmonic int, level float64, length int) []float64 {
	out := Sine(freqHz, sampleRate, amplitude, length)
	step := 2 * math.Pi * freqHz * float64(harmonic) / sampleRate
	for i := range out {
		out[i] += amplitude * level * math.Sin(step*float64(i))
	}
	return out
}

// Noise generates white noise with a fixed seed for reproducibility.
func Noise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Burst generates silence followed by a sine burst starting at onset, the
// attack shape needed for transient measurements.
func Burst(freqHz, sampleRate, amplitude float64, onset, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := onset; i < length; i++ {
		out[i] = amplitude * math.Sin(step*float64(i-onset))
	}
	return out
}

// StereoBuffer wraps two channel slices in a sample buffer, panicking on
// invalid shapes since tests control their inputs.
func StereoBuffer(left, right []float64, sampleRate float64) *buffer.Sample {
	buf, err := buffer.FromChannels([][]float64{left, right}, sampleRate)
	if err != nil {
		panic("testutil: " + err.Error())
	}
	return buf
}

// MonoBuffer wraps one channel slice in a sample buffer.
func MonoBuffer(samples []float64, sampleRate float64) *buffer.Sample {
	buf, err := buffer.FromChannels([][]float64{samples}, sampleRate)
	if err != nil {
		panic("testutil: " + err.Error())
	}
	return buf
}

// StereoSineBuffer generates an identical-channel stereo sine buffer.
func StereoSineBuffer(freqHz, sampleRate, amplitude float64, length int) *buffer.Sample {
	left := Sine(freqHz, sampleRate, amplitude, length)
	right := make([]float64, length)
	copy(right, left)
	return StereoBuffer(left, right, sampleRate)
}

// Inverted returns a polarity-inverted copy of samples.
func Inverted(samples []float64) []float64 {
	out := make([]float64, len(samples))
	for i, v := range samples {
		out[i] = -v
	}
	return out
}
