// Package signal generates the deterministic test tones fed to engines
// under test. The oscillator keeps phase continuous across block
// boundaries so a block-processing engine never sees a discontinuity.
package signal

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/cwbudde/algo-audioverify/dsp/buffer"
	"github.com/cwbudde/algo-audioverify/dsp/core"
)

// Generator creates deterministic signals from a shared configuration.
type Generator struct {
	cfg  core.ProcessorConfig
	seed int64
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets the deterministic random seed for noise generation.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// NewGenerator creates a configured signal generator.
func NewGenerator(opts ...core.ProcessorOption) *Generator {
	return &Generator{
		cfg:  core.ApplyProcessorOptions(opts...),
		seed: 1,
	}
}

// NewGeneratorWithOptions creates a generator with signal-specific options.
func NewGeneratorWithOptions(coreOpts []core.ProcessorOption, opts ...Option) *Generator {
	g := NewGenerator(coreOpts...)
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// Config returns the generator processor configuration.
func (g *Generator) Config() core.ProcessorConfig {
	return g.cfg
}

// Sine generates a sine wave.
func (g *Generator) Sine(freqHz, amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("sine samples must be > 0: %d", samples)
	}
	if g.cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("sine sample rate must be > 0: %f", g.cfg.SampleRate)
	}
	out := make([]float64, samples)
	step := 2 * math.Pi * freqHz / g.cfg.SampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out, nil
}

// StereoSine generates a two-channel sine buffer with identical channels.
func (g *Generator) StereoSine(freqHz, amplitude float64, samples int) (*buffer.Sample, error) {
	left, err := g.Sine(freqHz, amplitude, samples)
	if err != nil {
		return nil, err
	}

	right := make([]float64, len(left))
	copy(right, left)

	return buffer.FromChannels([][]float64{left, right}, g.cfg.SampleRate)
}

// WhiteNoise generates deterministic white noise in [-amplitude, amplitude].
func (g *Generator) WhiteNoise(amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("noise samples must be > 0: %d", samples)
	}
	if amplitude < 0 {
		return nil, fmt.Errorf("noise amplitude must be >= 0: %f", amplitude)
	}
	out := make([]float64, samples)
	rng := rand.New(rand.NewSource(g.seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out, nil
}

// Oscillator is a phase-continuous sine source for block-wise rendering.
type Oscillator struct {
	phase     float64
	phaseStep float64
	amplitude float64
}

// NewOscillator creates an oscillator at the given frequency and amplitude.
func (g *Generator) NewOscillator(freqHz, amplitude float64) (*Oscillator, error) {
	if g.cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("oscillator sample rate must be > 0: %f", g.cfg.SampleRate)
	}
	if freqHz <= 0 {
		return nil, fmt.Errorf("oscillator frequency must be > 0: %f", freqHz)
	}

	return &Oscillator{
		phaseStep: 2 * math.Pi * freqHz / g.cfg.SampleRate,
		amplitude: amplitude,
	}, nil
}

// Fill writes the next len(block) samples into block, continuing the phase
// from the previous call.
func (o *Oscillator) Fill(block []float64) {
	for i := range block {
		block[i] = o.amplitude * math.Sin(o.phase)
		o.phase += o.phaseStep
	}

	// Keep the accumulator bounded over long renders.
	if o.phase > 2*math.Pi {
		o.phase = math.Mod(o.phase, 2*math.Pi)
	}
}

// Reset rewinds the oscillator phase to zero.
func (o *Oscillator) Reset() {
	o.phase = 0
}

// Normalize scales data to target peak amplitude and returns a new slice.
func Normalize(data []float64, targetPeak float64) ([]float64, error) {
	if targetPeak < 0 {
		return nil, fmt.Errorf("normalize target peak must be >= 0: %f", targetPeak)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("normalize input must not be empty")
	}

	maxAbs := 0.0
	for _, v := range data {
		av := math.Abs(v)
		if av > maxAbs {
			maxAbs = av
		}
	}

	out := make([]float64, len(data))
	if maxAbs == 0 || targetPeak == 0 {
		return out, nil
	}

	scale := targetPeak / maxAbs
	for i, v := range data {
		out[i] = v * scale
	}
	return out, nil
}
