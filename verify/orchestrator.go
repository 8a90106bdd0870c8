package verify

import (
	"fmt"
	"math"
	"strings"

	"github.com/cwbudde/algo-audioverify/dsp/buffer"
	"github.com/cwbudde/algo-audioverify/dsp/core"
	"github.com/cwbudde/algo-audioverify/dsp/signal"
	"github.com/cwbudde/algo-audioverify/measure/artifact"
	"github.com/cwbudde/algo-audioverify/measure/formant"
	"github.com/cwbudde/algo-audioverify/measure/spectral"
	"github.com/cwbudde/algo-audioverify/measure/thdn"
	"github.com/cwbudde/algo-audioverify/measure/transient"
	"github.com/cwbudde/algo-audioverify/quality"
)

const (
	// sweepSamples is the stereo test-tone length per configuration; the
	// first settleDivisor-th of it is discarded as engine settle time.
	sweepSamples  = 65536
	settleDivisor = 5

	testToneAmplitude = 0.5

	shiftRangeSemitones = 12.0 // shifts map from [-12, +12] to [0, 1]
	neutralParameter    = 0.5
)

// TestRun records one fully analyzed (engine, frequency, shift)
// configuration. It is immutable after creation.
type TestRun struct {
	EngineID       string
	EngineName     string
	FrequencyHz    float64
	ShiftSemitones float64

	THDN        thdn.Result
	Spectral    spectral.Profile
	Artifacts   artifact.Profile
	Transients  transient.Profile
	Formants    formant.Profile
	Naturalness quality.Score
	Grade       quality.Grade

	Valid    bool
	ErrorMsg string
}

// Orchestrator sweeps engines under test across a frequency x pitch-shift
// matrix and runs every analyzer on each captured output.
type Orchestrator struct {
	cfg core.ProcessorConfig
	gen *signal.Generator

	thdn       *thdn.Analyzer
	spectral   *spectral.Characterizer
	artifacts  *artifact.Detector
	transients *transient.Analyzer
	formants   *formant.Analyzer
}

// NewOrchestrator creates a sweep orchestrator. All analyzers share the
// same processor configuration.
func NewOrchestrator(opts ...core.ProcessorOption) (*Orchestrator, error) {
	cfg := core.ApplyProcessorOptions(opts...)
	coreOpts := []core.ProcessorOption{
		core.WithSampleRate(cfg.SampleRate),
		core.WithBlockSize(cfg.BlockSize),
	}

	thdnAnalyzer, err := thdn.NewAnalyzer(coreOpts...)
	if err != nil {
		return nil, err
	}

	characterizer, err := spectral.NewCharacterizer(coreOpts...)
	if err != nil {
		return nil, err
	}

	formantAnalyzer, err := formant.NewAnalyzer(coreOpts...)
	if err != nil {
		return nil, err
	}

	return &Orchestrator{
		cfg:        cfg,
		gen:        signal.NewGenerator(coreOpts...),
		thdn:       thdnAnalyzer,
		spectral:   characterizer,
		artifacts:  artifact.NewDetector(coreOpts...),
		transients: transient.NewAnalyzer(coreOpts...),
		formants:   formantAnalyzer,
	}, nil
}

// RunSweep runs every (engine, frequency, shift) combination serially and
// returns one TestRun per configuration. A failing configuration yields an
// invalid run with a captured message; the sweep always completes.
func (o *Orchestrator) RunSweep(reg *Registry, engineIDs []string, frequencies, shifts []float64) []TestRun {
	runs := make([]TestRun, 0, len(engineIDs)*len(frequencies)*len(shifts))

	for _, id := range engineIDs {
		for _, freq := range frequencies {
			for _, shift := range shifts {
				runs = append(runs, o.runOne(reg, id, freq, shift))
			}
		}
	}

	return runs
}

// runOne executes a single configuration. Engine panics are converted into
// an invalid run at this boundary.
func (o *Orchestrator) runOne(reg *Registry, id string, freqHz, shift float64) (run TestRun) {
	run = TestRun{
		EngineID:       id,
		EngineName:     reg.Name(id),
		FrequencyHz:    freqHz,
		ShiftSemitones: shift,
	}

	defer func() {
		if r := recover(); r != nil {
			run.Valid = false
			run.ErrorMsg = fmt.Sprintf("engine panic: %v", r)
		}
	}()

	factory := reg.Lookup(id)
	if factory == nil {
		run.ErrorMsg = "engine not registered"
		return run
	}

	engine, err := factory()
	if err != nil {
		run.ErrorMsg = "engine creation failed: " + err.Error()
		return run
	}
	if engine == nil {
		run.ErrorMsg = "engine factory returned nil"
		return run
	}

	engine.Prepare(o.cfg.SampleRate, o.cfg.BlockSize)
	engine.Reset()
	o.configure(engine, shift)

	input, err := o.renderTestTone(freqHz)
	if err != nil {
		run.ErrorMsg = "signal generation failed: " + err.Error()
		return run
	}

	output := input.Copy()
	o.processBlocks(engine, output)

	// Discard the settle head so engine latency and ramp-in do not bias
	// the metrics.
	settle := output.Len() / settleDivisor
	in := input.Slice(settle, input.Len())
	out := output.Slice(settle, output.Len())

	expectedFreq := freqHz * math.Pow(2, shift/shiftRangeSemitones)

	run.THDN = o.thdn.Measure(out, expectedFreq)
	run.Spectral = o.spectral.Analyze(out)
	run.Artifacts = o.artifacts.Detect(out, run.Spectral)
	run.Transients = o.transients.Analyze(in, out)
	run.Formants = o.formants.Analyze(in, out)
	run.Naturalness = quality.ScoreNaturalness(run.Spectral, run.THDN)
	run.Grade = quality.GradeRun(run.THDN, run.Artifacts, run.Transients, run.Formants, run.Naturalness)
	run.Valid = true

	return run
}

// configure maps the pitch shift onto the engine's normalized parameter
// range and sets every other parameter to a defined state: wet/mix
// parameters fully open, the rest neutral.
func (o *Orchestrator) configure(engine Engine, shift float64) {
	count := engine.ParameterCount()
	if count == 0 {
		return
	}

	pitchValue := core.Clamp((shift+shiftRangeSemitones)/(2*shiftRangeSemitones), 0, 1)

	pitchIndex := -1
	for i := 0; i < count; i++ {
		name := strings.ToLower(engine.ParameterName(i))
		if strings.Contains(name, "pitch") || strings.Contains(name, "shift") {
			pitchIndex = i
			break
		}
	}

	for i := 0; i < count; i++ {
		name := strings.ToLower(engine.ParameterName(i))

		switch {
		case i == pitchIndex:
			engine.SetParameter(i, pitchValue)
		case strings.Contains(name, "mix") || strings.Contains(name, "wet"):
			engine.SetParameter(i, 1)
		default:
			engine.SetParameter(i, neutralParameter)
		}
	}
}

// renderTestTone produces the stereo test sine block by block so the engine
// input is identical to what a streaming host would deliver.
func (o *Orchestrator) renderTestTone(freqHz float64) (*buffer.Sample, error) {
	buf, err := buffer.New(2, sweepSamples, o.cfg.SampleRate)
	if err != nil {
		return nil, err
	}

	osc, err := o.gen.NewOscillator(freqHz, testToneAmplitude)
	if err != nil {
		return nil, err
	}

	left := buf.Channel(0)
	for start := 0; start < len(left); start += o.cfg.BlockSize {
		end := start + o.cfg.BlockSize
		if end > len(left) {
			end = len(left)
		}
		osc.Fill(left[start:end])
	}

	copy(buf.Channel(1), left)

	return buf, nil
}

// processBlocks streams the buffer through the engine in place using the
// configured block size.
func (o *Orchestrator) processBlocks(engine Engine, buf *buffer.Sample) {
	for start := 0; start < buf.Len(); start += o.cfg.BlockSize {
		block := buf.Block(start, o.cfg.BlockSize)
		if block == nil {
			break
		}
		engine.Process(block)
	}
}
