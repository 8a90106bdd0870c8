package verify

import (
	"github.com/cwbudde/algo-audioverify/dsp/core"
)

// Reference engines used to calibrate the harness and exercise the sweep in
// tests and the qasweep command. They are deliberately simple; real effects
// under test live outside this module and only satisfy the Engine contract.

// RegisterReferenceEngines adds the built-in calibration engines.
func RegisterReferenceEngines(reg *Registry) {
	reg.MustRegister("identity", "Identity (pass-through)", func() (Engine, error) {
		return &identityEngine{}, nil
	})
	reg.MustRegister("gain", "Gain", func() (Engine, error) {
		return &gainEngine{gain: 0.5}, nil
	})
	reg.MustRegister("octaver", "Octave Doubler", func() (Engine, error) {
		return &octaverEngine{}, nil
	})
	reg.MustRegister("hardclip", "Hard Clipper", func() (Engine, error) {
		return &hardClipEngine{drive: 0.5}, nil
	})
}

// identityEngine passes audio through untouched. Grades straight A when
// the pipeline is healthy.
type identityEngine struct{}

func (*identityEngine) Prepare(float64, int) {}
func (*identityEngine) Reset() {}
func (*identityEngine) ParameterCount() int      { return 0 }
func (*identityEngine) ParameterName(int) string { return "" }
func (*identityEngine) SetParameter(int, float64) {}
func (*identityEngine) Process([][]float64) {}

// gainEngine scales all channels by its single normalized parameter.
type gainEngine struct {
	gain float64
}

func (*gainEngine) Prepare(float64, int) {}
func (*gainEngine) Reset() {}
func (*gainEngine) ParameterCount() int  { return 1 }

func (*gainEngine) ParameterName(i int) string {
	if i == 0 {
		return "Gain"
	}
	return ""
}

func (e *gainEngine) SetParameter(i int, value float64) {
	if i == 0 {
		e.gain = core.Clamp(value, 0, 1)
	}
}

func (e *gainEngine) Process(block [][]float64) {
	for _, ch := range block {
		for i := range ch {
			ch[i] *= e.gain
		}
	}
}

// octaverEngine doubles the input frequency via the identity
//
//	sin^2(x) = (1 - cos(2x)) / 2
//
// assuming the reference test-tone amplitude of 0.5, so a 0.5-amplitude
// sine at f becomes a clean 0.5-amplitude tone at 2f.
type octaverEngine struct{}

func (*octaverEngine) Prepare(float64, int) {}
func (*octaverEngine) Reset() {}
func (*octaverEngine) ParameterCount() int      { return 0 }
func (*octaverEngine) ParameterName(int) string { return "" }
func (*octaverEngine) SetParameter(int, float64) {}

func (*octaverEngine) Process(block [][]float64) {
	const amp = testToneAmplitude
	for _, ch := range block {
		for i, v := range ch {
			ch[i] = (2/amp)*v*v - amp
		}
	}
}

// hardClipEngine clips symmetrically; the drive parameter lowers the
// threshold. Used to verify that distortion is detected and graded down.
type hardClipEngine struct {
	drive float64
}

func (*hardClipEngine) Prepare(float64, int) {}
func (*hardClipEngine) Reset() {}
func (*hardClipEngine) ParameterCount() int  { return 1 }

func (*hardClipEngine) ParameterName(i int) string {
	if i == 0 {
		return "Drive"
	}
	return ""
}

func (e *hardClipEngine) SetParameter(i int, value float64) {
	if i == 0 {
		e.drive = core.Clamp(value, 0, 1)
	}
}

func (e *hardClipEngine) Process(block [][]float64) {
	threshold := testToneAmplitude * (1 - 0.8*e.drive)

	for _, ch := range block {
		for i, v := range ch {
			ch[i] = core.Clamp(v, -threshold, threshold)
		}
	}
}
