package quality

import (
	"fmt"

	"github.com/cwbudde/algo-audioverify/measure/artifact"
	"github.com/cwbudde/algo-audioverify/measure/formant"
	"github.com/cwbudde/algo-audioverify/measure/thdn"
	"github.com/cwbudde/algo-audioverify/measure/transient"
)

// Letter is a quality grade from A (best) to F.
type Letter int

const (
	GradeA Letter = iota
	GradeB
	GradeC
	GradeD
	GradeF
)

// String returns the letter as text.
func (l Letter) String() string {
	switch l {
	case GradeA:
		return "A"
	case GradeB:
		return "B"
	case GradeC:
		return "C"
	case GradeD:
		return "D"
	default:
		return "F"
	}
}

// LetterFromOrdinal maps an ordinal (A=0 .. F=4) back to a Letter,
// clamping out-of-range values. Inverse of int(Letter) for aggregation.
func LetterFromOrdinal(ordinal int) Letter {
	if ordinal < int(GradeA) {
		return GradeA
	}
	if ordinal > int(GradeF) {
		return GradeF
	}
	return Letter(ordinal)
}

// Grade holds the six per-metric letters, the overall worst-link grade,
// and the pro-standards verdict with issue/strength notes.
type Grade struct {
	THD         Letter
	SNR         Letter
	Artifacts   Letter
	Transients  Letter
	Formants    Letter
	Naturalness Letter

	// Overall is the worst of the six metric letters, never an average.
	Overall           Letter
	MeetsProStandards bool
	Issues            []string
	Strengths         []string
}

// Pro-standard limits. Artifact count and formant shift append issues but
// do not clear the pro verdict.
const (
	proTHDPercentLimit = 5.0
	proSNRLimitDB      = 80.0
)

// GradeRun grades one measurement set with the fixed rule table.
//
//nolint:funlen
func GradeRun(th thdn.Result, art artifact.Profile, tr transient.Profile, fm formant.Profile, nat Score) Grade {
	thdPercent := th.THDN * 100
	flags := art.FlagCount()

	g := Grade{
		THD:               gradeBelow(thdPercent, 1, 3, 5, 10),
		SNR:               gradeAtLeast(th.SNRdB, 96, 90, 80, 70),
		Artifacts:         gradeBelow(float64(flags), 1, 2, 3, 4),
		Transients:        gradeBelow(tr.SmearingMs, 2, 3.5, 5, 10),
		Formants:          gradeBelow(fm.MaxShiftHz, 20, 35, 50, 75),
		Naturalness:       gradeAtLeast(nat.Overall, 90, 75, 60, 40),
		MeetsProStandards: true,
	}

	g.Overall = worst(g.THD, g.SNR, g.Artifacts, g.Transients, g.Formants, g.Naturalness)

	if thdPercent >= proTHDPercentLimit {
		g.MeetsProStandards = false
		g.Issues = append(g.Issues, fmt.Sprintf("high harmonic distortion: %.2f%%", thdPercent))
	} else if g.THD == GradeA {
		g.Strengths = append(g.Strengths, "very low harmonic distortion")
	}

	if th.SNRdB < proSNRLimitDB {
		g.MeetsProStandards = false
		g.Issues = append(g.Issues, fmt.Sprintf("poor signal-to-noise ratio: %.1f dB", th.SNRdB))
	} else if g.SNR == GradeA {
		g.Strengths = append(g.Strengths, "excellent noise performance")
	}

	if flags > 0 {
		g.Issues = append(g.Issues, fmt.Sprintf("%d artifact flag(s) raised", flags))
	} else {
		g.Strengths = append(g.Strengths, "no audible artifacts detected")
	}

	if !tr.Preserved {
		g.MeetsProStandards = false
		g.Issues = append(g.Issues, fmt.Sprintf("transient smearing: %.1f ms", tr.SmearingMs))
	} else if g.Transients == GradeA {
		g.Strengths = append(g.Strengths, "transients preserved")
	}

	if !fm.Preserved {
		g.Issues = append(g.Issues, fmt.Sprintf("formant shift: %.0f Hz", fm.MaxShiftHz))
	} else if g.Formants == GradeA {
		g.Strengths = append(g.Strengths, "formants preserved")
	}

	if g.Naturalness >= GradeD {
		g.Issues = append(g.Issues, fmt.Sprintf("unnatural sound: %s", nat.Rating))
	} else if g.Naturalness == GradeA {
		g.Strengths = append(g.Strengths, "natural sound quality")
	}

	return g
}

// gradeBelow grades a lower-is-better value against ascending limits.
func gradeBelow(value, a, b, c, d float64) Letter {
	switch {
	case value < a:
		return GradeA
	case value < b:
		return GradeB
	case value < c:
		return GradeC
	case value < d:
		return GradeD
	default:
		return GradeF
	}
}

// gradeAtLeast grades a higher-is-better value against descending limits.
func gradeAtLeast(value, a, b, c, d float64) Letter {
	switch {
	case value >= a:
		return GradeA
	case value >= b:
		return GradeB
	case value >= c:
		return GradeC
	case value >= d:
		return GradeD
	default:
		return GradeF
	}
}

// worst returns the weakest (highest ordinal) of the given letters.
func worst(letters ...Letter) Letter {
	w := GradeA
	for _, l := range letters {
		if l > w {
			w = l
		}
	}
	return w
}
