package verify

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/cwbudde/algo-audioverify/quality"
)

// EngineSummary aggregates all valid runs of one engine.
type EngineSummary struct {
	EngineID   string
	EngineName string
	TotalRuns  int
	ValidRuns  int

	MeanTHDPercent     float64
	MeanSNRdB          float64
	MeanSmearingMs     float64
	MeanFormantShiftHz float64
	MeanNaturalness    float64
	MeanArtifactFlags  float64

	// AverageGrade maps each run's overall letter to its ordinal,
	// averages, and maps back. This deliberately differs from the
	// worst-link rule used for a single run's overall grade.
	AverageGrade      quality.Letter
	MeetsProStandards bool

	// Strengths and Issues are taken from the engine's first valid run
	// as a representative sample, not merged across runs.
	Strengths []string
	Issues    []string
}

// Report groups the runs of a sweep per engine.
type Report struct {
	Engines   []EngineSummary
	TotalRuns int
	ValidRuns int
}

// Aggregate builds the per-engine report from a completed sweep. Engines
// appear in first-seen order; engines whose runs all failed are reported
// with zero valid runs and fail pro standards.
func Aggregate(runs []TestRun) Report {
	report := Report{TotalRuns: len(runs)}

	order := make([]string, 0)
	grouped := make(map[string][]TestRun)

	for _, run := range runs {
		if _, seen := grouped[run.EngineID]; !seen {
			order = append(order, run.EngineID)
		}
		grouped[run.EngineID] = append(grouped[run.EngineID], run)

		if run.Valid {
			report.ValidRuns++
		}
	}

	for _, id := range order {
		report.Engines = append(report.Engines, summarize(grouped[id]))
	}

	return report
}

func summarize(runs []TestRun) EngineSummary {
	s := EngineSummary{
		EngineID:   runs[0].EngineID,
		EngineName: runs[0].EngineName,
		TotalRuns:  len(runs),
	}

	var (
		thd, snr, smear, shift, natural, flags, ordinals []float64
	)

	first := true
	pro := true

	for _, run := range runs {
		if !run.Valid {
			continue
		}

		s.ValidRuns++
		thd = append(thd, run.THDN.THDN*100)
		snr = append(snr, run.THDN.SNRdB)
		smear = append(smear, run.Transients.SmearingMs)
		shift = append(shift, run.Formants.MaxShiftHz)
		natural = append(natural, run.Naturalness.Overall)
		flags = append(flags, float64(run.Artifacts.FlagCount()))
		ordinals = append(ordinals, float64(run.Grade.Overall))

		pro = pro && run.Grade.MeetsProStandards

		if first {
			s.Strengths = run.Grade.Strengths
			s.Issues = run.Grade.Issues
			first = false
		}
	}

	if s.ValidRuns == 0 {
		s.AverageGrade = quality.GradeF
		return s
	}

	s.MeanTHDPercent = stat.Mean(thd, nil)
	s.MeanSNRdB = stat.Mean(snr, nil)
	s.MeanSmearingMs = stat.Mean(smear, nil)
	s.MeanFormantShiftHz = stat.Mean(shift, nil)
	s.MeanNaturalness = stat.Mean(natural, nil)
	s.MeanArtifactFlags = stat.Mean(flags, nil)
	s.AverageGrade = quality.LetterFromOrdinal(int(math.Round(stat.Mean(ordinals, nil))))
	s.MeetsProStandards = pro

	return s
}
