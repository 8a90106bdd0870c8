// Package quality turns analyzer measurements into a naturalness score and
// a deterministic letter grade per metric.
package quality

import (
	"github.com/cwbudde/algo-audioverify/measure/spectral"
	"github.com/cwbudde/algo-audioverify/measure/thdn"
)

// Rating buckets for the overall naturalness score.
const (
	RatingExcellent  = "Excellent"
	RatingGood       = "Good"
	RatingAcceptable = "Acceptable"
	RatingFair       = "Fair"
	RatingPoor       = "Poor"
)

const (
	centroidLowHz  = 1000.0
	centroidHighHz = 4000.0
	centroidSlope  = 100.0 // points lost per 100 Hz above the band

	rolloffLowHz  = 8000.0
	rolloffHighHz = 16000.0
	rolloffSlope  = 200.0 // points lost per 200 Hz above the band

	balancedEvenOddLow  = 0.5
	balancedEvenOddHigh = 2.0
)

// Score holds the four equally weighted naturalness components (0..100
// each), their mean, and the rating bucket.
type Score struct {
	Tonality        float64
	CentroidScore   float64
	RolloffScore    float64
	HarmonicBalance float64
	Overall         float64
	Rating          string
}

// ScoreNaturalness rates how natural the processed signal sounds from its
// spectral profile and THD+N measurement.
func ScoreNaturalness(sp spectral.Profile, th thdn.Result) Score {
	s := Score{
		Tonality:        clampScore((1 - sp.Flatness) * 100),
		CentroidScore:   bandScore(sp.CentroidHz, centroidLowHz, centroidHighHz, centroidSlope),
		RolloffScore:    bandScore(sp.RolloffHz, rolloffLowHz, rolloffHighHz, rolloffSlope),
		HarmonicBalance: 50,
	}

	if th.EvenOddRatio >= balancedEvenOddLow && th.EvenOddRatio <= balancedEvenOddHigh {
		s.HarmonicBalance = 100
	}

	s.Overall = (s.Tonality + s.CentroidScore + s.RolloffScore + s.HarmonicBalance) / 4
	s.Rating = rating(s.Overall)

	return s
}

// bandScore is 100 inside [lo, hi], ramps linearly from 0 at zero up to lo,
// and decays above hi losing 100 points per slope Hz.
func bandScore(value, lo, hi, slope float64) float64 {
	switch {
	case value < lo:
		return clampScore(value / lo * 100)
	case value <= hi:
		return 100
	default:
		return clampScore(100 - (value-hi)/slope)
	}
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func rating(overall float64) string {
	switch {
	case overall >= 90:
		return RatingExcellent
	case overall >= 75:
		return RatingGood
	case overall >= 60:
		return RatingAcceptable
	case overall >= 40:
		return RatingFair
	default:
		return RatingPoor
	}
}
