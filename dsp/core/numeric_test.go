package core

import (
	"math"
	"testing"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name            string
		value, min, max float64
		want            float64
	}{
		{"inside", 0.5, 0, 1, 0.5},
		{"below", -1, 0, 1, 0},
		{"above", 2, 0, 1, 1},
		{"at lower bound", 0, 0, 1, 0},
		{"at upper bound", 1, 0, 1, 1},
		{"swapped bounds", 0.5, 1, 0, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clamp(tt.value, tt.min, tt.max)
			if got != tt.want {
				t.Errorf("Clamp(%v, %v, %v) = %v, want %v", tt.value, tt.min, tt.max, got, tt.want)
			}
		})
	}
}

func TestLinearToDB(t *testing.T) {
	if got := LinearToDB(1); got != 0 {
		t.Errorf("LinearToDB(1) = %v, want 0", got)
	}

	if got := LinearToDB(0.5); math.Abs(got+6.0206) > 0.001 {
		t.Errorf("LinearToDB(0.5) = %v, want ~-6.02", got)
	}

	if got := LinearToDB(0); !math.IsInf(got, -1) {
		t.Errorf("LinearToDB(0) = %v, want -Inf", got)
	}

	if got := LinearToDB(-1); !math.IsNaN(got) {
		t.Errorf("LinearToDB(-1) = %v, want NaN", got)
	}
}

func TestDBRoundTrip(t *testing.T) {
	for _, db := range []float64{-60, -6, 0, 6, 20} {
		got := LinearToDB(DBToLinear(db))
		if math.Abs(got-db) > 1e-9 {
			t.Errorf("round trip %v dB = %v", db, got)
		}
	}
}

func TestLinearPowerToDB(t *testing.T) {
	if got := LinearPowerToDB(0.1); math.Abs(got+10) > 1e-9 {
		t.Errorf("LinearPowerToDB(0.1) = %v, want -10", got)
	}

	if got := LinearPowerToDB(0); !math.IsInf(got, -1) {
		t.Errorf("LinearPowerToDB(0) = %v, want -Inf", got)
	}
}

func TestRMS(t *testing.T) {
	if got := RMS(nil); got != 0 {
		t.Errorf("RMS(nil) = %v, want 0", got)
	}

	ones := []float64{1, 1, 1, 1}
	if got := RMS(ones); math.Abs(got-1) > 1e-12 {
		t.Errorf("RMS(ones) = %v, want 1", got)
	}

	alt := []float64{3, -3, 3, -3}
	if got := RMS(alt); math.Abs(got-3) > 1e-12 {
		t.Errorf("RMS(+-3) = %v, want 3", got)
	}
}

func TestNearlyEqual(t *testing.T) {
	if !NearlyEqual(1, 1+1e-13, 1e-12) {
		t.Error("values within eps should be nearly equal")
	}

	if NearlyEqual(1, 1.1, 1e-12) {
		t.Error("distant values should not be nearly equal")
	}
}
