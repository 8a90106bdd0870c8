package window

import (
	"math"
	"testing"
)

func TestHannShape(t *testing.T) {
	coeffs := Generate(TypeHann, 9)

	if len(coeffs) != 9 {
		t.Fatalf("len = %d, want 9", len(coeffs))
	}

	if math.Abs(coeffs[0]) > 1e-12 || math.Abs(coeffs[8]) > 1e-12 {
		t.Errorf("Hann endpoints = %v, %v, want 0", coeffs[0], coeffs[8])
	}

	if math.Abs(coeffs[4]-1) > 1e-12 {
		t.Errorf("Hann center = %v, want 1", coeffs[4])
	}
}

func TestSymmetry(t *testing.T) {
	for _, typ := range []Type{TypeHann, TypeHamming, TypeBlackman} {
		coeffs := Generate(typ, 64)
		for i := range coeffs {
			j := len(coeffs) - 1 - i
			if math.Abs(coeffs[i]-coeffs[j]) > 1e-12 {
				t.Fatalf("type %d asymmetric at %d: %v != %v", typ, i, coeffs[i], coeffs[j])
			}
		}
	}
}

func TestRectangular(t *testing.T) {
	for _, c := range Generate(TypeRectangular, 16) {
		if c != 1 {
			t.Fatalf("rectangular coefficient = %v, want 1", c)
		}
	}
}

func TestGenerateDegenerate(t *testing.T) {
	if got := Generate(TypeHann, 0); got != nil {
		t.Errorf("Generate(0) = %v, want nil", got)
	}

	one := Generate(TypeHann, 1)
	if len(one) != 1 || one[0] != 1 {
		t.Errorf("Generate(1) = %v, want [1]", one)
	}
}

func TestApplyCoefficients(t *testing.T) {
	samples := []float64{1, 2, 3, 4}
	coeffs := []float64{0.5, 0.5, 0.5, 0.5}

	out, err := ApplyCoefficients(samples, coeffs)
	if err != nil {
		t.Fatal(err)
	}

	want := []float64{0.5, 1, 1.5, 2}
	for i := range want {
		if math.Abs(out[i]-want[i]) > 1e-12 {
			t.Fatalf("out[%d] = %v, want %v", i, out[i], want[i])
		}
	}

	if samples[0] != 1 {
		t.Error("ApplyCoefficients must not mutate input")
	}

	if _, err := ApplyCoefficients(samples, coeffs[:2]); err == nil {
		t.Error("length mismatch should error")
	}
}

func TestApplyInPlace(t *testing.T) {
	buf := []float64{1, 1, 1, 1, 1}
	Apply(TypeHann, buf)

	if math.Abs(buf[0]) > 1e-12 || math.Abs(buf[2]-1) > 1e-12 {
		t.Errorf("Apply(Hann) = %v", buf)
	}
}
