package eos

import "testing"

func TestFindIndexBoundaries(t *testing.T) {
	xs := []float64{0, 0.2, 0.4, 0.6, 0.8, 1.0}
	tests := []struct {
		x    float64
		want int
	}{
		{-1, 0},
		{0, 0},
		{0.25, 1},
		{1.0, 4},
		{5, 4},
	}
	for _, tt := range tests {
		if got := findIndex(xs, tt.x); got != tt.want {
			t.Errorf("findIndex(%v) = %d, want %d", tt.x, got, tt.want)
		}
	}
}

func TestLeeKeslerZReferenceFluidNearIdeal(t *testing.T) {
	// At low reduced pressure and moderate reduced temperature, Z should sit
	// close to (but below) 1, same sanity bound as the virial correlation.
	z, err := LeeKeslerZ(0.1, 1.5, 0.3)
	if err != nil {
		t.Fatal(err)
	}
	if z <= 0 || z > 1.1 {
		t.Errorf("LeeKeslerZ(0.1, 1.5, 0.3) = %v, want close to 1", z)
	}
}

func TestKayRulePseudoCriticalSingleComponent(t *testing.T) {
	tc, pc, w := KayRulePseudoCritical([]float64{369.8}, []float64{4.25e6}, []float64{0.152}, []float64{1})
	if tc != 369.8 || pc != 4.25e6 || w != 0.152 {
		t.Errorf("KayRulePseudoCritical(single component) = (%v, %v, %v), want (369.8, 4.25e6, 0.152)", tc, pc, w)
	}
}

func TestKayRulePseudoCriticalWeightedAverage(t *testing.T) {
	tc, _, _ := KayRulePseudoCritical([]float64{300, 500}, []float64{1e6, 2e6}, []float64{0.1, 0.3}, []float64{0.5, 0.5})
	if tc < 300 || tc > 500 {
		t.Errorf("KayRulePseudoCritical Tc = %v, want between 300 and 500", tc)
	}
}
