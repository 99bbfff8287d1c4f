package eos

import "testing"

func TestVolumeRootsPureWaterLiquidLike(t *testing.T) {
	m, err := NewMixture(PR, []float64{647.1}, []float64{22064000}, []float64{0.3449}, nil)
	if err != nil {
		t.Fatal(err)
	}
	roots, _, err := m.VolumeRoots(298.15, 101325, []float64{1})
	if err != nil {
		t.Fatal(err)
	}
	if len(roots) == 0 {
		t.Fatal("expected at least one real root")
	}
	// Liquid water molar volume is on the order of 1.8e-5 m3/mol.
	v := roots[0]
	if v <= 0 || v > 1e-3 {
		t.Errorf("liquid-like root = %g, want a small positive volume", v)
	}
}

func TestSaturationPressureBelowCritical(t *testing.T) {
	m, err := NewMixture(PR, []float64{647.1}, []float64{22064000}, []float64{0.3449}, nil)
	if err != nil {
		t.Fatal(err)
	}
	psat, err := m.SaturationPressure(0, 373.15)
	if err != nil {
		t.Fatal(err)
	}
	if psat < 80000 || psat > 130000 {
		t.Errorf("Psat(373.15K) = %g Pa, want close to 101325 Pa", psat)
	}
}

func TestMixtureFugacitiesFiniteAndBoundedComposition(t *testing.T) {
	m, err := NewMixture(PR,
		[]float64{562.05, 591.75},
		[]float64{4895000, 4108000},
		[]float64{0.2103, 0.2657}, nil)
	if err != nil {
		t.Fatal(err)
	}
	zs := []float64{0.5, 0.5}
	roots, mp, err := m.VolumeRoots(373.15, 101325, zs)
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range roots {
		Z := 101325 * v / (R * 373.15)
		phis := m.LnPhi(373.15, 101325, Z, zs, mp)
		for _, p := range phis {
			if p != p { // NaN check
				t.Fatalf("NaN fugacity coefficient")
			}
		}
	}
}
