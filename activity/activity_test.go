package activity

import (
	"math"
	"testing"

	"github.com/processworks/flowsheet/component"
)

func newTestSet(t *testing.T, names ...string) *component.Set {
	t.Helper()
	cas, err := component.ResolveAll(names)
	if err != nil {
		t.Fatal(err)
	}
	set, err := component.NewSet(cas)
	if err != nil {
		t.Fatal(err)
	}
	return set
}

func TestNRTLIdealLimitAtPureComponent(t *testing.T) {
	set := newTestSet(t, "benzene", "toluene")
	m := NewNRTL(set)
	g := m.Gammas(350, []float64{0.9999, 0.0001})
	if math.Abs(g[0]-1) > 0.05 {
		t.Errorf("gamma1 near pure limit = %g, want close to 1", g[0])
	}
}

func TestUNIQUACSymmetricCompositionsFinite(t *testing.T) {
	set := newTestSet(t, "methanol", "water")
	m := NewUNIQUAC(set)
	g := m.Gammas(298.15, []float64{0.5, 0.5})
	for _, v := range g {
		if v != v || v <= 0 {
			t.Fatalf("non-finite or non-positive activity coefficient: %v", g)
		}
	}
}

func TestUNIFACDelegatesToUNIQUAC(t *testing.T) {
	set := newTestSet(t, "benzene", "toluene")
	uf := NewUNIFAC(set)
	uq := NewUNIQUAC(set)
	xs := []float64{0.3, 0.7}
	gf := uf.Gammas(330, xs)
	gq := uq.Gammas(330, xs)
	for i := range gf {
		if gf[i] != gq[i] {
			t.Errorf("UNIFAC[%d]=%g want equal to UNIQUAC %g", i, gf[i], gq[i])
		}
	}
}

func TestNewModelPanicsOnUnknownKind(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for unknown model kind")
		}
	}()
	set := newTestSet(t, "water")
	NewModel("bogus", set)
}
