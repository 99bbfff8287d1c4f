package flash

import (
	"math"
	"testing"

	"github.com/processworks/flowsheet/component"
	"github.com/processworks/flowsheet/proppkg"
)

func newTestEngine(t *testing.T, kind proppkg.Kind, names ...string) *Engine {
	t.Helper()
	cas, err := component.ResolveAll(names)
	if err != nil {
		t.Fatalf("ResolveAll(%v): %v", names, err)
	}
	set, err := component.NewSet(cas)
	if err != nil {
		t.Fatalf("NewSet: %v", err)
	}
	pkg, err := proppkg.New(kind, set, proppkg.BuildKijMatrix(set))
	if err != nil {
		t.Fatalf("proppkg.New: %v", err)
	}
	return New(pkg)
}

func TestPTFlashPureWaterLiquid(t *testing.T) {
	e := newTestEngine(t, proppkg.KindPR, "water")
	ss, err := e.PTFlash(298.15, 101325, []float64{1}, 1.0)
	if err != nil {
		t.Fatalf("PTFlash: %v", err)
	}
	if ss.Phase.String() != "liquid" {
		t.Errorf("phase = %s, want liquid at 25C/1atm", ss.Phase.String())
	}
	if ss.VaporFraction > 1e-3 {
		t.Errorf("vapor fraction = %v, want ~0", ss.VaporFraction)
	}
}

func TestPTFlashBenzeneTolueneTwoPhase(t *testing.T) {
	e := newTestEngine(t, proppkg.KindPR, "benzene", "toluene")
	ss, err := e.PTFlash(373.15, 101325, []float64{0.5, 0.5}, 1.0)
	if err != nil {
		t.Fatalf("PTFlash: %v", err)
	}
	if ss.Phase.String() != "two-phase" {
		t.Errorf("phase = %s, want two-phase at 100C/1atm for an equimolar benzene/toluene feed", ss.Phase.String())
	}
	if ss.Ys[0] <= ss.Zs[0] {
		t.Errorf("vapor should be enriched in the lighter component (benzene): Ys[0]=%v Zs[0]=%v", ss.Ys[0], ss.Zs[0])
	}
}

func TestPTFlashMassBalanceClosesAcrossPhaseSplit(t *testing.T) {
	e := newTestEngine(t, proppkg.KindPR, "benzene", "toluene")
	ss, err := e.PTFlash(373.15, 101325, []float64{0.5, 0.5}, 10.0)
	if err != nil {
		t.Fatalf("PTFlash: %v", err)
	}
	for i, z := range ss.Zs {
		recombined := ss.VaporFraction*ss.Ys[i] + ss.LiquidFraction*ss.Xs[i]
		if math.Abs(recombined-z) > 1e-6 {
			t.Errorf("component %d: vf*y+lf*x = %v, want %v", i, recombined, z)
		}
	}
}

func TestBubblePointAndDewPointBracketFlashTemperature(t *testing.T) {
	e := newTestEngine(t, proppkg.KindPR, "benzene", "toluene")
	zs := []float64{0.5, 0.5}
	tBub, err := e.BubblePointT(101325, zs)
	if err != nil {
		t.Fatalf("BubblePointT: %v", err)
	}
	tDew, err := e.DewPointT(101325, zs)
	if err != nil {
		t.Fatalf("DewPointT: %v", err)
	}
	if tBub >= tDew {
		t.Errorf("bubble point %v should be below dew point %v for a non-azeotropic binary", tBub, tDew)
	}
	mid := (tBub + tDew) / 2
	ss, err := e.PTFlash(mid, 101325, zs, 1.0)
	if err != nil {
		t.Fatalf("PTFlash at midpoint: %v", err)
	}
	if ss.Phase.String() != "two-phase" {
		t.Errorf("phase at midpoint T = %v, want two-phase (between bubble %v and dew %v)", ss.Phase.String(), tBub, tDew)
	}
}

func TestPHFlashRecoversInputEnthalpy(t *testing.T) {
	e := newTestEngine(t, proppkg.KindPR, "water")
	ref, err := e.PTFlash(298.15, 101325, []float64{1}, 1.0)
	if err != nil {
		t.Fatalf("PTFlash: %v", err)
	}
	ss, err := e.PHFlash(101325, ref.H, []float64{1}, 1.0)
	if err != nil {
		t.Fatalf("PHFlash: %v", err)
	}
	if math.Abs(ss.T-ref.T) > 0.5 {
		t.Errorf("PHFlash recovered T = %v, want close to the PTFlash source T = %v", ss.T, ref.T)
	}
}

func TestVLLEFlashSeparatesAqueousFromOilPhase(t *testing.T) {
	e := newTestEngine(t, proppkg.KindPR, "methane", "n-hexane", "water")
	gas, oil, water, err := e.VLLEFlash(333.15, 4e6, []float64{0.3, 0.4, 0.3}, 10.0)
	if err != nil {
		t.Fatalf("VLLEFlash: %v", err)
	}
	waterIdx := 2
	if water.Zs[waterIdx] < oil.Zs[waterIdx] {
		t.Errorf("aqueous phase water fraction %v should exceed oil phase water fraction %v", water.Zs[waterIdx], oil.Zs[waterIdx])
	}
	methaneIdx := 0
	if gas.Zs[methaneIdx] < oil.Zs[methaneIdx] {
		t.Errorf("gas phase methane fraction %v should exceed oil phase methane fraction %v", gas.Zs[methaneIdx], oil.Zs[methaneIdx])
	}
}

func TestIAPWSPureWaterSuperheatedVapor(t *testing.T) {
	e := newTestEngine(t, proppkg.KindIAPWS, "water")
	ss, err := e.PTFlash(473.15, 101325, []float64{1}, 1.0)
	if err != nil {
		t.Fatalf("PTFlash: %v", err)
	}
	if ss.Phase.String() != "vapor" {
		t.Errorf("phase = %s, want vapor at 200C/1atm", ss.Phase.String())
	}
	if ss.SpeedOfSound == nil || *ss.SpeedOfSound < 400 || *ss.SpeedOfSound > 700 {
		t.Errorf("speed of sound = %v, want a plausible steam value", ss.SpeedOfSound)
	}
}
