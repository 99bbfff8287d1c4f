package unitops

import (
	"math"
	"testing"

	"github.com/processworks/flowsheet/component"
	"github.com/processworks/flowsheet/flash"
	"github.com/processworks/flowsheet/proppkg"
	"github.com/processworks/flowsheet/stream"
)

func newTestEngine(t *testing.T, kind proppkg.Kind, names ...string) *flash.Engine {
	t.Helper()
	cas, err := component.ResolveAll(names)
	if err != nil {
		t.Fatalf("ResolveAll: %v", err)
	}
	set, err := component.NewSet(cas)
	if err != nil {
		t.Fatalf("NewSet: %v", err)
	}
	pkg, err := proppkg.New(kind, set, proppkg.BuildKijMatrix(set))
	if err != nil {
		t.Fatalf("proppkg.New: %v", err)
	}
	return flash.New(pkg)
}

func waterFeed(t *testing.T, e *flash.Engine, T, P, molarFlow float64) *stream.StreamState {
	t.Helper()
	ss, err := e.PTFlash(T, P, []float64{1}, molarFlow)
	if err != nil {
		t.Fatalf("PTFlash: %v", err)
	}
	return ss
}

func TestPumpRaisesPressureAndReportsPositiveDuty(t *testing.T) {
	e := newTestEngine(t, proppkg.KindPR, "water")
	feed := waterFeed(t, e, 298.15, 101325, 1.0)

	pump := NewPump("P1", "P1", e, 1e6, 0.75)
	out, err := pump.Calculate(map[string]*stream.StreamState{"in": feed})
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	product := out["out"]
	if math.Abs(product.P-1e6) > 1 {
		t.Errorf("outlet pressure = %v, want 1e6", product.P)
	}
	if pump.Diag.DutyW <= 0 {
		t.Errorf("pump duty = %v, want positive", pump.Diag.DutyW)
	}
	if product.T < feed.T {
		t.Errorf("pump should not cool the liquid: outlet T=%v, inlet T=%v", product.T, feed.T)
	}
}

func TestValvePassesThroughWhenOutletNotBelowInlet(t *testing.T) {
	e := newTestEngine(t, proppkg.KindPR, "water")
	feed := waterFeed(t, e, 298.15, 101325, 1.0)

	v := NewValve("V1", "V1", e, 200000) // above inlet pressure
	out, err := v.Calculate(map[string]*stream.StreamState{"in": feed})
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if out["out"].P != feed.P {
		t.Errorf("expected pass-through pressure %v, got %v", feed.P, out["out"].P)
	}
	if len(v.Diag.Warnings) == 0 {
		t.Error("expected a warning for a non-reducing valve")
	}
}

func TestValveIsenthalpicPressureDrop(t *testing.T) {
	e := newTestEngine(t, proppkg.KindPR, "water")
	feed := waterFeed(t, e, 298.15, 500000, 1.0)

	v := NewValve("V1", "V1", e, 101325)
	out, err := v.Calculate(map[string]*stream.StreamState{"in": feed})
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if math.Abs(out["out"].H-feed.H) > 1e-3*math.Abs(feed.H) {
		t.Errorf("valve should conserve enthalpy: in.H=%v out.H=%v", feed.H, out["out"].H)
	}
}

func TestMixerConservesMolarFlowAndUsesMinimumPressure(t *testing.T) {
	e := newTestEngine(t, proppkg.KindPR, "water")
	a := waterFeed(t, e, 298.15, 300000, 1.0)
	b := waterFeed(t, e, 310.15, 200000, 2.0)

	m := NewMixer("M1", "M1", e)
	out, err := m.Calculate(map[string]*stream.StreamState{"in-1": a, "in-2": b})
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	product := out["out"]
	if math.Abs(product.MolarFlow-3.0) > 1e-6 {
		t.Errorf("mixer outlet molar flow = %v, want 3.0", product.MolarFlow)
	}
	if math.Abs(product.P-200000) > 1 {
		t.Errorf("mixer outlet pressure = %v, want the lower inlet pressure 200000", product.P)
	}
}

func TestSplitterApportionsFlowByFraction(t *testing.T) {
	e := newTestEngine(t, proppkg.KindPR, "water")
	feed := waterFeed(t, e, 298.15, 101325, 10.0)

	s := NewSplitter("S1", "S1", e, []string{"out-1", "out-2"}, []float64{0.3, 0.7})
	out, err := s.Calculate(map[string]*stream.StreamState{"in": feed})
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if math.Abs(out["out-1"].MolarFlow-3.0) > 1e-6 {
		t.Errorf("out-1 molar flow = %v, want 3.0", out["out-1"].MolarFlow)
	}
	if math.Abs(out["out-2"].MolarFlow-7.0) > 1e-6 {
		t.Errorf("out-2 molar flow = %v, want 7.0", out["out-2"].MolarFlow)
	}
}

func TestFlashDrumSeparatesVaporAndLiquidByKey(t *testing.T) {
	e := newTestEngine(t, proppkg.KindPR, "benzene", "toluene")
	feedStream, err := e.PTFlash(373.15, 101325, []float64{0.5, 0.5}, 10.0)
	if err != nil {
		t.Fatalf("PTFlash: %v", err)
	}

	fd := NewFlashDrum("F1", "F1", e)
	out, err := fd.Calculate(map[string]*stream.StreamState{"feed": feedStream})
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	vap, vok := out["vapor"]
	liq, lok := out["liquid"]
	if !vok || !lok {
		t.Fatalf("expected both vapor and liquid outlets, got %+v", out)
	}
	if vap.Zs[0] <= liq.Zs[0] {
		t.Errorf("vapor benzene fraction %v should exceed liquid benzene fraction %v", vap.Zs[0], liq.Zs[0])
	}
	totalFlow := vap.MolarFlow + liq.MolarFlow
	if math.Abs(totalFlow-feedStream.MolarFlow) > 1e-6 {
		t.Errorf("total outlet molar flow = %v, want %v", totalFlow, feedStream.MolarFlow)
	}
}

func TestDecodeParamsUnknownKindReturnsError(t *testing.T) {
	e := newTestEngine(t, proppkg.KindPR, "water")
	if _, err := DecodeParams("NotAUnit", "X1", "X1", Params{}, e); err == nil {
		t.Error("expected an error for an unrecognized unit kind")
	}
}

func TestDecodeParamsPumpRequiresOutletPressure(t *testing.T) {
	e := newTestEngine(t, proppkg.KindPR, "water")
	if _, err := DecodeParams("Pump", "P1", "P1", Params{}, e); err == nil {
		t.Error("expected an error when outlet_pressure_pa is missing")
	}
	u, err := DecodeParams("Pump", "P1", "P1", Params{"outlet_pressure_pa": 1e6, "efficiency": 0.8}, e)
	if err != nil {
		t.Fatalf("DecodeParams: %v", err)
	}
	if u.Kind() != "Pump" {
		t.Errorf("Kind() = %s, want Pump", u.Kind())
	}
}
