package unitops

import (
	"fmt"

	"github.com/processworks/flowsheet/flash"
	"github.com/processworks/flowsheet/stream"
)

// FlashDrum performs a PH flash at the outlet pressure and the inlet
// enthalpy plus Duty (adiabatic when Duty is nil), so the drum temperature
// comes from the energy balance and is not set to a specified or inlet
// temperature. The result is split into separate vapor and liquid outlet
// streams, each at its own phase composition and the combined drum's flow
// share.
type FlashDrum struct {
	Base
	OutletPressure *float64 // Pa, defaults to inlet pressure minus PressureDrop
	Duty           *float64 // W, default 0 (adiabatic)
	PressureDrop   float64
}

func NewFlashDrum(id, name string, engine *flash.Engine) *FlashDrum {
	return &FlashDrum{Base: Base{ID: id, Name: name, Engine: engine}}
}

func (f *FlashDrum) Kind() string { return "FlashDrum" }

func (f *FlashDrum) Calculate(inlets map[string]*stream.StreamState) (map[string]*stream.StreamState, error) {
	in, ok := inlets["feed"]
	if !ok {
		return nil, fmt.Errorf("unitops: FlashDrum %s missing feed port", f.ID)
	}
	P := in.P - f.PressureDrop
	if f.OutletPressure != nil {
		P = *f.OutletPressure
	}
	duty := 0.0
	if f.Duty != nil {
		duty = *f.Duty
	}
	H := in.H + duty/in.MolarFlow

	bulk, err := f.Engine.PHFlash(P, H, in.Zs, in.MolarFlow)
	if err != nil {
		return nil, fmt.Errorf("unitops: FlashDrum %s: %w", f.ID, err)
	}
	f.Diag.DutyW = duty

	out := map[string]*stream.StreamState{}
	if bulk.VaporFraction > 1e-6 {
		vap, err := f.Engine.PTFlash(bulk.T, bulk.P, bulk.Ys, bulk.MolarFlow*bulk.VaporFraction)
		if err != nil {
			return nil, fmt.Errorf("unitops: FlashDrum %s vapor outlet: %w", f.ID, err)
		}
		out["vapor"] = vap
	} else {
		out["vapor"] = stream.ZeroFlowSentinel(in.Components, bulk.T, bulk.P, bulk.Zs, stream.Vapor)
	}
	if bulk.VaporFraction < 1-1e-6 {
		liq, err := f.Engine.PTFlash(bulk.T, bulk.P, bulk.Xs, bulk.MolarFlow*(1-bulk.VaporFraction))
		if err != nil {
			return nil, fmt.Errorf("unitops: FlashDrum %s liquid outlet: %w", f.ID, err)
		}
		out["liquid"] = liq
	} else {
		out["liquid"] = stream.ZeroFlowSentinel(in.Components, bulk.T, bulk.P, bulk.Zs, stream.Liquid)
	}
	return out, nil
}

// ThreePhaseSeparator performs a VLLE flash and splits the result into
// vapor, primary (organic) liquid, and secondary (aqueous) liquid outlets.
type ThreePhaseSeparator struct {
	Base
	PressureDrop float64
}

func NewThreePhaseSeparator(id, name string, engine *flash.Engine) *ThreePhaseSeparator {
	return &ThreePhaseSeparator{Base: Base{ID: id, Name: name, Engine: engine}}
}

func (t *ThreePhaseSeparator) Kind() string { return "ThreePhaseSeparator" }

func (t *ThreePhaseSeparator) Calculate(inlets map[string]*stream.StreamState) (map[string]*stream.StreamState, error) {
	in, ok := inlets["feed"]
	if !ok {
		return nil, fmt.Errorf("unitops: ThreePhaseSeparator %s missing feed port", t.ID)
	}
	P := in.P - t.PressureDrop
	gas, liq1, liq2, err := t.Engine.VLLEFlash(in.T, P, in.Zs, in.MolarFlow)
	if err != nil {
		return nil, fmt.Errorf("unitops: ThreePhaseSeparator %s: %w", t.ID, err)
	}
	if len(gas.Warnings) > 0 {
		t.Diag.Warnings = append(t.Diag.Warnings, gas.Warnings...)
	}
	return map[string]*stream.StreamState{
		"gas":   gas,
		"oil":   liq1,
		"water": liq2,
	}, nil
}
