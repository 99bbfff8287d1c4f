package unitops

import (
	"fmt"

	"github.com/processworks/flowsheet/flash"
	"github.com/processworks/flowsheet/stream"
)

// Valve is an isenthalpic pressure-reduction device: the outlet is a PH
// flash at the inlet enthalpy and the specified outlet pressure.
// Joule-Thomson cooling falls out of the PH flash naturally since the
// flash engine's departure functions make H a function of both T and P.
type Valve struct {
	Base
	OutletPressure float64 // Pa
}

func NewValve(id, name string, engine *flash.Engine, outletPressure float64) *Valve {
	return &Valve{Base: Base{ID: id, Name: name, Engine: engine}, OutletPressure: outletPressure}
}

func (v *Valve) Kind() string { return "Valve" }

func (v *Valve) Calculate(inlets map[string]*stream.StreamState) (map[string]*stream.StreamState, error) {
	in, ok := inlets["in"]
	if !ok {
		return nil, fmt.Errorf("unitops: Valve %s missing inlet port", v.ID)
	}
	if v.OutletPressure >= in.P {
		v.Diag.warn("valve outlet pressure is not below inlet pressure; passing stream through unchanged")
		return map[string]*stream.StreamState{"out": in.Clone()}, nil
	}
	out, err := v.Engine.PHFlash(v.OutletPressure, in.H, in.Zs, in.MolarFlow)
	if err != nil {
		return nil, fmt.Errorf("unitops: Valve %s: %w", v.ID, err)
	}
	v.Diag.DutyW = 0
	if out.T < in.T-0.01 {
		v.Diag.extra("joule_thomson_drop_K", in.T-out.T)
	}
	return map[string]*stream.StreamState{"out": out}, nil
}
