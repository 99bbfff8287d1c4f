package unitops

import (
	"fmt"

	"github.com/processworks/flowsheet/flash"
	"github.com/processworks/flowsheet/stream"
)

// HeaterCooler adds or removes duty from a stream at constant pressure
// (minus an optional pressure drop), specified by exactly one of a target
// outlet temperature, a target outlet vapor fraction, or a fixed duty
// Exactly one of OutletTemperature/OutletVaporFraction/Duty
// should be non-nil; the first non-nil field in that order wins.
type HeaterCooler struct {
	Base
	OutletTemperature  *float64 // K
	OutletVaporFraction *float64
	Duty                *float64 // W, signed: positive heats, negative cools
	PressureDrop        float64  // Pa
}

func NewHeaterCoolerDuty(id, name string, engine *flash.Engine, duty, pressureDrop float64) *HeaterCooler {
	return &HeaterCooler{Base: Base{ID: id, Name: name, Engine: engine}, Duty: &duty, PressureDrop: pressureDrop}
}

func NewHeaterCoolerTemperature(id, name string, engine *flash.Engine, outletT, pressureDrop float64) *HeaterCooler {
	return &HeaterCooler{Base: Base{ID: id, Name: name, Engine: engine}, OutletTemperature: &outletT, PressureDrop: pressureDrop}
}

func (h *HeaterCooler) Kind() string { return "HeaterCooler" }

func (h *HeaterCooler) Calculate(inlets map[string]*stream.StreamState) (map[string]*stream.StreamState, error) {
	in, ok := inlets["in"]
	if !ok {
		return nil, fmt.Errorf("unitops: HeaterCooler %s missing inlet port", h.ID)
	}
	P := in.P - h.PressureDrop
	if P <= 0 {
		return nil, fmt.Errorf("unitops: HeaterCooler %s pressure drop exceeds inlet pressure", h.ID)
	}

	var out *stream.StreamState
	var err error
	switch {
	case h.OutletTemperature != nil:
		out, err = h.Engine.PTFlash(*h.OutletTemperature, P, in.Zs, in.MolarFlow)
	case h.OutletVaporFraction != nil:
		out, err = h.Engine.PVFFlash(P, *h.OutletVaporFraction, in.Zs, in.MolarFlow)
	case h.Duty != nil:
		H := in.H + *h.Duty/in.MolarFlow
		out, err = h.Engine.PHFlash(P, H, in.Zs, in.MolarFlow)
	default:
		return nil, fmt.Errorf("unitops: HeaterCooler %s has no specification", h.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("unitops: HeaterCooler %s: %w", h.ID, err)
	}
	h.Diag.DutyW = (out.H - in.H) * in.MolarFlow
	if h.PressureDrop > 0 {
		pd := h.PressureDrop
		h.Diag.PressureDropPa = &pd
	}
	return map[string]*stream.StreamState{"out": out}, nil
}
