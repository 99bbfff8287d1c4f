package unitops

import (
	"fmt"

	"github.com/processworks/flowsheet/flash"
	"github.com/processworks/flowsheet/stream"
)

// Mixer combines an arbitrary number of inlet streams into one outlet at the
// lowest inlet pressure, conserving molar flow and enthalpy
// flow via a PH flash at the blended composition.
type Mixer struct {
	Base
	OutletPressureOverride *float64 // Pa, overrides the min-inlet-pressure rule
}

func NewMixer(id, name string, engine *flash.Engine) *Mixer {
	return &Mixer{Base: Base{ID: id, Name: name, Engine: engine}}
}

func (m *Mixer) Kind() string { return "Mixer" }

func (m *Mixer) Calculate(inlets map[string]*stream.StreamState) (map[string]*stream.StreamState, error) {
	if len(inlets) == 0 {
		return nil, fmt.Errorf("unitops: Mixer %s has no inlets", m.ID)
	}
	states := make([]*stream.StreamState, 0, len(inlets))
	for _, s := range inlets {
		states = append(states, s)
	}
	n := states[0].Components.N()
	zs, totalFlow := weightedMix(states, n)

	P := minPressure(states)
	if m.OutletPressureOverride != nil {
		P = *m.OutletPressureOverride
	}

	var Hflow float64
	for _, s := range states {
		Hflow += s.H * s.MolarFlow
	}
	var H float64
	if totalFlow > 0 {
		H = Hflow / totalFlow
	}

	out, err := m.Engine.PHFlash(P, H, zs, totalFlow)
	if err != nil {
		return nil, fmt.Errorf("unitops: Mixer %s: %w", m.ID, err)
	}
	for _, s := range states {
		if s.P > P+1e-6 {
			m.Diag.warn(fmt.Sprintf("inlet at %.0f Pa throttled to mixer outlet pressure %.0f Pa", s.P, P))
		}
	}
	return map[string]*stream.StreamState{"out": out}, nil
}
