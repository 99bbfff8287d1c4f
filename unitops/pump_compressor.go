package unitops

import (
	"fmt"
	"math"

	"github.com/processworks/flowsheet/flash"
	"github.com/processworks/flowsheet/stream"
)

// Pump raises the pressure of a liquid stream isentropically (ideal) then
// applies an efficiency to get the actual enthalpy rise, matching the
// Compressor pattern below but expected to operate on a liquid feed.
type Pump struct {
	Base
	OutletPressure float64
	Efficiency     float64 // 0 < eff <= 1
}

func NewPump(id, name string, engine *flash.Engine, outletPressure, efficiency float64) *Pump {
	if efficiency <= 0 {
		efficiency = 1
	}
	return &Pump{Base: Base{ID: id, Name: name, Engine: engine}, OutletPressure: outletPressure, Efficiency: efficiency}
}

func (p *Pump) Kind() string { return "Pump" }

func (p *Pump) Calculate(inlets map[string]*stream.StreamState) (map[string]*stream.StreamState, error) {
	in, ok := inlets["in"]
	if !ok {
		return nil, fmt.Errorf("unitops: Pump %s missing inlet port", p.ID)
	}
	out, duty, err := isentropicStep(p.Engine, in, p.OutletPressure, p.Efficiency, true)
	if err != nil {
		return nil, fmt.Errorf("unitops: Pump %s: %w", p.ID, err)
	}
	p.Diag.DutyW = duty
	eff := p.Efficiency
	p.Diag.Efficiency = &eff
	return map[string]*stream.StreamState{"out": out}, nil
}

// Compressor raises a vapor stream's pressure via an isentropic step with
// efficiency, the single-stage special case of MultiStageCompressor.
type Compressor struct {
	Base
	OutletPressure float64
	Efficiency     float64
}

func NewCompressor(id, name string, engine *flash.Engine, outletPressure, efficiency float64) *Compressor {
	if efficiency <= 0 {
		efficiency = 0.75
	}
	return &Compressor{Base: Base{ID: id, Name: name, Engine: engine}, OutletPressure: outletPressure, Efficiency: efficiency}
}

func (c *Compressor) Kind() string { return "Compressor" }

func (c *Compressor) Calculate(inlets map[string]*stream.StreamState) (map[string]*stream.StreamState, error) {
	in, ok := inlets["in"]
	if !ok {
		return nil, fmt.Errorf("unitops: Compressor %s missing inlet port", c.ID)
	}
	if in.VaporFraction < 0.9999 {
		c.Diag.warn("compressor inlet is not fully vapor; results assume single-phase compression")
	}
	out, duty, err := isentropicStep(c.Engine, in, c.OutletPressure, c.Efficiency, true)
	if err != nil {
		return nil, fmt.Errorf("unitops: Compressor %s: %w", c.ID, err)
	}
	c.Diag.DutyW = duty
	eff := c.Efficiency
	c.Diag.Efficiency = &eff
	return map[string]*stream.StreamState{"out": out}, nil
}

// MultiStageCompressor splits the overall pressure ratio evenly across
// NStages isentropic stages, each at the same efficiency, with an ideal
// intercooler returning the stream to InterstageTemperature between stages
// (nil disables intercooling).
type MultiStageCompressor struct {
	Base
	OutletPressure        float64
	Efficiency             float64
	NStages                int
	InterstageTemperature *float64 // K, nil disables intercooling
}

func NewMultiStageCompressor(id, name string, engine *flash.Engine, outletPressure, efficiency float64, nStages int, interstageT *float64) *MultiStageCompressor {
	if nStages < 1 {
		nStages = 1
	}
	if efficiency <= 0 {
		efficiency = 0.75
	}
	return &MultiStageCompressor{Base: Base{ID: id, Name: name, Engine: engine}, OutletPressure: outletPressure, Efficiency: efficiency, NStages: nStages, InterstageTemperature: interstageT}
}

func (m *MultiStageCompressor) Kind() string { return "MultiStageCompressor" }

func (m *MultiStageCompressor) Calculate(inlets map[string]*stream.StreamState) (map[string]*stream.StreamState, error) {
	in, ok := inlets["in"]
	if !ok {
		return nil, fmt.Errorf("unitops: MultiStageCompressor %s missing inlet port", m.ID)
	}
	ratio := math.Pow(m.OutletPressure/in.P, 1.0/float64(m.NStages))
	cur := in
	var totalDuty float64
	for stage := 0; stage < m.NStages; stage++ {
		pOut := cur.P * ratio
		if stage == m.NStages-1 {
			pOut = m.OutletPressure
		}
		out, duty, err := isentropicStep(m.Engine, cur, pOut, m.Efficiency, true)
		if err != nil {
			return nil, fmt.Errorf("unitops: MultiStageCompressor %s stage %d: %w", m.ID, stage+1, err)
		}
		totalDuty += duty
		if m.InterstageTemperature != nil && stage < m.NStages-1 {
			cooled, err := m.Engine.PTFlash(*m.InterstageTemperature, out.P, out.Zs, out.MolarFlow)
			if err != nil {
				return nil, fmt.Errorf("unitops: MultiStageCompressor %s intercooler stage %d: %w", m.ID, stage+1, err)
			}
			m.Diag.extra(fmt.Sprintf("intercooler_duty_stage_%d_W", stage+1), (cooled.H-out.H)*out.MolarFlow)
			out = cooled
		}
		cur = out
	}
	m.Diag.DutyW = totalDuty
	eff := m.Efficiency
	m.Diag.Efficiency = &eff
	m.Diag.extra("n_stages", m.NStages)
	return map[string]*stream.StreamState{"out": cur}, nil
}

// Turbine (expander) drops a vapor stream's pressure via an isentropic step
// with efficiency, recovering shaft work instead of consuming it.
type Turbine struct {
	Base
	OutletPressure float64
	Efficiency     float64
}

func NewTurbine(id, name string, engine *flash.Engine, outletPressure, efficiency float64) *Turbine {
	if efficiency <= 0 {
		efficiency = 0.8
	}
	return &Turbine{Base: Base{ID: id, Name: name, Engine: engine}, OutletPressure: outletPressure, Efficiency: efficiency}
}

func (t *Turbine) Kind() string { return "Turbine" }

func (t *Turbine) Calculate(inlets map[string]*stream.StreamState) (map[string]*stream.StreamState, error) {
	in, ok := inlets["in"]
	if !ok {
		return nil, fmt.Errorf("unitops: Turbine %s missing inlet port", t.ID)
	}
	out, duty, err := isentropicStep(t.Engine, in, t.OutletPressure, t.Efficiency, false)
	if err != nil {
		return nil, fmt.Errorf("unitops: Turbine %s: %w", t.ID, err)
	}
	t.Diag.DutyW = duty
	eff := t.Efficiency
	t.Diag.Efficiency = &eff
	return map[string]*stream.StreamState{"out": out}, nil
}

// isentropicStep flashes in to outletP at constant entropy to get the ideal
// outlet enthalpy, then applies efficiency to get the actual enthalpy: for a
// compression step (isCompression true) actual work exceeds ideal work by
// 1/eff; for an expansion step actual work recovered is eff times ideal.
// Returns the actual outlet state and the shaft duty (W, positive = power
// consumed by the stream, negative = power delivered by the stream).
func isentropicStep(e *flash.Engine, in *stream.StreamState, outletP, eff float64, isCompression bool) (*stream.StreamState, float64, error) {
	ideal, err := e.PSFlash(outletP, in.S, in.Zs, in.MolarFlow)
	if err != nil {
		return nil, 0, err
	}
	idealDH := ideal.H - in.H
	var actualDH float64
	if isCompression {
		actualDH = idealDH / eff
	} else {
		actualDH = idealDH * eff
	}
	Hout := in.H + actualDH
	out, err := e.PHFlash(outletP, Hout, in.Zs, in.MolarFlow)
	if err != nil {
		return nil, 0, err
	}
	duty := actualDH * in.MolarFlow
	return out, duty, nil
}
