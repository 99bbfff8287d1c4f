package unitops

import (
	"fmt"
	"math"

	"github.com/processworks/flowsheet/flash"
	"github.com/processworks/flowsheet/stream"
)

// HeatExchanger transfers heat between a hot and a cold inlet, either at a
// fixed duty or sized from a UA rating and the log-mean temperature
// difference with a counterflow correction factor Ft. Each side has its
// own pressure drop (HotPressureDrop, ColdPressureDrop).
type HeatExchanger struct {
	Base
	Duty         *float64 // W, rating mode when nil
	UA           *float64 // W/K, required when Duty is nil
	Ft           float64  // counterflow correction factor, default 1
	HotPressureDrop, ColdPressureDrop float64
}

func NewHeatExchangerDuty(id, name string, engine *flash.Engine, duty float64) *HeatExchanger {
	return &HeatExchanger{Base: Base{ID: id, Name: name, Engine: engine}, Duty: &duty, Ft: 1}
}

func NewHeatExchangerRating(id, name string, engine *flash.Engine, ua float64) *HeatExchanger {
	return &HeatExchanger{Base: Base{ID: id, Name: name, Engine: engine}, UA: &ua, Ft: 1}
}

func (h *HeatExchanger) Kind() string { return "HeatExchanger" }

func (h *HeatExchanger) Calculate(inlets map[string]*stream.StreamState) (map[string]*stream.StreamState, error) {
	hotIn, ok := inlets["hot_in"]
	if !ok {
		return nil, fmt.Errorf("unitops: HeatExchanger %s missing hot_in port", h.ID)
	}
	coldIn, ok := inlets["cold_in"]
	if !ok {
		return nil, fmt.Errorf("unitops: HeatExchanger %s missing cold_in port", h.ID)
	}
	ft := h.Ft
	if ft <= 0 {
		ft = 1
	}

	hotP := hotIn.P - h.HotPressureDrop
	coldP := coldIn.P - h.ColdPressureDrop

	var duty float64
	switch {
	case h.Duty != nil:
		duty = *h.Duty
	case h.UA != nil:
		d, err := h.solveRatingDuty(hotIn, coldIn, hotP, coldP, *h.UA, ft)
		if err != nil {
			return nil, fmt.Errorf("unitops: HeatExchanger %s: %w", h.ID, err)
		}
		duty = d
	default:
		return nil, fmt.Errorf("unitops: HeatExchanger %s has no specification", h.ID)
	}

	hotH := hotIn.H - duty/hotIn.MolarFlow
	coldH := coldIn.H + duty/coldIn.MolarFlow

	hotOut, err := h.Engine.PHFlash(hotP, hotH, hotIn.Zs, hotIn.MolarFlow)
	if err != nil {
		return nil, fmt.Errorf("unitops: HeatExchanger %s hot side: %w", h.ID, err)
	}
	coldOut, err := h.Engine.PHFlash(coldP, coldH, coldIn.Zs, coldIn.MolarFlow)
	if err != nil {
		return nil, fmt.Errorf("unitops: HeatExchanger %s cold side: %w", h.ID, err)
	}
	if hotOut.T < coldIn.T-0.01 || coldOut.T > hotIn.T+0.01 {
		h.Diag.warn("heat exchanger duty causes a temperature cross")
	}
	h.Diag.DutyW = duty
	lmtd := lmtdCounterflow(hotIn.T, hotOut.T, coldIn.T, coldOut.T)
	h.Diag.extra("lmtd_K", lmtd)
	h.Diag.extra("ft", ft)
	return map[string]*stream.StreamState{"hot_out": hotOut, "cold_out": coldOut}, nil
}

// solveRatingDuty finds the duty consistent with Q = UA*Ft*LMTD by fixed-
// point iteration: guess a duty, compute outlet temperatures, recompute
// LMTD, and update duty = UA*Ft*LMTD, capping each update at 0.999 of the
// estimated maximum duty. After 40 iterations the last duty is returned.
func (h *HeatExchanger) solveRatingDuty(hotIn, coldIn *stream.StreamState, hotP, coldP, ua, ft float64) (float64, error) {
	maxDuty := math.Min(hotIn.MolarFlow, coldIn.MolarFlow) * math.Abs(hotIn.H-coldIn.H)
	if maxDuty <= 0 {
		maxDuty = hotIn.MolarFlow * 1000
	}
	duty := maxDuty * 0.5
	for iter := 0; iter < 40; iter++ {
		hotOut, err := h.Engine.PHFlash(hotP, hotIn.H-duty/hotIn.MolarFlow, hotIn.Zs, hotIn.MolarFlow)
		if err != nil {
			return 0, err
		}
		coldOut, err := h.Engine.PHFlash(coldP, coldIn.H+duty/coldIn.MolarFlow, coldIn.Zs, coldIn.MolarFlow)
		if err != nil {
			return 0, err
		}
		lmtd := lmtdCounterflow(hotIn.T, hotOut.T, coldIn.T, coldOut.T)
		next := ua * ft * lmtd
		if next > maxDuty*0.999 {
			next = maxDuty * 0.999
		}
		if math.Abs(next-duty) < 1e-3*math.Max(1, duty) {
			return next, nil
		}
		duty = next
	}
	return duty, nil
}

// lmtdCounterflow computes the counterflow log-mean temperature difference.
// Falls back to the arithmetic mean when the two approach temperatures are
// within numerical noise of each other (the log-mean limit).
func lmtdCounterflow(hotInT, hotOutT, coldInT, coldOutT float64) float64 {
	dT1 := hotInT - coldOutT
	dT2 := hotOutT - coldInT
	if dT1 <= 0 || dT2 <= 0 {
		return 0
	}
	if math.Abs(dT1-dT2) < 1e-6 {
		return dT1
	}
	return (dT1 - dT2) / math.Log(dT1/dT2)
}
