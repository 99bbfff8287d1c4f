package unitops

import (
	"fmt"
	"math"

	"github.com/processworks/flowsheet/component"
	"github.com/processworks/flowsheet/eos"
	"github.com/processworks/flowsheet/flash"
	"github.com/processworks/flowsheet/stream"
)

// ShortcutDistillation sizes a simple column via Fenske-Underwood-Gilliland:
// Fenske for minimum stages at total reflux, Underwood for minimum reflux,
// and the Gilliland correlation (Molokanov form) for actual stages at a
// specified reflux ratio multiple of the minimum. Each non-key component's
// distillate/bottoms ratio is the light key's ratio scaled by
// alpha_i/alpha_lk; the Fenske stage count does not enter that split, and
// components lighter or heavier than both keys get no separate treatment.
type ShortcutDistillation struct {
	Base
	LightKey, HeavyKey   component.CAS
	LightKeyRecovery     float64 // fraction of feed light key to distillate
	HeavyKeyRecovery     float64 // fraction of feed heavy key to bottoms
	RefluxRatioFactor    float64 // actual R = factor * Rmin, default 1.3
	CondenserPressure    float64 // Pa
	ReboilerPressure     float64 // Pa
}

func NewShortcutDistillation(id, name string, engine *flash.Engine, lk, hk component.CAS, lkRec, hkRec, condP, reboilP float64) *ShortcutDistillation {
	return &ShortcutDistillation{
		Base: Base{ID: id, Name: name, Engine: engine},
		LightKey: lk, HeavyKey: hk, LightKeyRecovery: lkRec, HeavyKeyRecovery: hkRec,
		RefluxRatioFactor: 1.3, CondenserPressure: condP, ReboilerPressure: reboilP,
	}
}

func (s *ShortcutDistillation) Kind() string { return "ShortcutDistillation" }

func (s *ShortcutDistillation) Calculate(inlets map[string]*stream.StreamState) (map[string]*stream.StreamState, error) {
	feed, ok := inlets["feed"]
	if !ok {
		return nil, fmt.Errorf("unitops: ShortcutDistillation %s missing feed port", s.ID)
	}
	set := feed.Components
	n := set.N()
	lkIdx, hkIdx := set.IndexOf(s.LightKey), set.IndexOf(s.HeavyKey)
	if lkIdx < 0 || hkIdx < 0 {
		return nil, fmt.Errorf("unitops: ShortcutDistillation %s: light/heavy key not in component set", s.ID)
	}

	// Relative volatilities at the average of bubble and dew points, using
	// Wilson K-values as the shortcut method's customary approximation.
	avgT, err := s.avgColumnTemperature(feed)
	if err != nil {
		return nil, fmt.Errorf("unitops: ShortcutDistillation %s: %w", s.ID, err)
	}
	avgP := (s.CondenserPressure + s.ReboilerPressure) / 2
	ks := make([]float64, n)
	for i := 0; i < n; i++ {
		c := set.Constants(i)
		ks[i] = eos.WilsonK(c.Critical.Tc, c.Critical.Pc, c.Acentric, avgT, avgP)
	}
	alphaHK := ks[hkIdx]
	alpha := make([]float64, n)
	for i := range alpha {
		alpha[i] = ks[i] / alphaHK
	}

	feedMoles := make([]float64, n)
	for i, z := range feed.Zs {
		feedMoles[i] = z * feed.MolarFlow
	}

	nMin := math.Log((s.LightKeyRecovery/(1-s.LightKeyRecovery))*((1-s.HeavyKeyRecovery)/s.HeavyKeyRecovery)) / math.Log(alpha[lkIdx])
	if nMin < 1 {
		nMin = 1
	}

	distMoles := make([]float64, n)
	bottomMoles := make([]float64, n)
	distMoles[lkIdx] = feedMoles[lkIdx] * s.LightKeyRecovery
	bottomMoles[lkIdx] = feedMoles[lkIdx] - distMoles[lkIdx]
	bottomMoles[hkIdx] = feedMoles[hkIdx] * s.HeavyKeyRecovery
	distMoles[hkIdx] = feedMoles[hkIdx] - bottomMoles[hkIdx]
	for i := 0; i < n; i++ {
		if i == lkIdx || i == hkIdx {
			continue
		}
		// Non-key split: the light key's distillate/bottoms ratio scaled by
		// alpha_i/alpha_lk (no stage count is applied).
		d :=(alpha[i] / alpha[lkIdx]) * (distMoles[lkIdx] / bottomMoles[lkIdx])
		frac := d / (1 + d)
		distMoles[i] = feedMoles[i] * frac
		bottomMoles[i] = feedMoles[i] - distMoles[i]
	}

	var distTotal, botTotal float64
	for i := 0; i < n; i++ {
		distTotal += distMoles[i]
		botTotal += bottomMoles[i]
	}
	distZs := stream.Normalize(distMoles)
	botZs := stream.Normalize(bottomMoles)

	rMin := s.underwoodRmin(feed, alpha, distZs, distTotal, lkIdx)
	factor := s.RefluxRatioFactor
	if factor <= 0 {
		factor = 1.3
	}
	rActual := factor * rMin
	x := (rActual - rMin) / (rActual + 1)
	nActual := nMin
	if x > 0 && x < 1 {
		// Gilliland correlation, Molokanov form.
		y := 1 - math.Exp((1+54.4*x)/(11+117.2*x)*(x-1)/math.Sqrt(x))
		nActual = math.Ceil((nMin + y) / (1 - y))
	}
	if nActual < nMin {
		nActual = nMin
	}

	distillate, err := s.Engine.BubblePointT(s.CondenserPressure, distZs)
	if err != nil {
		return nil, fmt.Errorf("unitops: ShortcutDistillation %s condenser bubble point: %w", s.ID, err)
	}
	distOut, err := s.Engine.PTFlash(distillate, s.CondenserPressure, distZs, distTotal)
	if err != nil {
		return nil, fmt.Errorf("unitops: ShortcutDistillation %s distillate flash: %w", s.ID, err)
	}
	reboilT, err := s.Engine.BubblePointT(s.ReboilerPressure, botZs)
	if err != nil {
		return nil, fmt.Errorf("unitops: ShortcutDistillation %s reboiler bubble point: %w", s.ID, err)
	}
	botOut, err := s.Engine.PTFlash(reboilT, s.ReboilerPressure, botZs, botTotal)
	if err != nil {
		return nil, fmt.Errorf("unitops: ShortcutDistillation %s bottoms flash: %w", s.ID, err)
	}

	liquidReflux := rActual * distTotal
	vaporUp := liquidReflux + distTotal
	condDuty := -vaporUp * (distOut.H) // simplified: full condensation of overhead vapor
	reboilDuty := -condDuty - (feed.H*feed.MolarFlow - distOut.H*distTotal - botOut.H*botTotal)

	s.Diag.DutyW = reboilDuty
	s.Diag.extra("condenser_duty_W", condDuty)
	s.Diag.extra("reboiler_duty_W", reboilDuty)
	s.Diag.extra("n_min_stages", nMin)
	s.Diag.extra("n_actual_stages", nActual)
	s.Diag.extra("reflux_ratio_min", rMin)
	s.Diag.extra("reflux_ratio_actual", rActual)

	return map[string]*stream.StreamState{"distillate": distOut, "bottoms": botOut}, nil
}

func (s *ShortcutDistillation) avgColumnTemperature(feed *stream.StreamState) (float64, error) {
	pAvg := (s.CondenserPressure + s.ReboilerPressure) / 2
	tBub, err := s.Engine.BubblePointT(pAvg, feed.Zs)
	if err != nil {
		return 0, err
	}
	tDew, err := s.Engine.DewPointT(pAvg, feed.Zs)
	if err != nil {
		return 0, err
	}
	return (tBub + tDew) / 2, nil
}

// underwoodRmin estimates minimum reflux from the Underwood equation's
// simplified (class-1, constant relative volatility) form:
// Rmin = (xD_lk/xF_lk - alpha*xD_hk/xF_hk)/(alpha-1), floored at 0.1.
func (s *ShortcutDistillation) underwoodRmin(feed *stream.StreamState, alpha, distZs []float64, distTotal float64, lkIdx int) float64 {
	hkIdx := feed.Components.IndexOf(s.HeavyKey)
	a := alpha[lkIdx] / alpha[hkIdx]
	rMin := (distZs[lkIdx]/feed.Zs[lkIdx] - a*distZs[hkIdx]/feed.Zs[hkIdx]) / (a - 1)
	if math.IsNaN(rMin) || math.IsInf(rMin, 0) || rMin < 0.1 {
		rMin = 0.1
	}
	return rMin
}
