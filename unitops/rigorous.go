package unitops

import (
	"fmt"

	"github.com/processworks/flowsheet/eos"
	"github.com/processworks/flowsheet/flash"
	"github.com/processworks/flowsheet/stream"
)

// RigorousDistillation models a tray column under the constant-molal-
// overflow assumption, solved by a Thiele-Geddes-style tray-to-tray shooting
// iteration rather than a full Inside-Out Newton solve on the tridiagonal
// MESH equations: the outer loop guesses the distillate and
// bottoms compositions, steps liquid composition down the column stage by
// stage using Wilson-correlation equilibrium K-values at each stage's
// bubble point, and re-derives the distillate/bottoms compositions from the
// last pass until both converge. The distillate and bottoms product streams
// are then each flashed at their own end-stage temperature and pressure
// rather than carried through a full per-stage energy balance, which is a
// coarser approximation than a true MESH solve but keeps the product duty
// and composition consistent with the converged stage profile. See
// DESIGN.md for why the full Inside-Out method (requiring a tridiagonal
// energy/composition Newton solve this module's dependency set has no
// direct analogue for) was not implemented.
type RigorousDistillation struct {
	Base
	NStages           int // total equilibrium stages, 1 = top (total condenser), NStages = reboiler
	FeedStage         int // 1-indexed stage the feed enters
	RefluxRatio       float64
	DistillateRate    float64 // mol/s
	CondenserPressure float64
	ReboilerPressure  float64
	MaxOuterIterations int
}

func NewRigorousDistillation(id, name string, engine *flash.Engine, nStages, feedStage int, refluxRatio, distillateRate, condP, reboilP float64) *RigorousDistillation {
	return &RigorousDistillation{
		Base: Base{ID: id, Name: name, Engine: engine},
		NStages: nStages, FeedStage: feedStage, RefluxRatio: refluxRatio,
		DistillateRate: distillateRate, CondenserPressure: condP, ReboilerPressure: reboilP,
		MaxOuterIterations: 40,
	}
}

func (r *RigorousDistillation) Kind() string { return "RigorousDistillation" }

func (r *RigorousDistillation) Calculate(inlets map[string]*stream.StreamState) (map[string]*stream.StreamState, error) {
	feed, ok := inlets["feed"]
	if !ok {
		return nil, fmt.Errorf("unitops: RigorousDistillation %s missing feed port", r.ID)
	}
	if r.NStages < 2 || r.FeedStage < 1 || r.FeedStage > r.NStages {
		return nil, fmt.Errorf("unitops: RigorousDistillation %s has an invalid stage configuration", r.ID)
	}
	set := feed.Components
	n := set.N()

	D := r.DistillateRate
	B := feed.MolarFlow - D
	if D <= 0 || B <= 0 {
		return nil, fmt.Errorf("unitops: RigorousDistillation %s distillate rate leaves a non-positive product flow", r.ID)
	}
	q := 1 - feed.VaporFraction
	L := r.RefluxRatio * D
	V := L + D
	L2 := L + q*feed.MolarFlow
	V2 := V - (1-q)*feed.MolarFlow

	pressureAt := func(stage int) float64 {
		frac := float64(stage-1) / float64(r.NStages-1)
		return r.CondenserPressure + frac*(r.ReboilerPressure-r.CondenserPressure)
	}

	xD := append([]float64(nil), feed.Zs...)
	xB := append([]float64(nil), feed.Zs...)

	var stageTemps []float64
	var stageLiquids [][]float64
	maxIter := r.MaxOuterIterations
	if maxIter < 1 {
		maxIter = 40
	}
	for outer := 0; outer < maxIter; outer++ {
		x := append([]float64(nil), xD...)
		stageTemps = make([]float64, 0, r.NStages)
		stageLiquids = make([][]float64, 0, r.NStages)

		for stage := 1; stage <= r.NStages; stage++ {
			P := pressureAt(stage)
			T, err := r.Engine.BubblePointT(P, x)
			if err != nil {
				return nil, fmt.Errorf("unitops: RigorousDistillation %s stage %d bubble point: %w", r.ID, stage, err)
			}
			y := make([]float64, n)
			for i := 0; i < n; i++ {
				c := set.Constants(i)
				k := eos.WilsonK(c.Critical.Tc, c.Critical.Pc, c.Acentric, T, P)
				y[i] = k * x[i]
			}
			y = stream.Normalize(y)
			stageTemps = append(stageTemps, T)
			stageLiquids = append(stageLiquids, x)

			if stage == r.NStages {
				break
			}
			lUp, vUp := L, V
			if stage >= r.FeedStage {
				lUp, vUp = L2, V2
			}
			xNext := make([]float64, n)
			if stage < r.FeedStage {
				for i := 0; i < n; i++ {
					xNext[i] = (vUp*y[i] - D*xD[i]) / lUp
				}
			} else {
				for i := 0; i < n; i++ {
					xNext[i] = (vUp*y[i] + B*xB[i]) / lUp
				}
			}
			x = stream.ClampNonNegative(xNext)
			x = stream.Normalize(x)
		}

		newXD := append([]float64(nil), stageLiquids[0]...)
		newXB := append([]float64(nil), stageLiquids[len(stageLiquids)-1]...)

		var diff float64
		for i := 0; i < n; i++ {
			diff += absf(newXD[i]-xD[i]) + absf(newXB[i]-xB[i])
		}
		xD, xB = newXD, newXB
		if diff < 1e-6 {
			break
		}
	}

	distOut, err := r.Engine.PTFlash(stageTemps[0], r.CondenserPressure, xD, D)
	if err != nil {
		return nil, fmt.Errorf("unitops: RigorousDistillation %s distillate flash: %w", r.ID, err)
	}
	botOut, err := r.Engine.PTFlash(stageTemps[len(stageTemps)-1], r.ReboilerPressure, xB, B)
	if err != nil {
		return nil, fmt.Errorf("unitops: RigorousDistillation %s bottoms flash: %w", r.ID, err)
	}

	condDuty := -V * distOut.H
	reboilDuty := -condDuty - (feed.H*feed.MolarFlow - distOut.H*D - botOut.H*B)

	r.Diag.DutyW = reboilDuty
	r.Diag.extra("condenser_duty_W", condDuty)
	r.Diag.extra("reboiler_duty_W", reboilDuty)
	r.Diag.extra("stage_temperatures_K", stageTemps)
	r.Diag.extra("reflux_ratio", r.RefluxRatio)

	return map[string]*stream.StreamState{"distillate": distOut, "bottoms": botOut}, nil
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
