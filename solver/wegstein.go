package solver

import (
	"math"

	"github.com/processworks/flowsheet/flash"
	"github.com/processworks/flowsheet/stream"
)

// vector is a tear stream reduced to the quantities Wegstein acceleration
// and convergence distance operate on.
type vector struct {
	T, P, Flow float64
	Zs         []float64
}

func toVector(s *stream.StreamState) vector {
	return vector{T: s.T, P: s.P, Flow: s.MolarFlow, Zs: append([]float64(nil), s.Zs...)}
}

// normalizedDistance is the Euclidean distance over (T,P,molar_flow)
// normalized by reference scales, plus the raw L1 composition difference.
func normalizedDistance(oldS, newS *stream.StreamState, opts Options) float64 {
	if oldS == nil || newS == nil {
		return math.Inf(1)
	}
	tRef, pRef := opts.AmbientT, opts.AmbientP
	flowRef := math.Max(oldS.MolarFlow, 1)
	dT := (newS.T - oldS.T) / tRef
	dP := (newS.P - oldS.P) / pRef
	dF := (newS.MolarFlow - oldS.MolarFlow) / flowRef
	euclid := math.Sqrt(dT*dT + dP*dP + dF*dF)

	var compDiff float64
	n := len(oldS.Zs)
	if len(newS.Zs) < n {
		n = len(newS.Zs)
	}
	for i := 0; i < n; i++ {
		compDiff += math.Abs(newS.Zs[i] - oldS.Zs[i])
	}
	return euclid + compDiff
}

// wegstein applies the per-component Wegstein acceleration formula to the
// last three iterates (x0=x_{n-2}, x1=x_{n-1}, x2=x_n), clamping the
// acceleration factor s to [-5, 0] so a degenerate slope never overshoots
// into instability.
func wegstein(x0, x1, x2 vector) vector {
	accel := func(v0, v1, v2 float64) float64 {
		dx := v2 - v1
		dg := v2 - v0
		s := 0.0
		if dg != dx {
			s = dx / (dg - dx)
		}
		if s < -5 {
			s = -5
		}
		if s > 0 {
			s = 0
		}
		q := s / (s - 1)
		return q*v2 + (1-q)*v1
	}

	out := vector{
		T:    accel(x0.T, x1.T, x2.T),
		P:    accel(x0.P, x1.P, x2.P),
		Flow: accel(x0.Flow, x1.Flow, x2.Flow),
		Zs:   make([]float64, len(x2.Zs)),
	}
	for i := range out.Zs {
		v0, v1, v2 := 0.0, 0.0, x2.Zs[i]
		if i < len(x0.Zs) {
			v0 = x0.Zs[i]
		}
		if i < len(x1.Zs) {
			v1 = x1.Zs[i]
		}
		out.Zs[i] = accel(v0, v1, v2)
	}
	return out
}

// fromVector reconstructs a StreamState by re-flashing v's (T,P,composition)
// at v's own flow (floored at 0) on the engine's component set, clamping
// T ≥ 100 K, P ≥ 1 kPa, and composition to non-negative and normalized; the
// template is not read. A reflash failure returns nil so the caller keeps
// the template unchanged.
func fromVector(v vector, template *stream.StreamState, engine *flash.Engine) *stream.StreamState {
	T := math.Max(v.T, 100)
	P := math.Max(v.P, 1000)
	zs := stream.Normalize(stream.ClampNonNegative(v.Zs))
	flow := v.Flow
	if flow < 0 {
		flow = 0
	}
	out, err := engine.PTFlash(T, P, zs, flow)
	if err != nil {
		return nil
	}
	return out
}
