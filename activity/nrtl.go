package activity

import (
	"math"

	"github.com/processworks/flowsheet/component"
)

// NRTLParams holds one binary's non-randomness parameter and the two
// asymmetric interaction energies (in the usual tau_ij = a_ij + b_ij/T form,
// with a_ij defaulting to 0).
type NRTLParams struct {
	Alpha    float64 // non-randomness, typically 0.2-0.47
	Bij, Bji float64 // K, so tau_ij = Bij/T
}

// NRTL is a multicomponent non-random two-liquid activity-coefficient model.
type NRTL struct {
	set    *component.Set
	alpha  [][]float64
	b      [][]float64 // b[i][j] is the Bij for the i-j pair (asymmetric)
}

// NewNRTL builds an NRTL model over set, filled from a literature binary
// database with any unlisted pair defaulting to ideal (tau=0, alpha=0.3).
func NewNRTL(set *component.Set) *NRTL {
	n := set.N()
	alpha := make([][]float64, n)
	b := make([][]float64, n)
	for i := range alpha {
		alpha[i] = make([]float64, n)
		b[i] = make([]float64, n)
		for j := range alpha[i] {
			alpha[i][j] = 0.3
		}
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			if p, ok := nrtlDatabase[pairKeyOrdered{set.CAS(i), set.CAS(j)}]; ok {
				alpha[i][j] = p.Alpha
				alpha[j][i] = p.Alpha
				b[i][j] = p.Bij
				b[j][i] = p.Bji
			}
		}
	}
	return &NRTL{set: set, alpha: alpha, b: b}
}

type pairKeyOrdered struct{ a, b component.CAS }

// nrtlDatabase holds a handful of representative published NRTL binaries.
// Keys are ordered (a, b); Bij applies a->b and Bji applies b->a.
var nrtlDatabase = map[pairKeyOrdered]NRTLParams{
	{"67-56-1", "7732-18-5"}: {Alpha: 0.3, Bij: 82.98, Bji: -246.18},  // methanol-water
	{"71-43-2", "108-88-3"}:  {Alpha: 0.3, Bij: 30.22, Bji: -36.02},   // benzene-toluene
}

// Gammas returns ln-gamma-derived activity coefficients for composition xs
// at temperature T (K), using the standard multicomponent NRTL equation.
func (n *NRTL) Gammas(T float64, xs []float64) []float64 {
	size := n.set.N()
	tau := make([][]float64, size)
	g := make([][]float64, size)
	for i := 0; i < size; i++ {
		tau[i] = make([]float64, size)
		g[i] = make([]float64, size)
		for j := 0; j < size; j++ {
			if i == j {
				g[i][j] = 1
				continue
			}
			tau[i][j] = n.b[i][j] / T
			g[i][j] = math.Exp(-n.alpha[i][j] * tau[i][j])
		}
	}

	gammas := make([]float64, size)
	for i := 0; i < size; i++ {
		var num, den float64
		for k := 0; k < size; k++ {
			num += xs[k] * g[k][i] * tau[k][i]
			den += xs[k] * g[k][i]
		}
		term1 := num / den

		var sumTerm2 float64
		for j := 0; j < size; j++ {
			var denJ, numJ float64
			for k := 0; k < size; k++ {
				denJ += xs[k] * g[k][j]
				numJ += xs[k] * g[k][j] * tau[k][j]
			}
			inner := tau[i][j] - numJ/denJ
			sumTerm2 += xs[j] * g[i][j] / denJ * inner
		}
		lnGamma := term1 + sumTerm2
		gammas[i] = math.Exp(lnGamma)
	}
	return gammas
}
