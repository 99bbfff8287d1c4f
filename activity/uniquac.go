package activity

import (
	"math"

	"github.com/processworks/flowsheet/component"
)

// uniquacRQ holds a component's UNIQUAC van der Waals volume (r) and surface
// area (q) parameters.
type uniquacRQ struct{ R, Q float64 }

// uniquacRQTable has Bondi group-contribution r/q for the components this
// module ships constants for; components without an entry fall back to a
// generic small-molecule estimate from molecular weight.
var uniquacRQTable = map[component.CAS]uniquacRQ{
	"7732-18-5": {R: 0.92, Q: 1.40},  // water
	"67-56-1":   {R: 1.43, Q: 1.43},  // methanol
	"71-43-2":   {R: 3.19, Q: 2.40},  // benzene
	"108-88-3":  {R: 3.92, Q: 2.97},  // toluene
	"74-82-8":   {R: 1.00, Q: 1.12},  // methane
	"110-54-3":  {R: 4.50, Q: 3.86},  // n-hexane
}

// UNIQUAC is the Universal Quasi-Chemical activity-coefficient model,
// combining a combinatorial (entropy, size/shape) term with a residual
// (energy, local composition) term.
type UNIQUAC struct {
	set *component.Set
	rq  []uniquacRQ
	u   [][]float64 // pairwise interaction energy, u[i][j] in K (as Δu_ij/R)
}

// NewUNIQUAC builds a UNIQUAC model over set, with r/q looked up from
// uniquacRQTable (falling back to a generic estimate) and binary energies
// defaulting to zero (ideal) for any pair not in the literature database.
func NewUNIQUAC(set *component.Set) *UNIQUAC {
	n := set.N()
	rq := make([]uniquacRQ, n)
	for i := 0; i < n; i++ {
		if v, ok := uniquacRQTable[set.CAS(i)]; ok {
			rq[i] = v
		} else {
			mw := set.MW(i)
			rq[i] = uniquacRQ{R: 0.029 * mw, Q: 0.025 * mw}
		}
	}
	u := make([][]float64, n)
	for i := range u {
		u[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if d, ok := uniquacDuDatabase[pairKeyOrdered{set.CAS(i), set.CAS(j)}]; ok {
				u[i][j] = d.ij
				u[j][i] = d.ji
			}
		}
	}
	return &UNIQUAC{set: set, rq: rq, u: u}
}

type uniquacDu struct{ ij, ji float64 }

var uniquacDuDatabase = map[pairKeyOrdered]uniquacDu{
	{"67-56-1", "7732-18-5"}: {ij: -78.3, ji: 246.1},
	{"71-43-2", "108-88-3"}:  {ij: 8.4, ji: -14.6},
}

const uniquacZ = 10.0 // lattice coordination number

// Gammas returns the combinatorial+residual activity coefficients at
// temperature T for composition xs.
func (u *UNIQUAC) Gammas(T float64, xs []float64) []float64 {
	n := u.set.N()
	r := make([]float64, n)
	q := make([]float64, n)
	for i := 0; i < n; i++ {
		r[i] = u.rq[i].R
		q[i] = u.rq[i].Q
	}

	var sumRX, sumQX float64
	for i := 0; i < n; i++ {
		sumRX += r[i] * xs[i]
		sumQX += q[i] * xs[i]
	}

	phi := make([]float64, n)
	theta := make([]float64, n)
	l := make([]float64, n)
	for i := 0; i < n; i++ {
		phi[i] = r[i] * xs[i] / sumRX
		theta[i] = q[i] * xs[i] / sumQX
		l[i] = uniquacZ / 2 * (r[i] - q[i]) - (r[i] - 1)
	}

	tau := make([][]float64, n)
	for i := 0; i < n; i++ {
		tau[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			if i == j {
				tau[i][j] = 1
				continue
			}
			tau[i][j] = math.Exp(-u.u[i][j] / T)
		}
	}

	gammas := make([]float64, n)
	for i := 0; i < n; i++ {
		var sumXL float64
		for j := 0; j < n; j++ {
			sumXL += xs[j] * l[j]
		}
		lnGammaC := math.Log(phi[i]/xs[i]) + uniquacZ/2*q[i]*math.Log(theta[i]/phi[i]) +
			l[i] - phi[i]/xs[i]*sumXL

		var lnSumTerm float64
		for j := 0; j < n; j++ {
			lnSumTerm += theta[j] * tau[j][i]
		}
		var sumResidual float64
		for j := 0; j < n; j++ {
			var denom float64
			for k := 0; k < n; k++ {
				denom += theta[k] * tau[k][j]
			}
			sumResidual += theta[j] * tau[i][j] / denom
		}
		lnGammaR := q[i] * (1 - math.Log(lnSumTerm) - sumResidual)

		gammas[i] = math.Exp(lnGammaC + lnGammaR)
	}
	return gammas
}
