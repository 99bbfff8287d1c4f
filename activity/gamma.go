// Package activity implements the Gibbs-excess activity-coefficient models
// (NRTL, UNIQUAC, and a UNIFAC front-end built on UNIQUAC's combinatorial
// term) that pair with a cubic-EOS gas phase for the non-ideal liquid
// property packages.
package activity

import "math"

// Model computes liquid-phase activity coefficients gamma_i(T, xs) for a
// fixed component set.
type Model interface {
	Gammas(T float64, xs []float64) []float64
}

// Poynting returns the Poynting-correction factor for component i's liquid
// fugacity, exp(Vl_i*(P-Psat_i)/(R*T)), applied alongside an activity
// model's gamma to build the liquid-phase fugacity.
func Poynting(Vl, P, Psat, T, Rgas float64) float64 {
	return expSafe(Vl * (P - Psat) / (Rgas * T))
}

func expSafe(x float64) float64 {
	if x > 50 {
		x = 50
	}
	if x < -50 {
		x = -50
	}
	return math.Exp(x)
}
