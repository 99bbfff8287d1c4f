package eos

import (
	"errors"
	"math"
)

// WilsonK returns the Wilson-correlation initial guess for the K-value
// (y_i/x_i) of a component at (T, P), used to seed Rachford-Rice iteration.
func WilsonK(tc, pc, w, T, P float64) float64 {
	return (pc / P) * math.Exp(5.373*(1+w)*(1-tc/T))
}

// SaturationPressure computes the pure-component saturation pressure at T for
// component index i in the mixture, via the equal-fugacity condition,
// evaluated at zs = unit vector on i.
func (m *Mixture) SaturationPressure(i int, T float64) (float64, error) {
	if T >= m.Tc[i] {
		return m.Pc[i], nil
	}
	zs := make([]float64, m.N())
	zs[i] = 1

	Tr := T / m.Tc[i]
	P := m.Pc[i] * math.Exp(5.373*(1+m.W[i])*(1-1/Tr))
	if P <= 0 {
		P = m.Pc[i] * 0.5
	}

	for iter := 0; iter < 100; iter++ {
		roots, mp, err := m.VolumeRoots(T, P, zs)
		if err != nil {
			P *= 0.9
			continue
		}
		if len(roots) < 2 {
			// Outside the two-phase pressure window for this T; nudge P
			// toward the dome using the liquid/vapor-like character of the
			// single available root.
			b := mp.Bmix
			if roots[0] < 3*b {
				P *= 0.9
			} else {
				P *= 1.1
			}
			continue
		}
		Vl := roots[0]
		Vv := roots[len(roots)-1]

		lnPhiL := m.PhaseFugacities(T, P, Vl, zs, mp)[i]
		lnPhiV := m.PhaseFugacities(T, P, Vv, zs, mp)[i]

		if math.Abs(lnPhiL-lnPhiV) < 1e-8 {
			return P, nil
		}

		ratio := math.Exp(lnPhiL - lnPhiV)
		if ratio > 1.2 {
			ratio = 1.2
		} else if ratio < 0.8 {
			ratio = 0.8
		}
		P *= ratio
	}

	return 0, errors.New("saturation pressure did not converge")
}
