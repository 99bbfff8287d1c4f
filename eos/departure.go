package eos

import "math"

// dAlphaDT returns d(alpha)/dT for component i's cubic-EOS temperature
// function at temperature T, the derivative needed by the departure-function
// formulas below.
func (m *Mixture) dAlphaDT(i int, T float64) float64 {
	Tc, w := m.Tc[i], m.W[i]
	var kappa float64
	switch m.Kind {
	case SRK:
		kappa = 0.480 + 1.574*w - 0.176*w*w
	default:
		if w > 0.491 {
			kappa = 0.379642 + 1.48503*w - 0.164423*w*w + 0.016666*w*w*w
		} else {
			kappa = 0.37464 + 1.54226*w - 0.26992*w*w
		}
	}
	tr := T / Tc
	bracket := 1 + kappa*(1-math.Sqrt(tr))
	return -kappa * bracket / math.Sqrt(T*Tc)
}

// dAmixDT returns d(a_mix)/dT at composition zs and temperature T, by
// differentiating the van der Waals one-fluid mixing rule term by term.
func (m *Mixture) dAmixDT(T float64, zs []float64, mp *MixtureParams) float64 {
	n := m.N()
	aPrime := make([]float64, n)
	for i := 0; i < n; i++ {
		alpha := m.Kind.alpha(T/m.Tc[i], m.W[i])
		if alpha <= 0 {
			continue
		}
		aPrime[i] = mp.Components[i].A * m.dAlphaDT(i, T) / alpha
	}
	var d float64
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			aiaj := mp.Components[i].A * mp.Components[j].A
			if aiaj <= 0 {
				continue
			}
			sqrtTerm := math.Sqrt(aiaj)
			dTerm := 0.5 / sqrtTerm * (aPrime[i]*mp.Components[j].A + mp.Components[i].A*aPrime[j])
			d += zs[i] * zs[j] * (1 - m.Kij[i][j]) * dTerm
		}
	}
	return d
}

// DepartureResult bundles the residual (real minus ideal-gas, at the same
// T and P) molar enthalpy and entropy for one phase, in SI units.
type DepartureResult struct {
	HResidual float64 // J/mol
	SResidual float64 // J/mol/K
}

// Departure computes the cubic-EOS residual enthalpy and entropy for the
// phase described by molar volume V at (T, P, zs), using the standard
// analytic departure-function expressions (Smith/Van Ness/Abbott form),
// which keep flash round trips self-consistent because they are derived
// directly from the same a(T), b used everywhere else in this package.
func (m *Mixture) Departure(T, P, V float64, zs []float64, mp *MixtureParams) DepartureResult {
	params := m.Kind.params()
	Z := P * V / (R * T)
	b := mp.Bmix
	diff := params.Sigma - params.Epsilon

	if math.Abs(diff) < 1e-9 || b <= 0 {
		return DepartureResult{}
	}

	dAdT := m.dAmixDT(T, zs, mp)
	logTerm := math.Log((V + params.Sigma*b) / (V + params.Epsilon*b))

	hRes := R*T*(Z-1) + (T*dAdT-mp.Amix)/(b*diff)*logTerm
	B := b * P / (R * T)
	sRes := R*math.Log(math.Max(Z-B, 1e-12)) + (dAdT/(b*diff))*logTerm

	return DepartureResult{HResidual: hRes, SResidual: sRes}
}
