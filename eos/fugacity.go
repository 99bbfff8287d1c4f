package eos

import "math"

// LnPhi returns ln(phi_i), the natural log of the fugacity coefficient of
// each component in a phase whose compressibility factor is Z and whose
// mixture parameters (computed by Combine at the phase's T) are mp, using the
// standard van der Waals one-fluid fugacity-coefficient expression.
func (m *Mixture) LnPhi(T, P, Z float64, zs []float64, mp *MixtureParams) []float64 {
	n := m.N()
	params := m.Kind.params()
	A := mp.Amix * P / (R * R * T * T)
	B := mp.Bmix * P / (R * T)

	out := make([]float64, n)
	diff := params.Sigma - params.Epsilon
	for i := 0; i < n; i++ {
		Bi := mp.Components[i].B
		var crossTerm float64
		for j := 0; j < n; j++ {
			crossTerm += zs[j] * mp.Aij[i][j]
		}
		term1 := (Bi / mp.Bmix) * (Z - 1)
		term2 := math.Log(math.Max(Z-B, 1e-12))
		var term3 float64
		if math.Abs(diff) < 1e-9 {
			term3 = -A / Z * (2*crossTerm/mp.Amix - Bi/mp.Bmix)
		} else {
			ratio := (Z + params.Sigma*B) / (Z + params.Epsilon*B)
			term3 = (A / (B * diff)) * (2*crossTerm/mp.Amix - Bi/mp.Bmix) * math.Log(math.Max(ratio, 1e-12))
		}
		out[i] = term1 - term2 - term3
	}
	return out
}

// PhaseFugacities returns ln(phi_i) for each component, as LnPhi does, for a
// chosen molar volume root V (one phase) at (T,P,zs).
func (m *Mixture) PhaseFugacities(T, P, V float64, zs []float64, mp *MixtureParams) []float64 {
	Z := P * V / (R * T)
	return m.LnPhi(T, P, Z, zs, mp)
}
