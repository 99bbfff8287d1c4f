package eos

import "math"

// AbbottB0 is the simple-fluid contribution to the Pitzer generalized
// second virial coefficient correlation: B*Pc/(R*Tc) = B0 + w*B1.
func AbbottB0(Tr float64) (float64, error) {
	if Tr <= 0 {
		return 0, ErrInvalidTr
	}
	return 0.083 - 0.422/math.Pow(Tr, 1.6), nil
}

// AbbottB1 is the acentric-factor correction term of the same correlation.
func AbbottB1(Tr float64) (float64, error) {
	if Tr <= 0 {
		return 0, ErrInvalidTr
	}
	return 0.139 - 0.172/math.Pow(Tr, 4.2), nil
}

// VirialZ returns the two-term-virial compressibility factor estimate
// Z = 1 + B*P/(R*T) using the Abbott correlation for B, valid only at low
// reduced pressure (Pr < ~0.8). It is a standalone correlation: the cubic
// EOS root solve and the flash engine do not call it.
func VirialZ(Tc, Pc, w, T, P float64) (float64, error) {
	Tr := T / Tc
	b0, err := AbbottB0(Tr)
	if err != nil {
		return 0, err
	}
	b1, err := AbbottB1(Tr)
	if err != nil {
		return 0, err
	}
	B := (b0 + w*b1) * R * Tc / Pc
	return 1 + B*P/(R*T), nil
}

// VirialMixtureZ applies VirialZ at Kay's-rule pseudo-critical conditions for
// a mixture, the same pseudo-critical technique used by LeeKeslerZ.
func VirialMixtureZ(tc, pc, w, zs []float64, T, P float64) (float64, error) {
	tcMix, pcMix, wMix := KayRulePseudoCritical(tc, pc, w, zs)
	return VirialZ(tcMix, pcMix, wMix, T, P)
}
