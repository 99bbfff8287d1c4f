package flash

import (
	"math"

	"github.com/processworks/flowsheet/component"
	"github.com/processworks/flowsheet/eos"
)

// simpson integrates f over [a,b] with a fixed 20-segment Simpson's rule —
// good enough for the smooth polynomial Cp correlations this module uses,
// and avoids needing the polynomial coefficients exposed outside package
// component.
func simpson(f func(float64) float64, a, b float64) float64 {
	if a == b {
		return 0
	}
	sign := 1.0
	if b < a {
		a, b = b, a
		sign = -1
	}
	const n = 20
	h := (b - a) / n
	sum := f(a) + f(b)
	for i := 1; i < n; i++ {
		x := a + float64(i)*h
		if i%2 == 0 {
			sum += 2 * f(x)
		} else {
			sum += 4 * f(x)
		}
	}
	return sign * sum * h / 3
}

// idealGasH returns component i's ideal-gas molar enthalpy (J/mol) at T,
// anchored at its standard formation enthalpy at TRef.
func idealGasH(set *component.Set, i int, T float64) float64 {
	corr := set.Correlations(i)
	return set.Constants(i).Hf + simpson(corr.CpIdealGas, TRef, T)
}

// idealGasS returns component i's ideal-gas molar entropy (J/mol/K) at
// (T, P), anchored at its standard formation entropy at (TRef, PRef).
func idealGasS(set *component.Set, i int, T, P float64) float64 {
	corr := set.Correlations(i)
	sInt := simpson(func(t float64) float64 { return corr.CpIdealGas(t) / t }, TRef, T)
	return set.Constants(i).Sf + sInt - eos.R*math.Log(P/PRef)
}

// idealGasMixHS returns the ideal-gas mixture molar enthalpy and entropy
// (including the entropy of mixing) at (T, P, xs).
func idealGasMixHS(set *component.Set, xs []float64, T, P float64) (H, S float64) {
	var mixEntropy float64
	for i, x := range xs {
		if x <= 0 {
			continue
		}
		H += x * idealGasH(set, i, T)
		S += x * idealGasS(set, i, T, P)
		mixEntropy -= x * math.Log(x)
	}
	S += eos.R * mixEntropy
	return H, S
}

// liquidCpMix returns the mixture liquid molar heat capacity (J/mol/K) from
// the per-component liquid-Cp correlations, mole-fraction weighted.
func liquidCpMix(set *component.Set, xs []float64, T float64) float64 {
	var cp float64
	for i, x := range xs {
		if x <= 0 {
			continue
		}
		cp += x * set.Correlations(i).CpLiquid(T)
	}
	return cp
}

// idealGasCpMix returns the mixture ideal-gas molar heat capacity (J/mol/K).
func idealGasCpMix(set *component.Set, xs []float64, T float64) float64 {
	var cp float64
	for i, x := range xs {
		if x <= 0 {
			continue
		}
		cp += x * set.Correlations(i).CpIdealGas(T)
	}
	return cp
}

// phaseProps bundles the per-phase properties computed at a chosen molar
// volume root.
type phaseProps struct {
	H, S, Cp, Cv, Z, MW, Rho float64
	Mu, K, Sigma, JT         *float64
	V                        float64
}

// computePhase returns the full property set for one phase (liquid or
// vapor) of a cubic-EOS (or activity+PR-gas) mixture, combining the
// ideal-gas reference state with the cubic-EOS departure function so H/S
// round trips stay self-consistent.
func computePhase(eosMix *eos.Mixture, set *component.Set, T, P float64, xs []float64, isLiquid bool) (phaseProps, bool) {
	roots, mp, err := eosMix.VolumeRoots(T, P, xs)
	if err != nil {
		return phaseProps{}, false
	}
	var V float64
	if isLiquid {
		V = roots[0]
	} else {
		V = roots[len(roots)-1]
	}
	dep := eosMix.Departure(T, P, V, xs, mp)
	Hig, Sig := idealGasMixHS(set, xs, T, P)

	var cp float64
	if isLiquid {
		cp = liquidCpMix(set, xs, T)
	} else {
		cp = idealGasCpMix(set, xs, T)
	}
	cv := cp - eos.R
	if cv <= 0 {
		cv = cp * 0.7
	}
	Z := P * V / (eos.R * T)
	mwMix := set.MWMix(xs)
	rho := mwMix / 1000 / V

	p := phaseProps{
		H:   Hig + dep.HResidual,
		S:   Sig + dep.SResidual,
		Cp:  cp,
		Cv:  cv,
		Z:   Z,
		MW:  mwMix,
		Rho: rho,
		V:   V,
	}
	if isLiquid {
		p.Mu = liquidViscosityMix(set, xs, T)
		p.K = liquidThermalCondMix(set, xs, T)
		p.Sigma = liquidSurfaceTensionMix(set, xs, T)
	}
	p.JT = jouleThomson(eosMix, T, P, xs, isLiquid, V, cp)
	return p, true
}

func liquidViscosityMix(set *component.Set, xs []float64, T float64) *float64 {
	var lnMu float64
	var wsum float64
	for i, x := range xs {
		if x <= 0 {
			continue
		}
		mu, ok := set.Correlations(i).Viscosity(T)
		if !ok || mu <= 0 {
			return nil
		}
		lnMu += x * math.Log(mu)
		wsum += x
	}
	if wsum <= 0 {
		return nil
	}
	v := math.Exp(lnMu)
	return &v
}

func liquidThermalCondMix(set *component.Set, xs []float64, T float64) *float64 {
	var k float64
	var wsum float64
	for i, x := range xs {
		if x <= 0 {
			continue
		}
		ki, ok := set.Correlations(i).ThermalConductivity(T)
		if !ok {
			continue
		}
		k += x * ki
		wsum += x
	}
	if wsum <= 0 {
		return nil
	}
	return &k
}

func liquidSurfaceTensionMix(set *component.Set, xs []float64, T float64) *float64 {
	var s float64
	var wsum float64
	for i, x := range xs {
		if x <= 0 {
			continue
		}
		si, ok := set.SurfaceTension(i, T)
		if !ok {
			continue
		}
		s += x * si
		wsum += x
	}
	if wsum <= 0 {
		return nil
	}
	return &s
}

// speedOfSound estimates the adiabatic speed of sound from Z, Cp/Cv, T and
// mixture MW — a real-gas correction to the ideal acoustic-velocity formula,
// applied uniformly to vapor and liquid phases (no separate liquid acoustic
// model is used).
func speedOfSound(Z, cp, cv, T, mwGmol float64) *float64 {
	if cv <= 0 || mwGmol <= 0 {
		return nil
	}
	gamma := cp / cv
	a2 := gamma * Z * eos.R * T / (mwGmol / 1000)
	if a2 <= 0 {
		return nil
	}
	a := math.Sqrt(a2)
	return &a
}
