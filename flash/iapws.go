package flash

import (
	"math"

	"github.com/processworks/flowsheet/component"
	"github.com/processworks/flowsheet/stream"
)

// This file implements the pure-water steam-table flash path. It is a
// simplified correlation set grounded in the same Antoine/Cp correlations
// the component registry carries for water, not a literal port of the
// IAPWS-95 reference equation of state; see DESIGN.md.

const waterR = 461.526 // J/(kg.K), specific gas constant for water

// iapwsSatP returns the saturation pressure (Pa) at temperature T (K) from
// water's Antoine correlation.
func iapwsSatP(T float64) float64 {
	// A=23.1964, B=3816.44, C=-46.13 from the component registry's water row.
	lnP := 23.1964 - 3816.44/(T-46.13)
	return math.Exp(lnP)
}

// iapwsSatT returns the saturation temperature (K) at pressure P (Pa) by
// inverting iapwsSatP via bisection.
func iapwsSatT(P float64) (float64, error) {
	lo, hi := 273.16, 647.0
	for iter := 0; iter < 80; iter++ {
		mid := (lo + hi) / 2
		p := iapwsSatP(mid)
		if math.Abs(p-P)/P < 1e-6 {
			return mid, nil
		}
		if p < P {
			lo = mid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2, nil
}

// waterIndex finds water's component index in set; callers only
// reach here when proppkg.Package.IsWater() is true, so set always has
// exactly water's CAS.
func waterIndex(set *component.Set) int {
	for i := 0; i < set.N(); i++ {
		if set.CAS(i) == "7732-18-5" {
			return i
		}
	}
	return 0
}

// latentHeat estimates the heat of vaporization (J/mol) at T via the Watson
// correlation anchored at the normal boiling point (2257 kJ/kg at 373.15 K).
func latentHeat(Tc, T float64) float64 {
	const hvapRef = 2257000 * MWWater / 1000 // J/mol at Tb=373.15K
	const tRef = 373.15
	if T >= Tc {
		return 0
	}
	ratio := (Tc - T) / (Tc - tRef)
	if ratio < 0 {
		ratio = 0
	}
	return hvapRef * math.Pow(ratio, 0.38)
}

// iapwsPT computes the steam-table state at (T, P) directly: phase by
// comparing P against Psat(T), then liquid or vapor enthalpy/entropy from
// the water Cp correlations plus the latent-heat correction, and density,
// Cp, Cv and speed of sound from the water correlations on a molar basis.
// No Joule-Thomson coefficient is computed on this path; JouleThomson is
// left nil.
func iapwsPT(set *component.Set, T, P float64, molarFlow float64) (*stream.StreamState, error) {
	i := waterIndex(set)
	c := set.Constants(i)
	corr := set.Correlations(i)
	psat := iapwsSatP(T)

	isVapor := P < psat

	Hliq := simpsonWater(corr.CpLiquid, 273.16, math.Min(T, c.Tb))
	var H, S, cp float64
	var rho float64
	var Z *float64

	if isVapor {
		Hvap := Hliq + latentHeat(c.Critical.Tc, math.Min(T, c.Critical.Tc-1))
		Hgas := Hvap + simpsonWater(corr.CpIdealGas, math.Min(T, c.Tb), math.Max(T, c.Tb))
		cp = corr.CpIdealGas(T)
		cv := cp - 8.314462618
		z := compressibilityWater(T, P)
		H = Hgas
		S = idealGasS(set, i, T, P)
		rho = (P * c.MW / 1000) / (z * 8.314462618 * T)
		Z = &z
		_ = cv
	} else {
		H = simpsonWater(corr.CpLiquid, 273.16, T)
		S = simpsonWater(func(t float64) float64 { return corr.CpLiquid(t) / t }, 273.16, T)
		cp = corr.CpLiquid(T)
		dens, ok := set.LiquidDensity(i, T)
		if ok {
			rho = dens
		} else {
			rho = 958.0
		}
	}

	cv := cp - 8.314462618
	if cv <= 0 {
		cv = cp * 0.75
	}

	ss := &stream.StreamState{
		Components:     set,
		T:              T,
		P:              P,
		Zs:             []float64{1},
		MolarFlow:      molarFlow,
		MW:             c.MW,
		H:              H,
		S:              S,
		MassFlow:       stream.MassFlowFromMolar(molarFlow, c.MW),
	}
	if isVapor {
		ss.Phase = stream.Vapor
		ss.VaporFraction, ss.LiquidFraction = 1, 0
		ss.Ys = []float64{1}
	} else {
		ss.Phase = stream.Liquid
		ss.VaporFraction, ss.LiquidFraction = 0, 1
		ss.Xs = []float64{1}
		mu, ok := corr.Viscosity(T)
		if ok {
			ss.Viscosity = &mu
		}
		k, ok := corr.ThermalConductivity(T)
		if ok {
			ss.ThermalConductivity = &k
		}
		st, ok := set.SurfaceTension(i, T)
		if ok {
			ss.SurfaceTension = &st
		}
	}
	ss.Cp, ss.Cv = &cp, &cv
	ss.MassDensity = &rho
	if Z != nil {
		ss.Z = Z
	} else {
		z := rho * 8.314462618 * T / (P * c.MW / 1000)
		ss.Z = &z
	}
	a := speedOfSound(valueOr(ss.Z, 1), cp, cv, T, c.MW)
	ss.SpeedOfSound = a
	attachFlows(ss)
	return ss, nil
}

func valueOr(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

// compressibilityWater applies the Abbott two-term virial correlation to
// water's critical constants as a lightweight steam-vapor Z estimate.
func compressibilityWater(T, P float64) float64 {
	Tc, Pc, w := 647.1, 22064000.0, 0.3449
	Tr := T / Tc
	b0 := 0.083 - 0.422/math.Pow(Tr, 1.6)
	b1 := 0.139 - 0.172/math.Pow(Tr, 4.2)
	B := (b0 + w*b1) * 8.314462618 * Tc / Pc
	return 1 + B*P/(8.314462618*T)
}

func simpsonWater(f func(float64) float64, a, b float64) float64 {
	return simpson(f, a, b)
}

// iapwsPH resolves (P, H) to T via Newton iteration (dH/dT ~ Cp), seeded at
// 373.15 K and bounded to [273.16, 2273.15], converging when the residual
// drops below 0.1 J/kg (converted here to J/mol), hard-capped at 100
// iterations, then deferring to iapwsPT.
func iapwsPH(set *component.Set, P, H float64, molarFlow float64) (*stream.StreamState, error) {
	T := 373.15
	for iter := 0; iter < 100; iter++ {
		ss, err := iapwsPT(set, T, P, 1)
		if err != nil {
			break
		}
		resid := ss.H - H
		if math.Abs(resid) < 0.1*ss.MW/1000 {
			break
		}
		cp := valueOr(ss.Cp, 33.6)
		if cp <= 0 {
			cp = 33.6
		}
		T -= resid / cp
		if T < 273.16 {
			T = 273.16
		}
		if T > 2273.15 {
			T = 2273.15
		}
	}
	return iapwsPT(set, T, P, molarFlow)
}

// iapwsPS resolves (P, S) to T via Newton iteration (dS/dT ~ Cp/T),
// otherwise identical in structure to iapwsPH.
func iapwsPS(set *component.Set, P, S float64, molarFlow float64) (*stream.StreamState, error) {
	T := 373.15
	for iter := 0; iter < 100; iter++ {
		ss, err := iapwsPT(set, T, P, 1)
		if err != nil {
			break
		}
		resid := ss.S - S
		if math.Abs(resid) < 0.01*ss.MW/1000 {
			break
		}
		cp := valueOr(ss.Cp, 33.6)
		if cp <= 0 {
			cp = 33.6
		}
		T -= resid * T / cp
		if T < 273.16 {
			T = 273.16
		}
		if T > 2273.15 {
			T = 2273.15
		}
	}
	return iapwsPT(set, T, P, molarFlow)
}
