package component

import (
	"math"

	"github.com/processworks/flowsheet/eos"
)

// TemperatureCorrelations is the callable bundle returned by LoadConstants:
// ideal-gas Cp, liquid Cp, vapor pressure, liquid density, viscosity, and
// thermal conductivity, all as functions of T [K].
type TemperatureCorrelations struct {
	set *Set
	idx int
}

// Correlations returns the temperature-dependent correlation bundle for
// component i in the set.
func (s *Set) Correlations(i int) TemperatureCorrelations {
	return TemperatureCorrelations{set: s, idx: i}
}

func poly3(c [4]float64, t float64) float64 {
	return c[0] + c[1]*t + c[2]*t*t + c[3]*t*t*t
}

// CpIdealGas returns the ideal-gas molar heat capacity (J/mol/K) at T [K].
func (t TemperatureCorrelations) CpIdealGas(T float64) float64 {
	return poly3(t.set.corr[t.idx].CpIG, T)
}

// CpLiquid returns the liquid molar heat capacity (J/mol/K) at T [K].
func (t TemperatureCorrelations) CpLiquid(T float64) float64 {
	return poly3(t.set.corr[t.idx].CpLiq, T)
}

// VaporPressure returns the Antoine-correlation saturation pressure (Pa) at
// T [K]. Returns (0, false) if the correlation is degenerate at this T.
func (t TemperatureCorrelations) VaporPressure(T float64) (float64, bool) {
	c := t.set.corr[t.idx]
	denom := T + c.AntoineC
	if denom == 0 {
		return 0, false
	}
	lnP := c.AntoineA - c.AntoineB/denom
	if math.IsNaN(lnP) || math.IsInf(lnP, 0) {
		return 0, false
	}
	return math.Exp(lnP), true
}

// LiquidMolarVolume returns the saturated liquid molar volume (m3/mol) at
// T [K] via the Rackett correlation, using the component's Vc/Zc/Tc.
func (s *Set) LiquidMolarVolume(i int, T float64) (float64, bool) {
	crit := s.consts[i].Critical
	if crit.Vc <= 0 || crit.Zc <= 0 || crit.Tc <= 0 {
		return 0, false
	}
	tr := T / crit.Tc
	v, err := eos.RackettVsat(crit.Vc, crit.Zc, tr)
	if err != nil || math.IsNaN(v) || v <= 0 {
		return 0, false
	}
	return v, true
}

// LiquidDensity returns the saturated liquid mass density (kg/m3) at T [K].
func (s *Set) LiquidDensity(i int, T float64) (float64, bool) {
	v, ok := s.LiquidMolarVolume(i, T)
	if !ok || v <= 0 {
		return 0, false
	}
	return s.consts[i].MW / 1000 / v, true
}

// Viscosity returns the liquid viscosity (Pa.s) at T [K].
func (t TemperatureCorrelations) Viscosity(T float64) (float64, bool) {
	c := t.set.corr[t.idx]
	if T <= 0 {
		return 0, false
	}
	mu := math.Exp(c.ViscA + c.ViscB/T)
	if math.IsNaN(mu) || math.IsInf(mu, 0) {
		return 0, false
	}
	return mu, true
}

// ThermalConductivity returns the liquid thermal conductivity (W/m/K) at
// T [K].
func (t TemperatureCorrelations) ThermalConductivity(T float64) (float64, bool) {
	c := t.set.corr[t.idx]
	k := c.ThermCondA + c.ThermCondB*T
	if k <= 0 || math.IsNaN(k) {
		return 0, false
	}
	return k, true
}

// SurfaceTension returns a crude linear estimate of surface tension (N/m) at
// T [K] anchored at the normal boiling point, zero above Tc.
func (s *Set) SurfaceTension(i int, T float64) (float64, bool) {
	c := s.consts[i]
	if c.SurfaceRef <= 0 || c.Critical.Tc <= 0 {
		return 0, false
	}
	if T >= c.Critical.Tc {
		return 0, true
	}
	frac := (c.Critical.Tc - T) / (c.Critical.Tc - c.Tb)
	st := c.SurfaceRef * math.Max(frac, 0)
	return st, true
}
