// Package stream defines StreamState, the immutable value type every unit
// operation and flash call in this module consumes and produces.
package stream

import (
	"math"

	"github.com/processworks/flowsheet/component"
)

// Phase enumerates a stream's bulk phase label, assigned from its vapor
// fraction against a pair of threshold cutoffs.
type Phase int

const (
	Liquid Phase = iota
	Vapor
	TwoPhase
	LiquidLiquidVapor
)

func (p Phase) String() string {
	switch p {
	case Vapor:
		return "vapor"
	case Liquid:
		return "liquid"
	case TwoPhase:
		return "two-phase"
	case LiquidLiquidVapor:
		return "liquid-liquid-vapor"
	default:
		return "unknown"
	}
}

// ClassifyVaporFraction maps a vapor fraction to a Phase label using the
// flash-engine thresholds: >0.9999 vapor, <0.0001 liquid, else two-phase.
func ClassifyVaporFraction(vf float64) Phase {
	switch {
	case vf > 0.9999:
		return Vapor
	case vf < 0.0001:
		return Liquid
	default:
		return TwoPhase
	}
}

// StreamState is the central, logically-immutable value type carrying one
// stream's full thermodynamic and flow description. Every unit op and flash
// call returns a new StreamState rather than mutating one in place.
//
// Optional mixture properties (those a correlation can fail to produce) are
// carried as *float64 so a failed getter serializes as null rather than NaN.
type StreamState struct {
	Components *component.Set

	T float64 // K
	P float64 // Pa

	Phase                         Phase
	VaporFraction, LiquidFraction float64

	Zs  []float64 // overall mole fractions, len == Components.N()
	Ys  []float64 // vapor mole fractions, nil if no vapor phase
	Xs  []float64 // primary liquid mole fractions, nil if no liquid phase
	Xs2 []float64 // secondary (aqueous) liquid mole fractions, VLLE only

	H float64 // molar enthalpy, J/mol
	S float64 // molar entropy, J/mol/K
	Cp *float64
	Cv *float64
	G  *float64

	MW                  float64 // mixture molecular weight, g/mol
	MassDensity          *float64 // kg/m3
	Viscosity            *float64 // Pa.s
	ThermalConductivity  *float64 // W/m/K
	SpeedOfSound         *float64 // m/s
	JouleThomson         *float64 // K/Pa
	IsentropicExponent   *float64
	Z                    *float64 // compressibility factor
	SurfaceTension       *float64 // N/m

	MolarFlow float64 // mol/s
	MassFlow  float64 // kg/s

	VolFlow    *float64 // m3/h
	StdGasFlow *float64 // Sm3/h

	Warnings []string
}

// Normalize scales a composition vector to sum to 1, leaving an all-zero
// vector unchanged (caller decides the default-fraction fallback).
func Normalize(zs []float64) []float64 {
	var sum float64
	for _, z := range zs {
		sum += z
	}
	if sum <= 0 {
		return zs
	}
	out := make([]float64, len(zs))
	for i, z := range zs {
		out[i] = z / sum
	}
	return out
}

// ClampNonNegative floors every element of zs at zero, in place on a copy.
func ClampNonNegative(zs []float64) []float64 {
	out := make([]float64, len(zs))
	for i, z := range zs {
		if z < 0 {
			z = 0
		}
		out[i] = z
	}
	return out
}

// MWMix computes the mixture molecular weight (g/mol) for mole fractions zs
// against the component set cs.
func MWMix(cs *component.Set, zs []float64) float64 {
	return cs.MWMix(zs)
}

// MassFlowFromMolar converts a molar flow (mol/s) and mixture MW (g/mol) to
// a mass flow (kg/s): mass_flow = molar_flow * MW_mix / 1000.
func MassFlowFromMolar(molarFlow, mwMix float64) float64 {
	return molarFlow * mwMix / 1000
}

// ZeroFlowSentinel returns a degenerate StreamState at the given drum
// conditions with zero flow, used when a unit op's phase split finds no
// material on one outlet (e.g. a dry flash drum's liquid port).
func ZeroFlowSentinel(cs *component.Set, T, P float64, zs []float64, phase Phase) *StreamState {
	return &StreamState{
		Components:    cs,
		T:             T,
		P:             P,
		Phase:         phase,
		VaporFraction: boolToFrac(phase == Vapor),
		LiquidFraction: boolToFrac(phase != Vapor),
		Zs:            Normalize(append([]float64(nil), zs...)),
		MW:            cs.MWMix(zs),
		MolarFlow:     0,
		MassFlow:      0,
	}
}

func boolToFrac(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// Clone returns a shallow copy of s with independently-owned composition
// slices, so a caller can scale flows or otherwise mutate the copy without
// aliasing the original's slices.
func (s *StreamState) Clone() *StreamState {
	c := *s
	c.Zs = append([]float64(nil), s.Zs...)
	if s.Ys != nil {
		c.Ys = append([]float64(nil), s.Ys...)
	}
	if s.Xs != nil {
		c.Xs = append([]float64(nil), s.Xs...)
	}
	if s.Xs2 != nil {
		c.Xs2 = append([]float64(nil), s.Xs2...)
	}
	c.Warnings = append([]string(nil), s.Warnings...)
	return &c
}

// ScaledFlow returns a clone of s with molar/mass flow scaled by factor,
// used by Splitter and by FlashDrum's per-phase outlet construction.
func (s *StreamState) ScaledFlow(factor float64) *StreamState {
	c := s.Clone()
	c.MolarFlow = s.MolarFlow * factor
	c.MassFlow = s.MassFlow * factor
	if s.VolFlow != nil {
		v := *s.VolFlow * factor
		c.VolFlow = &v
	}
	if s.StdGasFlow != nil {
		v := *s.StdGasFlow * factor
		c.StdGasFlow = &v
	}
	return c
}

// IsFinite reports whether a value is both non-NaN and non-infinite, the
// condition every flash-engine getter checks before keeping a property
// rather than dropping it to nil.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Safe wraps a correlation call so a NaN/Inf/failing result becomes nil
// instead of propagating.
func Safe(v float64, ok bool) *float64 {
	if !ok || !IsFinite(v) {
		return nil
	}
	out := v
	return &out
}
