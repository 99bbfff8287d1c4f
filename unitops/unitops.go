// Package unitops is the polymorphic unit-operation library: Mixer,
// Splitter, Valve, Pump, Compressor, Turbine, HeaterCooler, HeatExchanger,
// FlashDrum, ThreePhaseSeparator, the four reactor kinds, the two
// distillation kinds, and PipeSegment. Each is a concrete Go type
// implementing Unit; DecodeParams picks the variant by its kind name and
// returns an error for a kind it does not know.
package unitops

import (
	"github.com/processworks/flowsheet/flash"
	"github.com/processworks/flowsheet/stream"
)

// Unit is the contract every unit-operation variant implements: a pure
// function of inlets, parameters, and the bound flash engine, plus a small
// side-effect surface (duty, warnings, diagnostics) recorded on the variant
// itself rather than returned out-of-band.
type Unit interface {
	UnitID() string
	UnitName() string
	Kind() string
	Calculate(inlets map[string]*stream.StreamState) (map[string]*stream.StreamState, error)
	Diagnostics() *Diag
}

// Diag carries the mutable side-channel output every unit op produces
// alongside its outlet streams: duty, warnings, and any unit-specific
// reporting numbers (LMTD, Ft, N_actual, tray profiles, reaction extents).
type Diag struct {
	DutyW          float64
	Efficiency     *float64
	PressureDropPa *float64
	Warnings       []string
	Extra          map[string]any
}

func (d *Diag) warn(msg string) {
	d.Warnings = append(d.Warnings, msg)
}

func (d *Diag) extra(key string, v any) {
	if d.Extra == nil {
		d.Extra = map[string]any{}
	}
	d.Extra[key] = v
}

// Base is embedded by every concrete unit-op variant: the identity fields
// and bound flash engine common to all of them.
type Base struct {
	ID     string
	Name   string
	Engine *flash.Engine
	Diag   Diag
}

func (b *Base) UnitID() string   { return b.ID }
func (b *Base) UnitName() string { return b.Name }
func (b *Base) Diagnostics() *Diag { return &b.Diag }

// weightedMix blends mole fractions across N inlet streams by molar flow,
// used by Mixer and the reactor "base component" bookkeeping.
func weightedMix(states []*stream.StreamState, n int) (zs []float64, totalFlow float64) {
	zs = make([]float64, n)
	for _, s := range states {
		totalFlow += s.MolarFlow
		for i, z := range s.Zs {
			zs[i] += z * s.MolarFlow
		}
	}
	if totalFlow > 0 {
		for i := range zs {
			zs[i] /= totalFlow
		}
	}
	return stream.Normalize(zs), totalFlow
}

func minPressure(states []*stream.StreamState) float64 {
	p := states[0].P
	for _, s := range states[1:] {
		if s.P < p {
			p = s.P
		}
	}
	return p
}
