package unitops

import (
	"fmt"

	"github.com/processworks/flowsheet/component"
	"github.com/processworks/flowsheet/flash"
	"github.com/processworks/flowsheet/stream"
)

// RateLaw computes a single reaction's rate (mol/m3/s) from temperature and
// molar concentrations (mol/m3), keyed by CAS. Power-law Arrhenius kinetics
// are the expected shape: k0*exp(-Ea/RT)*Prod(C_i^order_i).
type RateLaw func(T float64, conc map[component.CAS]float64) float64

// KineticReactor models either a CSTR (well-mixed, the rate evaluated once
// at outlet conditions) or a PFR (integrated along reactor volume via
// forward-Euler over NSlices), selected by Mode ("CSTR"/"PFR"). The reactor
// is isothermal at the inlet temperature; adiabatic/energy-balance reactor
// behavior is covered by ConversionReactor/EquilibriumReactor instead.
type KineticReactor struct {
	Base
	Mode         string // "CSTR" or "PFR"
	Reaction     Reaction
	Rate         RateLaw
	VolumeM3     float64
	NSlices      int // PFR integration slices, default 50
	PressureDrop float64
}

func NewKineticReactor(id, name string, engine *flash.Engine, mode string, reaction Reaction, rate RateLaw, volumeM3 float64) *KineticReactor {
	return &KineticReactor{Base: Base{ID: id, Name: name, Engine: engine}, Mode: mode, Reaction: reaction, Rate: rate, VolumeM3: volumeM3, NSlices: 50}
}

func (k *KineticReactor) Kind() string { return "KineticReactor" }

func (k *KineticReactor) Calculate(inlets map[string]*stream.StreamState) (map[string]*stream.StreamState, error) {
	in, ok := inlets["in"]
	if !ok {
		return nil, fmt.Errorf("unitops: KineticReactor %s missing inlet port", k.ID)
	}
	if k.Rate == nil {
		return nil, fmt.Errorf("unitops: KineticReactor %s has no rate law", k.ID)
	}
	set := in.Components
	n := set.N()
	moles0 := make([]float64, n)
	for i, z := range in.Zs {
		moles0[i] = z * in.MolarFlow
	}
	P := in.P - k.PressureDrop
	T := in.T

	concOf := func(moles []float64, totalMolarFlow, volFlowM3PerS float64) map[component.CAS]float64 {
		conc := map[component.CAS]float64{}
		if volFlowM3PerS <= 0 {
			return conc
		}
		for i := 0; i < n; i++ {
			conc[set.CAS(i)] = moles[i] / volFlowM3PerS
		}
		return conc
	}

	volFlow, err := k.volumetricFlow(in)
	if err != nil {
		return nil, fmt.Errorf("unitops: KineticReactor %s: %w", k.ID, err)
	}

	var residenceTime float64
	if volFlow > 0 {
		residenceTime = k.VolumeM3 / volFlow
	}

	switch k.Mode {
	case "PFR":
		slices := k.NSlices
		if slices < 1 {
			slices = 50
		}
		dTau := residenceTime / float64(slices)
		moles := append([]float64(nil), moles0...)
		for s := 0; s < slices; s++ {
			conc := concOf(moles, in.MolarFlow, volFlow)
			r := k.Rate(T, conc)
			dExtent := r * volFlow * dTau
			for cas, coeff := range k.Reaction.Stoichiometry {
				idx := set.IndexOf(cas)
				if idx < 0 {
					continue
				}
				moles[idx] += coeff * dExtent
				if moles[idx] < 0 {
					moles[idx] = 0
				}
			}
		}
		return k.finish(in, moles, T, P)
	default: // CSTR
		// Bisect on the extent that satisfies extent = V*r(C_out).
		lo, hi := 0.0, k.Rate(T, concOf(moles0, in.MolarFlow, volFlow))*k.VolumeM3
		if _, maxExt := extentBounds(set, k.Reaction.Stoichiometry, moles0); maxExt < hi {
			hi = maxExt
		}
		for iter := 0; iter < 100; iter++ {
			mid := (lo + hi) / 2
			cOut := concOf(applyExtent(set, k.Reaction.Stoichiometry, moles0, mid), in.MolarFlow, volFlow)
			if mid < k.Rate(T, cOut)*k.VolumeM3 {
				lo = mid
			} else {
				hi = mid
			}
		}
		extent := (lo + hi) / 2
		moles := append([]float64(nil), moles0...)
		for cas, coeff := range k.Reaction.Stoichiometry {
			idx := set.IndexOf(cas)
			if idx < 0 {
				continue
			}
			moles[idx] += coeff * extent
			if moles[idx] < 0 {
				moles[idx] = 0
			}
		}
		return k.finish(in, moles, T, P)
	}
}

func (k *KineticReactor) finish(in *stream.StreamState, moles []float64, T, P float64) (map[string]*stream.StreamState, error) {
	var total float64
	for _, m := range moles {
		total += m
	}
	zsOut := stream.Normalize(moles)
	out, err := k.Engine.PTFlash(T, P, zsOut, total)
	if err != nil {
		return nil, fmt.Errorf("unitops: KineticReactor %s: %w", k.ID, err)
	}
	k.Diag.DutyW = (out.H*out.MolarFlow - in.H*in.MolarFlow)
	k.Diag.extra("mode", k.Mode)
	return map[string]*stream.StreamState{"out": out}, nil
}

// volumetricFlow gets the inlet's actual volumetric flow rate (m3/s),
// falling back to an estimate from molar flow and ideal-gas volume if the
// flash didn't attach a density.
func (k *KineticReactor) volumetricFlow(in *stream.StreamState) (float64, error) {
	if in.VolFlow != nil && *in.VolFlow > 0 {
		return *in.VolFlow / 3600, nil
	}
	if in.MassDensity != nil && *in.MassDensity > 0 {
		return in.MassFlow / *in.MassDensity, nil
	}
	const R = 8.314462618
	return in.MolarFlow * R * in.T / in.P, nil
}
