package unitops

import (
	"fmt"
	"math"

	"github.com/processworks/flowsheet/component"
	"github.com/processworks/flowsheet/flash"
	"github.com/processworks/flowsheet/stream"
)

// Reaction is a single stoichiometric reaction: Stoichiometry maps a
// component CAS to its signed stoichiometric coefficient (negative for
// reactants, positive for products). HeatOfReaction is J per mole of
// reaction extent, applied at TRef and carried through the
// outlet PH flash.
type Reaction struct {
	Stoichiometry  map[component.CAS]float64
	HeatOfReaction float64
}

// ConversionReactor applies one or more reactions at a specified fractional
// conversion of each reaction's limiting reactant, then flashes the product
// mixture at the inlet pressure (minus PressureDrop): at OutletTemperature
// when it is set, otherwise adiabatically by a PH flash on the inlet
// enthalpy less the reaction heat.
type ConversionReactor struct {
	Base
	Reactions        []Reaction
	LimitingReactant  []component.CAS // parallel to Reactions
	Conversion        []float64       // parallel to Reactions, 0..1
	OutletTemperature *float64        // K, nil means adiabatic (energy balance solved on H)
	PressureDrop      float64
}

func NewConversionReactor(id, name string, engine *flash.Engine) *ConversionReactor {
	return &ConversionReactor{Base: Base{ID: id, Name: name, Engine: engine}}
}

func (r *ConversionReactor) Kind() string { return "ConversionReactor" }

func (r *ConversionReactor) Calculate(inlets map[string]*stream.StreamState) (map[string]*stream.StreamState, error) {
	in, ok := inlets["in"]
	if !ok {
		return nil, fmt.Errorf("unitops: ConversionReactor %s missing inlet port", r.ID)
	}
	if len(r.Reactions) != len(r.LimitingReactant) || len(r.Reactions) != len(r.Conversion) {
		return nil, fmt.Errorf("unitops: ConversionReactor %s reaction/conversion arrays mismatched", r.ID)
	}
	set := in.Components
	n := set.N()
	moles := make([]float64, n)
	for i, z := range in.Zs {
		moles[i] = z * in.MolarFlow
	}

	var reactionHeat float64
	for ri, rxn := range r.Reactions {
		limIdx := set.IndexOf(r.LimitingReactant[ri])
		if limIdx < 0 {
			return nil, fmt.Errorf("unitops: ConversionReactor %s reaction %d: limiting reactant not in component set", r.ID, ri)
		}
		limCoeff := rxn.Stoichiometry[r.LimitingReactant[ri]]
		if limCoeff >= 0 {
			return nil, fmt.Errorf("unitops: ConversionReactor %s reaction %d: limiting reactant coefficient must be negative", r.ID, ri)
		}
		limMolesAvailable := moles[limIdx]
		extent := r.Conversion[ri] * limMolesAvailable / -limCoeff
		for cas, coeff := range rxn.Stoichiometry {
			idx := set.IndexOf(cas)
			if idx < 0 {
				continue
			}
			moles[idx] += coeff * extent
			if moles[idx] < 0 {
				moles[idx] = 0
			}
		}
		reactionHeat += rxn.HeatOfReaction * extent
	}

	var totalMoles float64
	for _, m := range moles {
		totalMoles += m
	}
	zsOut := stream.Normalize(moles)

	P := in.P - r.PressureDrop
	var out *stream.StreamState
	var err error
	if r.OutletTemperature != nil {
		out, err = r.Engine.PTFlash(*r.OutletTemperature, P, zsOut, totalMoles)
	} else {
		Hin := in.H * in.MolarFlow
		Hout := Hin - reactionHeat
		out, err = r.Engine.PHFlash(P, Hout/totalMoles, zsOut, totalMoles)
	}
	if err != nil {
		return nil, fmt.Errorf("unitops: ConversionReactor %s: %w", r.ID, err)
	}
	r.Diag.DutyW = -reactionHeat
	r.Diag.extra("heat_of_reaction_W", -reactionHeat)
	return map[string]*stream.StreamState{"out": out}, nil
}

// EquilibriumReactor solves a single reversible reaction to chemical
// equilibrium at a caller-supplied equilibrium constant Keq(T) (mole-
// fraction basis), via bisection on the reaction extent. This is a
// simplified single-reaction equilibrium solver, not a full multi-reaction
// Gibbs minimization (see GibbsReactor for that, and DESIGN.md).
type EquilibriumReactor struct {
	Base
	Reaction          Reaction
	KeqAtT            func(T float64) float64
	OutletTemperature *float64
	PressureDrop      float64
}

func NewEquilibriumReactor(id, name string, engine *flash.Engine) *EquilibriumReactor {
	return &EquilibriumReactor{Base: Base{ID: id, Name: name, Engine: engine}}
}

func (r *EquilibriumReactor) Kind() string { return "EquilibriumReactor" }

func (r *EquilibriumReactor) Calculate(inlets map[string]*stream.StreamState) (map[string]*stream.StreamState, error) {
	in, ok := inlets["in"]
	if !ok {
		return nil, fmt.Errorf("unitops: EquilibriumReactor %s missing inlet port", r.ID)
	}
	if r.KeqAtT == nil {
		return nil, fmt.Errorf("unitops: EquilibriumReactor %s has no equilibrium-constant function", r.ID)
	}
	T := in.T
	if r.OutletTemperature != nil {
		T = *r.OutletTemperature
	}
	set := in.Components
	n := set.N()
	moles0 := make([]float64, n)
	for i, z := range in.Zs {
		moles0[i] = z * in.MolarFlow
	}

	minExtent, maxExtent := extentBounds(set, r.Reaction.Stoichiometry, moles0)
	keq := r.KeqAtT(T)

	kx := func(extent float64) float64 {
		moles := applyExtent(set, r.Reaction.Stoichiometry, moles0, extent)
		var total float64
		for _, m := range moles {
			total += m
		}
		if total <= 0 {
			return math.Inf(1)
		}
		var prod float64 = 1
		for cas, coeff := range r.Reaction.Stoichiometry {
			idx := set.IndexOf(cas)
			x := moles[idx] / total
			if x <= 0 {
				x = 1e-12
			}
			prod *= math.Pow(x, coeff)
		}
		return prod - keq
	}

	lo, hi := minExtent+1e-9, maxExtent-1e-9
	flo, fhi := kx(lo), kx(hi)
	extent := lo
	if flo*fhi <= 0 {
		for iter := 0; iter < 80; iter++ {
			mid := (lo + hi) / 2
			fm := kx(mid)
			if math.Abs(fm) < 1e-10 {
				extent = mid
				break
			}
			if fm*flo < 0 {
				hi, fhi = mid, fm
			} else {
				lo, flo = mid, fm
			}
			extent = mid
		}
	} else {
		r.Diag.warn("equilibrium extent bisection bracket invalid; defaulting to no reaction")
		extent = 0
	}

	molesOut := applyExtent(set, r.Reaction.Stoichiometry, moles0, extent)
	var totalMoles float64
	for _, m := range molesOut {
		totalMoles += m
	}
	zsOut := stream.Normalize(molesOut)

	P := in.P - r.PressureDrop
	out, err := r.Engine.PTFlash(T, P, zsOut, totalMoles)
	if err != nil {
		return nil, fmt.Errorf("unitops: EquilibriumReactor %s: %w", r.ID, err)
	}
	reactionHeat := r.Reaction.HeatOfReaction * extent
	r.Diag.DutyW = (out.H*out.MolarFlow - in.H*in.MolarFlow) - (-reactionHeat)
	r.Diag.extra("extent_mol_s", extent)
	r.Diag.extra("keq", keq)
	return map[string]*stream.StreamState{"out": out}, nil
}

// extentBounds returns the range of reaction extents that keep every
// participating species' moles non-negative.
func extentBounds(set *component.Set, stoich map[component.CAS]float64, moles0 []float64) (minExtent, maxExtent float64) {
	minExtent, maxExtent = math.Inf(-1), math.Inf(1)
	for cas, coeff := range stoich {
		idx := set.IndexOf(cas)
		if idx < 0 || coeff == 0 {
			continue
		}
		bound := -moles0[idx] / coeff
		if coeff < 0 {
			if bound < maxExtent {
				maxExtent = bound
			}
		} else {
			if bound > minExtent {
				minExtent = bound
			}
		}
	}
	if minExtent < 0 {
		minExtent = 0
	}
	return minExtent, maxExtent
}

func applyExtent(set *component.Set, stoich map[component.CAS]float64, moles0 []float64, extent float64) []float64 {
	n := set.N()
	out := append([]float64(nil), moles0...)
	for cas, coeff := range stoich {
		idx := set.IndexOf(cas)
		if idx < 0 {
			continue
		}
		out[idx] += coeff * extent
		if out[idx] < 0 {
			out[idx] = 0
		}
	}
	if len(out) != n {
		out = append(out, make([]float64, n-len(out))...)
	}
	return out
}
