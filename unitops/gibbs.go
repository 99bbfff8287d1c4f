package unitops

import (
	"fmt"
	"math"

	"github.com/processworks/flowsheet/component"
	"github.com/processworks/flowsheet/flash"
	"github.com/processworks/flowsheet/stream"
	"gonum.org/v1/gonum/optimize"
)

// GibbsReactor finds the product distribution that minimizes total Gibbs
// free energy subject to elemental mass balance, over a caller-supplied set
// of CandidateProducts (reactants themselves are valid candidates, letting
// the optimizer find zero conversion is part of the answer space). Ideal-gas
// chemical potential is used for every candidate: mu_i = Gf_i + R*T*ln(x_i*P/Pref).
// The constrained minimization is cast as an unconstrained one over the n
// log mole numbers (moles_i = exp(x_i)), and a quadratic penalty enforces
// elemental balance (gonum/optimize has no native
// constrained solver in this module's dependency set; see DESIGN.md).
type GibbsReactor struct {
	Base
	CandidateProducts []component.CAS
	OutletTemperature *float64
	PressureDrop      float64
}

func NewGibbsReactor(id, name string, engine *flash.Engine, candidates []component.CAS) *GibbsReactor {
	return &GibbsReactor{Base: Base{ID: id, Name: name, Engine: engine}, CandidateProducts: candidates}
}

func (g *GibbsReactor) Kind() string { return "GibbsReactor" }

func (g *GibbsReactor) Calculate(inlets map[string]*stream.StreamState) (map[string]*stream.StreamState, error) {
	in, ok := inlets["in"]
	if !ok {
		return nil, fmt.Errorf("unitops: GibbsReactor %s missing inlet port", g.ID)
	}
	set := in.Components
	n := set.N()
	T := in.T
	if g.OutletTemperature != nil {
		T = *g.OutletTemperature
	}
	P := in.P - g.PressureDrop

	moles0 := make([]float64, n)
	var totalMoles0 float64
	for i, z := range in.Zs {
		moles0[i] = z * in.MolarFlow
		totalMoles0 += moles0[i]
	}

	elements, atomMatrix := elementalMatrix(set)
	b := make([]float64, len(elements))
	for e := range elements {
		for i := 0; i < n; i++ {
			b[e] += atomMatrix[e][i] * moles0[i]
		}
	}

	gf := make([]float64, n)
	for i := 0; i < n; i++ {
		gf[i] = set.Constants(i).Hf - T*set.Constants(i).Sf
	}
	const R = 8.314462618
	const penaltyWeight = 1e8

	objective := func(logMoles []float64) float64 {
		moles := make([]float64, n)
		var total float64
		for i := 0; i < n; i++ {
			moles[i] = math.Exp(logMoles[i])
			total += moles[i]
		}
		var G float64
		for i := 0; i < n; i++ {
			x := moles[i] / total
			if x <= 0 {
				continue
			}
			mu := gf[i] + R*T*math.Log(x*P/101325)
			G += moles[i] * mu
		}
		var penalty float64
		for e := range elements {
			var sum float64
			for i := 0; i < n; i++ {
				sum += atomMatrix[e][i] * moles[i]
			}
			diff := sum - b[e]
			penalty += diff * diff
		}
		return G + penaltyWeight*penalty
	}

	x0 := make([]float64, n)
	for i := range x0 {
		seed := moles0[i]
		if seed <= 0 {
			seed = totalMoles0 * 1e-6
		}
		x0[i] = math.Log(seed)
	}

	problem := optimize.Problem{Func: objective}
	result, err := optimize.Minimize(problem, x0, &optimize.Settings{MajorIterations: 500}, &optimize.NelderMead{})
	if err != nil && result == nil {
		g.Diag.warn(fmt.Sprintf("Gibbs minimization failed (%v); falling back to a non-reacting PT flash", err))
		out, ferr := g.Engine.PTFlash(T, P, in.Zs, in.MolarFlow)
		if ferr != nil {
			return nil, fmt.Errorf("unitops: GibbsReactor %s: fallback PT flash failed: %w", g.ID, ferr)
		}
		g.Diag.DutyW = out.H*out.MolarFlow - in.H*in.MolarFlow
		return map[string]*stream.StreamState{"out": out}, nil
	}

	moles := make([]float64, n)
	var totalMoles float64
	for i := 0; i < n; i++ {
		moles[i] = math.Exp(result.X[i])
		totalMoles += moles[i]
	}
	zsOut := stream.Normalize(moles)

	out, ferr := g.Engine.PTFlash(T, P, zsOut, totalMoles)
	if ferr != nil {
		return nil, fmt.Errorf("unitops: GibbsReactor %s: %w", g.ID, ferr)
	}
	g.Diag.DutyW = (out.H*out.MolarFlow - in.H*in.MolarFlow)
	g.Diag.extra("gibbs_energy_J", result.F)
	return map[string]*stream.StreamState{"out": out}, nil
}

// elementalMatrix builds the atom-count matrix (elements x components) used
// for the Gibbs reactor's mass-balance constraint, from each component's
// Formula. Components with no digitized formula contribute an all-zero
// column, meaning they are treated as inert if the caller doesn't supply
// their balance elsewhere.
func elementalMatrix(set *component.Set) (elements []string, matrix [][]float64) {
	seen := map[string]int{}
	n := set.N()
	for i := 0; i < n; i++ {
		f := set.Constants(i).Formula
		for el := range f {
			if _, ok := seen[el]; !ok {
				seen[el] = len(elements)
				elements = append(elements, el)
			}
		}
	}
	matrix = make([][]float64, len(elements))
	for e := range matrix {
		matrix[e] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		f := set.Constants(i).Formula
		for el, count := range f {
			matrix[seen[el]][i] = count
		}
	}
	return elements, matrix
}
