package eos

import "math"

// Params are the substance-agnostic constants of a cubic equation of state.
type Params struct {
	Sigma, Epsilon, Omega, Psi float64
}

// Kind identifies which cubic equation of state a Mixture uses. Only PR and
// SRK are supported; van der Waals and Redlich-Kwong are not implemented.
type Kind int

const (
	PR Kind = iota
	SRK
)

func (k Kind) params() Params {
	switch k {
	case SRK:
		return Params{Sigma: 1, Epsilon: 0, Omega: 0.08664, Psi: 0.42728}
	default: // PR
		return Params{Sigma: 1 + math.Sqrt2, Epsilon: 1 - math.Sqrt2, Omega: 0.07780, Psi: 0.45724}
	}
}

func (k Kind) alpha(tr, w float64) float64 {
	var a float64
	switch k {
	case SRK:
		a = 0.480 + 1.574*w - 0.176*w*w
	default: // PR
		if w > 0.491 {
			a = 0.379642 + 1.48503*w - 0.164423*w*w + 0.016666*w*w*w
		} else {
			a = 0.37464 + 1.54226*w - 0.26992*w*w
		}
	}
	b := 1 - math.Sqrt(tr)
	c := 1 + a*b
	return c * c
}

// R is the universal gas constant, J/(mol.K) — SI throughout this package.
const R = 8.314462618

// ComponentParams holds the per-component a(T) and b cubic-EOS parameters
// computed at the mixture's current temperature.
type ComponentParams struct {
	A, B float64
}

// Mixture binds a cubic-EOS kind to a fixed component set (critical
// properties, acentric factors) and a symmetric binary-interaction-parameter
// matrix. It is immutable once built, matching the "engine and property
// package are logically immutable after construction" resource policy.
type Mixture struct {
	Kind Kind
	Tc   []float64 // K
	Pc   []float64 // Pa
	W    []float64 // acentric factors
	Kij  [][]float64
}

// NewMixture builds a Mixture EOS. kij may be nil, in which case all binary
// interaction parameters default to zero.
func NewMixture(kind Kind, tc, pc, w []float64, kij [][]float64) (*Mixture, error) {
	n := len(tc)
	if len(pc) != n || len(w) != n {
		return nil, ErrComposition
	}
	if kij == nil {
		kij = make([][]float64, n)
		for i := range kij {
			kij[i] = make([]float64, n)
		}
	}
	return &Mixture{Kind: kind, Tc: tc, Pc: pc, W: w, Kij: kij}, nil
}

// N returns the number of components bound to the mixture.
func (m *Mixture) N() int { return len(m.Tc) }

// componentParams computes each pure component's a_i(T), b_i at temperature T.
func (m *Mixture) componentParams(T float64) []ComponentParams {
	out := make([]ComponentParams, m.N())
	for i := range out {
		tr := T / m.Tc[i]
		alpha := m.Kind.alpha(tr, m.W[i])
		p := m.Kind.params()
		a := p.Psi * alpha * R * R * m.Tc[i] * m.Tc[i] / m.Pc[i]
		b := p.Omega * R * m.Tc[i] / m.Pc[i]
		out[i] = ComponentParams{A: a, B: b}
	}
	return out
}

// MixtureParams are the van-der-Waals one-fluid mixing-rule a_mix, b_mix for
// a composition at a given temperature, plus the per-component a_i needed to
// build fugacity coefficients.
type MixtureParams struct {
	Amix, Bmix float64
	Components []ComponentParams
	Aij        [][]float64
}

// Combine applies van der Waals one-fluid mixing rules at temperature T and
// composition zs to produce the mixture a, b and the cross terms a_ij used by
// the fugacity-coefficient expression.
func (m *Mixture) Combine(T float64, zs []float64) (*MixtureParams, error) {
	if len(zs) != m.N() {
		return nil, ErrComposition
	}
	comps := m.componentParams(T)
	n := m.N()
	aij := make([][]float64, n)
	for i := range aij {
		aij[i] = make([]float64, n)
	}
	var amix, bmix float64
	for i := 0; i < n; i++ {
		bmix += zs[i] * comps[i].B
		for j := 0; j < n; j++ {
			k := m.Kij[i][j]
			aij[i][j] = math.Sqrt(comps[i].A*comps[j].A) * (1 - k)
			amix += zs[i] * zs[j] * aij[i][j]
		}
	}
	return &MixtureParams{Amix: amix, Bmix: bmix, Components: comps, Aij: aij}, nil
}

// VolumeRoots solves the cubic equation of state for molar volume (m3/mol)
// at (T, P, zs). Returns the (possibly 1 or 3) real roots sorted ascending —
// the smallest is the liquid-like root, the largest the vapor-like root.
func (m *Mixture) VolumeRoots(T, P float64, zs []float64) ([]float64, *MixtureParams, error) {
	if T <= 0 {
		return nil, nil, ErrTemp
	}
	if P <= 0 {
		return nil, nil, ErrPressure
	}
	mp, err := m.Combine(T, zs)
	if err != nil {
		return nil, nil, err
	}

	params := m.Kind.params()
	x := params.Epsilon + params.Sigma
	y := params.Epsilon * params.Sigma
	vIG := R * T / P

	a, b := mp.Amix, mp.Bmix
	e := 1.0
	f := b*(x-1) - vIG
	g := b*((y-x)*b-(x*vIG)) + a/P
	h := -y*b*b*(b+vIG) - a*b/P

	roots, err := SolveCubic(e, f, g, h)
	if err != nil {
		return nil, nil, err
	}
	real := RealRoots(roots)
	// Discard any non-physical root smaller than the covolume.
	clean := real[:0]
	for _, v := range real {
		if v > b {
			clean = append(clean, v)
		}
	}
	if len(clean) == 0 {
		return nil, nil, ErrVolume
	}
	return clean, mp, nil
}

// Pressure evaluates P(T, V, zs) for diagnostics/plotting use.
func (m *Mixture) Pressure(T, V float64, zs []float64) (float64, error) {
	if T <= 0 {
		return 0, ErrTemp
	}
	mp, err := m.Combine(T, zs)
	if err != nil {
		return 0, err
	}
	p := m.Kind.params()
	first := R * T / (V - mp.Bmix)
	second := mp.Amix / ((V + p.Epsilon*mp.Bmix) * (V + p.Sigma*mp.Bmix))
	return first - second, nil
}
