// Package flash is the thermodynamic flash engine: given two intensive
// specifications plus overall composition and molar flow, it returns a
// fully-resolved stream.StreamState. It is the one capability proppkg.Package
// exposes to the rest of this module.
package flash

import (
	"errors"
	"math"
	"sync"

	"github.com/processworks/flowsheet/activity"
	"github.com/processworks/flowsheet/eos"
	"github.com/processworks/flowsheet/proppkg"
	"github.com/processworks/flowsheet/stream"
)

// Standard reference conditions for standard gas flow.
const (
	TStd = 288.15  // K
	PStd = 101325  // Pa
	PRef = 101325  // Pa, entropy reference pressure
	TRef = 298.15  // K, formation-enthalpy/entropy reference temperature
	MWWater = 18.01528
)

// Engine is a flash engine bound to one property package. It is logically
// immutable after construction: the only mutable state is a lazily-built
// PR fallback flasher, guarded by sync.Once so concurrent callers never race
// its construction.
type Engine struct {
	Pkg   *proppkg.Package
	gamma activity.Model // non-nil only for NRTL/UNIFAC/UNIQUAC packages

	fallbackOnce sync.Once
	fallback     *Engine
}

// New builds a flash Engine for pkg. Activity-coefficient packages get their
// Gibbs-excess model constructed once up front; PR/SRK/IAPWS packages leave
// gamma nil.
func New(pkg *proppkg.Package) *Engine {
	e := &Engine{Pkg: pkg}
	if pkg.UsesActivityModel() {
		e.gamma = activity.NewModel(pkg.Kind.String(), pkg.Set)
	}
	return e
}

// fallbackEngine lazily builds (once) a PR flasher over the same component
// set, used when an activity-coefficient flash fails. Never invoked when the
// primary package is already PR/SRK.
func (e *Engine) fallbackEngine() *Engine {
	e.fallbackOnce.Do(func() {
		pr, err := proppkg.New(proppkg.KindPR, e.Pkg.Set, proppkg.BuildKijMatrix(e.Pkg.Set))
		if err != nil {
			return
		}
		e.fallback = New(pr)
	})
	return e.fallback
}

// ErrFlash is returned when a flash cannot produce a physically sensible
// result even after the PR fallback (if any) is tried.
type ErrFlash struct{ Msg string }

func (e ErrFlash) Error() string { return e.Msg }

func normalizeInput(zs []float64) []float64 {
	return stream.Normalize(append([]float64(nil), zs...))
}

// PTFlash resolves (T, P, zs) to a full StreamState. Molar flow may be zero
// (used internally for per-phase reflashes of a zero-flow sentinel).
func (e *Engine) PTFlash(T, P float64, zs []float64, molarFlow float64) (*stream.StreamState, error) {
	zs = normalizeInput(zs)
	if e.Pkg.IsWater() {
		return iapwsPT(e.Pkg.Set, T, P, molarFlow)
	}
	ss, err := e.ptFlashCore(T, P, zs, molarFlow)
	if err != nil && e.Pkg.UsesActivityModel() {
		fb := e.fallbackEngine()
		if fb != nil {
			r, ferr := fb.ptFlashCore(T, P, zs, molarFlow)
			if ferr == nil {
				r.Warnings = append(r.Warnings, "activity-model flash failed, fell back to PR: "+err.Error())
				return r, nil
			}
		}
		return nil, err
	}
	return ss, err
}

// PHFlash resolves (P, H, zs) to T via a secant iteration on T, then returns
// the StreamState at that T. H is J/mol.
func (e *Engine) PHFlash(P, H float64, zs []float64, molarFlow float64) (*stream.StreamState, error) {
	zs = normalizeInput(zs)
	if e.Pkg.IsWater() {
		return iapwsPH(e.Pkg.Set, P, H, molarFlow)
	}
	T, err := e.solveTFor(P, zs, func(T float64) (float64, error) {
		ss, err := e.ptFlashCore(T, P, zs, 1)
		if err != nil {
			return 0, err
		}
		return ss.H, nil
	}, H, 373.15)
	if err != nil {
		if e.Pkg.UsesActivityModel() {
			fb := e.fallbackEngine()
			if fb != nil {
				return fb.PHFlash(P, H, zs, molarFlow)
			}
		}
		return nil, err
	}
	return e.PTFlash(T, P, zs, molarFlow)
}

// PSFlash resolves (P, S, zs) to T via a secant iteration on T. S is J/mol/K.
func (e *Engine) PSFlash(P, S float64, zs []float64, molarFlow float64) (*stream.StreamState, error) {
	zs = normalizeInput(zs)
	if e.Pkg.IsWater() {
		return iapwsPS(e.Pkg.Set, P, S, molarFlow)
	}
	T, err := e.solveTFor(P, zs, func(T float64) (float64, error) {
		ss, err := e.ptFlashCore(T, P, zs, 1)
		if err != nil {
			return 0, err
		}
		return ss.S, nil
	}, S, 373.15)
	if err != nil {
		if e.Pkg.UsesActivityModel() {
			fb := e.fallbackEngine()
			if fb != nil {
				return fb.PSFlash(P, S, zs, molarFlow)
			}
		}
		return nil, err
	}
	return e.PTFlash(T, P, zs, molarFlow)
}

// solveTFor is the shared secant solver backing PH/PS flash: finds T such
// that f(T) == target, bounded to [100, 2000] K.
func (e *Engine) solveTFor(P float64, zs []float64, f func(float64) (float64, error), target, T0 float64) (float64, error) {
	t0, t1 := T0-5, T0+5
	f0, err := f(t0)
	if err != nil {
		return 0, err
	}
	f1, err := f(t1)
	if err != nil {
		return 0, err
	}
	for iter := 0; iter < 100; iter++ {
		if math.Abs(f1-f0) < 1e-9 {
			break
		}
		tNext := t1 - (f1-target)*(t1-t0)/(f1-f0)
		if tNext < 100 {
			tNext = 100
		}
		if tNext > 2000 {
			tNext = 2000
		}
		fNext, err := f(tNext)
		if err != nil {
			return 0, err
		}
		if math.Abs(fNext-target) < 1e-3 {
			return tNext, nil
		}
		t0, f0 = t1, f1
		t1, f1 = tNext, fNext
	}
	return 0, errors.New("flash: PH/PS temperature solve did not converge")
}

// TVFFlash returns the StreamState at the given T whose vapor fraction
// equals VF, found via bisection on P between the dew and bubble points.
func (e *Engine) TVFFlash(T, VF float64, zs []float64, molarFlow float64) (*stream.StreamState, error) {
	zs = normalizeInput(zs)
	pBub, err := e.BubblePointP(T, zs)
	if err != nil {
		return nil, err
	}
	pDew, err := e.DewPointP(T, zs)
	if err != nil {
		return nil, err
	}
	lo, hi := math.Min(pBub, pDew), math.Max(pBub, pDew)
	if lo <= 0 {
		lo = hi * 0.01
	}
	for iter := 0; iter < 60; iter++ {
		mid := (lo + hi) / 2
		ss, err := e.PTFlash(T, mid, zs, molarFlow)
		if err != nil {
			return nil, err
		}
		if math.Abs(ss.VaporFraction-VF) < 1e-4 {
			return ss, nil
		}
		// Higher pressure condenses more liquid -> lower vapor fraction.
		if ss.VaporFraction > VF {
			lo = mid
		} else {
			hi = mid
		}
	}
	return e.PTFlash(T, (lo+hi)/2, zs, molarFlow)
}

// PVFFlash returns the StreamState at the given P whose vapor fraction
// equals VF, found via bisection on T between the dew and bubble points.
func (e *Engine) PVFFlash(P, VF float64, zs []float64, molarFlow float64) (*stream.StreamState, error) {
	zs = normalizeInput(zs)
	tBub, err := e.BubblePointT(P, zs)
	if err != nil {
		return nil, err
	}
	tDew, err := e.DewPointT(P, zs)
	if err != nil {
		return nil, err
	}
	lo, hi := math.Min(tBub, tDew), math.Max(tBub, tDew)
	for iter := 0; iter < 60; iter++ {
		mid := (lo + hi) / 2
		ss, err := e.PTFlash(mid, P, zs, molarFlow)
		if err != nil {
			return nil, err
		}
		if math.Abs(ss.VaporFraction-VF) < 1e-4 {
			return ss, nil
		}
		if ss.VaporFraction < VF {
			lo = mid
		} else {
			hi = mid
		}
	}
	return e.PTFlash((lo+hi)/2, P, zs, molarFlow)
}

// BubblePointT returns the bubble-point temperature (K) at pressure P for
// composition zs (liquid just begins to vaporize).
func (e *Engine) BubblePointT(P float64, zs []float64) (float64, error) {
	zs = normalizeInput(zs)
	if e.Pkg.IsWater() {
		return iapwsSatT(P)
	}
	lo, hi := 100.0, 2000.0
	for iter := 0; iter < 60; iter++ {
		mid := (lo + hi) / 2
		sum := e.sumKz(mid, P, zs)
		if math.Abs(sum-1) < 1e-6 {
			return mid, nil
		}
		if sum > 1 {
			hi = mid
		} else {
			lo = mid
		}
	}
	return (lo + hi) / 2, nil
}

// DewPointT returns the dew-point temperature (K) at pressure P for
// composition zs (vapor just begins to condense).
func (e *Engine) DewPointT(P float64, zs []float64) (float64, error) {
	zs = normalizeInput(zs)
	if e.Pkg.IsWater() {
		return iapwsSatT(P)
	}
	lo, hi := 100.0, 2000.0
	for iter := 0; iter < 60; iter++ {
		mid := (lo + hi) / 2
		sum := e.sumZoverK(mid, P, zs)
		if math.Abs(sum-1) < 1e-6 {
			return mid, nil
		}
		if sum > 1 {
			lo = mid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2, nil
}

// BubblePointP returns the bubble-point pressure (Pa) at temperature T.
func (e *Engine) BubblePointP(T float64, zs []float64) (float64, error) {
	zs = normalizeInput(zs)
	if e.Pkg.IsWater() {
		return iapwsSatP(T), nil
	}
	lo, hi := 1.0, 1e8
	for iter := 0; iter < 60; iter++ {
		mid := (lo + hi) / 2
		sum := e.sumKz(T, mid, zs)
		if math.Abs(sum-1) < 1e-6 {
			return mid, nil
		}
		if sum > 1 {
			lo = mid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2, nil
}

// DewPointP returns the dew-point pressure (Pa) at temperature T.
func (e *Engine) DewPointP(T float64, zs []float64) (float64, error) {
	zs = normalizeInput(zs)
	if e.Pkg.IsWater() {
		return iapwsSatP(T), nil
	}
	lo, hi := 1.0, 1e8
	for iter := 0; iter < 60; iter++ {
		mid := (lo + hi) / 2
		sum := e.sumZoverK(T, mid, zs)
		if math.Abs(sum-1) < 1e-6 {
			return mid, nil
		}
		if sum > 1 {
			hi = mid
		} else {
			lo = mid
		}
	}
	return (lo + hi) / 2, nil
}

func (e *Engine) sumKz(T, P float64, zs []float64) float64 {
	ks := e.initialK(T, P)
	var sum float64
	for i, z := range zs {
		sum += z * ks[i]
	}
	return sum
}

func (e *Engine) sumZoverK(T, P float64, zs []float64) float64 {
	ks := e.initialK(T, P)
	var sum float64
	for i, z := range zs {
		if ks[i] <= 0 {
			continue
		}
		sum += z / ks[i]
	}
	return sum
}

// initialK returns the Wilson-correlation K-value estimate for every
// component at (T, P), used to seed the Rachford-Rice flash and the
// bubble/dew bisections.
func (e *Engine) initialK(T, P float64) []float64 {
	set := e.Pkg.Set
	n := set.N()
	ks := make([]float64, n)
	for i := 0; i < n; i++ {
		c := set.Constants(i)
		ks[i] = eos.WilsonK(c.Critical.Tc, c.Critical.Pc, c.Acentric, T, P)
	}
	return ks
}
