package flash

import (
	"errors"
	"math"

	"github.com/processworks/flowsheet/eos"
	"github.com/processworks/flowsheet/stream"
)

// ptFlashCore is the shared PT-flash implementation for PR/SRK and
// activity-coefficient packages (the IAPWS path is handled separately in
// iapws.go). It determines the phase split via successive-substitution
// Rachford-Rice, then assembles the bulk StreamState.
func (e *Engine) ptFlashCore(T, P float64, zs []float64, molarFlow float64) (*stream.StreamState, error) {
	if T <= 0 {
		return nil, errors.New("flash: T must be positive")
	}
	if P <= 0 {
		return nil, errors.New("flash: P must be positive")
	}
	set := e.Pkg.Set
	n := set.N()

	ks := e.initialK(T, P)
	sumKz, sumZoverK := 0.0, 0.0
	for i, z := range zs {
		sumKz += z * ks[i]
		if ks[i] > 0 {
			sumZoverK += z / ks[i]
		}
	}

	var vf float64
	var xs, ys []float64
	switch {
	case sumKz <= 1:
		vf = 0
		xs = append([]float64(nil), zs...)
	case sumZoverK <= 1:
		vf = 1
		ys = append([]float64(nil), zs...)
	default:
		var ok bool
		vf, ok = solveRachfordRice(zs, ks)
		if !ok {
			vf = 0.5
		}
		xs, ys = splitComposition(zs, ks, vf)
		// Successive substitution on K via rigorous fugacities/activities.
		for iter := 0; iter < 15; iter++ {
			newKs, convErr := e.updateK(T, P, xs, ys)
			if convErr != nil {
				break
			}
			var diff float64
			for i := 0; i < n; i++ {
				diff += math.Abs(newKs[i] - ks[i])
			}
			ks = newKs
			nv, ok := solveRachfordRice(zs, ks)
			if ok {
				vf = nv
			}
			xs, ys = splitComposition(zs, ks, vf)
			if diff < 1e-6 {
				break
			}
		}
	}

	phase := stream.ClassifyVaporFraction(vf)
	var vapProps, liqProps phaseProps
	haveVap, haveLiq := false, false
	if vf > 0.00005 {
		if vp, ok := computePhase(e.Pkg.EOS, set, T, P, ys, false); ok {
			vapProps = vp
			haveVap = true
		}
	}
	if vf < 0.99995 {
		lxs := xs
		if lxs == nil {
			lxs = zs
		}
		if lp, ok := computePhase(e.Pkg.EOS, set, T, P, lxs, true); ok {
			liqProps = lp
			haveLiq = true
		}
	}
	if !haveVap && !haveLiq {
		return nil, errors.New("flash: no physically valid phase could be computed")
	}
	if !haveVap {
		vf = 0
	}
	if !haveLiq {
		vf = 1
	}

	ss := &stream.StreamState{
		Components:     set,
		T:              T,
		P:              P,
		Phase:          phase,
		VaporFraction:  vf,
		LiquidFraction: 1 - vf,
		Zs:             append([]float64(nil), zs...),
		MolarFlow:      molarFlow,
	}
	if haveVap {
		ss.Ys = append([]float64(nil), ys...)
	}
	if haveLiq {
		lxs := xs
		if lxs == nil {
			lxs = zs
		}
		ss.Xs = append([]float64(nil), lxs...)
	}

	blendBulk(ss, vapProps, liqProps, haveVap, haveLiq, vf)
	ss.MW = set.MWMix(zs)
	ss.MassFlow = stream.MassFlowFromMolar(molarFlow, ss.MW)
	attachFlows(ss)
	return ss, nil
}

// blendBulk fills in the mixture bulk properties of ss from the per-phase
// results, molar-fraction-weighted by vapor fraction for molar intensive
// properties and mass-fraction-weighted for density.
func blendBulk(ss *stream.StreamState, vap, liq phaseProps, haveVap, haveLiq bool, vf float64) {
	switch {
	case haveVap && haveLiq:
		ss.H = vf*vap.H + (1-vf)*liq.H
		ss.S = vf*vap.S + (1-vf)*liq.S
		cp := vf*vap.Cp + (1-vf)*liq.Cp
		cv := vf*vap.Cv + (1-vf)*liq.Cv
		z := vf*vap.Z + (1-vf)*liq.Z
		ss.Cp = &cp
		ss.Cv = &cv
		ss.Z = &z
		wv := vf * vap.MW
		wl := (1 - vf) * liq.MW
		wsum := wv + wl
		var rho float64
		if wsum > 0 && vap.Rho > 0 && liq.Rho > 0 {
			rho = wsum / (wv/vap.Rho + wl/liq.Rho)
		} else if liq.Rho > 0 {
			rho = liq.Rho
		} else {
			rho = vap.Rho
		}
		ss.MassDensity = &rho
		ss.Viscosity = liq.Mu
		ss.ThermalConductivity = liq.K
		ss.SurfaceTension = liq.Sigma
		ss.SpeedOfSound = speedOfSound(z, cp, cv, ss.T, vf*vap.MW+(1-vf)*liq.MW)
		ss.JouleThomson = vap.JT
		ie := cp / cv
		ss.IsentropicExponent = &ie
	case haveVap:
		ss.H, ss.S = vap.H, vap.S
		cp, cv, z, rho := vap.Cp, vap.Cv, vap.Z, vap.Rho
		ss.Cp, ss.Cv, ss.Z, ss.MassDensity = &cp, &cv, &z, &rho
		ss.SpeedOfSound = speedOfSound(z, cp, cv, ss.T, vap.MW)
		ss.JouleThomson = vap.JT
		ie := cp / cv
		ss.IsentropicExponent = &ie
	case haveLiq:
		ss.H, ss.S = liq.H, liq.S
		cp, cv, z, rho := liq.Cp, liq.Cv, liq.Z, liq.Rho
		ss.Cp, ss.Cv, ss.Z, ss.MassDensity = &cp, &cv, &z, &rho
		ss.Viscosity, ss.ThermalConductivity, ss.SurfaceTension = liq.Mu, liq.K, liq.Sigma
		ss.SpeedOfSound = speedOfSound(z, cp, cv, ss.T, liq.MW)
		ss.JouleThomson = liq.JT
		ie := cp / cv
		ss.IsentropicExponent = &ie
	}
}

// jouleThomson estimates mu_JT = (T*(dV/dT)_P - V)/Cp via a central finite
// difference of the cubic-EOS volume root over a 1 K window, the real-gas
// correction to the ideal-gas JT coefficient of zero.
func jouleThomson(eosMix *eos.Mixture, T, P float64, xs []float64, isLiquid bool, V, cp float64) *float64 {
	pick := func(roots []float64) float64 {
		if isLiquid {
			return roots[0]
		}
		return roots[len(roots)-1]
	}
	rHi, _, err1 := eosMix.VolumeRoots(T+0.5, P, xs)
	rLo, _, err2 := eosMix.VolumeRoots(T-0.5, P, xs)
	if err1 != nil || err2 != nil || cp <= 0 {
		return nil
	}
	dVdT := (pick(rHi) - pick(rLo)) / 1.0
	mu := (T*dVdT - V) / cp
	return &mu
}

// attachFlows derives the volumetric and standard gas flows from the
// molar/mass flow and the bulk density.
func attachFlows(ss *stream.StreamState) {
	if ss.MassDensity != nil && *ss.MassDensity > 0 {
		v := ss.MassFlow / *ss.MassDensity * 3600
		ss.VolFlow = &v
	}
	std := ss.MolarFlow * eos.R * TStd / PStd * 3600
	ss.StdGasFlow = &std
}

// updateK recomputes rigorous K-values from fugacity coefficients (cubic
// packages) or from activity coefficients + vapor pressure (activity
// packages paired with a PR gas phase).
func (e *Engine) updateK(T, P float64, xs, ys []float64) ([]float64, error) {
	set := e.Pkg.Set
	n := set.N()
	ks := make([]float64, n)

	vRoots, vmp, err := e.Pkg.EOS.VolumeRoots(T, P, ys)
	if err != nil {
		return nil, err
	}
	Vv := vRoots[len(vRoots)-1]
	Zv := P * Vv / (eos.R * T)
	lnPhiV := e.Pkg.EOS.LnPhi(T, P, Zv, ys, vmp)

	if e.gamma != nil {
		gammas := e.gamma.Gammas(T, xs)
		for i := 0; i < n; i++ {
			psat, ok := set.Correlations(i).VaporPressure(T)
			if !ok {
				return nil, errors.New("flash: missing vapor pressure correlation for K-value update")
			}
			phiV := math.Exp(lnPhiV[i])
			ks[i] = gammas[i] * psat / (phiV * P)
		}
		return ks, nil
	}

	lRoots, lmp, err := e.Pkg.EOS.VolumeRoots(T, P, xs)
	if err != nil {
		return nil, err
	}
	Vl := lRoots[0]
	Zl := P * Vl / (eos.R * T)
	lnPhiL := e.Pkg.EOS.LnPhi(T, P, Zl, xs, lmp)
	for i := 0; i < n; i++ {
		ks[i] = math.Exp(lnPhiL[i] - lnPhiV[i])
	}
	return ks, nil
}

// solveRachfordRice finds the vapor mole fraction beta in [0,1] solving
// Σ z_i(K_i-1)/(1+beta(K_i-1)) = 0 via bisection.
func solveRachfordRice(zs, ks []float64) (float64, bool) {
	g := func(beta float64) float64 {
		var s float64
		for i, z := range zs {
			s += z * (ks[i] - 1) / (1 + beta*(ks[i]-1))
		}
		return s
	}
	lo, hi := 1e-9, 1-1e-9
	glo, ghi := g(lo), g(hi)
	if glo*ghi > 0 {
		if glo < 0 {
			return 0, true
		}
		return 1, true
	}
	var mid float64
	for iter := 0; iter < 100; iter++ {
		mid = (lo + hi) / 2
		gm := g(mid)
		if math.Abs(gm) < 1e-10 {
			return mid, true
		}
		if gm*glo < 0 {
			hi, ghi = mid, gm
		} else {
			lo, glo = mid, gm
		}
	}
	return mid, true
}

// splitComposition computes liquid and vapor mole fractions from the
// overall composition and K-values at a given vapor fraction beta.
func splitComposition(zs, ks []float64, beta float64) (xs, ys []float64) {
	n := len(zs)
	xs = make([]float64, n)
	ys = make([]float64, n)
	for i := 0; i < n; i++ {
		denom := 1 + beta*(ks[i]-1)
		if denom <= 0 {
			denom = 1e-9
		}
		xs[i] = zs[i] / denom
		ys[i] = ks[i] * xs[i]
	}
	xs = stream.Normalize(xs)
	ys = stream.Normalize(ys)
	return xs, ys
}
