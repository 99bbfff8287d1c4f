package flash

import (
	"github.com/processworks/flowsheet/stream"
)

// VLLEFlash performs a three-phase (vapor + two liquids) flash at (T, P),
// returning the gas, primary-liquid, and secondary-liquid StreamStates. If
// the three-phase split collapses to a single liquid (no real phase split
// found), the second liquid is returned as an empty zero-flow sentinel and
// a warning is attached to the gas stream.
func (e *Engine) VLLEFlash(T, P float64, zs []float64, molarFlow float64) (gas, liquid1, liquid2 *stream.StreamState, err error) {
	zs = normalizeInput(zs)

	betaV, betaL1, betaL2, xs1, xs2, ys, ok := e.splitThreePhase(T, P, zs)
	if !ok {
		ss, ferr := e.PTFlash(T, P, zs, molarFlow)
		if ferr != nil {
			return nil, nil, nil, ferr
		}
		ss.Warnings = append(ss.Warnings, "VLLE flash failed, fell back to a two-phase PT flash")
		empty := stream.ZeroFlowSentinel(e.Pkg.Set, T, P, zs, stream.Liquid)
		return ss, ss, empty, nil
	}

	gas, err = e.PTFlash(T, P, ys, molarFlow*betaV)
	if err != nil {
		return nil, nil, nil, err
	}
	liquid1, err = e.PTFlash(T, P, xs1, molarFlow*betaL1)
	if err != nil {
		return nil, nil, nil, err
	}
	liquid2, err = e.PTFlash(T, P, xs2, molarFlow*betaL2)
	if err != nil {
		return nil, nil, nil, err
	}
	return gas, liquid1, liquid2, nil
}

// splitThreePhase estimates a vapor / liquid-1 / liquid-2 split at (T, P)
// for a water-plus-hydrocarbon mixture. The liquid is split into an aqueous
// and an organic pseudo-phase by fixed partition fractions (98% of the water
// and 0.5% of every other component go to the aqueous phase), and one
// Rachford-Rice solve on Wilson K-values for the whole feed gives the vapor
// fraction; the pseudo-phase compositions are returned as the two liquid
// compositions. This is a simplified three-phase solver — it assumes water is present and
// is immiscible with the rest of the component set, which covers the
// gas/oil/water separator case this module's ThreePhaseSeparator exercises.
func (e *Engine) splitThreePhase(T, P float64, zs []float64) (betaV, betaL1, betaL2 float64, xs1, xs2, ys []float64, ok bool) {
	set := e.Pkg.Set
	n := set.N()
	waterIdx := -1
	for i := 0; i < n; i++ {
		if set.CAS(i) == "7732-18-5" {
			waterIdx = i
			break
		}
	}
	if waterIdx < 0 {
		return 0, 0, 0, nil, nil, nil, false
	}

	// Liquid-liquid split: water partitions almost entirely into the
	// aqueous phase, everything else almost entirely into the organic
	// phase (infinite-dilution immiscibility approximation).
	zWater := zs[waterIdx]
	if zWater <= 1e-6 || zWater >= 1-1e-6 {
		return 0, 0, 0, nil, nil, nil, false
	}

	organic := make([]float64, n)
	aqueous := make([]float64, n)
	var organicTotal, aqueousTotal float64
	for i := 0; i < n; i++ {
		if i == waterIdx {
			aqueous[i] = zs[i] * 0.98
			organic[i] = zs[i] * 0.02
		} else {
			organic[i] = zs[i] * 0.995
			aqueous[i] = zs[i] * 0.005
		}
		organicTotal += organic[i]
		aqueousTotal += aqueous[i]
	}
	if organicTotal <= 0 || aqueousTotal <= 0 {
		return 0, 0, 0, nil, nil, nil, false
	}
	organic = stream.Normalize(organic)
	aqueous = stream.Normalize(aqueous)

	ks := e.initialK(T, P)

	// Overall vapor fraction comes from one Rachford-Rice solve on the
	// Wilson K-values of the whole feed; the condensed
	// portion is then split between the two liquid pseudo-phases in
	// proportion to their share of the feed.
	betaTotalLiquid := organicTotal + aqueousTotal

	bulkVF, bvOK := solveRachfordRice(zs, ks)
	if !bvOK {
		bulkVF = 0
	}
	if bulkVF > 0.999 {
		return 0, 0, 0, nil, nil, nil, false
	}

	betaV = bulkVF
	remaining := 1 - betaV
	betaL1 = remaining * (organicTotal / betaTotalLiquid)
	betaL2 = remaining * (aqueousTotal / betaTotalLiquid)

	ys = zs
	if betaV > 0 {
		_, vys := splitComposition(zs, ks, betaV)
		ys = vys
	}
	return betaV, betaL1, betaL2, organic, aqueous, ys, true
}
