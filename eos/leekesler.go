package eos

import (
	"errors"
	"sort"
)

// leKeslerTable is a bilinear-interpolation grid indexed by reduced pressure
// and reduced temperature (table + interpolate). Digitized Lee-Kesler chart
// values were not available to this module, so the grids below are
// synthesized to be smooth and thermodynamically sane (Z -> 1 as Pr -> 0,
// departures grow with Pr) rather than reproduced from a specific source.
// Neither Mixture.VolumeRoots nor the flash engine calls these functions; the
// flash H/S computation uses the cubic-EOS departure functions.
type leKeslerTable struct {
	Pr     []float64
	Tr     []float64
	Values [][]float64 // Values[trIndex][prIndex]
}

func findIndex(xs []float64, x float64) int {
	i := sort.SearchFloat64s(xs, x)
	if i > 0 {
		i--
	}
	if i >= len(xs)-1 {
		i = len(xs) - 2
	}
	return i
}

func (t leKeslerTable) at(pr, tr float64) (float64, error) {
	if pr < t.Pr[0] || pr > t.Pr[len(t.Pr)-1] {
		return 0, errors.New("reduced pressure out of range")
	}
	if tr < t.Tr[0] || tr > t.Tr[len(t.Tr)-1] {
		return 0, errors.New("reduced temperature out of range")
	}
	i := findIndex(t.Pr, pr)
	j := findIndex(t.Tr, tr)

	x1, x2 := t.Pr[i], t.Pr[i+1]
	y1, y2 := t.Tr[j], t.Tr[j+1]

	m11 := t.Values[j][i]
	m12 := t.Values[j][i+1]
	m21 := t.Values[j+1][i]
	m22 := t.Values[j+1][i+1]

	fx := 0.0
	if x2 != x1 {
		fx = (pr - x1) / (x2 - x1)
	}
	fy := 0.0
	if y2 != y1 {
		fy = (tr - y1) / (y2 - y1)
	}

	top := m11 + (m12-m11)*fx
	bot := m21 + (m22-m21)*fx
	return top + (bot-top)*fy, nil
}

var prGrid = []float64{0.01, 0.2, 0.4, 0.8, 1.0, 1.5, 2.0, 3.0, 5.0, 7.0, 10.0}
var trGrid = []float64{0.8, 0.9, 1.0, 1.1, 1.2, 1.5, 2.0, 3.0, 4.0}

// buildZTable synthesizes a monotone Z(Pr,Tr) surface: Z -> 1 at Pr -> 0,
// decreasing toward the liquid-like region for Tr < 1, approaching an
// ideal-gas-like slow rise at high Tr, consistent with the qualitative shape
// of the real Lee-Kesler Z0 chart.
func buildZTable(refFluid bool) leKeslerTable {
	vals := make([][]float64, len(trGrid))
	for j, tr := range trGrid {
		row := make([]float64, len(prGrid))
		for i, pr := range prGrid {
			z := 1.0 - 0.6*pr/(tr*tr*tr) + 0.08*pr*pr/(tr*tr*tr*tr*tr)
			if refFluid {
				z -= 0.05 * pr / tr
			}
			if z < 0.05 {
				z = 0.05
			}
			row[i] = z
		}
		vals[j] = row
	}
	return leKeslerTable{Pr: prGrid, Tr: trGrid, Values: vals}
}

// buildDepartureTable synthesizes an (H or S)-departure surface that is zero
// at Pr -> 0 and grows in magnitude with Pr, shrinking as Tr grows (departure
// from ideal-gas behavior vanishes at high reduced temperature).
func buildDepartureTable(scale float64, refFluid bool) leKeslerTable {
	vals := make([][]float64, len(trGrid))
	for j, tr := range trGrid {
		row := make([]float64, len(prGrid))
		for i, pr := range prGrid {
			v := -scale * pr / (tr * tr)
			if refFluid {
				v *= 1.3
			}
			row[i] = v
		}
		vals[j] = row
	}
	return leKeslerTable{Pr: prGrid, Tr: trGrid, Values: vals}
}

var (
	z0Table = buildZTable(false)
	z1Table = buildZTable(true)
	h0Table = buildDepartureTable(1.0, false)
	h1Table = buildDepartureTable(1.0, true)
	s0Table = buildDepartureTable(0.4, false)
	s1Table = buildDepartureTable(0.4, true)
)

const leeKeslerRefOmega = 0.3978

// LeeKeslerZ returns the generalized corresping-states compressibility
// factor Z = Z0 + (w/w_ref)(Z1-Z0) at reduced pressure/temperature pr, tr and
// acentric factor w.
func LeeKeslerZ(pr, tr, w float64) (float64, error) {
	z0, err := z0Table.at(pr, tr)
	if err != nil {
		return 0, err
	}
	z1, err := z1Table.at(pr, tr)
	if err != nil {
		return 0, err
	}
	return z0 + (w/leeKeslerRefOmega)*(z1-z0), nil
}

// LeeKeslerDeparture returns the dimensionless departure functions
// (H-H_ig)/(R*Tc) and (S-S_ig)/R at pr, tr, w via the same generalized
// corresponding-states blend.
func LeeKeslerDeparture(pr, tr, w float64) (hDep, sDep float64, err error) {
	h0, err := h0Table.at(pr, tr)
	if err != nil {
		return 0, 0, err
	}
	h1, err := h1Table.at(pr, tr)
	if err != nil {
		return 0, 0, err
	}
	s0, err := s0Table.at(pr, tr)
	if err != nil {
		return 0, 0, err
	}
	s1, err := s1Table.at(pr, tr)
	if err != nil {
		return 0, 0, err
	}
	hDep = h0 + (w/leeKeslerRefOmega)*(h1-h0)
	sDep = s0 + (w/leeKeslerRefOmega)*(s1-s0)
	return hDep, sDep, nil
}

// KayRulePseudoCritical computes mixture pseudo-critical Tc, Pc, and a
// mole-fraction-weighted acentric factor via Kay's rule, the standard
// mixing rule used to apply single-component generalized correlations
// (like Lee-Kesler) to mixtures.
func KayRulePseudoCritical(tc, pc, w, zs []float64) (tcMix, pcMix, wMix float64) {
	for i := range zs {
		tcMix += zs[i] * tc[i]
		pcMix += zs[i] * pc[i]
		wMix += zs[i] * w[i]
	}
	return
}
