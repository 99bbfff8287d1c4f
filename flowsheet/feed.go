package flowsheet

import (
	"fmt"
	"strings"

	"github.com/processworks/flowsheet/component"
	"github.com/processworks/flowsheet/flash"
	"github.com/processworks/flowsheet/stream"
)

// FeedStream is a fully-resolved boundary stream created from a payload
// stream-spec that carries a complete specification rather than flowing
// from a known unit.
type FeedStream struct {
	ID    string
	State *stream.StreamState
}

// isFullySpecified reports whether a stream-spec carries the T/P/composition
// triple a feed needs, independent of whether it also names a source unit.
func (s StreamSpec) isFullySpecified() bool {
	_, hasT := s.temperatureK()
	_, hasP := s.pressurePa()
	_, hasComp := s.compositionMap()
	return hasT && hasP && hasComp
}

// temperatureK reads temperature in K, accepting temperature (°C) or
// temperature_c, converting to kelvin.
func (s StreamSpec) temperatureK() (float64, bool) {
	if v, ok := s.propFloat("temperature_k"); ok {
		return v, true
	}
	if v, ok := s.propFloat("temperature_c"); ok {
		return v + 273.15, true
	}
	if v, ok := s.propFloat("temperature"); ok {
		return v + 273.15, true
	}
	return 0, false
}

// pressurePa reads pressure in Pa, accepting pressure (kPa) or pressure_kpa.
func (s StreamSpec) pressurePa() (float64, bool) {
	if v, ok := s.propFloat("pressure_pa"); ok {
		return v, true
	}
	if v, ok := s.propFloat("pressure_kpa"); ok {
		return v * 1000, true
	}
	if v, ok := s.propFloat("pressure"); ok {
		return v * 1000, true
	}
	return 0, false
}

// compositionMap returns the raw name->fraction map along with whether it is
// mole- or mass-basis, from whichever of composition/mass_composition the
// stream carries.
func (s StreamSpec) compositionMap() (map[string]float64, bool) {
	basis, _ := s.propString("composition_basis")
	preferMass := strings.EqualFold(basis, "mass")
	if m, ok := s.propObj("mass_composition"); ok && (preferMass || !s.hasMoleComposition()) {
		return toFloatMap(m), true
	}
	if m, ok := s.propObj("composition"); ok {
		return toFloatMap(m), true
	}
	if m, ok := s.propObj("mass_composition"); ok {
		return toFloatMap(m), true
	}
	return nil, false
}

func (s StreamSpec) hasMoleComposition() bool {
	_, ok := s.propObj("composition")
	return ok
}

func (s StreamSpec) compositionIsMassBasis() bool {
	basis, _ := s.propString("composition_basis")
	if strings.EqualFold(basis, "mass") {
		return true
	}
	_, hasMole := s.propObj("composition")
	_, hasMass := s.propObj("mass_composition")
	return hasMass && !hasMole
}

func toFloatMap(m map[string]any) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		switch n := v.(type) {
		case float64:
			out[k] = n
		case int:
			out[k] = float64(n)
		}
	}
	return out
}

// massFlowKgPerS reads a flow rate from flow_rate or mass_flow (kg/h) or
// mass_flow_kg_per_h, converting to kg/s.
func (s StreamSpec) massFlowKgPerS() (float64, bool) {
	if v, ok := s.propFloat("mass_flow_kg_per_h"); ok {
		return v / 3600, true
	}
	if v, ok := s.propFloat("mass_flow"); ok {
		return v / 3600, true
	}
	if v, ok := s.propFloat("flow_rate"); ok {
		return v / 3600, true
	}
	return 0, false
}

// buildFeed resolves a fully-specified stream-spec into a StreamState on the
// given engine's component set. A missing field, a composition with no key
// that resolves against the active components, or a failed flash drops the
// feed and returns a warning string instead of an error; the caller should
// not register it. Composition keys that do not resolve are skipped without
// a warning, and a composition that sums to zero is replaced by equal mole
// fractions without a warning.
func buildFeed(s StreamSpec, engine *flash.Engine) (*stream.StreamState, string) {
	set := engine.Pkg.Set
	n := set.N()

	T, hasT := s.temperatureK()
	P, hasP := s.pressurePa()
	compRaw, hasComp := s.compositionMap()
	var missing []string
	if !hasT {
		missing = append(missing, "temperature")
	}
	if !hasP {
		missing = append(missing, "pressure")
	}
	if !hasComp {
		missing = append(missing, "composition")
	}
	if len(missing) > 0 {
		return nil, fmt.Sprintf("feed %q dropped: missing %s", s.ID, strings.Join(missing, ", "))
	}

	zs := make([]float64, n)
	var anyResolved bool
	for name, frac := range compRaw {
		cas, err := component.Resolve(name)
		if err != nil {
			continue
		}
		idx := set.IndexOf(cas)
		if idx < 0 {
			continue
		}
		zs[idx] += frac
		anyResolved = true
	}
	if !anyResolved {
		return nil, fmt.Sprintf("feed %q dropped: no composition key resolved against the active components", s.ID)
	}
	if s.compositionIsMassBasis() {
		zs = massFractionsToMole(set, zs)
	}
	var sum float64
	for _, z := range zs {
		sum += z
	}
	if sum <= 0 {
		for i := range zs {
			zs[i] = 1.0 / float64(n)
		}
	} else {
		zs = stream.Normalize(zs)
	}

	massFlow, hasMass := s.massFlowKgPerS()
	if !hasMass {
		return nil, fmt.Sprintf("feed %q dropped: missing flow_rate", s.ID)
	}
	mwMix := set.MWMix(zs)
	molarFlow := massFlow * 1000 / mwMix

	out, err := engine.PTFlash(T, P, zs, molarFlow)
	if err != nil {
		return nil, fmt.Sprintf("feed %q dropped: flash failed: %v", s.ID, err)
	}
	return out, ""
}

// massFractionsToMole converts a mass-fraction vector to mole fractions via
// each component's molecular weight, the inverse of StreamState's
// mass_flow = molar_flow * MW/1000 relation applied per-species.
func massFractionsToMole(set *component.Set, massFracs []float64) []float64 {
	n := set.N()
	moles := make([]float64, n)
	mws := set.MWs()
	for i := 0; i < n; i++ {
		if mws[i] > 0 {
			moles[i] = massFracs[i] / mws[i]
		}
	}
	return moles
}
