package unitops

import (
	"fmt"
	"math"

	"github.com/processworks/flowsheet/component"
	"github.com/processworks/flowsheet/flash"
)

// Params is the decoded form of a unit's payload "parameters" object: JSON
// numbers arrive as float64, nested objects/arrays as map[string]any/[]any.
// This is the shape encoding/json produces when unmarshaling into any, which
// is what the flowsheet package's payload reader does before handing a
// unit's parameter block to DecodeParams.
type Params map[string]any

// DecodeParams builds a concrete Unit of the named kind from its payload
// parameters. Unknown kinds return an error the caller is expected to turn
// into a skipped-unit warning rather than aborting the whole flowsheet.
func DecodeParams(kind, id, name string, p Params, engine *flash.Engine) (Unit, error) {
	switch kind {
	case "Mixer":
		u := NewMixer(id, name, engine)
		if v, ok := p.float("outlet_pressure_pa"); ok {
			u.OutletPressureOverride = &v
		}
		return u, nil

	case "Splitter":
		names := p.stringSlice("outlet_names")
		fracs := p.floatSlice("fractions")
		if len(names) == 0 || len(fracs) == 0 {
			return nil, fmt.Errorf("unitops: Splitter %s requires outlet_names and fractions", id)
		}
		return NewSplitter(id, name, engine, names, fracs), nil

	case "Valve":
		outP, ok := p.float("outlet_pressure_pa")
		if !ok {
			return nil, fmt.Errorf("unitops: Valve %s requires outlet_pressure_pa", id)
		}
		return NewValve(id, name, engine, outP), nil

	case "Pump":
		outP, ok := p.float("outlet_pressure_pa")
		if !ok {
			return nil, fmt.Errorf("unitops: Pump %s requires outlet_pressure_pa", id)
		}
		eff, _ := p.float("efficiency")
		return NewPump(id, name, engine, outP, eff), nil

	case "Compressor":
		outP, ok := p.float("outlet_pressure_pa")
		if !ok {
			return nil, fmt.Errorf("unitops: Compressor %s requires outlet_pressure_pa", id)
		}
		eff, _ := p.float("efficiency")
		return NewCompressor(id, name, engine, outP, eff), nil

	case "MultiStageCompressor":
		outP, ok := p.float("outlet_pressure_pa")
		if !ok {
			return nil, fmt.Errorf("unitops: MultiStageCompressor %s requires outlet_pressure_pa", id)
		}
		eff, _ := p.float("efficiency")
		nStages := int(p.floatOr("n_stages", 1))
		var interT *float64
		if v, ok := p.float("interstage_temperature_k"); ok {
			interT = &v
		}
		return NewMultiStageCompressor(id, name, engine, outP, eff, nStages, interT), nil

	case "Turbine":
		outP, ok := p.float("outlet_pressure_pa")
		if !ok {
			return nil, fmt.Errorf("unitops: Turbine %s requires outlet_pressure_pa", id)
		}
		eff, _ := p.float("efficiency")
		return NewTurbine(id, name, engine, outP, eff), nil

	case "HeaterCooler":
		pd := p.floatOr("pressure_drop_pa", 0)
		switch {
		case p.has("outlet_temperature_k"):
			t, _ := p.float("outlet_temperature_k")
			return NewHeaterCoolerTemperature(id, name, engine, t, pd), nil
		case p.has("duty_w"):
			d, _ := p.float("duty_w")
			return NewHeaterCoolerDuty(id, name, engine, d, pd), nil
		case p.has("outlet_vapor_fraction"):
			vf, _ := p.float("outlet_vapor_fraction")
			u := &HeaterCooler{Base: Base{ID: id, Name: name, Engine: engine}, OutletVaporFraction: &vf, PressureDrop: pd}
			return u, nil
		default:
			return nil, fmt.Errorf("unitops: HeaterCooler %s needs one of outlet_temperature_k, outlet_vapor_fraction, duty_w", id)
		}

	case "HeatExchanger":
		u := &HeatExchanger{Base: Base{ID: id, Name: name, Engine: engine}, Ft: p.floatOr("ft", 1)}
		u.HotPressureDrop = p.floatOr("hot_pressure_drop_pa", 0)
		u.ColdPressureDrop = p.floatOr("cold_pressure_drop_pa", 0)
		if v, ok := p.float("duty_w"); ok {
			u.Duty = &v
		} else if v, ok := p.float("ua_w_per_k"); ok {
			u.UA = &v
		} else {
			return nil, fmt.Errorf("unitops: HeatExchanger %s needs duty_w or ua_w_per_k", id)
		}
		return u, nil

	case "FlashDrum":
		u := NewFlashDrum(id, name, engine)
		u.PressureDrop = p.floatOr("pressure_drop_pa", 0)
		if v, ok := p.float("outlet_pressure_pa"); ok {
			u.OutletPressure = &v
		}
		if v, ok := p.float("duty_w"); ok {
			u.Duty = &v
		}
		return u, nil

	case "ThreePhaseSeparator":
		u := NewThreePhaseSeparator(id, name, engine)
		u.PressureDrop = p.floatOr("pressure_drop_pa", 0)
		return u, nil

	case "ConversionReactor":
		reactions, limiting, conv, err := decodeReactions(p)
		if err != nil {
			return nil, fmt.Errorf("unitops: ConversionReactor %s: %w", id, err)
		}
		u := NewConversionReactor(id, name, engine)
		u.Reactions = reactions
		u.LimitingReactant = limiting
		u.Conversion = conv
		u.PressureDrop = p.floatOr("pressure_drop_pa", 0)
		if v, ok := p.float("outlet_temperature_k"); ok {
			u.OutletTemperature = &v
		}
		return u, nil

	case "EquilibriumReactor":
		stoich, err := decodeStoichiometry(p.obj("stoichiometry"))
		if err != nil {
			return nil, fmt.Errorf("unitops: EquilibriumReactor %s: %w", id, err)
		}
		u := NewEquilibriumReactor(id, name, engine)
		u.Reaction = Reaction{Stoichiometry: stoich, HeatOfReaction: p.floatOr("heat_of_reaction_j_mol", 0)}
		u.PressureDrop = p.floatOr("pressure_drop_pa", 0)
		if v, ok := p.float("outlet_temperature_k"); ok {
			u.OutletTemperature = &v
		}
		keq0 := p.floatOr("keq_reference", 1)
		keqT0 := p.floatOr("keq_reference_temperature_k", 298.15)
		keqEa := p.floatOr("keq_van_t_hoff_slope_k", 0) // -deltaH/R, 0 means temperature-independent
		u.KeqAtT = func(T float64) float64 {
			if keqEa == 0 {
				return keq0
			}
			return keq0 * math.Exp(keqEa*(1/T-1/keqT0))
		}
		return u, nil

	case "GibbsReactor":
		cas, err := component.ResolveAll(p.stringSlice("candidate_products"))
		if err != nil {
			return nil, fmt.Errorf("unitops: GibbsReactor %s: %w", id, err)
		}
		u := NewGibbsReactor(id, name, engine, cas)
		u.PressureDrop = p.floatOr("pressure_drop_pa", 0)
		if v, ok := p.float("outlet_temperature_k"); ok {
			u.OutletTemperature = &v
		}
		return u, nil

	case "KineticReactor":
		stoich, err := decodeStoichiometry(p.obj("stoichiometry"))
		if err != nil {
			return nil, fmt.Errorf("unitops: KineticReactor %s: %w", id, err)
		}
		orders, err := decodeStoichiometry(p.obj("reaction_orders"))
		if err != nil {
			return nil, fmt.Errorf("unitops: KineticReactor %s: %w", id, err)
		}
		k0 := p.floatOr("rate_constant_pre_exponential", 0)
		ea := p.floatOr("activation_energy_j_mol", 0)
		mode := p.stringOr("mode", "CSTR")
		volume := p.floatOr("volume_m3", 0)
		rate := arrheniusPowerLaw(k0, ea, orders)
		u := NewKineticReactor(id, name, engine, mode, Reaction{Stoichiometry: stoich, HeatOfReaction: p.floatOr("heat_of_reaction_j_mol", 0)}, rate, volume)
		if n := int(p.floatOr("n_slices", 0)); n > 0 {
			u.NSlices = n
		}
		u.PressureDrop = p.floatOr("pressure_drop_pa", 0)
		return u, nil

	case "ShortcutDistillation":
		lk, err := component.Resolve(p.stringOr("light_key", ""))
		if err != nil {
			return nil, fmt.Errorf("unitops: ShortcutDistillation %s: %w", id, err)
		}
		hk, err := component.Resolve(p.stringOr("heavy_key", ""))
		if err != nil {
			return nil, fmt.Errorf("unitops: ShortcutDistillation %s: %w", id, err)
		}
		condP, ok1 := p.float("condenser_pressure_pa")
		reboilP, ok2 := p.float("reboiler_pressure_pa")
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("unitops: ShortcutDistillation %s requires condenser_pressure_pa and reboiler_pressure_pa", id)
		}
		lkRec := p.floatOr("light_key_recovery", 0.98)
		hkRec := p.floatOr("heavy_key_recovery", 0.98)
		u := NewShortcutDistillation(id, name, engine, lk, hk, lkRec, hkRec, condP, reboilP)
		if v, ok := p.float("reflux_ratio_factor"); ok {
			u.RefluxRatioFactor = v
		}
		return u, nil

	case "RigorousDistillation":
		nStages := int(p.floatOr("n_stages", 0))
		feedStage := int(p.floatOr("feed_stage", 0))
		reflux := p.floatOr("reflux_ratio", 0)
		distRate := p.floatOr("distillate_rate_mol_s", 0)
		condP, ok1 := p.float("condenser_pressure_pa")
		reboilP, ok2 := p.float("reboiler_pressure_pa")
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("unitops: RigorousDistillation %s requires condenser_pressure_pa and reboiler_pressure_pa", id)
		}
		return NewRigorousDistillation(id, name, engine, nStages, feedStage, reflux, distRate, condP, reboilP), nil

	case "PipeSegment":
		length, ok1 := p.float("length_m")
		diam, ok2 := p.float("diameter_m")
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("unitops: PipeSegment %s requires length_m and diameter_m", id)
		}
		u := NewPipeSegment(id, name, engine, length, diam)
		if v, ok := p.float("roughness_m"); ok {
			u.RoughnessM = v
		}
		u.ElevationRiseM = p.floatOr("elevation_rise_m", 0)
		return u, nil

	default:
		return nil, fmt.Errorf("unitops: unknown unit kind %q", kind)
	}
}

// decodeReactions reads a ConversionReactor's "reactions" array, each entry
// carrying its own stoichiometry, limiting reactant, and conversion fraction.
func decodeReactions(p Params) ([]Reaction, []component.CAS, []float64, error) {
	raw, _ := p["reactions"].([]any)
	reactions := make([]Reaction, 0, len(raw))
	limiting := make([]component.CAS, 0, len(raw))
	conv := make([]float64, 0, len(raw))
	for i, item := range raw {
		entry, ok := item.(map[string]any)
		if !ok {
			return nil, nil, nil, fmt.Errorf("reaction %d is not an object", i)
		}
		ep := Params(entry)
		stoich, err := decodeStoichiometry(ep.obj("stoichiometry"))
		if err != nil {
			return nil, nil, nil, fmt.Errorf("reaction %d: %w", i, err)
		}
		lim, err := component.Resolve(ep.stringOr("limiting_reactant", ""))
		if err != nil {
			return nil, nil, nil, fmt.Errorf("reaction %d: %w", i, err)
		}
		reactions = append(reactions, Reaction{Stoichiometry: stoich, HeatOfReaction: ep.floatOr("heat_of_reaction_j_mol", 0)})
		limiting = append(limiting, lim)
		conv = append(conv, ep.floatOr("conversion", 0))
	}
	return reactions, limiting, conv, nil
}

// decodeStoichiometry resolves a {component name: coefficient} object into a
// CAS-keyed map, the form every reaction-bearing unit op's Reaction expects.
func decodeStoichiometry(raw map[string]any) (map[component.CAS]float64, error) {
	out := make(map[component.CAS]float64, len(raw))
	for nameKey, v := range raw {
		cas, err := component.Resolve(nameKey)
		if err != nil {
			return nil, err
		}
		f, ok := toFloat(v)
		if !ok {
			return nil, fmt.Errorf("stoichiometry coefficient for %s is not numeric", nameKey)
		}
		out[cas] = f
	}
	return out, nil
}

// arrheniusPowerLaw builds a RateLaw of the canonical form assumed by
// RateLaw's doc comment: k0*exp(-Ea/RT)*Prod(C_i^order_i). A species
// with no listed order does not affect the rate (order 0).
func arrheniusPowerLaw(k0, ea float64, orders map[component.CAS]float64) RateLaw {
	const R = 8.314462618
	return func(T float64, conc map[component.CAS]float64) float64 {
		k := k0 * math.Exp(-ea/(R*T))
		rate := k
		for cas, order := range orders {
			c := conc[cas]
			if c <= 0 {
				if order > 0 {
					return 0
				}
				continue
			}
			rate *= math.Pow(c, order)
		}
		return rate
	}
}

func (p Params) has(key string) bool {
	_, ok := p[key]
	return ok
}

func (p Params) float(key string) (float64, bool) {
	v, ok := p[key]
	if !ok {
		return 0, false
	}
	return toFloat(v)
}

func (p Params) floatOr(key string, def float64) float64 {
	if v, ok := p.float(key); ok {
		return v
	}
	return def
}

func (p Params) stringOr(key, def string) string {
	if v, ok := p[key].(string); ok {
		return v
	}
	return def
}

func (p Params) stringSlice(key string) []string {
	raw, _ := p[key].([]any)
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func (p Params) floatSlice(key string) []float64 {
	raw, _ := p[key].([]any)
	out := make([]float64, 0, len(raw))
	for _, v := range raw {
		if f, ok := toFloat(v); ok {
			out = append(out, f)
		}
	}
	return out
}

func (p Params) obj(key string) map[string]any {
	m, _ := p[key].(map[string]any)
	return m
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// Registry lists every unit kind DecodeParams understands.
var Registry = []string{
	"Mixer", "Splitter", "Valve", "Pump", "Compressor", "MultiStageCompressor",
	"Turbine", "HeaterCooler", "HeatExchanger", "FlashDrum", "ThreePhaseSeparator",
	"ConversionReactor", "EquilibriumReactor", "GibbsReactor", "KineticReactor",
	"ShortcutDistillation", "RigorousDistillation", "PipeSegment",
}
