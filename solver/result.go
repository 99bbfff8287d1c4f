package solver

import (
	"math"

	"github.com/processworks/flowsheet/flowsheet"
	"github.com/processworks/flowsheet/stream"
	"github.com/processworks/flowsheet/unitops"
)

// Result is the flowsheet output report, everything expressed in the
// engineering units an operator expects rather than this module's internal
// SI-with-seconds basis.
type Result struct {
	FlowsheetName string `json:"flowsheet_name"`
	Status        string `json:"status"` // converged, not-converged, empty
	Converged     bool   `json:"converged"`
	Iterations    int    `json:"iterations"`

	MassBalanceError   *float64 `json:"mass_balance_error"`
	EnergyBalanceError *float64 `json:"energy_balance_error"`

	PropertyPackage string   `json:"property_package"`
	Components      []string `json:"components"`

	Streams []StreamResult `json:"streams"`
	Units   []UnitResult   `json:"units"`

	Warnings    []string       `json:"warnings"`
	Diagnostics map[string]any `json:"diagnostics"`
}

// StreamResult carries one stream's full property surface in engineering
// units.
type StreamResult struct {
	ID string `json:"id"`

	TemperatureC   float64 `json:"temperature_c"`
	PressureKPa    float64 `json:"pressure_kpa"`
	MassFlowKgH    float64 `json:"mass_flow_kg_h"`
	MolarFlowKmolH float64 `json:"molar_flow_kmol_h"`

	Phase          string  `json:"phase"`
	VaporFraction  float64 `json:"vapor_fraction"`
	LiquidFraction float64 `json:"liquid_fraction"`

	Composition       map[string]float64 `json:"composition"`
	MassComposition   map[string]float64 `json:"mass_composition"`
	VaporComposition  map[string]float64 `json:"vapor_composition,omitempty"`
	LiquidComposition map[string]float64 `json:"liquid_composition,omitempty"`

	EnthalpyKJKg float64 `json:"enthalpy_kj_kg"`
	EntropyKJKgK float64 `json:"entropy_kj_kg_k"`

	MW                     float64  `json:"mw"`
	DensityKgM3            *float64 `json:"density_kg_m3"`
	ViscosityCP            *float64 `json:"viscosity_cp"`
	CpKJKgK                *float64 `json:"cp_kj_kg_k"`
	CvKJKgK                *float64 `json:"cv_kj_kg_k"`
	ThermalConductivityWMK *float64 `json:"thermal_conductivity_w_m_k"`
	Compressibility        *float64 `json:"compressibility"`
	SpeedOfSoundMS         *float64 `json:"speed_of_sound_m_s"`
	SurfaceTensionNM       *float64 `json:"surface_tension_n_m"`
	JouleThomsonKPerKPa    *float64 `json:"joule_thomson_k_per_kpa"`
	IsentropicExponent     *float64 `json:"isentropic_exponent"`
	GibbsKJKg              *float64 `json:"gibbs_kj_kg"`
	VolFlowM3H             *float64 `json:"vol_flow_m3_h"`
	StdGasFlowSm3H         *float64 `json:"std_gas_flow_sm3_h"`
}

// UnitResult carries one unit's duty/diagnostics in engineering units.
type UnitResult struct {
	ID              string         `json:"id"`
	DutyKW          float64        `json:"duty_kw"`
	Status          string         `json:"status"`
	Efficiency      *float64       `json:"efficiency,omitempty"`
	PressureDropKPa *float64       `json:"pressure_drop_kpa,omitempty"`
	Extra           map[string]any `json:"extra"`
}

func finishResult(fs *flowsheet.Flowsheet, iterations int, converged bool) *Result {
	massErr, energyErr := checkBalances(fs)
	if massErr != nil && *massErr > massBalanceWarnThreshold {
		fs.Warnings = append(fs.Warnings, "mass balance error exceeds 1%")
	}
	if energyErr != nil && *energyErr > energyBalanceWarnThreshold {
		fs.Warnings = append(fs.Warnings, "energy balance error exceeds 5%")
	}

	status := "not-converged"
	switch {
	case len(fs.Streams) == 0:
		status = "empty"
	case converged:
		status = "converged"
	}

	r := &Result{
		FlowsheetName:      fs.Name,
		Status:             status,
		Converged:          converged,
		Iterations:         iterations,
		MassBalanceError:   roundPtr(massErr),
		EnergyBalanceError: roundPtr(energyErr),
		PropertyPackage:    fs.Engine.Pkg.Kind.String(),
		Components:         fs.Engine.Pkg.Set.Names(),
		Warnings:           append([]string(nil), fs.Warnings...),
	}

	seenStream := map[string]bool{}
	for _, c := range fs.Connections {
		if seenStream[c.StreamID] {
			continue
		}
		st, ok := fs.Streams[c.StreamID]
		if !ok {
			continue
		}
		seenStream[c.StreamID] = true
		r.Streams = append(r.Streams, toStreamResult(c.StreamID, st))
	}

	for _, unitID := range fs.UnitOrder {
		unit, ok := fs.Units[unitID]
		if !ok {
			continue
		}
		r.Units = append(r.Units, toUnitResult(unit))
	}

	return r
}

func toStreamResult(id string, s *stream.StreamState) StreamResult {
	set := s.Components
	names := set.Names()
	comp := map[string]float64{}
	for i, name := range names {
		if i < len(s.Zs) {
			comp[name] = roundSig(s.Zs[i], 6)
		}
	}
	massComp := map[string]float64{}
	mws := set.MWs()
	for i, name := range names {
		if i < len(s.Zs) && s.MW > 0 {
			massComp[name] = roundSig(s.Zs[i]*mws[i]/s.MW, 6)
		}
	}
	var vaporComp, liquidComp map[string]float64
	if s.Ys != nil {
		vaporComp = map[string]float64{}
		for i, name := range names {
			if i < len(s.Ys) {
				vaporComp[name] = roundSig(s.Ys[i], 6)
			}
		}
	}
	if s.Xs != nil {
		liquidComp = map[string]float64{}
		for i, name := range names {
			if i < len(s.Xs) {
				liquidComp[name] = roundSig(s.Xs[i], 6)
			}
		}
	}

	enthalpyKJKg, entropyKJKgK := 0.0, 0.0
	if s.MW > 0 {
		enthalpyKJKg = s.H / s.MW
		entropyKJKgK = s.S / s.MW
	}

	return StreamResult{
		ID:                     id,
		TemperatureC:           roundSig(s.T-273.15, 6),
		PressureKPa:            roundSig(s.P/1000, 6),
		MassFlowKgH:            roundSig(s.MassFlow*3600, 6),
		MolarFlowKmolH:         roundSig(s.MolarFlow*3.6, 6),
		Phase:                  s.Phase.String(),
		VaporFraction:          roundSig(s.VaporFraction, 6),
		LiquidFraction:         roundSig(s.LiquidFraction, 6),
		Composition:            comp,
		MassComposition:        massComp,
		VaporComposition:       vaporComp,
		LiquidComposition:      liquidComp,
		EnthalpyKJKg:           roundSig(enthalpyKJKg, 6),
		EntropyKJKgK:           roundSig(entropyKJKgK, 6),
		MW:                     roundSig(s.MW, 6),
		DensityKgM3:            s.MassDensity,
		ViscosityCP:            scalePtr(s.Viscosity, 1000),
		CpKJKgK:                massSpecificPtr(s.Cp, s.MW),
		CvKJKgK:                massSpecificPtr(s.Cv, s.MW),
		ThermalConductivityWMK: s.ThermalConductivity,
		Compressibility:        s.Z,
		SpeedOfSoundMS:         s.SpeedOfSound,
		SurfaceTensionNM:       s.SurfaceTension,
		JouleThomsonKPerKPa:    scalePtr(s.JouleThomson, 1000),
		IsentropicExponent:     s.IsentropicExponent,
		GibbsKJKg:              massSpecificPtr(s.G, s.MW),
		VolFlowM3H:             s.VolFlow,
		StdGasFlowSm3H:         s.StdGasFlow,
	}
}

func toUnitResult(unit unitops.Unit) UnitResult {
	diag := unit.Diagnostics()
	status := "ok"
	return UnitResult{
		ID:              unit.UnitID(),
		DutyKW:          roundSig(diag.DutyW/1000, 6),
		Status:          status,
		Efficiency:      diag.Efficiency,
		PressureDropKPa: scalePtr(diag.PressureDropPa, 1.0/1000),
		Extra:           diag.Extra,
	}
}

// scalePtr multiplies a possibly-nil value by factor, preserving nil.
func scalePtr(v *float64, factor float64) *float64 {
	if v == nil {
		return nil
	}
	out := *v * factor
	return &out
}

// massSpecificPtr converts a molar quantity (per mol) to a mass-specific one
// (per kg) via MW (g/mol), exploiting that X[J/mol]/MW[g/mol] = X[kJ/kg].
func massSpecificPtr(v *float64, mw float64) *float64 {
	if v == nil || mw <= 0 {
		return nil
	}
	out := *v / mw
	return &out
}

func roundPtr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	out := roundSig(*v, 6)
	return &out
}

// roundSig rounds v to sig significant decimal digits.
func roundSig(v float64, sig int) float64 {
	if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	mag := math.Ceil(math.Log10(math.Abs(v)))
	power := float64(sig) - mag
	shift := math.Pow(10, power)
	return math.Round(v*shift) / shift
}
