package solver

import (
	"context"
	"encoding/json"
	"math"
	"testing"

	"github.com/processworks/flowsheet/flowsheet"
)

// buildAndSolve parses a JSON payload, builds the flowsheet and runs it to
// convergence (or the iteration cap), failing the test on any build error.
func buildAndSolve(t *testing.T, raw string, opts Options) *Result {
	t.Helper()
	payload, err := flowsheet.ParsePayload([]byte(raw))
	if err != nil {
		t.Fatalf("ParsePayload: %v", err)
	}
	fs, err := flowsheet.Build(payload)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return Solve(context.Background(), fs, opts)
}

func streamByID(r *Result, id string) *StreamResult {
	for i := range r.Streams {
		if r.Streams[i].ID == id {
			return &r.Streams[i]
		}
	}
	return nil
}

// TestScenarioWaterPump covers a single pump raising 3600 kg/h of 25C water
// to 1000 kPa.
func TestScenarioWaterPump(t *testing.T) {
	raw := `{
		"name": "water-pump",
		"thermo": {"package": "PR", "components": ["water"]},
		"units": [
			{"id": "P1", "type": "Pump", "parameters": {"outlet_pressure_pa": 1000000, "efficiency": 0.75}}
		],
		"streams": [
			{"id": "feed", "target": "P1", "properties": {"temperature_c": 25, "pressure_kpa": 101.325, "flow_rate": 3600, "composition": {"water": 1.0}}},
			{"id": "product", "source": "P1"}
		]
	}`
	r := buildAndSolve(t, raw, DefaultOptions())
	if r.Status != "converged" {
		t.Fatalf("status = %s, want converged (warnings: %v)", r.Status, r.Warnings)
	}
	product := streamByID(r, "product")
	if product == nil {
		t.Fatal("product stream missing from result")
	}
	if math.Abs(product.PressureKPa-1000) > 1 {
		t.Errorf("product pressure = %v kPa, want ~1000", product.PressureKPa)
	}
	if product.TemperatureC < 25 || product.TemperatureC > 26 {
		t.Errorf("product temperature = %v C, want a slight rise above 25", product.TemperatureC)
	}
	if len(r.Units) != 1 || r.Units[0].DutyKW <= 0 {
		t.Errorf("pump duty = %+v, want a single positive-duty unit", r.Units)
	}
	if r.MassBalanceError == nil || *r.MassBalanceError > 1e-6 {
		t.Errorf("mass balance error = %v, want ~exact", r.MassBalanceError)
	}
}

// TestScenarioBenzeneTolueneFlash covers an equimolar benzene/toluene feed
// flashed at 100C, expecting a benzene-rich vapor and a benzene-lean liquid.
func TestScenarioBenzeneTolueneFlash(t *testing.T) {
	raw := `{
		"name": "btx-flash",
		"thermo": {"package": "PR", "components": ["benzene", "toluene"]},
		"units": [
			{"id": "F1", "type": "FlashDrum", "parameters": {}}
		],
		"streams": [
			{"id": "feed", "target": "F1", "properties": {"temperature_c": 100, "pressure_kpa": 101.325, "flow_rate": 1000, "composition": {"benzene": 0.5, "toluene": 0.5}}},
			{"id": "vap", "source": "F1", "properties": {"sourceHandle": "vapor"}},
			{"id": "liq", "source": "F1", "properties": {"sourceHandle": "liquid"}}
		]
	}`
	r := buildAndSolve(t, raw, DefaultOptions())
	vap := streamByID(r, "vap")
	liq := streamByID(r, "liq")
	if vap == nil || liq == nil {
		t.Fatalf("expected both vapor and liquid outlet streams, got %+v", r.Streams)
	}
	if vap.Composition["benzene"] < 0.70 {
		t.Errorf("vapor benzene fraction = %v, want > 0.70", vap.Composition["benzene"])
	}
	if liq.Composition["benzene"] > 0.45 {
		t.Errorf("liquid benzene fraction = %v, want < 0.45", liq.Composition["benzene"])
	}
	feedMass := 1000.0
	outMass := vap.MassFlowKgH + liq.MassFlowKgH
	if math.Abs(outMass-feedMass)/feedMass > 0.001 {
		t.Errorf("mass conservation off by %v%%, want < 0.1%%", 100*math.Abs(outMass-feedMass)/feedMass)
	}
}

// TestScenarioThreePhaseSeparatorReversedEdges covers a methane/hexane/water
// feed through a three-phase separator whose water-out edge is declared
// before its oil-out and gas-out edges, verifying port resolution is
// name-based rather than positional.
func TestScenarioThreePhaseSeparatorReversedEdges(t *testing.T) {
	raw := `{
		"name": "three-phase",
		"thermo": {"package": "PR", "components": ["methane", "n-hexane", "water"]},
		"units": [
			{"id": "S1", "type": "ThreePhaseSeparator", "parameters": {"pressure_drop_pa": 0}}
		],
		"streams": [
			{"id": "feed", "target": "S1", "properties": {"temperature_c": 60, "pressure_kpa": 4000, "flow_rate": 2000, "composition": {"methane": 0.3, "n-hexane": 0.4, "water": 0.3}}},
			{"id": "water-out", "source": "S1", "properties": {"sourceHandle": "water"}},
			{"id": "oil-out", "source": "S1", "properties": {"sourceHandle": "oil"}},
			{"id": "gas-out", "source": "S1", "properties": {"sourceHandle": "gas"}}
		]
	}`
	r := buildAndSolve(t, raw, DefaultOptions())
	water := streamByID(r, "water-out")
	oil := streamByID(r, "oil-out")
	gas := streamByID(r, "gas-out")
	if water == nil || oil == nil || gas == nil {
		t.Fatalf("expected water-out/oil-out/gas-out streams, got %+v", r.Streams)
	}
	if water.Composition["water"] < oil.Composition["water"] {
		t.Errorf("water-out should be water-rich relative to oil-out: water=%v oil=%v", water.Composition["water"], oil.Composition["water"])
	}
	if gas.Composition["methane"] < oil.Composition["methane"] {
		t.Errorf("gas-out should be methane-rich relative to oil-out: gas=%v oil=%v", gas.Composition["methane"], oil.Composition["methane"])
	}
}

// TestScenarioRecycleLoop covers a mixer->heater->separator loop with the
// separator's liquid outlet recycled back to the mixer, expecting
// convergence within the iteration cap and a tight mass balance.
func TestScenarioRecycleLoop(t *testing.T) {
	raw := `{
		"name": "recycle",
		"thermo": {"package": "PR", "components": ["benzene", "toluene"]},
		"units": [
			{"id": "M1", "type": "Mixer", "parameters": {}},
			{"id": "H1", "type": "HeaterCooler", "parameters": {"outlet_temperature_k": 353.15}},
			{"id": "S1", "type": "FlashDrum", "parameters": {"pressure_drop_pa": 0}}
		],
		"streams": [
			{"id": "feed", "target": "M1", "properties": {"sourceHandle": "", "targetHandle": "in-1", "temperature_c": 80, "pressure_kpa": 200, "flow_rate": 1000, "composition": {"benzene": 0.5, "toluene": 0.5}}},
			{"id": "mix-to-heater", "source": "M1", "target": "H1"},
			{"id": "heater-to-sep", "source": "H1", "target": "S1"},
			{"id": "product-vapor", "source": "S1", "properties": {"sourceHandle": "vapor"}},
			{"id": "recycle", "source": "S1", "target": "M1", "properties": {"sourceHandle": "liquid", "targetHandle": "in-2"}}
		]
	}`
	r := buildAndSolve(t, raw, DefaultOptions())
	if !r.Converged {
		t.Errorf("recycle loop did not converge within %d iterations (warnings: %v)", DefaultOptions().MaxIterations, r.Warnings)
	}
	if r.MassBalanceError == nil || *r.MassBalanceError > 0.01 {
		t.Errorf("mass balance error = %v, want < 1%%", r.MassBalanceError)
	}
}

// TestScenarioShortcutDistillation covers a methanol/water feed split by
// Fenske-Underwood-Gilliland shortcut distillation into a methanol-rich
// distillate and a water-rich bottoms.
func TestScenarioShortcutDistillation(t *testing.T) {
	raw := `{
		"name": "shortcut",
		"thermo": {"package": "NRTL", "components": ["methanol", "water"]},
		"units": [
			{"id": "C1", "type": "ShortcutDistillation", "parameters": {
				"light_key": "methanol",
				"heavy_key": "water",
				"condenser_pressure_pa": 101325,
				"reboiler_pressure_pa": 101325,
				"light_key_recovery": 0.99,
				"heavy_key_recovery": 0.99,
				"reflux_ratio_factor": 1.3
			}}
		],
		"streams": [
			{"id": "feed", "target": "C1", "properties": {"temperature_c": 78, "pressure_kpa": 101.325, "flow_rate": 1000, "composition": {"methanol": 0.4, "water": 0.6}}},
			{"id": "distillate", "source": "C1", "properties": {"sourceHandle": "distillate"}},
			{"id": "bottoms", "source": "C1", "properties": {"sourceHandle": "bottoms"}}
		]
	}`
	r := buildAndSolve(t, raw, DefaultOptions())
	dist := streamByID(r, "distillate")
	bot := streamByID(r, "bottoms")
	if dist == nil || bot == nil {
		t.Fatalf("expected distillate and bottoms streams, got %+v", r.Streams)
	}
	if dist.Composition["methanol"] < 0.9 {
		t.Errorf("distillate methanol fraction = %v, want > 0.9", dist.Composition["methanol"])
	}
	if bot.Composition["water"] < 0.9 {
		t.Errorf("bottoms water fraction = %v, want > 0.9", bot.Composition["water"])
	}
	feedMass := 1000.0
	outMass := dist.MassFlowKgH + bot.MassFlowKgH
	if math.Abs(outMass-feedMass)/feedMass > 0.01 {
		t.Errorf("mass conservation off by %v%%, want < 1%%", 100*math.Abs(outMass-feedMass)/feedMass)
	}
}

// TestScenarioIAPWSSteam covers pure water at 200C/101.325 kPa flashed
// against the steam-table correlations, expecting a superheated vapor with
// the reference enthalpy and speed of sound.
func TestScenarioIAPWSSteam(t *testing.T) {
	raw := `{
		"name": "steam",
		"thermo": {"package": "IAPWS", "components": ["water"]},
		"units": [
			{"id": "F1", "type": "FlashDrum", "parameters": {}}
		],
		"streams": [
			{"id": "feed", "target": "F1", "properties": {"temperature_c": 200, "pressure_kpa": 101.325, "flow_rate": 1000, "composition": {"water": 1.0}}},
			{"id": "out", "source": "F1", "properties": {"sourceHandle": "vapor"}}
		]
	}`
	r := buildAndSolve(t, raw, DefaultOptions())
	out := streamByID(r, "out")
	if out == nil {
		t.Fatalf("expected a vapor outlet stream, got %+v", r.Streams)
	}
	if out.Phase != "vapor" {
		t.Errorf("phase = %s, want vapor", out.Phase)
	}
	if out.SpeedOfSoundMS == nil || *out.SpeedOfSoundMS < 500 || *out.SpeedOfSoundMS > 600 {
		t.Errorf("speed of sound = %v, want 500-600 m/s", out.SpeedOfSoundMS)
	}
	if math.Abs(out.EnthalpyKJKg-2870) > 30 {
		t.Errorf("enthalpy = %v kJ/kg, want ~2870", out.EnthalpyKJKg)
	}
}

// TestResultJSONRoundTrip confirms finishResult's output marshals to the
// documented snake_case wire schema, not the Go field names.
func TestResultJSONRoundTrip(t *testing.T) {
	raw := `{
		"name": "json-check",
		"thermo": {"package": "PR", "components": ["water"]},
		"units": [
			{"id": "P1", "type": "Pump", "parameters": {"outlet_pressure_pa": 500000}}
		],
		"streams": [
			{"id": "feed", "target": "P1", "properties": {"temperature_c": 25, "pressure_kpa": 101.325, "flow_rate": 3600, "composition": {"water": 1.0}}},
			{"id": "product", "source": "P1"}
		]
	}`
	r := buildAndSolve(t, raw, DefaultOptions())
	b, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("json.Marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("json.Unmarshal: %v", err)
	}
	for _, key := range []string{"flowsheet_name", "status", "converged", "mass_balance_error", "streams", "units"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("marshaled result missing expected key %q", key)
		}
	}
}
