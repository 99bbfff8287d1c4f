package flowsheet

import (
	"testing"
)

func TestBuildRejectsUnknownPropertyPackage(t *testing.T) {
	payload, err := ParsePayload([]byte(`{
		"name": "bad-thermo",
		"thermo": {"package": "not-a-real-package", "components": ["water"]},
		"units": [],
		"streams": []
	}`))
	if err != nil {
		t.Fatalf("ParsePayload: %v", err)
	}
	if _, err := Build(payload); err == nil {
		t.Error("Build() with an unknown property package should fail outright")
	}
}

func TestBuildSkipsUnknownUnitKindAsWarning(t *testing.T) {
	payload, err := ParsePayload([]byte(`{
		"name": "bad-unit",
		"thermo": {"package": "PR", "components": ["water"]},
		"units": [{"id": "X1", "type": "NotARealUnit", "parameters": {}}],
		"streams": []
	}`))
	if err != nil {
		t.Fatalf("ParsePayload: %v", err)
	}
	fs, err := Build(payload)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(fs.Units) != 0 {
		t.Errorf("expected the unrecognized unit to be skipped, got %d units", len(fs.Units))
	}
	if len(fs.Warnings) == 0 {
		t.Error("expected a warning for the skipped unit")
	}
}

func TestParsePayloadAssignsUUIDToBlankIDs(t *testing.T) {
	payload, err := ParsePayload([]byte(`{
		"name": "blank-ids",
		"thermo": {"package": "PR", "components": ["water"]},
		"units": [{"type": "Pump", "parameters": {"outlet_pressure_pa": 500000}}],
		"streams": [{"target": "", "properties": {}}]
	}`))
	if err != nil {
		t.Fatalf("ParsePayload: %v", err)
	}
	if payload.Units[0].ID == "" {
		t.Error("expected a generated id for the unit with a blank id")
	}
	if payload.Streams[0].ID == "" {
		t.Error("expected a generated id for the stream with a blank id")
	}
}

func TestBuildRegistersFeedStreamFromFullySpecifiedStreamSpec(t *testing.T) {
	payload, err := ParsePayload([]byte(`{
		"name": "feed-only",
		"thermo": {"package": "PR", "components": ["water"]},
		"units": [{"id": "P1", "type": "Pump", "parameters": {"outlet_pressure_pa": 500000}}],
		"streams": [
			{"id": "feed", "target": "P1", "properties": {"temperature_c": 25, "pressure_kpa": 101.325, "flow_rate": 3600, "composition": {"water": 1.0}}}
		]
	}`))
	if err != nil {
		t.Fatalf("ParsePayload: %v", err)
	}
	fs, err := Build(payload)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if _, ok := fs.Streams["feed"]; !ok {
		t.Errorf("expected feed stream to be registered, warnings: %v", fs.Warnings)
	}
	if len(fs.Connections) != 1 || !fs.Connections[0].IsFeed {
		t.Errorf("expected a single feed connection, got %+v", fs.Connections)
	}
}

func TestBuildWarnsOnMissingFeedField(t *testing.T) {
	payload, err := ParsePayload([]byte(`{
		"name": "incomplete-feed",
		"thermo": {"package": "PR", "components": ["water"]},
		"units": [{"id": "P1", "type": "Pump", "parameters": {"outlet_pressure_pa": 500000}}],
		"streams": [
			{"id": "feed", "target": "P1", "properties": {"temperature_c": 25, "composition": {"water": 1.0}}}
		]
	}`))
	if err != nil {
		t.Fatalf("ParsePayload: %v", err)
	}
	fs, err := Build(payload)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if _, ok := fs.Streams["feed"]; ok {
		t.Error("feed missing pressure/flow should be dropped, not registered")
	}
	if len(fs.Warnings) == 0 {
		t.Error("expected a warning for the dropped feed")
	}
}

func TestCanonicalPortFoldsAliasesAndSuffixes(t *testing.T) {
	tests := []struct{ in, want string }{
		{"overhead", "vapor"},
		{"bottoms", "liquid"},
		{"water", "liquid2"},
		{"hot-out", "hot_out"},
		{"feed-stage-3", "feed"},
		{"out-2-left", "out-2"},
	}
	for _, tt := range tests {
		if got := CanonicalPort(tt.in); got != tt.want {
			t.Errorf("CanonicalPort(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPortCounterAssignsSequentialDefaultsPerUnit(t *testing.T) {
	c := newPortCounter()
	if got := c.nextInlet("M1", "Mixer"); got != "in-1" {
		t.Errorf("first inlet = %q, want in-1", got)
	}
	if got := c.nextInlet("M1", "Mixer"); got != "in-2" {
		t.Errorf("second inlet = %q, want in-2", got)
	}
	if got := c.nextOutlet("S1", "FlashDrum"); got != "vapor" {
		t.Errorf("first outlet = %q, want vapor", got)
	}
	if got := c.nextOutlet("S1", "FlashDrum"); got != "liquid" {
		t.Errorf("second outlet = %q, want liquid", got)
	}
}
