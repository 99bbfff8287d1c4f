// Package flowsheet builds a solvable process graph from a JSON payload: it
// instantiates units via unitops.DecodeParams, resolves port aliases and
// positional handles, constructs feed streams, and hands the result to
// package solver.
package flowsheet

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Error is the sentinel error type for payload-level build failures
// (unresolved component, unsupported property package, malformed schema),
// matching the InputError idiom used throughout this module.
type Error struct{ Msg string }

func (e Error) Error() string { return e.Msg }

// Payload is the top-level flowsheet input.
type Payload struct {
	Name    string       `json:"name"`
	Thermo  ThermoSpec   `json:"thermo"`
	Units   []UnitSpec   `json:"units"`
	Streams []StreamSpec `json:"streams"`
}

// ThermoSpec selects the global property package and component list.
type ThermoSpec struct {
	Package    string   `json:"package"`
	Components []string `json:"components"`
}

// UnitSpec is one unit's payload record. PropertyPackage/Components are
// decoded but not applied: every unit uses the global thermo spec, and
// Build records a warning when PropertyPackage is set.
type UnitSpec struct {
	ID              string         `json:"id"`
	Type            string         `json:"type"`
	Name            string         `json:"name"`
	Parameters      map[string]any `json:"parameters"`
	PropertyPackage string         `json:"property_package"`
	Components      []string       `json:"components"`
}

// StreamSpec is one payload connection/feed record.
type StreamSpec struct {
	ID         string         `json:"id"`
	Source     string         `json:"source"`
	Target     string         `json:"target"`
	Properties map[string]any `json:"properties"`
}

// ParsePayload decodes raw JSON into a Payload, assigning a uuid to any
// unit or stream whose id is blank.
func ParsePayload(raw []byte) (*Payload, error) {
	var p Payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, Error{Msg: fmt.Sprintf("flowsheet: malformed payload: %v", err)}
	}
	for i := range p.Units {
		if p.Units[i].ID == "" {
			p.Units[i].ID = uuid.NewString()
		}
	}
	for i := range p.Streams {
		if p.Streams[i].ID == "" {
			p.Streams[i].ID = uuid.NewString()
		}
	}
	return &p, nil
}

func (s StreamSpec) prop(key string) (any, bool) {
	v, ok := s.Properties[key]
	return v, ok
}

func (s StreamSpec) propFloat(key string) (float64, bool) {
	v, ok := s.prop(key)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

func (s StreamSpec) propString(key string) (string, bool) {
	v, ok := s.prop(key)
	if !ok {
		return "", false
	}
	str, ok := v.(string)
	return str, ok
}

func (s StreamSpec) propObj(key string) (map[string]any, bool) {
	v, ok := s.prop(key)
	if !ok {
		return nil, false
	}
	m, ok := v.(map[string]any)
	return m, ok
}
