// Package component resolves human-supplied chemical names into a stable
// registry identifier (CAS number) and loads the pure-component constants and
// temperature-dependent correlations that every other package in this module
// builds on.
package component

// ResolutionError is returned when a name cannot be mapped to a known
// component.
type ResolutionError struct {
	Msg string
}

func (e ResolutionError) Error() string { return e.Msg }

// UnresolvedComponent builds the error for a name that matched nothing in the
// alias table or the registry.
func UnresolvedComponent(name string) error {
	return ResolutionError{Msg: "unresolved component: " + name}
}
