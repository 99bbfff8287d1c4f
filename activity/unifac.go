package activity

import "github.com/processworks/flowsheet/component"

// UNIFAC is the model used for the UNIFAC property package. It carries no
// group-contribution data: it reuses UNIQUAC's combinatorial+residual
// machinery with UNIQUAC's own per-component r/q table and binary energies,
// so its activity coefficients equal UNIQUAC's for the same inputs. No
// group R_k/Q_k summation or group-interaction matrix is applied.
type UNIFAC struct {
	*UNIQUAC
}

// NewUNIFAC builds a UNIFAC-labeled model for set that delegates entirely to
// UNIQUAC's r/q/u tables.
func NewUNIFAC(set *component.Set) *UNIFAC {
	return &UNIFAC{UNIQUAC: NewUNIQUAC(set)}
}

// NewModel builds the activity.Model for a named family ("NRTL", "UNIFAC",
// "UNIQUAC", matched case-sensitively); unrecognized names panic since this is only called from
// already-validated proppkg.Kind values.
func NewModel(kind string, set *component.Set) Model {
	switch kind {
	case "NRTL":
		return NewNRTL(set)
	case "UNIFAC":
		return NewUNIFAC(set)
	case "UNIQUAC":
		return NewUNIQUAC(set)
	default:
		panic("activity: unknown model kind " + kind)
	}
}
