// Package proppkg normalizes a user-supplied property-package name into a
// supported Kind and binds it, together with interaction parameters, to a
// fixed component set.
package proppkg

import (
	"strings"

	"github.com/processworks/flowsheet/component"
	"github.com/processworks/flowsheet/eos"
)

// Kind enumerates the supported property-package families.
type Kind int

const (
	KindPR Kind = iota
	KindSRK
	KindNRTL
	KindUNIFAC
	KindUNIQUAC
	KindIAPWS
)

func (k Kind) String() string {
	switch k {
	case KindPR:
		return "PR"
	case KindSRK:
		return "SRK"
	case KindNRTL:
		return "NRTL"
	case KindUNIFAC:
		return "UNIFAC"
	case KindUNIQUAC:
		return "UNIQUAC"
	case KindIAPWS:
		return "IAPWS"
	default:
		return "unknown"
	}
}

// nameAlias maps a raw package-name string (any casing/spacing, common
// synonyms, and historically unsupported models) onto a supported Kind;
// names of historically unsupported models are remapped to their closest
// supported equivalent.
var nameAlias = map[string]Kind{
	"pr": KindPR, "peng-robinson": KindPR, "pengrobinson": KindPR, "peng robinson": KindPR,
	"srk": KindSRK, "soave-redlich-kwong": KindSRK, "soaveredlichkwong": KindSRK,
	"nrtl": KindNRTL,
	"unifac": KindUNIFAC,
	"uniquac": KindUNIQUAC,
	"iapws": KindIAPWS, "steamtables": KindIAPWS, "steam tables": KindIAPWS,
	// historically unsupported models remapped to their closest equivalent
	"lee-kesler-plocker": KindPR, "leekeslerplocker": KindPR,
	"chao-seader": KindPR, "chaoseader": KindPR,
	"wilson": KindNRTL,
	"sour water": KindPR, "sourwater": KindPR,
	"amine": KindNRTL,
}

// Error is a sentinel error for unrecognized package names.
type Error struct{ Msg string }

func (e Error) Error() string { return e.Msg }

// NormalizeName maps a raw package-name string to a supported Kind.
func NormalizeName(name string) (Kind, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.ReplaceAll(n, "_", " ")
	if k, ok := nameAlias[n]; ok {
		return k, nil
	}
	if k, ok := nameAlias[strings.ReplaceAll(n, " ", "")]; ok {
		return k, nil
	}
	return 0, Error{Msg: "unsupported property package: " + name}
}

// Package binds a Kind to a component set, a binary-interaction-parameter
// matrix, and the concrete gas/liquid model objects the flash engine needs.
// It is immutable once built.
type Package struct {
	Kind Kind
	Set  *component.Set
	EOS  *eos.Mixture // the cubic EOS backing gas (+liquid for PR/SRK) phases
}

// New builds a Package for kind bound to set, with kij defaulting to zero
// for any binary not present in the kij argument.
func New(kind Kind, set *component.Set, kij [][]float64) (*Package, error) {
	n := set.N()
	tc := make([]float64, n)
	pc := make([]float64, n)
	w := make([]float64, n)
	for i := 0; i < n; i++ {
		c := set.Constants(i)
		tc[i] = c.Critical.Tc
		pc[i] = c.Critical.Pc
		w[i] = c.Acentric
	}

	eosKind := eos.PR
	if kind == KindSRK {
		eosKind = eos.SRK
	}
	// NRTL/UNIFAC/UNIQUAC pair an activity-coefficient liquid with a PR gas
	// phase, so they need a cubic EOS object. IAPWS packages carry one as
	// well, but the flash engine's IAPWS path does not use it and does not
	// fall back to a PR flash.
	mix, err := eos.NewMixture(eosKind, tc, pc, w, kij)
	if err != nil {
		return nil, err
	}
	return &Package{Kind: kind, Set: set, EOS: mix}, nil
}

// UsesActivityModel reports whether this package's liquid phase is modeled
// with an activity-coefficient method rather than the cubic EOS directly.
func (p *Package) UsesActivityModel() bool {
	switch p.Kind {
	case KindNRTL, KindUNIFAC, KindUNIQUAC:
		return true
	default:
		return false
	}
}

// IsWater reports whether this package is the IAPWS pure-water package.
func (p *Package) IsWater() bool { return p.Kind == KindIAPWS }
