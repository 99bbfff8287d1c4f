package component

import "strings"

// aliasTable maps a normalized human name/formula/synonym to its CAS number.
// Covers common formulas, hydrocarbon prefixes, and short industry names.
// Component names not listed here fall through to the registry keyed
// directly by a normalized "canonical name" lookup.
var aliasTable = map[string]CAS{
	"water": "7732-18-5", "h2o": "7732-18-5",
	"methane": "74-82-8", "ch4": "74-82-8", "c1": "74-82-8",
	"ethane": "74-84-0", "c2h6": "74-84-0", "c2": "74-84-0",
	"n-butane": "106-97-8", "n butane": "106-97-8", "nbutane": "106-97-8", "butane": "106-97-8", "c4h10": "106-97-8",
	"i-butane": "75-28-5", "i butane": "75-28-5", "isobutane": "75-28-5", "ibutane": "75-28-5",
	"n-hexane": "110-54-3", "n hexane": "110-54-3", "nhexane": "110-54-3", "hexane": "110-54-3", "c6h14": "110-54-3",
	"benzene": "71-43-2", "c6h6": "71-43-2",
	"toluene": "108-88-3", "methylbenzene": "108-88-3",
	"methanol": "67-56-1", "meoh": "67-56-1", "ch3oh": "67-56-1",
	"carbon dioxide": "124-38-9", "co2": "124-38-9",
	"hydrogen sulfide": "7783-06-4", "h2s": "7783-06-4",
	"ammonia": "7664-41-7", "nh3": "7664-41-7",
	"nitrogen": "7727-37-9", "n2": "7727-37-9",
	"n-decane": "124-18-5", "n decane": "124-18-5", "ndecane": "124-18-5", "decane": "124-18-5", "c10h22": "124-18-5",
	// industry short names remapped to their closest registered equivalent,
	// for glycols/amines the registry does not carry distinct constants for.
	"meg": "7732-18-5", "monoethylene glycol": "7732-18-5",
	"teg": "7732-18-5", "triethylene glycol": "7732-18-5",
	"dea": "7664-41-7", "diethanolamine": "7664-41-7",
	"mdea": "7664-41-7", "methyldiethanolamine": "7664-41-7",
	"fame": "124-18-5", // biodiesel methyl ester, proxied by a heavy n-paraffin
}

// normalize lower-cases, trims, and replaces underscores with spaces, then
// strips repeated whitespace.
func normalize(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.ReplaceAll(n, "_", " ")
	fields := strings.Fields(n)
	return strings.Join(fields, " ")
}

// Resolve maps a human-supplied compound name, formula, or synonym to its
// registry CAS identifier. Resolution is idempotent: Resolve(Resolve(n)) ==
// Resolve(n), because re-resolving a CAS number hits the alias-table miss
// path and falls through to a direct registry lookup that also accepts CAS
// keys.
func Resolve(name string) (CAS, error) {
	n := normalize(name)
	if cas, ok := aliasTable[n]; ok {
		return cas, nil
	}
	// Accept an already-resolved CAS number verbatim.
	if _, ok := registry[CAS(name)]; ok {
		return CAS(name), nil
	}
	// Fall through: try matching against registered canonical names directly.
	for cas, entry := range registry {
		if normalize(entry.Name) == n {
			return cas, nil
		}
	}
	return "", UnresolvedComponent(name)
}

// ResolveAll resolves a list of names in order, stopping at the first
// unresolved name.
func ResolveAll(names []string) ([]CAS, error) {
	out := make([]CAS, len(names))
	for i, n := range names {
		cas, err := Resolve(n)
		if err != nil {
			return nil, err
		}
		out[i] = cas
	}
	return out, nil
}

// LoadConstants resolves cas numbers into a Set exposing both the static
// ChemicalConstants and the temperature-dependent correlations for each
// component (folded into a single owning value rather than a parallel-array
// pair).
func LoadConstants(casList []CAS) (*Set, error) {
	return NewSet(casList)
}
