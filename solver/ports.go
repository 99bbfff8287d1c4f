package solver

import (
	"sort"

	"github.com/processworks/flowsheet/flowsheet"
	"github.com/processworks/flowsheet/stream"
)

// canonicalOutletOrder orders a unit's raw Calculate result keys by its
// kind's canonical outlet-name list first (so positional fallback lines up
// with each unit kind's default port ordering), then appends any keys the
// kind's list didn't anticipate (e.g. a Splitter's caller-supplied outlet
// names) in sorted order for determinism.
func canonicalOutletOrder(kind string, outlets map[string]*stream.StreamState) []string {
	seen := map[string]bool{}
	var ordered []string
	for _, key := range flowsheet.DefaultOutlets(kind) {
		if _, ok := outlets[key]; ok && !seen[key] {
			ordered = append(ordered, key)
			seen[key] = true
		}
	}
	var rest []string
	for key := range outlets {
		if !seen[key] {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	return append(ordered, rest...)
}
