package flowsheet

import "strings"

// portAlias maps an incoming handle name (after suffix stripping) to its
// canonical port name. "in"/"feed" are kept
// distinct: plain "in" normalizes to "in", but the alias table's special
// case for column feeds is handled by normalizeHandle recognizing
// "feed-stage-N" before this table is even consulted.
var portAlias = map[string]string{
	"overhead": "vapor", "gas": "vapor", "vapor": "vapor", "distillate": "vapor",
	"bottoms": "liquid", "oil": "liquid", "liquid": "liquid", "residue": "liquid",
	"water": "liquid2", "aqueous": "liquid2",
	"inlet": "in", "feed": "feed", "suction": "in", "in": "in",
	"outlet": "out", "discharge": "out", "product": "out", "out": "out",
	"hot-in": "hot_in", "hot_in": "hot_in", "hot-out": "hot_out", "hot_out": "hot_out",
	"cold-in": "cold_in", "cold_in": "cold_in", "cold-out": "cold_out", "cold_out": "cold_out",
}

var suffixes = []string{"-left", "-right", "-top", "-bottom", "-inlet", "-outlet", "-out"}

// CanonicalPort applies the same suffix-stripping and alias-table folding as
// connection resolution, exported so package solver's outlet-matching
// cascade can fold a unit's raw Calculate result keys (e.g. "distillate")
// onto the canonical port name a downstream edge was resolved to (e.g.
// "vapor") without duplicating the alias table.
func CanonicalPort(h string) string { return normalizeHandle(h) }

// normalizeHandle lowercases h, collapses feed-stage-N to feed, preserves
// splitter out-N-* handles, applies the alias table, and otherwise strips
// one positional suffix before applying the alias table again. An empty
// handle yields "" so the caller can fall back to positional assignment;
// any other unrecognized handle comes back lowercased and suffix-stripped.
func normalizeHandle(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	if h == "" {
		return ""
	}
	if strings.HasPrefix(h, "feed-stage-") || strings.HasPrefix(h, "feed_stage_") {
		return "feed"
	}
	if strings.HasPrefix(h, "out-") {
		// out-1, out-2, ... (and out-1-anything) are preserved verbatim for
		// splitter outlets, which key their own Nth-outlet names literally.
		parts := strings.SplitN(h, "-", 3)
		if len(parts) >= 2 {
			return "out-" + parts[1]
		}
	}
	if canon, ok := portAlias[h]; ok {
		return canon
	}
	for _, suf := range suffixes {
		if strings.HasSuffix(h, suf) && h != suf {
			h = strings.TrimSuffix(h, suf)
			break
		}
	}
	if canon, ok := portAlias[h]; ok {
		return canon
	}
	return h
}

// DefaultOutlets exposes a unit kind's canonical outlet-name ordering so
// package solver can order a Calculate result map deterministically before
// running its positional-fallback assignment tier.
func DefaultOutlets(kind string) []string {
	_, outlets := defaultPorts(kind)
	return outlets
}

// defaultPorts gives the inlet/outlet port-name sequence assumed when a
// payload stream omits its handle for a unit of this kind. Units not
// listed here use a single "in"/"out".
func defaultPorts(kind string) (inlets, outlets []string) {
	switch kind {
	case "FlashDrum":
		return []string{"feed"}, []string{"vapor", "liquid"}
	case "ThreePhaseSeparator":
		return []string{"feed"}, []string{"gas", "oil", "water"}
	case "ShortcutDistillation", "RigorousDistillation":
		return []string{"feed"}, []string{"distillate", "bottoms"}
	case "Splitter":
		return []string{"in"}, []string{"out-1", "out-2", "out-3", "out-4", "out-5", "out-6"}
	case "HeatExchanger":
		return []string{"hot_in", "cold_in"}, []string{"hot_out", "cold_out"}
	case "Mixer":
		return []string{"in-1", "in-2", "in-3", "in-4", "in-5", "in-6"}, []string{"out"}
	default:
		return []string{"in"}, []string{"out"}
	}
}

// portCounter assigns sequential default ports per unit instance, one
// counter per direction, so repeated missing handles on the same unit never
// collide.
type portCounter struct {
	inletsUsed, outletsUsed map[string]int
}

func newPortCounter() *portCounter {
	return &portCounter{inletsUsed: map[string]int{}, outletsUsed: map[string]int{}}
}

func (c *portCounter) nextInlet(unitID, kind string) string {
	inlets, _ := defaultPorts(kind)
	idx := c.inletsUsed[unitID]
	c.inletsUsed[unitID] = idx + 1
	if idx < len(inlets) {
		return inlets[idx]
	}
	return inlets[len(inlets)-1]
}

func (c *portCounter) nextOutlet(unitID, kind string) string {
	_, outlets := defaultPorts(kind)
	idx := c.outletsUsed[unitID]
	c.outletsUsed[unitID] = idx + 1
	if idx < len(outlets) {
		return outlets[idx]
	}
	return outlets[len(outlets)-1]
}
