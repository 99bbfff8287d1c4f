// Package solver is the sequential-modular iteration driver: each outer
// iteration walks the flowsheet's topological unit order, gathers inlets by
// port, calls the unit, assigns its outlets by the port-matching cascade,
// and Wegstein-accelerates any tear streams until convergence, then checks
// mass/energy closure.
package solver

import (
	"context"
	"fmt"
	"strings"

	"github.com/processworks/flowsheet/flowsheet"
	"github.com/processworks/flowsheet/stream"
	"github.com/processworks/flowsheet/topo"
)

// Options are the solver's tunables, normally populated by package config.
type Options struct {
	MaxIterations int
	Tolerance     float64
	AmbientT      float64 // K, used to seed a tear with no feed history
	AmbientP      float64 // Pa
}

// DefaultOptions returns the iteration driver's built-in defaults.
func DefaultOptions() Options {
	return Options{MaxIterations: 100, Tolerance: 1e-6, AmbientT: 298.15, AmbientP: 101325}
}

// Solve runs the iteration driver to convergence or max_iterations over fs,
// mutating fs.Streams in place and returning a result report. ctx is checked
// once per outer iteration; a cancelled context stops the loop early with
// converged=false.
func Solve(ctx context.Context, fs *flowsheet.Flowsheet, opts Options) *Result {
	if opts.MaxIterations <= 0 {
		opts = DefaultOptions()
	}

	graph := unitGraph(fs)
	tears := graph.TearEdges()
	order := graph.TopologicalOrder(tears)

	for _, e := range tears {
		sid := fs.Connections[e.ConnIndex].StreamID
		if _, ok := fs.Streams[sid]; !ok {
			fs.Streams[sid] = ambientStream(fs, opts)
		}
	}

	tearHistory := map[string][]vector{}
	var converged bool
	iterations := 0

	for iter := 1; iter <= opts.MaxIterations; iter++ {
		iterations = iter
		select {
		case <-ctx.Done():
			fs.Warnings = append(fs.Warnings, "solve cancelled before convergence")
			return finishResult(fs, iterations, false)
		default:
		}

		oldTear := map[string]*stream.StreamState{}
		for _, e := range tears {
			sid := fs.Connections[e.ConnIndex].StreamID
			oldTear[sid] = fs.Streams[sid]
		}

		for _, unitID := range order {
			runUnit(fs, unitID)
		}

		if len(tears) == 0 {
			converged = true
			break
		}

		maxErr := 0.0
		for _, e := range tears {
			sid := fs.Connections[e.ConnIndex].StreamID
			newVal, ok := fs.Streams[sid]
			if !ok {
				continue
			}
			errv := normalizedDistance(oldTear[sid], newVal, opts)
			if errv > maxErr {
				maxErr = errv
			}
			hist := append(tearHistory[sid], toVector(newVal))
			tearHistory[sid] = hist
			if len(hist) >= 3 {
				next := wegstein(hist[len(hist)-3], hist[len(hist)-2], hist[len(hist)-1])
				if accelerated := fromVector(next, newVal, fs.Engine); accelerated != nil {
					fs.Streams[sid] = accelerated
				}
			}
		}
		if maxErr < opts.Tolerance {
			converged = true
			break
		}
	}

	if !converged {
		fs.Warnings = append(fs.Warnings, fmt.Sprintf("solve did not converge within %d iterations", opts.MaxIterations))
	}
	return finishResult(fs, iterations, converged)
}

// unitGraph restricts fs.Connections to known-unit-to-known-unit edges, the
// input topo.Graph needs.
func unitGraph(fs *flowsheet.Flowsheet) *topo.Graph {
	g := &topo.Graph{Units: append([]string(nil), fs.UnitOrder...)}
	for i, c := range fs.Connections {
		if c.SourceUnit != "" && c.TargetUnit != "" {
			g.Edges = append(g.Edges, topo.Edge{From: c.SourceUnit, To: c.TargetUnit, ConnIndex: i})
		}
	}
	return g
}

// ambientStream seeds a tear stream that has no feed history with a small
// equimolar flow at ambient conditions.
func ambientStream(fs *flowsheet.Flowsheet, opts Options) *stream.StreamState {
	set := fs.Engine.Pkg.Set
	n := set.N()
	zs := make([]float64, n)
	for i := range zs {
		zs[i] = 1.0 / float64(n)
	}
	st, err := fs.Engine.PTFlash(opts.AmbientT, opts.AmbientP, zs, 1.0)
	if err != nil {
		return stream.ZeroFlowSentinel(set, opts.AmbientT, opts.AmbientP, zs, stream.Vapor)
	}
	return st
}

// runUnit gathers unitID's inlets from fs.Streams, calls its Calculate, and
// assigns the result onto its outgoing connections; any failure degrades to
// a warning and the unit's prior outlet streams are left untouched.
func runUnit(fs *flowsheet.Flowsheet, unitID string) {
	unit, ok := fs.Units[unitID]
	if !ok {
		return
	}
	inlets := map[string]*stream.StreamState{}
	for _, idx := range fs.UnitInlets[unitID] {
		c := fs.Connections[idx]
		if st, ok := fs.Streams[c.StreamID]; ok {
			inlets[c.TargetPort] = st
		}
	}
	outlets, err := unit.Calculate(inlets)
	if err != nil {
		fs.Warnings = append(fs.Warnings, fmt.Sprintf("[%s] %v", unit.UnitName(), err))
		return
	}
	if diag := unit.Diagnostics(); diag != nil && len(diag.Warnings) > 0 {
		for _, w := range diag.Warnings {
			fs.Warnings = append(fs.Warnings, fmt.Sprintf("[%s] %s", unit.UnitName(), w))
		}
		diag.Warnings = nil
	}
	assignOutlets(fs, unitID, outlets)
}

// assignOutlets matches a unit's Calculate result keys onto its outgoing
// connections via a five-tier cascade: semantic-alias (via handle
// normalization, which already folds synonyms like distillate→vapor),
// direct name match, fuzzy substring, positional, then any still-unassigned
// pairing.
func assignOutlets(fs *flowsheet.Flowsheet, unitID string, outlets map[string]*stream.StreamState) {
	conns := fs.UnitOutlets[unitID]
	if len(conns) == 0 || len(outlets) == 0 {
		return
	}
	kind := fs.UnitKind[unitID]
	resultKeys := canonicalOutletOrder(kind, outlets)

	usedConn := map[int]bool{}
	usedKey := map[string]bool{}

	assign := func(connIdx int, key string) {
		fs.Streams[fs.Connections[conns[connIdx]].StreamID] = outlets[key]
		usedConn[connIdx] = true
		usedKey[key] = true
	}

	// Tier 1+2: semantic/direct match on normalized port name.
	for ci, idx := range conns {
		if usedConn[ci] {
			continue
		}
		port := flowsheet.CanonicalPort(fs.Connections[idx].SourcePort)
		for _, key := range resultKeys {
			if usedKey[key] {
				continue
			}
			if flowsheet.CanonicalPort(key) == port {
				assign(ci, key)
				break
			}
		}
	}
	// Tier 3: fuzzy substring match.
	for ci, idx := range conns {
		if usedConn[ci] {
			continue
		}
		port := flowsheet.CanonicalPort(fs.Connections[idx].SourcePort)
		for _, key := range resultKeys {
			if usedKey[key] {
				continue
			}
			nk := flowsheet.CanonicalPort(key)
			if strings.Contains(nk, port) || strings.Contains(port, nk) {
				assign(ci, key)
				break
			}
		}
	}
	// Tier 4: positional fallback, in declared order.
	remainingKeys := make([]string, 0, len(resultKeys))
	for _, key := range resultKeys {
		if !usedKey[key] {
			remainingKeys = append(remainingKeys, key)
		}
	}
	ki := 0
	for ci := range conns {
		if usedConn[ci] {
			continue
		}
		if ki >= len(remainingKeys) {
			break
		}
		assign(ci, remainingKeys[ki])
		ki++
	}
	// Tier 5: graph fallback — anything left over pairs arbitrarily.
	remainingKeys = remainingKeys[ki:]
	ki = 0
	for ci := range conns {
		if usedConn[ci] {
			continue
		}
		if ki >= len(remainingKeys) {
			break
		}
		assign(ci, remainingKeys[ki])
		ki++
	}
}
