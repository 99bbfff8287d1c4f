package flowsheet

import (
	"fmt"

	"github.com/processworks/flowsheet/component"
	"github.com/processworks/flowsheet/flash"
	"github.com/processworks/flowsheet/proppkg"
	"github.com/processworks/flowsheet/stream"
	"github.com/processworks/flowsheet/unitops"
)

// Connection is one resolved payload stream: a (source unit, source port) to
// (target unit, target port) edge, or a feed/sink edge when either end has
// no known unit.
type Connection struct {
	StreamID   string
	SourceUnit string // "" for a feed (no known source)
	SourcePort string
	TargetUnit string // "" for a terminal sink (no known target)
	TargetPort string
	IsFeed     bool
}

// Flowsheet is the built process graph: instantiated units, resolved
// connections, and the seeded feed streams, ready for package solver to
// iterate.
type Flowsheet struct {
	Name   string
	Engine *flash.Engine

	Units     map[string]unitops.Unit
	UnitKind  map[string]string
	UnitOrder []string

	Connections []Connection
	Streams     map[string]*stream.StreamState

	// UnitInlets/UnitOutlets map a unit id to its ordered list of
	// connection indices on that side, the adjacency the solver gathers
	// inlets from and assigns outlets into.
	UnitInlets  map[string][]int
	UnitOutlets map[string][]int

	Warnings []string
}

func (fs *Flowsheet) warn(format string, args ...any) {
	fs.Warnings = append(fs.Warnings, fmt.Sprintf(format, args...))
}

// Build parses payload into a solvable Flowsheet. Only the global thermo
// spec (package name, component list) can fail the build outright;
// everything downstream of that degrades to a warning.
func Build(payload *Payload) (*Flowsheet, error) {
	engine, err := buildEngine(payload.Thermo)
	if err != nil {
		return nil, err
	}

	fs := &Flowsheet{
		Name:        payload.Name,
		Engine:      engine,
		Units:       map[string]unitops.Unit{},
		UnitKind:    map[string]string{},
		Streams:     map[string]*stream.StreamState{},
		UnitInlets:  map[string][]int{},
		UnitOutlets: map[string][]int{},
	}

	for _, us := range payload.Units {
		if us.PropertyPackage != "" {
			fs.warn("unit %q: per-unit property package override is not supported; using the flowsheet's global package", us.ID)
		}
		name := us.Name
		if name == "" {
			name = us.ID
		}
		unit, err := unitops.DecodeParams(us.Type, us.ID, name, unitops.Params(us.Parameters), engine)
		if err != nil {
			fs.warn("unit %q skipped: %v", us.ID, err)
			continue
		}
		fs.Units[us.ID] = unit
		fs.UnitKind[us.ID] = us.Type
		fs.UnitOrder = append(fs.UnitOrder, us.ID)
	}

	counter := newPortCounter()
	for _, ss := range payload.Streams {
		conn := fs.resolveConnection(ss, counter)
		idx := len(fs.Connections)
		fs.Connections = append(fs.Connections, conn)
		if conn.SourceUnit != "" {
			fs.UnitOutlets[conn.SourceUnit] = append(fs.UnitOutlets[conn.SourceUnit], idx)
		}
		if conn.TargetUnit != "" {
			fs.UnitInlets[conn.TargetUnit] = append(fs.UnitInlets[conn.TargetUnit], idx)
		}

		if conn.IsFeed {
			st, warning := buildFeed(ss, engine)
			if warning != "" {
				fs.warn("%s", warning)
				continue
			}
			fs.Streams[ss.ID] = st
		}
	}

	if len(fs.Streams) == 0 {
		fs.warn("no feed streams were created from this payload")
	}

	return fs, nil
}

// resolveConnection determines a stream-spec's source/target unit+port and
// whether it is a feed, applying the same port-extraction and feed-detection
// rules throughout this package.
func (fs *Flowsheet) resolveConnection(ss StreamSpec, counter *portCounter) Connection {
	_, sourceKnown := fs.Units[ss.Source]
	_, targetKnown := fs.Units[ss.Target]

	conn := Connection{StreamID: ss.ID}
	if sourceKnown {
		conn.SourceUnit = ss.Source
		if h, ok := ss.propString("sourceHandle"); ok && normalizeHandle(h) != "" {
			conn.SourcePort = normalizeHandle(h)
		} else {
			conn.SourcePort = counter.nextOutlet(ss.Source, fs.UnitKind[ss.Source])
		}
	}
	if targetKnown {
		conn.TargetUnit = ss.Target
		if h, ok := ss.propString("targetHandle"); ok && normalizeHandle(h) != "" {
			conn.TargetPort = normalizeHandle(h)
		} else {
			conn.TargetPort = counter.nextInlet(ss.Target, fs.UnitKind[ss.Target])
		}
	}

	conn.IsFeed = !sourceKnown || ss.isFullySpecified()
	return conn
}

// buildEngine resolves the global thermo spec into a bound flash.Engine.
func buildEngine(t ThermoSpec) (*flash.Engine, error) {
	kind, err := proppkg.NormalizeName(t.Package)
	if err != nil {
		return nil, Error{Msg: err.Error()}
	}
	casList, err := component.ResolveAll(t.Components)
	if err != nil {
		return nil, Error{Msg: fmt.Sprintf("flowsheet: %v", err)}
	}
	set, err := component.NewSet(casList)
	if err != nil {
		return nil, Error{Msg: fmt.Sprintf("flowsheet: %v", err)}
	}
	pkg, err := proppkg.New(kind, set, proppkg.BuildKijMatrix(set))
	if err != nil {
		return nil, Error{Msg: fmt.Sprintf("flowsheet: %v", err)}
	}
	return flash.New(pkg), nil
}
