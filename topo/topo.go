// Package topo analyzes the unit-adjacency graph of a flowsheet: Tarjan's
// strongly-connected-components algorithm locates recycle loops, a simple
// first-edge policy picks one tear stream per loop, and Kahn's algorithm
// orders the remaining acyclic graph for the iteration driver.
package topo

// Edge is one known-unit-to-known-unit connection, carrying the index of
// its originating flowsheet.Connection so a chosen tear can be reported back
// to the solver by stream id.
type Edge struct {
	From, To  string
	ConnIndex int
}

// Graph is the unit-adjacency graph restricted to edges whose endpoints are
// both known units.
type Graph struct {
	Units []string
	Edges []Edge
}

// sccFinder runs Tarjan's algorithm lazily over Graph on demand; kept as a
// struct rather than free functions so the recursive index/lowlink/onStack
// bookkeeping doesn't leak into the caller.
type sccFinder struct {
	adj     map[string][]Edge
	index   map[string]int
	lowlink map[string]int
	onStack map[string]bool
	stack   []string
	counter int
	sccs    [][]string
}

// StronglyConnectedComponents returns every SCC of g, including trivial
// single-node components with no self-loop (the caller filters those out
// when selecting tears).
func (g *Graph) StronglyConnectedComponents() [][]string {
	f := &sccFinder{
		adj:     map[string][]Edge{},
		index:   map[string]int{},
		lowlink: map[string]int{},
		onStack: map[string]bool{},
	}
	for _, e := range g.Edges {
		f.adj[e.From] = append(f.adj[e.From], e)
	}
	for _, u := range g.Units {
		if _, seen := f.index[u]; !seen {
			f.strongConnect(u)
		}
	}
	return f.sccs
}

func (f *sccFinder) strongConnect(v string) {
	f.index[v] = f.counter
	f.lowlink[v] = f.counter
	f.counter++
	f.stack = append(f.stack, v)
	f.onStack[v] = true

	for _, e := range f.adj[v] {
		w := e.To
		if _, seen := f.index[w]; !seen {
			f.strongConnect(w)
			if f.lowlink[w] < f.lowlink[v] {
				f.lowlink[v] = f.lowlink[w]
			}
		} else if f.onStack[w] {
			if f.index[w] < f.lowlink[v] {
				f.lowlink[v] = f.index[w]
			}
		}
	}

	if f.lowlink[v] == f.index[v] {
		var component []string
		for {
			n := len(f.stack) - 1
			w := f.stack[n]
			f.stack = f.stack[:n]
			f.onStack[w] = false
			component = append(component, w)
			if w == v {
				break
			}
		}
		f.sccs = append(f.sccs, component)
	}
}

// TearEdges returns one edge per non-trivial SCC (more than one unit, or a
// single unit with a self-loop): the first intra-SCC edge encountered in the
// graph's original edge order. This arbitrary-first-edge choice is not an
// optimal tear selection, but it is a valid one — every recycle loop gets
// cut exactly once.
func (g *Graph) TearEdges() []Edge {
	sccOf := map[string]int{}
	for i, scc := range g.StronglyConnectedComponents() {
		for _, u := range scc {
			sccOf[u] = i
		}
	}
	sccSize := map[int]int{}
	for _, id := range sccOf {
		sccSize[id]++
	}

	tornSCC := map[int]bool{}
	var tears []Edge
	for _, e := range g.Edges {
		id := sccOf[e.From]
		if sccOf[e.To] != id {
			continue
		}
		isLoop := sccSize[id] > 1 || e.From == e.To
		if !isLoop || tornSCC[id] {
			continue
		}
		tears = append(tears, e)
		tornSCC[id] = true
	}
	return tears
}

// TopologicalOrder runs Kahn's algorithm over g with the given tear edges
// removed, then appends any units Kahn's algorithm couldn't place (a
// defensive fallback; should not trigger once every loop's tear is cut)
// in their original declaration order.
func (g *Graph) TopologicalOrder(tears []Edge) []string {
	cut := map[Edge]bool{}
	for _, t := range tears {
		cut[t] = true
	}

	indegree := map[string]int{}
	adj := map[string][]string{}
	for _, u := range g.Units {
		indegree[u] = 0
	}
	for _, e := range g.Edges {
		if cut[e] {
			continue
		}
		adj[e.From] = append(adj[e.From], e.To)
		indegree[e.To]++
	}

	var queue []string
	for _, u := range g.Units {
		if indegree[u] == 0 {
			queue = append(queue, u)
		}
	}
	placed := map[string]bool{}
	var order []string
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		if placed[u] {
			continue
		}
		placed[u] = true
		order = append(order, u)
		for _, v := range adj[u] {
			indegree[v]--
			if indegree[v] == 0 {
				queue = append(queue, v)
			}
		}
	}
	for _, u := range g.Units {
		if !placed[u] {
			order = append(order, u)
		}
	}
	return order
}
