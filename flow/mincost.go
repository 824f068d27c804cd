package flow

import (
	"container/heap"
	"fmt"
	"math"

	"github.com/katalvlaran/allotment/core"
)

// MinCostFlow computes an integral flow of minimum total cost that satisfies
// every vertex demand of g exactly and respects every edge capacity.
//
// Vertices with negative demand are supplies, positive demand must be absorbed.
// The graph is reduced to a single-commodity s-t problem by attaching an internal
// super source to every supply vertex and a super sink to every demand vertex,
// then solved by successive shortest paths: each round runs Dijkstra over reduced
// costs (Johnson potentials keep them non-negative), augments along the cheapest
// path, and updates the potentials.
//
// It returns:
//   - *Result: per-edge flow, total Value and Cost
//   - err: ErrNilGraph, ErrReservedVertex, ErrUnbalanced, EdgeError,
//     *InfeasibleError (wraps ErrInfeasible) or a context error.
//
// Determinism: vertices are indexed in lexical order, arcs are scanned in edge
// insertion order, the heap breaks distance ties by vertex index, and a
// predecessor is replaced only on strict improvement. Identical graphs yield
// identical flows.
//
// Complexity:
//
//	Time:   O(F · (V + E) log V), F = total supply (every augmentation routes ≥ 1 unit).
//	Memory: O(V + E).
func MinCostFlow(g *core.Graph, opts Options) (*Result, error) {
	opts.normalize()
	if g == nil {
		return nil, ErrNilGraph
	}

	r, err := buildResidual(g)
	if err != nil {
		return nil, err
	}

	s := newSSP(r)
	var routed, cost int64
	for routed < r.required {
		if err = opts.Ctx.Err(); err != nil {
			return nil, err
		}
		if !s.shortestPaths() {
			opts.Logger.Debug("flow: sink unreachable", "routed", routed, "required", r.required)
			return nil, &InfeasibleError{Graph: g.Clone(), Required: r.required, Routed: routed}
		}
		push, pathCost := s.augment(r.required - routed)
		routed += push
		cost += push * pathCost
		opts.Logger.Debug("flow: augmented", "units", push, "path_cost", pathCost, "routed", routed)
	}

	return r.result(routed, cost), nil
}

// arc is one direction of a residual edge.
type arc struct {
	to   int
	rev  int   // index of the paired arc in adj[to]
	cap  int64 // residual capacity
	cost int64
	edge int // index into residual.edges for forward arcs of input edges; -1 otherwise
}

// residual is the index-based residual network of a demand graph.
type residual struct {
	ids      []string
	adj      [][]arc
	edges    []core.Edge
	ref      [][2]int // edge index → (tail vertex, arc index)
	source   int
	sink     int
	required int64
}

// buildResidual validates g and lays it out as arrays.
//
// Steps:
//  1. Index vertices in sorted order; reject reserved IDs.
//  2. Add one forward/backward arc pair per edge, in insertion order; reject negative costs.
//  3. Attach super terminals per vertex demand and check the balance.
func buildResidual(g *core.Graph) (*residual, error) {
	ids := g.Vertices()
	index := make(map[string]int, len(ids))
	for i, id := range ids {
		if id == SuperSource || id == SuperSink {
			return nil, fmt.Errorf("%w: %q", ErrReservedVertex, id)
		}
		index[id] = i
	}
	n := len(ids)
	r := &residual{
		ids:    ids,
		adj:    make([][]arc, n+2),
		source: n,
		sink:   n + 1,
	}

	for _, e := range g.Edges() {
		if e.Cost < 0 {
			return nil, EdgeError{ID: e.ID, From: e.From, To: e.To, Cost: e.Cost}
		}
		r.edges = append(r.edges, *e)
		u, v := index[e.From], index[e.To]
		r.ref = append(r.ref, [2]int{u, len(r.adj[u])})
		r.addArc(u, v, e.Capacity, e.Cost, len(r.edges)-1)
	}

	var demand int64
	for i, id := range ids {
		d, err := g.Demand(id)
		if err != nil {
			return nil, err
		}
		switch {
		case d < 0:
			r.addArc(r.source, i, -d, 0, -1)
			r.required -= d
		case d > 0:
			r.addArc(i, r.sink, d, 0, -1)
			demand += d
		}
	}
	if r.required != demand {
		return nil, fmt.Errorf("%w: supply %d, demand %d", ErrUnbalanced, r.required, demand)
	}

	return r, nil
}

// addArc appends the arc u→v and its zero-capacity reverse.
func (r *residual) addArc(u, v int, capacity, cost int64, edge int) {
	r.adj[u] = append(r.adj[u], arc{to: v, rev: len(r.adj[v]), cap: capacity, cost: cost, edge: edge})
	r.adj[v] = append(r.adj[v], arc{to: u, rev: len(r.adj[u]) - 1, cap: 0, cost: -cost, edge: -1})
}

// result reads the flow of every input edge off its reverse arc.
func (r *residual) result(value, cost int64) *Result {
	res := &Result{
		Value: value,
		Cost:  cost,
		edges: make([]EdgeFlow, len(r.edges)),
		index: make(map[string]int, len(r.edges)),
	}
	for i, e := range r.edges {
		u, k := r.ref[i][0], r.ref[i][1]
		a := r.adj[u][k]
		res.edges[i] = EdgeFlow{Edge: e, Flow: r.adj[a.to][a.rev].cap}
		res.index[e.ID] = i
	}

	return res
}

// ssp holds the mutable state of the successive-shortest-path loop.
type ssp struct {
	r         *residual
	potential []int64
	dist      []int64
	prevNode  []int
	prevArc   []int
	done      []bool
	pq        nodePQ
}

func newSSP(r *residual) *ssp {
	n := len(r.adj)

	return &ssp{
		r:         r,
		potential: make([]int64, n),
		dist:      make([]int64, n),
		prevNode:  make([]int, n),
		prevArc:   make([]int, n),
		done:      make([]bool, n),
		pq:        make(nodePQ, 0, n),
	}
}

// shortestPaths runs Dijkstra on reduced costs from the super source and
// folds the distances into the potentials. It reports whether the super sink
// is reachable.
func (s *ssp) shortestPaths() bool {
	for i := range s.dist {
		s.dist[i] = math.MaxInt64
		s.prevNode[i] = -1
		s.prevArc[i] = -1
		s.done[i] = false
	}
	s.pq = s.pq[:0]
	s.dist[s.r.source] = 0
	heap.Push(&s.pq, nodeItem{id: s.r.source, dist: 0})

	for s.pq.Len() > 0 {
		item := heap.Pop(&s.pq).(nodeItem)
		u := item.id
		// Skip stale heap entries (lazy decrease-key).
		if s.done[u] {
			continue
		}
		s.done[u] = true
		for k, a := range s.r.adj[u] {
			if a.cap <= 0 {
				continue
			}
			nd := s.dist[u] + a.cost + s.potential[u] - s.potential[a.to]
			if nd >= s.dist[a.to] {
				continue
			}
			s.dist[a.to] = nd
			s.prevNode[a.to] = u
			s.prevArc[a.to] = k
			heap.Push(&s.pq, nodeItem{id: a.to, dist: nd})
		}
	}
	if !s.done[s.r.sink] {
		return false
	}
	// Vertices left unreached can never be reached again, so their potentials are irrelevant.
	for v, d := range s.dist {
		if s.done[v] {
			s.potential[v] += d
		}
	}

	return true
}

// augment pushes min(limit, bottleneck) along the last shortest path and
// returns the amount pushed and the real per-unit cost of the path.
func (s *ssp) augment(limit int64) (push, pathCost int64) {
	push = limit
	for v := s.r.sink; v != s.r.source; v = s.prevNode[v] {
		a := s.r.adj[s.prevNode[v]][s.prevArc[v]]
		if a.cap < push {
			push = a.cap
		}
	}
	for v := s.r.sink; v != s.r.source; v = s.prevNode[v] {
		u := s.prevNode[v]
		a := &s.r.adj[u][s.prevArc[v]]
		a.cap -= push
		s.r.adj[v][a.rev].cap += push
		pathCost += a.cost
	}

	return push, pathCost
}

// nodeItem is a vertex index with its tentative distance.
type nodeItem struct {
	id   int
	dist int64
}

// nodePQ is a min-heap of nodeItem ordered by (dist, id).
type nodePQ []nodeItem

func (pq nodePQ) Len() int { return len(pq) }

func (pq nodePQ) Less(i, j int) bool {
	if pq[i].dist != pq[j].dist {
		return pq[i].dist < pq[j].dist
	}
	return pq[i].id < pq[j].id
}

func (pq nodePQ) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

func (pq *nodePQ) Push(x interface{}) { *pq = append(*pq, x.(nodeItem)) }

func (pq *nodePQ) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]

	return item
}
