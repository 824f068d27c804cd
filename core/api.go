// SPDX-License-Identifier: MIT
//
// File: api.go
// Role: Thin, deterministic public facade exposing read-only getters and summaries.
// Policy:
//   - No algorithms or hidden state here.
//   - Concurrency model and invariants are defined in types.go/doc.go.

package core

// Looped reports whether self-loops (from==to) are permitted by policy.
func (g *Graph) Looped() bool {
	g.muVert.RLock()
	defer g.muVert.RUnlock()

	return g.allowLoops
}

// Multigraph reports whether parallel edges between the same endpoints are permitted.
func (g *Graph) Multigraph() bool {
	g.muVert.RLock()
	defer g.muVert.RUnlock()

	return g.allowMulti
}

// GraphStats is a read-only snapshot of catalog sizes and flow totals.
type GraphStats struct {
	VertexCount int
	EdgeCount   int

	// Supply is the sum of -Demand over vertices with negative demand.
	Supply int64
	// Demand is the sum of Demand over vertices with positive demand.
	Demand int64
	// Capacity is the sum of all edge capacities.
	Capacity int64
}

// Balanced reports whether total supply equals total demand.
func (s GraphStats) Balanced() bool { return s.Supply == s.Demand }

// Stats produces a deterministic snapshot of counts and totals.
//
// Implementation:
//   - Stage 1: Acquire muVert.RLock, sum demands, then release.
//   - Stage 2: Acquire muEdgeAdj.RLock, sum capacities, then release.
//
// Complexity:
//   - Time O(V+E), Space O(1).
func (g *Graph) Stats() GraphStats {
	var stats GraphStats

	g.muVert.RLock()
	stats.VertexCount = len(g.vertices)
	for _, v := range g.vertices {
		switch {
		case v.Demand < 0:
			stats.Supply -= v.Demand
		case v.Demand > 0:
			stats.Demand += v.Demand
		}
	}
	g.muVert.RUnlock()

	g.muEdgeAdj.RLock()
	stats.EdgeCount = len(g.edges)
	for _, e := range g.edges {
		stats.Capacity += e.Capacity
	}
	g.muEdgeAdj.RUnlock()

	return stats
}
