// File: methods_adjacent.go
// Role: Neighborhood APIs (OutEdges, InEdges, NeighborIDs) and adjacency helpers.
// Determinism:
//   - OutEdges()/InEdges() return edges in insertion order.
//   - NeighborIDs() returns unique IDs sorted lex asc.
// Concurrency:
//   - Read operations hold muVert and muEdgeAdj read locks (in that order).
//   - Helpers are called only under the muEdgeAdj write lock by mutating code.

package core

import "sort"

// OutEdges returns the edges leaving id, in insertion order.
//
// Errors:
//   - ErrEmptyVertexID: if id == "".
//   - ErrVertexNotFound: if the vertex does not exist.
//
// Complexity: O(d log d).
func (g *Graph) OutEdges(id string) ([]*Edge, error) {
	return g.incident(id, true)
}

// InEdges returns the edges entering id, in insertion order.
//
// Errors: as OutEdges.
func (g *Graph) InEdges(id string) ([]*Edge, error) {
	return g.incident(id, false)
}

// NeighborIDs returns the unique heads of edges leaving id, sorted ascending.
//
// Complexity: O(d + k log k).
func (g *Graph) NeighborIDs(id string) ([]string, error) {
	edges, err := g.OutEdges(id)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(edges))
	ids := make([]string, 0, len(edges))
	for _, e := range edges {
		if _, ok := seen[e.To]; ok {
			continue
		}
		seen[e.To] = struct{}{}
		ids = append(ids, e.To)
	}
	sort.Strings(ids)

	return ids, nil
}

// incident collects out- or in-edges of id under read locks.
func (g *Graph) incident(id string, outgoing bool) ([]*Edge, error) {
	if id == "" {
		return nil, ErrEmptyVertexID
	}
	g.muVert.RLock()
	defer g.muVert.RUnlock()
	g.muEdgeAdj.RLock()
	defer g.muEdgeAdj.RUnlock()

	if _, ok := g.vertices[id]; !ok {
		return nil, ErrVertexNotFound
	}

	index := g.in
	if outgoing {
		index = g.out
	}
	var res []*Edge
	var eid string
	for _, set := range index[id] {
		for eid = range set {
			if e := g.edges[eid]; e != nil {
				res = append(res, e)
			}
		}
	}
	sortBySeq(res)

	return res, nil
}

// ensureBuckets creates the top-level out/in maps for id.
// Caller must hold muEdgeAdj write lock.
func ensureBuckets(g *Graph, id string) {
	if _, ok := g.out[id]; !ok {
		g.out[id] = make(map[string]map[string]struct{})
	}
	if _, ok := g.in[id]; !ok {
		g.in[id] = make(map[string]map[string]struct{})
	}
}

// linkEdge registers e in both adjacency indexes.
// Caller must hold muEdgeAdj write lock.
func linkEdge(g *Graph, e *Edge) {
	ensureBuckets(g, e.From)
	ensureBuckets(g, e.To)
	if _, ok := g.out[e.From][e.To]; !ok {
		g.out[e.From][e.To] = make(map[string]struct{})
	}
	if _, ok := g.in[e.To][e.From]; !ok {
		g.in[e.To][e.From] = make(map[string]struct{})
	}
	g.out[e.From][e.To][e.ID] = struct{}{}
	g.in[e.To][e.From][e.ID] = struct{}{}
}

// unlinkEdge removes e from both adjacency indexes, dropping empty buckets.
// A nil edge is ignored. Caller must hold muEdgeAdj write lock.
func unlinkEdge(g *Graph, e *Edge) {
	if e == nil {
		return
	}
	if set, ok := g.out[e.From][e.To]; ok {
		delete(set, e.ID)
		if len(set) == 0 {
			delete(g.out[e.From], e.To)
		}
	}
	if set, ok := g.in[e.To][e.From]; ok {
		delete(set, e.ID)
		if len(set) == 0 {
			delete(g.in[e.To], e.From)
		}
	}
}
