// Package core provides a thread-safe in-memory flow network: a directed graph
// whose vertices carry a demand and whose edges carry a capacity and a per-unit
// cost.
//
// The Graph G = (V,E) supports:
//
//   - Supply/demand vertices: SetDemand(id, d) with d < 0 for supplies.
//   - Capacitated, costed arcs: AddEdge(from, to, capacity, cost).
//   - Parallel edges (WithMultiEdges) and self-loops (WithLoops), off by default.
//   - Constant-time edge operations via nested maps, indexed both ways:
//     out[from][to][edgeID] and in[to][from][edgeID].
//   - Collision-free atomic Edge.ID generation (“e1”, “e2”, …).
//   - Separate sync.RWMutex for vertices (muVert) and edges+adjacency (muEdgeAdj).
//
// Determinism:
//
//	Vertices() is sorted by ID; Edges(), OutEdges() and InEdges() follow
//	insertion order. Algorithms built on top rely on this to produce the same
//	answer for the same input.
//
// Core Methods:
//
//	AddVertex(id string) error
//	SetDemand(id string, demand int64) error
//	Demand(id string) (int64, error)
//	RemoveVertex(id string) error
//	AddEdge(from, to string, capacity, cost int64) (edgeID string, err error)
//	RemoveEdge(edgeID string) error
//	GetEdge(edgeID string) (Edge, error)
//	OutEdges(id) / InEdges(id) ([]*Edge, error)
//	NeighborIDs(id string) ([]string, error)
//	Stats() GraphStats
//	Clone() / CloneEmpty() *Graph
//
// Errors:
//
//	ErrEmptyVertexID, ErrVertexNotFound, ErrEdgeNotFound,
//	ErrNegativeCapacity, ErrLoopNotAllowed, ErrMultiEdgeNotAllowed.
package core
