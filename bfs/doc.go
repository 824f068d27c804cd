// Package bfs provides breadth-first search over a core.Graph, treating an
// edge as open while its capacity is positive.
//
// On a residual graph this answers "which vertices can still receive flow
// from here": saturated edges have capacity 0 and are not followed.
//
// Result
//
//   - Order: visit sequence
//   - Depth: map from vertex → distance (edges) from start
//
// Determinism
//
//	Out-edges are scanned in insertion order, so the visit sequence is
//	reproducible for a given graph.
//
// Complexity (V = |Vertices|, E = |Edges|)
//
//   - Time:   O(V + E)
//   - Memory: O(V)
//
// Usage
//
//	seen, err := bfs.Reachable(residual, flow.SuperSource, bfs.WithContext(ctx))
//
// Errors
//
//   - ErrGraphNil             if the graph pointer is nil.
//   - ErrStartVertexNotFound  if the start vertex does not exist.
//   - ErrNeighbors            if out-edge lookup fails.
//   - ctx.Err()               on cancellation.
package bfs
