// Package flow implements flow algorithms on networks represented by
// *core.Graph: edges carry an integral capacity and per-unit cost, vertices
// carry a demand (negative for supply).
//
// The key algorithms offered are:
//
//   - MinCostFlow
//
//   - Method: successive shortest paths with Johnson potentials; each round is a
//     binary-heap Dijkstra over reduced costs from an internal super source.
//
//   - Time:   O(F · (V + E) log V), where F is the total supply.
//
//   - Memory: O(V + E) for the residual arcs and Dijkstra state.
//
//   - Use to satisfy every demand exactly at minimum total cost.
//
//   - Dinic
//
//   - Method: level graph construction + blocking-flow via DFS.
//
//   - Time:   O(E · √V) on unit-capacity networks.
//
//   - Memory: O(V + E) for level map, adjacency slices, and recursion state.
//
//   - Use for plain s-t maximum flow and residual reachability.
//
//   - Saturate
//
//   - Method: Dinic between SuperSource and SuperSink attached to the demand
//     vertices of a copy of the graph.
//
//   - Use to ask how much of the supply can be routed at all, ignoring cost.
//
// # Integrality and determinism
//
// All capacities, costs and flows are int64, so every optimum returned is
// integral. MinCostFlow indexes vertices in ID order and scans arcs in edge
// insertion order; distance ties are broken by vertex index. The same graph
// always produces the same flow.
//
// # API
//
//	type Options struct {
//	    Ctx                  context.Context // cancellation / timeouts
//	    Logger               *slog.Logger    // Debug record per augmentation
//	    LevelRebuildInterval int             // Dinic only: rebuild level graph every N pushes
//	}
//
//	func MinCostFlow(g *core.Graph, opts Options) (*Result, error)
//	func Dinic(g *core.Graph, source, sink string, opts Options) (int64, *core.Graph, error)
//	func Saturate(g *core.Graph, opts Options) (*Saturation, error)
//
// # Errors
//
//	ErrNilGraph       - if g is nil.
//	ErrSourceNotFound - if the Dinic source vertex is missing.
//	ErrSinkNotFound   - if the Dinic sink vertex is missing.
//	ErrReservedVertex - if g already uses SuperSource or SuperSink.
//	ErrUnbalanced     - if total supply differs from total demand.
//	EdgeError         - if an edge has a negative cost.
//	*InfeasibleError  - wraps ErrInfeasible; not every supply unit could be routed.
//	context.Canceled / context.DeadlineExceeded - if opts.Ctx is canceled.
package flow
