package flow

import (
	"context"
	"math"
	"sort"

	"github.com/katalvlaran/allotment/core"
)

// Dinic computes the maximum flow from `source` to `sink` in the directed,
// capacitated graph `g` using Dinic’s algorithm (level graph + blocking flows).
// Edge costs and vertex demands are ignored.
//
// It returns:
//   - maxFlow       : the total flow value
//   - residualGraph : a *core.Graph of remaining capacities (edge cost 0),
//     with the vertices and demands of g
//   - err           : ErrNilGraph, ErrSourceNotFound, ErrSinkNotFound,
//     or context cancellation error
//
// Steps:
//  1. Normalize options and capture context (O(1)).
//  2. Validate that `source` and `sink` exist in `g` (O(1)).
//  3. Build initial capacity map via buildCapMap (O(V + E)).
//  4. Repeat until no more augmenting paths:
//     a. Check for cancellation (O(1)).
//     b. BFS to build the level graph: distance from source for each vertex (O(V + E)).
//     c. If sink unreachable, break.
//     d. Build adjacency list `next` for edges in level graph, sorted by ID (O(E log d)).
//     e. DFS-based blocking flow pushes until none remains,
//     optionally rebuilding level graph every LevelRebuildInterval augmentations.
//  5. Construct final residual graph via buildCoreResidualFromCapMap (O(V + E_res)).
//
// Complexity:
//
//	Time:   O(V² · E) in general; O(E·√V) on unit‐capacity networks.
//	Memory: O(V + E) for capMap and auxiliary maps (level, next, iter).
func Dinic(
	g *core.Graph,
	source, sink string,
	opts Options,
) (maxFlow int64, residualGraph *core.Graph, err error) {
	// 1) Normalize options
	opts.normalize()
	ctx := opts.Ctx
	if g == nil {
		return 0, nil, ErrNilGraph
	}

	// 2) Validate presence of source and sink
	if !g.HasVertex(source) {
		return 0, nil, ErrSourceNotFound
	}
	if !g.HasVertex(sink) {
		return 0, nil, ErrSinkNotFound
	}

	// 3) capMap[u][v] = total capacity from u→v
	capMap, err := buildCapMap(ctx, g)
	if err != nil {
		return 0, nil, err
	}
	order := g.Vertices()

	// 4) Main loop: level graph + blocking flows
	augmentCount := 0
	for {
		if err = ctx.Err(); err != nil {
			return maxFlow, nil, err
		}

		// 4b) BFS to compute levels
		level := make(map[string]int, len(capMap))
		for u := range capMap {
			level[u] = -1
		}
		queue := []string{source}
		level[source] = 0
		for i := 0; i < len(queue); i++ {
			u := queue[i]
			for v, capUV := range capMap[u] {
				if capUV > 0 && level[v] < 0 {
					level[v] = level[u] + 1
					queue = append(queue, v)
				}
			}
		}
		// 4c) Sink unreachable in level graph: done
		if level[sink] < 0 {
			break
		}

		// 4d) next[u] = neighbors v at level+1, in ID order
		next := make(map[string][]string, len(capMap))
		for _, u := range order {
			for v, capUV := range capMap[u] {
				if capUV > 0 && level[v] == level[u]+1 {
					next[u] = append(next[u], v)
				}
			}
			sort.Strings(next[u])
		}

		// 4e) DFS‐based blocking flow
		iter := make(map[string]int, len(next))
		rebuild := false
		for !rebuild {
			if err = ctx.Err(); err != nil {
				return maxFlow, nil, err
			}
			pushed := dfsDinicPush(ctx, capMap, next, iter, source, sink, math.MaxInt64)
			if pushed == 0 {
				break
			}
			maxFlow += pushed
			augmentCount++
			opts.Logger.Debug("dinic: pushed", "units", pushed, "total", maxFlow)
			rebuild = opts.LevelRebuildInterval > 0 && augmentCount%opts.LevelRebuildInterval == 0
		}
	}

	// 5) Residual graph from capMap
	residualGraph, err = buildCoreResidualFromCapMap(capMap, g)
	if err != nil {
		return maxFlow, nil, err
	}

	return maxFlow, residualGraph, nil
}

// dfsDinicPush recursively pushes flow along the level graph.
// It respects cancellation via ctx, updates capMap in-place,
// and returns the amount actually sent.
func dfsDinicPush(
	ctx context.Context,
	capMap map[string]map[string]int64,
	next map[string][]string,
	iter map[string]int,
	u, sink string,
	available int64,
) int64 {
	if err := ctx.Err(); err != nil {
		return 0
	}
	if u == sink {
		return available
	}
	for i := iter[u]; i < len(next[u]); i++ {
		v := next[u][i]
		capUV := capMap[u][v]
		if capUV <= 0 {
			iter[u] = i + 1
			continue
		}
		send := available
		if capUV < send {
			send = capUV
		}
		pushed := dfsDinicPush(ctx, capMap, next, iter, v, sink, send)
		if pushed > 0 {
			capMap[u][v] -= pushed
			capMap[v][u] += pushed

			return pushed
		}
		// Dead end below v: never try it again in this phase.
		iter[u] = i + 1
	}

	return 0
}
