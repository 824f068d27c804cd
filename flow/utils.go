package flow

import (
	"context"
	"fmt"
	"sort"

	"github.com/katalvlaran/allotment/core"
)

// buildCapMap constructs a nested map representing the residual capacities
// of graph `g`, aggregating parallel edges and ignoring loops.
//
// The returned capMap has structure: capMap[u][v] = total capacity from u → v
// after summing all parallel edges in `g`. Every edge also gets a zero reverse
// entry capMap[v][u] so pushes never allocate.
//
// Complexity:
//
//	Time:   O(V + E).
//	Memory: O(V + E).
func buildCapMap(ctx context.Context, g *core.Graph) (map[string]map[string]int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	vertices := g.Vertices()
	capMap := make(map[string]map[string]int64, len(vertices))
	for _, u := range vertices {
		capMap[u] = make(map[string]int64)
	}

	for _, e := range g.Edges() {
		if e.From == e.To {
			continue
		}
		capMap[e.From][e.To] += e.Capacity
		if _, ok := capMap[e.To][e.From]; !ok {
			capMap[e.To][e.From] = 0
		}
	}

	return capMap, nil
}

// buildCoreResidualFromCapMap constructs a new *core.Graph (residual graph)
// from capMap. CloneEmpty copies vertices, demands and configuration flags;
// one edge u→v of cost 0 is added per positive entry, in (u, v) ID order.
//
// Complexity:
//
//	Time:   O(V + E_res log d).
//	Memory: O(V + E_res).
func buildCoreResidualFromCapMap(
	capMap map[string]map[string]int64,
	g *core.Graph,
) (*core.Graph, error) {
	residual := g.CloneEmpty()
	for _, u := range residual.Vertices() {
		targets := make([]string, 0, len(capMap[u]))
		for v, capUV := range capMap[u] {
			if capUV > 0 {
				targets = append(targets, v)
			}
		}
		sort.Strings(targets)
		for _, v := range targets {
			if _, err := residual.AddEdge(u, v, capMap[u][v], 0); err != nil {
				return nil, err
			}
		}
	}

	return residual, nil
}

// Saturation is the outcome of Saturate.
type Saturation struct {
	// Value is the maximum number of supply units that can reach a demand.
	Value int64
	// Required is the total supply of the graph.
	Required int64
	// Residual is the Dinic residual graph, including SuperSource and SuperSink.
	Residual *core.Graph
}

// Feasible reports whether every unit of supply can be routed.
func (s *Saturation) Feasible() bool { return s.Value == s.Required }

// Saturate computes the maximum flow between the super terminals of a demand
// graph: SuperSource feeds every supply vertex up to its supply and every
// demand vertex drains into SuperSink up to its demand. Costs are ignored.
//
// g is not modified. Returns ErrNilGraph, ErrReservedVertex or a context error.
func Saturate(g *core.Graph, opts Options) (*Saturation, error) {
	opts.normalize()
	if g == nil {
		return nil, ErrNilGraph
	}

	work := g.Clone()
	ids := work.Vertices()
	for _, id := range ids {
		if id == SuperSource || id == SuperSink {
			return nil, fmt.Errorf("%w: %q", ErrReservedVertex, id)
		}
	}
	if err := work.AddVertex(SuperSource); err != nil {
		return nil, err
	}
	if err := work.AddVertex(SuperSink); err != nil {
		return nil, err
	}

	var required int64
	for _, id := range ids {
		d, err := work.Demand(id)
		if err != nil {
			return nil, err
		}
		switch {
		case d < 0:
			required -= d
			_, err = work.AddEdge(SuperSource, id, -d, 0)
		case d > 0:
			_, err = work.AddEdge(id, SuperSink, d, 0)
		}
		if err != nil {
			return nil, err
		}
	}

	value, residual, err := Dinic(work, SuperSource, SuperSink, opts)
	if err != nil {
		return nil, err
	}
	opts.Logger.Debug("flow: saturated", "value", value, "required", required)

	return &Saturation{Value: value, Required: required, Residual: residual}, nil
}
