package flow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/katalvlaran/allotment/core"
)

// Reserved vertex IDs used for the internal super terminals of demand graphs.
const (
	SuperSource = "$source"
	SuperSink   = "$sink"
)

var (
	// ErrNilGraph is returned when a nil *core.Graph is passed.
	ErrNilGraph = errors.New("flow: graph is nil")

	// ErrSourceNotFound is returned when the specified source vertex is missing.
	ErrSourceNotFound = errors.New("flow: source vertex not found")

	// ErrSinkNotFound is returned when the specified sink vertex is missing.
	ErrSinkNotFound = errors.New("flow: sink vertex not found")

	// ErrReservedVertex is returned when a graph already uses SuperSource or SuperSink.
	ErrReservedVertex = errors.New("flow: reserved vertex id in graph")

	// ErrUnbalanced is returned when total supply differs from total demand.
	ErrUnbalanced = errors.New("flow: supply and demand do not balance")

	// ErrInfeasible is wrapped by InfeasibleError.
	ErrInfeasible = errors.New("flow: no feasible flow")
)

// EdgeError is returned when an edge has a negative cost.
type EdgeError struct {
	ID       string
	From, To string
	Cost     int64
}

func (e EdgeError) Error() string {
	return fmt.Sprintf("flow: negative cost on edge %s %q→%q: %d", e.ID, e.From, e.To, e.Cost)
}

// InfeasibleError reports that not every unit of supply could be routed.
// Graph is a snapshot of the network the solver was given.
type InfeasibleError struct {
	Graph    *core.Graph
	Required int64
	Routed   int64
}

func (e *InfeasibleError) Error() string {
	return fmt.Sprintf("flow: infeasible: routed %d of %d units", e.Routed, e.Required)
}

func (e *InfeasibleError) Unwrap() error { return ErrInfeasible }

// Shortfall is the number of supply units left unrouted.
func (e *InfeasibleError) Shortfall() int64 { return e.Required - e.Routed }

// Options configures the flow algorithms.
//   - Ctx: cancellation, checked once per augmentation (default Background).
//   - Logger: receives Debug records per augmentation (default discards).
//   - LevelRebuildInterval: for Dinic, rebuild level graph every N augmentations.
type Options struct {
	Ctx                  context.Context
	Logger               *slog.Logger
	LevelRebuildInterval int
}

// DefaultOptions returns production-safe defaults.
func DefaultOptions() Options {
	return Options{
		Ctx:    context.Background(),
		Logger: discardLogger,
	}
}

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// normalize fills unset fields with defaults.
func (o *Options) normalize() {
	if o.Ctx == nil {
		o.Ctx = context.Background()
	}
	if o.Logger == nil {
		o.Logger = discardLogger
	}
}

// EdgeFlow pairs an edge of the input graph with the flow it carries.
type EdgeFlow struct {
	Edge core.Edge
	Flow int64
}

// Result is an integral flow over the input graph.
type Result struct {
	// Value is the number of units routed from supplies to demands.
	Value int64
	// Cost is the sum of flow × cost over all edges.
	Cost int64

	edges []EdgeFlow
	index map[string]int
}

// EdgeFlow returns the flow on the edge with the given ID (0 if unknown).
func (r *Result) EdgeFlow(id string) int64 {
	if i, ok := r.index[id]; ok {
		return r.edges[i].Flow
	}

	return 0
}

// Edges returns every input edge with its flow, in edge insertion order.
func (r *Result) Edges() []EdgeFlow {
	out := make([]EdgeFlow, len(r.edges))
	copy(out, r.edges)

	return out
}

// Positive returns the edges carrying flow, in edge insertion order.
func (r *Result) Positive() []EdgeFlow {
	var out []EdgeFlow
	for _, ef := range r.edges {
		if ef.Flow > 0 {
			out = append(out, ef)
		}
	}

	return out
}
