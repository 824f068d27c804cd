// Package bfs provides breadth-first search over the open edges of a
// core.Graph, returning hop distances and visit order.
package bfs

import (
	"context"
	"errors"
	"fmt"

	"github.com/katalvlaran/allotment/core"
)

// ErrNeighbors is returned when fetching out-edges from the graph fails.
var ErrNeighbors = errors.New("bfs: neighbor iteration error")

// queueItem pairs a vertex ID with its BFS depth.
type queueItem struct {
	id    string
	depth int
}

// walker encapsulates mutable BFS state.
type walker struct {
	graph *core.Graph
	ctx   context.Context
	queue []queueItem
	res   *BFSResult
}

// BFS runs breadth-first search on g starting from startID, following
// directed edges with positive capacity.
// Returns ErrGraphNil or ErrStartVertexNotFound for invalid input,
// ErrNeighbors for graph failures, or the context error on cancellation.
func BFS(g *core.Graph, startID string, opts ...Option) (*BFSResult, error) {
	if g == nil {
		return nil, ErrGraphNil
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if !g.HasVertex(startID) {
		return nil, ErrStartVertexNotFound
	}

	n := g.VertexCount()
	w := &walker{
		graph: g,
		ctx:   o.Ctx,
		queue: make([]queueItem, 0, n),
		res: &BFSResult{
			Order: make([]string, 0, n),
			Depth: make(map[string]int, n),
		},
	}
	w.enqueue(startID, 0)

	return w.res, w.loop()
}

// Reachable returns the set of vertices reachable from startID over open edges.
func Reachable(g *core.Graph, startID string, opts ...Option) (map[string]bool, error) {
	res, err := BFS(g, startID, opts...)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(res.Order))
	for _, id := range res.Order {
		seen[id] = true
	}

	return seen, nil
}

func (w *walker) enqueue(id string, d int) {
	w.res.Depth[id] = d
	w.queue = append(w.queue, queueItem{id: id, depth: d})
}

// loop processes the queue until empty, error, or cancellation.
func (w *walker) loop() error {
	for len(w.queue) > 0 {
		if err := w.ctx.Err(); err != nil {
			return err
		}

		item := w.queue[0]
		w.queue = w.queue[1:]
		w.res.Order = append(w.res.Order, item.id)
		if err := w.enqueueNeighbors(item); err != nil {
			return err
		}
	}

	return nil
}

// enqueueNeighbors walks out-edges in insertion order and enqueues each
// unseen head of a positive-capacity edge.
func (w *walker) enqueueNeighbors(item queueItem) error {
	out, err := w.graph.OutEdges(item.id)
	if err != nil {
		return fmt.Errorf("%w: failed to get out-edges of %q: %v", ErrNeighbors, item.id, err)
	}
	for _, e := range out {
		if e.Capacity <= 0 || w.res.Reached(e.To) {
			continue
		}
		w.enqueue(e.To, item.depth+1)
	}

	return nil
}
