package network

import (
	"fmt"
	"sort"
	"strings"

	"github.com/katalvlaran/allotment/core"
)

// Vertex naming. Prefixes keep participant and option ids from colliding.
const (
	participantPrefix = "p/"
	optionPrefix      = "o/"

	// Collector is the vertex absorbing one unit per participant.
	Collector = "collector"
)

// ParticipantVertex returns the vertex id of participant id.
func ParticipantVertex(id string) string { return participantPrefix + id }

// OptionVertex returns the vertex id of option id.
func OptionVertex(id string) string { return optionPrefix + id }

// BuildOption customizes Build.
type BuildOption func(*buildConfig)

type buildConfig struct {
	overflowCost int64
	overflow     bool
}

// WithOverflow adds, next to every option→collector edge, a parallel edge of
// capacity equal to the participant count and the given per-unit cost. Flow
// on it models seats beyond the option's capacity.
func WithOverflow(cost int64) BuildOption {
	return func(c *buildConfig) {
		c.overflow = true
		c.overflowCost = cost
	}
}

// Network is an immutable allocation flow network for one category.
type Network struct {
	graph        *core.Graph
	participants []string
	options      Capacities
	costs        CostTable
	overflowCost int64

	rank         map[string]map[string]int
	prefEdges    map[string][]string // participant → edge ids, rank order
	capEdges     map[string]string   // option → option→collector edge id
	overflowEdge map[string]string   // option → overflow edge id
}

// Build validates the inputs and constructs the flow network:
//
//   - vertex p/<id> per participant, demand −1, added in lexical id order;
//   - vertex o/<id> per option in table order, demand 0;
//   - vertex collector with demand equal to the participant count;
//   - edge p→o per listed option, capacity 1, cost costs[rank−1], in rank order;
//   - edge o→collector per option, capacity = option capacity, cost 0, even when
//     nobody lists the option.
//
// Inputs are copied; the returned Network shares nothing with the caller.
func Build(prefs Preferences, caps Capacities, costs CostTable, opts ...BuildOption) (*Network, error) {
	var cfg buildConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := validate(prefs, caps, costs); err != nil {
		return nil, err
	}

	participants := make([]string, 0, len(prefs))
	for id := range prefs {
		participants = append(participants, id)
	}
	sort.Strings(participants)

	var gopts []core.GraphOption
	if cfg.overflow {
		gopts = append(gopts, core.WithMultiEdges())
	}
	n := &Network{
		graph:        core.NewGraph(gopts...),
		participants: participants,
		options:      append(Capacities(nil), caps...),
		costs:        append(CostTable(nil), costs...),
		rank:         make(map[string]map[string]int, len(prefs)),
		prefEdges:    make(map[string][]string, len(prefs)),
		capEdges:     make(map[string]string, len(caps)),
	}

	g := n.graph
	for _, p := range participants {
		if err := g.SetDemand(ParticipantVertex(p), -1); err != nil {
			return nil, err
		}
	}
	for _, o := range caps {
		if err := g.AddVertex(OptionVertex(o.ID)); err != nil {
			return nil, err
		}
	}
	if err := g.SetDemand(Collector, int64(len(participants))); err != nil {
		return nil, err
	}

	for _, p := range participants {
		list := prefs[p]
		n.rank[p] = make(map[string]int, len(list))
		for i, o := range list {
			eid, err := g.AddEdge(ParticipantVertex(p), OptionVertex(o), 1, costs[i])
			if err != nil {
				return nil, err
			}
			n.rank[p][o] = i + 1
			n.prefEdges[p] = append(n.prefEdges[p], eid)
		}
	}
	for _, o := range caps {
		eid, err := g.AddEdge(OptionVertex(o.ID), Collector, o.Capacity, 0)
		if err != nil {
			return nil, err
		}
		n.capEdges[o.ID] = eid
	}
	if cfg.overflow {
		n.overflowCost = cfg.overflowCost
		n.overflowEdge = make(map[string]string, len(caps))
		for _, o := range caps {
			eid, err := g.AddEdge(OptionVertex(o.ID), Collector, int64(len(participants)), cfg.overflowCost)
			if err != nil {
				return nil, err
			}
			n.overflowEdge[o.ID] = eid
		}
	}

	return n, nil
}

// validate checks the inputs in a fixed order so the first reported error
// does not depend on map iteration.
func validate(prefs Preferences, caps Capacities, costs CostTable) error {
	ids := make([]string, 0, len(prefs))
	for id := range prefs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, p := range ids {
		if p == "" || len(prefs[p]) == 0 {
			return fmt.Errorf("%w: participant %q", ErrEmptyPreferences, p)
		}
	}

	known := make(map[string]bool, len(caps))
	for _, o := range caps {
		switch {
		case o.ID == "":
			return ErrEmptyOptionID
		case o.Capacity < 0:
			return fmt.Errorf("%w: option %q has %d", ErrNegativeCapacity, o.ID, o.Capacity)
		case known[o.ID]:
			return fmt.Errorf("%w: %q", ErrDuplicateOption, o.ID)
		}
		known[o.ID] = true
	}

	for i, c := range costs {
		if c < 0 {
			return fmt.Errorf("%w: rank %d costs %d", ErrNegativeCost, i+1, c)
		}
	}
	if longest := prefs.Longest(); longest > len(costs) {
		return &CostTableError{Ranks: longest, Costs: len(costs)}
	}

	for _, p := range ids {
		list := prefs[p]
		seen := make(map[string]bool, len(list))
		for _, o := range list {
			if !known[o] {
				return &UnknownOptionError{Participant: p, Option: o}
			}
			if seen[o] {
				return &DuplicatePreferenceError{Participant: p, Option: o}
			}
			seen[o] = true
		}
	}

	return nil
}

// Participants returns participant ids in lexical order.
func (n *Network) Participants() []string {
	return append([]string(nil), n.participants...)
}

// Options returns the capacity table the network was built from.
func (n *Network) Options() Capacities {
	return append(Capacities(nil), n.options...)
}

// CostTable returns the rank costs the network was built from.
func (n *Network) CostTable() CostTable {
	return append(CostTable(nil), n.costs...)
}

// Graph returns a deep copy of the underlying flow graph.
func (n *Network) Graph() *core.Graph {
	return n.graph.Clone()
}

// Rank returns the 1-based rank of option in participant's list, or 0.
func (n *Network) Rank(participant, option string) int {
	return n.rank[participant][option]
}

// Overflow reports whether the network carries overflow edges and their cost.
func (n *Network) Overflow() (cost int64, ok bool) {
	return n.overflowCost, n.overflowEdge != nil
}

// Preferences re-derives the preference lists from the participant edges.
func (n *Network) Preferences() Preferences {
	prefs := make(Preferences, len(n.participants))
	for _, p := range n.participants {
		out, err := n.graph.OutEdges(ParticipantVertex(p))
		if err != nil {
			continue
		}
		list := make([]string, 0, len(out))
		for _, e := range out {
			list = append(list, strings.TrimPrefix(e.To, optionPrefix))
		}
		prefs[p] = list
	}

	return prefs
}

// Capacities re-derives the capacity table from the collector's in-edges.
// Overflow edges are not capacity and are skipped.
func (n *Network) Capacities() Capacities {
	in, err := n.graph.InEdges(Collector)
	if err != nil {
		return nil
	}
	overflow := make(map[string]bool, len(n.overflowEdge))
	for _, eid := range n.overflowEdge {
		overflow[eid] = true
	}
	caps := make(Capacities, 0, len(in))
	for _, e := range in {
		if overflow[e.ID] {
			continue
		}
		caps = append(caps, Option{ID: strings.TrimPrefix(e.From, optionPrefix), Capacity: e.Capacity})
	}

	return caps
}
