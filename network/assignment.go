package network

import (
	"strings"

	"github.com/katalvlaran/allotment/flow"
)

// Assignment maps every participant to exactly one option of a category.
// It is derived from the positive-flow edges of a solved network and never
// changes afterwards.
type Assignment struct {
	choices      map[string]Choice
	participants []string
	loads        map[string]int64
	overflow     map[string]int64
	cost         int64
}

// Solve runs the min-cost flow solver on the network and extracts the
// assignment. Solver errors, *flow.InfeasibleError included, are returned
// unchanged; a flow that does not decompose into one unit per participant
// yields an *InvariantError.
func (n *Network) Solve(opts flow.Options) (*Assignment, error) {
	res, err := flow.MinCostFlow(n.graph, opts)
	if err != nil {
		return nil, err
	}

	return n.Assign(res)
}

// Assign extracts the assignment carried by a flow over this network.
//
// Every participant must emit exactly one unit, on exactly one preference
// edge; anything else is an engine defect reported as *InvariantError.
func (n *Network) Assign(res *flow.Result) (*Assignment, error) {
	a := &Assignment{
		choices:      make(map[string]Choice, len(n.participants)),
		participants: append([]string(nil), n.participants...),
		loads:        make(map[string]int64, len(n.options)),
		overflow:     make(map[string]int64, len(n.overflowEdge)),
	}
	for _, p := range n.participants {
		var units int64
		for i, eid := range n.prefEdges[p] {
			f := res.EdgeFlow(eid)
			if f < 0 || f > 1 {
				return nil, &InvariantError{Participant: p, Units: f}
			}
			if f == 0 {
				continue
			}
			units += f
			e, err := n.graph.GetEdge(eid)
			if err != nil {
				return nil, err
			}
			option := strings.TrimPrefix(e.To, optionPrefix)
			a.choices[p] = Choice{Option: option, Rank: i + 1}
			a.loads[option]++
			a.cost += e.Cost
		}
		if units != 1 {
			return nil, &InvariantError{Participant: p, Units: units}
		}
	}
	for option, eid := range n.overflowEdge {
		if f := res.EdgeFlow(eid); f > 0 {
			a.overflow[option] = f
		}
	}

	return a, nil
}

// Choice returns what participant received.
func (a *Assignment) Choice(participant string) (Choice, bool) {
	c, ok := a.choices[participant]
	return c, ok
}

// Participants returns the assigned participants in lexical order.
func (a *Assignment) Participants() []string {
	return append([]string(nil), a.participants...)
}

// Len is the number of assigned participants.
func (a *Assignment) Len() int { return len(a.participants) }

// Load is the number of participants assigned to option.
func (a *Assignment) Load(option string) int64 { return a.loads[option] }

// Overflow is the number of seats above capacity used on option
// (non-zero only for networks built WithOverflow).
func (a *Assignment) Overflow(option string) int64 { return a.overflow[option] }

// Cost is the total preference cost of the assignment, overflow excluded.
func (a *Assignment) Cost() int64 { return a.cost }
