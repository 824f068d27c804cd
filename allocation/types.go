package allocation

import (
	"errors"
	"fmt"
	"sort"

	"github.com/katalvlaran/allotment/advisor"
	"github.com/katalvlaran/allotment/analysis"
	"github.com/katalvlaran/allotment/flow"
	"github.com/katalvlaran/allotment/network"
)

var (
	// ErrNoResult is returned when at least one category is infeasible; no
	// category then yields an allocation.
	ErrNoResult = errors.New("allocation: no result")

	// ErrNoCategories is returned when Run is called without categories.
	ErrNoCategories = errors.New("allocation: no categories")

	// ErrDuplicateCategory is returned when two categories share a name.
	ErrDuplicateCategory = errors.New("allocation: duplicate category name")

	// ErrIllegalTransition is returned when a category would leave a terminal
	// state or move backwards.
	ErrIllegalTransition = errors.New("allocation: illegal state transition")
)

// Category is one independent allocation problem.
type Category struct {
	Name        string
	Preferences network.Preferences
	Capacities  network.Capacities
	Costs       network.CostTable
}

// State is the lifecycle position of a category within a run.
type State int

const (
	// StatePending means the category has not been built yet.
	StatePending State = iota
	// StateBuilt means the network exists but has not been solved.
	StateBuilt
	// StateSolved is terminal: an assignment exists.
	StateSolved
	// StateInfeasible is terminal: no assignment exists, and the run yields none.
	StateInfeasible
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateBuilt:
		return "built"
	case StateSolved:
		return "solved"
	case StateInfeasible:
		return "infeasible"
	default:
		return "unknown"
	}
}

// Outcome records what happened to one category.
type Outcome struct {
	Category string
	State    State

	Network    *network.Network
	Assignment *network.Assignment

	// Set once every category of the run is solved.
	Summary    *analysis.Summary
	Shortfalls []analysis.Shortfall

	// Set for StateInfeasible.
	Infeasible  *flow.InfeasibleError
	Suggestions []advisor.Suggestion
}

// transition moves o to next, refusing to leave a terminal state or go back.
func (o *Outcome) transition(next State) error {
	if o.State == StateSolved || o.State == StateInfeasible || next <= o.State {
		return fmt.Errorf("%w: %s → %s", ErrIllegalTransition, o.State, next)
	}
	o.State = next
	return nil
}

// Report is the result of a run.
type Report struct {
	RunID    string
	Outcomes []Outcome
}

// Solved reports whether every category reached StateSolved.
func (r *Report) Solved() bool {
	for _, o := range r.Outcomes {
		if o.State != StateSolved {
			return false
		}
	}
	return len(r.Outcomes) > 0
}

// Outcome returns the outcome of the named category.
func (r *Report) Outcome(name string) (Outcome, bool) {
	for _, o := range r.Outcomes {
		if o.Category == name {
			return o, true
		}
	}
	return Outcome{}, false
}

// Row is one participant's options, one per category in run order; empty
// where the participant had no preferences in that category.
type Row struct {
	Participant string
	Options     []string
}

// Rows lists every participant in lexical order with their assigned options.
// It returns nil unless the run is solved.
func (r *Report) Rows() []Row {
	if !r.Solved() {
		return nil
	}
	seen := make(map[string]bool)
	var ids []string
	for _, o := range r.Outcomes {
		for _, p := range o.Assignment.Participants() {
			if !seen[p] {
				seen[p] = true
				ids = append(ids, p)
			}
		}
	}
	sort.Strings(ids)

	rows := make([]Row, len(ids))
	for i, p := range ids {
		rows[i] = Row{Participant: p, Options: make([]string, len(r.Outcomes))}
		for j, o := range r.Outcomes {
			if c, ok := o.Assignment.Choice(p); ok {
				rows[i].Options[j] = c.Option
			}
		}
	}

	return rows
}
