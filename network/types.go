package network

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyPreferences is returned for an empty participant id or an empty preference list.
	ErrEmptyPreferences = errors.New("network: empty preference list")

	// ErrEmptyOptionID is returned when the capacity table contains an empty option id.
	ErrEmptyOptionID = errors.New("network: empty option id")

	// ErrNegativeCapacity is returned when an option capacity is below zero.
	ErrNegativeCapacity = errors.New("network: negative capacity")

	// ErrDuplicateOption is returned when an option appears twice in the capacity table.
	ErrDuplicateOption = errors.New("network: duplicate option in capacity table")

	// ErrNegativeCost is returned when the cost table holds a negative entry.
	ErrNegativeCost = errors.New("network: negative cost")

	// ErrCostTableTooShort is wrapped by CostTableError.
	ErrCostTableTooShort = errors.New("network: cost table shorter than preference list")

	// ErrUnknownOption is wrapped by UnknownOptionError.
	ErrUnknownOption = errors.New("network: unknown option")

	// ErrDuplicatePreference is wrapped by DuplicatePreferenceError.
	ErrDuplicatePreference = errors.New("network: option listed twice")

	// ErrEngineInvariant is wrapped by InvariantError.
	ErrEngineInvariant = errors.New("network: engine invariant violated")
)

// UnknownOptionError reports a preference naming an option that has no capacity.
// It is a data-contract violation and aborts the run.
type UnknownOptionError struct {
	Participant string
	Option      string
}

func (e *UnknownOptionError) Error() string {
	return fmt.Sprintf("network: participant %q prefers unknown option %q", e.Participant, e.Option)
}

func (e *UnknownOptionError) Unwrap() error { return ErrUnknownOption }

// CostTableError reports a cost table with fewer entries than the longest list.
type CostTableError struct {
	Ranks int
	Costs int
}

func (e *CostTableError) Error() string {
	return fmt.Sprintf("network: %d ranks but only %d costs", e.Ranks, e.Costs)
}

func (e *CostTableError) Unwrap() error { return ErrCostTableTooShort }

// DuplicatePreferenceError reports an option repeated within one list.
type DuplicatePreferenceError struct {
	Participant string
	Option      string
}

func (e *DuplicatePreferenceError) Error() string {
	return fmt.Sprintf("network: participant %q lists option %q more than once", e.Participant, e.Option)
}

func (e *DuplicatePreferenceError) Unwrap() error { return ErrDuplicatePreference }

// InvariantError reports a solver flow that does not decompose into one
// option per participant. It is a defect, never a data condition.
type InvariantError struct {
	Participant string
	Units       int64
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("network: participant %q carries %d units of flow, want 1", e.Participant, e.Units)
}

func (e *InvariantError) Unwrap() error { return ErrEngineInvariant }

// Preferences maps a participant id to its ranked option ids (rank 1 first).
type Preferences map[string][]string

// Clone returns a deep copy.
func (p Preferences) Clone() Preferences {
	out := make(Preferences, len(p))
	for id, list := range p {
		out[id] = append([]string(nil), list...)
	}

	return out
}

// Longest returns the length of the longest preference list.
func (p Preferences) Longest() int {
	n := 0
	for _, list := range p {
		if len(list) > n {
			n = len(list)
		}
	}

	return n
}

// Option is a capacity-limited slot of a category.
type Option struct {
	ID       string `yaml:"id"`
	Capacity int64  `yaml:"capacity"`
}

// Capacities is the ordered capacity table of a category. Table order is
// the order options are reported and probed in.
type Capacities []Option

// Lookup returns the capacity of id.
func (c Capacities) Lookup(id string) (int64, bool) {
	for _, o := range c {
		if o.ID == id {
			return o.Capacity, true
		}
	}

	return 0, false
}

// IDs returns the option ids in table order.
func (c Capacities) IDs() []string {
	ids := make([]string, len(c))
	for i, o := range c {
		ids[i] = o.ID
	}

	return ids
}

// Total returns the sum of all capacities.
func (c Capacities) Total() int64 {
	var sum int64
	for _, o := range c {
		sum += o.Capacity
	}

	return sum
}

// With returns a copy of c with the capacity of option replaced.
// c itself is never modified; an absent option leaves the copy unchanged.
func (c Capacities) With(option string, capacity int64) Capacities {
	out := append(Capacities(nil), c...)
	for i := range out {
		if out[i].ID == option {
			out[i].Capacity = capacity
		}
	}

	return out
}

// CostTable holds the cost of each preference rank; index 0 is rank 1.
type CostTable []int64

// Choice is the option a participant received and its rank (1-based) in the
// participant's list.
type Choice struct {
	Option string
	Rank   int
}
