// Package network turns one category's preferences, capacity table and rank
// costs into a min-cost flow network and reads assignments back out of it.
//
// Layout
//
//	p/<participant>  demand −1    ──cap 1, cost costs[rank−1]──▶  o/<option>
//	o/<option>                     ──cap capacity, cost 0──────▶  collector
//	collector        demand = number of participants
//
// Every option in the capacity table gets its collector edge, listed or not.
// With WithOverflow a second, costly option→collector edge per option lets
// the solver exceed capacities; the flow on those edges is the extra seats
// needed (see the advisor package).
//
// Errors
//
//	ErrEmptyPreferences, ErrEmptyOptionID, ErrNegativeCapacity,
//	ErrDuplicateOption, ErrNegativeCost, *CostTableError,
//	*UnknownOptionError, *DuplicatePreferenceError  - from Build, before any graph exists.
//	*InvariantError                                  - from Assign/Solve; an engine defect.
//
// A Network is immutable after Build and safe for concurrent reads.
package network
