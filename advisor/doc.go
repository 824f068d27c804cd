// Package advisor explains infeasible categories by searching for capacity
// increases that would make them solvable.
//
// Suggest is the per-option linear probe: for each option in capacity-table
// order it raises that option alone by +1, +2, … up to the ceiling (99 by
// default), rebuilding and re-solving the network each time, and reports the
// first increment that works. Each option is judged in isolation; the result
// never says that two options raised together would suffice.
//
// SuggestJoint is a separate mode that answers the joint question with one
// solve: the fewest extra seats in total, and where to put them.
//
// Neither mode changes the inputs or the outcome of a run.
package advisor
