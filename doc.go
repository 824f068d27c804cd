// Package allotment assigns participants to capacity-limited options by
// preference, one option per participant per category, using min-cost flow.
//
// Each category becomes a flow network: every participant supplies one unit,
// a preference edge to the k-th listed option costs the k-th entry of the
// category's cost table, every option drains into a collector that demands
// all units, and the option's capacity bounds that drain. A min-cost flow on
// this network is an assignment minimizing the total rank cost.
//
// Packages, bottom up:
//
//	core/         thread-safe directed multigraph with per-vertex demand
//	bfs/          capacity-aware breadth-first reachability over core graphs
//	flow/         min-cost flow (successive shortest paths) and Dinic max-flow
//	network/      builds a category's network and decodes assignments
//	advisor/      smallest capacity increases that restore feasibility
//	analysis/     loads, rank histograms and under-allocation checks
//	allocation/   runs several categories with a both-or-nothing result
//
// The allot command (cmd/allot) reads a TOML setup, CSV preference and
// capacity tables, and writes a results CSV and a YAML stats file.
//
// Solving is deterministic: for identical input every run returns the same
// assignment, with ties between equal-cost assignments resolved in favor of
// the lexically smaller participant id.
package allotment
