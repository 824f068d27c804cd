// Package allocation runs a whole allocation: every category is built and
// solved on its own, infeasible categories are explained by the advisor, and
// only when every category is solved are the assignments analyzed and
// reported.
//
// Per category:
//
//	Pending → Built → Solved
//	                ↘ Infeasible
//
// Solved and Infeasible are terminal. One Infeasible category leaves the
// whole run without a result.
package allocation
