package network_test

import (
	"fmt"
	"os"

	"github.com/katalvlaran/allotment/flow"
	"github.com/katalvlaran/allotment/network"
)

// ExampleBuild seats two participants when both want the same one-seat option.
func ExampleBuild() {
	n, err := network.Build(
		network.Preferences{"amy": {"x", "y"}, "bob": {"x"}},
		network.Capacities{{ID: "x", Capacity: 1}, {ID: "y", Capacity: 1}},
		network.CostTable{1, 2},
	)
	if err != nil {
		fmt.Println(err)
		return
	}
	a, err := n.Solve(flow.DefaultOptions())
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, p := range a.Participants() {
		c, _ := a.Choice(p)
		fmt.Printf("%s: %s (rank %d)\n", p, c.Option, c.Rank)
	}
	fmt.Println("cost:", a.Cost())
	// Output:
	// amy: y (rank 2)
	// bob: x (rank 1)
	// cost: 3
}

func ExampleNetwork_WriteDIMACS() {
	n, _ := network.Build(
		network.Preferences{"amy": {"x", "y"}, "bob": {"x"}},
		network.Capacities{{ID: "x", Capacity: 1}, {ID: "y", Capacity: 1}},
		network.CostTable{1, 2},
	)
	_ = n.WriteDIMACS(os.Stdout)
	// Output:
	// c allotment network: 2 participants, 2 options
	// c node 1 collector
	// c node 2 o/x
	// c node 3 o/y
	// c node 4 p/amy
	// c node 5 p/bob
	// p min 5 5
	// n 1 -2
	// n 4 1
	// n 5 1
	// a 4 2 0 1 1
	// a 4 3 0 1 2
	// a 5 2 0 1 1
	// a 2 1 0 1 0
	// a 3 1 0 1 0
}
