package advisor_test

import (
	"context"
	"fmt"

	"github.com/katalvlaran/allotment/advisor"
	"github.com/katalvlaran/allotment/network"
)

func ExampleAdvisor_Suggest() {
	prefs := network.Preferences{
		"ann": {"pottery"},
		"ben": {"pottery"},
		"cat": {"pottery", "chess"},
	}
	caps := network.Capacities{{ID: "pottery", Capacity: 1}, {ID: "chess", Capacity: 1}}

	suggestions, err := advisor.New().Suggest(context.Background(), prefs, caps, network.CostTable{1, 2})
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, s := range suggestions {
		fmt.Printf("%s +%d\n", s.Option, s.Increment)
	}
	// Output:
	// pottery +1
}
