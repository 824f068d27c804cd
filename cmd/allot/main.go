/*
allot assigns participants to capacity-limited options, one option per
category, minimizing the total cost of the ranks they receive.

Usage:

	allot [--config setup.toml] <command>

Commands:

	allot run                       Allocate and write results and stats
	allot advise [--joint]          Suggest capacity increases
	allot dimacs --category NAME    Export a category's flow network
	allot version                   Print version information
*/
package main

import (
	"os"

	"github.com/katalvlaran/allotment/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
