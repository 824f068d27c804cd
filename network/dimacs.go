package network

import (
	"bufio"
	"fmt"
	"io"
)

// WriteDIMACS writes the network as a DIMACS minimum-cost flow problem:
//
//	c <comment>
//	p min NODES ARCS
//	n ID FLOW          supply is positive, demand negative; zero nodes omitted
//	a SRC DST LOW CAP COST
//
// Nodes are numbered from 1 in the graph's vertex order; a "c node ID NAME"
// comment maps every number back to its vertex. Arcs follow edge insertion
// order with lower bound 0.
func (n *Network) WriteDIMACS(w io.Writer) error {
	bw := bufio.NewWriter(w)
	vertices := n.graph.Vertices()
	edges := n.graph.Edges()

	index := make(map[string]int, len(vertices))
	fmt.Fprintf(bw, "c allotment network: %d participants, %d options\n", len(n.participants), len(n.options))
	for i, id := range vertices {
		index[id] = i + 1
		fmt.Fprintf(bw, "c node %d %s\n", i+1, id)
	}
	fmt.Fprintf(bw, "p min %d %d\n", len(vertices), len(edges))
	for _, id := range vertices {
		d, err := n.graph.Demand(id)
		if err != nil {
			return err
		}
		if d != 0 {
			fmt.Fprintf(bw, "n %d %d\n", index[id], -d)
		}
	}
	for _, e := range edges {
		fmt.Fprintf(bw, "a %d %d 0 %d %d\n", index[e.From], index[e.To], e.Capacity, e.Cost)
	}

	return bw.Flush()
}
