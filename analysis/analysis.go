package analysis

import (
	"sort"

	"github.com/katalvlaran/allotment/network"
)

// Load is the outcome of one option.
type Load struct {
	Option    string `yaml:"option"`
	Allocated int64  `yaml:"allocated"`
	Capacity  int64  `yaml:"capacity"`
	// RankHits[i] counts participants placed here as their choice i+1.
	RankHits []int `yaml:"rank_hits"`
}

// Summary aggregates an assignment of one category.
type Summary struct {
	Participants int    `yaml:"participants"`
	Cost         int64  `yaml:"cost"`
	Loads        []Load `yaml:"loads"`
	// RankHits[i] counts participants who received their choice i+1.
	RankHits []int `yaml:"rank_hits"`
}

// Summarize derives per-option loads and rank histograms, options in
// capacity-table order.
func Summarize(n *network.Network, a *network.Assignment) Summary {
	ranks := n.Preferences().Longest()
	options := n.Options()
	index := make(map[string]int, len(options))
	s := Summary{
		Participants: a.Len(),
		Cost:         a.Cost(),
		Loads:        make([]Load, len(options)),
		RankHits:     make([]int, ranks),
	}
	for i, o := range options {
		index[o.ID] = i
		s.Loads[i] = Load{Option: o.ID, Capacity: o.Capacity, RankHits: make([]int, ranks)}
	}
	for _, p := range a.Participants() {
		c, ok := a.Choice(p)
		if !ok {
			continue
		}
		l := &s.Loads[index[c.Option]]
		l.Allocated++
		l.RankHits[c.Rank-1]++
		s.RankHits[c.Rank-1]++
	}

	return s
}

// Destination counts displaced participants by the option they received.
type Destination struct {
	Option string `yaml:"option"`
	Count  int    `yaml:"count"`
}

// Shortfall describes an option filled below the threshold while seats were left.
type Shortfall struct {
	Option    string `yaml:"option"`
	Allocated int64  `yaml:"allocated"`
	Capacity  int64  `yaml:"capacity"`
	// Interested lists everyone who ranked the option, in lexical order.
	Interested []string `yaml:"interested"`
	// Displaced lists the interested participants placed elsewhere.
	Displaced []string `yaml:"displaced"`
	// Achievable is false when every interested participant already sits here.
	Achievable bool `yaml:"achievable"`
	// Destinations groups Displaced by received option: count descending,
	// option id ascending on ties.
	Destinations []Destination `yaml:"destinations,omitempty"`
}

// UnderAllocated reports every option whose allocation is below threshold
// and below its capacity. Options are checked independently, in
// capacity-table order.
func UnderAllocated(n *network.Network, a *network.Assignment, threshold int64) []Shortfall {
	participants := n.Participants()

	var out []Shortfall
	for _, o := range n.Options() {
		allocated := a.Load(o.ID)
		if allocated >= threshold || allocated >= o.Capacity {
			continue
		}
		sf := Shortfall{Option: o.ID, Allocated: allocated, Capacity: o.Capacity}
		counts := make(map[string]int)
		for _, p := range participants {
			if n.Rank(p, o.ID) == 0 {
				continue
			}
			sf.Interested = append(sf.Interested, p)
			c, ok := a.Choice(p)
			if ok && c.Option != o.ID {
				sf.Displaced = append(sf.Displaced, p)
				counts[c.Option]++
			}
		}
		// Everyone interested is already here: nothing to gain.
		if int64(len(sf.Interested)) <= allocated {
			out = append(out, sf)
			continue
		}
		sf.Achievable = true
		for option, count := range counts {
			sf.Destinations = append(sf.Destinations, Destination{Option: option, Count: count})
		}
		sort.Slice(sf.Destinations, func(i, j int) bool {
			di, dj := sf.Destinations[i], sf.Destinations[j]
			if di.Count != dj.Count {
				return di.Count > dj.Count
			}
			return di.Option < dj.Option
		})
		out = append(out, sf)
	}

	return out
}
