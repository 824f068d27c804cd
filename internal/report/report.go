// Package report renders run statistics as YAML and writes output files
// under an advisory file lock.
package report

import (
	"errors"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/allotment/advisor"
	"github.com/katalvlaran/allotment/allocation"
	"github.com/katalvlaran/allotment/analysis"
)

// Stats is the document written to the stats file.
type Stats struct {
	RunID      string     `yaml:"run_id"`
	Created    time.Time  `yaml:"created"`
	Solved     bool       `yaml:"solved"`
	Categories []Category `yaml:"categories"`
}

// Category holds the statistics of one category.
type Category struct {
	Name       string               `yaml:"name"`
	State      string               `yaml:"state"`
	Costs      []int64              `yaml:"costs"`
	Summary    *analysis.Summary    `yaml:"summary,omitempty"`
	Shortfalls []analysis.Shortfall `yaml:"shortfalls,omitempty"`

	// Infeasible categories only.
	Required    int64                `yaml:"required,omitempty"`
	Routed      int64                `yaml:"routed,omitempty"`
	Suggestions []advisor.Suggestion `yaml:"suggestions,omitempty"`
}

// FromRun collects the statistics of a finished run.
func FromRun(r *allocation.Report, created time.Time) Stats {
	s := Stats{RunID: r.RunID, Created: created.UTC(), Solved: r.Solved()}
	for _, o := range r.Outcomes {
		c := Category{
			Name:        o.Category,
			State:       o.State.String(),
			Summary:     o.Summary,
			Shortfalls:  o.Shortfalls,
			Suggestions: o.Suggestions,
		}
		if o.Network != nil {
			c.Costs = o.Network.CostTable()
		}
		if o.Infeasible != nil {
			c.Required, c.Routed = o.Infeasible.Required, o.Infeasible.Routed
		}
		s.Categories = append(s.Categories, c)
	}

	return s
}

// Encode writes s as a YAML document.
func Encode(w io.Writer, s Stats) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("report: encoding stats: %w", err)
	}

	return enc.Close()
}

// Decode reads a stats document back.
func Decode(r io.Reader) (Stats, error) {
	var s Stats
	if err := yaml.NewDecoder(r).Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return Stats{}, fmt.Errorf("report: decoding stats: %w", err)
	}

	return s, nil
}
