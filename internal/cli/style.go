package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/katalvlaran/allotment/advisor"
	"github.com/katalvlaran/allotment/allocation"
)

var (
	colorPass  = lipgloss.AdaptiveColor{Light: "#4b8b3b", Dark: "#aad94c"}
	colorWarn  = lipgloss.AdaptiveColor{Light: "#b07d00", Dark: "#ffb454"}
	colorFail  = lipgloss.AdaptiveColor{Light: "#c4302b", Dark: "#f07178"}
	colorMuted = lipgloss.AdaptiveColor{Light: "#828c99", Dark: "#5c6773"}

	titleStyle = lipgloss.NewStyle().Bold(true)
	passStyle  = lipgloss.NewStyle().Foreground(colorPass)
	warnStyle  = lipgloss.NewStyle().Foreground(colorWarn)
	failStyle  = lipgloss.NewStyle().Foreground(colorFail).Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	blockStyle = lipgloss.NewStyle().PaddingLeft(2)
)

var titleCase = cases.Title(language.English)

// renderReport writes a human summary of a run.
func renderReport(w io.Writer, r *allocation.Report) {
	fmt.Fprintln(w, dimStyle.Render("run "+r.RunID))
	for _, o := range r.Outcomes {
		var lines []string
		switch o.State {
		case allocation.StateSolved:
			head := titleStyle.Render(titleCase.String(o.Category)) + " " + passStyle.Render(o.State.String())
			if o.Summary == nil {
				fmt.Fprintln(w, head)
				continue
			}
			head += dimStyle.Render(fmt.Sprintf("  cost %d, ranks %s", o.Summary.Cost, hits(o.Summary.RankHits)))
			lines = append(lines, head)
			for _, l := range o.Summary.Loads {
				lines = append(lines, blockStyle.Render(fmt.Sprintf("%-20s %d/%d", l.Option, l.Allocated, l.Capacity)))
			}
			for _, s := range o.Shortfalls {
				verdict := "not achievable"
				if s.Achievable {
					verdict = fmt.Sprintf("achievable, %d displaced", len(s.Displaced))
				}
				lines = append(lines, blockStyle.Render(warnStyle.Render(
					fmt.Sprintf("%s under-allocated (%d): %s", s.Option, s.Allocated, verdict))))
			}
		case allocation.StateInfeasible:
			lines = append(lines, titleStyle.Render(titleCase.String(o.Category))+" "+failStyle.Render(o.State.String())+
				dimStyle.Render(fmt.Sprintf("  %d of %d placed", o.Infeasible.Routed, o.Infeasible.Required)))
			lines = append(lines, renderSuggestions(o.Suggestions, false)...)
		default:
			lines = append(lines, titleStyle.Render(titleCase.String(o.Category))+" "+dimStyle.Render(o.State.String()))
		}
		fmt.Fprintln(w, lipgloss.JoinVertical(lipgloss.Left, lines...))
	}
}

// renderSuggestions lists capacity increases; joint selects the wording for
// a combined remedy.
func renderSuggestions(s []advisor.Suggestion, joint bool) []string {
	if len(s) == 0 {
		msg := "no single-option increase up to the ceiling restores feasibility"
		if joint {
			msg = "no combination of capacity increases restores feasibility"
		}
		return []string{blockStyle.Render(warnStyle.Render(msg))}
	}
	out := make([]string, len(s))
	for i, sg := range s {
		out[i] = blockStyle.Render(fmt.Sprintf("raise %s by %d", sg.Option, sg.Increment))
	}
	return out
}

func hits(h []int) string {
	parts := make([]string, len(h))
	for i, n := range h {
		parts[i] = fmt.Sprintf("%d:%d", i+1, n)
	}
	return strings.Join(parts, " ")
}
