package advisor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/allotment/bfs"
	"github.com/katalvlaran/allotment/flow"
	"github.com/katalvlaran/allotment/network"
)

// DefaultCeiling is the largest capacity increment probed per option.
const DefaultCeiling = 99

// ErrFeasible is returned when the base network already has a feasible flow.
var ErrFeasible = errors.New("advisor: network is already feasible")

// Suggestion says that raising Option's capacity by Increment restores feasibility.
type Suggestion struct {
	Option    string `yaml:"option"`
	Increment int64  `yaml:"increment"`
}

// Advisor searches for capacity increases that make an infeasible category
// solvable. It never modifies its inputs.
type Advisor struct {
	ceiling int64
	workers int
	logger  *slog.Logger
	solver  flow.Options
}

// Option configures an Advisor.
type Option func(*Advisor)

// WithCeiling sets the largest increment probed per option (values < 1 are ignored).
func WithCeiling(n int64) Option {
	return func(a *Advisor) {
		if n > 0 {
			a.ceiling = n
		}
	}
}

// WithWorkers sets how many options are probed in parallel (values < 1 are ignored).
func WithWorkers(n int) Option {
	return func(a *Advisor) {
		if n > 0 {
			a.workers = n
		}
	}
}

// WithLogger sets the logger for probe progress.
func WithLogger(l *slog.Logger) Option {
	return func(a *Advisor) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithSolverOptions sets the options passed to every solve. Ctx is replaced
// by the context given to Suggest; a nil Logger inherits the advisor logger.
func WithSolverOptions(o flow.Options) Option {
	return func(a *Advisor) { a.solver = o }
}

// New returns an Advisor probing up to DefaultCeiling, one option at a time.
func New(opts ...Option) *Advisor {
	a := &Advisor{
		ceiling: DefaultCeiling,
		workers: 1,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Ceiling returns the configured probe ceiling.
func (a *Advisor) Ceiling() int64 { return a.ceiling }

// Suggest probes, for every option in table order and independently of the
// others, the increments 1..ceiling and reports the first one under which the
// category becomes feasible. Options with no such increment are omitted.
//
// Options unreachable from the super source in the max-flow residual of the
// base network are skipped: the minimum cut does not cross their collector
// edge, so no increment on them can raise the flow.
//
// Returns ErrFeasible when the base network is feasible, and build errors
// (e.g. *network.UnknownOptionError) unchanged.
func (a *Advisor) Suggest(ctx context.Context, prefs network.Preferences, caps network.Capacities, costs network.CostTable) ([]Suggestion, error) {
	base, err := a.checkInfeasible(ctx, prefs, caps, costs)
	if err != nil {
		return nil, err
	}

	sat, err := flow.Saturate(base.Graph(), a.solverOptions(ctx))
	if err != nil {
		return nil, err
	}
	open, err := bfs.Reachable(sat.Residual, flow.SuperSource, bfs.WithContext(ctx))
	if err != nil {
		return nil, err
	}

	found := make([]int64, len(caps))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)
	for i, o := range caps {
		i, o := i, o
		if !open[network.OptionVertex(o.ID)] {
			a.logger.Debug("advisor: option cannot help", "option", o.ID)
			continue
		}
		g.Go(func() error {
			inc, err := a.probe(gctx, prefs, caps, costs, o)
			if err != nil {
				return err
			}
			found[i] = inc
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return nil, err
	}

	var out []Suggestion
	for i, o := range caps {
		if found[i] > 0 {
			out = append(out, Suggestion{Option: o.ID, Increment: found[i]})
		}
	}

	return out, nil
}

// probe returns the smallest increment of o's capacity that makes the category
// feasible, or 0 if none up to the ceiling does.
func (a *Advisor) probe(ctx context.Context, prefs network.Preferences, caps network.Capacities, costs network.CostTable, o network.Option) (int64, error) {
	for inc := int64(1); inc <= a.ceiling; inc++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		n, err := network.Build(prefs, caps.With(o.ID, o.Capacity+inc), costs)
		if err != nil {
			return 0, err
		}
		_, err = n.Solve(a.solverOptions(ctx))
		switch {
		case err == nil:
			a.logger.Info("advisor: capacity increase restores feasibility", "option", o.ID, "increment", inc)
			return inc, nil
		case errors.Is(err, flow.ErrInfeasible):
			a.logger.Debug("advisor: still infeasible", "option", o.ID, "increment", inc)
		default:
			return 0, fmt.Errorf("advisor: probing %q +%d: %w", o.ID, inc, err)
		}
	}
	a.logger.Debug("advisor: ceiling reached", "option", o.ID, "ceiling", a.ceiling)

	return 0, nil
}

// SuggestJoint returns a jointly minimal set of increments: the smallest total
// number of extra seats, spread over options, that makes the category
// feasible. Among equally small sets it picks one with the lowest preference
// cost.
//
// The network is built WithOverflow at a per-seat cost larger than any total
// preference cost, so the solver only uses overflow when it must, and uses
// as little as possible.
func (a *Advisor) SuggestJoint(ctx context.Context, prefs network.Preferences, caps network.Capacities, costs network.CostTable) ([]Suggestion, error) {
	if _, err := a.checkInfeasible(ctx, prefs, caps, costs); err != nil {
		return nil, err
	}

	n, err := network.Build(prefs, caps, costs, network.WithOverflow(overflowCost(len(prefs), costs)))
	if err != nil {
		return nil, err
	}
	assignment, err := n.Solve(a.solverOptions(ctx))
	if err != nil {
		return nil, err
	}

	var out []Suggestion
	for _, o := range caps {
		if extra := assignment.Overflow(o.ID); extra > 0 {
			out = append(out, Suggestion{Option: o.ID, Increment: extra})
		}
	}
	a.logger.Info("advisor: joint remedy", "options", len(out), "cost", assignment.Cost())

	return out, nil
}

// overflowCost exceeds the most expensive possible total preference cost.
func overflowCost(participants int, costs network.CostTable) int64 {
	var highest int64
	for _, c := range costs {
		if c > highest {
			highest = c
		}
	}

	return int64(participants)*highest + 1
}

// checkInfeasible builds and solves the unmodified category.
func (a *Advisor) checkInfeasible(ctx context.Context, prefs network.Preferences, caps network.Capacities, costs network.CostTable) (*network.Network, error) {
	n, err := network.Build(prefs, caps, costs)
	if err != nil {
		return nil, err
	}
	_, err = n.Solve(a.solverOptions(ctx))
	switch {
	case err == nil:
		return nil, ErrFeasible
	case errors.Is(err, flow.ErrInfeasible):
		return n, nil
	default:
		return nil, err
	}
}

func (a *Advisor) solverOptions(ctx context.Context) flow.Options {
	o := a.solver
	o.Ctx = ctx
	if o.Logger == nil {
		o.Logger = a.logger
	}
	return o
}
