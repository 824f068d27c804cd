package allocation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/allotment/advisor"
	"github.com/katalvlaran/allotment/analysis"
	"github.com/katalvlaran/allotment/flow"
	"github.com/katalvlaran/allotment/network"
)

// Runner drives every category of a run through Built → Solved | Infeasible.
type Runner struct {
	advisor    *advisor.Advisor
	logger     *slog.Logger
	threshold  int64
	concurrent bool
	solver     flow.Options
	newRunID   func() string
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithAdvisor sets the advisor consulted for infeasible categories.
// A nil advisor disables suggestions.
func WithAdvisor(a *advisor.Advisor) RunnerOption {
	return func(r *Runner) { r.advisor = a }
}

// WithLogger sets the run logger.
func WithLogger(l *slog.Logger) RunnerOption {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithThreshold sets the under-allocation threshold; 0 disables the check.
func WithThreshold(t int64) RunnerOption {
	return func(r *Runner) { r.threshold = t }
}

// WithConcurrency solves categories in parallel when on is true.
func WithConcurrency(on bool) RunnerOption {
	return func(r *Runner) { r.concurrent = on }
}

// WithSolverOptions sets the options used for every solve. A nil Logger
// inherits the run logger.
func WithSolverOptions(o flow.Options) RunnerOption {
	return func(r *Runner) { r.solver = o }
}

// WithRunID fixes the run id instead of generating a random UUID.
func WithRunID(id string) RunnerOption {
	return func(r *Runner) { r.newRunID = func() string { return id } }
}

// NewRunner returns a sequential Runner with a default advisor and no
// under-allocation threshold.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{
		advisor:  advisor.New(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		newRunID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Run builds and solves every category.
//
// Build errors (*network.UnknownOptionError and friends) and engine invariant
// violations abort the run and are returned as is. An infeasible category is
// recorded with advisor suggestions; the other categories still run, but the
// report then carries no analysis and the returned error wraps ErrNoResult
// joined with every *flow.InfeasibleError. When all categories are solved the
// report carries summaries and shortfalls.
func (r *Runner) Run(ctx context.Context, cats ...Category) (*Report, error) {
	if len(cats) == 0 {
		return nil, ErrNoCategories
	}
	names := make(map[string]bool, len(cats))
	for _, c := range cats {
		if names[c.Name] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateCategory, c.Name)
		}
		names[c.Name] = true
	}

	report := &Report{RunID: r.newRunID(), Outcomes: make([]Outcome, len(cats))}
	logger := r.logger.With("run_id", report.RunID)

	if r.concurrent {
		g, gctx := errgroup.WithContext(ctx)
		for i, c := range cats {
			i, c := i, c
			g.Go(func() error {
				return r.runCategory(gctx, logger, c, &report.Outcomes[i])
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i, c := range cats {
			if err := r.runCategory(ctx, logger, c, &report.Outcomes[i]); err != nil {
				return nil, err
			}
		}
	}

	var infeasible []error
	for _, o := range report.Outcomes {
		if o.State == StateInfeasible {
			infeasible = append(infeasible, fmt.Errorf("category %q: %w", o.Category, o.Infeasible))
		}
	}
	if len(infeasible) > 0 {
		logger.Error("allocation abandoned", "infeasible", len(infeasible), "categories", len(cats))
		head := fmt.Errorf("%w: %d of %d categories infeasible", ErrNoResult, len(infeasible), len(cats))
		return report, errors.Join(append([]error{head}, infeasible...)...)
	}

	for i := range report.Outcomes {
		o := &report.Outcomes[i]
		summary := analysis.Summarize(o.Network, o.Assignment)
		o.Summary = &summary
		if r.threshold > 0 {
			o.Shortfalls = analysis.UnderAllocated(o.Network, o.Assignment, r.threshold)
		}
		logger.Info("category analyzed", "category", o.Category, "cost", summary.Cost, "shortfalls", len(o.Shortfalls))
	}

	return report, nil
}

// runCategory takes one category from pending to a terminal state.
func (r *Runner) runCategory(ctx context.Context, logger *slog.Logger, c Category, o *Outcome) error {
	logger = logger.With("category", c.Name)
	o.Category = c.Name

	n, err := network.Build(c.Preferences, c.Capacities, c.Costs)
	if err != nil {
		return fmt.Errorf("allocation: category %q: %w", c.Name, err)
	}
	o.Network = n
	if err = o.transition(StateBuilt); err != nil {
		return err
	}
	logger.Debug("network built", "participants", len(n.Participants()), "options", len(c.Capacities))

	opts := r.solver
	opts.Ctx = ctx
	if opts.Logger == nil {
		opts.Logger = logger
	}
	a, err := n.Solve(opts)

	var inf *flow.InfeasibleError
	switch {
	case err == nil:
		o.Assignment = a
		logger.Info("category solved", "cost", a.Cost(), "participants", a.Len())
		return o.transition(StateSolved)
	case errors.As(err, &inf):
		o.Infeasible = inf
		if err = o.transition(StateInfeasible); err != nil {
			return err
		}
		logger.Warn("category infeasible", "routed", inf.Routed, "required", inf.Required)
		return r.advise(ctx, logger, c, o)
	default:
		return fmt.Errorf("allocation: category %q: %w", c.Name, err)
	}
}

// advise records suggestions for an infeasible category. Advisor failures
// other than cancellation are logged and leave the suggestions empty.
func (r *Runner) advise(ctx context.Context, logger *slog.Logger, c Category, o *Outcome) error {
	if r.advisor == nil {
		return nil
	}
	suggestions, err := r.advisor.Suggest(ctx, c.Preferences, c.Capacities, c.Costs)
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		logger.Warn("advisor failed", "error", err)
		return nil
	}
	o.Suggestions = suggestions
	for _, s := range suggestions {
		logger.Info("suggestion", "option", s.Option, "increment", s.Increment)
	}
	if len(suggestions) == 0 {
		logger.Warn("no single-option increase up to the ceiling restores feasibility", "ceiling", r.advisor.Ceiling())
	}

	return nil
}
