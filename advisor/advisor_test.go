package advisor_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/allotment/advisor"
	"github.com/katalvlaran/allotment/flow"
	"github.com/katalvlaran/allotment/network"
)

var costs = network.CostTable{1, 2, 3}

func crowd(n int, list ...string) network.Preferences {
	prefs := make(network.Preferences, n)
	for i := 0; i < n; i++ {
		prefs[fmt.Sprintf("p%02d", i)] = list
	}
	return prefs
}

func TestSuggest_ExactIncrement(t *testing.T) {
	// Five people only accept x, which seats three: +1 is not enough, +2 is.
	prefs := crowd(5, "x")
	caps := network.Capacities{{ID: "x", Capacity: 3}, {ID: "unused", Capacity: 0}}

	got, err := advisor.New().Suggest(context.Background(), prefs, caps, costs)
	require.NoError(t, err)
	assert.Equal(t, []advisor.Suggestion{{Option: "x", Increment: 2}}, got)
	assert.Equal(t, int64(3), caps[0].Capacity, "input capacities must not change")
}

func TestSuggest_TableOrderAndIndependence(t *testing.T) {
	prefs := network.Preferences{
		"a": {"late", "early"},
		"b": {"late", "early"},
		"c": {"late", "early"},
	}
	caps := network.Capacities{{ID: "late", Capacity: 1}, {ID: "early", Capacity: 1}}

	got, err := advisor.New().Suggest(context.Background(), prefs, caps, costs)
	require.NoError(t, err)
	want := []advisor.Suggestion{{Option: "late", Increment: 1}, {Option: "early", Increment: 1}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("suggestions mismatch (-want +got):\n%s", diff)
	}
}

func TestSuggest_FeasibleBase(t *testing.T) {
	_, err := advisor.New().Suggest(context.Background(), crowd(2, "x"), network.Capacities{{ID: "x", Capacity: 2}}, costs)
	require.ErrorIs(t, err, advisor.ErrFeasible)

	_, err = advisor.New().SuggestJoint(context.Background(), crowd(2, "x"), network.Capacities{{ID: "x", Capacity: 2}}, costs)
	require.ErrorIs(t, err, advisor.ErrFeasible)
}

func TestSuggest_CeilingOmitsOption(t *testing.T) {
	prefs := crowd(5, "x")
	caps := network.Capacities{{ID: "x", Capacity: 0}}

	got, err := advisor.New(advisor.WithCeiling(4)).Suggest(context.Background(), prefs, caps, costs)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = advisor.New(advisor.WithCeiling(5)).Suggest(context.Background(), prefs, caps, costs)
	require.NoError(t, err)
	assert.Equal(t, []advisor.Suggestion{{Option: "x", Increment: 5}}, got)
}

func TestSuggest_NoSingleOptionRemedy(t *testing.T) {
	// Two disjoint bottlenecks: raising one option alone never helps.
	prefs := network.Preferences{"a1": {"A"}, "a2": {"A"}, "b1": {"B"}, "b2": {"B"}}
	caps := network.Capacities{{ID: "A", Capacity: 1}, {ID: "B", Capacity: 1}}

	got, err := advisor.New().Suggest(context.Background(), prefs, caps, costs)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSuggest_BuildErrorsPropagate(t *testing.T) {
	_, err := advisor.New().Suggest(context.Background(), crowd(1, "ghost"), network.Capacities{{ID: "x"}}, costs)
	var unknown *network.UnknownOptionError
	require.True(t, errors.As(err, &unknown))
}

func TestSuggest_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := advisor.New().Suggest(ctx, crowd(3, "x"), network.Capacities{{ID: "x", Capacity: 1}}, costs)
	require.ErrorIs(t, err, context.Canceled)
}

func TestSuggest_SolverLogsUseAdvisorLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, err := advisor.New(advisor.WithLogger(logger)).Suggest(context.Background(), crowd(3, "x"), network.Capacities{{ID: "x", Capacity: 1}}, costs)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "flow: sink unreachable")
	assert.Contains(t, buf.String(), "flow: augmented")
}

// TestSuggest_MatchesNaiveProbe checks the pruned, parallel search against a
// plain sequential probe of every option.
func TestSuggest_MatchesNaiveProbe(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	options := []string{"a", "b", "c", "d", "e", "f"}
	const ceiling = 6

	checked := 0
	for round := 0; round < 40; round++ {
		prefs := make(network.Preferences)
		for p := 0; p < 10; p++ {
			perm := rng.Perm(len(options))[:1+rng.Intn(3)]
			list := make([]string, len(perm))
			for i, k := range perm {
				list[i] = options[k]
			}
			prefs[fmt.Sprintf("p%02d", p)] = list
		}
		caps := make(network.Capacities, len(options))
		for i, o := range options {
			caps[i] = network.Option{ID: o, Capacity: int64(rng.Intn(3))}
		}

		seq, err := advisor.New(advisor.WithCeiling(ceiling)).Suggest(context.Background(), prefs, caps, costs)
		if errors.Is(err, advisor.ErrFeasible) {
			continue
		}
		require.NoError(t, err)
		par, err := advisor.New(advisor.WithCeiling(ceiling), advisor.WithWorkers(4)).Suggest(context.Background(), prefs, caps, costs)
		require.NoError(t, err)
		require.Equal(t, seq, par, "round %d", round)
		require.Equal(t, naiveProbe(t, prefs, caps, ceiling), seq, "round %d", round)
		checked++
	}
	require.Positive(t, checked)
}

func naiveProbe(t *testing.T, prefs network.Preferences, caps network.Capacities, ceiling int64) []advisor.Suggestion {
	t.Helper()
	var out []advisor.Suggestion
	for _, o := range caps {
		for inc := int64(1); inc <= ceiling; inc++ {
			n, err := network.Build(prefs, caps.With(o.ID, o.Capacity+inc), costs)
			require.NoError(t, err)
			if _, err = n.Solve(flow.DefaultOptions()); err == nil {
				out = append(out, advisor.Suggestion{Option: o.ID, Increment: inc})
				break
			}
		}
	}
	return out
}

func TestSuggestJoint_CombinesOptions(t *testing.T) {
	prefs := network.Preferences{"a1": {"A"}, "a2": {"A"}, "b1": {"B"}, "b2": {"B"}}
	caps := network.Capacities{{ID: "A", Capacity: 1}, {ID: "B", Capacity: 1}}

	got, err := advisor.New().SuggestJoint(context.Background(), prefs, caps, costs)
	require.NoError(t, err)
	assert.Equal(t, []advisor.Suggestion{{Option: "A", Increment: 1}, {Option: "B", Increment: 1}}, got)
}

func TestSuggestJoint_FewestSeatsThenCheapest(t *testing.T) {
	// One extra seat suffices either on A or on B. A keeps both at rank 1.
	prefs := network.Preferences{"p1": {"A", "B"}, "p2": {"A"}}
	caps := network.Capacities{{ID: "A", Capacity: 1}, {ID: "B", Capacity: 0}}

	got, err := advisor.New().SuggestJoint(context.Background(), prefs, caps, costs)
	require.NoError(t, err)
	assert.Equal(t, []advisor.Suggestion{{Option: "A", Increment: 1}}, got)
}

// TestSuggestJoint_Minimal compares the total extra seats against an
// exhaustive search over increment vectors.
func TestSuggestJoint_Minimal(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	options := []string{"a", "b", "c"}

	for round := 0; round < 25; round++ {
		prefs := make(network.Preferences)
		for p := 0; p < 6; p++ {
			perm := rng.Perm(len(options))[:1+rng.Intn(2)]
			list := make([]string, len(perm))
			for i, k := range perm {
				list[i] = options[k]
			}
			prefs[fmt.Sprintf("p%d", p)] = list
		}
		caps := network.Capacities{{ID: "a", Capacity: int64(rng.Intn(2))}, {ID: "b", Capacity: int64(rng.Intn(2))}, {ID: "c", Capacity: int64(rng.Intn(2))}}

		got, err := advisor.New().SuggestJoint(context.Background(), prefs, caps, costs)
		if errors.Is(err, advisor.ErrFeasible) {
			continue
		}
		require.NoError(t, err)

		var total int64
		raised := caps
		for _, s := range got {
			total += s.Increment
			c, _ := raised.Lookup(s.Option)
			raised = raised.With(s.Option, c+s.Increment)
		}
		n, err := network.Build(prefs, raised, costs)
		require.NoError(t, err)
		_, err = n.Solve(flow.DefaultOptions())
		require.NoError(t, err, "round %d: joint remedy must be feasible", round)
		require.Equal(t, minimalTotal(t, prefs, caps), total, "round %d", round)
	}
}

// minimalTotal finds the smallest total increment over three options that
// makes the category feasible (each participant adds at most one seat).
func minimalTotal(t *testing.T, prefs network.Preferences, caps network.Capacities) int64 {
	t.Helper()
	limit := int64(len(prefs))
	best := limit + 1
	for x := int64(0); x <= limit; x++ {
		for y := int64(0); y <= limit-x; y++ {
			for z := int64(0); z <= limit-x-y; z++ {
				if x+y+z >= best {
					continue
				}
				raised := network.Capacities{
					{ID: caps[0].ID, Capacity: caps[0].Capacity + x},
					{ID: caps[1].ID, Capacity: caps[1].Capacity + y},
					{ID: caps[2].ID, Capacity: caps[2].Capacity + z},
				}
				n, err := network.Build(prefs, raised, costs)
				require.NoError(t, err)
				if _, err = n.Solve(flow.DefaultOptions()); err == nil {
					best = x + y + z
				}
			}
		}
	}
	return best
}
