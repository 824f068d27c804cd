package report_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/allotment/advisor"
	"github.com/katalvlaran/allotment/allocation"
	"github.com/katalvlaran/allotment/internal/report"
	"github.com/katalvlaran/allotment/network"
)

var created = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

func category(hillCap int64) allocation.Category {
	return allocation.Category{
		Name:        "excursion",
		Preferences: network.Preferences{"amy": {"lake"}, "bob": {"hill", "lake"}, "cal": {"hill"}},
		Capacities:  network.Capacities{{ID: "lake", Capacity: 1}, {ID: "hill", Capacity: hillCap}},
		Costs:       network.CostTable{1, 2},
	}
}

func TestFromRun_Solved(t *testing.T) {
	run, err := allocation.NewRunner(allocation.WithRunID("r1"), allocation.WithThreshold(2)).
		Run(context.Background(), category(2))
	require.NoError(t, err)

	s := report.FromRun(run, created)
	assert.True(t, s.Solved)
	require.Len(t, s.Categories, 1)
	c := s.Categories[0]
	assert.Equal(t, "solved", c.State)
	assert.Equal(t, []int64{1, 2}, c.Costs)
	require.NotNil(t, c.Summary)
	assert.Equal(t, int64(3), c.Summary.Cost)
	assert.Empty(t, c.Suggestions)

	var buf bytes.Buffer
	require.NoError(t, report.Encode(&buf, s))
	back, err := report.Decode(&buf)
	require.NoError(t, err)
	if diff := cmp.Diff(s, back); diff != "" {
		t.Errorf("stats mismatch after YAML (-want +got):\n%s", diff)
	}
}

func TestFromRun_Infeasible(t *testing.T) {
	run, err := allocation.NewRunner(allocation.WithRunID("r2")).Run(context.Background(), category(1))
	require.ErrorIs(t, err, allocation.ErrNoResult)

	s := report.FromRun(run, created)
	assert.False(t, s.Solved)
	c := s.Categories[0]
	assert.Equal(t, "infeasible", c.State)
	assert.Nil(t, c.Summary)
	assert.Equal(t, int64(3), c.Required)
	assert.Equal(t, int64(2), c.Routed)
	assert.Equal(t, []advisor.Suggestion{{Option: "lake", Increment: 1}, {Option: "hill", Increment: 1}}, c.Suggestions)

	var buf bytes.Buffer
	require.NoError(t, report.Encode(&buf, s))
	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "r2", doc["run_id"])
	cats := doc["categories"].([]any)
	first := cats[0].(map[string]any)
	assert.NotContains(t, first, "summary")
	assert.Contains(t, first, "suggestions")
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "stats.yaml")
	err := report.WriteFile(context.Background(), path, func(w io.Writer) error {
		_, err := io.WriteString(w, "first\n")
		return err
	})
	require.NoError(t, err)

	boom := errors.New("boom")
	err = report.WriteFile(context.Background(), path, func(w io.Writer) error {
		_, _ = io.WriteString(w, "partial")
		return boom
	})
	require.ErrorIs(t, err, boom)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first\n", string(data), "failed writes leave the old file")

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".stats.yaml.", "temporary file left behind")
	}
}

func TestWriteFile_Locked(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")
	held := flock.New(path + ".lock")
	ok, err := held.TryLock()
	require.NoError(t, err)
	require.True(t, ok)
	defer func() { _ = held.Unlock() }()

	prev := report.LockTimeout
	report.LockTimeout = 100 * time.Millisecond
	defer func() { report.LockTimeout = prev }()

	err = report.WriteFile(context.Background(), path, func(io.Writer) error { return nil })
	require.ErrorIs(t, err, report.ErrLocked)
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
