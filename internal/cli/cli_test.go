package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/allotment/advisor"
	"github.com/katalvlaran/allotment/allocation"
	"github.com/katalvlaran/allotment/internal/report"
)

const setupTOML = `
[general]
preferences = "prefs.csv"
results = "out/results.csv"
stats = "out/stats.yaml"
identity = [0, 1]

[[category]]
name = "excursion"
columns = [2, 3]
capacities = "excursions.csv"
costs = [1, 2]
`

const prefsCSV = `first,last,choice1,choice2
Amy,A,lake,hill
Bob,B,hill,lake
Cal,C,hill,
`

// workspace writes a setup with the given excursion capacities and returns
// the setup path.
func workspace(t *testing.T, capacities string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range map[string]string{
		"setup.toml":     setupTOML,
		"prefs.csv":      prefsCSV,
		"excursions.csv": capacities,
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
	}
	return filepath.Join(dir, "setup.toml")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append(args, "--quiet"))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRun_WritesResults(t *testing.T) {
	cfg := workspace(t, "lake,1\nhill,2\n")
	out, err := run(t, "run", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "Excursion solved")
	assert.Contains(t, out, "cost 3")

	dir := filepath.Dir(cfg)
	results, err := os.ReadFile(filepath.Join(dir, "out", "results.csv"))
	require.NoError(t, err)
	assert.Equal(t, "participant,excursion\nAmy A,lake\nBob B,hill\nCal C,hill\n", string(results))

	f, err := os.Open(filepath.Join(dir, "out", "stats.yaml"))
	require.NoError(t, err)
	defer f.Close()
	stats, err := report.Decode(f)
	require.NoError(t, err)
	assert.True(t, stats.Solved)
	assert.NotEmpty(t, stats.RunID)
}

func TestRun_InfeasibleWritesNoResults(t *testing.T) {
	cfg := workspace(t, "lake,1\nhill,1\n")
	out, err := run(t, "run", "--config", cfg)
	require.ErrorIs(t, err, allocation.ErrNoResult)
	assert.Contains(t, out, "Excursion infeasible")
	assert.Contains(t, out, "raise lake by 1")
	assert.Contains(t, out, "raise hill by 1")

	dir := filepath.Dir(cfg)
	_, err = os.Stat(filepath.Join(dir, "out", "results.csv"))
	assert.True(t, os.IsNotExist(err))

	data, err := os.ReadFile(filepath.Join(dir, "out", "stats.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "state: infeasible")
	assert.Contains(t, string(data), "suggestions:")
}

func TestAdvise(t *testing.T) {
	cfg := workspace(t, "lake,1\nhill,1\n")

	out, err := run(t, "advise", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "raise lake by 1")
	assert.Contains(t, out, "raise hill by 1")

	// Either seat works; one more on hill keeps the cheaper ranks.
	out, err = run(t, "advise", "--joint", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "raise hill by 1")
	assert.NotContains(t, out, "raise lake")

	_, err = run(t, "advise", "--category", "lunch", "--config", cfg)
	require.ErrorContains(t, err, `unknown category "lunch"`)

	out, err = run(t, "advise", "--config", workspace(t, "lake,2\nhill,2\n"))
	require.NoError(t, err)
	assert.Contains(t, out, "Excursion feasible")
}

func TestRenderSuggestions_EmptyWording(t *testing.T) {
	single := strings.Join(renderSuggestions(nil, false), "\n")
	assert.Contains(t, single, "no single-option increase")

	joint := strings.Join(renderSuggestions(nil, true), "\n")
	assert.Contains(t, joint, "no combination of capacity increases")
	assert.NotContains(t, joint, "single-option")

	listed := renderSuggestions([]advisor.Suggestion{{Option: "lake", Increment: 2}}, true)
	require.Len(t, listed, 1)
	assert.Contains(t, listed[0], "raise lake by 2")
}

func TestDimacs(t *testing.T) {
	cfg := workspace(t, "lake,1\nhill,2\n")
	out, err := run(t, "dimacs", "--category", "excursion", "--config", cfg)
	require.NoError(t, err)

	var problem string
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "p ") {
			problem = line
		}
	}
	// 3 participants, 2 options, the collector; 5 preference arcs, 2 collector arcs.
	assert.Equal(t, "p min 6 7", problem)

	_, err = run(t, "dimacs", "--config", cfg)
	require.Error(t, err)
}

func TestVersionAndExitStatus(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "allot dev\n", out)

	assert.Equal(t, 1, execute(context.Background(), []string{"run", "--quiet", "--config", filepath.Join(t.TempDir(), "none.toml")}))
}
