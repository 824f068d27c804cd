package roster_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/allotment/allocation"
	"github.com/katalvlaran/allotment/internal/config"
	"github.com/katalvlaran/allotment/internal/roster"
	"github.com/katalvlaran/allotment/network"
)

const table = `first,last,city,ex1,ex2,ws1,ws2
Amy,Adams,Bern,lake,hill,clay,
Bob,  Brown ,Chur,hill,,paint,clay
`

var layout = roster.Layout{
	Identity: []int{0, 1, 2},
	Columns:  map[string][]int{"excursion": {3, 4}, "workshop": {5, 6}},
}

func TestReadPreferences(t *testing.T) {
	got, err := roster.ReadPreferences(strings.NewReader(table), layout)
	require.NoError(t, err)

	want := map[string]network.Preferences{
		"excursion": {"Amy Adams Bern": {"lake", "hill"}, "Bob Brown Chur": {"hill"}},
		"workshop":  {"Amy Adams Bern": {"clay"}, "Bob Brown Chur": {"paint", "clay"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("preferences mismatch (-want +got):\n%s", diff)
	}
}

func TestReadPreferences_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"duplicate", "h\nAmy,Adams,Bern,a,b,c,d\nAmy, Adams ,Bern,a,b,c,d\n", roster.ErrDuplicateParticipant},
		// Precomposed and combining accents name the same participant after NFC.
		{"duplicate after normalization", "h\nRen\u00e9,X,Y,a,b,c,d\nRene\u0301,X,Y,a,b,c,d\n", roster.ErrDuplicateParticipant},
		{"blank identity", "h\n, ,,a,b,c,d\n", roster.ErrEmptyIdentity},
		{"short row", "h\nAmy,Adams,Bern,a\n", roster.ErrShortRow},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := roster.ReadPreferences(strings.NewReader(tc.input), layout)
			require.ErrorIs(t, err, tc.want)
		})
	}

	_, err := roster.ReadPreferences(strings.NewReader(""), layout)
	require.Error(t, err)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "René M.", roster.Normalize("  René \t M. "))
	assert.Equal(t, "", roster.Normalize(" \t"))
}

func TestReadCapacities(t *testing.T) {
	caps, err := roster.ReadCapacities(strings.NewReader("# option,capacity\nlake,2\nhill, 10\n"))
	require.NoError(t, err)
	assert.Equal(t, network.Capacities{{ID: "lake", Capacity: 2}, {ID: "hill", Capacity: 10}}, caps)

	_, err = roster.ReadCapacities(strings.NewReader("lake,two\n"))
	require.ErrorIs(t, err, roster.ErrBadCapacity)
	_, err = roster.ReadCapacities(strings.NewReader("lake,2,3\n"))
	require.ErrorIs(t, err, roster.ErrBadCapacity)
}

func TestWriteResults(t *testing.T) {
	var buf bytes.Buffer
	err := roster.WriteResults(&buf, []string{"excursion", "workshop"}, []allocation.Row{
		{Participant: "Amy Adams Bern", Options: []string{"lake", "clay"}},
		{Participant: "Bob, Jr.", Options: []string{"hill", "paint"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "participant,excursion,workshop\nAmy Adams Bern,lake,clay\n\"Bob, Jr.\",hill,paint\n", buf.String())
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
		return p
	}
	setup := &config.Setup{
		General: config.General{Preferences: write("prefs.csv", table), Identity: []int{0, 1, 2}},
		Categories: []config.Category{
			{Name: "workshop", Columns: []int{5, 6}, Capacities: write("ws.csv", "clay,1\npaint,1\n"), Costs: []int64{1, 2}},
			{Name: "excursion", Columns: []int{3, 4}, Capacities: write("ex.csv", "lake,1\nhill,1\n"), Costs: []int64{1, 2}},
		},
	}

	cats, err := roster.Load(setup)
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, "workshop", cats[0].Name)
	assert.Equal(t, network.CostTable{1, 2}, cats[0].Costs)
	assert.Equal(t, []string{"paint", "clay"}, cats[0].Preferences["Bob Brown Chur"])
	assert.Equal(t, network.Capacities{{ID: "lake", Capacity: 1}, {ID: "hill", Capacity: 1}}, cats[1].Capacities)

	setup.Categories[1].Capacities = filepath.Join(dir, "missing.csv")
	_, err = roster.Load(setup)
	require.Error(t, err)
}
