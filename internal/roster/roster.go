// Package roster reads preference and capacity tables and writes results.
//
// Participant ids are built from one or more identity columns, joined by a
// single space after Unicode NFC normalization and whitespace folding. Two
// rows that produce the same id are an error.
package roster

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/katalvlaran/allotment/allocation"
	"github.com/katalvlaran/allotment/internal/config"
	"github.com/katalvlaran/allotment/network"
)

var (
	// ErrDuplicateParticipant is returned when two rows share an identity.
	ErrDuplicateParticipant = errors.New("roster: duplicate participant")
	// ErrEmptyIdentity is returned when all identity cells of a row are blank.
	ErrEmptyIdentity = errors.New("roster: empty participant identity")
	// ErrShortRow is returned when a row lacks a referenced column.
	ErrShortRow = errors.New("roster: row too short")
	// ErrBadCapacity is returned for malformed capacity rows.
	ErrBadCapacity = errors.New("roster: bad capacity row")
)

// Layout maps table columns to identity and per-category preference lists.
type Layout struct {
	Identity []int
	// Columns holds, per category name, the preference columns in rank order.
	Columns map[string][]int
}

// Normalize folds s into the canonical form used for ids and option names.
func Normalize(s string) string {
	return strings.Join(strings.Fields(norm.NFC.String(s)), " ")
}

// ReadPreferences reads a preference table with a header row. Blank choice
// cells are skipped, so a participant may list fewer options than there are
// columns.
func ReadPreferences(r io.Reader, layout Layout) (map[string]network.Preferences, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("roster: preference table has no header")
		}
		return nil, fmt.Errorf("roster: reading header: %w", err)
	}

	out := make(map[string]network.Preferences, len(layout.Columns))
	for name := range layout.Columns {
		out[name] = make(network.Preferences)
	}
	firstRow := make(map[string]int)

	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("roster: line %d: %w", line, err)
		}

		parts := make([]string, 0, len(layout.Identity))
		for _, c := range layout.Identity {
			if c >= len(rec) {
				return nil, fmt.Errorf("%w: line %d has no column %d", ErrShortRow, line, c)
			}
			if v := Normalize(rec[c]); v != "" {
				parts = append(parts, v)
			}
		}
		if len(parts) == 0 {
			return nil, fmt.Errorf("%w: line %d", ErrEmptyIdentity, line)
		}
		id := strings.Join(parts, " ")
		if prev, ok := firstRow[id]; ok {
			return nil, fmt.Errorf("%w: %q on lines %d and %d", ErrDuplicateParticipant, id, prev, line)
		}
		firstRow[id] = line

		for name, cols := range layout.Columns {
			list := make([]string, 0, len(cols))
			for _, c := range cols {
				if c >= len(rec) {
					return nil, fmt.Errorf("%w: line %d has no column %d", ErrShortRow, line, c)
				}
				if v := Normalize(rec[c]); v != "" {
					list = append(list, v)
				}
			}
			out[name][id] = list
		}
	}

	return out, nil
}

// ReadCapacities reads option,capacity rows in table order. Lines starting
// with # are comments.
func ReadCapacities(r io.Reader) (network.Capacities, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 2
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	var caps network.Capacities
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return caps, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBadCapacity, err)
		}
		line, _ := cr.FieldPos(0)
		n, err := strconv.ParseInt(strings.TrimSpace(rec[1]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %q is not an integer", ErrBadCapacity, line, rec[1])
		}
		caps = append(caps, network.Option{ID: Normalize(rec[0]), Capacity: n})
	}
}

// WriteResults writes the participant,category... table for a solved run.
func WriteResults(w io.Writer, categories []string, rows []allocation.Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{"participant"}, categories...)); err != nil {
		return fmt.Errorf("roster: writing header: %w", err)
	}
	for _, r := range rows {
		if err := cw.Write(append([]string{r.Participant}, r.Options...)); err != nil {
			return fmt.Errorf("roster: writing %q: %w", r.Participant, err)
		}
	}
	cw.Flush()

	return cw.Error()
}

// Load reads every table referenced by setup and returns the categories in
// setup order.
func Load(setup *config.Setup) ([]allocation.Category, error) {
	layout := Layout{Identity: setup.General.Identity, Columns: make(map[string][]int, len(setup.Categories))}
	for _, c := range setup.Categories {
		layout.Columns[c.Name] = c.Columns
	}

	f, err := os.Open(setup.General.Preferences)
	if err != nil {
		return nil, fmt.Errorf("roster: %w", err)
	}
	prefs, err := ReadPreferences(f, layout)
	_ = f.Close()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", setup.General.Preferences, err)
	}

	cats := make([]allocation.Category, 0, len(setup.Categories))
	for _, c := range setup.Categories {
		caps, err := readCapacityFile(c.Capacities)
		if err != nil {
			return nil, err
		}
		cats = append(cats, allocation.Category{
			Name:        c.Name,
			Preferences: prefs[c.Name],
			Capacities:  caps,
			Costs:       network.CostTable(c.Costs),
		})
	}

	return cats, nil
}

func readCapacityFile(path string) (network.Capacities, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("roster: %w", err)
	}
	defer f.Close()

	caps, err := ReadCapacities(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return caps, nil
}
