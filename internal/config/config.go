// Package config loads the TOML setup file that describes one allocation run.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"github.com/katalvlaran/allotment/advisor"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid setup")

// Setup is the decoded setup file.
type Setup struct {
	General    General    `toml:"general"`
	Advisor    Advisor    `toml:"advisor"`
	Categories []Category `toml:"category" validate:"min=1,unique=Name,dive"`
}

// General holds run-wide paths and switches.
type General struct {
	Preferences string `toml:"preferences" validate:"required"`
	Results     string `toml:"results"`
	Stats       string `toml:"stats"`
	// LowAllocThreshold enables the under-allocation check when positive.
	LowAllocThreshold int64 `toml:"lowalloc_threshold" validate:"gte=0"`
	// Identity lists the preference-file columns joined into a participant id.
	Identity []int `toml:"identity" validate:"min=1,unique,dive,gte=0"`
	// Concurrent solves categories in parallel.
	Concurrent bool `toml:"concurrent"`
}

// Advisor tunes the feasibility advisor.
type Advisor struct {
	Disabled bool  `toml:"disabled"`
	Ceiling  int64 `toml:"ceiling" validate:"gte=1"`
	Workers  int   `toml:"workers" validate:"gte=1"`
}

// Category describes one preference category.
type Category struct {
	Name       string  `toml:"name" validate:"required"`
	Columns    []int   `toml:"columns" validate:"min=1,unique,dive,gte=0"`
	Capacities string  `toml:"capacities" validate:"required"`
	Costs      []int64 `toml:"costs" validate:"dive,gte=0"`
}

// ParseFile reads and validates a setup file. Relative paths inside it are
// resolved against the file's directory.
func ParseFile(path string) (*Setup, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the command line
	if err != nil {
		return nil, fmt.Errorf("reading setup file: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, err
	}
	s.resolve(filepath.Dir(path))

	return s, nil
}

// Parse decodes and validates setup content.
func Parse(data []byte) (*Setup, error) {
	var s Setup
	md, err := toml.Decode(string(data), &s)
	if err != nil {
		return nil, fmt.Errorf("parsing TOML: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%w: unknown key %q", ErrInvalid, undecoded[0].String())
	}
	s.applyDefaults()
	if err = s.Validate(); err != nil {
		return nil, err
	}

	return &s, nil
}

func (s *Setup) applyDefaults() {
	if s.Advisor.Ceiling == 0 {
		s.Advisor.Ceiling = advisor.DefaultCeiling
	}
	if s.Advisor.Workers == 0 {
		s.Advisor.Workers = 1
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks required fields, column indices and category names.
func (s *Setup) Validate() error {
	if err := validate.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fe := verrs[0]
			return fmt.Errorf("%w: %s fails %q", ErrInvalid, fe.Namespace(), fe.Tag())
		}
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	for _, c := range s.Categories {
		if len(c.Costs) < len(c.Columns) {
			return fmt.Errorf("%w: category %q: %d costs for %d ranks", ErrInvalid, c.Name, len(c.Costs), len(c.Columns))
		}
	}

	return nil
}

// Category returns the named category.
func (s *Setup) Category(name string) (Category, bool) {
	for _, c := range s.Categories {
		if c.Name == name {
			return c, true
		}
	}

	return Category{}, false
}

func (s *Setup) resolve(dir string) {
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(dir, p)
	}
	s.General.Preferences = abs(s.General.Preferences)
	s.General.Results = abs(s.General.Results)
	s.General.Stats = abs(s.General.Stats)
	for i := range s.Categories {
		s.Categories[i].Capacities = abs(s.Categories[i].Capacities)
	}
}
