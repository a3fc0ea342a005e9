// SPDX-License-Identifier: MIT

package pipeline

import (
	_ "embed"
	"errors"
	"io"
	"math"
	"os"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/pathogist/genotype"
	"github.com/katalvlaran/pathogist/model"
	"github.com/katalvlaran/pathogist/solver"
)

//go:embed blank_config.yaml
var blankConfig []byte

// Config is the YAML configuration of one pipeline run.
type Config struct {
	// Distances maps modality name -> precomputed matrix path.
	Distances map[string]string `yaml:"distances" validate:"dive,required"`
	// Genotyping maps kind name -> calls path.
	Genotyping map[string]string `yaml:"genotyping" validate:"dive,required"`
	// Thresholds maps every modality to its correlation threshold. Any
	// finite value is accepted; a negative one repels every pair.
	Thresholds map[string]float64 `yaml:"thresholds" validate:"dive,finite"`
	// AllConstraints selects every triangle for correlation models.
	AllConstraints bool `yaml:"all_constraints"`
	// FineClusterings names the modalities with hard separations.
	FineClusterings []string `yaml:"fine_clusterings" validate:"dive,required"`
	// Weights optionally overrides the consensus weight 1.
	Weights map[string]float64 `yaml:"weights" validate:"dive,gt=0"`
	// Workers bounds the parallel correlation solves; 0 means NumCPU.
	Workers int `yaml:"workers" validate:"gte=0"`
	// Solver tunes every solve of the run.
	Solver SolverConfig `yaml:"solver"`
	// Output is the summary table path.
	Output string `yaml:"output" validate:"required"`
}

// SolverConfig mirrors the tunable part of solver.Options.
type SolverConfig struct {
	Algorithm  string        `yaml:"algorithm" validate:"omitempty,oneof=auto exact lp pivot"`
	TimeLimit  time.Duration `yaml:"time_limit" validate:"gte=0"`
	ExactLimit int           `yaml:"exact_limit" validate:"gte=0"`
	Restarts   int           `yaml:"restarts" validate:"gte=0"`
	Seed       int64         `yaml:"seed"`
	MaxLPCells int           `yaml:"max_lp_cells" validate:"gte=0"`
}

var validate = newValidator()

// newValidator reports fields under their YAML names and knows the
// "finite" tag (not NaN, not ±Inf).
func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	}); err != nil {
		panic(err)
	}
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

// Parse decodes and validates a configuration. Unknown keys are rejected.
//
// Errors: *ConfigError.
func Parse(r io.Reader) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("empty document")
		}
		return nil, &ConfigError{Invariant: InvParse, Err: err}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Load is Parse on the file at path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Parse(f)
}

// WriteTemplate writes the commented blank configuration to path.
func WriteTemplate(path string) error {
	return os.WriteFile(path, blankConfig, 0o644)
}

// Template returns the blank configuration.
func Template() []byte { return append([]byte(nil), blankConfig...) }

// Validate checks field values first, then the key-set rules in a fixed
// order:
//
//  1. distances and genotyping share no key;
//  2. at least one modality is configured;
//  3. every genotyping key is a known kind;
//  4. thresholds name exactly the modalities;
//  5. fine_clusterings is a subset of the modalities;
//  6. weights name only modalities.
//
// Errors: *ConfigError.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			keys := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				keys = append(keys, fe.Field())
			}
			sort.Strings(keys)
			return &ConfigError{Invariant: InvSchema, Keys: keys, Err: err}
		}
		return &ConfigError{Invariant: InvSchema, Err: err}
	}

	if shared := intersect(keys(c.Distances), keys(c.Genotyping)); len(shared) > 0 {
		return &ConfigError{Invariant: InvDisjoint, Keys: shared}
	}
	mods := c.Modalities()
	if len(mods) == 0 {
		return &ConfigError{Invariant: InvAtLeastOneModality, Keys: []string{"distances", "genotyping"}}
	}
	for _, name := range keys(c.Genotyping) {
		if _, err := genotype.ParseKind(name); err != nil {
			return &ConfigError{Invariant: InvGenotypingKindKnown, Keys: []string{name}, Err: err}
		}
	}

	in := make(map[string]bool, len(mods))
	for _, m := range mods {
		in[m] = true
	}
	var bad []string
	for _, m := range mods {
		if _, ok := c.Thresholds[m]; !ok {
			bad = append(bad, m)
		}
	}
	for _, t := range keys(c.Thresholds) {
		if !in[t] {
			bad = append(bad, t)
		}
	}
	if len(bad) > 0 {
		sort.Strings(bad)
		return &ConfigError{Invariant: InvThresholdsCover, Keys: bad}
	}
	if bad = outside(c.FineClusterings, in); len(bad) > 0 {
		return &ConfigError{Invariant: InvFineSubset, Keys: bad}
	}
	if bad = outside(keys(c.Weights), in); len(bad) > 0 {
		return &ConfigError{Invariant: InvWeightsSubset, Keys: bad}
	}

	return nil
}

// Modalities returns the sorted union of distance and genotyping names.
func (c *Config) Modalities() []string {
	out := append(keys(c.Distances), keys(c.Genotyping)...)
	sort.Strings(out)

	return out
}

// Density is the correlation density selected by all_constraints.
func (c *Config) Density() model.Density { return model.DensityFor(c.AllConstraints) }

// SolverOptions applies the solver section over solver.DefaultOptions.
func (c *Config) SolverOptions() (solver.Options, error) {
	opts := solver.DefaultOptions()
	if c.Solver.Algorithm != "" {
		algo, err := solver.ParseAlgorithm(c.Solver.Algorithm)
		if err != nil {
			return opts, &ConfigError{Invariant: InvSchema, Keys: []string{"algorithm"}, Err: err}
		}
		opts.Algo = algo
	}
	opts.TimeLimit = c.Solver.TimeLimit
	if c.Solver.ExactLimit > 0 {
		opts.ExactLimit = c.Solver.ExactLimit
	}
	opts.Restarts = c.Solver.Restarts
	opts.Seed = c.Solver.Seed
	if c.Solver.MaxLPCells > 0 {
		opts.MaxLPCells = c.Solver.MaxLPCells
	}

	return opts, nil
}

func keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)

	return out
}

// intersect returns the sorted names present in both sorted lists.
func intersect(a, b []string) []string {
	var out []string
	for i, j := 0, 0; i < len(a) && j < len(b); {
		switch {
		case a[i] == b[j]:
			out = append(out, a[i])
			i++
			j++
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}

	return out
}

// outside returns the sorted distinct names not in set.
func outside(names []string, set map[string]bool) []string {
	var out []string
	seen := make(map[string]bool)
	for _, n := range names {
		if !set[n] && !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	sort.Strings(out)

	return out
}
