// Package config loads the run configuration.
//
// Precedence, lowest first: built-in defaults, the YAML file, WINLATTICE_*
// environment variables. Validate rejects values no stage can honor.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/winlattice/admissibility"
	"github.com/katalvlaran/winlattice/corpus"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "WINLATTICE_"

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid value")

// LayoutConfig tunes the layout solver.
type LayoutConfig struct {
	VocabularyCap int `yaml:"vocabulary_cap"`
	Iterations    int `yaml:"iterations"`
}

// LatticeConfig fixes the working window count.
type LatticeConfig struct {
	// K is the window count of the main lattice; 0 means the sweep's knee.
	K       int  `yaml:"k"`
	Reorder bool `yaml:"reorder"`
	TwoOpt  bool `yaml:"two_opt"`
}

// MetricConfig mirrors admissibility.Options in text form.
type MetricConfig struct {
	Tolerance int    `yaml:"tolerance"`
	Recovery  string `yaml:"recovery"`
	Cursor    string `yaml:"cursor"`
}

// SweepConfig drives model selection.
type SweepConfig struct {
	Ks               []int   `yaml:"ks"`
	OverheadBits     float64 `yaml:"overhead_bits"`
	FixedK           int     `yaml:"fixed_k"`
	PenaltyThreshold float64 `yaml:"penalty_threshold"`
}

// RobustnessConfig drives the robustness suite.
type RobustnessConfig struct {
	Trials          int      `yaml:"trials"`
	SourceThreshold float64  `yaml:"source_threshold"`
	Sources         []string `yaml:"sources"`
	HoldoutTrain    string   `yaml:"holdout_train"`
	HoldoutTest     string   `yaml:"holdout_test"`
}

// Config is the full run configuration.
type Config struct {
	Dataset     string `yaml:"dataset"`
	CorpusDir   string `yaml:"corpus_dir"`
	ArtifactDir string `yaml:"artifact_dir"`
	LogLevel    string `yaml:"log_level"`
	Seed        int64  `yaml:"seed"`
	Workers     int    `yaml:"workers"`

	Layout     LayoutConfig       `yaml:"layout"`
	Lattice    LatticeConfig      `yaml:"lattice"`
	Metric     MetricConfig       `yaml:"metric"`
	Sweep      SweepConfig        `yaml:"sweep"`
	Robustness RobustnessConfig   `yaml:"robustness"`
	Folios     *corpus.FolioTable `yaml:"folios,omitempty"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Dataset:     "corpus",
		CorpusDir:   "data",
		ArtifactDir: "artifacts",
		LogLevel:    "info",
		Seed:        1,
		Layout:      LayoutConfig{VocabularyCap: 400, Iterations: 200},
		Lattice:     LatticeConfig{Reorder: true},
		Metric:      MetricConfig{Tolerance: admissibility.DefaultTolerance, Recovery: "snap", Cursor: "reset"},
		Sweep: SweepConfig{
			Ks:               []int{2, 3, 4, 5, 6, 7, 8, 9, 10, 12, 14, 16, 20, 24},
			OverheadBits:     1,
			PenaltyThreshold: 0.1,
		},
		Robustness: RobustnessConfig{Trials: 200, SourceThreshold: 0.9},
	}
}

// Load reads path over the defaults (an empty path skips the file) and
// applies environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config.Load: %w", err)
		}
		if err = yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config.Load(%s): %w", path, err)
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from WINLATTICE_* variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	integer := func(name string, dst *int) error {
		v, ok := lookup(EnvPrefix + name)
		if !ok || strings.TrimSpace(v) == "" {
			return nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("config: %s%s=%q: %w", EnvPrefix, name, v, ErrInvalid)
		}
		*dst = n
		return nil
	}

	str("DATASET", &c.Dataset)
	str("CORPUS_DIR", &c.CorpusDir)
	str("ARTIFACT_DIR", &c.ArtifactDir)
	str("LOG_LEVEL", &c.LogLevel)
	str("RECOVERY", &c.Metric.Recovery)
	str("CURSOR", &c.Metric.Cursor)

	if v, ok := lookup(EnvPrefix + "SEED"); ok && strings.TrimSpace(v) != "" {
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return fmt.Errorf("config: %sSEED=%q: %w", EnvPrefix, v, ErrInvalid)
		}
		c.Seed = n
	}
	for _, f := range []struct {
		name string
		dst  *int
	}{
		{"WORKERS", &c.Workers},
		{"K", &c.Lattice.K},
		{"TOLERANCE", &c.Metric.Tolerance},
		{"TRIALS", &c.Robustness.Trials},
	} {
		if err := integer(f.name, f.dst); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks every field a stage depends on.
func (c Config) Validate() error {
	bad := func(field string, v any) error {
		return fmt.Errorf("config: %s=%v: %w", field, v, ErrInvalid)
	}
	switch {
	case strings.TrimSpace(c.Dataset) == "":
		return bad("dataset", c.Dataset)
	case strings.TrimSpace(c.ArtifactDir) == "":
		return bad("artifact_dir", c.ArtifactDir)
	case c.Layout.VocabularyCap < 0:
		return bad("layout.vocabulary_cap", c.Layout.VocabularyCap)
	case c.Layout.Iterations <= 0:
		return bad("layout.iterations", c.Layout.Iterations)
	case c.Lattice.K < 0:
		return bad("lattice.k", c.Lattice.K)
	case c.Metric.Tolerance < 0:
		return bad("metric.tolerance", c.Metric.Tolerance)
	case c.Sweep.OverheadBits < 0:
		return bad("sweep.overhead_bits", c.Sweep.OverheadBits)
	case c.Sweep.FixedK < 0:
		return bad("sweep.fixed_k", c.Sweep.FixedK)
	case c.Robustness.Trials <= 0:
		return bad("robustness.trials", c.Robustness.Trials)
	case c.Robustness.SourceThreshold < 0 || c.Robustness.SourceThreshold > 1:
		return bad("robustness.source_threshold", c.Robustness.SourceThreshold)
	}
	if c.Lattice.K == 0 && len(c.Sweep.Ks) == 0 {
		return bad("sweep.ks", "[] with lattice.k=0")
	}
	for _, k := range c.Sweep.Ks {
		if k < 1 {
			return bad("sweep.ks", k)
		}
	}
	if c.Robustness.HoldoutTrain != "" && c.Robustness.HoldoutTrain == c.Robustness.HoldoutTest {
		return bad("robustness.holdout_test", c.Robustness.HoldoutTest)
	}
	if _, err := c.AdmissibilityOptions(); err != nil {
		return err
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return bad("log_level", c.LogLevel)
	}
	return nil
}

// AdmissibilityOptions converts the metric section.
func (c Config) AdmissibilityOptions() (admissibility.Options, error) {
	o := admissibility.Options{Tolerance: c.Metric.Tolerance}
	switch strings.ToLower(c.Metric.Recovery) {
	case "", admissibility.SnapOnMiss.String():
		o.Recovery = admissibility.SnapOnMiss
	case admissibility.HoldOnMiss.String():
		o.Recovery = admissibility.HoldOnMiss
	default:
		return o, fmt.Errorf("config: metric.recovery=%q: %w", c.Metric.Recovery, ErrInvalid)
	}
	switch strings.ToLower(c.Metric.Cursor) {
	case "", admissibility.ResetPerLine.String():
		o.Cursor = admissibility.ResetPerLine
	case admissibility.CarryAcrossLines.String():
		o.Cursor = admissibility.CarryAcrossLines
	default:
		return o, fmt.Errorf("config: metric.cursor=%q: %w", c.Metric.Cursor, ErrInvalid)
	}
	return o, nil
}

// FolioTable returns the configured folio table or the built-in one.
func (c Config) FolioTable() corpus.FolioTable {
	if c.Folios != nil {
		return *c.Folios
	}
	return corpus.DefaultFolioTable()
}
