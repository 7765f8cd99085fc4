package robustness

import (
	"errors"

	"github.com/katalvlaran/winlattice/admissibility"
	"github.com/katalvlaran/winlattice/corpus"
)

var (
	// ErrBadTrials indicates a non-positive trial count.
	ErrBadTrials = errors.New("robustness: trials must be > 0")

	// ErrNoReference indicates a reference source missing from the set.
	ErrNoReference = errors.New("robustness: reference source not found")

	// ErrSameSection indicates overlapping train and test sections.
	ErrSameSection = errors.New("robustness: train and test sections must differ")
)

// Defaults.
const (
	DefaultTrials          = 200
	DefaultSourceThreshold = 0.9
)

// DefaultSeed is the parent seed of the null trial streams.
const DefaultSeed int64 = 1

// NullResult summarizes one permutation-null test.
type NullResult struct {
	Observed float64 `json:"observed" yaml:"observed"`
	Mean     float64 `json:"mean" yaml:"mean"`
	Std      float64 `json:"std" yaml:"std"`
	Z        float64 `json:"z" yaml:"z"`
	P        float64 `json:"p" yaml:"p"`
	Trials   int     `json:"trials" yaml:"trials"`
	AtLeast  int     `json:"at_least" yaml:"at_least"`
}

// Source is one transcription of the corpus.
type Source struct {
	Name   string
	Corpus *corpus.Corpus
}

// SourceRecord is one per-source robustness record.
type SourceRecord struct {
	Source        string  `json:"source" yaml:"source"`
	Admissibility float64 `json:"admissibility" yaml:"admissibility"`
	Extended      float64 `json:"extended_admissibility" yaml:"extended_admissibility"`
	Ratio         float64 `json:"ratio_to_reference" yaml:"ratio_to_reference"`
	Z             float64 `json:"z" yaml:"z"`
	P             float64 `json:"p" yaml:"p"`
	Tokens        int     `json:"tokens" yaml:"tokens"`
}

// CrossResult is the outcome of CrossTranscription.
type CrossResult struct {
	Reference         string         `json:"reference" yaml:"reference"`
	Sources           []SourceRecord `json:"sources" yaml:"sources"`
	MeanRatio         float64        `json:"mean_ratio" yaml:"mean_ratio"`
	Threshold         float64        `json:"threshold" yaml:"threshold"`
	SourceIndependent bool           `json:"source_independent" yaml:"source_independent"`
}

// HoldoutResult is the outcome of Holdout.
type HoldoutResult struct {
	Train          string  `json:"train" yaml:"train"`
	Test           string  `json:"test" yaml:"test"`
	K              int     `json:"k" yaml:"k"`
	TrainScore     float64 `json:"train_admissibility" yaml:"train_admissibility"`
	TestScore      float64 `json:"test_admissibility" yaml:"test_admissibility"`
	Coverage       float64 `json:"coverage" yaml:"coverage"`
	Generalization float64 `json:"generalization" yaml:"generalization"`
}

// SectionRecord compares the global and the section-local ordering.
type SectionRecord struct {
	Section string              `json:"section" yaml:"section"`
	Global  admissibility.Score `json:"global" yaml:"global"`
	Local   admissibility.Score `json:"local" yaml:"local"`
	Adopted string              `json:"adopted" yaml:"adopted"`
}

// SectionResult is the outcome of SectionAware.
type SectionResult struct {
	Sections     []SectionRecord     `json:"sections" yaml:"sections"`
	PooledGlobal admissibility.Score `json:"pooled_global" yaml:"pooled_global"`
	PooledLocal  admissibility.Score `json:"pooled_local" yaml:"pooled_local"`
}

// Option configures the tests.
type Option func(*options)

type options struct {
	metric    admissibility.Options
	trials    int
	seed      int64
	workers   int
	threshold float64
}

func gather(opts []Option) options {
	o := options{
		metric:    admissibility.DefaultOptions(),
		trials:    DefaultTrials,
		seed:      DefaultSeed,
		threshold: DefaultSourceThreshold,
	}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// WithMetric sets the admissibility options.
func WithMetric(m admissibility.Options) Option { return func(o *options) { o.metric = m } }

// WithTrials sets the number of null trials.
func WithTrials(n int) Option { return func(o *options) { o.trials = n } }

// WithSeed sets the parent seed of the null trial streams.
func WithSeed(seed int64) Option { return func(o *options) { o.seed = seed } }

// WithWorkers bounds the trial fan-out. Non-positive means GOMAXPROCS.
func WithWorkers(n int) Option { return func(o *options) { o.workers = n } }

// WithThreshold sets the mean-ratio threshold for source independence.
func WithThreshold(t float64) Option { return func(o *options) { o.threshold = t } }
