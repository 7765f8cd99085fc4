package schedule

import (
	"strconv"

	"github.com/katalvlaran/winlattice/admissibility"
	"github.com/katalvlaran/winlattice/corpus"
)

// Provenance records which granularity supplied a line's offset.
type Provenance string

const (
	FromLine    Provenance = "line"
	FromPage    Provenance = "page"
	FromQuire   Provenance = "quire"
	FromSection Provenance = "section"
	FromHand    Provenance = "hand"
	FromGlobal  Provenance = "global"
	FromCarry   Provenance = "carry"
)

// Grouping maps a line's folio to a group key.
type Grouping struct {
	Name Provenance
	Key  func(corpus.Folio) string
}

// Groupings is the closed set of aggregation strategies, coarse to fine.
var Groupings = []Grouping{
	{Name: FromGlobal, Key: func(corpus.Folio) string { return "" }},
	{Name: FromSection, Key: func(f corpus.Folio) string { return f.Section }},
	{Name: FromQuire, Key: func(f corpus.Folio) string { return strconv.Itoa(f.Quire) }},
	{Name: FromHand, Key: func(f corpus.Folio) string { return f.Hand }},
	{Name: FromPage, Key: func(f corpus.Folio) string { return f.ID }},
}

// LineResult is the oracle outcome for one line.
type LineResult struct {
	Offset int
	Score  admissibility.Score
	Mapped bool
}

// Resolver proposes an offset for line i, or reports ok=false to defer to
// the next resolver in the chain.
type Resolver func(i int) (offset int, tag Provenance, ok bool)

// Rule is a named resolver chain.
type Rule struct {
	Name  string
	Chain []Resolver
}

// Prediction is one line's resolved offset.
type Prediction struct {
	Offset     int
	Provenance Provenance
}

// RuleReport is the evaluation of one rule.
type RuleReport struct {
	Rule       string              `json:"rule" yaml:"rule"`
	Score      admissibility.Score `json:"score" yaml:"score"`
	Ratio      float64             `json:"ratio" yaml:"ratio"`
	Recovered  float64             `json:"recovered" yaml:"recovered"`
	Provenance map[Provenance]int  `json:"provenance" yaml:"provenance"`
}

// Report is the outcome of Evaluate.
type Report struct {
	Baseline admissibility.Score `json:"baseline" yaml:"baseline"`
	Oracle   admissibility.Score `json:"oracle" yaml:"oracle"`
	Rules    []RuleReport        `json:"rules" yaml:"rules"`
	Best     string              `json:"best" yaml:"best"`
}

// LineRecord is one entry of the line_schedule record.
type LineRecord struct {
	Folio       string     `json:"folio" yaml:"folio"`
	Line        int        `json:"line" yaml:"line"`
	Offset      int        `json:"offset" yaml:"offset"`
	Provenance  Provenance `json:"provenance" yaml:"provenance"`
	OracleScore float64    `json:"oracle_score" yaml:"oracle_score"`
}

// Option configures Infer.
type Option func(*options)

type options struct {
	metric  admissibility.Options
	workers int
}

// WithMetric sets the admissibility options (tolerance, recovery, cursor).
func WithMetric(o admissibility.Options) Option {
	return func(opts *options) { opts.metric = o }
}

// WithTolerance overrides only the tolerance of the metric.
func WithTolerance(tol int) Option {
	return func(opts *options) { opts.metric.Tolerance = tol }
}

// WithWorkers bounds the oracle fan-out. Non-positive means GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(opts *options) { opts.workers = n }
}
