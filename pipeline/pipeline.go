package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/katalvlaran/winlattice/admissibility"
	"github.com/katalvlaran/winlattice/artifact"
	"github.com/katalvlaran/winlattice/cluster"
	"github.com/katalvlaran/winlattice/config"
	"github.com/katalvlaran/winlattice/corpus"
	"github.com/katalvlaran/winlattice/lattice"
	"github.com/katalvlaran/winlattice/layout"
	"github.com/katalvlaran/winlattice/robustness"
	"github.com/katalvlaran/winlattice/schedule"
	"github.com/katalvlaran/winlattice/selection"
	"github.com/katalvlaran/winlattice/traversal"
)

// ErrNoWriter indicates a pipeline built without an artifact writer.
var ErrNoWriter = errors.New("pipeline: artifact writer is required")

// Deps are the collaborators of a run.
type Deps struct {
	Lines    corpus.Reader
	Evidence corpus.EvidenceReader // optional; nil derives bigram evidence
	Writer   *artifact.Writer
	Reader   *artifact.Reader // optional; nil reads back from the writer's root
	Logger   *slog.Logger // optional; nil means slog.Default()
	Status   io.Writer    // optional; receives one status line per stage
}

// Pipeline runs all stages for one configuration.
type Pipeline struct {
	cfg    config.Config
	metric admissibility.Options
	deps   Deps
	reader *artifact.Reader
	logger *slog.Logger
}

// Result collects every stage output of Run.
type Result struct {
	Corpus     *corpus.Corpus
	Layout     layout.Layout
	Sweep      SweepRecord
	K          int
	Clustered  *lattice.Map
	Traversal  traversal.Result
	Schedule   schedule.Report
	Robustness RobustnessRecord
}

// New validates cfg and wires the collaborators.
func New(cfg config.Config, deps Deps) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("pipeline.New: %w", err)
	}
	if deps.Writer == nil {
		return nil, ErrNoWriter
	}
	if deps.Lines == nil {
		deps.Lines = corpus.FileReader{Dir: cfg.CorpusDir}
	}
	metric, err := cfg.AdmissibilityOptions()
	if err != nil {
		return nil, fmt.Errorf("pipeline.New: %w", err)
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	reader := deps.Reader
	if reader == nil {
		reader = artifact.NewReader(deps.Writer.Root())
	}
	return &Pipeline{
		cfg:    cfg,
		metric: metric,
		deps:   deps,
		reader: reader,
		logger: logger.With("dataset", cfg.Dataset, "run_id", deps.Writer.RunID()),
	}, nil
}

// stage wraps one step with timing, logging and a status line.
func (p *Pipeline) stage(name string, fn func() ([]any, error)) error {
	start := time.Now()
	p.logger.Debug("stage started", "stage", name)
	kv, err := fn()
	writeStatus(p.deps.Status, name, err, kv...)
	if err != nil {
		p.logger.Error("stage failed", "stage", name, "error", err, "elapsed", time.Since(start))
		return fmt.Errorf("%s: %w", name, err)
	}
	p.logger.Info("stage complete", append([]any{"stage", name, "elapsed", time.Since(start)}, kv...)...)
	return nil
}

// Run executes every stage in order and stops at the first failure.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	res := &Result{}

	evidence, err := p.loadStage(res)
	if err != nil {
		return res, err
	}

	if err := p.stage("layout", func() ([]any, error) {
		var (
			rec LayoutRecord
			err error
		)
		res.Layout, rec, err = p.SolveLayout(res.Corpus, evidence)
		if err != nil {
			return nil, err
		}
		path, err := p.deps.Writer.Write(PathLayout, rec)
		return []any{"tokens", len(res.Layout), "edges", rec.Edges, "path", path}, err
	}); err != nil {
		return res, err
	}

	if err := p.stage("sweep", func() ([]any, error) {
		var err error
		res.Sweep, err = p.Sweep(ctx, res.Corpus, res.Layout)
		if err != nil {
			return nil, err
		}
		path, err := p.deps.Writer.Write(PathSweep, res.Sweep)
		kv := []any{"points", len(res.Sweep.Points), "knee", res.Sweep.Knee.K, "agree", res.Sweep.Knee.Agree}
		if pen := res.Sweep.Penalty; pen != nil {
			kv = append(kv, "fixed_k", pen.FixedK, "delta_bpt", pen.DeltaBitsPerToken, "justified", pen.Justified)
		}
		return append(kv, "path", path), err
	}); err != nil {
		return res, err
	}

	if err := p.stage("cluster", func() ([]any, error) {
		res.K = p.cfg.Lattice.K
		if res.K == 0 {
			res.K = res.Sweep.Knee.K
		}
		var err error
		res.Clustered, err = cluster.Cluster(res.Layout, res.K, cluster.WithSeed(p.cfg.Seed))
		if err != nil {
			return nil, err
		}
		empty := 0
		for _, n := range res.Clustered.Sizes() {
			if n == 0 {
				empty++
			}
		}
		return []any{"k", res.K, "tokens", res.Clustered.Len(), "empty_windows", empty}, nil
	}); err != nil {
		return res, err
	}

	if err := p.stage("traversal", func() ([]any, error) {
		var err error
		res.Traversal, err = p.Reorder(res.Corpus, res.Clustered)
		if err != nil {
			return nil, err
		}
		if err = p.persistLattice(res.Traversal); err != nil {
			return nil, err
		}
		t := res.Traversal
		return []any{"adopted", t.Adopted, "reordered", !t.Permutation.IsIdentity(), "baseline", t.Baseline.Ratio(), "score", t.Score().Ratio(),
			"degenerate", t.Degenerate, "reason", t.Reason}, nil
	}); err != nil {
		return res, err
	}

	if err := p.scheduleStage(ctx, res); err != nil {
		return res, err
	}
	if err := p.robustnessStage(ctx, res); err != nil {
		return res, err
	}
	return res, nil
}

// RunFromLattice skips layout, sweep, cluster and traversal: it loads the
// lattice persisted under from ("latest" or a run id) in the artifact root
// and runs the schedule and robustness stages against it.
func (p *Pipeline) RunFromLattice(ctx context.Context, from string) (*Result, error) {
	res := &Result{}
	if _, err := p.loadStage(res); err != nil {
		return res, err
	}

	if err := p.stage("lattice", func() ([]any, error) {
		m, err := p.LoadLattice(from)
		if err != nil {
			return nil, err
		}
		base, err := admissibility.Corpus(res.Corpus, m, p.metric, nil)
		if err != nil {
			return nil, err
		}
		res.K, res.Clustered = m.K(), m
		res.Traversal = keep(m, base, "loaded from "+from)
		return []any{"from", from, "k", m.K(), "tokens", m.Len(), "baseline", base.Ratio()}, nil
	}); err != nil {
		return res, err
	}

	if err := p.scheduleStage(ctx, res); err != nil {
		return res, err
	}
	if err := p.robustnessStage(ctx, res); err != nil {
		return res, err
	}
	return res, nil
}

// LoadLattice rebuilds the lattice persisted by an earlier run. from is
// LatestDir or a run id. Absent records surface as *artifact.MissingArtifactError;
// records that disagree with each other as *lattice.ConsistencyError.
func (p *Pipeline) LoadLattice(from string) (*lattice.Map, error) {
	read := p.reader.Read
	if from != artifact.LatestDir {
		read = func(path string, v any) (artifact.Envelope, error) { return p.reader.ReadRun(from, path, v) }
	}
	var rec LatticeRecord
	if _, err := read(PathLatticeMap, &rec); err != nil {
		return nil, err
	}
	var contents map[int][]string
	if _, err := read(PathWindowContents, &contents); err != nil {
		return nil, err
	}
	return lattice.FromRecords(rec.K, rec.LatticeMap, contents)
}

func (p *Pipeline) loadStage(res *Result) ([]corpus.Evidence, error) {
	var evidence []corpus.Evidence
	err := p.stage("load", func() ([]any, error) {
		var err error
		res.Corpus, evidence, err = p.Load()
		if err != nil {
			return nil, err
		}
		return []any{"lines", res.Corpus.Len(), "tokens", res.Corpus.TokenCount(),
			"vocabulary", len(res.Corpus.Vocabulary()), "evidence", len(evidence)}, nil
	})
	return evidence, err
}

func (p *Pipeline) scheduleStage(ctx context.Context, res *Result) error {
	return p.stage("schedule", func() ([]any, error) {
		var err error
		res.Schedule, err = p.Schedule(ctx, res.Corpus, res.Traversal.Map)
		if err != nil {
			return nil, err
		}
		kv := []any{"baseline", res.Schedule.Baseline.Ratio(), "oracle", res.Schedule.Oracle.Ratio(), "best", res.Schedule.Best}
		for _, rr := range res.Schedule.Rules {
			kv = append(kv, "recovered_"+rr.Rule, rr.Recovered)
		}
		return kv, nil
	})
}

func (p *Pipeline) robustnessStage(ctx context.Context, res *Result) error {
	return p.stage("robustness", func() ([]any, error) {
		var err error
		res.Robustness, err = p.Robustness(ctx, res.Corpus, res.Traversal.Map, res.K)
		if err != nil {
			return nil, err
		}
		path, err := p.deps.Writer.Write(PathRobustness, res.Robustness)
		r := res.Robustness
		return []any{"z", r.Null.Z, "p", r.Null.P, "mean_ratio", r.Cross.MeanRatio,
			"source_independent", r.Cross.SourceIndependent, "path", path}, err
	})
}

// Load reads the corpus and its evidence. Missing or empty evidence falls
// back to the corpus bigrams.
func (p *Pipeline) Load() (*corpus.Corpus, []corpus.Evidence, error) {
	lines, err := p.deps.Lines.Lines(p.cfg.Dataset)
	if err != nil {
		return nil, nil, err
	}
	c, err := corpus.New(p.cfg.Dataset, lines, p.cfg.FolioTable())
	if err != nil {
		return nil, nil, err
	}
	var ev []corpus.Evidence
	if p.deps.Evidence != nil {
		if ev, err = p.deps.Evidence.Evidence(p.cfg.Dataset); err != nil {
			return nil, nil, err
		}
	}
	if len(ev) == 0 {
		p.logger.Info("no external evidence, deriving bigrams")
		ev = layout.EvidenceFromCorpus(c)
	}
	return c, ev, nil
}

// SolveLayout embeds the capped vocabulary.
func (p *Pipeline) SolveLayout(c *corpus.Corpus, ev []corpus.Evidence) (layout.Layout, LayoutRecord, error) {
	s := layout.NewSolver(layout.WithSeed(p.cfg.Seed))
	if err := s.Ingest(ev, c, p.cfg.Layout.VocabularyCap); err != nil {
		return nil, LayoutRecord{}, err
	}
	lay, err := s.Solve(p.cfg.Layout.Iterations)
	if err != nil {
		return nil, LayoutRecord{}, err
	}
	return lay, LayoutRecord{Dataset: c.Dataset(), Iterations: p.cfg.Layout.Iterations, Edges: s.Edges(), Positions: lay}, nil
}

// Sweep prices every configured K and picks the knee. A configured
// fixed K is priced against it.
func (p *Pipeline) Sweep(ctx context.Context, c *corpus.Corpus, lay layout.Layout) (SweepRecord, error) {
	ks := append([]int(nil), p.cfg.Sweep.Ks...)
	if p.cfg.Lattice.K > 0 {
		ks = append(ks, p.cfg.Lattice.K)
	}
	if p.cfg.Sweep.FixedK > 0 {
		ks = append(ks, p.cfg.Sweep.FixedK)
	}
	b := selection.LayoutBuilder{Layout: lay, Seed: p.cfg.Seed, Reorder: p.cfg.Lattice.Reorder, Metric: p.metric}
	points, err := selection.Sweep(ctx, c, b, ks,
		selection.WithMetric(p.metric),
		selection.WithOverheadBits(p.cfg.Sweep.OverheadBits),
		selection.WithWorkers(p.cfg.Workers))
	if err != nil {
		return SweepRecord{}, err
	}
	knee, err := selection.Knee(points)
	if err != nil {
		return SweepRecord{}, err
	}
	rec := SweepRecord{Points: points, Knee: knee}
	if p.cfg.Sweep.FixedK > 0 {
		pen, err := selection.Penalty(points, p.cfg.Sweep.FixedK, knee.K, p.cfg.Sweep.PenaltyThreshold)
		if err != nil {
			return SweepRecord{}, err
		}
		rec.Penalty = &pen
	}
	return rec, nil
}

// Reorder runs the traversal optimizer, or keeps m when reordering is off.
func (p *Pipeline) Reorder(c *corpus.Corpus, m *lattice.Map) (traversal.Result, error) {
	if !p.cfg.Lattice.Reorder {
		base, err := admissibility.Corpus(c, m, p.metric, nil)
		if err != nil {
			return traversal.Result{}, err
		}
		return keep(m, base, "reordering disabled"), nil
	}
	return traversal.Optimize(c, m, traversal.WithMetric(p.metric), traversal.WithTwoOpt(p.cfg.Lattice.TwoOpt))
}

// keep reports m itself as the adopted ordering.
func keep(m *lattice.Map, base admissibility.Score, reason string) traversal.Result {
	return traversal.Result{
		Baseline:    base,
		Adopted:     traversal.Original,
		Permutation: lattice.Identity(m.K()),
		Reason:      reason,
		Map:         m,
	}
}

func (p *Pipeline) persistLattice(t traversal.Result) error {
	fwd, inv := t.Map.Records()
	if _, err := p.deps.Writer.Write(PathLatticeMap, LatticeRecord{K: t.Map.K(), LatticeMap: fwd}); err != nil {
		return err
	}
	if _, err := p.deps.Writer.Write(PathWindowContents, inv); err != nil {
		return err
	}
	_, err := p.deps.Writer.Write(PathPermutation, t)
	return err
}

// Schedule infers offsets on m, persists the report and the best rule's
// line schedule.
func (p *Pipeline) Schedule(ctx context.Context, c *corpus.Corpus, m *lattice.Map) (schedule.Report, error) {
	in, err := schedule.Infer(ctx, c, m, schedule.WithMetric(p.metric), schedule.WithWorkers(p.cfg.Workers))
	if err != nil {
		return schedule.Report{}, err
	}
	rep := in.Evaluate()
	if _, err = p.deps.Writer.Write(PathScheduleReport, rep); err != nil {
		return schedule.Report{}, err
	}
	rule, _ := in.Rule(rep.Best)
	if _, err = p.deps.Writer.Write(PathLineSchedule, ScheduleRecord{Rule: rule.Name, Lines: in.Schedule(rule)}); err != nil {
		return schedule.Report{}, err
	}
	return rep, nil
}

// Robustness runs the permutation null, cross-transcription over the
// configured sources, the optional holdout and the section-aware test.
func (p *Pipeline) Robustness(ctx context.Context, c *corpus.Corpus, m *lattice.Map, k int) (RobustnessRecord, error) {
	opts := []robustness.Option{
		robustness.WithMetric(p.metric),
		robustness.WithTrials(p.cfg.Robustness.Trials),
		robustness.WithSeed(p.cfg.Seed),
		robustness.WithWorkers(p.cfg.Workers),
		robustness.WithThreshold(p.cfg.Robustness.SourceThreshold),
	}
	var (
		rec RobustnessRecord
		err error
	)
	if rec.Null, err = robustness.PermutationNull(ctx, c, m, opts...); err != nil {
		return rec, err
	}

	sources := []robustness.Source{{Name: c.Dataset(), Corpus: c}}
	for _, id := range p.cfg.Robustness.Sources {
		if id == c.Dataset() {
			continue
		}
		lines, err := p.deps.Lines.Lines(id)
		if err != nil {
			return rec, fmt.Errorf("source %s: %w", id, err)
		}
		sc, err := corpus.New(id, lines, p.cfg.FolioTable())
		if err != nil {
			return rec, fmt.Errorf("source %s: %w", id, err)
		}
		sources = append(sources, robustness.Source{Name: id, Corpus: sc})
	}
	if rec.Cross, err = robustness.CrossTranscription(ctx, sources, c.Dataset(), m, opts...); err != nil {
		return rec, err
	}

	if train, test := p.cfg.Robustness.HoldoutTrain, p.cfg.Robustness.HoldoutTest; train != "" && test != "" {
		b := selection.CorpusBuilder{
			Cap:        p.cfg.Layout.VocabularyCap,
			Iterations: p.cfg.Layout.Iterations,
			Seed:       p.cfg.Seed,
			Reorder:    p.cfg.Lattice.Reorder,
			Metric:     p.metric,
		}
		h, err := robustness.Holdout(ctx, c, train, test, b, k, opts...)
		if err != nil {
			return rec, err
		}
		rec.Holdout = &h
	}

	if rec.Sections, err = robustness.SectionAware(c, m, opts...); err != nil {
		return rec, err
	}
	return rec, nil
}
