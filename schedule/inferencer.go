package schedule

import (
	"context"
	"fmt"

	"github.com/katalvlaran/winlattice/admissibility"
	"github.com/katalvlaran/winlattice/corpus"
	"github.com/katalvlaran/winlattice/lattice"
)

// Inferencer holds the oracle and group modes for one (corpus, lattice).
type Inferencer struct {
	c      *corpus.Corpus
	m      *lattice.Map
	metric admissibility.Options
	oracle []LineResult
	modes  map[Provenance]map[string]int
}

// Infer runs the oracle and computes the mode of every Grouping.
func Infer(ctx context.Context, c *corpus.Corpus, m *lattice.Map, opts ...Option) (*Inferencer, error) {
	o := gather(opts)
	oracle, err := Oracle(ctx, c, m, opts...)
	if err != nil {
		return nil, err
	}
	in := &Inferencer{
		c:      c,
		m:      m,
		metric: o.metric,
		oracle: oracle,
		modes:  make(map[Provenance]map[string]int, len(Groupings)),
	}
	for _, g := range Groupings {
		in.modes[g.Name] = in.groupModes(g)
	}
	return in, nil
}

// groupModes returns the most frequent oracle offset per group key over
// mapped lines, lowest offset on ties.
func (in *Inferencer) groupModes(g Grouping) map[string]int {
	hist := make(map[string][]int)
	k := in.m.K()
	for i, r := range in.oracle {
		if !r.Mapped {
			continue
		}
		key := g.Key(in.c.FolioOf(i))
		h, ok := hist[key]
		if !ok {
			h = make([]int, k)
			hist[key] = h
		}
		h[r.Offset]++
	}
	modes := make(map[string]int, len(hist))
	for key, h := range hist {
		best := 0
		for off := 1; off < k; off++ {
			if h[off] > h[best] {
				best = off
			}
		}
		modes[key] = best
	}
	return modes
}

// Lines returns the oracle results in line order.
func (in *Inferencer) Lines() []LineResult { return in.oracle }

// Mode returns the mode of grouping g for key.
func (in *Inferencer) Mode(g Provenance, key string) (int, bool) {
	off, ok := in.modes[g][key]
	return off, ok
}

// GroupResolver resolves a line through the mode of its group under g.
func (in *Inferencer) GroupResolver(g Grouping) Resolver {
	return func(i int) (int, Provenance, bool) {
		off, ok := in.modes[g.Name][g.Key(in.c.FolioOf(i))]
		return off, g.Name, ok
	}
}

// GlobalResolver always yields: the corpus-wide mode, or 0 when no line
// is mapped.
func (in *Inferencer) GlobalResolver() Resolver {
	return func(int) (int, Provenance, bool) {
		return in.modes[FromGlobal][""], FromGlobal, true
	}
}

// CarryResolver yields the oracle offset of the nearest preceding mapped
// line of the same folio.
func (in *Inferencer) CarryResolver() Resolver {
	lines := in.c.Lines()
	return func(i int) (int, Provenance, bool) {
		for j := i - 1; j >= 0 && lines[j].Folio == lines[i].Folio; j-- {
			if in.oracle[j].Mapped {
				return in.oracle[j].Offset, FromCarry, true
			}
		}
		return 0, FromCarry, false
	}
}

// Rules returns the predictive rules in evaluation order.
func (in *Inferencer) Rules() []Rule {
	group := func(name Provenance) Resolver {
		for _, g := range Groupings {
			if g.Name == name {
				return in.GroupResolver(g)
			}
		}
		panic(fmt.Sprintf("schedule: unknown grouping %q", name))
	}
	global := in.GlobalResolver()
	return []Rule{
		{Name: "global", Chain: []Resolver{global}},
		{Name: "section", Chain: []Resolver{group(FromSection), global}},
		{Name: "quire", Chain: []Resolver{group(FromQuire), global}},
		{Name: "hand", Chain: []Resolver{group(FromHand), global}},
		{Name: "page", Chain: []Resolver{group(FromPage), global}},
		{Name: "carry", Chain: []Resolver{in.CarryResolver(), group(FromPage), global}},
	}
}

// OracleRule returns the per-line oracle as a rule.
func (in *Inferencer) OracleRule() Rule {
	return Rule{Name: "oracle", Chain: []Resolver{func(i int) (int, Provenance, bool) {
		return in.oracle[i].Offset, FromLine, true
	}}}
}

// Predict resolves every line through rule. Unmapped lines get offset 0
// with provenance "line".
func (in *Inferencer) Predict(rule Rule) []Prediction {
	out := make([]Prediction, len(in.oracle))
	for i := range out {
		if !in.oracle[i].Mapped {
			out[i] = Prediction{Offset: 0, Provenance: FromLine}
			continue
		}
		for _, res := range rule.Chain {
			if off, tag, ok := res(i); ok {
				out[i] = Prediction{Offset: off, Provenance: tag}
				break
			}
		}
	}
	return out
}

// Score measures the corpus under rule's predicted offsets.
func (in *Inferencer) Score(rule Rule) admissibility.Score {
	pred := in.Predict(rule)
	return admissibility.Lines(in.c.Lines(), in.m, in.metric, func(i int) int { return pred[i].Offset }, nil)
}

// Evaluate scores the baseline, the oracle and every rule. The best rule is
// the one recovering the largest fraction, earliest rule on ties.
func (in *Inferencer) Evaluate() Report {
	rep := Report{
		Baseline: admissibility.Lines(in.c.Lines(), in.m, in.metric, nil, nil),
		Oracle:   in.Score(in.OracleRule()),
	}
	gain := rep.Oracle.Admissible - rep.Baseline.Admissible
	bestAt := -1
	for _, rule := range in.Rules() {
		s := in.Score(rule)
		rr := RuleReport{Rule: rule.Name, Score: s, Ratio: s.Ratio(), Provenance: make(map[Provenance]int)}
		if gain != 0 {
			rr.Recovered = float64(s.Admissible-rep.Baseline.Admissible) / float64(gain)
		}
		for _, p := range in.Predict(rule) {
			rr.Provenance[p.Provenance]++
		}
		rep.Rules = append(rep.Rules, rr)
		if bestAt < 0 || rr.Recovered > rep.Rules[bestAt].Recovered {
			bestAt = len(rep.Rules) - 1
		}
	}
	rep.Best = rep.Rules[bestAt].Rule
	return rep
}

// Rule returns the rule with the given name ("oracle" included).
func (in *Inferencer) Rule(name string) (Rule, bool) {
	if name == "oracle" {
		return in.OracleRule(), true
	}
	for _, r := range in.Rules() {
		if r.Name == name {
			return r, true
		}
	}
	return Rule{}, false
}

// Schedule returns the line_schedule records for rule.
func (in *Inferencer) Schedule(rule Rule) []LineRecord {
	pred := in.Predict(rule)
	lines := in.c.Lines()
	out := make([]LineRecord, len(lines))
	for i, ln := range lines {
		out[i] = LineRecord{
			Folio:       ln.Folio,
			Line:        ln.Index,
			Offset:      pred[i].Offset,
			Provenance:  pred[i].Provenance,
			OracleScore: in.oracle[i].Score.Ratio(),
		}
	}
	return out
}
