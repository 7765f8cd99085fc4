package traversal

import (
	"errors"
	"fmt"
	"sort"

	"github.com/katalvlaran/winlattice/admissibility"
	"github.com/katalvlaran/winlattice/corpus"
	"github.com/katalvlaran/winlattice/lattice"
	"github.com/katalvlaran/winlattice/matrix"
)

// BuildTransitions counts [prev][cur] for every consecutive pair of mapped
// tokens. Under ResetPerLine no pair spans a line boundary; under
// CarryAcrossLines the last mapped window of a line precedes the first of
// the next.
func BuildTransitions(c *corpus.Corpus, m *lattice.Map, policy admissibility.CursorPolicy) (*matrix.Dense, error) {
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("traversal.BuildTransitions: %w", err)
	}
	counts, err := matrix.NewDense(m.K(), m.K())
	if err != nil {
		return nil, fmt.Errorf("traversal.BuildTransitions: %w", err)
	}
	prev := -1
	for _, ln := range c.Lines() {
		if policy == admissibility.ResetPerLine {
			prev = -1
		}
		for _, tok := range ln.Tokens {
			w, ok := m.Window(tok)
			if !ok {
				continue
			}
			if prev >= 0 {
				if err = counts.Add(prev, w, 1); err != nil {
					return nil, fmt.Errorf("traversal.BuildTransitions: %w", err)
				}
			}
			prev = w
		}
	}
	return counts, nil
}

// SpectralOrder returns the windows of the symmetric weight matrix sorted by
// their Fiedler value (ties → lowest id). Zero-degree windows receive unit
// self-loops before the decomposition.
//
// Errors:
//   - ErrDegenerate when λ₂ is numerically zero or the eigen iteration fails.
func SpectralOrder(sym *matrix.Dense, eps float64) ([]int, error) {
	l, _, err := matrix.Laplacian(sym, true)
	if err != nil {
		return nil, fmt.Errorf("traversal.SpectralOrder: %w", err)
	}
	vec, lambda, err := matrix.Fiedler(l, eps)
	if err != nil {
		if errors.Is(err, matrix.ErrSingular) || errors.Is(err, matrix.ErrEigenFailed) {
			return nil, fmt.Errorf("traversal.SpectralOrder: λ₂=%.3g: %w (%v)", lambda, ErrDegenerate, err)
		}
		return nil, fmt.Errorf("traversal.SpectralOrder: %w", err)
	}
	order := make([]int, len(vec))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return vec[order[a]] < vec[order[b]]
	})
	return order, nil
}

// GreedyTour starts at the window with the largest total weight (its row
// sum, self-transitions included) and repeatedly appends the unvisited window with the heaviest edge to the
// last one. Every tie goes to the lowest id.
//
// Complexity: O(K²).
func GreedyTour(sym *matrix.Dense) []int {
	rows := sym.ToRows()
	k := len(rows)
	total := make([]float64, k)
	for i, row := range rows {
		for _, v := range row {
			total[i] += v
		}
	}
	start := 0
	for i := 1; i < k; i++ {
		if total[i] > total[start] {
			start = i
		}
	}
	visited := make([]bool, k)
	order := make([]int, 0, k)
	order = append(order, start)
	visited[start] = true
	var (
		last, next, j int
		best          float64
	)
	for len(order) < k {
		last, next, best = order[len(order)-1], -1, -1
		for j = 0; j < k; j++ {
			if !visited[j] && rows[last][j] > best {
				next, best = j, rows[last][j]
			}
		}
		visited[next] = true
		order = append(order, next)
	}
	return order
}

// Optimize derives both candidate orderings of m from c, scores each and
// adopts the larger strict improvement (spectral wins ties between the two).
// The adopted Permutation maps old window ids to new ones.
func Optimize(c *corpus.Corpus, m *lattice.Map, opts ...Option) (Result, error) {
	o := options{metric: admissibility.DefaultOptions(), eps: DefaultEigenEps}
	for _, fn := range opts {
		fn(&o)
	}

	baseline, err := admissibility.Corpus(c, m, o.metric, nil)
	if err != nil {
		return Result{}, fmt.Errorf("traversal.Optimize: %w", err)
	}
	res := Result{
		Baseline:    baseline,
		Adopted:     Original,
		Permutation: lattice.Identity(m.K()),
		Map:         m,
	}

	counts, err := BuildTransitions(c, m, o.metric.Cursor)
	if err != nil {
		return Result{}, fmt.Errorf("traversal.Optimize: %w", err)
	}
	if m.K() < 2 || counts.Sum() == 0 {
		res.Reason = ReasonNoReordering
		return res, nil
	}
	sym, err := matrix.Symmetrize(counts)
	if err != nil {
		return Result{}, fmt.Errorf("traversal.Optimize: %w", err)
	}

	var spectralMap, greedyMap *lattice.Map
	var spectralPerm, greedyPerm lattice.Permutation

	res.SpectralOrder, err = SpectralOrder(sym, o.eps)
	switch {
	case errors.Is(err, ErrDegenerate):
		res.Degenerate = true
		res.SpectralOrder = nil
	case err != nil:
		return Result{}, fmt.Errorf("traversal.Optimize: %w", err)
	default:
		if spectralMap, spectralPerm, res.Spectral, err = score(c, m, res.SpectralOrder, o.metric); err != nil {
			return Result{}, fmt.Errorf("traversal.Optimize: spectral: %w", err)
		}
	}

	res.GreedyOrder = GreedyTour(sym)
	if o.refine {
		res.GreedyOrder = TwoOpt(sym, res.GreedyOrder)
	}
	if greedyMap, greedyPerm, res.Greedy, err = score(c, m, res.GreedyOrder, o.metric); err != nil {
		return Result{}, fmt.Errorf("traversal.Optimize: greedy: %w", err)
	}

	spectralGain := -1
	if spectralMap != nil {
		spectralGain = res.Spectral.Admissible - baseline.Admissible
	}
	greedyGain := res.Greedy.Admissible - baseline.Admissible
	switch {
	case spectralGain > 0 && spectralGain >= greedyGain:
		res.Adopted, res.Permutation, res.Map, res.Reason = Spectral, spectralPerm, spectralMap, ReasonSpectral
	case greedyGain > 0:
		res.Adopted, res.Permutation, res.Map, res.Reason = Greedy, greedyPerm, greedyMap, ReasonGreedy
	default:
		res.Reason = ReasonNoImprovement
	}
	return res, nil
}

// score applies a visiting order to m and measures the reordered lattice.
func score(c *corpus.Corpus, m *lattice.Map, order []int, metric admissibility.Options) (*lattice.Map, lattice.Permutation, admissibility.Score, error) {
	perm, err := lattice.FromOrder(order)
	if err != nil {
		return nil, nil, admissibility.Score{}, err
	}
	next, err := m.Apply(perm)
	if err != nil {
		return nil, nil, admissibility.Score{}, err
	}
	s, err := admissibility.Corpus(c, next, metric, nil)
	if err != nil {
		return nil, nil, admissibility.Score{}, err
	}
	return next, perm, s, nil
}
