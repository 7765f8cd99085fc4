package selection

import (
	"math"
	"sort"

	"github.com/katalvlaran/winlattice/admissibility"
	"github.com/katalvlaran/winlattice/corpus"
	"github.com/katalvlaran/winlattice/lattice"
)

// ModelCost returns L(model) in bits: the window-id entropy of each
// frequency bucket weighted by its size, plus overhead·K per bucket.
// Unmapped tokens form their own symbol. Buckets and windows are summed in
// ascending order so the result is bit-identical across runs.
func ModelCost(c *corpus.Corpus, m *lattice.Map, overhead float64) float64 {
	k := m.K()
	// hist[b][w+1] counts tokens of bucket b in window w; slot 0 is unmapped.
	hist := make(map[int][]int)
	for tok, f := range c.Frequencies() {
		b := int(math.Floor(math.Log2(float64(f))))
		if hist[b] == nil {
			hist[b] = make([]int, k+1)
		}
		w, ok := m.Window(tok)
		if !ok {
			w = -1
		}
		hist[b][w+1]++
	}
	ids := make([]int, 0, len(hist))
	for b := range hist {
		ids = append(ids, b)
	}
	sort.Ints(ids)

	var total float64
	for _, b := range ids {
		n := 0
		for _, cnt := range hist[b] {
			n += cnt
		}
		var h float64
		for _, cnt := range hist[b] {
			if cnt == 0 {
				continue
			}
			p := float64(cnt) / float64(n)
			h -= p * math.Log2(p)
		}
		total += float64(n)*h + overhead*float64(k)
	}
	return total
}

// DataCost returns L(data|model) in bits and the zero-offset score. Hits
// cost log2 of the window size; misses and unmapped tokens cost log2 V.
func DataCost(c *corpus.Corpus, m *lattice.Map, metric admissibility.Options) (float64, admissibility.Score) {
	miss := math.Log2(float64(len(c.Frequencies())))
	var bits float64
	s := admissibility.Lines(c.Lines(), m, metric, nil, func(_ string, w int, hit bool) {
		if hit {
			bits += math.Log2(float64(m.Size(w)))
		} else {
			bits += miss
		}
	})
	bits += float64(c.TokenCount()-s.Total) * miss
	return bits, s
}

// Measure prices one lattice.
func Measure(c *corpus.Corpus, m *lattice.Map, metric admissibility.Options, overhead float64) Point {
	model := ModelCost(c, m, overhead)
	data, s := DataCost(c, m, metric)
	return Point{
		K:             m.K(),
		ModelCost:     model,
		DataCost:      data,
		TotalCost:     model + data,
		BitsPerToken:  (model + data) / float64(c.TokenCount()),
		Admissibility: s.Ratio(),
	}
}
