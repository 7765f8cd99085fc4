package corpus

import (
	"fmt"
	"sort"
	"strings"
)

// Corpus is an immutable snapshot of one dataset.
// Lines keep their source order; folio metadata is resolved once at construction.
type Corpus struct {
	dataset string
	lines   []Line
	folios  map[string]Folio
	order   []string // section labels in table order, restricted to present ones
	tokens  int
}

// New builds a Corpus from lines, resolving every folio through table.
// Empty tokens are dropped; lines may end up empty and are kept (they still
// receive schedule entries downstream).
//
// Errors:
//   - ErrEmptyCorpus when there are no lines or no tokens at all.
//   - ErrBadFolioID for a malformed folio id.
func New(dataset string, lines []Line, table FolioTable) (*Corpus, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("corpus.New(%s): %w", dataset, ErrEmptyCorpus)
	}
	c := &Corpus{
		dataset: dataset,
		lines:   make([]Line, 0, len(lines)),
		folios:  make(map[string]Folio),
	}
	for _, ln := range lines {
		if _, ok := c.folios[ln.Folio]; !ok {
			f, err := table.Resolve(ln.Folio)
			if err != nil {
				return nil, fmt.Errorf("corpus.New(%s): %w", dataset, err)
			}
			c.folios[ln.Folio] = f
		}
		toks := make([]string, 0, len(ln.Tokens))
		for _, tok := range ln.Tokens {
			if tok = strings.TrimSpace(tok); tok != "" {
				toks = append(toks, tok)
			}
		}
		c.tokens += len(toks)
		c.lines = append(c.lines, Line{Folio: ln.Folio, Index: ln.Index, Tokens: toks})
	}
	if c.tokens == 0 {
		return nil, fmt.Errorf("corpus.New(%s): %w", dataset, ErrEmptyCorpus)
	}

	present := make(map[string]bool)
	for _, f := range c.folios {
		present[f.Section] = true
	}
	for _, label := range append(table.Sections.Labels(), UnknownLabel) {
		if present[label] {
			c.order = append(c.order, label)
		}
	}
	return c, nil
}

// Dataset returns the dataset id.
func (c *Corpus) Dataset() string { return c.dataset }

// Lines returns the lines in source order. Callers must not mutate them.
func (c *Corpus) Lines() []Line { return c.lines }

// Len returns the number of lines.
func (c *Corpus) Len() int { return len(c.lines) }

// TokenCount returns the number of token occurrences.
func (c *Corpus) TokenCount() int { return c.tokens }

// Folio returns the metadata for a folio id present in the corpus.
func (c *Corpus) Folio(id string) Folio { return c.folios[id] }

// FolioOf returns the metadata of line i.
func (c *Corpus) FolioOf(i int) Folio { return c.folios[c.lines[i].Folio] }

// Sections returns the section labels present, in range-table order.
func (c *Corpus) Sections() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Frequencies counts token occurrences.
func (c *Corpus) Frequencies() map[string]int {
	freq := make(map[string]int)
	for _, ln := range c.lines {
		for _, tok := range ln.Tokens {
			freq[tok]++
		}
	}
	return freq
}

// Vocabulary returns the distinct tokens, sorted.
func (c *Corpus) Vocabulary() []string {
	freq := c.Frequencies()
	out := make([]string, 0, len(freq))
	for tok := range freq {
		out = append(out, tok)
	}
	sort.Strings(out)
	return out
}

// TopTokens returns at most n tokens by descending frequency, ties broken
// lexicographically. n<=0 returns the whole vocabulary in that order.
func (c *Corpus) TopTokens(n int) []string {
	freq := c.Frequencies()
	out := make([]string, 0, len(freq))
	for tok := range freq {
		out = append(out, tok)
	}
	sort.Slice(out, func(i, j int) bool {
		if freq[out[i]] != freq[out[j]] {
			return freq[out[i]] > freq[out[j]]
		}
		return out[i] < out[j]
	})
	if n > 0 && n < len(out) {
		out = out[:n]
	}
	return out
}

// Filter returns a new Corpus holding only the lines for which keep is true.
// Folio metadata is carried over without re-resolution.
func (c *Corpus) Filter(keep func(Line, Folio) bool) (*Corpus, error) {
	sub := &Corpus{dataset: c.dataset, folios: make(map[string]Folio)}
	for _, ln := range c.lines {
		f := c.folios[ln.Folio]
		if !keep(ln, f) {
			continue
		}
		sub.lines = append(sub.lines, ln)
		sub.folios[ln.Folio] = f
		sub.tokens += len(ln.Tokens)
	}
	if len(sub.lines) == 0 || sub.tokens == 0 {
		return nil, fmt.Errorf("corpus.Filter(%s): %w", c.dataset, ErrEmptyCorpus)
	}
	for _, label := range c.order {
		for _, f := range sub.folios {
			if f.Section == label {
				sub.order = append(sub.order, label)
				break
			}
		}
	}
	return sub, nil
}

// Section returns the sub-corpus of one section.
func (c *Corpus) Section(label string) (*Corpus, error) {
	sub, err := c.Filter(func(_ Line, f Folio) bool { return f.Section == label })
	if err != nil {
		return nil, fmt.Errorf("section %q: %w", label, err)
	}
	return sub, nil
}
