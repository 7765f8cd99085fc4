package corpus

import (
	"fmt"
	"strconv"
	"strings"
)

// RangeTable is an ordered list of folio-number ranges. The first range
// containing a number wins; numbers in no range resolve to UnknownLabel.
type RangeTable []Range

// Lookup returns the label of the first range containing n.
// Complexity: O(len(t)).
func (t RangeTable) Lookup(n int) string {
	for _, r := range t {
		if n >= r.From && n <= r.To {
			return r.Label
		}
	}
	return UnknownLabel
}

// Labels returns the distinct labels in table order.
func (t RangeTable) Labels() []string {
	seen := make(map[string]bool, len(t))
	out := make([]string, 0, len(t))
	for _, r := range t {
		if !seen[r.Label] {
			seen[r.Label] = true
			out = append(out, r.Label)
		}
	}
	return out
}

// FolioTable resolves folio ids to metadata.
type FolioTable struct {
	Sections       RangeTable `json:"sections" yaml:"sections"`
	Hands          RangeTable `json:"hands" yaml:"hands"`
	FoliosPerQuire int        `json:"folios_per_quire" yaml:"folios_per_quire"`
}

// DefaultFolioTable returns the built-in section and hand range tables.
func DefaultFolioTable() FolioTable {
	return FolioTable{
		Sections: RangeTable{
			{Label: "herbal", From: 1, To: 66},
			{Label: "astronomical", From: 67, To: 73},
			{Label: "biological", From: 75, To: 84},
			{Label: "cosmological", From: 85, To: 86},
			{Label: "pharmaceutical", From: 87, To: 102},
			{Label: "recipes", From: 103, To: 116},
		},
		Hands: RangeTable{
			{Label: "1", From: 1, To: 57},
			{Label: "2", From: 58, To: 66},
			{Label: "3", From: 67, To: 84},
			{Label: "4", From: 85, To: 102},
			{Label: "5", From: 103, To: 116},
		},
		FoliosPerQuire: DefaultFoliosPerQuire,
	}
}

// ParseFolioID splits "f27v" / "F67r1" into (27, "v").
// Trailing digits after the side (foldout panels) are accepted and ignored.
func ParseFolioID(id string) (int, string, error) {
	s := strings.ToLower(strings.TrimSpace(id))
	if len(s) < 2 || s[0] != 'f' {
		return 0, "", fmt.Errorf("ParseFolioID(%q): %w", id, ErrBadFolioID)
	}
	s = s[1:]
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, "", fmt.Errorf("ParseFolioID(%q): %w", id, ErrBadFolioID)
	}
	n, err := strconv.Atoi(s[:i])
	if err != nil || n <= 0 {
		return 0, "", fmt.Errorf("ParseFolioID(%q): %w", id, ErrBadFolioID)
	}
	rest := s[i:]
	if rest == "" {
		return n, "", nil
	}
	side := rest[:1]
	if side != "r" && side != "v" {
		return 0, "", fmt.Errorf("ParseFolioID(%q): %w", id, ErrBadFolioID)
	}
	for _, ch := range rest[1:] {
		if ch < '0' || ch > '9' {
			return 0, "", fmt.Errorf("ParseFolioID(%q): %w", id, ErrBadFolioID)
		}
	}
	return n, side, nil
}

// Resolve parses id and looks up section, hand and quire.
func (t FolioTable) Resolve(id string) (Folio, error) {
	n, side, err := ParseFolioID(id)
	if err != nil {
		return Folio{}, err
	}
	per := t.FoliosPerQuire
	if per <= 0 {
		per = DefaultFoliosPerQuire
	}
	return Folio{
		ID:      id,
		Number:  n,
		Side:    side,
		Section: t.Sections.Lookup(n),
		Hand:    t.Hands.Lookup(n),
		Quire:   (n-1)/per + 1,
	}, nil
}
