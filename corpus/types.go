package corpus

// Token is a normalized token identity. Many occurrences share one identity.
type Token = string

// UnknownLabel is the section/hand label for folio numbers outside every range.
const UnknownLabel = "unknown"

// DefaultFoliosPerQuire is the gathering size used for quire arithmetic.
const DefaultFoliosPerQuire = 8

// Line is an ordered token sequence on one folio.
type Line struct {
	Folio  string   `json:"folio" yaml:"folio"`
	Index  int      `json:"index" yaml:"index"`
	Tokens []string `json:"tokens" yaml:"tokens"`
}

// Folio is the resolved metadata of a folio id.
type Folio struct {
	ID      string `json:"id" yaml:"id"`
	Number  int    `json:"number" yaml:"number"`
	Side    string `json:"side" yaml:"side"`
	Section string `json:"section" yaml:"section"`
	Hand    string `json:"hand" yaml:"hand"`
	Quire   int    `json:"quire" yaml:"quire"`
}

// Evidence is one pairwise adjacency record between two tokens.
// Weight <= 0 is treated as 1.
type Evidence struct {
	A      string  `json:"a" yaml:"a"`
	B      string  `json:"b" yaml:"b"`
	Weight float64 `json:"weight,omitempty" yaml:"weight,omitempty"`
}

// Range maps an inclusive folio-number interval to a label.
type Range struct {
	Label string `json:"label" yaml:"label"`
	From  int    `json:"from" yaml:"from"`
	To    int    `json:"to" yaml:"to"`
}
