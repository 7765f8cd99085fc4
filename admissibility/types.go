package admissibility

// RecoveryPolicy decides where the cursor goes after a miss.
type RecoveryPolicy int

const (
	// SnapOnMiss moves the cursor to the token's true window on a miss,
	// exactly as on a hit. The walk never stalls.
	SnapOnMiss RecoveryPolicy = iota

	// HoldOnMiss leaves the cursor where it was on a miss.
	HoldOnMiss
)

// String implements fmt.Stringer.
func (p RecoveryPolicy) String() string {
	switch p {
	case SnapOnMiss:
		return "snap"
	case HoldOnMiss:
		return "hold"
	default:
		return "unknown"
	}
}

// CursorPolicy decides what happens to the cursor at a line boundary.
type CursorPolicy int

const (
	// ResetPerLine starts every line with the cursor at window 0.
	ResetPerLine CursorPolicy = iota

	// CarryAcrossLines keeps the cursor from the end of the previous line.
	CarryAcrossLines
)

// String implements fmt.Stringer.
func (p CursorPolicy) String() string {
	switch p {
	case ResetPerLine:
		return "reset"
	case CarryAcrossLines:
		return "carry"
	default:
		return "unknown"
	}
}

// DefaultTolerance is the drift tolerance used when none is configured.
const DefaultTolerance = 1

// Options bundles the metric knobs.
//
//   - Tolerance: maximum ring distance counted as admissible (>= 0).
//   - Recovery : cursor move on a miss.
//   - Cursor: cursor behavior at line boundaries.
type Options struct {
	Tolerance int
	Recovery  RecoveryPolicy
	Cursor    CursorPolicy
}

// DefaultOptions returns tolerance 1, snap on miss, reset per line.
func DefaultOptions() Options {
	return Options{Tolerance: DefaultTolerance, Recovery: SnapOnMiss, Cursor: ResetPerLine}
}

// Score is an (admissible, total) pair.
type Score struct {
	Admissible int `json:"admissible" yaml:"admissible"`
	Total      int `json:"total" yaml:"total"`
}

// Ratio returns Admissible/Total, or 0 for an empty score.
func (s Score) Ratio() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Admissible) / float64(s.Total)
}

// Add returns the component-wise sum.
func (s Score) Add(o Score) Score {
	return Score{Admissible: s.Admissible + o.Admissible, Total: s.Total + o.Total}
}

// OffsetFunc returns the offset for line i of a corpus.
type OffsetFunc func(line int) int

// ZeroOffset is the baseline OffsetFunc.
func ZeroOffset(int) int { return 0 }

// Visitor observes each scored token: its window and whether it was admissible.
type Visitor func(token string, window int, hit bool)
