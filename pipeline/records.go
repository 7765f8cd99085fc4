package pipeline

import (
	"github.com/katalvlaran/winlattice/layout"
	"github.com/katalvlaran/winlattice/robustness"
	"github.com/katalvlaran/winlattice/schedule"
	"github.com/katalvlaran/winlattice/selection"
)

// Logical artifact paths.
const (
	PathLayout         = "layout.json"
	PathSweep          = "k_sweep.json"
	PathLatticeMap     = "lattice_map.json"
	PathWindowContents = "window_contents.json"
	PathPermutation    = "permutation.json"
	PathLineSchedule   = "line_schedule.json"
	PathScheduleReport = "schedule_report.json"
	PathRobustness     = "robustness.json"
)

// LayoutRecord is the persisted layout.
type LayoutRecord struct {
	Dataset    string        `json:"dataset"`
	Iterations int           `json:"iterations"`
	Edges      int           `json:"edges"`
	Positions  layout.Layout `json:"positions"`
}

// SweepRecord is the persisted k_sweep record.
type SweepRecord struct {
	Points  []selection.Point        `json:"points"`
	Knee    selection.KneeResult     `json:"knee"`
	Penalty *selection.PenaltyResult `json:"penalty,omitempty"`
}

// LatticeRecord is the persisted lattice_map record.
type LatticeRecord struct {
	K          int            `json:"k"`
	LatticeMap map[string]int `json:"lattice_map"`
}

// ScheduleRecord is the persisted line_schedule record.
type ScheduleRecord struct {
	Rule  string                `json:"rule"`
	Lines []schedule.LineRecord `json:"lines"`
}

// RobustnessRecord is the persisted robustness record.
type RobustnessRecord struct {
	Null     robustness.NullResult     `json:"permutation_null"`
	Cross    robustness.CrossResult    `json:"cross_transcription"`
	Holdout  *robustness.HoldoutResult `json:"holdout,omitempty"`
	Sections robustness.SectionResult  `json:"section_aware"`
}
