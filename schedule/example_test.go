package schedule_test

import (
	"fmt"

	"github.com/katalvlaran/winlattice/admissibility"
	"github.com/katalvlaran/winlattice/lattice"
	"github.com/katalvlaran/winlattice/schedule"
)

func ExampleBestOffset() {
	m, _ := lattice.New(5, map[string]int{"a": 0, "b": 1, "c": 2, "d": 3, "e": 4})
	metric := admissibility.Options{Tolerance: 0, Recovery: admissibility.SnapOnMiss}

	// The line strides two windows per token.
	off, s := schedule.BestOffset([]string{"a", "c", "e", "b", "d"}, m, metric)
	fmt.Println(off, s.Admissible, s.Total)
	// Output: 2 4 5
}
