package admissibility_test

import (
	"fmt"

	"github.com/katalvlaran/winlattice/admissibility"
	"github.com/katalvlaran/winlattice/lattice"
)

func ExampleStream() {
	m, _ := lattice.New(4, map[string]int{"a": 0, "b": 1, "c": 2, "d": 3})
	opts := admissibility.Options{Tolerance: 0, Recovery: admissibility.SnapOnMiss}

	// "x" is unmapped and skipped.
	s := admissibility.Stream([]string{"a", "b", "d", "a", "x"}, m, opts, 1)
	fmt.Println(s.Admissible, s.Total, s.Ratio())

	opts.Tolerance = 1
	fmt.Println(admissibility.Stream([]string{"a", "b", "d", "a"}, m, opts, 1).Ratio())
	// Output:
	// 2 4 0.5
	// 1
}

func ExampleRingDistance() {
	fmt.Println(admissibility.RingDistance(0, 7, 8), admissibility.RingDistance(2, 6, 8))
	// Output: 1 4
}
