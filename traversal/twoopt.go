package traversal

import "github.com/katalvlaran/winlattice/matrix"

// twoOptEps is the smallest gain accepted as an improvement.
const twoOptEps = 1e-9

// TwoOpt improves a closed window tour by first-improvement 2-opt on the
// symmetric weights, maximizing the total weight of consecutive windows
// (including the wrap from last to first, since windows form a ring). A
// move reverses the segment [i..j] when
//
//	w(a,c) + w(b,d) − w(a,b) − w(c,d) > 0
//
// with a=T[i−1], b=T[i], c=T[j], d=T[j+1 mod K]. order[0] never moves.
// The input slice is left untouched.
//
// Complexity: O(passes·K²); passes is bounded by K².
func TwoOpt(sym *matrix.Dense, order []int) []int {
	tour := append([]int(nil), order...)
	n := len(tour)
	if n < 4 {
		return tour
	}
	rows := sym.ToRows()
	w := func(u, v int) float64 { return rows[u][v] }

	var (
		i, j, a, b, c, d int
		improved         = true
	)
	for pass := 0; improved && pass < n*n; pass++ {
		improved = false
	scan:
		for i = 1; i < n-1; i++ {
			for j = i + 1; j < n; j++ {
				a, b, c, d = tour[i-1], tour[i], tour[j], tour[(j+1)%n]
				if w(a, c)+w(b, d)-w(a, b)-w(c, d) > twoOptEps {
					reverse(tour[i : j+1])
					improved = true
					break scan
				}
			}
		}
	}
	return tour
}

func reverse(s []int) {
	for l, r := 0, len(s)-1; l < r; l, r = l+1, r-1 {
		s[l], s[r] = s[r], s[l]
	}
}
