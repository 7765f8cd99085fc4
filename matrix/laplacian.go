// SPDX-License-Identifier: MIT

package matrix

import (
	"errors"
	"math"
)

// ErrSingular is returned by Fiedler when the second-smallest Laplacian
// eigenvalue is (numerically) zero, i.e. the graph is disconnected and the
// Fiedler vector is not unique.
var ErrSingular = errors.New("matrix: singular laplacian")

// Symmetrize returns A + Aᵀ for a square A.
func Symmetrize(m *Dense) (*Dense, error) {
	if m == nil {
		return nil, matrixErrorf(opSymmetrize, ErrNilMatrix)
	}
	if m.r != m.c {
		return nil, matrixErrorf(opSymmetrize, ErrNonSquare)
	}
	n := m.r
	out, err := NewDense(n, n)
	if err != nil {
		return nil, matrixErrorf(opSymmetrize, err)
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			out.data[i*n+j] = m.data[i*n+j] + m.data[j*n+i]
		}
	}
	return out, nil
}

// Degrees returns the off-diagonal row sums of a square matrix.
func Degrees(m *Dense) []float64 {
	n := m.r
	deg := make([]float64, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i != j {
				deg[i] += m.data[i*n+j]
			}
		}
	}
	return deg
}

// Laplacian builds L = D − A from a symmetric weight matrix, ignoring the
// diagonal of A. When injectLoops is set, every zero-degree vertex gets a
// unit self-loop on the diagonal (L[i,i] = 1), so isolated vertices do not
// contribute extra zero eigenvalues. It returns the Laplacian and the number
// of loops injected.
//
// Complexity: O(n²).
func Laplacian(sym *Dense, injectLoops bool) (*Dense, int, error) {
	if sym == nil {
		return nil, 0, matrixErrorf(opLaplacian, ErrNilMatrix)
	}
	if sym.r != sym.c {
		return nil, 0, matrixErrorf(opLaplacian, ErrNonSquare)
	}
	n := sym.r
	l, err := NewDense(n, n)
	if err != nil {
		return nil, 0, matrixErrorf(opLaplacian, err)
	}
	deg := Degrees(sym)
	injected := 0
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i != j && sym.data[i*n+j] != 0 {
				l.data[i*n+j] = -sym.data[i*n+j]
			}
		}
		if deg[i] == 0 && injectLoops {
			deg[i] = 1
			injected++
		}
		l.data[i*n+i] = deg[i]
	}
	return l, injected, nil
}

// Fiedler returns the eigenvector of the second-smallest eigenvalue of the
// Laplacian l, and that eigenvalue. The sign is fixed so that the entry with
// the largest magnitude (lowest index on ties) is positive.
//
// Errors:
//   - ErrSingular when n < 2 or λ₂ ≤ eps.
//   - Any EigenSym error.
func Fiedler(l *Dense, eps float64) ([]float64, float64, error) {
	if l == nil {
		return nil, 0, matrixErrorf(opEigen, ErrNilMatrix)
	}
	if l.r < 2 {
		return nil, 0, ErrSingular
	}
	pairs, err := SortedEigen(l, DefaultEigenTol, DefaultMaxRotations(l.r))
	if err != nil {
		return nil, 0, err
	}
	second := pairs[1]
	if second.Value <= eps {
		return nil, second.Value, ErrSingular
	}
	vec := second.Vector
	big, at := -1.0, 0
	for i, v := range vec {
		if math.Abs(v) > big+1e-12 {
			big, at = math.Abs(v), i
		}
	}
	if vec[at] < 0 {
		for i := range vec {
			vec[i] = -vec[i]
		}
	}
	return vec, second.Value, nil
}
