// SPDX-License-Identifier: MIT

package matrix

import (
	"fmt"
	"math"
	"sort"
)

// DefaultEigenTol is the off-diagonal convergence threshold for EigenSym.
const DefaultEigenTol = 1e-10

// DefaultMaxRotations returns a rotation budget that comfortably covers the
// classical Jacobi method on an n×n input (≈ a few sweeps of n²/2 pivots).
func DefaultMaxRotations(n int) int {
	if n < 2 {
		return 1
	}
	return 50 * n * n
}

// EigenSym computes eigenvalues and eigenvectors of a symmetric matrix via
// classical Jacobi rotations. It is the single eigen entry point the rest of
// the module depends on.
//
// Implementation:
//   - Stage 1: Validate square and symmetric within tol.
//   - Stage 2: Repeatedly pick the (p,q) with the largest |A[p,q]| in i→j
//     order and annihilate it with a rotation, accumulating Q.
//   - Stage 3: Eigenvalues are the diagonal of the rotated A; columns of Q
//     are the eigenvectors.
//
// Returns:
//   - []float64: eigenvalues (unsorted, diagonal order).
//   - *Dense: Q whose column j is the eigenvector of value j.
//
// Errors:
//   - ErrNilMatrix, ErrNonSquare, ErrAsymmetry, ErrEigenFailed.
//
// Determinism:
//   - Fixed pivot scan and update order.
//
// Complexity:
//   - Time O(maxRot · n), pivot search O(n²) per rotation; Space O(n²).
func EigenSym(m *Dense, tol float64, maxRot int) ([]float64, *Dense, error) {
	if m == nil {
		return nil, nil, matrixErrorf(opEigen, ErrNilMatrix)
	}
	if m.r != m.c {
		return nil, nil, matrixErrorf(opEigen, ErrNonSquare)
	}
	n := m.r
	var i, j int
	for i = 0; i < n; i++ {
		for j = i + 1; j < n; j++ {
			if math.Abs(m.data[i*n+j]-m.data[j*n+i]) > tol {
				return nil, nil, matrixErrorf(opEigen, fmt.Errorf("(%d,%d): %w", i, j, ErrAsymmetry))
			}
		}
	}

	a := m.Clone()
	q, err := NewDense(n, n)
	if err != nil {
		return nil, nil, matrixErrorf(opEigen, err)
	}
	for i = 0; i < n; i++ {
		q.data[i*n+i] = 1
	}

	var (
		iter               int
		p, r               int
		maxOff, off        float64
		app, arr, apr      float64
		aip, air, qip, qir float64
		theta, t, c, s     float64
	)
	for iter = 0; iter < maxRot; iter++ {
		// find pivot (p,r) maximizing |A[p,r]|
		maxOff = 0
		for i = 0; i < n; i++ {
			for j = i + 1; j < n; j++ {
				off = math.Abs(a.data[i*n+j])
				if off > maxOff {
					maxOff, p, r = off, i, j
				}
			}
		}
		if maxOff < tol {
			break
		}

		app = a.data[p*n+p]
		arr = a.data[r*n+r]
		apr = a.data[p*n+r]
		theta = (arr - app) / (2 * apr)
		t = math.Copysign(1.0/(math.Abs(theta)+math.Hypot(theta, 1)), theta)
		c = 1.0 / math.Sqrt(t*t+1)
		s = t * c

		for i = 0; i < n; i++ {
			if i == p || i == r {
				continue
			}
			aip = a.data[i*n+p]
			air = a.data[i*n+r]
			a.data[i*n+p] = c*aip - s*air
			a.data[p*n+i] = a.data[i*n+p]
			a.data[i*n+r] = s*aip + c*air
			a.data[r*n+i] = a.data[i*n+r]
		}
		a.data[p*n+p] = c*c*app - 2*c*s*apr + s*s*arr
		a.data[r*n+r] = s*s*app + 2*c*s*apr + c*c*arr
		a.data[p*n+r], a.data[r*n+p] = 0, 0

		for i = 0; i < n; i++ {
			qip = q.data[i*n+p]
			qir = q.data[i*n+r]
			q.data[i*n+p] = c*qip - s*qir
			q.data[i*n+r] = s*qip + c*qir
		}
	}
	if iter == maxRot && maxRot > 0 {
		maxOff = 0
		for i = 0; i < n; i++ {
			for j = i + 1; j < n; j++ {
				if off = math.Abs(a.data[i*n+j]); off > maxOff {
					maxOff = off
				}
			}
		}
		if maxOff >= tol {
			return nil, nil, matrixErrorf(opEigen, ErrEigenFailed)
		}
	}

	eigs := make([]float64, n)
	for i = 0; i < n; i++ {
		eigs[i] = a.data[i*n+i]
	}
	return eigs, q, nil
}

// EigenPair is one eigenvalue with its eigenvector.
type EigenPair struct {
	Value  float64
	Vector []float64
}

// SortedEigen runs EigenSym and returns the pairs by ascending eigenvalue;
// equal values keep diagonal order.
func SortedEigen(m *Dense, tol float64, maxRot int) ([]EigenPair, error) {
	vals, q, err := EigenSym(m, tol, maxRot)
	if err != nil {
		return nil, err
	}
	pairs := make([]EigenPair, len(vals))
	for j, v := range vals {
		pairs[j] = EigenPair{Value: v, Vector: q.Col(j)}
	}
	sort.SliceStable(pairs, func(a, b int) bool { return pairs[a].Value < pairs[b].Value })
	return pairs, nil
}
