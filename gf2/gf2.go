// Package gf2 provides the small binary-field linear algebra the
// inactivation post-processor treats as an external collaborator
// (spec.md §1, §4.5): row reduction, submatrix inversion and a solve
// that composes both. It never appears on the belief-propagation hot
// path — it runs once per non-convergent decode, over the handful of
// rows and columns a cluster inactivates.
package gf2

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/cheggaaa/pb/v3"
	mat "github.com/nathanhack/sparsemat"
	"github.com/nathanhack/threadpool"
	"github.com/sirupsen/logrus"
)

// Reduced is a row-reduced copy of a GF(2) matrix, along with the
// input row and column each pivot came from. len(PivotRows) is the
// matrix's rank.
type Reduced struct {
	Rows      mat.SparseMat
	PivotRows []int
	PivotCols []int
}

// RowReduce performs forward Gaussian elimination of S over GF(2),
// scanning columns left to right and, for each, promoting the first
// as-yet-unused row with a 1 there to a pivot and eliminating that
// column from every other row. Grounded on the pivot-search/eliminate
// loop of the teacher's GaussianJordanEliminationGF2, generalized to
// matrices that need not be square or full rank: S is the residual
// system built from an inactivation cluster (spec.md §4.5.e), whose
// shape depends on how many checks and bits were pulled into it.
func RowReduce(ctx context.Context, S mat.SparseMat, threads int) (*Reduced, error) {
	rows, cols := S.Dims()
	result := mat.CSRMatCopy(S)
	used := make([]bool, rows)
	var pivotRows, pivotCols []int

	showProgress := logrus.GetLevel() == logrus.DebugLevel
	bar := pb.Full.New(cols)
	bar.Set("prefix", "Reducing column ")
	bar.SetWriter(os.Stdout)
	if showProgress {
		bar.Start()
	}

	for c := 0; c < cols; c++ {
		bar.Increment()
		select {
		case <-ctx.Done():
			bar.Finish()
			return nil, ctx.Err()
		default:
		}

		pivot := -1
		for _, r := range result.Column(c).NonzeroArray() {
			if !used[r] {
				pivot = r
				break
			}
		}
		if pivot == -1 {
			continue
		}
		used[pivot] = true
		pivotRows = append(pivotRows, pivot)
		pivotCols = append(pivotCols, c)

		eliminateColumn(ctx, result, pivot, c, threads)
	}
	bar.Finish()

	logrus.Debugf("gf2: row reduction found rank %d of a %dx%d matrix", len(pivotCols), rows, cols)
	return &Reduced{Rows: result, PivotRows: pivotRows, PivotCols: pivotCols}, nil
}

// eliminateColumn clears column col from every row but pivotRow,
// fanning the row-add work out over a bounded pool the way
// eliminateOtherRows does.
func eliminateColumn(ctx context.Context, result mat.SparseMat, pivotRow, col, threads int) {
	targets := result.Column(col).NonzeroArray()
	pool := threadpool.New(ctx, threads)
	prow := result.Row(pivotRow)
	mut := sync.RWMutex{}

	for _, idx := range targets {
		r := idx
		if r == pivotRow {
			continue
		}
		pool.Add(func() {
			mut.RLock()
			rrow := result.Row(r)
			mut.RUnlock()
			rrow.Add(rrow, prow)
			mut.Lock()
			result.SetRow(r, rrow)
			mut.Unlock()
		})
	}
	pool.Wait()
}

// Invert inverts a square GF(2) matrix S via Gauss-Jordan elimination
// on [S | I], returning an error if S is singular.
func Invert(ctx context.Context, S mat.SparseMat, threads int) (mat.SparseMat, error) {
	n, cols := S.Dims()
	if n != cols {
		return nil, fmt.Errorf("gf2: Invert requires a square matrix, got %dx%d", n, cols)
	}

	augmented := mat.DOKMat(n, 2*n)
	augmented.SetMatrix(S, 0, 0)
	augmented.SetMatrix(mat.CSRIdentity(n), 0, n)
	result := mat.CSRMatCopy(augmented)

	for c := 0; c < n; c++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		pivot := -1
		for _, r := range result.Column(c).NonzeroArray() {
			if r >= c {
				pivot = r
				break
			}
		}
		if pivot == -1 {
			return nil, fmt.Errorf("gf2: matrix is singular, no pivot in column %d", c)
		}
		if pivot != c {
			result.SwapRows(c, pivot)
		}
		eliminateColumn(ctx, result, c, c, threads)
	}

	return result.Slice(0, n, n, n), nil
}

// Solve resolves the ambiguous x[P] <- S[:,P]^-1 . t of spec.md §4.5.f:
// S is generally overdetermined (more rows than columns) or
// rank-deficient, so there is no single S^-1. RowReduce identifies
// `rank` pivot rows and pivot columns that together form a genuinely
// square, invertible submatrix; Solve inverts that submatrix and
// solves against t restricted to the pivot rows. Every column outside
// the pivot set is left at 0 — a free variable the cluster's BP
// re-run already pinned down some other way.
func Solve(ctx context.Context, S mat.SparseMat, t []int, threads int) ([]int, error) {
	rows, cols := S.Dims()
	if len(t) != rows {
		return nil, fmt.Errorf("gf2: len(t)=%d, want %d rows", len(t), rows)
	}

	reduced, err := RowReduce(ctx, S, threads)
	if err != nil {
		return nil, err
	}

	x := make([]int, cols)
	rank := len(reduced.PivotCols)
	if rank == 0 {
		return x, nil
	}

	sub := mat.DOKMat(rank, rank)
	tSub := make([]int, rank)
	for i, pr := range reduced.PivotRows {
		row := S.Row(pr)
		for k, pc := range reduced.PivotCols {
			if row.At(pc) != 0 {
				sub.Set(i, k, 1)
			}
		}
		tSub[i] = t[pr]
	}

	inv, err := Invert(ctx, sub, threads)
	if err != nil {
		return nil, fmt.Errorf("gf2: pivot submatrix is unexpectedly singular: %w", err)
	}

	for i := 0; i < rank; i++ {
		sum := 0
		row := inv.Row(i)
		for k := 0; k < rank; k++ {
			sum ^= row.At(k) * tSub[k]
		}
		x[reduced.PivotCols[i]] = sum
	}

	return x, nil
}
