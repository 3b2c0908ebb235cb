// Package sparsemod2 implements an orthogonally linked sparse binary
// matrix: every nonzero entry knows its next/previous neighbor in both
// its row and its column. That is what lets the belief-propagation
// kernels in package bp walk a row or a column in O(degree) with O(1)
// access to the neighboring edge, without any scratch buffer indexed
// by nonzero position — the message state lives on the edge itself.
package sparsemod2

import (
	"fmt"
	"sort"
)

// Coordinate is a single (row, col) nonzero position used to build a Matrix.
type Coordinate struct {
	Row, Col int
}

// entry is one nonzero of the matrix, or (when its index is >= nnz) a
// sentinel marking the end of a row's or column's list. Sentinels carry
// no message state; real entries carry the two message slots and the
// sign accumulator the bp kernels mutate in place.
type entry struct {
	row, col int

	bitToCheck float64
	checkToBit float64
	sign       int

	rowNext, rowPrev int
	colNext, colPrev int
}

// Matrix is the orthogonally linked sparse binary matrix described in
// spec.md §3/§4.1 (component C1). The zero value is not usable; build
// one with New or FromDense.
type Matrix struct {
	nRows, nCols int
	nnz          int

	entries []entry

	// rowHead[i] / colHead[j] are sentinel entry indices. Sentinel s's
	// rowNext is the first real entry of row i; rowPrev is the last.
	rowHead []int
	colHead []int
}

// InvalidMatrixError reports a malformed (m,n,nonzeros) triple passed to New.
type InvalidMatrixError struct {
	Reason string
}

func (e *InvalidMatrixError) Error() string {
	return fmt.Sprintf("invalid matrix: %s", e.Reason)
}

// New builds a Matrix of shape m×n with a 1 at every position in
// nonzeros. It fails with *InvalidMatrixError if any coordinate is out
// of range or duplicated.
func New(m, n int, nonzeros []Coordinate) (*Matrix, error) {
	if m <= 0 || n <= 0 {
		return nil, &InvalidMatrixError{Reason: fmt.Sprintf("shape must be positive, got %dx%d", m, n)}
	}

	sorted := make([]Coordinate, len(nonzeros))
	copy(sorted, nonzeros)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Row != sorted[j].Row {
			return sorted[i].Row < sorted[j].Row
		}
		return sorted[i].Col < sorted[j].Col
	})

	for i, c := range sorted {
		if c.Row < 0 || c.Row >= m || c.Col < 0 || c.Col >= n {
			return nil, &InvalidMatrixError{Reason: fmt.Sprintf("coordinate (%d,%d) out of range for %dx%d", c.Row, c.Col, m, n)}
		}
		if i > 0 && sorted[i-1] == c {
			return nil, &InvalidMatrixError{Reason: fmt.Sprintf("duplicate nonzero at (%d,%d)", c.Row, c.Col)}
		}
	}

	nnz := len(sorted)
	mat := &Matrix{
		nRows:   m,
		nCols:   n,
		nnz:     nnz,
		entries: make([]entry, nnz+m+n),
		rowHead: make([]int, m),
		colHead: make([]int, n),
	}

	for i := range mat.rowHead {
		mat.rowHead[i] = nnz + i
	}
	for j := range mat.colHead {
		mat.colHead[j] = nnz + m + j
	}

	for i, c := range sorted {
		mat.entries[i] = entry{row: c.Row, col: c.Col}
	}
	for i, head := range mat.rowHead {
		mat.entries[head] = entry{row: i, col: -1}
	}
	for j, head := range mat.colHead {
		mat.entries[head] = entry{row: -1, col: j}
	}

	mat.linkRows(sorted)
	mat.linkColumns(sorted)

	return mat, nil
}

// FromDense builds a Matrix from a dense 0/1 matrix. Construction from
// dense or external sparse formats is not the hard part this package
// exists for (spec.md §1); this is a thin convenience wrapper around New.
func FromDense(rows [][]int) (*Matrix, error) {
	if len(rows) == 0 {
		return nil, &InvalidMatrixError{Reason: "dense matrix has zero rows"}
	}
	n := len(rows[0])
	var nz []Coordinate
	for i, row := range rows {
		if len(row) != n {
			return nil, &InvalidMatrixError{Reason: fmt.Sprintf("row %d has length %d, want %d", i, len(row), n)}
		}
		for j, v := range row {
			switch v {
			case 0:
			case 1:
				nz = append(nz, Coordinate{Row: i, Col: j})
			default:
				return nil, &InvalidMatrixError{Reason: fmt.Sprintf("entry (%d,%d)=%d is not binary", i, j, v)}
			}
		}
	}
	return New(len(rows), n, nz)
}

// linkRows stitches each row's sentinel and real entries into a
// circular doubly-linked list in increasing column order. sorted must
// already be ordered by (row, col). Rows with no nonzeros keep their
// sentinel self-looped.
func (mat *Matrix) linkRows(sorted []Coordinate) {
	for _, head := range mat.rowHead {
		mat.entries[head].rowNext = head
		mat.entries[head].rowPrev = head
	}

	i := 0
	for i < len(sorted) {
		row := sorted[i].Row
		j := i
		for j < len(sorted) && sorted[j].Row == row {
			j++
		}

		head := mat.rowHead[row]
		prev := head
		for k := i; k < j; k++ {
			mat.entries[prev].rowNext = k
			mat.entries[k].rowPrev = prev
			prev = k
		}
		mat.entries[prev].rowNext = head
		mat.entries[head].rowPrev = prev

		i = j
	}
}

// linkColumns is linkRows' mirror image: it stitches each column's
// sentinel and real entries into a circular doubly-linked list in
// increasing row order.
func (mat *Matrix) linkColumns(sorted []Coordinate) {
	for _, head := range mat.colHead {
		mat.entries[head].colNext = head
		mat.entries[head].colPrev = head
	}

	byCol := make([]int, len(sorted))
	for i := range byCol {
		byCol[i] = i
	}
	sort.Slice(byCol, func(a, b int) bool {
		ca, cb := sorted[byCol[a]], sorted[byCol[b]]
		if ca.Col != cb.Col {
			return ca.Col < cb.Col
		}
		return ca.Row < cb.Row
	})

	i := 0
	for i < len(byCol) {
		col := sorted[byCol[i]].Col
		j := i
		for j < len(byCol) && sorted[byCol[j]].Col == col {
			j++
		}

		head := mat.colHead[col]
		prev := head
		for k := i; k < j; k++ {
			idx := byCol[k]
			mat.entries[prev].colNext = idx
			mat.entries[idx].colPrev = prev
			prev = idx
		}
		mat.entries[prev].colNext = head
		mat.entries[head].colPrev = prev

		i = j
	}
}

// Dims returns (rows, cols).
func (mat *Matrix) Dims() (int, int) { return mat.nRows, mat.nCols }

// NNZ returns the number of stored nonzero entries.
func (mat *Matrix) NNZ() int { return mat.nnz }

// AtEnd reports whether e is a sentinel (the end of a traversal), not a
// real nonzero entry.
func (mat *Matrix) AtEnd(e int) bool { return e >= mat.nnz }

// FirstInRow returns the first entry of row i in increasing column
// order, or a sentinel (AtEnd) if row i has no nonzeros.
func (mat *Matrix) FirstInRow(i int) int { return mat.entries[mat.rowHead[i]].rowNext }

// LastInRow returns the last entry of row i in increasing column order.
func (mat *Matrix) LastInRow(i int) int { return mat.entries[mat.rowHead[i]].rowPrev }

// NextInRow returns the entry after e within its row.
func (mat *Matrix) NextInRow(e int) int { return mat.entries[e].rowNext }

// PrevInRow returns the entry before e within its row.
func (mat *Matrix) PrevInRow(e int) int { return mat.entries[e].rowPrev }

// FirstInCol returns the first entry of column j in increasing row
// order, or a sentinel (AtEnd) if column j has no nonzeros.
func (mat *Matrix) FirstInCol(j int) int { return mat.entries[mat.colHead[j]].colNext }

// LastInCol returns the last entry of column j in increasing row order.
func (mat *Matrix) LastInCol(j int) int { return mat.entries[mat.colHead[j]].colPrev }

// NextInCol returns the entry after e within its column.
func (mat *Matrix) NextInCol(e int) int { return mat.entries[e].colNext }

// PrevInCol returns the entry before e within its column.
func (mat *Matrix) PrevInCol(e int) int { return mat.entries[e].colPrev }

// Row returns the row coordinate of entry e.
func (mat *Matrix) Row(e int) int { return mat.entries[e].row }

// Col returns the column coordinate of entry e.
func (mat *Matrix) Col(e int) int { return mat.entries[e].col }

// BitToCheck returns the bit→check message stored on entry e.
func (mat *Matrix) BitToCheck(e int) float64 { return mat.entries[e].bitToCheck }

// SetBitToCheck overwrites the bit→check message stored on entry e.
func (mat *Matrix) SetBitToCheck(e int, v float64) { mat.entries[e].bitToCheck = v }

// CheckToBit returns the check→bit message stored on entry e.
func (mat *Matrix) CheckToBit(e int) float64 { return mat.entries[e].checkToBit }

// SetCheckToBit overwrites the check→bit message stored on entry e.
func (mat *Matrix) SetCheckToBit(e int, v float64) { mat.entries[e].checkToBit = v }

// Sign returns the sign accumulator stored on entry e (used by the
// min-sum kernel).
func (mat *Matrix) Sign(e int) int { return mat.entries[e].sign }

// SetSign overwrites the sign accumulator stored on entry e.
func (mat *Matrix) SetSign(e int, v int) { mat.entries[e].sign = v }

// ResetMessages zeroes every entry's message and sign state. Called
// once at the start of a BP run, before kernel-specific initialization
// seeds bit_to_check with the channel prior.
func (mat *Matrix) ResetMessages() {
	for i := 0; i < mat.nnz; i++ {
		mat.entries[i].bitToCheck = 0
		mat.entries[i].checkToBit = 0
		mat.entries[i].sign = 0
	}
}

// MulVec computes out = H·v over GF(2): out[i] = XOR over j of H[i,j]*v[j].
// len(v) must equal n (columns), len(out) must equal m (rows).
func (mat *Matrix) MulVec(v []int, out []int) {
	if len(v) != mat.nCols {
		panic(fmt.Sprintf("MulVec: len(v)=%d, want %d columns", len(v), mat.nCols))
	}
	if len(out) != mat.nRows {
		panic(fmt.Sprintf("MulVec: len(out)=%d, want %d rows", len(out), mat.nRows))
	}
	for i := 0; i < mat.nRows; i++ {
		sum := 0
		for e := mat.FirstInRow(i); !mat.AtEnd(e); e = mat.NextInRow(e) {
			sum ^= v[mat.Col(e)]
		}
		out[i] = sum
	}
}

// RowNonzeros returns the column indices of row i's nonzeros, in
// increasing order.
func (mat *Matrix) RowNonzeros(i int) []int {
	var cols []int
	for e := mat.FirstInRow(i); !mat.AtEnd(e); e = mat.NextInRow(e) {
		cols = append(cols, mat.Col(e))
	}
	return cols
}

// ColNonzeros returns the row indices of column j's nonzeros, in
// increasing order.
func (mat *Matrix) ColNonzeros(j int) []int {
	var rows []int
	for e := mat.FirstInCol(j); !mat.AtEnd(e); e = mat.NextInCol(e) {
		rows = append(rows, mat.Row(e))
	}
	return rows
}
