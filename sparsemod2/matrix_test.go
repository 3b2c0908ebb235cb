package sparsemod2

import (
	"strconv"
	"testing"
)

func repetitionH(t *testing.T) *Matrix {
	t.Helper()
	m, err := New(2, 3, []Coordinate{
		{Row: 0, Col: 0}, {Row: 0, Col: 1},
		{Row: 1, Col: 1}, {Row: 1, Col: 2},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return m
}

func TestNewRejectsOutOfRange(t *testing.T) {
	tests := []struct {
		m, n int
		nz   []Coordinate
	}{
		{2, 3, []Coordinate{{Row: 2, Col: 0}}},
		{2, 3, []Coordinate{{Row: 0, Col: 3}}},
		{2, 3, []Coordinate{{Row: -1, Col: 0}}},
		{2, 3, []Coordinate{{Row: 0, Col: 0}, {Row: 0, Col: 0}}},
	}
	for i, test := range tests {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			if _, err := New(test.m, test.n, test.nz); err == nil {
				t.Fatalf("expected an error but got none")
			}
		})
	}
}

func TestRowTraversalOrder(t *testing.T) {
	m := repetitionH(t)

	cols := m.RowNonzeros(0)
	if len(cols) != 2 || cols[0] != 0 || cols[1] != 1 {
		t.Fatalf("row 0 nonzeros = %v, want [0 1]", cols)
	}
	cols = m.RowNonzeros(1)
	if len(cols) != 2 || cols[0] != 1 || cols[1] != 2 {
		t.Fatalf("row 1 nonzeros = %v, want [1 2]", cols)
	}
}

func TestColumnTraversalOrder(t *testing.T) {
	m := repetitionH(t)

	rows := m.ColNonzeros(1)
	if len(rows) != 2 || rows[0] != 0 || rows[1] != 1 {
		t.Fatalf("col 1 nonzeros = %v, want [0 1]", rows)
	}
	rows = m.ColNonzeros(0)
	if len(rows) != 1 || rows[0] != 0 {
		t.Fatalf("col 0 nonzeros = %v, want [0]", rows)
	}
}

func TestPrevNextAreInverses(t *testing.T) {
	m := repetitionH(t)

	for i := 0; i < 2; i++ {
		for e := m.FirstInRow(i); !m.AtEnd(e); e = m.NextInRow(e) {
			if next := m.NextInRow(e); !m.AtEnd(next) {
				if m.PrevInRow(next) != e {
					t.Fatalf("row %d: prev(next(%d)) != %d", i, e, e)
				}
			}
		}
	}
	for j := 0; j < 3; j++ {
		for e := m.FirstInCol(j); !m.AtEnd(e); e = m.NextInCol(e) {
			if next := m.NextInCol(e); !m.AtEnd(next) {
				if m.PrevInCol(next) != e {
					t.Fatalf("col %d: prev(next(%d)) != %d", j, e, e)
				}
			}
		}
	}
}

func TestEmptyRowAndColumnAreSelfLooped(t *testing.T) {
	m, err := New(2, 2, []Coordinate{{Row: 0, Col: 0}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !m.AtEnd(m.FirstInRow(1)) {
		t.Fatalf("row 1 should be empty")
	}
	if !m.AtEnd(m.FirstInCol(1)) {
		t.Fatalf("col 1 should be empty")
	}
}

func TestMulVec(t *testing.T) {
	m := repetitionH(t)

	tests := []struct {
		v    []int
		want []int
	}{
		{[]int{0, 0, 0}, []int{0, 0}},
		{[]int{1, 0, 0}, []int{1, 0}},
		{[]int{0, 1, 0}, []int{1, 1}},
		{[]int{1, 1, 1}, []int{0, 0}},
	}
	out := make([]int, 2)
	for i, test := range tests {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			m.MulVec(test.v, out)
			for k := range out {
				if out[k] != test.want[k] {
					t.Fatalf("MulVec(%v) = %v, want %v", test.v, out, test.want)
				}
			}
		})
	}
}

func TestResetMessages(t *testing.T) {
	m := repetitionH(t)
	e := m.FirstInRow(0)
	m.SetBitToCheck(e, 1.23)
	m.SetCheckToBit(e, 4.56)
	m.SetSign(e, 1)

	m.ResetMessages()

	if m.BitToCheck(e) != 0 || m.CheckToBit(e) != 0 || m.Sign(e) != 0 {
		t.Fatalf("ResetMessages did not clear entry state")
	}
}

func TestFromDense(t *testing.T) {
	m, err := FromDense([][]int{
		{1, 1, 0},
		{0, 1, 1},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rows, cols := m.Dims()
	if rows != 2 || cols != 3 || m.NNZ() != 4 {
		t.Fatalf("FromDense produced shape %dx%d nnz=%d", rows, cols, m.NNZ())
	}
}
