package gf2

import (
	"context"
	"strconv"
	"testing"

	mat "github.com/nathanhack/sparsemat"
)

func TestRowReduceRankAndPivots(t *testing.T) {
	// Hamming(7,4) parity check, full row rank 3.
	S := mat.CSRMat(3, 7,
		1, 0, 0, 1, 1, 1, 0,
		0, 1, 0, 1, 0, 1, 1,
		0, 0, 1, 0, 1, 1, 1,
	)
	reduced, err := RowReduce(context.Background(), S, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(reduced.PivotCols) != 3 {
		t.Fatalf("rank = %d, want 3", len(reduced.PivotCols))
	}
}

func TestRowReduceRankDeficient(t *testing.T) {
	// row 2 = row 0 + row 1, so rank is 3 not 4.
	S := mat.CSRMat(4, 5,
		1, 1, 0, 0, 0,
		0, 1, 1, 0, 0,
		1, 0, 1, 0, 0,
		0, 0, 0, 1, 1,
	)
	reduced, err := RowReduce(context.Background(), S, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(reduced.PivotCols) != 3 {
		t.Fatalf("rank = %d, want 3", len(reduced.PivotCols))
	}
}

func TestInvertIdentity(t *testing.T) {
	S := mat.CSRIdentity(4)
	inv, err := Invert(context.Background(), S, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !inv.Equals(S) {
		t.Fatalf("inverse of identity should be identity, got\n%v", inv)
	}
}

func TestInvertSingularReturnsError(t *testing.T) {
	S := mat.CSRMat(2, 2, 1, 1, 1, 1)
	if _, err := Invert(context.Background(), S, 0); err == nil {
		t.Fatalf("expected an error for a singular matrix")
	}
}

func TestInvertRoundTrips(t *testing.T) {
	// a non-trivial invertible 3x3 over GF(2)
	S := mat.CSRMat(3, 3,
		1, 1, 0,
		0, 1, 1,
		1, 1, 1,
	)
	inv, err := Invert(context.Background(), S, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	product := mat.DOKMat(3, 3)
	for i := 0; i < 3; i++ {
		srow := S.Row(i)
		for j := 0; j < 3; j++ {
			icol := inv.Column(j)
			sum := 0
			for k := 0; k < 3; k++ {
				sum ^= srow.At(k) * icol.At(k)
			}
			if sum != 0 {
				product.Set(i, j, 1)
			}
		}
	}
	if !product.Equals(mat.CSRIdentity(3)) {
		t.Fatalf("S * Invert(S) should be the identity, got\n%v", product)
	}
}

func TestSolveExactSquareSystem(t *testing.T) {
	S := mat.CSRMat(3, 3,
		1, 1, 0,
		0, 1, 1,
		1, 1, 1,
	)
	// true x = [1,0,1], t = S.x
	t_ := []int{1, 1, 0}
	x, err := Solve(context.Background(), S, t_, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []int{1, 0, 1}
	for i := range want {
		if x[i] != want[i] {
			t.Fatalf("x = %v, want %v", x, want)
		}
	}
}

func TestSolveSkipsNonPivotColumns(t *testing.T) {
	// column 2 is entirely zero: never a pivot, x[2] must be left at 0.
	S := mat.CSRMat(2, 3,
		1, 0, 0,
		0, 1, 0,
	)
	x, err := Solve(context.Background(), S, []int{1, 0}, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if x[2] != 0 {
		t.Fatalf("non-pivot column must be 0, got %d", x[2])
	}
	if x[0] != 1 || x[1] != 0 {
		t.Fatalf("x = %v, want [1 0 0]", x)
	}
}

func TestSolveRejectsMismatchedLength(t *testing.T) {
	S := mat.CSRIdentity(3)
	if _, err := Solve(context.Background(), S, []int{1, 0}, 0); err == nil {
		t.Fatalf("expected an error for mismatched t length")
	}
}

func TestRowReduceRespectsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	S := mat.CSRIdentity(5)
	if _, err := RowReduce(ctx, S, 0); err == nil {
		t.Fatalf("expected context cancellation error")
	}
}

func TestPivotCountIsStable(t *testing.T) {
	for i := 0; i < 3; i++ {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			S := mat.CSRIdentity(6)
			reduced, err := RowReduce(context.Background(), S, 0)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(reduced.PivotCols) != 6 {
				t.Fatalf("rank = %d, want 6", len(reduced.PivotCols))
			}
		})
	}
}
