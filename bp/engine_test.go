package bp

import (
	"strconv"
	"testing"

	"github.com/KuantumBS/ldpc/sparsemod2"
)

func repetitionH(t *testing.T) *sparsemod2.Matrix {
	t.Helper()
	m, err := sparsemod2.New(2, 3, []sparsemod2.Coordinate{
		{Row: 0, Col: 0}, {Row: 0, Col: 1},
		{Row: 1, Col: 1}, {Row: 1, Col: 2},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return m
}

// hammingH is the standard [7,4] Hamming code's 3x7 parity check
// matrix: column j is the binary representation of j+1.
func hammingH(t *testing.T) *sparsemod2.Matrix {
	t.Helper()
	rows := [][]int{
		{1, 0, 1, 0, 1, 0, 1},
		{0, 1, 1, 0, 0, 1, 1},
		{0, 0, 0, 1, 1, 1, 1},
	}
	m, err := sparsemod2.FromDense(rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return m
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// TestRepetitionCodeScenarios covers spec.md §8 scenarios 1 and 2: the
// n=3,m=2 repetition code under PSL/Parallel.
func TestRepetitionCodeScenarios(t *testing.T) {
	tests := []struct {
		synd      []int
		wantDec   []int
		wantIters int
	}{
		{[]int{1, 0}, []int{1, 0, 0}, 0}, // iteration count not pinned, just convergence
		{[]int{0, 0}, []int{0, 0, 0}, 1},
	}
	for i, test := range tests {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			H := repetitionH(t)
			result, err := Run(Params{
				H:        H,
				Priors:   []float64{0.1, 0.1, 0.1},
				Synd:     test.synd,
				MaxIter:  10,
				Method:   ProdSumLog,
				Schedule: Parallel,
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !result.Converged {
				t.Fatalf("expected convergence")
			}
			if !equalInts(result.Decoding, test.wantDec) {
				t.Fatalf("decoding = %v, want %v", result.Decoding, test.wantDec)
			}
			if test.wantIters > 0 && result.Iterations != test.wantIters {
				t.Fatalf("iterations = %d, want %d", result.Iterations, test.wantIters)
			}
		})
	}
}

// TestHammingSingleBitSyndrome covers spec.md §8 scenario 4.
func TestHammingSingleBitSyndrome(t *testing.T) {
	H := hammingH(t)
	priors := make([]float64, 7)
	for i := range priors {
		priors[i] = 0.05
	}

	// syndrome equal to column 5 (0-indexed) of H
	synd := []int{0, 1, 1}

	result, err := Run(Params{
		H:             H,
		Priors:        priors,
		Synd:          synd,
		MaxIter:       7,
		Method:        MinSumLog,
		Schedule:      Parallel,
		ScalingFactor: 1.0,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Converged {
		t.Fatalf("expected convergence within 7 iterations")
	}
	want := []int{0, 0, 0, 0, 0, 1, 0}
	if !equalInts(result.Decoding, want) {
		t.Fatalf("decoding = %v, want %v", result.Decoding, want)
	}
}

// TestMinSumRedirectsToMinSumLog covers the §4.3.2/§9 redirection.
func TestMinSumRedirectsToMinSumLog(t *testing.T) {
	if ResolveLegacy(MinSum) != MinSumLog {
		t.Fatalf("MinSum must redirect to MinSumLog")
	}
	if ResolveLegacy(ProdSum) != ProdSum {
		t.Fatalf("ProdSum must not be redirected")
	}
}

// TestParallelAndSerialAgreeOnConvergedOutput checks the serial
// schedule against the parallel schedule where semantics are
// unambiguous (spec.md §9 Open Questions), using a case both converge on.
func TestParallelAndSerialAgreeOnConvergedOutput(t *testing.T) {
	for _, method := range []Method{ProdSumLog, MinSumLog} {
		t.Run(method.String(), func(t *testing.T) {
			Hp := repetitionH(t)
			Hs := repetitionH(t)
			priors := []float64{0.1, 0.1, 0.1}
			synd := []int{1, 0}

			parallel, err := Run(Params{H: Hp, Priors: priors, Synd: synd, MaxIter: 10, Method: method, Schedule: Parallel, ScalingFactor: 1})
			if err != nil {
				t.Fatalf("parallel: unexpected error: %v", err)
			}
			serial, err := Run(Params{H: Hs, Priors: priors, Synd: synd, MaxIter: 10, Method: method, Schedule: Serial, ScalingFactor: 1})
			if err != nil {
				t.Fatalf("serial: unexpected error: %v", err)
			}
			if !parallel.Converged || !serial.Converged {
				t.Fatalf("expected both schedules to converge: parallel=%v serial=%v", parallel.Converged, serial.Converged)
			}
			if !equalInts(parallel.Decoding, serial.Decoding) {
				t.Fatalf("parallel decoding %v != serial decoding %v", parallel.Decoding, serial.Decoding)
			}
		})
	}
}

// TestIdempotence covers the §8 idempotence property: decoding the same
// input twice over independently-constructed matrices yields the same
// output.
func TestIdempotence(t *testing.T) {
	priors := []float64{0.1, 0.1, 0.1}
	synd := []int{1, 0}

	first, err := Run(Params{H: repetitionH(t), Priors: priors, Synd: synd, MaxIter: 10, Method: ProdSumLog, Schedule: Parallel})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Run(Params{H: repetitionH(t), Priors: priors, Synd: synd, MaxIter: 10, Method: ProdSumLog, Schedule: Parallel})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !equalInts(first.Decoding, second.Decoding) || first.Converged != second.Converged {
		t.Fatalf("decode is not idempotent: %v/%v vs %v/%v", first.Decoding, first.Converged, second.Decoding, second.Converged)
	}
}

func TestInactivatedChecksAreIgnoredByConvergence(t *testing.T) {
	H := repetitionH(t)
	result, err := Run(Params{
		H:                 H,
		Priors:            []float64{0.1, 0.1, 0.1},
		Synd:              []int{0, 0},
		MaxIter:           1,
		Method:            ProdSumLog,
		Schedule:          Parallel,
		InactivatedChecks: []int{1, 0},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Converged {
		t.Fatalf("expected convergence with row 0 inactivated and a single active row satisfied")
	}
}
