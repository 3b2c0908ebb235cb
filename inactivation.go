package ldpc

import (
	"context"
	"sort"

	mat "github.com/nathanhack/sparsemat"
	"github.com/sirupsen/logrus"

	"github.com/KuantumBS/ldpc/bp"
	"github.com/KuantumBS/ldpc/gf2"
	"github.com/KuantumBS/ldpc/sparsemod2"
)

// inactivationInput bundles what InactivationPostprocess needs beyond
// the failed plain-BP run: everything BP itself needed, plus the
// syndrome as it stood before that run (spec.md §4.5 step 1).
type inactivationInput struct {
	H             *sparsemod2.Matrix
	Priors        []float64
	OriginalSynd  []int
	MaxIter       int
	Method        bp.Method
	Schedule      bp.Schedule
	ScalingFactor float64
	Threads       int
	Initial       bp.Result
}

// inactivate implements C5. It is only ever called after a plain BP
// run has failed to converge; callers check that themselves so the
// short-circuit property (spec.md §8) is visible at the call site
// rather than buried in here.
func inactivate(ctx context.Context, in inactivationInput) (bp.Result, error) {
	m, _ := in.H.Dims()

	reliability := make([]float64, m)
	for i := 0; i < m; i++ {
		sum := 0.0
		for _, j := range in.H.RowNonzeros(i) {
			sum += abs(in.Initial.LogProbRatios[j])
		}
		reliability[i] = sum
	}
	candidates := make([]int, m)
	for i := range candidates {
		candidates[i] = i
	}
	sort.SliceStable(candidates, func(a, b int) bool {
		return reliability[candidates[a]] < reliability[candidates[b]]
	})

	last := in.Initial
	for _, c := range candidates {
		select {
		case <-ctx.Done():
			return bp.Result{}, ctx.Err()
		default:
		}

		cluster := buildCluster(in.H, c)

		mask := make([]int, m)
		for _, i := range cluster.checks {
			mask[i] = 1
		}
		synd := make([]int, m)
		copy(synd, in.OriginalSynd)
		for _, i := range cluster.checks {
			synd[i] = 0
		}

		result, err := bp.Run(bp.Params{
			H:                 in.H,
			Priors:            in.Priors,
			Synd:              synd,
			MaxIter:           in.MaxIter,
			Method:            in.Method,
			Schedule:          in.Schedule,
			ScalingFactor:     in.ScalingFactor,
			InactivatedChecks: mask,
		})
		if err != nil {
			return bp.Result{}, err
		}
		last = result
		if !result.Converged {
			continue
		}

		x, err := solveResidual(ctx, in.H, cluster, in.OriginalSynd, result.Decoding, in.Threads)
		if err != nil {
			return bp.Result{}, err
		}

		decoding := make([]int, len(result.Decoding))
		copy(decoding, result.Decoding)
		for k, j := range cluster.bits {
			decoding[j] = x[k]
		}

		logrus.Debugf("ldpc: stabilizer inactivation recovered convergence, cluster check=%d |C|=%d |B|=%d", c, len(cluster.checks), len(cluster.bits))
		return bp.Result{
			Decoding:      decoding,
			LogProbRatios: result.LogProbRatios,
			Iterations:    result.Iterations,
			Converged:     true,
		}, nil
	}

	logrus.Debugf("ldpc: stabilizer inactivation exhausted all %d candidate checks without recovering convergence", m)
	return last, nil
}

// cluster is the local ring inactivated around a single candidate
// check c (spec.md §4.5 step 3a): B is the inactivated bits, C the
// inactivated checks. Both are insertion-order deduplicated so the
// residual matrix's row/column mapping is deterministic.
type cluster struct {
	checks []int // C, insertion order: c first, then discovery order
	bits   []int // B, insertion order: H.RowNonzeros(c)
}

func buildCluster(H *sparsemod2.Matrix, c int) cluster {
	bits := H.RowNonzeros(c)

	seen := map[int]bool{c: true}
	checks := []int{c}
	for _, j := range bits {
		for _, i := range H.ColNonzeros(j) {
			if !seen[i] {
				seen[i] = true
				checks = append(checks, i)
			}
		}
	}

	return cluster{checks: checks, bits: bits}
}

// solveResidual implements spec.md §4.5 steps e-f: build the |C|x|B|
// residual matrix S and target t from the edges between C and B, then
// hand off to the GF(2) utility.
func solveResidual(ctx context.Context, H *sparsemod2.Matrix, cl cluster, originalSynd []int, decoding []int, threads int) ([]int, error) {
	bitIndex := make(map[int]int, len(cl.bits))
	for k, j := range cl.bits {
		bitIndex[j] = k
	}

	S := mat.DOKMat(len(cl.checks), len(cl.bits))
	t := make([]int, len(cl.checks))

	for ci, i := range cl.checks {
		glue := 0
		for _, j := range H.RowNonzeros(i) {
			if k, inB := bitIndex[j]; inB {
				S.Set(ci, k, 1)
			} else {
				glue ^= decoding[j]
			}
		}
		t[ci] = originalSynd[i] ^ glue
	}

	return gf2.Solve(ctx, S, t, threads)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
