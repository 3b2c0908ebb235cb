// Package bp implements component C3: the three belief-propagation
// kernels (product-sum in ratio form, product-sum in log form,
// normalized min-sum in log form) each in a flooding (parallel) and a
// layered (serial) schedule, over the sparsemod2 orthogonally linked
// matrix.
package bp

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/KuantumBS/ldpc/sparsemod2"
)

// minSumSentinel stands in for +∞ in the min-sum kernel, per spec.md
// §5: a large finite value keeps the subsequent (-1)^sgn·α·min product
// finite rather than implementation-defined infinity arithmetic.
const minSumSentinel = 1e308

// Params bundles everything BPEngine needs for a single decode run.
// H, Priors and Synd must already be sized consistently (H is m×n,
// Priors has length n, Synd has length m) — Run returns an error
// otherwise, before touching H.
type Params struct {
	H       *sparsemod2.Matrix
	Priors  []float64 // per-bit channel flip probability p_j, length n
	Synd    []int     // length m, values in {0,1}
	MaxIter int

	Method        Method
	Schedule      Schedule
	ScalingFactor float64 // ms_scaling_factor α; 0 selects the adaptive schedule

	// InactivatedChecks is a {0,1} mask over rows, length m. A nil mask
	// means no row is inactivated. Rows with a 1 contribute no
	// check→bit message (spec.md §4.3.5 step 2, applied uniformly to
	// both schedules — see DESIGN.md).
	InactivatedChecks []int
}

// Result is BPEngine's observable output.
type Result struct {
	Decoding      []int     // length n, the hard decision
	LogProbRatios []float64 // length n, posterior LLRs
	Iterations    int
	Converged     bool
}

func (p Params) rows() int { m, _ := p.H.Dims(); return m }
func (p Params) cols() int { _, n := p.H.Dims(); return n }

func (p Params) validate() error {
	m, n := p.H.Dims()
	if len(p.Priors) != n {
		return fmt.Errorf("bp: len(Priors)=%d, want %d columns", len(p.Priors), n)
	}
	if len(p.Synd) != m {
		return fmt.Errorf("bp: len(Synd)=%d, want %d rows", len(p.Synd), m)
	}
	if p.InactivatedChecks != nil && len(p.InactivatedChecks) != m {
		return fmt.Errorf("bp: len(InactivatedChecks)=%d, want %d rows", len(p.InactivatedChecks), m)
	}
	if p.MaxIter < 0 {
		return fmt.Errorf("bp: MaxIter must be >= 0, got %d", p.MaxIter)
	}
	if p.ScalingFactor < 0 {
		return fmt.Errorf("bp: ScalingFactor must be >= 0, got %v", p.ScalingFactor)
	}
	return nil
}

// scalingFactor returns the effective min-sum normalization α_t at
// iteration t (1-based): the configured constant, or, when
// ScalingFactor is 0, the adaptive α_t = 1 - 2^-t (spec.md §5).
func (p Params) scalingFactor(t int) float64 {
	if p.ScalingFactor != 0 {
		return p.ScalingFactor
	}
	return 1 - math.Exp2(-float64(t))
}

func (p Params) inactivated(row int) bool {
	return p.InactivatedChecks != nil && p.InactivatedChecks[row] == 1
}

// Run executes BPEngine: kernel initialization, the chosen schedule's
// iteration loop, and convergence testing. It mutates p.H's edge state
// in place (that is the whole point of sparsemod2) but never any
// caller-owned buffer — Decoding and LogProbRatios in Result are always
// freshly allocated, so two Run calls over the same H never alias.
func Run(p Params) (Result, error) {
	if err := p.validate(); err != nil {
		return Result{}, err
	}

	method := ResolveLegacy(p.Method)
	n := p.cols()
	m := p.rows()

	maxIter := p.MaxIter
	if maxIter == 0 {
		maxIter = n
	}

	result := Result{
		Decoding:      make([]int, n),
		LogProbRatios: make([]float64, n),
	}

	p.H.ResetMessages()
	// The serial schedule reads every edge's bit_to_check as an LLR, so
	// ProdSum is seeded there exactly as ProdSumLog is.
	seedMethod := method
	if p.Schedule == Serial && method == ProdSum {
		seedMethod = ProdSumLog
	}
	initializeBitToCheck(p.H, seedMethod, p.Priors)

	synd := make([]int, m)

	for t := 1; t <= maxIter; t++ {
		switch p.Schedule {
		case Parallel:
			runParallelIteration(p, method, t, result.Decoding, result.LogProbRatios)
		case Serial:
			runSerialIteration(p, method, t, result.Decoding, result.LogProbRatios)
		default:
			return Result{}, &InvalidScheduleError{Value: p.Schedule}
		}

		p.H.MulVec(result.Decoding, synd)
		if syndromeMatches(synd, p.Synd, p.InactivatedChecks) {
			result.Iterations = t
			result.Converged = true
			logrus.Debugf("bp: converged at iteration %d using %s/%s", t, method, p.Schedule)
			return result, nil
		}
	}

	result.Iterations = maxIter
	result.Converged = false
	logrus.Debugf("bp: did not converge within %d iterations using %s/%s", maxIter, method, p.Schedule)
	return result, nil
}

// syndromeMatches compares H·decoding against synd component-wise,
// skipping rows the caller has inactivated: those rows' equations are
// deliberately suppressed during stabilizer inactivation and are
// resolved afterwards by the GF(2) residual solve, not by BP's own
// convergence test (DESIGN.md records this as the resolution of an
// ambiguity in spec.md §4.5).
func syndromeMatches(computed, want []int, inactivated []int) bool {
	for i := range want {
		if inactivated != nil && inactivated[i] == 1 {
			continue
		}
		if computed[i] != want[i] {
			return false
		}
	}
	return true
}

// initializeBitToCheck seeds every edge's bit_to_check with the
// channel prior of its column, per each kernel's Initialization clause.
func initializeBitToCheck(H *sparsemod2.Matrix, method Method, priors []float64) {
	_, n := H.Dims()
	for j := 0; j < n; j++ {
		p := priors[j]
		var seed float64
		switch method {
		case ProdSum:
			seed = p / (1 - p)
		case ProdSumLog, MinSumLog:
			seed = math.Log((1 - p) / p)
		}
		for e := H.FirstInCol(j); !H.AtEnd(e); e = H.NextInCol(e) {
			H.SetBitToCheck(e, seed)
		}
	}
}

func runParallelIteration(p Params, method Method, iteration int, decoding []int, logProbRatios []float64) {
	switch method {
	case ProdSum:
		checkToBitPS(p.H, p.Synd, p.InactivatedChecks)
		bitToCheckPS(p.H, p.Priors, decoding, logProbRatios)
	case ProdSumLog:
		checkToBitPSL(p.H, p.Synd, p.InactivatedChecks)
		bitToCheckPSL(p.H, p.Priors, decoding, logProbRatios)
	case MinSumLog:
		alpha := p.scalingFactor(iteration)
		checkToBitMSL(p.H, p.Synd, p.InactivatedChecks, alpha)
		bitToCheckPSL(p.H, p.Priors, decoding, logProbRatios)
	}
}
