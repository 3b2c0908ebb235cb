package bp

import (
	"math"

	"github.com/KuantumBS/ldpc/sparsemod2"
)

// runSerialIteration implements §4.3.5: bits are visited in ascending
// index order, and each bit's update is immediately visible to later
// bits' check-message recomputation within the same iteration — the
// defining property of the serial schedule (spec.md §5).
//
// Kernel ProdSum and ProdSumLog compute the same log-domain row message
// here (the "PS/PSL path"); MinSumLog is the "MS/MSL path". ProdSum's
// ratio-domain bit_to_check state is never read by the serial schedule,
// so grouping it with ProdSumLog is exact, not an approximation: both
// seed log_prob_ratios from the same prior LLR and combine rows with
// the same tanh-log message (spec.md §4.3.5 step 2).
func runSerialIteration(p Params, method Method, iteration int, decoding []int, logProbRatios []float64) {
	_, cols := p.H.Dims()
	alpha := p.scalingFactor(iteration)

	for j := 0; j < cols; j++ {
		prior := p.Priors[j]
		l := math.Log((1 - prior) / prior)
		logProbRatios[j] = l

		for e := p.H.FirstInCol(j); !p.H.AtEnd(e); e = p.H.NextInCol(e) {
			row := p.H.Row(e)
			if p.inactivated(row) {
				p.H.SetCheckToBit(e, 0)
				continue
			}

			var ctb float64
			switch method {
			case ProdSum, ProdSumLog:
				ctb = serialRowMessagePSL(p.H, row, e, p.Synd[row])
			case MinSumLog:
				ctb = serialRowMessageMSL(p.H, row, e, p.Synd[row], alpha)
			}
			p.H.SetCheckToBit(e, ctb)

			snapshot := logProbRatios[j]
			p.H.SetBitToCheck(e, snapshot)
			logProbRatios[j] += ctb
		}

		if logProbRatios[j] <= 0 {
			decoding[j] = 1
		} else {
			decoding[j] = 0
		}

		finalizeColumnBackward(p, j)
	}
}

// serialRowMessagePSL recomputes e's check→bit message using only the
// OTHER entries of row r's current bit_to_check values (spec.md §4.3.5
// step 2, "PS/PSL path").
func serialRowMessagePSL(H *sparsemod2.Matrix, row, exclude, syndBit int) float64 {
	prod := 1.0
	for g := H.FirstInRow(row); !H.AtEnd(g); g = H.NextInRow(g) {
		if g == exclude {
			continue
		}
		prod *= math.Tanh(H.BitToCheck(g) / 2)
	}
	sign := 1.0
	if syndBit == 1 {
		sign = -1.0
	}
	return sign * math.Log((1+prod)/(1-prod))
}

// serialRowMessageMSL is serialRowMessagePSL's min-sum counterpart
// (spec.md §4.3.5 step 2, "MS/MSL path").
func serialRowMessageMSL(H *sparsemod2.Matrix, row, exclude, syndBit int, alpha float64) float64 {
	min := minSumSentinel
	sgn := syndBit
	for g := H.FirstInRow(row); !H.AtEnd(g); g = H.NextInRow(g) {
		if g == exclude {
			continue
		}
		v := H.BitToCheck(g)
		if math.Abs(v) < min {
			min = math.Abs(v)
		}
		if v <= 0 {
			sgn++
		}
	}
	ctb := min * alpha
	if sgn%2 != 0 {
		ctb = -ctb
	}
	return ctb
}

// finalizeColumnBackward applies the single backward sweep §4.3.5 step
// 5 calls for: it mirrors the parallel kernels' second column pass,
// finalizing each edge's bit_to_check across the whole column after all
// of that column's check messages were recomputed.
func finalizeColumnBackward(p Params, col int) {
	t := 0.0
	for e := p.H.LastInCol(col); !p.H.AtEnd(e); e = p.H.PrevInCol(e) {
		btc := p.H.BitToCheck(e) + t
		p.H.SetBitToCheck(e, btc)
		t += p.H.CheckToBit(e)
	}
}
