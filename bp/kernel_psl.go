package bp

import (
	"math"

	"github.com/KuantumBS/ldpc/sparsemod2"
)

// checkToBitPSL implements §4.3.3's check→bit phase, using the
// tanh(L/2) = (1-e^-L)/(1+e^-L) identity to combine LLRs the way
// checkToBitPS combines ratios.
func checkToBitPSL(H *sparsemod2.Matrix, synd []int, inactivated []int) {
	rows, _ := H.Dims()
	for i := 0; i < rows; i++ {
		if inactivated != nil && inactivated[i] == 1 {
			for e := H.FirstInRow(i); !H.AtEnd(e); e = H.NextInRow(e) {
				H.SetCheckToBit(e, 0)
			}
			continue
		}

		t := 1.0
		for e := H.FirstInRow(i); !H.AtEnd(e); e = H.NextInRow(e) {
			H.SetCheckToBit(e, t)
			t *= math.Tanh(H.BitToCheck(e) / 2)
		}

		t = 1.0
		sign := 1.0
		if synd[i] == 1 {
			sign = -1.0
		}
		for e := H.LastInRow(i); !H.AtEnd(e); e = H.PrevInRow(e) {
			ctb := H.CheckToBit(e) * t
			ctb = sign * math.Log((1+ctb)/(1-ctb))
			H.SetCheckToBit(e, ctb)
			t *= math.Tanh(H.BitToCheck(e) / 2)
		}
	}
}

// bitToCheckPSL implements §4.3.3's bit→check and posterior phase
// (shared verbatim by the MinSumLog kernel per §4.3.4): a forward sweep
// seeds from the prior LLR and accumulates the sum into bit_to_check
// and the posterior log_prob_ratios; a backward sweep folds in the
// suffix sum.
func bitToCheckPSL(H *sparsemod2.Matrix, priors []float64, decoding []int, logProbRatios []float64) {
	_, cols := H.Dims()
	for j := 0; j < cols; j++ {
		p := priors[j]
		l := math.Log((1 - p) / p)

		t := l
		for e := H.FirstInCol(j); !H.AtEnd(e); e = H.NextInCol(e) {
			H.SetBitToCheck(e, t)
			t += H.CheckToBit(e)
		}
		logProbRatios[j] = t
		if t <= 0 {
			decoding[j] = 1
		} else {
			decoding[j] = 0
		}

		t = 0
		for e := H.LastInCol(j); !H.AtEnd(e); e = H.PrevInCol(e) {
			btc := H.BitToCheck(e) + t
			H.SetBitToCheck(e, btc)
			t += H.CheckToBit(e)
		}
	}
}
