package bp

import (
	"math"

	"github.com/KuantumBS/ldpc/sparsemod2"
)

// checkToBitPS implements §4.3.1's check→bit phase: for each row, a
// forward sweep accumulates the running product of "flipped" ratios
// into check_to_bit, then a backward sweep folds in the suffix and
// collapses the product into the ratio each edge would see excluding
// itself.
func checkToBitPS(H *sparsemod2.Matrix, synd []int, inactivated []int) {
	rows, _ := H.Dims()
	for i := 0; i < rows; i++ {
		if inactivated != nil && inactivated[i] == 1 {
			for e := H.FirstInRow(i); !H.AtEnd(e); e = H.NextInRow(e) {
				H.SetCheckToBit(e, 0)
			}
			continue
		}

		t := 1.0
		if synd[i] == 1 {
			t = -1.0
		}
		for e := H.FirstInRow(i); !H.AtEnd(e); e = H.NextInRow(e) {
			H.SetCheckToBit(e, t)
			t *= flippedRatio(H.BitToCheck(e))
		}

		t = 1.0
		for e := H.LastInRow(i); !H.AtEnd(e); e = H.PrevInRow(e) {
			ctb := H.CheckToBit(e) * t
			ctb = (1 - ctb) / (1 + ctb)
			H.SetCheckToBit(e, ctb)
			t *= flippedRatio(H.BitToCheck(e))
		}
	}
}

func flippedRatio(ratio float64) float64 {
	return 2/(1+ratio) - 1
}

// bitToCheckPS implements §4.3.1's bit→check and posterior phase: a
// forward sweep over each column seeds from the channel prior ratio and
// accumulates the running product into bit_to_check, resetting to the
// product identity whenever the product goes NaN (the 0·∞ that
// routinely arises combining near-zero and near-infinity ratios); a
// backward sweep folds in the suffix.
func bitToCheckPS(H *sparsemod2.Matrix, priors []float64, decoding []int, logProbRatios []float64) {
	_, cols := H.Dims()
	for j := 0; j < cols; j++ {
		p := priors[j]
		r := p / (1 - p)

		t := r
		for e := H.FirstInCol(j); !H.AtEnd(e); e = H.NextInCol(e) {
			H.SetBitToCheck(e, t)
			t *= H.CheckToBit(e)
			if math.IsNaN(t) {
				t = 1
			}
		}
		logProbRatios[j] = math.Log(1 / t)
		if t >= 1 {
			decoding[j] = 1
		} else {
			decoding[j] = 0
		}

		t = 1
		for e := H.LastInCol(j); !H.AtEnd(e); e = H.PrevInCol(e) {
			btc := H.BitToCheck(e) * t
			H.SetBitToCheck(e, btc)
			t *= H.CheckToBit(e)
			if math.IsNaN(t) {
				t = 1
			}
		}
	}
}
