package bp

import (
	"math"

	"github.com/KuantumBS/ldpc/sparsemod2"
)

// checkToBitMSL implements §4.3.4's check→bit phase: a forward sweep
// tracks the running minimum magnitude and sign parity of preceding
// edges in the row, a backward sweep folds in the suffix the same way,
// and the normalization α scales the final combined message.
func checkToBitMSL(H *sparsemod2.Matrix, synd []int, inactivated []int, alpha float64) {
	rows, _ := H.Dims()
	for i := 0; i < rows; i++ {
		if inactivated != nil && inactivated[i] == 1 {
			for e := H.FirstInRow(i); !H.AtEnd(e); e = H.NextInRow(e) {
				H.SetCheckToBit(e, 0)
				H.SetSign(e, 0)
			}
			continue
		}

		min := minSumSentinel
		sgn := synd[i]
		for e := H.FirstInRow(i); !H.AtEnd(e); e = H.NextInRow(e) {
			H.SetCheckToBit(e, min)
			H.SetSign(e, sgn)
			v := H.BitToCheck(e)
			if math.Abs(v) < min {
				min = math.Abs(v)
			}
			if v <= 0 {
				sgn++
			}
		}

		runningMin := minSumSentinel
		runningSgn := 0
		for e := H.LastInRow(i); !H.AtEnd(e); e = H.PrevInRow(e) {
			combinedMin := math.Min(H.CheckToBit(e), runningMin)
			combinedSgn := H.Sign(e) + runningSgn
			ctb := combinedMin * alpha
			if combinedSgn%2 != 0 {
				ctb = -ctb
			}
			H.SetCheckToBit(e, ctb)
			H.SetSign(e, combinedSgn)

			v := H.BitToCheck(e)
			if math.Abs(v) < runningMin {
				runningMin = math.Abs(v)
			}
			if v <= 0 {
				runningSgn++
			}
		}
	}
}
