package channel

import (
	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/stat/distuv"
)

// Simulate draws one error vector from m, flipping bit j with
// probability m.Prob(j). It generates synthetic channel noise for tests
// and for callers' own trial functions; neither the decoder nor package
// stats calls it.
func Simulate(src rand.Source, m *Model) []int {
	errs := make([]int, m.Len())
	for j := range errs {
		b := distuv.Bernoulli{P: m.Prob(j), Src: src}
		errs[j] = int(b.Rand())
	}
	return errs
}
