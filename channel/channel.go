// Package channel holds the per-bit a-priori error model (component C2
// of the decoder): a vector of channel flip probabilities and its
// conversions to the log-likelihood-ratio and probability-ratio forms
// the bp kernels consume.
package channel

import (
	"fmt"
	"math"
)

// Model is a vector of per-bit a-priori error probabilities, each
// strictly in (0,1) — the endpoints would produce infinities or
// divisions by zero in the LLR/ratio conversions below.
type Model struct {
	p []float64
}

// InvalidErrorRateError reports a channel probability outside (0,1).
type InvalidErrorRateError struct {
	Value float64
}

func (e *InvalidErrorRateError) Error() string {
	return fmt.Sprintf("channel error rate must be strictly between 0 and 1, got %v", e.Value)
}

// Uniform builds a Model of length n where every bit has the same flip
// probability p.
func Uniform(p float64, n int) (*Model, error) {
	if n <= 0 {
		return nil, fmt.Errorf("channel length must be positive, got %d", n)
	}
	if !validProb(p) {
		return nil, &InvalidErrorRateError{Value: p}
	}
	probs := make([]float64, n)
	for i := range probs {
		probs[i] = p
	}
	return &Model{p: probs}, nil
}

// PerBit builds a Model directly from a per-bit probability vector.
func PerBit(p []float64) (*Model, error) {
	if len(p) == 0 {
		return nil, fmt.Errorf("channel length must be positive, got 0")
	}
	probs := make([]float64, len(p))
	for i, v := range p {
		if !validProb(v) {
			return nil, &InvalidErrorRateError{Value: v}
		}
		probs[i] = v
	}
	return &Model{p: probs}, nil
}

func validProb(p float64) bool {
	return p > 0 && p < 1
}

// Len returns the number of bits this Model covers.
func (m *Model) Len() int { return len(m.p) }

// Prob returns the raw flip probability p_j of bit j.
func (m *Model) Prob(j int) float64 { return m.p[j] }

// Probs returns the underlying probability vector. Callers must not
// mutate the returned slice.
func (m *Model) Probs() []float64 { return m.p }

// LLR returns the prior log-likelihood ratio of bit j: log((1-p_j)/p_j).
func (m *Model) LLR(j int) float64 {
	p := m.p[j]
	return math.Log((1 - p) / p)
}

// Ratio returns the prior probability ratio of bit j: p_j/(1-p_j).
func (m *Model) Ratio(j int) float64 {
	p := m.p[j]
	return p / (1 - p)
}
