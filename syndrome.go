package ldpc

import "github.com/KuantumBS/ldpc/sparsemod2"

// InputType tells the syndrome adapter how to interpret a decode input
// vector (spec.md §4.4).
type InputType int

const (
	// Auto infers Received or Syndrome from the input's length; only
	// valid when the parity check matrix is non-square.
	Auto InputType = iota
	Syndrome
	Received
)

func (t InputType) String() string {
	switch t {
	case Auto:
		return "Auto"
	case Syndrome:
		return "Syndrome"
	case Received:
		return "Received"
	default:
		return "InputType(unknown)"
	}
}

// normalizedInput is the SyndromeAdapter's output: a syndrome to feed
// BP, and (for Received input) the received word needed to recover the
// final estimate via XOR.
type normalizedInput struct {
	synd     []int
	received []int // nil for Syndrome input
}

// normalizeInput implements C4: it resolves t against H's shape and v's
// length, then produces the syndrome BP will decode against.
func normalizeInput(H *sparsemod2.Matrix, v []int, t InputType) (normalizedInput, error) {
	m, n := H.Dims()

	resolved := t
	if t == Auto {
		if m == n {
			return normalizedInput{}, newError(AmbiguousInput, "input_vector_type=Auto is ambiguous for a square %dx%d matrix", m, n)
		}
		switch len(v) {
		case n:
			resolved = Received
		case m:
			resolved = Syndrome
		default:
			return normalizedInput{}, newError(InvalidInputLength, "len(v)=%d matches neither m=%d nor n=%d", len(v), m, n)
		}
	}

	switch resolved {
	case Received:
		if len(v) != n {
			return normalizedInput{}, newError(InvalidInputLength, "Received input must have length n=%d, got %d", n, len(v))
		}
		received := make([]int, n)
		copy(received, v)
		synd := make([]int, m)
		H.MulVec(received, synd)
		return normalizedInput{synd: synd, received: received}, nil
	case Syndrome:
		if len(v) != m {
			return normalizedInput{}, newError(InvalidInputLength, "Syndrome input must have length m=%d, got %d", m, len(v))
		}
		synd := make([]int, m)
		copy(synd, v)
		return normalizedInput{synd: synd}, nil
	default:
		return normalizedInput{}, newError(InvalidInputType, "unrecognized input_vector_type %v", t)
	}
}

// resolve turns BP's error-pattern estimate into the SyndromeAdapter's
// final return value: the estimate itself for Syndrome input, or the
// estimate XORed with the received word for Received input.
func (ni normalizedInput) resolve(decoding []int) []int {
	if ni.received == nil {
		out := make([]int, len(decoding))
		copy(out, decoding)
		return out
	}
	out := make([]int, len(decoding))
	for i := range decoding {
		out[i] = decoding[i] ^ ni.received[i]
	}
	return out
}
