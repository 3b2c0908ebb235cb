package ldpc

import "fmt"

// Kind identifies which configuration or decode-time contract a
// DecodeError violates (spec.md §7).
type Kind int

const (
	InvalidMatrix Kind = iota
	InvalidErrorRate
	InvalidMaxIter
	InvalidBPMethod
	InvalidSchedule
	InvalidInputType
	ChannelLengthMismatch
	AmbiguousInput
	InvalidInputLength
)

func (k Kind) String() string {
	switch k {
	case InvalidMatrix:
		return "InvalidMatrix"
	case InvalidErrorRate:
		return "InvalidErrorRate"
	case InvalidMaxIter:
		return "InvalidMaxIter"
	case InvalidBPMethod:
		return "InvalidBPMethod"
	case InvalidSchedule:
		return "InvalidSchedule"
	case InvalidInputType:
		return "InvalidInputType"
	case ChannelLengthMismatch:
		return "ChannelLengthMismatch"
	case AmbiguousInput:
		return "AmbiguousInput"
	case InvalidInputLength:
		return "InvalidInputLength"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// DecodeError reports a configuration or decode-time contract
// violation. Configuration errors fail New before any decoder is
// returned; decode-time errors fail Decode/SIDecode without mutating
// any output buffer (spec.md §7).
type DecodeError struct {
	Kind   Kind
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("ldpc: %s: %s", e.Kind, e.Reason)
}

func newError(k Kind, format string, args ...interface{}) *DecodeError {
	return &DecodeError{Kind: k, Reason: fmt.Sprintf(format, args...)}
}
