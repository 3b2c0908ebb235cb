package bp

import (
	"fmt"
	"strings"
)

// Method selects which check→bit update kernel BPEngine runs.
type Method int

const (
	// ProdSum is the product-sum kernel in probability-ratio form (§4.3.1).
	ProdSum Method = iota
	// MinSum is accepted for API compatibility only: the source's
	// linear-domain min-sum path is a known-buggy legacy kernel, so
	// constructing with MinSum silently re-routes to MinSumLog (§4.3.2).
	MinSum
	// ProdSumLog is the product-sum kernel in log domain (§4.3.3).
	ProdSumLog
	// MinSumLog is the normalized min-sum kernel in log domain (§4.3.4).
	MinSumLog
)

func (m Method) String() string {
	switch m {
	case ProdSum:
		return "prod_sum"
	case MinSum:
		return "min_sum"
	case ProdSumLog:
		return "prod_sum_log"
	case MinSumLog:
		return "min_sum_log"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// InvalidMethodError reports an unrecognized bp_method value.
type InvalidMethodError struct {
	Value interface{}
}

func (e *InvalidMethodError) Error() string {
	return fmt.Sprintf("invalid bp_method: %v", e.Value)
}

// ParseMethod accepts the string and integer aliases documented in
// spec.md §8 and returns the resolved Method. MinSum aliases resolve to
// the Method value MinSum, which ResolveLegacy then redirects to
// MinSumLog at the start of every Run — the alias itself is preserved
// for round-tripping via String/getters.
func ParseMethod(v interface{}) (Method, error) {
	switch t := v.(type) {
	case Method:
		return t, nil
	case int:
		switch t {
		case 0:
			return ProdSum, nil
		case 1:
			return MinSum, nil
		case 2:
			return ProdSumLog, nil
		case 3:
			return MinSumLog, nil
		}
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "ps", "prod_sum", "product_sum", "prod sum":
			return ProdSum, nil
		case "ms", "min_sum", "minimum_sum", "min sum":
			return MinSum, nil
		case "psl", "ps_log", "product_sum_log":
			return ProdSumLog, nil
		case "msl", "ms_log", "min_sum_log", "minimum_sum_log":
			return MinSumLog, nil
		}
	}
	return 0, &InvalidMethodError{Value: v}
}

// ResolveLegacy implements the §4.3.2 redirection: MinSum is rerouted
// to MinSumLog because the legacy linear-domain min-sum kernel is
// known-buggy and only accepted for API compatibility (see DESIGN.md
// and spec.md §9 Open Questions).
func ResolveLegacy(m Method) Method {
	if m == MinSum {
		return MinSumLog
	}
	return m
}

// Schedule selects whether BPEngine updates all bits in a flooding pass
// (Parallel) or one bit at a time in ascending index order (Serial).
type Schedule int

const (
	// Parallel computes all check→bit messages before any bit→check
	// update within an iteration.
	Parallel Schedule = iota
	// Serial updates bits one at a time in ascending index order; each
	// bit's update immediately affects later bits' check messages
	// within the same iteration.
	Serial
)

func (s Schedule) String() string {
	switch s {
	case Parallel:
		return "parallel"
	case Serial:
		return "serial"
	default:
		return fmt.Sprintf("Schedule(%d)", int(s))
	}
}

// InvalidScheduleError reports an unrecognized schedule value.
type InvalidScheduleError struct {
	Value interface{}
}

func (e *InvalidScheduleError) Error() string {
	return fmt.Sprintf("invalid schedule: %v", e.Value)
}

// ParseSchedule accepts the string and integer aliases documented in
// spec.md §8.
func ParseSchedule(v interface{}) (Schedule, error) {
	switch t := v.(type) {
	case Schedule:
		return t, nil
	case int:
		switch t {
		case 0:
			return Parallel, nil
		case 1:
			return Serial, nil
		}
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "p", "parallel", "flooding", "fl":
			return Parallel, nil
		case "s", "serial", "sequential":
			return Serial, nil
		}
	}
	return 0, &InvalidScheduleError{Value: v}
}
