// Package ldpc is the decoder facade: it wires SparseMod2 (package
// sparsemod2), ChannelModel (package channel) and BPEngine (package
// bp) together behind the construction/runtime contract of spec.md §6,
// and adds the stabilizer-inactivation post-processor (§4.5) as an
// opt-in second pass over BP's output.
package ldpc

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/KuantumBS/ldpc/bp"
	"github.com/KuantumBS/ldpc/channel"
	"github.com/KuantumBS/ldpc/sparsemod2"
)

// Config is the decoder's construction-time input (spec.md §6). Method
// and Schedule accept anything bp.ParseMethod / bp.ParseSchedule
// accepts: an alias string or the historical integer code.
type Config struct {
	H *sparsemod2.Matrix

	// ErrorRate is used when ChannelProbs is nil.
	ErrorRate float64
	// ChannelProbs, if non-nil, overrides ErrorRate; length must equal
	// H's column count.
	ChannelProbs []float64

	MaxIter int

	Method   interface{}
	Schedule interface{}

	ScalingFactor float64

	InputVectorType InputType

	// Threads bounds the worker pool the SI post-processor's GF(2)
	// solve uses. <= 0 uses runtime.NumCPU (nathanhack/threadpool
	// convention).
	Threads int
}

// Decoder is a fully validated, ready-to-run decoder instance. Its
// SparseMod2 owns all message state, so a Decoder is not safe for
// concurrent Decode/SIDecode calls (spec.md §5) — build one Decoder
// per goroutine that needs one, even over the same H shape.
type Decoder struct {
	h    *sparsemod2.Matrix
	m, n int

	model *channel.Model

	maxIter       int
	method        bp.Method
	schedule      bp.Schedule
	scalingFactor float64
	inputType     InputType
	threads       int

	inactivated []int

	iter      int
	converged bool
	decoding  []int
	llrs      []float64
}

// New validates cfg and returns a Decoder, or a *DecodeError if any
// field is malformed. No partially-initialized Decoder is ever
// returned (spec.md §7).
func New(cfg Config) (*Decoder, error) {
	if cfg.H == nil {
		return nil, newError(InvalidMatrix, "parity check matrix is nil")
	}
	m, n := cfg.H.Dims()

	var model *channel.Model
	if cfg.ChannelProbs != nil {
		if len(cfg.ChannelProbs) != n {
			return nil, newError(ChannelLengthMismatch, "len(channel_probs)=%d, want n=%d", len(cfg.ChannelProbs), n)
		}
		mdl, err := channel.PerBit(cfg.ChannelProbs)
		if err != nil {
			return nil, newError(InvalidErrorRate, "%v", err)
		}
		model = mdl
	} else {
		mdl, err := channel.Uniform(cfg.ErrorRate, n)
		if err != nil {
			return nil, newError(InvalidErrorRate, "%v", err)
		}
		model = mdl
	}

	if cfg.MaxIter < 0 {
		return nil, newError(InvalidMaxIter, "max_iter must be >= 0, got %d", cfg.MaxIter)
	}

	method, err := bp.ParseMethod(cfg.Method)
	if err != nil {
		return nil, newError(InvalidBPMethod, "%v", err)
	}
	schedule, err := bp.ParseSchedule(cfg.Schedule)
	if err != nil {
		return nil, newError(InvalidSchedule, "%v", err)
	}

	return &Decoder{
		h:             cfg.H,
		m:             m,
		n:             n,
		model:         model,
		maxIter:       cfg.MaxIter,
		method:        method,
		schedule:      schedule,
		scalingFactor: cfg.ScalingFactor,
		inputType:     cfg.InputVectorType,
		threads:       cfg.Threads,
	}, nil
}

// Decode runs plain BP (no stabilizer inactivation) over v and returns
// the recovered estimate.
func (d *Decoder) Decode(v []int) ([]int, error) {
	ni, err := normalizeInput(d.h, v, d.inputType)
	if err != nil {
		return nil, err
	}
	result, err := d.runBP(ni.synd, d.inactivated)
	if err != nil {
		return nil, err
	}
	d.record(result)
	return ni.resolve(result.Decoding), nil
}

// SIDecode runs plain BP first; if it converges, its output is
// returned unchanged (spec.md §8's short-circuit property). Otherwise
// it falls through to the stabilizer-inactivation post-processor.
// SIDecode is Syndrome-input only.
func (d *Decoder) SIDecode(ctx context.Context, v []int) ([]int, error) {
	if d.inputType == Received {
		return nil, newError(InvalidInputType, "si_decode requires Syndrome input")
	}
	ni, err := normalizeInput(d.h, v, d.inputType)
	if err != nil {
		return nil, err
	}
	if ni.received != nil {
		return nil, newError(InvalidInputType, "si_decode requires Syndrome input")
	}

	result, err := d.runBP(ni.synd, d.inactivated)
	if err != nil {
		return nil, err
	}
	if result.Converged {
		d.record(result)
		return ni.resolve(result.Decoding), nil
	}

	logrus.Debugf("ldpc: plain BP failed to converge, entering stabilizer inactivation")
	recovered, err := inactivate(ctx, inactivationInput{
		H:             d.h,
		Priors:        d.model.Probs(),
		OriginalSynd:  ni.synd,
		MaxIter:       d.maxIter,
		Method:        d.method,
		Schedule:      d.schedule,
		ScalingFactor: d.scalingFactor,
		Threads:       d.threads,
		Initial:       result,
	})
	if err != nil {
		return nil, err
	}
	d.record(recovered)
	return ni.resolve(recovered.Decoding), nil
}

func (d *Decoder) runBP(synd []int, inactivated []int) (bp.Result, error) {
	return bp.Run(bp.Params{
		H:                 d.h,
		Priors:            d.model.Probs(),
		Synd:              synd,
		MaxIter:           d.maxIter,
		Method:            d.method,
		Schedule:          d.schedule,
		ScalingFactor:     d.scalingFactor,
		InactivatedChecks: inactivated,
	})
}

func (d *Decoder) record(r bp.Result) {
	d.iter = r.Iterations
	d.converged = r.Converged
	d.decoding = r.Decoding
	d.llrs = r.LogProbRatios
}

// UpdateChannelProbs replaces the decoder's per-bit priors in place.
func (d *Decoder) UpdateChannelProbs(p []float64) error {
	if len(p) != d.n {
		return newError(ChannelLengthMismatch, "len(channel_probs)=%d, want n=%d", len(p), d.n)
	}
	model, err := channel.PerBit(p)
	if err != nil {
		return newError(InvalidErrorRate, "%v", err)
	}
	d.model = model
	return nil
}

// SetInactivatedChecks marks every row index in indices as inactivated
// for subsequent Decode calls; every other row is active.
func (d *Decoder) SetInactivatedChecks(indices []int) {
	mask := make([]int, d.m)
	for _, i := range indices {
		mask[i] = 1
	}
	d.inactivated = mask
}

// ResetInactivatedChecks clears any inactivation mask set by
// SetInactivatedChecks. SIDecode builds its own per-candidate masks and
// never changes this one.
func (d *Decoder) ResetInactivatedChecks() {
	d.inactivated = nil
}

func (d *Decoder) Iter() int                { return d.iter }
func (d *Decoder) Converged() bool          { return d.converged }
func (d *Decoder) BPDecoding() []int        { return d.decoding }
func (d *Decoder) LogProbRatios() []float64 { return d.llrs }
func (d *Decoder) ChannelProbs() []float64  { return d.model.Probs() }
func (d *Decoder) BPMethod() string         { return d.method.String() }
func (d *Decoder) Schedule() string         { return d.schedule.String() }
func (d *Decoder) MSScalingFactor() float64 { return d.scalingFactor }
func (d *Decoder) MaxIter() int             { return d.maxIter }
func (d *Decoder) InactivatedChecks() []int { return d.inactivated }
