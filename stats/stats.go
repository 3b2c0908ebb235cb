// Package stats accumulates running decode statistics across many
// trials: component C8, used to characterize a (H, channel, method)
// combination the way the teacher's benchmarking package characterizes
// an encode/channel/repair pipeline.
package stats

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/cheggaaa/pb/v3"
	"github.com/nathanhack/avgstd"
	"github.com/nathanhack/threadpool"
)

// Stats is the running mean/variance of three per-trial metrics.
type Stats struct {
	BitErrorRate   avgstd.AvgStd
	BlockErrorRate avgstd.AvgStd
	Iterations     avgstd.AvgStd
}

func (s Stats) String() string {
	return fmt.Sprintf("{BER:%0.04f(+/-%0.04f), BLER:%0.04f(+/-%0.04f), Iterations:%0.02f(+/-%0.02f)}",
		s.BitErrorRate.Mean, math.Sqrt(s.BitErrorRate.SampledVariance()),
		s.BlockErrorRate.Mean, math.Sqrt(s.BlockErrorRate.SampledVariance()),
		s.Iterations.Mean, math.Sqrt(s.Iterations.SampledVariance()),
	)
}

// Trial runs one decode trial and reports its bit error rate, whether
// the whole block was in error, and how many BP iterations it took.
type Trial func(trial int) (bitErrorRate float64, blockInError bool, iterations int)

// Checkpoint is called after every trial with the stats accumulated so far.
type Checkpoint func(updated Stats)

// Run executes trials decode trials across threads workers and returns
// the accumulated Stats. threads <= 0 uses runtime.NumCPU.
func Run(ctx context.Context, trials, threads int, run Trial, checkpoint Checkpoint, showProgress bool) Stats {
	return RunContinue(ctx, trials, threads, run, checkpoint, Stats{}, showProgress)
}

// RunContinue resumes accumulation from previous, running only the
// trials beyond previous's sample count. Lets a long benchmark be
// checkpointed and restarted without redoing completed work.
func RunContinue(ctx context.Context, trials, threads int, run Trial, checkpoint Checkpoint, previous Stats, showProgress bool) Stats {
	remaining := trials - previous.BitErrorRate.Count
	if remaining <= 0 {
		return previous
	}

	var bar *pb.ProgressBar
	if showProgress {
		bar = pb.StartNew(remaining)
	}

	pool := threadpool.NewFixedSize(ctx, threads, remaining)
	mux := sync.Mutex{}

	trial := func(i int) {
		if showProgress {
			bar.Increment()
		}
		ber, blockInError, iterations := run(i)

		blockErr := 0.0
		if blockInError {
			blockErr = 1.0
		}

		mux.Lock()
		previous.BitErrorRate.Update(ber)
		previous.BlockErrorRate.Update(blockErr)
		previous.Iterations.Update(float64(iterations))
		if checkpoint != nil {
			checkpoint(previous)
		}
		mux.Unlock()
	}

	for i := previous.BitErrorRate.Count; i < trials; i++ {
		idx := i
		pool.Add(func() { trial(idx) })
	}
	pool.Wait()

	if showProgress {
		bar.Finish()
	}
	return previous
}
