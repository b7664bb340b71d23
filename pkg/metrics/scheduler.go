package metrics

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	DownloadInterval = 500 * time.Millisecond
	SeedInterval     = time.Second
)

// Scheduler samples counters on a fixed cadence and hands samples to a renderer
type Scheduler struct {
	Interval time.Duration
	Now      func() time.Time
}

func NewScheduler(interval time.Duration) *Scheduler {
	return &Scheduler{
		Interval: interval,
		Now:      time.Now,
	}
}

// Run samples once immediately and then on every tick until ctx is done.
// Rendering happens on its own goroutine and only ever sees the latest
// sample, so a slow renderer never delays sampling.
func (s *Scheduler) Run(
	ctx context.Context,
	start time.Time,
	snapshot func() Counters,
	render func(Sample),
) error {
	latest := make(chan Sample, 1)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(latest)

		tick := time.NewTicker(s.Interval)
		defer tick.Stop()

		for {
			offer(latest, Compute(snapshot(), start, s.Now()))

			select {
			case <-ctx.Done():
				return nil
			case <-tick.C:
			}
		}
	})

	g.Go(func() error {
		for sample := range latest {
			render(sample)
		}

		return nil
	})

	return g.Wait()
}

// offer replaces any unrendered sample with the fresh one; there is a single sender
func offer(latest chan Sample, sample Sample) {
	select {
	case latest <- sample:
		return
	default:
	}

	select {
	case <-latest:
	default:
	}

	latest <- sample
}
