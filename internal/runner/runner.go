package runner

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Result captures execution summary.
type Result struct {
	Launched int         // client tasks started
	Launches []time.Time // launch time of each task, in launch order
	Duration time.Duration
}

// Runner launches one task per client, staggering the launches, and waits for
// all of them.
type Runner struct {
	opt Options
}

func New(opt Options) *Runner {
	opt.normalize()
	return &Runner{opt: opt}
}

// Run launches Clients tasks in order, sleeping a Stagger delay after each
// launch, then blocks until every launched task has returned. Task errors are
// not observed here; they are reported by the requester middleware.
//
// Run has no deadline of its own. Cancelling ctx stops further launches and is
// passed to every task.
func (r *Runner) Run(ctx context.Context) Result {
	start := time.Now()
	launches := make([]time.Time, 0, r.opt.Clients)
	log := r.opt.Logger

	var g errgroup.Group
	for i := 0; i < r.opt.Clients; i++ {
		if ctx.Err() != nil {
			log.Warn("launch loop interrupted",
				zap.Int("launched", len(launches)),
				zap.Int("clients", r.opt.Clients),
				zap.Error(ctx.Err()))
			break
		}

		launches = append(launches, time.Now())
		g.Go(func() error {
			if r.opt.Requester != nil {
				_ = r.opt.Requester.Do(ctx)
			}
			return nil
		})

		delay := r.opt.Stagger()
		log.Debug("client launched", zap.Int("client", i+1), zap.Duration("next_launch_in", delay))
		if err := r.opt.Sleep(ctx, delay); err != nil {
			log.Debug("stagger sleep aborted", zap.Int("client", i+1), zap.Error(err))
		}
	}

	_ = g.Wait()

	return Result{
		Launched: len(launches),
		Launches: launches,
		Duration: time.Since(start),
	}
}
