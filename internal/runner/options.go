package runner

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const (
	defaultStaggerMin = 100 * time.Millisecond
	defaultStaggerMax = 500 * time.Millisecond
)

// Requester abstracts executing a single client task.
// Implementations should return an error for failed requests.
type Requester interface {
	Do(ctx context.Context) error
}

// Options configure the Runner.
type Options struct {
	Clients   int                                              // number of client tasks to launch (0 is a valid, empty run)
	Requester Requester                                        // client task (required)
	Stagger   func() time.Duration                             // delay after each launch; defaults to uniform [100ms, 500ms)
	Sleep     func(ctx context.Context, d time.Duration) error // optional injection for tests
	Logger    *zap.Logger                                      // diagnostics; defaults to a no-op logger
}

func (o *Options) normalize() {
	if o.Clients < 0 {
		o.Clients = 0
	}
	if o.Stagger == nil {
		o.Stagger = NewJitter(defaultStaggerMin, defaultStaggerMax, time.Now().UnixNano()).Next
	}
	if o.Sleep == nil {
		o.Sleep = sleepContext
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
}

// sleepContext blocks for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
