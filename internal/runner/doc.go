// Package runner provides the load driver for stagger.
//
// A [Runner] launches one task per simulated client. Launches happen in
// order on the calling goroutine, which sleeps a random stagger delay after
// each one; tasks themselves are never throttled. Run returns only after
// every launched task has finished:
//
//	r := runner.New(runner.Options{
//		Clients:   50,
//		Requester: myRequester,
//		Stagger:   runner.NewJitter(100*time.Millisecond, 500*time.Millisecond, seed).Next,
//	})
//	result := r.Run(ctx)
//
// # Requester Interface
//
// The [Requester] interface defines what a task executes:
//
//	type Requester interface {
//		Do(ctx context.Context) error
//	}
//
// The runner ignores the returned error. Use [WithLogging] to report
// failures as they happen.
package runner
