package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/torosent/stagger/internal/config"
	"github.com/torosent/stagger/internal/httpclient"
	"github.com/torosent/stagger/internal/logging"
	"github.com/torosent/stagger/internal/metrics"
	"github.com/torosent/stagger/internal/output"
	"github.com/torosent/stagger/internal/runner"
	"github.com/torosent/stagger/internal/tracing"
)

const shutdownTimeout = 5 * time.Second

// consoleFailureLogger prints one line per failed request on the console.
type consoleFailureLogger struct {
	mu sync.Mutex
	w  io.Writer
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	loader := config.NewLoader()
	cfg, err := loader.Load(args)
	if err != nil {
		if errors.Is(err, config.ErrHelpRequested) {
			return nil
		}
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return execute(ctx, *cfg, stdout, stderr)
}

// execute performs one probe run and prints its report to stdout. Request
// failures never make it return an error.
func execute(ctx context.Context, cfg config.Config, stdout, stderr io.Writer) (err error) {
	logger, err := logging.New(cfg.LogLevel, stderr)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	runID := ulid.Make().String()
	logger = logger.With(zap.String("run_id", runID))

	provider, err := tracing.Init(ctx, cfg.Tracing, runID)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if shutdownErr := provider.Shutdown(shutdownCtx); shutdownErr != nil {
			err = multierr.Append(err, fmt.Errorf("tracing shutdown: %w", shutdownErr))
		}
	}()

	builder, err := httpclient.NewRequestBuilder(&cfg)
	if err != nil {
		return err
	}

	var clientOpts []httpclient.ClientOption
	var tracer trace.Tracer
	if provider.Enabled() {
		tracer = provider.Tracer()
		clientOpts = append(clientOpts, httpclient.WithTracerProvider(provider.TracerProvider()))
	}

	collector := metrics.NewCollector(cfg.Clients)
	requester := httpclient.NewRequester(httpclient.NewClient(0, clientOpts...), builder, collector, tracer)

	r := runner.New(runner.Options{
		Clients:   cfg.Clients,
		Requester: runner.WithLogging(requester, &consoleFailureLogger{w: stdout}),
		Stagger:   runner.NewJitter(cfg.StaggerMin, cfg.StaggerMax, time.Now().UnixNano()).Next,
		Logger:    logger,
	})

	logger.Info("run started",
		zap.String("target", cfg.TargetURL),
		zap.Int("clients", cfg.Clients),
		zap.Bool("tracing", provider.Enabled()))

	result := r.Run(ctx)
	summary, ok := collector.Summary()

	logger.Info("run finished",
		zap.Int("launched", result.Launched),
		zap.Int("samples", summary.Samples),
		zap.Duration("duration", result.Duration))
	if ctx.Err() != nil {
		logger.Warn("run interrupted", zap.Int("launched", result.Launched), zap.Int("clients", cfg.Clients))
	}

	report := output.NewReport(runID, cfg.TargetURL, summary, ok)
	if err := output.Print(stdout, cfg.Format, report); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func (l *consoleFailureLogger) LogFailure(err error) {
	if err == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.w, "Request failed: %v\n", err)
}
