package httpclient

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/torosent/stagger/internal/config"
)

// RequestBuilder produces the probe request: a bare GET against the target,
// with no body and no extra headers.
type RequestBuilder struct {
	target string
}

func NewRequestBuilder(cfg *config.Config) (*RequestBuilder, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	target := strings.TrimSpace(cfg.TargetURL)
	if target == "" {
		return nil, errors.New("target URL is required")
	}
	if _, err := url.Parse(target); err != nil {
		return nil, err
	}

	return &RequestBuilder{target: target}, nil
}

// Target returns the URL every request is sent to.
func (b *RequestBuilder) Target() string {
	if b == nil {
		return ""
	}
	return b.target
}

func (b *RequestBuilder) Build(ctx context.Context) (*http.Request, error) {
	if b == nil {
		return nil, errors.New("builder cannot be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return http.NewRequestWithContext(ctx, http.MethodGet, b.target, nil)
}

// ClientOption customizes the client returned by NewClient.
type ClientOption func(*clientOptions)

type clientOptions struct {
	tracerProvider trace.TracerProvider
}

// WithTracerProvider wraps the transport with otelhttp so every round trip is
// traced and carries W3C trace context headers.
func WithTracerProvider(tp trace.TracerProvider) ClientOption {
	return func(o *clientOptions) {
		o.tracerProvider = tp
	}
}

// NewClient returns a client with Go's default transport settings. A zero
// timeout means requests may wait indefinitely.
func NewClient(timeout time.Duration, opts ...ClientOption) *http.Client {
	if timeout < 0 {
		timeout = 0
	}

	var o clientOptions
	for _, opt := range opts {
		opt(&o)
	}

	var transport http.RoundTripper = http.DefaultTransport.(*http.Transport).Clone()
	if o.tracerProvider != nil {
		transport = otelhttp.NewTransport(transport,
			otelhttp.WithTracerProvider(o.tracerProvider),
			otelhttp.WithPropagators(propagation.NewCompositeTextMapPropagator(
				propagation.TraceContext{},
				propagation.Baggage{},
			)),
		)
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}
