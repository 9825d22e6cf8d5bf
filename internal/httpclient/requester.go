package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/torosent/stagger/internal/metrics"
	"github.com/torosent/stagger/internal/tracing"
)

// StatusError reports a response whose status code is 400 or above.
type StatusError struct {
	StatusCode int
	Reason     string
	URL        string
}

func (e *StatusError) Error() string {
	kind := "Client"
	if e.StatusCode >= 500 {
		kind = "Server"
	}
	return fmt.Sprintf("%d %s Error: %s for url: %s", e.StatusCode, kind, e.Reason, e.URL)
}

// Recorder receives the latency of each successful request.
type Recorder interface {
	Record(latency time.Duration)
}

var _ Recorder = (*metrics.Collector)(nil)

// Requester performs one GET per call and records its latency on success.
type Requester struct {
	client   *http.Client
	builder  *RequestBuilder
	recorder Recorder
	tracer   trace.Tracer
}

// NewRequester wires a client, builder and recorder into a runner.Requester.
// A nil tracer disables request spans.
func NewRequester(client *http.Client, builder *RequestBuilder, recorder Recorder, tracer trace.Tracer) *Requester {
	if client == nil {
		client = NewClient(0)
	}
	return &Requester{
		client:   client,
		builder:  builder,
		recorder: recorder,
		tracer:   tracer,
	}
}

// Do issues the request. The latency spans from just before the request is
// sent until the response body has been fully read. Transport errors, body
// read errors and 4xx/5xx responses are returned and record nothing.
func (r *Requester) Do(ctx context.Context) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}

	start := time.Now()
	statusCode := 0

	if r.tracer != nil {
		var span trace.Span
		ctx, span = tracing.StartRequestSpan(ctx, r.tracer, r.builder.Target())
		defer func() {
			tracing.EndSpan(span, err, attribute.Int("http.response.status_code", statusCode))
		}()
	}

	req, err := r.builder.Build(ctx)
	if err != nil {
		return err
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	statusCode = resp.StatusCode

	if resp.StatusCode >= http.StatusBadRequest {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &StatusError{
			StatusCode: resp.StatusCode,
			Reason:     reasonPhrase(resp),
			URL:        resp.Request.URL.String(),
		}
	}

	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if r.recorder != nil {
		r.recorder.Record(time.Since(start))
	}
	return nil
}

func reasonPhrase(resp *http.Response) string {
	reason := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if reason == "" {
		reason = http.StatusText(resp.StatusCode)
	}
	return reason
}
