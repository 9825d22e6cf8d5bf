package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/torosent/stagger/internal/config"
)

// testConfig targets url with a short stagger so runs finish quickly.
func testConfig(url string, clients int) config.Config {
	cfg := config.Default()
	cfg.TargetURL = url
	cfg.Clients = clients
	cfg.StaggerMin = time.Millisecond
	cfg.StaggerMax = 2 * time.Millisecond
	return cfg
}

func outputLines(buf *bytes.Buffer) []string {
	trimmed := strings.TrimSpace(buf.String())
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "\n")
}

func TestExecuteAllSucceed(t *testing.T) {
	var hits int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	var stdout, stderr bytes.Buffer
	err := execute(context.Background(), testConfig(server.URL, 5), &stdout, &stderr)
	require.NoError(t, err)

	assert.EqualValues(t, 5, atomic.LoadInt64(&hits))
	lines := outputLines(&stdout)
	require.Len(t, lines, 3, "output: %q", stdout.String())
	assert.True(t, strings.HasPrefix(lines[0], "Average response time: "))
	assert.True(t, strings.HasPrefix(lines[1], "Max response time: "))
	assert.True(t, strings.HasPrefix(lines[2], "Min response time: "))
	for _, line := range lines {
		assert.True(t, strings.HasSuffix(line, "s"), line)
	}
	assert.NotContains(t, stdout.String(), "Request failed")
	assert.Empty(t, stderr.String(), "default log level keeps stderr quiet")
}

func TestExecuteAllFail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	var stdout, stderr bytes.Buffer
	err := execute(context.Background(), testConfig(server.URL, 5), &stdout, &stderr)
	require.NoError(t, err, "failed requests never fail the run")

	lines := outputLines(&stdout)
	require.Len(t, lines, 6, "output: %q", stdout.String())
	for _, line := range lines[:5] {
		assert.Equal(t, "Request failed: 500 Server Error: Internal Server Error for url: "+server.URL, line)
	}
	assert.Equal(t, "No successful requests were made.", lines[5])
}

func TestExecuteMixedOutcomes(t *testing.T) {
	var n int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt64(&n, 1)%2 == 0 {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	var stdout bytes.Buffer
	require.NoError(t, execute(context.Background(), testConfig(server.URL, 4), &stdout, &bytes.Buffer{}))

	failures := strings.Count(stdout.String(), "Request failed: 404 Client Error: Not Found")
	assert.Equal(t, 2, failures)
	assert.Contains(t, stdout.String(), "Average response time: ")
}

func TestExecuteUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	var stdout bytes.Buffer
	require.NoError(t, execute(context.Background(), testConfig(url, 2), &stdout, &bytes.Buffer{}))

	lines := outputLines(&stdout)
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "Request failed: "))
	assert.True(t, strings.HasPrefix(lines[1], "Request failed: "))
	assert.Equal(t, "No successful requests were made.", lines[2])
}

func TestExecuteZeroClients(t *testing.T) {
	var stdout bytes.Buffer
	require.NoError(t, execute(context.Background(), testConfig("http://127.0.0.1:1", 0), &stdout, &bytes.Buffer{}))
	assert.Equal(t, "No successful requests were made.\n", stdout.String())
}

func TestExecuteJSONReport(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := testConfig(server.URL, 3)
	cfg.Format = config.FormatJSON

	var stdout bytes.Buffer
	require.NoError(t, execute(context.Background(), cfg, &stdout, &bytes.Buffer{}))

	data := stdout.Bytes()
	require.True(t, gjson.ValidBytes(data), "output: %s", data)
	_, err := ulid.Parse(gjson.GetBytes(data, "run_id").String())
	assert.NoError(t, err)
	assert.Equal(t, server.URL, gjson.GetBytes(data, "target").String())
	assert.True(t, gjson.GetBytes(data, "summary.average_seconds").Exists())
}

func TestExecuteDebugLogging(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := testConfig(server.URL, 2)
	cfg.LogLevel = "debug"

	var stdout, stderr bytes.Buffer
	require.NoError(t, execute(context.Background(), cfg, &stdout, &stderr))

	var messages []string
	for _, line := range strings.Split(strings.TrimSpace(stderr.String()), "\n") {
		messages = append(messages, gjson.Get(line, "msg").String())
		assert.NotEmpty(t, gjson.Get(line, "run_id").String())
	}
	assert.Contains(t, messages, "run started")
	assert.Contains(t, messages, "client launched")
	assert.Contains(t, messages, "run finished")
	assert.NotContains(t, stdout.String(), "run started")
}

func TestRunHelp(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.NoError(t, run([]string{"--help"}, &stdout, &stderr))
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run([]string{"--format", "xml"}, &stdout, &stderr)
	require.Error(t, err)

	var verr config.ValidationError
	assert.True(t, errors.As(err, &verr))
	assert.Empty(t, stdout.String())
}

func TestRunRejectsTargetFlag(t *testing.T) {
	err := run([]string{"--target", "http://localhost"}, &bytes.Buffer{}, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestConsoleFailureLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := &consoleFailureLogger{w: &buf}

	logger.LogFailure(nil)
	logger.LogFailure(errors.New("dial tcp: connection refused"))

	assert.Equal(t, "Request failed: dial tcp: connection refused\n", buf.String())
}
