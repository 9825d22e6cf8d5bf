package metrics

import (
	"sync"
	"time"
)

// Collector records successful response times in a thread-safe manner.
// A Collector belongs to a single run: it is appended to by every client task
// and read once all of them have returned.
type Collector struct {
	mu      sync.Mutex
	samples []time.Duration
}

// Summary represents the aggregate statistics over recorded samples.
type Summary struct {
	Samples int           `json:"-" yaml:"-"`
	Mean    time.Duration `json:"-" yaml:"-"`
	Max     time.Duration `json:"-" yaml:"-"`
	Min     time.Duration `json:"-" yaml:"-"`

	// Report-friendly second fields.
	MeanSeconds float64 `json:"average_seconds" yaml:"average_seconds"`
	MaxSeconds  float64 `json:"max_seconds" yaml:"max_seconds"`
	MinSeconds  float64 `json:"min_seconds" yaml:"min_seconds"`
}

// NewCollector creates a collector sized for the expected number of samples.
func NewCollector(capacity int) *Collector {
	if capacity < 0 {
		capacity = 0
	}
	return &Collector{samples: make([]time.Duration, 0, capacity)}
}

// Record appends a single response time.
func (c *Collector) Record(latency time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.samples = append(c.samples, latency)
}

// Len returns the number of recorded samples.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.samples)
}

// Samples returns a copy of the recorded samples in insertion order.
func (c *Collector) Samples() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration(nil), c.samples...)
}

// Summary computes mean, max and min over the recorded samples.
// The boolean is false when nothing was recorded.
func (c *Collector) Summary() (Summary, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Summarize(c.samples)
}

// Summarize computes mean, max and min over samples without retaining them.
func Summarize(samples []time.Duration) (Summary, bool) {
	if len(samples) == 0 {
		return Summary{}, false
	}

	minLatency, maxLatency := samples[0], samples[0]
	var sum time.Duration
	for _, s := range samples {
		sum += s
		if s < minLatency {
			minLatency = s
		}
		if s > maxLatency {
			maxLatency = s
		}
	}

	// float division keeps the mean within [min, max] without truncating to the nanosecond.
	mean := float64(sum) / float64(len(samples))

	return Summary{
		Samples:     len(samples),
		Mean:        time.Duration(mean),
		Max:         maxLatency,
		Min:         minLatency,
		MeanSeconds: mean / float64(time.Second),
		MaxSeconds:  maxLatency.Seconds(),
		MinSeconds:  minLatency.Seconds(),
	}, true
}
