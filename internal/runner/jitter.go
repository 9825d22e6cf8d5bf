package runner

import (
	"math/rand"
	"sync"
	"time"
)

// Jitter samples delays uniformly from [min, max). It is safe for concurrent use.
type Jitter struct {
	mu  sync.Mutex
	rnd *rand.Rand
	min time.Duration
	max time.Duration
}

// NewJitter returns a sampler over [lo, hi) seeded with seed.
// Negative bounds are clamped to zero and an inverted range collapses to lo.
func NewJitter(lo, hi time.Duration, seed int64) *Jitter {
	if lo < 0 {
		lo = 0
	}
	if hi < lo {
		hi = lo
	}
	return &Jitter{
		rnd: rand.New(rand.NewSource(seed)),
		min: lo,
		max: hi,
	}
}

// Next returns the next delay.
func (j *Jitter) Next() time.Duration {
	if j == nil {
		return 0
	}
	span := j.max - j.min
	if span <= 0 {
		return j.min
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.min + time.Duration(j.rnd.Int63n(int64(span)))
}
