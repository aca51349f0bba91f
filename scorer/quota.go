package scorer

import (
	"context"
	"sync"
	"time"

	"bias-lens/config"
)

// QuotaLimiter enforces per-minute and per-day limits on bias-scoring
// LLM calls. In-memory, single scorer instance assumed; counters reset
// when the process restarts.
type QuotaLimiter struct {
	mu sync.Mutex

	dailyLimit int
	usedToday  int
	dayKey     string

	interval time.Duration
	lastCall time.Time
}

// NewQuotaLimiterFromConfig builds a QuotaLimiter from the score_quota
// config section. Values of 0 or below disable that direction.
func NewQuotaLimiterFromConfig(cfg config.AppConfig) *QuotaLimiter {
	q := cfg.ScoreQuota

	requestsPerDay := q.RequestsPerDay
	if requestsPerDay < 0 {
		requestsPerDay = 0
	}

	requestsPerMinute := q.RequestsPerMinute
	if requestsPerMinute < 0 {
		requestsPerMinute = 0
	}

	var interval time.Duration
	if requestsPerMinute > 0 {
		interval = time.Minute / time.Duration(requestsPerMinute)
	}

	return &QuotaLimiter{
		dailyLimit: requestsPerDay,
		interval:   interval,
	}
}

// WaitAndReserve applies the limits before a scoring call.
//   - daily quota exhausted: returns (false, nil); the caller skips the
//     call and leaves the article pending.
//   - context cancelled while pacing: returns (false, err).
func (l *QuotaLimiter) WaitAndReserve(ctx context.Context) (bool, error) {
	for {
		l.mu.Lock()

		now := time.Now().UTC()
		todayKey := now.Format("2006-01-02")
		if l.dayKey != todayKey {
			l.dayKey = todayKey
			l.usedToday = 0
		}

		if l.dailyLimit > 0 && l.usedToday >= l.dailyLimit {
			l.mu.Unlock()
			return false, nil
		}

		var delay time.Duration
		if l.interval > 0 && !l.lastCall.IsZero() {
			nextAllowed := l.lastCall.Add(l.interval)
			delay = time.Until(nextAllowed)
		}

		if delay <= 0 {
			l.usedToday++
			l.lastCall = now
			l.mu.Unlock()
			return true, nil
		}

		l.mu.Unlock()
		select {
		case <-time.After(delay):
			// loop and re-evaluate
		case <-ctx.Done():
			return false, ctx.Err()
		}
	}
}
