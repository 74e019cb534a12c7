package service

import (
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/MKhiriev/neuroplan-sync/internal/config"
)

const jitterPercent = 10

// retryPolicy decides how long a retryable operation waits before the next
// drain picks it up again. The attempt budget itself lives in the queue.
type retryPolicy struct {
	policy     string
	base       time.Duration
	maxBackoff time.Duration
	jitter     bool
}

func newRetryPolicy(cfg config.ClientSync) retryPolicy {
	return retryPolicy{
		policy:     cfg.RetryPolicy,
		base:       cfg.RetryDelay,
		maxBackoff: cfg.MaxBackoff,
		jitter:     true,
	}
}

// backoff returns a fresh go-retry curve for one operation.
func (p retryPolicy) backoff() retry.Backoff {
	base := p.base
	if base <= 0 {
		base = time.Second
	}

	if p.policy == config.RetryPolicyFixed {
		return retry.NewConstant(base)
	}

	b := retry.NewExponential(base)
	if p.maxBackoff > 0 {
		b = retry.WithCappedDuration(p.maxBackoff, b)
	}
	if p.jitter {
		b = retry.WithJitterPercent(jitterPercent, b)
	}
	return b
}

// delay returns the wait before attempt number attempt+1, given attempt
// failures so far. The authority's Retry-After wins when present.
func (p retryPolicy) delay(attempt int, retryAfter time.Duration) time.Duration {
	if retryAfter > 0 {
		return retryAfter
	}
	if attempt < 1 {
		attempt = 1
	}

	b := p.backoff()
	var d time.Duration
	for i := 0; i < attempt; i++ {
		next, stop := b.Next()
		if stop {
			break
		}
		d = next
	}
	return d
}
