package llm

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"math/rand/v2"
	"time"
)

// RetryPolicy bounds how often and how slowly a request is retried.
type RetryPolicy struct {
	// Attempts is the total number of tries, the first included.
	Attempts int
	// Base is the delay before the second try. Each later delay grows by
	// Factor up to Cap.
	Base   time.Duration
	Cap    time.Duration
	Factor float64
}

// DefaultRetryPolicy allows three tries over roughly three seconds.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Attempts: 3, Base: 500 * time.Millisecond, Cap: 5 * time.Second, Factor: 2}
}

// delay is the pause after the given failed try (1-based). A rate limit
// with a Retry-After hint wins over the backoff curve.
func (p RetryPolicy) delay(try int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}
	d := float64(p.Base) * math.Pow(max(p.Factor, 1), float64(try-1))
	if p.Cap > 0 {
		d = math.Min(d, float64(p.Cap))
	}
	// Equal jitter: half fixed, half random.
	return time.Duration(d/2 + rand.Float64()*d/2)
}

// Retrying retries transient failures under policy. An unusable reply is
// retried once since a second sample often parses; truncation and
// rejections are returned immediately.
func Retrying(policy RetryPolicy) Middleware {
	return func(next Provider) Provider {
		return &retrier{next: next, policy: policy}
	}
}

type retrier struct {
	next   Provider
	policy RetryPolicy
}

func (r *retrier) ModelID() string { return r.next.ModelID() }

func (r *retrier) Generate(ctx context.Context, req Request) (*Response, error) {
	resampled := false
	for try := 1; ; try++ {
		resp, err := r.next.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}

		var bad *ErrInvalidResponse
		switch {
		case try >= max(r.policy.Attempts, 1):
			return nil, err
		case errors.As(err, &bad):
			if resampled {
				return nil, err
			}
			resampled = true
		case !transient(err):
			return nil, err
		}

		wait := r.policy.delay(try, err)
		slog.Debug("llm retry", "purpose", PurposeFrom(ctx), "try", try, "wait", wait, "error", err)
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}
