package modeladapter

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"

	"github.com/germanamz/pdfask/pkg/chats/chat"
	"github.com/germanamz/pdfask/pkg/chats/message"
	"github.com/germanamz/pdfask/pkg/modeladapter/usage"
	"golang.org/x/time/rate"
)

var _ Completer = (*RateLimitedCompleter)(nil)

// RateLimitedCompleter wraps a Completer with proactive request pacing and
// reactive 429 retry with exponential backoff and jitter. Only
// *RateLimitError is retried; every other failure is returned as is.
type RateLimitedCompleter struct {
	inner           Completer
	limiter         *rate.Limiter // nil when RPM is 0
	maxRetries      int           // max retries on 429
	baseDelay       time.Duration // initial backoff delay
	fallbackTracker usage.Tracker // stable fallback tracker when inner lacks UsageReporter

	// nowFunc is used for testing; defaults to time.Now.
	nowFunc func() time.Time
	// sleepFunc is used for testing; defaults to a context-aware sleep.
	sleepFunc func(ctx context.Context, d time.Duration) error
	// randFunc returns a random float64 in [0,1); used for jitter. Defaults to rand.Float64.
	randFunc func() float64
}

// RateLimitOpts configures the RateLimitedCompleter.
type RateLimitOpts struct {
	RPM        int           // Requests per minute (0 = no limit).
	Burst      int           // Requests allowed back to back (default 1).
	MaxRetries int           // Max retries on 429 (default 3).
	BaseDelay  time.Duration // Initial backoff delay (default 1s).
}

// NewRateLimitedCompleter wraps a Completer with rate limiting.
func NewRateLimitedCompleter(inner Completer, opts RateLimitOpts) *RateLimitedCompleter {
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 3
	}
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = time.Second
	}
	if opts.Burst <= 0 {
		opts.Burst = 1
	}

	r := &RateLimitedCompleter{
		inner:      inner,
		maxRetries: opts.MaxRetries,
		baseDelay:  opts.BaseDelay,
		nowFunc:    time.Now,
		sleepFunc:  contextSleep,
		randFunc:   rand.Float64,
	}

	if opts.RPM > 0 {
		r.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.RPM)), opts.Burst)
	}

	return r
}

// SetNowFunc overrides the time source (for testing).
func (r *RateLimitedCompleter) SetNowFunc(fn func() time.Time) { r.nowFunc = fn }

// SetSleepFunc overrides the sleep function (for testing).
func (r *RateLimitedCompleter) SetSleepFunc(fn func(ctx context.Context, d time.Duration) error) {
	r.sleepFunc = fn
}

// SetRandFunc overrides the random number generator (for testing).
func (r *RateLimitedCompleter) SetRandFunc(fn func() float64) { r.randFunc = fn }

// contextSleep sleeps for d or until ctx is cancelled.
func contextSleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// jitter applies ±25% random jitter to a duration.
func (r *RateLimitedCompleter) jitter(d time.Duration) time.Duration {
	factor := 0.75 + r.randFunc()*0.5 //nolint:mnd // jitter range: ±25%
	return time.Duration(float64(d) * factor)
}

// Complete implements Completer with pacing and 429 retry.
func (r *RateLimitedCompleter) Complete(ctx context.Context, c *chat.Chat) (message.Message, error) {
	var lastErr error
	for attempt := range r.maxRetries + 1 {
		if r.limiter != nil {
			if err := r.limiter.Wait(ctx); err != nil {
				return message.Message{}, err
			}
		}

		msg, err := r.inner.Complete(ctx, c)
		if err == nil {
			if sleepErr := r.adaptFromServerInfo(ctx); sleepErr != nil {
				return message.Message{}, sleepErr
			}
			return msg, nil
		}

		var rle *RateLimitError
		if !errors.As(err, &rle) {
			return message.Message{}, err
		}

		lastErr = err

		if attempt >= r.maxRetries {
			break
		}

		// baseDelay * 2^attempt, or RetryAfter if larger, with jitter.
		backoff := r.jitter(max(
			r.baseDelay*time.Duration(math.Pow(2, float64(attempt))), //nolint:mnd // exponential backoff formula
			rle.RetryAfter,
		))

		if err := r.sleepFunc(ctx, backoff); err != nil {
			return message.Message{}, err
		}
	}

	if lastErr == nil {
		lastErr = errors.New("rate limit: exhausted retries without a successful completion")
	}

	return message.Message{}, lastErr
}

// adaptFromServerInfo waits for the provider's reset when the last response
// reported the quota as spent.
func (r *RateLimitedCompleter) adaptFromServerInfo(ctx context.Context) error {
	reporter, ok := r.inner.(RateLimitInfoReporter)
	if !ok {
		return nil
	}

	now := r.nowFunc()
	at := reporter.LastRateLimitInfo().ResumeAt(now)
	if at.IsZero() {
		return nil
	}

	return r.sleepFunc(ctx, at.Sub(now))
}

// UsageTracker forwards to the inner completer if it implements UsageReporter.
func (r *RateLimitedCompleter) UsageTracker() *usage.Tracker {
	if ur, ok := r.inner.(UsageReporter); ok {
		return ur.UsageTracker()
	}
	return &r.fallbackTracker
}

// ModelMaxTokens forwards to the inner completer if it implements UsageReporter.
func (r *RateLimitedCompleter) ModelMaxTokens() int {
	if ur, ok := r.inner.(UsageReporter); ok {
		return ur.ModelMaxTokens()
	}
	return 0
}
