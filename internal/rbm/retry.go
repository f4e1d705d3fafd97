package rbm

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/lojasmm/rbm/internal/metrics"
)

// RetryPolicy configures the exponential backoff applied to retryable calls.
// Delays grow from InitialInterval by Multiplier, jittered by RandomizationFactor
// and capped at MaxInterval. Retrying stops after MaxRetries retries or once
// MaxElapsedTime has passed, whichever comes first. Zero MaxRetries means no
// count limit; zero MaxElapsedTime means no time limit.
type RetryPolicy struct {
	InitialInterval     time.Duration
	RandomizationFactor float64
	Multiplier          float64
	MaxInterval         time.Duration
	MaxElapsedTime      time.Duration
	MaxRetries          int
}

// DefaultRetryPolicy mirrors the Google API client's ExponentialBackOff defaults,
// with a cap of 10 retries.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		InitialInterval:     500 * time.Millisecond,
		RandomizationFactor: 0.5,
		Multiplier:          1.5,
		MaxInterval:         time.Minute,
		MaxElapsedTime:      15 * time.Minute,
		MaxRetries:          10,
	}
}

// withDefaults fills unset fields from DefaultRetryPolicy.
func (p RetryPolicy) withDefaults() RetryPolicy {
	def := DefaultRetryPolicy()
	if p == (RetryPolicy{}) {
		return def
	}
	if p.InitialInterval <= 0 {
		p.InitialInterval = def.InitialInterval
	}
	if p.Multiplier < 1 {
		p.Multiplier = def.Multiplier
	}
	if p.MaxInterval <= 0 {
		p.MaxInterval = def.MaxInterval
	}
	if p.RandomizationFactor < 0 || p.RandomizationFactor > 1 {
		p.RandomizationFactor = def.RandomizationFactor
	}
	return p
}

func (p RetryPolicy) backOff(ctx context.Context) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = p.InitialInterval
	exp.RandomizationFactor = p.RandomizationFactor
	exp.Multiplier = p.Multiplier
	exp.MaxInterval = p.MaxInterval
	exp.MaxElapsedTime = p.MaxElapsedTime
	exp.Reset()

	var b backoff.BackOff = exp
	if p.MaxRetries > 0 {
		b = backoff.WithMaxRetries(b, uint64(p.MaxRetries))
	}
	return backoff.WithContext(b, ctx)
}

// withRetry runs fn until it succeeds, fails with a non-retryable error, or
// the policy gives up. The last error is returned.
func (c *Client) withRetry(ctx context.Context, op string, fn func() error) error {
	attempt := 0
	operation := func() error {
		attempt++
		err := fn()
		if err != nil && !IsRetryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, next time.Duration) {
		metrics.APIRetriesTotal.WithLabelValues(op).Inc()
		c.logger.Warn().
			Err(err).
			Str("operation", op).
			Int("attempt", attempt).
			Dur("backoff", next).
			Msg("retrying request")
	}
	return backoff.RetryNotify(operation, c.retry.backOff(ctx), notify)
}
