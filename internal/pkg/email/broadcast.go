package email

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/egresados/seguimiento-api/internal/pkg/metrics"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// BroadcastConfig tunes bulk delivery
type BroadcastConfig struct {
	// Concurrency is the maximum number of messages in flight
	Concurrency int
	// RatePerSecond paces message starts across all workers
	RatePerSecond float64
	// RetryMax is the number of retries after the first attempt
	RetryMax int
	// InitialBackoff is the delay before the first retry; it doubles per attempt
	InitialBackoff time.Duration
	// MaxBackoff caps the delay between attempts
	MaxBackoff time.Duration
	// SendTimeout bounds a single delivery attempt
	SendTimeout time.Duration
}

// DefaultBroadcastConfig returns the defaults used when a field is unset
func DefaultBroadcastConfig() BroadcastConfig {
	return BroadcastConfig{
		Concurrency:    4,
		RatePerSecond:  2,
		RetryMax:       3,
		InitialBackoff: 500 * time.Millisecond,
		MaxBackoff:     10 * time.Second,
		SendTimeout:    15 * time.Second,
	}
}

// BroadcastResult summarizes a bulk delivery
type BroadcastResult struct {
	Sent   int
	Failed int
}

// Broadcaster fans a batch of messages out to a Sender with bounded
// concurrency, a shared token bucket and per-message retries.
type Broadcaster struct {
	sender  Sender
	config  BroadcastConfig
	limiter *rate.Limiter
	logger  zerolog.Logger
	sleep   func(ctx context.Context, d time.Duration) error
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(sender Sender, config BroadcastConfig, logger zerolog.Logger) *Broadcaster {
	defaults := DefaultBroadcastConfig()
	if config.Concurrency <= 0 {
		config.Concurrency = defaults.Concurrency
	}
	if config.RatePerSecond <= 0 {
		config.RatePerSecond = defaults.RatePerSecond
	}
	if config.RetryMax < 0 {
		config.RetryMax = 0
	}
	if config.InitialBackoff <= 0 {
		config.InitialBackoff = defaults.InitialBackoff
	}
	if config.MaxBackoff <= 0 {
		config.MaxBackoff = defaults.MaxBackoff
	}
	if config.SendTimeout <= 0 {
		config.SendTimeout = defaults.SendTimeout
	}

	return &Broadcaster{
		sender:  sender,
		config:  config,
		limiter: rate.NewLimiter(rate.Limit(config.RatePerSecond), 1),
		logger:  logger,
		sleep:   sleepContext,
	}
}

// Broadcast delivers every message and reports how many succeeded. A
// failed message never aborts the others; ctx cancellation stops the
// batch and counts the remaining messages as failed.
func (b *Broadcaster) Broadcast(ctx context.Context, msgs []Message) BroadcastResult {
	var sent, failed atomic.Int64

	var g errgroup.Group
	g.SetLimit(b.config.Concurrency)

	for _, msg := range msgs {
		g.Go(func() error {
			if err := b.deliver(ctx, msg); err != nil {
				failed.Add(1)
				metrics.RecordNotification(msg.Kind, metrics.OutcomeFailed)
				b.logger.Warn().Err(err).Str("to", msg.To).Str("kind", msg.Kind).Msg("Notification delivery failed")
				return nil
			}
			sent.Add(1)
			metrics.RecordNotification(msg.Kind, metrics.OutcomeSent)
			return nil
		})
	}
	_ = g.Wait()

	return BroadcastResult{Sent: int(sent.Load()), Failed: int(failed.Load())}
}

// deliver sends one message, retrying with exponential backoff and jitter
func (b *Broadcaster) deliver(ctx context.Context, msg Message) error {
	var lastErr error
	for attempt := 0; attempt <= b.config.RetryMax; attempt++ {
		if attempt > 0 {
			metrics.RecordRetry()
			if err := b.sleep(ctx, b.backoff(attempt)); err != nil {
				return errors.Join(lastErr, err)
			}
		}
		if err := b.limiter.Wait(ctx); err != nil {
			return errors.Join(lastErr, err)
		}

		attemptCtx, cancel := context.WithTimeout(ctx, b.config.SendTimeout)
		lastErr = b.sender.Send(attemptCtx, msg)
		cancel()

		if lastErr == nil {
			return nil
		}
		if errors.Is(lastErr, ErrNoRecipient) {
			return lastErr
		}
	}
	return lastErr
}

// backoff returns the delay before retry number attempt (1-based): half of
// the exponential step is fixed and the other half is random.
func (b *Broadcaster) backoff(attempt int) time.Duration {
	d := float64(b.config.InitialBackoff) * math.Pow(2, float64(attempt-1))
	if d > float64(b.config.MaxBackoff) {
		d = float64(b.config.MaxBackoff)
	}
	half := int64(d / 2)
	if half <= 0 {
		return time.Duration(d)
	}
	return time.Duration(half + rand.Int64N(half+1))
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
