package email

import (
	"context"
	"sync"
	"time"

	"github.com/egresados/seguimiento-api/internal/pkg/metrics"
	"github.com/rs/zerolog"
)

// Notifier runs deliveries in the background. Callers never see delivery
// errors; they are logged and counted.
type Notifier struct {
	sender      Sender
	broadcaster *Broadcaster
	from        string
	timeout     time.Duration
	logger      zerolog.Logger
	wg          sync.WaitGroup
}

// NewNotifier creates a new Notifier. timeout bounds a whole background job.
func NewNotifier(sender Sender, broadcaster *Broadcaster, from string, timeout time.Duration, logger zerolog.Logger) *Notifier {
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &Notifier{
		sender:      sender,
		broadcaster: broadcaster,
		from:        from,
		timeout:     timeout,
		logger:      logger,
	}
}

// SendAsync delivers msg on its own goroutine
func (n *Notifier) SendAsync(msg Message) {
	if msg.From == "" {
		msg.From = n.from
	}

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()

		if err := n.sender.Send(ctx, msg); err != nil {
			metrics.RecordNotification(msg.Kind, metrics.OutcomeFailed)
			n.logger.Error().Err(err).Str("to", msg.To).Str("kind", msg.Kind).Msg("Failed to send email")
			return
		}
		metrics.RecordNotification(msg.Kind, metrics.OutcomeSent)
	}()
}

// BroadcastAsync delivers msgs through the Broadcaster on a background goroutine
func (n *Notifier) BroadcastAsync(label string, msgs []Message) {
	if len(msgs) == 0 {
		return
	}
	for i := range msgs {
		if msgs[i].From == "" {
			msgs[i].From = n.from
		}
	}

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()

		start := time.Now()
		result := n.broadcaster.Broadcast(ctx, msgs)
		n.logger.Info().
			Str("broadcast", label).
			Int("sent", result.Sent).
			Int("failed", result.Failed).
			Dur("elapsed", time.Since(start)).
			Msg("Broadcast finished")
	}()
}

// Wait blocks until in-flight deliveries finish or ctx is done
func (n *Notifier) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		n.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
