package email

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	mu       sync.Mutex
	sent     []Message
	failures map[string]int // remaining failures per recipient
	inFlight atomic.Int32
	maxSeen  atomic.Int32
	delay    time.Duration
}

func (s *recordingSender) Send(ctx context.Context, msg Message) error {
	cur := s.inFlight.Add(1)
	defer s.inFlight.Add(-1)
	for {
		prev := s.maxSeen.Load()
		if cur <= prev || s.maxSeen.CompareAndSwap(prev, cur) {
			break
		}
	}
	if s.delay > 0 {
		time.Sleep(s.delay)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failures[msg.To] > 0 {
		s.failures[msg.To]--
		return errors.New("temporary failure")
	}
	s.sent = append(s.sent, msg)
	return nil
}

func noSleep(context.Context, time.Duration) error { return nil }

func testBroadcaster(sender Sender, cfg BroadcastConfig) *Broadcaster {
	if cfg.RatePerSecond == 0 {
		cfg.RatePerSecond = 1000
	}
	b := NewBroadcaster(sender, cfg, zerolog.Nop())
	b.sleep = noSleep
	return b
}

func messagesFor(addrs ...string) []Message {
	msgs := make([]Message, 0, len(addrs))
	for _, a := range addrs {
		msgs = append(msgs, Message{To: a, Subject: "hola", HTML: "<p>x</p>", Kind: KindNewWorkshop})
	}
	return msgs
}

func TestBroadcastRetriesTransientFailures(t *testing.T) {
	sender := &recordingSender{failures: map[string]int{"b@x.com": 2, "c@x.com": 10}}
	b := testBroadcaster(sender, BroadcastConfig{Concurrency: 2, RetryMax: 3})

	result := b.Broadcast(context.Background(), messagesFor("a@x.com", "b@x.com", "c@x.com"))

	assert.Equal(t, BroadcastResult{Sent: 2, Failed: 1}, result)
	assert.Len(t, sender.sent, 2)
	assert.Equal(t, 6, sender.failures["c@x.com"], "c gets the first attempt plus three retries")
}

func TestBroadcastRespectsConcurrencyLimit(t *testing.T) {
	sender := &recordingSender{delay: 10 * time.Millisecond}
	b := testBroadcaster(sender, BroadcastConfig{Concurrency: 2})

	addrs := make([]string, 8)
	for i := range addrs {
		addrs[i] = string(rune('a'+i)) + "@x.com"
	}
	result := b.Broadcast(context.Background(), messagesFor(addrs...))

	assert.Equal(t, 8, result.Sent)
	assert.LessOrEqual(t, sender.maxSeen.Load(), int32(2))
}

func TestBroadcastNoRecipientIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	sender := senderFunc(func(ctx context.Context, msg Message) error {
		calls.Add(1)
		return ErrNoRecipient
	})
	b := testBroadcaster(sender, BroadcastConfig{RetryMax: 5})

	result := b.Broadcast(context.Background(), []Message{{Subject: "x"}})

	assert.Equal(t, BroadcastResult{Failed: 1}, result)
	assert.Equal(t, int32(1), calls.Load())
}

func TestBroadcastCancelledContext(t *testing.T) {
	sender := &recordingSender{}
	b := testBroadcaster(sender, BroadcastConfig{RatePerSecond: 0.001})
	// drain the single burst token so Wait has to block
	require.True(t, b.limiter.Allow())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	result := b.Broadcast(ctx, messagesFor("a@x.com", "b@x.com"))

	assert.Equal(t, BroadcastResult{Failed: 2}, result)
	assert.Empty(t, sender.sent)
}

func TestBackoffIsBoundedAndGrows(t *testing.T) {
	b := NewBroadcaster(&recordingSender{}, BroadcastConfig{
		InitialBackoff: 100 * time.Millisecond,
		MaxBackoff:     time.Second,
	}, zerolog.Nop())

	for range 20 {
		d1 := b.backoff(1)
		assert.GreaterOrEqual(t, d1, 50*time.Millisecond)
		assert.LessOrEqual(t, d1, 100*time.Millisecond)

		d3 := b.backoff(3)
		assert.GreaterOrEqual(t, d3, 200*time.Millisecond)
		assert.LessOrEqual(t, d3, 400*time.Millisecond)

		d10 := b.backoff(10)
		assert.LessOrEqual(t, d10, time.Second)
	}
}

func TestNotifierSendAsyncAndWait(t *testing.T) {
	sender := &recordingSender{delay: 5 * time.Millisecond}
	n := NewNotifier(sender, testBroadcaster(sender, BroadcastConfig{}), "App <app@x.com>", time.Second, zerolog.Nop())

	n.SendAsync(Message{To: "a@x.com", Subject: "s"})
	n.BroadcastAsync("test", messagesFor("b@x.com", "c@x.com"))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, n.Wait(ctx))

	require.Len(t, sender.sent, 3)
	for _, m := range sender.sent {
		assert.Equal(t, "App <app@x.com>", m.From)
	}
}

func TestNotifierWaitTimesOut(t *testing.T) {
	block := make(chan struct{})
	defer close(block)
	sender := senderFunc(func(ctx context.Context, msg Message) error {
		<-block
		return nil
	})
	n := NewNotifier(sender, testBroadcaster(sender, BroadcastConfig{}), "", time.Minute, zerolog.Nop())
	n.SendAsync(Message{To: "a@x.com"})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, n.Wait(ctx), context.DeadlineExceeded)
}

func TestTemplatesEscapeInput(t *testing.T) {
	msg, err := NewWorkshopMessage("a@x.com", NewWorkshopData{
		AppName:  "Egresados",
		Name:     "<b>Ana</b>",
		Title:    "Go avanzado",
		Modality: "virtual",
		Link:     "https://app.example/talleres/7",
	})
	require.NoError(t, err)
	assert.Equal(t, KindNewWorkshop, msg.Kind)
	assert.Contains(t, msg.Subject, "Go avanzado")
	assert.Contains(t, msg.HTML, "&lt;b&gt;Ana&lt;/b&gt;")
	assert.Contains(t, msg.HTML, "https://app.example/talleres/7")

	reset, err := PasswordResetMessage("a@x.com", PasswordResetData{AppName: "Egresados", Link: "https://auth.example/verify?token=abc&type=recovery"})
	require.NoError(t, err)
	assert.Equal(t, KindPasswordReset, reset.Kind)
	assert.Contains(t, reset.HTML, "token=abc&amp;type=recovery")
}

func TestBuildMIMEMessageEncodesSubject(t *testing.T) {
	raw := string(buildMIMEMessage("App <app@x.com>", "a@x.com", "Restablecer contraseña", "<p>x</p>"))

	assert.True(t, strings.HasPrefix(raw, "From: App <app@x.com>\r\nTo: a@x.com\r\n"))
	assert.Contains(t, raw, "Subject: =?UTF-8?q?")
	assert.True(t, strings.HasSuffix(raw, "\r\n\r\n<p>x</p>"))
}

func TestNewSenderSelection(t *testing.T) {
	s, err := NewSender(Config{Provider: "smtp", Host: "smtp.x.com"}, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &ConsoleSender{}, s, "smtp without credentials falls back to console")

	s, err = NewSender(Config{Provider: "smtp", Host: "smtp.x.com", Username: "u", Password: "p"}, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &SMTPSender{}, s)

	s, err = NewSender(Config{Provider: "sendgrid", SendGridAPIKey: "k"}, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &SendGridSender{}, s)

	_, err = NewSender(Config{Provider: "pigeon"}, zerolog.Nop())
	assert.Error(t, err)
}

func TestSendGridSender(t *testing.T) {
	var got map[string]any
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		if strings.Contains(string(body), "reject@x.com") {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	s := NewSendGridSender(Config{SendGridAPIKey: "key", FromName: "App", FromEmail: "app@x.com"}, zerolog.Nop())
	s.host = srv.URL

	require.NoError(t, s.Send(context.Background(), Message{To: "a@x.com", Subject: "Hola", HTML: "<p>x</p>"}))
	assert.Equal(t, "Bearer key", auth)
	assert.Equal(t, "Hola", got["personalizations"].([]any)[0].(map[string]any)["subject"])
	assert.Equal(t, "app@x.com", got["from"].(map[string]any)["email"])

	assert.Error(t, s.Send(context.Background(), Message{To: "reject@x.com", Subject: "x", HTML: "x"}))
	assert.ErrorIs(t, s.Send(context.Background(), Message{}), ErrNoRecipient)
}

type senderFunc func(ctx context.Context, msg Message) error

func (f senderFunc) Send(ctx context.Context, msg Message) error { return f(ctx, msg) }
