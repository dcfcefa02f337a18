// Package notify delivers verification codes to freshly registered accounts.
// Delivery is best-effort: a failed send is recorded and retried on demand,
// but never blocks registration.
package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var ErrDeliveryNotFound = errors.New("delivery not found")

// Sender pushes a rendered message to a single recipient over some channel
// (SMS gateway, SMTP relay). The dispatcher does not care which.
type Sender interface {
	Send(ctx context.Context, recipient, subject, body string) error
}

// LogSender writes messages to the structured log instead of a real channel.
// It is the development default so the verification flow works without an
// SMS gateway configured.
type LogSender struct {
	Logger zerolog.Logger
}

func (s LogSender) Send(_ context.Context, recipient, subject, body string) error {
	s.Logger.Info().
		Str("recipient", recipient).
		Str("subject", subject).
		Str("body", body).
		Msg("outbound message")
	return nil
}

const (
	StatusSent   = "sent"
	StatusFailed = "failed"
)

// Delivery is one send attempt kept in the outbox.
type Delivery struct {
	ID        string     `json:"id"`
	Recipient string     `json:"recipient"`
	Subject   string     `json:"subject"`
	Body      string     `json:"body"`
	Status    string     `json:"status"`
	Error     string     `json:"error,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	SentAt    *time.Time `json:"sent_at,omitempty"`
}

// maxOutbox bounds the in-memory outbox; older deliveries are evicted.
const maxOutbox = 1000

// Dispatcher renders verification messages and hands them to the configured
// Sender, recording every attempt.
type Dispatcher struct {
	sender Sender
	logger zerolog.Logger

	mu     sync.RWMutex
	outbox []*Delivery
	byID   map[string]*Delivery
}

func NewDispatcher(sender Sender, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		sender: sender,
		logger: logger,
		byID:   make(map[string]*Delivery),
	}
}

const verificationSubject = "Your verification code"

func renderVerification(name, code string) string {
	greeting := "Hello"
	if n := strings.TrimSpace(name); n != "" {
		greeting = "Hello " + n
	}
	return fmt.Sprintf("%s, your verification code is %s. It expires when a new one is requested.", greeting, code)
}

// SendVerificationCode delivers a registration code to the recipient. The
// attempt is recorded in the outbox whether or not the send succeeds.
func (d *Dispatcher) SendVerificationCode(ctx context.Context, recipient, name, code string) error {
	del := &Delivery{
		ID:        uuid.NewString(),
		Recipient: recipient,
		Subject:   verificationSubject,
		Body:      renderVerification(name, code),
		CreatedAt: time.Now().UTC(),
	}
	err := d.sender.Send(ctx, del.Recipient, del.Subject, del.Body)
	d.record(del, err)
	if err != nil {
		d.logger.Warn().Err(err).Str("recipient", recipient).Msg("verification code delivery failed")
		return fmt.Errorf("send verification code: %w", err)
	}
	return nil
}

// Retry re-sends a previously failed delivery.
func (d *Dispatcher) Retry(ctx context.Context, id string) error {
	d.mu.RLock()
	del, ok := d.byID[id]
	d.mu.RUnlock()
	if !ok {
		return ErrDeliveryNotFound
	}

	err := d.sender.Send(ctx, del.Recipient, del.Subject, del.Body)

	d.mu.Lock()
	defer d.mu.Unlock()
	if err != nil {
		del.Status = StatusFailed
		del.Error = err.Error()
		return fmt.Errorf("retry delivery %s: %w", id, err)
	}
	now := time.Now().UTC()
	del.Status = StatusSent
	del.Error = ""
	del.SentAt = &now
	return nil
}

// Recent returns the newest deliveries, most recent first.
func (d *Dispatcher) Recent(limit int) []*Delivery {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if limit <= 0 || limit > len(d.outbox) {
		limit = len(d.outbox)
	}
	out := make([]*Delivery, 0, limit)
	for i := len(d.outbox) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, d.outbox[i])
	}
	return out
}

// Stats counts deliveries by status.
func (d *Dispatcher) Stats() map[string]int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	stats := make(map[string]int, 2)
	for _, del := range d.outbox {
		stats[del.Status]++
	}
	return stats
}

func (d *Dispatcher) record(del *Delivery, sendErr error) {
	if sendErr != nil {
		del.Status = StatusFailed
		del.Error = sendErr.Error()
	} else {
		now := time.Now().UTC()
		del.Status = StatusSent
		del.SentAt = &now
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.outbox = append(d.outbox, del)
	d.byID[del.ID] = del
	if len(d.outbox) > maxOutbox {
		evicted := d.outbox[0]
		delete(d.byID, evicted.ID)
		d.outbox = d.outbox[1:]
	}
}
