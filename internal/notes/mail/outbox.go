package mail

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/aussiebroadwan/notes/pkg/slogx"
)

// Outbox keeps messages in memory instead of sending them. It backs local
// development and tests. Only the recipient and subject are logged; the
// body holds a sign-in code. When Echo is set the full message is written
// there so a developer can click the link.
type Outbox struct {
	Logger *slog.Logger
	Echo   io.Writer

	mu   sync.Mutex
	sent []Message
}

func NewOutbox(logger *slog.Logger, echo io.Writer) *Outbox {
	return &Outbox{Logger: slogx.OrDiscard(logger), Echo: echo}
}

func (o *Outbox) Send(ctx context.Context, m Message) error {
	o.mu.Lock()
	o.sent = append(o.sent, m)
	o.mu.Unlock()

	if o.Logger != nil {
		o.Logger.InfoContext(ctx, "email queued in outbox", "to", m.To, "subject", m.Subject)
	}
	if o.Echo != nil {
		_, _ = fmt.Fprintf(o.Echo, "To: %s\nSubject: %s\n\n%s\n\n", m.To, m.Subject, m.Body)
	}
	return nil
}

// Sent returns a copy of every message so far.
func (o *Outbox) Sent() []Message {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]Message(nil), o.sent...)
}

// Last returns the newest message addressed to to.
func (o *Outbox) Last(to string) (Message, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i := len(o.sent) - 1; i >= 0; i-- {
		if o.sent[i].To == to {
			return o.sent[i], true
		}
	}
	return Message{}, false
}
