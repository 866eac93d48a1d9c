// Package mail delivers transactional email: a single recipient, a subject
// and a plain text body.
package mail

import (
	"context"
	"errors"
)

// DefaultFrom is the sender address used when none is configured.
const DefaultFrom = "email@email.com"

var ErrDeliveryFailed = errors.New("mail: delivery failed")

// Message is one outgoing email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers a message. Any error means the message was not sent.
type Sender interface {
	Send(ctx context.Context, m Message) error
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(ctx context.Context, m Message) error

func (f SenderFunc) Send(ctx context.Context, m Message) error { return f(ctx, m) }
