package mail

import (
	"context"
	"fmt"
	"net"
	"net/smtp"

	"github.com/jordan-wright/email"
)

// SMTPSender delivers through a plain SMTP relay. Auth is used when a
// username is set.
type SMTPSender struct {
	Addr     string // host:port
	Username string
	Password string
	From     string

	send func(e *email.Email, addr string, a smtp.Auth) error
}

func NewSMTPSender(addr, username, password, from string) *SMTPSender {
	if from == "" {
		from = DefaultFrom
	}
	return &SMTPSender{Addr: addr, Username: username, Password: password, From: from}
}

func (s *SMTPSender) message(m Message) *email.Email {
	e := email.NewEmail()
	e.From = s.From
	e.To = []string{m.To}
	e.Subject = m.Subject
	e.Text = []byte(m.Body)
	return e
}

func (s *SMTPSender) auth() smtp.Auth {
	if s.Username == "" {
		return nil
	}
	host, _, err := net.SplitHostPort(s.Addr)
	if err != nil {
		host = s.Addr
	}
	return smtp.PlainAuth("", s.Username, s.Password, host)
}

// Send ignores ctx cancellation once the SMTP dialogue has started; the
// library has no context support.
func (s *SMTPSender) Send(ctx context.Context, m Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	send := s.send
	if send == nil {
		send = func(e *email.Email, addr string, a smtp.Auth) error { return e.Send(addr, a) }
	}
	if err := send(s.message(m), s.Addr, s.auth()); err != nil {
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}
	return nil
}
