// Package mail defines the outbound email capability used by the password
// recovery flow and its SMTP implementation.
package mail

import (
	"context"
	"errors"
	"strings"
)

// Message is a single plain-text email.
type Message struct {
	To       string `json:"to"`
	From     string `json:"from"`
	FromName string `json:"from_name,omitempty"`
	Subject  string `json:"subject"`
	Body     string `json:"body"`
}

// Validate reports whether m has the fields every transport needs.
func (m Message) Validate() error {
	switch {
	case strings.TrimSpace(m.To) == "":
		return errors.New("mail: missing recipient")
	case strings.TrimSpace(m.From) == "":
		return errors.New("mail: missing sender")
	}
	return nil
}

// Sender transmits a message. Implementations return an error when the
// message could not be handed over to the transport.
type Sender interface {
	Send(ctx context.Context, m Message) error
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(ctx context.Context, m Message) error

func (f SenderFunc) Send(ctx context.Context, m Message) error { return f(ctx, m) }
