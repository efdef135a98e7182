// Package queue defines message payloads exchanged over the message broker.
package queue

import (
	"time"

	"github.com/iliyamo/blog-system/internal/mail"
)

// MailQueueName is the durable queue carrying outbound emails.
const MailQueueName = "mail.outbound"

// MailRequestedEvent is published when the application wants an email
// delivered. The consumer owns the SMTP connection, so request handlers
// do not wait on the mail server.
type MailRequestedEvent struct {
	Message     mail.Message `json:"message"`
	RequestedAt string       `json:"requested_at"`
}

func newMailEvent(m mail.Message, now time.Time) MailRequestedEvent {
	return MailRequestedEvent{Message: m, RequestedAt: now.UTC().Format(time.RFC3339)}
}
