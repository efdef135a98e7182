package mail

import (
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"
)

// SMTPConfig holds the outgoing mail server settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
}

// SMTPSender delivers messages through an authenticated SMTP server using
// STARTTLS.
type SMTPSender struct {
	cfg  SMTPConfig
	dial func(ctx context.Context, c *gomail.Client, m *gomail.Msg) error
}

func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	return &SMTPSender{
		cfg: cfg,
		dial: func(ctx context.Context, c *gomail.Client, m *gomail.Msg) error {
			return c.DialAndSendWithContext(ctx, m)
		},
	}
}

// Send builds a high-priority plain-text message and transmits it.
func (s *SMTPSender) Send(ctx context.Context, m Message) error {
	if err := m.Validate(); err != nil {
		return err
	}
	msg, err := buildMsg(m)
	if err != nil {
		return err
	}
	client, err := gomail.NewClient(s.cfg.Host,
		gomail.WithPort(s.cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.cfg.Username),
		gomail.WithPassword(s.cfg.Password),
		gomail.WithTLSPortPolicy(gomail.TLSMandatory),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	if err := s.dial(ctx, client, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func buildMsg(m Message) (*gomail.Msg, error) {
	msg := gomail.NewMsg()
	if m.FromName != "" {
		if err := msg.FromFormat(m.FromName, m.From); err != nil {
			return nil, fmt.Errorf("mail from: %w", err)
		}
	} else if err := msg.From(m.From); err != nil {
		return nil, fmt.Errorf("mail from: %w", err)
	}
	if err := msg.To(m.To); err != nil {
		return nil, fmt.Errorf("mail to: %w", err)
	}
	msg.Subject(m.Subject)
	msg.SetImportance(gomail.ImportanceHigh)
	msg.SetBodyString(gomail.TypeTextPlain, m.Body)
	return msg, nil
}
