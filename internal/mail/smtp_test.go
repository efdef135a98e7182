package mail

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomail "github.com/wneessen/go-mail"
)

func TestMessage_Validate(t *testing.T) {
	assert.Error(t, Message{From: "a@b.c"}.Validate())
	assert.Error(t, Message{To: "a@b.c"}.Validate())
	assert.NoError(t, Message{To: "a@b.c", From: "d@e.f"}.Validate())
}

func TestBuildMsg(t *testing.T) {
	msg, err := buildMsg(Message{
		To:       "admin@example.com",
		From:     "noreply@example.com",
		FromName: "Blog System - Password Recovery",
		Subject:  "Password reset link.",
		Body:     "hello",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Password reset link."}, msg.GetGenHeader(gomail.HeaderSubject))
	to := msg.GetToString()
	require.Len(t, to, 1)
	assert.Contains(t, to[0], "admin@example.com")
	from := msg.GetFromString()
	require.Len(t, from, 1)
	assert.Contains(t, from[0], "Blog System - Password Recovery")
}

func TestBuildMsg_BadAddress(t *testing.T) {
	_, err := buildMsg(Message{To: "not an address", From: "noreply@example.com"})
	assert.Error(t, err)
}

func TestSMTPSender_Send(t *testing.T) {
	s := NewSMTPSender(SMTPConfig{Host: "smtp.example.com", Port: 587, Username: "u", Password: "p"})
	var sent *gomail.Msg
	s.dial = func(ctx context.Context, c *gomail.Client, m *gomail.Msg) error {
		sent = m
		return nil
	}
	require.NoError(t, s.Send(context.Background(), Message{To: "a@example.com", From: "b@example.com", Subject: "s", Body: "b"}))
	require.NotNil(t, sent)

	s.dial = func(context.Context, *gomail.Client, *gomail.Msg) error { return errors.New("connection refused") }
	err := s.Send(context.Background(), Message{To: "a@example.com", From: "b@example.com"})
	assert.ErrorContains(t, err, "smtp send: connection refused")
}

func TestSMTPSender_RejectsIncompleteMessage(t *testing.T) {
	s := NewSMTPSender(SMTPConfig{Host: "smtp.example.com", Port: 587})
	s.dial = func(context.Context, *gomail.Client, *gomail.Msg) error {
		t.Fatal("must not dial")
		return nil
	}
	assert.Error(t, s.Send(context.Background(), Message{From: "b@example.com"}))
}
