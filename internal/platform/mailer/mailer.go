// Copyright (c) 2026 Kritika. All rights reserved.
// Author: mkazennov.dev@gmail.com

/*
Package mailer provides outbound email delivery for the signup flow.

The core only needs a single capability — send a subject and body to one
recipient — so the interface stays narrow. Delivery failure is surfaced to the
caller but, per the signup contract, never rolls back the user or code record.

Implementations:

  - SMTP: production delivery via an SMTP relay (wneessen/go-mail).
  - Log: development fallback that writes the message to the structured log.
*/
package mailer

import (
	"context"
	"fmt"
	"log/slog"

	gomail "github.com/wneessen/go-mail"
)

// Mailer sends a single plain-text email.
type Mailer interface {
	Send(context context.Context, to, subject, body string) error
}

// # SMTP Delivery

// SMTPConfig holds relay settings for the [SMTP] mailer.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTP delivers mail through an authenticated SMTP relay.
type SMTP struct {
	config SMTPConfig
	logger *slog.Logger
}

// NewSMTP constructs an [SMTP] mailer.
func NewSMTP(config SMTPConfig, logger *slog.Logger) *SMTP {
	return &SMTP{config: config, logger: logger}
}

// Send builds and delivers one message. The client is created per call;
// signup volume does not justify a persistent connection.
func (mailer *SMTP) Send(context context.Context, to, subject, body string) error {
	message := gomail.NewMsg()
	if err := message.From(mailer.config.From); err != nil {
		return fmt.Errorf("mailer: invalid from address: %w", err)
	}
	if err := message.To(to); err != nil {
		return fmt.Errorf("mailer: invalid recipient address: %w", err)
	}
	message.Subject(subject)
	message.SetBodyString(gomail.TypeTextPlain, body)

	client, err := gomail.NewClient(mailer.config.Host,
		gomail.WithPort(mailer.config.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(mailer.config.Username),
		gomail.WithPassword(mailer.config.Password),
	)
	if err != nil {
		return fmt.Errorf("mailer: failed to create smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(context, message); err != nil {
		return fmt.Errorf("mailer: failed to send email: %w", err)
	}

	mailer.logger.Info("email_sent", slog.String("to", to), slog.String("subject", subject))
	return nil
}

// # Development Delivery

// Log is a [Mailer] that writes messages to the structured log instead of
// sending them. Used when no SMTP relay is configured.
type Log struct {
	logger *slog.Logger
}

// NewLog constructs a [Log] mailer.
func NewLog(logger *slog.Logger) *Log {
	return &Log{logger: logger}
}

// Send logs the message at INFO level.
func (mailer *Log) Send(context context.Context, to, subject, body string) error {
	mailer.logger.InfoContext(context, "email_logged",
		slog.String("to", to),
		slog.String("subject", subject),
		slog.String("body", body),
	)
	return nil
}
