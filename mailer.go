package main

import (
	"fmt"

	gomail "gopkg.in/gomail.v2"
)

const plainFallback = "Se lunchmenyn i HTML-versionen av mejlet."

// Mailer delivers the finished email to all recipients in one
// transmission over authenticated SMTP.
type Mailer struct {
	host       string
	port       int
	sender     string
	password   string
	recipients []string
}

// NewMailer creates a mailer from the run configuration
func NewMailer(cfg *Config) *Mailer {
	return &Mailer{
		host:       cfg.Settings.SMTP.Host,
		port:       cfg.Settings.SMTP.Port,
		sender:     cfg.Sender,
		password:   cfg.Password,
		recipients: cfg.Recipients,
	}
}

// Send delivers htmlBody to all recipients, with a plain-text fallback
// part. The SMTP session is established and torn down per call.
func (m *Mailer) Send(subject, htmlBody string) error {
	dialer := gomail.NewDialer(m.host, m.port, m.sender, m.password)
	if err := dialer.DialAndSend(m.buildMessage(subject, htmlBody)); err != nil {
		return fmt.Errorf("sending mail via %s:%d: %w", m.host, m.port, err)
	}
	return nil
}

func (m *Mailer) buildMessage(subject, htmlBody string) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.sender, "Lunch Bot 🤖")
	msg.SetHeader("To", m.recipients...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", plainFallback)
	msg.AddAlternative("text/html", htmlBody)
	return msg
}
