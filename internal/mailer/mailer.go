// Package mailer sends plain-text email over SMTP.
package mailer

import (
	"fmt"
	"net/smtp"
)

// Mailer delivers a single plain-text message.
type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPMailer sends mail through an authenticated SMTP relay.
type SMTPMailer struct {
	host   string
	port   int
	sender string
	auth   smtp.Auth
}

// NewSMTPMailer configures a mailer against host:port. user/pass may be
// empty for an unauthenticated relay.
func NewSMTPMailer(host string, port int, user, pass, sender string) *SMTPMailer {
	var auth smtp.Auth
	if user != "" {
		auth = smtp.PlainAuth("", user, pass, host)
	}
	return &SMTPMailer{host: host, port: port, sender: sender, auth: auth}
}

// Send delivers one message to a single recipient.
func (m *SMTPMailer) Send(to, subject, body string) error {
	msg := []byte(fmt.Sprintf("To: %s\r\nFrom: %s\r\nSubject: %s\r\n\r\n%s\r\n", to, m.sender, subject, body))
	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	if err := smtp.SendMail(addr, m.auth, m.sender, []string{to}, msg); err != nil {
		return fmt.Errorf("smtp send to %s: %w", m.host, err)
	}
	return nil
}
