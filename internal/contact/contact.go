// Package contact sends contact form submissions by email.
package contact

import (
	"errors"
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"github.com/Zachkp/portfolio/internal/config"
)

// ErrNotConfigured is returned when SMTP credentials are missing.
var ErrNotConfigured = errors.New("SMTP credentials not configured")

// Form is a contact form submission.
type Form struct {
	Name    string `form:"fullName" binding:"required,max=200"`
	Email   string `form:"email" binding:"required,email"`
	Message string `form:"message" binding:"required,max=5000"`
}

// Mailer delivers contact messages.
type Mailer interface {
	Send(f Form) error
}

// SendFunc sends a composed message; it matches smtp.SendMail.
type SendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPMailer sends through an SMTP relay with plain auth.
type SMTPMailer struct {
	cfg  config.SMTP
	to   string
	send SendFunc
}

// NewSMTPMailer returns a mailer for cfg. Messages go to cfg.ToEmail, or to
// fallback when that is unset.
func NewSMTPMailer(cfg config.SMTP, fallback string) *SMTPMailer {
	to := cfg.ToEmail
	if to == "" {
		to = fallback
	}
	return &SMTPMailer{cfg: cfg, to: to, send: smtp.SendMail}
}

// Send composes and delivers the submission.
func (m *SMTPMailer) Send(f Form) error {
	if !m.cfg.Configured() {
		return ErrNotConfigured
	}
	if m.to == "" {
		return errors.New("no recipient configured")
	}

	msg := Compose(m.cfg.User, m.to, f)
	auth := smtp.PlainAuth("", m.cfg.User, m.cfg.Pass, m.cfg.Host)
	if err := m.send(m.cfg.Host+":"+m.cfg.Port, auth, m.cfg.User, []string{m.to}, msg); err != nil {
		log.Printf("Error sending email: %v", err)
		return fmt.Errorf("sending email: %w", err)
	}

	log.Printf("Email sent successfully from %s (%s)", f.Name, f.Email)
	return nil
}

// Compose builds the RFC 822 message for a submission.
func Compose(from, to string, f Form) []byte {
	subject := fmt.Sprintf("Portfolio Contact: %s", headerSafe(f.Name))
	body := fmt.Sprintf(`
New contact form submission from your portfolio:

Name: %s
Email: %s
Message:
%s

---
Sent from your portfolio contact form
`, f.Name, f.Email, f.Message)

	return []byte("To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"From: " + from + "\r\n" +
		"Reply-To: " + headerSafe(f.Email) + "\r\n" +
		"\r\n" +
		body + "\r\n")
}

// headerSafe strips line breaks so user input cannot inject headers.
func headerSafe(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}
