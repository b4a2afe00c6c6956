package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// Sender delivers a single email. Implementations return an error on
// delivery failure; there is no receipt tracking.
type Sender interface {
	Send(to, subject, body string, html bool) error
}

// SMTPSender sends mail over authenticated SMTP.
type SMTPSender struct {
	Host     string
	Port     int
	Email    string
	Password string
}

func NewSMTPSender(host string, port int, email, password string) *SMTPSender {
	return &SMTPSender{Host: host, Port: port, Email: email, Password: password}
}

func (s *SMTPSender) Send(to, subject, body string, html bool) error {
	if s.Email == "" || s.Password == "" {
		return fmt.Errorf("SMTP credentials not configured")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.Email)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	if html {
		m.SetBody("text/html", body)
	} else {
		m.SetBody("text/plain", body)
	}

	d := gomail.NewDialer(s.Host, s.Port, s.Email, s.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send to %s: %w", to, err)
	}
	return nil
}
