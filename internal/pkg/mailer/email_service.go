// FILE: internal/pkg/mailer/email_service.go
package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendWelcome(toEmail, name string) error
	Enabled() bool
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	senderName  string
	clientURL   string
}

// NewEmailService returns a mailer that reports Enabled() == false when no
// SMTP host is configured.
func NewEmailService(host string, port int, username, password, senderName, clientURL string) IEmailService {
	var d *gomail.Dialer
	if host != "" {
		d = gomail.NewDialer(host, port, username, password)
	}

	return &emailService{
		dialer:      d,
		senderEmail: username,
		senderName:  senderName,
		clientURL:   clientURL,
	}
}

func (s *emailService) Enabled() bool {
	return s.dialer != nil
}

func (s *emailService) SendWelcome(toEmail, name string) error {
	if !s.Enabled() {
		return fmt.Errorf("smtp is not configured")
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.senderEmail, s.senderName)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Welcome to the library")

	if name == "" {
		name = toEmail
	}
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Welcome, %s!</h2>
			<p>Your library account is ready. Browse the catalog and borrow what you like. Late returns accrue a daily fine.</p>
			<a href="%s" style="background-color: #007BFF; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block;">Open the catalog</a>
		</div>
	`, name, s.clientURL)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send welcome to %s: %w", toEmail, err)
	}
	return nil
}
