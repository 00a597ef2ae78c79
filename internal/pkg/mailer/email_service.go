package mailer

import (
	"fmt"
	"html"

	"smart-notes-be/internal/pkg/logger"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendWelcome(toEmail, name string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	senderName  string
	log         logger.ILogger
}

func NewEmailService(host string, port int, username, password, senderName string, log logger.ILogger) IEmailService {
	return &emailService{
		dialer:      gomail.NewDialer(host, port, username, password),
		senderEmail: username,
		senderName:  senderName,
		log:         log,
	}
}

func (s *emailService) SendWelcome(toEmail, name string) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.senderEmail, s.senderName)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Welcome to Smart Notes")

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Hi %s, welcome to Smart Notes!</h2>
			<p>Every note you write gets a short summary, and we can suggest tags for it too.</p>
		</div>
	`, html.EscapeString(name))
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		s.log.Error("MAILER", "Failed to send welcome email", map[string]interface{}{
			"to":    toEmail,
			"error": err.Error(),
		})
		return err
	}

	s.log.Info("MAILER", "Welcome email sent", map[string]interface{}{"to": toEmail})
	return nil
}

type noopEmailService struct{}

// NewNoopEmailService is used when SMTP is not configured.
func NewNoopEmailService() IEmailService {
	return noopEmailService{}
}

func (noopEmailService) SendWelcome(string, string) error {
	return nil
}
