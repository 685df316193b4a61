package mailer

import (
	"fmt"

	"finquest-be/internal/pkg/logger"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendWelcome(toEmail, name string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	appURL      string
	logger      logger.ILogger
}

func NewEmailService(host string, port int, username, password, senderEmail, appURL string, log logger.ILogger) IEmailService {
	return &emailService{
		dialer:      gomail.NewDialer(host, port, username, password),
		senderEmail: senderEmail,
		appURL:      appURL,
		logger:      log,
	}
}

func welcomeBody(name, appURL string) string {
	return fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Welcome to FinQuest, %s!</h2>
			<p>Your account is ready. Finish a lesson or place your first paper trade to start earning XP.</p>
			<a href="%s" style="background-color: #4CAF50; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block;">Open FinQuest</a>
		</div>
	`, name, appURL)
}

func (s *emailService) SendWelcome(toEmail, name string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Welcome to FinQuest")
	m.SetBody("text/html", welcomeBody(name, s.appURL))

	if err := s.dialer.DialAndSend(m); err != nil {
		s.logger.Error("MAILER", "Failed to send welcome email", map[string]interface{}{
			"to":    toEmail,
			"error": err.Error(),
		})
		return err
	}

	s.logger.Info("MAILER", "Welcome email sent", map[string]interface{}{"to": toEmail})
	return nil
}
