package service

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"travel-marketplace-backend/internal/logger"
)

type emailService struct {
	host     string
	port     int
	username string
	password string
	from     string
}

// NewEmailService returns a gomail-backed sender, or nil when host is empty (email disabled).
func NewEmailService(host string, port int, username, password, from string) EmailService {
	if host == "" {
		return nil
	}
	return &emailService{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

func (s *emailService) SendDecisionNotification(ctx context.Context, email, name, subject, message string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", subject)

	body := fmt.Sprintf("Hello %s,\n\n%s\n\nBest regards,\nThe Travel Marketplace Team", name, message)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(s.host, s.port, s.username, s.password)

	logger.ExternalServiceCall("smtp", "DialAndSend", "to", email)
	err := d.DialAndSend(m)
	logger.ExternalServiceResult("smtp", "DialAndSend", err)
	if err != nil {
		return fmt.Errorf("failed to send email via gomail: %w", err)
	}
	return nil
}
