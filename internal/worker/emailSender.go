package worker

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/evreg/registration-service/config"
)

// SMTPSender delivers notifications over plain SMTP with AUTH.
type SMTPSender struct {
	cfg config.EmailConfig
}

func NewSMTPSender(cfg config.EmailConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

func (s *SMTPSender) Send(_ context.Context, recipient, subject, body string) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)

	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		s.cfg.From, recipient, subject, body,
	))

	if err := smtp.SendMail(addr, auth, s.cfg.From, []string{recipient}, msg); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", recipient, err)
	}
	return nil
}
