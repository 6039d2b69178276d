package notification

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
)

// EmailSender talks plain SMTP. An unset host means email is not configured
// for this deployment; sends are skipped with a warning rather than failing.
type EmailSender struct {
	log  *slog.Logger
	host string
	port string
	user string
	pass string
	from string
}

func NewEmailSender(log *slog.Logger, host, port, user, pass, from string) *EmailSender {
	return &EmailSender{log: log, host: host, port: port, user: user, pass: pass, from: from}
}

func (s *EmailSender) Send(_ context.Context, to, subject, body string) error {
	if s.host == "" {
		s.log.Warn("email host not configured, skipping email", "to", to)
		return nil
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n", s.from, to, subject, body)

	var auth smtp.Auth
	if s.user != "" {
		auth = smtp.PlainAuth("", s.user, s.pass, s.host)
	}
	return smtp.SendMail(s.host+":"+s.port, auth, s.from, []string{to}, []byte(msg))
}
