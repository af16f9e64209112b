package mailer

import (
	"fmt"
	"log/slog"

	"gopkg.in/gomail.v2"
)

// Mailer delivers one-time verification codes over SMTP. When SMTP is
// not configured it degrades to a logged no-op so local setups work
// without a mail account.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
	log    *slog.Logger
}

func New(host string, port int, username, password, from string, log *slog.Logger) *Mailer {
	m := &Mailer{from: from, log: log}
	if host == "" || username == "" {
		log.Warn("smtp not configured, verification codes will not be emailed")
		return m
	}
	m.dialer = gomail.NewDialer(host, port, username, password)
	return m
}

func (m *Mailer) SendCode(email, code string) error {
	if m.dialer == nil {
		m.log.Warn("skipping verification mail", "email", email)
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", email)
	msg.SetHeader("Subject", "Your verification code")
	msg.SetBody("text/plain", fmt.Sprintf(
		"Your verification code is %s.\n\nThis code expires in 10 minutes.\n\nIf you did not request this code, you can safely ignore this email.",
		code,
	))

	return m.dialer.DialAndSend(msg)
}
