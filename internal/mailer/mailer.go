// Package mailer sends notification emails over SMTP.
package mailer

import (
	"strings"

	"gopkg.in/gomail.v2"

	"cryptofolio/internal/logger"
)

// Config holds SMTP transport settings. An empty Username or Password leaves
// the mailer disabled: Send logs and reports failure instead of dialing.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Sender delivers a plain-text message to a single recipient and reports
// whether delivery succeeded. Implementations must not panic on transport
// errors.
type Sender interface {
	Send(to, subject, body string) bool
}

// Mailer is the SMTP-backed Sender.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

// New creates a Mailer from config. When credentials are absent the returned
// Mailer has no dialer and every Send returns false.
func New(cfg Config) *Mailer {
	m := &Mailer{from: cfg.From}
	if m.from == "" {
		m.from = cfg.Username
	}
	if cfg.Username == "" || cfg.Password == "" {
		logger.Get().Warn("SMTP credentials not configured, email delivery disabled")
		return m
	}
	m.dialer = gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	return m
}

// Send delivers one email with both a text and an HTML part. The HTML part is
// the text body with each line wrapped in a paragraph. Returns true only when
// the SMTP transaction completed.
func (m *Mailer) Send(to, subject, body string) bool {
	if m.dialer == nil {
		logger.Get().Warnw("Email dropped, mailer disabled", "to", to, "subject", subject)
		return false
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	msg.AddAlternative("text/html", HTMLBody(body))

	if err := m.dialer.DialAndSend(msg); err != nil {
		logger.Get().Errorw("Failed to send email", "to", to, "subject", subject, "error", err)
		return false
	}

	logger.Get().Infow("Email sent", "to", to, "subject", subject)
	return true
}

// HTMLBody renders a plain-text body as simple HTML, one paragraph per line.
// Blank lines become empty paragraphs so spacing survives HTML rendering.
func HTMLBody(body string) string {
	var b strings.Builder
	for _, line := range strings.Split(body, "\n") {
		b.WriteString("<p>")
		b.WriteString(line)
		b.WriteString("</p>")
	}
	return b.String()
}
