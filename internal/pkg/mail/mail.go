package mail

import (
	"fmt"
	"net/smtp"
	"strings"
)

// Config holds SMTP provider settings.
type Config struct {
	Enable bool
	Host   string
	Port   int
	User   string
	Pass   string
	From   string
}

// Message is a single email to send.
type Message struct {
	To      []string
	Subject string
	Text    string
}

// Sender sends emails via SMTP. Send is a no-op when mail is disabled,
// so callers do not need to special-case configuration.
type Sender struct {
	cfg Config
}

func New(cfg Config) *Sender {
	return &Sender{cfg: cfg}
}

// Send dispatches an email.
func (s *Sender) Send(msg Message) error {
	if !s.cfg.Enable {
		return nil
	}
	if len(msg.To) == 0 {
		return fmt.Errorf("no recipients")
	}

	port := s.cfg.Port
	if port == 0 {
		port = 587
	}
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, port)

	from := s.cfg.From
	if from == "" {
		from = s.cfg.User
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(msg.To, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n")
	b.WriteString(msg.Text)

	var auth smtp.Auth
	if s.cfg.User != "" {
		auth = smtp.PlainAuth("", s.cfg.User, s.cfg.Pass, s.cfg.Host)
	}
	return smtp.SendMail(addr, auth, from, msg.To, []byte(b.String()))
}
