package service

import gomail "gopkg.in/gomail.v2"

// Message is a transactional email before the sender address is applied.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Mailer delivers transactional email. Implementations must be safe for
// concurrent use; transport failures are returned verbatim to the caller.
type Mailer interface {
	Send(msg Message) error
}

// SMTPMailer sends mail through an SMTP relay. It injects the fixed sender
// address configured at startup into every message.
type SMTPMailer struct {
	dialer *gomail.Dialer
	sender string
}

// NewSMTPMailer creates a mailer for the SMTP relay described by the
// configuration.
func NewSMTPMailer(cfg Config) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
		sender: cfg.Sender,
	}
}

// Send delivers a single message. Each call dials a fresh SMTP connection;
// there is no retry and no queueing.
func (m *SMTPMailer) Send(msg Message) error {
	mail := gomail.NewMessage()
	mail.SetHeader("From", m.sender)
	mail.SetHeader("To", msg.To)
	mail.SetHeader("Subject", msg.Subject)
	mail.SetBody("text/plain", msg.Text)
	mail.AddAlternative("text/html", msg.HTML)
	return m.dialer.DialAndSend(mail)
}
