// Package service holds the outbound collaborators: the SMTP mailer,
// the question proxy and the recitation audio URL builder
package service

import (
	"errors"
	"fmt"

	"gopkg.in/gomail.v2"
)

type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPMailer delivers verification and reset codes over SMTP. The
// config is handed in once at startup, nothing is read from the
// environment afterwards.
type SMTPMailer struct {
	cfg MailConfig
}

func NewSMTPMailer(cfg MailConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) SendVerificationCode(to, code string) error {
	return m.send(to, "Verify your Iqra AI account", verificationBody(code))
}

func (m *SMTPMailer) SendNewVerificationCode(to, code string) error {
	return m.send(to, "New Verification Code - Iqra AI", resendBody(code))
}

func (m *SMTPMailer) SendResetCode(to, code string) error {
	return m.send(to, "Reset Your Iqra AI Password", resetBody(code))
}

func (m *SMTPMailer) send(to, subject, body string) error {
	if to == m.cfg.From {
		return errors.New("invalid email address")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", fmt.Sprintf("Iqra AI <%s>", m.cfg.From))
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	d := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)

	if err := d.DialAndSend(msg); err != nil {
		return err
	}

	return nil
}
