package services

import (
	"crypto/tls"
	"fmt"
	"log"
	"net"
	"net/smtp"
	"strings"
	"time"
)

const smtpTimeout = 15 * time.Second

// Mailer delivers one-time login codes out-of-band.
type Mailer interface {
	SendOTP(email, code string) error
}

// SMTPMailer sends mail through a plain SMTP relay.
type SMTPMailer struct {
	host     string
	port     string
	username string
	password string
	from     string
	timeout  time.Duration
}

// NewSMTPMailer creates a new SMTPMailer.
func NewSMTPMailer(host, port, username, password, from string) *SMTPMailer {
	return &SMTPMailer{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
		timeout:  smtpTimeout,
	}
}

// SendOTP emails the login code. A missing SMTP host turns the mailer
// into a logged no-op so local development works without a relay.
func (m *SMTPMailer) SendOTP(email, code string) error {
	if m.host == "" {
		log.Println("[Mail] SMTP host not configured, skipping delivery")
		return nil
	}

	subject := "Your LeeyaHerbals login code"
	body := fmt.Sprintf("Your one-time login code is %s. It expires in 10 minutes.\r\n"+
		"If you did not request this code, you can ignore this email.", code)

	var msg strings.Builder
	msg.WriteString("From: " + m.from + "\r\n")
	msg.WriteString("To: " + email + "\r\n")
	msg.WriteString("Subject: " + subject + "\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)
	msg.WriteString("\r\n")

	if err := m.send(email, msg.String()); err != nil {
		log.Printf("[Mail] Failed to send login code to %s: %v", email, err)
		return &GatewayError{Provider: "smtp", Err: err}
	}

	return nil
}

// send drives one SMTP session. The connection deadline covers the
// whole exchange so a hung relay cannot block a login start.
func (m *SMTPMailer) send(to, msg string) error {
	addr := m.host + ":" + m.port

	conn, err := net.DialTimeout("tcp", addr, m.timeout)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(m.timeout)); err != nil {
		return err
	}

	client, err := smtp.NewClient(conn, m.host)
	if err != nil {
		return err
	}
	defer client.Close()

	if m.username != "" {
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err := client.StartTLS(&tls.Config{ServerName: m.host}); err != nil {
				return err
			}
		}
		if err := client.Auth(smtp.PlainAuth("", m.username, m.password, m.host)); err != nil {
			return err
		}
	}

	if err := client.Mail(m.from); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}

	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write([]byte(msg)); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	return client.Quit()
}
