// Package mail sends plain-text messages through an SMTP relay and reports
// which recipients the relay accepted.
package mail

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/smtp"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Message is one outgoing mail.
type Message struct {
	From    string
	To      []string
	Subject string
	Body    string
}

// SendResult is the relay's acceptance list. An empty Accepted with a nil
// error means the relay was reachable but refused every recipient.
type SendResult struct {
	Accepted []string
	Rejected []string
}

// Config locates and authenticates against the relay.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	// Timeout bounds the whole SMTP exchange; zero means 30s.
	Timeout time.Duration
}

// client is the subset of *smtp.Client the mailer drives.
type client interface {
	Extension(ext string) (bool, string)
	StartTLS(config *tls.Config) error
	Auth(a smtp.Auth) error
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Reset() error
	Quit() error
	Close() error
}

type dialFunc func(ctx context.Context, addr, host string) (client, error)

func dialSMTP(ctx context.Context, addr, host string) (client, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}
	c, err := smtp.NewClient(conn, host)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	return c, nil
}

// SMTPMailer sends each message in a single attempt over a fresh connection.
type SMTPMailer struct {
	cfg  Config
	log  *zap.Logger
	dial dialFunc
}

// NewSMTPMailer returns a mailer for cfg.
func NewSMTPMailer(cfg Config, log *zap.Logger) *SMTPMailer {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &SMTPMailer{cfg: cfg, log: log, dial: dialSMTP}
}

// Send delivers msg. Recipients refused at RCPT are listed in Rejected; if
// none is accepted the transaction is reset and no DATA is sent.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) (SendResult, error) {
	var res SendResult
	if len(msg.To) == 0 {
		return res, errors.New("no recipients")
	}

	ctx, cancel := context.WithTimeout(ctx, m.cfg.Timeout)
	defer cancel()

	addr := net.JoinHostPort(m.cfg.Host, fmt.Sprint(m.cfg.Port))
	c, err := m.dial(ctx, addr, m.cfg.Host)
	if err != nil {
		return res, fmt.Errorf("dial %s: %w", addr, err)
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: m.cfg.Host, MinVersion: tls.VersionTLS12}); err != nil {
			return res, fmt.Errorf("starttls: %w", err)
		}
	}
	if m.cfg.User != "" {
		if ok, _ := c.Extension("AUTH"); ok {
			if err := c.Auth(smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.Host)); err != nil {
				return res, fmt.Errorf("auth: %w", err)
			}
		}
	}

	if err := c.Mail(msg.From); err != nil {
		return res, fmt.Errorf("mail from: %w", err)
	}
	for _, rcpt := range msg.To {
		if err := c.Rcpt(rcpt); err != nil {
			m.log.Warn("recipient rejected", zap.String("rcpt", rcpt), zap.Error(err))
			res.Rejected = append(res.Rejected, rcpt)
			continue
		}
		res.Accepted = append(res.Accepted, rcpt)
	}
	if len(res.Accepted) == 0 {
		_ = c.Reset()
		_ = c.Quit()
		return res, nil
	}

	w, err := c.Data()
	if err != nil {
		return SendResult{Rejected: msg.To}, fmt.Errorf("data: %w", err)
	}
	if _, err := w.Write(compose(msg, res.Accepted)); err != nil {
		_ = w.Close()
		return SendResult{Rejected: msg.To}, fmt.Errorf("write body: %w", err)
	}
	if err := w.Close(); err != nil {
		return SendResult{Rejected: msg.To}, fmt.Errorf("end data: %w", err)
	}

	if err := c.Quit(); err != nil {
		m.log.Debug("smtp quit failed", zap.Error(err))
	}
	m.log.Info("mail sent", zap.Strings("accepted", res.Accepted), zap.String("subject", msg.Subject))
	return res, nil
}

var headerSanitizer = strings.NewReplacer("\r", " ", "\n", " ")

func compose(msg Message, to []string) []byte {
	var b strings.Builder
	b.WriteString("From: " + headerSanitizer.Replace(msg.From) + "\r\n")
	b.WriteString("To: " + headerSanitizer.Replace(strings.Join(to, ", ")) + "\r\n")
	b.WriteString("Subject: " + headerSanitizer.Replace(msg.Subject) + "\r\n")
	b.WriteString("Date: " + time.Now().Format(time.RFC1123Z) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.Body)
	b.WriteString("\r\n")
	return []byte(b.String())
}
