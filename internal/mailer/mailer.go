// Package mailer sends transactional mail over SMTP with STARTTLS.
package mailer

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"
	"net"
	"net/smtp"
	"net/url"
	"strings"
	"time"

	"pharmacy-hr/internal/config"

	"go.uber.org/zap"
)

const (
	dialTimeout = 8 * time.Second
	sendTimeout = 15 * time.Second
)

var inviteTemplate = template.Must(template.New("invite").Parse(`<!doctype html>
<html>
<body style="font-family: sans-serif;">
  <p>안녕하세요 {{.Name}},</p>
  <p>You have been invited to Pharmacy HR as <b>{{.Role}}</b>.</p>
  <p><a href="{{.Link}}">Set your password</a></p>
  <p>This link expires on {{.ExpiresAt}}.</p>
</body>
</html>`))

type Invite struct {
	To        string
	Name      string
	Role      string
	Token     string
	ExpiresAt time.Time
}

// SendFunc delivers a raw RFC 5322 message. Tests swap it out.
type SendFunc func(ctx context.Context, from, to string, msg []byte) error

type Mailer struct {
	cfg     config.SMTPConfig
	siteURL string
	send    SendFunc
	logger  *zap.Logger
}

func New(cfg config.SMTPConfig, siteURL string, logger ...*zap.Logger) *Mailer {
	l := zap.L().Named("mailer")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("mailer")
	}
	m := &Mailer{cfg: cfg, siteURL: strings.TrimRight(siteURL, "/"), logger: l}
	m.send = m.sendSMTP
	return m
}

// WithSender replaces SMTP delivery.
func (m *Mailer) WithSender(fn SendFunc) *Mailer {
	m.send = fn
	return m
}

func (m *Mailer) InviteLink(token string) string {
	return fmt.Sprintf("%s/accept-invite?token=%s", m.siteURL, url.QueryEscape(token))
}

func (m *Mailer) SendInvite(ctx context.Context, inv Invite) error {
	var body bytes.Buffer
	err := inviteTemplate.Execute(&body, map[string]string{
		"Name":      inv.Name,
		"Role":      inv.Role,
		"Link":      m.InviteLink(inv.Token),
		"ExpiresAt": inv.ExpiresAt.UTC().Format("2006-01-02 15:04 UTC"),
	})
	if err != nil {
		return err
	}

	msg := m.compose(inv.To, "You're invited to Pharmacy HR", body.String())

	m.logger.Info("sending invite mail", zap.String("to", inv.To))
	if err := m.send(ctx, m.cfg.From, inv.To, msg); err != nil {
		m.logger.Error("send invite mail failed", zap.String("to", inv.To), zap.Error(err))
		return err
	}
	return nil
}

func (m *Mailer) compose(to, subject, htmlBody string) []byte {
	from := m.cfg.From
	if m.cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", m.cfg.FromName, m.cfg.From)
	}
	return []byte(strings.Join([]string{
		"From: " + from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		`Content-Type: text/html; charset="UTF-8"`,
		"",
		htmlBody,
	}, "\r\n"))
}

func (m *Mailer) sendSMTP(ctx context.Context, from, to string, msg []byte) error {
	addr := net.JoinHostPort(m.cfg.Host, m.cfg.Port)

	d := net.Dialer{Timeout: dialTimeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	_ = conn.SetDeadline(time.Now().Add(sendTimeout))

	c, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		_ = conn.Close()
		return err
	}
	defer func() { _ = c.Quit() }()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: m.cfg.Host}); err != nil {
			return err
		}
	}
	if m.cfg.User != "" {
		if err := c.Auth(smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.Host)); err != nil {
			return err
		}
	}

	if err := c.Mail(from); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
	}

	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}
