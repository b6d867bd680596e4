// Package mailer is the outbound email sink. Delivery failures are logged and
// counted, never returned to the code that asked for the mail.
package mailer

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"

	"counselling_backend/internals/helpers/applog"
	"counselling_backend/internals/helpers/metrics"
)

// Message is one plain-text email.
type Message struct {
	To      []string
	Subject string
	Text    string
}

// Transport performs the actual send.
type Transport interface {
	Send(ctx context.Context, from string, msg Message) error
}

// Config for the SMTP transport.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	Disabled bool
}

// Mailer delivers messages through a Transport.
type Mailer struct {
	from      string
	transport Transport
	log       *zerolog.Logger
}

func New(cfg Config) *Mailer {
	var t Transport = smtpTransport{dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)}
	if cfg.Disabled || cfg.Username == "" {
		t = logTransport{}
	}
	return NewWithTransport(cfg.Username, t)
}

func NewWithTransport(from string, t Transport) *Mailer {
	return &Mailer{from: from, transport: t, log: applog.WithComponent("mailer")}
}

// Deliver sends msg and swallows any failure.
func (m *Mailer) Deliver(ctx context.Context, msg Message) {
	to := compact(msg.To)
	if len(to) == 0 {
		m.log.Debug().Str("subject", msg.Subject).Msg("mail skipped: no recipient")
		return
	}
	msg.To = to
	if err := m.transport.Send(ctx, m.from, msg); err != nil {
		metrics.Notifications.WithLabelValues("email", "error").Inc()
		m.log.Error().Err(err).Strs("to", to).Str("subject", msg.Subject).Msg("mail delivery failed")
		return
	}
	metrics.Notifications.WithLabelValues("email", "ok").Inc()
	m.log.Info().Strs("to", to).Str("subject", msg.Subject).Msg("mail sent")
}

func compact(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

type smtpTransport struct {
	dialer *gomail.Dialer
}

func (t smtpTransport) Send(ctx context.Context, from string, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	gm := gomail.NewMessage()
	gm.SetHeader("From", from)
	gm.SetHeader("To", msg.To...)
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/plain", msg.Text)
	return t.dialer.DialAndSend(gm)
}

// logTransport is used when no SMTP account is configured.
type logTransport struct{}

func (logTransport) Send(_ context.Context, _ string, msg Message) error {
	applog.WithComponent("mailer").Info().Strs("to", msg.To).Str("subject", msg.Subject).Msg("mailer disabled, message logged only")
	return nil
}
