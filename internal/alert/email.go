package alert

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"strconv"

	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"

	"github.com/runwayhq/runway/internal/config"
)

// SendFunc delivers a prepared message. It matches (*email.Email).Send.
type SendFunc func(e *email.Email, addr string, auth smtp.Auth) error

// EmailNotifier sends alerts over SMTP.
type EmailNotifier struct {
	cfg  config.AlertsConfig
	log  *logrus.Logger
	send SendFunc
}

// NewEmailNotifier returns a notifier using the [alerts] SMTP settings.
func NewEmailNotifier(cfg config.AlertsConfig, log *logrus.Logger) (*EmailNotifier, error) {
	if !cfg.EmailEnabled() {
		return nil, errors.New("email alerts need smtp_host, email_from and email_to")
	}
	return &EmailNotifier{
		cfg: cfg,
		log: log,
		send: func(e *email.Email, addr string, auth smtp.Auth) error {
			return e.Send(addr, auth)
		},
	}, nil
}

// WithSender replaces the delivery function. Used in tests.
func (n *EmailNotifier) WithSender(send SendFunc) *EmailNotifier {
	n.send = send
	return n
}

// Notify implements Notifier.
func (n *EmailNotifier) Notify(ctx context.Context, a LowBalance) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	e := email.NewEmail()
	e.From = n.cfg.EmailFrom
	e.To = []string{n.cfg.EmailTo}
	e.Subject = a.Subject()
	e.Text = []byte(a.Body())

	addr := n.cfg.SMTPHost + ":" + strconv.Itoa(n.cfg.SMTPPort)
	var auth smtp.Auth
	if n.cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", n.cfg.SMTPUsername, n.cfg.SMTPPassword, n.cfg.SMTPHost)
	}

	if err := n.send(e, addr, auth); err != nil {
		n.log.Errorf("Failed to send alert email to %s: %v", n.cfg.EmailTo, err)
		return fmt.Errorf("failed to send alert email: %w", err)
	}

	n.log.Infof("Alert email sent to %s: %s", n.cfg.EmailTo, e.Subject)
	return nil
}
