package alert

import (
	"bytes"
	"context"
	"errors"
	"net/smtp"
	"testing"
	"time"

	"github.com/jordan-wright/email"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runwayhq/runway/internal/config"
	"github.com/runwayhq/runway/internal/logging"
	"github.com/runwayhq/runway/internal/model"
)

func sampleAlert() LowBalance {
	return LowBalance{
		ScenarioID:    "sc-1",
		ScenarioName:  "Personal",
		Threshold:     0,
		LowestBalance: -412.5,
		LowestDate:    model.NewDate(2025, 3, 14),
		FirstBelow:    model.NewDate(2025, 3, 1),
		At:            time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestLowBalance_Text(t *testing.T) {
	a := sampleAlert()
	assert.Equal(t, "runway: Personal dips to -$412.50 on 2025-03-14", a.Subject())
	body := a.Body()
	assert.Contains(t, body, "First day below threshold: 2025-03-01")
	assert.Contains(t, body, "-$412.50 on 2025-03-14")
}

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := LogNotifier{Log: logging.NewWithOutput(&buf, "info", "json")}

	require.NoError(t, n.Notify(context.Background(), sampleAlert()))
	assert.Contains(t, buf.String(), `"scenario":"Personal"`)
	assert.Contains(t, buf.String(), `"level":"warning"`)
}

func smtpConfig() config.AlertsConfig {
	return config.AlertsConfig{
		EmailTo:      "me@example.com",
		EmailFrom:    "runway@example.com",
		SMTPHost:     "smtp.example.com",
		SMTPPort:     2525,
		SMTPUsername: "user",
		SMTPPassword: "pass",
	}
}

func TestNewEmailNotifier_RequiresSettings(t *testing.T) {
	_, err := NewEmailNotifier(config.AlertsConfig{SMTPHost: "x"}, logging.Discard())
	assert.Error(t, err)
}

func TestEmailNotifier_Send(t *testing.T) {
	n, err := NewEmailNotifier(smtpConfig(), logging.Discard())
	require.NoError(t, err)

	var sent *email.Email
	var sentAddr string
	var sentAuth smtp.Auth
	n.WithSender(func(e *email.Email, addr string, auth smtp.Auth) error {
		sent, sentAddr, sentAuth = e, addr, auth
		return nil
	})

	require.NoError(t, n.Notify(context.Background(), sampleAlert()))
	require.NotNil(t, sent)
	assert.Equal(t, "smtp.example.com:2525", sentAddr)
	assert.NotNil(t, sentAuth)
	assert.Equal(t, []string{"me@example.com"}, sent.To)
	assert.Equal(t, "runway@example.com", sent.From)
	assert.Contains(t, string(sent.Text), "Lowest balance")
}

func TestEmailNotifier_SendError(t *testing.T) {
	n, err := NewEmailNotifier(smtpConfig(), logging.Discard())
	require.NoError(t, err)
	n.WithSender(func(*email.Email, string, smtp.Auth) error {
		return errors.New("connection refused")
	})

	err = n.Notify(context.Background(), sampleAlert())
	assert.ErrorContains(t, err, "connection refused")
}

type countingNotifier struct {
	calls int
	err   error
}

func (c *countingNotifier) Notify(context.Context, LowBalance) error {
	c.calls++
	return c.err
}

func TestMulti(t *testing.T) {
	ok := &countingNotifier{}
	bad := &countingNotifier{err: errors.New("boom")}

	err := Multi{ok, bad}.Notify(context.Background(), sampleAlert())
	assert.ErrorContains(t, err, "boom")
	assert.Equal(t, 1, ok.calls)
	assert.Equal(t, 1, bad.calls)
}
