// Package alert delivers low-balance notifications raised by the daemon.
package alert

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/runwayhq/runway/internal/cli"
	"github.com/runwayhq/runway/internal/model"
)

// LowBalance describes a projection whose lowest point falls under the
// configured threshold.
type LowBalance struct {
	ScenarioID    string     `json:"scenario_id"`
	ScenarioName  string     `json:"scenario_name"`
	Threshold     float64    `json:"threshold"`
	LowestBalance float64    `json:"lowest_balance"`
	LowestDate    model.Date `json:"lowest_date"`
	FirstBelow    model.Date `json:"first_below"`
	At            time.Time  `json:"at"`
}

// Subject is a one-line summary suitable for an email subject.
func (a LowBalance) Subject() string {
	return fmt.Sprintf("runway: %s dips to %s on %s",
		a.ScenarioName, cli.FormatMoney(a.LowestBalance), a.LowestDate)
}

// Body is the plain-text message body.
func (a LowBalance) Body() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Scenario %q is projected to fall below %s.\n\n",
		a.ScenarioName, cli.FormatMoney(a.Threshold))
	if !a.FirstBelow.IsZero() {
		fmt.Fprintf(&b, "First day below threshold: %s\n", a.FirstBelow)
	}
	fmt.Fprintf(&b, "Lowest balance:            %s on %s\n",
		cli.FormatMoney(a.LowestBalance), a.LowestDate)
	fmt.Fprintf(&b, "\nProjected at %s.\n", a.At.Format(time.RFC1123))
	return b.String()
}

// Notifier delivers an alert.
type Notifier interface {
	Notify(ctx context.Context, a LowBalance) error
}

// Multi fans an alert out to several notifiers and joins their errors.
type Multi []Notifier

// Notify implements Notifier.
func (m Multi) Notify(ctx context.Context, a LowBalance) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, a); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
