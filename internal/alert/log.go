package alert

import (
	"context"

	"github.com/sirupsen/logrus"
)

// LogNotifier writes alerts to a logrus logger at warn level.
type LogNotifier struct {
	Log *logrus.Logger
}

// Notify implements Notifier.
func (n LogNotifier) Notify(_ context.Context, a LowBalance) error {
	n.Log.WithFields(logrus.Fields{
		"scenario":       a.ScenarioName,
		"scenario_id":    a.ScenarioID,
		"lowest_balance": a.LowestBalance,
		"lowest_date":    a.LowestDate.String(),
		"threshold":      a.Threshold,
	}).Warn("projected balance below threshold")
	return nil
}
