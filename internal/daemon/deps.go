package daemon

import (
	"context"

	"github.com/runwayhq/runway/internal/alert"
	"github.com/runwayhq/runway/internal/model"
)

// Source is the scenario storage the daemon projects from.
//
//go:generate mockgen -destination=mocks/mock_deps.go -source=deps.go Source,Notifier
type Source interface {
	ResolveScenario(ctx context.Context, ref string) (model.Scenario, error)
	ListScenarios(ctx context.Context) ([]model.Scenario, error)
	LoadScenario(ctx context.Context, scenarioID string) (model.ScenarioData, error)
}

// Notifier receives low-balance alerts.
type Notifier interface {
	Notify(ctx context.Context, a alert.LowBalance) error
}
