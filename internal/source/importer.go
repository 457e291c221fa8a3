package source

import (
	"context"
	"fmt"

	"github.com/runwayhq/runway/internal/model"
)

// Writer is the write side of the scenario store used by Import.
type Writer interface {
	CreateScenario(ctx context.Context, name string) (model.Scenario, error)
	AddAccount(ctx context.Context, a model.Account) (model.Account, error)
	AddPaycheck(ctx context.Context, p model.Paycheck) (model.Paycheck, error)
	AddCreditCard(ctx context.Context, c model.CreditCard) (model.CreditCard, error)
	AddLifeEvent(ctx context.Context, e model.LifeEvent) (model.LifeEvent, error)
}

// Import creates a new scenario from a parsed definition and returns it.
// name overrides the file's scenario name when non-empty.
func Import(ctx context.Context, w Writer, res ParseResult, name string) (model.Scenario, error) {
	if name == "" {
		name = res.Name
	}
	sc, err := w.CreateScenario(ctx, name)
	if err != nil {
		return model.Scenario{}, err
	}

	for _, a := range res.Data.Accounts {
		a.ScenarioID = sc.ID
		if _, err := w.AddAccount(ctx, a); err != nil {
			return sc, fmt.Errorf("importing account %q: %w", a.Name, err)
		}
	}

	paycheckIDs := make(map[string]string)
	for _, p := range res.Data.Paychecks {
		p.ScenarioID = sc.ID
		saved, err := w.AddPaycheck(ctx, p)
		if err != nil {
			return sc, fmt.Errorf("importing paycheck %q: %w", p.Name, err)
		}
		if p.Name != "" {
			paycheckIDs[p.Name] = saved.ID
		}
	}

	for _, c := range res.Data.CreditCards {
		c.ScenarioID = sc.ID
		if _, err := w.AddCreditCard(ctx, c); err != nil {
			return sc, fmt.Errorf("importing credit card %q: %w", c.Name, err)
		}
	}

	for i, e := range res.Data.LifeEvents {
		e.ScenarioID = sc.ID
		if i < len(res.PaycheckRefs) && res.PaycheckRefs[i] != "" {
			e.RelatedPaycheckID = paycheckIDs[res.PaycheckRefs[i]]
		}
		if _, err := w.AddLifeEvent(ctx, e); err != nil {
			return sc, fmt.Errorf("importing life event %q: %w", e.Type, err)
		}
	}

	return sc, nil
}
