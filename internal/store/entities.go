package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/runwayhq/runway/internal/model"
)

// Kind names one of the entity tables stored under a scenario.
type Kind string

const (
	KindAccount    Kind = "account"
	KindPaycheck   Kind = "paycheck"
	KindCreditCard Kind = "card"
	KindLifeEvent  Kind = "event"
)

var kindTables = map[Kind]string{
	KindAccount:    "accounts",
	KindPaycheck:   "paychecks",
	KindCreditCard: "credit_cards",
	KindLifeEvent:  "life_events",
}

// ParseKind accepts singular, plural, and table names.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "account", "accounts":
		return KindAccount, nil
	case "paycheck", "paychecks":
		return KindPaycheck, nil
	case "card", "cards", "credit_card", "credit_cards", "creditcard":
		return KindCreditCard, nil
	case "event", "events", "life_event", "life_events":
		return KindLifeEvent, nil
	}
	return "", fmt.Errorf("unknown entity kind %q", s)
}

// AddAccount inserts an account under its scenario.
func (s *Store) AddAccount(ctx context.Context, a model.Account) (model.Account, error) {
	if err := s.requireScenario(ctx, a.ScenarioID); err != nil {
		return model.Account{}, err
	}
	t, ts := s.timestamp()
	a.ID, a.CreatedAt, a.UpdatedAt = uuid.NewString(), t, t

	_, err := s.db.ExecContext(ctx, `INSERT INTO accounts
		(id, scenario_id, name, current_balance, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		a.ID, a.ScenarioID, a.Name, a.CurrentBalance.String(), ts, ts)
	if err != nil {
		return model.Account{}, fmt.Errorf("inserting account: %w", err)
	}
	return a, nil
}

// AddPaycheck inserts a paycheck under its scenario.
func (s *Store) AddPaycheck(ctx context.Context, p model.Paycheck) (model.Paycheck, error) {
	if err := s.requireScenario(ctx, p.ScenarioID); err != nil {
		return model.Paycheck{}, err
	}
	t, ts := s.timestamp()
	p.ID, p.CreatedAt, p.UpdatedAt = uuid.NewString(), t, t

	_, err := s.db.ExecContext(ctx, `INSERT INTO paychecks
		(id, scenario_id, name, amount, schedule, next_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.ScenarioID, p.Name, p.Amount.String(), p.Schedule, p.NextDate.String(), ts, ts)
	if err != nil {
		return model.Paycheck{}, fmt.Errorf("inserting paycheck: %w", err)
	}
	return p, nil
}

// AddCreditCard inserts a credit card under its scenario.
func (s *Store) AddCreditCard(ctx context.Context, c model.CreditCard) (model.CreditCard, error) {
	if err := s.requireScenario(ctx, c.ScenarioID); err != nil {
		return model.CreditCard{}, err
	}
	t, ts := s.timestamp()
	c.ID, c.CreatedAt, c.UpdatedAt = uuid.NewString(), t, t

	_, err := s.db.ExecContext(ctx, `INSERT INTO credit_cards
		(id, scenario_id, name, next_due_date, next_due_amount, avg_future_amount, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.ScenarioID, c.Name, c.NextDueDate.String(),
		c.NextDueAmount.String(), c.AvgFutureAmount.String(), ts, ts)
	if err != nil {
		return model.CreditCard{}, fmt.Errorf("inserting credit card: %w", err)
	}
	return c, nil
}

// AddLifeEvent inserts a life event under its scenario. An empty recurrence
// is stored as "once".
func (s *Store) AddLifeEvent(ctx context.Context, e model.LifeEvent) (model.LifeEvent, error) {
	if err := s.requireScenario(ctx, e.ScenarioID); err != nil {
		return model.LifeEvent{}, err
	}
	t, ts := s.timestamp()
	e.ID, e.CreatedAt = uuid.NewString(), t
	if e.Recurrence == "" {
		e.Recurrence = "once"
	}

	var related, end any
	if e.RelatedPaycheckID != "" {
		related = e.RelatedPaycheckID
	}
	if e.EndDate != nil && !e.EndDate.IsZero() {
		end = e.EndDate.String()
	}

	_, err := s.db.ExecContext(ctx, `INSERT INTO life_events
		(id, scenario_id, related_paycheck_id, type, label, amount, start_date, end_date, recurrence, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.ScenarioID, related, e.Type, e.Label, e.Amount.String(),
		e.StartDate.String(), end, e.Recurrence, ts)
	if err != nil {
		return model.LifeEvent{}, fmt.Errorf("inserting life event: %w", err)
	}
	return e, nil
}

// ListAccounts returns a scenario's accounts, oldest first.
func (s *Store) ListAccounts(ctx context.Context, scenarioID string) ([]model.Account, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT
		id, scenario_id, name, current_balance, created_at, updated_at
		FROM accounts WHERE scenario_id = ? ORDER BY created_at, rowid`, scenarioID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.Account
	for rows.Next() {
		var a model.Account
		var created, updated string
		if err := rows.Scan(&a.ID, &a.ScenarioID, &a.Name, &a.CurrentBalance, &created, &updated); err != nil {
			return nil, err
		}
		a.CreatedAt, a.UpdatedAt = parseTimestamp(created), parseTimestamp(updated)
		out = append(out, a)
	}
	return out, rows.Err()
}

// ListPaychecks returns a scenario's paychecks, oldest first.
func (s *Store) ListPaychecks(ctx context.Context, scenarioID string) ([]model.Paycheck, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT
		id, scenario_id, name, amount, schedule, next_date, created_at, updated_at
		FROM paychecks WHERE scenario_id = ? ORDER BY created_at, rowid`, scenarioID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.Paycheck
	for rows.Next() {
		var p model.Paycheck
		var created, updated string
		if err := rows.Scan(&p.ID, &p.ScenarioID, &p.Name, &p.Amount, &p.Schedule, &p.NextDate, &created, &updated); err != nil {
			return nil, err
		}
		p.CreatedAt, p.UpdatedAt = parseTimestamp(created), parseTimestamp(updated)
		out = append(out, p)
	}
	return out, rows.Err()
}

// ListCreditCards returns a scenario's credit cards, oldest first.
func (s *Store) ListCreditCards(ctx context.Context, scenarioID string) ([]model.CreditCard, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT
		id, scenario_id, name, next_due_date, next_due_amount, avg_future_amount, created_at, updated_at
		FROM credit_cards WHERE scenario_id = ? ORDER BY created_at, rowid`, scenarioID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.CreditCard
	for rows.Next() {
		var c model.CreditCard
		var created, updated string
		if err := rows.Scan(&c.ID, &c.ScenarioID, &c.Name, &c.NextDueDate,
			&c.NextDueAmount, &c.AvgFutureAmount, &created, &updated); err != nil {
			return nil, err
		}
		c.CreatedAt, c.UpdatedAt = parseTimestamp(created), parseTimestamp(updated)
		out = append(out, c)
	}
	return out, rows.Err()
}

// ListLifeEvents returns a scenario's life events, oldest first.
func (s *Store) ListLifeEvents(ctx context.Context, scenarioID string) ([]model.LifeEvent, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT
		id, scenario_id, related_paycheck_id, type, label, amount, start_date, end_date, recurrence, created_at
		FROM life_events WHERE scenario_id = ? ORDER BY created_at, rowid`, scenarioID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.LifeEvent
	for rows.Next() {
		var e model.LifeEvent
		var related sql.NullString
		var end model.Date
		var created string
		if err := rows.Scan(&e.ID, &e.ScenarioID, &related, &e.Type, &e.Label, &e.Amount,
			&e.StartDate, &end, &e.Recurrence, &created); err != nil {
			return nil, err
		}
		e.RelatedPaycheckID = related.String
		if !end.IsZero() {
			e.EndDate = &end
		}
		e.CreatedAt = parseTimestamp(created)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Delete removes one entity of the given kind.
func (s *Store) Delete(ctx context.Context, kind Kind, id string) error {
	table, ok := kindTables[kind]
	if !ok {
		return fmt.Errorf("unknown entity kind %q", kind)
	}
	res, err := s.db.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting %s: %w", kind, err)
	}
	if err := affectedOrNotFound(res); err != nil {
		return fmt.Errorf("%s %q: %w", kind, id, err)
	}
	return nil
}

// LoadScenario returns a scenario with every entity stored under it.
func (s *Store) LoadScenario(ctx context.Context, scenarioID string) (model.ScenarioData, error) {
	var data model.ScenarioData
	var err error

	if data.Scenario, err = s.GetScenario(ctx, scenarioID); err != nil {
		return data, err
	}
	if data.Accounts, err = s.ListAccounts(ctx, scenarioID); err != nil {
		return data, fmt.Errorf("loading accounts: %w", err)
	}
	if data.Paychecks, err = s.ListPaychecks(ctx, scenarioID); err != nil {
		return data, fmt.Errorf("loading paychecks: %w", err)
	}
	if data.CreditCards, err = s.ListCreditCards(ctx, scenarioID); err != nil {
		return data, fmt.Errorf("loading credit cards: %w", err)
	}
	if data.LifeEvents, err = s.ListLifeEvents(ctx, scenarioID); err != nil {
		return data, fmt.Errorf("loading life events: %w", err)
	}
	return data, nil
}

func (s *Store) requireScenario(ctx context.Context, id string) error {
	_, err := s.GetScenario(ctx, id)
	return err
}
