package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/runwayhq/runway/internal/model"
)

// StarterScenarioName is created on first use when no scenario exists.
const StarterScenarioName = "Personal"

// CreateScenario inserts a new scenario.
func (s *Store) CreateScenario(ctx context.Context, name string) (model.Scenario, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Scenario{}, errors.New("scenario name is required")
	}

	t, ts := s.timestamp()
	sc := model.Scenario{ID: uuid.NewString(), Name: name, CreatedAt: t, UpdatedAt: t}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO scenarios (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		sc.ID, sc.Name, ts, ts)
	if err != nil {
		return model.Scenario{}, fmt.Errorf("inserting scenario: %w", err)
	}
	return sc, nil
}

// ListScenarios returns every scenario, oldest first.
func (s *Store) ListScenarios(ctx context.Context) ([]model.Scenario, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, created_at, updated_at FROM scenarios ORDER BY created_at, rowid`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.Scenario
	for rows.Next() {
		sc, err := scanScenario(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

// GetScenario returns the scenario with the given id.
func (s *Store) GetScenario(ctx context.Context, id string) (model.Scenario, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, created_at, updated_at FROM scenarios WHERE id = ?`, id)
	sc, err := scanScenario(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Scenario{}, fmt.Errorf("scenario %q: %w", id, ErrNotFound)
	}
	return sc, err
}

// ResolveScenario finds a scenario by exact id, then exact name, then
// case-insensitive name.
func (s *Store) ResolveScenario(ctx context.Context, ref string) (model.Scenario, error) {
	ref = strings.TrimSpace(ref)
	if sc, err := s.GetScenario(ctx, ref); err == nil {
		return sc, nil
	} else if !errors.Is(err, ErrNotFound) {
		return model.Scenario{}, err
	}

	all, err := s.ListScenarios(ctx)
	if err != nil {
		return model.Scenario{}, err
	}

	match := func(eq func(a, b string) bool) (model.Scenario, int) {
		var found model.Scenario
		n := 0
		for _, sc := range all {
			if eq(sc.Name, ref) {
				if n == 0 {
					found = sc
				}
				n++
			}
		}
		return found, n
	}

	for _, eq := range []func(a, b string) bool{
		func(a, b string) bool { return a == b },
		strings.EqualFold,
	} {
		sc, n := match(eq)
		switch {
		case n == 1:
			return sc, nil
		case n > 1:
			return model.Scenario{}, fmt.Errorf("%q matches %d scenarios, use the id: %w", ref, n, ErrScenarioAmbiguous)
		}
	}

	return model.Scenario{}, fmt.Errorf("scenario %q: %w", ref, ErrNotFound)
}

// RenameScenario changes a scenario's name.
func (s *Store) RenameScenario(ctx context.Context, id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("scenario name is required")
	}
	_, ts := s.timestamp()
	res, err := s.db.ExecContext(ctx,
		`UPDATE scenarios SET name = ?, updated_at = ? WHERE id = ?`, name, ts, id)
	if err != nil {
		return fmt.Errorf("renaming scenario: %w", err)
	}
	return affectedOrNotFound(res)
}

// DeleteScenario removes a scenario and, by cascade, everything under it.
func (s *Store) DeleteScenario(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM scenarios WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting scenario: %w", err)
	}
	return affectedOrNotFound(res)
}

// EnsureStarterScenario returns the oldest scenario, creating the starter
// scenario first when none exist. created reports whether one was made.
func (s *Store) EnsureStarterScenario(ctx context.Context) (sc model.Scenario, created bool, err error) {
	all, err := s.ListScenarios(ctx)
	if err != nil {
		return model.Scenario{}, false, err
	}
	if len(all) > 0 {
		return all[0], false, nil
	}
	sc, err = s.CreateScenario(ctx, StarterScenarioName)
	return sc, err == nil, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanScenario(r rowScanner) (model.Scenario, error) {
	var sc model.Scenario
	var created, updated string
	if err := r.Scan(&sc.ID, &sc.Name, &created, &updated); err != nil {
		return model.Scenario{}, err
	}
	sc.CreatedAt = parseTimestamp(created)
	sc.UpdatedAt = parseTimestamp(updated)
	return sc, nil
}
