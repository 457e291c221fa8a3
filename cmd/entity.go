package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/runwayhq/runway/internal/model"
	"github.com/runwayhq/runway/internal/store"
)

// parseMoney parses a user-entered amount, allowing "$" and thousands commas.
func parseMoney(flag, s string) (decimal.Decimal, error) {
	clean := strings.TrimSpace(strings.NewReplacer("$", "", ",", "").Replace(s))
	if clean == "" {
		return decimal.Zero, fmt.Errorf("--%s is required", flag)
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing --%s: %w", flag, err)
	}
	return d, nil
}

// parseDateFlag parses a YYYY-MM-DD flag value. Empty means today.
func parseDateFlag(flag, s string) (model.Date, error) {
	if strings.TrimSpace(s) == "" {
		return model.Today(), nil
	}
	d, err := model.ParseDate(s)
	if err != nil {
		return model.Date{}, fmt.Errorf("parsing --%s: %w", flag, err)
	}
	return d, nil
}

// removeEntity deletes one row of kind by id.
func removeEntity(ctx context.Context, kind store.Kind, id string) error {
	return withStore(ctx, func(st *store.Store, _ model.Scenario) error {
		if err := st.Delete(ctx, kind, id); err != nil {
			return fmt.Errorf("removing %s %s: %w", kind, id, err)
		}
		fmt.Printf("  Removed %s %s\n", kind, id)
		return nil
	})
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
