package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/shopspring/decimal"

	"github.com/runwayhq/runway/internal/config"
	"github.com/runwayhq/runway/internal/tui/theme"
)

// SetupValues holds the answers collected by the setup form.
type SetupValues struct {
	HorizonDays     int
	Theme           string
	Locale          string
	Threshold       string
	StartingBalance string
}

// SetupValuesFrom seeds the form with the current configuration.
func SetupValuesFrom(cfg config.Config) SetupValues {
	return SetupValues{
		HorizonDays: cfg.General.HorizonDays,
		Theme:       cfg.Appearance.Theme,
		Locale:      cfg.Appearance.Locale,
		Threshold:   strconv.FormatFloat(cfg.Alerts.LowBalanceThreshold, 'f', -1, 64),
	}
}

var horizonOptions = []int{30, 60, 90, 120, 150, 180, 365}

var localeOptions = []string{"en-US", "en-GB", "de-DE", "fr-FR", "es-ES", "ja-JP"}

// NewSetupForm builds the first-run form. withBalance adds a starting
// balance question used to seed the first account.
func NewSetupForm(vals *SetupValues, withBalance bool) *huh.Form {
	horizons := make([]huh.Option[int], 0, len(horizonOptions)+1)
	seen := false
	for _, d := range horizonOptions {
		horizons = append(horizons, huh.NewOption(fmt.Sprintf("%d days", d), d))
		seen = seen || d == vals.HorizonDays
	}
	if !seen && vals.HorizonDays > 0 {
		horizons = append(horizons, huh.NewOption(fmt.Sprintf("%d days (current)", vals.HorizonDays), vals.HorizonDays))
	}

	themes := make([]huh.Option[string], 0, len(theme.All))
	for _, t := range theme.All {
		themes = append(themes, huh.NewOption(t.Name, t.Name))
	}

	locales := make([]huh.Option[string], 0, len(localeOptions))
	for _, l := range localeOptions {
		locales = append(locales, huh.NewOption(l, l))
	}

	fields := []huh.Field{
		huh.NewNote().
			Title("Welcome to runway").
			Description("A few defaults for projecting your cash flow.\nRun `runway setup` anytime to change them."),
		huh.NewSelect[int]().
			Title("Projection horizon").
			Options(horizons...).
			Value(&vals.HorizonDays),
		huh.NewInput().
			Title("Low balance alert threshold").
			Description("The daemon alerts when the projected balance dips under this.").
			Placeholder("0").
			Value(&vals.Threshold).
			Validate(validateAmount),
	}
	if withBalance {
		fields = append(fields, huh.NewInput().
			Title("Starting balance").
			Description("Creates a Checking account in your first scenario. Leave empty to skip.").
			Placeholder("2500.00").
			Value(&vals.StartingBalance).
			Validate(validateOptionalAmount))
	}

	return huh.NewForm(
		huh.NewGroup(fields...),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themes...).
				Value(&vals.Theme),
			huh.NewSelect[string]().
				Title("Number format").
				Options(locales...).
				Value(&vals.Locale),
		),
	).WithTheme(huh.ThemeDracula())
}

// Apply copies the answers onto cfg.
func (v SetupValues) Apply(cfg *config.Config) error {
	if v.HorizonDays > 0 {
		cfg.General.HorizonDays = v.HorizonDays
	}
	if theme.Valid(v.Theme) {
		cfg.Appearance.Theme = v.Theme
	}
	if v.Locale != "" {
		cfg.Appearance.Locale = v.Locale
	}

	threshold, err := parseAmount(v.Threshold)
	if err != nil {
		return fmt.Errorf("parsing threshold: %w", err)
	}
	cfg.Alerts.LowBalanceThreshold = threshold.InexactFloat64()
	return nil
}

// Balance returns the parsed starting balance, or ok=false when none was given.
func (v SetupValues) Balance() (decimal.Decimal, bool, error) {
	if strings.TrimSpace(v.StartingBalance) == "" {
		return decimal.Zero, false, nil
	}
	d, err := parseAmount(v.StartingBalance)
	return d, err == nil, err
}

func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.NewReplacer("$", "", ",", "").Replace(s))
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

func validateAmount(s string) error {
	if _, err := parseAmount(s); err != nil {
		return errors.New("enter a number like 250 or 1,200.50")
	}
	return nil
}

func validateOptionalAmount(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return validateAmount(s)
}
