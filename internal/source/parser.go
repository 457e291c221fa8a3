// Package source reads and writes scenario definition files, the portable
// TOML or JSON form of a scenario and everything under it.
package source

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/runwayhq/runway/internal/model"
)

// ParseResult holds a validated scenario definition. PaycheckRefs runs
// parallel to Data.LifeEvents and names the linked paycheck, if any.
type ParseResult struct {
	Path         string
	Name         string
	Data         model.ScenarioData
	PaycheckRefs []string
}

// ParseFile reads and validates one scenario file.
func ParseFile(df DiscoveredFile) (ParseResult, error) {
	f, err := os.Open(df.Path)
	if err != nil {
		return ParseResult{}, err
	}
	defer func() { _ = f.Close() }()

	res, err := Parse(f, df.Format)
	if err != nil {
		return ParseResult{}, fmt.Errorf("%s: %w", df.Path, err)
	}
	res.Path = df.Path
	return res, nil
}

// Parse decodes and validates a scenario definition.
func Parse(r io.Reader, format Format) (ParseResult, error) {
	var raw RawScenario
	switch format {
	case FormatTOML:
		if _, err := toml.NewDecoder(r).Decode(&raw); err != nil {
			return ParseResult{}, fmt.Errorf("decoding toml: %w", err)
		}
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&raw); err != nil {
			return ParseResult{}, fmt.Errorf("decoding json: %w", err)
		}
	default:
		return ParseResult{}, fmt.Errorf("unsupported format %q", format)
	}
	return raw.Validate()
}

// Validate converts the raw definition into model entities, collecting every
// field error rather than stopping at the first.
func (raw RawScenario) Validate() (ParseResult, error) {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}
	date := func(field, v string) model.Date {
		if strings.TrimSpace(v) == "" {
			fail("%s is required", field)
			return model.Date{}
		}
		d, err := model.ParseDate(v)
		if err != nil {
			fail("%s: %v", field, err)
		}
		return d
	}

	res := ParseResult{Name: strings.TrimSpace(raw.Scenario.Name)}
	if res.Name == "" {
		fail("scenario.name is required")
	}

	for _, a := range raw.Accounts {
		res.Data.Accounts = append(res.Data.Accounts, model.Account{
			Name:           a.Name,
			CurrentBalance: a.Balance,
		})
	}

	paycheckNames := make(map[string]bool)
	for i, p := range raw.Paychecks {
		field := fmt.Sprintf("paychecks[%d]", i)
		if strings.TrimSpace(p.Schedule) == "" {
			fail("%s.schedule is required", field)
		}
		res.Data.Paychecks = append(res.Data.Paychecks, model.Paycheck{
			Name:     p.Name,
			Amount:   p.Amount,
			Schedule: strings.TrimSpace(p.Schedule),
			NextDate: date(field+".next_date", p.NextDate),
		})
		if p.Name != "" {
			paycheckNames[p.Name] = true
		}
	}

	for i, c := range raw.CreditCards {
		field := fmt.Sprintf("credit_cards[%d]", i)
		res.Data.CreditCards = append(res.Data.CreditCards, model.CreditCard{
			Name:            c.Name,
			NextDueDate:     date(field+".next_due_date", c.NextDueDate),
			NextDueAmount:   c.NextDueAmount,
			AvgFutureAmount: c.AvgFutureAmount,
		})
	}

	for i, e := range raw.LifeEvents {
		field := fmt.Sprintf("life_events[%d]", i)
		if strings.TrimSpace(e.Type) == "" {
			fail("%s.type is required", field)
		}
		if e.Amount.IsNegative() {
			fail("%s.amount must not be negative; the type decides the sign", field)
		}
		ev := model.LifeEvent{
			Type:       strings.TrimSpace(e.Type),
			Label:      e.Label,
			Amount:     e.Amount,
			StartDate:  date(field+".start_date", e.StartDate),
			Recurrence: strings.TrimSpace(e.Recurrence),
		}
		if ev.Recurrence == "" {
			ev.Recurrence = "once"
		}
		if e.EndDate != "" {
			end := date(field+".end_date", e.EndDate)
			ev.EndDate = &end
		}
		if e.RelatedPaycheck != "" && !paycheckNames[e.RelatedPaycheck] {
			fail("%s.related_paycheck %q does not name a paycheck in this file", field, e.RelatedPaycheck)
		}
		res.Data.LifeEvents = append(res.Data.LifeEvents, ev)
		res.PaycheckRefs = append(res.PaycheckRefs, e.RelatedPaycheck)
	}

	if len(errs) > 0 {
		return ParseResult{}, errors.Join(errs...)
	}
	return res, nil
}

// Dump encodes a stored scenario as a definition file.
func Dump(data model.ScenarioData, format Format) ([]byte, error) {
	raw := RawScenario{Scenario: RawHeader{Name: data.Scenario.Name}}

	paycheckNames := make(map[string]string)
	for _, a := range data.Accounts {
		raw.Accounts = append(raw.Accounts, RawAccount{Name: a.Name, Balance: a.CurrentBalance})
	}
	for _, p := range data.Paychecks {
		paycheckNames[p.ID] = p.Name
		raw.Paychecks = append(raw.Paychecks, RawPaycheck{
			Name: p.Name, Amount: p.Amount, Schedule: p.Schedule, NextDate: p.NextDate.String(),
		})
	}
	for _, c := range data.CreditCards {
		raw.CreditCards = append(raw.CreditCards, RawCreditCard{
			Name: c.Name, NextDueDate: c.NextDueDate.String(),
			NextDueAmount: c.NextDueAmount, AvgFutureAmount: c.AvgFutureAmount,
		})
	}
	for _, e := range data.LifeEvents {
		re := RawLifeEvent{
			Type: e.Type, Label: e.Label, Amount: e.Amount,
			StartDate: e.StartDate.String(), Recurrence: e.Recurrence,
			RelatedPaycheck: paycheckNames[e.RelatedPaycheckID],
		}
		if e.EndDate != nil {
			re.EndDate = e.EndDate.String()
		}
		raw.LifeEvents = append(raw.LifeEvents, re)
	}

	var buf bytes.Buffer
	switch format {
	case FormatTOML:
		if err := toml.NewEncoder(&buf).Encode(raw); err != nil {
			return nil, err
		}
	case FormatJSON:
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(raw); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
	return buf.Bytes(), nil
}
