package projection

import (
	"strings"

	"github.com/runwayhq/runway/internal/model"
)

// Source identifies which kind of entity produced an Entry.
type Source int

const (
	SourcePaycheck Source = iota
	SourceLifeEvent
	SourceCreditCard
)

func (s Source) String() string {
	switch s {
	case SourcePaycheck:
		return "paycheck"
	case SourceLifeEvent:
		return "life_event"
	case SourceCreditCard:
		return "credit_card"
	default:
		return "unknown"
	}
}

// Entry is one dated, signed cash flow produced by expansion.
type Entry struct {
	Date     model.Date
	Amount   float64
	Source   Source
	SourceID string
	Label    string
}

// Step tables are fixed day counts, not calendar arithmetic: "monthly" is
// always 30 days and "semimonthly" always 15.
var paycheckSteps = map[string]int{
	"weekly":       7,
	"biweekly":     14,
	"bi-weekly":    14,
	"fortnightly":  14,
	"semimonthly":  15,
	"semi-monthly": 15,
	"quarterly":    90,
}

const defaultPaycheckStep = 30

// A recurrence missing from this table occurs exactly once.
var lifeEventSteps = map[string]int{
	"weekly":    7,
	"biweekly":  14,
	"bi-weekly": 14,
	"monthly":   30,
	"yearly":    365,
	"annually":  365,
}

const creditCardStep = 30

var incomeKeywords = []string{"income", "raise", "bonus", "gift", "refund"}

// PaycheckStep returns the day step for a paycheck schedule. Unknown
// schedules step 30 days.
func PaycheckStep(schedule string) int {
	if step, ok := paycheckSteps[strings.ToLower(schedule)]; ok {
		return step
	}
	return defaultPaycheckStep
}

// LifeEventStep returns the day step for a life event recurrence, or 0 when
// the event occurs once ("once" and every unrecognized value).
func LifeEventStep(recurrence string) int {
	return lifeEventSteps[strings.ToLower(recurrence)]
}

// IsIncome reports whether a life event type is classified as an inflow. The
// match is a case-insensitive substring test against a fixed keyword set, so
// "Year-end Bonus" and "incoming shipment" both count.
func IsIncome(eventType string) bool {
	lower := strings.ToLower(eventType)
	for _, word := range incomeKeywords {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}

// ExpandPaychecks emits +amount on every pay date from NextDate through the
// horizon date inclusive.
func ExpandPaychecks(paychecks []model.Paycheck, horizon model.Date) []Entry {
	var entries []Entry
	for _, p := range paychecks {
		amount := p.Amount.InexactFloat64()
		label := fallback(p.Name, "Paycheck")
		step := PaycheckStep(p.Schedule)
		for cursor := p.NextDate; !cursor.After(horizon); cursor = cursor.AddDays(step) {
			entries = append(entries, Entry{Date: cursor, Amount: amount, Source: SourcePaycheck, SourceID: p.ID, Label: label})
		}
	}
	return entries
}

// ExpandLifeEvents emits sign*amount on every occurrence from StartDate
// through the earlier of EndDate and the horizon date.
func ExpandLifeEvents(events []model.LifeEvent, horizon model.Date) []Entry {
	var entries []Entry
	for _, e := range events {
		last := horizon
		if e.EndDate != nil && !e.EndDate.IsZero() && e.EndDate.Before(last) {
			last = *e.EndDate
		}

		amount := e.Amount.InexactFloat64()
		if !IsIncome(e.Type) {
			amount = -amount
		}

		label := fallback(e.Label, e.Type)
		step := LifeEventStep(e.Recurrence)
		for cursor := e.StartDate; !cursor.After(last); cursor = cursor.AddDays(step) {
			entries = append(entries, Entry{Date: cursor, Amount: amount, Source: SourceLifeEvent, SourceID: e.ID, Label: label})
			if step == 0 {
				break
			}
		}
	}
	return entries
}

// ExpandCreditCards emits one payment every 30 days from NextDueDate through
// the horizon date. The first payment is NextDueAmount, the rest
// AvgFutureAmount.
func ExpandCreditCards(cards []model.CreditCard, horizon model.Date) []Entry {
	var entries []Entry
	for _, c := range cards {
		amount := c.NextDueAmount.InexactFloat64()
		future := c.AvgFutureAmount.InexactFloat64()
		label := fallback(c.Name, "Credit card")
		for cursor := c.NextDueDate; !cursor.After(horizon); cursor = cursor.AddDays(creditCardStep) {
			entries = append(entries, Entry{Date: cursor, Amount: -amount, Source: SourceCreditCard, SourceID: c.ID, Label: label})
			amount = future
		}
	}
	return entries
}

func fallback(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
