package source

import "github.com/shopspring/decimal"

// Format is a scenario file encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// RawScenario is the on-disk shape of a scenario definition file. Dates are
// kept as strings so validation can report which field is malformed.
type RawScenario struct {
	Scenario    RawHeader       `toml:"scenario" json:"scenario"`
	Accounts    []RawAccount    `toml:"accounts" json:"accounts,omitempty"`
	Paychecks   []RawPaycheck   `toml:"paychecks" json:"paychecks,omitempty"`
	CreditCards []RawCreditCard `toml:"credit_cards" json:"credit_cards,omitempty"`
	LifeEvents  []RawLifeEvent  `toml:"life_events" json:"life_events,omitempty"`
}

// RawHeader names the scenario.
type RawHeader struct {
	Name string `toml:"name" json:"name"`
}

// RawAccount is one [[accounts]] entry.
type RawAccount struct {
	Name    string          `toml:"name" json:"name,omitempty"`
	Balance decimal.Decimal `toml:"balance" json:"balance"`
}

// RawPaycheck is one [[paychecks]] entry.
type RawPaycheck struct {
	Name     string          `toml:"name" json:"name,omitempty"`
	Amount   decimal.Decimal `toml:"amount" json:"amount"`
	Schedule string          `toml:"schedule" json:"schedule"`
	NextDate string          `toml:"next_date" json:"next_date"`
}

// RawCreditCard is one [[credit_cards]] entry.
type RawCreditCard struct {
	Name            string          `toml:"name" json:"name"`
	NextDueDate     string          `toml:"next_due_date" json:"next_due_date"`
	NextDueAmount   decimal.Decimal `toml:"next_due_amount" json:"next_due_amount"`
	AvgFutureAmount decimal.Decimal `toml:"avg_future_amount" json:"avg_future_amount"`
}

// RawLifeEvent is one [[life_events]] entry. Paycheck links by name.
type RawLifeEvent struct {
	Type            string          `toml:"type" json:"type"`
	Label           string          `toml:"label,omitempty" json:"label,omitempty"`
	Amount          decimal.Decimal `toml:"amount" json:"amount"`
	StartDate       string          `toml:"start_date" json:"start_date"`
	EndDate         string          `toml:"end_date,omitempty" json:"end_date,omitempty"`
	Recurrence      string          `toml:"recurrence,omitempty" json:"recurrence,omitempty"`
	RelatedPaycheck string          `toml:"related_paycheck,omitempty" json:"related_paycheck,omitempty"`
}

// DiscoveredFile is a scenario definition found during directory scanning.
type DiscoveredFile struct {
	Path   string
	Format Format
}
