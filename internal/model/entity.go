// Package model defines the runway domain types: scenarios, the cash-flow
// sources stored under them, and projection output.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Scenario is a named "what-if" plan grouping accounts and cash-flow sources.
type Scenario struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Account is a cash account contributing to the starting balance.
type Account struct {
	ID             string          `json:"id"`
	ScenarioID     string          `json:"scenario_id"`
	Name           string          `json:"name,omitempty"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// Paycheck is a recurring income stream.
type Paycheck struct {
	ID         string          `json:"id"`
	ScenarioID string          `json:"scenario_id"`
	Name       string          `json:"name,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
	Schedule   string          `json:"schedule"`
	NextDate   Date            `json:"next_date"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// CreditCard is a card whose statement is paid every cycle. The first cycle
// pays NextDueAmount, every later one AvgFutureAmount.
type CreditCard struct {
	ID              string          `json:"id"`
	ScenarioID      string          `json:"scenario_id"`
	Name            string          `json:"name"`
	NextDueDate     Date            `json:"next_due_date"`
	NextDueAmount   decimal.Decimal `json:"next_due_amount"`
	AvgFutureAmount decimal.Decimal `json:"avg_future_amount"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// LifeEvent is a one-off or recurring inflow or obligation. Amount is an
// unsigned magnitude; the sign is derived from Type.
type LifeEvent struct {
	ID                string          `json:"id"`
	ScenarioID        string          `json:"scenario_id"`
	RelatedPaycheckID string          `json:"related_paycheck_id,omitempty"`
	Type              string          `json:"type"`
	Label             string          `json:"label"`
	Amount            decimal.Decimal `json:"amount"`
	StartDate         Date            `json:"start_date"`
	EndDate           *Date           `json:"end_date,omitempty"`
	Recurrence        string          `json:"recurrence"`
	CreatedAt         time.Time       `json:"created_at"`
}

// ScenarioData is every entity stored under one scenario, already filtered.
type ScenarioData struct {
	Scenario    Scenario     `json:"scenario"`
	Accounts    []Account    `json:"accounts"`
	Paychecks   []Paycheck   `json:"paychecks"`
	CreditCards []CreditCard `json:"credit_cards"`
	LifeEvents  []LifeEvent  `json:"life_events"`
}

// CurrentBalance sums all account balances.
func (d ScenarioData) CurrentBalance() decimal.Decimal {
	return TotalBalance(d.Accounts)
}

// TotalBalance sums account balances exactly. A missing balance counts as 0.
func TotalBalance(accounts []Account) decimal.Decimal {
	total := decimal.Zero
	for _, a := range accounts {
		total = total.Add(a.CurrentBalance)
	}
	return total
}

// Empty reports whether the scenario has no entities at all.
func (d ScenarioData) Empty() bool {
	return len(d.Accounts) == 0 && len(d.Paychecks) == 0 &&
		len(d.CreditCards) == 0 && len(d.LifeEvents) == 0
}
