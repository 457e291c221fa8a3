// Package projection turns a scenario's accounts and cash-flow sources into a
// day-by-day balance series.
//
// The engine is pure: it performs no I/O and reads the clock only when the
// caller leaves Input.Today unset.
package projection

import (
	"sort"

	"github.com/runwayhq/runway/internal/model"
)

// DefaultHorizonDays is used when Input.HorizonDays is not positive.
const DefaultHorizonDays = 120

// Input is everything Project needs. The slices are expected to be already
// filtered to a single scenario.
type Input struct {
	Today       model.Date
	HorizonDays int
	Accounts    []model.Account
	Paychecks   []model.Paycheck
	CreditCards []model.CreditCard
	LifeEvents  []model.LifeEvent
}

// InputFrom builds an Input from a loaded scenario.
func InputFrom(data model.ScenarioData, today model.Date, horizonDays int) Input {
	return Input{
		Today:       today,
		HorizonDays: horizonDays,
		Accounts:    data.Accounts,
		Paychecks:   data.Paychecks,
		CreditCards: data.CreditCards,
		LifeEvents:  data.LifeEvents,
	}
}

// Point is the projected state at the end of one day. Balance is rounded to
// cents; Inflow and Outflow are the unrounded day totals.
type Point struct {
	Date    model.Date `json:"date"`
	Balance float64    `json:"balance"`
	Inflow  float64    `json:"inflow"`
	Outflow float64    `json:"outflow"`
}

// Result is a full projection.
type Result struct {
	StartBalance  float64    `json:"startBalance"`
	Series        []Point    `json:"series"`
	LowestBalance float64    `json:"lowestBalance"`
	LowestDate    model.Date `json:"lowestDate"`
	EndingBalance float64    `json:"endingBalance"`
}

// Project computes the balance series for today through today+HorizonDays
// inclusive.
//
// Entries dated before today are expanded but never land on a series day, so
// a stale NextDate silently drops the occurrences that precede today.
func Project(in Input) Result {
	today, horizonDays := in.window()

	start := model.TotalBalance(in.Accounts).InexactFloat64()
	return aggregate(start, today, horizonDays, in.expand(today.AddDays(horizonDays)))
}

// Entries returns the expanded flows that land inside the projection window,
// in date order. Occurrences before today are omitted.
func Entries(in Input) []Entry {
	today, horizonDays := in.window()
	all := in.expand(today.AddDays(horizonDays))

	out := make([]Entry, 0, len(all))
	for _, e := range all {
		if !e.Date.Before(today) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

func (in Input) window() (model.Date, int) {
	horizonDays := in.HorizonDays
	if horizonDays <= 0 {
		horizonDays = DefaultHorizonDays
	}
	today := in.Today
	if today.IsZero() {
		today = model.Today()
	}
	return today, horizonDays
}

func (in Input) expand(horizon model.Date) []Entry {
	var entries []Entry
	entries = append(entries, ExpandPaychecks(in.Paychecks, horizon)...)
	entries = append(entries, ExpandLifeEvents(in.LifeEvents, horizon)...)
	entries = append(entries, ExpandCreditCards(in.CreditCards, horizon)...)
	return entries
}

func build(start float64, series []Point, lowest float64, lowestDate model.Date, ending float64) Result {
	return Result{
		StartBalance:  start,
		Series:        series,
		LowestBalance: lowest,
		LowestDate:    lowestDate,
		EndingBalance: ending,
	}
}

// DeltaAt returns series[day].Balance minus the starting balance, or 0 when
// the series does not extend past day.
func (r Result) DeltaAt(day int) float64 {
	if day < 0 || len(r.Series) <= day+1 {
		return 0
	}
	return r.Series[day].Balance - r.StartBalance
}

// Totals returns the summed inflow and outflow across the whole series.
func (r Result) Totals() (inflow, outflow float64) {
	for _, p := range r.Series {
		inflow += p.Inflow
		outflow += p.Outflow
	}
	return inflow, outflow
}

// DaysBelow counts series days whose rounded balance is under threshold.
func (r Result) DaysBelow(threshold float64) int {
	n := 0
	for _, p := range r.Series {
		if p.Balance < threshold {
			n++
		}
	}
	return n
}

// FirstBelow returns the first day whose balance is under threshold.
func (r Result) FirstBelow(threshold float64) (Point, bool) {
	for _, p := range r.Series {
		if p.Balance < threshold {
			return p, true
		}
	}
	return Point{}, false
}
