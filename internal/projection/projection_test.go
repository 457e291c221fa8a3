package projection

import (
	"math"
	"reflect"
	"testing"

	"github.com/runwayhq/runway/internal/model"
	"github.com/shopspring/decimal"
)

func day(t *testing.T, s string) model.Date {
	t.Helper()
	d, err := model.ParseDate(s)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func dayPtr(t *testing.T, s string) *model.Date {
	t.Helper()
	d := day(t, s)
	return &d
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func account(balance string) model.Account {
	return model.Account{CurrentBalance: money(balance)}
}

func pointOn(t *testing.T, r Result, date string) Point {
	t.Helper()
	for _, p := range r.Series {
		if p.Date.String() == date {
			return p
		}
	}
	t.Fatalf("no point for %s", date)
	return Point{}
}

func TestProject_EmptyScenario(t *testing.T) {
	today := day(t, "2025-01-01")
	r := Project(Input{Today: today, HorizonDays: 10})

	if len(r.Series) != 11 {
		t.Fatalf("len(Series) = %d, want 11", len(r.Series))
	}
	for _, p := range r.Series {
		if p.Balance != 0 || p.Inflow != 0 || p.Outflow != 0 {
			t.Errorf("%s: got %+v, want all zero", p.Date, p)
		}
	}
	if r.LowestBalance != 0 || !r.LowestDate.Equal(today) {
		t.Errorf("lowest = %v on %s, want 0 on %s", r.LowestBalance, r.LowestDate, today)
	}
	if r.EndingBalance != 0 {
		t.Errorf("EndingBalance = %v, want 0", r.EndingBalance)
	}
}

func TestProject_SeriesIsContiguous(t *testing.T) {
	today := day(t, "2024-02-27")
	r := Project(Input{Today: today, HorizonDays: 5})

	want := []string{"2024-02-27", "2024-02-28", "2024-02-29", "2024-03-01", "2024-03-02", "2024-03-03"}
	if len(r.Series) != len(want) {
		t.Fatalf("len(Series) = %d, want %d", len(r.Series), len(want))
	}
	for i, w := range want {
		if got := r.Series[i].Date.String(); got != w {
			t.Errorf("Series[%d].Date = %s, want %s", i, got, w)
		}
	}
}

func TestProject_DefaultHorizon(t *testing.T) {
	for _, h := range []int{0, -5} {
		r := Project(Input{Today: day(t, "2025-01-01"), HorizonDays: h})
		if len(r.Series) != DefaultHorizonDays+1 {
			t.Errorf("horizon %d: len(Series) = %d, want %d", h, len(r.Series), DefaultHorizonDays+1)
		}
	}
}

func TestProject_StartBalanceSumsAccounts(t *testing.T) {
	r := Project(Input{
		Today:       day(t, "2025-01-01"),
		HorizonDays: 3,
		Accounts:    []model.Account{account("1000"), account("250.50"), {}},
	})
	if r.StartBalance != 1250.5 {
		t.Errorf("StartBalance = %v, want 1250.5", r.StartBalance)
	}
	if r.EndingBalance != 1250.5 {
		t.Errorf("EndingBalance = %v, want 1250.5", r.EndingBalance)
	}
	if r.Series[0].Balance != 1250.5 {
		t.Errorf("Series[0].Balance = %v, want 1250.5", r.Series[0].Balance)
	}
}

func TestProject_BiweeklyPaycheck(t *testing.T) {
	r := Project(Input{
		Today:       day(t, "2025-01-01"),
		HorizonDays: 30,
		Accounts:    []model.Account{account("100")},
		Paychecks: []model.Paycheck{
			{Amount: money("1000"), Schedule: "biweekly", NextDate: day(t, "2025-01-05")},
		},
	})

	for _, date := range []string{"2025-01-05", "2025-01-19"} {
		if p := pointOn(t, r, date); p.Inflow != 1000 {
			t.Errorf("%s inflow = %v, want 1000", date, p.Inflow)
		}
	}
	if p := pointOn(t, r, "2025-01-04"); p.Balance != 100 {
		t.Errorf("2025-01-04 balance = %v, want 100", p.Balance)
	}
	if r.EndingBalance != 2100 {
		t.Errorf("EndingBalance = %v, want 2100", r.EndingBalance)
	}
	if r.LowestBalance != 100 || r.LowestDate.String() != "2025-01-01" {
		t.Errorf("lowest = %v on %s, want 100 on 2025-01-01", r.LowestBalance, r.LowestDate)
	}
}

func TestPaycheckStep(t *testing.T) {
	tests := []struct {
		schedule string
		want     int
	}{
		{"weekly", 7},
		{"Weekly", 7},
		{"biweekly", 14},
		{"bi-weekly", 14},
		{"FORTNIGHTLY", 14},
		{"semimonthly", 15},
		{"semi-monthly", 15},
		{"quarterly", 90},
		{"monthly", 30},
		{"", 30},
		{"whenever", 30},
	}
	for _, tt := range tests {
		if got := PaycheckStep(tt.schedule); got != tt.want {
			t.Errorf("PaycheckStep(%q) = %d, want %d", tt.schedule, got, tt.want)
		}
	}
}

func TestLifeEventStep(t *testing.T) {
	tests := []struct {
		recurrence string
		want       int
	}{
		{"weekly", 7},
		{"biweekly", 14},
		{"Bi-Weekly", 14},
		{"monthly", 30},
		{"yearly", 365},
		{"annually", 365},
		{"once", 0},
		{"", 0},
		{"fortnightly", 0},
		{"quarterly", 0},
	}
	for _, tt := range tests {
		if got := LifeEventStep(tt.recurrence); got != tt.want {
			t.Errorf("LifeEventStep(%q) = %d, want %d", tt.recurrence, got, tt.want)
		}
	}
}

func TestIsIncome(t *testing.T) {
	tests := []struct {
		eventType string
		want      bool
	}{
		{"income", true},
		{"Year-end Bonus", true},
		{"RAISE", true},
		{"birthday gift", true},
		{"tax refund", true},
		{"incoming shipment", true},
		{"rent", false},
		{"medical", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsIncome(tt.eventType); got != tt.want {
			t.Errorf("IsIncome(%q) = %v, want %v", tt.eventType, got, tt.want)
		}
	}
}

func TestProject_LifeEventSigns(t *testing.T) {
	r := Project(Input{
		Today:       day(t, "2025-03-01"),
		HorizonDays: 10,
		Accounts:    []model.Account{account("500")},
		LifeEvents: []model.LifeEvent{
			{Type: "Bonus", Amount: money("200"), StartDate: day(t, "2025-03-02"), Recurrence: "once"},
			{Type: "car repair", Amount: money("350"), StartDate: day(t, "2025-03-03"), Recurrence: "once"},
		},
	})

	bonus := pointOn(t, r, "2025-03-02")
	if bonus.Inflow != 200 || bonus.Outflow != 0 || bonus.Balance != 700 {
		t.Errorf("bonus day = %+v, want inflow 200 balance 700", bonus)
	}
	repair := pointOn(t, r, "2025-03-03")
	if repair.Inflow != 0 || repair.Outflow != 350 || repair.Balance != 350 {
		t.Errorf("repair day = %+v, want outflow 350 balance 350", repair)
	}
	if r.LowestBalance != 350 || r.LowestDate.String() != "2025-03-03" {
		t.Errorf("lowest = %v on %s, want 350 on 2025-03-03", r.LowestBalance, r.LowestDate)
	}
}

func TestExpandLifeEvents_SingleOccurrence(t *testing.T) {
	horizon := day(t, "2026-01-01")
	for _, rec := range []string{"once", "", "sometimes"} {
		entries := ExpandLifeEvents([]model.LifeEvent{
			{Type: "gift", Amount: money("10"), StartDate: day(t, "2025-01-01"), Recurrence: rec},
		}, horizon)
		if len(entries) != 1 {
			t.Errorf("recurrence %q: %d entries, want 1", rec, len(entries))
		}
	}
}

func TestExpandLifeEvents_EndDateBounds(t *testing.T) {
	entries := ExpandLifeEvents([]model.LifeEvent{
		{
			Type:       "rent",
			Amount:     money("1200"),
			StartDate:  day(t, "2025-01-01"),
			EndDate:    dayPtr(t, "2025-02-15"),
			Recurrence: "monthly",
		},
	}, day(t, "2025-12-31"))

	want := []string{"2025-01-01", "2025-01-31"}
	if len(entries) != len(want) {
		t.Fatalf("got %d entries, want %d", len(entries), len(want))
	}
	for i, w := range want {
		if entries[i].Date.String() != w {
			t.Errorf("entries[%d].Date = %s, want %s", i, entries[i].Date, w)
		}
		if entries[i].Amount != -1200 {
			t.Errorf("entries[%d].Amount = %v, want -1200", i, entries[i].Amount)
		}
	}
}

func TestExpandLifeEvents_EndBeforeStart(t *testing.T) {
	entries := ExpandLifeEvents([]model.LifeEvent{
		{
			Type:       "rent",
			Amount:     money("1"),
			StartDate:  day(t, "2025-02-01"),
			EndDate:    dayPtr(t, "2025-01-01"),
			Recurrence: "weekly",
		},
	}, day(t, "2025-12-31"))
	if len(entries) != 0 {
		t.Errorf("got %d entries, want 0", len(entries))
	}
}

func TestExpandLifeEvents_HorizonBounds(t *testing.T) {
	entries := ExpandLifeEvents([]model.LifeEvent{
		{Type: "gym", Amount: money("40"), StartDate: day(t, "2025-01-01"), Recurrence: "weekly"},
	}, day(t, "2025-01-29"))
	// 01, 08, 15, 22, 29
	if len(entries) != 5 {
		t.Errorf("got %d entries, want 5", len(entries))
	}
}

func TestProject_CreditCardFirstThenAverage(t *testing.T) {
	r := Project(Input{
		Today:       day(t, "2025-01-01"),
		HorizonDays: 60,
		Accounts:    []model.Account{account("1000")},
		CreditCards: []model.CreditCard{
			{
				Name:            "Visa",
				NextDueDate:     day(t, "2025-01-10"),
				NextDueAmount:   money("500"),
				AvgFutureAmount: money("200"),
			},
		},
	})

	if p := pointOn(t, r, "2025-01-10"); p.Outflow != 500 {
		t.Errorf("first payment outflow = %v, want 500", p.Outflow)
	}
	if p := pointOn(t, r, "2025-02-09"); p.Outflow != 200 {
		t.Errorf("second payment outflow = %v, want 200", p.Outflow)
	}
	if r.EndingBalance != 300 {
		t.Errorf("EndingBalance = %v, want 300", r.EndingBalance)
	}
	if r.LowestBalance != 300 || r.LowestDate.String() != "2025-02-09" {
		t.Errorf("lowest = %v on %s, want 300 on 2025-02-09", r.LowestBalance, r.LowestDate)
	}
}

func TestProject_PastDatedOccurrencesDropped(t *testing.T) {
	r := Project(Input{
		Today:       day(t, "2025-01-01"),
		HorizonDays: 30,
		Paychecks: []model.Paycheck{
			// 2024-12-01 and 2024-12-31 precede today; only 2025-01-30 lands.
			{Amount: money("800"), Schedule: "monthly", NextDate: day(t, "2024-12-01")},
		},
	})
	if r.EndingBalance != 800 {
		t.Errorf("EndingBalance = %v, want 800", r.EndingBalance)
	}
	if p := pointOn(t, r, "2025-01-30"); p.Inflow != 800 {
		t.Errorf("2025-01-30 inflow = %v, want 800", p.Inflow)
	}
}

func TestProject_SameDayAggregation(t *testing.T) {
	r := Project(Input{
		Today:       day(t, "2025-05-01"),
		HorizonDays: 5,
		Accounts:    []model.Account{account("50")},
		Paychecks: []model.Paycheck{
			{Amount: money("1000"), Schedule: "weekly", NextDate: day(t, "2025-05-02")},
			{Amount: money("250"), Schedule: "weekly", NextDate: day(t, "2025-05-02")},
		},
		CreditCards: []model.CreditCard{
			{NextDueDate: day(t, "2025-05-02"), NextDueAmount: money("300"), AvgFutureAmount: money("300")},
		},
		LifeEvents: []model.LifeEvent{
			{Type: "refund", Amount: money("25"), StartDate: day(t, "2025-05-02")},
			{Type: "dentist", Amount: money("75"), StartDate: day(t, "2025-05-02")},
		},
	})

	p := pointOn(t, r, "2025-05-02")
	if p.Inflow != 1275 {
		t.Errorf("Inflow = %v, want 1275", p.Inflow)
	}
	if p.Outflow != 375 {
		t.Errorf("Outflow = %v, want 375", p.Outflow)
	}
	if p.Balance != 950 {
		t.Errorf("Balance = %v, want 950", p.Balance)
	}
}

func TestProject_ZeroAmountLifeEvent(t *testing.T) {
	r := Project(Input{
		Today:       day(t, "2025-01-01"),
		HorizonDays: 2,
		LifeEvents: []model.LifeEvent{
			{Type: "rent", Amount: decimal.Zero, StartDate: day(t, "2025-01-02")},
		},
	})
	p := pointOn(t, r, "2025-01-02")
	if p.Inflow != 0 || p.Outflow != 0 {
		t.Errorf("zero event moved money: %+v", p)
	}
}

func TestProject_NegativePaycheckCountsAsInflow(t *testing.T) {
	r := Project(Input{
		Today:       day(t, "2025-01-01"),
		HorizonDays: 2,
		Paychecks: []model.Paycheck{
			{Amount: money("-100"), Schedule: "weekly", NextDate: day(t, "2025-01-02")},
		},
	})
	p := pointOn(t, r, "2025-01-02")
	if p.Inflow != -100 || p.Outflow != 0 {
		t.Errorf("got inflow %v outflow %v, want -100 and 0", p.Inflow, p.Outflow)
	}
	if r.LowestBalance != -100 {
		t.Errorf("LowestBalance = %v, want -100", r.LowestBalance)
	}
}

func TestProject_LowestKeepsFirstDate(t *testing.T) {
	r := Project(Input{
		Today:       day(t, "2025-01-01"),
		HorizonDays: 10,
		Accounts:    []model.Account{account("100")},
		LifeEvents: []model.LifeEvent{
			{Type: "rent", Amount: money("50"), StartDate: day(t, "2025-01-03")},
			{Type: "bonus", Amount: money("50"), StartDate: day(t, "2025-01-05")},
			{Type: "rent", Amount: money("50"), StartDate: day(t, "2025-01-07")},
		},
	})
	if r.LowestBalance != 50 || r.LowestDate.String() != "2025-01-03" {
		t.Errorf("lowest = %v on %s, want 50 on 2025-01-03", r.LowestBalance, r.LowestDate)
	}
}

func TestProject_BalancesRoundedCarryUnrounded(t *testing.T) {
	r := Project(Input{
		Today:       day(t, "2025-01-01"),
		HorizonDays: 1,
		Accounts:    []model.Account{account("0.1"), account("0.2")},
	})
	if r.Series[0].Balance != 0.3 {
		t.Errorf("Series[0].Balance = %v, want 0.3", r.Series[0].Balance)
	}
	if r.EndingBalance == 0.3 {
		t.Errorf("EndingBalance should keep full precision, got %v", r.EndingBalance)
	}
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0.125, 0.13},
		{-0.125, -0.12},
		{1.5, 1.5},
		{-2.004, -2},
		{99.999, 100},
	}
	for _, tt := range tests {
		if got := Round2(tt.in); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Round2(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestProject_EndingMatchesFlowSum(t *testing.T) {
	r := Project(Input{
		Today:       day(t, "2025-01-01"),
		HorizonDays: 200,
		Accounts:    []model.Account{account("2500")},
		Paychecks: []model.Paycheck{
			{Amount: money("1800"), Schedule: "semimonthly", NextDate: day(t, "2025-01-15")},
		},
		CreditCards: []model.CreditCard{
			{NextDueDate: day(t, "2025-01-20"), NextDueAmount: money("640.25"), AvgFutureAmount: money("410.75")},
		},
		LifeEvents: []model.LifeEvent{
			{Type: "rent", Amount: money("1500"), StartDate: day(t, "2025-01-01"), Recurrence: "monthly"},
			{Type: "tax refund", Amount: money("900"), StartDate: day(t, "2025-04-15")},
		},
	})

	in, out := r.Totals()
	want := r.StartBalance + in - out
	if math.Abs(r.EndingBalance-want) > 1e-6 {
		t.Errorf("EndingBalance = %v, want %v", r.EndingBalance, want)
	}
	if r.LowestBalance > r.StartBalance {
		t.Errorf("LowestBalance %v above start %v", r.LowestBalance, r.StartBalance)
	}
	last := r.Series[len(r.Series)-1]
	if math.Abs(last.Balance-Round2(r.EndingBalance)) > 1e-9 {
		t.Errorf("last point %v does not match rounded ending %v", last.Balance, r.EndingBalance)
	}
}

func TestResult_DeltaAt(t *testing.T) {
	r := Project(Input{
		Today:       day(t, "2025-01-01"),
		HorizonDays: 40,
		Accounts:    []model.Account{account("100")},
		Paychecks: []model.Paycheck{
			{Amount: money("10"), Schedule: "weekly", NextDate: day(t, "2025-01-02")},
		},
	})
	// 01-02, 09, 16, 23, 30 fall within the first 30 days.
	if got := r.DeltaAt(29); got != 50 {
		t.Errorf("DeltaAt(29) = %v, want 50", got)
	}

	short := Project(Input{Today: day(t, "2025-01-01"), HorizonDays: 29})
	if got := short.DeltaAt(29); got != 0 {
		t.Errorf("short DeltaAt(29) = %v, want 0", got)
	}
}

func TestResult_DaysBelow(t *testing.T) {
	r := Project(Input{
		Today:       day(t, "2025-01-01"),
		HorizonDays: 4,
		Accounts:    []model.Account{account("10")},
		LifeEvents: []model.LifeEvent{
			{Type: "rent", Amount: money("20"), StartDate: day(t, "2025-01-03")},
		},
	})
	if got := r.DaysBelow(0); got != 3 {
		t.Errorf("DaysBelow(0) = %d, want 3", got)
	}
	p, ok := r.FirstBelow(0)
	if !ok || p.Date.String() != "2025-01-03" {
		t.Errorf("FirstBelow(0) = %s %v, want 2025-01-03", p.Date, ok)
	}
}

func TestEntries_WindowAndOrder(t *testing.T) {
	entries := Entries(Input{
		Today:       day(t, "2025-01-01"),
		HorizonDays: 20,
		Paychecks: []model.Paycheck{
			{ID: "p1", Name: "Acme", Amount: money("500"), Schedule: "weekly", NextDate: day(t, "2024-12-25")},
		},
		LifeEvents: []model.LifeEvent{
			{ID: "e1", Type: "rent", Amount: money("900"), StartDate: day(t, "2025-01-03")},
		},
	})

	// 12-25 is before today; 01-01, 01-08, 01-15 remain plus the rent.
	if len(entries) != 4 {
		t.Fatalf("got %d entries, want 4", len(entries))
	}
	if entries[0].Date.String() != "2025-01-01" || entries[0].Label != "Acme" {
		t.Errorf("entries[0] = %+v", entries[0])
	}
	if entries[1].Source != SourceLifeEvent || entries[1].Label != "rent" || entries[1].SourceID != "e1" {
		t.Errorf("entries[1] = %+v, want the rent event", entries[1])
	}
	for i := 1; i < len(entries); i++ {
		if entries[i].Date.Before(entries[i-1].Date) {
			t.Errorf("entries out of order at %d", i)
		}
	}
}

func TestProject_MonthlyRentOverdraft(t *testing.T) {
	r := Project(Input{
		Today:       day(t, "2025-01-01"),
		HorizonDays: 35,
		Accounts:    []model.Account{account("1000")},
		LifeEvents: []model.LifeEvent{
			{Type: "rent", Amount: money("1000"), StartDate: day(t, "2025-01-01"), Recurrence: "monthly"},
		},
	})

	if len(r.Series) != 36 {
		t.Fatalf("len(Series) = %d, want 36", len(r.Series))
	}
	for i := 0; i < 30; i++ {
		if r.Series[i].Balance != 0 {
			t.Errorf("day %d balance = %v, want 0", i, r.Series[i].Balance)
		}
	}
	if got := r.Series[30]; got.Balance != -1000 || got.Date.String() != "2025-01-31" {
		t.Errorf("day 30 = %v on %s, want -1000 on 2025-01-31", got.Balance, got.Date)
	}
	if r.LowestBalance != -1000 || r.LowestDate.String() != "2025-01-31" {
		t.Errorf("lowest = %v on %s, want -1000 on 2025-01-31", r.LowestBalance, r.LowestDate)
	}
	if r.EndingBalance != -1000 {
		t.Errorf("EndingBalance = %v, want -1000", r.EndingBalance)
	}
}

func TestProject_CreditCardPaymentOnHorizonDay(t *testing.T) {
	for _, horizon := range []int{60, 65} {
		r := Project(Input{
			Today:       day(t, "2025-01-01"),
			HorizonDays: horizon,
			Accounts:    []model.Account{account("1000")},
			CreditCards: []model.CreditCard{
				{NextDueDate: day(t, "2025-01-01"), NextDueAmount: money("300"), AvgFutureAmount: money("200")},
			},
		})

		want := map[int]float64{0: 300, 30: 200, 60: 200}
		for i, p := range r.Series {
			if p.Outflow != want[i] {
				t.Errorf("horizon %d: day %d outflow = %v, want %v", horizon, i, p.Outflow, want[i])
			}
		}
		if r.EndingBalance != 300 {
			t.Errorf("horizon %d: EndingBalance = %v, want 300", horizon, r.EndingBalance)
		}
	}
}

func TestProject_Idempotent(t *testing.T) {
	in := Input{
		Today:       day(t, "2025-01-01"),
		HorizonDays: 90,
		Accounts:    []model.Account{account("1520.33"), account("75")},
		Paychecks: []model.Paycheck{
			{ID: "p1", Amount: money("2100.10"), Schedule: "biweekly", NextDate: day(t, "2025-01-03")},
		},
		CreditCards: []model.CreditCard{
			{ID: "c1", NextDueDate: day(t, "2025-01-12"), NextDueAmount: money("640.27"), AvgFutureAmount: money("410")},
		},
		LifeEvents: []model.LifeEvent{
			{ID: "e1", Type: "rent", Amount: money("1450"), StartDate: day(t, "2025-01-01"), Recurrence: "monthly"},
			{ID: "e2", Type: "bonus", Amount: money("999.99"), StartDate: day(t, "2025-02-14")},
		},
	}

	first := Project(in)
	second := Project(in)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Project is not deterministic:\nfirst  %+v\nsecond %+v", first, second)
	}
}

func TestProject_StartBalanceIsExactSum(t *testing.T) {
	r := Project(Input{
		Today:       day(t, "2025-01-01"),
		HorizonDays: 1,
		Accounts:    []model.Account{account("0.10"), account("0.20")},
	})
	if r.StartBalance != 0.3 {
		t.Errorf("StartBalance = %v, want 0.3", r.StartBalance)
	}
}
