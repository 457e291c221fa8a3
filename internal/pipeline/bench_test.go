package pipeline

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/runwayhq/runway/internal/model"
	"github.com/runwayhq/runway/internal/projection"
)

func benchScenario(n int) model.ScenarioData {
	today := model.NewDate(2025, 1, 1)
	data := model.ScenarioData{
		Accounts: []model.Account{{CurrentBalance: decimal.NewFromInt(5000)}},
	}
	for i := 0; i < n; i++ {
		data.Paychecks = append(data.Paychecks, model.Paycheck{
			Name: fmt.Sprintf("job-%d", i), Amount: decimal.NewFromInt(1500),
			Schedule: "biweekly", NextDate: today.AddDays(i % 14),
		})
		data.CreditCards = append(data.CreditCards, model.CreditCard{
			Name: fmt.Sprintf("card-%d", i), NextDueDate: today.AddDays(i % 30),
			NextDueAmount: decimal.NewFromInt(400), AvgFutureAmount: decimal.NewFromInt(350),
		})
		data.LifeEvents = append(data.LifeEvents, model.LifeEvent{
			Type: "rent", Amount: decimal.NewFromInt(900),
			StartDate: today.AddDays(i % 30), Recurrence: "monthly",
		})
	}
	return data
}

func BenchmarkProject(b *testing.B) {
	for _, n := range []int{1, 10, 100} {
		in := projection.InputFrom(benchScenario(n), model.NewDate(2025, 1, 1), 365)
		b.Run(fmt.Sprintf("sources=%d", n), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_ = projection.Project(in)
			}
		})
	}
}

func BenchmarkBreakdownBySource(b *testing.B) {
	in := projection.InputFrom(benchScenario(50), model.NewDate(2025, 1, 1), 365)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = BreakdownBySource(in)
	}
}
