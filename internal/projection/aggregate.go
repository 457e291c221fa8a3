package projection

import (
	"math"

	"github.com/runwayhq/runway/internal/model"
)

// dayFlows holds the aggregated inflow and outflow magnitudes for one date.
type dayFlows struct {
	Inflow  float64
	Outflow float64
}

// indexByDate folds entries into per-day totals keyed by YYYY-MM-DD.
//
// Paycheck amounts always count as inflow and card amounts always as outflow
// magnitude. Life events are split on their sign; a zero amount moves nothing.
func indexByDate(entries []Entry) map[string]*dayFlows {
	days := make(map[string]*dayFlows)
	for _, e := range entries {
		key := e.Date.String()
		df, ok := days[key]
		if !ok {
			df = &dayFlows{}
			days[key] = df
		}

		switch e.Source {
		case SourcePaycheck:
			df.Inflow += e.Amount
		case SourceCreditCard:
			df.Outflow += math.Abs(e.Amount)
		case SourceLifeEvent:
			switch {
			case e.Amount > 0:
				df.Inflow += e.Amount
			case e.Amount < 0:
				df.Outflow += math.Abs(e.Amount)
			}
		}
	}
	return days
}

// aggregate walks today..today+horizonDays and produces the balance series.
// The carried balance keeps full precision; only emitted points are rounded.
func aggregate(start float64, today model.Date, horizonDays int, entries []Entry) Result {
	days := indexByDate(entries)

	series := make([]Point, 0, horizonDays+1)
	balance := start
	lowest := start
	lowestDate := today

	for i := 0; i <= horizonDays; i++ {
		d := today.AddDays(i)

		var inflow, outflow float64
		if df, ok := days[d.String()]; ok {
			inflow = df.Inflow
			outflow = df.Outflow
		}

		balance = balance + inflow - outflow
		if balance < lowest {
			lowest = balance
			lowestDate = d
		}

		series = append(series, Point{
			Date:    d,
			Balance: Round2(balance),
			Inflow:  inflow,
			Outflow: outflow,
		})
	}

	return build(start, series, lowest, lowestDate, balance)
}

// Round2 rounds to cents with halves going toward positive infinity.
func Round2(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}
