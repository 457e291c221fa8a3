package pipeline

import (
	"github.com/runwayhq/runway/internal/model"
	"github.com/runwayhq/runway/internal/projection"
)

// Summary is the headline view of one projection.
type Summary struct {
	CurrentBalance   float64    `json:"currentBalance"`
	Delta30d         float64    `json:"delta30d"`
	LowestBalance    float64    `json:"lowestBalance"`
	LowestDate       model.Date `json:"lowestDate"`
	EndingBalance    float64    `json:"endingBalance"`
	TotalInflow      float64    `json:"totalInflow"`
	TotalOutflow     float64    `json:"totalOutflow"`
	DaysBelowZero    int        `json:"daysBelowZero"`
	FirstBelowZero   model.Date `json:"firstBelowZero"`
	HorizonDays      int        `json:"horizonDays"`
	ActiveFlowDays   int        `json:"activeFlowDays"`
	LargestOutflow   float64    `json:"largestOutflow"`
	LargestOutflowOn model.Date `json:"largestOutflowOn"`
}

// Summarize computes headline statistics from a projection.
func Summarize(r projection.Result) Summary {
	s := Summary{
		CurrentBalance: r.StartBalance,
		Delta30d:       r.DeltaAt(29),
		LowestBalance:  r.LowestBalance,
		LowestDate:     r.LowestDate,
		EndingBalance:  r.EndingBalance,
		DaysBelowZero:  r.DaysBelow(0),
	}
	if len(r.Series) > 0 {
		s.HorizonDays = len(r.Series) - 1
	}
	s.TotalInflow, s.TotalOutflow = r.Totals()
	if p, ok := r.FirstBelow(0); ok {
		s.FirstBelowZero = p.Date
	}

	for _, p := range r.Series {
		if p.Inflow != 0 || p.Outflow != 0 {
			s.ActiveFlowDays++
		}
		if p.Outflow > s.LargestOutflow {
			s.LargestOutflow = p.Outflow
			s.LargestOutflowOn = p.Date
		}
	}
	return s
}

// FlowDays returns the series points that move money, plus the lowest-balance
// day so it always appears in condensed tables.
func FlowDays(r projection.Result) []projection.Point {
	var out []projection.Point
	for _, p := range r.Series {
		if p.Inflow != 0 || p.Outflow != 0 || p.Date.Equal(r.LowestDate) {
			out = append(out, p)
		}
	}
	return out
}

// Period selects the bucket size for Rollup.
type Period string

const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// PeriodStats aggregates flows over one calendar week or month.
type PeriodStats struct {
	Start          model.Date `json:"start"`
	Inflow         float64    `json:"inflow"`
	Outflow        float64    `json:"outflow"`
	ClosingBalance float64    `json:"closingBalance"`
	MinBalance     float64    `json:"minBalance"`
}

// Net returns inflow minus outflow.
func (p PeriodStats) Net() float64 { return p.Inflow - p.Outflow }

// Rollup buckets the series into weeks (starting Monday) or calendar months,
// oldest first. Partial buckets at either end are included.
func Rollup(r projection.Result, period Period) []PeriodStats {
	var out []PeriodStats
	var cur *PeriodStats

	for _, p := range r.Series {
		start := bucketStart(p.Date, period)
		if cur == nil || !cur.Start.Equal(start) {
			out = append(out, PeriodStats{Start: start, MinBalance: p.Balance})
			cur = &out[len(out)-1]
		}
		cur.Inflow += p.Inflow
		cur.Outflow += p.Outflow
		cur.ClosingBalance = p.Balance
		if p.Balance < cur.MinBalance {
			cur.MinBalance = p.Balance
		}
	}
	return out
}

func bucketStart(d model.Date, period Period) model.Date {
	if period == PeriodMonth {
		return model.NewDate(d.Year(), d.Month(), 1)
	}
	sinceMonday := (int(d.Weekday()) + 6) % 7
	return d.AddDays(-sinceMonday)
}
