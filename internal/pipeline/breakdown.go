package pipeline

import (
	"math"
	"sort"

	"github.com/runwayhq/runway/internal/projection"
)

// SourceTotal is the total money one entity moves inside the projection
// window.
type SourceTotal struct {
	SourceID    string            `json:"sourceId"`
	Label       string            `json:"label"`
	Kind        projection.Source `json:"-"`
	KindName    string            `json:"kind"`
	Occurrences int               `json:"occurrences"`
	Inflow      float64           `json:"inflow"`
	Outflow     float64           `json:"outflow"`
}

// Net returns inflow minus outflow.
func (s SourceTotal) Net() float64 { return s.Inflow - s.Outflow }

// BreakdownBySource totals the in-window flows per entity, largest absolute
// movement first. Classification matches the daily aggregator: paychecks are
// always inflow and cards always outflow.
func BreakdownBySource(in projection.Input) []SourceTotal {
	byKey := make(map[string]*SourceTotal)
	var order []string

	for _, e := range projection.Entries(in) {
		key := e.Source.String() + "/" + e.SourceID + "/" + e.Label
		st, ok := byKey[key]
		if !ok {
			st = &SourceTotal{
				SourceID: e.SourceID,
				Label:    e.Label,
				Kind:     e.Source,
				KindName: e.Source.String(),
			}
			byKey[key] = st
			order = append(order, key)
		}
		st.Occurrences++

		switch {
		case e.Source == projection.SourcePaycheck:
			st.Inflow += e.Amount
		case e.Source == projection.SourceCreditCard:
			st.Outflow += math.Abs(e.Amount)
		case e.Amount > 0:
			st.Inflow += e.Amount
		case e.Amount < 0:
			st.Outflow += -e.Amount
		}
	}

	out := make([]SourceTotal, 0, len(order))
	for _, k := range order {
		out = append(out, *byKey[k])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return math.Abs(out[i].Net()) > math.Abs(out[j].Net())
	})
	return out
}
