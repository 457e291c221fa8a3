package daemon

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runwayhq/runway/internal/logging"
	"github.com/runwayhq/runway/internal/model"
	"github.com/runwayhq/runway/internal/projection"
)

func TestDiffSnapshots(t *testing.T) {
	prev := Snapshot{
		CurrentBalance: 1000,
		LowestBalance:  250.5,
		LowestDate:     model.NewDate(2025, 2, 1),
		EndingBalance:  1800,
	}
	curr := Snapshot{
		CurrentBalance: 1000,
		LowestBalance:  -99.5,
		LowestDate:     model.NewDate(2025, 2, 15),
		EndingBalance:  1650.1,
	}

	delta := diffSnapshots(prev, curr)
	assert.Equal(t, 0.0, delta.CurrentBalance)
	assert.Equal(t, -350.0, delta.LowestBalance)
	assert.Equal(t, -149.9, delta.EndingBalance)
	assert.True(t, delta.LowestDateMoved)
	assert.False(t, delta.isZero())

	assert.True(t, diffSnapshots(curr, curr).isZero())
}

func TestPublishEventRingBuffer(t *testing.T) {
	s := New(Config{EventsBuffer: 2}, nil, nil, logging.Discard())

	s.publishEvent(Event{ID: 1})
	s.publishEvent(Event{ID: 2})
	s.publishEvent(Event{ID: 3})

	s.mu.RLock()
	defer s.mu.RUnlock()

	require.Len(t, s.events, 2)
	assert.Equal(t, int64(2), s.events[0].ID)
	assert.Equal(t, int64(3), s.events[1].ID)
}

func TestPublishEvent_SkipsFullSubscribers(t *testing.T) {
	s := New(Config{}, nil, nil, logging.Discard())
	ch := make(chan Event, 1)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	s.publishEvent(Event{ID: 1})
	s.publishEvent(Event{ID: 2})

	got := <-ch
	assert.Equal(t, int64(1), got.ID)
	assert.Len(t, ch, 0)
}

func TestCheckAlertLocked(t *testing.T) {
	s := New(Config{Threshold: 100}, nil, nil, logging.Discard())
	now := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	low := Snapshot{
		ScenarioID:    "sc",
		ScenarioName:  "Personal",
		LowestBalance: 40,
		LowestDate:    model.NewDate(2025, 1, 9),
	}
	res := projection.Result{Series: []projection.Point{
		{Date: model.NewDate(2025, 1, 8), Balance: 120},
		{Date: model.NewDate(2025, 1, 9), Balance: 40},
	}}

	a, fire := s.checkAlertLocked(low, res, now)
	require.True(t, fire)
	assert.Equal(t, "2025-01-09", a.FirstBelow.String())
	assert.Equal(t, 100.0, a.Threshold)

	_, fire = s.checkAlertLocked(low, res, now)
	assert.False(t, fire, "same state alerts once")

	worse := low
	worse.LowestBalance = 10
	_, fire = s.checkAlertLocked(worse, res, now)
	assert.True(t, fire, "a new lowest balance alerts again")

	ok := low
	ok.LowestBalance = 150
	_, fire = s.checkAlertLocked(ok, res, now)
	assert.False(t, fire)
	_, fire = s.checkAlertLocked(worse, res, now)
	assert.True(t, fire, "recovery re-arms the alert")
}
