// Package daemon provides the long-running projection service: a cron
// scheduler that re-projects every scenario and an HTTP API over the results.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/runwayhq/runway/internal/alert"
	"github.com/runwayhq/runway/internal/model"
	"github.com/runwayhq/runway/internal/pipeline"
	"github.com/runwayhq/runway/internal/projection"
)

// Event types.
const (
	EventSnapshot          = "snapshot"
	EventProjectionChanged = "projection_changed"
	EventLowBalance        = "low_balance"
)

// Config controls the daemon runtime behavior.
type Config struct {
	Addr         string
	Schedule     string
	EventsBuffer int
	HorizonDays  int
	Threshold    float64

	// Today overrides the clock. Nil means model.Today.
	Today func() model.Date
}

// Snapshot is the compact projection state of one scenario.
type Snapshot struct {
	ScenarioID     string     `json:"scenario_id"`
	ScenarioName   string     `json:"scenario_name"`
	At             time.Time  `json:"at"`
	CurrentBalance float64    `json:"current_balance"`
	LowestBalance  float64    `json:"lowest_balance"`
	LowestDate     model.Date `json:"lowest_date"`
	EndingBalance  float64    `json:"ending_balance"`
	DaysBelowZero  int        `json:"days_below_zero"`
}

// Delta captures snapshot changes between runs.
type Delta struct {
	CurrentBalance  float64 `json:"current_balance"`
	LowestBalance   float64 `json:"lowest_balance"`
	EndingBalance   float64 `json:"ending_balance"`
	LowestDateMoved bool    `json:"lowest_date_moved"`
}

func (d Delta) isZero() bool {
	return d.CurrentBalance == 0 &&
		d.LowestBalance == 0 &&
		d.EndingBalance == 0 &&
		!d.LowestDateMoved
}

// Event is emitted whenever a scenario's projection changes or alerts.
type Event struct {
	ID        int64             `json:"id"`
	Type      string            `json:"type"`
	Timestamp time.Time         `json:"timestamp"`
	Snapshot  Snapshot          `json:"snapshot"`
	Delta     Delta             `json:"delta"`
	Alert     *alert.LowBalance `json:"alert,omitempty"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time  `json:"started_at"`
	LastRunAt       time.Time  `json:"last_run_at"`
	Schedule        string     `json:"schedule"`
	RunCount        int64      `json:"run_count"`
	HorizonDays     int        `json:"horizon_days"`
	Threshold       float64    `json:"low_balance_threshold"`
	Scenarios       []Snapshot `json:"scenarios"`
	LastError       string     `json:"last_error,omitempty"`
	EventCount      int        `json:"event_count"`
	SubscriberCount int        `json:"subscriber_count"`
}

// Service provides the daemon runtime and HTTP API.
type Service struct {
	cfg      Config
	src      Source
	notifier Notifier
	log      *logrus.Logger

	mu          sync.RWMutex
	startedAt   time.Time
	lastRunAt   time.Time
	runCount    int64
	lastError   string
	snapshots   map[string]Snapshot
	alerted     map[string]string
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a daemon service. notifier may be nil, in which case
// low-balance events are still published but nobody is notified.
func New(cfg Config, src Source, notifier Notifier, log *logrus.Logger) *Service {
	if cfg.Schedule == "" {
		cfg.Schedule = "@every 15m"
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8787"
	}
	if cfg.Today == nil {
		cfg.Today = model.Today
	}

	return &Service{
		cfg:       cfg,
		src:       src,
		notifier:  notifier,
		log:       log,
		startedAt: time.Now(),
		snapshots: make(map[string]Snapshot),
		alerted:   make(map[string]string),
		subs:      make(map[int]chan Event),
	}
}

// Run serves HTTP and runs the scheduler until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	c := cron.New()
	if _, err := c.AddFunc(s.cfg.Schedule, func() { _ = s.RecomputeAll(ctx) }); err != nil {
		return fmt.Errorf("invalid daemon schedule %q: %w", s.cfg.Schedule, err)
	}

	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Seed so status is useful before the first scheduled run.
	_ = s.RecomputeAll(ctx)
	c.Start()
	s.log.WithFields(logrus.Fields{
		"addr":     s.cfg.Addr,
		"schedule": s.cfg.Schedule,
	}).Info("daemon started")

	select {
	case <-ctx.Done():
		<-c.Stop().Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		c.Stop()
		return fmt.Errorf("daemon http server: %w", err)
	}
}

// RecomputeAll projects every scenario, publishes events for new or changed
// snapshots and notifies on low balances. Per-scenario failures are recorded
// in the status and joined into the returned error.
func (s *Service) RecomputeAll(ctx context.Context) error {
	opts := pipeline.Options{Today: s.cfg.Today(), HorizonDays: s.cfg.HorizonDays}
	results, err := pipeline.LoadAll(ctx, s.src, opts, nil)
	now := time.Now()
	if err != nil {
		s.mu.Lock()
		s.lastError = err.Error()
		s.lastRunAt = now
		s.runCount++
		s.mu.Unlock()
		s.log.WithError(err).Error("projection run failed")
		return err
	}

	var (
		pending []Event
		alerts  []alert.LowBalance
		errs    []error
	)

	s.mu.Lock()
	seen := make(map[string]bool, len(results))
	for _, lr := range results {
		id := lr.Data.Scenario.ID
		seen[id] = true
		if lr.Err != nil {
			errs = append(errs, lr.Err)
			continue
		}

		snap := snapshotFromResult(lr, now)
		prev, existed := s.snapshots[id]
		s.snapshots[id] = snap

		if !existed {
			pending = append(pending, s.nextEventLocked(EventSnapshot, now, snap, Delta{}))
		} else if delta := diffSnapshots(prev, snap); !delta.isZero() {
			pending = append(pending, s.nextEventLocked(EventProjectionChanged, now, snap, delta))
		}

		if a, fire := s.checkAlertLocked(snap, lr.Result, now); fire {
			ev := s.nextEventLocked(EventLowBalance, now, snap, Delta{})
			ev.Alert = &a
			pending = append(pending, ev)
			alerts = append(alerts, a)
		}
	}
	for id := range s.snapshots {
		if !seen[id] {
			delete(s.snapshots, id)
			delete(s.alerted, id)
		}
	}

	runErr := errors.Join(errs...)
	s.lastRunAt = now
	s.runCount++
	s.lastError = ""
	if runErr != nil {
		s.lastError = runErr.Error()
	}
	s.mu.Unlock()

	for _, ev := range pending {
		s.publishEvent(ev)
	}

	for _, a := range alerts {
		s.log.WithFields(logrus.Fields{
			"scenario":       a.ScenarioName,
			"lowest_balance": a.LowestBalance,
			"lowest_date":    a.LowestDate.String(),
		}).Warn("low balance projected")
		if s.notifier == nil {
			continue
		}
		if err := s.notifier.Notify(ctx, a); err != nil {
			s.log.WithError(err).Error("alert delivery failed")
		}
	}

	if runErr != nil {
		s.log.WithError(runErr).Warn("some scenarios failed to project")
	} else {
		s.log.WithField("scenarios", len(results)).Debug("projection run complete")
	}
	return runErr
}

// checkAlertLocked decides whether snap warrants a notification. Each
// (lowest date, lowest balance) state alerts once; recovering above the
// threshold re-arms the scenario.
func (s *Service) checkAlertLocked(snap Snapshot, res projection.Result, now time.Time) (alert.LowBalance, bool) {
	if snap.LowestBalance >= s.cfg.Threshold {
		delete(s.alerted, snap.ScenarioID)
		return alert.LowBalance{}, false
	}

	key := snap.LowestDate.String() + "|" + strconv.FormatFloat(snap.LowestBalance, 'f', 2, 64)
	if s.alerted[snap.ScenarioID] == key {
		return alert.LowBalance{}, false
	}
	s.alerted[snap.ScenarioID] = key

	a := alert.LowBalance{
		ScenarioID:    snap.ScenarioID,
		ScenarioName:  snap.ScenarioName,
		Threshold:     s.cfg.Threshold,
		LowestBalance: snap.LowestBalance,
		LowestDate:    snap.LowestDate,
		At:            now,
	}
	if p, ok := res.FirstBelow(s.cfg.Threshold); ok {
		a.FirstBelow = p.Date
	}
	return a, true
}

func (s *Service) nextEventLocked(typ string, now time.Time, snap Snapshot, delta Delta) Event {
	s.nextEventID++
	return Event{
		ID:        s.nextEventID,
		Type:      typ,
		Timestamp: now,
		Snapshot:  snap,
		Delta:     delta,
	}
}

func snapshotFromResult(lr pipeline.LoadResult, at time.Time) Snapshot {
	return Snapshot{
		ScenarioID:     lr.Data.Scenario.ID,
		ScenarioName:   lr.Data.Scenario.Name,
		At:             at,
		CurrentBalance: projection.Round2(lr.Summary.CurrentBalance),
		LowestBalance:  projection.Round2(lr.Result.LowestBalance),
		LowestDate:     lr.Result.LowestDate,
		EndingBalance:  projection.Round2(lr.Result.EndingBalance),
		DaysBelowZero:  lr.Summary.DaysBelowZero,
	}
}

func diffSnapshots(prev, curr Snapshot) Delta {
	return Delta{
		CurrentBalance:  projection.Round2(curr.CurrentBalance - prev.CurrentBalance),
		LowestBalance:   projection.Round2(curr.LowestBalance - prev.LowestBalance),
		EndingBalance:   projection.Round2(curr.EndingBalance - prev.EndingBalance),
		LowestDateMoved: !curr.LowestDate.Equal(prev.LowestDate),
	}
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	scenarios := make([]Snapshot, 0, len(s.snapshots))
	for _, snap := range s.snapshots {
		scenarios = append(scenarios, snap)
	}
	sort.Slice(scenarios, func(i, j int) bool {
		if scenarios[i].ScenarioName != scenarios[j].ScenarioName {
			return scenarios[i].ScenarioName < scenarios[j].ScenarioName
		}
		return scenarios[i].ScenarioID < scenarios[j].ScenarioID
	})

	return Status{
		StartedAt:       s.startedAt,
		LastRunAt:       s.lastRunAt,
		Schedule:        s.cfg.Schedule,
		RunCount:        s.runCount,
		HorizonDays:     s.cfg.HorizonDays,
		Threshold:       s.cfg.Threshold,
		Scenarios:       scenarios,
		LastError:       s.lastError,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
