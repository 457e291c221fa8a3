package daemon

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/runwayhq/runway/internal/model"
	"github.com/runwayhq/runway/internal/pipeline"
	"github.com/runwayhq/runway/internal/store"
)

const maxHorizonDays = 3650

// Router returns the daemon's HTTP routes.
func (s *Service) Router() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.handleHealth).Methods("GET")
	r.HandleFunc("/v1/status", s.handleStatus).Methods("GET")
	r.HandleFunc("/v1/scenarios", s.handleScenarios).Methods("GET")
	r.HandleFunc("/v1/scenarios/{id}/projection", s.handleProjection).Methods("GET")
	r.HandleFunc("/v1/events", s.handleEvents).Methods("GET")
	r.HandleFunc("/v1/stream", s.handleStream).Methods("GET")
	r.Use(s.logRequests)
	return r
}

func (s *Service) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"duration": time.Since(start).String(),
		}).Debug("request")
	})
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshotStatus())
}

func (s *Service) handleScenarios(w http.ResponseWriter, r *http.Request) {
	scenarios, err := s.src.ListScenarios(r.Context())
	if err != nil {
		s.log.WithError(err).Error("list scenarios")
		writeError(w, http.StatusInternalServerError, "failed to list scenarios")
		return
	}
	if scenarios == nil {
		scenarios = []model.Scenario{}
	}
	writeJSON(w, http.StatusOK, scenarios)
}

func (s *Service) handleProjection(w http.ResponseWriter, r *http.Request) {
	opts := pipeline.Options{Today: s.cfg.Today(), HorizonDays: s.cfg.HorizonDays}

	q := r.URL.Query()
	if v := q.Get("horizon"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxHorizonDays {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("horizon must be an integer between 1 and %d", maxHorizonDays))
			return
		}
		opts.HorizonDays = n
	}
	if v := q.Get("today"); v != "" {
		d, err := model.ParseDate(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "today must be a YYYY-MM-DD date")
			return
		}
		opts.Today = d
	}

	lr, err := pipeline.Load(r.Context(), s.src, mux.Vars(r)["id"], opts)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, lr.Result)
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "scenario not found")
	case errors.Is(err, store.ErrScenarioAmbiguous):
		writeError(w, http.StatusConflict, err.Error())
	default:
		s.log.WithError(err).Error("projection request")
		writeError(w, http.StatusInternalServerError, "projection failed")
	}
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	// Replay current state so new clients don't wait for the next run.
	now := time.Now()
	for _, snap := range s.snapshotStatus().Scenarios {
		writeSSE(w, Event{Type: EventSnapshot, Timestamp: now, Snapshot: snap})
	}
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
