// Package web exposes a small read-only HTTP mirror of bot state: per-user
// status as JSON, a health check, and Prometheus metrics.
package web

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"bonus-points-bot/internal/catalog"
	"bonus-points-bot/internal/points"
	"bonus-points-bot/internal/service"
)

// StateReader supplies the per-user state the status endpoint renders.
type StateReader interface {
	Snapshot(ctx context.Context, userID int64) (*service.Snapshot, error)
}

// Pinger reports storage health.
type Pinger interface {
	HealthCheck(ctx context.Context) error
}

// Server is the read-only HTTP mirror.
type Server struct {
	state StateReader
	db    Pinger
	http  *http.Server
}

// NewServer creates a Server listening on addr.
func NewServer(addr string, state StateReader, db Pinger) *Server {
	s := &Server{
		state: state,
		db:    db,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/status/", s.status)
	mux.HandleFunc("/healthz", s.healthz)
	mux.Handle("/metrics", promhttp.Handler())

	s.http = &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	return s
}

// Start begins serving in a background goroutine.
func (s *Server) Start() {
	go func() {
		log.Info().Str("addr", s.http.Addr).Msg("Web mirror listening")
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("Web mirror stopped")
		}
	}()
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// activityView is one activity line in the status payload.
type activityView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Points    int64  `json:"points"`
	Completed bool   `json:"completed"`
}

// categoryView groups activities the way the dashboard does.
type categoryView struct {
	Name       string         `json:"name"`
	Activities []activityView `json:"activities"`
}

// statusView is the GET /api/status/{userID} payload.
type statusView struct {
	UserID      int64          `json:"userId"`
	Balance     int64          `json:"balance"`
	VIP         bool           `json:"vip"`
	Event       bool           `json:"event"`
	ActivityDay string         `json:"activityDay"`
	Categories  []categoryView `json:"categories"`
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	idStr := strings.TrimPrefix(r.URL.Path, "/api/status/")
	userID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || userID <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "user id must be a positive integer")
		return
	}

	snap, err := s.state.Snapshot(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("Status snapshot failed")
		writeError(w, http.StatusInternalServerError, "server_error", "failed to read user state")
		return
	}

	writeJSON(w, http.StatusOK, toStatusView(userID, snap))
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := s.db.HealthCheck(ctx); err != nil {
		writeError(w, http.StatusServiceUnavailable, "unhealthy", err.Error())
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// toStatusView renders a snapshot with the same grouping and live point
// values as the dashboard message.
func toStatusView(userID int64, snap *service.Snapshot) statusView {
	completed := snap.CompletedSet()

	view := statusView{
		UserID:      userID,
		Balance:     snap.User.BPBalance,
		VIP:         snap.User.VIPStatus,
		Event:       snap.EventActive,
		ActivityDay: snap.ActivityDay,
	}

	for _, category := range catalog.Categories() {
		cv := categoryView{Name: category}
		for _, a := range catalog.ByCategory(category) {
			cv.Activities = append(cv.Activities, activityView{
				ID:        a.ID,
				Name:      a.Name,
				Points:    points.Calculate(a, snap.User.VIPStatus, snap.EventActive),
				Completed: completed[a.ID],
			})
		}
		view.Categories = append(view.Categories, cv)
	}

	return view
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	payload := map[string]string{
		"type":   code,
		"detail": detail,
	}
	writeJSON(w, status, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
