// Package server exposes the filter engine to the host transport over HTTP:
// chat events as JSON, listing batches as raw bytes, plus read-only history
// and report views.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/xivtools/nosol/internal/chat"
	"github.com/xivtools/nosol/internal/classifier"
	"github.com/xivtools/nosol/internal/engine"
	"github.com/xivtools/nosol/internal/history"
	"github.com/xivtools/nosol/internal/pf"
)

const (
	shutdownTimeout   = 5 * time.Second
	readHeaderTimeout = 10 * time.Second

	// SuppressedHeader carries the number of zeroed listings on a filtered
	// batch response.
	SuppressedHeader = "X-Nosol-Suppressed"

	defaultReportLimit = 50
	maxReportLimit     = 500
)

// ReportReader serves the persisted suppressed entries. Nil when the report
// store is disabled.
type ReportReader interface {
	Recent(ctx context.Context, limit int) ([]history.Entry, error)
}

// Server is the event bridge.
type Server struct {
	engine   *engine.Engine
	detector *classifier.HeuristicDetector
	reports  ReportReader
	port     int
	logger   *zerolog.Logger
}

func New(eng *engine.Engine, detector *classifier.HeuristicDetector, reports ReportReader, port int, logger *zerolog.Logger) *Server {
	return &Server{
		engine:   eng,
		detector: detector,
		reports:  reports,
		port:     port,
		logger:   logger,
	}
}

// Handler returns the route table; split out so tests can drive it through
// httptest.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/chat", s.handleChat)
	mux.HandleFunc("POST /v1/party-finder", s.handlePartyFinder)
	mux.HandleFunc("POST /v1/quick-check", s.handleQuickCheck)
	mux.HandleFunc("GET /v1/history/chat", s.handleChatHistory)
	mux.HandleFunc("GET /v1/history/listings", s.handleListingHistory)
	mux.HandleFunc("GET /v1/report", s.handleReport)

	return mux
}

func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error().Err(err).Msg("bridge server shutdown error")
		}
	}()

	s.logger.Info().Int("port", s.port).Msg("starting bridge server")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("bridge server error: %w", err)
	}

	return nil
}

type chatRequest struct {
	Channel  uint16 `json:"channel"`
	SenderID uint64 `json:"sender_id"`
	Sender   string `json:"sender"`
	Message  string `json:"message"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)

		return
	}

	verdict, err := s.engine.DecideChat(r.Context(), chat.Message{
		Channel:    chat.Channel(req.Channel),
		SenderID:   req.SenderID,
		Sender:     req.Sender,
		Text:       req.Message,
		ReceivedAt: time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, engine.ErrEmptyMessage) {
			http.Error(w, "message text is required", http.StatusBadRequest)

			return
		}

		s.logger.Error().Err(err).Msg("chat decision failed")
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	s.writeJSON(w, verdict)
}

func (s *Server) handlePartyFinder(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, pf.BatchSize+1))
	if err != nil {
		http.Error(w, "reading request body failed", http.StatusBadRequest)

		return
	}

	out, suppressed, err := s.engine.FilterBatch(r.Context(), data)
	if err != nil {
		if errors.Is(err, pf.ErrMalformedBatch) {
			// The caller keeps its original buffer.
			http.Error(w, "batch length mismatch", http.StatusBadRequest)

			return
		}

		s.logger.Error().Err(err).Msg("batch filtering failed")
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set(SuppressedHeader, strconv.Itoa(suppressed))
	_, _ = w.Write(out)
}

type quickCheckRequest struct {
	Channel uint16 `json:"channel"`
	Message string `json:"message"`
}

type quickCheckResponse struct {
	Suppress bool `json:"suppress"`
}

// handleQuickCheck runs the legacy heuristic detector only: no history, no
// configuration, just a boolean solicitation decision.
func (s *Server) handleQuickCheck(w http.ResponseWriter, r *http.Request) {
	var req quickCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)

		return
	}

	if req.Message == "" {
		http.Error(w, "message text is required", http.StatusBadRequest)

		return
	}

	suppress := s.detector.ChatIsSolicitation(chat.Channel(req.Channel), req.Message)

	s.writeJSON(w, quickCheckResponse{Suppress: suppress})
}

func (s *Server) handleChatHistory(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, s.engine.History().Chat.Snapshot())
}

func (s *Server) handleListingHistory(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, s.engine.History().Listings.Snapshot())
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if s.reports == nil {
		http.Error(w, "report store disabled", http.StatusNotFound)

		return
	}

	limit := defaultReportLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > maxReportLimit {
			http.Error(w, "invalid limit", http.StatusBadRequest)

			return
		}

		limit = parsed
	}

	entries, err := s.reports.Recent(r.Context(), limit)
	if err != nil {
		s.logger.Error().Err(err).Msg("reading report entries failed")
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	if entries == nil {
		entries = []history.Entry{}
	}

	s.writeJSON(w, entries)
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error().Err(err).Msg("encoding response failed")
	}
}
