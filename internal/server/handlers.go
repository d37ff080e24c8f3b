package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/RafaAmft/projeto-backtestv1-sub001/internal/collector"
	"github.com/RafaAmft/projeto-backtestv1-sub001/internal/model"
	"github.com/RafaAmft/projeto-backtestv1-sub001/internal/stream"
)

var errUnresolved = errors.New("no source produced a quote")

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/summary/latest", s.handleLatestSummary).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/quote/{category}/{symbol}", s.handleQuote).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/stats", s.handleStats).Methods(http.MethodGet)
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": s.version,
		"uptime":  time.Since(s.started).Round(time.Second).String(),
	})
}

// handleLatestSummary serves the newest snapshot: collector memory
// first, then the cache, then the store.
func (s *Server) handleLatestSummary(w http.ResponseWriter, r *http.Request) {
	if s.summaries != nil {
		if sum, ok := s.summaries.Latest(); ok {
			respondJSON(w, http.StatusOK, sum)
			return
		}
	}

	if s.cache != nil {
		if sum, ok := s.cache.LatestSummary(r.Context()); ok {
			respondJSON(w, http.StatusOK, sum)
			return
		}
	}

	if s.snapshots != nil {
		sum, err := s.snapshots.LatestSummary(r.Context())
		switch {
		case err == nil:
			respondJSON(w, http.StatusOK, sum)
			return
		case s.noSnapshot != nil && errors.Is(err, s.noSnapshot):
			// Fall through to 404.
		default:
			s.logger.Error("read persisted snapshot", "error", err)
			respondError(w, http.StatusInternalServerError, "snapshot lookup failed")
			return
		}
	}

	respondError(w, http.StatusNotFound, "no summary collected yet")
}

// handleQuote serves one quote: cache hit first, then a live resolve
// through the category's fallback chain with a write-back.
func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	category := model.Category(vars["category"])
	symbol := vars["symbol"]

	if !category.Valid() {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("unknown category %q", vars["category"]))
		return
	}

	if s.cache != nil {
		if q, ok := s.cache.GetQuote(r.Context(), category, symbol); ok {
			respondJSON(w, http.StatusOK, q)
			return
		}
	}

	ch, ok := s.chains[category]
	if !ok {
		respondError(w, http.StatusNotFound, fmt.Sprintf("no sources configured for %q", category))
		return
	}

	// Concurrent requests for the same symbol share one upstream resolve.
	v, err, _ := s.sf.Do(string(category)+"/"+symbol, func() (any, error) {
		q, ok := ch.Resolve(r.Context(), symbol)
		if !ok {
			return nil, errUnresolved
		}
		if s.cache != nil {
			if err := s.cache.PutQuote(r.Context(), category, q); err != nil {
				s.logger.Warn("cache write failed", "symbol", symbol, "error", err)
			}
		}
		return q, nil
	})
	if err != nil {
		respondError(w, http.StatusNotFound, fmt.Sprintf("no data for %q", symbol))
		return
	}

	respondJSON(w, http.StatusOK, v.(model.Quote))
}

type statsResponse struct {
	Collector *collector.Stats `json:"collector,omitempty"`
	Stream    *stream.Stats    `json:"stream,omitempty"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	var resp statsResponse
	if s.collectorStats != nil {
		st := s.collectorStats()
		resp.Collector = &st
	}
	if s.streamStats != nil {
		st := s.streamStats()
		resp.Stream = &st
	}
	respondJSON(w, http.StatusOK, resp)
}

func respondJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"encode response"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondError(w http.ResponseWriter, code int, message string) {
	respondJSON(w, code, map[string]string{"error": message})
}
