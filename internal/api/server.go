// Package api exposes the ritual over HTTP JSON, shaped for a game
// client polling a local server.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/felixgeelhaar/pond/internal/observe"
	"github.com/felixgeelhaar/pond/internal/ritual"
	"github.com/felixgeelhaar/pond/internal/runtime"
	"github.com/felixgeelhaar/pond/internal/store"
)

// Server wires the runtime to HTTP handlers.
type Server struct {
	runtime *runtime.Runtime
	observe *observe.Observer
	mux     *http.ServeMux
}

func NewServer(rt *runtime.Runtime, obs *observe.Observer) *Server {
	s := &Server{
		runtime: rt,
		observe: obs,
		mux:     http.NewServeMux(),
	}
	s.mux.HandleFunc("POST /v1/begin", s.handleBegin)
	s.mux.HandleFunc("POST /v1/advance", s.handleAdvance)
	s.mux.HandleFunc("POST /v1/archive", s.handleArchive)
	s.mux.HandleFunc("POST /v1/reset", s.handleReset)
	s.mux.HandleFunc("GET /v1/memories", s.handleMemories)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	return s
}

// Handler returns the server's root handler with CORS applied, so a
// game editor running in a browser context can reach it.
func (s *Server) Handler() http.Handler {
	return cors(s.mux)
}

// ListenAndServe blocks serving HTTP until the context is canceled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	s.observe.Log().Info().Str("addr", addr).Msg("pond listening")

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type beginRequest struct {
	Title    string `json:"title"`
	Offering string `json:"offering"`
}

type advanceRequest struct {
	SessionID string `json:"session_id"`
	Reply     string `json:"reply"`
}

type sessionRequest struct {
	SessionID string `json:"session_id"`
}

// pondResponse is the shared shape of begin/advance/archive replies.
type pondResponse struct {
	SessionID string      `json:"session_id"`
	Turn      ritual.Turn `json:"turn"`
	HTML      string      `json:"html"`
	Finished  bool        `json:"finished"`
	Choice    string      `json:"archive_choice,omitempty"`
	Timestamp string      `json:"timestamp"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleBegin(w http.ResponseWriter, r *http.Request) {
	var req beginRequest
	if !decode(w, r, &req) {
		return
	}

	sessionID, turn, err := s.runtime.Begin(r.Context(), req.Title, req.Offering)
	if err != nil {
		if errors.Is(err, ritual.ErrTitleRequired) {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		s.fail(w, r, err, "begin failed")
		return
	}
	s.writeTurn(w, sessionID, turn)
}

func (s *Server) handleAdvance(w http.ResponseWriter, r *http.Request) {
	var req advanceRequest
	if !decode(w, r, &req) {
		return
	}
	if req.SessionID == "" {
		writeError(w, http.StatusBadRequest, errors.New("session_id is required"))
		return
	}

	turn, err := s.runtime.Advance(r.Context(), req.SessionID, req.Reply)
	if err != nil {
		if errors.Is(err, runtime.ErrUnknownSession) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		s.fail(w, r, err, "advance failed")
		return
	}
	s.writeTurn(w, req.SessionID, turn)
}

// handleArchive returns the archive record of a finished ritual. The
// memory itself was stored when the archive choice landed.
func (s *Server) handleArchive(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if !decode(w, r, &req) {
		return
	}

	st, err := s.runtime.State(req.SessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if !st.Finished() {
		writeError(w, http.StatusConflict, errors.New("ritual is not finished"))
		return
	}

	writeJSON(w, http.StatusOK, struct {
		SessionID string        `json:"session_id"`
		Memory    *store.Memory `json:"memory"`
	}{req.SessionID, runtime.MemoryFromState(st)})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if !decode(w, r, &req) {
		return
	}

	if err := s.runtime.Reset(req.SessionID); err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "session_id": req.SessionID})
}

func (s *Server) handleMemories(w http.ResponseWriter, r *http.Request) {
	memories, err := s.runtime.Memories()
	if err != nil {
		s.fail(w, r, err, "listing memories failed")
		return
	}
	if memories == nil {
		memories = []store.Memory{}
	}
	writeJSON(w, http.StatusOK, memories)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeTurn(w http.ResponseWriter, sessionID string, turn ritual.Turn) {
	html, err := turn.Card()
	if err != nil {
		s.observe.Log().Error().Err(err).Msg("card render failed")
	}
	writeJSON(w, http.StatusOK, pondResponse{
		SessionID: sessionID,
		Turn:      turn,
		HTML:      html,
		Finished:  turn.Finished,
		Choice:    string(turn.Choice),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error, msg string) {
	s.observe.Log().Error().Str("path", r.URL.Path).Err(err).Msg(msg)
	writeError(w, http.StatusInternalServerError, err)
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid JSON body"))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
