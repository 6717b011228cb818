// Package api serves performances over HTTP. Every session owns its own
// conductor, fed one posted sample at a time or through a WebSocket stream.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/jsphweid/gyrotone/config"
	"github.com/jsphweid/gyrotone/model"
	"github.com/rs/cors"
	"golang.org/x/exp/slices"
)

var ErrNoSession = errors.New("no such session")

type Server struct {
	cfg      *config.Config
	logger   *slog.Logger
	autosave time.Duration

	mu       sync.Mutex
	sessions map[string]*Session

	router   *mux.Router
	upgrader websocket.Upgrader
}

func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	autosave, err := cfg.Autosave()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		cfg:      cfg,
		logger:   logger,
		autosave: autosave,
		sessions: make(map[string]*Session),
	}
	s.upgrader = websocket.Upgrader{CheckOrigin: s.checkOrigin}

	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/sessions", s.HandleCreateSession).Methods(http.MethodPost)
	router.HandleFunc("/sessions/{id}", s.HandleGetSession).Methods(http.MethodGet)
	router.HandleFunc("/sessions/{id}/ticks", s.HandleTick).Methods(http.MethodPost)
	router.HandleFunc("/sessions/{id}/midi", s.HandleMidi).Methods(http.MethodGet)
	router.HandleFunc("/sessions/{id}/stream", s.HandleStream).Methods(http.MethodGet)
	s.router = router
	return s, nil
}

// Handler is the router wrapped in CORS.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
	})
	return c.Handler(s.router)
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || slices.Contains(s.cfg.AllowedOrigins, "*") {
		return true
	}
	return slices.Contains(s.cfg.AllowedOrigins, origin)
}

// CreateSession starts a session. Without a seed it falls back to the
// configured one and then to a random one.
func (s *Server) CreateSession(seed *uint64) *Session {
	var actual uint64
	switch {
	case seed != nil:
		actual = *seed
	case s.cfg.Seed != nil:
		actual = *s.cfg.Seed
	default:
		actual = rand.Uint64()
	}

	sess := newSession(uuid.New().String(), actual, s.cfg.Durations())
	if s.autosave > 0 {
		debounced := debounce.New(s.autosave)
		sess.touched = func() {
			debounced(func() { s.save(sess) })
		}
	}

	s.mu.Lock()
	s.sessions[sess.Id] = sess
	s.mu.Unlock()

	s.logger.Info("session created", "id", sess.Id, "seed", actual)
	return sess
}

func (s *Server) Session(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrNoSession, id)
	}
	return sess, nil
}

func (s *Server) save(sess *Session) {
	path, err := sess.Save(s.cfg.OutDir)
	if err != nil {
		s.logger.Error("autosave failed", "id", sess.Id, "error", err)
		return
	}
	s.logger.Info("session saved", "id", sess.Id, "path", path)
}

// Flush saves every session that has played at least one tick.
func (s *Server) Flush() {
	s.mu.Lock()
	sessions := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.mu.Unlock()

	for _, sess := range sessions {
		if sess.rec.Len() > 0 {
			s.save(sess)
		}
	}
}

// ListenAndServe runs until ctx is done, then shuts down and flushes the
// sessions if autosave is on.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.Listen,
		Handler: s.Handler(),
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.logger.Info("listening", "addr", s.cfg.Listen)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	if s.autosave > 0 {
		s.Flush()
	}
	return err
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, model.ErrorResponse{Error: err.Error()})
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	sess, err := s.Session(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return nil, false
	}
	return sess, true
}

func decodeSample(data []byte) (model.MotionSample, error) {
	var sample model.MotionSample
	if err := json.Unmarshal(data, &sample); err != nil {
		return sample, fmt.Errorf("could not unmarshal sample: %w", err)
	}
	return sample, nil
}

func (s *Server) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	var input model.CreateSessionRequestBody
	// an empty body is a session without a seed
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, fmt.Errorf("could not unmarshal request body: %w", err))
		return
	}
	sess := s.CreateSession(input.Seed)
	writeJSON(w, http.StatusCreated, sess.Summary())
}

func (s *Server) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.Summary())
}

func (s *Server) HandleTick(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var sample model.MotionSample
	if err := json.NewDecoder(r.Body).Decode(&sample); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("could not unmarshal sample: %w", err))
		return
	}
	idx, tick := sess.Tick(sample)
	writeJSON(w, http.StatusOK, model.TickResponse{SessionId: sess.Id, Index: idx, Tick: tick})
}

func (s *Server) HandleMidi(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "audio/midi")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", sess.Id+".mid"))
	if err := sess.WriteMidi(w); err != nil {
		s.logger.Error("could not write midi", "id", sess.Id, "error", err)
	}
}

// HandleStream upgrades to a WebSocket. Each text frame is a sample and is
// answered with a TickResponse, or an ErrorResponse if it does not parse.
func (s *Server) HandleStream(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("websocket upgrade failed", "error", err)
		return
	}
	defer ws.Close()

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debug("stream closed", "id", sess.Id, "error", err)
			}
			return
		}

		sample, err := decodeSample(data)
		var reply any
		if err != nil {
			reply = model.ErrorResponse{Error: err.Error()}
		} else {
			idx, tick := sess.Tick(sample)
			reply = model.TickResponse{SessionId: sess.Id, Index: idx, Tick: tick}
		}
		if err := ws.WriteJSON(reply); err != nil {
			s.logger.Debug("stream write failed", "id", sess.Id, "error", err)
			return
		}
	}
}
