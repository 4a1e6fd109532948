package server

import (
	"context"
	"encoding/json"
	"math/rand/v2"
	"net/http"

	"github.com/coder/quartz"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"holdem-tourney/internal/tournament"
)

// Server hosts a single tournament over WebSocket. One coordinator
// goroutine (run, in coordinator.go) owns the tournament and all hand
// state; connection read/write pumps run independently so a slow or
// disconnected bot never stalls the hand clock.
type Server struct {
	cfg      *ServerConfig
	upgrader websocket.Upgrader
	logger   zerolog.Logger
	clock    quartz.Clock
	rng      *rand.Rand
	tm       *tournament.Manager

	inbound    chan inboundFrame
	register   chan *Conn
	unregister chan *Conn

	ctx    context.Context
	cancel context.CancelFunc
}

// NewServer builds a Server ready to Start. clock is injectable so tests
// can use quartz.NewMock for deterministic timeout control, and rng so
// tests can reproduce a fixed shuffle sequence.
func NewServer(cfg *ServerConfig, logger zerolog.Logger, clock quartz.Clock, rng *rand.Rand) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		cfg: cfg,
		upgrader: websocket.Upgrader{
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger:     logger,
		clock:      clock,
		rng:        rng,
		tm:         tournament.NewManager(),
		inbound:    make(chan inboundFrame, 256),
		register:   make(chan *Conn),
		unregister: make(chan *Conn),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Start launches the coordinator goroutine and blocks serving HTTP until
// the listener fails or the process is asked to shut down.
func (s *Server) Start() error {
	go s.run()

	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(s.logRequests)
	router.Get("/ws", s.handleWebSocket)
	router.Get("/health", s.handleHealth)

	addr := s.cfg.GetServerAddress()
	s.logger.Info().Str("addr", addr).Msg("starting server")

	httpServer := &http.Server{Addr: addr, Handler: router}
	go func() {
		<-s.ctx.Done()
		_ = httpServer.Close()
	}()
	return httpServer.ListenAndServe()
}

// Stop cancels the coordinator and every connection's context.
func (s *Server) Stop() {
	s.cancel()
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}

	conn := NewConn(ws, s.logger, s.inbound)
	select {
	case s.register <- conn:
	case <-s.ctx.Done():
		_ = conn.Close()
		return
	}

	go func() {
		<-conn.Done()
		select {
		case s.unregister <- conn:
		case <-s.ctx.Done():
		}
	}()
}

// handleHealth is a liveness probe reporting the lobby's current state
// rather than a bare "OK", so an operator can tell a stalled lobby apart
// from a healthy but idle one.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status":          "ok",
		"started":         s.tm.Started(),
		"current_players": s.tm.SeatCount(),
		"min_players":     s.tm.MinPlayers(),
		"max_players":     s.tm.MaxPlayers(),
	})
}

// logRequests is chi-style middleware logging each request through zerolog
// instead of the standard library's request logger.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug().Str("method", r.Method).Str("path", r.URL.Path).Msg("http request")
		next.ServeHTTP(w, r)
	})
}
