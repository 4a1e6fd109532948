package server

import (
	"errors"

	"github.com/coder/quartz"
	"github.com/rs/zerolog"

	"holdem-tourney/internal/game"
	"holdem-tourney/internal/protocol"
	"holdem-tourney/internal/tournament"
)

// wireFoldField is the action echoed back in action_result for every
// auto-fold, whether triggered by a timeout, a disconnect, or a malformed
// decision.
var wireFoldField = protocol.ActionField{Type: protocol.ActionFold}

// phase tracks whether the coordinator is still admitting bots into the
// lobby or already driving hands.
type phase int

const (
	phaseLobby phase = iota
	phasePlaying
)

// pendingRequest tracks the single outstanding action_request, if any. Only
// one can be outstanding at a time: the hand engine only ever suspends
// waiting on one actor.
type pendingRequest struct {
	requestID  string
	actorSeat  int
	handNumber int
}

// coordinator is the sole owner of tournament and hand state. It runs on
// one goroutine (Server.run), reading every connection's traffic through a
// single channel so no lock is ever needed over the hand.
type coordinator struct {
	srv    *Server
	logger zerolog.Logger

	// conns holds sockets that have registered but not yet sent a join.
	conns map[*Conn]struct{}
	// seatConns maps a tournament seat to its live connection, nil once
	// that seat's bot has disconnected.
	seatConns map[int]*Conn

	phase      phase
	lobbyTimer *quartz.Timer
	lobbyFired chan struct{}

	hand       *game.HandState
	handNumber int

	pending     *pendingRequest
	actionTimer *quartz.Timer
	actionFired chan struct{}
}

func (p phase) String() string {
	if p == phasePlaying {
		return "playing"
	}
	return "lobby"
}

func (c *coordinator) phaseString() string {
	return c.phase.String()
}

func newCoordinator(s *Server) *coordinator {
	return &coordinator{
		srv:         s,
		logger:      s.logger.With().Str("component", "coordinator").Logger(),
		conns:       make(map[*Conn]struct{}),
		seatConns:   make(map[int]*Conn),
		lobbyFired:  make(chan struct{}, 1),
		actionFired: make(chan struct{}, 1),
	}
}

// run is the coordinator's event loop: every state change (a new socket, a
// dropped one, an inbound frame, a timer firing) flows through this single
// select so the hand never needs its own lock. A panic anywhere in the loop
// is an internal invariant violation, not a client error: it is caught,
// logged, and escalated to a tournament-wide teardown rather than allowed to
// take the whole process down silently.
func (s *Server) run() {
	c := newCoordinator(s)
	c.logger.Info().Msg("coordinator started")

	// Runs last, after any panic teardown below: however the loop ends,
	// every bot channel is closed.
	defer func() {
		for conn := range c.conns {
			_ = conn.Close()
		}
		for _, conn := range c.seatConns {
			if conn != nil {
				_ = conn.Close()
			}
		}
	}()

	defer func() {
		if r := recover(); r != nil {
			ev := c.logger.Error().Interface("panic", r).Int("hand_number", c.handNumber).Str("phase", c.phaseString())
			if c.hand != nil {
				ev = ev.Int("street", int(c.hand.Street)).Int("active_seat", c.hand.ActiveSeat)
			}
			ev.Msg("coordinator panicked, tearing down tournament")
			c.broadcastAll(&protocol.Error{
				Type:    protocol.TypeError,
				Code:    protocol.ErrInternal,
				Message: "internal error, tournament terminated",
			})
			s.Stop()
		}
	}()

	for {
		select {
		case conn := <-s.register:
			c.handleRegister(conn)

		case conn := <-s.unregister:
			c.handleUnregister(conn)

		case frame := <-s.inbound:
			c.handleFrame(frame)

		case <-c.lobbyFired:
			c.handleLobbyTimer()

		case <-c.actionFired:
			c.handleActionTimeout()

		case <-s.ctx.Done():
			c.logger.Info().Msg("coordinator stopping")
			return
		}
	}
}

func (c *coordinator) handleRegister(conn *Conn) {
	s := c.srv
	if s.tm.Started() {
		c.sendError(conn, protocol.ErrTournamentStarted, "tournament already started")
		_ = conn.Close()
		return
	}
	if s.tm.SeatCount() >= s.tm.MaxPlayers() {
		c.sendError(conn, protocol.ErrTournamentFull, "tournament is full")
		_ = conn.Close()
		return
	}
	c.conns[conn] = struct{}{}
}

func (c *coordinator) handleUnregister(conn *Conn) {
	delete(c.conns, conn)

	seat := conn.Seat()
	if seat < 0 {
		return
	}
	if c.seatConns[seat] == conn {
		c.seatConns[seat] = nil
	}
	c.logger.Info().Int("seat", seat).Str("name", conn.Name()).Msg("bot disconnected")

	if c.phase == phaseLobby {
		return
	}
	if c.pending != nil && c.pending.actorSeat == seat {
		c.applyResolvedAction(seat, game.Fold, 0, wireFoldField, true, false)
	}
}

func (c *coordinator) handleFrame(f inboundFrame) {
	seat := f.conn.Seat()
	if seat < 0 {
		c.handleJoinFrame(f.conn, f.data)
		return
	}
	c.handlePlayFrame(f.conn, seat, f.data)
}

func (c *coordinator) handleJoinFrame(conn *Conn, data []byte) {
	typ, err := protocol.PeekType(data)
	if err != nil {
		c.sendError(conn, protocol.ErrBadJoin, "first message must be valid JSON")
		_ = conn.Close()
		return
	}
	if typ != protocol.TypeJoin {
		c.sendError(conn, protocol.ErrBadJoin, "first message must be a join")
		_ = conn.Close()
		return
	}

	msg, err := protocol.DecodeJoin(data)
	if err != nil {
		c.sendError(conn, protocol.ErrBadJoin, "malformed join")
		_ = conn.Close()
		return
	}

	seat, err := c.srv.tm.Register(msg.Name)
	if err != nil {
		code := protocol.ErrBadName
		switch {
		case errors.Is(err, tournament.ErrTournamentFull):
			code = protocol.ErrTournamentFull
		case errors.Is(err, tournament.ErrTournamentStarted):
			code = protocol.ErrTournamentStarted
		}
		c.sendError(conn, code, err.Error())
		_ = conn.Close()
		return
	}

	conn.SetSeat(seat.Number, seat.Name)
	delete(c.conns, conn)
	c.seatConns[seat.Number] = conn
	c.logger.Info().Int("seat", seat.Number).Str("name", seat.Name).Msg("bot joined")

	c.broadcastWaiting()

	switch {
	case c.srv.tm.SeatCount() >= c.srv.tm.MaxPlayers():
		c.startGame()
	case c.srv.tm.ReadyToStart():
		c.resetLobbyTimer()
	}
}

func (c *coordinator) handlePlayFrame(conn *Conn, seat int, data []byte) {
	typ, err := protocol.PeekType(data)
	if err != nil {
		c.sendError(conn, protocol.ErrBadJSON, "invalid JSON")
		return
	}
	if typ != protocol.TypeAction {
		c.sendError(conn, protocol.ErrUnknownType, "unknown message type")
		return
	}

	isPending := c.pending != nil && c.pending.actorSeat == seat && c.hand != nil

	msg, err := protocol.DecodeAction(data)
	if err != nil {
		c.sendError(conn, protocol.ErrBadAction, "malformed action")
		if isPending {
			c.applyResolvedAction(seat, game.Fold, 0, wireFoldField, false, true)
		}
		return
	}

	if !isPending {
		// Not this seat's turn, or no turn outstanding: discard silently.
		return
	}

	internal, amount, wireEcho, ok := resolveWireAction(c.hand, msg.Action)
	if !ok {
		c.sendError(conn, protocol.ErrBadAction, "action not currently legal")
		c.applyResolvedAction(seat, game.Fold, 0, wireFoldField, false, true)
		return
	}

	c.applyResolvedAction(seat, internal, amount, wireEcho, false, false)
}

func (c *coordinator) handleLobbyTimer() {
	if c.phase != phaseLobby {
		return
	}
	if !c.srv.tm.ReadyToStart() {
		return
	}
	c.startGame()
}

func (c *coordinator) handleActionTimeout() {
	if c.pending == nil {
		return
	}
	seat := c.pending.actorSeat
	c.logger.Info().Int("seat", seat).Msg("action timed out")
	c.applyResolvedAction(seat, game.Fold, 0, wireFoldField, true, false)
}

func (c *coordinator) resetLobbyTimer() {
	if c.lobbyTimer != nil {
		c.lobbyTimer.Stop()
	}
	debounce := c.srv.cfg.Tournament.LobbyDebounceDuration()
	c.lobbyTimer = c.srv.clock.AfterFunc(debounce, func() {
		select {
		case c.lobbyFired <- struct{}{}:
		default:
		}
	})
}
