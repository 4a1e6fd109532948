package server

import "holdem-tourney/internal/protocol"

// sendTo marshals and enqueues one message on a single connection.
func (c *coordinator) sendTo(conn *Conn, v interface{}) {
	data, err := protocol.Marshal(v)
	if err != nil {
		c.logger.Error().Err(err).Msg("failed to marshal outbound message")
		return
	}
	conn.Send(data)
}

// sendError sends a wire error frame to a single connection and logs the
// protocol violation that triggered it at Warn, per the server's logging
// idiom for per-message client errors.
func (c *coordinator) sendError(conn *Conn, code, message string) {
	c.logger.Warn().Str("code", code).Str("name", conn.Name()).Msg(message)
	c.sendTo(conn, &protocol.Error{Type: protocol.TypeError, Code: code, Message: message})
}

// broadcastAll marshals v once and sends the identical bytes to every
// joined seat. Only safe for messages whose content is the same for every
// recipient; anything that varies by recipient (game_state) must be built
// and sent per-connection instead.
func (c *coordinator) broadcastAll(v interface{}) {
	data, err := protocol.Marshal(v)
	if err != nil {
		c.logger.Error().Err(err).Msg("failed to marshal broadcast message")
		return
	}
	for _, conn := range c.seatConns {
		if conn != nil {
			conn.Send(data)
		}
	}
}

// broadcastActionResult sends an action_result to every joined seat with
// each recipient's own game_state projection, since hole-card visibility
// and valid_actions differ by recipient.
func (c *coordinator) broadcastActionResult(base protocol.ActionResult) {
	for seat, conn := range c.seatConns {
		if conn == nil {
			continue
		}
		msg := base
		msg.GameState = projectGameState(c.hand, c.handNumber, seat)
		c.sendTo(conn, &msg)
	}
}

// broadcastWaiting is sent to every joined seat whenever the lobby roster
// changes.
func (c *coordinator) broadcastWaiting() {
	c.broadcastAll(&protocol.Waiting{
		Type:           protocol.TypeWaiting,
		CurrentPlayers: c.srv.tm.SeatCount(),
		MinPlayers:     c.srv.tm.MinPlayers(),
		MaxPlayers:     c.srv.tm.MaxPlayers(),
	})
}
