package server

import (
	"sort"

	"github.com/google/uuid"

	"holdem-tourney/internal/game"
	"holdem-tourney/internal/protocol"
)

// startGame freezes the roster, announces game_start, and deals the first
// hand. Called either once the lobby debounce fires with enough players, or
// immediately once the roster fills to capacity.
func (c *coordinator) startGame() {
	c.phase = phasePlaying
	c.srv.tm.Start()
	if c.lobbyTimer != nil {
		c.lobbyTimer.Stop()
		c.lobbyTimer = nil
	}

	names, stacks := c.rosterArrays()
	small, big := c.srv.tm.CurrentBlinds()

	c.broadcastAll(&protocol.GameStart{
		Type:           protocol.TypeGameStart,
		PlayerNames:    names,
		StartingStacks: stacks,
		SmallBlind:     small,
		BigBlind:       big,
	})

	c.logger.Info().Int("players", len(names)).Msg("tournament starting")
	c.startNextHand()
}

// startNextHand deals a fresh hand from the tournament manager, announces
// hand_start to every seat with cards masked per recipient, and requests
// the first decision.
func (c *coordinator) startNextHand() {
	c.hand = c.srv.tm.StartHand(c.srv.rng)
	c.handNumber = c.srv.tm.HandsPlayed()
	c.pending = nil

	small, big := c.srv.tm.CurrentBlinds()
	c.logger.Info().Int("hand", c.handNumber).Int("small_blind", small).Int("big_blind", big).Msg("hand started")

	names, stacks := c.rosterArrays()
	sbSeat, bbSeat := sbSeatOf(c.hand), bbSeatOf(c.hand)

	for seat, conn := range c.seatConns {
		if conn == nil {
			continue
		}
		start := &protocol.HandStart{
			Type:             protocol.TypeHandStart,
			HandNumber:       c.handNumber,
			DealerSeat:       c.hand.ButtonSeat,
			SmallBlindSeat:   sbSeat,
			BigBlindSeat:     bbSeat,
			SmallBlindAmount: small,
			BigBlindAmount:   big,
			PlayerNames:      names,
			Stacks:           stacks,
			HoleCards:        c.holeCardsFlat(seat, len(names)),
		}
		c.sendTo(conn, start)
	}

	c.requestAction()
}

// holeCardsFlat renders the flat, seat-indexed hole-card array for
// recipientSeat: "??" for every seat but the recipient's own, and for any
// seat not currently dealt into the hand at all.
func (c *coordinator) holeCardsFlat(recipientSeat, numSeats int) []string {
	out := make([]string, 2*numSeats)
	for i := range out {
		out[i] = hiddenCard
	}
	for _, p := range c.hand.Players {
		if p.Seat == recipientSeat {
			cards := cardStrings(p.HoleCards)
			if len(cards) == 2 {
				out[2*p.Seat], out[2*p.Seat+1] = cards[0], cards[1]
			}
			break
		}
	}
	return out
}

// requestAction sends action_request to the seat currently on act. A seat
// with no live connection is auto-folded immediately rather than waiting
// out a timer nobody can answer.
func (c *coordinator) requestAction() {
	seat := c.hand.ActiveSeat
	if seat < 0 {
		c.finishHand()
		return
	}

	conn := c.seatConns[seat]
	if conn == nil {
		c.logger.Info().Int("seat", seat).Msg("acting seat has no connection, auto-folding")
		c.applyResolvedAction(seat, game.Fold, 0, wireFoldField, true, false)
		return
	}

	requestID := uuid.NewString()
	c.pending = &pendingRequest{requestID: requestID, actorSeat: seat, handNumber: c.handNumber}

	timeout := c.srv.cfg.Tournament.ActionTimeoutDuration()
	req := &protocol.ActionRequest{
		Type:           protocol.TypeActionRequest,
		ActorSeat:      seat,
		TimeoutSeconds: int(timeout.Seconds()),
		GameState:      projectGameState(c.hand, c.handNumber, seat),
	}
	c.sendTo(conn, req)

	c.actionTimer = c.srv.clock.AfterFunc(timeout, func() {
		select {
		case c.actionFired <- struct{}{}:
		default:
		}
	})

	c.logger.Debug().Int("seat", seat).Str("request_id", requestID).Msg("action requested")
}

// applyResolvedAction applies seat's decision to the hand, broadcasts the
// result, and either requests the next decision or finishes the hand.
// timedOut and invalid both force a fold regardless of action/amount; only
// one of the two flags is ever set at a time.
func (c *coordinator) applyResolvedAction(seat int, action game.Action, amount int, wireEcho protocol.ActionField, timedOut, invalid bool) {
	if c.actionTimer != nil {
		c.actionTimer.Stop()
		c.actionTimer = nil
	}
	if c.pending != nil {
		c.logger.Debug().Str("request_id", c.pending.requestID).Msg("action resolved")
	}
	c.pending = nil

	if timedOut || invalid {
		c.hand.ForceFold(seat)
	} else if err := c.hand.ProcessAction(seat, action, amount); err != nil {
		c.logger.Error().Err(err).Int("seat", seat).Msg("legal action rejected by engine")
		c.hand.ForceFold(seat)
		invalid = true
	}

	var name string
	for _, p := range c.hand.Players {
		if p.Seat == seat {
			name = p.Name
			break
		}
	}

	c.broadcastActionResult(protocol.ActionResult{
		Type:       protocol.TypeActionResult,
		ActorSeat:  seat,
		PlayerName: name,
		Action:     wireEcho,
		TimedOut:   timedOut,
		Invalid:    invalid,
	})

	if c.hand.IsComplete() {
		c.finishHand()
		return
	}
	c.requestAction()
}

// finishHand awards the pots, reveals cards for any real showdown (never
// for a fold-out), broadcasts hand_end, and either starts the next hand or
// ends the tournament.
func (c *coordinator) finishHand() {
	hand := c.hand
	awarded := hand.Award()

	activeAtEnd := 0
	for _, p := range hand.Players {
		if p.IsActive {
			activeAtEnd++
		}
	}

	var revealed []protocol.RevealedHand
	if activeAtEnd >= 2 {
		for _, p := range hand.Players {
			if p.IsActive {
				revealed = append(revealed, protocol.RevealedHand{
					Seat:      p.Seat,
					Name:      p.Name,
					HoleCards: cardStrings(p.HoleCards),
				})
			}
		}
	}

	var winners []protocol.Winner
	for _, p := range hand.Players {
		gross, ok := awarded[p.Seat]
		if !ok || gross == 0 {
			continue
		}
		winners = append(winners, protocol.Winner{
			Seat:      p.Seat,
			Name:      p.Name,
			AmountWon: gross - p.TotalCommitted,
		})
	}
	sort.Slice(winners, func(i, j int) bool { return winners[i].Seat < winners[j].Seat })

	names, stacks := c.rosterArrays()
	eliminated := c.srv.tm.MarkEliminated()
	eliminatedSeats := make([]int, len(eliminated))
	for i, s := range eliminated {
		eliminatedSeats[i] = s.Number
	}

	c.broadcastAll(&protocol.HandEnd{
		Type:              protocol.TypeHandEnd,
		HandNumber:        c.handNumber,
		Winners:           winners,
		HoleCardsRevealed: revealed,
		FinalStacks:       stacks,
		PlayerNames:       names,
		EliminatedSeats:   eliminatedSeats,
	})

	// Seats eliminated this hand still receive its hand_end above, then
	// take no further part.
	for _, s := range eliminated {
		delete(c.seatConns, s.Number)
	}

	c.hand = nil

	if c.srv.tm.IsOver() {
		c.endGame()
		return
	}
	c.startNextHand()
}

// endGame announces the tournament's sole remaining seat as champion.
func (c *coordinator) endGame() {
	winner := c.srv.tm.Winner()
	names, stacks := c.rosterArrays()

	c.broadcastAll(&protocol.GameEnd{
		Type:        protocol.TypeGameEnd,
		Winner:      winner.Name,
		WinnerSeat:  winner.Number,
		FinalStacks: stacks,
		PlayerNames: names,
		TotalHands:  c.srv.tm.HandsPlayed(),
	})

	c.logger.Info().Str("winner", winner.Name).Int("hands", c.srv.tm.HandsPlayed()).Msg("tournament complete")
}

// rosterArrays builds the parallel name/stack arrays indexed by seat number
// that every broadcast announcing roster state carries.
func (c *coordinator) rosterArrays() (names []string, stacks []int) {
	seats := c.srv.tm.Seats()
	names = make([]string, len(seats))
	stacks = make([]int, len(seats))
	for i, s := range seats {
		names[i] = s.Name
		stacks[i] = s.Stack
	}
	return names, stacks
}

// resolveWireAction translates a client's wire-level decision into the
// internal action the hand engine expects, validating it against the
// actor's current legal action set. It also returns the wire shape that
// should be echoed back in the broadcast action_result: the engine's
// internal vocabulary distinguishes a genuine raise from a short all-in,
// but the wire only ever speaks fold/check/call/raise.
func resolveWireAction(h *game.HandState, field protocol.ActionField) (action game.Action, amount int, wireEcho protocol.ActionField, ok bool) {
	legal := h.LegalActions()

	var actor *game.Player
	for _, p := range h.Players {
		if p.Seat == h.ActiveSeat {
			actor = p
			break
		}
	}
	if actor == nil {
		return 0, 0, protocol.ActionField{}, false
	}
	toCall := h.Betting.CurrentBet - actor.CurrentBet

	find := func(a game.Action) (game.LegalAction, bool) {
		for _, la := range legal {
			if la.Action == a {
				return la, true
			}
		}
		return game.LegalAction{}, false
	}

	switch field.Type {
	case protocol.ActionFold:
		if _, found := find(game.Fold); found {
			return game.Fold, 0, protocol.ActionField{Type: protocol.ActionFold}, true
		}

	case protocol.ActionCheck:
		if _, found := find(game.Check); found {
			return game.Check, 0, protocol.ActionField{Type: protocol.ActionCheck}, true
		}

	case protocol.ActionCall:
		if la, found := find(game.Call); found {
			return game.Call, 0, protocol.ActionField{Type: protocol.ActionCall, Amount: intPtr(la.Amount)}, true
		}
		if la, found := find(game.AllIn); found && la.Amount <= toCall {
			return game.AllIn, 0, protocol.ActionField{Type: protocol.ActionCall, Amount: intPtr(la.Amount)}, true
		}

	case protocol.ActionRaise:
		if field.Amount == nil {
			return 0, 0, protocol.ActionField{}, false
		}
		if la, found := find(game.Raise); found {
			amt := *field.Amount
			if amt < la.MinAmount {
				amt = la.MinAmount
			}
			if amt > la.MaxAmount {
				amt = la.MaxAmount
			}
			return game.Raise, amt, protocol.ActionField{Type: protocol.ActionRaise, Amount: intPtr(amt)}, true
		}
		if la, found := find(game.AllIn); found && la.Amount > toCall {
			total := actor.CurrentBet + la.Amount
			return game.AllIn, 0, protocol.ActionField{Type: protocol.ActionRaise, Amount: intPtr(total)}, true
		}
	}

	return 0, 0, protocol.ActionField{}, false
}

func intPtr(v int) *int {
	return &v
}
