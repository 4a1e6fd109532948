package server

import (
	"holdem-tourney/internal/game"
	"holdem-tourney/internal/protocol"
	"holdem-tourney/poker"
)

const hiddenCard = "??"

// cardStrings renders a hand's cards in wire notation. Order follows the
// hand's internal bit layout, not deal order; callers only ever render
// either a full board (where a set's order carries no meaning) or exactly
// two hole cards (where order never mattered on the wire either).
func cardStrings(h poker.Hand) []string {
	cards := h.Cards()
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.String()
	}
	return out
}

// holeCardsFor renders a player's hole cards as seen by recipientSeat:
// the player's own cards if recipientSeat is that seat, otherwise "??"
// twice.
func holeCardsFor(p *game.Player, recipientSeat int) ([]string, bool) {
	if p.Seat == recipientSeat {
		return cardStrings(p.HoleCards), true
	}
	return []string{hiddenCard, hiddenCard}, false
}

// buildValidActions translates the hand engine's legal actions for the
// current actor into the wire's three-shape action vocabulary. The engine
// distinguishes a short all-in from a full raise or a short call
// internally, but the wire only ever sees fold/check/call/raise: an all-in
// that covers less than the amount owed to call renders as a capped call,
// anything else renders as a raise to the all-in total.
func buildValidActions(h *game.HandState) []protocol.ValidAction {
	legal := h.LegalActions()
	if len(legal) == 0 {
		return nil
	}

	var actor *game.Player
	for _, p := range h.Players {
		if p.Seat == h.ActiveSeat {
			actor = p
			break
		}
	}
	if actor == nil {
		return nil
	}
	toCall := h.Betting.CurrentBet - actor.CurrentBet

	out := make([]protocol.ValidAction, 0, len(legal))
	for _, la := range legal {
		switch la.Action {
		case game.Fold:
			out = append(out, protocol.ValidAction{Type: protocol.ActionFold})
		case game.Check:
			out = append(out, protocol.ValidAction{Type: protocol.ActionCheck})
		case game.Call:
			out = append(out, protocol.ValidAction{Type: protocol.ActionCall, Amount: la.Amount})
		case game.Raise:
			out = append(out, protocol.ValidAction{Type: protocol.ActionRaise, MinAmount: la.MinAmount, MaxAmount: la.MaxAmount})
		case game.AllIn:
			if la.Amount <= toCall {
				out = append(out, protocol.ValidAction{Type: protocol.ActionCall, Amount: la.Amount})
			} else {
				total := actor.CurrentBet + la.Amount
				out = append(out, protocol.ValidAction{Type: protocol.ActionRaise, MinAmount: total, MaxAmount: total})
			}
		}
	}
	return out
}

// projectPlayerView renders one seat's state as visible to recipientSeat.
func projectPlayerView(p *game.Player, recipientSeat, dealerSeat, sbSeat, bbSeat int) protocol.PlayerView {
	holeCards, known := holeCardsFor(p, recipientSeat)
	return protocol.PlayerView{
		Seat:           p.Seat,
		Name:           p.Name,
		Stack:          *p.Stack,
		CurrentBet:     p.CurrentBet,
		IsActive:       p.IsActive,
		IsAllIn:        p.IsAllIn,
		IsDealer:       p.Seat == dealerSeat,
		IsSmallBlind:   p.Seat == sbSeat,
		IsBigBlind:     p.Seat == bbSeat,
		HoleCards:      holeCards,
		HoleCardsKnown: known,
	}
}

// sbSeatOf and bbSeatOf derive the blind seats from the hand's own notion
// of button and player ordering, mirroring the rotation the betting round
// used to post them.
func sbSeatOf(h *game.HandState) int {
	idx := dealerIndex(h)
	n := len(h.Players)
	if n == 2 {
		return h.Players[idx].Seat
	}
	return h.Players[(idx+1)%n].Seat
}

func bbSeatOf(h *game.HandState) int {
	idx := dealerIndex(h)
	n := len(h.Players)
	if n == 2 {
		return h.Players[(idx+1)%n].Seat
	}
	return h.Players[(idx+2)%n].Seat
}

func dealerIndex(h *game.HandState) int {
	for i, p := range h.Players {
		if p.Seat == h.ButtonSeat {
			return i
		}
	}
	return 0
}

// projectGameState renders the full embedded game_state for recipientSeat.
func projectGameState(h *game.HandState, handNumber, recipientSeat int) protocol.GameState {
	sbSeat, bbSeat := sbSeatOf(h), bbSeatOf(h)

	players := make([]protocol.PlayerView, len(h.Players))
	for i, p := range h.Players {
		players[i] = projectPlayerView(p, recipientSeat, h.ButtonSeat, sbSeat, bbSeat)
	}

	pot := protocol.PotView{}
	for _, p := range h.Pots() {
		pot.Total += p.Amount
		pot.Pots = append(pot.Pots, protocol.PotEntry{Amount: p.Amount, EligibleSeats: p.Eligible})
	}

	var validActions []protocol.ValidAction
	if h.ActiveSeat == recipientSeat {
		validActions = buildValidActions(h)
	}

	return protocol.GameState{
		Street:           h.Street.String(),
		HandNumber:       handNumber,
		CommunityCards:   cardStrings(h.Board),
		Pot:              pot,
		Players:          players,
		ActorSeat:        h.ActiveSeat,
		ValidActions:     validActions,
		DealerSeat:       h.ButtonSeat,
		SmallBlindSeat:   sbSeat,
		BigBlindSeat:     bbSeat,
		SmallBlindAmount: h.SmallBlind,
		BigBlindAmount:   h.BigBlind,
	}
}
