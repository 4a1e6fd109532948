package game

import (
	"math/rand/v2"

	"holdem-tourney/poker"
)

// HandOption configures a HandState during creation.
type HandOption func(*handConfig)

type handConfig struct {
	deck *poker.Deck
}

// WithDeck sets a specific pre-shuffled deck, overriding the RNG for deck
// creation. Used by tests that need a known card sequence.
func WithDeck(deck *poker.Deck) HandOption {
	return func(c *handConfig) {
		c.deck = deck
	}
}

// NewHand deals a new hand for the given seats. players must already carry
// their permanent Seat, Name, and a Stack pointing into the tournament's
// persistent chip counts, sorted ascending by Seat; NewHand resets their
// per-hand fields (HoleCards, bets, folded/all-in flags), posts blinds out
// of their stacks, and deals hole cards. buttonSeat must be one of the
// seats present.
func NewHand(rng *rand.Rand, players []*Player, buttonSeat, smallBlind, bigBlind int, opts ...HandOption) *HandState {
	if rng == nil {
		panic("rng is required for hand creation")
	}
	if len(players) < 2 {
		panic("at least 2 players required")
	}

	cfg := &handConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	buttonIdx := -1
	for i, p := range players {
		p.IsActive = true
		p.IsAllIn = false
		p.CurrentBet = 0
		p.TotalCommitted = 0
		p.HoleCards = 0
		if p.Seat == buttonSeat {
			buttonIdx = i
		}
	}
	if buttonIdx == -1 {
		panic("button seat is not among the dealt-in players")
	}

	deck := cfg.deck
	if deck == nil {
		deck = poker.NewDeck(rng)
	}

	h := &HandState{
		Players:    players,
		ButtonSeat: buttonSeat,
		Street:     Preflop,
		Deck:       deck,
		SmallBlind: smallBlind,
		BigBlind:   bigBlind,
		Betting:    NewBettingRound(len(players), bigBlind),
	}

	h.postBlinds(buttonIdx, smallBlind, bigBlind)
	h.dealHoleCards()

	if len(players) == 2 {
		h.ActiveSeat = players[buttonIdx].Seat
	} else {
		utgIdx := h.nextActiveIndex((buttonIdx + 3) % len(players))
		h.ActiveSeat = h.seatAt(utgIdx)
	}

	return h
}
