package poker

import "math/rand/v2"

// Deck is a sequence of the 52 standard playing cards, dealt off the front
// as hands and boards are drawn. It does not reshuffle between Deal calls;
// callers build one fresh Deck per hand via NewDeck.
type Deck struct {
	cards  []Card
	dealt  int
	source *rand.Rand
}

// NewDeck builds a freshly shuffled 52-card deck. rng may be nil, in which
// case the package-level rand source is used — callers that need a
// reproducible shuffle must pass their own *rand.Rand.
func NewDeck(rng *rand.Rand) *Deck {
	cards := make([]Card, 0, 52)
	for suit := uint8(0); suit < 4; suit++ {
		for rank := uint8(0); rank < 13; rank++ {
			cards = append(cards, NewCard(rank, suit))
		}
	}
	d := &Deck{cards: cards, source: rng}
	d.Shuffle()
	return d
}

// Shuffle randomizes the deck in place and rewinds it to the top. Safe to
// call on a partially dealt deck to start a fresh hand from the same
// allocation.
func (d *Deck) Shuffle() {
	if d.source != nil {
		d.source.Shuffle(len(d.cards), d.swap)
	} else {
		rand.Shuffle(len(d.cards), d.swap)
	}
	d.dealt = 0
}

func (d *Deck) swap(i, j int) {
	d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
}

// Deal removes and returns the next n cards off the top of the deck, or nil
// if fewer than n remain.
func (d *Deck) Deal(n int) []Card {
	if d.dealt+n > len(d.cards) {
		return nil
	}
	out := d.cards[d.dealt : d.dealt+n]
	d.dealt += n
	return out
}

// DealOne deals a single card, or the zero Card if the deck is exhausted.
func (d *Deck) DealOne() Card {
	if d.dealt >= len(d.cards) {
		return 0
	}
	c := d.cards[d.dealt]
	d.dealt++
	return c
}

// Reset reshuffles the deck and rewinds it, for reuse across hands without
// reallocating.
func (d *Deck) Reset() {
	d.Shuffle()
}

// CardsRemaining reports how many cards have not yet been dealt.
func (d *Deck) CardsRemaining() int {
	return len(d.cards) - d.dealt
}
