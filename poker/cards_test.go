package poker

import (
	"math/bits"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCardCreation(t *testing.T) {
	t.Parallel()
	aceSpades := NewCard(Ace, Spades)
	assert.Equal(t, Ace, aceSpades.Rank())
	assert.Equal(t, Spades, aceSpades.Suit())
	assert.Equal(t, "As", aceSpades.String())

	twoClubs := NewCard(Two, Clubs)
	assert.Equal(t, "2c", twoClubs.String())
}

func TestParseCard(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		input    string
		wantCard Card
		wantErr  bool
	}{
		{name: "ace of spades", input: "As", wantCard: NewCard(12, 3)},
		{name: "two of hearts", input: "2h", wantCard: NewCard(0, 2)},
		{name: "king of diamonds", input: "Kd", wantCard: NewCard(11, 1)},
		{name: "ten of clubs", input: "Tc", wantCard: NewCard(8, 0)},
		{name: "nine of spades", input: "9s", wantCard: NewCard(7, 3)},
		{name: "invalid rank", input: "Xs", wantErr: true},
		{name: "invalid suit", input: "Ax", wantErr: true},
		{name: "empty string", input: "", wantErr: true},
		{name: "too short", input: "A", wantErr: true},
		{name: "too long", input: "Asd", wantErr: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			card, err := ParseCard(tc.input)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantCard, card)
		})
	}
}

func TestAll52Cards(t *testing.T) {
	t.Parallel()
	seen := make(map[string]bool)

	for suit := uint8(0); suit < 4; suit++ {
		for rank := uint8(0); rank < 13; rank++ {
			card := NewCard(rank, suit)
			str := card.String()

			assert.False(t, seen[str], "duplicate card %s", str)
			seen[str] = true

			parsed, err := ParseCard(str)
			require.NoError(t, err)
			assert.Equal(t, card, parsed)
		}
	}

	assert.Len(t, seen, 52)
}

func TestHandOperations(t *testing.T) {
	t.Parallel()
	aceSpades, _ := ParseCard("As")
	kingHearts, _ := ParseCard("Kh")
	queenDiamonds, _ := ParseCard("Qd")

	hand := NewHand(aceSpades, kingHearts)

	assert.True(t, hand.Has(aceSpades))
	assert.True(t, hand.Has(kingHearts))
	assert.False(t, hand.Has(queenDiamonds))
	assert.Equal(t, 2, hand.Count())

	hand.Add(queenDiamonds)
	assert.True(t, hand.Has(queenDiamonds))
	assert.Equal(t, 3, hand.Count())
}

func TestHandBitset(t *testing.T) {
	t.Parallel()
	aceSpades, _ := ParseCard("As")
	aceHearts, _ := ParseCard("Ah")
	twoClubs, _ := ParseCard("2c")

	assert.Equal(t, 1, bits.OnesCount64(uint64(aceSpades)))
	assert.Zero(t, aceSpades&aceHearts)
	assert.Zero(t, aceSpades&twoClubs)
	assert.Zero(t, aceHearts&twoClubs)

	combined := Hand(aceSpades) | Hand(aceHearts) | Hand(twoClubs)
	assert.Equal(t, 3, combined.Count())
}

func TestSuitMask(t *testing.T) {
	t.Parallel()
	var cards []Card
	for rank := uint8(0); rank < 13; rank++ {
		cards = append(cards, NewCard(rank, Spades))
	}
	hand := NewHand(cards...)

	assert.Equal(t, uint16(0x1FFF), hand.SuitMask(Spades))
	assert.Zero(t, hand.SuitMask(Hearts))
}

func TestDeck(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewPCG(42, 42))
	deck := NewDeck(rng)

	cards1 := deck.Deal(2)
	require.Len(t, cards1, 2)

	cards2 := deck.Deal(3)
	require.Len(t, cards2, 3)

	for _, c1 := range cards1 {
		for _, c2 := range cards2 {
			assert.NotEqual(t, c1, c2)
		}
	}

	remaining := deck.Deal(47)
	require.Len(t, remaining, 47)

	assert.Nil(t, deck.Deal(1))

	deck.Reset()
	assert.Len(t, deck.Deal(2), 2)
}

func BenchmarkCardString(b *testing.B) {
	card := NewCard(Ace, Spades)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = card.String()
	}
}
