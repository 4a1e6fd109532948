package tournament

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAssignsSeatsInOrder(t *testing.T) {
	t.Parallel()
	m := NewManager()

	a, err := m.Register("alice")
	require.NoError(t, err)
	b, err := m.Register("bob")
	require.NoError(t, err)

	assert.Equal(t, 0, a.Number)
	assert.Equal(t, 1, b.Number)
	assert.Equal(t, startingStack, a.Stack)
}

func TestRegisterRejectsDuplicateAndBadNames(t *testing.T) {
	t.Parallel()
	m := NewManager()
	_, err := m.Register("alice")
	require.NoError(t, err)

	_, err = m.Register("alice")
	assert.ErrorIs(t, err, ErrBadName)

	_, err = m.Register("")
	assert.ErrorIs(t, err, ErrBadName)

	_, err = m.Register(string(make([]rune, 33)))
	assert.ErrorIs(t, err, ErrBadName)
}

func TestRegisterRejectsPastCapacity(t *testing.T) {
	t.Parallel()
	m := NewManager()
	for i := 0; i < maxPlayers; i++ {
		_, err := m.Register(string(rune('a' + i)))
		require.NoError(t, err)
	}
	_, err := m.Register("onemore")
	assert.ErrorIs(t, err, ErrTournamentFull)
}

func TestRegisterRejectsAfterStart(t *testing.T) {
	t.Parallel()
	m := NewManager()
	_, err := m.Register("alice")
	require.NoError(t, err)
	_, err = m.Register("bob")
	require.NoError(t, err)

	m.Start()
	_, err = m.Register("carol")
	assert.ErrorIs(t, err, ErrTournamentStarted)
}

func TestStartedReflectsStartCall(t *testing.T) {
	t.Parallel()
	m := NewManager()
	assert.False(t, m.Started())
	m.Start()
	assert.True(t, m.Started())
}

func TestBlindScheduleEscalatesAtThresholds(t *testing.T) {
	t.Parallel()
	cases := []struct {
		hand       int
		small, big int
	}{
		{1, 50, 100},
		{9, 50, 100},
		{10, 100, 200},
		{19, 100, 200},
		{20, 200, 400},
		{30, 400, 800},
		{40, 800, 1600},
		{50, 1600, 3200},
		{500, 1600, 3200},
	}
	for _, tc := range cases {
		small, big := BlindSchedule(tc.hand)
		assert.Equal(t, tc.small, small, "hand %d small blind", tc.hand)
		assert.Equal(t, tc.big, big, "hand %d big blind", tc.hand)
	}
}

func TestStartHandFirstDealerIsSeatZero(t *testing.T) {
	t.Parallel()
	m := NewManager()
	_, _ = m.Register("alice")
	_, _ = m.Register("bob")
	_, _ = m.Register("carol")
	m.Start()

	rng := rand.New(rand.NewPCG(1, 1))
	h := m.StartHand(rng)

	assert.Equal(t, 0, h.ButtonSeat)
	assert.Equal(t, 1, m.HandsPlayed())
	assert.Equal(t, 50, h.SmallBlind)
	assert.Equal(t, 100, h.BigBlind)
}

func TestStartHandRotatesDealerSkippingEliminated(t *testing.T) {
	t.Parallel()
	m := NewManager()
	_, _ = m.Register("alice")
	_, _ = m.Register("bob")
	_, _ = m.Register("carol")
	m.Start()

	rng := rand.New(rand.NewPCG(2, 2))
	m.StartHand(rng) // dealer = 0

	seats := m.Seats()
	seats[1].Eliminated = true // bob is out

	h := m.StartHand(rng)
	assert.Equal(t, 2, h.ButtonSeat, "dealer should skip the eliminated seat")
}

func TestMarkEliminatedFlagsZeroStacks(t *testing.T) {
	t.Parallel()
	m := NewManager()
	_, _ = m.Register("alice")
	_, _ = m.Register("bob")
	m.Start()

	m.Seats()[1].Stack = 0
	eliminated := m.MarkEliminated()

	require.Len(t, eliminated, 1)
	assert.Equal(t, "bob", eliminated[0].Name)
	assert.True(t, m.Seats()[1].Eliminated)
}

func TestIsOverWithOneSeatRemaining(t *testing.T) {
	t.Parallel()
	m := NewManager()
	_, _ = m.Register("alice")
	_, _ = m.Register("bob")
	m.Start()

	rng := rand.New(rand.NewPCG(3, 3))
	m.StartHand(rng)

	assert.False(t, m.IsOver())

	m.Seats()[1].Eliminated = true
	assert.True(t, m.IsOver())
	assert.Equal(t, "alice", m.Winner().Name)
}
