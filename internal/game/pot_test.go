package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartitionPotsSingleLevel(t *testing.T) {
	t.Parallel()
	committed := []int{100, 100, 100}
	active := []bool{true, true, true}

	pots := PartitionPots(committed, active)

	require.Len(t, pots, 1)
	assert.Equal(t, 300, pots[0].Amount)
	assert.ElementsMatch(t, []int{0, 1, 2}, pots[0].Eligible)
}

func TestPartitionPotsSidePotFromShortAllIn(t *testing.T) {
	t.Parallel()
	// seat 0 all-in for 50, seats 1 and 2 each commit 150.
	committed := []int{50, 150, 150}
	active := []bool{true, true, true}

	pots := PartitionPots(committed, active)

	require.Len(t, pots, 2)
	assert.Equal(t, 150, pots[0].Amount) // 50*3
	assert.ElementsMatch(t, []int{0, 1, 2}, pots[0].Eligible)
	assert.Equal(t, 200, pots[1].Amount) // 100*2
	assert.ElementsMatch(t, []int{1, 2}, pots[1].Eligible)
}

func TestPartitionPotsFoldedSeatStillContributes(t *testing.T) {
	t.Parallel()
	// seat 0 folded after committing 50, seats 1 and 2 committed 100.
	committed := []int{50, 100, 100}
	active := []bool{false, true, true}

	pots := PartitionPots(committed, active)

	require.Len(t, pots, 1)
	assert.Equal(t, 250, pots[0].Amount)
	assert.ElementsMatch(t, []int{1, 2}, pots[0].Eligible)
}

func TestPartitionPotsEmptyTierCollapsesForward(t *testing.T) {
	t.Parallel()
	// seat 0 folded after committing 200 (the highest level), so no active
	// seat reaches that tier; it must roll into the prior pot rather than
	// vanish.
	committed := []int{200, 100, 100}
	active := []bool{false, true, true}

	pots := PartitionPots(committed, active)

	require.Len(t, pots, 1)
	assert.Equal(t, 400, pots[0].Amount)
	assert.ElementsMatch(t, []int{1, 2}, pots[0].Eligible)
}

func TestDistributeSplitsTiesEvenlyWithClockwiseRemainder(t *testing.T) {
	t.Parallel()
	pots := []Pot{{Amount: 100, Eligible: []int{0, 1, 2}}}
	// All three tie; dealer is seat 2, so the odd chip goes to seat 0
	// (closest clockwise from dealer+1=seat 0 itself in a 3-seat game).
	rank := func(seat int) int64 { return 1 }

	winnings := Distribute(pots, 2, 3, rank)

	total := winnings[0] + winnings[1] + winnings[2]
	assert.Equal(t, 100, total)
	assert.Equal(t, 34, winnings[0])
	assert.Equal(t, 33, winnings[1])
	assert.Equal(t, 33, winnings[2])
}

func TestDistributeSoleEligibleWinsWithoutRanking(t *testing.T) {
	t.Parallel()
	pots := []Pot{{Amount: 50, Eligible: []int{1}}}
	called := false
	rank := func(seat int) int64 {
		called = true
		return 0
	}

	winnings := Distribute(pots, 0, 4, rank)

	assert.Equal(t, 50, winnings[1])
	assert.False(t, called, "rank should never be consulted for a sole eligible seat")
}

func TestDistributeHigherRankTakesWholePot(t *testing.T) {
	t.Parallel()
	pots := []Pot{{Amount: 90, Eligible: []int{0, 1}}}
	rank := func(seat int) int64 {
		if seat == 1 {
			return 100
		}
		return 50
	}

	winnings := Distribute(pots, 0, 2, rank)

	assert.Equal(t, 0, winnings[0])
	assert.Equal(t, 90, winnings[1])
}
