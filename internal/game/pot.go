package game

import (
	"slices"
	"sort"
)

// Pot is a single main or side pot: an amount and the seats eligible to win
// it. Eligibility is determined once, at partition time, from who was still
// active (not folded) and had committed at least the pot's tier.
type Pot struct {
	Amount   int
	Eligible []int // seat numbers, ascending
}

// PartitionPots builds the ordered main-pot-then-side-pots list from each
// seat's total commitment this hand, following the distinct-commitment-tier
// construction: chips are sliced at every level a player went all-in, and
// each tier's eligibility is whoever folded is excluded and committed at
// least that tier.
//
// totalCommitted and active are parallel slices, and Eligible holds indices
// into them. The hand engine passes dense player indices and maps them back
// to permanent seat numbers itself (HandState.Pots). An entry reporting 0
// and false simply never contributes or qualifies.
func PartitionPots(totalCommitted []int, active []bool) []Pot {
	levelSet := make(map[int]struct{})
	for _, c := range totalCommitted {
		if c > 0 {
			levelSet[c] = struct{}{}
		}
	}
	levels := make([]int, 0, len(levelSet))
	for l := range levelSet {
		levels = append(levels, l)
	}
	sort.Ints(levels)

	pots := make([]Pot, 0, len(levels))
	prev, carry := 0, 0
	for _, level := range levels {
		amount := carry
		for _, committed := range totalCommitted {
			amount += clampContribution(committed, prev, level)
		}

		var eligible []int
		for seat, committed := range totalCommitted {
			if active[seat] && committed >= level {
				eligible = append(eligible, seat)
			}
		}

		prev = level
		if amount <= 0 {
			carry = 0
			continue
		}

		if len(eligible) == 0 {
			// No active seat reached this tier; its chips roll forward into
			// whichever following tier does have an eligible winner.
			carry = amount
			continue
		}

		if n := len(pots); n > 0 && slices.Equal(pots[n-1].Eligible, eligible) {
			// Only a folded seat's commitment separates this tier from the
			// one below it: same contenders, so it is the same pot.
			pots[n-1].Amount += amount
			carry = 0
			continue
		}

		pots = append(pots, Pot{Amount: amount, Eligible: eligible})
		carry = 0
	}

	if carry > 0 && len(pots) > 0 {
		// Trailing tier with no eligible winner: merges back into the last
		// real pot rather than vanishing (every committed chip must be won).
		pots[len(pots)-1].Amount += carry
	}

	return pots
}

func clampContribution(committed, lo, hi int) int {
	c := committed
	if c > hi {
		c = hi
	}
	contribution := c - lo
	if contribution < 0 {
		return 0
	}
	return contribution
}

// Distribute awards each pot to the best-ranked eligible seat(s), splitting
// ties evenly with integer-floor division and handing any remainder one
// chip at a time starting with the seat closest clockwise from
// dealerSeat+1. rank(seat) must return the showdown HandRank for any seat
// that appears in a pot's Eligible list.
//
// Returns, per seat, the number of chips won across every pot (gross, not
// net of that seat's own commitment).
func Distribute(pots []Pot, dealerSeat, numSeats int, rank func(seat int) int64) map[int]int {
	winnings := make(map[int]int)

	for _, pot := range pots {
		if len(pot.Eligible) == 0 || pot.Amount == 0 {
			continue
		}

		var winners []int
		if len(pot.Eligible) == 1 {
			// Sole survivor: award without evaluating, since a hand that
			// ended by folding out may not have reached a street with
			// enough community cards to rank.
			winners = []int{pot.Eligible[0]}
		} else {
			best := pot.Eligible[0]
			bestRank := rank(best)
			winners = []int{best}
			for _, seat := range pot.Eligible[1:] {
				r := rank(seat)
				switch {
				case r > bestRank:
					bestRank = r
					winners = []int{seat}
				case r == bestRank:
					winners = append(winners, seat)
				}
			}
		}

		share := pot.Amount / len(winners)
		remainder := pot.Amount % len(winners)
		for _, seat := range winners {
			winnings[seat] += share
		}

		if remainder > 0 {
			order := clockwiseFrom(dealerSeat+1, numSeats, winners)
			for i := 0; i < remainder; i++ {
				winnings[order[i%len(order)]]++
			}
		}
	}

	return winnings
}

// clockwiseFrom returns the members of candidates sorted by clockwise
// distance from start (mod numSeats), start itself counting as distance 0.
func clockwiseFrom(start, numSeats int, candidates []int) []int {
	start = ((start % numSeats) + numSeats) % numSeats

	type distSeat struct {
		dist, seat int
	}
	ordered := make([]distSeat, 0, len(candidates))
	for _, seat := range candidates {
		d := ((seat - start) % numSeats + numSeats) % numSeats
		ordered = append(ordered, distSeat{d, seat})
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].dist < ordered[j].dist })

	out := make([]int, len(ordered))
	for i, ds := range ordered {
		out[i] = ds.seat
	}
	return out
}
