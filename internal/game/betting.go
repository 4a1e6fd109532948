package game

// Street identifies which betting round is in progress.
type Street int

const (
	Preflop Street = iota
	Flop
	Turn
	River
	Showdown
)

func (s Street) String() string {
	return [...]string{"preflop", "flop", "turn", "river", "showdown"}[s]
}

// Action identifies the kind of decision a player made or may make.
type Action int

const (
	Fold Action = iota
	Check
	Call
	Raise
	AllIn
)

func (a Action) String() string {
	return [...]string{"fold", "check", "call", "raise", "allin"}[a]
}

// LegalAction describes one action a player may currently take, along with
// whatever amounts the caller needs to present it or validate a choice
// against it. Amount carries the exact chip cost for Call and AllIn; a
// Raise instead carries the inclusive [MinAmount, MaxAmount] range of legal
// total bet sizes.
type LegalAction struct {
	Action    Action
	Amount    int
	MinAmount int
	MaxAmount int
}

// BettingRound tracks the running state of a single street's betting: the
// amount everyone must match, the increment required to reopen raising,
// and who still owes an action.
type BettingRound struct {
	CurrentBet     int
	MinRaise       int
	LastRaiser     int
	BBActed        bool
	ActedThisRound []bool
	// ReopenRaise is false once a short all-in raises the current bet
	// without covering a full min-raise increment: players who already
	// acted this round may still call or fold but may not re-raise until
	// someone posts a full raise.
	ReopenRaise bool
	BigBlind    int
}

// NewBettingRound starts a fresh betting round for numPlayers dense seats,
// with no current bet and the min-raise floor set to bigBlind. Preflop, the
// caller posts the blinds and sets CurrentBet itself (HandState.postBlinds
// does both).
func NewBettingRound(numPlayers int, bigBlind int) *BettingRound {
	return &BettingRound{
		MinRaise:       bigBlind,
		LastRaiser:     -1,
		ActedThisRound: make([]bool, numPlayers),
		ReopenRaise:    true,
		BigBlind:       bigBlind,
	}
}

// ResetForNewRound clears per-street state for the next betting round.
// BBActed survives resets since it only ever matters preflop.
func (br *BettingRound) ResetForNewRound(numPlayers int) {
	br.CurrentBet = 0
	br.MinRaise = br.BigBlind
	br.LastRaiser = -1
	br.ActedThisRound = make([]bool, numPlayers)
	br.ReopenRaise = true
}

// MarkActed records that the player at dense index idx has acted this round.
func (br *BettingRound) MarkActed(idx int) {
	if idx >= 0 && idx < len(br.ActedThisRound) {
		br.ActedThisRound[idx] = true
	}
}

// LegalActions enumerates what the player at dense index idx may currently
// do. Folding is always offered as long as there is any decision to make.
func (br *BettingRound) LegalActions(idx int, player *Player) []LegalAction {
	stack := *player.Stack
	toCall := br.CurrentBet - player.CurrentBet
	actions := []LegalAction{{Action: Fold}}

	canReraise := !br.ActedThisRound[idx] || br.ReopenRaise

	switch {
	case toCall <= 0:
		actions = append(actions, LegalAction{Action: Check})
		if stack > 0 {
			if canReraise && stack > br.MinRaise {
				actions = append(actions, LegalAction{
					Action:    Raise,
					MinAmount: player.CurrentBet + br.MinRaise,
					MaxAmount: player.CurrentBet + stack,
				})
			} else {
				actions = append(actions, LegalAction{Action: AllIn, Amount: stack})
			}
		}
	case toCall >= stack:
		actions = append(actions, LegalAction{Action: AllIn, Amount: stack})
	default:
		actions = append(actions, LegalAction{Action: Call, Amount: toCall})
		if !canReraise {
			// A short all-in already closed re-raising this round; this
			// player only has the right to call the extra amount.
			break
		}
		if stack > toCall+br.MinRaise {
			actions = append(actions, LegalAction{
				Action:    Raise,
				MinAmount: br.CurrentBet + br.MinRaise,
				MaxAmount: player.CurrentBet + stack,
			})
		} else if stack > toCall {
			actions = append(actions, LegalAction{Action: AllIn, Amount: stack})
		}
	}

	return actions
}

// ApplyRaise records a raise (or an all-in that exceeds the current bet) to
// a new total bet of amount. It reports whether the raise was a full raise
// that reopens action to players who already acted this round.
func (br *BettingRound) ApplyRaise(idx int, amount int) (fullRaise bool) {
	increment := amount - br.CurrentBet
	fullRaise = increment >= br.MinRaise

	if fullRaise {
		br.MinRaise = increment
		for i := range br.ActedThisRound {
			br.ActedThisRound[i] = false
		}
	} else {
		br.ReopenRaise = false
	}

	br.CurrentBet = amount
	br.LastRaiser = idx
	br.ActedThisRound[idx] = true
	return fullRaise
}

// IsBettingComplete reports whether every player still in the hand has
// matched the current bet and has acted since it was last raised.
func (br *BettingRound) IsBettingComplete(players []*Player, street Street, buttonIdx int) bool {
	var active int
	for _, p := range players {
		if p.CanAct() {
			active++
		}
	}
	if active == 0 {
		return true
	}

	for i, p := range players {
		if !p.CanAct() {
			continue
		}
		if p.CurrentBet != br.CurrentBet {
			return false
		}
		if !br.ActedThisRound[i] {
			return false
		}
	}

	if street == Preflop && br.LastRaiser == -1 && !br.BBActed {
		bbIdx := bigBlindIndex(buttonIdx, len(players))
		if players[bbIdx].CanAct() {
			return false
		}
	}

	return true
}

func bigBlindIndex(buttonIdx, numPlayers int) int {
	if numPlayers == 2 {
		return (buttonIdx + 1) % numPlayers
	}
	return (buttonIdx + 2) % numPlayers
}

func smallBlindIndex(buttonIdx, numPlayers int) int {
	if numPlayers == 2 {
		return buttonIdx % numPlayers
	}
	return (buttonIdx + 1) % numPlayers
}
