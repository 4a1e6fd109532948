// Package tournament owns the persistent seat roster across a single
// tournament: stacks, dealer rotation, blind escalation, and elimination.
// It builds each hand's starting state and applies the hand engine's
// result back into the roster, but knows nothing about connections or the
// wire protocol.
package tournament

import (
	"fmt"
	"math/rand/v2"

	"holdem-tourney/internal/game"
)

const (
	startingStack = 10000
	minPlayers    = 2
	maxPlayers    = 9
)

// Registration errors, distinguished so the session coordinator can map
// them to the right wire error code without string matching.
var (
	ErrBadName           = fmt.Errorf("tournament: name must be 1-32 characters and unique")
	ErrTournamentFull    = fmt.Errorf("tournament: already at maximum players")
	ErrTournamentStarted = fmt.Errorf("tournament: already started")
)

// Seat is one permanent tournament seat. Seat numbers are assigned at
// registration and never change, even once the seat is eliminated.
type Seat struct {
	Number     int
	Name       string
	Stack      int
	Eliminated bool
}

// Manager owns the seat roster for a single tournament: one call site, no
// process-wide singleton, so tests can run independent tournaments
// concurrently.
type Manager struct {
	seats      []*Seat
	handNumber int
	dealerSeat int
	started    bool
}

// NewManager builds an empty tournament with no seats registered yet.
func NewManager() *Manager {
	return &Manager{dealerSeat: -1}
}

// Register validates name and, if it is accepted, assigns it the next
// seat number and the starting stack. Returns ErrTournamentStarted,
// ErrTournamentFull, or ErrBadName on rejection; the caller maps these to
// the wire error taxonomy and closes the offending connection.
func (m *Manager) Register(name string) (*Seat, error) {
	if m.started {
		return nil, ErrTournamentStarted
	}
	if len(m.seats) >= maxPlayers {
		return nil, ErrTournamentFull
	}
	if !validName(name) {
		return nil, ErrBadName
	}
	for _, s := range m.seats {
		if s.Name == name {
			return nil, ErrBadName
		}
	}

	seat := &Seat{
		Number: len(m.seats),
		Name:   name,
		Stack:  startingStack,
	}
	m.seats = append(m.seats, seat)
	return seat, nil
}

func validName(name string) bool {
	n := len([]rune(name))
	return n >= 1 && n <= 32
}

// ReadyToStart reports whether the lobby has met the minimum player count
// and may begin its debounce countdown toward game_start.
func (m *Manager) ReadyToStart() bool {
	return len(m.seats) >= minPlayers
}

// MinPlayers and MaxPlayers expose the lobby's admission bounds.
func (m *Manager) MinPlayers() int { return minPlayers }
func (m *Manager) MaxPlayers() int { return maxPlayers }

// Start freezes the roster; no further seats may be registered.
func (m *Manager) Start() {
	m.started = true
}

// Started reports whether the lobby has already transitioned to play, for
// callers that need to reject a connection before it has even sent a join
// frame.
func (m *Manager) Started() bool {
	return m.started
}

// Seats returns every registered seat in seat-number order. Callers must
// not mutate Stack/Eliminated directly: Stack changes only through the hand
// StartHand deals (which shares its storage), Eliminated only through
// MarkEliminated.
func (m *Manager) Seats() []*Seat {
	return m.seats
}

// SeatCount returns how many seats have been registered so far.
func (m *Manager) SeatCount() int {
	return len(m.seats)
}

// ActiveSeats returns the non-eliminated seats, in seat-number order.
func (m *Manager) ActiveSeats() []*Seat {
	var active []*Seat
	for _, s := range m.seats {
		if !s.Eliminated {
			active = append(active, s)
		}
	}
	return active
}

// IsOver reports whether the tournament has been decided: at most one
// non-eliminated seat remains (and at least one hand has been played).
func (m *Manager) IsOver() bool {
	return m.handNumber > 0 && len(m.ActiveSeats()) <= 1
}

// Winner returns the sole remaining seat once IsOver is true.
func (m *Manager) Winner() *Seat {
	active := m.ActiveSeats()
	if len(active) != 1 {
		return nil
	}
	return active[0]
}

// HandsPlayed reports how many hands have been started so far.
func (m *Manager) HandsPlayed() int {
	return m.handNumber
}

// BlindSchedule reports the small/big blind in effect for the given
// 1-indexed hand number. Thresholds escalate at hands 1, 10, 20, 30, 40,
// 50; hand numbers above 50 retain the level set at hand 50.
func BlindSchedule(handNumber int) (small, big int) {
	switch {
	case handNumber >= 50:
		return 1600, 3200
	case handNumber >= 40:
		return 800, 1600
	case handNumber >= 30:
		return 400, 800
	case handNumber >= 20:
		return 200, 400
	case handNumber >= 10:
		return 100, 200
	default:
		return 50, 100
	}
}

// StartHand advances the dealer button, computes the blind level for the
// next hand number, and deals a fresh game.HandState for the active
// roster. The returned hand's Players slice shares stack storage with this
// manager's seats, so calls, blinds, and Award() mutate seat.Stack
// directly as the hand is played.
func (m *Manager) StartHand(rng *rand.Rand) *game.HandState {
	active := m.ActiveSeats()
	if len(active) < 2 {
		panic("tournament: cannot start a hand with fewer than 2 active seats")
	}

	m.handNumber++
	m.dealerSeat = m.nextDealerSeat()

	players := make([]*game.Player, len(active))
	for i, s := range active {
		players[i] = &game.Player{Seat: s.Number, Name: s.Name, Stack: &s.Stack}
	}

	small, big := BlindSchedule(m.handNumber)
	return game.NewHand(rng, players, m.dealerSeat, small, big)
}

// nextDealerSeat picks the button for the hand about to start: seat 0 for
// the very first hand, otherwise the next non-eliminated seat clockwise
// from the previous dealer.
func (m *Manager) nextDealerSeat() int {
	if m.dealerSeat == -1 {
		for _, s := range m.seats {
			if !s.Eliminated {
				return s.Number
			}
		}
		panic("tournament: no active seats")
	}

	n := len(m.seats)
	for i := 1; i <= n; i++ {
		candidate := (m.dealerSeat + i) % n
		if !m.seats[candidate].Eliminated {
			return candidate
		}
	}
	panic("tournament: no active seats")
}

// DealerSeat returns the seat number that dealt the most recently started
// hand.
func (m *Manager) DealerSeat() int {
	return m.dealerSeat
}

// CurrentBlinds reports the blind level in effect for the hand most
// recently started.
func (m *Manager) CurrentBlinds() (small, big int) {
	return BlindSchedule(m.handNumber)
}

// MarkEliminated scans the roster for any non-eliminated seat whose stack
// has been reduced to zero (expected to be called once a hand's Award()
// has already paid out winnings) and flags it eliminated. Returns the
// seats newly eliminated by this call, in seat-number order.
func (m *Manager) MarkEliminated() []*Seat {
	var eliminated []*Seat
	for _, s := range m.seats {
		if !s.Eliminated && s.Stack <= 0 {
			s.Eliminated = true
			eliminated = append(eliminated, s)
		}
	}
	return eliminated
}
