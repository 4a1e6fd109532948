// Package protocol defines the JSON wire messages exchanged between the
// session coordinator and bot clients over a WebSocket text connection.
package protocol

// Inbound message type tags.
const (
	TypeJoin   = "join"
	TypeAction = "action"
)

// Outbound message type tags.
const (
	TypeWaiting       = "waiting"
	TypeGameStart     = "game_start"
	TypeHandStart     = "hand_start"
	TypeActionRequest = "action_request"
	TypeActionResult  = "action_result"
	TypeHandEnd       = "hand_end"
	TypeGameEnd       = "game_end"
	TypeError         = "error"
)

// Action type tags, carried in the nested action object of an inbound
// action message and echoed back in action_result.
const (
	ActionFold  = "fold"
	ActionCheck = "check"
	ActionCall  = "call"
	ActionRaise = "raise"
)

// Error codes returned in Error.Code.
const (
	ErrBadJoin           = "BAD_JOIN"
	ErrBadName           = "BAD_NAME"
	ErrTournamentFull    = "TOURNAMENT_FULL"
	ErrTournamentStarted = "TOURNAMENT_STARTED"
	ErrBadJSON           = "BAD_JSON"
	ErrUnknownType       = "UNKNOWN_TYPE"
	ErrBadAction         = "BAD_ACTION"
	ErrInternal          = "INTERNAL_ERROR"
)

// Join is the required first inbound frame from a connecting client.
type Join struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

// ActionField is the nested tagged decision carried by an inbound action
// message: {type} for fold/check/call, {type,amount} for raise. Amount is a
// pointer so a raise with the key omitted can be told apart from a raise to
// zero, per the BAD_ACTION condition in the error taxonomy.
type ActionField struct {
	Type   string `json:"type"`
	Amount *int   `json:"amount,omitempty"`
}

// ActionMessage is an inbound decision in response to an action_request.
type ActionMessage struct {
	Type   string      `json:"type"`
	Action ActionField `json:"action"`
}

// Waiting is broadcast to every registered bot whenever the lobby roster
// changes.
type Waiting struct {
	Type           string `json:"type"`
	CurrentPlayers int    `json:"current_players"`
	MinPlayers     int    `json:"min_players"`
	MaxPlayers     int    `json:"max_players"`
}

// GameStart announces the tournament roster is final and play is
// beginning. PlayerNames, StartingStacks are parallel arrays indexed by
// seat.
type GameStart struct {
	Type           string `json:"type"`
	PlayerNames    []string `json:"player_names"`
	StartingStacks []int    `json:"starting_stacks"`
	SmallBlind     int      `json:"small_blind"`
	BigBlind       int      `json:"big_blind"`
}

// HandStart announces a new hand, projected per recipient so HoleCards
// carries "??" for every seat but the recipient's own.
type HandStart struct {
	Type             string   `json:"type"`
	HandNumber       int      `json:"hand_number"`
	DealerSeat       int      `json:"dealer_seat"`
	SmallBlindSeat   int      `json:"small_blind_seat"`
	BigBlindSeat     int      `json:"big_blind_seat"`
	SmallBlindAmount int      `json:"small_blind_amount"`
	BigBlindAmount   int      `json:"big_blind_amount"`
	PlayerNames      []string `json:"player_names"`
	Stacks           []int    `json:"stacks"`
	// HoleCards is flat, two entries per seat in seat order:
	// HoleCards[2*seat], HoleCards[2*seat+1].
	HoleCards []string `json:"hole_cards"`
}

// ActionRequest is sent only to the seat on act.
type ActionRequest struct {
	Type           string    `json:"type"`
	ActorSeat      int       `json:"actor_seat"`
	TimeoutSeconds int       `json:"timeout_seconds"`
	GameState      GameState `json:"game_state"`
}

// ActionResult is broadcast to every seat after a decision (real or
// auto-folded) is applied.
type ActionResult struct {
	Type       string      `json:"type"`
	ActorSeat  int         `json:"actor_seat"`
	PlayerName string      `json:"player_name"`
	Action     ActionField `json:"action"`
	TimedOut   bool        `json:"timed_out"`
	Invalid    bool        `json:"invalid,omitempty"`
	GameState  GameState   `json:"game_state"`
}

// ValidAction mirrors one LegalAction from the hand engine.
type ValidAction struct {
	Type      string `json:"type"`
	Amount    int    `json:"amount,omitempty"`
	MinAmount int    `json:"min_amount,omitempty"`
	MaxAmount int    `json:"max_amount,omitempty"`
}

// GameState is the full per-recipient projection of the hand in progress.
type GameState struct {
	Street           string       `json:"street"`
	HandNumber       int          `json:"hand_number"`
	CommunityCards   []string     `json:"community_cards"`
	Pot              PotView      `json:"pot"`
	Players          []PlayerView `json:"players"`
	ActorSeat        int          `json:"actor_seat"`
	ValidActions     []ValidAction `json:"valid_actions"`
	DealerSeat       int          `json:"dealer_seat"`
	SmallBlindSeat   int          `json:"small_blind_seat"`
	BigBlindSeat     int          `json:"big_blind_seat"`
	SmallBlindAmount int          `json:"small_blind_amount"`
	BigBlindAmount   int          `json:"big_blind_amount"`
}

// PotView reports the total pot and its breakdown into main/side pots.
type PotView struct {
	Total int        `json:"total"`
	Pots  []PotEntry `json:"pots"`
}

// PotEntry is one main or side pot and who may still win it.
type PotEntry struct {
	Amount        int   `json:"amount"`
	EligibleSeats []int `json:"eligible_seats"`
}

// PlayerView is one seat's visible state from a particular recipient's
// perspective. HoleCards is ["??","??"] and HoleCardsKnown is false for
// every seat but the recipient's own.
type PlayerView struct {
	Seat           int      `json:"seat"`
	Name           string   `json:"name"`
	Stack          int      `json:"stack"`
	CurrentBet     int      `json:"current_bet"`
	IsActive       bool     `json:"is_active"`
	IsAllIn        bool     `json:"is_all_in"`
	IsDealer       bool     `json:"is_dealer"`
	IsSmallBlind   bool     `json:"is_small_blind"`
	IsBigBlind     bool     `json:"is_big_blind"`
	HoleCards      []string `json:"hole_cards"`
	HoleCardsKnown bool     `json:"hole_cards_known"`
}

// HandEnd reports the showdown (or fold-out) outcome of a completed hand.
type HandEnd struct {
	Type               string          `json:"type"`
	HandNumber         int             `json:"hand_number"`
	Winners            []Winner        `json:"winners"`
	HoleCardsRevealed  []RevealedHand  `json:"hole_cards_revealed"`
	FinalStacks        []int           `json:"final_stacks"`
	PlayerNames        []string        `json:"player_names"`
	EliminatedSeats    []int           `json:"eliminated_seats"`
}

// Winner is one seat's share of a hand's pots.
type Winner struct {
	Seat      int    `json:"seat"`
	Name      string `json:"name"`
	AmountWon int    `json:"amount_won"`
}

// RevealedHand is one seat's hole cards shown at showdown. Folded seats
// never appear here.
type RevealedHand struct {
	Seat      int      `json:"seat"`
	Name      string   `json:"name"`
	HoleCards []string `json:"hole_cards"`
}

// GameEnd announces the tournament is over.
type GameEnd struct {
	Type        string   `json:"type"`
	Winner      string   `json:"winner"`
	WinnerSeat  int      `json:"winner_seat"`
	FinalStacks []int    `json:"final_stacks"`
	PlayerNames []string `json:"player_names"`
	TotalHands  int      `json:"total_hands"`
}

// Error is sent in response to a protocol violation. Depending on its
// Code, the connection either stays open or is closed by the caller.
type Error struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}
