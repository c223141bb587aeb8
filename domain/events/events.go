package events

import (
	"github.com/lazharichir/holdem/domain/cards"
	"github.com/lazharichir/holdem/domain/pots"
)

type EventHandler func(event Event)

type Event interface {
	Name() string
}

// Hand lifecycle
type HandStarted struct {
	TableID    string
	HandID     string
	DealerSeat int
	Seats      []int
	SmallBlind int
	BigBlind   int
}

func (h HandStarted) Name() string { return "HAND_STARTED" }

type PhaseChanged struct {
	TableID       string
	HandID        string
	PreviousPhase string
	NewPhase      string
}

func (p PhaseChanged) Name() string { return "PHASE_CHANGED" }

type HandEnded struct {
	TableID  string
	HandID   string
	Duration int64 // in milliseconds
	FinalPot int
	Winners  []int
}

func (h HandEnded) Name() string { return "HAND_ENDED" }

// Forced bets and dealing
type BlindPosted struct {
	TableID string
	HandID  string
	SeatID  int
	Blind   string // "small" or "big"
	Amount  int
	AllIn   bool
}

func (b BlindPosted) Name() string { return "BLIND_POSTED" }

type HoleCardsDealt struct {
	TableID   string
	HandID    string
	DealOrder map[int]int // seat id to dealing position
}

func (h HoleCardsDealt) Name() string { return "HOLE_CARDS_DEALT" }

type CommunityCardsDealt struct {
	TableID string
	HandID  string
	Phase   string
	Cards   cards.Stack
}

func (c CommunityCardsDealt) Name() string { return "COMMUNITY_CARDS_DEALT" }

// Player actions
type PlayerFolded struct {
	TableID string
	HandID  string
	SeatID  int
	Phase   string
}

func (p PlayerFolded) Name() string { return "PLAYER_FOLDED" }

type PlayerChecked struct {
	TableID string
	HandID  string
	SeatID  int
	Phase   string
}

func (p PlayerChecked) Name() string { return "PLAYER_CHECKED" }

type PlayerCalled struct {
	TableID string
	HandID  string
	SeatID  int
	Phase   string
	Amount  int
}

func (p PlayerCalled) Name() string { return "PLAYER_CALLED" }

type PlayerRaised struct {
	TableID string
	HandID  string
	SeatID  int
	Phase   string
	To      int
	Delta   int
}

func (p PlayerRaised) Name() string { return "PLAYER_RAISED" }

type PlayerWentAllIn struct {
	TableID string
	HandID  string
	SeatID  int
	Phase   string
	Total   int // bet for the street after going all-in
}

func (p PlayerWentAllIn) Name() string { return "PLAYER_WENT_ALL_IN" }

type PlayerTimedOut struct {
	TableID       string
	HandID        string
	SeatID        int
	Phase         string
	DefaultAction string
}

func (p PlayerTimedOut) Name() string { return "PLAYER_TIMED_OUT" }

// Turn management
type PlayerTurnStarted struct {
	TableID string
	HandID  string
	SeatID  int
	Phase   string
	ToCall  int
}

func (p PlayerTurnStarted) Name() string { return "PLAYER_TURN_STARTED" }

type BettingRoundEnded struct {
	TableID   string
	HandID    string
	Phase     string
	TotalBets int
}

func (b BettingRoundEnded) Name() string { return "BETTING_ROUND_ENDED" }

// Showdown
type ShowdownStarted struct {
	TableID       string
	HandID        string
	ActivePlayers []int
}

func (s ShowdownStarted) Name() string { return "SHOWDOWN_STARTED" }

type PlayerShowedHand struct {
	TableID   string
	HandID    string
	SeatID    int
	HoleCards cards.Stack
	Hand      cards.Stack
	HandName  string
}

func (p PlayerShowedHand) Name() string { return "PLAYER_SHOWED_HAND" }

// Pots
type PotBrokenDown struct {
	TableID string
	HandID  string
	Pots    []pots.Pot
}

func (p PotBrokenDown) Name() string { return "POT_BROKEN_DOWN" }

type PotAmountAwarded struct {
	TableID  string
	HandID   string
	SeatID   int
	PotIndex int
	Amount   int
	Reason   string
}

func (p PotAmountAwarded) Name() string { return "POT_AMOUNT_AWARDED" }

type SingleWinnerDetermined struct {
	TableID string
	HandID  string
	SeatID  int
	Reason  string
}

func (s SingleWinnerDetermined) Name() string { return "SINGLE_WINNER_DETERMINED" }

// Balance movements of the human seat
type BalanceDebited struct {
	TableID string
	HandID  string
	Amount  int
}

func (b BalanceDebited) Name() string { return "BALANCE_DEBITED" }

type BalanceCredited struct {
	TableID string
	HandID  string
	Amount  int
}

func (b BalanceCredited) Name() string { return "BALANCE_CREDITED" }

// Lobby
type PlayerEnteredLobby struct {
	PlayerID string
}

func (p PlayerEnteredLobby) Name() string { return "PLAYER_ENTERED_LOBBY" }

type PlayerLeftLobby struct {
	PlayerID string
}

func (p PlayerLeftLobby) Name() string { return "PLAYER_LEFT_LOBBY" }

type TableOpened struct {
	TableID  string
	PlayerID string
}

func (t TableOpened) Name() string { return "TABLE_OPENED" }

type TableClosed struct {
	TableID  string
	PlayerID string
}

func (t TableClosed) Name() string { return "TABLE_CLOSED" }
