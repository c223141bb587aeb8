package domain

import "errors"

var (
	ErrInvalidAction     = errors.New("invalid action")
	ErrRaiseTooSmall     = errors.New("raise must be above the current bet")
	ErrRaiseExceedsStack = errors.New("raise exceeds the seat's stack")
	ErrRaiseAboveLimit   = errors.New("raise exceeds the table's maximum bet")
	ErrNotYourTurn       = errors.New("not this seat's turn to act")
	ErrHandOver          = errors.New("hand is over")
	ErrNoActiveHand      = errors.New("no active hand")
	ErrHandInProgress    = errors.New("a hand is already in progress")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrBotCount          = errors.New("bot count must be between 1 and 3")
	ErrInvalidBlinds     = errors.New("small blind must be positive")
)
