package domain

import (
	"github.com/lazharichir/holdem/domain/bots"
	"github.com/lazharichir/holdem/domain/cards"
)

// HumanSeatID is the seat of the player driving the table.
const HumanSeatID = 0

// Seat is one player at the table: the human at seat 0 and bots after it.
type Seat struct {
	ID         int
	Name       string
	Chips      int // behind, not counting Bet
	HoleCards  cards.Stack
	Bet        int // this street
	Committed  int // whole hand, Bet included
	Folded     bool
	AllIn      bool
	HasActed   bool
	LastAction string
	IsBot      bool
	Profile    bots.Profile
}

// NewHumanSeat creates the seat of the player driving the table
func NewHumanSeat(name string, chips int) *Seat {
	return &Seat{ID: HumanSeatID, Name: name, Chips: chips}
}

// NewBotSeat creates a bot seat playing with the profile's stack
func NewBotSeat(id int, profile bots.Profile) *Seat {
	return &Seat{ID: id, Name: profile.Name, Chips: profile.Stack, IsBot: true, Profile: profile}
}

// ResetForNewHand clears everything but the stack
func (s *Seat) ResetForNewHand() {
	s.HoleCards = nil
	s.Bet = 0
	s.Committed = 0
	s.Folded = false
	s.AllIn = false
	s.HasActed = false
	s.LastAction = ""
}

// CanAct reports whether the seat still makes betting decisions this hand.
func (s *Seat) CanAct() bool {
	return !s.Folded && !s.AllIn
}

// moveToBet takes chips from the stack into the current bet.
func (s *Seat) moveToBet(amount int) {
	s.Chips -= amount
	s.Bet += amount
	s.Committed += amount
	if s.Chips == 0 {
		s.AllIn = true
	}
}
