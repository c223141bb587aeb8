package cards

import (
	"errors"
	"strings"
)

// ErrDeckExhausted is the panic value when more cards are dealt than remain.
var ErrDeckExhausted = errors.New("deck exhausted")

// Stack represents an ordered pile of cards, dealt from the front
type Stack []Card

// NewStack creates a new stack from the given cards
func NewStack(cards ...Card) Stack {
	return Stack(cards)
}

// DealCard removes and returns the top card.
func (s *Stack) DealCard() Card {
	return s.DealCards(1)[0]
}

// DealCards removes and returns the top n cards.
// Dealing past the end of the stack is a programming error and panics.
func (s *Stack) DealCards(n int) Stack {
	if n < 0 || n > len(*s) {
		panic(ErrDeckExhausted)
	}
	dealt := make(Stack, n)
	copy(dealt, (*s)[:n])
	*s = (*s)[n:]
	return dealt
}

// BurnCard discards the top card.
func (s *Stack) BurnCard() {
	s.DealCards(1)
}

// AddCard puts a card at the bottom of the stack.
func (s *Stack) AddCard(c Card) {
	*s = append(*s, c)
}

// AddCards puts cards at the bottom of the stack, in order.
func (s *Stack) AddCards(cs ...Card) {
	*s = append(*s, cs...)
}

// Contains reports whether c is in the stack.
func (s Stack) Contains(c Card) bool {
	for _, x := range s {
		if x.Equals(c) {
			return true
		}
	}
	return false
}

// Clone returns an independent copy.
func (s Stack) Clone() Stack {
	if s == nil {
		return nil
	}
	out := make(Stack, len(s))
	copy(out, s)
	return out
}

func (s Stack) String() string {
	parts := make([]string, len(s))
	for i, c := range s {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
