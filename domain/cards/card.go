package cards

import (
	"fmt"
	"strings"
)

// Suit represents a card suit
type Suit string

const (
	Spades   Suit = "♠"
	Hearts   Suit = "♥"
	Diamonds Suit = "♦"
	Clubs    Suit = "♣"
)

// Suits lists the four suits in deck order.
var Suits = []Suit{Spades, Hearts, Diamonds, Clubs}

// Rank is the numeric rank of a card, Two (2) through Ace (14).
type Rank int

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// Ranks lists every rank from Two to Ace.
var Ranks = []Rank{Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King, Ace}

var rankSymbols = map[Rank]string{
	Two: "2", Three: "3", Four: "4", Five: "5", Six: "6", Seven: "7", Eight: "8",
	Nine: "9", Ten: "10", Jack: "J", Queen: "Q", King: "K", Ace: "A",
}

// String returns the rank symbol, e.g. "A" or "10".
func (r Rank) String() string {
	if s, ok := rankSymbols[r]; ok {
		return s
	}
	return fmt.Sprintf("Rank(%d)", int(r))
}

// Valid reports whether r is one of the thirteen ranks.
func (r Rank) Valid() bool {
	return r >= Two && r <= Ace
}

// Card represents a playing card
type Card struct {
	Suit Suit `json:"suit"`
	Rank Rank `json:"rank"`
}

// String returns the string representation of a card
func (c Card) String() string {
	return c.Rank.String() + string(c.Suit)
}

// Equals checks if two cards are equal
func (c Card) Equals(other Card) bool {
	return c.Suit == other.Suit && c.Rank == other.Rank
}

// CardFromString creates a card from a string representation
// e.g., "10♠", "Ts", "10S" -> Card{Suit: Spades, Rank: Ten}
func CardFromString(s string) (Card, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return Card{}, fmt.Errorf("invalid card shorthand: %q", s)
	}

	var suit Suit
	var rankPart string
	switch {
	case strings.HasSuffix(s, string(Spades)):
		suit, rankPart = Spades, strings.TrimSuffix(s, string(Spades))
	case strings.HasSuffix(s, string(Hearts)):
		suit, rankPart = Hearts, strings.TrimSuffix(s, string(Hearts))
	case strings.HasSuffix(s, string(Diamonds)):
		suit, rankPart = Diamonds, strings.TrimSuffix(s, string(Diamonds))
	case strings.HasSuffix(s, string(Clubs)):
		suit, rankPart = Clubs, strings.TrimSuffix(s, string(Clubs))
	default:
		rankPart = s[:len(s)-1]
		switch s[len(s)-1:] {
		case "s", "S":
			suit = Spades
		case "h", "H":
			suit = Hearts
		case "d", "D":
			suit = Diamonds
		case "c", "C":
			suit = Clubs
		default:
			return Card{}, fmt.Errorf("invalid card suit: %q", s[len(s)-1:])
		}
	}

	var rank Rank
	switch strings.ToUpper(rankPart) {
	case "A":
		rank = Ace
	case "K":
		rank = King
	case "Q":
		rank = Queen
	case "J":
		rank = Jack
	case "10", "T":
		rank = Ten
	case "9":
		rank = Nine
	case "8":
		rank = Eight
	case "7":
		rank = Seven
	case "6":
		rank = Six
	case "5":
		rank = Five
	case "4":
		rank = Four
	case "3":
		rank = Three
	case "2":
		rank = Two
	default:
		return Card{}, fmt.Errorf("invalid card rank: %q", rankPart)
	}

	return Card{Suit: suit, Rank: rank}, nil
}

// MustParse parses space separated cards and panics on bad input.
// Meant for tests and fixtures.
func MustParse(s string) Stack {
	var out Stack
	for _, f := range strings.Fields(s) {
		c, err := CardFromString(f)
		if err != nil {
			panic(err)
		}
		out = append(out, c)
	}
	return out
}
