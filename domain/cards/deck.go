package cards

import "math/rand"

// NewDeck52 creates a standard deck of 52 cards in suit then rank order
func NewDeck52() Stack {
	deck := make(Stack, 0, len(Suits)*len(Ranks))
	for _, suit := range Suits {
		for _, rank := range Ranks {
			deck.AddCard(Card{Suit: suit, Rank: rank})
		}
	}
	return deck
}

// Shuffle returns a uniformly shuffled copy of cards using rng.
// The input is left untouched.
func Shuffle(cards Stack, rng *rand.Rand) Stack {
	shuffled := cards.Clone()
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled
}
