package hands

import (
	"sort"

	"github.com/lazharichir/holdem/domain/cards"
)

// HandRank represents the category of a poker hand
type HandRank int

const (
	HighCard HandRank = iota
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

var handRankNames = [...]string{
	"High Card", "Pair", "Two Pair", "Three of a Kind", "Straight",
	"Flush", "Full House", "Four of a Kind", "Straight Flush", "Royal Flush",
}

func (r HandRank) String() string {
	if r < HighCard || r > RoyalFlush {
		return "Unknown"
	}
	return handRankNames[r]
}

// HandResult is the evaluation of the best hand available in a set of cards
type HandResult struct {
	Category HandRank     `json:"category"`
	Value    cards.Rank   `json:"value"`   // rank defining the category, e.g. the quad's rank
	Cards    cards.Stack  `json:"cards"`   // up to 5 cards making the hand, strongest first
	Kickers  []cards.Rank `json:"kickers"` // tie breakers, highest first
}

// Name is the human readable category name.
func (h HandResult) Name() string {
	return h.Category.String()
}

// Evaluate finds the best hand in 2 to 7 cards.
// It is pure: the same input always produces the same result.
func Evaluate(cs cards.Stack) HandResult {
	sorted := sortCardsByRank(cs)
	byRank := groupByRank(sorted)
	bySuit := groupBySuit(sorted)

	if res, ok := straightFlush(bySuit); ok {
		return res
	}

	quads := ranksWithCount(byRank, 4)
	if len(quads) > 0 {
		q := quads[0]
		hand := append(cards.Stack{}, byRank[q]...)
		rest := without(sorted, q)
		var kickers []cards.Rank
		if len(rest) > 0 {
			hand = append(hand, rest[0])
			kickers = []cards.Rank{rest[0].Rank}
		}
		return HandResult{Category: FourOfAKind, Value: q, Cards: hand, Kickers: kickers}
	}

	trips := ranksWithCount(byRank, 3)
	pairs := ranksWithCount(byRank, 2)
	if len(trips) > 0 && (len(trips) > 1 || len(pairs) > 0) {
		t := trips[0]
		var p cards.Rank
		if len(trips) > 1 {
			p = trips[1]
		}
		if len(pairs) > 0 && pairs[0] > p {
			p = pairs[0]
		}
		hand := append(cards.Stack{}, byRank[t]...)
		hand = append(hand, byRank[p][:2]...)
		return HandResult{Category: FullHouse, Value: t, Cards: hand, Kickers: []cards.Rank{p}}
	}

	for _, suit := range cards.Suits {
		suited := bySuit[suit]
		if len(suited) >= 5 {
			top := suited[:5]
			return HandResult{Category: Flush, Value: top[0].Rank, Cards: top.Clone(), Kickers: ranksOf(top[1:])}
		}
	}

	if top, hand, ok := findStraight(sorted); ok {
		return HandResult{Category: Straight, Value: top, Cards: hand}
	}

	if len(trips) > 0 {
		t := trips[0]
		return withKickers(ThreeOfAKind, t, byRank[t], without(sorted, t), 2)
	}

	if len(pairs) >= 2 {
		high, low := pairs[0], pairs[1]
		hand := append(cards.Stack{}, byRank[high]...)
		hand = append(hand, byRank[low]...)
		rest := without(without(sorted, high), low)
		kickers := []cards.Rank{low}
		if len(rest) > 0 {
			hand = append(hand, rest[0])
			kickers = append(kickers, rest[0].Rank)
		}
		return HandResult{Category: TwoPair, Value: high, Cards: hand, Kickers: kickers}
	}

	if len(pairs) == 1 {
		p := pairs[0]
		return withKickers(OnePair, p, byRank[p], without(sorted, p), 3)
	}

	if len(sorted) == 0 {
		return HandResult{Category: HighCard}
	}
	return withKickers(HighCard, sorted[0].Rank, sorted[:1], sorted[1:], 4)
}

func withKickers(category HandRank, value cards.Rank, made, rest cards.Stack, n int) HandResult {
	if len(rest) > n {
		rest = rest[:n]
	}
	hand := append(made.Clone(), rest...)
	return HandResult{Category: category, Value: value, Cards: hand, Kickers: ranksOf(rest)}
}

func straightFlush(bySuit map[cards.Suit]cards.Stack) (HandResult, bool) {
	var best HandResult
	found := false
	for _, suit := range cards.Suits {
		suited := bySuit[suit]
		if len(suited) < 5 {
			continue
		}
		top, hand, ok := findStraight(suited)
		if !ok || (found && top <= best.Value) {
			continue
		}
		category := StraightFlush
		if top == cards.Ace {
			category = RoyalFlush
		}
		best = HandResult{Category: category, Value: top, Cards: hand}
		found = true
	}
	return best, found
}

// findStraight looks for five consecutive ranks in cards sorted high to low.
// The wheel (A-2-3-4-5) counts as a Five-high straight.
func findStraight(sorted cards.Stack) (cards.Rank, cards.Stack, bool) {
	byRank := map[cards.Rank]cards.Card{}
	for _, c := range sorted {
		if _, ok := byRank[c.Rank]; !ok {
			byRank[c.Rank] = c
		}
	}
	for top := cards.Ace; top >= cards.Six; top-- {
		if hand, ok := run(byRank, top); ok {
			return top, hand, true
		}
	}
	if ace, ok := byRank[cards.Ace]; ok {
		if hand, ok := run(byRank, cards.Five); ok {
			return cards.Five, append(hand[:4], ace), true
		}
	}
	return 0, nil, false
}

// run collects five cards from top downwards. For a Five-high run the Ace
// slot is left for the caller.
func run(byRank map[cards.Rank]cards.Card, top cards.Rank) (cards.Stack, bool) {
	hand := make(cards.Stack, 0, 5)
	for r := top; r > top-5; r-- {
		if r < cards.Two {
			hand = append(hand, cards.Card{})
			continue
		}
		c, ok := byRank[r]
		if !ok {
			return nil, false
		}
		hand = append(hand, c)
	}
	return hand, true
}

// sortCardsByRank sorts a copy of the cards by rank in descending order
func sortCardsByRank(hand cards.Stack) cards.Stack {
	result := hand.Clone()
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Rank > result[j].Rank
	})
	return result
}

func groupByRank(sorted cards.Stack) map[cards.Rank]cards.Stack {
	out := map[cards.Rank]cards.Stack{}
	for _, c := range sorted {
		out[c.Rank] = append(out[c.Rank], c)
	}
	return out
}

func groupBySuit(sorted cards.Stack) map[cards.Suit]cards.Stack {
	out := map[cards.Suit]cards.Stack{}
	for _, c := range sorted {
		out[c.Suit] = append(out[c.Suit], c)
	}
	return out
}

// ranksWithCount returns, highest first, the ranks held by exactly n cards.
func ranksWithCount(byRank map[cards.Rank]cards.Stack, n int) []cards.Rank {
	var out []cards.Rank
	for r := cards.Ace; r >= cards.Two; r-- {
		if len(byRank[r]) == n {
			out = append(out, r)
		}
	}
	return out
}

func without(sorted cards.Stack, r cards.Rank) cards.Stack {
	out := make(cards.Stack, 0, len(sorted))
	for _, c := range sorted {
		if c.Rank != r {
			out = append(out, c)
		}
	}
	return out
}

func ranksOf(cs cards.Stack) []cards.Rank {
	out := make([]cards.Rank, len(cs))
	for i, c := range cs {
		out[i] = c.Rank
	}
	return out
}
