package hands

import (
	"testing"

	"github.com/lazharichir/holdem/domain/cards"
	"github.com/stretchr/testify/assert"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name     string
		cards    string
		category HandRank
		value    cards.Rank
		kickers  []cards.Rank
	}{
		{"pair of twos", "2s 7h 9d Jc As 2c 4d", OnePair, cards.Two, []cards.Rank{cards.Ace, cards.Jack, cards.Nine}},
		{"three deuces", "2s 7h 9d Jc As 2c 2d", ThreeOfAKind, cards.Two, []cards.Rank{cards.Ace, cards.Jack}},
		{"royal flush", "As Ks Qs Js Ts", RoyalFlush, cards.Ace, nil},
		{"royal flush in seven", "2d As Ks 9c Qs Js Ts", RoyalFlush, cards.Ace, nil},
		{"full house", "5h 5d 5c 9s 9h", FullHouse, cards.Five, []cards.Rank{cards.Nine}},
		{"two trips make a full house", "5h 5d 5c 9s 9h 9d 2c", FullHouse, cards.Nine, []cards.Rank{cards.Five}},
		{"trips with the best pair", "5h 5d 5c 9s 9h Kd Kc", FullHouse, cards.Five, []cards.Rank{cards.King}},
		{"straight flush", "9s 8s 7s 6s 5s Ad Ac", StraightFlush, cards.Nine, nil},
		{"steel wheel", "As 2s 3s 4s 5s Kd", StraightFlush, cards.Five, nil},
		{"quads", "7s 7h 7d 7c Ks 2d 3c", FourOfAKind, cards.Seven, []cards.Rank{cards.King}},
		{"flush over straight", "2h 5h 9h Jh Kh Tc Qd", Flush, cards.King, []cards.Rank{cards.Jack, cards.Nine, cards.Five, cards.Two}},
		{"broadway straight", "As Kd Qh Jc Ts 2d", Straight, cards.Ace, nil},
		{"wheel", "Ah 2d 3c 4s 5h Kd", Straight, cards.Five, nil},
		{"six high over wheel", "Ah 2d 3c 4s 5h 6d", Straight, cards.Six, nil},
		{"two pair", "Ks Kd 9h 9c As 3d", TwoPair, cards.King, []cards.Rank{cards.Nine, cards.Ace}},
		{"three pairs", "Ks Kd 9h 9c 4s 4d 2c", TwoPair, cards.King, []cards.Rank{cards.Nine, cards.Four}},
		{"high card", "As Jd 9h 7c 3s 2d", HighCard, cards.Ace, []cards.Rank{cards.Jack, cards.Nine, cards.Seven, cards.Three}},
		{"pocket pair", "Qs Qd", OnePair, cards.Queen, nil},
		{"two unpaired", "As 7d", HighCard, cards.Ace, []cards.Rank{cards.Seven}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Evaluate(cards.MustParse(tt.cards))

			assert.Equal(t, tt.category, res.Category)
			assert.Equal(t, tt.value, res.Value)
			if len(tt.kickers) == 0 {
				assert.Empty(t, res.Kickers)
			} else {
				assert.Equal(t, tt.kickers, res.Kickers)
			}
			assert.LessOrEqual(t, len(res.Cards), 5)
		})
	}
}

func TestEvaluate_HandCards(t *testing.T) {
	res := Evaluate(cards.MustParse("Ah 2d 3c 4s 5h Kd"))
	assert.Equal(t, cards.MustParse("5h 4s 3c 2d Ah"), res.Cards)

	res = Evaluate(cards.MustParse("5h 5d 5c 9s 9h 9d 2c"))
	assert.Len(t, res.Cards, 5)
	assert.ElementsMatch(t, cards.MustParse("9s 9h 9d 5h 5d"), res.Cards)
}

func TestEvaluate_Idempotent(t *testing.T) {
	cs := cards.MustParse("Kh Kc 8d 8s As 2c 3h")
	input := cs.Clone()

	first := Evaluate(cs)
	second := Evaluate(cs)

	assert.Equal(t, first, second)
	assert.Equal(t, input, cs, "evaluation must not reorder its input")
}

func TestHandRank_String(t *testing.T) {
	assert.Equal(t, "Royal Flush", RoyalFlush.String())
	assert.Equal(t, "Pair", OnePair.String())
	assert.Equal(t, "Unknown", HandRank(42).String())
}
