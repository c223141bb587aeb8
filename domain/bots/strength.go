package bots

import (
	"github.com/lazharichir/holdem/domain/cards"
	"github.com/lazharichir/holdem/domain/hands"
)

// Strength estimates how good a holding is on a 0..1 scale.
//
// Before the flop it scores the two hole cards on high card, pair, suitedness
// and connectedness. Once there is a board it scales the evaluated category
// and value.
func Strength(hole, board cards.Stack) float64 {
	if len(board) == 0 {
		return preflopStrength(hole)
	}
	res := hands.Evaluate(append(hole.Clone(), board...))
	return (float64(res.Category)*100 + float64(res.Value-cards.Two)) / 1000
}

func preflopStrength(hole cards.Stack) float64 {
	if len(hole) < 2 {
		return 0
	}
	a, b := hole[0], hole[1]
	high := max(a.Rank, b.Rank) - cards.Two

	s := float64(high) / 12 * 0.5
	if a.Rank == b.Rank {
		s += 0.3
	}
	if a.Suit == b.Suit {
		s += 0.1
	}
	if diff := a.Rank - b.Rank; diff <= 2 && diff >= -2 {
		s += 0.1
	}
	return min(s, 1)
}
