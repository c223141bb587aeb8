// Package pots splits a hand's committed chips into a main pot and side pots
// and pays each pot out to the seats still live for it.
package pots

import "sort"

// Contribution is everything one seat put in during a hand.
type Contribution struct {
	SeatID int
	Amount int
	Folded bool
}

// Pot is one eligibility tier.
type Pot struct {
	Amount   int   `json:"amount"`
	Eligible []int `json:"eligible"` // seat ids, ascending
}

// Award is a payout of part or all of one pot to one seat.
type Award struct {
	PotIndex int `json:"potIndex"`
	SeatID   int `json:"seatId"`
	Amount   int `json:"amount"`
}

// Allocate builds the pots from per-hand contributions.
//
// Levels are the distinct totals of non-folded seats. Each level collects
// min(amount, level) - min(amount, previous) from every contributor,
// folded seats included, and is contested by the non-folded seats that
// reached it. Chips above the highest live level are added to the last pot.
func Allocate(contribs []Contribution) []Pot {
	levelSet := map[int]bool{}
	for _, c := range contribs {
		if !c.Folded && c.Amount > 0 {
			levelSet[c.Amount] = true
		}
	}
	if len(levelSet) == 0 {
		return nil
	}

	levels := make([]int, 0, len(levelSet))
	for l := range levelSet {
		levels = append(levels, l)
	}
	sort.Ints(levels)

	var result []Pot
	prev := 0
	for _, level := range levels {
		pot := Pot{}
		for _, c := range contribs {
			pot.Amount += min(c.Amount, level) - min(c.Amount, prev)
			if !c.Folded && c.Amount >= level {
				pot.Eligible = append(pot.Eligible, c.SeatID)
			}
		}
		sort.Ints(pot.Eligible)
		result = append(result, pot)
		prev = level
	}

	for _, c := range contribs {
		if c.Amount > prev {
			result[len(result)-1].Amount += c.Amount - prev
		}
	}

	return result
}

// Distribute splits every pot evenly among the winners chosen for its
// eligible seats. The remainder of an uneven split goes to the winner with
// the lowest seat id. A pot without winners goes to its first eligible seat.
func Distribute(pots []Pot, winnersFor func(eligible []int) []int) []Award {
	var awards []Award
	for i, pot := range pots {
		if pot.Amount == 0 || len(pot.Eligible) == 0 {
			continue
		}
		winners := append([]int(nil), winnersFor(pot.Eligible)...)
		if len(winners) == 0 {
			winners = []int{pot.Eligible[0]}
		}
		sort.Ints(winners)

		share := pot.Amount / len(winners)
		remainder := pot.Amount % len(winners)
		for j, seatID := range winners {
			amount := share
			if j == 0 {
				amount += remainder
			}
			awards = append(awards, Award{PotIndex: i, SeatID: seatID, Amount: amount})
		}
	}
	return awards
}

// Totals sums awards per seat.
func Totals(awards []Award) map[int]int {
	out := map[int]int{}
	for _, a := range awards {
		out[a.SeatID] += a.Amount
	}
	return out
}

// Sum is the chip total across pots.
func Sum(pots []Pot) int {
	total := 0
	for _, p := range pots {
		total += p.Amount
	}
	return total
}
