package hands

import (
	"sort"

	"github.com/lazharichir/holdem/domain/cards"
)

// Compare orders two evaluated hands: positive when a beats b, negative when
// b beats a, zero for a split.
func Compare(a, b HandResult) int {
	if c := compareInt(int(a.Category), int(b.Category)); c != 0 {
		return c
	}
	if c := compareInt(int(a.Value), int(b.Value)); c != 0 {
		return c
	}
	for i := 0; i < len(a.Kickers) && i < len(b.Kickers); i++ {
		if c := compareInt(int(a.Kickers[i]), int(b.Kickers[i])); c != 0 {
			return c
		}
	}
	return compareInt(len(a.Kickers), len(b.Kickers))
}

func compareInt(a, b int) int {
	switch {
	case a > b:
		return 1
	case a < b:
		return -1
	default:
		return 0
	}
}

// HandComparisonResult represents one seat's standing among compared hands
type HandComparisonResult struct {
	SeatID     int
	Hand       HandResult
	IsWinner   bool
	PlaceIndex int // 0 for first place; tied hands share a place
}

// CompareHands evaluates each seat's cards and returns the seats sorted by
// hand strength, best first. Seats with equal strength are ordered by seat id.
func CompareHands(seatCards map[int]cards.Stack) []HandComparisonResult {
	if len(seatCards) == 0 {
		return nil
	}

	results := make([]HandComparisonResult, 0, len(seatCards))
	for seatID, cs := range seatCards {
		results = append(results, HandComparisonResult{SeatID: seatID, Hand: Evaluate(cs)})
	}

	sort.Slice(results, func(i, j int) bool {
		if c := Compare(results[i].Hand, results[j].Hand); c != 0 {
			return c > 0
		}
		return results[i].SeatID < results[j].SeatID
	})

	placeIndex := 0
	for i := range results {
		if i > 0 && Compare(results[i].Hand, results[i-1].Hand) != 0 {
			placeIndex = i
		}
		results[i].PlaceIndex = placeIndex
		results[i].IsWinner = placeIndex == 0
	}

	return results
}

// Winners returns the seat ids holding the best hand, in seat order.
func Winners(seatCards map[int]cards.Stack) []int {
	var out []int
	for _, r := range CompareHands(seatCards) {
		if r.IsWinner {
			out = append(out, r.SeatID)
		}
	}
	return out
}
