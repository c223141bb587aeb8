package pots

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocate(t *testing.T) {
	tests := []struct {
		name     string
		contribs []Contribution
		want     []Pot
	}{
		{
			name: "short all-in creates a side pot",
			contribs: []Contribution{
				{SeatID: 0, Amount: 100},
				{SeatID: 1, Amount: 100},
				{SeatID: 2, Amount: 40},
			},
			want: []Pot{
				{Amount: 120, Eligible: []int{0, 1, 2}},
				{Amount: 120, Eligible: []int{0, 1}},
			},
		},
		{
			name: "equal bets make a single pot",
			contribs: []Contribution{
				{SeatID: 0, Amount: 50},
				{SeatID: 1, Amount: 50},
			},
			want: []Pot{{Amount: 100, Eligible: []int{0, 1}}},
		},
		{
			name: "folded chips are dead money in the tiers they reached",
			contribs: []Contribution{
				{SeatID: 0, Amount: 200},
				{SeatID: 1, Amount: 50},
				{SeatID: 2, Amount: 80, Folded: true},
				{SeatID: 3, Amount: 200},
			},
			want: []Pot{
				{Amount: 200, Eligible: []int{0, 1, 3}},
				{Amount: 330, Eligible: []int{0, 3}},
			},
		},
		{
			name: "multiple all-ins stack tiers",
			contribs: []Contribution{
				{SeatID: 3, Amount: 300},
				{SeatID: 1, Amount: 25},
				{SeatID: 2, Amount: 100},
				{SeatID: 0, Amount: 300},
			},
			want: []Pot{
				{Amount: 100, Eligible: []int{0, 1, 2, 3}},
				{Amount: 225, Eligible: []int{0, 2, 3}},
				{Amount: 400, Eligible: []int{0, 3}},
			},
		},
		{
			name: "excess above the last live level joins the last pot",
			contribs: []Contribution{
				{SeatID: 0, Amount: 60},
				{SeatID: 1, Amount: 60},
				{SeatID: 2, Amount: 90, Folded: true},
			},
			want: []Pot{{Amount: 210, Eligible: []int{0, 1}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Allocate(tt.contribs)
			assert.Equal(t, tt.want, got)

			total := 0
			for _, c := range tt.contribs {
				total += c.Amount
			}
			assert.Equal(t, total, Sum(got), "allocation must conserve chips")
		})
	}
}

func TestAllocate_NoLiveSeats(t *testing.T) {
	assert.Nil(t, Allocate([]Contribution{{SeatID: 0, Amount: 10, Folded: true}}))
	assert.Nil(t, Allocate(nil))
}

func TestDistribute_PerTierWinners(t *testing.T) {
	pots := []Pot{
		{Amount: 120, Eligible: []int{0, 1, 2}},
		{Amount: 120, Eligible: []int{0, 1}},
	}
	// seat 2 holds the best hand, seat 1 the second best
	ranking := []int{2, 1, 0}
	best := func(eligible []int) []int {
		for _, seat := range ranking {
			for _, e := range eligible {
				if e == seat {
					return []int{seat}
				}
			}
		}
		return nil
	}

	awards := Distribute(pots, best)

	require.Len(t, awards, 2)
	assert.Equal(t, Award{PotIndex: 0, SeatID: 2, Amount: 120}, awards[0])
	assert.Equal(t, Award{PotIndex: 1, SeatID: 1, Amount: 120}, awards[1])
	assert.Equal(t, map[int]int{1: 120, 2: 120}, Totals(awards))
}

func TestDistribute_RemainderToLowestSeat(t *testing.T) {
	pots := []Pot{{Amount: 101, Eligible: []int{0, 1, 2}}}

	awards := Distribute(pots, func([]int) []int { return []int{2, 1, 0} })

	assert.Equal(t, []Award{
		{PotIndex: 0, SeatID: 0, Amount: 35},
		{PotIndex: 0, SeatID: 1, Amount: 33},
		{PotIndex: 0, SeatID: 2, Amount: 33},
	}, awards)

	total := 0
	for _, a := range awards {
		total += a.Amount
	}
	assert.Equal(t, 101, total)
}

func TestDistribute_NoWinnersFallsBackToFirstEligible(t *testing.T) {
	awards := Distribute([]Pot{{Amount: 40, Eligible: []int{3, 5}}}, func([]int) []int { return nil })

	assert.Equal(t, []Award{{PotIndex: 0, SeatID: 3, Amount: 40}}, awards)
}
