package domain

import (
	"strings"
	"testing"

	"github.com/lazharichir/holdem/domain/bots"
	"github.com/lazharichir/holdem/domain/cards"
	"github.com/lazharichir/holdem/domain/events"
	"github.com/lazharichir/holdem/domain/pots"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stackedDeck puts the given cards on top of the rest of a fresh deck.
func stackedDeck(top ...string) cards.Stack {
	deck := cards.MustParse(strings.Join(top, " "))
	for _, c := range cards.NewDeck52() {
		if !deck.Contains(c) {
			deck = append(deck, c)
		}
	}
	return deck
}

// setupHand seats the human at 0 and bots after it with the given stacks.
// With the dealer at 0 three-handed, seat 1 posts the small blind, seat 2
// the big blind and seat 0 acts first.
func setupHand(t *testing.T, stacks []int, deck cards.Stack) *Hand {
	t.Helper()
	seats := []*Seat{NewHumanSeat("You", stacks[0])}
	for i := 1; i < len(stacks); i++ {
		s := NewBotSeat(i, bots.Jerry)
		s.Chips = stacks[i]
		seats = append(seats, s)
	}
	h := NewHand("tbl_test", seats, 0, BlindConfig{SmallBlind: 10}, deck)
	h.Start()
	return h
}

func snapshot(h *Hand) []Seat {
	out := make([]Seat, len(h.Seats))
	for i, s := range h.Seats {
		out[i] = *s
	}
	return out
}

func TestHand_StartPostsBlinds(t *testing.T) {
	h := setupHand(t, []int{1000, 1000, 1000}, cards.NewDeck52())

	assert.Equal(t, HandPhase_Preflop, h.Phase)
	assert.Equal(t, 10, h.Seats[1].Bet)
	assert.Equal(t, 20, h.Seats[2].Bet)
	assert.False(t, h.Seats[1].HasActed)
	assert.False(t, h.Seats[2].HasActed)
	assert.Equal(t, 20, h.CurrentBet)
	assert.Equal(t, 0, h.Pot)
	assert.Equal(t, 30, h.TotalPot())
	assert.Equal(t, 0, h.CurrentSeatID(), "first to act sits after the big blind")
	assert.Equal(t, "Small blind $10", h.Seats[1].LastAction)
	assert.Equal(t, 3000, h.ChipsInPlay())

	for _, s := range h.Seats {
		assert.Len(t, s.HoleCards, 2)
	}
	assert.Len(t, h.Deck, 52-6)
}

func TestHand_HeadsUpButtonPostsSmallBlind(t *testing.T) {
	h := setupHand(t, []int{1000, 1000}, cards.NewDeck52())

	assert.Equal(t, 10, h.Seats[0].Bet)
	assert.Equal(t, 20, h.Seats[1].Bet)
	assert.Equal(t, 0, h.CurrentSeatID())
}

func TestHand_RejectedActionsLeaveStateUntouched(t *testing.T) {
	h := setupHand(t, []int{1000, 1000, 1000}, cards.NewDeck52())
	h.Blinds.MaxBet = 500
	before := snapshot(h)
	eventsBefore := len(h.Events)

	tests := []struct {
		name   string
		seat   int
		action Action
		err    error
	}{
		{"raise to the current bet", 0, Action{Kind: ActionRaise, Amount: 20}, ErrRaiseTooSmall},
		{"raise below the current bet", 0, Action{Kind: ActionRaise, Amount: 5}, ErrRaiseTooSmall},
		{"raise beyond the stack", 0, Action{Kind: ActionRaise, Amount: 1001}, ErrRaiseExceedsStack},
		{"raise above the table limit", 0, Action{Kind: ActionRaise, Amount: 600}, ErrRaiseAboveLimit},
		{"check facing a bet", 0, Action{Kind: ActionCheck}, ErrInvalidAction},
		{"unknown action", 0, Action{Kind: "dance"}, ErrInvalidAction},
		{"out of turn", 1, Action{Kind: ActionCall}, ErrNotYourTurn},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := h.Apply(tt.seat, tt.action)
			assert.ErrorIs(t, err, tt.err)
			assert.Equal(t, before, snapshot(h))
			assert.Equal(t, 20, h.CurrentBet)
			assert.Len(t, h.Events, eventsBefore)
		})
	}
}

func TestHand_SingleSurvivorTakesThePot(t *testing.T) {
	h := setupHand(t, []int{1000, 1000, 1000}, cards.NewDeck52())

	require.NoError(t, h.Apply(0, Action{Kind: ActionRaise, Amount: 60}))
	require.NoError(t, h.Apply(1, Action{Kind: ActionFold}))
	require.NoError(t, h.Apply(2, Action{Kind: ActionFold}))

	assert.Equal(t, HandPhase_Ended, h.Phase)
	assert.Empty(t, h.CommunityCards, "no board is dealt once everyone folded")
	assert.Equal(t, []int{0}, h.Winners)
	assert.Equal(t, map[int]int{0: 90}, h.Payouts)
	assert.Equal(t, 1030, h.Seats[0].Chips)
	assert.Equal(t, 990, h.Seats[1].Chips)
	assert.Equal(t, 980, h.Seats[2].Chips)
	assert.Equal(t, 0, h.Pot)
	assert.Equal(t, 3000, h.ChipsInPlay())
	assert.ErrorIs(t, h.Apply(0, Action{Kind: ActionCheck}), ErrHandOver)
}

func TestHand_BigBlindGetsToAct(t *testing.T) {
	h := setupHand(t, []int{1000, 1000, 1000}, cards.NewDeck52())

	require.NoError(t, h.Apply(0, Action{Kind: ActionCall}))
	require.NoError(t, h.Apply(1, Action{Kind: ActionCall}))

	assert.Equal(t, HandPhase_Preflop, h.Phase)
	assert.Equal(t, 2, h.CurrentSeatID())
	assert.Contains(t, h.AvailableActions(2), ActionCheck)

	require.NoError(t, h.Apply(2, Action{Kind: ActionCheck}))

	assert.Equal(t, HandPhase_Flop, h.Phase)
	assert.Len(t, h.CommunityCards, 3)
	assert.Equal(t, 60, h.Pot)
	assert.Equal(t, 0, h.CurrentBet)
	assert.Equal(t, 1, h.CurrentSeatID(), "after the flop the first seat left of the button acts")
	for _, s := range h.Seats {
		assert.Zero(t, s.Bet)
		assert.False(t, s.HasActed)
	}
}

func TestHand_RaiseReopensAction(t *testing.T) {
	h := setupHand(t, []int{1000, 1000, 1000}, cards.NewDeck52())

	require.NoError(t, h.Apply(0, Action{Kind: ActionRaise, Amount: 60}))
	require.NoError(t, h.Apply(1, Action{Kind: ActionCall}))
	require.NoError(t, h.Apply(2, Action{Kind: ActionRaise, Amount: 200}))

	assert.Equal(t, 200, h.CurrentBet)
	assert.False(t, h.Seats[0].HasActed)
	assert.False(t, h.Seats[1].HasActed)
	assert.Equal(t, 0, h.CurrentSeatID())
	assert.Equal(t, "Raised to $200", h.Seats[2].LastAction)
	assert.Equal(t, "Called $50", h.Seats[1].LastAction)

	require.NoError(t, h.Apply(0, Action{Kind: ActionCall}))
	require.NoError(t, h.Apply(1, Action{Kind: ActionFold}))

	assert.Equal(t, HandPhase_Flop, h.Phase)
	assert.Equal(t, 460, h.Pot)
}

func TestHand_ShowdownConservesChips(t *testing.T) {
	// deal order from the button: seat 1, seat 2, seat 0, twice
	deck := stackedDeck("As Kc 7h Ad Kd 2c", "3s 8d 9c", "Jh", "4s")
	h := setupHand(t, []int{1000, 1000, 1000}, deck)
	total := h.ChipsInPlay()

	script := []struct {
		seat   int
		action ActionKind
	}{
		{0, ActionCall}, {1, ActionCall}, {2, ActionCheck},
		{1, ActionCheck}, {2, ActionCheck}, {0, ActionCheck},
		{1, ActionCheck}, {2, ActionCheck}, {0, ActionCheck},
		{1, ActionCheck}, {2, ActionCheck}, {0, ActionCheck},
	}
	for _, step := range script {
		require.NoError(t, h.Apply(step.seat, Action{Kind: step.action}), "seat %d %s in %s", step.seat, step.action, h.Phase)
		assert.Equal(t, total, h.ChipsInPlay())
	}

	assert.Equal(t, HandPhase_Ended, h.Phase)
	assert.Equal(t, cards.MustParse("3s 8d 9c Jh 4s"), h.CommunityCards)
	assert.Equal(t, []int{1}, h.Winners)
	assert.Equal(t, 1040, h.Seats[1].Chips)
	assert.Equal(t, 980, h.Seats[0].Chips)
	assert.Equal(t, 980, h.Seats[2].Chips)
	require.Len(t, h.Results, 3)
	assert.Equal(t, 1, h.Results[0].SeatID)

	var showed int
	for _, e := range h.Events {
		if _, ok := e.(events.PlayerShowedHand); ok {
			showed++
		}
	}
	assert.Equal(t, 3, showed)
}

func TestHand_ShortAllInCreatesSidePot(t *testing.T) {
	// seat 1 (small blind, 40 chips) holds aces, seat 0 kings, seat 2 rags
	deck := stackedDeck("As 7c Kh Ad 2d Ks", "3s 8d 9c", "Jh", "4h")
	h := setupHand(t, []int{1000, 40, 1000}, deck)
	total := h.ChipsInPlay()

	require.NoError(t, h.Apply(0, Action{Kind: ActionRaise, Amount: 100}))
	require.NoError(t, h.Apply(1, Action{Kind: ActionAllIn}))
	assert.True(t, h.Seats[1].AllIn)
	assert.Equal(t, 100, h.CurrentBet, "a short all-in does not raise")
	require.NoError(t, h.Apply(2, Action{Kind: ActionCall}))

	assert.Equal(t, HandPhase_Flop, h.Phase)
	assert.Equal(t, 2, h.CurrentSeatID(), "the all-in seat is skipped")

	for h.Phase != HandPhase_Ended {
		require.NoError(t, h.Apply(h.CurrentSeatID(), Action{Kind: ActionCheck}))
		assert.Equal(t, total, h.ChipsInPlay())
	}

	assert.Equal(t, []pots.Pot{
		{Amount: 120, Eligible: []int{0, 1, 2}},
		{Amount: 120, Eligible: []int{0, 2}},
	}, h.SidePots)
	assert.Equal(t, 120, h.Seats[1].Chips)
	assert.Equal(t, 1020, h.Seats[0].Chips)
	assert.Equal(t, 900, h.Seats[2].Chips)
	assert.Equal(t, []int{0, 1}, h.Winners)
}

func TestHand_AllInRunsOutTheBoard(t *testing.T) {
	h := setupHand(t, []int{500, 300}, cards.NewDeck52())
	total := h.ChipsInPlay()

	require.NoError(t, h.Apply(0, Action{Kind: ActionAllIn}))
	assert.Equal(t, 500, h.CurrentBet)
	require.NoError(t, h.Apply(1, Action{Kind: ActionCall}))

	assert.Equal(t, HandPhase_Ended, h.Phase)
	assert.Len(t, h.CommunityCards, 5)
	assert.Equal(t, total, h.ChipsInPlay())
	assert.Equal(t, 800, h.Seats[0].Chips+h.Seats[1].Chips)
	assert.GreaterOrEqual(t, h.Seats[0].Chips, 200, "the uncalled 200 always returns to seat 0")
}

func TestHand_BlindAllInSkipsBetting(t *testing.T) {
	// heads-up: seat 0 posts the small blind with its last 10 chips and seat 1
	// has nothing to decide once the blinds are in
	h := setupHand(t, []int{10, 1000}, cards.NewDeck52())

	assert.Equal(t, HandPhase_Ended, h.Phase)
	assert.Len(t, h.CommunityCards, 5)
	assert.Equal(t, 1010, h.ChipsInPlay())
}

type limitedFunding struct {
	available int
	paid      int
}

func (f *limitedFunding) Fund(seat *Seat, amount int) int {
	if seat.IsBot {
		return amount
	}
	granted := min(amount, f.available)
	f.available -= granted
	return granted
}

func (f *limitedFunding) Pay(seat *Seat, amount int) {
	if !seat.IsBot {
		f.paid += amount
	}
}

func TestHand_RefusedFundingBecomesAllIn(t *testing.T) {
	seats := []*Seat{NewHumanSeat("You", 1000), NewBotSeat(1, bots.Jerry), NewBotSeat(2, bots.Billy)}
	h := NewHand("tbl_test", seats, 0, BlindConfig{SmallBlind: 10}, cards.NewDeck52())
	funding := &limitedFunding{available: 50}
	h.funding = funding
	h.Start()

	require.NoError(t, h.Apply(0, Action{Kind: ActionRaise, Amount: 200}))

	human := h.Seats[0]
	assert.True(t, human.AllIn)
	assert.Equal(t, 50, human.Bet)
	assert.Equal(t, 0, human.Chips)
	assert.Equal(t, 50, h.CurrentBet)
	assert.Equal(t, "All-in $50", human.LastAction)
}

func TestHand_MaxBetOnlyCapsTheHuman(t *testing.T) {
	seats := []*Seat{NewHumanSeat("You", 5000), NewBotSeat(1, bots.Jerry), NewBotSeat(2, bots.Billy)}
	// dealer 2: seat 0 small blind, seat 1 big blind, seat 2 first to act
	h := NewHand("tbl_test", seats, 2, BlindConfig{SmallBlind: 10, MaxBet: 1000}, cards.NewDeck52())
	h.Start()

	require.Equal(t, 2, h.CurrentSeatID())
	require.NoError(t, h.Apply(2, Action{Kind: ActionRaise, Amount: 1500}))

	assert.ErrorIs(t, h.Apply(0, Action{Kind: ActionRaise, Amount: 2000}), ErrRaiseAboveLimit)
	assert.NotContains(t, h.AvailableActions(0), ActionRaise)
	assert.NotContains(t, h.AvailableActions(0), ActionAllIn)
	assert.NoError(t, h.Apply(0, Action{Kind: ActionCall}))
}

func TestHand_EmitsLifecycleEvents(t *testing.T) {
	var names []string
	seats := []*Seat{NewHumanSeat("You", 1000), NewBotSeat(1, bots.Jerry)}
	h := NewHand("tbl_test", seats, 0, BlindConfig{SmallBlind: 10}, cards.NewDeck52())
	h.RegisterEventHandler(func(e events.Event) { names = append(names, e.Name()) })
	h.Start()
	require.NoError(t, h.Apply(0, Action{Kind: ActionFold}))

	assert.Equal(t, []string{
		"HAND_STARTED",
		"HOLE_CARDS_DEALT",
		"BLIND_POSTED",
		"BLIND_POSTED",
		"PLAYER_TURN_STARTED",
		"PLAYER_FOLDED",
		"SINGLE_WINNER_DETERMINED",
		"POT_AMOUNT_AWARDED",
		"PHASE_CHANGED",
		"HAND_ENDED",
	}, names)
	assert.Len(t, h.Events, len(names))
}
