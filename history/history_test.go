package history

import (
	"io"
	"math/rand"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/lazharichir/holdem/bank"
	"github.com/lazharichir/holdem/domain"
	"github.com/lazharichir/holdem/domain/cards"
	"github.com/lazharichir/holdem/domain/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRehydrate_RebuildsPlayedHands(t *testing.T) {
	store := events.NewInMemoryEventStore()
	b := bank.NewMemoryBank(1000)
	table := domain.NewTable(b,
		domain.WithLogger(log.New(io.Discard)),
		domain.WithRNG(rand.New(rand.NewSource(3))),
		domain.WithEventHandler(store.Handler()),
	)

	// heads-up, the player has the button and folds the small blind
	_, err := table.StartHand(1, domain.DefaultBlindConfig(false))
	require.NoError(t, err)
	_, err = table.SubmitPlayerAction(domain.ActionFold, 0)
	require.NoError(t, err)

	// second hand is left running
	_, err = table.StartHand(1, domain.DefaultBlindConfig(false))
	require.NoError(t, err)

	records, err := Rehydrate(store, table.ID)
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	assert.True(t, first.Complete)
	assert.Equal(t, []int{0, 1}, first.Seats)
	assert.Equal(t, 10, first.SmallBlind)
	assert.Equal(t, []int{1}, first.Winners)
	assert.Equal(t, 30, first.FinalPot)
	assert.Equal(t, -10, first.Net)
	require.Len(t, first.Awards, 1)
	assert.Equal(t, Award{SeatID: 1, Amount: 30, Reason: "last player standing"}, first.Awards[0])
	assert.Contains(t, first.Actions, "preflop: seat 0 folds")
	assert.Empty(t, first.Board)

	assert.False(t, records[1].Complete)
	assert.Equal(t, 1, records[1].DealerSeat)
}

func TestReplay_Showdown(t *testing.T) {
	stream := []events.Event{
		events.PlayerFolded{TableID: "t", SeatID: 9}, // before any hand, ignored
		events.HandStarted{TableID: "t", HandID: "h", Seats: []int{0, 1}, SmallBlind: 10, BigBlind: 20},
		events.CommunityCardsDealt{TableID: "t", HandID: "h", Phase: "flop", Cards: cards.MustParse("As Kd 7c")},
		events.CommunityCardsDealt{TableID: "t", HandID: "h", Phase: "turn", Cards: cards.MustParse("2h")},
		events.CommunityCardsDealt{TableID: "t", HandID: "stale", Phase: "river", Cards: cards.MustParse("3h")},
		events.PlayerShowedHand{TableID: "t", HandID: "h", SeatID: 0, HandName: "Pair"},
		events.PotAmountAwarded{TableID: "t", HandID: "h", SeatID: 0, Amount: 40, Reason: "showdown"},
		events.BalanceCredited{TableID: "t", HandID: "h", Amount: 40},
		events.HandEnded{TableID: "t", HandID: "h", FinalPot: 40, Winners: []int{0}},
	}

	records := Replay(stream)
	require.Len(t, records, 1)
	assert.Equal(t, cards.MustParse("As Kd 7c 2h"), records[0].Board)
	assert.Equal(t, map[int]string{0: "Pair"}, records[0].Shown)
	assert.Equal(t, 40, records[0].Net)
	assert.Empty(t, records[0].Actions)
}
