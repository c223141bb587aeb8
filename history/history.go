package history

import (
	"fmt"

	"github.com/lazharichir/holdem/domain/cards"
	"github.com/lazharichir/holdem/domain/events"
)

// Award is one pot share paid at the end of a hand
type Award struct {
	SeatID   int    `json:"seatId"`
	PotIndex int    `json:"potIndex"`
	Amount   int    `json:"amount"`
	Reason   string `json:"reason"`
}

// HandRecord is a finished or running hand rebuilt from its events
type HandRecord struct {
	HandID     string         `json:"handId"`
	DealerSeat int            `json:"dealerSeat"`
	Seats      []int          `json:"seats"`
	SmallBlind int            `json:"smallBlind"`
	BigBlind   int            `json:"bigBlind"`
	Board      cards.Stack    `json:"board"`
	Actions    []string       `json:"actions"`
	Shown      map[int]string `json:"shown,omitempty"` // seat id to hand name
	Awards     []Award        `json:"awards,omitempty"`
	Winners    []int          `json:"winners,omitempty"`
	FinalPot   int            `json:"finalPot"`
	Net        int            `json:"net"` // the player's balance change
	Complete   bool           `json:"complete"`
}

// Rehydrate rebuilds every hand played at a table from its event history
func Rehydrate(store events.EventStore, tableID string) ([]HandRecord, error) {
	stored, err := store.LoadEvents(tableID)
	if err != nil {
		return nil, fmt.Errorf("failed to load events: %w", err)
	}
	return Replay(stored), nil
}

// Replay folds events into hand records, oldest hand first. Events before
// the first HandStarted, or belonging to another hand than the running one,
// are ignored.
func Replay(stored []events.Event) []HandRecord {
	var records []HandRecord
	for _, event := range stored {
		if started, ok := event.(events.HandStarted); ok {
			records = append(records, HandRecord{
				HandID:     started.HandID,
				DealerSeat: started.DealerSeat,
				Seats:      append([]int(nil), started.Seats...),
				SmallBlind: started.SmallBlind,
				BigBlind:   started.BigBlind,
			})
			continue
		}
		if len(records) == 0 {
			continue
		}
		current := &records[len(records)-1]
		if events.ExtractHandID(event) != current.HandID {
			continue
		}
		applyEvent(event, current)
	}
	return records
}

// applyEvent dispatches events to the record of the running hand
func applyEvent(event events.Event, r *HandRecord) {
	switch e := event.(type) {
	case events.BlindPosted:
		r.Actions = append(r.Actions, fmt.Sprintf("seat %d posts %s blind %d", e.SeatID, e.Blind, e.Amount))
	case events.PlayerFolded:
		r.Actions = append(r.Actions, fmt.Sprintf("%s: seat %d folds", e.Phase, e.SeatID))
	case events.PlayerChecked:
		r.Actions = append(r.Actions, fmt.Sprintf("%s: seat %d checks", e.Phase, e.SeatID))
	case events.PlayerCalled:
		r.Actions = append(r.Actions, fmt.Sprintf("%s: seat %d calls %d", e.Phase, e.SeatID, e.Amount))
	case events.PlayerRaised:
		r.Actions = append(r.Actions, fmt.Sprintf("%s: seat %d raises to %d", e.Phase, e.SeatID, e.To))
	case events.PlayerWentAllIn:
		r.Actions = append(r.Actions, fmt.Sprintf("%s: seat %d is all-in for %d", e.Phase, e.SeatID, e.Total))
	case events.PlayerTimedOut:
		r.Actions = append(r.Actions, fmt.Sprintf("%s: seat %d timed out", e.Phase, e.SeatID))
	case events.CommunityCardsDealt:
		r.Board = append(r.Board, e.Cards...)
	case events.PlayerShowedHand:
		if r.Shown == nil {
			r.Shown = map[int]string{}
		}
		r.Shown[e.SeatID] = e.HandName
	case events.PotAmountAwarded:
		r.Awards = append(r.Awards, Award{SeatID: e.SeatID, PotIndex: e.PotIndex, Amount: e.Amount, Reason: e.Reason})
	case events.BalanceDebited:
		r.Net -= e.Amount
	case events.BalanceCredited:
		r.Net += e.Amount
	case events.HandEnded:
		r.Winners = append([]int(nil), e.Winners...)
		r.FinalPot = e.FinalPot
		r.Complete = true
	}
}
