package domain

import (
	"github.com/lazharichir/holdem/domain/cards"
	"github.com/lazharichir/holdem/domain/pots"
)

// TableState is a read-only snapshot of the table as the human sees it.
type TableState struct {
	TableID          string       `json:"tableId"`
	HandID           string       `json:"handId,omitempty"`
	Phase            HandPhase    `json:"phase,omitempty"`
	Seats            []SeatView   `json:"seats"`
	CommunityCards   cards.Stack  `json:"communityCards"`
	Pot              int          `json:"pot"`      // swept from finished streets
	TotalPot         int          `json:"totalPot"` // pot plus live bets
	CurrentBet       int          `json:"currentBet"`
	SmallBlind       int          `json:"smallBlind"`
	BigBlind         int          `json:"bigBlind"`
	DealerSeat       int          `json:"dealerSeat"`
	CurrentSeat      int          `json:"currentSeat"` // -1 when nobody is to act
	MyTurn           bool         `json:"myTurn"`
	ToCall           int          `json:"toCall"`
	MinRaise         int          `json:"minRaise"`
	MaxBet           int          `json:"maxBet"`
	AvailableActions []ActionKind `json:"availableActions"`
	SidePots         []pots.Pot   `json:"sidePots,omitempty"`
	Payouts          map[int]int  `json:"payouts,omitempty"`
	Winners          []int        `json:"winners,omitempty"`
}

// SeatView is one seat in a TableState.
type SeatView struct {
	ID         int         `json:"id"`
	Name       string      `json:"name"`
	Chips      int         `json:"chips"`
	Bet        int         `json:"bet"`
	Committed  int         `json:"committed"`
	Folded     bool        `json:"folded"`
	AllIn      bool        `json:"allIn"`
	IsBot      bool        `json:"isBot"`
	IsDealer   bool        `json:"isDealer"`
	IsCurrent  bool        `json:"isCurrent"`
	LastAction string      `json:"lastAction"`
	HoleCards  cards.Stack `json:"holeCards,omitempty"` // hidden for bots until showdown
	HandName   string      `json:"handName,omitempty"`
}

// State returns a snapshot safe to hand to a UI. It shares no memory with
// the table.
func (t *Table) State() TableState {
	h := t.ActiveHand
	if h == nil {
		return TableState{TableID: t.ID, CurrentSeat: -1}
	}

	state := TableState{
		TableID:          t.ID,
		HandID:           h.ID,
		Phase:            h.Phase,
		CommunityCards:   h.CommunityCards.Clone(),
		Pot:              h.Pot,
		TotalPot:         h.TotalPot(),
		CurrentBet:       h.CurrentBet,
		SmallBlind:       h.Blinds.SmallBlind,
		BigBlind:         h.Blinds.BigBlind(),
		DealerSeat:       h.Seats[h.DealerIndex].ID,
		CurrentSeat:      h.CurrentSeatID(),
		MyTurn:           h.CurrentSeatID() == HumanSeatID,
		ToCall:           h.ToCall(HumanSeatID),
		MinRaise:         h.MinRaise(),
		MaxBet:           h.Blinds.MaxBet,
		AvailableActions: h.AvailableActions(HumanSeatID),
		SidePots:         append([]pots.Pot(nil), h.SidePots...),
		Winners:          append([]int(nil), h.Winners...),
	}

	if len(h.Payouts) > 0 {
		state.Payouts = make(map[int]int, len(h.Payouts))
		for id, amount := range h.Payouts {
			state.Payouts[id] = amount
		}
	}

	handNames := map[int]string{}
	for _, r := range h.Results {
		handNames[r.SeatID] = r.Hand.Name()
	}
	revealed := h.Phase == HandPhase_Showdown || (h.Phase == HandPhase_Ended && len(h.Results) > 0)

	for i, s := range h.Seats {
		view := SeatView{
			ID:         s.ID,
			Name:       s.Name,
			Chips:      s.Chips,
			Bet:        s.Bet,
			Committed:  s.Committed,
			Folded:     s.Folded,
			AllIn:      s.AllIn,
			IsBot:      s.IsBot,
			IsDealer:   i == h.DealerIndex,
			IsCurrent:  i == h.CurrentSeat,
			LastAction: s.LastAction,
		}
		if !s.IsBot || (revealed && !s.Folded) {
			view.HoleCards = s.HoleCards.Clone()
			view.HandName = handNames[s.ID]
		}
		state.Seats = append(state.Seats, view)
	}

	return state
}

// Seat returns the view of one seat.
func (s TableState) Seat(id int) (SeatView, bool) {
	for _, v := range s.Seats {
		if v.ID == id {
			return v, true
		}
	}
	return SeatView{}, false
}
