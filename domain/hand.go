package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lazharichir/holdem/domain/cards"
	"github.com/lazharichir/holdem/domain/events"
	"github.com/lazharichir/holdem/domain/hands"
	"github.com/lazharichir/holdem/domain/pots"
)

type HandPhase string

const (
	HandPhase_Preflop  HandPhase = "preflop"
	HandPhase_Flop     HandPhase = "flop"
	HandPhase_Turn     HandPhase = "turn"
	HandPhase_River    HandPhase = "river"
	HandPhase_Showdown HandPhase = "showdown"
	HandPhase_Ended    HandPhase = "ended"
)

// communityCardsFor is how many board cards are dealt when entering a phase.
var communityCardsFor = map[HandPhase]int{
	HandPhase_Flop:  3,
	HandPhase_Turn:  1,
	HandPhase_River: 1,
}

var nextPhase = map[HandPhase]HandPhase{
	HandPhase_Preflop: HandPhase_Flop,
	HandPhase_Flop:    HandPhase_Turn,
	HandPhase_Turn:    HandPhase_River,
	HandPhase_River:   HandPhase_Showdown,
}

type ActionKind string

const (
	ActionFold  ActionKind = "fold"
	ActionCheck ActionKind = "check"
	ActionCall  ActionKind = "call"
	ActionRaise ActionKind = "raise"
	ActionAllIn ActionKind = "allin"
)

// Action is a betting decision. Amount is the total bet to raise to and is
// ignored for every other kind.
type Action struct {
	Kind   ActionKind `json:"kind"`
	Amount int        `json:"amount"`
}

// BlindConfig carries the stakes a hand is played at.
type BlindConfig struct {
	SmallBlind int `json:"smallBlind" mapstructure:"small_blind"`
	MaxBet     int `json:"maxBet" mapstructure:"max_bet"`        // largest total bet the human may raise to, 0 for no limit
	MinBuyIn   int `json:"minBuyIn" mapstructure:"min_buy_in"` // balance needed to sit down
}

// DefaultBlindConfig returns the standard stakes, or the high roller ones.
func DefaultBlindConfig(highRoller bool) BlindConfig {
	if highRoller {
		return BlindConfig{SmallBlind: 50, MinBuyIn: 100}
	}
	return BlindConfig{SmallBlind: 10, MaxBet: 1000, MinBuyIn: 100}
}

func (b BlindConfig) BigBlind() int {
	return 2 * b.SmallBlind
}

func (b BlindConfig) Validate() error {
	if b.SmallBlind <= 0 {
		return ErrInvalidBlinds
	}
	return nil
}

// Funding backs seat chips with something that lives outside the hand.
type Funding interface {
	// Fund is called before amount chips leave the seat for the pot and
	// returns how many of them are really available.
	Fund(seat *Seat, amount int) int
	// Pay is called after amount chips were awarded to the seat.
	Pay(seat *Seat, amount int)
}

type houseFunding struct{}

func (houseFunding) Fund(_ *Seat, amount int) int { return amount }
func (houseFunding) Pay(*Seat, int)               {}

// Hand is one deal, from blinds to payout. It owns the betting state machine
// and checks every action at Apply. A Hand is not safe for concurrent use.
type Hand struct {
	ID        string
	TableID   string
	Phase     HandPhase
	Blinds    BlindConfig
	StartedAt time.Time

	// events
	Events        []events.Event
	eventHandlers []events.EventHandler

	Seats          []*Seat
	Deck           cards.Stack
	CommunityCards cards.Stack
	Pot            int // chips swept in from finished streets
	CurrentBet     int
	DealerIndex    int
	SmallBlindSeat int
	BigBlindSeat   int
	CurrentSeat    int // index into Seats of the seat to act, -1 when nobody
	SidePots       []pots.Pot
	Awards         []pots.Award
	Payouts        map[int]int
	Winners        []int
	Results        []hands.HandComparisonResult

	funding Funding
}

// NewHand prepares a hand over the given seats. Seats keep their stacks and
// are reset for the new deal. Start must be called to deal and post blinds.
func NewHand(tableID string, seats []*Seat, dealerIndex int, blinds BlindConfig, deck cards.Stack) *Hand {
	for _, s := range seats {
		s.ResetForNewHand()
	}
	return &Hand{
		ID:          uuid.NewString(),
		TableID:     tableID,
		Phase:       HandPhase_Preflop,
		Blinds:      blinds,
		Seats:       seats,
		Deck:        deck,
		DealerIndex: dealerIndex,
		CurrentSeat: -1,
		Payouts:     map[int]int{},
		funding:     houseFunding{},
	}
}

// RegisterEventHandler registers a callback function that will be called when events occur
func (h *Hand) RegisterEventHandler(handler events.EventHandler) {
	h.eventHandlers = append(h.eventHandlers, handler)
}

// emitEvent notifies all registered handlers of a new event
func (h *Hand) emitEvent(event events.Event) {
	h.Events = append(h.Events, event)
	for _, handler := range h.eventHandlers {
		handler(event)
	}
}

// Start deals the hole cards, posts the blinds and hands the action to the
// first seat after the big blind.
func (h *Hand) Start() {
	h.StartedAt = time.Now()
	n := len(h.Seats)

	seatIDs := make([]int, n)
	for i, s := range h.Seats {
		seatIDs[i] = s.ID
	}

	// heads-up the button posts the small blind
	if n == 2 {
		h.SmallBlindSeat = h.DealerIndex
		h.BigBlindSeat = (h.DealerIndex + 1) % n
	} else {
		h.SmallBlindSeat = (h.DealerIndex + 1) % n
		h.BigBlindSeat = (h.DealerIndex + 2) % n
	}

	h.emitEvent(events.HandStarted{
		TableID:    h.TableID,
		HandID:     h.ID,
		DealerSeat: h.Seats[h.DealerIndex].ID,
		Seats:      seatIDs,
		SmallBlind: h.Blinds.SmallBlind,
		BigBlind:   h.Blinds.BigBlind(),
	})

	h.dealHoleCards()
	h.postBlind(h.SmallBlindSeat, h.Blinds.SmallBlind, "small", "Small blind")
	h.postBlind(h.BigBlindSeat, h.Blinds.BigBlind(), "big", "Big blind")
	h.CurrentBet = h.Blinds.BigBlind()

	if h.isBettingRoundComplete() {
		h.endBettingRound()
		return
	}
	h.setCurrentSeat(h.nextToAct(h.BigBlindSeat))
}

func (h *Hand) dealHoleCards() {
	n := len(h.Seats)
	order := make(map[int]int, n)
	for round := 0; round < 2; round++ {
		for i := 1; i <= n; i++ {
			seat := h.Seats[(h.DealerIndex+i)%n]
			seat.HoleCards = append(seat.HoleCards, h.Deck.DealCard())
			if round == 0 {
				order[seat.ID] = i - 1
			}
		}
	}

	h.emitEvent(events.HoleCardsDealt{
		TableID:   h.TableID,
		HandID:    h.ID,
		DealOrder: order,
	})
}

func (h *Hand) postBlind(index, amount int, blind, label string) {
	seat := h.Seats[index]
	posted := h.commit(seat, min(amount, seat.Chips))
	seat.LastAction = fmt.Sprintf("%s $%d", label, posted)

	h.emitEvent(events.BlindPosted{
		TableID: h.TableID,
		HandID:  h.ID,
		SeatID:  seat.ID,
		Blind:   blind,
		Amount:  posted,
		AllIn:   seat.AllIn,
	})
}

// commit moves chips from the seat into its bet once the funding allows it.
// When fewer chips are available than requested the seat's stack shrinks to
// what is available and all of it goes in.
func (h *Hand) commit(seat *Seat, amount int) int {
	if amount <= 0 {
		return 0
	}
	granted := h.funding.Fund(seat, amount)
	if granted < amount {
		seat.Chips = max(granted, 0)
		granted = seat.Chips
	}
	seat.moveToBet(granted)
	return granted
}

// Apply validates and applies one action for the seat whose turn it is.
// A rejected action leaves the hand untouched.
func (h *Hand) Apply(seatID int, action Action) error {
	if h.IsOver() {
		return ErrHandOver
	}
	if h.CurrentSeat < 0 || h.Seats[h.CurrentSeat].ID != seatID {
		return ErrNotYourTurn
	}

	seat := h.Seats[h.CurrentSeat]
	action, err := h.normalize(seat, action)
	if err != nil {
		return err
	}

	switch action.Kind {
	case ActionFold:
		seat.Folded = true
		seat.HasActed = true
		seat.LastAction = "Folded"
		h.emitEvent(events.PlayerFolded{TableID: h.TableID, HandID: h.ID, SeatID: seat.ID, Phase: string(h.Phase)})

	case ActionCall:
		paid := h.commit(seat, min(h.CurrentBet-seat.Bet, seat.Chips))
		seat.HasActed = true
		h.afterBet(seat, paid)

	case ActionRaise:
		paid := h.commit(seat, action.Amount-seat.Bet)
		seat.HasActed = true
		h.afterBet(seat, paid)
	}

	h.advance()
	return nil
}

// normalize resolves check and all-in into call or raise and rejects
// anything the seat is not allowed to do.
func (h *Hand) normalize(seat *Seat, action Action) (Action, error) {
	switch action.Kind {
	case ActionFold, ActionCall:
		return Action{Kind: action.Kind}, nil

	case ActionCheck:
		if seat.Bet < h.CurrentBet {
			return action, fmt.Errorf("%w: cannot check facing %d to call", ErrInvalidAction, h.CurrentBet-seat.Bet)
		}
		return Action{Kind: ActionCall}, nil

	case ActionAllIn:
		if seat.Bet+seat.Chips <= h.CurrentBet {
			return Action{Kind: ActionCall}, nil
		}
		return h.normalize(seat, Action{Kind: ActionRaise, Amount: seat.Bet + seat.Chips})

	case ActionRaise:
		if action.Amount <= h.CurrentBet {
			return action, fmt.Errorf("%w: raise to %d, current bet is %d", ErrRaiseTooSmall, action.Amount, h.CurrentBet)
		}
		if action.Amount-seat.Bet > seat.Chips {
			return action, fmt.Errorf("%w: raise to %d needs %d, seat has %d", ErrRaiseExceedsStack, action.Amount, action.Amount-seat.Bet, seat.Chips)
		}
		if limit := h.MaxBetFor(seat); limit > 0 && action.Amount > limit {
			return action, fmt.Errorf("%w: raise to %d, limit is %d", ErrRaiseAboveLimit, action.Amount, limit)
		}
		return action, nil
	}

	return action, fmt.Errorf("%w: %q", ErrInvalidAction, action.Kind)
}

// afterBet reopens the action when the bet went above the table bet and
// records what happened.
func (h *Hand) afterBet(seat *Seat, paid int) {
	phase := string(h.Phase)
	raised := seat.Bet > h.CurrentBet
	if raised {
		h.CurrentBet = seat.Bet
		for _, other := range h.Seats {
			if other != seat && other.CanAct() {
				other.HasActed = false
			}
		}
	}

	switch {
	case seat.AllIn:
		seat.LastAction = fmt.Sprintf("All-in $%d", seat.Bet)
		h.emitEvent(events.PlayerWentAllIn{TableID: h.TableID, HandID: h.ID, SeatID: seat.ID, Phase: phase, Total: seat.Bet})
	case raised:
		seat.LastAction = fmt.Sprintf("Raised to $%d", seat.Bet)
		h.emitEvent(events.PlayerRaised{TableID: h.TableID, HandID: h.ID, SeatID: seat.ID, Phase: phase, To: seat.Bet, Delta: paid})
	case paid == 0:
		seat.LastAction = "Checked"
		h.emitEvent(events.PlayerChecked{TableID: h.TableID, HandID: h.ID, SeatID: seat.ID, Phase: phase})
	default:
		seat.LastAction = fmt.Sprintf("Called $%d", paid)
		h.emitEvent(events.PlayerCalled{TableID: h.TableID, HandID: h.ID, SeatID: seat.ID, Phase: phase, Amount: paid})
	}
}

func (h *Hand) advance() {
	if h.LiveCount() == 1 {
		h.awardToLastStanding()
		return
	}
	if h.isBettingRoundComplete() {
		h.endBettingRound()
		return
	}
	h.setCurrentSeat(h.nextToAct(h.CurrentSeat))
}

// isBettingRoundComplete is true when every seat that can still bet has acted
// and matched the table bet. A lone seat facing only all-ins has nothing left
// to decide once it has matched.
func (h *Hand) isBettingRoundComplete() bool {
	actors := 0
	pending := false
	var lone *Seat
	for _, s := range h.Seats {
		if !s.CanAct() {
			continue
		}
		actors++
		lone = s
		if !s.HasActed || s.Bet != h.CurrentBet {
			pending = true
		}
	}
	if actors == 0 {
		return true
	}
	if actors == 1 && lone.Bet >= h.CurrentBet {
		return true
	}
	return !pending
}

// nextToAct finds the first seat after index that still owes a decision.
func (h *Hand) nextToAct(index int) int {
	n := len(h.Seats)
	for i := 1; i <= n; i++ {
		idx := (index + i) % n
		s := h.Seats[idx]
		if s.CanAct() && (!s.HasActed || s.Bet < h.CurrentBet) {
			return idx
		}
	}
	return -1
}

func (h *Hand) setCurrentSeat(index int) {
	h.CurrentSeat = index
	if index < 0 {
		return
	}
	seat := h.Seats[index]
	h.emitEvent(events.PlayerTurnStarted{
		TableID: h.TableID,
		HandID:  h.ID,
		SeatID:  seat.ID,
		Phase:   string(h.Phase),
		ToCall:  h.toCall(seat),
	})
}

// endBettingRound sweeps the bets and deals streets until someone has a
// decision to make or the river is done.
func (h *Hand) endBettingRound() {
	for {
		h.sweepBets()
		next := nextPhase[h.Phase]
		if next == HandPhase_Showdown {
			h.showdown()
			return
		}

		h.setPhase(next)
		dealt := h.Deck.DealCards(communityCardsFor[next])
		h.CommunityCards = append(h.CommunityCards, dealt...)
		h.emitEvent(events.CommunityCardsDealt{
			TableID: h.TableID,
			HandID:  h.ID,
			Phase:   string(next),
			Cards:   dealt,
		})

		if !h.isBettingRoundComplete() {
			h.setCurrentSeat(h.nextToAct(h.DealerIndex))
			return
		}
	}
}

func (h *Hand) sweepBets() {
	total := 0
	for _, s := range h.Seats {
		total += s.Bet
		h.Pot += s.Bet
		s.Bet = 0
		if s.CanAct() {
			s.HasActed = false
		}
	}
	h.CurrentBet = 0
	h.CurrentSeat = -1

	h.emitEvent(events.BettingRoundEnded{
		TableID:   h.TableID,
		HandID:    h.ID,
		Phase:     string(h.Phase),
		TotalBets: total,
	})
}

func (h *Hand) setPhase(phase HandPhase) {
	previous := h.Phase
	h.Phase = phase
	h.emitEvent(events.PhaseChanged{
		TableID:       h.TableID,
		HandID:        h.ID,
		PreviousPhase: string(previous),
		NewPhase:      string(phase),
	})
}

// awardToLastStanding gives everything to the only seat that did not fold.
// No further cards are dealt or shown.
func (h *Hand) awardToLastStanding() {
	var winner *Seat
	for _, s := range h.Seats {
		h.Pot += s.Bet
		s.Bet = 0
		if !s.Folded {
			winner = s
		}
	}
	h.CurrentBet = 0
	h.CurrentSeat = -1

	h.emitEvent(events.SingleWinnerDetermined{
		TableID: h.TableID,
		HandID:  h.ID,
		SeatID:  winner.ID,
		Reason:  "last player standing",
	})

	amount := h.Pot
	h.Awards = []pots.Award{{PotIndex: 0, SeatID: winner.ID, Amount: amount}}
	h.payout(winner, 0, amount, "last player standing")
	h.Winners = []int{winner.ID}
	h.end(amount)
}

func (h *Hand) showdown() {
	h.setPhase(HandPhase_Showdown)

	live := map[int]cards.Stack{}
	var liveIDs []int
	for _, s := range h.Seats {
		if s.Folded {
			continue
		}
		live[s.ID] = append(s.HoleCards.Clone(), h.CommunityCards...)
		liveIDs = append(liveIDs, s.ID)
	}

	h.emitEvent(events.ShowdownStarted{
		TableID:       h.TableID,
		HandID:        h.ID,
		ActivePlayers: liveIDs,
	})

	h.Results = hands.CompareHands(live)
	evaluated := make(map[int]hands.HandResult, len(h.Results))
	for _, r := range h.Results {
		evaluated[r.SeatID] = r.Hand
		h.emitEvent(events.PlayerShowedHand{
			TableID:   h.TableID,
			HandID:    h.ID,
			SeatID:    r.SeatID,
			HoleCards: h.seatByID(r.SeatID).HoleCards,
			Hand:      r.Hand.Cards,
			HandName:  r.Hand.Name(),
		})
	}

	contributions := make([]pots.Contribution, len(h.Seats))
	for i, s := range h.Seats {
		contributions[i] = pots.Contribution{SeatID: s.ID, Amount: s.Committed, Folded: s.Folded}
	}
	h.SidePots = pots.Allocate(contributions)

	h.emitEvent(events.PotBrokenDown{
		TableID: h.TableID,
		HandID:  h.ID,
		Pots:    h.SidePots,
	})

	h.Awards = pots.Distribute(h.SidePots, func(eligible []int) []int {
		return bestOf(eligible, evaluated)
	})

	total := 0
	winners := map[int]bool{}
	for _, a := range h.Awards {
		h.payout(h.seatByID(a.SeatID), a.PotIndex, a.Amount, "showdown")
		total += a.Amount
		winners[a.SeatID] = true
	}
	for _, id := range liveIDs {
		if winners[id] {
			h.Winners = append(h.Winners, id)
		}
	}

	h.end(total)
}

// bestOf returns the eligible seats holding the strongest hand.
func bestOf(eligible []int, evaluated map[int]hands.HandResult) []int {
	var best []int
	for _, id := range eligible {
		hand, ok := evaluated[id]
		if !ok {
			continue
		}
		if len(best) == 0 {
			best = []int{id}
			continue
		}
		switch c := hands.Compare(hand, evaluated[best[0]]); {
		case c > 0:
			best = []int{id}
		case c == 0:
			best = append(best, id)
		}
	}
	return best
}

func (h *Hand) payout(seat *Seat, potIndex, amount int, reason string) {
	h.Pot -= amount
	seat.Chips += amount
	h.Payouts[seat.ID] += amount
	h.funding.Pay(seat, amount)

	h.emitEvent(events.PotAmountAwarded{
		TableID:  h.TableID,
		HandID:   h.ID,
		SeatID:   seat.ID,
		PotIndex: potIndex,
		Amount:   amount,
		Reason:   reason,
	})
}

func (h *Hand) end(finalPot int) {
	h.CurrentSeat = -1
	h.setPhase(HandPhase_Ended)
	h.emitEvent(events.HandEnded{
		TableID:  h.TableID,
		HandID:   h.ID,
		Duration: time.Since(h.StartedAt).Milliseconds(),
		FinalPot: finalPot,
		Winners:  h.Winners,
	})
}

// IsOver reports whether the hand accepts no more actions.
func (h *Hand) IsOver() bool {
	return h.Phase == HandPhase_Ended || h.Phase == HandPhase_Showdown
}

// CurrentSeatID is the id of the seat to act, or -1.
func (h *Hand) CurrentSeatID() int {
	if h.CurrentSeat < 0 {
		return -1
	}
	return h.Seats[h.CurrentSeat].ID
}

// LiveCount is the number of seats that have not folded.
func (h *Hand) LiveCount() int {
	n := 0
	for _, s := range h.Seats {
		if !s.Folded {
			n++
		}
	}
	return n
}

// TotalPot is the pot including bets not yet swept in.
func (h *Hand) TotalPot() int {
	total := h.Pot
	for _, s := range h.Seats {
		total += s.Bet
	}
	return total
}

// ChipsInPlay is pot, stacks and bets together. It only changes when the
// funding behind a seat refuses chips.
func (h *Hand) ChipsInPlay() int {
	total := h.Pot
	for _, s := range h.Seats {
		total += s.Chips + s.Bet
	}
	return total
}

// ToCall is what the seat needs to put in to match the table bet.
func (h *Hand) ToCall(seatID int) int {
	seat := h.seatByID(seatID)
	if seat == nil {
		return 0
	}
	return h.toCall(seat)
}

func (h *Hand) toCall(seat *Seat) int {
	return max(0, min(h.CurrentBet-seat.Bet, seat.Chips))
}

// MinRaise is the suggested smallest raise. Any total above the current bet
// is accepted.
func (h *Hand) MinRaise() int {
	return max(2*h.CurrentBet, h.Blinds.BigBlind()*2)
}

// MaxBetFor is the largest total bet the seat may raise to, 0 for no limit.
// Only the human seat is capped.
func (h *Hand) MaxBetFor(seat *Seat) int {
	if seat.IsBot {
		return 0
	}
	return h.Blinds.MaxBet
}

// AvailableActions lists what the seat may do right now.
func (h *Hand) AvailableActions(seatID int) []ActionKind {
	if h.IsOver() || h.CurrentSeatID() != seatID {
		return nil
	}
	seat := h.Seats[h.CurrentSeat]
	actions := []ActionKind{ActionFold}
	if seat.Bet >= h.CurrentBet {
		actions = append(actions, ActionCheck)
	} else {
		actions = append(actions, ActionCall)
	}
	allIn := seat.Bet + seat.Chips
	top := allIn
	limit := h.MaxBetFor(seat)
	if limit > 0 {
		top = min(top, limit)
	}
	if top > h.CurrentBet {
		actions = append(actions, ActionRaise)
	}
	if limit == 0 || allIn <= limit || allIn <= h.CurrentBet {
		actions = append(actions, ActionAllIn)
	}
	return actions
}

func (h *Hand) seatByID(id int) *Seat {
	for _, s := range h.Seats {
		if s.ID == id {
			return s
		}
	}
	return nil
}
