package domain

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/lazharichir/holdem/domain/bots"
	"github.com/lazharichir/holdem/domain/cards"
	"github.com/lazharichir/holdem/domain/events"
	"github.com/sanity-io/litter"
)

// ChipBank is the player's balance in the surrounding game. Debit must be
// atomic: it either takes the whole amount or nothing.
type ChipBank interface {
	Balance() int
	Debit(amount int) bool
	Credit(amount int)
}

// TableOption configures a Table
type TableOption func(*Table)

// WithLogger sets the logger used by the table and its bots
func WithLogger(logger *log.Logger) TableOption {
	return func(t *Table) { t.logger = logger }
}

// WithRNG sets the random source for shuffling and bot decisions
func WithRNG(rng *rand.Rand) TableOption {
	return func(t *Table) { t.rng = rng }
}

// WithDeckFactory replaces the ordered 52 card deck the table shuffles.
// The returned stack is shuffled before dealing.
func WithDeckFactory(factory func() cards.Stack) TableOption {
	return func(t *Table) { t.newDeck = factory }
}

// WithStackedDeck deals decks in the exact order given, without shuffling.
func WithStackedDeck(factory func() cards.Stack) TableOption {
	return func(t *Table) {
		t.newDeck = factory
		t.shuffle = false
	}
}

// WithBotProfiles sets the bots the table seats, in seat order
func WithBotProfiles(profiles ...bots.Profile) TableOption {
	return func(t *Table) { t.profiles = profiles }
}

// WithPlayerName names the human seat
func WithPlayerName(name string) TableOption {
	return func(t *Table) { t.human.Name = name }
}

// WithEventHandler registers a handler before any hand is played
func WithEventHandler(handler events.EventHandler) TableOption {
	return func(t *Table) { t.RegisterEventHandler(handler) }
}

// Table runs hands between the human seat and up to three bots. Bots act
// synchronously; every call returns once the human must act or the hand is
// over. A Table is not safe for concurrent use.
type Table struct {
	ID          string
	ActiveHand  *Hand
	HandsPlayed int

	bank     ChipBank
	logger   *log.Logger
	rng      *rand.Rand
	newDeck  func() cards.Stack
	shuffle  bool
	profiles []bots.Profile

	human    *Seat
	botSeats []*Seat
	policies map[int]*bots.Policy
	dealer   int

	// events of the current hand
	Events        []events.Event
	eventHandlers []events.EventHandler
}

// NewTable creates a table backed by the player's chip bank
func NewTable(bank ChipBank, opts ...TableOption) *Table {
	t := &Table{
		ID:       uuid.NewString(),
		bank:     bank,
		logger:   log.Default(),
		newDeck:  cards.NewDeck52,
		shuffle:  true,
		profiles: bots.DefaultProfiles(),
		human:    NewHumanSeat("You", 0),
		policies: map[int]*bots.Policy{},
		dealer:   -1,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.rng == nil {
		t.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	t.logger = t.logger.WithPrefix("table").With("table", t.ID[:8])
	return t
}

// StartHand seats botCount bots next to the human, deals and posts blinds,
// then lets the bots act until the human is up or the hand is over.
func (t *Table) StartHand(botCount int, blinds BlindConfig) (TableState, error) {
	if t.ActiveHand != nil && !t.ActiveHand.IsOver() {
		return t.State(), ErrHandInProgress
	}
	if botCount < 1 || botCount > 3 {
		return t.State(), fmt.Errorf("%w: got %d", ErrBotCount, botCount)
	}
	if err := blinds.Validate(); err != nil {
		return t.State(), err
	}
	if len(t.profiles) == 0 {
		return t.State(), fmt.Errorf("%w: no bot profiles configured", ErrBotCount)
	}

	balance := t.bank.Balance()
	need := max(blinds.MinBuyIn, blinds.BigBlind())
	if balance < need {
		return t.State(), fmt.Errorf("%w: balance %d, need %d", ErrInsufficientFunds, balance, need)
	}

	t.human.Chips = balance
	seats := append([]*Seat{t.human}, t.seatBots(botCount)...)

	t.dealer = (t.dealer + 1) % len(seats)
	deck := t.newDeck()
	if t.shuffle {
		deck = cards.Shuffle(deck, t.rng)
	}

	t.Events = nil
	hand := NewHand(t.ID, seats, t.dealer, blinds, deck)
	hand.funding = t
	hand.RegisterEventHandler(t.handleHandEvent)
	t.ActiveHand = hand

	t.logger.Info("starting hand", "hand", hand.ID[:8], "bots", botCount, "smallBlind", blinds.SmallBlind, "balance", balance)

	hand.Start()
	t.runBots()

	return t.State(), nil
}

// seatBots returns the first n bot seats, creating them on first use and
// re-buying any bot that went broke.
func (t *Table) seatBots(n int) []*Seat {
	for len(t.botSeats) < n {
		id := len(t.botSeats) + 1
		profile := t.profiles[(id-1)%len(t.profiles)]
		t.botSeats = append(t.botSeats, NewBotSeat(id, profile))
		t.policies[id] = bots.NewPolicyWithRNG(t.logger, profile, t.rng)
	}

	seats := t.botSeats[:n]
	for _, s := range seats {
		if s.Chips <= 0 {
			t.logger.Info("bot re-buys", "bot", s.Name, "stack", s.Profile.Stack)
			s.Chips = s.Profile.Stack
		}
	}
	return seats
}

// SubmitPlayerAction applies the human's action and advances the bots.
// A rejected action returns the error with the state unchanged.
func (t *Table) SubmitPlayerAction(kind ActionKind, amount int) (TableState, error) {
	h := t.ActiveHand
	if h == nil {
		return t.State(), ErrNoActiveHand
	}
	if err := h.Apply(HumanSeatID, Action{Kind: kind, Amount: amount}); err != nil {
		t.logger.Debug("action rejected", "kind", kind, "amount", amount, "err", err)
		return t.State(), err
	}
	t.runBots()
	return t.State(), nil
}

// TimeoutPlayer acts for a human who did not answer in time: a free check,
// otherwise a fold.
func (t *Table) TimeoutPlayer() (TableState, error) {
	h := t.ActiveHand
	if h == nil {
		return t.State(), ErrNoActiveHand
	}
	if h.IsOver() {
		return t.State(), ErrHandOver
	}
	if h.CurrentSeatID() != HumanSeatID {
		return t.State(), ErrNotYourTurn
	}

	kind := ActionFold
	if h.ToCall(HumanSeatID) == 0 {
		kind = ActionCheck
	}

	t.emitEvent(events.PlayerTimedOut{
		TableID:       t.ID,
		HandID:        h.ID,
		SeatID:        HumanSeatID,
		Phase:         string(h.Phase),
		DefaultAction: string(kind),
	})

	return t.SubmitPlayerAction(kind, 0)
}

func (t *Table) runBots() {
	h := t.ActiveHand
	for !h.IsOver() && h.CurrentSeat >= 0 {
		seat := h.Seats[h.CurrentSeat]
		if !seat.IsBot {
			return
		}

		d := t.policies[seat.ID].Decide(bots.Situation{
			HoleCards:  seat.HoleCards,
			Board:      h.CommunityCards,
			Chips:      seat.Chips,
			Bet:        seat.Bet,
			CurrentBet: h.CurrentBet,
			BigBlind:   h.Blinds.BigBlind(),
		})

		err := h.Apply(seat.ID, Action{Kind: ActionKind(d.Move), Amount: d.Amount})
		if err != nil {
			t.logger.Warn("bot action rejected, calling instead", "bot", seat.Name, "move", d.Move, "amount", d.Amount, "err", err)
			if err := h.Apply(seat.ID, Action{Kind: ActionCall}); err != nil {
				t.logger.Error("bot cannot call", "bot", seat.Name, "err", err)
				return
			}
		}
	}
}

// Fund debits the bank before the human seat puts chips in. A refused debit
// falls back to whatever the bank still holds.
func (t *Table) Fund(seat *Seat, amount int) int {
	if seat.IsBot {
		return amount
	}
	for attempt := 0; attempt < 3 && amount > 0; attempt++ {
		if t.bank.Debit(amount) {
			t.emitEvent(events.BalanceDebited{TableID: t.ID, HandID: t.handID(), Amount: amount})
			return amount
		}
		balance := t.bank.Balance()
		t.logger.Warn("debit refused, going all-in with the remaining balance", "wanted", amount, "balance", balance)
		amount = min(amount, max(balance, 0))
	}
	return 0
}

// Pay credits the bank with the human seat's winnings.
func (t *Table) Pay(seat *Seat, amount int) {
	if seat.IsBot || amount <= 0 {
		return
	}
	t.bank.Credit(amount)
	t.emitEvent(events.BalanceCredited{TableID: t.ID, HandID: t.handID(), Amount: amount})
}

func (t *Table) handID() string {
	if t.ActiveHand == nil {
		return ""
	}
	return t.ActiveHand.ID
}

func (t *Table) handleHandEvent(event events.Event) {
	t.logger.Debug("event", "name", event.Name())

	t.emitEvent(event)

	switch ev := event.(type) {
	case events.HandEnded:
		t.HandsPlayed++
		t.logger.Info("hand ended", "hand", ev.HandID[:8], "pot", ev.FinalPot, "winners", ev.Winners)
	}
}

// DumpState renders the current state for debugging
func (t *Table) DumpState() string {
	return litter.Sdump(t.State())
}

// RegisterEventHandler registers a callback function that will be called when events occur
func (t *Table) RegisterEventHandler(handler events.EventHandler) {
	t.eventHandlers = append(t.eventHandlers, handler)
}

// emitEvent notifies all registered handlers of a new event
func (t *Table) emitEvent(event events.Event) {
	t.Events = append(t.Events, event)
	for _, handler := range t.eventHandlers {
		handler(event)
	}
}
