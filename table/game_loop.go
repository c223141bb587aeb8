package table

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lazharichir/holdem/domain"
	"github.com/lazharichir/holdem/domain/events"
)

var ErrStopped = errors.New("game loop stopped")

// Rules are the stakes and timing a game loop plays with
type Rules struct {
	Standard    domain.BlindConfig
	HighRoller  domain.BlindConfig
	TurnTimeout time.Duration // 0 disables the turn clock
}

func DefaultRules() Rules {
	return Rules{
		Standard:    domain.DefaultBlindConfig(false),
		HighRoller:  domain.DefaultBlindConfig(true),
		TurnTimeout: 30 * time.Second,
	}
}

func (r Rules) BlindsFor(highRoller bool) domain.BlindConfig {
	if highRoller {
		return r.HighRoller
	}
	return r.Standard
}

type result struct {
	state domain.TableState
	err   error
}

// request is one call into the table, run on the loop goroutine
type request struct {
	name  string
	do    func() (domain.TableState, error)
	reply chan result
}

// GameLoop owns a table and serialises every call into it on a single
// goroutine. It also runs the human's turn clock: when the clock runs out
// the human checks if that is free, otherwise folds.
type GameLoop struct {
	table      *domain.Table
	rules      Rules
	logger     *log.Logger
	eventStore events.EventStore

	actionChan chan request
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup

	// only touched by the loop goroutine
	timer *time.Timer

	stateHandlers []func(domain.TableState)
	eventHandlers []events.EventHandler
}

// NewGameLoop creates a game loop for the table. Events the table emits are
// appended to eventStore when it is not nil.
func NewGameLoop(table *domain.Table, rules Rules, eventStore events.EventStore, logger *log.Logger) *GameLoop {
	if logger == nil {
		logger = log.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())

	g := &GameLoop{
		table:      table,
		rules:      rules,
		logger:     logger.WithPrefix("loop").With("table", shortID(table.ID)),
		eventStore: eventStore,
		actionChan: make(chan request, 16),
		ctx:        ctx,
		cancel:     cancel,
	}
	table.RegisterEventHandler(g.handleTableEvent)
	return g
}

// TableID returns the id of the table the loop drives
func (g *GameLoop) TableID() string {
	return g.table.ID
}

// OnStateChange registers a callback for state changes the loop makes on
// its own, such as a timed out turn. Register before Start.
func (g *GameLoop) OnStateChange(handler func(domain.TableState)) {
	g.stateHandlers = append(g.stateHandlers, handler)
}

// AddEventHandler registers a callback for every table event. Callbacks run
// on the loop goroutine. Register before Start.
func (g *GameLoop) AddEventHandler(handler events.EventHandler) {
	g.eventHandlers = append(g.eventHandlers, handler)
}

// Start begins the game loop
func (g *GameLoop) Start() {
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		g.runLoop()
	}()
}

// Stop stops the game loop and waits for it to exit
func (g *GameLoop) Stop() {
	g.cancel()
	g.wg.Wait()
}

// StartHand deals a new hand with botCount bots
func (g *GameLoop) StartHand(ctx context.Context, botCount int, highRoller bool) (domain.TableState, error) {
	blinds := g.rules.BlindsFor(highRoller)
	return g.submit(ctx, "start_hand", func() (domain.TableState, error) {
		return g.table.StartHand(botCount, blinds)
	})
}

// SubmitAction plays the human's action
func (g *GameLoop) SubmitAction(ctx context.Context, kind domain.ActionKind, amount int) (domain.TableState, error) {
	return g.submit(ctx, string(kind), func() (domain.TableState, error) {
		return g.table.SubmitPlayerAction(kind, amount)
	})
}

// State returns the human's view of the table
func (g *GameLoop) State(ctx context.Context) (domain.TableState, error) {
	return g.submit(ctx, "state", func() (domain.TableState, error) {
		return g.table.State(), nil
	})
}

func (g *GameLoop) submit(ctx context.Context, name string, do func() (domain.TableState, error)) (domain.TableState, error) {
	if err := ctx.Err(); err != nil {
		return domain.TableState{}, err
	}
	req := request{name: name, do: do, reply: make(chan result, 1)}

	select {
	case g.actionChan <- req:
	case <-ctx.Done():
		return domain.TableState{}, ctx.Err()
	case <-g.ctx.Done():
		return domain.TableState{}, ErrStopped
	}

	select {
	case res := <-req.reply:
		return res.state, res.err
	case <-ctx.Done():
		return domain.TableState{}, ctx.Err()
	case <-g.ctx.Done():
		return domain.TableState{}, ErrStopped
	}
}

// runLoop processes requests and turn timeouts until the loop is stopped
func (g *GameLoop) runLoop() {
	defer g.disarm()

	for {
		var timeout <-chan time.Time
		if g.timer != nil {
			timeout = g.timer.C
		}

		select {
		case <-g.ctx.Done():
			return

		case req := <-g.actionChan:
			state, err := req.do()
			if err != nil {
				g.logger.Debug("request failed", "request", req.name, "err", err)
			}
			g.arm(state)
			req.reply <- result{state: state, err: err}

		case <-timeout:
			g.timer = nil
			g.handleTurnTimeout()
		}
	}
}

func (g *GameLoop) handleTurnTimeout() {
	state, err := g.table.TimeoutPlayer()
	if err != nil {
		g.logger.Warn("turn timeout ignored", "err", err)
		return
	}
	g.logger.Info("player timed out", "phase", state.Phase)

	g.arm(state)
	for _, handler := range g.stateHandlers {
		handler(state)
	}
}

// arm restarts the turn clock when the human is up
func (g *GameLoop) arm(state domain.TableState) {
	g.disarm()
	if g.rules.TurnTimeout <= 0 || !state.MyTurn {
		return
	}
	g.timer = time.NewTimer(g.rules.TurnTimeout)
}

func (g *GameLoop) disarm() {
	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
}

func (g *GameLoop) handleTableEvent(event events.Event) {
	if g.eventStore != nil {
		if err := g.eventStore.Append(event); err != nil {
			g.logger.Error("cannot store event", "event", event.Name(), "err", err)
		}
	}
	for _, handler := range g.eventHandlers {
		handler(event)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
