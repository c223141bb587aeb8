package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/lazharichir/holdem/bank"
	"github.com/lazharichir/holdem/domain"
	"github.com/lazharichir/holdem/domain/bots"
	"github.com/lazharichir/holdem/domain/commands"
	domainevents "github.com/lazharichir/holdem/domain/events"
	"github.com/lazharichir/holdem/server/connection"
	"github.com/lazharichir/holdem/server/events"
	"github.com/lazharichir/holdem/table"
)

var ErrUnknownCommand = errors.New("unknown command type")

// Settings are what every new table is opened with
type Settings struct {
	StartingBalance int
	Rules           table.Rules
	Bots            []bots.Profile
}

// CommandRouter routes incoming commands to the appropriate handler. Each
// player gets a private table driven by its own game loop.
type CommandRouter struct {
	lobby      *domain.Lobby
	connMgr    *connection.Manager
	dispatcher *events.Dispatcher
	store      domainevents.EventStore
	settings   Settings
	logger     *log.Logger

	mu    sync.Mutex
	loops map[string]*table.GameLoop // by player id
}

// NewCommandRouter creates a new command router
func NewCommandRouter(lobby *domain.Lobby, connMgr *connection.Manager, dispatcher *events.Dispatcher, store domainevents.EventStore, settings Settings, logger *log.Logger) *CommandRouter {
	return &CommandRouter{
		lobby:      lobby,
		connMgr:    connMgr,
		dispatcher: dispatcher,
		store:      store,
		settings:   settings,
		logger:     logger,
		loops:      map[string]*table.GameLoop{},
	}
}

// HandleCommand processes an incoming command message. Failures are sent
// back to the client as an ERROR envelope and returned.
func (r *CommandRouter) HandleCommand(ctx context.Context, client *connection.Client, message []byte) error {
	err := r.route(ctx, client, message)
	if err != nil {
		r.reply(client.ID, "ERROR", err.Error())
	}
	return err
}

func (r *CommandRouter) route(ctx context.Context, client *connection.Client, message []byte) error {
	var baseCmd struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(message, &baseCmd); err != nil {
		return fmt.Errorf("malformed command: %w", err)
	}

	switch baseCmd.Name {
	case commands.EnterLobby{}.Name():
		var cmd commands.EnterLobby
		if err := json.Unmarshal(message, &cmd); err != nil {
			return err
		}
		return r.handleEnterLobby(client, cmd)

	case commands.LeaveLobby{}.Name():
		return r.Disconnect(client)

	case commands.StartHand{}.Name():
		var cmd commands.StartHand
		if err := json.Unmarshal(message, &cmd); err != nil {
			return err
		}
		return r.handleStartHand(ctx, client, cmd)

	case commands.PlayerActs{}.Name():
		var cmd commands.PlayerActs
		if err := json.Unmarshal(message, &cmd); err != nil {
			return err
		}
		return r.handlePlayerActs(ctx, client, cmd)

	case commands.GetState{}.Name():
		return r.handleGetState(ctx, client)

	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, baseCmd.Name)
	}
}

func (r *CommandRouter) handleEnterLobby(client *connection.Client, cmd commands.EnterLobby) error {
	playerID := cmd.PlayerID
	if playerID == "" {
		playerID = client.ID
	}
	loop, err := r.seat(client, playerID, cmd.PlayerName)
	if err != nil {
		return err
	}
	return r.replyState(context.Background(), client, loop)
}

func (r *CommandRouter) handleStartHand(ctx context.Context, client *connection.Client, cmd commands.StartHand) error {
	loop, err := r.loopFor(client)
	if err != nil {
		return err
	}
	state, err := loop.StartHand(ctx, cmd.BotCount, cmd.HighRoller)
	if err != nil {
		return err
	}
	r.reply(client.ID, "TABLE_STATE", state)
	return nil
}

func (r *CommandRouter) handlePlayerActs(ctx context.Context, client *connection.Client, cmd commands.PlayerActs) error {
	loop, err := r.loopFor(client)
	if err != nil {
		return err
	}
	kind := domain.ActionKind(strings.ToLower(cmd.Action))
	state, err := loop.SubmitAction(ctx, kind, cmd.Amount)
	if err != nil {
		return err
	}
	r.reply(client.ID, "TABLE_STATE", state)
	return nil
}

func (r *CommandRouter) handleGetState(ctx context.Context, client *connection.Client) error {
	loop, err := r.loopFor(client)
	if err != nil {
		return err
	}
	return r.replyState(ctx, client, loop)
}

func (r *CommandRouter) replyState(ctx context.Context, client *connection.Client, loop *table.GameLoop) error {
	state, err := loop.State(ctx)
	if err != nil {
		return err
	}
	r.reply(client.ID, "TABLE_STATE", state)
	return nil
}

// loopFor returns the client's game loop, seating a client that skipped
// ENTER_LOBBY under its connection id.
func (r *CommandRouter) loopFor(client *connection.Client) (*table.GameLoop, error) {
	playerID, ok := r.connMgr.PlayerFor(client.ID)
	if !ok {
		return r.seat(client, client.ID, "")
	}

	r.mu.Lock()
	loop, ok := r.loops[playerID]
	r.mu.Unlock()
	if !ok {
		// left the lobby earlier on this connection
		return r.seat(client, playerID, "")
	}
	return loop, nil
}

// seat enters the player into the lobby and opens their table
func (r *CommandRouter) seat(client *connection.Client, playerID, name string) (*table.GameLoop, error) {
	// checked before linking so a client cannot take over someone else's table
	if r.lobby.IsInLobby(playerID) {
		return nil, domain.ErrAlreadyInLobby
	}
	if !r.connMgr.AddPlayerToClient(client.ID, playerID) {
		return nil, fmt.Errorf("client %s is not connected", client.ID)
	}
	if err := r.lobby.EntersLobby(playerID); err != nil {
		return nil, err
	}

	opts := []domain.TableOption{domain.WithLogger(r.logger)}
	if len(r.settings.Bots) > 0 {
		opts = append(opts, domain.WithBotProfiles(r.settings.Bots...))
	}
	if name != "" {
		opts = append(opts, domain.WithPlayerName(name))
	}

	tbl, err := r.lobby.OpenTable(playerID, bank.NewMemoryBank(r.settings.StartingBalance), opts...)
	if err != nil {
		return nil, err
	}
	r.connMgr.AddTableToClient(client.ID, tbl.ID)

	loop := table.NewGameLoop(tbl, r.settings.Rules, r.store, r.logger)
	loop.AddEventHandler(r.dispatcher.HandleEvent)
	loop.OnStateChange(func(state domain.TableState) {
		r.reply(client.ID, "TABLE_STATE", state)
	})
	loop.Start()

	r.mu.Lock()
	r.loops[playerID] = loop
	r.mu.Unlock()

	r.logger.Info("player seated", "player", playerID, "table", tbl.ID)
	return loop, nil
}

// Disconnect stops the client's game loop and takes them out of the lobby
func (r *CommandRouter) Disconnect(client *connection.Client) error {
	playerID, ok := r.connMgr.PlayerFor(client.ID)
	if !ok {
		return nil
	}

	r.mu.Lock()
	loop, ok := r.loops[playerID]
	delete(r.loops, playerID)
	r.mu.Unlock()

	if ok {
		loop.Stop()
		r.connMgr.RemoveTableFromClient(client.ID, loop.TableID())
	}
	if !r.lobby.IsInLobby(playerID) {
		return nil
	}
	return r.lobby.LeavesLobby(playerID)
}

// Shutdown stops every game loop
func (r *CommandRouter) Shutdown() {
	r.mu.Lock()
	loops := r.loops
	r.loops = map[string]*table.GameLoop{}
	r.mu.Unlock()

	for _, loop := range loops {
		loop.Stop()
	}
}

func (r *CommandRouter) reply(clientID, name string, payload any) {
	data, err := events.Encode(name, payload)
	if err != nil {
		r.logger.Error("cannot encode reply", "reply", name, "err", err)
		return
	}
	if !r.connMgr.SendToClient(clientID, data) {
		r.logger.Warn("reply dropped", "client", clientID, "reply", name)
	}
}
