package domain

import (
	"errors"
	"sync"

	"github.com/lazharichir/holdem/domain/events"
)

var (
	ErrPlayerNotInLobby = errors.New("player not found")
	ErrAlreadyInLobby   = errors.New("player is already in the lobby")
	ErrTableNotFound    = errors.New("table not found")
	ErrAlreadySeated    = errors.New("player already has a table")
)

// Lobby tracks who is connected and which private table each player sits at.
// Unlike a Table it is safe for concurrent use.
type Lobby struct {
	mu      sync.RWMutex
	players map[string]string // player id to table id, "" when not seated
	tables  map[string]*Table

	eventHandlers []events.EventHandler
}

// NewLobby creates an empty lobby
func NewLobby() *Lobby {
	return &Lobby{
		players: map[string]string{},
		tables:  map[string]*Table{},
	}
}

// IsInLobby checks if a player is in the lobby
func (l *Lobby) IsInLobby(playerID string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, exists := l.players[playerID]
	return exists
}

// EntersLobby adds a player to the lobby
func (l *Lobby) EntersLobby(playerID string) error {
	l.mu.Lock()
	if _, exists := l.players[playerID]; exists {
		l.mu.Unlock()
		return ErrAlreadyInLobby
	}
	l.players[playerID] = ""
	l.mu.Unlock()

	l.emitEvent(events.PlayerEnteredLobby{PlayerID: playerID})
	return nil
}

// LeavesLobby removes a player and closes their table
func (l *Lobby) LeavesLobby(playerID string) error {
	l.mu.Lock()
	tableID, exists := l.players[playerID]
	if !exists {
		l.mu.Unlock()
		return ErrPlayerNotInLobby
	}
	delete(l.players, playerID)
	delete(l.tables, tableID)
	l.mu.Unlock()

	if tableID != "" {
		l.emitEvent(events.TableClosed{TableID: tableID, PlayerID: playerID})
	}
	l.emitEvent(events.PlayerLeftLobby{PlayerID: playerID})
	return nil
}

// OpenTable creates the player's private table
func (l *Lobby) OpenTable(playerID string, bank ChipBank, opts ...TableOption) (*Table, error) {
	l.mu.Lock()
	tableID, exists := l.players[playerID]
	if !exists {
		l.mu.Unlock()
		return nil, ErrPlayerNotInLobby
	}
	if tableID != "" {
		l.mu.Unlock()
		return nil, ErrAlreadySeated
	}

	table := NewTable(bank, opts...)
	l.tables[table.ID] = table
	l.players[playerID] = table.ID
	l.mu.Unlock()

	l.emitEvent(events.TableOpened{TableID: table.ID, PlayerID: playerID})
	return table, nil
}

// TableFor returns the table the player sits at
func (l *Lobby) TableFor(playerID string) (*Table, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	tableID, exists := l.players[playerID]
	if !exists {
		return nil, ErrPlayerNotInLobby
	}
	table, ok := l.tables[tableID]
	if !ok {
		return nil, ErrTableNotFound
	}
	return table, nil
}

// GetTable retrieves a table by ID
func (l *Lobby) GetTable(tableID string) (*Table, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	table, exists := l.tables[tableID]
	if !exists {
		return nil, ErrTableNotFound
	}
	return table, nil
}

// TableCount is the number of open tables
func (l *Lobby) TableCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.tables)
}

// AddEventHandler adds an event handler to the lobby. Handlers must be added
// before the lobby is shared between goroutines.
func (l *Lobby) AddEventHandler(handler events.EventHandler) {
	l.eventHandlers = append(l.eventHandlers, handler)
}

// emitEvent notifies all registered handlers of a new event
func (l *Lobby) emitEvent(event events.Event) {
	for _, handler := range l.eventHandlers {
		handler(event)
	}
}
