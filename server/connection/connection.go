package connection

import (
	"sync"

	"github.com/gorilla/websocket"
)

// Client represents a connected player
type Client struct {
	ID       string
	Conn     *websocket.Conn
	Send     chan []byte
	PlayerID string   // set once the client enters the lobby
	TableIDs []string // tables the player is currently at
}

func NewClient(id string, conn *websocket.Conn) *Client {
	return &Client{
		ID:   id,
		Conn: conn,
		Send: make(chan []byte, 256),
	}
}

// Manager handles all client connections. Send channels are only written
// and closed under the manager's lock, so a message can never race a
// disconnect.
type Manager struct {
	clients   map[string]*Client // connection id to client
	playerMap map[string]string  // player id to connection id
	mutex     sync.RWMutex
}

// NewManager creates a new connection manager
func NewManager() *Manager {
	return &Manager{
		clients:   make(map[string]*Client),
		playerMap: make(map[string]string),
	}
}

func (m *Manager) Register(client *Client) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.clients[client.ID] = client
	if client.PlayerID != "" {
		m.playerMap[client.PlayerID] = client.ID
	}
}

// Unregister forgets the client and closes its send channel
func (m *Manager) Unregister(client *Client) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, ok := m.clients[client.ID]; !ok {
		return
	}
	if client.PlayerID != "" {
		delete(m.playerMap, client.PlayerID)
	}
	delete(m.clients, client.ID)
	close(client.Send)
}

// Count is the number of connected clients
func (m *Manager) Count() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.clients)
}

// AddPlayerToClient links a player id to a connection
func (m *Manager) AddPlayerToClient(clientID string, playerID string) bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	client, ok := m.clients[clientID]
	if !ok {
		return false
	}
	client.PlayerID = playerID
	m.playerMap[playerID] = clientID
	return true
}

// PlayerFor returns the player id linked to a connection
func (m *Manager) PlayerFor(clientID string) (string, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	client, ok := m.clients[clientID]
	if !ok || client.PlayerID == "" {
		return "", false
	}
	return client.PlayerID, true
}

// SendToClient queues a message for one connection. A full send buffer
// drops the message.
func (m *Manager) SendToClient(clientID string, message []byte) bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	client, ok := m.clients[clientID]
	if !ok {
		return false
	}
	return trySend(client, message)
}

// SendToPlayer sends a message to a specific player
func (m *Manager) SendToPlayer(playerID string, message []byte) bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if connID, exists := m.playerMap[playerID]; exists {
		if client, ok := m.clients[connID]; ok {
			return trySend(client, message)
		}
	}
	return false
}

// SendToTable sends a message to all players at a table
func (m *Manager) SendToTable(tableID string, message []byte) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	for _, client := range m.clients {
		for _, id := range client.TableIDs {
			if id == tableID {
				trySend(client, message)
				break
			}
		}
	}
}

// AddTableToClient adds a table ID to a client's tables
func (m *Manager) AddTableToClient(clientID string, tableID string) bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if client, ok := m.clients[clientID]; ok {
		for _, id := range client.TableIDs {
			if id == tableID {
				return true
			}
		}
		client.TableIDs = append(client.TableIDs, tableID)
		return true
	}
	return false
}

// RemoveTableFromClient removes a table ID from a client's tables
func (m *Manager) RemoveTableFromClient(clientID string, tableID string) bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if client, ok := m.clients[clientID]; ok {
		for i, id := range client.TableIDs {
			if id == tableID {
				client.TableIDs = append(client.TableIDs[:i], client.TableIDs[i+1:]...)
				return true
			}
		}
	}
	return false
}

// IsClientAtTable checks if a client is at a specific table
func (m *Manager) IsClientAtTable(clientID string, tableID string) bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if client, ok := m.clients[clientID]; ok {
		for _, id := range client.TableIDs {
			if id == tableID {
				return true
			}
		}
	}
	return false
}

func trySend(client *Client, message []byte) bool {
	select {
	case client.Send <- message:
		return true
	default:
		return false
	}
}
