package events

import (
	"encoding/json"

	"github.com/charmbracelet/log"
	"github.com/lazharichir/holdem/domain/events"
	"github.com/lazharichir/holdem/server/connection"
	"github.com/sanity-io/litter"
)

// EventEnvelope wraps an event with its name for client consumption
type EventEnvelope struct {
	Name    string          `json:"name"`
	Payload json.RawMessage `json:"payload"`
}

// Encode wraps any payload in an envelope
func Encode(name string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(EventEnvelope{Name: name, Payload: raw})
}

// Dispatcher handles routing events to clients
type Dispatcher struct {
	connMgr *connection.Manager
	logger  *log.Logger
}

// NewDispatcher creates a new event dispatcher
func NewDispatcher(connMgr *connection.Manager, logger *log.Logger) *Dispatcher {
	return &Dispatcher{
		connMgr: connMgr,
		logger:  logger.WithPrefix("dispatch"),
	}
}

// HandleEvent sends a domain event to the clients allowed to see it. Lobby
// events go to their player, everything else to the table it happened at.
// No event carries a bot's hole cards before showdown.
func (d *Dispatcher) HandleEvent(event events.Event) {
	data, err := Encode(event.Name(), event)
	if err != nil {
		d.logger.Error("cannot encode event", "event", event.Name(), "err", err)
		return
	}

	if d.logger.GetLevel() <= log.DebugLevel {
		d.logger.Debug("dispatching", "event", event.Name(), "payload", litter.Sdump(event))
	}

	switch e := event.(type) {
	case events.PlayerEnteredLobby:
		d.connMgr.SendToPlayer(e.PlayerID, data)

	case events.PlayerLeftLobby:
		d.connMgr.SendToPlayer(e.PlayerID, data)

	case events.TableOpened:
		d.connMgr.SendToPlayer(e.PlayerID, data)

	case events.TableClosed:
		d.connMgr.SendToPlayer(e.PlayerID, data)

	default:
		if tableID := events.ExtractTableID(event); tableID != "" {
			d.connMgr.SendToTable(tableID, data)
		}
	}
}
