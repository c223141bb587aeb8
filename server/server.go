package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/lazharichir/holdem/domain"
	domainevents "github.com/lazharichir/holdem/domain/events"
	"github.com/lazharichir/holdem/history"
	"github.com/lazharichir/holdem/server/connection"
	"github.com/lazharichir/holdem/server/events"
	"github.com/lazharichir/holdem/server/handlers"
	"golang.org/x/sync/errgroup"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // the client is served from a different origin in development
	},
}

// Server represents the WebSocket server
type Server struct {
	lobby      *domain.Lobby
	connMgr    *connection.Manager
	cmdRouter  *handlers.CommandRouter
	dispatcher *events.Dispatcher
	store      *domainevents.InMemoryEventStore
	logger     *log.Logger
}

// TablesResponse is the body of GET /api/tables
type TablesResponse struct {
	OpenTables int `json:"openTables"`
	Clients    int `json:"clients"`
}

// corsMiddleware adds CORS headers to all responses
func corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

// NewServer creates a new poker WebSocket server
func NewServer(settings handlers.Settings, logger *log.Logger) *Server {
	logger = logger.WithPrefix("server")
	lobby := domain.NewLobby()
	connMgr := connection.NewManager()
	store := domainevents.NewInMemoryEventStore()

	dispatcher := events.NewDispatcher(connMgr, logger)
	cmdRouter := handlers.NewCommandRouter(lobby, connMgr, dispatcher, store, settings, logger)

	lobby.AddEventHandler(dispatcher.HandleEvent)

	return &Server{
		lobby:      lobby,
		connMgr:    connMgr,
		cmdRouter:  cmdRouter,
		dispatcher: dispatcher,
		store:      store,
		logger:     logger,
	}
}

// Handler returns the HTTP routes of the server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/api/tables", corsMiddleware(s.handleGetTables))
	mux.HandleFunc("/api/history", corsMiddleware(s.handleGetHistory))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", "addr", addr)
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := httpServer.Shutdown(shutdownCtx)
		s.cmdRouter.Shutdown()
		return err
	})
	return g.Wait()
}

// handleWebSocket upgrades the connection and runs its read and write pumps
// until either side fails.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("upgrade failed", "err", err)
		return
	}

	client := connection.NewClient(uuid.NewString(), conn)
	s.connMgr.Register(client)
	s.logger.Info("client connected", "client", client.ID, "remote", r.RemoteAddr)

	go func() {
		g, ctx := errgroup.WithContext(context.Background())
		g.Go(func() error { return s.readPump(ctx, client) })
		g.Go(func() error { return s.writePump(ctx, client) })

		if err := g.Wait(); err != nil && !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			s.logger.Debug("connection closed", "client", client.ID, "err", err)
		}

		if err := s.cmdRouter.Disconnect(client); err != nil {
			s.logger.Warn("disconnect", "client", client.ID, "err", err)
		}
		s.connMgr.Unregister(client)
		conn.Close()
		s.logger.Info("client disconnected", "client", client.ID)
	}()
}

// readPump reads commands from the connection. Commands are handled one at
// a time, in order.
func (s *Server) readPump(ctx context.Context, client *connection.Client) error {
	conn := client.Conn
	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		if err := s.cmdRouter.HandleCommand(ctx, client, message); err != nil {
			s.logger.Debug("command failed", "client", client.ID, "err", err)
		}
	}
}

// writePump sends queued messages and keeps the connection alive with pings
func (s *Server) writePump(ctx context.Context, client *connection.Client) error {
	conn := client.Conn
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	// closing unblocks the read pump
	defer conn.Close()

	for {
		select {
		case <-ctx.Done():
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return nil

		case message, ok := <-client.Send:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return nil
			}
			if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return err
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return err
			}
		}
	}
}

// TableEvents returns every event recorded for a table
func (s *Server) TableEvents(tableID string) ([]domainevents.Event, error) {
	return s.store.LoadEvents(tableID)
}

// handleGetTables reports how many tables are open
func (s *Server) handleGetTables(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(TablesResponse{
		OpenTables: s.lobby.TableCount(),
		Clients:    s.connMgr.Count(),
	})
}

// handleGetHistory returns the hands played at ?table=<id>
func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	tableID := r.URL.Query().Get("table")
	if tableID == "" {
		http.Error(w, "table is required", http.StatusBadRequest)
		return
	}

	records, err := history.Rehydrate(s.store, tableID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(records)
}
