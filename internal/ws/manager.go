package ws

import (
	"context"
	"log/slog"
	"sync"

	"github.com/coder/websocket"
)

// Manager fans incidents out to every connected dashboard. Polling remains
// the canonical delivery path; this channel only shortens the wait for
// clients that keep a socket open.
type Manager struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan Message
	mu         sync.RWMutex
	ctx        context.Context
	cancel     context.CancelFunc
	logger     *slog.Logger
}

func NewManager(ctx context.Context, logger *slog.Logger) *Manager {
	ctx, cancel := context.WithCancel(ctx)
	return &Manager{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan Message),
		ctx:        ctx,
		cancel:     cancel,
		logger:     logger,
	}
}

func (m *Manager) Start() {
	for {
		select {
		case client := <-m.register:
			m.mu.Lock()
			m.clients[client.ID] = client
			m.mu.Unlock()
			m.logger.Info("dashboard client connected", "clientID", client.ID)
		case client := <-m.unregister:
			m.mu.Lock()
			if _, ok := m.clients[client.ID]; ok {
				delete(m.clients, client.ID)
				close(client.send)
				m.logger.Info("dashboard client disconnected", "clientID", client.ID)
			}
			m.mu.Unlock()
		case message := <-m.broadcast:
			m.mu.RLock()
			for _, client := range m.clients {
				select {
				case client.send <- message:
				default:
					go m.forceDisconnect(client)
				}
			}
			m.mu.RUnlock()
		case <-m.ctx.Done():
			return
		}
	}
}

// Broadcast queues a message for every connected client. It never blocks
// past manager shutdown.
func (m *Manager) Broadcast(message Message) {
	select {
	case m.broadcast <- message:
	case <-m.ctx.Done():
	}
}

// HandleNewConnection wraps an accepted socket in a Client and registers it.
func (m *Manager) HandleNewConnection(id string, conn *websocket.Conn) {
	client := NewClient(id, conn, m)
	client.Start()
}

func (m *Manager) forceDisconnect(c *Client) {
	c.Close()
}

func (m *Manager) Shutdown() {
	m.cancel()
	m.mu.Lock()
	for _, client := range m.clients {
		client.Close()
	}
	m.mu.Unlock()
}
