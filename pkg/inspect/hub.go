package inspect

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/recon/pkg/host"
	"github.com/vango-dev/recon/pkg/protocol"
)

// Hub fans recorded mutations out to WebSocket clients.
type Hub struct {
	clients  map[*websocket.Conn]bool
	mu       sync.RWMutex
	upgrader websocket.Upgrader
	queue    chan host.Mutation
	dropped  atomic.Uint64
	logger   *slog.Logger
}

// NewHub creates a hub that buffers up to backlog mutations between
// flushes. Mutations arriving while the buffer is full are dropped.
func NewHub(backlog int, logger *slog.Logger) *Hub {
	if backlog <= 0 {
		backlog = 1024
	}
	return &Hub{
		clients: make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				return true // local tool
			},
		},
		queue:  make(chan host.Mutation, backlog),
		logger: logger,
	}
}

// Publish queues a mutation for broadcast. It never blocks.
func (h *Hub) Publish(m host.Mutation) {
	select {
	case h.queue <- m:
	default:
		h.dropped.Add(1)
	}
}

// Dropped returns how many mutations were discarded on a full queue.
func (h *Hub) Dropped() uint64 { return h.dropped.Load() }

// Run broadcasts queued mutations until ctx is done. Mutations that are
// queued together go out as one batch.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.Close()
			return
		case m := <-h.queue:
			batch := []host.Mutation{m}
		drain:
			for {
				select {
				case m := <-h.queue:
					batch = append(batch, m)
				default:
					break drain
				}
			}
			h.broadcastMutations(batch)
		}
	}
}

// HandleWebSocket upgrades the connection and keeps it registered until
// the client goes away.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, req *http.Request) {
	conn, err := h.upgrader.Upgrade(w, req, nil)
	if err != nil {
		h.logger.Debug("websocket upgrade failed", "error", err)
		return
	}

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	conn.Close()
}

func (h *Hub) broadcastMutations(batch []host.Mutation) {
	frames, err := protocol.EncodeMutationFrames(batch)
	if err != nil {
		h.logger.Warn("mutation batch not broadcast", "error", err, "count", len(batch))
		return
	}
	for _, f := range frames {
		h.broadcast(f.Encode())
	}
}

// broadcast sends a binary message to all connected clients.
func (h *Hub) broadcast(data []byte) {
	h.mu.RLock()
	clients := make([]*websocket.Conn, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	for _, client := range clients {
		if err := client.WriteMessage(websocket.BinaryMessage, data); err != nil {
			h.mu.Lock()
			delete(h.clients, client)
			h.mu.Unlock()
			client.Close()
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close closes all client connections.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		client.Close()
		delete(h.clients, client)
	}
}
