package ws

import (
	"context"
	"sync"

	"hirelane/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type delivery struct {
	accounts []uuid.UUID
	message  []byte
}

// Hub routes messages to the connections of specific accounts. An account
// may hold several connections at once.
type Hub struct {
	clients    map[uuid.UUID]map[*Client]bool
	deliver    chan delivery
	register   chan *Client
	unregister chan *Client
	mutex      sync.RWMutex
	logger     *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]map[*Client]bool),
		deliver:    make(chan delivery, 1024),
		register:   make(chan *Client, 128),
		unregister: make(chan *Client, 128),
		logger:     logger.OrNop(log).Named("ws"),
	}
}

// Run serves the hub until ctx is done, then closes every connection.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mutex.Lock()
			for _, set := range h.clients {
				for c := range set {
					close(c.send)
				}
			}
			h.clients = make(map[uuid.UUID]map[*Client]bool)
			h.mutex.Unlock()
			return

		case client := <-h.register:
			if client == nil {
				continue
			}
			h.mutex.Lock()
			set, ok := h.clients[client.accountID]
			if !ok {
				set = make(map[*Client]bool)
				h.clients[client.accountID] = set
			}
			set[client] = true
			h.mutex.Unlock()
			h.logger.Debug("ws connected", zap.String("account_id", client.accountID.String()), zap.Int("total_clients", h.ClientCount()))

		case client := <-h.unregister:
			h.remove(client)

		case d := <-h.deliver:
			h.mutex.RLock()
			targets := make([]*Client, 0, len(d.accounts))
			for _, id := range d.accounts {
				for c := range h.clients[id] {
					targets = append(targets, c)
				}
			}
			h.mutex.RUnlock()

			for _, client := range targets {
				select {
				case client.send <- d.message:
				default:
					h.remove(client)
				}
			}
		}
	}
}

func (h *Hub) remove(client *Client) {
	if client == nil {
		return
	}
	h.mutex.Lock()
	defer h.mutex.Unlock()
	set, ok := h.clients[client.accountID]
	if !ok || !set[client] {
		return
	}
	delete(set, client)
	close(client.send)
	if len(set) == 0 {
		delete(h.clients, client.accountID)
	}
}

func (h *Hub) Register(client *Client) {
	if h == nil {
		return
	}
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	if h == nil {
		return
	}
	h.unregister <- client
}

// SendTo queues message for the given accounts. It never blocks; when the
// queue is full the message is dropped.
func (h *Hub) SendTo(message []byte, accounts ...uuid.UUID) {
	if h == nil || len(accounts) == 0 {
		return
	}
	select {
	case h.deliver <- delivery{accounts: accounts, message: message}:
	default:
		h.logger.Warn("ws message dropped", zap.String("reason", "buffer_full"))
	}
}

func (h *Hub) ClientCount() int {
	if h == nil {
		return 0
	}
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	n := 0
	for _, set := range h.clients {
		n += len(set)
	}
	return n
}
