package ws

import (
	"encoding/json"
	"sync"

	"agencydesk/internal/domain"
	"agencydesk/internal/feed"
	"agencydesk/internal/models"
)

// Client represents a single WebSocket connection with user context. Each
// connection carries its own feed projection so duplicate or out-of-order
// payment events collapse before they reach the wire.
type Client struct {
	UserID   string
	Role     string
	ClientID string
	Send     chan []byte
	Hub      *Hub // set so Close() can unregister
	proj     *feed.Projection
	mu       sync.Mutex
	closed   bool
}

func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.Send)
	if c.Hub != nil {
		c.Hub.unregister(c)
	}
}

// trySend enqueues without blocking; a closed connection or a full buffer
// drops the message.
func (c *Client) trySend(data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.Send <- data:
	default:
	}
}

// Hub maintains the set of active clients and routes role- and
// client-scoped payloads to them.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	// role -> clients; client role connections are additionally keyed by
	// their client id for receiver scoping.
	byRole   map[string]map[*Client]struct{}
	byClient map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients:  make(map[*Client]struct{}),
		byRole:   make(map[string]map[*Client]struct{}),
		byClient: make(map[string]map[*Client]struct{}),
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c.Hub = h
	c.proj = feed.NewProjection()
	h.clients[c] = struct{}{}
	if h.byRole[c.Role] == nil {
		h.byRole[c.Role] = make(map[*Client]struct{})
	}
	h.byRole[c.Role][c] = struct{}{}
	if c.ClientID != "" {
		if h.byClient[c.ClientID] == nil {
			h.byClient[c.ClientID] = make(map[*Client]struct{})
		}
		h.byClient[c.ClientID][c] = struct{}{}
	}
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, c)
	if m := h.byRole[c.Role]; m != nil {
		delete(m, c)
		if len(m) == 0 {
			delete(h.byRole, c.Role)
		}
	}
	if c.ClientID != "" {
		if m := h.byClient[c.ClientID]; m != nil {
			delete(m, c)
			if len(m) == 0 {
				delete(h.byClient, c.ClientID)
			}
		}
	}
}

func (h *Hub) send(clients []*Client, data []byte) {
	for _, c := range clients {
		c.trySend(data)
	}
}

func (h *Hub) collectRole(role string) []*Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	m := h.byRole[role]
	clients := make([]*Client, 0, len(m))
	for c := range m {
		clients = append(clients, c)
	}
	return clients
}

func (h *Hub) collectClient(clientID string) []*Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	m := h.byClient[clientID]
	clients := make([]*Client, 0, len(m))
	for c := range m {
		clients = append(clients, c)
	}
	return clients
}

// PushNotification delivers a stored notification to its receivers: all
// admin connections, or the owning client's connections.
func (h *Hub) PushNotification(n *models.Notification) {
	data, _ := json.Marshal(map[string]interface{}{"type": "notification", "notification": n})
	if n.ReceiverRole == domain.RoleAdmin {
		h.send(h.collectRole(domain.RoleAdmin), data)
		return
	}
	h.send(h.collectClient(n.ReceiverID), data)
}

// PublishPayment routes an authoritative payment change to admins and to the
// owning client. Each connection's projection decides whether the event is
// new; stale duplicates are dropped per connection.
func (h *Hub) PublishPayment(p *models.Payment) {
	ev := feed.PaymentEvent{
		ID:        p.ID,
		ClientID:  p.ClientID,
		Status:    p.Status,
		Amount:    p.Amount,
		Deleted:   p.IsDeleted,
		UpdatedAt: p.UpdatedAt,
	}
	targets := h.collectRole(domain.RoleAdmin)
	if ev.ClientID != "" {
		targets = append(targets, h.collectClient(ev.ClientID)...)
	}
	data, _ := json.Marshal(map[string]interface{}{"type": "payment", "payment": ev})
	for _, c := range targets {
		if !c.proj.Apply(ev) {
			continue
		}
		c.trySend(data)
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
