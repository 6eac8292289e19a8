package ws

import (
	"log"
	"net/http"
	"sync"

	"go-storefront-orders/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// OrderFeedHub pushes order events to the tenant's open dashboards.
type OrderFeedHub struct {
	clients    map[string]map[*websocket.Conn]bool // tenantId -> set of clients
	broadcast  chan FeedEvent
	register   chan Subscription
	unregister chan Subscription
	mu         sync.Mutex
}

type Subscription struct {
	Conn     *websocket.Conn
	TenantID string
}

type FeedEvent struct {
	TenantID string       `json:"-"`
	Type     string       `json:"type"` // order_created | status_changed
	Order    models.Order `json:"order"`
}

func NewOrderFeedHub() *OrderFeedHub {
	return &OrderFeedHub{
		clients:    make(map[string]map[*websocket.Conn]bool),
		broadcast:  make(chan FeedEvent, 64),
		register:   make(chan Subscription),
		unregister: make(chan Subscription),
	}
}

func (h *OrderFeedHub) Run() {
	for {
		select {
		case sub := <-h.register:
			h.mu.Lock()
			if h.clients[sub.TenantID] == nil {
				h.clients[sub.TenantID] = make(map[*websocket.Conn]bool)
			}
			h.clients[sub.TenantID][sub.Conn] = true
			h.mu.Unlock()

		case sub := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[sub.TenantID][sub.Conn]; ok {
				delete(h.clients[sub.TenantID], sub.Conn)
				sub.Conn.Close()
			}
			h.mu.Unlock()

		case event := <-h.broadcast:
			h.mu.Lock()
			for conn := range h.clients[event.TenantID] {
				if err := conn.WriteJSON(event); err != nil {
					log.Printf("ws write error: %v", err)
					conn.Close()
					delete(h.clients[event.TenantID], conn)
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastOrderCreated implements services.OrderFeed.
func (h *OrderFeedHub) BroadcastOrderCreated(tenantId string, order models.Order) {
	h.send(FeedEvent{TenantID: tenantId, Type: "order_created", Order: order})
}

// BroadcastStatusChanged implements services.OrderFeed.
func (h *OrderFeedHub) BroadcastStatusChanged(tenantId string, order models.Order) {
	h.send(FeedEvent{TenantID: tenantId, Type: "status_changed", Order: order})
}

// send never blocks the ledger path; a full feed drops the event.
func (h *OrderFeedHub) send(event FeedEvent) {
	select {
	case h.broadcast <- event:
	default:
		log.Printf("order feed full, dropping %s event for tenant %s", event.Type, event.TenantID)
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleWebSocket upgrades an authenticated dashboard connection.
// The tenant comes from the token middleware, never from the client.
func (h *OrderFeedHub) HandleWebSocket(c *gin.Context) {
	tenantVal, ok := c.Get("tenant_id")
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no tenant in context"})
		return
	}
	tenantId := tenantVal.(string)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("ws upgrade error: %v", err)
		return
	}

	sub := Subscription{Conn: conn, TenantID: tenantId}
	h.register <- sub

	go h.drain(sub)
}

// drain keeps the connection's read side alive and unregisters on close.
// The feed is one-way; inbound frames are discarded.
func (h *OrderFeedHub) drain(sub Subscription) {
	defer func() { h.unregister <- sub }()
	for {
		if _, _, err := sub.Conn.ReadMessage(); err != nil {
			return
		}
	}
}
