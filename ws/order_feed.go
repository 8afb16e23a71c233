package ws

import (
	"context"
	"net/http"
	"time"

	"github.com/dono45/dishsystem-by-tongyi/services"
	"github.com/dono45/dishsystem-by-tongyi/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// OrderFeed fans committed order events out to connected admin sockets.
// All client bookkeeping happens on the Run goroutine.
type OrderFeed struct {
	clients    map[*websocket.Conn]bool
	events     chan services.OrderEvent
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	done       chan struct{}
	log        zerolog.Logger
}

func NewOrderFeed(buffer int, log zerolog.Logger) *OrderFeed {
	if buffer <= 0 {
		buffer = 64
	}
	return &OrderFeed{
		clients:    make(map[*websocket.Conn]bool),
		events:     make(chan services.OrderEvent, buffer),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		done:       make(chan struct{}),
		log:        log.With().Str("component", "order_feed").Logger(),
	}
}

// Publish never blocks the caller: when the buffer is full the event is
// dropped and logged.
func (h *OrderFeed) Publish(ev services.OrderEvent) {
	select {
	case h.events <- ev:
	default:
		h.log.Warn().Str("type", ev.Type).Uint("order_id", ev.OrderID).Msg("feed buffer full, event dropped")
	}
}

// Run serves register/unregister/broadcast until ctx is cancelled, then
// closes every client.
func (h *OrderFeed) Run(ctx context.Context) {
	defer func() {
		close(h.done)
		for conn := range h.clients {
			conn.Close()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return

		case conn := <-h.register:
			h.clients[conn] = true

		case conn := <-h.unregister:
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				conn.Close()
			}

		case ev := <-h.events:
			for conn := range h.clients {
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteJSON(ev); err != nil {
					h.log.Debug().Err(err).Msg("ws write failed, dropping client")
					conn.Close()
					delete(h.clients, conn)
				}
			}
		}
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleWebSocket upgrades an already authenticated admin request.
// Route: GET /api/admin/orders/feed
func (h *OrderFeed) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("ws upgrade failed")
		return
	}
	select {
	case h.register <- conn:
	case <-h.done:
		conn.Close()
		return
	}
	h.log.Info().Uint("user_id", utils.CurrentUserID(c)).Msg("admin subscribed to order feed")

	go h.keepAlive(conn)
	go h.readPump(conn)
}

// readPump only exists to notice the client going away; the feed is one way.
func (h *OrderFeed) readPump(conn *websocket.Conn) {
	defer func() {
		select {
		case h.unregister <- conn:
		case <-h.done:
		}
	}()
	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *OrderFeed) keepAlive(conn *websocket.Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-h.done:
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
