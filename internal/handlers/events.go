package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/AnshRaj112/reportguard-backend/internal/services"
)

const (
	eventsWriteWait  = 10 * time.Second
	eventsPongWait   = 90 * time.Second
	eventsPingPeriod = 30 * time.Second
	eventsBuffer     = 32
)

type EventsHandler struct {
	hub      *services.EventHub
	upgrader websocket.Upgrader
}

// NewEventsHandler streams hub events. Browser upgrades must come from one
// of allowedOrigins; requests without an Origin header (non-browser
// clients) are accepted and rely on the token alone.
func NewEventsHandler(hub *services.EventHub, allowedOrigins []string) *EventsHandler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[strings.TrimRight(strings.ToLower(strings.TrimSpace(o)), "/")] = true
	}
	return &EventsHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed[strings.TrimRight(strings.ToLower(origin), "/")]
			},
		},
	}
}

// Stream handles GET /ws/reports: it pushes every report event to the
// connected admin until either side closes.
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	// Subscribe before upgrading so nothing published during the handshake
	// is missed.
	events, unsubscribe := h.hub.Subscribe(eventsBuffer)
	defer unsubscribe()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	// Reader: the client sends nothing useful, but reading is how close
	// frames and pongs are noticed.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(eventsPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(eventsPongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(eventsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(eventsWriteWait))
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(eventsWriteWait)); err != nil {
				return
			}
		}
	}
}
