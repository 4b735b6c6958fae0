package controllers

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"sevasetu/internal/services"
)

const writeWait = 5 * time.Second

// upgrader configures the WebSocket connection. The leaderboard is public.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// LeaderboardMessage is what subscribers receive.
type LeaderboardMessage struct {
	Type    string                      `json:"type"`
	Entries []services.LeaderboardEntry `json:"leaderboard"`
}

// LeaderboardHub manages active WebSocket subscribers and broadcasts
// leaderboard updates to them.
type LeaderboardHub struct {
	clients   map[*websocket.Conn]bool
	broadcast chan []services.LeaderboardEntry
	done      chan struct{}
	closeOnce sync.Once
	mu        sync.Mutex
}

// NewLeaderboardHub creates a hub and starts its broadcast loop.
func NewLeaderboardHub() *LeaderboardHub {
	hub := &LeaderboardHub{
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan []services.LeaderboardEntry, 16),
		done:      make(chan struct{}),
	}
	go hub.run()
	return hub
}

func (h *LeaderboardHub) run() {
	for {
		select {
		case <-h.done:
			return
		case entries := <-h.broadcast:
			msg := LeaderboardMessage{Type: "update", Entries: entries}
			h.mu.Lock()
			for conn := range h.clients {
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteJSON(msg); err != nil {
					logrus.WithError(err).WithField("conn_ptr", fmt.Sprintf("%p", conn)).
						Info("Leaderboard subscriber write failed, unregistering.")
					delete(h.clients, conn)
					conn.Close()
				}
			}
			h.mu.Unlock()
		}
	}
}

// RegisterClient adds a subscriber connection to the hub.
func (h *LeaderboardHub) RegisterClient(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = true
	logrus.WithField("conn_ptr", fmt.Sprintf("%p", conn)).Debug("Leaderboard subscriber registered.")
}

// UnregisterClient removes a subscriber connection from the hub.
func (h *LeaderboardHub) UnregisterClient(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, conn)
	logrus.WithField("conn_ptr", fmt.Sprintf("%p", conn)).Debug("Leaderboard subscriber unregistered.")
}

// ClientCount returns the number of live subscribers.
func (h *LeaderboardHub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// PublishLeaderboard queues an update for all subscribers without blocking.
func (h *LeaderboardHub) PublishLeaderboard(entries []services.LeaderboardEntry) {
	select {
	case h.broadcast <- entries:
	default:
		logrus.Warn("Leaderboard broadcast channel full, dropping update.")
	}
}

// Close stops the broadcast loop and disconnects every subscriber.
func (h *LeaderboardHub) Close() {
	h.closeOnce.Do(func() {
		close(h.done)
		h.mu.Lock()
		defer h.mu.Unlock()
		for conn := range h.clients {
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(writeWait))
			conn.Close()
			delete(h.clients, conn)
		}
	})
}

type LeaderboardController struct {
	svc *services.Service
	hub *LeaderboardHub
}

func NewLeaderboardController(svc *services.Service, hub *LeaderboardHub) *LeaderboardController {
	return &LeaderboardController{svc: svc, hub: hub}
}

func (lc *LeaderboardController) Get(c *gin.Context) {
	entries, err := lc.svc.Leaderboard(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// HandleWebSocket sends the current leaderboard, then keeps the connection
// registered for updates until the client goes away.
func (lc *LeaderboardController) HandleWebSocket(c *gin.Context) {
	entries, err := lc.svc.Leaderboard(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Error("Failed to upgrade WebSocket connection.")
		return
	}
	defer conn.Close()

	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(LeaderboardMessage{Type: "snapshot", Entries: entries}); err != nil {
		logrus.WithError(err).Warn("Failed to send leaderboard snapshot.")
		return
	}

	lc.hub.RegisterClient(conn)
	defer lc.hub.UnregisterClient(conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logrus.WithError(err).Debug("Leaderboard subscriber read ended.")
			}
			return
		}
	}
}
