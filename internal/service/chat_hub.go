package service

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"lms_backend/pkg/logger"
	"lms_backend/pkg/monitoring"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
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
		return true
	},
}

type WSMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// inboundMessage is what clients send into a room.
type inboundMessage struct {
	Type string `json:"type"`
	Data struct {
		Message string `json:"message"`
		Image   string `json:"image"`
	} `json:"data"`
}

type Client struct {
	Hub     *ChatHub
	Conn    *websocket.Conn
	Send    chan []byte
	UserID  uint
	GroupID uint
	Limiter *rate.Limiter
}

func (c *Client) readPump() {
	defer func() {
		c.detachFromHub()
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error { c.Conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Log.Error("WebSocket unexpected close", zap.Error(err), zap.Uint("userId", c.UserID))
			}
			break
		}

		if !c.Limiter.Allow() {
			continue
		}

		var in inboundMessage
		if err := json.Unmarshal(raw, &in); err != nil {
			continue
		}
		monitoring.ChatMessageCounter.WithLabelValues("in").Inc()

		switch in.Type {
		case "MESSAGE":
			msg, err := c.Hub.Groups.SaveMessage(c.GroupID, c.UserID, in.Data.Message, in.Data.Image)
			if err != nil {
				logger.Log.Error("Failed to persist chat message",
					zap.Error(err), zap.Uint("groupId", c.GroupID), zap.Uint("userId", c.UserID))
				continue
			}
			c.Hub.BroadcastToGroup(c.GroupID, WSMessage{Type: "MESSAGE", Data: msg})
		case "TYPING":
			c.Hub.BroadcastToGroup(c.GroupID, WSMessage{
				Type: "TYPING",
				Data: map[string]interface{}{"userId": c.UserID, "groupId": c.GroupID},
			})
		}
	}
}

// detachFromHub hands the client back to the hub, or gives up once the hub
// has stopped and no longer receives. Without the done case a pump exiting
// after Stop would block on the unregister send forever.
func (c *Client) detachFromHub() {
	select {
	case c.Hub.unregister <- c:
	case <-c.Hub.done:
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if n := len(c.Send); n > 0 {
				for i := 0; i < n; i++ {
					w.Write(<-c.Send)
				}
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ChatHub keeps one room per group and fans messages out to the room's
// connected clients. Room state lives in process.
type ChatHub struct {
	rooms      map[uint]map[*Client]bool
	mu         sync.RWMutex
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	Groups *GroupService
}

func NewChatHub(groups *GroupService) *ChatHub {
	return &ChatHub{
		rooms:      make(map[uint]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		Groups:     groups,
	}
}

func (h *ChatHub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			room := h.rooms[client.GroupID]
			if room == nil {
				room = make(map[*Client]bool)
				h.rooms[client.GroupID] = room
			}
			room[client] = true
			h.mu.Unlock()
			monitoring.ChatConnectedClients.Inc()

		case client := <-h.unregister:
			h.mu.Lock()
			if room, ok := h.rooms[client.GroupID]; ok {
				if _, ok := room[client]; ok {
					delete(room, client)
					close(client.Send)
					monitoring.ChatConnectedClients.Dec()
				}
				if len(room) == 0 {
					delete(h.rooms, client.GroupID)
				}
			}
			h.mu.Unlock()

		case <-h.done:
			return
		}
	}
}

func (h *ChatHub) BroadcastToGroup(groupID uint, msg WSMessage) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.rooms[groupID] {
		select {
		case client.Send <- payload:
			monitoring.ChatMessageCounter.WithLabelValues("out").Inc()
		default:
		}
	}
}

// Stop closes every connection and empties the rooms.
func (h *ChatHub) Stop() {
	close(h.done)

	h.mu.Lock()
	defer h.mu.Unlock()
	closed := 0
	for groupID, room := range h.rooms {
		for client := range room {
			close(client.Send)
			closed++
		}
		delete(h.rooms, groupID)
	}
	monitoring.ChatConnectedClients.Set(0)
	logger.Log.Info("ChatHub stopped", zap.Int("closedConnections", closed))
}

// ServeWs upgrades the request and attaches the client to its group room.
// Membership must already be verified by the caller.
func ServeWs(hub *ChatHub, w http.ResponseWriter, r *http.Request, userID, groupID uint) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Error("WebSocket upgrade failed", zap.Error(err), zap.Uint("userId", userID))
		return
	}
	client := &Client{
		Hub:     hub,
		Conn:    conn,
		Send:    make(chan []byte, 256),
		UserID:  userID,
		GroupID: groupID,
		Limiter: rate.NewLimiter(rate.Limit(10), 20),
	}
	select {
	case hub.register <- client:
	case <-hub.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}
