package api

import (
	"encoding/json"
	"io"
	"log"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// SyncEvent is a calendar sync outcome streamed to the owning user
type SyncEvent struct {
	UserID    string    `json:"-"`
	TaskID    string    `json:"taskId"`
	Op        string    `json:"op"`
	EventID   string    `json:"eventId,omitempty"`
	OK        bool      `json:"ok"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// sseClient represents a connected SSE client
type sseClient struct {
	userID  string
	channel chan SyncEvent
}

// SSEHub fans calendar sync events out to the owning user's open streams
type SSEHub struct {
	clients    map[string]map[chan SyncEvent]bool
	clientsMu  sync.RWMutex
	register   chan sseClient
	unregister chan sseClient
	broadcast  chan SyncEvent
	done       chan struct{}
	closeOnce  sync.Once
	keepAlive  time.Duration
}

// NewSSEHub creates a hub and starts its dispatch loop
func NewSSEHub() *SSEHub {
	hub := &SSEHub{
		clients:    make(map[string]map[chan SyncEvent]bool),
		register:   make(chan sseClient, 10),
		unregister: make(chan sseClient, 10),
		broadcast:  make(chan SyncEvent, 100),
		done:       make(chan struct{}),
		keepAlive:  30 * time.Second,
	}

	go hub.run()
	return hub
}

// Close stops the dispatch loop
func (h *SSEHub) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}

// run processes SSE hub operations
func (h *SSEHub) run() {
	for {
		select {
		case <-h.done:
			return

		case client := <-h.register:
			h.clientsMu.Lock()
			if h.clients[client.userID] == nil {
				h.clients[client.userID] = make(map[chan SyncEvent]bool)
			}
			h.clients[client.userID][client.channel] = true
			log.Printf("[SSE] Client registered for user %s (total clients: %d)",
				client.userID, len(h.clients[client.userID]))
			h.clientsMu.Unlock()

		case client := <-h.unregister:
			h.clientsMu.Lock()
			if clients, exists := h.clients[client.userID]; exists {
				delete(clients, client.channel)
				if len(clients) == 0 {
					delete(h.clients, client.userID)
				}
			}
			h.clientsMu.Unlock()

		case event := <-h.broadcast:
			h.clientsMu.RLock()
			for clientChan := range h.clients[event.UserID] {
				select {
				case clientChan <- event:
				default:
					log.Printf("[SSE] Client channel full for user %s, skipping event", event.UserID)
				}
			}
			h.clientsMu.RUnlock()
		}
	}
}

// Broadcast queues an event for the owning user's streams
func (h *SSEHub) Broadcast(event SyncEvent) {
	select {
	case h.broadcast <- event:
	default:
		log.Printf("[SSE] Broadcast channel full, dropping %s event for task %s", event.Op, event.TaskID)
	}
}

// ClientCount returns the number of open streams of a user
func (h *SSEHub) ClientCount(userID string) int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients[userID])
}

// HandleSSE streams the caller's calendar sync events
func (h *SSEHub) HandleSSE(c *gin.Context) {
	userID := caller(c).UserID

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	clientChan := make(chan SyncEvent, 10)
	select {
	case h.register <- sseClient{userID: userID, channel: clientChan}:
	case <-h.done:
		c.JSON(503, gin.H{"message": "Event stream unavailable"})
		return
	}
	defer func() {
		select {
		case h.unregister <- sseClient{userID: userID, channel: clientChan}:
		case <-h.done:
		}
	}()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case event := <-clientChan:
			payload, err := json.Marshal(event)
			if err != nil {
				log.Printf("[SSE] Failed to marshal event: %v", err)
				return true
			}
			c.SSEvent("calendar-sync", string(payload))
			return true

		case <-time.After(h.keepAlive):
			c.SSEvent("ping", `{"status":"alive"}`)
			return true

		case <-ctx.Done():
			return false
		}
	})
}
