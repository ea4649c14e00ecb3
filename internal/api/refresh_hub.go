package api

import (
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"

	"facultysite/app"
	"facultysite/internal"

	"github.com/gin-gonic/gin"
)

const hubPingInterval = 30 * time.Second

// RefreshHub fans refresh events out to Server-Sent Events clients
type RefreshHub struct {
	clients    map[chan app.RefreshEvent]struct{}
	clientsMu  sync.RWMutex
	register   chan chan app.RefreshEvent
	unregister chan chan app.RefreshEvent
	broadcast  chan app.RefreshEvent
	done       chan struct{}
	stopped    chan struct{}
	closeOnce  sync.Once
	logger     *internal.Logger
}

// NewRefreshHub creates a hub and starts its dispatch loop
func NewRefreshHub(logger *internal.Logger) *RefreshHub {
	if logger == nil {
		logger = internal.NewNopLogger()
	}
	hub := &RefreshHub{
		clients:    make(map[chan app.RefreshEvent]struct{}),
		register:   make(chan chan app.RefreshEvent, 10),
		unregister: make(chan chan app.RefreshEvent, 10),
		broadcast:  make(chan app.RefreshEvent, 100),
		done:       make(chan struct{}),
		stopped:    make(chan struct{}),
		logger:     logger,
	}

	go hub.run()
	return hub
}

func (h *RefreshHub) run() {
	defer close(h.stopped)
	for {
		select {
		case client := <-h.register:
			h.clientsMu.Lock()
			h.clients[client] = struct{}{}
			h.logger.Debug("[SSE] client registered (total clients: %d)", len(h.clients))
			h.clientsMu.Unlock()

		case client := <-h.unregister:
			h.clientsMu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client)
				h.logger.Debug("[SSE] client unregistered (remaining clients: %d)", len(h.clients))
			}
			h.clientsMu.Unlock()

		case event := <-h.broadcast:
			h.clientsMu.RLock()
			for client := range h.clients {
				select {
				case client <- event:
				default:
					h.logger.Warn("[SSE] client channel full, skipping %s", event.Type)
				}
			}
			h.clientsMu.RUnlock()

		case <-h.done:
			h.clientsMu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client)
			}
			h.clientsMu.Unlock()
			return
		}
	}
}

// Publish queues an event for every connected client without blocking
func (h *RefreshHub) Publish(event app.RefreshEvent) {
	select {
	case h.broadcast <- event:
	case <-h.done:
	default:
		h.logger.Warn("[SSE] broadcast channel full, dropping %s", event.Type)
	}
}

// Close disconnects every client and stops the dispatch loop
func (h *RefreshHub) Close() {
	h.closeOnce.Do(func() { close(h.done) })
	<-h.stopped
}

// ClientCount returns the number of connected clients
func (h *RefreshHub) ClientCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

// Stream is the Server-Sent Events endpoint for refresh progress
func (h *RefreshHub) Stream(c *gin.Context) {
	select {
	case <-h.done:
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "event stream closed"})
		return
	default:
	}

	client := make(chan app.RefreshEvent, 10)
	select {
	case h.register <- client:
	case <-h.done:
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "event stream closed"})
		return
	}
	defer func() {
		select {
		case h.unregister <- client:
		case <-h.done:
		}
	}()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	ctx := c.Request.Context()
	ping := time.NewTicker(hubPingInterval)
	defer ping.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-client:
			if !ok {
				return false
			}
			data, err := json.Marshal(event)
			if err != nil {
				h.logger.Error("[SSE] failed to marshal event: %v", err)
				return true
			}
			c.SSEvent(event.Type, string(data))
			return true

		case <-ping.C:
			c.SSEvent("ping", `{"status":"alive","timestamp":"`+time.Now().UTC().Format(time.RFC3339)+`"}`)
			return true

		case <-ctx.Done():
			return false
		case <-h.done:
			return false
		}
	})
}
