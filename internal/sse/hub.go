package sse

import (
	"log/slog"
	"sync"

	"github.com/adamanr/portal_service/internal/metrics"
)

// Hub maps a user id to that user's single open stream.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	logger  *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		logger:  logger,
	}
}

// Register makes c the user's stream, closing any stream it replaces.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	prev, replaced := h.clients[c.UserID]
	h.clients[c.UserID] = c
	h.mu.Unlock()

	if replaced && prev != c {
		prev.close()
		h.logger.Info("SSE client replaced", slog.String("user_id", c.UserID))
	} else {
		metrics.SSEConnections.Inc()
	}

	h.logger.Info("SSE client registered", slog.String("user_id", c.UserID))
}

// Unregister removes c if it is still the user's registered stream and
// closes it either way.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	current, ok := h.clients[c.UserID]
	removed := ok && current == c
	if removed {
		delete(h.clients, c.UserID)
	}
	h.mu.Unlock()

	c.close()

	if removed {
		metrics.SSEConnections.Dec()
		h.logger.Info("SSE client unregistered", slog.String("user_id", c.UserID))
	}
}

// Send writes one notification frame to the user's stream. It reports false
// when no stream is registered or the write fails; a failed stream is
// unregistered.
func (h *Hub) Send(userID string, payload any) bool {
	h.mu.RLock()
	c, ok := h.clients[userID]
	h.mu.RUnlock()

	if !ok {
		metrics.NotificationPushes.WithLabelValues("no_client").Inc()
		h.logger.Debug("No SSE client for user", slog.String("user_id", userID))
		return false
	}

	frame, err := Frame(EventNotification, payload)
	if err != nil {
		metrics.NotificationPushes.WithLabelValues("encode_error").Inc()
		h.logger.Error("Error encoding SSE frame", slog.String("user_id", userID), slog.String("error", err.Error()))
		return false
	}

	if err = c.Write(frame); err != nil {
		metrics.NotificationPushes.WithLabelValues("write_error").Inc()
		h.logger.Warn("Error writing SSE frame", slog.String("user_id", userID), slog.String("error", err.Error()))
		h.Unregister(c)
		return false
	}

	metrics.NotificationPushes.WithLabelValues("delivered").Inc()
	return true
}

// Connected reports whether the user currently has a registered stream.
func (h *Hub) Connected(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	_, ok := h.clients[userID]
	return ok
}

// Len is the number of registered streams.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients)
}
