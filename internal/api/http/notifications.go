package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/adamanr/portal_service/internal/controllers"
	"github.com/adamanr/portal_service/internal/entity"
	"github.com/adamanr/portal_service/internal/sse"
	"github.com/oapi-codegen/runtime"
)

func (s *Server) GetNotificationCount(w http.ResponseWriter, r *http.Request) {
	count, err := s.Controllers.NotificationController.CountUnread(r.Context(), sessionFrom(r).UserID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to fetch notification count")
		return
	}

	s.httpResponse(w, http.StatusOK, map[string]any{"success": true, "count": count})
}

func (s *Server) GetNotifications(w http.ResponseWriter, r *http.Request) {
	var limit *int
	if err := runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &limit); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid limit")
		return
	}

	n := controllers.DefaultNotificationLimit
	if limit != nil {
		n = *limit
	}

	notifications, err := s.Controllers.NotificationController.GetNotifications(r.Context(), sessionFrom(r).UserID, n)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to fetch notifications")
		return
	}

	s.successResponse(w, http.StatusOK, emptyIfNil(notifications))
}

func (s *Server) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	if err := s.Controllers.NotificationController.MarkRead(r.Context(), sessionFrom(r).UserID, id); err != nil {
		if errors.Is(err, controllers.ErrNotFound) {
			s.errorResponse(w, http.StatusNotFound, "Notification not found")
			return
		}

		s.errorResponse(w, http.StatusInternalServerError, "Failed to update notification")
		return
	}

	s.httpResponse(w, http.StatusOK, map[string]any{"success": true, "message": "Notification marked as read"})
}

func (s *Server) MarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	updated, err := s.Controllers.NotificationController.MarkAllRead(r.Context(), sessionFrom(r).UserID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to update notifications")
		return
	}

	s.httpResponse(w, http.StatusOK, map[string]any{"success": true, "updated": updated})
}

func (s *Server) CreateNotification(w http.ResponseWriter, r *http.Request) {
	var req entity.CreateNotificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.deps.Logger.Warn("Error decoding notification request", slog.String("error", err.Error()))
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	n, delivered, err := s.Controllers.NotificationController.CreateNotification(r.Context(), sessionFrom(r).UserID, &req)
	if err != nil {
		if errors.Is(err, controllers.ErrValidation) {
			s.errorResponse(w, http.StatusBadRequest, err.Error())
			return
		}

		s.errorResponse(w, http.StatusInternalServerError, "Failed to create notification")
		return
	}

	s.httpResponse(w, http.StatusCreated, map[string]any{"success": true, "data": n, "delivered": delivered})
}

// StreamNotifications holds the request open as the caller's live
// notification stream until the client goes away or the stream is replaced.
func (s *Server) StreamNotifications(w http.ResponseWriter, r *http.Request) {
	userID := strconv.FormatInt(sessionFrom(r).UserID, 10)

	client, err := sse.NewClient(userID, w)
	if err != nil {
		s.deps.Logger.Error("Error opening stream", slog.String("error", err.Error()))
		s.errorResponse(w, http.StatusInternalServerError, "Streaming unsupported")
		return
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	s.hub.Register(client)
	defer s.hub.Unregister(client)

	if err = client.Write(sse.Comment("connected")); err != nil {
		return
	}

	heartbeat := s.deps.Config.Notifications.Heartbeat
	if heartbeat <= 0 {
		heartbeat = 30 * time.Second
	}
	ticker := time.NewTicker(heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-client.Done():
			return
		case <-ticker.C:
			if err = client.Write(sse.Comment("ping")); err != nil {
				return
			}
		}
	}
}
