package api

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/adamanr/portal_service/internal/entity"
	"github.com/oapi-codegen/runtime"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (s *Server) activityLogFilter(w http.ResponseWriter, r *http.Request) (entity.ActivityLogFilter, bool) {
	var (
		filter entity.ActivityLogFilter
		limit  *uint64
	)

	query := r.URL.Query()
	if err := runtime.BindQueryParameter("form", true, false, "user_id", query, &filter.UserID); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid user_id")
		return filter, false
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", query, &limit); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid limit")
		return filter, false
	}
	if limit != nil {
		filter.Limit = *limit
	}

	return filter, true
}

func (s *Server) GetActivityLogs(w http.ResponseWriter, r *http.Request) {
	filter, ok := s.activityLogFilter(w, r)
	if !ok {
		return
	}

	logs, err := s.Controllers.ActivityLogController.GetActivityLogs(r.Context(), filter)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to fetch activity logs")
		return
	}

	s.httpResponse(w, http.StatusOK, emptyIfNil(logs))
}

func (s *Server) DeleteActivityLogs(w http.ResponseWriter, r *http.Request) {
	deleted, err := s.Controllers.ActivityLogController.DeleteAll(r.Context())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to delete activity logs")
		return
	}

	s.Controllers.ActivityLogController.Record(r.Context(), &sessionFrom(r).UserID, "delete all activity logs")

	s.httpResponse(w, http.StatusOK, map[string]any{
		"message": "All activity logs deleted",
		"deleted": deleted,
	})
}

func (s *Server) AutoDeleteActivityLogs(w http.ResponseWriter, r *http.Request) {
	deleted, err := s.Controllers.ActivityLogController.AutoDelete(r.Context())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to delete old activity logs")
		return
	}

	s.Controllers.ActivityLogController.Record(r.Context(), &sessionFrom(r).UserID,
		fmt.Sprintf("auto-delete activity logs (%d removed)", deleted))

	s.httpResponse(w, http.StatusOK, map[string]any{
		"message": fmt.Sprintf("Deleted %d activity logs older than 2 months", deleted),
		"deleted": deleted,
	})
}

func (s *Server) ExportActivityLogs(w http.ResponseWriter, r *http.Request) {
	filter, ok := s.activityLogFilter(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := s.Controllers.ActivityLogController.Export(r.Context(), filter, &buf); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to export activity logs")
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="activity-logs.xlsx"`)
	w.WriteHeader(http.StatusOK)

	if _, err := buf.WriteTo(w); err != nil {
		s.deps.Logger.Error("Error writing export", slog.String("error", err.Error()))
	}
}
