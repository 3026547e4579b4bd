package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"slices"

	"github.com/adamanr/portal_service/internal/controllers"
	"github.com/adamanr/portal_service/internal/entity"
	"github.com/adamanr/portal_service/internal/sse"
	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// SessionProvider resolves the authenticated caller of a request.
type SessionProvider interface {
	GetSession(r *http.Request) (*entity.Session, error)
}

// HealthChecker reports whether the service's backends are reachable.
type HealthChecker interface {
	Check(ctx context.Context) error
}

type sessionKey struct{}

// adminRoles may manage activity logs and send notifications.
var adminRoles = []string{"admin", "hr"}

type Server struct {
	deps        *controllers.Dependens
	Controllers *controllers.Controllers
	sessions    SessionProvider
	hub         *sse.Hub
	health      HealthChecker
}

func NewServer(deps *controllers.Dependens, ctrls *controllers.Controllers, sessions SessionProvider, hub *sse.Hub, health HealthChecker) *Server {
	return &Server{
		deps:        deps,
		Controllers: ctrls,
		sessions:    sessions,
		hub:         hub,
		health:      health,
	}
}

// Routes mounts every API route on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/healthz", s.Healthz)

	r.Route("/api", func(r chi.Router) {
		r.Get("/about/hero", s.GetAboutHero)
		r.Get("/about/sections", s.GetAboutSections)
		r.Get("/statistics", s.GetStatistics)
		r.Get("/menus", s.GetMenus)
		r.Get("/menus/all", s.GetAllMenus)
		r.Get("/navbar-menu", s.GetNavbarMenu)
		r.Get("/navbar-menu/all", s.GetAllNavbarMenu)
		r.Post("/auth/login", s.AuthLogin)

		r.Group(func(r chi.Router) {
			r.Use(s.RequireSession)

			r.Post("/auth/logout", s.AuthLogout)
			r.Get("/auth/user", s.GetAuthUser)
			r.Get("/attendance/history", s.GetAttendanceHistory)
			r.Get("/cuti-izin", s.GetLeaveRequests)
			r.Get("/cuti-izin/{id}/approvals", s.GetLeaveApprovals)
			r.Get("/notifications", s.GetNotifications)
			r.Get("/notifications/count", s.GetNotificationCount)
			r.Get("/notifications/stream", s.StreamNotifications)
			r.Put("/notifications/read-all", s.MarkAllNotificationsRead)
			r.Put("/notifications/{id}/read", s.MarkNotificationRead)

			r.Group(func(r chi.Router) {
				r.Use(s.RequireRole(adminRoles...))

				r.Post("/notifications", s.CreateNotification)
				r.Get("/activity-logs", s.GetActivityLogs)
				r.Delete("/activity-logs", s.DeleteActivityLogs)
				r.Delete("/activity-logs/auto-delete", s.AutoDeleteActivityLogs)
				r.Get("/activity-logs/export", s.ExportActivityLogs)
			})
		})
	})
}

// RequireSession rejects requests without a valid session before any
// handler work happens.
func (s *Server) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := s.sessions.GetSession(r)
		if err != nil || session == nil {
			if err != nil && !errors.Is(err, controllers.ErrUnauthorized) {
				s.deps.Logger.Error("Error checking session", slog.String("error", err.Error()))
			}
			s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, session)))
	})
}

func (s *Server) RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := sessionFrom(r)
			if session == nil || !slices.Contains(roles, session.Role) {
				s.deps.Logger.Warn("Insufficient permissions", slog.String("path", r.URL.Path))
				s.errorResponse(w, http.StatusForbidden, "Forbidden")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func sessionFrom(r *http.Request) *entity.Session {
	session, _ := r.Context().Value(sessionKey{}).(*entity.Session)
	return session
}

func (s *Server) Healthz(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		if err := s.health.Check(r.Context()); err != nil {
			s.deps.Logger.Warn("Health check failed", slog.String("error", err.Error()))
			s.errorResponse(w, http.StatusServiceUnavailable, "Unavailable")
			return
		}
	}

	s.httpResponse(w, http.StatusOK, map[string]any{"status": "ok", "streams": s.hub.Len()})
}

// pathID binds the {id} path parameter, answering 400 when it is not a
// positive integer.
func (s *Server) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	var id int64

	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil || id <= 0 {
		s.errorResponse(w, http.StatusBadRequest, "Invalid id")
		return 0, false
	}

	return id, true
}

func (s *Server) successResponse(w http.ResponseWriter, status int, data any) {
	s.httpResponse(w, status, map[string]any{"success": true, "data": data})
}

func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.httpResponse(w, status, map[string]any{"success": false, "error": message})
}

func (s *Server) httpResponse(w http.ResponseWriter, status int, body any) {
	respData, marshalErr := json.Marshal(body)
	if marshalErr != nil {
		s.deps.Logger.Error("Error marshaling response", slog.String("error", marshalErr.Error()))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if _, err := w.Write(respData); err != nil {
		s.deps.Logger.Error("Error writing response", slog.String("error", err.Error()))
	}
}

// emptyIfNil keeps empty listings serialized as [] rather than null.
func emptyIfNil[T any](list []T) []T {
	if list == nil {
		return []T{}
	}

	return list
}
