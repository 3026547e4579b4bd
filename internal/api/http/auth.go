package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/adamanr/portal_service/internal/controllers"
	"github.com/adamanr/portal_service/internal/entity"
)

func (s *Server) AuthLogin(w http.ResponseWriter, r *http.Request) {
	var req entity.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.deps.Logger.Warn("Error decoding login request", slog.String("error", err.Error()))
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := s.Controllers.AuthController.AuthLogin(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, controllers.ErrValidation):
			s.errorResponse(w, http.StatusBadRequest, "kode_pegawai and password are required")
		case errors.Is(err, controllers.ErrInvalidCredentials):
			s.errorResponse(w, http.StatusUnauthorized, "Invalid credentials")
		default:
			s.errorResponse(w, http.StatusInternalServerError, "Failed to log in")
		}
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     controllers.SessionCookie,
		Value:    resp.Token,
		Path:     "/",
		Expires:  time.Unix(resp.ExpiresAt, 0),
		HttpOnly: true,
		Secure:   s.deps.Config.Session.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	s.successResponse(w, http.StatusOK, resp)
}

func (s *Server) AuthLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.Controllers.AuthController.AuthLogout(r.Context(), sessionFrom(r)); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to log out")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     controllers.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.deps.Config.Session.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	s.httpResponse(w, http.StatusOK, map[string]any{"success": true, "message": "Logged out"})
}

func (s *Server) GetAuthUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.Controllers.AuthController.GetUser(r.Context(), sessionFrom(r).UserID)
	if err != nil {
		if errors.Is(err, controllers.ErrNotFound) {
			s.errorResponse(w, http.StatusNotFound, "User not found")
			return
		}

		s.errorResponse(w, http.StatusInternalServerError, "Failed to fetch user")
		return
	}

	s.successResponse(w, http.StatusOK, user)
}
