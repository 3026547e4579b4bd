package api

import (
	"net/http"

	"github.com/adamanr/portal_service/internal/controllers"
	"github.com/adamanr/portal_service/internal/entity"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

func (s *Server) GetAttendanceHistory(w http.ResponseWriter, r *http.Request) {
	var (
		from, to *openapi_types.Date
		limit    *uint64
	)

	query := r.URL.Query()
	if err := runtime.BindQueryParameter("form", true, false, "from", query, &from); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid from date")
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "to", query, &to); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid to date")
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", query, &limit); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid limit")
		return
	}

	var filter entity.AttendanceFilter
	if from != nil {
		filter.From = &from.Time
	}
	if to != nil {
		filter.To = &to.Time
	}
	if limit != nil {
		filter.Limit = *limit
	}

	history, err := s.Controllers.AttendanceController.GetHistory(r.Context(), sessionFrom(r).UserID, filter)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to fetch attendance history")
		return
	}

	s.successResponse(w, http.StatusOK, emptyIfNil(history))
}

func (s *Server) GetLeaveRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := s.Controllers.LeaveController.GetLeaveRequests(r.Context(), sessionFrom(r).UserID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to fetch leave requests")
		return
	}

	s.successResponse(w, http.StatusOK, emptyIfNil(requests))
}

func (s *Server) GetLeaveApprovals(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	approvals, err := s.Controllers.LeaveController.GetApprovals(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to fetch approvals")
		return
	}

	s.successResponse(w, http.StatusOK, emptyIfNil(approvals))
}

func (s *Server) GetMenus(w http.ResponseWriter, r *http.Request) {
	s.menus(w, r, true)
}

func (s *Server) GetAllMenus(w http.ResponseWriter, r *http.Request) {
	s.menus(w, r, false)
}

func (s *Server) menus(w http.ResponseWriter, r *http.Request, onlyActive bool) {
	menus, err := s.Controllers.MenuController.GetMenus(r.Context(), onlyActive)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to fetch menus")
		return
	}

	s.successResponse(w, http.StatusOK, emptyIfNil(menus))
}

func (s *Server) GetNavbarMenu(w http.ResponseWriter, r *http.Request) {
	s.navbar(w, r, true)
}

func (s *Server) GetAllNavbarMenu(w http.ResponseWriter, r *http.Request) {
	s.navbar(w, r, false)
}

func (s *Server) navbar(w http.ResponseWriter, r *http.Request, onlyActive bool) {
	tree, err := s.Controllers.MenuController.GetNavbarTree(r.Context(), onlyActive)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to fetch navbar menu")
		return
	}

	s.successResponse(w, http.StatusOK, emptyIfNil(tree))
}

// GetAboutHero answers with the bare section list.
func (s *Server) GetAboutHero(w http.ResponseWriter, r *http.Request) {
	sections, err := s.Controllers.ContentController.GetHero(r.Context())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to fetch hero content")
		return
	}

	s.httpResponse(w, http.StatusOK, emptyIfNil(sections))
}

func (s *Server) GetAboutSections(w http.ResponseWriter, r *http.Request) {
	tab := r.URL.Query().Get("tab")
	if tab == "" {
		tab = controllers.HeroTab
	}

	sections, err := s.Controllers.ContentController.GetSections(r.Context(), tab)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to fetch sections")
		return
	}

	s.httpResponse(w, http.StatusOK, emptyIfNil(sections))
}

func (s *Server) GetStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := s.Controllers.ContentController.GetStatistics(r.Context())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to fetch statistics")
		return
	}

	s.successResponse(w, http.StatusOK, stats)
}
