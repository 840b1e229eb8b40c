package dashboard

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"wedhub/internal/backend"
	"wedhub/internal/domain"
	"wedhub/internal/models"
	"wedhub/internal/service"
)

// bookingListResponse is the payload every booking screen renders from.
// When the fetch fails but an earlier list is still cached, the stale list
// is returned together with the error message so the screen can keep the
// data visible behind a banner.
type bookingListResponse struct {
	Bookings []models.Booking    `json:"bookings"`
	Stats    models.BookingStats `json:"stats"`
	Error    string              `json:"error,omitempty"`
}

func (s *Server) actorID(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(actorHeader))
}

func parseScope(role, id string) (models.Scope, bool) {
	switch models.Role(role) {
	case models.RoleVendor, models.RoleCustomer:
		return models.Scope{Role: models.Role(role), ID: id}, true
	}
	return models.Scope{}, false
}

// handleBookings serves the booking list views:
//
//	GET    /dashboard/v1/bookings/{role}/{id}?status=&q=&sort=
//	GET    /dashboard/v1/bookings/{role}/{id}/export
//	DELETE /dashboard/v1/bookings/{role}/{id}/{bookingID}
func (s *Server) handleBookings(w http.ResponseWriter, r *http.Request) {
	const prefix = "/dashboard/v1/bookings/"
	parts := strings.Split(strings.Trim(strings.TrimPrefix(r.URL.Path, prefix), "/"), "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	scope, ok := parseScope(parts[0], parts[1])
	if !ok {
		writeError(w, http.StatusBadRequest, "scope role must be vendor or customer")
		return
	}

	switch {
	case r.Method == http.MethodGet && len(parts) == 2:
		s.listBookings(w, r, scope)
	case r.Method == http.MethodGet && len(parts) == 3 && parts[2] == "export":
		s.exportBookings(w, r, scope)
	case r.Method == http.MethodDelete && len(parts) == 3:
		s.deleteBooking(w, r, scope, parts[2])
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) listBookings(w http.ResponseWriter, r *http.Request, scope models.Scope) {
	list, err := s.bookings.ListBookings(r.Context(), scope)
	if err != nil {
		cached := s.bookings.CachedBookings(scope)
		if len(cached) == 0 {
			s.writeServiceError(w, err)
			return
		}
		// Keep last known-good data visible behind an error banner.
		resp := bookingListResponse{
			Bookings: applyListQuery(cached, r),
			Stats:    models.ComputeStats(cached),
			Error:    err.Error(),
		}
		writeJSON(w, http.StatusOK, resp)
		return
	}

	resp := bookingListResponse{
		Bookings: applyListQuery(list, r),
		Stats:    models.ComputeStats(list),
	}
	writeJSON(w, http.StatusOK, resp)
}

func applyListQuery(list []models.Booking, r *http.Request) []models.Booking {
	statusFilter := r.URL.Query().Get("status")
	if statusFilter == "" {
		statusFilter = "all"
	}
	filtered := service.FilterBookings(list, statusFilter, r.URL.Query().Get("q"))
	if r.URL.Query().Get("sort") == "confirmed" {
		service.SortByConfirmation(filtered)
	}
	return filtered
}

func (s *Server) exportBookings(w http.ResponseWriter, r *http.Request, scope models.Scope) {
	list, err := s.bookings.ListBookings(r.Context(), scope)
	if err != nil {
		list = s.bookings.CachedBookings(scope)
		if len(list) == 0 {
			s.writeServiceError(w, err)
			return
		}
	}

	filePath, err := s.exporter.BookingsToExcel(scope, applyListQuery(list, r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	http.ServeFile(w, r, filePath)
}

func (s *Server) deleteBooking(w http.ResponseWriter, r *http.Request, scope models.Scope, bookingID string) {
	if err := s.bookings.DeleteBooking(r.Context(), scope, bookingID); err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bookingListResponse{
		Bookings: s.bookings.CachedBookings(scope),
		Stats:    s.bookings.Stats(scope),
	})
}

// handleTransition executes a status transition:
//
//	PUT /dashboard/v1/bookings/status
//	body {role, scopeId, bookingId, status}
func (s *Server) handleTransition(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var body struct {
		Role      string `json:"role"`
		ScopeID   string `json:"scopeId"`
		BookingID string `json:"bookingId"`
		Status    string `json:"status"`
	}
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	scope, ok := parseScope(body.Role, body.ScopeID)
	if !ok {
		writeError(w, http.StatusBadRequest, "scope role must be vendor or customer")
		return
	}
	target, err := models.ParseStatus(body.Status)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	list, err := s.bookings.TransitionStatus(r.Context(), scope, body.BookingID, target)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, bookingListResponse{
		Bookings: list,
		Stats:    models.ComputeStats(list),
	})
}

// handleServices serves the vendor catalog:
//
//	GET    /dashboard/v1/services/{vendorId}
//	POST   /dashboard/v1/services/ (body service)
//	PUT    /dashboard/v1/services/ (body service)
//	DELETE /dashboard/v1/services/{vendorId}/{serviceId}
func (s *Server) handleServices(w http.ResponseWriter, r *http.Request) {
	const prefix = "/dashboard/v1/services/"
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, prefix), "/")
	actorID := s.actorID(r)
	if actorID == "" {
		writeError(w, http.StatusUnauthorized, "missing actor header")
		return
	}

	switch r.Method {
	case http.MethodGet:
		if rest == "" {
			writeError(w, http.StatusBadRequest, "vendor id is required")
			return
		}
		services, err := s.catalog.VendorServices(r.Context(), actorID, rest)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"services": services})
	case http.MethodPost:
		var svc models.Service
		if err := json.NewDecoder(r.Body).Decode(&svc); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		created, err := s.catalog.CreateService(r.Context(), actorID, &svc)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	case http.MethodPut:
		var svc models.Service
		if err := json.NewDecoder(r.Body).Decode(&svc); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if err := s.catalog.UpdateService(r.Context(), actorID, &svc); err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
	case http.MethodDelete:
		parts := strings.Split(rest, "/")
		if len(parts) != 2 {
			writeError(w, http.StatusBadRequest, "vendor id and service id are required")
			return
		}
		if err := s.catalog.DeleteService(r.Context(), actorID, parts[0], parts[1]); err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleNotifications serves GET /dashboard/v1/notifications/{actorId}.
func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	const prefix = "/dashboard/v1/notifications/"
	actorID := strings.Trim(strings.TrimPrefix(r.URL.Path, prefix), "/")
	if actorID == "" {
		writeError(w, http.StatusBadRequest, "actor id is required")
		return
	}

	notifications, err := s.notifications.List(r.Context(), actorID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"notifications": notifications,
		"unread":        service.UnreadCount(notifications),
	})
}

// handleNotificationRead serves PUT /dashboard/v1/notifications/read/{id}.
func (s *Server) handleNotificationRead(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	const prefix = "/dashboard/v1/notifications/read/"
	notificationID := strings.Trim(strings.TrimPrefix(r.URL.Path, prefix), "/")
	actorID := s.actorID(r)
	if actorID == "" {
		writeError(w, http.StatusUnauthorized, "missing actor header")
		return
	}
	if notificationID == "" {
		writeError(w, http.StatusBadRequest, "notification id is required")
		return
	}

	if err := s.notifications.MarkRead(r.Context(), actorID, notificationID); err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "read"})
}

// handleChecklist serves the planning checklist:
//
//	GET    /dashboard/v1/checklist/{customerId}
//	POST   /dashboard/v1/checklist/ (body item)
//	PUT    /dashboard/v1/checklist/ (body item)
//	DELETE /dashboard/v1/checklist/{itemId}
func (s *Server) handleChecklist(w http.ResponseWriter, r *http.Request) {
	const prefix = "/dashboard/v1/checklist/"
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, prefix), "/")
	actorID := s.actorID(r)
	if actorID == "" {
		writeError(w, http.StatusUnauthorized, "missing actor header")
		return
	}

	switch r.Method {
	case http.MethodGet:
		items, err := s.planner.Checklist(r.Context(), actorID, rest)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": items})
	case http.MethodPost:
		var item models.ChecklistItem
		if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		created, err := s.planner.AddChecklistItem(r.Context(), actorID, &item)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	case http.MethodPut:
		var item models.ChecklistItem
		if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if err := s.planner.UpdateChecklistItem(r.Context(), actorID, &item); err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
	case http.MethodDelete:
		if err := s.planner.DeleteChecklistItem(r.Context(), actorID, rest); err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleAgenda serves the wedding-day agenda:
//
//	GET    /dashboard/v1/agenda/{customerId}
//	POST   /dashboard/v1/agenda/ (body item)
//	DELETE /dashboard/v1/agenda/{itemId}
func (s *Server) handleAgenda(w http.ResponseWriter, r *http.Request) {
	const prefix = "/dashboard/v1/agenda/"
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, prefix), "/")
	actorID := s.actorID(r)
	if actorID == "" {
		writeError(w, http.StatusUnauthorized, "missing actor header")
		return
	}

	switch r.Method {
	case http.MethodGet:
		items, err := s.planner.Agenda(r.Context(), actorID, rest)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": items})
	case http.MethodPost:
		var item models.AgendaItem
		if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		created, err := s.planner.AddAgendaItem(r.Context(), actorID, &item)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	case http.MethodDelete:
		if err := s.planner.DeleteAgendaItem(r.Context(), actorID, rest); err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleReviews serves service reviews:
//
//	GET  /dashboard/v1/reviews/{serviceId}
//	POST /dashboard/v1/reviews/ (body review)
func (s *Server) handleReviews(w http.ResponseWriter, r *http.Request) {
	const prefix = "/dashboard/v1/reviews/"
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, prefix), "/")
	actorID := s.actorID(r)
	if actorID == "" {
		writeError(w, http.StatusUnauthorized, "missing actor header")
		return
	}

	switch r.Method {
	case http.MethodGet:
		if rest == "" {
			writeError(w, http.StatusBadRequest, "service id is required")
			return
		}
		reviews, err := s.planner.ServiceReviews(r.Context(), actorID, rest)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"reviews": reviews})
	case http.MethodPost:
		var review models.Review
		if err := json.NewDecoder(r.Body).Decode(&review); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		created, err := s.planner.SubmitReview(r.Context(), actorID, &review)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// writeServiceError maps the error taxonomy onto HTTP statuses. Transport
// failures surface as 502 so the front end can distinguish "backend down"
// from a rejected command.
func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNoSession):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrNotAllowed):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidTransition), errors.Is(err, backend.ErrRejected):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrUnknownBooking), errors.Is(err, backend.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, backend.ErrUnavailable):
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
