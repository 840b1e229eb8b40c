package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"wedhub/internal/events"
	"wedhub/internal/metrics"
	"wedhub/internal/models"

	"wedhub/internal/domain"

	"github.com/rs/zerolog"
)

// BookingService is the booking lifecycle view-model shared by every
// surface. It fetches bookings scoped to an actor, keeps the last
// known-good list per scope, guards status transitions against the
// allowed-transition table, and reconciles every mutation by re-fetching
// the authoritative server state.
type BookingService struct {
	api      domain.BookingAPI
	sessions domain.SessionStore
	eventBus domain.EventPublisher
	logger   *zerolog.Logger

	mu     sync.Mutex
	scopes map[string]*scopeState
}

// scopeState is the per-scope view state. fetchGen/appliedGen implement
// last-issued-wins: a slow response from an older fetch never overwrites
// the list applied by a newer one.
type scopeState struct {
	bookings   []models.Booking
	fetchGen   uint64
	appliedGen uint64
	fetchedAt  time.Time
}

func NewBookingService(api domain.BookingAPI, sessions domain.SessionStore, eventBus domain.EventPublisher, logger *zerolog.Logger) *BookingService {
	return &BookingService{
		api:      api,
		sessions: sessions,
		eventBus: eventBus,
		logger:   logger,
		scopes:   make(map[string]*scopeState),
	}
}

func scopeKey(scope models.Scope) string {
	return string(scope.Role) + ":" + scope.ID
}

func (s *BookingService) state(scope models.Scope) *scopeState {
	key := scopeKey(scope)
	st, ok := s.scopes[key]
	if !ok {
		st = &scopeState{}
		s.scopes[key] = st
	}
	return st
}

// session resolves the persisted session for the scope's actor. A missing
// or expired session short-circuits before any network I/O.
func (s *BookingService) session(ctx context.Context, scope models.Scope) (*models.Session, error) {
	sess, err := s.sessions.Get(ctx, scope.ID)
	if err != nil {
		return nil, err
	}
	if !sess.Valid() {
		return nil, domain.ErrNoSession
	}
	return sess, nil
}

// ListBookings fetches the scope's bookings from the backend. On success
// the list replaces the scope's known-good state unless a newer fetch has
// already been applied. On failure the previously loaded list is returned
// alongside the error so callers can keep it visible.
func (s *BookingService) ListBookings(ctx context.Context, scope models.Scope) ([]models.Booking, error) {
	sess, err := s.session(ctx, scope)
	if err != nil {
		return s.CachedBookings(scope), err
	}

	s.mu.Lock()
	st := s.state(scope)
	st.fetchGen++
	gen := st.fetchGen
	s.mu.Unlock()

	list, err := s.fetch(ctx, sess, scope)
	if err != nil {
		s.logger.Error().Err(err).Str("scope", scopeKey(scope)).Msg("list bookings failed")
		return s.CachedBookings(scope), err
	}

	sortNewestFirst(list)

	s.mu.Lock()
	defer s.mu.Unlock()
	st = s.state(scope)
	if gen < st.appliedGen {
		// A newer fetch already landed; discard this stale response.
		return cloneBookings(st.bookings), nil
	}
	st.appliedGen = gen
	st.bookings = list
	st.fetchedAt = time.Now()
	return cloneBookings(list), nil
}

func (s *BookingService) fetch(ctx context.Context, sess *models.Session, scope models.Scope) ([]models.Booking, error) {
	switch scope.Role {
	case models.RoleVendor:
		list, err := s.api.VendorBookings(ctx, sess, scope.ID)
		if err != nil {
			return nil, err
		}
		// Wishlist entries are not requests; vendors never see them.
		requests := list[:0]
		for _, b := range list {
			if !b.Wishlist() {
				requests = append(requests, b)
			}
		}
		return requests, nil
	case models.RoleCustomer:
		return s.api.CustomerBookings(ctx, sess, scope.ID)
	default:
		return nil, fmt.Errorf("%w: role %q cannot list bookings", ErrNotAllowed, scope.Role)
	}
}

// CachedBookings returns a copy of the scope's last known-good list.
func (s *BookingService) CachedBookings(scope models.Scope) []models.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.scopes[scopeKey(scope)]
	if !ok {
		return nil
	}
	return cloneBookings(st.bookings)
}

// Stats computes the per-status counters for the scope's current list.
func (s *BookingService) Stats(scope models.Scope) models.BookingStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.scopes[scopeKey(scope)]
	if !ok {
		return models.BookingStats{}
	}
	return models.ComputeStats(st.bookings)
}

// TransitionStatus issues a status-transition command for a booking in the
// actor's scope. The transition table and the acting role are checked
// before any network call; after a successful command the scope is
// re-fetched so the displayed list reflects authoritative server state.
func (s *BookingService) TransitionStatus(ctx context.Context, scope models.Scope, bookingID string, target models.Status) ([]models.Booking, error) {
	sess, err := s.session(ctx, scope)
	if err != nil {
		return s.CachedBookings(scope), err
	}

	booking, err := s.lookup(ctx, scope, bookingID)
	if err != nil {
		return s.CachedBookings(scope), err
	}

	if !booking.Status.CanTransition(target) {
		return s.CachedBookings(scope), fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, target)
	}
	if err := authorizeTransition(scope.Role, booking.Status, target); err != nil {
		return s.CachedBookings(scope), err
	}

	if err := s.api.UpdateBookingStatus(ctx, sess, bookingID, target); err != nil {
		s.logger.Warn().Err(err).Str("booking_id", bookingID).Str("target", string(target)).Msg("transition rejected")
		return s.CachedBookings(scope), err
	}

	metrics.IncTransition(string(target))
	s.publishTransition(booking, target, scope.Role)

	// Server state is authoritative; never trust the optimistic patch.
	return s.ListBookings(ctx, scope)
}

// DeleteBooking permanently removes a booking. Only the owning customer may
// delete; the local list drops the entry immediately on success.
func (s *BookingService) DeleteBooking(ctx context.Context, scope models.Scope, bookingID string) error {
	if scope.Role != models.RoleCustomer {
		return fmt.Errorf("%w: only customers may delete bookings", ErrNotAllowed)
	}

	sess, err := s.session(ctx, scope)
	if err != nil {
		return err
	}

	booking, err := s.lookup(ctx, scope, bookingID)
	if err != nil {
		return err
	}

	if err := s.api.DeleteBooking(ctx, sess, bookingID); err != nil {
		return err
	}

	s.mu.Lock()
	st := s.state(scope)
	kept := st.bookings[:0]
	for _, b := range st.bookings {
		if b.ID != bookingID {
			kept = append(kept, b)
		}
	}
	st.bookings = kept
	s.mu.Unlock()

	s.publish(events.EventBookingDeleted, booking, booking.Status, scope.Role)
	return nil
}

// lookup finds the booking in the scope's cached list, refreshing the list
// once when the id is unknown (the cache may simply be cold).
func (s *BookingService) lookup(ctx context.Context, scope models.Scope, bookingID string) (models.Booking, error) {
	if b, ok := s.find(scope, bookingID); ok {
		return b, nil
	}

	if _, err := s.ListBookings(ctx, scope); err != nil {
		return models.Booking{}, err
	}
	if b, ok := s.find(scope, bookingID); ok {
		return b, nil
	}
	return models.Booking{}, fmt.Errorf("%w: %s", ErrUnknownBooking, bookingID)
}

func (s *BookingService) find(scope models.Scope, bookingID string) (models.Booking, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.scopes[scopeKey(scope)]
	if !ok {
		return models.Booking{}, false
	}
	for _, b := range st.bookings {
		if b.ID == bookingID {
			return b, true
		}
	}
	return models.Booking{}, false
}

// authorizeTransition encodes who may move a booking where. Completion is a
// vendor action; converting interest to a request and cancelling a pending
// request belong to the customer; accept/reject belong to the vendor.
func authorizeTransition(role models.Role, from, target models.Status) error {
	if role == models.RoleAdmin {
		return nil
	}

	switch target {
	case models.StatusPending:
		if role != models.RoleCustomer {
			return fmt.Errorf("%w: only customers convert interest to a request", ErrNotAllowed)
		}
	case models.StatusConfirmed, models.StatusCompleted:
		if role != models.RoleVendor {
			return fmt.Errorf("%w: only vendors may set %s", ErrNotAllowed, target)
		}
	case models.StatusCancelled:
		// Vendors reject, customers cancel their own pending requests.
		if role == models.RoleCustomer && from != models.StatusPending {
			return fmt.Errorf("%w: customers may only cancel pending requests", ErrNotAllowed)
		}
	default:
		return fmt.Errorf("%w: %s is not a transition target", ErrInvalidTransition, target)
	}
	return nil
}

func (s *BookingService) publishTransition(booking models.Booking, target models.Status, role models.Role) {
	var eventType string
	switch target {
	case models.StatusPending:
		eventType = events.EventBookingRequested
	case models.StatusConfirmed:
		eventType = events.EventBookingConfirmed
	case models.StatusCancelled:
		eventType = events.EventBookingCancelled
	case models.StatusCompleted:
		eventType = events.EventBookingCompleted
	default:
		return
	}
	s.publish(eventType, booking, target, role)
}

func (s *BookingService) publish(eventType string, booking models.Booking, status models.Status, role models.Role) {
	if s.eventBus == nil {
		return
	}

	payload := events.BookingEventPayload{
		BookingID:    booking.ID,
		ServiceID:    booking.ServiceID,
		ServiceName:  booking.ServiceName,
		CustomerID:   booking.CustomerID,
		CustomerName: booking.CustomerName,
		Status:       string(status),
		ChangedBy:    string(role),
		ChangedAt:    time.Now(),
	}

	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Str("booking_id", booking.ID).Msg("publish event error")
	}
}

// FilterBookings returns the entries matching the status filter and search
// term. It is pure: the input list is never mutated and untouched entries
// are returned as-is. statusFilter is an enum value or "all"; the search
// term matches case-insensitively against customer name, service name and
// category.
func FilterBookings(list []models.Booking, statusFilter, searchTerm string) []models.Booking {
	var status models.Status
	all := strings.EqualFold(statusFilter, "all") || strings.TrimSpace(statusFilter) == ""
	if !all {
		parsed, err := models.ParseStatus(statusFilter)
		if err != nil {
			return []models.Booking{}
		}
		status = parsed
	}

	needle := strings.ToLower(strings.TrimSpace(searchTerm))

	filtered := make([]models.Booking, 0, len(list))
	for _, b := range list {
		if !all && b.Status != status {
			continue
		}
		if needle != "" && !matchesSearch(&b, needle) {
			continue
		}
		filtered = append(filtered, b)
	}
	return filtered
}

func matchesSearch(b *models.Booking, needle string) bool {
	return strings.Contains(strings.ToLower(b.CustomerName), needle) ||
		strings.Contains(strings.ToLower(b.ServiceName), needle) ||
		strings.Contains(strings.ToLower(b.ServiceCategory), needle)
}

// sortNewestFirst orders by creation time descending, id as tie-breaker so
// re-fetches are stable.
func sortNewestFirst(list []models.Booking) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].ID > list[j].ID
		}
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
}

// SortByConfirmation orders accepted views by confirmation time descending.
// Entries without a confirmation timestamp sort last.
func SortByConfirmation(list []models.Booking) {
	sort.SliceStable(list, func(i, j int) bool {
		ci, cj := list[i].ConfirmedAt, list[j].ConfirmedAt
		switch {
		case ci == nil:
			return false
		case cj == nil:
			return true
		default:
			return ci.After(*cj)
		}
	})
}

func cloneBookings(list []models.Booking) []models.Booking {
	if list == nil {
		return nil
	}
	out := make([]models.Booking, len(list))
	copy(out, list)
	return out
}
