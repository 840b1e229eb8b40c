package domain

import (
	"context"
	"errors"
	"time"

	"wedhub/internal/models"
)

// ErrNoSession is returned when an operation runs without a valid persisted
// session. It short-circuits before any network I/O.
var ErrNoSession = errors.New("not authenticated")

// SessionStore is the persisted key-value store holding actor sessions and
// the per-actor rate-limit counters.
type SessionStore interface {
	Get(ctx context.Context, actorID string) (*models.Session, error)
	Set(ctx context.Context, sess *models.Session) error
	Clear(ctx context.Context, actorID string) error
	CheckRateLimit(ctx context.Context, actorID string, limit int, window time.Duration) (bool, error)
}

// BookingAPI is the booking slice of the backend REST client.
type BookingAPI interface {
	VendorBookings(ctx context.Context, session *models.Session, vendorID string) ([]models.Booking, error)
	CustomerBookings(ctx context.Context, session *models.Session, customerID string) ([]models.Booking, error)
	UpdateBookingStatus(ctx context.Context, session *models.Session, bookingID string, status models.Status) error
	DeleteBooking(ctx context.Context, session *models.Session, bookingID string) error
}

// CatalogAPI covers vendor services and profiles.
type CatalogAPI interface {
	VendorServices(ctx context.Context, session *models.Session, vendorID string) ([]models.Service, error)
	CreateService(ctx context.Context, session *models.Session, service *models.Service) (*models.Service, error)
	UpdateService(ctx context.Context, session *models.Session, service *models.Service) error
	DeleteService(ctx context.Context, session *models.Session, vendorID, serviceID string) error
	VendorProfile(ctx context.Context, session *models.Session, vendorID string) (*models.Vendor, error)
	CustomerProfile(ctx context.Context, session *models.Session, customerID string) (*models.Customer, error)
}

// PlannerAPI covers reviews, notifications, checklists and agendas.
type PlannerAPI interface {
	ServiceReviews(ctx context.Context, session *models.Session, serviceID string) ([]models.Review, error)
	CreateReview(ctx context.Context, session *models.Session, review *models.Review) (*models.Review, error)
	Notifications(ctx context.Context, session *models.Session, actorID string) ([]models.Notification, error)
	MarkNotificationRead(ctx context.Context, session *models.Session, notificationID string) error
	Checklist(ctx context.Context, session *models.Session, customerID string) ([]models.ChecklistItem, error)
	CreateChecklistItem(ctx context.Context, session *models.Session, item *models.ChecklistItem) (*models.ChecklistItem, error)
	UpdateChecklistItem(ctx context.Context, session *models.Session, item *models.ChecklistItem) error
	DeleteChecklistItem(ctx context.Context, session *models.Session, itemID string) error
	Agenda(ctx context.Context, session *models.Session, customerID string) ([]models.AgendaItem, error)
	CreateAgendaItem(ctx context.Context, session *models.Session, item *models.AgendaItem) (*models.AgendaItem, error)
	DeleteAgendaItem(ctx context.Context, session *models.Session, itemID string) error
}

// EventPublisher publishes in-process domain events.
type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// BookingViewModel is the surface-facing contract of the booking lifecycle
// view-model.
type BookingViewModel interface {
	ListBookings(ctx context.Context, scope models.Scope) ([]models.Booking, error)
	CachedBookings(scope models.Scope) []models.Booking
	Stats(scope models.Scope) models.BookingStats
	TransitionStatus(ctx context.Context, scope models.Scope, bookingID string, target models.Status) ([]models.Booking, error)
	DeleteBooking(ctx context.Context, scope models.Scope, bookingID string) error
}

// NotificationFetcher is what the polling worker needs from the planner
// view-model.
type NotificationFetcher interface {
	Unseen(ctx context.Context, actorID string) ([]models.Notification, error)
}
