package service

import (
	"context"
	"sort"
	"sync"

	"wedhub/internal/domain"
	"wedhub/internal/models"

	"github.com/rs/zerolog"
)

// NotificationService lists and marks notifications for an actor. It also
// tracks which ids have already been seen so the polling worker only
// surfaces genuinely new ones.
type NotificationService struct {
	api      domain.PlannerAPI
	sessions domain.SessionStore
	logger   *zerolog.Logger

	mu   sync.Mutex
	seen map[string]map[string]struct{}
}

func NewNotificationService(api domain.PlannerAPI, sessions domain.SessionStore, logger *zerolog.Logger) *NotificationService {
	return &NotificationService{
		api:      api,
		sessions: sessions,
		logger:   logger,
		seen:     make(map[string]map[string]struct{}),
	}
}

func (s *NotificationService) session(ctx context.Context, actorID string) (*models.Session, error) {
	sess, err := s.sessions.Get(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !sess.Valid() {
		return nil, domain.ErrNoSession
	}
	return sess, nil
}

// List returns the actor's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, actorID string) ([]models.Notification, error) {
	sess, err := s.session(ctx, actorID)
	if err != nil {
		return nil, err
	}
	notifications, err := s.api.Notifications(ctx, sess, actorID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(notifications, func(i, j int) bool {
		return notifications[i].CreatedAt.After(notifications[j].CreatedAt)
	})
	return notifications, nil
}

// UnreadCount counts unread notifications in one pass over the list.
func UnreadCount(notifications []models.Notification) int {
	count := 0
	for i := range notifications {
		if !notifications[i].Read {
			count++
		}
	}
	return count
}

// MarkRead flags one notification as read on the server.
func (s *NotificationService) MarkRead(ctx context.Context, actorID, notificationID string) error {
	sess, err := s.session(ctx, actorID)
	if err != nil {
		return err
	}
	return s.api.MarkNotificationRead(ctx, sess, notificationID)
}

// Unseen fetches the actor's notifications and returns only those not seen
// by a previous poll. Used by the background worker.
func (s *NotificationService) Unseen(ctx context.Context, actorID string) ([]models.Notification, error) {
	notifications, err := s.List(ctx, actorID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	known, ok := s.seen[actorID]
	if !ok {
		known = make(map[string]struct{})
		s.seen[actorID] = known
	}

	var fresh []models.Notification
	for _, n := range notifications {
		if _, dup := known[n.ID]; dup {
			continue
		}
		known[n.ID] = struct{}{}
		fresh = append(fresh, n)
	}
	return fresh, nil
}
