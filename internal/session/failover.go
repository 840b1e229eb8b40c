package session

import (
	"context"
	"sync/atomic"
	"time"

	"wedhub/internal/domain"
	"wedhub/internal/models"

	"github.com/rs/zerolog"
)

// FailoverStore routes to the primary store and falls back to the secondary
// when the primary errors. The primary is retried after a cooldown. Both
// the down flag and the failure timestamp are atomics so concurrent
// requests never race on them.
type FailoverStore struct {
	primary  domain.SessionStore
	fallback domain.SessionStore
	logger   *zerolog.Logger

	isDown    atomic.Bool
	downSince atomic.Int64 // unix nanos of the last failed primary attempt
}

const primaryRetryCooldown = time.Minute

func NewFailoverStore(primary, fallback domain.SessionStore, logger *zerolog.Logger) *FailoverStore {
	return &FailoverStore{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (s *FailoverStore) markDown(err error) {
	s.logger.Error().Err(err).Msg("primary session store failed, falling back to memory")
	s.downSince.Store(time.Now().UnixNano())
	s.isDown.Store(true)
}

func (s *FailoverStore) cooldownElapsed() bool {
	return time.Since(time.Unix(0, s.downSince.Load())) > primaryRetryCooldown
}

func (s *FailoverStore) Get(ctx context.Context, actorID string) (*models.Session, error) {
	if !s.isDown.Load() {
		sess, err := s.primary.Get(ctx, actorID)
		if err == nil {
			return sess, nil
		}
		s.markDown(err)
	} else if s.cooldownElapsed() {
		sess, err := s.primary.Get(ctx, actorID)
		if err == nil {
			s.isDown.Store(false)
			return sess, nil
		}
		s.downSince.Store(time.Now().UnixNano())
	}

	return s.fallback.Get(ctx, actorID)
}

func (s *FailoverStore) Set(ctx context.Context, sess *models.Session) error {
	if !s.isDown.Load() {
		err := s.primary.Set(ctx, sess)
		if err == nil {
			return nil
		}
		s.markDown(err)
	}

	return s.fallback.Set(ctx, sess)
}

func (s *FailoverStore) Clear(ctx context.Context, actorID string) error {
	if !s.isDown.Load() {
		err := s.primary.Clear(ctx, actorID)
		if err == nil {
			return nil
		}
		s.markDown(err)
	}

	return s.fallback.Clear(ctx, actorID)
}

func (s *FailoverStore) CheckRateLimit(ctx context.Context, actorID string, limit int, window time.Duration) (bool, error) {
	if !s.isDown.Load() {
		allowed, err := s.primary.CheckRateLimit(ctx, actorID, limit, window)
		if err == nil {
			return allowed, nil
		}
		s.markDown(err)
	}

	return s.fallback.CheckRateLimit(ctx, actorID, limit, window)
}
