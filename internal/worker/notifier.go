package worker

import (
	"context"
	"sync"
	"time"

	"wedhub/internal/domain"
	"wedhub/internal/events"

	"github.com/rs/zerolog"
)

// NotificationPoller periodically fetches notifications for the registered
// actors and publishes an event for every new one. Transient backend
// failures back off exponentially per actor; a successful poll resets the
// backoff. User-facing operations never retry — this worker is the only
// place automatic retry happens.
type NotificationPoller struct {
	fetcher  domain.NotificationFetcher
	eventBus domain.EventPublisher
	interval time.Duration
	retry    RetryPolicy
	logger   *zerolog.Logger

	mu       sync.Mutex
	actors   map[string]*actorState
	stopOnce sync.Once
	stopped  chan struct{}
}

type actorState struct {
	failures   int
	nextPollAt time.Time
}

func NewNotificationPoller(fetcher domain.NotificationFetcher, eventBus domain.EventPublisher, interval time.Duration, retry RetryPolicy, logger *zerolog.Logger) *NotificationPoller {
	if interval <= 0 {
		interval = time.Minute
	}
	if retry.MaxRetries == 0 {
		retry.MaxRetries = 5
	}
	if retry.InitialDelay == 0 {
		retry.InitialDelay = 2 * time.Second
	}
	if retry.MaxDelay == 0 {
		retry.MaxDelay = time.Minute
	}

	return &NotificationPoller{
		fetcher:  fetcher,
		eventBus: eventBus,
		interval: interval,
		retry:    retry,
		logger:   logger,
		actors:   make(map[string]*actorState),
		stopped:  make(chan struct{}),
	}
}

// Watch registers an actor for polling. Idempotent.
func (p *NotificationPoller) Watch(actorID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.actors[actorID]; !ok {
		p.actors[actorID] = &actorState{}
	}
}

// Unwatch stops polling for an actor.
func (p *NotificationPoller) Unwatch(actorID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.actors, actorID)
}

// Run polls until the context is cancelled or Stop is called.
func (p *NotificationPoller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.stopped:
			return
		case <-ticker.C:
			p.pollAll(ctx)
		}
	}
}

// Stop terminates Run. Safe to call multiple times.
func (p *NotificationPoller) Stop() {
	p.stopOnce.Do(func() { close(p.stopped) })
}

func (p *NotificationPoller) pollAll(ctx context.Context) {
	p.mu.Lock()
	ids := make([]string, 0, len(p.actors))
	for id, st := range p.actors {
		if time.Now().Before(st.nextPollAt) {
			continue
		}
		ids = append(ids, id)
	}
	p.mu.Unlock()

	for _, actorID := range ids {
		p.pollActor(ctx, actorID)
	}
}

func (p *NotificationPoller) pollActor(ctx context.Context, actorID string) {
	fresh, err := p.fetcher.Unseen(ctx, actorID)
	if err != nil {
		p.backoff(actorID, err)
		return
	}

	p.mu.Lock()
	if st, ok := p.actors[actorID]; ok {
		st.failures = 0
		st.nextPollAt = time.Time{}
	}
	p.mu.Unlock()

	for _, n := range fresh {
		payload := events.NotificationEventPayload{
			NotificationID: n.ID,
			ActorID:        n.ActorID,
			Title:          n.Title,
		}
		if err := p.eventBus.PublishJSON(events.EventNotificationArrived, payload); err != nil {
			p.logger.Error().Err(err).Str("notification_id", n.ID).Msg("publish notification event")
		}
	}
}

func (p *NotificationPoller) backoff(actorID string, cause error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	st, ok := p.actors[actorID]
	if !ok {
		return
	}

	st.failures++
	if st.failures > p.retry.MaxRetries {
		// Give up on this actor until the next successful interaction
		// re-registers it.
		delete(p.actors, actorID)
		p.logger.Warn().Err(cause).Str("actor_id", actorID).Int("failures", st.failures).Msg("notification polling suspended")
		return
	}

	delay := p.retry.NextDelay(st.failures)
	st.nextPollAt = time.Now().Add(delay)
	p.logger.Debug().Err(cause).Str("actor_id", actorID).Dur("retry_in", delay).Msg("notification poll failed")
}
