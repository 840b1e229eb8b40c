package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"wedhub/internal/config"
	"wedhub/internal/domain"
	"wedhub/internal/export"
	"wedhub/internal/service"

	"github.com/rs/zerolog"
)

// Server is the JSON gateway the dashboards render from. Each endpoint is a
// thin binding over the shared view-models; no booking logic lives here.
type Server struct {
	cfg           config.DashboardConfig
	bookings      domain.BookingViewModel
	notifications *service.NotificationService
	planner       *service.PlannerService
	catalog       *service.CatalogService
	sessions      domain.SessionStore
	exporter      *export.Exporter
	logger        *zerolog.Logger

	limiter *actorLimiter
	watcher ActorWatcher
	server  *http.Server
}

// ActorWatcher registers actors for background notification polling.
type ActorWatcher interface {
	Watch(actorID string)
}

func NewServer(
	cfg config.DashboardConfig,
	bookings domain.BookingViewModel,
	notifications *service.NotificationService,
	planner *service.PlannerService,
	catalog *service.CatalogService,
	sessions domain.SessionStore,
	exporter *export.Exporter,
	logger *zerolog.Logger,
) *Server {
	s := &Server{
		cfg:           cfg,
		bookings:      bookings,
		notifications: notifications,
		planner:       planner,
		catalog:       catalog,
		sessions:      sessions,
		exporter:      exporter,
		logger:        logger,
		limiter:       newActorLimiter(cfg),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/dashboard/v1/bookings/status", s.handleTransition)
	mux.HandleFunc("/dashboard/v1/bookings/", s.handleBookings)
	mux.HandleFunc("/dashboard/v1/services/", s.handleServices)
	mux.HandleFunc("/dashboard/v1/notifications/read/", s.handleNotificationRead)
	mux.HandleFunc("/dashboard/v1/notifications/", s.handleNotifications)
	mux.HandleFunc("/dashboard/v1/checklist/", s.handleChecklist)
	mux.HandleFunc("/dashboard/v1/agenda/", s.handleAgenda)
	mux.HandleFunc("/dashboard/v1/reviews/", s.handleReviews)
	mux.HandleFunc("/healthz", s.handleHealth)

	handler := s.loggingMiddleware(s.rateLimitMiddleware(mux))

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	return s
}

// WatchActors forwards authenticated actor ids seen on requests to the
// notification poller so active sessions get polled.
func (s *Server) WatchActors(w ActorWatcher) {
	s.watcher = w
}

// Handler exposes the configured handler chain for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func (s *Server) Start() error {
	if s.server == nil {
		return fmt.Errorf("dashboard server is not initialized")
	}
	s.logger.Info().Str("addr", s.server.Addr).Msg("dashboard listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}
