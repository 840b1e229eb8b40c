package dashboard

import (
	"net/http"
	"strings"
	"time"

	"wedhub/internal/metrics"
	"wedhub/internal/models"
)

const actorHeader = "X-Actor-ID"

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		metrics.IncDashboard(endpointLabel(r.URL.Path))
		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

// rateLimitMiddleware applies two caps per actor: a token bucket for bursts
// and the windowed counter persisted in the session store for sustained
// volume.
func (s *Server) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actorID := strings.TrimSpace(r.Header.Get(actorHeader))
		fromHeader := actorID != ""
		if !fromHeader {
			actorID = r.RemoteAddr
		}

		if !s.limiter.allow(actorID) {
			writeError(w, http.StatusTooManyRequests, "too many requests")
			return
		}

		window := time.Duration(s.cfg.RateLimitWindow) * time.Second
		if window <= 0 {
			window = time.Duration(models.RateLimitWindow) * time.Second
		}
		allowed, err := s.sessions.CheckRateLimit(r.Context(), actorID, s.cfg.RateLimitRequests, window)
		if err != nil {
			s.logger.Error().Err(err).Str("actor_id", actorID).Msg("rate limit check failed")
		} else if !allowed {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		if fromHeader && s.watcher != nil {
			s.watcher.Watch(actorID)
		}

		next.ServeHTTP(w, r)
	})
}

// endpointLabel collapses the path to its leading segments so metric
// cardinality stays bounded.
func endpointLabel(path string) string {
	parts := strings.SplitN(strings.Trim(path, "/"), "/", 4)
	if len(parts) >= 3 {
		return parts[0] + "/" + parts[1] + "/" + parts[2]
	}
	return strings.Trim(path, "/")
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
