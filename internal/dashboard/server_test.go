package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"wedhub/internal/backend"
	"wedhub/internal/config"
	"wedhub/internal/domain"
	"wedhub/internal/export"
	"wedhub/internal/models"
	"wedhub/internal/service"
	"wedhub/internal/session"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubViewModel fakes the booking view-model with canned responses.
type stubViewModel struct {
	list    []models.Booking
	listErr error
	cached  []models.Booking

	transitioned []models.Booking
	transErr     error

	deleteErr error
	deleted   []string
}

func (s *stubViewModel) ListBookings(ctx context.Context, scope models.Scope) ([]models.Booking, error) {
	return s.list, s.listErr
}

func (s *stubViewModel) CachedBookings(scope models.Scope) []models.Booking {
	return s.cached
}

func (s *stubViewModel) Stats(scope models.Scope) models.BookingStats {
	return models.ComputeStats(s.cached)
}

func (s *stubViewModel) TransitionStatus(ctx context.Context, scope models.Scope, bookingID string, target models.Status) ([]models.Booking, error) {
	return s.transitioned, s.transErr
}

func (s *stubViewModel) DeleteBooking(ctx context.Context, scope models.Scope, bookingID string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deleted = append(s.deleted, bookingID)
	return nil
}

func testConfig() config.DashboardConfig {
	return config.DashboardConfig{
		Port:              0,
		RateLimitRPS:      1000,
		RateLimitBurst:    1000,
		RateLimitRequests: 100000,
		RateLimitWindow:   60,
	}
}

func newTestServer(t *testing.T, vm domain.BookingViewModel) *Server {
	t.Helper()
	logger := zerolog.New(io.Discard)
	store := session.NewMemoryStore(time.Hour)
	exporter := export.NewExporter(t.TempDir())
	return NewServer(testConfig(), vm, nil, nil, nil, store, exporter, &logger)
}

func doRequest(t *testing.T, srv *Server, method, path string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(actorHeader, "actor-1")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, &stubViewModel{})
	rec := doRequest(t, srv, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestListBookingsEndpoint(t *testing.T) {
	vm := &stubViewModel{list: []models.Booking{
		{ID: "b1", Status: models.StatusPending, ServiceName: "Photography"},
		{ID: "b2", Status: models.StatusConfirmed, ServiceName: "Catering"},
	}}
	srv := newTestServer(t, vm)

	rec := doRequest(t, srv, http.MethodGet, "/dashboard/v1/bookings/vendor/v1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp bookingListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Bookings, 2)
	assert.Equal(t, 2, resp.Stats.Total)
	assert.Empty(t, resp.Error)
}

func TestListBookingsQueryFilter(t *testing.T) {
	vm := &stubViewModel{list: []models.Booking{
		{ID: "b1", Status: models.StatusPending, ServiceName: "Photography"},
		{ID: "b2", Status: models.StatusConfirmed, ServiceName: "Catering"},
	}}
	srv := newTestServer(t, vm)

	rec := doRequest(t, srv, http.MethodGet, "/dashboard/v1/bookings/vendor/v1?status=pending", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp bookingListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Bookings, 1)
	assert.Equal(t, "b1", resp.Bookings[0].ID)
	// Stats always cover the full unfiltered list.
	assert.Equal(t, 2, resp.Stats.Total)
}

func TestListBookingsStaleFallback(t *testing.T) {
	vm := &stubViewModel{
		listErr: fmt.Errorf("%w: http 503", backend.ErrUnavailable),
		cached:  []models.Booking{{ID: "b1", Status: models.StatusPending}},
	}
	srv := newTestServer(t, vm)

	rec := doRequest(t, srv, http.MethodGet, "/dashboard/v1/bookings/customer/c1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp bookingListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Bookings, 1)
	assert.NotEmpty(t, resp.Error)
}

func TestListBookingsFailureWithoutCache(t *testing.T) {
	vm := &stubViewModel{listErr: fmt.Errorf("%w: http 503", backend.ErrUnavailable)}
	srv := newTestServer(t, vm)

	rec := doRequest(t, srv, http.MethodGet, "/dashboard/v1/bookings/customer/c1", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestListBookingsRejectsAdminScope(t *testing.T) {
	srv := newTestServer(t, &stubViewModel{})
	rec := doRequest(t, srv, http.MethodGet, "/dashboard/v1/bookings/admin/a1", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTransitionEndpoint(t *testing.T) {
	t.Run("success returns refreshed list", func(t *testing.T) {
		vm := &stubViewModel{transitioned: []models.Booking{{ID: "b1", Status: models.StatusConfirmed}}}
		srv := newTestServer(t, vm)

		body := `{"role":"vendor","scopeId":"v1","bookingId":"b1","status":"CONFIRMED"}`
		rec := doRequest(t, srv, http.MethodPut, "/dashboard/v1/bookings/status", body)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp bookingListResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Bookings, 1)
		assert.Equal(t, models.StatusConfirmed, resp.Bookings[0].Status)
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		srv := newTestServer(t, &stubViewModel{})
		body := `{"role":"vendor","scopeId":"v1","bookingId":"b1","status":"CONFIRMED","extra":true}`
		rec := doRequest(t, srv, http.MethodPut, "/dashboard/v1/bookings/status", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		srv := newTestServer(t, &stubViewModel{})
		body := `{"role":"vendor","scopeId":"v1","bookingId":"b1","status":"ARCHIVED"}`
		rec := doRequest(t, srv, http.MethodPut, "/dashboard/v1/bookings/status", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("get not allowed", func(t *testing.T) {
		srv := newTestServer(t, &stubViewModel{})
		rec := doRequest(t, srv, http.MethodGet, "/dashboard/v1/bookings/status", "")
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})

	t.Run("error taxonomy mapping", func(t *testing.T) {
		tests := []struct {
			name string
			err  error
			want int
		}{
			{name: "no session", err: domain.ErrNoSession, want: http.StatusUnauthorized},
			{name: "not allowed", err: fmt.Errorf("%w: vendors only", service.ErrNotAllowed), want: http.StatusForbidden},
			{name: "invalid transition", err: fmt.Errorf("%w: COMPLETED -> CONFIRMED", service.ErrInvalidTransition), want: http.StatusConflict},
			{name: "server rejected", err: fmt.Errorf("%w: already confirmed", backend.ErrRejected), want: http.StatusConflict},
			{name: "unknown booking", err: fmt.Errorf("%w: b9", service.ErrUnknownBooking), want: http.StatusNotFound},
			{name: "backend down", err: fmt.Errorf("%w: http 502", backend.ErrUnavailable), want: http.StatusBadGateway},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				srv := newTestServer(t, &stubViewModel{transErr: tt.err})
				body := `{"role":"vendor","scopeId":"v1","bookingId":"b1","status":"CONFIRMED"}`
				rec := doRequest(t, srv, http.MethodPut, "/dashboard/v1/bookings/status", body)
				assert.Equal(t, tt.want, rec.Code)
			})
		}
	})
}

func TestDeleteBookingEndpoint(t *testing.T) {
	vm := &stubViewModel{cached: []models.Booking{{ID: "b2", Status: models.StatusPending}}}
	srv := newTestServer(t, vm)

	rec := doRequest(t, srv, http.MethodDelete, "/dashboard/v1/bookings/customer/c1/b1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"b1"}, vm.deleted)

	var resp bookingListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Bookings, 1)
}

func TestRateLimitBurst(t *testing.T) {
	logger := zerolog.New(io.Discard)
	store := session.NewMemoryStore(time.Hour)
	cfg := config.DashboardConfig{
		RateLimitRPS:      1,
		RateLimitBurst:    2,
		RateLimitRequests: 100000,
		RateLimitWindow:   60,
	}
	srv := NewServer(cfg, &stubViewModel{}, nil, nil, nil, store, export.NewExporter(t.TempDir()), &logger)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.Header.Set(actorHeader, "burster")
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, http.StatusOK, codes[0])
	assert.Equal(t, http.StatusOK, codes[1])
	assert.Equal(t, http.StatusTooManyRequests, codes[2])
}

func TestRateLimitWindowed(t *testing.T) {
	logger := zerolog.New(io.Discard)
	store := session.NewMemoryStore(time.Hour)
	cfg := config.DashboardConfig{
		RateLimitRPS:      1000,
		RateLimitBurst:    1000,
		RateLimitRequests: 2,
		RateLimitWindow:   60,
	}
	srv := NewServer(cfg, &stubViewModel{}, nil, nil, nil, store, export.NewExporter(t.TempDir()), &logger)

	var last int
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.Header.Set(actorHeader, "steady")
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)
		last = rec.Code
	}
	assert.Equal(t, http.StatusTooManyRequests, last)
}

type recordingWatcher struct {
	watched []string
}

func (w *recordingWatcher) Watch(actorID string) {
	w.watched = append(w.watched, actorID)
}

func TestWatchActorsOnAuthenticatedRequests(t *testing.T) {
	srv := newTestServer(t, &stubViewModel{})
	watcher := &recordingWatcher{}
	srv.WatchActors(watcher)

	rec := doRequest(t, srv, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"actor-1"}, watcher.watched)

	// Anonymous requests must not register their remote address.
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	anon := httptest.NewRecorder()
	srv.Handler().ServeHTTP(anon, req)
	require.Equal(t, http.StatusOK, anon.Code)
	assert.Equal(t, []string{"actor-1"}, watcher.watched)
}

func TestEndpointLabel(t *testing.T) {
	assert.Equal(t, "dashboard/v1/bookings", endpointLabel("/dashboard/v1/bookings/vendor/v1"))
	assert.Equal(t, "dashboard/v1/bookings", endpointLabel("/dashboard/v1/bookings/status"))
	assert.Equal(t, "healthz", endpointLabel("/healthz"))
	assert.Equal(t, "", endpointLabel("/"))
}
