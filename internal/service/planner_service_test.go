package service

import (
	"context"
	"io"
	"testing"
	"time"

	"wedhub/internal/domain"
	"wedhub/internal/models"
	"wedhub/internal/session"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPlannerAPI struct {
	mock.Mock
}

func (m *mockPlannerAPI) ServiceReviews(ctx context.Context, sess *models.Session, serviceID string) ([]models.Review, error) {
	args := m.Called(ctx, sess, serviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Review), args.Error(1)
}

func (m *mockPlannerAPI) CreateReview(ctx context.Context, sess *models.Session, review *models.Review) (*models.Review, error) {
	args := m.Called(ctx, sess, review)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *mockPlannerAPI) Notifications(ctx context.Context, sess *models.Session, actorID string) ([]models.Notification, error) {
	args := m.Called(ctx, sess, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Notification), args.Error(1)
}

func (m *mockPlannerAPI) MarkNotificationRead(ctx context.Context, sess *models.Session, notificationID string) error {
	return m.Called(ctx, sess, notificationID).Error(0)
}

func (m *mockPlannerAPI) Checklist(ctx context.Context, sess *models.Session, customerID string) ([]models.ChecklistItem, error) {
	args := m.Called(ctx, sess, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ChecklistItem), args.Error(1)
}

func (m *mockPlannerAPI) CreateChecklistItem(ctx context.Context, sess *models.Session, item *models.ChecklistItem) (*models.ChecklistItem, error) {
	args := m.Called(ctx, sess, item)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChecklistItem), args.Error(1)
}

func (m *mockPlannerAPI) UpdateChecklistItem(ctx context.Context, sess *models.Session, item *models.ChecklistItem) error {
	return m.Called(ctx, sess, item).Error(0)
}

func (m *mockPlannerAPI) DeleteChecklistItem(ctx context.Context, sess *models.Session, itemID string) error {
	return m.Called(ctx, sess, itemID).Error(0)
}

func (m *mockPlannerAPI) Agenda(ctx context.Context, sess *models.Session, customerID string) ([]models.AgendaItem, error) {
	args := m.Called(ctx, sess, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AgendaItem), args.Error(1)
}

func (m *mockPlannerAPI) CreateAgendaItem(ctx context.Context, sess *models.Session, item *models.AgendaItem) (*models.AgendaItem, error) {
	args := m.Called(ctx, sess, item)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AgendaItem), args.Error(1)
}

func (m *mockPlannerAPI) DeleteAgendaItem(ctx context.Context, sess *models.Session, itemID string) error {
	return m.Called(ctx, sess, itemID).Error(0)
}

func newPlannerService(t *testing.T, api domain.PlannerAPI) (*PlannerService, domain.SessionStore) {
	t.Helper()
	logger := zerolog.New(io.Discard)
	store := session.NewMemoryStore(time.Hour)
	return NewPlannerService(api, store, &logger), store
}

func TestPlannerWithoutSession(t *testing.T) {
	api := new(mockPlannerAPI)
	svc, _ := newPlannerService(t, api)

	_, err := svc.Checklist(context.Background(), "c1", "c1")
	assert.ErrorIs(t, err, domain.ErrNoSession)
	api.AssertNotCalled(t, "Checklist", mock.Anything, mock.Anything, mock.Anything)
}

func TestAddChecklistItemValidation(t *testing.T) {
	api := new(mockPlannerAPI)
	svc, store := newPlannerService(t, api)
	seedSession(t, store, "c1", models.RoleCustomer)

	_, err := svc.AddChecklistItem(context.Background(), "c1", &models.ChecklistItem{Title: "   "})
	assert.ErrorIs(t, err, ErrValidation)
	api.AssertNotCalled(t, "CreateChecklistItem", mock.Anything, mock.Anything, mock.Anything)

	item := &models.ChecklistItem{CustomerID: "c1", Title: "Book florist"}
	api.On("CreateChecklistItem", mock.Anything, mock.Anything, item).
		Return(&models.ChecklistItem{ID: "ch1", CustomerID: "c1", Title: "Book florist"}, nil).Once()

	created, err := svc.AddChecklistItem(context.Background(), "c1", item)
	require.NoError(t, err)
	assert.Equal(t, "ch1", created.ID)
}

func TestAddAgendaItemValidation(t *testing.T) {
	api := new(mockPlannerAPI)
	svc, store := newPlannerService(t, api)
	seedSession(t, store, "c1", models.RoleCustomer)

	start := at("2026-06-20T14:00:00Z")

	t.Run("end before start", func(t *testing.T) {
		end := start.Add(-time.Hour)
		_, err := svc.AddAgendaItem(context.Background(), "c1", &models.AgendaItem{
			Title: "Ceremony", Start: start, End: end,
		})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("end equal to start", func(t *testing.T) {
		_, err := svc.AddAgendaItem(context.Background(), "c1", &models.AgendaItem{
			Title: "Ceremony", Start: start, End: start,
		})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("missing title", func(t *testing.T) {
		_, err := svc.AddAgendaItem(context.Background(), "c1", &models.AgendaItem{
			Start: start, End: start.Add(time.Hour),
		})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("valid item", func(t *testing.T) {
		item := &models.AgendaItem{CustomerID: "c1", Title: "Ceremony", Start: start, End: start.Add(time.Hour)}
		api.On("CreateAgendaItem", mock.Anything, mock.Anything, item).
			Return(&models.AgendaItem{ID: "ag1", Title: "Ceremony"}, nil).Once()

		created, err := svc.AddAgendaItem(context.Background(), "c1", item)
		require.NoError(t, err)
		assert.Equal(t, "ag1", created.ID)
	})
}

func TestSubmitReview(t *testing.T) {
	t.Run("rating bounds", func(t *testing.T) {
		api := new(mockPlannerAPI)
		svc, store := newPlannerService(t, api)
		seedSession(t, store, "c1", models.RoleCustomer)

		for _, rating := range []int{0, -1, 6} {
			_, err := svc.SubmitReview(context.Background(), "c1", &models.Review{ServiceID: "s1", Rating: rating})
			assert.ErrorIs(t, err, ErrValidation, "rating %d", rating)
		}
		api.AssertNotCalled(t, "CreateReview", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("vendor may not review", func(t *testing.T) {
		api := new(mockPlannerAPI)
		svc, store := newPlannerService(t, api)
		seedSession(t, store, "v1", models.RoleVendor)

		_, err := svc.SubmitReview(context.Background(), "v1", &models.Review{ServiceID: "s1", Rating: 5})
		assert.ErrorIs(t, err, ErrNotAllowed)
	})

	t.Run("customer review accepted", func(t *testing.T) {
		api := new(mockPlannerAPI)
		svc, store := newPlannerService(t, api)
		seedSession(t, store, "c1", models.RoleCustomer)

		review := &models.Review{ServiceID: "s1", CustomerID: "c1", Rating: 4, Comment: "lovely"}
		api.On("CreateReview", mock.Anything, mock.Anything, review).
			Return(&models.Review{ID: "r1", Rating: 4}, nil).Once()

		created, err := svc.SubmitReview(context.Background(), "c1", review)
		require.NoError(t, err)
		assert.Equal(t, "r1", created.ID)
	})
}
