package service

import (
	"context"
	"fmt"
	"strings"

	"wedhub/internal/domain"
	"wedhub/internal/models"

	"github.com/rs/zerolog"
)

// PlannerService is the view-model for the customer planning tools:
// checklists, wedding-day agendas and service reviews.
type PlannerService struct {
	api      domain.PlannerAPI
	sessions domain.SessionStore
	logger   *zerolog.Logger
}

func NewPlannerService(api domain.PlannerAPI, sessions domain.SessionStore, logger *zerolog.Logger) *PlannerService {
	return &PlannerService{
		api:      api,
		sessions: sessions,
		logger:   logger,
	}
}

func (s *PlannerService) session(ctx context.Context, actorID string) (*models.Session, error) {
	sess, err := s.sessions.Get(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !sess.Valid() {
		return nil, domain.ErrNoSession
	}
	return sess, nil
}

func (s *PlannerService) Checklist(ctx context.Context, actorID, customerID string) ([]models.ChecklistItem, error) {
	sess, err := s.session(ctx, actorID)
	if err != nil {
		return nil, err
	}
	return s.api.Checklist(ctx, sess, customerID)
}

func (s *PlannerService) AddChecklistItem(ctx context.Context, actorID string, item *models.ChecklistItem) (*models.ChecklistItem, error) {
	sess, err := s.session(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(item.Title) == "" {
		return nil, fmt.Errorf("%w: checklist title is required", ErrValidation)
	}
	return s.api.CreateChecklistItem(ctx, sess, item)
}

func (s *PlannerService) UpdateChecklistItem(ctx context.Context, actorID string, item *models.ChecklistItem) error {
	sess, err := s.session(ctx, actorID)
	if err != nil {
		return err
	}
	if strings.TrimSpace(item.Title) == "" {
		return fmt.Errorf("%w: checklist title is required", ErrValidation)
	}
	return s.api.UpdateChecklistItem(ctx, sess, item)
}

func (s *PlannerService) DeleteChecklistItem(ctx context.Context, actorID, itemID string) error {
	sess, err := s.session(ctx, actorID)
	if err != nil {
		return err
	}
	return s.api.DeleteChecklistItem(ctx, sess, itemID)
}

func (s *PlannerService) Agenda(ctx context.Context, actorID, customerID string) ([]models.AgendaItem, error) {
	sess, err := s.session(ctx, actorID)
	if err != nil {
		return nil, err
	}
	return s.api.Agenda(ctx, sess, customerID)
}

func (s *PlannerService) AddAgendaItem(ctx context.Context, actorID string, item *models.AgendaItem) (*models.AgendaItem, error) {
	sess, err := s.session(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(item.Title) == "" {
		return nil, fmt.Errorf("%w: agenda title is required", ErrValidation)
	}
	if !item.End.After(item.Start) {
		return nil, fmt.Errorf("%w: agenda end must be after start", ErrValidation)
	}
	return s.api.CreateAgendaItem(ctx, sess, item)
}

func (s *PlannerService) DeleteAgendaItem(ctx context.Context, actorID, itemID string) error {
	sess, err := s.session(ctx, actorID)
	if err != nil {
		return err
	}
	return s.api.DeleteAgendaItem(ctx, sess, itemID)
}

func (s *PlannerService) ServiceReviews(ctx context.Context, actorID, serviceID string) ([]models.Review, error) {
	sess, err := s.session(ctx, actorID)
	if err != nil {
		return nil, err
	}
	return s.api.ServiceReviews(ctx, sess, serviceID)
}

func (s *PlannerService) SubmitReview(ctx context.Context, actorID string, review *models.Review) (*models.Review, error) {
	sess, err := s.session(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if sess.Role != models.RoleCustomer {
		return nil, fmt.Errorf("%w: only customers submit reviews", ErrNotAllowed)
	}
	if review.Rating < 1 || review.Rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	}
	return s.api.CreateReview(ctx, sess, review)
}
