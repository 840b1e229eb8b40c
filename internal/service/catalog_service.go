package service

import (
	"context"
	"fmt"
	"strings"

	"wedhub/internal/domain"
	"wedhub/internal/models"

	"github.com/rs/zerolog"
)

// CatalogService is the view-model for a vendor's service catalog and the
// profile lookups the booking screens join in.
type CatalogService struct {
	api      domain.CatalogAPI
	sessions domain.SessionStore
	logger   *zerolog.Logger
}

func NewCatalogService(api domain.CatalogAPI, sessions domain.SessionStore, logger *zerolog.Logger) *CatalogService {
	return &CatalogService{
		api:      api,
		sessions: sessions,
		logger:   logger,
	}
}

func (s *CatalogService) session(ctx context.Context, actorID string) (*models.Session, error) {
	sess, err := s.sessions.Get(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !sess.Valid() {
		return nil, domain.ErrNoSession
	}
	return sess, nil
}

func (s *CatalogService) VendorServices(ctx context.Context, actorID, vendorID string) ([]models.Service, error) {
	sess, err := s.session(ctx, actorID)
	if err != nil {
		return nil, err
	}
	return s.api.VendorServices(ctx, sess, vendorID)
}

func (s *CatalogService) CreateService(ctx context.Context, actorID string, svc *models.Service) (*models.Service, error) {
	sess, err := s.session(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if sess.Role != models.RoleVendor && sess.Role != models.RoleAdmin {
		return nil, fmt.Errorf("%w: only vendors manage services", ErrNotAllowed)
	}
	if err := validateService(svc); err != nil {
		return nil, err
	}
	return s.api.CreateService(ctx, sess, svc)
}

func (s *CatalogService) UpdateService(ctx context.Context, actorID string, svc *models.Service) error {
	sess, err := s.session(ctx, actorID)
	if err != nil {
		return err
	}
	if sess.Role != models.RoleVendor && sess.Role != models.RoleAdmin {
		return fmt.Errorf("%w: only vendors manage services", ErrNotAllowed)
	}
	if err := validateService(svc); err != nil {
		return err
	}
	return s.api.UpdateService(ctx, sess, svc)
}

func (s *CatalogService) DeleteService(ctx context.Context, actorID, vendorID, serviceID string) error {
	sess, err := s.session(ctx, actorID)
	if err != nil {
		return err
	}
	if sess.Role != models.RoleVendor && sess.Role != models.RoleAdmin {
		return fmt.Errorf("%w: only vendors manage services", ErrNotAllowed)
	}
	return s.api.DeleteService(ctx, sess, vendorID, serviceID)
}

func (s *CatalogService) VendorProfile(ctx context.Context, actorID, vendorID string) (*models.Vendor, error) {
	sess, err := s.session(ctx, actorID)
	if err != nil {
		return nil, err
	}
	return s.api.VendorProfile(ctx, sess, vendorID)
}

func (s *CatalogService) CustomerProfile(ctx context.Context, actorID, customerID string) (*models.Customer, error) {
	sess, err := s.session(ctx, actorID)
	if err != nil {
		return nil, err
	}
	return s.api.CustomerProfile(ctx, sess, customerID)
}

func validateService(svc *models.Service) error {
	if strings.TrimSpace(svc.Name) == "" {
		return fmt.Errorf("%w: service name is required", ErrValidation)
	}
	if strings.TrimSpace(svc.Category) == "" {
		return fmt.Errorf("%w: service category is required", ErrValidation)
	}
	if svc.Price < 0 {
		return fmt.Errorf("%w: price cannot be negative", ErrValidation)
	}
	return nil
}
