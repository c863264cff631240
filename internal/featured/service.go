package featured

import (
	"context"
	"errors"

	"github.com/kpata360-rgb/workisready-backend1/internal/common"
	"github.com/kpata360-rgb/workisready-backend1/internal/provider"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProviderFinder loads the provider being toggled.
type ProviderFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*provider.Provider, error)
}

// Service defines homepage curation.
type Service interface {
	List(ctx context.Context) ([]FeaturedProvider, error)
	Toggle(ctx context.Context, providerID, adminID uuid.UUID) (*ToggleResponse, error)
}

type service struct {
	repo      Repository
	providers ProviderFinder
	logger    *zap.Logger
}

// NewService creates the featured provider service.
func NewService(repo Repository, providers ProviderFinder, logger *zap.Logger) Service {
	return &service{repo: repo, providers: providers, logger: logger.Named("featured")}
}

func (s *service) List(ctx context.Context) ([]FeaturedProvider, error) {
	return s.repo.List(ctx)
}

// Toggle removes a featured provider, or features an approved one at the end.
func (s *service) Toggle(ctx context.Context, providerID, adminID uuid.UUID) (*ToggleResponse, error) {
	existing, err := s.repo.FindByProviderID(ctx, providerID)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		if err := s.repo.Remove(ctx, providerID); err != nil {
			return nil, err
		}
		s.logger.Info("Provider unfeatured", zap.String("providerID", providerID.String()), zap.String("adminID", adminID.String()))
		return &ToggleResponse{ProviderID: providerID, Featured: false}, nil
	}

	p, err := s.providers.FindByID(ctx, providerID)
	if err != nil {
		return nil, err
	}
	if !p.IsApproved {
		return nil, common.ErrBadRequest.WithDetails("Only approved providers can be featured.")
	}
	f := &FeaturedProvider{ProviderID: providerID, FeaturedBy: adminID}
	if err := s.repo.Add(ctx, f); err != nil {
		return nil, err
	}
	s.logger.Info("Provider featured",
		zap.String("providerID", providerID.String()),
		zap.String("adminID", adminID.String()),
		zap.Int("position", f.Position),
	)
	return &ToggleResponse{ProviderID: providerID, Featured: true, Position: f.Position}, nil
}
