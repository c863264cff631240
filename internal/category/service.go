package category

import (
	"context"

	"github.com/kpata360-rgb/workisready-backend1/internal/common"

	"go.uber.org/zap"
)

// Service exposes the category tables and the in-memory taxonomy behind them.
type Service interface {
	List(ctx context.Context, withSubCategories bool) ([]Category, error)
	BySlug(ctx context.Context, slug string) (*Category, error)
	// Expand widens a main category to the labels a filter should match.
	Expand(mainCategory string) Expansion
	// Seed copies the taxonomy into the category tables.
	Seed(ctx context.Context) error
}

type service struct {
	repo     Repository
	taxonomy *Taxonomy
	log      *zap.Logger
}

func NewService(repo Repository, taxonomy *Taxonomy, logger *zap.Logger) Service {
	return &service{repo: repo, taxonomy: taxonomy, log: logger.Named("category")}
}

func (s *service) List(ctx context.Context, withSubCategories bool) ([]Category, error) {
	cats, err := s.repo.FindAllCategories(ctx, withSubCategories)
	if err != nil {
		s.log.Error("list categories", zap.Error(err), zap.Bool("withSubCategories", withSubCategories))
		return nil, common.ErrInternalServer.WithDetails("Could not retrieve categories.")
	}
	return cats, nil
}

func (s *service) BySlug(ctx context.Context, slug string) (*Category, error) {
	cat, err := s.repo.FindCategoryBySlug(ctx, slug, true)
	if err == nil {
		return cat, nil
	}
	if _, ok := common.IsAPIError(err); ok {
		return nil, err
	}
	s.log.Error("find category", zap.Error(err), zap.String("slug", slug))
	return nil, common.ErrInternalServer.WithDetails("Could not retrieve category.")
}

func (s *service) Expand(mainCategory string) Expansion {
	return s.taxonomy.Expand(mainCategory)
}

func (s *service) Seed(ctx context.Context) error {
	created, err := s.repo.SeedTaxonomy(ctx, s.taxonomy)
	if err != nil {
		return err
	}
	s.log.Info("taxonomy seeded",
		zap.Int("rowsCreated", created),
		zap.Int("mainCategories", len(s.taxonomy.Categories())))
	return nil
}
