package provider

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/kpata360-rgb/workisready-backend1/internal/aggregate"
	"github.com/kpata360-rgb/workisready-backend1/internal/category"
	"github.com/kpata360-rgb/workisready-backend1/internal/common"
	"github.com/kpata360-rgb/workisready-backend1/internal/config"
	"github.com/kpata360-rgb/workisready-backend1/internal/filestorage"
	"github.com/kpata360-rgb/workisready-backend1/internal/location"
	"github.com/kpata360-rgb/workisready-backend1/internal/notification"
	"github.com/kpata360-rgb/workisready-backend1/internal/platform/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RoleSwitcher is the part of the user service registration needs.
type RoleSwitcher interface {
	PromoteToProvider(ctx context.Context, id uuid.UUID) error
}

// RegionCategoryResult is a page of providers matched through a category expansion.
type RegionCategoryResult struct {
	Providers  []Provider
	Pagination *common.Pagination
	Expansion  category.Expansion
}

// Service defines the provider operations.
type Service interface {
	Register(ctx context.Context, userID uuid.UUID, req RegisterRequest, profilePicture *multipart.FileHeader, sampleWork []*multipart.FileHeader) (*Provider, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Provider, error)
	GetApprovedByID(ctx context.Context, id uuid.UUID) (*Provider, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*Provider, error)
	List(ctx context.Context, q ListQuery) ([]Provider, *common.Pagination, error)
	RegionCategory(ctx context.Context, q RegionCategoryQuery) (*RegionCategoryResult, error)
	Summary(ctx context.Context, region string) (*RegionSummary, error)
	RegionOverview(ctx context.Context) ([]aggregate.RegionBucket[Provider], error)
	UpdateProfilePicture(ctx context.Context, userID uuid.UUID, fileHeader *multipart.FileHeader) (*Provider, error)
	RemoveSampleWork(ctx context.Context, userID, sampleID uuid.UUID) (*Provider, error)
	AddReview(ctx context.Context, providerID, authorID uuid.UUID, req ReviewRequest) (*Review, *Provider, error)
	ListReviews(ctx context.Context, providerID uuid.UUID) ([]Review, error)
	AdminList(ctx context.Context, q AdminListQuery) ([]Provider, *common.Pagination, error)
	SetApproval(ctx context.Context, providerID uuid.UUID, approved bool) (*Provider, error)
}

type service struct {
	repo      Repository
	storage   filestorage.Store
	users     RoleSwitcher
	taxonomy  *category.Taxonomy
	notifier  notification.Notifier
	sampleCap int
	logger    *zap.Logger
	now       func() time.Time
}

// NewService creates a provider service.
func NewService(repo Repository, storage filestorage.Store, users RoleSwitcher, taxonomy *category.Taxonomy, notifier notification.Notifier, cfg *config.Config, logger *zap.Logger) Service {
	return &service{
		repo:      repo,
		storage:   storage,
		users:     users,
		taxonomy:  taxonomy,
		notifier:  notifier,
		sampleCap: cfg.AggregationSampleCap,
		logger:    logger.Named("provider"),
		now:       time.Now,
	}
}

// Register creates the caller's provider profile. Saved files are removed
// again when a later step fails.
func (s *service) Register(ctx context.Context, userID uuid.UUID, req RegisterRequest, profilePicture *multipart.FileHeader, sampleWork []*multipart.FileHeader) (*Provider, error) {
	if _, err := s.repo.FindByUserID(ctx, userID); err == nil {
		return nil, common.ErrConflict.WithDetails("A provider profile already exists for this user.")
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}
	if len(sampleWork) > MaxSampleWork {
		return nil, common.ErrBadRequest.WithDetails(fmt.Sprintf("At most %d sample work files are allowed.", MaxSampleWork))
	}

	p := req.ToProvider()
	p.UserID = userID

	var saved []string
	cleanup := func() { s.storage.DeleteQuietly(saved...) }

	if profilePicture != nil {
		rel, err := s.storage.Save(profilePicture, filestorage.KindProviderProfile)
		if err != nil {
			return nil, s.storageError("profile picture", err)
		}
		saved = append(saved, rel)
		p.ProfilePicture = rel
	}
	samples, err := s.storage.SaveAll(sampleWork, filestorage.KindProviderSampleWork)
	if err != nil {
		cleanup()
		return nil, s.storageError("sample work", err)
	}
	saved = append(saved, samples...)
	p.SampleWork, _ = AppendSampleWork(nil, samples, s.now())

	if err := s.repo.Create(ctx, p); err != nil {
		cleanup()
		return nil, err
	}
	if err := s.users.PromoteToProvider(ctx, userID); err != nil {
		s.logger.Error("Failed to switch user role, rolling back provider", zap.Error(err), zap.String("userID", userID.String()))
		if delErr := s.repo.Delete(ctx, p.ID); delErr != nil {
			s.logger.Error("Failed to roll back provider", zap.Error(delErr), zap.String("providerID", p.ID.String()))
		}
		cleanup()
		return nil, err
	}

	metrics.ProvidersRegistered.Inc()
	s.logger.Info("Provider registered",
		zap.String("providerID", p.ID.String()),
		zap.String("userID", userID.String()),
		zap.Int("sampleWork", len(samples)),
	)
	return p, nil
}

func (s *service) storageError(what string, err error) error {
	if errors.Is(err, filestorage.ErrUnsupportedFileType) {
		return common.ErrBadRequest.WithDetails(fmt.Sprintf("%s: %s", what, err.Error()))
	}
	s.logger.Error("Failed to store upload", zap.String("what", what), zap.Error(err))
	return fmt.Errorf("save %s: %w", what, err)
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*Provider, error) {
	return s.repo.FindByID(ctx, id)
}

// GetApprovedByID hides unapproved profiles behind a 404.
func (s *service) GetApprovedByID(ctx context.Context, id uuid.UUID) (*Provider, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.IsApproved {
		return nil, common.ErrNotFound.WithDetails("Provider not found.")
	}
	return p, nil
}

func (s *service) GetByUserID(ctx context.Context, userID uuid.UUID) (*Provider, error) {
	return s.repo.FindByUserID(ctx, userID)
}

// List returns approved providers. A main category is widened to its sub-categories.
func (s *service) List(ctx context.Context, q ListQuery) ([]Provider, *common.Pagination, error) {
	page, limit := common.NormalizePage(q.Page, q.Limit)
	f := Filter{
		ApprovedOnly: true,
		RegionKey:    location.NormalizeRegion(q.Region),
		CityKey:      location.NormalizeKey(q.City),
		CategoryKey:  location.NormalizeKey(q.Category),
		Page:         page,
		Limit:        limit,
	}
	if q.MainCategory != "" {
		f.AnyCategoryKeys = expansionKeys(s.taxonomy.Expand(q.MainCategory))
	}
	return s.search(ctx, f)
}

func (s *service) RegionCategory(ctx context.Context, q RegionCategoryQuery) (*RegionCategoryResult, error) {
	exp := s.taxonomy.Expand(q.Category)
	if !exp.Matched {
		s.logger.Debug("Unknown main category, matching literally", zap.String("category", q.Category))
	}
	sort := q.Sort
	if sort == "" {
		sort = SortNewest
	}
	page, limit := common.NormalizePage(q.Page, q.Limit)
	providers, p, err := s.search(ctx, Filter{
		ApprovedOnly:    true,
		RegionKey:       location.NormalizeRegion(q.Region),
		AnyCategoryKeys: expansionKeys(exp),
		Sort:            sort,
		Page:            page,
		Limit:           limit,
	})
	if err != nil {
		return nil, err
	}
	return &RegionCategoryResult{Providers: providers, Pagination: p, Expansion: exp}, nil
}

func expansionKeys(exp category.Expansion) []string {
	keys := make([]string, 0, len(exp.Labels))
	for _, l := range exp.Labels {
		if k := location.NormalizeKey(l); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

func (s *service) search(ctx context.Context, f Filter) ([]Provider, *common.Pagination, error) {
	providers, total, err := s.repo.Search(ctx, f)
	if err != nil {
		s.logger.Error("Provider search failed", zap.Error(err))
		return nil, nil, err
	}
	return providers, common.NewPagination(total, f.Page, f.Limit), nil
}

// Summary groups the approved providers of a region by category.
func (s *service) Summary(ctx context.Context, region string) (*RegionSummary, error) {
	key := location.NormalizeRegion(region)
	if key == "" {
		return nil, common.ErrBadRequest.WithDetails("region is required.")
	}
	providers, err := s.repo.ListApproved(ctx, key)
	if err != nil {
		return nil, err
	}
	buckets := aggregate.ByCategory(providers, Provider.Labels, s.sampleCap)
	summary := &RegionSummary{Region: region, Total: len(providers), Categories: make([]CategorySummary, 0, len(buckets))}
	for _, b := range buckets {
		summary.Categories = append(summary.Categories, CategorySummary{
			Category:  b.Category,
			Count:     b.Count,
			Providers: ToProviderResponses(b.Samples),
		})
	}
	return summary, nil
}

// RegionOverview groups every approved provider by region, then category.
func (s *service) RegionOverview(ctx context.Context) ([]aggregate.RegionBucket[Provider], error) {
	providers, err := s.repo.ListApproved(ctx, "")
	if err != nil {
		return nil, err
	}
	regionOf := func(p Provider) string { return p.Location.Region }
	return aggregate.ByRegionAndCategory(providers, regionOf, Provider.Labels, s.sampleCap), nil
}

func (s *service) UpdateProfilePicture(ctx context.Context, userID uuid.UUID, fileHeader *multipart.FileHeader) (*Provider, error) {
	if fileHeader == nil {
		return nil, common.ErrBadRequest.WithMessage("A profile picture is required.")
	}
	p, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	rel, err := s.storage.Save(fileHeader, filestorage.KindProviderProfile)
	if err != nil {
		return nil, s.storageError("profile picture", err)
	}
	old := p.ProfilePicture
	p.ProfilePicture = rel
	if err := s.repo.Save(ctx, p, false); err != nil {
		s.storage.DeleteQuietly(rel)
		return nil, err
	}
	s.storage.DeleteQuietly(old)
	return p, nil
}

func (s *service) RemoveSampleWork(ctx context.Context, userID, sampleID uuid.UUID) (*Provider, error) {
	p, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	kept := make([]SampleWork, 0, len(p.SampleWork))
	var removed string
	for _, sw := range p.SampleWork {
		if sw.ID == sampleID {
			removed = sw.Path
			continue
		}
		kept = append(kept, sw)
	}
	if removed == "" {
		return nil, common.ErrNotFound.WithDetails("Sample work entry not found.")
	}
	p.SampleWork = kept
	if err := s.repo.Save(ctx, p, false); err != nil {
		return nil, err
	}
	s.storage.DeleteQuietly(removed)
	return p, nil
}

// AddReview records one review per author. The duplicate check reads the
// existing reviews first; the unique index catches a racing insert.
func (s *service) AddReview(ctx context.Context, providerID, authorID uuid.UUID, req ReviewRequest) (*Review, *Provider, error) {
	p, err := s.GetApprovedByID(ctx, providerID)
	if err != nil {
		return nil, nil, err
	}
	if p.UserID == authorID {
		return nil, nil, common.ErrForbidden.WithDetails("You cannot review your own provider profile.")
	}

	reviews, err := s.repo.ListReviews(ctx, providerID)
	if err != nil {
		return nil, nil, err
	}
	for _, r := range reviews {
		if r.AuthorID == authorID {
			return nil, nil, ErrAlreadyReviewed
		}
	}

	review := &Review{ProviderID: providerID, AuthorID: authorID, Rating: req.Rating, Comment: req.Comment}
	updated, err := s.repo.AddReview(ctx, review)
	if err != nil {
		return nil, nil, err
	}
	metrics.ReviewsAdded.Inc()
	s.logger.Info("Review added",
		zap.String("providerID", providerID.String()),
		zap.Int("rating", req.Rating),
		zap.Float64("averageRating", updated.AverageRating),
	)
	return review, updated, nil
}

func (s *service) ListReviews(ctx context.Context, providerID uuid.UUID) ([]Review, error) {
	if _, err := s.GetApprovedByID(ctx, providerID); err != nil {
		return nil, err
	}
	return s.repo.ListReviews(ctx, providerID)
}

func (s *service) AdminList(ctx context.Context, q AdminListQuery) ([]Provider, *common.Pagination, error) {
	page, limit := common.NormalizePage(q.Page, q.Limit)
	return s.search(ctx, Filter{Approved: q.Approved, Page: page, Limit: limit})
}

// SetApproval approves or revokes a provider and notifies its owner.
func (s *service) SetApproval(ctx context.Context, providerID uuid.UUID, approved bool) (*Provider, error) {
	p, err := s.repo.FindByID(ctx, providerID)
	if err != nil {
		return nil, err
	}
	if p.IsApproved == approved {
		return p, nil
	}

	p.IsApproved = approved
	if approved {
		now := s.now()
		p.ApprovedAt = &now
	} else {
		p.ApprovedAt = nil
	}
	if err := s.repo.Save(ctx, p, false); err != nil {
		return nil, err
	}

	kind, msg := notification.ProviderApproved, "Your provider profile has been approved and is now visible to clients."
	if !approved {
		kind, msg = notification.ProviderRevoked, "Your provider profile approval has been revoked."
	}
	s.notifier.Notify(ctx, p.UserID, kind, msg, &p.ID)
	s.logger.Info("Provider approval changed", zap.String("providerID", providerID.String()), zap.Bool("approved", approved))
	return p, nil
}
