package updaterequest

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/kpata360-rgb/workisready-backend1/internal/common"
	"github.com/kpata360-rgb/workisready-backend1/internal/filestorage"
	"github.com/kpata360-rgb/workisready-backend1/internal/notification"
	"github.com/kpata360-rgb/workisready-backend1/internal/platform/metrics"
	"github.com/kpata360-rgb/workisready-backend1/internal/provider"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// ProviderFinder is the part of the provider repository the workflow reads.
type ProviderFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*provider.Provider, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*provider.Provider, error)
}

// Service defines the update request workflow.
type Service interface {
	Submit(ctx context.Context, userID uuid.UUID, req SubmitRequest, sampleWork []*multipart.FileHeader) (*Request, error)
	ListMine(ctx context.Context, userID uuid.UUID, page, limit int) ([]Request, *common.Pagination, error)
	AdminList(ctx context.Context, status string, page, limit int) ([]Request, *common.Pagination, error)
	Get(ctx context.Context, id uuid.UUID) (*Request, error)
	Approve(ctx context.Context, id, adminID uuid.UUID) (*Request, error)
	Reject(ctx context.Context, id, adminID uuid.UUID, reason string) (*Request, error)
}

type service struct {
	repo      Repository
	providers ProviderFinder
	storage   filestorage.Store
	notifier  notification.Notifier
	logger    *zap.Logger
	now       func() time.Time
}

// NewService creates the update request service.
func NewService(repo Repository, providers ProviderFinder, storage filestorage.Store, notifier notification.Notifier, logger *zap.Logger) Service {
	return &service{
		repo:      repo,
		providers: providers,
		storage:   storage,
		notifier:  notifier,
		logger:    logger.Named("updaterequest"),
		now:       time.Now,
	}
}

// Submit queues the differing fields of req plus any new sample files.
func (s *service) Submit(ctx context.Context, userID uuid.UUID, req SubmitRequest, sampleWork []*multipart.FileHeader) (*Request, error) {
	p, err := s.providers.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound.WithDetails("You do not have a provider profile.")
		}
		return nil, err
	}

	changes := Diff(p, req)
	if changes.IsEmpty() && len(sampleWork) == 0 {
		return nil, common.ErrBadRequest.WithMessage("No changes detected.")
	}
	if len(sampleWork) > provider.MaxSampleWork {
		return nil, common.ErrBadRequest.WithDetails(fmt.Sprintf("At most %d sample work files are allowed.", provider.MaxSampleWork))
	}

	pending, err := s.repo.HasPending(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, common.ErrConflict.WithDetails("You already have a pending update request.")
	}

	paths, err := s.storage.SaveAll(sampleWork, filestorage.KindProviderSampleWork)
	if err != nil {
		if errors.Is(err, filestorage.ErrUnsupportedFileType) {
			return nil, common.ErrBadRequest.WithDetails(err.Error())
		}
		return nil, fmt.Errorf("save sample work: %w", err)
	}

	r := &Request{
		ProviderID:    p.ID,
		Changes:       datatypes.NewJSONType(changes),
		NewSampleWork: paths,
		Status:        StatusPending,
	}
	if err := s.repo.Create(ctx, r); err != nil {
		s.storage.DeleteQuietly(paths...)
		s.logger.Error("Failed to store update request", zap.Error(err), zap.String("providerID", p.ID.String()))
		return nil, err
	}
	r.Provider = p

	s.logger.Info("Update request submitted",
		zap.String("requestID", r.ID.String()),
		zap.String("providerID", p.ID.String()),
		zap.Strings("fields", changes.Fields()),
		zap.Int("newSampleWork", len(paths)),
	)
	return r, nil
}

func (s *service) ListMine(ctx context.Context, userID uuid.UUID, page, limit int) ([]Request, *common.Pagination, error) {
	p, err := s.providers.FindByUserID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	page, limit = common.NormalizePage(page, limit)
	return s.list(ctx, ListFilter{ProviderID: &p.ID, Page: page, Limit: limit})
}

// AdminList pages through the queue. Status defaults to pending; "all" lifts the filter.
func (s *service) AdminList(ctx context.Context, status string, page, limit int) ([]Request, *common.Pagination, error) {
	st := Status(strings.ToLower(strings.TrimSpace(status)))
	switch {
	case st == "":
		st = StatusPending
	case st == "all":
		st = ""
	case !st.Valid():
		return nil, nil, common.ErrBadRequest.WithDetails("status must be one of: pending, approved, rejected, all.")
	}
	page, limit = common.NormalizePage(page, limit)
	return s.list(ctx, ListFilter{Status: st, Page: page, Limit: limit})
}

func (s *service) list(ctx context.Context, f ListFilter) ([]Request, *common.Pagination, error) {
	requests, total, err := s.repo.List(ctx, f)
	if err != nil {
		s.logger.Error("Failed to list update requests", zap.Error(err))
		return nil, nil, err
	}
	return requests, common.NewPagination(total, f.Page, f.Limit), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Request, error) {
	return s.repo.FindByID(ctx, id)
}

// Approve applies the request to its provider. The provider write and the
// status change commit together; on failure the request stays pending.
func (s *service) Approve(ctx context.Context, id, adminID uuid.UUID) (*Request, error) {
	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.Status != StatusPending {
		return nil, common.ErrConflict.WithDetails(fmt.Sprintf("Update request is already %s.", r.Status))
	}
	p, err := s.providers.FindByID(ctx, r.ProviderID)
	if err != nil {
		return nil, err
	}

	replaceCategories := r.Changes.Data().Apply(p)
	var dropped []string
	p.SampleWork, dropped = provider.AppendSampleWork(p.SampleWork, r.NewSampleWork, s.now())

	now := s.now()
	r.Status = StatusApproved
	r.ReviewedAt = &now
	r.ReviewedBy = &adminID
	if err := s.repo.Approve(ctx, r, p, replaceCategories); err != nil {
		if errors.Is(err, common.ErrConflict) {
			return nil, err
		}
		s.logger.Error("Failed to apply update request", zap.Error(err), zap.String("requestID", id.String()))
		return nil, fmt.Errorf("approve update request %s: %w", id, err)
	}
	r.Provider = p

	s.storage.DeleteQuietly(dropped...)
	metrics.UpdateRequestsReviewed.WithLabelValues(string(StatusApproved)).Inc()
	s.notifier.Notify(ctx, p.UserID, notification.UpdateRequestApproved,
		"Your profile update request has been approved.", &r.ID)
	s.logger.Info("Update request approved",
		zap.String("requestID", id.String()),
		zap.String("adminID", adminID.String()),
		zap.Int("droppedSampleWork", len(dropped)),
	)
	return r, nil
}

// Reject closes the request with a reason and discards its uploaded files.
func (s *service) Reject(ctx context.Context, id, adminID uuid.UUID, reason string) (*Request, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, common.ErrBadRequest.WithMessage("A rejection reason is required.")
	}
	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.Status != StatusPending {
		return nil, common.ErrConflict.WithDetails(fmt.Sprintf("Update request is already %s.", r.Status))
	}

	now := s.now()
	r.Status = StatusRejected
	r.ReviewedAt = &now
	r.ReviewedBy = &adminID
	r.RejectionReason = reason
	if err := s.repo.Reject(ctx, r); err != nil {
		return nil, err
	}

	s.storage.DeleteQuietly(r.NewSampleWork...)
	metrics.UpdateRequestsReviewed.WithLabelValues(string(StatusRejected)).Inc()
	if r.Provider != nil {
		s.notifier.Notify(ctx, r.Provider.UserID, notification.UpdateRequestRejected,
			"Your profile update request was rejected: "+reason, &r.ID)
	}
	s.logger.Info("Update request rejected", zap.String("requestID", id.String()), zap.String("adminID", adminID.String()))
	return r, nil
}
