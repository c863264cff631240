package notification

import (
	"context"

	"github.com/kpata360-rgb/workisready-backend1/internal/common"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Notifier records notices for users. It never fails the caller.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, kind NotificationType, message string, relatedID *uuid.UUID)
}

type Service interface {
	Notifier
	List(ctx context.Context, userID uuid.UUID, q ListQuery) ([]Notification, *common.Pagination, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, id, userID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
}

type service struct {
	repo Repository
	log  *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger) Service {
	return &service{repo: repo, log: logger.Named("notification")}
}

func (s *service) Notify(ctx context.Context, userID uuid.UUID, kind NotificationType, message string, relatedID *uuid.UUID) {
	n := &Notification{UserID: userID, Type: kind, Message: message, RelatedID: relatedID}
	if err := s.repo.Create(ctx, n); err != nil {
		s.log.Error("notification dropped", zap.Error(err), zap.Stringer("userID", userID), zap.String("type", string(kind)))
		return
	}
	s.log.Debug("notification stored", zap.Stringer("id", n.ID), zap.String("type", string(kind)))
}

func (s *service) List(ctx context.Context, userID uuid.UUID, q ListQuery) ([]Notification, *common.Pagination, error) {
	items, p, err := s.repo.List(ctx, userID, q)
	if err != nil {
		s.log.Error("list notifications", zap.Error(err), zap.Stringer("userID", userID))
		return nil, nil, common.ErrInternalServer.WithDetails("Could not retrieve notifications.")
	}
	if items == nil {
		items = []Notification{}
	}
	return items, p, nil
}

func (s *service) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	n, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		s.log.Error("count unread notifications", zap.Error(err), zap.Stringer("userID", userID))
		return 0, common.ErrInternalServer.WithDetails("Could not count notifications.")
	}
	return n, nil
}

func (s *service) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	return s.repo.MarkRead(ctx, id, userID)
}

func (s *service) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	n, err := s.repo.MarkAllRead(ctx, userID)
	if err != nil {
		s.log.Error("mark all notifications read", zap.Error(err), zap.Stringer("userID", userID))
		return 0, err
	}
	return n, nil
}
