package app

import (
	"context"
	"fmt"

	"github.com/kpata360-rgb/workisready-backend1/internal/category"
	"github.com/kpata360-rgb/workisready-backend1/internal/featured"
	"github.com/kpata360-rgb/workisready-backend1/internal/notification"
	"github.com/kpata360-rgb/workisready-backend1/internal/provider"
	"github.com/kpata360-rgb/workisready-backend1/internal/task"
	"github.com/kpata360-rgb/workisready-backend1/internal/updaterequest"
	"github.com/kpata360-rgb/workisready-backend1/internal/user"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Models lists every persisted model in dependency order.
func Models() []interface{} {
	return []interface{}{
		&user.User{},
		&category.Category{},
		&category.SubCategory{},
		&task.Task{},
		&task.Category{},
		&provider.Provider{},
		&provider.Category{},
		&provider.Review{},
		&updaterequest.Request{},
		&featured.FeaturedProvider{},
		&notification.Notification{},
	}
}

// Migrate creates or alters the schema and seeds the category taxonomy.
func Migrate(ctx context.Context, db *gorm.DB, categories category.Service, logger *zap.Logger) error {
	if err := db.WithContext(ctx).AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	logger.Info("Database schema migrated", zap.Int("models", len(Models())))
	if err := categories.Seed(ctx); err != nil {
		return fmt.Errorf("seed categories: %w", err)
	}
	return nil
}
