//go:build wireinject
// +build wireinject

package main

import (
	"github.com/kpata360-rgb/workisready-backend1/internal/app"
	"github.com/kpata360-rgb/workisready-backend1/internal/auth"
	"github.com/kpata360-rgb/workisready-backend1/internal/category"
	"github.com/kpata360-rgb/workisready-backend1/internal/config"
	"github.com/kpata360-rgb/workisready-backend1/internal/featured"
	"github.com/kpata360-rgb/workisready-backend1/internal/filestorage"
	"github.com/kpata360-rgb/workisready-backend1/internal/middleware"
	"github.com/kpata360-rgb/workisready-backend1/internal/notification"
	"github.com/kpata360-rgb/workisready-backend1/internal/platform/database"
	"github.com/kpata360-rgb/workisready-backend1/internal/provider"
	"github.com/kpata360-rgb/workisready-backend1/internal/task"
	"github.com/kpata360-rgb/workisready-backend1/internal/updaterequest"
	"github.com/kpata360-rgb/workisready-backend1/internal/user"

	"github.com/google/wire"
	"go.uber.org/zap"
)

var storageSet = wire.NewSet(
	filestorage.NewService,
	wire.Bind(new(filestorage.Store), new(*filestorage.Service)),
)

var userSet = wire.NewSet(
	user.NewGORMRepository,
	user.NewService,
	wire.Bind(new(user.Service), new(*user.ServiceImplementation)),
	wire.Bind(new(provider.RoleSwitcher), new(*user.ServiceImplementation)),
	user.NewHandler,
)

var authSet = wire.NewSet(
	auth.NewMemoryBlocklist,
	wire.Bind(new(auth.Blocklist), new(*auth.MemoryBlocklist)),
	auth.NewJWTService,
	wire.Bind(new(middleware.TokenValidator), new(auth.TokenService)),
	auth.NewHandler,
)

var domainSet = wire.NewSet(
	category.ProvideTaxonomy,
	category.NewGORMRepository,
	category.NewService,
	category.NewHandler,

	notification.NewGORMRepository,
	notification.NewService,
	wire.Bind(new(notification.Notifier), new(notification.Service)),
	notification.NewHandler,

	task.NewGORMRepository,
	task.NewService,
	task.NewHandler,

	provider.NewGORMRepository,
	provider.NewService,
	provider.NewHandler,
	wire.Bind(new(updaterequest.ProviderFinder), new(provider.Repository)),
	wire.Bind(new(featured.ProviderFinder), new(provider.Repository)),

	updaterequest.NewGORMRepository,
	updaterequest.NewService,
	updaterequest.NewHandler,

	featured.NewGORMRepository,
	featured.NewService,
	featured.NewHandler,
)

// initializeServer is the main Wire injector.
func initializeServer(cfg *config.Config, logger *zap.Logger) (*app.Server, func(), error) {
	wire.Build(
		database.NewGORM,
		storageSet,
		userSet,
		authSet,
		domainSet,
		wire.Struct(new(app.Handlers), "*"),
		app.NewServer,
	)
	return nil, nil, nil
}

// initializeMigrator builds what the migrate and create-admin commands need.
func initializeMigrator(cfg *config.Config, logger *zap.Logger) (*migrator, func(), error) {
	wire.Build(
		database.NewGORM,
		storageSet,
		user.NewGORMRepository,
		user.NewService,
		wire.Bind(new(user.Service), new(*user.ServiceImplementation)),
		category.ProvideTaxonomy,
		category.NewGORMRepository,
		category.NewService,
		wire.Struct(new(migrator), "*"),
	)
	return nil, nil, nil
}
