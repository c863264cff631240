package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/kpata360-rgb/workisready-backend1/internal/app"
	"github.com/kpata360-rgb/workisready-backend1/internal/category"
	"github.com/kpata360-rgb/workisready-backend1/internal/config"
	"github.com/kpata360-rgb/workisready-backend1/internal/platform/logger"
	"github.com/kpata360-rgb/workisready-backend1/internal/user"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// migrator carries the dependencies of the one-shot commands.
type migrator struct {
	DB         *gorm.DB
	Users      user.Service
	Categories category.Service
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}
	appLogger, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	cmd := "serve"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "serve":
		err = runServer(cfg, appLogger)
	case "migrate":
		err = runMigrate(cfg, appLogger)
	case "create-admin":
		err = runCreateAdmin(cfg, appLogger, os.Args[2:])
	default:
		err = fmt.Errorf("unknown command %q (want serve, migrate or create-admin)", cmd)
	}
	if err != nil {
		appLogger.Fatal("Command failed", zap.String("command", cmd), zap.Error(err))
	}
}

func runServer(cfg *config.Config, appLogger *zap.Logger) error {
	server, cleanup, err := initializeServer(cfg, appLogger)
	if err != nil {
		return fmt.Errorf("initialize server: %w", err)
	}
	defer cleanup()

	if err := server.SeedTaxonomy(context.Background()); err != nil {
		appLogger.Warn("Category taxonomy not seeded; run the migrate command", zap.Error(err))
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		appLogger.Info("Received signal, shutting down server", zap.String("signal", sig.String()))
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ServerTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	appLogger.Info("Server shutdown complete.")
	return nil
}

func runMigrate(cfg *config.Config, appLogger *zap.Logger) error {
	m, cleanup, err := initializeMigrator(cfg, appLogger)
	if err != nil {
		return err
	}
	defer cleanup()
	return app.Migrate(context.Background(), m.DB, m.Categories, appLogger)
}

func runCreateAdmin(cfg *config.Config, appLogger *zap.Logger, args []string) error {
	fs := flag.NewFlagSet("create-admin", flag.ExitOnError)
	email := fs.String("email", "", "admin email")
	password := fs.String("password", "", "admin password (at least 8 characters)")
	name := fs.String("name", "Administrator", "admin display name")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" || len(*password) < 8 {
		return errors.New("create-admin needs -email and a -password of at least 8 characters")
	}

	m, cleanup, err := initializeMigrator(cfg, appLogger)
	if err != nil {
		return err
	}
	defer cleanup()

	admin, err := m.Users.EnsureAdmin(context.Background(), *email, *password, *name)
	if err != nil {
		return err
	}
	appLogger.Info("Admin account ready", zap.String("userID", admin.ID.String()), zap.String("email", admin.Email))
	return nil
}
