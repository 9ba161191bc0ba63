package app

import (
	"context"
	"fmt"

	"github.com/itassets/domain-api/auth"
	"github.com/itassets/domain-api/config"
	"github.com/itassets/domain-api/handlers"
	"github.com/itassets/domain-api/middleware"
	"github.com/itassets/domain-api/repositories"
	"github.com/itassets/domain-api/repositories/memory"
	"github.com/itassets/domain-api/repositories/postgres"
	"github.com/itassets/domain-api/services"
	"go.uber.org/zap"
)

// Dependencies holds all application dependencies. This is the central
// wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	Logger *zap.Logger
	DB     *postgres.DB

	// Storage
	Domains repositories.DomainRepository

	// Auth core
	Codec      *auth.Codec
	Authorizer *auth.Authorizer

	// Middleware
	AuthMiddleware       *middleware.AuthMiddleware
	PermissionMiddleware *middleware.PermissionMiddleware

	// Services and handlers
	DomainService *services.DomainService
	DomainHandler *handlers.DomainHandler
}

// NewDependencies creates and wires up all application dependencies
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initStorage(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	deps.Codec = auth.NewCodec(cfg.JWT.Secret)
	deps.Authorizer = auth.NewAuthorizer(auth.Roles{
		Admin: cfg.Roles.Admin,
		User:  cfg.Roles.User,
	}, deps.Domains)

	deps.AuthMiddleware = middleware.NewAuthMiddleware(deps.Codec, logger)
	deps.PermissionMiddleware = middleware.NewPermissionMiddleware(deps.Authorizer, logger)

	deps.DomainService = services.NewDomainService(deps.Domains, logger)
	deps.DomainHandler = handlers.NewDomainHandler(deps.DomainService, logger)

	logger.Info("all dependencies initialized",
		zap.String("storage", cfg.Storage.Type))
	return deps, nil
}

// initStorage selects the repository backend from configuration
func (d *Dependencies) initStorage(ctx context.Context, cfg *config.Config) error {
	switch cfg.Storage.Type {
	case "postgres":
		db, err := postgres.NewDB(cfg.Storage.Postgres, d.Logger)
		if err != nil {
			return err
		}
		if err := db.InitSchema(ctx); err != nil {
			_ = db.Close()
			return err
		}
		d.DB = db
		d.Domains = postgres.NewDomainRepository(db, d.Logger)
	case "memory":
		d.Domains = memory.NewDomainRepository(d.Logger)
	default:
		return fmt.Errorf("unknown storage type: %s", cfg.Storage.Type)
	}
	return nil
}

// Close releases held resources
func (d *Dependencies) Close() error {
	if d.DB != nil {
		return d.DB.Close()
	}
	return nil
}
