// Package bootstrap opens the storage backend selected by configuration.
// It is shared by the HTTP server and the admin CLI.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	portsrepo "github.com/SscSPs/hr_admin_app/internal/core/ports/repositories"
	"github.com/SscSPs/hr_admin_app/internal/platform/config"
	"github.com/SscSPs/hr_admin_app/internal/repositories/database/memory"
	"github.com/SscSPs/hr_admin_app/internal/repositories/database/pgsql"
	"github.com/SscSPs/hr_admin_app/pkg/database"
)

// OpenRepositories returns the repository ports for cfg.StorageDriver and a
// function releasing the underlying resources. For postgres, pending
// migrations are applied first when cfg.RunMigrations is set.
func OpenRepositories(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, func(), error) {
	if cfg.StorageDriver == config.StorageMemory {
		logger.Warn("Using in-memory storage; data is lost on exit")
		return memory.NewRepositoryProvider(memory.NewStore()), func() {}, nil
	}

	if cfg.RunMigrations {
		version, err := database.RunMigrations(logger, cfg.DatabaseURL, database.MigrateUp)
		if err != nil {
			return portsrepo.RepositoryProvider{}, nil, fmt.Errorf("failed to apply migrations: %w", err)
		}
		logger.Info("Database schema ready", slog.Uint64("version", uint64(version)))
	}

	pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		return portsrepo.RepositoryProvider{}, nil, err
	}
	return pgsql.NewRepositoryProvider(pool), func() { database.ClosePgxPool(pool) }, nil
}
