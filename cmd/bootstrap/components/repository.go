package components

import (
	"context"
	"log/slog"

	"studio-scheduler/internal/infra/db"
	"studio-scheduler/internal/infra/memstore"
	"studio-scheduler/internal/infra/repository"
	"studio-scheduler/internal/pkg/config"
	"studio-scheduler/internal/usecase/commands"
	"studio-scheduler/internal/usecase/queries"

	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		NewBookingStore,
	),
)

// NewBookingStore selects the store backend by DB_DRIVER. Both backends
// serve the write and the read side; the split into two interfaces is for
// the consumers, not the implementations.
func NewBookingStore(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (commands.BookingRepository, queries.BookingReader, error) {
	if cfg.DB.Driver == "memory" {
		logger.Info("using in-memory booking store")
		store := memstore.NewBookingStore()
		return store, store, nil
	}

	pool, cleanup, err := db.Connect(cfg.DB)
	if err != nil {
		return nil, nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			if cleanup != nil {
				cleanup()
			}
			return nil
		},
	})

	repo := repository.NewBookingRepository(pool)
	return repo, repo, nil
}
