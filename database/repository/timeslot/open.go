package timeslotRepo

import (
	"context"
	"fmt"
	"time"

	"keyscal/config"
	"keyscal/database"
)

// Open connects the store named by cfg.StoreDriver and prepares its schema.
// The returned func releases the connection.
func Open(ctx context.Context, cfg config.Config) (TimeSlotRepository, func(), error) {
	switch cfg.StoreDriver {
	case "mongo":
		if err := database.InitDB(ctx); err != nil {
			return nil, nil, err
		}
		repo := NewMongoTimeSlotRepo(database.MongoDatabase(), cfg.StoreTimeout)
		if err := repo.EnsureIndexes(ctx); err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			database.CloseDB(ctx)
		}
		return repo, closeFn, nil

	case "postgres", "sqlite":
		dsn := cfg.DatabaseURL
		if cfg.StoreDriver == "sqlite" {
			dsn = cfg.SQLitePath
		}
		db, err := database.OpenGorm(cfg.StoreDriver, dsn)
		if err != nil {
			return nil, nil, err
		}
		repo := NewGormTimeSlotRepository(db, cfg.StoreTimeout)
		if err := repo.AutoMigrate(); err != nil {
			return nil, nil, fmt.Errorf("auto migrate: %w", err)
		}
		closeFn := func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		return repo, closeFn, nil
	}
	return nil, nil, fmt.Errorf("unsupported STORE_DRIVER %q", cfg.StoreDriver)
}
