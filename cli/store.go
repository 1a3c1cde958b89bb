package cli

import (
	"context"
	"log"

	"github.com/dcode-github/rental_booking_system/config"
	"github.com/dcode-github/rental_booking_system/store"
)

// openStore connects the backend selected by STORE_DRIVER.
func openStore(ctx context.Context, cfg config.Config) (store.Store, error) {
	switch cfg.StoreDriver {
	case config.DriverSQLite:
		s, err := store.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		log.Printf("Using SQLite database at %s", cfg.SQLitePath)
		return s, nil
	default:
		client, err := config.ConnectDB(ctx, cfg.MongoURI)
		if err != nil {
			return nil, err
		}
		return store.NewMongoStore(client, cfg.DBName), nil
	}
}
