package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/01moynul/reboot-golang/internal/config"
	"github.com/01moynul/reboot-golang/internal/database"
	"github.com/01moynul/reboot-golang/internal/events"
	"github.com/01moynul/reboot-golang/internal/store"
	"github.com/01moynul/reboot-golang/internal/store/mongostore"
	"github.com/01moynul/reboot-golang/internal/store/sqlstore"
)

const connectTimeout = 10 * time.Second

// openStore connects to the configured backend and makes sure its indexes or
// tables exist.
func openStore(ctx context.Context, cfg *config.Config) (*store.Store, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if cfg.DBDriver == database.DriverMongo {
		client, err := database.OpenMongo(ctx, cfg.DBURI)
		if err != nil {
			return nil, err
		}
		db := client.Database(cfg.DBName)
		if err := mongostore.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		return mongostore.New(db), nil
	}

	db, err := database.OpenDB(ctx, cfg.DBDriver, cfg.DBURI)
	if err != nil {
		return nil, err
	}
	if err := sqlstore.EnsureSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return sqlstore.New(db), nil
}

// newPublisher returns a Kafka publisher when a broker is configured.
func newPublisher(cfg *config.Config) events.Publisher {
	if cfg.KafkaBroker == "" {
		return events.Nop{}
	}
	return events.NewKafkaPublisher(cfg.KafkaBroker, cfg.KafkaTopic)
}

func describe(cfg *config.Config) string {
	if cfg.DBDriver == database.DriverMongo {
		return fmt.Sprintf("%s/%s", cfg.DBDriver, cfg.DBName)
	}
	return cfg.DBDriver
}
