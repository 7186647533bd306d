package storage

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"payportal.backend/internal/config"
	domainRepos "payportal.backend/internal/domain/repositories"
	"payportal.backend/internal/infrastructure/datasources/postgres"
	"payportal.backend/internal/infrastructure/datasources/sqlite"
	"payportal.backend/internal/infrastructure/mongostore"
	"payportal.backend/internal/infrastructure/repositories"
	"payportal.backend/pkg/logger"
)

var (
	openPostgres = postgres.NewConnection
	openSQLite   = sqlite.NewConnection
	connectMongo = mongostore.Connect
)

// Backend bundles the repositories of one configured store
type Backend struct {
	Driver        string
	Users         domainRepos.UserRepository
	Employees     domainRepos.EmployeeRepository
	Payments      domainRepos.PaymentRepository
	Notifications domainRepos.NotificationRepository
	History       domainRepos.HistoryRepository
	UnitOfWork    domainRepos.UnitOfWork

	ping    func(ctx context.Context) error
	migrate func(ctx context.Context) error
	close   func(ctx context.Context) error
}

// Open connects to the store selected by DB_DRIVER
func Open(ctx context.Context, cfg *config.Config) (*Backend, error) {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		db, err := openPostgres(cfg.Database)
		if err != nil {
			return nil, err
		}
		return FromGorm(config.DriverPostgres, db), nil
	case config.DriverSQLite:
		db, err := openSQLite(cfg.Database.SQLitePath)
		if err != nil {
			return nil, err
		}
		return FromGorm(config.DriverSQLite, db), nil
	case config.DriverMongo:
		store, err := connectMongo(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
		if err != nil {
			return nil, err
		}
		return FromMongo(store), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Database.Driver)
	}
}

// FromGorm wires the relational repositories over db
func FromGorm(driver string, db *gorm.DB) *Backend {
	return &Backend{
		Driver:        driver,
		Users:         repositories.NewUserRepository(db),
		Employees:     repositories.NewEmployeeRepository(db),
		Payments:      repositories.NewPaymentRepository(db),
		Notifications: repositories.NewNotificationRepository(db),
		History:       repositories.NewHistoryRepository(db),
		UnitOfWork:    repositories.NewUnitOfWork(db),
		ping: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		migrate: func(ctx context.Context) error {
			return repositories.AutoMigrate(db.WithContext(ctx))
		},
		close: func(context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	}
}

// FromMongo wires the document repositories over store
func FromMongo(store *mongostore.Store) *Backend {
	return &Backend{
		Driver:        config.DriverMongo,
		Users:         store.Users(),
		Employees:     store.Employees(),
		Payments:      store.Payments(),
		Notifications: store.Notifications(),
		History:       store.History(),
		UnitOfWork:    mongostore.UnitOfWork{},
		ping:          store.Ping,
		migrate:       store.EnsureIndexes,
		close:         store.Close,
	}
}

// Ping checks the store is reachable
func (b *Backend) Ping(ctx context.Context) error {
	return b.ping(ctx)
}

// Migrate creates tables or indexes
func (b *Backend) Migrate(ctx context.Context) error {
	if err := b.migrate(ctx); err != nil {
		return fmt.Errorf("failed to migrate %s store: %w", b.Driver, err)
	}
	logger.Info(ctx, "Store migrated", zap.String("driver", b.Driver))
	return nil
}

// Close releases the connection
func (b *Backend) Close(ctx context.Context) error {
	return b.close(ctx)
}
