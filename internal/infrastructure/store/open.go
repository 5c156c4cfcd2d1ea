package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	mgo "go.mongodb.org/mongo-driver/mongo"

	"github.com/oksasatya/go-blog-publisher/config"
	repo "github.com/oksasatya/go-blog-publisher/internal/domain/repository"
	"github.com/oksasatya/go-blog-publisher/internal/infrastructure/memory"
	mongoinfra "github.com/oksasatya/go-blog-publisher/internal/infrastructure/mongo"
	pginfra "github.com/oksasatya/go-blog-publisher/internal/infrastructure/postgres"
)

const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"
)

// Stores is the content store selected by STORE_DRIVER. Exactly one of PG
// and Mongo is set for the persistent drivers.
type Stores struct {
	Driver string
	Users  repo.UserRepository
	Blogs  repo.BlogRepository
	PG     *pgxpool.Pool
	Mongo  *mgo.Database

	closeFn func()
}

func (s *Stores) Close() {
	if s != nil && s.closeFn != nil {
		s.closeFn()
	}
}

// Open connects the configured backend. migrate runs the SQL migrations when
// the driver is postgres.
func Open(ctx context.Context, cfg *config.Config, logger *logrus.Logger, migrate bool) (*Stores, error) {
	switch cfg.StoreDriver {
	case DriverPostgres:
		if migrate {
			if err := pginfra.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
				return nil, fmt.Errorf("migrations: %w", err)
			}
		}
		pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), pginfra.PoolOptions{
			MaxConns:    cfg.DBMaxConns,
			MinConns:    cfg.DBMinConns,
			MaxConnLife: cfg.DBMaxConnLife,
		})
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		return &Stores{
			Driver:  DriverPostgres,
			Users:   pginfra.NewUserRepository(pool),
			Blogs:   pginfra.NewBlogRepository(pool),
			PG:      pool,
			closeFn: pool.Close,
		}, nil

	case DriverMongo:
		client, db, err := mongoinfra.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		return &Stores{
			Driver: DriverMongo,
			Users:  mongoinfra.NewUserRepository(db),
			Blogs:  mongoinfra.NewBlogRepository(db),
			Mongo:  db,
			closeFn: func() {
				_ = client.Disconnect(context.Background())
			},
		}, nil

	case DriverMemory:
		if logger != nil {
			logger.Warn("STORE_DRIVER=memory: data is lost on restart")
		}
		return &Stores{
			Driver: DriverMemory,
			Users:  memory.NewUserRepository(),
			Blogs:  memory.NewBlogRepository(),
		}, nil
	}
	return nil, fmt.Errorf("unknown STORE_DRIVER %q (want postgres, mongo or memory)", cfg.StoreDriver)
}
