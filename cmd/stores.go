package cmd

import (
	"authboiler/internal/config"
	"authboiler/internal/db"
	"authboiler/internal/repository"
	"authboiler/internal/session"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexedwards/scs/v2"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const sessionCleanupInterval = 5 * time.Minute

type stores struct {
	users    repository.Database
	sessions scs.Store
	closers  []func(context.Context) error
}

// openStores connects the user store named by StoreDriver and the session
// store named by SessionStore. On error every handle opened so far is closed.
func openStores(ctx context.Context, logger *zap.SugaredLogger, cfg config.App) (st *stores, err error) {
	st = &stores{}
	defer func() {
		if err != nil {
			_ = st.Close(context.Background())
			st = nil
		}
	}()

	switch cfg.StoreDriver {
	case config.DriverMongo:
		err = st.openMongo(ctx, cfg)
	case config.DriverPostgres:
		err = st.openPostgres(ctx, logger, cfg)
	default:
		err = fmt.Errorf("%w: store %q", config.ErrUnknownDriver, cfg.StoreDriver)
	}
	if err != nil {
		return st, err
	}

	if cfg.SessionStore == config.DriverRedis {
		err = st.openRedis(ctx, cfg.Redis)
	}
	return st, err
}

func (s *stores) openMongo(ctx context.Context, cfg config.App) error {
	mongoDB, err := db.NewMongoDB(ctx, cfg.MongoURI)
	if err != nil {
		return err
	}
	s.closers = append(s.closers, mongoDB.Close)
	s.users = mongoDB

	if cfg.SessionStore != config.DriverMongo {
		return nil
	}

	store := session.NewMongoStore(mongoDB.DB)
	if err := store.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("prepare session collection: %w", err)
	}
	s.sessions = store
	return nil
}

func (s *stores) openPostgres(ctx context.Context, logger *zap.SugaredLogger, cfg config.App) error {
	pgDB, err := db.NewPostgresDB(cfg.PostgresDSN)
	if err != nil {
		return err
	}
	s.closers = append(s.closers, pgDB.Close)
	s.users = pgDB

	if cfg.SessionStore != config.DriverPostgres {
		return nil
	}

	store := session.NewGormStore(logger, pgDB)
	if err := store.Migrate(ctx); err != nil {
		return err
	}
	store.StartCleanup(ctx, sessionCleanupInterval)
	s.sessions = store
	return nil
}

func (s *stores) openRedis(ctx context.Context, cfg config.Redis) error {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	s.closers = append(s.closers, func(context.Context) error {
		return client.Close()
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping redis at %s: %w", cfg.Addr, err)
	}
	s.sessions = session.NewRedisStore(client)
	return nil
}

// Close releases handles in reverse opening order.
func (s *stores) Close(ctx context.Context) error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}
