package cli

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"studyhub/internal/app"
	"studyhub/internal/auth"
	"studyhub/internal/config"
	"studyhub/internal/infra/memory"
	"studyhub/internal/infra/postgres"
	"studyhub/internal/infra/rabbit"
	infraredis "studyhub/internal/infra/redis"
	"studyhub/internal/infra/sqlite"
)

// recordStore is what every storage driver provides.
type recordStore interface {
	app.QuizStore
	app.AttemptStore
	app.ProfileStore
	app.MaterialStore
	auth.CredentialStore
}

// backends is the storage, cache and messaging wiring selected by config.
type backends struct {
	records     recordStore
	quizzes     app.QuizStore
	sessions    app.SessionRepository
	revocations auth.RevocationStore
	notifier    app.AttemptNotifier
	closers     []func()
}

func openBackends(ctx context.Context, cfg config.Config) (*backends, error) {
	b := &backends{}
	records, err := b.openRecords(ctx, cfg)
	if err != nil {
		b.Close()
		return nil, err
	}
	b.records = records

	quizTTL := config.TTLDuration(cfg.Quiz.CacheTTL, time.Minute)
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			b.Close()
			return nil, fmt.Errorf("ping redis: %w", err)
		}
		b.closers = append(b.closers, func() { _ = client.Close() })
		sessionTTL := config.TTLDuration(cfg.Redis.SessionTTL, 2*time.Hour)
		b.quizzes = infraredis.NewCachedQuizStore(client, records, quizTTL)
		b.sessions = infraredis.NewSessionStore(client, sessionTTL)
		b.revocations = infraredis.NewRevocations(client)
	} else {
		b.quizzes = memory.NewCachedQuizStore(records, quizTTL)
		b.sessions = memory.NewSessionStore()
		b.revocations = memory.NewRevocations()
	}

	if cfg.Rabbit.URL != "" {
		publisher, err := rabbit.Dial(cfg.Rabbit.URL, cfg.Rabbit.Exchange)
		if err != nil {
			b.Close()
			return nil, err
		}
		b.closers = append(b.closers, func() { _ = publisher.Close() })
		b.notifier = publisher
	}
	return b, nil
}

func (b *backends) openRecords(ctx context.Context, cfg config.Config) (recordStore, error) {
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return nil, err
		}
		pool, err := postgres.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, pool.Close)
		return postgres.NewStore(pool), nil
	case config.DriverSQLite:
		store, err := sqlite.NewStore(cfg.SQLite.Path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		b.closers = append(b.closers, func() { _ = store.Close() })
		return store, nil
	}
	log.Printf("using in-memory storage; data is lost on exit")
	return memory.NewStore(), nil
}

// Close releases connections in reverse order of opening.
func (b *backends) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
	b.closers = nil
}
