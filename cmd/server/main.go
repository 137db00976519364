// Command server runs the Compound Interest School game-session API.
//
//	@title						Compound Interest School API
//	@version					1.0
//	@description				Game-session service for the compound interest classroom game.
//	@BasePath					/
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/richschool/compound-school/docs"
	"github.com/richschool/compound-school/internal/api"
	"github.com/richschool/compound-school/internal/api/handler"
	"github.com/richschool/compound-school/internal/api/metrics"
	"github.com/richschool/compound-school/internal/content"
	"github.com/richschool/compound-school/internal/core/domain"
	"github.com/richschool/compound-school/internal/core/engine"
	"github.com/richschool/compound-school/internal/core/ports"
	"github.com/richschool/compound-school/internal/core/service"
	"github.com/richschool/compound-school/internal/infrastructure/db/memory"
	mongodb "github.com/richschool/compound-school/internal/infrastructure/db/mongo"
	redisdb "github.com/richschool/compound-school/internal/infrastructure/db/redis"
	"github.com/richschool/compound-school/internal/infrastructure/dice"
	"github.com/richschool/compound-school/internal/infrastructure/export"
	"github.com/richschool/compound-school/internal/infrastructure/janitor"
	"github.com/richschool/compound-school/internal/infrastructure/journal"
	"github.com/richschool/compound-school/internal/infrastructure/queue"
	"github.com/richschool/compound-school/internal/infrastructure/snapshot"
	"github.com/richschool/compound-school/internal/infrastructure/sound"
	"github.com/richschool/compound-school/internal/infrastructure/timer"
	"github.com/richschool/compound-school/internal/pkg/config"
	"github.com/richschool/compound-school/pkg/logger"
)

const (
	shutdownTimeout = 10 * time.Second
	localDedupTTL   = 24 * time.Hour
)

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "compound-school",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
	log.Info().Msg("server stopped")
}

// backends are the storage adapters selected by configuration.
type backends struct {
	repo    ports.SessionRepository
	dedup   ports.CommandDeduper
	journal ports.Journal
	checks  map[string]handler.Check
	closers []io.Closer
}

func (b *backends) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		_ = b.closers[i].Close()
	}
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	pack, err := content.Load(cfg.Game.ContentFile)
	if err != nil {
		return fmt.Errorf("load content: %w", err)
	}

	b, err := openBackends(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer b.Close()

	die, err := dice.NewRandom()
	if err != nil {
		return err
	}

	fontData, err := export.LoadFont(cfg.Game.CertificateFont)
	if err != nil {
		return err
	}
	exporter, err := export.NewPNGExporter(0, fontData)
	if err != nil {
		return err
	}
	if fontData == nil {
		log.Warn().Msg("CERTIFICATE_FONT not set, Korean names will not be drawn on certificates")
	}

	exec := queue.NewDispatcher(cfg.Game.Workers, logger.Component(log, "queue"))
	exec.Start(ctx)
	if err := metrics.RegisterQueueDepth(prometheus.DefaultRegisterer, exec.Pending); err != nil {
		return fmt.Errorf("register queue depth: %w", err)
	}

	sched := timer.NewScheduler()
	defer sched.Stop()

	game := service.NewGameService(service.GameDeps{
		Engine: engine.New(pack, engine.Timings{
			RollLead: cfg.Game.RollLead,
			Step:     cfg.Game.StepDelay,
			Goal:     cfg.Game.GoalDelay,
			Reveal:   cfg.Game.RevealDelay,
		}),
		Repo:      b.repo,
		Codec:     snapshot.NewCodec(domain.BoardSize),
		Sound:     sound.NewOutbox(0),
		Exporter:  exporter,
		Dice:      die,
		Scheduler: sched,
		Executor:  exec,
		Journal:   b.journal,
		Dedup:     b.dedup,
		Observer:  metrics.NewObserver(),
	}, logger.Component(log, "game"))

	jan := janitor.New(ctx, game, cfg.Janitor.IdleTTL, logger.Component(log, "janitor"))
	if err := jan.Register(cfg.Janitor.Schedule); err != nil {
		return err
	}
	jan.Start()
	defer jan.Stop()

	e := api.NewRouter(api.Deps{
		Game:      game,
		Auth:      service.NewAuthService(cfg.JWTSecret, cfg.TeacherPasswordHash, 0),
		JWTSecret: cfg.JWTSecret,
		Checks:    b.checks,
		Log:       logger.Component(log, "http"),
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("store", cfg.Store).Str("journal", cfg.Journal).Msg("server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func openBackends(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*backends, error) {
	b := &backends{checks: make(map[string]handler.Check)}

	var mdb *mongo.Database
	connectMongo := func() (*mongo.Database, error) {
		if mdb != nil {
			return mdb, nil
		}
		client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, closerFunc(func() error { return client.Disconnect(context.Background()) }))
		b.checks["mongodb"] = func(ctx context.Context) error { return client.Ping(ctx, nil) }
		mdb = db
		return db, nil
	}

	switch cfg.Store {
	case config.StoreRedis:
		client, err := redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			b.Close()
			return nil, err
		}
		b.closers = append(b.closers, client)
		b.checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
		b.repo = redisdb.NewSessionRepository(client, cfg.Game.SessionTTL)
		b.dedup = redisdb.NewDedupChecker(client)

	case config.StoreMongo:
		db, err := connectMongo()
		if err != nil {
			b.Close()
			return nil, err
		}
		repo := mongodb.NewSessionRepository(db, cfg.Game.SessionTTL)
		if err := mongodb.EnsureIndexes(ctx, repo); err != nil {
			b.Close()
			return nil, err
		}
		b.repo = repo
		b.dedup = memory.NewDedupChecker(localDedupTTL)

	default:
		log.Warn().Msg("using in-memory session store; sessions are lost on restart")
		b.repo = memory.NewSessionRepository()
		b.dedup = memory.NewDedupChecker(localDedupTTL)
	}

	switch cfg.Journal {
	case config.JournalSQLite:
		j, err := journal.NewSQLiteJournal(cfg.Game.JournalPath, logger.Component(log, "journal"))
		if err != nil {
			b.Close()
			return nil, err
		}
		b.closers = append(b.closers, j)
		b.checks["journal"] = j.Ping
		b.journal = j

	case config.JournalMongo:
		db, err := connectMongo()
		if err != nil {
			b.Close()
			return nil, err
		}
		j := mongodb.NewJournalRepository(db)
		if err := mongodb.EnsureIndexes(ctx, j); err != nil {
			b.Close()
			return nil, err
		}
		b.journal = j

	default:
		b.journal = journal.NewNoopJournal()
	}

	return b, nil
}
