package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	_ "github.com/protorh/protorh-api/docs"
	"github.com/protorh/protorh-api/internal/api"
	"github.com/protorh/protorh-api/internal/core/policy"
	"github.com/protorh/protorh-api/internal/core/ports"
	"github.com/protorh/protorh-api/internal/core/service"
	"github.com/protorh/protorh-api/internal/infrastructure/config"
	"github.com/protorh/protorh-api/internal/infrastructure/db/memory"
	mongostore "github.com/protorh/protorh-api/internal/infrastructure/db/mongo"
	"github.com/protorh/protorh-api/internal/infrastructure/db/postgres"
	redisstore "github.com/protorh/protorh-api/internal/infrastructure/db/redis"
	"github.com/protorh/protorh-api/internal/infrastructure/http/handlers"
	"github.com/protorh/protorh-api/internal/infrastructure/queue"
	"github.com/protorh/protorh-api/internal/infrastructure/storage"
	"github.com/protorh/protorh-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "protorh: %v\n", err)
		os.Exit(1)
	}
}

type stores struct {
	identities  ports.IdentityRepository
	departments ports.DepartmentRepository
	hrRequests  ports.HRRequestStore
}

func run(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "protorh-api",
		Version: version,
	})

	checks := map[string]handlers.Check{}
	var cleanups []func()
	defer func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}()

	st, err := openStores(ctx, cfg, log, checks, &cleanups)
	if err != nil {
		return err
	}

	var sinks []ports.AuditSink
	if cfg.Mongo.URI != "" {
		client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return err
		}
		cleanups = append(cleanups, func() { _ = client.Disconnect(context.Background()) })
		if err := mongostore.EnsureAuditIndexes(ctx, db); err != nil {
			return err
		}
		sinks = append(sinks, mongostore.NewAuditSink(db))
		checks["mongodb"] = handlers.MongoCheck(db)
	}
	if cfg.AMQP.URL != "" {
		sink, err := queue.DialAMQPSink(cfg.AMQP.URL, cfg.AMQP.Queue)
		if err != nil {
			return err
		}
		cleanups = append(cleanups, func() { _ = sink.Close() })
		sinks = append(sinks, sink)
	}

	var limiter ports.LoginLimiter
	if cfg.Redis.Addr != "" {
		rdb, err := redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		cleanups = append(cleanups, func() { _ = rdb.Close() })
		limiter = redisstore.NewLoginLimiter(rdb, cfg.Login.MaxAttempts, cfg.Login.Window)
		checks["redis"] = handlers.RedisCheck(rdb)
	}

	pictures, err := storage.NewPictureStore(cfg.PictureDir)
	if err != nil {
		return err
	}

	dispatcher := queue.NewDispatcher(cfg.AuditWorkers, sinks, log)
	var audit ports.AuditPublisher
	if len(sinks) > 0 {
		audit = dispatcher
	} else {
		log.Info().Msg("no audit sink configured, audit events disabled")
	}

	engine := policy.NewEngine()
	creds := service.NewCredentialManager(cfg.Salt)
	tokens := service.NewSessionTokenService(cfg.SecretKey, cfg.TokenTTL)

	e := api.NewRouter(api.Deps{
		Log:         log,
		Tokens:      tokens,
		Policy:      engine,
		Auth:        service.NewAuthService(st.identities, creds, tokens, limiter, log),
		Users:       service.NewUserService(st.identities, engine, log),
		Departments: service.NewDepartmentService(st.departments, engine, log),
		HRRequests:  service.NewHRRequestService(st.hrRequests, audit, engine, log),
		Pictures:    service.NewPictureService(st.identities, pictures, engine, log),
		Checks:      checks,
		Production:  !cfg.IsDevelopment(),
	})

	// Audit workers outlive the HTTP server so in-flight mutations still
	// reach the sinks during shutdown.
	workerCtx, stopWorkers := context.WithCancel(context.WithoutCancel(ctx))
	defer stopWorkers()
	dispatcher.Start(workerCtx)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("port", cfg.Port).Str("store", cfg.StoreDriver).Int("audit_sinks", len(sinks)).Msg("protorh api listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := e.Shutdown(shutdownCtx)

		stopWorkers()
		dispatcher.Wait()
		return err
	})

	return g.Wait()
}

func openStores(ctx context.Context, cfg *config.Config, log zerolog.Logger, checks map[string]handlers.Check, cleanups *[]func()) (stores, error) {
	if cfg.StoreDriver == config.StoreDriverMemory {
		log.Warn().Msg("using in-memory store, data is lost on restart")
		identities := memory.NewIdentityRepository()
		return stores{
			identities:  identities,
			departments: memory.NewDepartmentRepository(identities),
			hrRequests:  memory.NewHRRequestStore(),
		}, nil
	}

	db, err := postgres.Connect(ctx, postgres.Config{DSN: cfg.Database.DSN()})
	if err != nil {
		return stores{}, err
	}
	*cleanups = append(*cleanups, func() { _ = db.Close() })

	if err := postgres.EnsureSchema(ctx, db); err != nil {
		return stores{}, err
	}
	checks["postgres"] = handlers.PostgresCheck(db)

	return stores{
		identities:  postgres.NewIdentityRepository(db),
		departments: postgres.NewDepartmentRepository(db),
		hrRequests:  postgres.NewHRRequestStore(db),
	}, nil
}
