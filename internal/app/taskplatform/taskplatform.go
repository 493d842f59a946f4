package taskplatform

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/task-platform/internal/cache"
	"github.com/magabrotheeeer/task-platform/internal/config"
	"github.com/magabrotheeeer/task-platform/internal/grpc/client"
	"github.com/magabrotheeeer/task-platform/internal/http/handlers/health"
	"github.com/magabrotheeeer/task-platform/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/task-platform/internal/lib/sl"
	"github.com/magabrotheeeer/task-platform/internal/migrations"
	"github.com/magabrotheeeer/task-platform/internal/services/actionlog"
	"github.com/magabrotheeeer/task-platform/internal/services/invalidator"
	"github.com/magabrotheeeer/task-platform/internal/services/profile"
	"github.com/magabrotheeeer/task-platform/internal/services/readcache"
	"github.com/magabrotheeeer/task-platform/internal/services/submission"
	"github.com/magabrotheeeer/task-platform/internal/services/task"
	"github.com/magabrotheeeer/task-platform/internal/services/user"
	"github.com/magabrotheeeer/task-platform/internal/storage/filestore"
	"github.com/magabrotheeeer/task-platform/internal/storage/repository"
)

// App HTTP API со всеми зависимостями.
type App struct {
	server     *http.Server
	logger     *slog.Logger
	db         *repository.Storage
	cache      *cache.Cache
	authClient *client.AuthClient
	amqpConn   *amqp.Connection
	publisher  *rabbitmq.Publisher
}

// New подключает хранилища, применяет миграции и собирает маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "taskplatform.New"

	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		_ = db.Close()
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	files, err := filestore.New(cfg.Files.Dir)
	if err != nil {
		_ = db.Close()
		_ = cacheRedis.Close()
		return nil, err
	}

	authClient, err := client.NewAuthClient(cfg.GRPCAuthAddress)
	if err != nil {
		_ = db.Close()
		_ = cacheRedis.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	app := &App{
		logger:     logger,
		db:         db,
		cache:      cacheRedis,
		authClient: authClient,
	}

	var publisher submission.Publisher
	if cfg.RabbitMQURL != "" {
		if err := app.connectBroker(cfg.RabbitMQ); err != nil {
			app.close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		publisher = app.publisher
	} else {
		logger.Warn("rabbitmq url is empty, review notifications are disabled")
	}

	reads := readcache.New(cacheRedis, cfg.Cache.TTL, logger)
	inv := invalidator.New(cacheRedis, logger)
	audit := actionlog.NewRecorder(db, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, Deps{
		Auth:        authClient,
		Profiles:    profile.New(db, files, reads, inv, audit, cfg.Files, logger),
		Tasks:       task.New(db, reads, inv, audit, logger),
		Submissions: submission.New(db, inv, audit, publisher, logger),
		Users:       user.New(db, authClient, reads, inv, logger),
		Health:      map[string]health.Checker{"postgres": db, "redis": cacheRedis},
		MediaDir:    files.Dir(),
		PageSize:    cfg.PageSize,
		RateLimit:   cfg.RateLimit,
	})

	app.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return app, nil
}

func (a *App) connectBroker(cfg config.RabbitMQ) error {
	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return err
	}
	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
	if err != nil {
		_ = conn.Close()
		return err
	}
	a.amqpConn = conn
	a.publisher = rabbitmq.NewPublisher(ch)
	return nil
}

// Run запускает HTTP-сервер и останавливает его по отмене ctx.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

func (a *App) close() {
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Error("failed to close amqp channel", sl.Err(err))
		}
	}
	if a.amqpConn != nil {
		if err := a.amqpConn.Close(); err != nil {
			a.logger.Error("failed to close amqp connection", sl.Err(err))
		}
	}
	if err := a.authClient.Close(); err != nil {
		a.logger.Error("failed to close auth client", sl.Err(err))
	}
	if err := a.cache.Close(); err != nil {
		a.logger.Error("failed to close redis", sl.Err(err))
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close database", sl.Err(err))
	}
}
