// Package notifier запускает воркер писем о проверке ответов.
package notifier

import (
	"context"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/task-platform/internal/config"
	"github.com/magabrotheeeer/task-platform/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/task-platform/internal/lib/sl"
	"github.com/magabrotheeeer/task-platform/internal/lib/smtp"
	"github.com/magabrotheeeer/task-platform/internal/services/notification"
	"github.com/magabrotheeeer/task-platform/internal/storage/repository"
)

const (
	dbReadyAttempts = 10
	dbReadyDelay    = 3 * time.Second
)

// App потребитель очереди submission.reviewed.
type App struct {
	conn    *amqp.Connection
	ch      *amqp.Channel
	db      *repository.Storage
	service *notification.Service
	logger  *slog.Logger
}

// New подключается к базе и брокеру и объявляет очереди.
func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err := repository.WaitReady(db, dbReadyAttempts, dbReadyDelay); err != nil {
		_ = db.Close()
		return nil, err
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
	if err != nil {
		_ = conn.Close()
		_ = db.Close()
		return nil, err
	}

	transport := smtp.NewTransport(cfg.SMTP, logger)
	return &App{
		conn:    conn,
		ch:      ch,
		db:      db,
		service: notification.New(db, transport, logger),
		logger:  logger,
	}, nil
}

// Run читает очередь до отмены ctx.
func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumerMessage(ctx, a.logger, a.ch, rabbitmq.SubmissionReviewedQueue, a.service.HandleSubmissionReviewed)
	if err != nil {
		a.logger.Error("failed to start consumer", slog.String("queue", rabbitmq.SubmissionReviewedQueue), sl.Err(err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("notifier shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", sl.Err(err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", sl.Err(err))
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close database", sl.Err(err))
	}
	return nil
}
