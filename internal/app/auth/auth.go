// Package auth запускает gRPC-сервис идентификации.
package auth

import (
	"context"
	"log/slog"
	"time"
	"net"

	"google.golang.org/grpc"

	"github.com/magabrotheeeer/task-platform/internal/config"
	"github.com/magabrotheeeer/task-platform/internal/grpc/authpb"
	"github.com/magabrotheeeer/task-platform/internal/grpc/server"
	"github.com/magabrotheeeer/task-platform/internal/lib/jwt"
	"github.com/magabrotheeeer/task-platform/internal/lib/sl"
	authservice "github.com/magabrotheeeer/task-platform/internal/services/auth"
	"github.com/magabrotheeeer/task-platform/internal/storage/repository"
)

const (
	dbReadyAttempts = 10
	dbReadyDelay    = 3 * time.Second
)

// App gRPC-сервер входа, проверки и отзыва токенов.
type App struct {
	grpcServer *grpc.Server
	listener   net.Listener
	db         *repository.Storage
	logger     *slog.Logger
}

// New подключается к базе и открывает порт сервиса.
func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}

	if err := repository.WaitReady(db, dbReadyAttempts, dbReadyDelay); err != nil {
		_ = db.Close()
		return nil, err
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	authService := authservice.New(db, jwtMaker, logger)

	lis, err := net.Listen("tcp", cfg.GRPCAuthAddress)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	grpcServer := grpc.NewServer()
	authpb.RegisterAuthServiceServer(grpcServer, server.NewAuthServer(authService, logger))

	return &App{
		grpcServer: grpcServer,
		listener:   lis,
		db:         db,
		logger:     logger,
	}, nil
}

// Run обслуживает запросы до отмены ctx.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("Auth gRPC service listening on", slog.String("address", a.listener.Addr().String()))
		errCh <- a.grpcServer.Serve(a.listener)
	}()

	defer func() {
		if err := a.db.Close(); err != nil {
			a.logger.Error("failed to close database", sl.Err(err))
		}
	}()

	select {
	case <-ctx.Done():
		a.grpcServer.GracefulStop()
		return nil
	case err := <-errCh:
		return err
	}
}
