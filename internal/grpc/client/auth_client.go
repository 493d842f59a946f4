// Package client содержит gRPC-клиент сервиса авторизации для HTTP API.
package client

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	"github.com/magabrotheeeer/task-platform/internal/grpc/authpb"
	"github.com/magabrotheeeer/task-platform/internal/lib/apperr"
	"github.com/magabrotheeeer/task-platform/internal/models"
)

// AuthClient обертка над gRPC-клиентом, возвращающая ошибки приложения.
type AuthClient struct {
	conn   *grpc.ClientConn
	client authpb.AuthServiceClient
}

// NewAuthClient подключается к сервису авторизации по адресу addr.
func NewAuthClient(addr string, opts ...grpc.DialOption) (*AuthClient, error) {
	const op = "client.NewAuthClient"

	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &AuthClient{conn: conn, client: authpb.NewAuthServiceClient(conn)}, nil
}

// Close закрывает соединение.
func (a *AuthClient) Close() error {
	return a.conn.Close()
}

// Login выдает токен по имени и паролю.
func (a *AuthClient) Login(ctx context.Context, username, password string) (token, role string, err error) {
	const op = "client.Login"
	resp, err := a.client.Login(ctx, &authpb.LoginRequest{Username: username, Password: password})
	if err != nil {
		return "", "", fromStatus(op, err)
	}
	return resp.Token, resp.Role, nil
}

// ValidateToken возвращает владельца токена.
func (a *AuthClient) ValidateToken(ctx context.Context, token string) (*models.Principal, error) {
	const op = "client.ValidateToken"
	resp, err := a.client.ValidateToken(ctx, &authpb.ValidateTokenRequest{Token: token})
	if err != nil {
		return nil, fromStatus(op, err)
	}
	userID, err := uuid.Parse(resp.UserID)
	if err != nil || !resp.Valid {
		return nil, apperr.Unauthorized("Given token not valid for any token type")
	}
	return &models.Principal{UserID: userID, Username: resp.Username, Role: resp.Role}, nil
}

// RevokeUserTokens отзывает все токены пользователя.
func (a *AuthClient) RevokeUserTokens(ctx context.Context, userID uuid.UUID) (int64, error) {
	const op = "client.RevokeUserTokens"
	resp, err := a.client.RevokeUserTokens(ctx, &authpb.RevokeUserTokensRequest{UserID: userID.String()})
	if err != nil {
		return 0, fromStatus(op, err)
	}
	return resp.Revoked, nil
}

func fromStatus(op string, err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return fmt.Errorf("%s: %w", op, err)
	}
	switch st.Code() {
	case codes.Unauthenticated:
		return apperr.Unauthorized(st.Message())
	case codes.NotFound:
		return apperr.NotFound(st.Message())
	case codes.InvalidArgument:
		return &apperr.Error{Kind: apperr.ErrValidation, Message: st.Message()}
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
