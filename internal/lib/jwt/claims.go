// Package jwt реализует генерацию и парсинг JWT токенов с пользовательскими claim полями.
//
// Каждый токен получает уникальный идентификатор (jti), по которому
// сервис авторизации ведет учет выданных и отозванных токенов.
package jwt

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Maker описывает интерфейс для генерации и парсинга JWT токенов.
type Maker interface {
	// GenerateToken возвращает подписанный токен и его claims
	GenerateToken(username, role, userID string) (string, *CustomClaims, error)
	// ParseToken проверяет подпись и срок действия
	ParseToken(tokenStr string) (*CustomClaims, error)
}

// CustomClaims описывает пользовательские данные, хранящиеся в JWT.
type CustomClaims struct {
	Username             string `json:"username"` // Имя пользователя
	Role                 string `json:"role"`     // Роль пользователя
	UserID               string `json:"user_id"`  // UUID пользователя
	jwt.RegisteredClaims        // ExpiresAt, IssuedAt, ID (jti)
}

// MakerImpl реализует интерфейс Maker с использованием секретного ключа
// и времени жизни токена (TTL).
type MakerImpl struct {
	secretKey string        // Секретный ключ для подписи токенов.
	tokenTTL  time.Duration // Время жизни токена.
}

// NewJWTMaker создаёт новый экземпляр MakerImpl на основе секретного ключа и TTL.
func NewJWTMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}
