// Package apperr содержит типизированные ошибки бизнес-уровня и их отображение в HTTP-статусы.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrValidation некорректные входные данные
	ErrValidation = errors.New("validation error")
	// ErrNotFound сущность не найдена
	ErrNotFound = errors.New("not found")
	// ErrForbidden нарушение прав доступа, владения или состояния
	ErrForbidden = errors.New("permission denied")
	// ErrConflict дубликат ответа или привязки профиля
	ErrConflict = errors.New("conflict")
	// ErrUnauthorized отсутствуют или неверны учетные данные
	ErrUnauthorized = errors.New("authentication required")
)

const uniqueViolation = "23505"

// Error ошибка с видом и сообщением для клиента.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// NotFound ошибка отсутствия сущности.
func NotFound(msg string) error {
	return &Error{Kind: ErrNotFound, Message: msg}
}

// Forbidden ошибка доступа.
func Forbidden(msg string) error {
	return &Error{Kind: ErrForbidden, Message: msg}
}

// Conflict ошибка дубликата.
func Conflict(msg string) error {
	return &Error{Kind: ErrConflict, Message: msg}
}

// Unauthorized ошибка аутентификации.
func Unauthorized(msg string) error {
	return &Error{Kind: ErrUnauthorized, Message: msg}
}

// ValidationError ошибки валидации по полям.
type ValidationError struct {
	Fields map[string]string
}

// Validation создает ошибку валидации для одного поля.
func Validation(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// Add добавляет сообщение для поля.
func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[field] = msg
}

// Empty сообщает, что ошибок нет.
func (e *ValidationError) Empty() bool {
	return len(e.Fields) == 0
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return strings.Join(parts, ", ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// IsUniqueViolation проверяет, что ошибка пришла от нарушения уникального ограничения postgres.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// Status сопоставляет ошибку с HTTP-статусом.
func Status(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict), IsUniqueViolation(err):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Message возвращает текст ошибки, безопасный для клиента.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr.Error()
	}
	switch Status(err) {
	case http.StatusNotFound:
		return "Not found."
	case http.StatusConflict:
		return "Conflict."
	case http.StatusForbidden:
		return "You do not have permission to perform this action."
	case http.StatusUnauthorized:
		return "Authentication credentials were not provided."
	default:
		return "internal error"
	}
}
