// Package readcache реализует чтение списков и карточек через кеш (cache-aside).
//
// Ключ карточки: {kind}_{lang}_{id}. Ключ страницы списка содержит поколение
// списка: {kind}_list_{lang}_g{gen}_page_{page}[_q{fingerprint}]. Инвалидация
// увеличивает поколение, поэтому перебор ключей по шаблону не нужен.
package readcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/task-platform/internal/lib/lang"
	"github.com/magabrotheeeer/task-platform/internal/lib/sl"
	"github.com/magabrotheeeer/task-platform/internal/metrics"
)

// Kind пространство имен ключей кеша.
type Kind string

const (
	Profiles      Kind = "profiles"
	AdminProfiles Kind = "admin_profiles"
	Profile       Kind = "profile"
	Tasks         Kind = "tasks"
	AdminTasks    Kind = "admin_tasks"
	Task          Kind = "task"
	AdminUsers    Kind = "admin_users"
)

// DefaultTTL время жизни закешированного ответа.
const DefaultTTL = 60 * time.Second

// Store хранилище сериализованных ответов.
type Store interface {
	GetRaw(ctx context.Context, key string) ([]byte, bool, error)
	SetRaw(ctx context.Context, key string, value []byte, expiration time.Duration) error
	Generation(ctx context.Context, key string) (int64, error)
}

// Loader загружает данные из основного хранилища при промахе кеша.
type Loader func(ctx context.Context) (any, error)

// Service кеширующий слой чтения.
type Service struct {
	store Store
	ttl   time.Duration
	log   *slog.Logger
}

// New создает Service; ttl <= 0 заменяется на DefaultTTL.
func New(store Store, ttl time.Duration, log *slog.Logger) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{store: store, ttl: ttl, log: log}
}

// DetailKey ключ карточки сущности.
func DetailKey(kind Kind, l lang.Lang, id uuid.UUID) string {
	return fmt.Sprintf("%s_%s_%s", kind, l, id)
}

// GenerationKey ключ счетчика поколений списка.
func GenerationKey(kind Kind, l lang.Lang) string {
	return fmt.Sprintf("%s_list_%s_gen", kind, l)
}

// ListKey ключ страницы списка.
func ListKey(kind Kind, l lang.Lang, gen int64, page int, query any) string {
	key := fmt.Sprintf("%s_list_%s_g%d_page_%d", kind, l, gen, page)
	if fp := Fingerprint(query); fp != "" {
		key += "_q" + fp
	}
	return key
}

// Fingerprint короткий хеш фильтров, сортировки и области списка.
// Пустой запрос дает пустую строку.
func Fingerprint(query any) string {
	if query == nil {
		return ""
	}
	data, err := json.Marshal(query)
	if err != nil || string(data) == "{}" || string(data) == "null" {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])[:16]
}

// List возвращает страницу списка из кеша или загружает ее.
func (s *Service) List(ctx context.Context, kind Kind, l lang.Lang, page int, query any, load Loader) (json.RawMessage, error) {
	gen, err := s.store.Generation(ctx, GenerationKey(kind, l))
	if err != nil {
		s.log.Warn("failed to read list generation, bypassing cache",
			slog.String("kind", string(kind)), sl.Err(err))
		return s.loadAndMarshal(ctx, load)
	}
	return s.Fetch(ctx, kind, ListKey(kind, l, gen, page, query), load)
}

// Detail возвращает карточку из кеша или загружает ее.
func (s *Service) Detail(ctx context.Context, kind Kind, l lang.Lang, id uuid.UUID, load Loader) (json.RawMessage, error) {
	return s.Fetch(ctx, kind, DetailKey(kind, l, id), load)
}

// Fetch возвращает сохраненные байты по ключу без обращения к load; при промахе
// вызывает load, сериализует результат один раз, сохраняет с TTL и возвращает.
// Ошибки кеша не прерывают чтение.
func (s *Service) Fetch(ctx context.Context, kind Kind, key string, load Loader) (json.RawMessage, error) {
	const op = "readcache.Fetch"
	log := s.log.With(slog.String("op", op), slog.String("key", key))

	cached, found, err := s.store.GetRaw(ctx, key)
	if err != nil {
		log.Warn("cache read failed, treating as miss", sl.Err(err))
	}
	if found {
		metrics.CacheHits.WithLabelValues(string(kind)).Inc()
		log.Debug("cache hit")
		return json.RawMessage(cached), nil
	}
	metrics.CacheMisses.WithLabelValues(string(kind)).Inc()

	data, err := s.loadAndMarshal(ctx, load)
	if err != nil {
		return nil, err
	}
	if err := s.store.SetRaw(ctx, key, data, s.ttl); err != nil {
		log.Warn("failed to store response in cache", sl.Err(err))
	}
	return data, nil
}

func (s *Service) loadAndMarshal(ctx context.Context, load Loader) (json.RawMessage, error) {
	const op = "readcache.load"
	v, err := load(ctx)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return data, nil
}
