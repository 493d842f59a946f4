// Package invalidator сбрасывает закешированные ответы после изменения данных.
// Вызывается после фиксации транзакции. Ошибки кеша только логируются.
package invalidator

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/task-platform/internal/lib/lang"
	"github.com/magabrotheeeer/task-platform/internal/lib/sl"
	"github.com/magabrotheeeer/task-platform/internal/metrics"
	"github.com/magabrotheeeer/task-platform/internal/services/readcache"
)

// Store операции кеша, нужные для инвалидации.
type Store interface {
	Delete(ctx context.Context, keys ...string) error
	Bump(ctx context.Context, keys ...string) error
}

// Invalidator знает, какие ключи затрагивает изменение сущности.
type Invalidator struct {
	store Store
	log   *slog.Logger
}

// New создает Invalidator.
func New(store Store, log *slog.Logger) *Invalidator {
	return &Invalidator{store: store, log: log}
}

// Profile сбрасывает карточку профиля на всех языках и списки профилей.
func (i *Invalidator) Profile(ctx context.Context, id uuid.UUID) {
	i.invalidate(ctx, readcache.Profile, detailKeys(readcache.Profile, id),
		listGenerations(readcache.Profiles, readcache.AdminProfiles))
}

// Task сбрасывает карточку задачи, списки задач и связанный профиль,
// так как профиль отображает список своих задач и их количество.
func (i *Invalidator) Task(ctx context.Context, id, profileID uuid.UUID) {
	i.invalidate(ctx, readcache.Task, detailKeys(readcache.Task, id),
		listGenerations(readcache.Tasks, readcache.AdminTasks))
	if profileID != uuid.Nil {
		i.Profile(ctx, profileID)
	}
}

// Users сбрасывает административный список пользователей.
func (i *Invalidator) Users(ctx context.Context) {
	i.invalidate(ctx, readcache.AdminUsers, nil, listGenerations(readcache.AdminUsers))
}

func (i *Invalidator) invalidate(ctx context.Context, kind readcache.Kind, keys, generations []string) {
	const op = "invalidator.invalidate"
	log := i.log.With(slog.String("op", op), slog.String("kind", string(kind)))

	if err := i.store.Delete(ctx, keys...); err != nil {
		log.Warn("failed to delete cached entries", slog.Any("keys", keys), sl.Err(err))
	}
	if err := i.store.Bump(ctx, generations...); err != nil {
		log.Warn("failed to bump list generations", slog.Any("keys", generations), sl.Err(err))
	}
	metrics.Invalidations.WithLabelValues(string(kind)).Inc()
}

func detailKeys(kind readcache.Kind, id uuid.UUID) []string {
	keys := make([]string, 0, len(lang.All()))
	for _, l := range lang.All() {
		keys = append(keys, readcache.DetailKey(kind, l, id))
	}
	return keys
}

func listGenerations(kinds ...readcache.Kind) []string {
	keys := make([]string, 0, len(kinds)*len(lang.All()))
	for _, kind := range kinds {
		for _, l := range lang.All() {
			keys = append(keys, readcache.GenerationKey(kind, l))
		}
	}
	return keys
}
