// Package task содержит бизнес-логику заданий.
package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/task-platform/internal/lib/apperr"
	"github.com/magabrotheeeer/task-platform/internal/lib/lang"
	"github.com/magabrotheeeer/task-platform/internal/lib/markdown"
	"github.com/magabrotheeeer/task-platform/internal/models"
	"github.com/magabrotheeeer/task-platform/internal/services/access"
	"github.com/magabrotheeeer/task-platform/internal/services/pagination"
	"github.com/magabrotheeeer/task-platform/internal/services/readcache"
	"github.com/magabrotheeeer/task-platform/internal/views"
)

// NotFoundList пустой список заданий.
const NotFoundList = "No tasks found matching the given criteria"

const requiredField = "This field is required."

// Repository описывает контракт хранилища заданий.
type Repository interface {
	access.Repository
	ListTasks(ctx context.Context, f models.TaskFilter, p models.Pager) ([]models.Task, int, error)
	GetTask(ctx context.Context, id uuid.UUID) (*models.Task, error)
	CreateTask(ctx context.Context, t models.Task) (uuid.UUID, error)
	UpdateTask(ctx context.Context, t models.Task) error
	DeleteTask(ctx context.Context, id uuid.UUID) (*models.TaskRef, error)
	ProfileExists(ctx context.Context, id uuid.UUID) (bool, error)
}

// ReadCache кеширующий слой чтения.
type ReadCache interface {
	List(ctx context.Context, kind readcache.Kind, l lang.Lang, page int, query any, load readcache.Loader) (json.RawMessage, error)
	Detail(ctx context.Context, kind readcache.Kind, l lang.Lang, id uuid.UUID, load readcache.Loader) (json.RawMessage, error)
}

// Invalidator сбрасывает кеш после изменений.
type Invalidator interface {
	Task(ctx context.Context, id, profileID uuid.UUID)
	Profile(ctx context.Context, id uuid.UUID)
}

// ActionRecorder журнал действий пользователей.
type ActionRecorder interface {
	Recordf(ctx context.Context, userID uuid.UUID, format string, args ...any)
}

// Service бизнес-логика заданий.
type Service struct {
	repo  Repository
	cache ReadCache
	inv   Invalidator
	audit ActionRecorder
	log   *slog.Logger
}

// New создает Service.
func New(repo Repository, cache ReadCache, inv Invalidator, audit ActionRecorder, log *slog.Logger) *Service {
	return &Service{repo: repo, cache: cache, inv: inv, audit: audit, log: log}
}

// ListForProfile публичный список заданий профиля с фильтрами.
func (s *Service) ListForProfile(ctx context.Context, p models.Principal, l lang.Lang, profileID uuid.UUID, f models.TaskFilter, pager models.Pager) (json.RawMessage, error) {
	f.Lang = l
	f.ProfileID = &profileID

	data, err := s.cache.List(ctx, readcache.Tasks, l, pager.Number, f, func(ctx context.Context) (any, error) {
		return s.page(ctx, f, pager, func(ts []models.Task) any { return views.TaskList(l, ts) })
	})
	if err != nil {
		return nil, err
	}
	s.audit.Recordf(ctx, p.UserID, "Viewed tasks list for profile %s", profileID)
	return data, nil
}

// Get публичная карточка задания. Доступна пользователю, назначенному на профиль задания,
// и администратору.
func (s *Service) Get(ctx context.Context, p models.Principal, l lang.Lang, id uuid.UUID) (json.RawMessage, error) {
	if _, err := access.Task(ctx, s.repo, p, id, access.AllowAdmin()); err != nil {
		return nil, err
	}

	data, err := s.cache.Detail(ctx, readcache.Task, l, id, func(ctx context.Context) (any, error) {
		task, err := s.get(ctx, id)
		if err != nil {
			return nil, err
		}
		return views.TaskDetail(l, *task), nil
	})
	if err != nil {
		return nil, err
	}
	s.audit.Recordf(ctx, p.UserID, "Retrieved task %s", id)
	return data, nil
}

// AdminList административный список заданий.
func (s *Service) AdminList(ctx context.Context, l lang.Lang, f models.TaskFilter, pager models.Pager) (json.RawMessage, error) {
	f.Lang = l
	return s.cache.List(ctx, readcache.AdminTasks, l, pager.Number, f, func(ctx context.Context) (any, error) {
		return s.page(ctx, f, pager, func(ts []models.Task) any { return views.AdminTaskList(l, ts) })
	})
}

// AdminGet административная карточка задания.
func (s *Service) AdminGet(ctx context.Context, l lang.Lang, id uuid.UUID) (any, error) {
	task, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return views.AdminTaskDetail(l, *task), nil
}

// Create создает задание в профиле.
func (s *Service) Create(ctx context.Context, l lang.Lang, in models.TaskInput) (any, error) {
	const op = "task.Create"

	verr := &apperr.ValidationError{}
	for field, v := range map[string]*string{
		"profile_id":     in.ProfileID,
		"title_ru":       in.TitleRU,
		"title_en":       in.TitleEN,
		"description_ru": in.DescriptionRU,
		"description_en": in.DescriptionEN,
	} {
		if v == nil {
			verr.Add(field, requiredField)
		}
	}
	if !verr.Empty() {
		return nil, verr
	}

	task := models.Task{ID: uuid.New(), Status: models.TaskAvailable, Type: models.TaskFree}
	if err := s.apply(ctx, &task, in); err != nil {
		return nil, err
	}

	id, err := s.repo.CreateTask(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.inv.Task(ctx, id, task.ProfileID)
	return s.AdminGet(ctx, l, id)
}

// Update изменяет задание; при partial отсутствующие поля не меняются.
func (s *Service) Update(ctx context.Context, l lang.Lang, id uuid.UUID, in models.TaskInput, partial bool) (any, error) {
	const op = "task.Update"

	if !partial {
		verr := &apperr.ValidationError{}
		for field, v := range map[string]*string{
			"title_ru":       in.TitleRU,
			"title_en":       in.TitleEN,
			"description_ru": in.DescriptionRU,
			"description_en": in.DescriptionEN,
		} {
			if v == nil {
				verr.Add(field, requiredField)
			}
		}
		if !verr.Empty() {
			return nil, verr
		}
	}

	current, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	updated := *current
	if err := s.apply(ctx, &updated, in); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateTask(ctx, updated); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.NotFound(access.TaskNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.inv.Task(ctx, id, updated.ProfileID)
	if current.ProfileID != updated.ProfileID {
		s.inv.Profile(ctx, current.ProfileID)
	}
	return s.AdminGet(ctx, l, id)
}

// Delete удаляет задание вместе с ответами на него.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "task.Delete"

	deleted, err := s.repo.DeleteTask(ctx, id)
	if errors.Is(err, apperr.ErrNotFound) {
		return apperr.NotFound(access.TaskNotFound)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.inv.Task(ctx, id, deleted.ProfileID)
	return nil
}

func (s *Service) get(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	const op = "task.get"
	task, err := s.repo.GetTask(ctx, id)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, apperr.NotFound(access.TaskNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return task, nil
}

func (s *Service) page(ctx context.Context, f models.TaskFilter, pager models.Pager, project func([]models.Task) any) (any, error) {
	const op = "task.page"
	tasks, count, err := s.repo.ListTasks(ctx, f, pager)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := pagination.Check(count, pager, NotFoundList); err != nil {
		return nil, err
	}
	return views.NewPage(count, pager, project(tasks)), nil
}

// apply переносит заданные поля ввода в задание, рендерит описания и проверяет профиль.
func (s *Service) apply(ctx context.Context, t *models.Task, in models.TaskInput) error {
	const op = "task.apply"

	if in.ProfileID != nil {
		profileID, err := uuid.Parse(*in.ProfileID)
		if err != nil {
			return apperr.Validation("profile_id", "Must be a valid UUID.")
		}
		exists, err := s.repo.ProfileExists(ctx, profileID)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if !exists {
			return apperr.Validation("profile_id", fmt.Sprintf("Invalid pk %q - object does not exist.", profileID))
		}
		t.ProfileID = profileID
	}
	if in.TitleRU != nil {
		t.TitleRU = *in.TitleRU
	}
	if in.TitleEN != nil {
		t.TitleEN = *in.TitleEN
	}
	if in.Status != nil {
		t.Status = models.TaskStatus(*in.Status)
	}
	if in.Type != nil {
		t.Type = models.TaskType(*in.Type)
	}
	if in.DescriptionRU != nil {
		html, err := markdown.ToHTML(*in.DescriptionRU)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		t.DescriptionRU, t.DescriptionRUHTML = *in.DescriptionRU, html
	}
	if in.DescriptionEN != nil {
		html, err := markdown.ToHTML(*in.DescriptionEN)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		t.DescriptionEN, t.DescriptionENHTML = *in.DescriptionEN, html
	}
	if !t.Status.Valid() {
		return apperr.Validation("status", fmt.Sprintf("%q is not a valid choice.", t.Status))
	}
	if !t.Type.Valid() {
		return apperr.Validation("type", fmt.Sprintf("%q is not a valid choice.", t.Type))
	}
	return nil
}
