// Package profile содержит бизнес-логику профилей: кешированное чтение
// для пользователей и администраторов, создание и изменение с файлами.
package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/task-platform/internal/config"
	"github.com/magabrotheeeer/task-platform/internal/lib/apperr"
	"github.com/magabrotheeeer/task-platform/internal/lib/lang"
	"github.com/magabrotheeeer/task-platform/internal/lib/markdown"
	"github.com/magabrotheeeer/task-platform/internal/lib/sl"
	"github.com/magabrotheeeer/task-platform/internal/models"
	"github.com/magabrotheeeer/task-platform/internal/services/pagination"
	"github.com/magabrotheeeer/task-platform/internal/services/readcache"
	"github.com/magabrotheeeer/task-platform/internal/views"
)

const (
	// NotFoundList пустой список профилей
	NotFoundList = "Profiles not found"
	// NotFoundDetail профиль не найден
	NotFoundDetail = "No Profile matches the given query."
	requiredField  = "This field is required."
)

// Repository описывает контракт хранилища профилей.
type Repository interface {
	ListProfiles(ctx context.Context, f models.ProfileFilter, p models.Pager) ([]models.Profile, int, error)
	GetProfile(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	CreateProfile(ctx context.Context, p models.Profile, files []models.ProfileFile) (uuid.UUID, error)
	// UpdateProfile сохраняет описания; при replaceFiles заменяет набор файлов
	// и возвращает удаленные записи.
	UpdateProfile(ctx context.Context, p models.Profile, files []models.ProfileFile, replaceFiles bool) ([]models.ProfileFile, error)
	DeleteProfile(ctx context.Context, id uuid.UUID) (*models.Profile, error)
}

// FileStore хранилище содержимого файлов.
type FileStore interface {
	Save(profileID uuid.UUID, name string, data []byte) (string, error)
	Remove(paths ...string) error
}

// ReadCache кеширующий слой чтения.
type ReadCache interface {
	List(ctx context.Context, kind readcache.Kind, l lang.Lang, page int, query any, load readcache.Loader) (json.RawMessage, error)
	Detail(ctx context.Context, kind readcache.Kind, l lang.Lang, id uuid.UUID, load readcache.Loader) (json.RawMessage, error)
}

// Invalidator сбрасывает кеш после изменений.
type Invalidator interface {
	Profile(ctx context.Context, id uuid.UUID)
	Task(ctx context.Context, id, profileID uuid.UUID)
}

// ActionRecorder журнал действий пользователей.
type ActionRecorder interface {
	Record(ctx context.Context, userID uuid.UUID, action string)
	Recordf(ctx context.Context, userID uuid.UUID, format string, args ...any)
}

// Service бизнес-логика профилей.
type Service struct {
	repo   Repository
	files  FileStore
	cache  ReadCache
	inv    Invalidator
	audit  ActionRecorder
	limits config.Files
	log    *slog.Logger
}

// New создает Service.
func New(repo Repository, files FileStore, cache ReadCache, inv Invalidator, audit ActionRecorder, limits config.Files, log *slog.Logger) *Service {
	return &Service{repo: repo, files: files, cache: cache, inv: inv, audit: audit, limits: limits, log: log}
}

// List публичный список профилей.
func (s *Service) List(ctx context.Context, p models.Principal, l lang.Lang, pager models.Pager) (json.RawMessage, error) {
	data, err := s.cache.List(ctx, readcache.Profiles, l, pager.Number, nil, func(ctx context.Context) (any, error) {
		return s.page(ctx, models.ProfileFilter{}, pager, func(ps []models.Profile) any { return views.ProfileList(l, ps) })
	})
	if err != nil {
		return nil, err
	}
	s.audit.Record(ctx, p.UserID, "Viewed profile list")
	return data, nil
}

// Get публичная карточка профиля.
func (s *Service) Get(ctx context.Context, p models.Principal, l lang.Lang, id uuid.UUID) (json.RawMessage, error) {
	data, err := s.cache.Detail(ctx, readcache.Profile, l, id, func(ctx context.Context) (any, error) {
		profile, err := s.get(ctx, id)
		if err != nil {
			return nil, err
		}
		return views.ProfileDetail(l, *profile), nil
	})
	if err != nil {
		return nil, err
	}
	s.audit.Recordf(ctx, p.UserID, "Retrieved profile %s", id)
	return data, nil
}

// AdminList административный список профилей с фильтрами.
func (s *Service) AdminList(ctx context.Context, l lang.Lang, f models.ProfileFilter, pager models.Pager) (json.RawMessage, error) {
	return s.cache.List(ctx, readcache.AdminProfiles, l, pager.Number, f, func(ctx context.Context) (any, error) {
		return s.page(ctx, f, pager, func(ps []models.Profile) any { return views.AdminProfileList(l, ps) })
	})
}

// AdminGet административная карточка профиля, читается мимо кеша.
func (s *Service) AdminGet(ctx context.Context, l lang.Lang, id uuid.UUID) (any, error) {
	profile, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return views.AdminProfileDetail(l, *profile), nil
}

// Create создает профиль вместе с файлами.
func (s *Service) Create(ctx context.Context, l lang.Lang, in models.ProfileInput) (any, error) {
	const op = "profile.Create"

	verr := &apperr.ValidationError{}
	if in.DescriptionRU == nil {
		verr.Add("description_ru", requiredField)
	}
	if in.DescriptionEN == nil {
		verr.Add("description_en", requiredField)
	}
	if !verr.Empty() {
		return nil, verr
	}
	if err := s.validateUploads(in.Files); err != nil {
		return nil, err
	}

	profile := models.Profile{ID: uuid.New()}
	if err := applyDescriptions(&profile, in); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	stored, err := s.store(profile.ID, in.Files)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	id, err := s.repo.CreateProfile(ctx, profile, stored)
	if err != nil {
		s.discard(stored)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.inv.Profile(ctx, id)
	return s.AdminGet(ctx, l, id)
}

// Update изменяет профиль. При partial отсутствующие поля не меняются.
// Переданный набор файлов заменяет прежний целиком: сначала проверяются
// ограничения, затем новые файлы записываются, а старые удаляются после фиксации.
func (s *Service) Update(ctx context.Context, l lang.Lang, id uuid.UUID, in models.ProfileInput, partial bool) (any, error) {
	const op = "profile.Update"

	if !partial {
		verr := &apperr.ValidationError{}
		if in.DescriptionRU == nil {
			verr.Add("description_ru", requiredField)
		}
		if in.DescriptionEN == nil {
			verr.Add("description_en", requiredField)
		}
		if !verr.Empty() {
			return nil, verr
		}
	}

	current, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.ReplaceFiles {
		if err := s.validateUploads(in.Files); err != nil {
			return nil, err
		}
	}

	updated := *current
	if err := applyDescriptions(&updated, in); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var stored []models.ProfileFile
	if in.ReplaceFiles {
		if stored, err = s.store(id, in.Files); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}
	removed, err := s.repo.UpdateProfile(ctx, updated, stored, in.ReplaceFiles)
	if err != nil {
		s.discard(stored)
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.NotFound(NotFoundDetail)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.discard(removed)

	s.inv.Profile(ctx, id)
	if in.ReplaceFiles {
		// карточки заданий содержат файлы профиля
		for _, taskID := range current.TaskIDs {
			s.inv.Task(ctx, taskID, uuid.Nil)
		}
	}
	return s.AdminGet(ctx, l, id)
}

// Delete удаляет профиль, его задания и файлы.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "profile.Delete"

	deleted, err := s.repo.DeleteProfile(ctx, id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return apperr.NotFound(NotFoundDetail)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	s.discard(deleted.Files)

	s.inv.Profile(ctx, id)
	for _, taskID := range deleted.TaskIDs {
		s.inv.Task(ctx, taskID, uuid.Nil)
	}
	return nil
}

func (s *Service) get(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	const op = "profile.get"
	profile, err := s.repo.GetProfile(ctx, id)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, apperr.NotFound(NotFoundDetail)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return profile, nil
}

func (s *Service) page(ctx context.Context, f models.ProfileFilter, pager models.Pager, project func([]models.Profile) any) (any, error) {
	const op = "profile.page"
	profiles, count, err := s.repo.ListProfiles(ctx, f, pager)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := pagination.Check(count, pager, NotFoundList); err != nil {
		return nil, err
	}
	return views.NewPage(count, pager, project(profiles)), nil
}

func (s *Service) validateUploads(files []models.Upload) error {
	if len(files) > s.limits.MaxFiles {
		return apperr.Validation("detail",
			fmt.Sprintf("Total number of files exceeded, maximum is %d", s.limits.MaxFiles))
	}
	for _, f := range files {
		if f.Size > s.limits.MaxFileSize {
			return apperr.Validation("detail",
				fmt.Sprintf("File '%s' size exceeded, maximum size %.1f MB", f.Name, float64(s.limits.MaxFileSize)/(1024*1024)))
		}
	}
	return nil
}

func (s *Service) store(profileID uuid.UUID, uploads []models.Upload) ([]models.ProfileFile, error) {
	stored := make([]models.ProfileFile, 0, len(uploads))
	for _, u := range uploads {
		path, err := s.files.Save(profileID, u.Name, u.Data)
		if err != nil {
			s.discard(stored)
			return nil, err
		}
		stored = append(stored, models.ProfileFile{
			ID:        uuid.New(),
			ProfileID: profileID,
			Path:      path,
			Size:      u.Size,
		})
	}
	return stored, nil
}

// discard удаляет содержимое файлов; ошибка только логируется.
func (s *Service) discard(files []models.ProfileFile) {
	if len(files) == 0 {
		return
	}
	paths := make([]string, 0, len(files))
	for _, f := range files {
		paths = append(paths, f.Path)
	}
	if err := s.files.Remove(paths...); err != nil {
		s.log.Warn("failed to remove profile files", slog.Any("paths", paths), sl.Err(err))
	}
}

func applyDescriptions(p *models.Profile, in models.ProfileInput) error {
	if in.DescriptionRU != nil {
		html, err := markdown.ToHTML(*in.DescriptionRU)
		if err != nil {
			return err
		}
		p.DescriptionRU, p.DescriptionRUHTML = *in.DescriptionRU, html
	}
	if in.DescriptionEN != nil {
		html, err := markdown.ToHTML(*in.DescriptionEN)
		if err != nil {
			return err
		}
		p.DescriptionEN, p.DescriptionENHTML = *in.DescriptionEN, html
	}
	return nil
}
