// Package submission реализует жизненный цикл ответов на задания:
// создание автором, изменение с сохранением истории, проверку администратором.
//
// Каждое изменение ответа сначала сохраняет снимок прежнего состояния
// (comment, admin_comment, status) в истории и только затем применяет новые значения,
// все в одной транзакции хранилища.
package submission

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/task-platform/internal/lib/apperr"
	"github.com/magabrotheeeer/task-platform/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/task-platform/internal/lib/sl"
	"github.com/magabrotheeeer/task-platform/internal/models"
	"github.com/magabrotheeeer/task-platform/internal/services/access"
	"github.com/magabrotheeeer/task-platform/internal/services/pagination"
	"github.com/magabrotheeeer/task-platform/internal/views"
)

const (
	// Duplicate повторный ответ на задание
	Duplicate = "The user has already answered the task"
	// TaskDone задание закрыто для новых ответов
	TaskDone = "This task is already completed and cannot be accessed."
	// SubmissionTaskDone задание ответа закрыто для изменений
	SubmissionTaskDone = "The task associated with this submission is already completed and cannot be accessed."
	// NotFound ответ не найден
	NotFound = "No Submission matches the given query."

	requiredField = "This field is required."
)

// Repository описывает контракт хранилища ответов.
type Repository interface {
	access.Repository
	GetUserSubmission(ctx context.Context, userID, taskID uuid.UUID) (*models.Submission, error)
	GetSubmission(ctx context.Context, id uuid.UUID) (*models.Submission, error)
	CreateSubmission(ctx context.Context, s models.Submission) error
	// UpdateSubmission блокирует ответ, сохраняет снимок текущего состояния в истории
	// и записывает результат apply.
	UpdateSubmission(ctx context.Context, id uuid.UUID, apply func(models.Submission) models.Submission) (*models.Submission, error)
	DeleteSubmission(ctx context.Context, id uuid.UUID) (*models.Submission, error)
	ListSubmissions(ctx context.Context, f models.SubmissionFilter) ([]models.Submission, error)
}

// Invalidator сбрасывает кеш задания, у которого изменилось число ответов.
type Invalidator interface {
	Task(ctx context.Context, id, profileID uuid.UUID)
}

// ActionRecorder журнал действий пользователей.
type ActionRecorder interface {
	Recordf(ctx context.Context, userID uuid.UUID, format string, args ...any)
}

// Publisher публикует события для воркера уведомлений.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, event any) error
}

// Service бизнес-логика ответов.
type Service struct {
	repo      Repository
	inv       Invalidator
	audit     ActionRecorder
	publisher Publisher
	log       *slog.Logger
	now       func() time.Time
}

// New создает Service. publisher может быть nil: тогда события не публикуются.
func New(repo Repository, inv Invalidator, audit ActionRecorder, publisher Publisher, log *slog.Logger) *Service {
	return &Service{repo: repo, inv: inv, audit: audit, publisher: publisher, log: log, now: time.Now}
}

// GetOwn возвращает ответ пользователя на задание. Доступен и для закрытого задания.
func (s *Service) GetOwn(ctx context.Context, p models.Principal, taskID uuid.UUID) (views.Submission, error) {
	if _, err := access.Task(ctx, s.repo, p, taskID); err != nil {
		return views.Submission{}, err
	}
	sub, err := s.own(ctx, p.UserID, taskID)
	if err != nil {
		return views.Submission{}, err
	}
	s.audit.Recordf(ctx, p.UserID, "Viewed himself submission for task %s", taskID)
	return views.OwnSubmission(*sub), nil
}

// Create создает ответ со статусом WAITING.
func (s *Service) Create(ctx context.Context, p models.Principal, taskID uuid.UUID, in models.SubmissionInput) (views.SubmissionComment, error) {
	const op = "submission.Create"

	if in.Comment == nil {
		return views.SubmissionComment{}, apperr.Validation("comment", requiredField)
	}

	task, err := access.Task(ctx, s.repo, p, taskID)
	if err != nil {
		return views.SubmissionComment{}, err
	}
	if task.Status == models.TaskDone {
		return views.SubmissionComment{}, apperr.Forbidden(TaskDone)
	}

	_, err = s.repo.GetUserSubmission(ctx, p.UserID, taskID)
	switch {
	case err == nil:
		return views.SubmissionComment{}, apperr.Conflict(Duplicate)
	case !errors.Is(err, apperr.ErrNotFound):
		return views.SubmissionComment{}, fmt.Errorf("%s: %w", op, err)
	}

	now := s.now().UTC()
	sub := models.Submission{
		ID:        uuid.New(),
		TaskID:    taskID,
		UserID:    p.UserID,
		Comment:   *in.Comment,
		Status:    models.SubmissionWaiting,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateSubmission(ctx, sub); err != nil {
		if apperr.IsUniqueViolation(err) {
			return views.SubmissionComment{}, apperr.Conflict(Duplicate)
		}
		return views.SubmissionComment{}, fmt.Errorf("%s: %w", op, err)
	}

	s.inv.Task(ctx, taskID, uuid.Nil)
	s.audit.Recordf(ctx, p.UserID, "Created submission for task %s", taskID)
	return views.Comment(sub), nil
}

// Update изменяет комментарий автора. При partial отсутствующий комментарий не меняется.
func (s *Service) Update(ctx context.Context, p models.Principal, taskID uuid.UUID, in models.SubmissionInput, partial bool) (views.SubmissionComment, error) {
	const op = "submission.Update"

	if !partial && in.Comment == nil {
		return views.SubmissionComment{}, apperr.Validation("comment", requiredField)
	}

	task, err := access.Task(ctx, s.repo, p, taskID)
	if err != nil {
		return views.SubmissionComment{}, err
	}
	current, err := s.own(ctx, p.UserID, taskID)
	if err != nil {
		return views.SubmissionComment{}, err
	}
	if task.Status == models.TaskDone {
		return views.SubmissionComment{}, apperr.Forbidden(SubmissionTaskDone)
	}

	patch := models.SubmissionPatch{Comment: in.Comment}
	updated, err := s.repo.UpdateSubmission(ctx, current.ID, patch.Apply)
	if err != nil {
		return views.SubmissionComment{}, fmt.Errorf("%s: %w", op, err)
	}

	s.audit.Recordf(ctx, p.UserID, "Updated submission for task %s", taskID)
	return views.Comment(*updated), nil
}

// AdminGet ответ с полной историей изменений.
func (s *Service) AdminGet(ctx context.Context, id uuid.UUID) (views.AdminSubmission, error) {
	sub, err := s.get(ctx, id)
	if err != nil {
		return views.AdminSubmission{}, err
	}
	return views.AdminSubmissionDetail(*sub), nil
}

// Review меняет статус и комментарий администратора, сохраняя снимок прежнего состояния.
func (s *Service) Review(ctx context.Context, id uuid.UUID, in models.ReviewInput) (views.Review, error) {
	const op = "submission.Review"

	status := models.SubmissionStatus(in.Status)
	verr := &apperr.ValidationError{}
	if !status.Valid() {
		verr.Add("status", fmt.Sprintf("%q is not a valid choice.", in.Status))
	}
	if in.AdminComment == "" {
		verr.Add("admin_comment", requiredField)
	}
	if !verr.Empty() {
		return views.Review{}, verr
	}

	if _, err := s.get(ctx, id); err != nil {
		return views.Review{}, err
	}
	patch := models.SubmissionPatch{Status: &status, AdminComment: &in.AdminComment}
	updated, err := s.repo.UpdateSubmission(ctx, id, patch.Apply)
	if errors.Is(err, apperr.ErrNotFound) {
		return views.Review{}, apperr.NotFound(NotFound)
	}
	if err != nil {
		return views.Review{}, fmt.Errorf("%s: %w", op, err)
	}

	s.publishReviewed(ctx, *updated)
	return views.ReviewResult(*updated), nil
}

// Delete удаляет ответ.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "submission.Delete"

	deleted, err := s.repo.DeleteSubmission(ctx, id)
	if errors.Is(err, apperr.ErrNotFound) {
		return apperr.NotFound(NotFound)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.inv.Task(ctx, deleted.TaskID, uuid.Nil)
	return nil
}

// AdminList ответы, сгруппированные по заданиям; страницы считаются по группам.
func (s *Service) AdminList(ctx context.Context, f models.SubmissionFilter, pager models.Pager) (views.Page, error) {
	const op = "submission.AdminList"

	subs, err := s.repo.ListSubmissions(ctx, f)
	if err != nil {
		return views.Page{}, fmt.Errorf("%s: %w", op, err)
	}
	groups := Group(subs)
	if len(groups) > 0 || pager.Number != 1 {
		if err := pagination.Check(len(groups), pager, pagination.InvalidPage); err != nil {
			return views.Page{}, err
		}
	}
	return views.NewPage(len(groups), pager, views.SubmissionGroups(pagination.Slice(groups, pager))), nil
}

// Group собирает ответы в группы по заданию, сохраняя порядок первого появления задания.
func Group(subs []models.Submission) []models.SubmissionGroup {
	index := make(map[uuid.UUID]int)
	groups := make([]models.SubmissionGroup, 0)
	for _, sub := range subs {
		i, ok := index[sub.TaskID]
		if !ok {
			i = len(groups)
			index[sub.TaskID] = i
			groups = append(groups, models.SubmissionGroup{TaskID: sub.TaskID})
		}
		groups[i].Submissions = append(groups[i].Submissions, sub)
	}
	return groups
}

func (s *Service) own(ctx context.Context, userID, taskID uuid.UUID) (*models.Submission, error) {
	const op = "submission.own"
	sub, err := s.repo.GetUserSubmission(ctx, userID, taskID)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, apperr.NotFound(NotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sub, nil
}

func (s *Service) get(ctx context.Context, id uuid.UUID) (*models.Submission, error) {
	const op = "submission.get"
	sub, err := s.repo.GetSubmission(ctx, id)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, apperr.NotFound(NotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sub, nil
}

func (s *Service) publishReviewed(ctx context.Context, sub models.Submission) {
	if s.publisher == nil {
		return
	}
	event := models.SubmissionReviewed{
		SubmissionID: sub.ID,
		TaskID:       sub.TaskID,
		UserID:       sub.UserID,
		Status:       sub.Status,
		AdminComment: sub.AdminComment,
		ReviewedAt:   s.now().UTC(),
	}
	if err := s.publisher.Publish(ctx, rabbitmq.SubmissionReviewedKey, event); err != nil {
		s.log.Warn("failed to publish review event",
			slog.String("submission_id", sub.ID.String()), sl.Err(err))
	}
}
