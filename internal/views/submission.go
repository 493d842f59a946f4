package views

import (
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/task-platform/internal/models"
)

// Submission ответ глазами его автора.
type Submission struct {
	UserID       uuid.UUID               `json:"user_id"`
	Status       models.SubmissionStatus `json:"status"`
	Comment      string                  `json:"comment"`
	AdminComment string                  `json:"admin_comment"`
}

// SubmissionComment результат создания или изменения ответа пользователем.
type SubmissionComment struct {
	Comment string `json:"comment"`
}

// History снимок ответа до изменения.
type History struct {
	ID                   uuid.UUID               `json:"id"`
	ChangedAt            time.Time               `json:"changed_at"`
	PreviousComment      string                  `json:"previous_comment"`
	PreviousAdminComment string                  `json:"previous_admin_comment"`
	PreviousStatus       models.SubmissionStatus `json:"previous_status"`
}

// AdminSubmission ответ с историей изменений для администратора.
type AdminSubmission struct {
	ID            uuid.UUID               `json:"id"`
	UserID        uuid.UUID               `json:"user_id"`
	Status        models.SubmissionStatus `json:"status"`
	Comment       string                  `json:"comment"`
	AdminComment  string                  `json:"admin_comment"`
	ChangeHistory []History               `json:"change_history"`
}

// Review результат проверки ответа администратором.
type Review struct {
	Status       models.SubmissionStatus `json:"status"`
	AdminComment string                  `json:"admin_comment"`
}

// GroupedSubmission ответ внутри группы задания.
type GroupedSubmission struct {
	ID     uuid.UUID               `json:"id"`
	UserID uuid.UUID               `json:"user_id"`
	Status models.SubmissionStatus `json:"status"`
}

// SubmissionGroup ответы одного задания.
type SubmissionGroup struct {
	TaskID      uuid.UUID           `json:"task_id"`
	Submissions []GroupedSubmission `json:"submissions"`
}

// OwnSubmission представление ответа для автора.
func OwnSubmission(s models.Submission) Submission {
	return Submission{
		UserID:       s.UserID,
		Status:       s.Status,
		Comment:      s.Comment,
		AdminComment: s.AdminComment,
	}
}

// Comment представление результата записи комментария.
func Comment(s models.Submission) SubmissionComment {
	return SubmissionComment{Comment: s.Comment}
}

// AdminSubmissionDetail представление ответа для администратора.
func AdminSubmissionDetail(s models.Submission) AdminSubmission {
	return AdminSubmission{
		ID:           s.ID,
		UserID:       s.UserID,
		Status:       s.Status,
		Comment:      s.Comment,
		AdminComment: s.AdminComment,
		ChangeHistory: mapSlice(s.History, func(h models.SubmissionHistory) History {
			return History{
				ID:                   h.ID,
				ChangedAt:            h.ChangedAt,
				PreviousComment:      h.PreviousComment,
				PreviousAdminComment: h.PreviousAdminComment,
				PreviousStatus:       h.PreviousStatus,
			}
		}),
	}
}

// ReviewResult представление решения администратора.
func ReviewResult(s models.Submission) Review {
	return Review{Status: s.Status, AdminComment: s.AdminComment}
}

// SubmissionGroups группы ответов по заданиям.
func SubmissionGroups(groups []models.SubmissionGroup) []SubmissionGroup {
	return mapSlice(groups, func(g models.SubmissionGroup) SubmissionGroup {
		return SubmissionGroup{
			TaskID: g.TaskID,
			Submissions: mapSlice(g.Submissions, func(s models.Submission) GroupedSubmission {
				return GroupedSubmission{ID: s.ID, UserID: s.UserID, Status: s.Status}
			}),
		}
	})
}
