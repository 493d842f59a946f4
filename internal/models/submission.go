package models

import (
	"time"

	"github.com/google/uuid"
)

// SubmissionStatus статус проверки ответа.
type SubmissionStatus string

const (
	SubmissionWaiting  SubmissionStatus = "WAITING"
	SubmissionAccepted SubmissionStatus = "ACCEPTED"
	SubmissionRejected SubmissionStatus = "REJECTED"
)

// Valid проверяет значение статуса.
func (s SubmissionStatus) Valid() bool {
	switch s {
	case SubmissionWaiting, SubmissionAccepted, SubmissionRejected:
		return true
	}
	return false
}

// Submission ответ пользователя на задание.
type Submission struct {
	ID           uuid.UUID
	TaskID       uuid.UUID
	UserID       uuid.UUID
	Comment      string
	AdminComment string
	Status       SubmissionStatus
	History      []SubmissionHistory
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SubmissionHistory снимок ответа до изменения.
type SubmissionHistory struct {
	ID                   uuid.UUID
	SubmissionID         uuid.UUID
	PreviousComment      string
	PreviousAdminComment string
	PreviousStatus       SubmissionStatus
	ChangedAt            time.Time
}

// SubmissionPatch изменяемые поля ответа, nil означает "не менять".
type SubmissionPatch struct {
	Comment      *string
	AdminComment *string
	Status       *SubmissionStatus
}

// Apply применяет изменения к копии ответа.
func (p SubmissionPatch) Apply(s Submission) Submission {
	if p.Comment != nil {
		s.Comment = *p.Comment
	}
	if p.AdminComment != nil {
		s.AdminComment = *p.AdminComment
	}
	if p.Status != nil {
		s.Status = *p.Status
	}
	return s
}

// Snapshot фиксирует состояние ответа перед изменением.
func (s Submission) Snapshot() SubmissionHistory {
	return SubmissionHistory{
		SubmissionID:         s.ID,
		PreviousComment:      s.Comment,
		PreviousAdminComment: s.AdminComment,
		PreviousStatus:       s.Status,
	}
}

// SubmissionInput комментарий пользователя к заданию.
type SubmissionInput struct {
	Comment *string `json:"comment"`
}

// ReviewInput решение администратора по ответу.
type ReviewInput struct {
	Status       string `json:"status" validate:"required,oneof=WAITING ACCEPTED REJECTED"`
	AdminComment string `json:"admin_comment" validate:"required"`
}

// SubmissionGroup ответы, сгруппированные по заданию.
type SubmissionGroup struct {
	TaskID      uuid.UUID
	Submissions []Submission
}

// SubmissionReviewed событие проверки ответа для воркера уведомлений.
type SubmissionReviewed struct {
	SubmissionID uuid.UUID        `json:"submission_id"`
	TaskID       uuid.UUID        `json:"task_id"`
	UserID       uuid.UUID        `json:"user_id"`
	Status       SubmissionStatus `json:"status"`
	AdminComment string           `json:"admin_comment"`
	ReviewedAt   time.Time        `json:"reviewed_at"`
}
