package models

import (
	"time"

	"github.com/google/uuid"
)

// TaskStatus статус задания.
type TaskStatus string

const (
	TaskAvailable  TaskStatus = "AVAILABLE"
	TaskInProgress TaskStatus = "IN_PROGRESS"
	TaskDone       TaskStatus = "DONE"
	TaskRework     TaskStatus = "REWORK"
)

// Valid проверяет значение статуса.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskAvailable, TaskInProgress, TaskDone, TaskRework:
		return true
	}
	return false
}

// TaskType тип задания: свободное или конкретное.
type TaskType string

const (
	TaskFree     TaskType = "FREE"
	TaskSpecific TaskType = "SPECIFIC"
)

// Valid проверяет значение типа.
func (t TaskType) Valid() bool {
	return t == TaskFree || t == TaskSpecific
}

// Task задание внутри профиля.
type Task struct {
	ID                uuid.UUID
	ProfileID         uuid.UUID
	TitleRU           string
	TitleEN           string
	DescriptionRU     string
	DescriptionEN     string
	DescriptionRUHTML string
	DescriptionENHTML string
	Status            TaskStatus
	Type              TaskType
	SubmissionsCount  int
	ProfileFiles      []ProfileFile
	CreatedAt         time.Time
}

// TaskInput данные для создания и изменения задания администратором.
type TaskInput struct {
	ProfileID     *string `json:"profile_id" validate:"omitempty,uuid"`
	TitleRU       *string `json:"title_ru" validate:"omitempty,max=180"`
	TitleEN       *string `json:"title_en" validate:"omitempty,max=180"`
	DescriptionRU *string `json:"description_ru"`
	DescriptionEN *string `json:"description_en"`
	Status        *string `json:"status" validate:"omitempty,oneof=AVAILABLE IN_PROGRESS DONE REWORK"`
	Type          *string `json:"type" validate:"omitempty,oneof=FREE SPECIFIC"`
}

// TaskRef минимальные сведения о задании для проверок доступа.
type TaskRef struct {
	ID        uuid.UUID
	ProfileID uuid.UUID
	Status    TaskStatus
}
