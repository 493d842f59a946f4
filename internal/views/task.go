package views

import (
	"github.com/google/uuid"

	"github.com/magabrotheeeer/task-platform/internal/lib/lang"
	"github.com/magabrotheeeer/task-platform/internal/models"
)

type taskRU struct {
	TitleRU           string `json:"title_ru"`
	DescriptionRU     string `json:"description_ru"`
	DescriptionRUHTML string `json:"description_ru_html"`
}

type taskEN struct {
	TitleEN           string `json:"title_en"`
	DescriptionEN     string `json:"description_en"`
	DescriptionENHTML string `json:"description_en_html"`
}

// TaskProfile вложенный профиль задания, только файлы.
type TaskProfile struct {
	Files []File `json:"files"`
}

// TaskListRU элемент списка заданий на русском.
type TaskListRU struct {
	ID uuid.UUID `json:"id"`
	taskRU
	Status           models.TaskStatus `json:"status"`
	Type             models.TaskType   `json:"type"`
	SubmissionsCount int               `json:"submissions_count"`
}

// TaskListEN элемент списка заданий на английском.
type TaskListEN struct {
	ID uuid.UUID `json:"id"`
	taskEN
	Status           models.TaskStatus `json:"status"`
	Type             models.TaskType   `json:"type"`
	SubmissionsCount int               `json:"submissions_count"`
}

// TaskDetailRU карточка задания на русском.
type TaskDetailRU struct {
	ID        uuid.UUID `json:"id"`
	ProfileID uuid.UUID `json:"profile_id"`
	taskRU
	Status           models.TaskStatus `json:"status"`
	Type             models.TaskType   `json:"type"`
	SubmissionsCount int               `json:"submissions_count"`
	Profile          TaskProfile       `json:"profile"`
}

// TaskDetailEN карточка задания на английском.
type TaskDetailEN struct {
	ID        uuid.UUID `json:"id"`
	ProfileID uuid.UUID `json:"profile_id"`
	taskEN
	Status           models.TaskStatus `json:"status"`
	Type             models.TaskType   `json:"type"`
	SubmissionsCount int               `json:"submissions_count"`
	Profile          TaskProfile       `json:"profile"`
}

// AdminTaskListRU элемент административного списка заданий.
type AdminTaskListRU TaskListRU

// AdminTaskListEN элемент административного списка заданий.
type AdminTaskListEN TaskListEN

// AdminTaskDetailRU административная карточка задания.
type AdminTaskDetailRU TaskDetailRU

// AdminTaskDetailEN административная карточка задания.
type AdminTaskDetailEN TaskDetailEN

func taskListRU(t models.Task) TaskListRU {
	return TaskListRU{
		ID:               t.ID,
		taskRU:           taskRU{TitleRU: t.TitleRU, DescriptionRU: t.DescriptionRU, DescriptionRUHTML: t.DescriptionRUHTML},
		Status:           t.Status,
		Type:             t.Type,
		SubmissionsCount: t.SubmissionsCount,
	}
}

func taskListEN(t models.Task) TaskListEN {
	return TaskListEN{
		ID:               t.ID,
		taskEN:           taskEN{TitleEN: t.TitleEN, DescriptionEN: t.DescriptionEN, DescriptionENHTML: t.DescriptionENHTML},
		Status:           t.Status,
		Type:             t.Type,
		SubmissionsCount: t.SubmissionsCount,
	}
}

func taskDetailRU(t models.Task) TaskDetailRU {
	return TaskDetailRU{
		ID:               t.ID,
		ProfileID:        t.ProfileID,
		taskRU:           taskRU{TitleRU: t.TitleRU, DescriptionRU: t.DescriptionRU, DescriptionRUHTML: t.DescriptionRUHTML},
		Status:           t.Status,
		Type:             t.Type,
		SubmissionsCount: t.SubmissionsCount,
		Profile:          TaskProfile{Files: files(t.ProfileFiles)},
	}
}

func taskDetailEN(t models.Task) TaskDetailEN {
	return TaskDetailEN{
		ID:               t.ID,
		ProfileID:        t.ProfileID,
		taskEN:           taskEN{TitleEN: t.TitleEN, DescriptionEN: t.DescriptionEN, DescriptionENHTML: t.DescriptionENHTML},
		Status:           t.Status,
		Type:             t.Type,
		SubmissionsCount: t.SubmissionsCount,
		Profile:          TaskProfile{Files: files(t.ProfileFiles)},
	}
}

// TaskList публичный список заданий профиля.
func TaskList(l lang.Lang, ts []models.Task) any {
	if l == lang.EN {
		return mapSlice(ts, taskListEN)
	}
	return mapSlice(ts, taskListRU)
}

// AdminTaskList административный список заданий.
func AdminTaskList(l lang.Lang, ts []models.Task) any {
	if l == lang.EN {
		return mapSlice(ts, func(t models.Task) AdminTaskListEN { return AdminTaskListEN(taskListEN(t)) })
	}
	return mapSlice(ts, func(t models.Task) AdminTaskListRU { return AdminTaskListRU(taskListRU(t)) })
}

// TaskDetail публичная карточка задания.
func TaskDetail(l lang.Lang, t models.Task) any {
	if l == lang.EN {
		return taskDetailEN(t)
	}
	return taskDetailRU(t)
}

// AdminTaskDetail административная карточка задания.
func AdminTaskDetail(l lang.Lang, t models.Task) any {
	if l == lang.EN {
		return AdminTaskDetailEN(taskDetailEN(t))
	}
	return AdminTaskDetailRU(taskDetailRU(t))
}
