package views

import (
	"github.com/google/uuid"

	"github.com/magabrotheeeer/task-platform/internal/lib/lang"
	"github.com/magabrotheeeer/task-platform/internal/models"
)

type profileRU struct {
	DescriptionRU     string `json:"description_ru"`
	DescriptionRUHTML string `json:"description_ru_html"`
}

type profileEN struct {
	DescriptionEN     string `json:"description_en"`
	DescriptionENHTML string `json:"description_en_html"`
}

// ProfileListRU элемент публичного списка профилей на русском.
type ProfileListRU struct {
	ID uuid.UUID `json:"id"`
	profileRU
	TasksCount int `json:"tasks_count"`
}

// ProfileListEN элемент публичного списка профилей на английском.
type ProfileListEN struct {
	ID uuid.UUID `json:"id"`
	profileEN
	TasksCount int `json:"tasks_count"`
}

// ProfileDetailRU карточка профиля на русском.
type ProfileDetailRU struct {
	ID uuid.UUID `json:"id"`
	profileRU
	Tasks      []uuid.UUID `json:"tasks"`
	TasksCount int         `json:"tasks_count"`
}

// ProfileDetailEN карточка профиля на английском.
type ProfileDetailEN struct {
	ID uuid.UUID `json:"id"`
	profileEN
	Tasks      []uuid.UUID `json:"tasks"`
	TasksCount int         `json:"tasks_count"`
}

// AdminProfileListRU элемент административного списка профилей.
type AdminProfileListRU ProfileListRU

// AdminProfileListEN элемент административного списка профилей.
type AdminProfileListEN ProfileListEN

// AdminProfileDetailRU административная карточка профиля с файлами.
type AdminProfileDetailRU struct {
	ID uuid.UUID `json:"id"`
	profileRU
	Files      []File      `json:"files"`
	Tasks      []uuid.UUID `json:"tasks"`
	TasksCount int         `json:"tasks_count"`
}

// AdminProfileDetailEN административная карточка профиля с файлами.
type AdminProfileDetailEN struct {
	ID uuid.UUID `json:"id"`
	profileEN
	Files      []File      `json:"files"`
	Tasks      []uuid.UUID `json:"tasks"`
	TasksCount int         `json:"tasks_count"`
}

func taskIDs(p models.Profile) []uuid.UUID {
	if p.TaskIDs == nil {
		return []uuid.UUID{}
	}
	return p.TaskIDs
}

func profileListRU(p models.Profile) ProfileListRU {
	return ProfileListRU{
		ID:         p.ID,
		profileRU:  profileRU{DescriptionRU: p.DescriptionRU, DescriptionRUHTML: p.DescriptionRUHTML},
		TasksCount: p.TasksCount,
	}
}

func profileListEN(p models.Profile) ProfileListEN {
	return ProfileListEN{
		ID:         p.ID,
		profileEN:  profileEN{DescriptionEN: p.DescriptionEN, DescriptionENHTML: p.DescriptionENHTML},
		TasksCount: p.TasksCount,
	}
}

// ProfileList публичный список профилей.
func ProfileList(l lang.Lang, ps []models.Profile) any {
	if l == lang.EN {
		return mapSlice(ps, profileListEN)
	}
	return mapSlice(ps, profileListRU)
}

// AdminProfileList административный список профилей.
func AdminProfileList(l lang.Lang, ps []models.Profile) any {
	if l == lang.EN {
		return mapSlice(ps, func(p models.Profile) AdminProfileListEN { return AdminProfileListEN(profileListEN(p)) })
	}
	return mapSlice(ps, func(p models.Profile) AdminProfileListRU { return AdminProfileListRU(profileListRU(p)) })
}

// ProfileDetail публичная карточка профиля.
func ProfileDetail(l lang.Lang, p models.Profile) any {
	if l == lang.EN {
		return ProfileDetailEN{
			ID:         p.ID,
			profileEN:  profileEN{DescriptionEN: p.DescriptionEN, DescriptionENHTML: p.DescriptionENHTML},
			Tasks:      taskIDs(p),
			TasksCount: p.TasksCount,
		}
	}
	return ProfileDetailRU{
		ID:         p.ID,
		profileRU:  profileRU{DescriptionRU: p.DescriptionRU, DescriptionRUHTML: p.DescriptionRUHTML},
		Tasks:      taskIDs(p),
		TasksCount: p.TasksCount,
	}
}

// AdminProfileDetail административная карточка профиля.
func AdminProfileDetail(l lang.Lang, p models.Profile) any {
	if l == lang.EN {
		return AdminProfileDetailEN{
			ID:         p.ID,
			profileEN:  profileEN{DescriptionEN: p.DescriptionEN, DescriptionENHTML: p.DescriptionENHTML},
			Files:      files(p.Files),
			Tasks:      taskIDs(p),
			TasksCount: p.TasksCount,
		}
	}
	return AdminProfileDetailRU{
		ID:         p.ID,
		profileRU:  profileRU{DescriptionRU: p.DescriptionRU, DescriptionRUHTML: p.DescriptionRUHTML},
		Files:      files(p.Files),
		Tasks:      taskIDs(p),
		TasksCount: p.TasksCount,
	}
}
