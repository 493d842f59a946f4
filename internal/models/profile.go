package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile направление (трек), которому принадлежат задания и назначаются пользователи.
type Profile struct {
	ID                uuid.UUID
	DescriptionRU     string
	DescriptionEN     string
	DescriptionRUHTML string
	DescriptionENHTML string
	TaskIDs           []uuid.UUID
	TasksCount        int
	Files             []ProfileFile
	CreatedAt         time.Time
}

// ProfileFile файл, прикрепленный к профилю.
type ProfileFile struct {
	ID         uuid.UUID
	ProfileID  uuid.UUID
	Path       string // путь относительно корня файлового хранилища
	Size       int64
	UploadedAt time.Time
}

// Upload загружаемый файл профиля.
type Upload struct {
	Name string
	Size int64
	Data []byte
}

// ProfileInput данные для создания и изменения профиля.
type ProfileInput struct {
	DescriptionRU *string  `json:"description_ru" validate:"omitempty"`
	DescriptionEN *string  `json:"description_en" validate:"omitempty"`
	Files         []Upload `json:"-"`
	// ReplaceFiles заменить набор файлов (передано поле uploaded_files)
	ReplaceFiles  bool     `json:"-"`
}
