// Package filestore хранит файлы профилей на локальном диске.
// Пути, которые возвращает хранилище, относительны его корня и
// раздаются HTTP-сервером под префиксом /media/.
package filestore

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// Store файловое хранилище с корнем в каталоге base.
type Store struct {
	base string
}

// New создает каталог base при необходимости.
func New(base string) (*Store, error) {
	const op = "filestore.New"
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Store{base: base}, nil
}

// Dir корневой каталог хранилища.
func (s *Store) Dir() string {
	return s.base
}

// Save записывает содержимое файла в profiles/{profileID}/ и возвращает
// относительный путь. Имя файла транслитерируется, к нему добавляется
// короткий суффикс, чтобы одинаковые имена не перезаписывали друг друга.
func (s *Store) Save(profileID uuid.UUID, name string, data []byte) (string, error) {
	const op = "filestore.Save"

	rel := path.Join("profiles", profileID.String(), fileName(name))
	full := filepath.Join(s.base, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return rel, nil
}

// Remove удаляет файлы по относительным путям. Отсутствующие файлы пропускаются.
func (s *Store) Remove(paths ...string) error {
	var errs []error
	for _, rel := range paths {
		full, err := s.resolve(rel)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("filestore.Remove: %w", err)
	}
	return nil
}

// resolve не дает выйти за пределы корня хранилища.
func (s *Store) resolve(rel string) (string, error) {
	clean := path.Clean("/" + rel)
	if clean == "/" {
		return "", fmt.Errorf("invalid path %q", rel)
	}
	return filepath.Join(s.base, filepath.FromSlash(strings.TrimPrefix(clean, "/"))), nil
}

func fileName(name string) string {
	base := filepath.Base(name)
	ext := strings.ToLower(filepath.Ext(base))
	stem := slug.Make(strings.TrimSuffix(base, filepath.Ext(base)))
	if stem == "" {
		stem = "file"
	}
	ext = "." + slug.Make(strings.TrimPrefix(ext, "."))
	if ext == "." {
		ext = ""
	}
	return stem + "-" + uuid.NewString()[:8] + ext
}
