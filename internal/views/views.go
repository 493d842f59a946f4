// Package views содержит представления ответов API: отдельный тип на каждое
// сочетание сущности, языка и роли. В ответ попадают только поля запрошенного
// языка, поля второго языка в типах отсутствуют.
package views

import (
	"github.com/magabrotheeeer/task-platform/internal/models"
)

// MediaPrefix префикс URL, по которому раздаются файлы профилей.
const MediaPrefix = "/media/"

// Page конверт постраничного ответа.
type Page struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  any     `json:"results"`
}

// NewPage собирает конверт страницы со ссылками на соседние страницы.
func NewPage(count int, p models.Pager, results any) Page {
	page := Page{Count: count, Results: results}
	if p.Number < p.LastPage(count) {
		next := p.Link(p.Number + 1)
		page.Next = &next
	}
	if p.Number > 1 {
		prev := p.Link(p.Number - 1)
		page.Previous = &prev
	}
	return page
}

// File ссылка на файл профиля.
type File struct {
	File string `json:"file"`
}

func files(in []models.ProfileFile) []File {
	out := make([]File, 0, len(in))
	for _, f := range in {
		out = append(out, File{File: MediaPrefix + f.Path})
	}
	return out
}

func mapSlice[T, R any](in []T, f func(T) R) []R {
	out := make([]R, 0, len(in))
	for _, v := range in {
		out = append(out, f(v))
	}
	return out
}
