// Package pagination проверяет результат постраничной выборки.
package pagination

import (
	"github.com/magabrotheeeer/task-platform/internal/lib/apperr"
	"github.com/magabrotheeeer/task-platform/internal/models"
)

// InvalidPage сообщение о несуществующей странице.
const InvalidPage = "Invalid page."

// Check возвращает NotFound с сообщением emptyMsg для пустой выборки
// и NotFound "Invalid page." для страницы за пределами выборки.
func Check(count int, p models.Pager, emptyMsg string) error {
	if count == 0 {
		return apperr.NotFound(emptyMsg)
	}
	if p.Number < 1 || p.Number > p.LastPage(count) {
		return apperr.NotFound(InvalidPage)
	}
	return nil
}

// Slice возвращает элементы страницы p из полного набора items.
func Slice[T any](items []T, p models.Pager) []T {
	start := p.Offset()
	if start >= len(items) || start < 0 {
		return nil
	}
	end := start + p.Size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
