// Package lang описывает поддерживаемые языки ответов (ru и en) и вычисляет
// язык, поля которого нужно исключить из ответа.
package lang

import (
	"fmt"
)

// Lang код языка ответа.
type Lang string

const (
	// RU русский язык
	RU Lang = "ru"
	// EN английский язык
	EN Lang = "en"
)

// All возвращает оба поддерживаемых языка.
func All() []Lang {
	return []Lang{RU, EN}
}

// Parse проверяет код языка из пути запроса.
func Parse(s string) (Lang, error) {
	switch Lang(s) {
	case RU, EN:
		return Lang(s), nil
	default:
		return "", fmt.Errorf("lang.Parse: unsupported language %q", s)
	}
}

// Exclude возвращает второй из двух языков.
func Exclude(l Lang) Lang {
	if l == RU {
		return EN
	}
	return RU
}

// Pick выбирает значение поля для языка l.
func Pick(l Lang, ru, en string) string {
	if l == EN {
		return en
	}
	return ru
}

// Column возвращает имя колонки вида base_{lang}.
func Column(base string, l Lang) string {
	return base + "_" + string(l)
}
