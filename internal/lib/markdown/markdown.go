// Package markdown рендерит markdown-описания профилей и заданий в HTML.
package markdown

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
)

var md = goldmark.New()

// ToHTML преобразует markdown-текст в HTML.
func ToHTML(src string) (string, error) {
	const op = "markdown.ToHTML"
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return buf.String(), nil
}
