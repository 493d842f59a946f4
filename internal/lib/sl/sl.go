// Package sl общие атрибуты slog.
package sl

import "log/slog"

// Err атрибут "error" с текстом ошибки. Для nil значение пустое,
// чтобы вызов в ветке логирования не мог уронить обработчик.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}
