// Package request разбирает параметры HTTP-запросов: язык, страницу,
// идентификаторы пути, фильтры строки запроса и тело JSON.
package request

import (
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/task-platform/internal/lib/apperr"
	"github.com/magabrotheeeer/task-platform/internal/lib/lang"
	"github.com/magabrotheeeer/task-platform/internal/models"
	"github.com/magabrotheeeer/task-platform/internal/services/pagination"
)

// Lang язык из пути запроса. Маршрутизатор пропускает только ru и en.
func Lang(r *http.Request) lang.Lang {
	l, err := lang.Parse(chi.URLParam(r, "lang"))
	if err != nil {
		return lang.RU
	}
	return l
}

// Pager номер страницы из ?page и абсолютный адрес запроса для ссылок next/previous.
func Pager(r *http.Request, size int) (models.Pager, error) {
	p := models.Pager{Number: 1, Size: size, URL: absoluteURL(r)}
	if raw := r.URL.Query().Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return p, apperr.NotFound(pagination.InvalidPage)
		}
		p.Number = n
	}
	return p, nil
}

func absoluteURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + r.Host + r.URL.RequestURI()
}

// ID идентификатор из пути. Некорректный UUID не совпадает ни с одной записью.
func ID(r *http.Request, name, notFound string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, apperr.NotFound(notFound)
	}
	return id, nil
}

// Query накапливает ошибки разбора фильтров строки запроса.
type Query struct {
	r    *http.Request
	verr *apperr.ValidationError
}

// NewQuery начинает разбор фильтров запроса.
func NewQuery(r *http.Request) *Query {
	return &Query{r: r, verr: &apperr.ValidationError{}}
}

// String значение фильтра как есть.
func (q *Query) String(name string) string {
	return q.r.URL.Query().Get(name)
}

// Ordering поле сортировки ?ordering.
func (q *Query) Ordering() string {
	return q.String("ordering")
}

// UUID фильтр по идентификатору.
func (q *Query) UUID(name string) *uuid.UUID {
	raw := q.String(name)
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		q.verr.Add(name, "Enter a valid UUID.")
		return nil
	}
	return &id
}

// Count фильтры агрегата: name, name_gte, name_lte.
func (q *Query) Count(name string) models.CountFilter {
	return models.CountFilter{
		Eq:  q.int(name),
		Gte: q.int(name + "_gte"),
		Lte: q.int(name + "_lte"),
	}
}

func (q *Query) int(name string) *int {
	raw := q.String(name)
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		q.verr.Add(name, "Enter a number.")
		return nil
	}
	return &n
}

// Err ошибка валидации, если хотя бы один фильтр не разобран.
func (q *Query) Err() error {
	if q.verr.Empty() {
		return nil
	}
	return q.verr
}

// Enum фильтр по значению перечисления.
func Enum[T ~string](q *Query, name string, valid func(T) bool) *T {
	raw := q.String(name)
	if raw == "" {
		return nil
	}
	v := T(raw)
	if !valid(v) {
		q.verr.Add(name, fmt.Sprintf("Select a valid choice. %s is not one of the available choices.", raw))
		return nil
	}
	return &v
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// Decode читает тело JSON в dst и проверяет теги validate.
func Decode(r *http.Request, dst any) error {
	if err := render.DecodeJSON(r.Body, dst); err != nil {
		return apperr.Validation("detail", "JSON parse error - "+err.Error())
	}
	return Validate(dst)
}

// Validate проверяет структуру и переводит нарушения в ошибки по полям.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	verr := &apperr.ValidationError{}
	for _, fe := range errs {
		verr.Add(fe.Field(), fieldMessage(fe))
	}
	return verr
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "uuid":
		return "Must be a valid UUID."
	case "email":
		return "Enter a valid email address."
	case "oneof":
		return fmt.Sprintf("\"%v\" is not a valid choice.", deref(fe.Value()))
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	default:
		return "Invalid value."
	}
}

func deref(v any) any {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr && !rv.IsNil() {
		return rv.Elem().Interface()
	}
	return v
}
