package repository

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/magabrotheeeer/task-platform/internal/models"
)

// query собирает условия WHERE и HAVING с позиционными параметрами $n.
type query struct {
	where  []string
	having []string
	args   []any
}

func (q *query) arg(v any) string {
	q.args = append(q.args, v)
	return "$" + strconv.Itoa(len(q.args))
}

// Where добавляет условие; %s в cond заменяется параметром со значением v.
func (q *query) Where(cond string, v any) {
	q.where = append(q.where, fmt.Sprintf(cond, q.arg(v)))
}

// Having добавляет условие на агрегат.
func (q *query) Having(cond string, v any) {
	q.having = append(q.having, fmt.Sprintf(cond, q.arg(v)))
}

// Count добавляет условия равно / не меньше / не больше для агрегата expr.
func (q *query) Count(expr string, f models.CountFilter) {
	if f.Eq != nil {
		q.Having(expr+" = %s", *f.Eq)
	}
	if f.Gte != nil {
		q.Having(expr+" >= %s", *f.Gte)
	}
	if f.Lte != nil {
		q.Having(expr+" <= %s", *f.Lte)
	}
}

// Contains добавляет регистронезависимый поиск подстроки.
func (q *query) Contains(column, s string) {
	q.Where(column+" ILIKE %s ESCAPE '\\'", "%"+escapeLike(s)+"%")
}

// WhereSQL возвращает " WHERE ..." или пустую строку.
func (q *query) WhereSQL() string {
	if len(q.where) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(q.where, " AND ")
}

// HavingSQL возвращает " HAVING ..." или пустую строку.
func (q *query) HavingSQL() string {
	if len(q.having) == 0 {
		return ""
	}
	return " HAVING " + strings.Join(q.having, " AND ")
}

// Page добавляет LIMIT и OFFSET страницы.
func (q *query) Page(p models.Pager) string {
	return " LIMIT " + q.arg(p.Size) + " OFFSET " + q.arg(p.Offset())
}

// orderBy строит ORDER BY по полю из белого списка allowed (имя поля -> выражение).
// Префикс "-" означает убывание; неизвестное поле игнорируется. Последним
// ключом всегда идет tiebreak, чтобы страницы были стабильными.
func orderBy(ordering string, allowed map[string]string, fallback, tiebreak string) string {
	field, desc := strings.CutPrefix(strings.TrimSpace(ordering), "-")
	expr, ok := allowed[field]
	if !ok {
		if fallback == "" || fallback == tiebreak {
			return " ORDER BY " + tiebreak
		}
		return " ORDER BY " + fallback + ", " + tiebreak
	}
	dir := ""
	if desc {
		dir = " DESC"
	}
	if expr == tiebreak {
		return " ORDER BY " + expr + dir
	}
	return " ORDER BY " + expr + dir + ", " + tiebreak
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
