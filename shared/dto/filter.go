package dto

import (
	"fmt"
	"maps"
	"reflect"
	"strings"
)

const (
	FilterOperatorEq        = "eq"
	FilterOperatorLike      = "like"
	FilterOperatorIn        = "in"
	FilterOperatorNotEq     = "not_eq"
	FilterOperatorLessEq    = "less_eq"
	FilterOperatorGreaterEq = "greater_eq"
	FilterOperatorLess      = "less"
	FilterOperatorGreater   = "greater"
)

const (
	FilterGroupOperatorAnd = "AND"
	FilterGroupOperatorOr  = "OR"
)

// comparisons maps the binary operators onto their SQL form.
var comparisons = map[string]string{
	FilterOperatorEq:        "=",
	FilterOperatorNotEq:     "!=",
	FilterOperatorLessEq:    "<=",
	FilterOperatorGreaterEq: ">=",
	FilterOperatorLess:      "<",
	FilterOperatorGreater:   ">",
}

// likeEscaper makes the LIKE operand match literally, with backslash as the escape character.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// Filter is a single predicate rendered as a named-parameter clause for sqlx.
// Field and Table are trusted column identifiers; only Value is bound.
type Filter struct {
	ArgName  string
	Field    string
	Value    any
	Operator string `validate:"required,oneof=eq like in not_eq less_eq greater_eq less greater"`
	Table    string
}

func (f *Filter) column() string {
	if f.Table == "" {
		return f.Field
	}

	return f.Table + "." + f.Field
}

func (f *Filter) argName() string {
	if f.ArgName == "" {
		return f.Field
	}

	return f.ArgName
}

// GetWhereClause returns the clause and its bind arguments. Unknown operators yield an empty clause.
func (f *Filter) GetWhereClause() (string, map[string]any) {
	column, name := f.column(), f.argName()

	if symbol, ok := comparisons[f.Operator]; ok {
		return fmt.Sprintf("%s %s :%s", column, symbol, name), map[string]any{name: f.Value}
	}

	switch f.Operator {
	case FilterOperatorLike:
		pattern := "%" + likeEscaper.Replace(fmt.Sprint(f.Value)) + "%"

		return fmt.Sprintf(`LOWER(%s) LIKE LOWER(:%s) ESCAPE '\'`, column, name), map[string]any{name: pattern}
	case FilterOperatorIn:
		return f.inClause(column, name)
	default:
		return "", map[string]any{}
	}
}

// inClause expands a slice into one bind argument per element. A scalar is
// treated as a single-element list and an empty list matches nothing.
func (f *Filter) inClause(column, name string) (string, map[string]any) {
	args := map[string]any{}

	values := reflect.ValueOf(f.Value)
	if kind := values.Kind(); kind != reflect.Slice && kind != reflect.Array {
		args[name] = f.Value

		return fmt.Sprintf("%s IN (:%s)", column, name), args
	}

	if values.Len() == 0 {
		return "1 = 0", args
	}

	placeholders := make([]string, values.Len())

	for idx := range values.Len() {
		key := fmt.Sprintf("%s_%d", name, idx)
		args[key] = values.Index(idx).Interface()
		placeholders[idx] = ":" + key
	}

	return fmt.Sprintf("%s IN (%s)", column, strings.Join(placeholders, ", ")), args
}

// FilterGroup joins Filter and nested FilterGroup values with Operator, AND when unset.
type FilterGroup struct {
	Filters  []any
	Operator string
}

func (f *FilterGroup) GetWhereClause() (string, map[string]any) {
	args := map[string]any{}
	clauses := make([]string, 0, len(f.Filters))

	for _, item := range f.Filters {
		var (
			where string
			arg   map[string]any
		)

		switch typed := item.(type) {
		case Filter:
			where, arg = typed.GetWhereClause()
		case FilterGroup:
			where, arg = typed.GetWhereClause()
		default:
			continue
		}

		if where == "" {
			continue
		}

		clauses = append(clauses, where)
		maps.Copy(args, arg)
	}

	if len(clauses) == 0 {
		return "", args
	}

	operator := f.Operator
	if operator == "" {
		operator = FilterGroupOperatorAnd
	}

	return "(" + strings.Join(clauses, " "+operator+" ") + ")", args
}
