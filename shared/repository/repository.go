// Package repository provides a generic sqlx table gateway driven by struct tags.
//
// Fields tagged `db` are selected and inserted. A `table` tag moves the column
// to a joined table and `column` renames it there, the struct field keeping the
// `db` name as its alias. Models that need joins implement Joiner.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"maps"
	"reflect"
	"shareit/infras/otel"
	"shareit/infras/postgres"
	"shareit/shared/constant"
	"shareit/shared/dto"
	"shareit/shared/logger"
	"slices"
	"strings"

	"github.com/jmoiron/sqlx"
)

var errRequiredFilter = errors.New("required filter")

// Joiner is implemented by models whose reads need a JOIN clause.
type Joiner interface {
	GetJoinQuery() string
}

type column struct {
	name  string
	table string
	alias string
}

func (c column) expr() string {
	switch {
	case c.table == "":
		return c.name
	case c.alias != "":
		return c.table + "." + c.name + " AS " + c.alias
	default:
		return c.table + "." + c.name
	}
}

type Repository[T any] struct {
	db            *postgres.Connection
	otel          otel.Otel
	table         string
	entitas       string
	columns       []column
	join          string
	InsertColumns []string
}

func NewRepository[T any](entitasName, tableName string, dbConnection *postgres.Connection, otl otel.Otel) Repository[T] {
	var zero T

	columns, insertColumns := getColumns(tableName, reflect.TypeOf(zero))

	join := ""
	if joiner, ok := any(zero).(Joiner); ok {
		join = joiner.GetJoinQuery()
	}

	return Repository[T]{
		db:            dbConnection,
		otel:          otl,
		table:         tableName,
		entitas:       entitasName,
		columns:       columns,
		join:          join,
		InsertColumns: insertColumns,
	}
}

func (repo *Repository[T]) span(ctx context.Context, operation string) (context.Context, otel.Scope) {
	return repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName,
		fmt.Sprintf("%s.%s.%s", constant.OtelRepositoryScopeName, repo.entitas, operation))
}

// fail records err on the scope and wraps it with the action and entity name.
func (repo *Repository[T]) fail(scope otel.Scope, action string, err error) error {
	logger.ErrorWithStack(err)
	scope.TraceError(err)

	return fmt.Errorf("failed to %s (%s): %w", action, repo.entitas, err)
}

// read prepares query on the read pool and scans into dest, a slice pointer when many is set.
func (repo *Repository[T]) read(ctx context.Context, scope otel.Scope, query string, args map[string]any, dest any, many bool) error {
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	stmt, err := repo.db.Read.PrepareNamedContext(ctx, query)
	if err != nil {
		return repo.fail(scope, "prepare statement", err)
	}
	defer stmt.Close()

	if many {
		return stmt.SelectContext(ctx, dest, args) //nolint:wrapcheck
	}

	return stmt.GetContext(ctx, dest, args) //nolint:wrapcheck
}

func (repo *Repository[T]) write(ctx context.Context, scope otel.Scope, query string, arg any) (sql.Result, error) {
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	return sqlx.NamedExecContext(ctx, repo.db.Write, query, arg) //nolint:wrapcheck
}

func (repo *Repository[T]) Insert(ctx context.Context, model T) error {
	ctx, scope := repo.span(ctx, "Insert")
	defer scope.End()

	placeholders := make([]string, len(repo.InsertColumns))
	for i, col := range repo.InsertColumns {
		placeholders[i] = ":" + col
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		repo.table, strings.Join(repo.InsertColumns, ", "), strings.Join(placeholders, ", "))

	if _, err := repo.write(ctx, scope, query, model); err != nil {
		return repo.fail(scope, "insert data", err)
	}

	return nil
}

func (repo *Repository[T]) Exist(ctx context.Context, filter dto.FilterGroup) (bool, error) {
	ctx, scope := repo.span(ctx, "Exist")
	defer scope.End()

	where, args := repo.BuildWhereClause(ctx, filter)
	if where == "" {
		return false, errRequiredFilter
	}

	var exist bool

	query := fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s %s)", repo.table, where)
	if err := repo.read(ctx, scope, query, args, &exist, false); err != nil {
		return false, repo.fail(scope, "check exist data", err)
	}

	return exist, nil
}

// Get returns the first matching row, or the zero value when nothing matches.
func (repo *Repository[T]) Get(ctx context.Context, filter dto.FilterGroup, columns ...string) (T, error) {
	ctx, scope := repo.span(ctx, "Get")
	defer scope.End()

	where, args := repo.BuildWhereClause(ctx, filter)

	var model T

	query := fmt.Sprintf("SELECT %s FROM %s %s %s", repo.selectList(columns), repo.table, repo.join, where)

	err := repo.read(ctx, scope, query, args, &model, false)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return model, nil
	case err != nil:
		return model, repo.fail(scope, "get data", err)
	}

	return model, nil
}

func (repo *Repository[T]) GetAll(ctx context.Context, params dto.QueryParams, filter dto.FilterGroup, columns ...string) ([]T, error) {
	ctx, scope := repo.span(ctx, "GetAll")
	defer scope.End()

	where, args := repo.BuildWhereClause(ctx, filter)

	query := fmt.Sprintf("SELECT %s FROM %s %s %s %s %s",
		repo.selectList(columns), repo.table, repo.join, where, ordering(params), paginate(params, args))

	models := []T{}
	if err := repo.read(ctx, scope, query, args, &models, true); err != nil {
		return models, repo.fail(scope, "get all data", err)
	}

	return models, nil
}

// Delete refuses to run without a filter.
func (repo *Repository[T]) Delete(ctx context.Context, filter dto.FilterGroup) error {
	ctx, scope := repo.span(ctx, "Delete")
	defer scope.End()

	where, args := repo.BuildWhereClause(ctx, filter)
	if where == "" {
		return errRequiredFilter
	}

	if _, err := repo.write(ctx, scope, fmt.Sprintf("DELETE FROM %s %s", repo.table, where), args); err != nil {
		return repo.fail(scope, "delete data", err)
	}

	return nil
}

func (repo *Repository[T]) Update(ctx context.Context, mod map[string]any, filter dto.FilterGroup) error {
	_, err := repo.UpdateAffected(ctx, mod, filter)

	return err
}

// UpdateAffected behaves like Update and reports how many rows matched the filter.
// Callers use it for compare-and-set writes where the filter carries the expected state.
func (repo *Repository[T]) UpdateAffected(ctx context.Context, mod map[string]any, filter dto.FilterGroup) (int64, error) {
	ctx, scope := repo.span(ctx, "Update")
	defer scope.End()

	where, args := repo.BuildWhereClause(ctx, filter)
	if where == "" {
		return 0, errRequiredFilter
	}

	assignments := make([]string, 0, len(mod))
	for _, col := range slices.Sorted(maps.Keys(mod)) {
		assignments = append(assignments, col+" = :"+col)
	}

	maps.Copy(args, mod)

	query := fmt.Sprintf("UPDATE %s SET %s %s", repo.table, strings.Join(assignments, ", "), where)

	result, err := repo.write(ctx, scope, query, args)
	if err != nil {
		return 0, repo.fail(scope, "update data", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, repo.fail(scope, "read affected rows", err)
	}

	return affected, nil
}

// selectList renders the projection, limited to the named columns when any are given.
func (repo *Repository[T]) selectList(only []string) string {
	exprs := make([]string, 0, len(repo.columns))

	for _, col := range repo.columns {
		if len(only) > 0 && !slices.Contains(only, col.name) {
			continue
		}

		exprs = append(exprs, col.expr())
	}

	return strings.Join(exprs, ", ")
}

// BuildWhereClause renders filter as a WHERE clause; an empty filter yields "".
func (repo *Repository[T]) BuildWhereClause(_ context.Context, filter dto.FilterGroup) (string, map[string]any) {
	where, args := filter.GetWhereClause()
	if where == "" {
		return "", map[string]any{}
	}

	return " WHERE " + where + " ", args
}

func ordering(params dto.QueryParams) string {
	if params.SortBy == "" {
		return ""
	}

	direction := params.SortDir
	if direction != dto.SortDirAsc {
		direction = dto.SortDirDesc
	}

	return fmt.Sprintf("ORDER BY %s %s", params.SortBy, direction)
}

// paginate adds the window to args. OFFSET is only valid after LIMIT on every supported engine.
func paginate(params dto.QueryParams, args map[string]any) string {
	if params.Limit <= 0 {
		return ""
	}

	args["limit"] = params.Limit
	if params.Offset <= 0 {
		return "LIMIT :limit"
	}

	args["offset"] = params.Offset

	return "LIMIT :limit OFFSET :offset"
}

// getColumns walks the struct tags, descending into embedded structs such as Metadata.
func getColumns(table string, reflectType reflect.Type) (columns []column, insertColumns []string) {
	for i := range reflectType.NumField() {
		field := reflectType.Field(i)

		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			nested, nestedInsert := getColumns(table, field.Type)
			columns = append(columns, nested...)
			insertColumns = append(insertColumns, nestedInsert...)
		}

		name := field.Tag.Get("db")
		if name == "" {
			continue
		}

		owner := field.Tag.Get("table")
		if owner == "" {
			owner = table
		}

		if owner == table {
			insertColumns = append(insertColumns, name)
		}

		if renamed := field.Tag.Get("column"); renamed != "" {
			columns = append(columns, column{name: renamed, table: owner, alias: name})
		} else {
			columns = append(columns, column{name: name, table: owner})
		}
	}

	return columns, insertColumns
}
