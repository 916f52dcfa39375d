package postgres

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/landsurveyors/directory-api/internal/core/domain"
)

// Fields maps column names to values for INSERT and UPDATE. Columns are
// emitted in sorted order so generated SQL is stable.
type Fields map[string]any

func (f Fields) split(t Table) (cols []string, vals []any, err error) {
	if len(f) == 0 {
		return nil, nil, errors.New("no fields given")
	}
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		q, err := t.column(k)
		if err != nil {
			return nil, nil, err
		}
		cols = append(cols, q)
		vals = append(vals, f[k])
	}
	return cols, vals, nil
}

// Condition is an equality predicate on a column.
type Condition struct {
	Column string
	Value  any
}

// Order sorts by a column.
type Order struct {
	Column string
	Desc   bool
}

// PageOptions narrows a Paginate query. Conditions are AND-ed.
type PageOptions struct {
	Where   []Condition
	OrderBy []Order
	Columns []string
}

// BatchResult reports the outcome of BatchInsert. InsertID is the first
// generated id for tables with an id column and nil otherwise.
type BatchResult struct {
	AffectedRows int64
	InsertID     *int64
}

// FindByID returns the row with the given primary key, or nil when none
// matches.
func FindByID[T any](ctx context.Context, pool Pool, t Table, id int64) (*T, error) {
	return withConn(ctx, pool, func(c Conn) (*T, error) {
		return findByID[T](ctx, c, t, id, nil)
	})
}

// FindByField returns every row whose field equals value. No match yields an
// empty slice.
func FindByField[T any](ctx context.Context, pool Pool, t Table, field string, value any) ([]T, error) {
	return withConn(ctx, pool, func(c Conn) ([]T, error) {
		return findByField[T](ctx, c, t, field, value, nil)
	})
}

// FindAll returns every row of t in the given order.
func FindAll[T any](ctx context.Context, pool Pool, t Table, orderBy ...Order) ([]T, error) {
	return withConn(ctx, pool, func(c Conn) ([]T, error) {
		return findAll[T](ctx, c, t, orderBy)
	})
}

// Insert adds one row and returns its generated id.
func Insert(ctx context.Context, pool Pool, t Table, fields Fields) (int64, error) {
	return withConn(ctx, pool, func(c Conn) (int64, error) {
		return insert(ctx, c, t, fields)
	})
}

// UpdateByID updates the row with the given id and returns the number of
// affected rows. Zero means no such row.
func UpdateByID(ctx context.Context, pool Pool, t Table, id int64, fields Fields) (int64, error) {
	return withConn(ctx, pool, func(c Conn) (int64, error) {
		return updateByID(ctx, c, t, id, fields)
	})
}

// DeleteByID deletes the row with the given id and returns the number of
// affected rows.
func DeleteByID(ctx context.Context, pool Pool, t Table, id int64) (int64, error) {
	return withConn(ctx, pool, func(c Conn) (int64, error) {
		return deleteByField(ctx, c, t, "id", id)
	})
}

// ExistsByField reports whether at least one row has field equal to value.
func ExistsByField(ctx context.Context, pool Pool, t Table, field string, value any) (bool, error) {
	return withConn(ctx, pool, func(c Conn) (bool, error) {
		return existsByField(ctx, c, t, field, value)
	})
}

// Paginate counts the rows matching opts.Where and returns one page of them.
// page and limit are not clamped; values below 1 or an OFFSET that would
// overflow are rejected with a validation error before any statement runs.
func Paginate[T any](ctx context.Context, pool Pool, t Table, page, limit int, opts PageOptions) (*domain.Page[T], error) {
	return withConn(ctx, pool, func(c Conn) (*domain.Page[T], error) {
		return paginate[T](ctx, c, t, page, limit, opts)
	})
}

// BatchInsert writes all rows in one multi-row INSERT. An empty rows slice
// returns immediately without touching the pool.
func BatchInsert(ctx context.Context, pool Pool, t Table, columns []string, rows [][]any) (BatchResult, error) {
	if len(rows) == 0 {
		return BatchResult{}, nil
	}
	return withConn(ctx, pool, func(c Conn) (BatchResult, error) {
		return batchInsert(ctx, c, t, columns, rows)
	})
}

// --- statement builders shared with transactional code ---

func findByID[T any](ctx context.Context, q Querier, t Table, id int64, cols []string) (*T, error) {
	rows, err := findByField[T](ctx, q, t, "id", id, cols)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func findByField[T any](ctx context.Context, q Querier, t Table, field string, value any, cols []string) ([]T, error) {
	list, err := t.columnList(cols)
	if err != nil {
		return nil, err
	}
	col, err := t.column(field)
	if err != nil {
		return nil, err
	}
	sql := "SELECT " + list + " FROM " + t.ident() + " WHERE " + col + " = $1"
	return collect[T](ctx, q, sql, value)
}

func findAll[T any](ctx context.Context, q Querier, t Table, orderBy []Order) ([]T, error) {
	list, err := t.columnList(nil)
	if err != nil {
		return nil, err
	}
	order, err := orderClause(t, orderBy)
	if err != nil {
		return nil, err
	}
	return collect[T](ctx, q, "SELECT "+list+" FROM "+t.ident()+order)
}

func insert(ctx context.Context, q Querier, t Table, fields Fields) (int64, error) {
	if !t.hasID() {
		return 0, fmt.Errorf("insert %s: table has no id column", t)
	}
	cols, vals, err := fields.split(t)
	if err != nil {
		return 0, err
	}
	sql := "INSERT INTO " + t.ident() + " (" + strings.Join(cols, ", ") + ") VALUES (" +
		placeholders(1, len(vals)) + ") RETURNING id"

	var id int64
	if err := q.QueryRow(ctx, sql, vals...).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert %s: %w", t, err)
	}
	return id, nil
}

func updateByID(ctx context.Context, q Querier, t Table, id int64, fields Fields) (int64, error) {
	cols, vals, err := fields.split(t)
	if err != nil {
		return 0, err
	}
	sets := make([]string, len(cols))
	for i, c := range cols {
		sets[i] = c + " = $" + strconv.Itoa(i+1)
	}
	sql := "UPDATE " + t.ident() + " SET " + strings.Join(sets, ", ") +
		" WHERE id = $" + strconv.Itoa(len(vals)+1)

	tag, err := q.Exec(ctx, sql, append(vals, id)...)
	if err != nil {
		return 0, fmt.Errorf("update %s: %w", t, err)
	}
	return tag.RowsAffected(), nil
}

func deleteByField(ctx context.Context, q Querier, t Table, field string, value any) (int64, error) {
	col, err := t.column(field)
	if err != nil {
		return 0, err
	}
	tag, err := q.Exec(ctx, "DELETE FROM "+t.ident()+" WHERE "+col+" = $1", value)
	if err != nil {
		return 0, fmt.Errorf("delete %s: %w", t, err)
	}
	return tag.RowsAffected(), nil
}

func existsByField(ctx context.Context, q Querier, t Table, field string, value any) (bool, error) {
	col, err := t.column(field)
	if err != nil {
		return false, err
	}
	var one int
	err = q.QueryRow(ctx, "SELECT 1 FROM "+t.ident()+" WHERE "+col+" = $1 LIMIT 1", value).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("exists %s: %w", t, err)
	}
	return true, nil
}

func paginate[T any](ctx context.Context, q Querier, t Table, page, limit int, opts PageOptions) (*domain.Page[T], error) {
	if err := checkPageBounds(page, limit); err != nil {
		return nil, err
	}
	list, err := t.columnList(opts.Columns)
	if err != nil {
		return nil, err
	}
	where, args, err := whereClause(t, opts.Where)
	if err != nil {
		return nil, err
	}
	order, err := orderClause(t, opts.OrderBy)
	if err != nil {
		return nil, err
	}

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM "+t.ident()+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count %s: %w", t, err)
	}

	n := len(args)
	sql := "SELECT " + list + " FROM " + t.ident() + where + order +
		" LIMIT $" + strconv.Itoa(n+1) + " OFFSET $" + strconv.Itoa(n+2)
	data, err := collect[T](ctx, q, sql, append(args, limit, (page-1)*limit)...)
	if err != nil {
		return nil, err
	}

	return &domain.Page[T]{Data: data, Pagination: domain.NewPagination(page, limit, total)}, nil
}

func batchInsert(ctx context.Context, q Querier, t Table, columns []string, rows [][]any) (BatchResult, error) {
	if len(rows) == 0 {
		return BatchResult{}, nil
	}
	list, err := t.columnList(columns)
	if err != nil {
		return BatchResult{}, err
	}

	width := len(columns)
	groups := make([]string, len(rows))
	args := make([]any, 0, len(rows)*width)
	for i, r := range rows {
		if len(r) != width {
			return BatchResult{}, fmt.Errorf("batch insert %s: row %d has %d values, want %d", t, i, len(r), width)
		}
		groups[i] = "(" + placeholders(i*width+1, width) + ")"
		args = append(args, r...)
	}
	sql := "INSERT INTO " + t.ident() + " (" + list + ") VALUES " + strings.Join(groups, ", ")

	if !t.hasID() {
		tag, err := q.Exec(ctx, sql, args...)
		if err != nil {
			return BatchResult{}, fmt.Errorf("batch insert %s: %w", t, err)
		}
		return BatchResult{AffectedRows: tag.RowsAffected()}, nil
	}

	ids, err := collect[int64](ctx, q, sql+" RETURNING id", args...)
	if err != nil {
		return BatchResult{}, fmt.Errorf("batch insert %s: %w", t, err)
	}
	res := BatchResult{AffectedRows: int64(len(ids))}
	if len(ids) > 0 {
		res.InsertID = &ids[0]
	}
	return res, nil
}

// resolveIDs maps names to ids in a reference table. Names with no row are
// absent from the result.
func resolveIDs(ctx context.Context, q Querier, t Table, names []string) ([]int64, error) {
	if len(names) == 0 {
		return nil, nil
	}
	sql := "SELECT id FROM " + t.ident() + " WHERE name = ANY($1) ORDER BY id"
	return collect[int64](ctx, q, sql, names)
}

// collect runs a query and scans every row into T. Struct types are matched
// by db tag; scalar types are scanned directly.
func collect[T any](ctx context.Context, q Querier, sql string, args ...any) ([]T, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	out, err := pgx.CollectRows(rows, rowMapper[T]())
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func rowMapper[T any]() pgx.RowToFunc[T] {
	var zero T
	switch any(zero).(type) {
	case int64, string, int, bool:
		return pgx.RowTo[T]
	default:
		return pgx.RowToStructByNameLax[T]
	}
}

func whereClause(t Table, conds []Condition) (string, []any, error) {
	if len(conds) == 0 {
		return "", nil, nil
	}
	parts := make([]string, len(conds))
	args := make([]any, len(conds))
	for i, c := range conds {
		col, err := t.column(c.Column)
		if err != nil {
			return "", nil, err
		}
		parts[i] = col + " = $" + strconv.Itoa(i+1)
		args[i] = c.Value
	}
	return " WHERE " + strings.Join(parts, " AND "), args, nil
}

func orderClause(t Table, orderBy []Order) (string, error) {
	if len(orderBy) == 0 {
		return "", nil
	}
	parts := make([]string, len(orderBy))
	for i, o := range orderBy {
		col, err := t.column(o.Column)
		if err != nil {
			return "", err
		}
		dir := " ASC"
		if o.Desc {
			dir = " DESC"
		}
		parts[i] = col + dir
	}
	return " ORDER BY " + strings.Join(parts, ", "), nil
}

func placeholders(start, n int) string {
	ph := make([]string, n)
	for i := range ph {
		ph[i] = "$" + strconv.Itoa(start+i)
	}
	return strings.Join(ph, ", ")
}

// checkPageBounds rejects page/limit pairs whose OFFSET does not fit in int4.
func checkPageBounds(page, limit int) error {
	var fields []domain.FieldError
	if page < 1 {
		fields = append(fields, domain.FieldError{Field: "page", Message: "must be at least 1", Value: page})
	}
	if limit < 1 {
		fields = append(fields, domain.FieldError{Field: "limit", Message: "must be at least 1", Value: limit})
	}
	if len(fields) == 0 && int64(page-1) > math.MaxInt32/int64(limit) {
		fields = append(fields, domain.FieldError{Field: "page", Message: "is out of range", Value: page})
	}
	if len(fields) > 0 {
		return domain.NewValidationError(fields)
	}
	return nil
}
