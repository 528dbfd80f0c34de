package pagebook

import (
	"context"
	"database/sql"
	"fmt"
)

// Queryer is the capability surface required from a relational backend. It
// is satisfied by *sql.DB, *sql.Tx and *sql.Conn; callers needing the count
// and the windowed fetch to observe one snapshot hand in a transaction
// pinned to an appropriate isolation level.
type Queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Dialect builds the two statements executed per pagination call from a
// caller-prepared query fragment: a SELECT without LIMIT, OFFSET or COUNT
// clauses and without a trailing statement separator. The fragment's
// semantics are never altered beyond the added counting and windowing
// wrappers.
type Dialect interface {
	// CountQuery wraps the fragment into a statement returning the total
	// number of rows the fragment would produce.
	CountQuery(fragment string) string
	// WindowQuery wraps the fragment into a statement returning at most
	// size rows starting at the given offset.
	WindowQuery(fragment string, size uint, offset uint) string
}

// RowScanner decodes the current row of the cursor into a record. It must
// not advance the cursor.
type RowScanner[S any] func(rows *sql.Rows) (S, error)

type mysqlDialect struct{}

func (mysqlDialect) CountQuery(fragment string) string {
	return fmt.Sprintf("SELECT count(*) FROM (%s) AS temp_table", fragment)
}

func (mysqlDialect) WindowQuery(fragment string, size uint, offset uint) string {
	return fmt.Sprintf("%s LIMIT %d OFFSET %d", fragment, size, offset)
}

type postgresDialect struct{}

func (postgresDialect) CountQuery(fragment string) string {
	return fmt.Sprintf("WITH temp_table AS (%s) SELECT count(*) FROM temp_table", fragment)
}

func (postgresDialect) WindowQuery(fragment string, size uint, offset uint) string {
	return fmt.Sprintf("WITH temp_table AS (%s) SELECT * FROM temp_table LIMIT %d OFFSET %d",
		fragment, size, offset)
}

type sqliteDialect struct{}

func (sqliteDialect) CountQuery(fragment string) string {
	return fmt.Sprintf("SELECT count(*) FROM (%s) AS temp_table", fragment)
}

func (sqliteDialect) WindowQuery(fragment string, size uint, offset uint) string {
	return fmt.Sprintf("WITH temp_table AS (%s) SELECT * FROM temp_table LIMIT %d OFFSET %d",
		fragment, size, offset)
}

// Statement shapes per vendor. The count wrapping is the only part needing
// adaptation: MySQL and SQLite count over a derived table, Postgres over a
// common table expression.
var (
	MySQL    Dialect = mysqlDialect{}
	Postgres Dialect = postgresDialect{}
	SQLite   Dialect = sqliteDialect{}
)

// PaginateQuery pages the result set of a SQL query fragment into a
// validated Page. It performs two sequential round-trips: a counting query
// wrapping the fragment, then a windowed fetch of the requested page. Each
// fetched row is decoded through scan. Execution failures are KindDatabase
// errors, row conversion failures are KindDecode errors, and a request for a
// page beyond the available range fails Page validation with a
// KindInvalidValue error.
//
// No transaction, retry or timeout is applied here; those belong to the
// Queryer handed in. Cancellation propagates through ctx.
func PaginateQuery[S any](
	ctx context.Context,
	q Queryer,
	dialect Dialect,
	fragment string,
	scan RowScanner[S],
	page uint,
	size uint,
	args ...any,
) (*Page[S], error) {
	total, err := countRows(ctx, q, dialect, fragment, args)
	if err != nil {
		return nil, err
	}

	items, err := fetchWindow(ctx, q, dialect, fragment, scan, page, size, args)
	if err != nil {
		return nil, err
	}

	return NewPage(items, page, size, total)
}

func countRows(ctx context.Context, q Queryer, dialect Dialect, fragment string, args []any) (uint, error) {
	var total int64
	if err := q.QueryRowContext(ctx, dialect.CountQuery(fragment), args...).Scan(&total); err != nil {
		return 0, NewDatabaseError(err)
	}
	return uint(total), nil
}

func fetchWindow[S any](
	ctx context.Context,
	q Queryer,
	dialect Dialect,
	fragment string,
	scan RowScanner[S],
	page uint,
	size uint,
	args []any,
) ([]S, error) {
	rows, err := q.QueryContext(ctx, dialect.WindowQuery(fragment, size, size*page), args...)
	if err != nil {
		return nil, NewDatabaseError(err)
	}
	defer rows.Close()

	// size is caller-controlled and may legitimately exceed the row count,
	// so it is only a clamped allocation hint.
	items := make([]S, 0, min(size, 64))
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, NewDecodeError(err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, NewDatabaseError(err)
	}
	return items, nil
}
