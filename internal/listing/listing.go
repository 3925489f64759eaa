// Package listing implements the shared query engine behind every list
// endpoint: optional equality filters, case-insensitive substring search
// over a fixed field set, named sort modes with a deterministic tie-break,
// and a lenient result limit alongside an unlimited total count.
package listing

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
)

// Filter declares one query parameter that may constrain a column by
// equality. Bool filters parse "true"/"false"; anything else passes the raw
// string through as the comparison value.
type Filter struct {
	Param  string
	Column string
	Bool   bool
}

// SearchField declares one column the search pattern is matched against.
// Array columns are flattened before matching.
type SearchField struct {
	Column string
	Array  bool
}

// Resource describes how one record kind is listed. Sort clauses must end
// in a total order: equal primary keys fall back to the declared secondary
// so two identical calls can never return different orderings.
type Resource struct {
	Table        string
	Columns      []string
	Filters      []Filter
	SearchFields []SearchField
	SortModes    map[string]string
	DefaultSort  string
}

// Params are the raw, untrusted query parameters of a list request.
type Params struct {
	Filters map[string]string
	Search  string
	Sort    string
	Limit   string
}

// Query is a compiled SQL statement with its positional arguments.
type Query struct {
	SQL  string
	Args []any
}

// ParseLimit applies the lenient limit policy: a positive integer caps the
// result set, anything else (absent, junk, zero, negative) means no limit.
// Callers rely on this never rejecting a request.
func ParseLimit(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return 0
	}
	return n
}

// Build compiles the select and count statements for one list call.
// Filters and search are conjunctive; the count ignores the limit.
func Build(r Resource, p Params) (sel Query, count Query) {
	var (
		where []string
		args  []any
	)

	for _, f := range r.Filters {
		raw, ok := p.Filters[f.Param]
		if !ok || raw == "" {
			continue
		}
		if f.Bool {
			args = append(args, raw == "true")
		} else {
			args = append(args, raw)
		}
		where = append(where, fmt.Sprintf("%s = $%d", f.Column, len(args)))
	}

	if p.Search != "" && len(r.SearchFields) > 0 {
		args = append(args, "%"+escapeLike(p.Search)+"%")
		n := len(args)

		matches := make([]string, 0, len(r.SearchFields))
		for _, sf := range r.SearchFields {
			col := sf.Column
			if sf.Array {
				col = fmt.Sprintf("array_to_string(%s, ' ')", sf.Column)
			}
			matches = append(matches, fmt.Sprintf("%s ILIKE $%d", col, n))
		}
		where = append(where, "("+strings.Join(matches, " OR ")+")")
	}

	whereSQL := ""
	if len(where) > 0 {
		whereSQL = " WHERE " + strings.Join(where, " AND ")
	}

	order := r.DefaultSort
	if clause, ok := r.SortModes[p.Sort]; ok {
		order = clause
	}

	selSQL := fmt.Sprintf("SELECT %s FROM %s%s ORDER BY %s",
		strings.Join(r.Columns, ", "), r.Table, whereSQL, order)
	selArgs := args

	if limit := ParseLimit(p.Limit); limit > 0 {
		selArgs = append(append([]any{}, args...), limit)
		selSQL += fmt.Sprintf(" LIMIT $%d", len(selArgs))
	}

	countSQL := fmt.Sprintf("SELECT COUNT(*) FROM %s%s", r.Table, whereSQL)

	return Query{SQL: selSQL, Args: selArgs}, Query{SQL: countSQL, Args: args}
}

// Result carries one page of records plus the counters the response
// envelope needs: Count is len(Items), Total ignores the limit.
type Result[T any] struct {
	Items []T
	Count int
	Total int
}

// Execute runs a compiled listing against the database, scanning each row
// with scan. Listing is read-only; no row is mutated here.
func Execute[T any](ctx context.Context, db *sql.DB, r Resource, p Params, scan func(*sql.Rows) (T, error)) (Result[T], error) {
	sel, count := Build(r, p)

	rows, err := db.QueryContext(ctx, sel.SQL, sel.Args...)
	if err != nil {
		return Result[T]{}, err
	}
	defer rows.Close()

	items := make([]T, 0, 16)
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return Result[T]{}, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return Result[T]{}, err
	}

	var total int
	if err := db.QueryRowContext(ctx, count.SQL, count.Args...).Scan(&total); err != nil {
		return Result[T]{}, err
	}

	return Result[T]{Items: items, Count: len(items), Total: total}, nil
}

// escapeLike neutralizes LIKE metacharacters so a search for "100%" matches
// the literal text instead of acting as a wildcard.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
