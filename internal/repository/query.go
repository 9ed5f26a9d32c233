package repository

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/lib/pq"

	"github.com/namenice/kamui/internal/domain"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

// ListOptions carries the shared pagination and sorting inputs. Invalid or
// non-positive values fall back to defaults instead of erroring.
type ListOptions struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

// Normalize applies paging defaults. Repositories call it before querying;
// services call it again when building the page envelope, so both layers
// agree on the effective page and limit.
func (o ListOptions) Normalize() ListOptions {
	if o.Page <= 0 {
		o.Page = defaultPage
	}
	if o.Limit <= 0 {
		o.Limit = defaultLimit
	}
	return o
}

func (o ListOptions) offset() int {
	return (o.Page - 1) * o.Limit
}

// orderBy resolves the client sort field against a per-resource whitelist.
// Unknown fields fall back to creation time descending. The id column is
// always appended as a tie-break so identical inputs return identical pages.
func orderBy(opts ListOptions, sortable map[string]string, defaultCol, idCol string) string {
	col, ok := sortable[opts.SortBy]
	if !ok {
		col = defaultCol
	}
	// Newest first unless the caller explicitly asks for ascending.
	dir := "DESC"
	if strings.EqualFold(opts.SortOrder, "asc") {
		dir = "ASC"
	}
	return " ORDER BY " + col + " " + dir + ", " + idCol + " ASC"
}

// cond accumulates parameterized WHERE fragments.
type cond struct {
	where []string
	args  []any
}

// bind registers an argument and returns its placeholder.
func (c *cond) bind(v any) string {
	c.args = append(c.args, v)
	return "$" + strconv.Itoa(len(c.args))
}

func (c *cond) add(expr string) {
	c.where = append(c.where, expr)
}

func (c *cond) clause() string {
	if len(c.where) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(c.where, " AND ")
}

// limitOffset appends pagination placeholders.
func (c *cond) limitOffset(opts ListOptions) string {
	return " LIMIT " + c.bind(opts.Limit) + " OFFSET " + c.bind(opts.offset())
}

func like(s string) string {
	return "%" + s + "%"
}

// scopedValueTaken is the storage primitive behind scoped uniqueness: it
// reports whether col already holds val inside the given parent scope.
// scopeCol is empty for globally unique values. excludeID skips the record's
// own row so renaming something to its current name never conflicts with
// itself.
func scopedValueTaken(ctx context.Context, db *sql.DB, table, col, val, scopeCol, scopeID, excludeID string) (bool, error) {
	c := &cond{}
	c.add(col + " = " + c.bind(val))
	if scopeCol != "" {
		c.add(scopeCol + " = " + c.bind(scopeID))
	}
	if excludeID != "" {
		c.add("id <> " + c.bind(excludeID))
	}
	var taken bool
	err := db.QueryRowContext(ctx, "SELECT EXISTS (SELECT 1 FROM "+table+c.clause()+")", c.args...).Scan(&taken)
	return taken, err
}

// mapWriteError translates constraint violations raised by the store into
// the domain taxonomy. Unique violations become the given Conflict message
// (backstop for the check-then-act race); foreign-key and check violations
// become Validation errors.
func mapWriteError(err error, conflictMsg string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505": // unique_violation
			return domain.Conflict(conflictMsg)
		case "23503": // foreign_key_violation
			return domain.Invalid("referenced row does not exist")
		case "23514": // check_violation
			return domain.Invalid("constraint violated: " + pqErr.Constraint)
		}
	}
	return err
}

// mapDeleteError is mapWriteError for DELETE statements. A foreign-key
// violation on a delete means the row is still referenced, which is the
// same restrict condition the service layer reports as a Conflict.
func mapDeleteError(err error, restrictMsg string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23503" {
		return domain.Conflict(restrictMsg)
	}
	return mapWriteError(err, restrictMsg)
}
