package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// SQLExecutor is satisfied by both *sql.DB and *sql.Tx, so every repository
// method can run inside the caller's transaction.
type SQLExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
	pqCheckViolation      = "23514"
)

var (
	ErrUniqueViolation  = errors.New("unique constraint violated")
	ErrInvalidReference = errors.New("referenced row does not exist")
	ErrCheckViolation   = errors.New("check constraint violated")
)

// ConstraintError carries the name of the violated constraint so services
// can tell a slug collision from any other duplicate.
type ConstraintError struct {
	Kind       error
	Constraint string
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("%v (%s)", e.Kind, e.Constraint)
}

func (e *ConstraintError) Unwrap() error {
	return e.Kind
}

// IsConstraint reports whether err is a violation of the named constraint.
func IsConstraint(err error, constraint string) bool {
	var cerr *ConstraintError
	return errors.As(err, &cerr) && cerr.Constraint == constraint
}

// mapPQError translates driver errors into ConstraintError. Constraints
// listed in known are replaced by their sentinel.
func mapPQError(err error, known map[string]error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	if sentinel, ok := known[pqErr.Constraint]; ok {
		return sentinel
	}
	switch pqErr.Code {
	case pqUniqueViolation:
		return &ConstraintError{Kind: ErrUniqueViolation, Constraint: pqErr.Constraint}
	case pqForeignKeyViolation:
		return &ConstraintError{Kind: ErrInvalidReference, Constraint: pqErr.Constraint}
	case pqCheckViolation:
		return &ConstraintError{Kind: ErrCheckViolation, Constraint: pqErr.Constraint}
	}
	return err
}

func checkAffectedRows(result sql.Result, notFoundError error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return notFoundError
	}
	return nil
}

func notFound(err, notFoundError error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return notFoundError
	}
	return err
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func intFromNull(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}

func nullTime(v *time.Time) sql.NullTime {
	if v == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *v, Valid: true}
}

func timeFromNull(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}

func durationSeconds(d *time.Duration) sql.NullInt64 {
	if d == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(d.Seconds()), Valid: true}
}

func durationFromSeconds(v sql.NullInt64) *time.Duration {
	if !v.Valid {
		return nil
	}
	d := time.Duration(v.Int64) * time.Second
	return &d
}

// rowScanner is the common subset of *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}
