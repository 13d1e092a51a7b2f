// Package repository contains data access logic separated from HTTP handlers.
// Every repository method classifies driver failures into a tagged
// *StoreError before returning, so that callers can match on the error kind
// instead of inspecting driver-specific values. No raw database error
// crosses the repository boundary.
package repository

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/go-sql-driver/mysql"
)

// Kind enumerates the failure categories a store operation can report.
type Kind int

const (
	// KindUnavailable marks connectivity failures (server down, bad conn).
	KindUnavailable Kind = iota + 1
	// KindDuplicate marks uniqueness constraint violations (MySQL 1062).
	KindDuplicate
	// KindNotFound marks lookups or ownership-scoped mutations that matched
	// no row.
	KindNotFound
	// KindOther marks any remaining database error.
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindUnavailable:
		return "unavailable"
	case KindDuplicate:
		return "duplicate"
	case KindNotFound:
		return "not found"
	case KindOther:
		return "database error"
	}
	return "unknown"
}

// StoreError is the tagged error variant returned by all repositories.
type StoreError struct {
	Kind Kind   // failure category
	Op   string // operation that failed, e.g. "user.create"
	Err  error  // underlying driver error, may be nil
}

func (e *StoreError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// classify wraps a driver error into a StoreError with the appropriate
// kind. A nil error stays nil and an already classified error is passed
// through unchanged.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StoreError
	if errors.As(err, &se) {
		return err
	}
	if errors.Is(err, sql.ErrNoRows) {
		return &StoreError{Kind: KindNotFound, Op: op, Err: err}
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, mysql.ErrInvalidConn) {
		return &StoreError{Kind: KindUnavailable, Op: op, Err: err}
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		if myErr.Number == 1062 {
			return &StoreError{Kind: KindDuplicate, Op: op, Err: err}
		}
		return &StoreError{Kind: KindOther, Op: op, Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return &StoreError{Kind: KindUnavailable, Op: op, Err: err}
	}
	return &StoreError{Kind: KindOther, Op: op, Err: err}
}

// notFound builds a StoreError for ownership-scoped mutations that
// affected no rows.
func notFound(op string) error {
	return &StoreError{Kind: KindNotFound, Op: op}
}
