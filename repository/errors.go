package repository

import (
	"errors"

	"github.com/lib/pq"
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
	pqCheckViolation      = "23514"
)

// IsUniqueViolation reports whether err is a postgres unique-constraint
// violation, e.g. a duplicate (bank_name, bank_account_number) pair that
// raced past an application-level existence check.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation
}

// UniqueConstraint returns the name of the violated unique constraint, or ""
// when err is not a unique violation. Callers with more than one unique
// constraint in play use this to pick the right domain error.
func UniqueConstraint(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
		return pqErr.Constraint
	}
	return ""
}

// IsForeignKeyViolation reports whether err is a postgres foreign-key
// violation. Deletes are RESTRICTed, so this fires when removing a row that
// is still referenced.
func IsForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqForeignKeyViolation
}

// IsCheckViolation reports whether err is a postgres check-constraint
// violation, e.g. the balance >= 0 guard.
func IsCheckViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqCheckViolation
}
