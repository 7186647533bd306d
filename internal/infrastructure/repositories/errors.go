package repositories

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"gorm.io/gorm"
	domainerrors "payportal.backend/internal/domain/errors"
)

// uniqueColumns is checked in order; account_number must precede the
// shorter names it could be confused with.
var uniqueColumns = []struct {
	column string
	field  string
}{
	{"account_number", "accountNumber"},
	{"username", "username"},
	{"email", "email"},
}

// translateError maps driver errors onto domain sentinels. Errors that do
// not match a known shape are returned unchanged.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domainerrors.ErrNotFound
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if isDuplicate(err) {
		return &domainerrors.DuplicateError{Field: duplicateField(err.Error())}
	}
	if isUnavailable(err) {
		return fmt.Errorf("%w: %v", domainerrors.ErrUnavailable, err)
	}
	return err
}

func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint failed")
}

func duplicateField(msg string) string {
	for _, c := range uniqueColumns {
		if strings.Contains(msg, c.column) {
			return c.field
		}
	}
	return domainerrors.FieldGeneral
}

func isUnavailable(err error) bool {
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	return strings.Contains(err.Error(), "connection refused")
}
