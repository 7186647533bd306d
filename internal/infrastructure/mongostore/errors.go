package mongostore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	domainerrors "payportal.backend/internal/domain/errors"
)

var duplicateFields = []struct {
	marker string
	field  string
}{
	{"account_number", "accountNumber"},
	{"accountNumber", "accountNumber"},
	{"username", "username"},
	{"email", "email"},
}

func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domainerrors.ErrNotFound
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if mongo.IsDuplicateKeyError(err) {
		return &domainerrors.DuplicateError{Field: duplicateField(err.Error())}
	}
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) || strings.Contains(err.Error(), "server selection error") {
		return fmt.Errorf("%w: %v", domainerrors.ErrUnavailable, err)
	}
	return err
}

func duplicateField(msg string) string {
	for _, d := range duplicateFields {
		if strings.Contains(msg, d.marker) {
			return d.field
		}
	}
	return domainerrors.FieldGeneral
}
