package parser

import (
	"errors"

	"github.com/leengari/secindex/internal/domain/value"
)

// validateTypeName checks a column type against the type-name grammar
func validateTypeName(name string) error {
	_, err := value.ParseKind(name)
	return err
}

// validateRecordID rejects empty record ids
func validateRecordID(id string) error {
	if id == "" {
		return errors.New("record id must not be empty")
	}
	return nil
}
