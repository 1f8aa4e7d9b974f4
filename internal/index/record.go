package index

import (
	"strings"

	"github.com/leengari/secindex/internal/domain/changeset"
	"github.com/leengari/secindex/internal/domain/spec"
	"github.com/leengari/secindex/internal/domain/value"
)

// ChangeFromFields projects a record's raw field values onto a NAMED spec.
// Field names match case-insensitively. A missing field indexes as Null
// and each present field is parsed with its column's type.
func ChangeFromFields(sp *spec.Spec, id string, fields map[string]string) (changeset.Change, error) {
	ch := changeset.Change{Type: changeset.Add, ID: id}
	if !sp.IsNamed() {
		return ch, &ApplyError{
			Err:      ErrInvalidValue,
			Position: -1,
			ID:       id,
			Op:       changeset.Add,
			Reason:   "records can only be indexed by a named index",
		}
	}

	lowered := make(map[string]string, len(fields))
	for name, text := range fields {
		lowered[strings.ToLower(name)] = text
	}

	ch.Values = make([]value.Value, sp.NumProps())
	for i, prop := range sp.Properties() {
		text, ok := lowered[strings.ToLower(prop.Name)]
		if !ok {
			ch.Values[i] = value.Null()
			continue
		}
		v, err := value.Parse(prop.Type, text)
		if err != nil {
			return ch, &ApplyError{
				Err:      ErrInvalidValue,
				Position: -1,
				ID:       id,
				Op:       changeset.Add,
				Column:   prop.Name,
				Value:    text,
				Reason:   err.Error(),
			}
		}
		ch.Values[i] = v
	}
	return ch, nil
}

// ApplyRecord re-indexes one record from its raw fields
func (ix *CompoundIndex) ApplyRecord(id string, fields map[string]string) error {
	if ix.closed {
		return ErrClosed
	}
	ch, err := ChangeFromFields(ix.spec, id, fields)
	if err != nil {
		return err
	}
	return ix.Apply(changeset.New(ch))
}
