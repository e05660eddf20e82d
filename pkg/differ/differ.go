// Package differ computes field-level changes between an existing record
// and a candidate's proposed fields.
package differ

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/factweave/factweave/pkg/entities"
)

// FieldChange records one field whose proposed value genuinely differs
// from the stored value.
type FieldChange struct {
	Field string `json:"field" yaml:"field"`
	Old   any    `json:"old" yaml:"old"`
	New   any    `json:"new" yaml:"new"`
}

// String renders the change for logs and rationales.
func (c FieldChange) String() string {
	return fmt.Sprintf("%s: %v -> %v", c.Field, c.Old, c.New)
}

// Fields lists the changed field names in change order.
func Fields(changes []FieldChange) []string {
	if len(changes) == 0 {
		return nil
	}
	names := make([]string, len(changes))
	for i, c := range changes {
		names[i] = c.Field
	}
	return names
}

// Diff compares proposed values against an existing record, restricted to
// the given allow-list of important fields. A field is skipped when the
// proposal is absent or nil (the candidate asserted nothing about it) or
// when the values are deep-equal, including list- and map-typed fields.
// The order of importantFields is the order of the output.
func Diff(existing entities.Record, proposed map[string]any, importantFields []string) []FieldChange {
	var changes []FieldChange
	for _, field := range importantFields {
		newValue, ok := proposed[field]
		if !ok || newValue == nil {
			continue
		}
		oldValue := existing.Fields[field]
		if equal(oldValue, newValue) {
			continue
		}
		changes = append(changes, FieldChange{Field: field, Old: oldValue, New: newValue})
	}
	return changes
}

// equal treats strings specially: values that differ only by surrounding
// whitespace are not a change worth recording. Everything else is
// deep equality.
func equal(oldValue, newValue any) bool {
	if oldStr, ok := oldValue.(string); ok {
		if newStr, ok := newValue.(string); ok {
			return strings.TrimSpace(oldStr) == strings.TrimSpace(newStr)
		}
	}
	return reflect.DeepEqual(oldValue, newValue)
}
