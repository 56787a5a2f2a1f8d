// Package diff computes field-level before/after deltas between two flat
// snapshots of named string values. It is pure: no IO, no clock, no state.
package diff

import (
	"fmt"
	"strings"
)

// Field is one named value of a snapshot. Order is significant: snapshots are
// built in the listing schema's declaration order and the diff preserves it.
type Field struct {
	Name  string
	Value string
}

// Snapshot is an ordered sequence of fields.
type Snapshot []Field

// Lookup returns the value for name and whether the field is present.
func (s Snapshot) Lookup(name string) (string, bool) {
	for _, f := range s {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// Change records one field whose value differs between the two snapshots.
type Change struct {
	Field  string
	Before string
	After  string
}

// NoChanges is the exact report rendered when the snapshots are equal.
// Callers render it verbatim so a no-op edit still produces a readable entry.
const NoChanges = "No changed fields."

// Compare walks before's fields in order and reports every field whose value
// differs in after. Fields missing from after are skipped, and fields present
// only in after are never visited: before's keys drive the iteration, so a
// schema addition must be added to both snapshots or it goes unnoticed.
func Compare(before, after Snapshot) []Change {
	var changes []Change

	for _, f := range before {
		afterValue, ok := after.Lookup(f.Name)
		if !ok {
			continue
		}
		if f.Value != afterValue {
			changes = append(changes, Change{Field: f.Name, Before: f.Value, After: afterValue})
		}
	}

	return changes
}

// Render formats changes one per line as `field: "before" → "after"`.
// An empty change set renders the NoChanges sentence, never an empty string.
// Output is deterministic: same inputs always yield byte-identical text.
func Render(changes []Change) string {
	if len(changes) == 0 {
		return NoChanges
	}

	lines := make([]string, 0, len(changes))
	for _, c := range changes {
		lines = append(lines, fmt.Sprintf("%s: %q → %q", c.Field, c.Before, c.After))
	}

	return strings.Join(lines, "\n")
}
