package service

import (
	"strings"
	"time"
)

// Filter narrows an audit trail. Zero-value fields are inactive; active
// criteria combine with AND.
type Filter struct {
	// Search matches case-insensitively as a substring of the user email,
	// the action, or the details.
	Search string
	// Action matches the action exactly.
	Action string
	// Start keeps entries created at or after the instant.
	Start *time.Time
	// End keeps entries created at or before the instant.
	End *time.Time
}

// ApplyFilter returns the entries satisfying every active criterion,
// preserving their order. The input slice is not modified.
func ApplyFilter(entries []Entry, f Filter) []Entry {
	kept := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		if matches(entry, f) {
			kept = append(kept, entry)
		}
	}
	return kept
}

func matches(entry Entry, f Filter) bool {
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(entry.UserEmail), needle) &&
			!strings.Contains(strings.ToLower(string(entry.Action)), needle) &&
			!strings.Contains(strings.ToLower(entry.Details), needle) {
			return false
		}
	}
	if f.Action != "" && string(entry.Action) != f.Action {
		return false
	}
	if f.Start != nil && entry.CreatedAt.Before(*f.Start) {
		return false
	}
	if f.End != nil && entry.CreatedAt.After(*f.End) {
		return false
	}
	return true
}
