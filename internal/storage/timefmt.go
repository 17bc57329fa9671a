package storage

import "time"

// CompletionLayout keeps the original offset so the calendar day of a
// completion can be recomputed in any location.
const CompletionLayout = time.RFC3339Nano

// FormatCompletion encodes a completion timestamp for storage.
func FormatCompletion(t time.Time) string {
	return t.Format(CompletionLayout)
}

// ParseCompletion decodes a stored completion timestamp.
func ParseCompletion(s string) (time.Time, error) {
	return time.Parse(CompletionLayout, s)
}
