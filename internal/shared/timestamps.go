package shared

import "time"

// Timestamp normalises an instant for persistence: UTC with microsecond
// precision, which round-trips through PostgreSQL unchanged.
func Timestamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}
