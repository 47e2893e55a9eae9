package shared

import "fmt"

// SequenceLockKey names the critical section guarding one counter for one day.
func SequenceLockKey(sequence, day string) string {
	return fmt.Sprintf("sequence:%s:%s:lock", sequence, day)
}
