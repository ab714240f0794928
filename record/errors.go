package record

import "fmt"

// MalformedRowError is returned when a required row field is absent. The
// current ingestion aborts; nothing of the offending row is written.
type MalformedRowError struct {
	Field string
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("record: malformed row: missing %s", e.Field)
}
