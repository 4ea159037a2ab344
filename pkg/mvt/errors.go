package mvt

import "fmt"

// FormatError reports a malformed vector-tile payload. Offset is the absolute
// byte position in the decoded buffer where the fault was detected.
type FormatError struct {
	Reason string
	Offset int
}

// Error implements the error interface.
func (e *FormatError) Error() string {
	return fmt.Sprintf("malformed vector tile at byte %d: %s", e.Offset, e.Reason)
}

func formatErrf(offset int, format string, args ...any) *FormatError {
	return &FormatError{Reason: fmt.Sprintf(format, args...), Offset: offset}
}
