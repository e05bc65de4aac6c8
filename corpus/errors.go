package corpus

import (
	"errors"
	"fmt"
)

// ErrCapacityExceeded is returned when an append would grow the store past
// its configured maximum number of entries.
var ErrCapacityExceeded = errors.New("corpus: capacity exceeded")

// InvalidStringError reports a batch element that cannot be stored.
type InvalidStringError struct {
	Index  int
	Reason string
}

func (e *InvalidStringError) Error() string {
	return fmt.Sprintf("corpus: invalid string at index %d: %s", e.Index, e.Reason)
}
