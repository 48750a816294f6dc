// Package attachments enforces the per-resource attachment count limit.
package attachments

import (
	"errors"
	"fmt"
)

// ErrLimitExceeded is the sentinel matched by errors.Is for limit failures.
var ErrLimitExceeded = errors.New("attachment limit exceeded")

// LimitError reports how a batch of incoming attachments would overflow
// the limit. It wraps ErrLimitExceeded so callers can match either way.
type LimitError struct {
	Current  int
	Incoming int
	Max      int
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("attachment limit exceeded, maximum %d images allowed (current: %d, trying to add: %d)",
		e.Max, e.Current, e.Incoming)
}

func (e *LimitError) Unwrap() error {
	return ErrLimitExceeded
}

// CheckAdd validates that adding incoming attachments to a resource that
// already holds current ones stays within max. The whole batch is
// rejected when it would overflow; partial adds are never allowed.
func CheckAdd(current, incoming, max int) error {
	if incoming <= 0 {
		return nil
	}
	if current+incoming > max {
		return &LimitError{Current: current, Incoming: incoming, Max: max}
	}
	return nil
}
