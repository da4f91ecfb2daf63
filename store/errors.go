package store

import (
	"errors"
	"fmt"
)

// NotFoundError reports a Find of an absent key. Absence is an error for
// Find, unlike Remove, so callers can tell "absent" from "found but empty".
type NotFoundError struct {
	Key any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("key %v: not found", e.Key)
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
