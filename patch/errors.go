package patch

import "fmt"

// StructuralError reports a malformed op or an op that violates the element
// type expectations of the engine's context. It aborts the whole application:
// a store receiving it must leave its prior collection untouched.
type StructuralError struct {
	Index  int // position of the offending op in the patch
	Kind   OpKind
	Reason string
	Err    error
}

func (e *StructuralError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("op %d (%s): %s: %v", e.Index, e.Kind, e.Reason, e.Err)
	}
	return fmt.Sprintf("op %d (%s): %s", e.Index, e.Kind, e.Reason)
}

func (e *StructuralError) Unwrap() error {
	return e.Err
}

func structural(i int, kind OpKind, reason string, err error) *StructuralError {
	return &StructuralError{Index: i, Kind: kind, Reason: reason, Err: err}
}
