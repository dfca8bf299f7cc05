package errors

import (
	"fmt"
)

var (
	ErrNotFound     = fmt.Errorf("not found")
	ErrInvalidInput = fmt.Errorf("invalid input")
	ErrStore        = fmt.Errorf("store failure")
	// ErrReferenced is returned by the restrict delete policy when dependents still point at the record.
	ErrReferenced = fmt.Errorf("record is referenced")
)
