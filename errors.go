package embres

import (
	"errors"
	"fmt"
)

// ErrIndexOutOfRange is matched by errors returned from StreamAt for indices outside the resource listing.
var ErrIndexOutOfRange = errors.New("resource index out of range")

// IndexError reports an index that does not address a listed resource.
type IndexError struct {
	Index int // Requested index
	Count int // Number of listed resources
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("resource index %d out of range [0, %d)", e.Index, e.Count)
}

// Is reports whether target is ErrIndexOutOfRange.
func (e *IndexError) Is(target error) bool {
	return target == ErrIndexOutOfRange
}

// AttErr reports problems with embedded attachments.
type AttErr string

func (o *AttErr) Error() string {
	return string(*o)
}

func newAttErr(format string, a ...interface{}) *AttErr {
	err := AttErr(fmt.Sprintf(format, a...))
	return &err
}
