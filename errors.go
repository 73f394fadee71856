package contentcal

import (
	"errors"
	"fmt"
)

// ErrNilDocument is returned when a nil document is passed to the Renderer.
var ErrNilDocument = errors.New("document is nil")

// RenderError reports a failure while producing the PDF artifact.
type RenderError struct {
	Op  string // "layout", "create", "write", "close"
	Err error
}

func (e *RenderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("render %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("render %s: unknown error", e.Op)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

func newRenderError(op string, err error) *RenderError {
	return &RenderError{Op: op, Err: err}
}
