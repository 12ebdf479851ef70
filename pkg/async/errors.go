package async

import (
	"errors"
	"fmt"
)

var ErrTimeout = errors.New("async: operation timed out waiting for future completion")

// PanicError carries a value recovered from a panicking callback.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	if err, ok := e.Value.(error); ok {
		return err.Error()
	}
	return fmt.Sprint(e.Value)
}

func (e *PanicError) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}
