// Package panics turns panics inside fuzz drivers into errors.
package panics

import (
	"fmt"
	"runtime/debug"
)

// CallBackFn is a function that will get called with information about the panic
type CallBackFn func(recoverObj interface{}, debugStackTrace string)

// Handler is a function that can be called with defer to recover from panics and pass them to a callback
type Handler func()

// MakeHandler makes a handler that recovers from panics and passes them to the given callback
func MakeHandler(cb CallBackFn) Handler {
	return func() {
		obj := recover()
		if obj == nil {
			return
		}
		cb(obj, string(debug.Stack()))
	}
}

// Error is a recovered panic.
type Error struct {
	Value interface{}
	Stack string
}

func (e *Error) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap returns the panic value when it was an error.
func (e *Error) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}

// Capture runs fn and returns its error, or an *Error if it panicked.
func Capture(fn func() error) (err error) {
	defer MakeHandler(func(obj interface{}, stack string) {
		err = &Error{Value: obj, Stack: stack}
	})()
	return fn()
}
