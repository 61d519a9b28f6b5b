package vm

import "fmt"

// Response is the result envelope every VM operation returns. Code 0 means
// success. Output carries the diagnostic text and is set exactly when Code
// is non-zero.
type Response[T any] struct {
	Code   int
	Data   T
	Output string
}

// Success wraps data in a successful Response.
func Success[T any](data T) Response[T] {
	return Response[T]{Data: data}
}

// Failure builds a failed Response. A zero code becomes 1 and an empty
// output gets a placeholder so the envelope stays well formed.
func Failure[T any](code int, output string) Response[T] {
	if code == 0 {
		code = 1
	}
	if output == "" {
		output = fmt.Sprintf("operation failed with exit code %d", code)
	}
	return Response[T]{Code: code, Output: output}
}

// Successful reports whether the operation succeeded.
func (r Response[T]) Successful() bool {
	return r.Code == 0
}

// Err returns nil on success, otherwise a *ResponseError.
func (r Response[T]) Err() error {
	if r.Successful() {
		return nil
	}
	return &ResponseError{Code: r.Code, Output: r.Output}
}

// Propagate returns the failure in r re-typed for a caller with a
// different payload, keeping Code and Output as they are.
func Propagate[U, T any](r Response[T]) Response[U] {
	return Response[U]{Code: r.Code, Output: r.Output}
}

// ResponseError is a failed Response as an error value.
type ResponseError struct {
	Code   int
	Output string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("exit code %d: %s", e.Code, e.Output)
}
