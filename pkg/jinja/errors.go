package jinja

import "fmt"

// ParseError reports malformed template syntax: an unexpected token where a
// specific construct was required, or early end of input.
type ParseError struct {
	Message string
}

func (e *ParseError) Error() string { return "parse error: " + e.Message }

// EvalError reports a failure while rendering: a type-incompatible
// operation, a missing key, or an out-of-range index.
type EvalError struct {
	Message string
}

func (e *EvalError) Error() string { return "eval error: " + e.Message }

func parseErrorf(format string, args ...any) *ParseError {
	return &ParseError{Message: fmt.Sprintf(format, args...)}
}

func evalErrorf(format string, args ...any) *EvalError {
	return &EvalError{Message: fmt.Sprintf(format, args...)}
}
