package main

import (
	"errors"
	"fmt"
)

const (
	exitFailure = 1
	exitUsage   = 2
)

// exitError carries the exit code the embedder quits with.
type exitError struct {
	code    int
	message string
}

func (e *exitError) Error() string {
	return e.message
}

func newExitError(code int, format string, args ...interface{}) *exitError {
	return &exitError{
		code:    code,
		message: fmt.Sprintf(format, args...),
	}
}

// exitCode returns the exit code for err.
func exitCode(err error) int {
	var exitErr *exitError
	if errors.As(err, &exitErr) {
		return exitErr.code
	}
	return exitFailure
}
