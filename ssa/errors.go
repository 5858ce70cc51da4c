package ssa

import (
	"errors"
	"fmt"
)

var (
	// ErrNoModel is returned when a run is requested before a model is loaded.
	ErrNoModel = errors.New("no model loaded")

	// ErrUnknownMethod is returned for a method name or value that is not supported.
	ErrUnknownMethod = errors.New("unknown simulation method")

	// ErrUnknownSymbol is returned when a rate expression references a name
	// that is neither a species nor a parameter.
	ErrUnknownSymbol = errors.New("unknown symbol")

	// ErrNegativePropensity is returned when a rate expression evaluates below zero.
	ErrNegativePropensity = errors.New("negative propensity")

	// ErrInfinitePropensity is returned when a rate expression diverges, for
	// example a division by a species that reached zero.
	ErrInfinitePropensity = errors.New("infinite propensity")

	// ErrMaxSteps is returned when a trajectory exceeds the configured step limit.
	ErrMaxSteps = errors.New("maximum number of steps exceeded")

	// ErrInvalidOptions is returned for malformed RunOptions.
	ErrInvalidOptions = errors.New("invalid run options")
)

// ParseError describes a syntax or semantic problem in a model file.
type ParseError struct {
	File string
	Line int // 0 when the problem is not tied to a single line
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %v", e.File, e.Line, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.File, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
