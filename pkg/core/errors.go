package core

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by the pipeline stages.
var (
	// ErrMissingPrecondition indicates a stage ran before the state it reads existed.
	ErrMissingPrecondition = errors.New("missing precondition")

	// ErrUnsupportedType indicates an unknown model or entity kind reached a dispatch.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrMalformedInput indicates a diagram or model refers to elements it does not contain.
	ErrMalformedInput = errors.New("malformed input")

	// ErrInvalidConfig indicates a configuration value is out of range.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// MissingPreconditionError names the run state a stage needed but did not find.
type MissingPreconditionError struct {
	Stage string
	Key   string
}

// Error implements the error interface
func (e *MissingPreconditionError) Error() string {
	return fmt.Sprintf("stage %s: %s not present in run state", e.Stage, e.Key)
}

// Is implements errors.Is support
func (e *MissingPreconditionError) Is(target error) bool {
	return target == ErrMissingPrecondition
}

// NewMissingPreconditionError creates a new MissingPreconditionError
func NewMissingPreconditionError(stage, key string) *MissingPreconditionError {
	return &MissingPreconditionError{Stage: stage, Key: key}
}

// UnsupportedTypeError is raised (as a panic value) when a closed set of kinds
// meets a value outside it.
type UnsupportedTypeError struct {
	What  string
	Value string
}

// Error implements the error interface
func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported %s: %q", e.What, e.Value)
}

// Is implements errors.Is support
func (e *UnsupportedTypeError) Is(target error) bool {
	return target == ErrUnsupportedType
}

// NewUnsupportedTypeError creates a new UnsupportedTypeError
func NewUnsupportedTypeError(what, value string) *UnsupportedTypeError {
	return &UnsupportedTypeError{What: what, Value: value}
}

// MalformedInputError describes a dangling reference in a diagram or model.
type MalformedInputError struct {
	Source  string
	Message string
}

// Error implements the error interface
func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed %s: %s", e.Source, e.Message)
}

// Is implements errors.Is support
func (e *MalformedInputError) Is(target error) bool {
	return target == ErrMalformedInput
}

// NewMalformedInputError creates a new MalformedInputError
func NewMalformedInputError(source, format string, args ...any) *MalformedInputError {
	return &MalformedInputError{Source: source, Message: fmt.Sprintf(format, args...)}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Key     string
	Message string
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %s", e.Key, e.Message)
}

// Is implements errors.Is support
func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}

// NewConfigError creates a new ConfigError
func NewConfigError(key, format string, args ...any) *ConfigError {
	return &ConfigError{Key: key, Message: fmt.Sprintf(format, args...)}
}
