// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a structured error classification.
type ErrorCode string

const (
	// ErrCodeNotFound indicates a requested file or entry was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeInternal indicates an internal error.
	ErrCodeInternal ErrorCode = "INTERNAL"
	// ErrCodeInvalidRequest indicates malformed or invalid input.
	ErrCodeInvalidRequest ErrorCode = "INVALID_REQUEST"
	// ErrCodeTimeout indicates an operation exceeded its time limit.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeConfiguration indicates missing or invalid settings. Always fatal.
	ErrCodeConfiguration ErrorCode = "CONFIGURATION"
	// ErrCodeTemplateParse indicates a template file that cannot be decoded.
	ErrCodeTemplateParse ErrorCode = "TEMPLATE_PARSE"
	// ErrCodeInvalidRecipe indicates a recipe file that cannot be decoded.
	ErrCodeInvalidRecipe ErrorCode = "INVALID_RECIPE"
	// ErrCodeUnknownScope indicates a variable token naming an unknown scope.
	ErrCodeUnknownScope ErrorCode = "UNKNOWN_SCOPE"
	// ErrCodeUnknownVariable indicates a variable token naming an unknown field.
	ErrCodeUnknownVariable ErrorCode = "UNKNOWN_VARIABLE"
	// ErrCodeUnresolvedTexture indicates an item identity without a usable texture.
	ErrCodeUnresolvedTexture ErrorCode = "UNRESOLVED_TEXTURE"
	// ErrCodeSync indicates a failure talking to the shared database remote.
	ErrCodeSync ErrorCode = "SYNC"
	// ErrCodeCounterConflict indicates a counter read with a start value
	// different from the one it was started with.
	ErrCodeCounterConflict ErrorCode = "COUNTER_CONFLICT"
)

// StructuredError provides structured error information for better observability.
// It includes an error code for programmatic handling, a human-readable message,
// the underlying cause, and optional context for debugging.
type StructuredError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]any
}

// Error implements the error interface.
func (e *StructuredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is and errors.As support.
func (e *StructuredError) Unwrap() error {
	return e.Cause
}

// New creates a new StructuredError with the given code and message.
func New(code ErrorCode, message string) *StructuredError {
	return &StructuredError{
		Code:    code,
		Message: message,
	}
}

// NewWithContext creates a new StructuredError with context information.
func NewWithContext(code ErrorCode, message string, context map[string]any) *StructuredError {
	return &StructuredError{
		Code:    code,
		Message: message,
		Context: context,
	}
}

// Wrap wraps an existing error with additional context.
func Wrap(code ErrorCode, message string, cause error) *StructuredError {
	return &StructuredError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WrapWithContext wraps an error with additional context information.
func WrapWithContext(code ErrorCode, message string, cause error, context map[string]any) *StructuredError {
	return &StructuredError{
		Code:    code,
		Message: message,
		Cause:   cause,
		Context: context,
	}
}

// Coder is implemented by domain error types that map onto an ErrorCode.
type Coder interface {
	Code() ErrorCode
}

// CodeOf returns the code of the first coded error in err's chain,
// or ErrCodeInternal when none carries one.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}
	var se *StructuredError
	var c Coder
	for e := err; e != nil; e = stderrors.Unwrap(e) {
		if s, ok := e.(*StructuredError); ok {
			se = s
			break
		}
		if cc, ok := e.(Coder); ok {
			c = cc
			break
		}
	}
	switch {
	case se != nil:
		return se.Code
	case c != nil:
		return c.Code()
	default:
		return ErrCodeInternal
	}
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code ErrorCode) bool {
	return err != nil && CodeOf(err) == code
}
