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

package variable

import (
	"fmt"

	"github.com/rigtool/recipe-image-generator/pkg/errors"
)

// UnknownScopeError is returned for a token whose scope is not one of
// last_recipe, var or counter.
type UnknownScopeError struct {
	Token string
	Scope string
}

func (e *UnknownScopeError) Error() string {
	return fmt.Sprintf("unknown variable scope %q in %s", e.Scope, e.Token)
}

// Code implements errors.Coder.
func (e *UnknownScopeError) Code() errors.ErrorCode {
	return errors.ErrCodeUnknownScope
}

// UnknownVariableError describes a variable that resolved to an empty
// string because its scope has no such name.
type UnknownVariableError struct {
	Token string
	Scope string
	Name  string
}

func (e *UnknownVariableError) Error() string {
	return fmt.Sprintf("variable %q is not defined in scope %s", e.Name, e.Scope)
}

// Code implements errors.Coder.
func (e *UnknownVariableError) Code() errors.ErrorCode {
	return errors.ErrCodeUnknownVariable
}

// InvalidCounterError is returned for a counter token whose start or offset
// does not fit an int.
type InvalidCounterError struct {
	Token string
	Err   error
}

func (e *InvalidCounterError) Error() string {
	return fmt.Sprintf("invalid counter %s: %v", e.Token, e.Err)
}

func (e *InvalidCounterError) Unwrap() error { return e.Err }

// Code implements errors.Coder.
func (e *InvalidCounterError) Code() errors.ErrorCode {
	return errors.ErrCodeInvalidRequest
}
