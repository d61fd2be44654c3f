// Copyright 2025 walteh LLC
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

// Package errcode tags pathshift failures with a stable code so callers can
// branch on the kind of failure without matching message text.
package errcode

import (
	"fmt"

	"gitlab.com/tozd/go/errors"
)

// 🏷️ Code identifies a failure category
type Code string

const (
	Unknown           Code = "UNKNOWN"
	Configuration     Code = "CONFIGURATION"      // bad or missing inputs, batch never starts
	NoMatchingFiles   Code = "NO_MATCHING_FILES"  // selector found nothing
	MalformedDocument Code = "MALFORMED_DOCUMENT" // path file does not fit the schema
	IO                Code = "IO"                 // open/read/write failure
)

// Sentinels for errors.Is. Matching is by code only.
var (
	ErrConfiguration     = &Error{Code: Configuration}
	ErrNoMatchingFiles   = &Error{Code: NoMatchingFiles}
	ErrMalformedDocument = &Error{Code: MalformedDocument}
	ErrIO                = &Error{Code: IO}
)

// 🚨 Error is a coded error carrying the offending path, when there is one
type Error struct {
	Code    Code
	Path    string
	Message string
	Wrapped error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("[%s]", e.Code)
	if e.Path != "" {
		msg += " " + e.Path + ":"
	}
	if e.Message != "" {
		msg += " " + e.Message
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// 🏭 New creates a coded error with a stack trace attached
func New(code Code, path, message string) error {
	return errors.WithStack(&Error{Code: code, Path: path, Message: message})
}

// 🏭 Newf creates a coded error with a formatted message
func Newf(code Code, path, format string, args ...any) error {
	return New(code, path, fmt.Sprintf(format, args...))
}

// 🎁 Wrap tags err with a code. A nil err stays nil.
func Wrap(err error, code Code, path, message string) error {
	if err == nil {
		return nil
	}
	return errors.WithStack(&Error{Code: code, Path: path, Message: message, Wrapped: err})
}

// Has reports whether any error in err's chain carries code.
func Has(err error, code Code) bool {
	return errors.Is(err, &Error{Code: code})
}

// CodeOf returns the outermost code in err's chain, or Unknown.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return Unknown
}

// PathOf returns the path recorded on the outermost coded error.
func PathOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Path
	}
	return ""
}
