// Copyright 2025 MakeMCP Contributors
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

// Package toolset holds the compiled tool catalogue and turns a
// (name, arguments) call into an outbound Airflow HTTP request.
package toolset

import "fmt"

// Kind is the internal error taxonomy. SpecInvalid and UpstreamUnavailable
// are fatal at server start; everything else is scoped to one call and
// surfaces as an MCP error content part.
type Kind string

const (
	SpecInvalid         Kind = "spec_invalid"
	UpstreamUnavailable Kind = "upstream_unavailable"
	UpstreamTimeout     Kind = "upstream_timeout"
	UpstreamError       Kind = "upstream_error"
	NotFound            Kind = "not_found"
	InvalidArgument     Kind = "invalid_argument"
	PermissionDenied    Kind = "permission_denied"
)

// Error carries a Kind alongside the usual message so callers can decide
// "fatal at startup" from "one call failed" without string matching.
type Error struct {
	Kind Kind
	// Path is the offending property path for InvalidArgument errors.
	Path    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Message, e.Path)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func newArgError(path, format string, args ...any) *Error {
	return &Error{Kind: InvalidArgument, Path: path, Message: fmt.Sprintf(format, args...)}
}

// NewSpecInvalidError wraps a document load/compile failure as a fatal
// startup error.
func NewSpecInvalidError(err error) *Error {
	return &Error{Kind: SpecInvalid, Message: "OpenAPI document invalid", Err: err}
}

// NewUpstreamUnavailableError wraps a spec-fetch transport failure as a
// fatal startup error.
func NewUpstreamUnavailableError(baseURL string, err error) *Error {
	return &Error{Kind: UpstreamUnavailable, Message: fmt.Sprintf("could not reach %s", baseURL), Err: err}
}
