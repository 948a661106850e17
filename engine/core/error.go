package core

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Error codes raised by the abstraction and resolution engines.
const (
	ErrParseCode             = "PARSE_ERROR"
	ErrConflictingDefCode    = "CONFLICTING_DEFINITION"
	ErrUndeclaredVarCode     = "UNDECLARED_VARIABLE"
	ErrUnusedVarCode         = "UNUSED_VARIABLE"
	ErrMissingRequiredCode   = "MISSING_REQUIRED_VARIABLE"
	ErrPatternValidationCode = "PATTERN_VALIDATION"
	ErrTypeMismatchCode      = "TYPE_MISMATCH"
	ErrInvalidPathCode       = "INVALID_PATH"
	ErrInvalidDefinitionCode = "INVALID_DEFINITION"
	ErrInvalidDocumentCode   = "INVALID_DOCUMENT"
	ErrMappingValidationCode = "MAPPING_VALIDATION"
)

// Error is the structured error carried across engine boundaries. Details hold
// machine-readable context (variable names, paths, aggregated problems) so the
// API layer can translate failures without parsing message strings. Details
// must never contain a secret-kind variable's concrete value; callers attach
// names only.
type Error struct {
	Code    string         `json:"code"`
	Message string         `json:"message,omitempty"`
	Err     error          `json:"-"`
	Details map[string]any `json:"details,omitempty"`
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Code)
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if len(e.Details) > 0 {
		keys := make([]string, 0, len(e.Details))
		for k := range e.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%v", k, e.Details[k]))
		}
		b.WriteString(" (")
		b.WriteString(strings.Join(parts, " "))
		b.WriteString(")")
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError wraps err with a code and structured details.
func NewError(err error, code string, details map[string]any) *Error {
	return &Error{Code: code, Err: err, Details: details}
}

// CodeOf extracts the engine error code from err, returning an empty string
// for foreign errors.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsCode reports whether err carries the given engine error code.
func IsCode(err error, code string) bool {
	return CodeOf(err) == code
}
