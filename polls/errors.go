// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package polls

import (
	"fmt"
	"sort"
	"strings"

	"github.com/danielhkuo/polling/models"
)

// Validation messages
const (
	MsgRequired        = "This field is required."
	MsgBlank           = "This field may not be blank."
	MsgTooFewChoices   = "Ensure this field has at least 2 elements."
	MsgPollNotFound    = "poll not found"
	MsgChoiceNotFound  = "choice not found"
	MsgChoiceNotInPoll = "choice does not belong to poll"
	MsgAlreadyVoted    = "already voted"
)

// ValidationError reports malformed input or a broken business rule.
type ValidationError struct {
	Fields models.FieldErrors
}

func newValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: models.FieldErrors{field: {message}}}
}

// Add appends a message for field.
func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = models.FieldErrors{}
	}
	e.Fields[field] = append(e.Fields[field], message)
}

// Empty reports whether no field has an error.
func (e *ValidationError) Empty() bool {
	return len(e.Fields) == 0
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], " "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NotFoundError reports a referenced poll or choice that does not exist.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

// StorageError wraps a persistence failure.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
