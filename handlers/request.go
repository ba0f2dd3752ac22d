// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/danielhkuo/polling/middleware"
	"github.com/danielhkuo/polling/models"
	"github.com/danielhkuo/polling/polls"
)

// Field validation messages
const (
	msgNotString     = "Not a valid string."
	msgNotList       = "Expected a list of items but got type \"%s\"."
	msgNotInteger    = "A valid integer is required."
	msgBadDatetime   = "Datetime has wrong format. Use one of these formats instead: YYYY-MM-DDThh:mm[:ss[.uuuuuu]][+HH:MM|-HH:MM|Z]."
	msgNotDictionary = "Invalid data. Expected a dictionary, but got %s."
)

// Accepted pub_date layouts; values without an offset are taken as UTC.
var datetimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
}

// decodeBody parses a JSON object body. On failure it writes the 400
// response itself and returns false.
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	err := middleware.ParseJSONBody(w, r, v)
	if err == nil {
		return true
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field == "" {
		middleware.FieldErrorResponse(w, models.FieldErrors{
			models.NonFieldErrors: {fmt.Sprintf(msgNotDictionary, jsonTypeName(typeErr.Value))},
		})
		return false
	}

	middleware.ErrorResponse(w, http.StatusBadRequest, "JSON parse error - "+err.Error())
	return false
}

func jsonTypeName(value string) string {
	switch value {
	case "array":
		return "list"
	case "string":
		return "str"
	case "number":
		return "int"
	case "bool":
		return "bool"
	}
	return value
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func rawKind(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return "null"
	}
	switch trimmed[0] {
	case '"':
		return "str"
	case '{':
		return "dict"
	case '[':
		return "list"
	case 't', 'f':
		return "bool"
	case 'n':
		return "null"
	}
	return "int"
}

func parseString(raw json.RawMessage, field string, verr *polls.ValidationError) (string, bool) {
	if isNull(raw) {
		verr.Add(field, polls.MsgRequired)
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		verr.Add(field, msgNotString)
		return "", false
	}
	return s, true
}

func parseDatetime(raw json.RawMessage, field string, verr *polls.ValidationError) (time.Time, bool) {
	if isNull(raw) {
		verr.Add(field, polls.MsgRequired)
		return time.Time{}, false
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		s = strings.TrimSpace(s)
		for _, layout := range datetimeLayouts {
			if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
				return t, true
			}
		}
	}

	verr.Add(field, msgBadDatetime)
	return time.Time{}, false
}

func parseStringList(raw json.RawMessage, field string, verr *polls.ValidationError) ([]string, bool) {
	if isNull(raw) {
		verr.Add(field, polls.MsgRequired)
		return nil, false
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		verr.Add(field, fmt.Sprintf(msgNotList, rawKind(raw)))
		return nil, false
	}

	out := make([]string, 0, len(items))
	ok := true
	for i, item := range items {
		var s string
		if isNull(item) || json.Unmarshal(item, &s) != nil {
			verr.Add(field, fmt.Sprintf("Item %d: %s", i+1, msgNotString))
			ok = false
			continue
		}
		out = append(out, s)
	}
	return out, ok
}

// parseInteger accepts JSON integers and strings holding an integer.
func parseInteger(raw json.RawMessage, field string, verr *polls.ValidationError) (int64, bool) {
	if isNull(raw) {
		verr.Add(field, polls.MsgRequired)
		return 0, false
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		s = string(bytes.TrimSpace(raw))
	}

	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		// Whole floats such as 3.0 are allowed
		f, ferr := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if ferr != nil || f != float64(int64(f)) {
			verr.Add(field, msgNotInteger)
			return 0, false
		}
		n = int64(f)
	}
	return n, true
}

// pathID parses the {id} path segment. Anything but a positive integer
// is treated as an unknown route.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
