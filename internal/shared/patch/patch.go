// Package patch applies JSON partial updates through an explicit allow-list.
package patch

import (
	"bytes"
	"encoding/json"
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"

	"jobboard-backend/internal/shared/apperr"
	"jobboard-backend/internal/shared/validate"
)

// Setter decodes one raw JSON value into target.
type Setter[T any] func(target *T, raw json.RawMessage) error

// Fields maps JSON keys to setters.
type Fields[T any] map[string]Setter[T]

var (
	errNotString = errors.New("must be a string")
	errEmpty     = errors.New("must not be empty")
	errNotList   = errors.New("must be a list of strings")
	errNotInt    = errors.New("must be a whole number")
	errNegative  = errors.New("must not be negative")
	errNotDate   = errors.New("must be a date (YYYY-MM-DD or RFC 3339)")
)

// Keys builds a set for Apply's ignored parameter.
func Keys(keys ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return set
}

// Apply decodes patch onto a copy of target. Keys in ignored are dropped
// silently, any key in neither set rejects the whole patch. target is only
// modified when every field applies cleanly.
func Apply[T any](target *T, patch map[string]json.RawMessage, fields Fields[T], ignored map[string]struct{}) error {
	var unknown []string
	for key := range patch {
		if _, ok := fields[key]; ok {
			continue
		}
		if _, ok := ignored[key]; ok {
			continue
		}
		unknown = append(unknown, key)
	}
	if len(unknown) > 0 {
		return apperr.UnknownFields(unknown)
	}

	keys := make([]string, 0, len(patch))
	for key := range patch {
		if _, ok := fields[key]; ok {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	next := *target
	var issues []apperr.FieldIssue
	for _, key := range keys {
		if err := fields[key](&next, patch[key]); err != nil {
			issues = append(issues, apperr.FieldIssue{Field: key, Issue: err.Error()})
		}
	}
	if len(issues) > 0 {
		return apperr.Validation("", issues...)
	}
	*target = next
	return nil
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func decodeString(raw json.RawMessage) (string, error) {
	if isNull(raw) {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", errNotString
	}
	return strings.TrimSpace(s), nil
}

// String sets a free-text field; null clears it.
func String[T any](get func(*T) *string) Setter[T] {
	return func(target *T, raw json.RawMessage) error {
		s, err := decodeString(raw)
		if err != nil {
			return err
		}
		*get(target) = s
		return nil
	}
}

// RequiredString rejects empty values.
func RequiredString[T any](get func(*T) *string) Setter[T] {
	return func(target *T, raw json.RawMessage) error {
		s, err := decodeString(raw)
		if err != nil {
			return err
		}
		if s == "" {
			return errEmpty
		}
		*get(target) = s
		return nil
	}
}

// OneOf accepts one of allowed, matched case-insensitively and stored in the
// spelling given in allowed.
func OneOf[T any](get func(*T) *string, allowed ...string) Setter[T] {
	return func(target *T, raw json.RawMessage) error {
		s, err := decodeString(raw)
		if err != nil {
			return err
		}
		canonical, ok := Canonical(s, allowed...)
		if !ok {
			return errors.New("must be one of: " + strings.Join(allowed, ", "))
		}
		*get(target) = canonical
		return nil
	}
}

// Canonical returns the entry of allowed equal to value ignoring case.
func Canonical(value string, allowed ...string) (string, bool) {
	value = strings.TrimSpace(value)
	for _, a := range allowed {
		if strings.EqualFold(a, value) {
			return a, true
		}
	}
	return "", false
}

// StringList accepts a JSON array of strings or a comma separated string.
// Blank entries are dropped and order is kept.
func StringList[T any](get func(*T) *[]string) Setter[T] {
	return func(target *T, raw json.RawMessage) error {
		if isNull(raw) {
			*get(target) = []string{}
			return nil
		}
		var items []string
		if err := json.Unmarshal(raw, &items); err != nil {
			var joined string
			if err := json.Unmarshal(raw, &joined); err != nil {
				return errNotList
			}
			items = strings.Split(joined, ",")
		}
		out := make([]string, 0, len(items))
		for _, item := range items {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
		*get(target) = out
		return nil
	}
}

func decodeInt(raw json.RawMessage) (int, bool, error) {
	if isNull(raw) {
		return 0, false, nil
	}
	var n json.Number
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return 0, false, errNotInt
	}
	switch val := v.(type) {
	case json.Number:
		n = val
	case string:
		val = strings.TrimSpace(val)
		if val == "" {
			return 0, false, nil
		}
		n = json.Number(val)
	default:
		return 0, false, errNotInt
	}
	i, err := strconv.Atoi(n.String())
	if err != nil {
		return 0, false, errNotInt
	}
	if i < 0 {
		return 0, false, errNegative
	}
	return i, true, nil
}

// Int accepts a non-negative integer or numeric string; null resets to 0.
func Int[T any](get func(*T) *int) Setter[T] {
	return func(target *T, raw json.RawMessage) error {
		i, _, err := decodeInt(raw)
		if err != nil {
			return err
		}
		*get(target) = i
		return nil
	}
}

// OptionalInt is Int where null or "" clears the value.
func OptionalInt[T any](get func(*T) **int) Setter[T] {
	return func(target *T, raw json.RawMessage) error {
		i, ok, err := decodeInt(raw)
		if err != nil {
			return err
		}
		if !ok {
			*get(target) = nil
			return nil
		}
		*get(target) = &i
		return nil
	}
}

// Date accepts YYYY-MM-DD or an RFC 3339 timestamp.
func Date[T any](get func(*T) *time.Time) Setter[T] {
	return func(target *T, raw json.RawMessage) error {
		s, err := decodeString(raw)
		if err != nil {
			return errNotDate
		}
		t, ok := validate.ParseDate(s)
		if !ok {
			return errNotDate
		}
		*get(target) = t
		return nil
	}
}
