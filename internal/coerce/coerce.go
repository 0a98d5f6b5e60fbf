// Package coerce holds the shared type-coercion helpers used during record
// normalization. Every function is total: whatever the input, the result is
// a valid value of the documented type, never NaN, never a panic.
package coerce

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"refnorm/internal/models"
)

// Date format patterns (ordered by specificity - most specific first)
var (
	dateOnlyRegex      = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`) // 2006-01-02
	unixTimestampRegex = regexp.MustCompile(`^1[0-9]{9}$`)         // seconds since 1970
	unixMilliRegex     = regexp.MustCompile(`^1[0-9]{12}$`)        // milliseconds since 1970
)

var dateTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// Number coerces v to a float64. Numbers pass through as-is, numeric strings
// are parsed, and anything else (null, empty string, non-numeric string,
// booleans, containers) yields def. The result is always finite.
func Number(v models.JSONValue, def float64) float64 {
	switch t := v.(type) {
	case float64:
		return finiteOr(t, def)
	case float32:
		return finiteOr(float64(t), def)
	case int:
		return float64(t)
	case int32:
		return float64(t)
	case int64:
		return float64(t)
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return def
		}
		return finiteOr(f, def)
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return def
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return def
		}
		return finiteOr(f, def)
	default:
		return def
	}
}

// Int coerces v to an int64, truncating fractional values. Non-numeric
// inputs yield def.
func Int(v models.JSONValue, def int64) int64 {
	switch t := v.(type) {
	case int:
		return int64(t)
	case int32:
		return int64(t)
	case int64:
		return t
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return def
		}
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i
		}
	}
	f := Number(v, math.NaN())
	if math.IsNaN(f) {
		return def
	}
	return int64(f)
}

// String coerces v to a string. Numbers render in their shortest form so
// that a numeric id like 42 becomes "42"; null and containers yield def.
func String(v models.JSONValue, def string) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(t, 10)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	default:
		return def
	}
}

// NonEmptyString is String restricted to non-blank results: a present but
// empty (or whitespace-only) string still falls back to def. Fallback
// chains use it so that "" counts as absent.
func NonEmptyString(v models.JSONValue, def string) string {
	s := String(v, "")
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

// Bool coerces v to a bool, accepting booleans and the usual string forms.
func Bool(v models.JSONValue, def bool) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		if b, err := strconv.ParseBool(strings.TrimSpace(t)); err == nil {
			return b
		}
	}
	return def
}

// Date attempts to interpret v as a point in time. Date-only literals are
// pinned to noon UTC so a timezone shift can never move them to the
// neighboring day. Unix second/millisecond timestamps and the common ISO
// datetime layouts are accepted; anything else reports false.
func Date(v models.JSONValue) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return time.Time{}, false
		}
		if dateOnlyRegex.MatchString(s) {
			d, err := time.Parse("2006-01-02", s)
			if err != nil {
				return time.Time{}, false
			}
			return time.Date(d.Year(), d.Month(), d.Day(), 12, 0, 0, 0, time.UTC), true
		}
		for _, layout := range dateTimeLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				return parsed, true
			}
		}
		if unixTimestampRegex.MatchString(s) || unixMilliRegex.MatchString(s) {
			return fromUnix(s)
		}
		return time.Time{}, false
	case json.Number:
		return fromUnix(t.String())
	case float64:
		return fromUnix(strconv.FormatFloat(t, 'f', -1, 64))
	default:
		return time.Time{}, false
	}
}

// RequiredDate is Date with a current-time default, for fields a record
// must always carry (e.g. the order date).
func RequiredDate(v models.JSONValue) time.Time {
	if t, ok := Date(v); ok {
		return t
	}
	return time.Now().UTC()
}

// OptionalDate is Date with a nil default, for fields that may legitimately
// be absent (e.g. a due date).
func OptionalDate(v models.JSONValue) *time.Time {
	if t, ok := Date(v); ok {
		return &t
	}
	return nil
}

func fromUnix(s string) (time.Time, bool) {
	if unixTimestampRegex.MatchString(s) {
		secs, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return time.Time{}, false
		}
		return time.Unix(secs, 0).UTC(), true
	}
	if unixMilliRegex.MatchString(s) {
		millis, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return time.Time{}, false
		}
		return time.UnixMilli(millis).UTC(), true
	}
	return time.Time{}, false
}

func finiteOr(f, def float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return def
	}
	return f
}
