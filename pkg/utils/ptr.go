package utils

import (
	"strconv"
	"time"

	"github.com/aarondl/null/v8"
)

func ToPtr[T any](v T) *T {
	return &v
}

// NullInt64String renders an optional id the way it appears in a CSV cell.
func NullInt64String(v null.Int64) string {
	if !v.Valid {
		return ""
	}
	return strconv.FormatInt(v.Int64, 10)
}

func NullStringValue(v null.String) string {
	if !v.Valid {
		return ""
	}
	return v.String
}

func NullDateString(v null.Time) string {
	if !v.Valid {
		return ""
	}
	return v.Time.Format(DateLayout)
}

const DateLayout = "2006-01-02"

// Today truncates now to a UTC calendar date.
func Today() time.Time {
	y, m, d := time.Now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
