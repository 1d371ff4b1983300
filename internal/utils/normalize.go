package utils

import (
	"errors"
	"strings"
	"time"
)

// NormalizeQuery приводит поисковую строку к виду для сравнения:
// без крайних пробелов, в нижнем регистре
func NormalizeQuery(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// ContainsFold reports whether needle, already normalized, occurs in s
// ignoring case.
func ContainsFold(s, needle string) bool {
	return strings.Contains(strings.ToLower(s), needle)
}

var ErrInvalidTime = errors.New("invalid time format")

func ParseTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"2006-01-02",
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, ErrInvalidTime
}
