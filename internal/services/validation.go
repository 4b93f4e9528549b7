package services

import (
	"strings"
	"time"
	"unicode/utf8"

	necx_errors "necx-chat/pkg/errors"
)

// requireText trims value and checks it is present and at most max runes long.
func requireText(value string, max int, requiredMsg, tooLongMsg string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", necx_errors.Validation(requiredMsg)
	}
	if max > 0 && utf8.RuneCountInString(trimmed) > max {
		return "", necx_errors.Validation(tooLongMsg)
	}
	return trimmed, nil
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// parseDate accepts ISO-8601 dates and datetimes. Values without a zone are read as UTC.
// An empty string yields nil.
func parseDate(field, value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, necx_errors.Validationf("%s must be a valid date", field)
}
