package shared

import (
	"strings"
	"time"

	"vera/internal/domain/registro"
)

// ParseDate accepts RFC3339 or YYYY-MM-DD and returns the calendar date as
// YYYY-MM-DD. Empty input yields "".
func ParseDate(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed.Format(registro.DateLayout), nil
	}
	parsed, err := time.Parse(registro.DateLayout, value)
	if err != nil {
		return "", err
	}
	return parsed.Format(registro.DateLayout), nil
}
