package utils

import (
	"errors"
	"strings"
	"time"

	"github.com/yukikurage/team-task-tracker/internal/constants"
	"gorm.io/datatypes"
)

var ErrInvalidDate = errors.New("date must use the YYYY-MM-DD format")

// ParseDate parses a calendar date in the wire format
func ParseDate(raw string) (datatypes.Date, error) {
	t, err := time.Parse(constants.DateLayout, strings.TrimSpace(raw))
	if err != nil {
		return datatypes.Date{}, ErrInvalidDate
	}
	return datatypes.Date(t), nil
}

// DateOf truncates t to its calendar date in t's own location
func DateOf(t time.Time) datatypes.Date {
	y, m, d := t.Date()
	return datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

// FormatDate renders a date in the wire format
func FormatDate(d datatypes.Date) string {
	return time.Time(d).Format(constants.DateLayout)
}
