package views

import (
	"strings"
	"time"
)

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02",
	"January 2, 2006",
	"Jan 2, 2006",
}

// ParseDate parses the date formats accepted in the index and front matter.
func ParseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDate renders raw in the long form of msgs' language, or the invalid
// date marker when raw cannot be parsed.
func FormatDate(raw string, msgs Messages) string {
	t, ok := ParseDate(raw)
	if !ok {
		return msgs.InvalidDate
	}
	return t.Format(msgs.DateLayout)
}
