package core

import (
	"strings"
	"time"
)

// ParseSlashDate normalizes a slash-delimited "M/D/YYYY" date to
// "YYYY-MM-DD". Month and day are zero-padded; no range validation is
// performed, so out-of-range values pass through reformatted. Input
// that does not split into exactly three parts falls back to today's
// date. Callers must tolerate syntactically well-formed but invalid
// dates downstream.
func ParseSlashDate(raw string) string {
	parts := strings.Split(strings.TrimSpace(raw), "/")
	if len(parts) != 3 {
		return time.Now().Format("2006-01-02")
	}
	month := pad2(strings.TrimSpace(parts[0]))
	day := pad2(strings.TrimSpace(parts[1]))
	year := strings.TrimSpace(parts[2])
	return year + "-" + month + "-" + day
}

// NormalizeDate coerces a raw date field to ISO form: slash-delimited
// dates go through ParseSlashDate, anything else is assumed to be ISO
// already and is passed through trimmed. The in-memory and Sheets
// sources carry ISO dates, the CSV export carries slash dates.
func NormalizeDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.Contains(raw, "/") {
		return ParseSlashDate(raw)
	}
	return raw
}

func pad2(s string) string {
	for len(s) < 2 {
		s = "0" + s
	}
	return s
}
