// Package format renders backend values for display.
package format

import (
	"fmt"
	"strings"
	"time"
)

var frenchMonths = [...]string{
	"janvier", "février", "mars", "avril", "mai", "juin",
	"juillet", "août", "septembre", "octobre", "novembre", "décembre",
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006-01",
}

// Date renders a backend completion date. Values that are not dates, such as "Printemps 2024",
// are shown as given.
func Date(raw, lang string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	for i, layout := range dateLayouts {
		t, err := time.Parse(layout, raw)
		if err != nil {
			continue
		}
		monthOnly := i == len(dateLayouts)-1
		return FmtDate(t, lang, monthOnly)
	}
	return raw
}

// FmtDate formats t in a locale-friendly long form, optionally without the day.
func FmtDate(t time.Time, lang string, monthOnly bool) string {
	switch strings.ToLower(lang) {
	case "fr":
		month := frenchMonths[t.Month()-1]
		if monthOnly {
			return fmt.Sprintf("%s %d", month, t.Year())
		}
		return fmt.Sprintf("%d %s %d", t.Day(), month, t.Year())
	default:
		if monthOnly {
			return t.Format("January 2006")
		}
		return t.Format("January 2, 2006")
	}
}

// ISODate returns the date part of a parseable backend date, or "" when the value is free text.
func ISODate(raw string) string {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return ""
}

// TelHref turns a display phone number into a tel: URI, using e164 when given.
func TelHref(display, e164 string) string {
	if e164 = strings.TrimSpace(e164); e164 != "" {
		return "tel:" + e164
	}
	var b strings.Builder
	for _, r := range display {
		if (r >= '0' && r <= '9') || r == '+' {
			b.WriteRune(r)
		}
	}
	return "tel:" + b.String()
}
