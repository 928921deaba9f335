package observability

import (
	"strings"
	"unicode"
)

const (
	maxRouteLen  = 180
	maxMethodLen = 10
	maxHeaderLen = 96
	maxAgentLen  = 160
	maxFieldLen  = 256
)

// clip strips control characters so request data cannot forge log lines, then caps
// the result at limit runes.
func clip(value string, limit int) string {
	if limit <= 0 {
		limit = maxFieldLen
	}
	var b strings.Builder
	n := 0
	for _, r := range value {
		if unicode.IsControl(r) {
			continue
		}
		if n == limit {
			break
		}
		b.WriteRune(r)
		n++
	}
	return b.String()
}

// SanitizeRoute cleans a path or chi route pattern for logging.
func SanitizeRoute(route string) string {
	if route == "" {
		return "/"
	}
	return clip(route, maxRouteLen)
}

// SanitizeMethod cleans an HTTP method for logging.
func SanitizeMethod(method string) string {
	return clip(method, maxMethodLen)
}

// SanitizeHeader cleans a client-supplied header value such as HX-Target.
func SanitizeHeader(value string) string {
	return clip(strings.TrimSpace(value), maxHeaderLen)
}

// SanitizeUserAgent trims a user agent to a loggable size.
func SanitizeUserAgent(ua string) string {
	return clip(strings.TrimSpace(ua), maxAgentLen)
}
