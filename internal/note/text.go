package note

import (
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/nleeper/goment"
)

// Layouts accepted by ParseDateTime, tried in order.
const (
	layoutWithSeconds = "2006-01-02T15:04:05"
	layoutNoSeconds   = "2006-01-02T15:04"
)

// markdown-significant characters that need a leading backslash
const markdownPattern = "[\\\\`*_{}\\[\\]()#+\\-.!|]"

// escapeFunc is swappable so the fail-open path in Escape stays testable.
var escapeFunc = escapeMarkdown

func escapeMarkdown(text string) (string, error) {
	re, err := regexp.Compile(markdownPattern)
	if err != nil {
		return "", err
	}
	return re.ReplaceAllString(text, "\\$0"), nil
}

// Escape escapes markdown-significant characters in text. Escaping is
// fail-open: any internal failure is logged and the text comes back
// unescaped rather than breaking note output.
func Escape(text string) string {
	escaped, err := escapeFunc(text)
	if err != nil {
		log.Printf("Error escaping markdown, leaving text as is: %v", err)
		return text
	}
	return escaped
}

// EscapeQuotes replaces every double quote with an escaped one.
func EscapeQuotes(text string) string {
	return strings.ReplaceAll(text, `"`, `\"`)
}

// ParseDateTime parses a timestamp with seconds, falling back to the
// seconds-omitted form. Callers must check the error before using the
// returned time.
func ParseDateTime(s string) (time.Time, error) {
	if t, err := time.Parse(layoutWithSeconds, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(layoutNoSeconds, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unable to parse datetime: %s", s)
}

// parseTimestamp accepts server-encoded timestamps, which may carry a
// timezone, before trying the plain layouts.
func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return ParseDateTime(s)
}

// FormatDate renders the date with moment-style format tokens (including
// day-of-year and week-year tokens) wrapped in double square brackets, the
// wiki-link convention.
func FormatDate(t time.Time, format string) string {
	g, err := goment.New(t)
	if err != nil {
		log.Printf("Error formatting date: %v", err)
		return "[[" + t.Format("2006-01-02") + "]]"
	}
	return "[[" + g.Format(format) + "]]"
}
