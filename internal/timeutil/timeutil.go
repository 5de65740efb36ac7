package timeutil

import (
	"fmt"
	"strings"
	"time"
)

// ParseDurationOrDefault parses duration and returns def on empty or invalid value.
func ParseDurationOrDefault(value string, def time.Duration) time.Duration {
	if strings.TrimSpace(value) == "" {
		return def
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return def
	}
	return parsed
}

// FormatWindow renders a query window as a human-readable range.
func FormatWindow(start, end time.Time, minutes int) string {
	return fmt.Sprintf("%s to %s (%d minutes)",
		start.UTC().Format(time.RFC3339),
		end.UTC().Format(time.RFC3339),
		minutes)
}
