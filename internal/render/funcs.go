package render

import (
	"os"
	"strings"
	"text/template"
)

// FuncMap returns template helpers for YAML rendering.
func FuncMap(tracker *EnvTracker) template.FuncMap {
	return template.FuncMap{
		"env": func(key string) (string, error) {
			if tracker != nil {
				tracker.markUsed(key)
			}
			value, ok := os.LookupEnv(key)
			if !ok {
				if tracker != nil {
					tracker.markMissing(key)
				}
				return "", nil
			}
			return value, nil
		},
		"envOr": func(key, def string) string {
			if tracker != nil {
				tracker.markUsed(key)
			}
			if value, ok := os.LookupEnv(key); ok {
				return value
			}
			return def
		},
		"default": func(def, value string) string {
			if value == "" {
				return def
			}
			return value
		},
		"lower": strings.ToLower,
		"upper": strings.ToUpper,
	}
}
