// Package redaction scrubs sensitive data from text before it reaches the
// agent. Profiles bundle regex patterns; the default profile is always
// loaded and extra patterns can be added from the policy file. The engine
// is immutable after construction and safe for concurrent use.
package redaction

import (
	"fmt"
	"regexp"
	"strings"
)

// Pattern is a single redaction rule.
type Pattern struct {
	// Name identifies the rule, e.g. "credit_card".
	Name string
	// Regexp matches the sensitive data.
	Regexp *regexp.Regexp
	// Replacement is the substitution text, e.g. "{{CREDIT_CARD}}".
	Replacement string
}

// Profile is a named set of redaction rules.
type Profile struct {
	// Name identifies the profile.
	Name string
	// Patterns are applied in order.
	Patterns []Pattern
}

// Engine applies all loaded profiles to input text.
type Engine struct {
	profiles []Profile
}

// NewEngine builds an engine with the default profile plus any extras.
func NewEngine(extra ...Profile) *Engine {
	profiles := make([]Profile, 0, len(extra)+1)
	profiles = append(profiles, defaultProfile())
	profiles = append(profiles, extra...)
	return &Engine{profiles: profiles}
}

// CompilePattern builds a Pattern from raw policy values.
func CompilePattern(name, expr, replacement string) (Pattern, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return Pattern{}, fmt.Errorf("redaction pattern %q: %w", name, err)
	}
	return Pattern{Name: name, Regexp: re, Replacement: replacement}, nil
}

// Profiles returns the names of the loaded profiles.
func (e *Engine) Profiles() []string {
	names := make([]string, 0, len(e.profiles))
	for _, p := range e.profiles {
		names = append(names, p.Name)
	}
	return names
}

// Redact replaces sensitive data in text. The second return value
// reports whether anything was replaced.
func (e *Engine) Redact(text string) (string, bool) {
	if text == "" {
		return text, false
	}
	original := text
	for _, profile := range e.profiles {
		for _, pattern := range profile.Patterns {
			text = pattern.Regexp.ReplaceAllString(text, pattern.Replacement)
		}
	}
	return text, text != original
}

var sensitiveKeySubstrings = []string{
	"token",
	"password",
	"passwd",
	"pwd",
	"passphrase",
	"authorization",
	"apikey",
	"api_key",
	"access_key",
	"private_key",
	"secret",
	"credential",
	"cookie",
	"session",
	"jwt",
	"bearer",
	"signature",
}

// Arguments returns a copy of tool arguments with sensitive values
// replaced, for safe logging.
func Arguments(values map[string]any) map[string]any {
	if values == nil {
		return nil
	}
	redacted := make(map[string]any, len(values))
	for key, value := range values {
		if isSensitiveKey(key) {
			redacted[key] = "***"
			continue
		}
		redacted[key] = value
	}
	return redacted
}

func isSensitiveKey(key string) bool {
	lower := strings.ToLower(strings.TrimSpace(key))
	for _, part := range sensitiveKeySubstrings {
		if strings.Contains(lower, part) {
			return true
		}
	}
	return false
}
