package redaction

import "regexp"

// defaultProfile covers globally common sensitive data: payment card
// numbers, US SSNs, cloud credentials, bearer tokens, and key/value
// secrets. It is always loaded.
//
// The patterns are RE2-compatible; rules that would need lookaround to
// stay precise (e.g. undashed SSNs) are omitted rather than matching any
// nine-digit number.
func defaultProfile() Profile {
	return Profile{
		Name: "default",
		Patterns: []Pattern{
			{
				Name: "credit_card",
				Regexp: regexp.MustCompile(`\b(?:` +
					`4[0-9]{12}(?:[0-9]{3})?|` + // Visa
					`5[1-5][0-9]{14}|` + // Mastercard
					`3[47][0-9]{13}|` + // Amex
					`6(?:011|5[0-9]{2})[0-9]{12}|` + // Discover
					`(?:2131|1800|35\d{3})\d{11}` + // JCB
					`)\b`),
				Replacement: "{{CREDIT_CARD}}",
			},
			{
				Name:        "credit_card_formatted",
				Regexp:      regexp.MustCompile(`\b(?:\d{4}[-\s]){3}\d{4}\b`),
				Replacement: "{{CREDIT_CARD}}",
			},
			{
				Name:        "ssn",
				Regexp:      regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`),
				Replacement: "{{SSN}}",
			},
			{
				Name:        "aws_access_key",
				Regexp:      regexp.MustCompile(`\b(?:AKIA|ABIA|ACCA|ASIA)[A-Z0-9]{16}\b`),
				Replacement: "{{AWS_ACCESS_KEY}}",
			},
			{
				Name:        "bearer_token",
				Regexp:      regexp.MustCompile(`Bearer\s+eyJ[A-Za-z0-9_-]+\.eyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+`),
				Replacement: "Bearer {{JWT_TOKEN}}",
			},
			{
				Name:        "jwt_token",
				Regexp:      regexp.MustCompile(`\beyJ[A-Za-z0-9_-]{10,}\.eyJ[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}\b`),
				Replacement: "{{JWT_TOKEN}}",
			},
			{
				Name:        "api_key_value",
				Regexp:      regexp.MustCompile(`(?i)(api[_-]?key|apikey|api[_-]?secret|secret[_-]?key|access[_-]?token|auth[_-]?token)\s*[=:]\s*["']?[A-Za-z0-9_\-+=/.]{16,}["']?`),
				Replacement: "$1={{REDACTED_KEY}}",
			},
			{
				Name:        "password_value",
				Regexp:      regexp.MustCompile(`(?i)(password|passwd|pwd)\s*[=:]\s*["']?[^\s"']{4,}["']?`),
				Replacement: "$1={{REDACTED_PASSWORD}}",
			},
			{
				Name:        "private_key",
				Regexp:      regexp.MustCompile(`-----BEGIN\s+(?:RSA\s+)?PRIVATE\s+KEY-----[\s\S]*?-----END\s+(?:RSA\s+)?PRIVATE\s+KEY-----`),
				Replacement: "{{PRIVATE_KEY}}",
			},
			{
				Name:        "github_token",
				Regexp:      regexp.MustCompile(`\bgh[opurs]_[A-Za-z0-9]{36}\b`),
				Replacement: "{{GITHUB_TOKEN}}",
			},
			{
				Name:        "slack_token",
				Regexp:      regexp.MustCompile(`\bxox[baprs]-[A-Za-z0-9-]+\b`),
				Replacement: "{{SLACK_TOKEN}}",
			},
		},
	}
}
