package policy

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Validate applies defaults and verifies required fields.
func Validate(pol *Policy) error {
	if pol == nil {
		return fmt.Errorf("policy is nil")
	}
	if pol.Server.Name == "" {
		pol.Server.Name = "aws-log-sentinel"
	}
	if pol.Server.Version == "" {
		pol.Server.Version = "0.1.0"
	}
	if pol.Server.Transport == "" {
		pol.Server.Transport = "stdio"
	}
	switch strings.ToLower(strings.TrimSpace(pol.Server.Transport)) {
	case "stdio", "http":
	default:
		return fmt.Errorf("server.transport must be stdio or http")
	}
	if pol.Server.ShutdownTimeout != "" {
		if _, err := time.ParseDuration(pol.Server.ShutdownTimeout); err != nil {
			return fmt.Errorf("server.shutdown_timeout is invalid: %w", err)
		}
	}
	if strings.EqualFold(pol.Server.Transport, "http") {
		if strings.TrimSpace(pol.Server.HTTP.Host) == "" {
			pol.Server.HTTP.Host = "0.0.0.0"
		}
		if pol.Server.HTTP.Port == 0 {
			pol.Server.HTTP.Port = 8080
		}
		if pol.Server.HTTP.Port < 1 || pol.Server.HTTP.Port > 65535 {
			return fmt.Errorf("server.http.port must be between 1 and 65535")
		}
		if pol.Server.HTTP.Path == "" {
			pol.Server.HTTP.Path = "/mcp"
		}
		for _, field := range []struct {
			name  string
			value string
		}{
			{"server.http.read_timeout", pol.Server.HTTP.ReadTimeout},
			{"server.http.write_timeout", pol.Server.HTTP.WriteTimeout},
			{"server.http.idle_timeout", pol.Server.HTTP.IdleTimeout},
		} {
			if field.value == "" {
				continue
			}
			if _, err := time.ParseDuration(field.value); err != nil {
				return fmt.Errorf("%s is invalid: %w", field.name, err)
			}
		}
	}

	if pol.Limits.MaxTotal < 0 {
		return fmt.Errorf("limits.max_total must be >= 0")
	}
	if pol.Limits.RatePerMinute < 0 {
		return fmt.Errorf("limits.rate_per_minute must be >= 0")
	}
	for tool, budget := range pol.Limits.Tools {
		if budget.MaxTotal < 0 || budget.RatePerMinute < 0 {
			return fmt.Errorf("limits.tools[%s] budget must be >= 0", tool)
		}
	}

	names := map[string]struct{}{}
	for i, pattern := range pol.Redaction.Patterns {
		if strings.TrimSpace(pattern.Name) == "" {
			return fmt.Errorf("redaction.patterns[%d].name is required", i)
		}
		if _, exists := names[pattern.Name]; exists {
			return fmt.Errorf("duplicate redaction pattern name: %s", pattern.Name)
		}
		names[pattern.Name] = struct{}{}
		if pattern.Regex == "" {
			return fmt.Errorf("redaction.patterns[%d].regex is required", i)
		}
		if _, err := regexp.Compile(pattern.Regex); err != nil {
			return fmt.Errorf("redaction.patterns[%d].regex is invalid: %w", i, err)
		}
	}

	if pol.Query.PollInterval == "" {
		pol.Query.PollInterval = "1s"
	}
	if _, err := time.ParseDuration(pol.Query.PollInterval); err != nil {
		return fmt.Errorf("query.poll_interval is invalid: %w", err)
	}
	if pol.Query.MaxPollAttempts == 0 {
		pol.Query.MaxPollAttempts = 30
	}
	if pol.Query.MaxPollAttempts < 1 {
		return fmt.Errorf("query.max_poll_attempts must be >= 1")
	}

	return nil
}
