package policy

// Policy is the top-level YAML configuration.
type Policy struct {
	// Server describes the MCP server settings.
	Server ServerPolicy `yaml:"server"`
	// Limits configures tool usage budgets.
	Limits LimitsPolicy `yaml:"limits"`
	// Redaction adds custom redaction patterns.
	Redaction RedactionPolicy `yaml:"redaction"`
	// Query tunes log query polling.
	Query QueryPolicy `yaml:"query"`
}

// ServerPolicy defines MCP server settings.
type ServerPolicy struct {
	// Name is the MCP server name.
	Name string `yaml:"name"`
	// Version is the MCP server version.
	Version string `yaml:"version"`
	// Transport selects the server transport ("http" or "stdio").
	Transport string `yaml:"transport"`
	// ShutdownTimeout overrides graceful shutdown duration.
	ShutdownTimeout string `yaml:"shutdown_timeout"`
	// HTTP configures HTTP transport.
	HTTP HTTPPolicy `yaml:"http"`
}

// HTTPPolicy configures the HTTP transport.
type HTTPPolicy struct {
	// Host is the HTTP listen host.
	Host string `yaml:"host"`
	// Port is the HTTP listen port.
	Port int `yaml:"port"`
	// Path is the MCP HTTP endpoint path.
	Path string `yaml:"path"`
	// ReadTimeout limits request read time.
	ReadTimeout string `yaml:"read_timeout"`
	// WriteTimeout limits response write time.
	WriteTimeout string `yaml:"write_timeout"`
	// IdleTimeout controls idle connections.
	IdleTimeout string `yaml:"idle_timeout"`
	// Stateless disables session tracking.
	Stateless bool `yaml:"stateless"`
}

// LimitsPolicy configures usage budgets enforced before tool execution.
type LimitsPolicy struct {
	// Enabled toggles limit enforcement.
	Enabled bool `yaml:"enabled"`
	// MaxTotal limits total tool calls across the process lifetime.
	MaxTotal int `yaml:"max_total"`
	// RatePerMinute limits calls per minute per tool.
	RatePerMinute int `yaml:"rate_per_minute"`
	// Tools overrides budgets for individual tools.
	Tools map[string]BudgetPolicy `yaml:"tools"`
}

// BudgetPolicy overrides the usage budget for a single tool.
type BudgetPolicy struct {
	// MaxTotal limits total calls for this tool.
	MaxTotal int `yaml:"max_total"`
	// RatePerMinute limits calls per minute for this tool.
	RatePerMinute int `yaml:"rate_per_minute"`
}

// RedactionPolicy adds custom patterns to the built-in redaction set.
type RedactionPolicy struct {
	// Patterns lists additional redaction rules.
	Patterns []PatternPolicy `yaml:"patterns"`
}

// PatternPolicy defines one custom redaction rule.
type PatternPolicy struct {
	// Name identifies the rule.
	Name string `yaml:"name"`
	// Regex is the pattern to match.
	Regex string `yaml:"regex"`
	// Replacement substitutes matched text.
	Replacement string `yaml:"replacement"`
}

// QueryPolicy tunes log query polling behavior.
type QueryPolicy struct {
	// PollInterval is the delay between query status checks.
	PollInterval string `yaml:"poll_interval"`
	// MaxPollAttempts caps status checks before the query is abandoned.
	MaxPollAttempts int `yaml:"max_poll_attempts"`
}
