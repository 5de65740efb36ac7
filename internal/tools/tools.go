// Package tools implements the read-only diagnostic operations exposed
// over MCP: recent error retrieval, deployment status, and log group
// discovery. Each tool validates its input, clamps it to safe bounds,
// and returns a plain struct ready for response normalization.
package tools

import (
	"time"

	"github.com/cloudsentry/aws-sentinel/internal/protocol"
)

const (
	// maxMessageLength caps a single log message in tool output.
	maxMessageLength = 500

	// DefaultPollInterval is the delay between query status checks.
	DefaultPollInterval = time.Second
	// DefaultMaxPollAttempts caps status checks before giving up.
	DefaultMaxPollAttempts = 30
)

// errorQuery is the Logs Insights query for recent error retrieval.
// The filter is case-insensitive and matches common failure markers
// across languages and runtimes.
const errorQuery = `fields @timestamp, @message
| filter @message like /(?i)(ERROR|Exception|CRITICAL|FATAL|Traceback)/
| sort @timestamp desc
| limit 20`

func truncateMessage(message string) string {
	if len(message) <= maxMessageLength {
		return message
	}
	return message[:maxMessageLength] + "..."
}

func requireName(value, field string) error {
	if value == "" {
		return protocol.Errorf(protocol.KindInvalidArgument, "%s must not be empty", field)
	}
	return nil
}
