package tools

import (
	"context"
	"strings"
	"time"

	"github.com/cloudsentry/aws-sentinel/internal/backend"
	"github.com/cloudsentry/aws-sentinel/internal/bounds"
	"github.com/cloudsentry/aws-sentinel/internal/protocol"
	"github.com/cloudsentry/aws-sentinel/internal/redaction"
	"github.com/cloudsentry/aws-sentinel/internal/timeutil"
)

// RecentErrorsTool queries a CloudWatch log group for recent error
// messages via Logs Insights.
type RecentErrorsTool struct {
	// Backend performs the log queries.
	Backend backend.Client
	// Redactor scrubs sensitive values from log messages. Optional.
	Redactor *redaction.Engine
	// PollInterval is the delay between query status checks.
	PollInterval time.Duration
	// MaxPollAttempts caps status checks before the query is abandoned.
	MaxPollAttempts int
	// Now supplies the current time, overridable in tests.
	Now func() time.Time
}

// RecentErrorsInput is the tool input.
type RecentErrorsInput struct {
	// LogGroupName is the CloudWatch log group to search.
	LogGroupName string `json:"log_group_name"`
	// Minutes is the lookback window in minutes. Defaults to 15,
	// clamped to [1, 60].
	Minutes int `json:"minutes,omitempty"`
}

// RecentErrorsOutput is the tool result.
type RecentErrorsOutput struct {
	Status     string             `json:"status"`
	LogGroup   string             `json:"log_group"`
	TimeRange  string             `json:"time_range"`
	ErrorCount int                `json:"error_count"`
	Errors     []backend.LogEntry `json:"errors"`
	QueryID    string             `json:"query_id,omitempty"`
	Redacted   bool               `json:"redacted,omitempty"`
}

// Run executes the query and collects matching log entries.
func (t *RecentErrorsTool) Run(ctx context.Context, in RecentErrorsInput) (any, error) {
	if err := requireName(strings.TrimSpace(in.LogGroupName), "log_group_name"); err != nil {
		return nil, err
	}
	if in.Minutes < 0 {
		return nil, protocol.Errorf(protocol.KindInvalidArgument, "minutes must be positive, got %d", in.Minutes)
	}
	minutes := in.Minutes
	if minutes == 0 {
		minutes = bounds.DefaultLookbackMinutes
	}

	now := time.Now
	if t.Now != nil {
		now = t.Now
	}
	window := bounds.NewWindow(now(), minutes)
	logGroup := strings.TrimSpace(in.LogGroupName)

	queryID, err := t.Backend.StartQuery(ctx, logGroup, window.Start, window.End, errorQuery)
	if err != nil {
		return nil, err
	}
	if err := t.awaitCompletion(ctx, queryID); err != nil {
		return nil, err
	}

	entries, err := t.Backend.QueryResults(ctx, queryID)
	if err != nil {
		return nil, err
	}
	if limit := bounds.ClampLimit(len(entries)); len(entries) > limit {
		entries = entries[:limit]
	}

	redacted := false
	for i := range entries {
		message := truncateMessage(entries[i].Message)
		if t.Redactor != nil {
			scrubbed, hit := t.Redactor.Redact(message)
			message = scrubbed
			redacted = redacted || hit
		}
		entries[i].Message = message
	}
	if entries == nil {
		entries = []backend.LogEntry{}
	}

	return RecentErrorsOutput{
		Status:     protocol.StatusSuccess,
		LogGroup:   logGroup,
		TimeRange:  timeutil.FormatWindow(window.Start, window.End, window.Minutes()),
		ErrorCount: len(entries),
		Errors:     entries,
		QueryID:    queryID,
		Redacted:   redacted,
	}, nil
}

// awaitCompletion polls query status until the query completes, reaches
// a terminal failure, or the attempt budget runs out.
func (t *RecentErrorsTool) awaitCompletion(ctx context.Context, queryID string) error {
	interval := t.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	attempts := t.MaxPollAttempts
	if attempts <= 0 {
		attempts = DefaultMaxPollAttempts
	}

	for i := 0; i < attempts; i++ {
		status, err := t.Backend.QueryStatus(ctx, queryID)
		if err != nil {
			return err
		}
		if status == backend.QueryComplete {
			return nil
		}
		if status.Terminal() {
			return protocol.Errorf(protocol.KindBackendQueryFailed, "query %s reached terminal state %s", queryID, status)
		}

		select {
		case <-ctx.Done():
			return protocol.Errorf(protocol.KindQueryTimeout, "query %s interrupted: %v", queryID, ctx.Err())
		case <-time.After(interval):
		}
	}
	return protocol.Errorf(protocol.KindQueryTimeout, "query %s did not complete after %d attempts", queryID, attempts)
}
