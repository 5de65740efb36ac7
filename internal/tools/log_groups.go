package tools

import (
	"context"
	"strings"

	"github.com/cloudsentry/aws-sentinel/internal/backend"
	"github.com/cloudsentry/aws-sentinel/internal/bounds"
	"github.com/cloudsentry/aws-sentinel/internal/protocol"
)

// LogGroupsTool lists available CloudWatch log groups.
type LogGroupsTool struct {
	// Backend performs the log group lookups.
	Backend backend.Client
}

// LogGroupsInput is the tool input.
type LogGroupsInput struct {
	// Prefix filters log groups by name prefix. Optional.
	Prefix string `json:"prefix,omitempty"`
}

// LogGroupsOutput is the tool result.
type LogGroupsOutput struct {
	Status    string   `json:"status"`
	LogGroups []string `json:"log_groups"`
	Count     int      `json:"count"`
	Truncated bool     `json:"truncated"`
}

// Run lists log groups, capped to the maximum result count. Truncated
// reports whether more groups exist beyond the cap.
func (t *LogGroupsTool) Run(ctx context.Context, in LogGroupsInput) (any, error) {
	// Ask for one extra row so truncation is detectable without a
	// second call.
	names, err := t.Backend.ListLogGroups(ctx, strings.TrimSpace(in.Prefix), bounds.MaxResults+1)
	if err != nil {
		return nil, err
	}

	limit := bounds.ClampLimit(len(names))
	truncated := len(names) > limit
	if truncated {
		names = names[:limit]
	}
	if names == nil {
		names = []string{}
	}

	return LogGroupsOutput{
		Status:    protocol.StatusSuccess,
		LogGroups: names,
		Count:     len(names),
		Truncated: truncated,
	}, nil
}
