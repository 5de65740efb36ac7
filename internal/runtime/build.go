// Package runtime assembles the MCP server: tool registration, guard
// enforcement, audit, and response normalization.
package runtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/cloudsentry/aws-sentinel/internal/audit"
	"github.com/cloudsentry/aws-sentinel/internal/backend"
	"github.com/cloudsentry/aws-sentinel/internal/guard"
	"github.com/cloudsentry/aws-sentinel/internal/policy"
	"github.com/cloudsentry/aws-sentinel/internal/protocol"
	"github.com/cloudsentry/aws-sentinel/internal/redaction"
	"github.com/cloudsentry/aws-sentinel/internal/timeutil"
	"github.com/cloudsentry/aws-sentinel/internal/tools"
)

// Builder constructs an MCP server over the backend.
type Builder struct {
	// Logger is used for structured logging.
	Logger *slog.Logger
	// Audit records tool events.
	Audit audit.Logger
	// Backend performs the AWS lookups.
	Backend backend.Client
	// Redactor scrubs sensitive values from logs and tool output.
	Redactor *redaction.Engine
	// Guards run before every tool call.
	Guards guard.Chain
}

// Build creates an MCP server with the diagnostic tools registered.
func (b Builder) Build(pol *policy.Policy) (*mcp.Server, error) {
	if b.Backend == nil {
		return nil, fmt.Errorf("backend is nil")
	}

	server := mcp.NewServer(&mcp.Implementation{
		Name:    pol.Server.Name,
		Version: pol.Server.Version,
	}, nil)

	readOnly := &mcp.ToolAnnotations{
		ReadOnlyHint:   true,
		IdempotentHint: true,
	}

	recentErrors := &tools.RecentErrorsTool{
		Backend:         b.Backend,
		Redactor:        b.Redactor,
		PollInterval:    timeutil.ParseDurationOrDefault(pol.Query.PollInterval, tools.DefaultPollInterval),
		MaxPollAttempts: pol.Query.MaxPollAttempts,
	}
	registerTool(b, server, &mcp.Tool{
		Name:        "check_recent_errors",
		Description: "Search a CloudWatch log group for error messages from the last N minutes (1-60, default 15).",
		Annotations: readOnly,
	}, recentErrors.Run)

	deploymentStatus := &tools.DeploymentStatusTool{Backend: b.Backend}
	registerTool(b, server, &mcp.Tool{
		Name:        "check_deployment_status",
		Description: "Report the most recent CodeDeploy deployment for an application, including failure details.",
		Annotations: readOnly,
	}, deploymentStatus.Run)

	logGroups := &tools.LogGroupsTool{Backend: b.Backend}
	registerTool(b, server, &mcp.Tool{
		Name:        "list_log_groups",
		Description: "List available CloudWatch log groups, optionally filtered by name prefix (up to 20).",
		Annotations: readOnly,
	}, logGroups.Run)

	return server, nil
}

// registerTool wires one tool through logging, audit, guard checks, and
// response normalization. Tool failures surface as structured error
// payloads, never as MCP protocol errors.
func registerTool[In any](b Builder, server *mcp.Server, tool *mcp.Tool, run func(context.Context, In) (any, error)) {
	mcp.AddTool(server, tool, func(ctx context.Context, _ *mcp.CallToolRequest, input In) (*mcp.CallToolResult, any, error) {
		if b.Logger != nil {
			b.Logger.Info("tool call", "tool", tool.Name, "args", redactedArgs(input))
		}
		if b.Audit != nil {
			b.Audit.Record(ctx, audit.Event{Type: "tool_call", Tool: tool.Name})
		}

		if len(b.Guards.Guards) > 0 {
			decision, err := b.Guards.Check(ctx, guard.Request{Tool: tool.Name})
			if err == nil && !decision.Allowed {
				err = protocol.Errorf(protocol.KindRateLimited, "%s", decision.Reason)
			}
			if err != nil {
				if b.Audit != nil {
					b.Audit.Record(ctx, audit.Event{Type: "limit_denied", Tool: tool.Name, Kind: string(protocol.KindOf(err)), Reason: err.Error()})
				}
				return textResult(protocol.Normalize(nil, err))
			}
		}

		payload, err := run(ctx, input)
		resp := protocol.Normalize(payload, err)
		if err != nil {
			if b.Logger != nil {
				b.Logger.Warn("tool failed", "tool", tool.Name, "kind", string(protocol.KindOf(err)), "error", err)
			}
			if b.Audit != nil {
				b.Audit.Record(ctx, audit.Event{Type: "tool_error", Tool: tool.Name, Kind: string(protocol.KindOf(err)), Reason: err.Error()})
			}
			return textResult(resp)
		}
		if b.Audit != nil {
			b.Audit.Record(ctx, audit.Event{Type: "tool_ok", Tool: tool.Name})
		}
		return textResult(resp)
	})
}

// textResult renders the normalized response as pretty-printed JSON
// text content.
func textResult(resp any) (*mcp.CallToolResult, any, error) {
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("marshal response: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}, nil, nil
}

// redactedArgs converts tool input into a loggable map with sensitive
// values masked.
func redactedArgs(input any) map[string]any {
	data, err := json.Marshal(input)
	if err != nil {
		return nil
	}
	var args map[string]any
	if err := json.Unmarshal(data, &args); err != nil {
		return nil
	}
	return redaction.Arguments(args)
}
