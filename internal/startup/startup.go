// Package startup verifies backend connectivity before the server
// begins accepting tool calls.
package startup

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cloudsentry/aws-sentinel/internal/backend"
)

const preflightTimeout = 10 * time.Second

// Preflight performs a cheap read against the backend to surface
// credential and connectivity problems at startup instead of on the
// first tool call.
func Preflight(ctx context.Context, client backend.Client, logger *slog.Logger) error {
	ctx, cancel := context.WithTimeout(ctx, preflightTimeout)
	defer cancel()

	if logger != nil {
		logger.Info("running backend preflight check")
	}
	if _, err := client.ListLogGroups(ctx, "", 1); err != nil {
		return fmt.Errorf("backend preflight failed: %w", err)
	}
	if logger != nil {
		logger.Info("backend preflight succeeded")
	}
	return nil
}
