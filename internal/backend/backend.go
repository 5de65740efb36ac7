// Package backend declares the capability interface the core components
// use to reach the AWS log-query and deployment-status services. The core
// never talks to AWS directly; a test double can replace the real client
// without network access.
package backend

import (
	"context"
	"time"
)

// QueryStatus is the state of an asynchronous log query.
type QueryStatus string

// Query states reported by the log backend.
const (
	QueryScheduled QueryStatus = "Scheduled"
	QueryRunning   QueryStatus = "Running"
	QueryComplete  QueryStatus = "Complete"
	QueryFailed    QueryStatus = "Failed"
	QueryCancelled QueryStatus = "Cancelled"
	QueryTimeout   QueryStatus = "Timeout"
)

// Terminal reports whether no further progress will occur.
func (s QueryStatus) Terminal() bool {
	switch s {
	case QueryComplete, QueryFailed, QueryCancelled, QueryTimeout:
		return true
	}
	return false
}

// LogEntry is a single matched log line.
type LogEntry struct {
	// Timestamp is the backend-supplied event time, passed through
	// unmodified.
	Timestamp string `json:"timestamp"`
	// Message is the log line, possibly truncated and redacted.
	Message string `json:"message"`
}

// ErrorInfo describes why a deployment failed.
type ErrorInfo struct {
	// Code is the backend failure code.
	Code string `json:"code"`
	// Message is the backend failure description.
	Message string `json:"message"`
}

// InstanceSummary counts deployment targets by state.
type InstanceSummary struct {
	Pending    int64 `json:"pending"`
	InProgress int64 `json:"in_progress"`
	Succeeded  int64 `json:"succeeded"`
	Failed     int64 `json:"failed"`
	Skipped    int64 `json:"skipped"`
	Ready      int64 `json:"ready"`
}

// RollbackInfo links a deployment to the rollback that produced it.
type RollbackInfo struct {
	RollbackDeploymentID   string `json:"rollback_deployment_id,omitempty"`
	TriggeringDeploymentID string `json:"rollback_triggering_deployment_id,omitempty"`
	Message                string `json:"rollback_message,omitempty"`
}

// Deployment is the detail of a single deployment.
type Deployment struct {
	// ID is the deployment identifier.
	ID string
	// Group is the deployment group the deployment ran in.
	Group string
	// Status is the deployment state (Created, Queued, InProgress,
	// Baking, Succeeded, Failed, Stopped, Ready).
	Status string
	// CreateTime is when the deployment was created.
	CreateTime *time.Time
	// CompleteTime is when the deployment finished, if it did.
	CompleteTime *time.Time
	// RevisionLocation describes where the deployed revision came from.
	RevisionLocation string
	// ErrorInfo is set only when the backend reports a failure cause.
	ErrorInfo *ErrorInfo
	// InstanceSummary is the per-state target count, when available.
	InstanceSummary *InstanceSummary
	// Rollback is set when this deployment was a rollback.
	Rollback *RollbackInfo
}

// Client is the read-only capability surface over the AWS backends.
// Implementations wrap every fault into a protocol error kind; they never
// retry.
type Client interface {
	// StartQuery submits a log query over [start, end] and returns an
	// opaque query handle.
	StartQuery(ctx context.Context, logGroup string, start, end time.Time, query string) (string, error)
	// QueryStatus fetches the current state of a submitted query.
	QueryStatus(ctx context.Context, queryID string) (QueryStatus, error)
	// QueryResults fetches the rows of a completed query.
	QueryResults(ctx context.Context, queryID string) ([]LogEntry, error)
	// ListLogGroups returns up to limit log group names matching prefix,
	// in backend order.
	ListLogGroups(ctx context.Context, prefix string, limit int) ([]string, error)
	// ListDeploymentGroups returns the deployment groups of an
	// application.
	ListDeploymentGroups(ctx context.Context, application string) ([]string, error)
	// ListDeployments returns deployment ids for a group, newest first.
	ListDeployments(ctx context.Context, application, group string) ([]string, error)
	// GetDeployment fetches the detail of one deployment.
	GetDeployment(ctx context.Context, deploymentID string) (*Deployment, error)
}
