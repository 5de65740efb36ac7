package tools

import (
	"context"
	"time"

	"github.com/cloudsentry/aws-sentinel/internal/backend"
)

// fakeBackend is a scriptable backend.Client for tool tests.
type fakeBackend struct {
	startQueryID  string
	startQueryErr error

	// statuses is returned one per QueryStatus call; the last value
	// repeats once the script is exhausted.
	statuses  []backend.QueryStatus
	statusErr error

	results    []backend.LogEntry
	resultsErr error

	logGroups    []string
	logGroupsErr error

	deploymentGroups    []string
	deploymentGroupsErr error

	deployments    []string
	deploymentsErr error

	deployment    *backend.Deployment
	deploymentErr error

	startCalls      int
	statusCalls     int
	resultsCalls    int
	listGroupCalls  int
	listDepGrpCalls int
	listDepCalls    int
	getDepCalls     int

	gotLogGroup    string
	gotQuery       string
	gotStart       time.Time
	gotEnd         time.Time
	gotPrefix      string
	gotLimit       int
	gotApplication string
	gotGroup       string
	gotDeployID    string
}

func (f *fakeBackend) StartQuery(_ context.Context, logGroup string, start, end time.Time, query string) (string, error) {
	f.startCalls++
	f.gotLogGroup = logGroup
	f.gotStart = start
	f.gotEnd = end
	f.gotQuery = query
	return f.startQueryID, f.startQueryErr
}

func (f *fakeBackend) QueryStatus(_ context.Context, _ string) (backend.QueryStatus, error) {
	f.statusCalls++
	if f.statusErr != nil {
		return "", f.statusErr
	}
	idx := f.statusCalls - 1
	if idx >= len(f.statuses) {
		idx = len(f.statuses) - 1
	}
	return f.statuses[idx], nil
}

func (f *fakeBackend) QueryResults(_ context.Context, _ string) ([]backend.LogEntry, error) {
	f.resultsCalls++
	return f.results, f.resultsErr
}

func (f *fakeBackend) ListLogGroups(_ context.Context, prefix string, limit int) ([]string, error) {
	f.listGroupCalls++
	f.gotPrefix = prefix
	f.gotLimit = limit
	if f.logGroupsErr != nil {
		return nil, f.logGroupsErr
	}
	if limit > 0 && len(f.logGroups) > limit {
		return f.logGroups[:limit], nil
	}
	return f.logGroups, nil
}

func (f *fakeBackend) ListDeploymentGroups(_ context.Context, application string) ([]string, error) {
	f.listDepGrpCalls++
	f.gotApplication = application
	return f.deploymentGroups, f.deploymentGroupsErr
}

func (f *fakeBackend) ListDeployments(_ context.Context, application, group string) ([]string, error) {
	f.listDepCalls++
	f.gotApplication = application
	f.gotGroup = group
	return f.deployments, f.deploymentsErr
}

func (f *fakeBackend) GetDeployment(_ context.Context, deploymentID string) (*backend.Deployment, error) {
	f.getDepCalls++
	f.gotDeployID = deploymentID
	return f.deployment, f.deploymentErr
}
