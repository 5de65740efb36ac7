// Package awscloud implements the backend capability interface over
// CloudWatch Logs Insights and CodeDeploy.
package awscloud

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	cwltypes "github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"
	"github.com/aws/aws-sdk-go-v2/service/codedeploy"
	cdtypes "github.com/aws/aws-sdk-go-v2/service/codedeploy/types"
	"github.com/aws/smithy-go"

	"github.com/cloudsentry/aws-sentinel/internal/backend"
	"github.com/cloudsentry/aws-sentinel/internal/protocol"
)

// Options configures the AWS clients.
type Options struct {
	// Region is the AWS region to query.
	Region string
	// AccessKeyID enables static credentials when set together with SecretAccessKey.
	AccessKeyID string
	// SecretAccessKey is the static credential secret.
	SecretAccessKey string
}

// Client talks to CloudWatch Logs and CodeDeploy.
type Client struct {
	logs   *cloudwatchlogs.Client
	deploy *codedeploy.Client
}

var _ backend.Client = (*Client)(nil)

// New builds AWS service clients from the default credential chain,
// or from static credentials when both key fields are set.
func New(ctx context.Context, opts Options) (*Client, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(opts.Region),
	}
	if opts.AccessKeyID != "" && opts.SecretAccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &Client{
		logs:   cloudwatchlogs.NewFromConfig(cfg),
		deploy: codedeploy.NewFromConfig(cfg),
	}, nil
}

// StartQuery submits a Logs Insights query over the given window.
func (c *Client) StartQuery(ctx context.Context, logGroup string, start, end time.Time, query string) (string, error) {
	out, err := c.logs.StartQuery(ctx, &cloudwatchlogs.StartQueryInput{
		LogGroupName: aws.String(logGroup),
		StartTime:    aws.Int64(start.Unix()),
		EndTime:      aws.Int64(end.Unix()),
		QueryString:  aws.String(query),
	})
	if err != nil {
		return "", classify("StartQuery", err)
	}
	return aws.ToString(out.QueryId), nil
}

// QueryStatus reports the current state of a running query.
func (c *Client) QueryStatus(ctx context.Context, queryID string) (backend.QueryStatus, error) {
	out, err := c.logs.GetQueryResults(ctx, &cloudwatchlogs.GetQueryResultsInput{
		QueryId: aws.String(queryID),
	})
	if err != nil {
		return "", classify("GetQueryResults", err)
	}
	return queryStatus(out.Status), nil
}

// QueryResults fetches rows of a completed query.
func (c *Client) QueryResults(ctx context.Context, queryID string) ([]backend.LogEntry, error) {
	out, err := c.logs.GetQueryResults(ctx, &cloudwatchlogs.GetQueryResultsInput{
		QueryId: aws.String(queryID),
	})
	if err != nil {
		return nil, classify("GetQueryResults", err)
	}
	entries := make([]backend.LogEntry, 0, len(out.Results))
	for _, row := range out.Results {
		var entry backend.LogEntry
		for _, field := range row {
			switch aws.ToString(field.Field) {
			case "@timestamp":
				entry.Timestamp = aws.ToString(field.Value)
			case "@message":
				entry.Message = aws.ToString(field.Value)
			}
		}
		if entry.Timestamp == "" && entry.Message == "" {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// ListLogGroups returns log group names, optionally filtered by prefix.
func (c *Client) ListLogGroups(ctx context.Context, prefix string, limit int) ([]string, error) {
	input := &cloudwatchlogs.DescribeLogGroupsInput{}
	if prefix != "" {
		input.LogGroupNamePrefix = aws.String(prefix)
	}
	if limit > 0 {
		input.Limit = aws.Int32(int32(limit))
	}
	out, err := c.logs.DescribeLogGroups(ctx, input)
	if err != nil {
		return nil, classify("DescribeLogGroups", err)
	}
	names := make([]string, 0, len(out.LogGroups))
	for _, group := range out.LogGroups {
		names = append(names, aws.ToString(group.LogGroupName))
	}
	return names, nil
}

// ListDeploymentGroups returns deployment group names for an application.
func (c *Client) ListDeploymentGroups(ctx context.Context, application string) ([]string, error) {
	out, err := c.deploy.ListDeploymentGroups(ctx, &codedeploy.ListDeploymentGroupsInput{
		ApplicationName: aws.String(application),
	})
	if err != nil {
		return nil, classify("ListDeploymentGroups", err)
	}
	return out.DeploymentGroups, nil
}

// ListDeployments returns deployment IDs for a group, newest first.
func (c *Client) ListDeployments(ctx context.Context, application, group string) ([]string, error) {
	out, err := c.deploy.ListDeployments(ctx, &codedeploy.ListDeploymentsInput{
		ApplicationName:     aws.String(application),
		DeploymentGroupName: aws.String(group),
		IncludeOnlyStatuses: []cdtypes.DeploymentStatus{
			cdtypes.DeploymentStatusCreated,
			cdtypes.DeploymentStatusQueued,
			cdtypes.DeploymentStatusInProgress,
			cdtypes.DeploymentStatusBaking,
			cdtypes.DeploymentStatusSucceeded,
			cdtypes.DeploymentStatusFailed,
			cdtypes.DeploymentStatusStopped,
			cdtypes.DeploymentStatusReady,
		},
	})
	if err != nil {
		return nil, classify("ListDeployments", err)
	}
	return out.Deployments, nil
}

// GetDeployment fetches full deployment details.
func (c *Client) GetDeployment(ctx context.Context, deploymentID string) (*backend.Deployment, error) {
	out, err := c.deploy.GetDeployment(ctx, &codedeploy.GetDeploymentInput{
		DeploymentId: aws.String(deploymentID),
	})
	if err != nil {
		return nil, classify("GetDeployment", err)
	}
	info := out.DeploymentInfo
	if info == nil {
		return nil, protocol.Errorf(protocol.KindNotFound, "deployment %s not found", deploymentID)
	}

	dep := &backend.Deployment{
		ID:               aws.ToString(info.DeploymentId),
		Group:            aws.ToString(info.DeploymentGroupName),
		Status:           string(info.Status),
		CreateTime:       info.CreateTime,
		CompleteTime:     info.CompleteTime,
		RevisionLocation: revisionLocation(info.Revision),
	}
	if info.ErrorInformation != nil {
		dep.ErrorInfo = &backend.ErrorInfo{
			Code:    string(info.ErrorInformation.Code),
			Message: aws.ToString(info.ErrorInformation.Message),
		}
	}
	if overview := info.DeploymentOverview; overview != nil {
		dep.InstanceSummary = &backend.InstanceSummary{
			Pending:    overview.Pending,
			InProgress: overview.InProgress,
			Succeeded:  overview.Succeeded,
			Failed:     overview.Failed,
			Skipped:    overview.Skipped,
			Ready:      overview.Ready,
		}
	}
	if rollback := info.RollbackInfo; rollback != nil {
		roll := &backend.RollbackInfo{
			RollbackDeploymentID:   aws.ToString(rollback.RollbackDeploymentId),
			TriggeringDeploymentID: aws.ToString(rollback.RollbackTriggeringDeploymentId),
			Message:                aws.ToString(rollback.RollbackMessage),
		}
		if roll.RollbackDeploymentID != "" || roll.TriggeringDeploymentID != "" || roll.Message != "" {
			dep.Rollback = roll
		}
	}
	return dep, nil
}

func queryStatus(status cwltypes.QueryStatus) backend.QueryStatus {
	switch status {
	case cwltypes.QueryStatusScheduled:
		return backend.QueryScheduled
	case cwltypes.QueryStatusRunning:
		return backend.QueryRunning
	case cwltypes.QueryStatusComplete:
		return backend.QueryComplete
	case cwltypes.QueryStatusFailed:
		return backend.QueryFailed
	case cwltypes.QueryStatusCancelled:
		return backend.QueryCancelled
	case cwltypes.QueryStatusTimeout:
		return backend.QueryTimeout
	default:
		return backend.QueryStatus(status)
	}
}

func revisionLocation(revision *cdtypes.RevisionLocation) string {
	if revision == nil {
		return ""
	}
	if s3 := revision.S3Location; s3 != nil {
		return fmt.Sprintf("s3://%s/%s", aws.ToString(s3.Bucket), aws.ToString(s3.Key))
	}
	if gh := revision.GitHubLocation; gh != nil {
		commit := aws.ToString(gh.CommitId)
		if len(commit) > 8 {
			commit = commit[:8]
		}
		return fmt.Sprintf("github:%s@%s", aws.ToString(gh.Repository), commit)
	}
	return string(revision.RevisionType)
}

// classify maps AWS API failures onto stable error kinds.
func classify(op string, err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		msg := fmt.Sprintf("%s (%s): %s", op, code, apiErr.ErrorMessage())
		switch {
		case isNotFoundCode(code):
			return protocol.Errorf(protocol.KindNotFound, "%s", msg)
		case code == "MalformedQueryException" || code == "InvalidParameterException":
			return protocol.Errorf(protocol.KindBackendQueryFailed, "%s", msg)
		case code == "ThrottlingException" || code == "LimitExceededException":
			return protocol.Errorf(protocol.KindRateLimited, "%s", msg)
		default:
			return protocol.Errorf(protocol.KindBackendUnavailable, "%s", msg)
		}
	}
	return protocol.Errorf(protocol.KindBackendUnavailable, "%s: %s", op, err)
}

// isNotFoundCode matches CodeDeploy's missing-entity codes
// (ApplicationDoesNotExistException and friends). CloudWatch's
// ResourceNotFoundException is NOT a not-found outcome here: an unknown
// log group surfaces as a backend failure.
func isNotFoundCode(code string) bool {
	return strings.HasSuffix(code, "DoesNotExistException")
}
