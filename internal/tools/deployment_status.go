package tools

import (
	"context"
	"strings"
	"time"

	"github.com/cloudsentry/aws-sentinel/internal/backend"
	"github.com/cloudsentry/aws-sentinel/internal/protocol"
)

// DeploymentStatusTool resolves the most recent CodeDeploy deployment
// for an application and reports its status.
type DeploymentStatusTool struct {
	// Backend performs the CodeDeploy lookups.
	Backend backend.Client
}

// DeploymentStatusInput is the tool input.
type DeploymentStatusInput struct {
	// ApplicationName is the CodeDeploy application to inspect.
	ApplicationName string `json:"application_name"`
}

// DeploymentSummary describes one deployment in tool output.
type DeploymentSummary struct {
	DeploymentID     string                   `json:"deployment_id"`
	DeploymentGroup  string                   `json:"deployment_group,omitempty"`
	Status           string                   `json:"status"`
	CreateTime       string                   `json:"create_time,omitempty"`
	CompleteTime     string                   `json:"complete_time,omitempty"`
	RevisionLocation string                   `json:"revision_location,omitempty"`
	ErrorInfo        *backend.ErrorInfo       `json:"error_info,omitempty"`
	InstanceSummary  *backend.InstanceSummary `json:"instance_summary,omitempty"`
	Rollback         *backend.RollbackInfo    `json:"rollback,omitempty"`
}

// DeploymentStatusOutput is the tool result.
type DeploymentStatusOutput struct {
	Status      string            `json:"status"`
	Application string            `json:"application"`
	Deployment  DeploymentSummary `json:"deployment"`
}

// Run looks up the newest deployment of the application's first
// deployment group.
func (t *DeploymentStatusTool) Run(ctx context.Context, in DeploymentStatusInput) (any, error) {
	application := strings.TrimSpace(in.ApplicationName)
	if err := requireName(application, "application_name"); err != nil {
		return nil, err
	}

	groups, err := t.Backend.ListDeploymentGroups(ctx, application)
	if err != nil {
		return nil, err
	}
	if len(groups) == 0 {
		return nil, protocol.Errorf(protocol.KindNotFound, "no deployment groups found for application %q", application)
	}
	group := groups[0]

	ids, err := t.Backend.ListDeployments(ctx, application, group)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, protocol.Errorf(protocol.KindNotFound, "no deployments found for application %q group %q", application, group)
	}

	// ListDeployments returns newest first.
	dep, err := t.Backend.GetDeployment(ctx, ids[0])
	if err != nil {
		return nil, err
	}

	summary := DeploymentSummary{
		DeploymentID:     dep.ID,
		DeploymentGroup:  dep.Group,
		Status:           dep.Status,
		RevisionLocation: dep.RevisionLocation,
		ErrorInfo:        dep.ErrorInfo,
		InstanceSummary:  dep.InstanceSummary,
		Rollback:         dep.Rollback,
	}
	if summary.DeploymentGroup == "" {
		summary.DeploymentGroup = group
	}
	if dep.CreateTime != nil {
		summary.CreateTime = dep.CreateTime.UTC().Format(time.RFC3339)
	}
	if dep.CompleteTime != nil {
		summary.CompleteTime = dep.CompleteTime.UTC().Format(time.RFC3339)
	}

	return DeploymentStatusOutput{
		Status:      protocol.StatusSuccess,
		Application: application,
		Deployment:  summary,
	}, nil
}
