package awscloud

import (
	"errors"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	cwltypes "github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"
	cdtypes "github.com/aws/aws-sdk-go-v2/service/codedeploy/types"
	"github.com/aws/smithy-go"

	"github.com/cloudsentry/aws-sentinel/internal/backend"
	"github.com/cloudsentry/aws-sentinel/internal/protocol"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		err  error
		kind protocol.ErrorKind
	}{
		{
			name: "unknown log group is a backend failure",
			err:  &smithy.GenericAPIError{Code: "ResourceNotFoundException", Message: "log group not found"},
			kind: protocol.KindBackendUnavailable,
		},
		{
			name: "application missing",
			err:  &smithy.GenericAPIError{Code: "ApplicationDoesNotExistException", Message: "no such application"},
			kind: protocol.KindNotFound,
		},
		{
			name: "deployment group missing",
			err:  &smithy.GenericAPIError{Code: "DeploymentGroupDoesNotExistException", Message: "no such group"},
			kind: protocol.KindNotFound,
		},
		{
			name: "unlisted does-not-exist code",
			err:  &smithy.GenericAPIError{Code: "InstanceDoesNotExistException", Message: "gone"},
			kind: protocol.KindNotFound,
		},
		{
			name: "malformed query",
			err:  &smithy.GenericAPIError{Code: "MalformedQueryException", Message: "bad syntax"},
			kind: protocol.KindBackendQueryFailed,
		},
		{
			name: "throttled",
			err:  &smithy.GenericAPIError{Code: "ThrottlingException", Message: "slow down"},
			kind: protocol.KindRateLimited,
		},
		{
			name: "service failure",
			err:  &smithy.GenericAPIError{Code: "ServiceUnavailableException", Message: "outage"},
			kind: protocol.KindBackendUnavailable,
		},
		{
			name: "transport failure",
			err:  errors.New("dial tcp: connection refused"),
			kind: protocol.KindBackendUnavailable,
		},
		{
			name: "wrapped api error",
			err:  fmt.Errorf("operation failed: %w", &smithy.GenericAPIError{Code: "DeploymentDoesNotExistException", Message: "unknown id"}),
			kind: protocol.KindNotFound,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := classify("TestOp", tc.err)
			if kind := protocol.KindOf(got); kind != tc.kind {
				t.Fatalf("expected kind %s, got %s (%v)", tc.kind, kind, got)
			}
		})
	}
}

func TestQueryStatusMapping(t *testing.T) {
	cases := []struct {
		in   cwltypes.QueryStatus
		want backend.QueryStatus
	}{
		{cwltypes.QueryStatusScheduled, backend.QueryScheduled},
		{cwltypes.QueryStatusRunning, backend.QueryRunning},
		{cwltypes.QueryStatusComplete, backend.QueryComplete},
		{cwltypes.QueryStatusFailed, backend.QueryFailed},
		{cwltypes.QueryStatusCancelled, backend.QueryCancelled},
		{cwltypes.QueryStatusTimeout, backend.QueryTimeout},
	}
	for _, tc := range cases {
		if got := queryStatus(tc.in); got != tc.want {
			t.Errorf("queryStatus(%s) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestRevisionLocation(t *testing.T) {
	s3 := revisionLocation(&cdtypes.RevisionLocation{
		RevisionType: cdtypes.RevisionLocationTypeS3,
		S3Location:   &cdtypes.S3Location{Bucket: aws.String("releases"), Key: aws.String("app/v42.zip")},
	})
	if s3 != "s3://releases/app/v42.zip" {
		t.Fatalf("unexpected s3 location %q", s3)
	}

	gh := revisionLocation(&cdtypes.RevisionLocation{
		RevisionType:   cdtypes.RevisionLocationTypeGitHub,
		GitHubLocation: &cdtypes.GitHubLocation{Repository: aws.String("acme/api"), CommitId: aws.String("0123456789abcdef")},
	})
	if gh != "github:acme/api@01234567" {
		t.Fatalf("unexpected github location %q", gh)
	}

	if got := revisionLocation(nil); got != "" {
		t.Fatalf("nil revision should be empty, got %q", got)
	}
}
