package protocol

import (
	"errors"
	"fmt"
	"testing"
)

func TestNormalizeSuccessPassthrough(t *testing.T) {
	payload := map[string]any{"status": StatusSuccess, "count": 3}

	got := Normalize(payload, nil)

	m, ok := got.(map[string]any)
	if !ok {
		t.Fatalf("expected payload passthrough, got %T", got)
	}
	if m["count"] != 3 {
		t.Errorf("payload mutated: %v", m)
	}
}

func TestNormalizeClassifiedError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind ErrorKind
	}{
		{"invalid_argument", Errorf(KindInvalidArgument, "log_group_name is required"), KindInvalidArgument},
		{"not_found", Errorf(KindNotFound, "no deployment groups found"), KindNotFound},
		{"query_failed", Errorf(KindBackendQueryFailed, "query reached terminal state Failed"), KindBackendQueryFailed},
		{"query_timeout", Errorf(KindQueryTimeout, "query did not complete within 30s"), KindQueryTimeout},
		{"wrapped", fmt.Errorf("check failed: %w", Errorf(KindNotFound, "no deployments")), KindNotFound},
		{"unclassified", errors.New("connection refused"), KindBackendUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(nil, tt.err)

			resp, ok := got.(ErrorResponse)
			if !ok {
				t.Fatalf("expected ErrorResponse, got %T", got)
			}
			if resp.Status != StatusError {
				t.Errorf("status = %q, want %q", resp.Status, StatusError)
			}
			if resp.Kind != tt.kind {
				t.Errorf("kind = %q, want %q", resp.Kind, tt.kind)
			}
			if resp.Error != tt.err.Error() {
				t.Errorf("error = %q, want %q", resp.Error, tt.err.Error())
			}
		})
	}
}

func TestKindOfDefaultsToBackendUnavailable(t *testing.T) {
	if got := KindOf(errors.New("dial tcp: i/o timeout")); got != KindBackendUnavailable {
		t.Errorf("KindOf = %q, want %q", got, KindBackendUnavailable)
	}
}
