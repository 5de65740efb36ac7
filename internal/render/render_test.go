package render

import (
	"strings"
	"testing"
)

func TestRenderBytesEnvOr(t *testing.T) {
	t.Setenv("SENTINEL_TEST_REGION", "eu-west-1")

	out, err := RenderBytes("policy.yaml", []byte(`region: {{ envOr "SENTINEL_TEST_REGION" "us-east-1" }}`))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if string(out) != "region: eu-west-1" {
		t.Fatalf("unexpected output %q", out)
	}

	out, err = RenderBytes("policy.yaml", []byte(`region: {{ envOr "SENTINEL_TEST_UNSET" "us-east-1" }}`))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if string(out) != "region: us-east-1" {
		t.Fatalf("unexpected fallback %q", out)
	}
}

func TestRenderBytesMissingEnv(t *testing.T) {
	_, err := RenderBytes("policy.yaml", []byte(`token: {{ env "SENTINEL_TEST_NEVER_SET" }}`))
	if err == nil {
		t.Fatal("expected error for missing env var")
	}
	if !strings.Contains(err.Error(), "SENTINEL_TEST_NEVER_SET") {
		t.Fatalf("error should name the variable: %v", err)
	}
}
