package tools

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/cloudsentry/aws-sentinel/internal/backend"
	"github.com/cloudsentry/aws-sentinel/internal/protocol"
	"github.com/cloudsentry/aws-sentinel/internal/redaction"
)

func fixedNow() time.Time {
	return time.Date(2024, 5, 10, 10, 45, 0, 0, time.UTC)
}

func newRecentErrorsTool(fake *fakeBackend) *RecentErrorsTool {
	return &RecentErrorsTool{
		Backend:         fake,
		PollInterval:    time.Millisecond,
		MaxPollAttempts: 5,
		Now:             fixedNow,
	}
}

func TestRecentErrorsHappyPath(t *testing.T) {
	fake := &fakeBackend{
		startQueryID: "query-1",
		statuses:     []backend.QueryStatus{backend.QueryRunning, backend.QueryComplete},
		results: []backend.LogEntry{
			{Timestamp: "2024-05-10 10:30:00.000", Message: "ERROR: Database timeout at 10:30"},
		},
	}
	tool := newRecentErrorsTool(fake)

	out, err := tool.Run(context.Background(), RecentErrorsInput{
		LogGroupName: "/aws/lambda/payment-processor",
		Minutes:      30,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	result, ok := out.(RecentErrorsOutput)
	if !ok {
		t.Fatalf("unexpected output type %T", out)
	}
	if result.Status != protocol.StatusSuccess {
		t.Fatalf("expected success status, got %q", result.Status)
	}
	if result.ErrorCount != 1 || len(result.Errors) != 1 {
		t.Fatalf("expected one error entry, got count=%d len=%d", result.ErrorCount, len(result.Errors))
	}
	if result.Errors[0].Message != "ERROR: Database timeout at 10:30" {
		t.Fatalf("unexpected message %q", result.Errors[0].Message)
	}
	if result.QueryID != "query-1" {
		t.Fatalf("unexpected query id %q", result.QueryID)
	}
	if fake.gotLogGroup != "/aws/lambda/payment-processor" {
		t.Fatalf("unexpected log group %q", fake.gotLogGroup)
	}
	if got := fake.gotEnd.Sub(fake.gotStart); got != 30*time.Minute {
		t.Fatalf("expected 30 minute window, got %s", got)
	}
	if !strings.Contains(result.TimeRange, "(30 minutes)") {
		t.Fatalf("unexpected time range %q", result.TimeRange)
	}
	if fake.statusCalls != 2 {
		t.Fatalf("expected 2 status polls, got %d", fake.statusCalls)
	}
}

func TestRecentErrorsQueryContents(t *testing.T) {
	fake := &fakeBackend{
		startQueryID: "query-1",
		statuses:     []backend.QueryStatus{backend.QueryComplete},
	}
	tool := newRecentErrorsTool(fake)

	if _, err := tool.Run(context.Background(), RecentErrorsInput{LogGroupName: "/app"}); err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, fragment := range []string{
		"fields @timestamp, @message",
		"(?i)(ERROR|Exception|CRITICAL|FATAL|Traceback)",
		"sort @timestamp desc",
		"limit 20",
	} {
		if !strings.Contains(fake.gotQuery, fragment) {
			t.Errorf("query missing %q:\n%s", fragment, fake.gotQuery)
		}
	}
}

func TestRecentErrorsValidation(t *testing.T) {
	cases := []struct {
		name  string
		input RecentErrorsInput
	}{
		{name: "empty log group", input: RecentErrorsInput{LogGroupName: ""}},
		{name: "blank log group", input: RecentErrorsInput{LogGroupName: "   "}},
		{name: "negative minutes", input: RecentErrorsInput{LogGroupName: "/app", Minutes: -5}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fake := &fakeBackend{}
			tool := newRecentErrorsTool(fake)
			_, err := tool.Run(context.Background(), tc.input)
			if protocol.KindOf(err) != protocol.KindInvalidArgument {
				t.Fatalf("expected invalid_argument, got %v", err)
			}
			if fake.startCalls != 0 {
				t.Fatal("backend must not be called on invalid input")
			}
		})
	}
}

func TestRecentErrorsDefaultAndClampedWindow(t *testing.T) {
	cases := []struct {
		name    string
		minutes int
		want    time.Duration
	}{
		{name: "zero uses default", minutes: 0, want: 15 * time.Minute},
		{name: "above max clamps", minutes: 240, want: 60 * time.Minute},
		{name: "within range passes through", minutes: 5, want: 5 * time.Minute},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fake := &fakeBackend{
				startQueryID: "query-1",
				statuses:     []backend.QueryStatus{backend.QueryComplete},
			}
			tool := newRecentErrorsTool(fake)
			if _, err := tool.Run(context.Background(), RecentErrorsInput{LogGroupName: "/app", Minutes: tc.minutes}); err != nil {
				t.Fatalf("run: %v", err)
			}
			if got := fake.gotEnd.Sub(fake.gotStart); got != tc.want {
				t.Fatalf("expected %s window, got %s", tc.want, got)
			}
		})
	}
}

func TestRecentErrorsTerminalFailure(t *testing.T) {
	for _, status := range []backend.QueryStatus{backend.QueryFailed, backend.QueryCancelled, backend.QueryTimeout} {
		t.Run(string(status), func(t *testing.T) {
			fake := &fakeBackend{
				startQueryID: "query-1",
				statuses:     []backend.QueryStatus{backend.QueryRunning, status},
			}
			tool := newRecentErrorsTool(fake)
			_, err := tool.Run(context.Background(), RecentErrorsInput{LogGroupName: "/app"})
			if protocol.KindOf(err) != protocol.KindBackendQueryFailed {
				t.Fatalf("expected backend_query_failed, got %v", err)
			}
			if fake.resultsCalls != 0 {
				t.Fatal("results must not be fetched after a terminal failure")
			}
		})
	}
}

func TestRecentErrorsPollBudgetExhausted(t *testing.T) {
	fake := &fakeBackend{
		startQueryID: "query-1",
		statuses:     []backend.QueryStatus{backend.QueryRunning},
	}
	tool := newRecentErrorsTool(fake)
	tool.MaxPollAttempts = 3

	_, err := tool.Run(context.Background(), RecentErrorsInput{LogGroupName: "/app"})
	if protocol.KindOf(err) != protocol.KindQueryTimeout {
		t.Fatalf("expected query_timeout, got %v", err)
	}
	if fake.statusCalls != 3 {
		t.Fatalf("expected 3 status polls, got %d", fake.statusCalls)
	}
}

func TestRecentErrorsContextCancelled(t *testing.T) {
	fake := &fakeBackend{
		startQueryID: "query-1",
		statuses:     []backend.QueryStatus{backend.QueryRunning},
	}
	tool := newRecentErrorsTool(fake)
	tool.PollInterval = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := tool.Run(ctx, RecentErrorsInput{LogGroupName: "/app"})
	if protocol.KindOf(err) != protocol.KindQueryTimeout {
		t.Fatalf("expected query_timeout on cancellation, got %v", err)
	}
}

func TestRecentErrorsCapsResults(t *testing.T) {
	entries := make([]backend.LogEntry, 25)
	for i := range entries {
		entries[i] = backend.LogEntry{Timestamp: "ts", Message: "ERROR: boom"}
	}
	fake := &fakeBackend{
		startQueryID: "query-1",
		statuses:     []backend.QueryStatus{backend.QueryComplete},
		results:      entries,
	}
	tool := newRecentErrorsTool(fake)

	out, err := tool.Run(context.Background(), RecentErrorsInput{LogGroupName: "/app"})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	result := out.(RecentErrorsOutput)
	if result.ErrorCount != 20 || len(result.Errors) != 20 {
		t.Fatalf("expected results capped at 20, got %d", len(result.Errors))
	}
}

func TestRecentErrorsTruncatesLongMessages(t *testing.T) {
	long := strings.Repeat("x", 700)
	fake := &fakeBackend{
		startQueryID: "query-1",
		statuses:     []backend.QueryStatus{backend.QueryComplete},
		results:      []backend.LogEntry{{Timestamp: "ts", Message: long}},
	}
	tool := newRecentErrorsTool(fake)

	out, err := tool.Run(context.Background(), RecentErrorsInput{LogGroupName: "/app"})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	got := out.(RecentErrorsOutput).Errors[0].Message
	if len(got) != 503 || !strings.HasSuffix(got, "...") {
		t.Fatalf("expected 500 chars plus ellipsis, got %d chars", len(got))
	}
}

func TestRecentErrorsRedactsMessages(t *testing.T) {
	fake := &fakeBackend{
		startQueryID: "query-1",
		statuses:     []backend.QueryStatus{backend.QueryComplete},
		results: []backend.LogEntry{
			{Timestamp: "ts", Message: "ERROR: card 4111111111111111 declined"},
		},
	}
	tool := newRecentErrorsTool(fake)
	tool.Redactor = redaction.NewEngine()

	out, err := tool.Run(context.Background(), RecentErrorsInput{LogGroupName: "/app"})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	result := out.(RecentErrorsOutput)
	if !result.Redacted {
		t.Fatal("expected redacted flag")
	}
	if strings.Contains(result.Errors[0].Message, "4111111111111111") {
		t.Fatalf("card number leaked: %q", result.Errors[0].Message)
	}
}

func TestRecentErrorsEmptyResult(t *testing.T) {
	fake := &fakeBackend{
		startQueryID: "query-1",
		statuses:     []backend.QueryStatus{backend.QueryComplete},
	}
	tool := newRecentErrorsTool(fake)

	out, err := tool.Run(context.Background(), RecentErrorsInput{LogGroupName: "/app"})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	result := out.(RecentErrorsOutput)
	if result.ErrorCount != 0 {
		t.Fatalf("expected zero errors, got %d", result.ErrorCount)
	}
	if result.Errors == nil {
		t.Fatal("errors must serialize as an empty list, not null")
	}
}
