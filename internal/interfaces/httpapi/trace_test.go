package httpapi

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/trace"
)

func TestShouldCreateHTTPAPISpan(t *testing.T) {
	cases := map[string]bool{
		"httpapi.Handler.GetLeaderboard":  true,
		"httpapi.Handler.ListSeasons":     true,
		"httpapi.writeJSON":               false,
		"httpapi.CORS":                    false,
		"usecase.SyncService.RunLiveSync": false,
	}
	for name, want := range cases {
		if got := shouldCreateHTTPAPISpan(name); got != want {
			t.Fatalf("shouldCreateHTTPAPISpan(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestStartSpan_NoParentMeansNoSpan(t *testing.T) {
	ctx := context.Background()

	outCtx, span := startSpan(ctx, "httpapi.Handler.GetLeaderboard")
	if span.SpanContext().IsValid() {
		t.Fatalf("expected a noop span without a parent, got %v", span.SpanContext())
	}
	if outCtx != ctx {
		t.Fatalf("context must pass through unchanged without a parent span")
	}
	if trace.SpanFromContext(outCtx).SpanContext().IsValid() {
		t.Fatalf("no span should be registered on the context")
	}
}
