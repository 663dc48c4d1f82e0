package jobqueue

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pgctour/fantasy-golf/internal/platform/resilience"
)

func nopSlog() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestPublisher(serverURL string, retries int, breaker resilience.CircuitBreakerConfig) *QStashPublisher {
	return NewQStashPublisher(QStashPublisherConfig{
		BaseURL:          serverURL,
		Token:            "qst_token",
		TargetBaseURL:    "https://api.pgctour.app",
		Retries:          retries,
		InternalJobToken: "internal-secret",
		Timeout:          2 * time.Second,
		CircuitBreaker:   breaker,
	}, nopSlog())
}

func TestEnqueue_PublishesWithUpstashHeaders(t *testing.T) {
	var captured *http.Request
	var capturedBody string
	// The publish path embeds the target URL, so no mux: ServeMux would
	// clean the double slash and redirect.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r
		raw, _ := io.ReadAll(r.Body)
		capturedBody = string(raw)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)

	publisher := newTestPublisher(server.URL, 3, resilience.CircuitBreakerConfig{Enabled: false, FailureThreshold: 1, OpenTimeout: time.Second, HalfOpenMaxReq: 1})

	payload := map[string]any{"tournament_id": "wm-phoenix-open-2026"}
	err := publisher.Enqueue(context.Background(), "/v1/internal/jobs/sync-field", payload, 90*time.Second, "sync-field-wm-20260205T140000Z")
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	wantPath := "/v2/publish/https://api.pgctour.app/v1/internal/jobs/sync-field"
	if captured.RequestURI != wantPath {
		t.Fatalf("publish path = %q, want %q", captured.RequestURI, wantPath)
	}
	if got := captured.Header.Get("Authorization"); got != "Bearer qst_token" {
		t.Fatalf("authorization = %q", got)
	}
	if got := captured.Header.Get("Upstash-Method"); got != "POST" {
		t.Fatalf("upstash method = %q", got)
	}
	if got := captured.Header.Get("Upstash-Retries"); got != "3" {
		t.Fatalf("upstash retries = %q", got)
	}
	if got := captured.Header.Get("Upstash-Delay"); got != "90s" {
		t.Fatalf("upstash delay = %q", got)
	}
	if got := captured.Header.Get("Upstash-Deduplication-Id"); got != "sync-field-wm-20260205T140000Z" {
		t.Fatalf("deduplication id = %q", got)
	}
	if got := captured.Header.Get("Upstash-Forward-X-Internal-Job-Token"); got != "internal-secret" {
		t.Fatalf("forwarded token = %q", got)
	}
	if !strings.Contains(capturedBody, `"tournament_id":"wm-phoenix-open-2026"`) {
		t.Fatalf("body = %s", capturedBody)
	}
}

func TestEnqueue_RequiresPath(t *testing.T) {
	publisher := newTestPublisher("https://qstash.upstash.io", 0, resilience.CircuitBreakerConfig{Enabled: false, FailureThreshold: 1, OpenTimeout: time.Second, HalfOpenMaxReq: 1})

	if err := publisher.Enqueue(context.Background(), "  ", nil, 0, "id"); err == nil {
		t.Fatalf("expected error for blank path")
	}
}

func TestEnqueue_RejectsBadTargetBaseURL(t *testing.T) {
	publisher := NewQStashPublisher(QStashPublisherConfig{
		BaseURL:       "https://qstash.upstash.io",
		Token:         "qst_token",
		TargetBaseURL: "ftp://api.pgctour.app",
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled: false, FailureThreshold: 1, OpenTimeout: time.Second, HalfOpenMaxReq: 1,
		},
	}, nopSlog())

	err := publisher.Enqueue(context.Background(), "/v1/internal/jobs/sync-live", nil, 0, "id")
	if err == nil || !strings.Contains(err.Error(), "QSTASH_TARGET_BASE_URL") {
		t.Fatalf("enqueue = %v, want target base url error", err)
	}
}

func TestEnqueue_CircuitOpensOnRepeatedServerErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(server.Close)

	publisher := newTestPublisher(server.URL, 0, resilience.CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 2,
		OpenTimeout:      time.Minute,
		HalfOpenMaxReq:   1,
	})

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if err := publisher.Enqueue(ctx, "/v1/internal/jobs/sync-live", nil, 0, "id"); err == nil {
			t.Fatalf("publish %d should fail", i+1)
		}
	}

	err := publisher.Enqueue(ctx, "/v1/internal/jobs/sync-live", nil, 0, "id")
	if err == nil || !strings.Contains(err.Error(), "temporarily unavailable") {
		t.Fatalf("open circuit = %v, want rejection without a network call", err)
	}
}

func TestEnqueue_NonRetryableStatusDoesNotTrip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(server.Close)

	publisher := newTestPublisher(server.URL, 0, resilience.CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 1,
		OpenTimeout:      time.Minute,
		HalfOpenMaxReq:   1,
	})

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		err := publisher.Enqueue(ctx, "/v1/internal/jobs/sync-live", nil, 0, "id")
		if err == nil || strings.Contains(err.Error(), "temporarily unavailable") {
			t.Fatalf("publish %d = %v, want the upstream 401 every time", i+1, err)
		}
	}
}

func TestNormalizeDelay(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want string
	}{
		{0, "0s"},
		{-time.Second, "0s"},
		{90 * time.Second, "90s"},
		{5 * time.Minute, "300s"},
	}
	for _, tc := range cases {
		if got := normalizeDelay(tc.in); got != tc.want {
			t.Fatalf("normalizeDelay(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestBuildCurlPreview_MasksSecrets(t *testing.T) {
	preview := buildCurlPreview(
		"https://qstash.upstash.io/v2/publish/https://api.pgctour.app/v1/internal/jobs/sync-live",
		"/v1/internal/jobs/sync-live",
		"300s", 3, "sync-live-all-20260205T140000Z", `{"dispatch_id":"x"}`, true,
	)

	if strings.Contains(preview, "qst_token") || strings.Contains(preview, "internal-secret") {
		t.Fatalf("secrets leaked: %s", preview)
	}
	if !strings.Contains(preview, "Authorization: Bearer ***") {
		t.Fatalf("authorization not masked: %s", preview)
	}
	if !strings.Contains(preview, "Upstash-Forward-X-Internal-Job-Token: ***") {
		t.Fatalf("forward token not masked: %s", preview)
	}
	if !strings.Contains(preview, "Upstash-Deduplication-Id: sync-live-all-20260205T140000Z") {
		t.Fatalf("deduplication header missing: %s", preview)
	}
}
