package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ccollicutt/logdocker/pkg/config"
	"github.com/ccollicutt/logdocker/pkg/output"
)

func newTestReport(dropped int) *output.Report {
	return &output.Report{
		Summary: output.Summary{
			LinesRead:        10,
			RecordsExtracted: 10 - dropped,
			LinesDropped:     dropped,
			Levels:           map[string]int{"info": 10 - dropped},
		},
		Metadata: output.Metadata{
			InputFile:   "px.log",
			ExportPath:  "output.csv",
			ExtractedAt: time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
		},
	}
}

func TestClient_Send_Success(t *testing.T) {
	var receivedBody []byte
	var receivedContentType, receivedAuth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedContentType = r.Header.Get("Content-Type")
		receivedAuth = r.Header.Get("Authorization")
		receivedBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	resp := NewClient().Send(context.Background(), newTestReport(2), SendOptions{URL: server.URL})

	if !resp.Success() {
		t.Errorf("expected success, got error: %v", resp.Error)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected status 200, got %d", resp.StatusCode)
	}
	if resp.Body != `{"status":"ok"}` {
		t.Errorf("unexpected body: %s", resp.Body)
	}
	if receivedContentType != "application/json" {
		t.Errorf("expected Content-Type application/json, got %s", receivedContentType)
	}
	if receivedAuth != "" {
		t.Errorf("expected no auth header, got %s", receivedAuth)
	}

	var payload Payload
	if err := json.Unmarshal(receivedBody, &payload); err != nil {
		t.Fatalf("failed to parse received payload: %v", err)
	}
	if payload.Event != EventExtraction {
		t.Errorf("Event = %q, want %q", payload.Event, EventExtraction)
	}
	if payload.Report == nil || payload.Report.Summary.LinesDropped != 2 {
		t.Errorf("payload report = %+v", payload.Report)
	}
}

func TestClient_Send_WithBearerToken(t *testing.T) {
	var receivedAuth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	resp := NewClient().Send(context.Background(), newTestReport(0), SendOptions{
		URL:   server.URL,
		Token: "secret-token-123",
	})

	if !resp.Success() {
		t.Errorf("expected success, got error: %v", resp.Error)
	}
	if receivedAuth != "Bearer secret-token-123" {
		t.Errorf("expected Bearer token, got %s", receivedAuth)
	}
}

func TestClient_Send_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	resp := NewClient().Send(context.Background(), newTestReport(0), SendOptions{URL: server.URL})

	if resp.Success() {
		t.Error("expected failure for 500 response")
	}
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", resp.StatusCode)
	}
}

func TestClient_Send_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	resp := NewClient().Send(context.Background(), newTestReport(0), SendOptions{
		URL:     server.URL,
		Timeout: 50 * time.Millisecond,
	})

	if resp.Success() {
		t.Error("expected timeout failure")
	}
}

func TestClient_Send_InvalidURL(t *testing.T) {
	resp := NewClient().Send(context.Background(), newTestReport(0), SendOptions{URL: "://bad"})
	if resp.Error == nil {
		t.Error("expected error for invalid URL")
	}
}

func TestShouldFire(t *testing.T) {
	tests := []struct {
		trigger  config.WebhookTrigger
		hasDrops bool
		want     bool
	}{
		{config.WebhookTriggerAlways, false, true},
		{config.WebhookTriggerNever, true, false},
		{config.WebhookTriggerOnDrops, true, true},
		{config.WebhookTriggerOnDrops, false, false},
		{"", true, true},
	}
	for _, tt := range tests {
		if got := ShouldFire(tt.trigger, tt.hasDrops); got != tt.want {
			t.Errorf("ShouldFire(%q, %v) = %v, want %v", tt.trigger, tt.hasDrops, got, tt.want)
		}
	}
}

func TestClient_Notify(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	hooks := []config.WebhookConfig{
		{Name: "drops", URL: server.URL, Trigger: config.WebhookTriggerOnDrops},
		{Name: "always", URL: server.URL, Trigger: config.WebhookTriggerAlways},
		{Name: "never", URL: server.URL, Trigger: config.WebhookTriggerNever},
	}

	var log bytes.Buffer
	NewClient().Notify(context.Background(), hooks, newTestReport(0), &log)

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("webhook calls = %d, want 1", got)
	}
	if !strings.Contains(log.String(), "Webhook always: sent (204") {
		t.Errorf("log = %q", log.String())
	}
}
