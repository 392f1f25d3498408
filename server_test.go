package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := OpenUsageStore(filepath.Join(t.TempDir(), "usage.db"))
	if err != nil {
		t.Fatalf("open usage store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return NewRouter(&ClassifyHandler{
		classifier: NewClassifier(Config{}, disabledAssessor{}),
		store:      store,
	})
}

func postClassify(t *testing.T, router *gin.Engine, body map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/classify", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestClassifyEndpoint(t *testing.T) {
	router := newTestRouter(t)

	w := postClassify(t, router, map[string]any{
		"channel":  "api",
		"severity": "high",
		"summary":  "API timeout errors causing database connection failures",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp classifyResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Decision != CategoryTechnical {
		t.Fatalf("expected technical_remediation, got %s", resp.Decision)
	}
	if resp.Confidence <= 0.7 {
		t.Fatalf("expected confidence > 0.7, got %v", resp.Confidence)
	}
	if len(resp.NextActions) < minPlannedActions || len(resp.NextActions) > maxPlannedActions {
		t.Fatalf("next_actions length %d out of bounds", len(resp.NextActions))
	}
	if resp.Metadata.ExternalAssessmentUsed {
		t.Fatal("no assessor configured, metadata must record that")
	}
	if resp.Timestamp == "" {
		t.Fatal("expected response timestamp")
	}
	if _, err := time.Parse(time.RFC3339, resp.Timestamp); err != nil {
		t.Fatalf("timestamp not RFC3339: %v", err)
	}
}

func TestClassifyEndpointNormalizesInput(t *testing.T) {
	router := newTestRouter(t)

	w := postClassify(t, router, map[string]any{
		"channel":  "  API ",
		"severity": "HIGH",
		"summary":  "API timeout errors causing database connection failures",
		"tags":     []string{" Payments ", "CARDS"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 after normalization, got %d: %s", w.Code, w.Body.String())
	}

	var resp classifyResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Decision != CategoryTechnical {
		t.Fatalf("expected technical_remediation, got %s", resp.Decision)
	}
}

func TestClassifyEndpointRejectsBadInput(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"unknown channel", map[string]any{"channel": "carrier_pigeon", "severity": "high", "summary": "API timeout errors everywhere"}},
		{"unknown severity", map[string]any{"channel": "api", "severity": "catastrophic", "summary": "API timeout errors everywhere"}},
		{"summary too short", map[string]any{"channel": "api", "severity": "high", "summary": "short"}},
		{"missing summary", map[string]any{"channel": "api", "severity": "high"}},
		{"missing channel", map[string]any{"severity": "high", "summary": "API timeout errors everywhere"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postClassify(t, router, tt.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
			}
		})
	}
}

func TestClassifyEndpointCriticalActions(t *testing.T) {
	router := newTestRouter(t)

	w := postClassify(t, router, map[string]any{
		"channel":  "api",
		"severity": "critical",
		"summary":  "System down, database errors",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp classifyResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.NextActions[0] != actionEscalate {
		t.Fatalf("expected escalation first, got %q", resp.NextActions[0])
	}
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestStatsEndpoint(t *testing.T) {
	router := newTestRouter(t)

	for i := 0; i < 2; i++ {
		w := postClassify(t, router, map[string]any{
			"channel":  "phone",
			"severity": "medium",
			"summary":  "Customer needs help with account balance verification",
		})
		if w.Code != http.StatusOK {
			t.Fatalf("classify failed: %d", w.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Days  int          `json:"days"`
		Usage []DailyUsage `json:"usage"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Days != 7 {
		t.Fatalf("expected default window 7, got %d", resp.Days)
	}
	if len(resp.Usage) != 1 || resp.Usage[0].Classifications != 2 {
		t.Fatalf("expected one day with two classifications, got %+v", resp.Usage)
	}
}

func TestStatsEndpointRejectsBadWindow(t *testing.T) {
	router := newTestRouter(t)
	for _, query := range []string{"days=abc", "days=0", "days=365"} {
		req := httptest.NewRequest(http.MethodGet, "/api/stats?"+query, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for %s, got %d", query, w.Code)
		}
	}
}

func TestTicketFromRequestDefaultsTimestamp(t *testing.T) {
	now := time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)
	ticket, err := ticketFromRequest(classifyRequest{
		Channel:  "chat",
		Severity: "low",
		Summary:  "question about a pending transfer",
	}, now)
	if err != nil {
		t.Fatalf("ticketFromRequest() error: %v", err)
	}
	if !ticket.ReceivedAt.Equal(now) {
		t.Fatalf("expected timestamp defaulted to request time, got %v", ticket.ReceivedAt)
	}

	explicit := now.Add(-time.Hour)
	ticket, err = ticketFromRequest(classifyRequest{
		Channel:   "chat",
		Severity:  "low",
		Summary:   "question about a pending transfer",
		Timestamp: &explicit,
	}, now)
	if err != nil {
		t.Fatalf("ticketFromRequest() error: %v", err)
	}
	if !ticket.ReceivedAt.Equal(explicit) {
		t.Fatalf("expected explicit timestamp kept, got %v", ticket.ReceivedAt)
	}
}
