package metrics

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/mengfanShi/MiniCPM-V/internal/dto"
	"github.com/mengfanShi/MiniCPM-V/internal/shared"
)

func newTestHandler(t *testing.T) (*Handler, *Store) {
	store, _ := newTestStore(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	known := func(id string) bool { return id == "minicpm-2.5" || id == "minicpm-2.5-int4" }
	return NewHandler(store, known, logger), store
}

func TestHandler_RegisterRoutes(t *testing.T) {
	h, _ := newTestHandler(t)
	e := echo.New()
	h.RegisterRoutes(e.Group("/v1/metrics"))

	found := false
	for _, r := range e.Routes() {
		if r.Path == "/v1/metrics/models/:id" {
			found = true
		}
	}
	if !found {
		t.Error("expected route /v1/metrics/models/:id to be registered")
	}
}

func TestHandler_GetModelMetrics(t *testing.T) {
	h, store := newTestHandler(t)
	store.Record(context.Background(), Usage{Model: "minicpm-2.5", Mode: shared.ModeImage, Latency: time.Second})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/metrics/models/minicpm-2.5?hours=500", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("minicpm-2.5")

	if err := h.GetModelMetrics(c); err != nil {
		t.Fatalf("GetModelMetrics error = %v", err)
	}

	var resp dto.ModelMetricsListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Hours != 24 {
		t.Errorf("out of range hours should fall back to 24, got %d", resp.Hours)
	}
	if len(resp.Metrics) != 1 || resp.Metrics[0].Requests != 1 || resp.Metrics[0].AvgLatencyMs != 1000 {
		t.Errorf("unexpected metrics %+v", resp.Metrics)
	}
}

func TestHandler_GetModelMetrics_UnknownModel(t *testing.T) {
	h, _ := newTestHandler(t)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/metrics/models/nope", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("nope")

	err := h.GetModelMetrics(c)
	if err == nil {
		t.Fatal("expected error")
	}
	if httpErr := err.(*echo.HTTPError); httpErr.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, httpErr.Code)
	}
}
