package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeBackend struct {
	available bool
}

func (f fakeBackend) IsAvailable(ctx context.Context) bool {
	return f.available
}

type fakeModels struct {
	id     string
	loaded bool
}

func (f fakeModels) Active() (string, bool) {
	return f.id, f.loaded
}

func newTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	return db
}

func readiness(t *testing.T, h *Handler) (int, HealthResponse) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Readiness(c); err != nil {
		t.Fatalf("Readiness error = %v", err)
	}

	var resp HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return rec.Code, resp
}

func TestLiveness(t *testing.T) {
	h := NewHandler(nil, nil, nil, nil, "test")
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Liveness(c); err != nil {
		t.Fatalf("Liveness error = %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestReadiness_Healthy(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	h := NewHandler(newTestDB(t), rdb, fakeBackend{available: true}, fakeModels{id: "minicpm-2.5", loaded: true}, "test")
	h.IncrementRequests()

	code, resp := readiness(t, h)
	if code != http.StatusOK {
		t.Errorf("expected 200, got %d", code)
	}
	if resp.Status != StatusHealthy {
		t.Errorf("expected healthy, got %s (%+v)", resp.Status, resp.Components)
	}
	if len(resp.Components) != 3 {
		t.Errorf("expected 3 components, got %d", len(resp.Components))
	}
	if resp.Stats.Model.Active != "minicpm-2.5" || !resp.Stats.Model.Loaded {
		t.Errorf("unexpected model stats %+v", resp.Stats.Model)
	}
	if resp.Stats.Requests.TotalRequests != 1 {
		t.Errorf("expected 1 request, got %d", resp.Stats.Requests.TotalRequests)
	}
}

func TestReadiness_RedisDisabled(t *testing.T) {
	h := NewHandler(newTestDB(t), nil, fakeBackend{available: true}, nil, "test")

	_, resp := readiness(t, h)
	if _, ok := resp.Components["redis"]; ok {
		t.Error("redis should not be reported when disabled")
	}
	if resp.Status != StatusHealthy {
		t.Errorf("expected healthy, got %s", resp.Status)
	}
}

func TestReadiness_BackendDown(t *testing.T) {
	h := NewHandler(newTestDB(t), nil, fakeBackend{available: false}, nil, "test")

	code, resp := readiness(t, h)
	if code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", code)
	}
	if resp.Status != StatusUnhealthy {
		t.Errorf("expected unhealthy, got %s", resp.Status)
	}
}

func TestReadiness_RedisDownDegrades(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	mr.Close()

	h := NewHandler(newTestDB(t), rdb, fakeBackend{available: true}, nil, "test")

	code, resp := readiness(t, h)
	if code != http.StatusOK {
		t.Errorf("expected 200, got %d", code)
	}
	if resp.Status != StatusDegraded {
		t.Errorf("expected degraded, got %s", resp.Status)
	}
}

func TestConnectionCounters(t *testing.T) {
	h := NewHandler(nil, nil, nil, nil, "test")
	h.IncrementConnections()
	h.IncrementConnections()
	h.DecrementConnections()
	if h.activeConnections != 1 {
		t.Errorf("expected 1 active connection, got %d", h.activeConnections)
	}
}
