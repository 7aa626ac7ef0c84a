package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/mengfanShi/MiniCPM-V/internal/shared"
	"github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	store := NewStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	fixed := time.Date(2024, 1, 15, 14, 30, 0, 0, time.UTC)
	store.now = func() time.Time { return fixed }
	return store, mr
}

func TestRedisKey(t *testing.T) {
	if got := RedisKey("minicpm-2.5", "2024-01-15", 9); got != "model:minicpm-2.5:metrics:2024-01-15:09" {
		t.Errorf("unexpected key %s", got)
	}
}

func TestStore_RecordAndGet(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	usages := []Usage{
		{Model: "minicpm-2.5", Mode: shared.ModeImage, Latency: 100 * time.Millisecond},
		{Model: "minicpm-2.5", Mode: shared.ModeImage, FollowUp: true, Latency: 300 * time.Millisecond},
		{Model: "minicpm-2.5", Mode: shared.ModeVideo, Failed: true},
	}
	for _, u := range usages {
		if err := store.Record(ctx, u); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	key := RedisKey("minicpm-2.5", "2024-01-15", 14)
	if ttl := mr.TTL(key); ttl != metricsTTL {
		t.Errorf("expected ttl %v, got %v", metricsTTL, ttl)
	}

	metrics, err := store.GetMetrics(ctx, "minicpm-2.5", 24)
	if err != nil {
		t.Fatalf("GetMetrics failed: %v", err)
	}
	if len(metrics) != 1 {
		t.Fatalf("expected 1 bucket, got %d", len(metrics))
	}
	m := metrics[0]
	if m.Requests != 3 || m.ImageRequests != 2 || m.VideoRequests != 1 {
		t.Errorf("unexpected request counters %+v", m)
	}
	if m.FollowUps != 1 || m.Errors != 1 {
		t.Errorf("unexpected follow-up/error counters %+v", m)
	}
	if m.AvgLatencyMs != 200 {
		t.Errorf("expected avg latency 200, got %d", m.AvgLatencyMs)
	}
	if m.Date != "2024-01-15" || m.Hour != 14 {
		t.Errorf("unexpected bucket %s %d", m.Date, m.Hour)
	}
}

func TestStore_GetMetrics_Empty(t *testing.T) {
	store, _ := newTestStore(t)
	metrics, err := store.GetMetrics(context.Background(), "minicpm-2.5-int4", 24)
	if err != nil {
		t.Fatalf("GetMetrics failed: %v", err)
	}
	if len(metrics) != 0 {
		t.Errorf("expected no buckets, got %d", len(metrics))
	}
}

func TestStore_Ping(t *testing.T) {
	store, mr := newTestStore(t)
	if err := store.Ping(context.Background()); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
	mr.Close()
	if err := store.Ping(context.Background()); err == nil {
		t.Error("expected ping to fail after close")
	}
}
