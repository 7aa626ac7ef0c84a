// Package metrics keeps hourly per-model usage counters in redis.
package metrics

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/mengfanShi/MiniCPM-V/internal/shared"
	"github.com/redis/go-redis/v9"
)

const metricsTTL = 7 * 24 * time.Hour

type Usage struct {
	Model    string
	Mode     shared.Mode
	FollowUp bool
	Failed   bool
	Latency  time.Duration
}

type Metrics struct {
	Model         string
	Date          string
	Hour          int
	Requests      int64
	ImageRequests int64
	VideoRequests int64
	FollowUps     int64
	Errors        int64
	AvgLatencyMs  int64
}

func RedisKey(model, date string, hour int) string {
	return fmt.Sprintf("model:%s:metrics:%s:%02d", model, date, hour)
}

type Store struct {
	redis *redis.Client
	now   func() time.Time
}

func NewStore(redisClient *redis.Client) *Store {
	return &Store{redis: redisClient, now: time.Now}
}

func (s *Store) Record(ctx context.Context, u Usage) error {
	now := s.now().UTC()
	key := RedisKey(u.Model, now.Format("2006-01-02"), now.Hour())

	pipe := s.redis.Pipeline()
	pipe.HIncrBy(ctx, key, "requests", 1)
	switch u.Mode {
	case shared.ModeImage:
		pipe.HIncrBy(ctx, key, "image_requests", 1)
	case shared.ModeVideo:
		pipe.HIncrBy(ctx, key, "video_requests", 1)
	}
	if u.FollowUp {
		pipe.HIncrBy(ctx, key, "follow_ups", 1)
	}
	if u.Failed {
		pipe.HIncrBy(ctx, key, "errors", 1)
	} else {
		pipe.HIncrBy(ctx, key, "total_latency_ms", u.Latency.Milliseconds())
		pipe.HIncrBy(ctx, key, "latency_count", 1)
	}
	pipe.Expire(ctx, key, metricsTTL)
	_, err := pipe.Exec(ctx)
	return err
}

// GetMetrics returns the non-empty hourly buckets of the last hours hours,
// newest first.
func (s *Store) GetMetrics(ctx context.Context, model string, hours int) ([]*Metrics, error) {
	now := s.now().UTC()
	var metrics []*Metrics

	for i := 0; i < hours; i++ {
		t := now.Add(-time.Duration(i) * time.Hour)
		key := RedisKey(model, t.Format("2006-01-02"), t.Hour())

		data, err := s.redis.HGetAll(ctx, key).Result()
		if err != nil {
			return nil, err
		}
		if len(data) == 0 {
			continue
		}

		m := &Metrics{
			Model: model,
			Date:  t.Format("2006-01-02"),
			Hour:  t.Hour(),
		}
		m.Requests, _ = strconv.ParseInt(data["requests"], 10, 64)
		m.ImageRequests, _ = strconv.ParseInt(data["image_requests"], 10, 64)
		m.VideoRequests, _ = strconv.ParseInt(data["video_requests"], 10, 64)
		m.FollowUps, _ = strconv.ParseInt(data["follow_ups"], 10, 64)
		m.Errors, _ = strconv.ParseInt(data["errors"], 10, 64)

		totalLatency, _ := strconv.ParseInt(data["total_latency_ms"], 10, 64)
		latencyCount, _ := strconv.ParseInt(data["latency_count"], 10, 64)
		if latencyCount > 0 {
			m.AvgLatencyMs = totalLatency / latencyCount
		}

		metrics = append(metrics, m)
	}

	return metrics, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.redis.Ping(ctx).Err()
}
