package bootstrap

import (
	"context"

	"github.com/mengfanShi/MiniCPM-V/internal/caption"
	"github.com/mengfanShi/MiniCPM-V/internal/history"
	"github.com/mengfanShi/MiniCPM-V/internal/metrics"
	"github.com/mengfanShi/MiniCPM-V/internal/shared"
)

func historyRecorder(store *history.Store) caption.Recorder {
	return caption.RecorderFunc(func(ctx context.Context, r caption.Result) error {
		return store.Create(ctx, &history.Caption{
			RequestID:  r.RequestID,
			Model:      r.Model,
			Mode:       r.Mode,
			FrameCount: r.FrameCount,
			Question:   r.Question,
			Answers:    shared.StringSlice(r.Answers),
			ErrorCode:  r.ErrorCode,
			LatencyMs:  r.Latency.Milliseconds(),
		})
	})
}

// metricsRecorder skips uploads naming an unknown model so arbitrary client
// input never creates redis keys.
func metricsRecorder(store *metrics.Store) caption.Recorder {
	return caption.RecorderFunc(func(ctx context.Context, r caption.Result) error {
		if r.ErrorCode == "unknown_model" {
			return nil
		}
		return store.Record(ctx, metrics.Usage{
			Model:    r.Model,
			Mode:     r.Mode,
			FollowUp: r.Question != nil,
			Failed:   r.ErrorCode != "",
			Latency:  r.Latency,
		})
	})
}

func ProvideRecorder(historyStore *history.Store, metricsStore *metrics.Store) caption.Recorder {
	recorders := caption.Recorders{historyRecorder(historyStore)}
	if metricsStore != nil {
		recorders = append(recorders, metricsRecorder(metricsStore))
	}
	return recorders
}
