package caption

import (
	"context"
	"errors"
	"time"

	"github.com/mengfanShi/MiniCPM-V/internal/shared"
)

// Result describes one processed upload for history and usage accounting.
type Result struct {
	RequestID  string
	Model      string
	Mode       shared.Mode
	FrameCount int
	Question   *string
	Answers    []string
	ErrorCode  string
	Latency    time.Duration
}

type Recorder interface {
	Record(ctx context.Context, r Result) error
}

type RecorderFunc func(ctx context.Context, r Result) error

func (f RecorderFunc) Record(ctx context.Context, r Result) error {
	return f(ctx, r)
}

// Recorders fans a result out to every recorder and joins their errors.
type Recorders []Recorder

func (rs Recorders) Record(ctx context.Context, r Result) error {
	var errs []error
	for _, rec := range rs {
		if err := rec.Record(ctx, r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
