// Package video reads frames from video files and picks the subset that is
// sent to the model.
package video

import (
	"errors"
	"fmt"
	"image"
	"io"
	"path/filepath"
	"strings"
)

// DefaultFrames is the number of frames requested by the clients.
const DefaultFrames = 8

// Source yields decoded frames in order. Next returns io.EOF after the last
// frame.
type Source interface {
	FrameCount() int
	Next() (image.Image, error)
	Close() error
}

// Step returns the sampling stride for a video of total frames when n frames
// are wanted. A stride of zero is raised to one so short videos keep every
// frame.
func Step(total, n int) int {
	if n <= 0 {
		return 1
	}
	step := total / n
	if step == 0 {
		step = 1
	}
	return step
}

// Sample keeps every frame whose index is a multiple of Step(total, n). The
// result can hold more than n frames when total is not a multiple of n.
func Sample(src Source, n int) ([]image.Image, error) {
	if n <= 0 {
		return nil, fmt.Errorf("frame count must be positive, got %d", n)
	}

	step := Step(src.FrameCount(), n)
	var frames []image.Image
	for i := 0; ; i++ {
		img, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		if i%step == 0 {
			frames = append(frames, img)
		}
	}

	if len(frames) == 0 {
		return nil, errors.New("video has no frames")
	}
	return frames, nil
}

// Open picks a reader by file extension: IVF files are decoded in process,
// everything else goes through ffmpeg.
func Open(path string) (Source, error) {
	if strings.EqualFold(filepath.Ext(path), ".ivf") {
		return OpenIVFFile(path)
	}
	return OpenFFmpeg(path)
}

// SampleFile opens path and samples n frames from it.
func SampleFile(path string, n int) ([]image.Image, error) {
	src, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer src.Close()
	return Sample(src, n)
}
