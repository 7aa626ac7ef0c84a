package video

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"os/exec"
	"strconv"
	"strings"
)

// FFmpegSource decodes any container ffmpeg understands by piping raw RGBA
// frames from an ffmpeg child process.
type FFmpegSource struct {
	width, height int
	frames        int

	cmd    *exec.Cmd
	stdout io.ReadCloser
	stderr bytes.Buffer
	cancel context.CancelFunc
}

func OpenFFmpeg(path string) (*FFmpegSource, error) {
	width, height, frames, err := probe(path)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-v", "error",
		"-i", path,
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-",
	)
	src := &FFmpegSource{width: width, height: height, frames: frames, cmd: cmd, cancel: cancel}
	cmd.Stderr = &src.stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("start ffmpeg: %w", err)
	}
	src.stdout = stdout
	return src, nil
}

func (s *FFmpegSource) FrameCount() int {
	return s.frames
}

func (s *FFmpegSource) Next() (image.Image, error) {
	img := image.NewRGBA(image.Rect(0, 0, s.width, s.height))
	if _, err := io.ReadFull(s.stdout, img.Pix); err != nil {
		if err == io.ErrUnexpectedEOF {
			return nil, fmt.Errorf("truncated frame: %s", strings.TrimSpace(s.stderr.String()))
		}
		return nil, err
	}
	return img, nil
}

func (s *FFmpegSource) Close() error {
	s.cancel()
	s.cmd.Wait()
	return nil
}

func probe(path string) (width, height, frames int, err error) {
	out, err := exec.Command("ffprobe",
		"-v", "error",
		"-select_streams", "v:0",
		"-count_packets",
		"-show_entries", "stream=width,height,nb_read_packets",
		"-of", "csv=p=0",
		path,
	).Output()
	if err != nil {
		return 0, 0, 0, fmt.Errorf("ffprobe %s: %w", path, err)
	}
	return parseProbe(string(out))
}

// parseProbe reads ffprobe's "width,height,frames" csv line.
func parseProbe(out string) (width, height, frames int, err error) {
	fields := strings.Split(strings.TrimSpace(out), ",")
	if len(fields) < 3 {
		return 0, 0, 0, fmt.Errorf("unexpected ffprobe output %q", out)
	}

	values := make([]int, 3)
	for i := range values {
		values[i], err = strconv.Atoi(strings.TrimSpace(fields[i]))
		if err != nil {
			return 0, 0, 0, fmt.Errorf("unexpected ffprobe output %q: %w", out, err)
		}
	}
	if values[0] <= 0 || values[1] <= 0 {
		return 0, 0, 0, fmt.Errorf("invalid video dimensions %dx%d", values[0], values[1])
	}
	return values[0], values[1], values[2], nil
}
