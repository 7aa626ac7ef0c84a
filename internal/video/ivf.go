package video

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"os"

	"github.com/pion/webrtc/v4/pkg/media/ivfreader"
	"golang.org/x/image/vp8"
)

// IVFSource decodes VP8 frames from an IVF container. Only key frames are
// decoded; an inter frame repeats the last key frame.
type IVFSource struct {
	reader *ivfreader.IVFReader
	header *ivfreader.IVFFileHeader
	closer io.Closer
	last   image.Image
}

func OpenIVFFile(path string) (*IVFSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	src, err := NewIVFSource(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	src.closer = f
	return src, nil
}

func NewIVFSource(r io.Reader) (*IVFSource, error) {
	reader, header, err := ivfreader.NewWith(r)
	if err != nil {
		return nil, fmt.Errorf("read ivf header: %w", err)
	}
	if header.FourCC != "VP80" {
		return nil, fmt.Errorf("unsupported codec: %s (only VP8 supported)", header.FourCC)
	}
	return &IVFSource{reader: reader, header: header}, nil
}

func (s *IVFSource) FrameCount() int {
	return int(s.header.NumFrames)
}

func (s *IVFSource) Next() (image.Image, error) {
	data, _, err := s.reader.ParseNextFrame()
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("empty frame data")
	}

	if data[0]&0x01 != 0 {
		if s.last == nil {
			return nil, errors.New("inter frame before first key frame")
		}
		return s.last, nil
	}

	img, err := decodeKeyFrame(data)
	if err != nil {
		return nil, err
	}
	s.last = img
	return img, nil
}

func (s *IVFSource) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

func decodeKeyFrame(data []byte) (image.Image, error) {
	decoder := vp8.NewDecoder()
	decoder.Init(bytes.NewReader(data), len(data))

	fh, err := decoder.DecodeFrameHeader()
	if err != nil {
		return nil, fmt.Errorf("decode frame header: %w", err)
	}
	if fh.Width == 0 || fh.Height == 0 {
		return nil, fmt.Errorf("invalid frame dimensions: %dx%d", fh.Width, fh.Height)
	}

	img, err := decoder.DecodeFrame()
	if err != nil {
		return nil, fmt.Errorf("decode frame: %w", err)
	}
	return img, nil
}
