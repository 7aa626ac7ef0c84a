// Package imagecodec converts between images and the base64 strings carried
// in upload requests.
package imagecodec

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"

	"github.com/mengfanShi/MiniCPM-V/internal/shared"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"
)

// EncodeOne serializes img as PNG and returns it base64 encoded.
func EncodeOne(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encode png: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func Encode(images []image.Image) ([]string, error) {
	out := make([]string, len(images))
	for i, img := range images {
		s, err := EncodeOne(img)
		if err != nil {
			return nil, fmt.Errorf("image %d: %w", i, err)
		}
		out[i] = s
	}
	return out, nil
}

// DecodeOne decodes a single base64 image. Failures wrap shared.ErrDecode.
func DecodeOne(s string) (image.Image, error) {
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base64: %v", shared.ErrDecode, err)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrDecode, err)
	}
	return img, nil
}

// DecodeReader decodes a raw (not base64) image stream.
func DecodeReader(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrDecode, err)
	}
	return img, nil
}

// Decode decodes every entry of list, preserving order. The first failing
// entry is reported by index.
func Decode(ctx context.Context, list []string) ([]image.Image, error) {
	images := make([]image.Image, len(list))
	g, gctx := errgroup.WithContext(ctx)
	for i, s := range list {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			img, err := DecodeOne(s)
			if err != nil {
				return fmt.Errorf("image %d: %w", i, err)
			}
			images[i] = img
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return images, nil
}

// Resize scales img to exactly width x height.
func Resize(img image.Image, width, height int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.BiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}
