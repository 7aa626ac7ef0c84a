// Package client calls the caption service over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"net/http"
	"strings"
	"time"

	"github.com/mengfanShi/MiniCPM-V/internal/dto"
	"github.com/mengfanShi/MiniCPM-V/internal/imagecodec"
	"github.com/mengfanShi/MiniCPM-V/internal/shared"
)

type Config struct {
	URL     string
	Timeout time.Duration
}

type Client struct {
	httpClient *http.Client
	baseURL    string
}

func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Minute
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(cfg.URL, "/"),
	}
}

// Upload posts already encoded images. A structured error body is returned as
// a *shared.APIError.
func (c *Client) Upload(ctx context.Context, req dto.UploadRequest) ([]string, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("upload: %w", err)
	}
	defer resp.Body.Close()

	var out dto.UploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}
	if out.Error != nil {
		return nil, out.Error
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("upload returned status %d", resp.StatusCode)
	}
	return out.Answer, nil
}

// UploadImages PNG-encodes images and posts them. One image is described as a
// still; several are treated as video frames.
func (c *Client) UploadImages(ctx context.Context, images []image.Image, question *string, model string) ([]string, error) {
	encoded, err := imagecodec.Encode(images)
	if err != nil {
		return nil, err
	}
	return c.Upload(ctx, dto.UploadRequest{
		ImageBase64List: encoded,
		Question:        question,
		Model:           model,
	})
}

func (c *Client) Models(ctx context.Context) ([]dto.ModelResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/models", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list models returned status %d", resp.StatusCode)
	}

	var out dto.ModelListResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return out.Models, nil
}

// IsAPIError reports whether err carries the given service error code.
func IsAPIError(err error, code string) bool {
	var apiErr *shared.APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}
