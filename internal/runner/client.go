// Package runner talks to the model-runner sidecar that hosts the
// MiniCPM-V model library.
package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mengfanShi/MiniCPM-V/internal/imagecodec"
	"github.com/mengfanShi/MiniCPM-V/internal/model"
)

type Config struct {
	URL     string
	Timeout time.Duration
}

type Client struct {
	httpClient *http.Client
	baseURL    string
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 5 * time.Minute
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(cfg.URL, "/"),
	}
}

type loadRequest struct {
	ModelPath string `json:"model_path"`
}

type loadResponse struct {
	ID string `json:"id"`
}

type handleRequest struct {
	ID string `json:"id"`
}

type chatRequest struct {
	ID       string `json:"id"`
	Image    string `json:"image"`
	Question string `json:"question"`
}

type chatMsgsRequest struct {
	ID   string        `json:"id"`
	Msgs []wireMessage `json:"msgs"`
}

type wireMessage struct {
	Role    model.Role `json:"role"`
	Content any        `json:"content"`
}

type wirePart struct {
	Type  string `json:"type"`
	Text  string `json:"text,omitempty"`
	Image string `json:"image,omitempty"`
}

type chatResponse struct {
	Answer string `json:"answer"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Load asks the sidecar to construct the model stored at path.
func (c *Client) Load(ctx context.Context, path string) (model.Model, error) {
	var resp loadResponse
	if err := c.post(ctx, "/load", loadRequest{ModelPath: path}, &resp); err != nil {
		return nil, err
	}
	if resp.ID == "" {
		return nil, fmt.Errorf("runner returned no model id for %s", path)
	}
	return &Model{client: c, id: resp.ID, path: path}, nil
}

func (c *Client) IsAvailable(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return false
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("runner request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var e errorResponse
		if json.Unmarshal(raw, &e) == nil && e.Error != "" {
			return fmt.Errorf("runner %s returned status %d: %s", path, resp.StatusCode, e.Error)
		}
		return fmt.Errorf("runner %s returned status %d", path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Model is a model instance living inside the sidecar.
type Model struct {
	client *Client
	id     string
	path   string
}

func (m *Model) ID() string {
	return m.id
}

func (m *Model) Chat(ctx context.Context, req model.ImageChat) (string, error) {
	var resp chatResponse
	err := m.client.post(ctx, "/chat", chatRequest{
		ID:       m.id,
		Image:    req.Image,
		Question: req.Question,
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Answer, nil
}

func (m *Model) ChatMessages(ctx context.Context, msgs []model.Message) (string, error) {
	wire, err := toWire(msgs)
	if err != nil {
		return "", err
	}

	var resp chatResponse
	if err := m.client.post(ctx, "/chat_msgs", chatMsgsRequest{ID: m.id, Msgs: wire}, &resp); err != nil {
		return "", err
	}
	return resp.Answer, nil
}

// Close unloads the model from the sidecar. It uses its own deadline so a
// cancelled request context cannot leave the model resident.
func (m *Model) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return m.client.post(ctx, "/unload", handleRequest{ID: m.id}, nil)
}

func toWire(msgs []model.Message) ([]wireMessage, error) {
	out := make([]wireMessage, len(msgs))
	for i, msg := range msgs {
		out[i] = wireMessage{Role: msg.Role}
		switch msg.Content.Kind {
		case model.ContentText:
			out[i].Content = msg.Content.Text
		case model.ContentImage:
			part, err := toPart(msg.Content)
			if err != nil {
				return nil, fmt.Errorf("message %d: %w", i, err)
			}
			out[i].Content = []wirePart{part}
		case model.ContentList:
			parts := make([]wirePart, 0, len(msg.Content.Parts))
			for _, c := range msg.Content.Parts {
				part, err := toPart(c)
				if err != nil {
					return nil, fmt.Errorf("message %d: %w", i, err)
				}
				parts = append(parts, part)
			}
			out[i].Content = parts
		default:
			return nil, fmt.Errorf("message %d: unsupported content %s", i, msg.Content.Kind)
		}
	}
	return out, nil
}

func toPart(c model.Content) (wirePart, error) {
	switch c.Kind {
	case model.ContentText:
		return wirePart{Type: "text", Text: c.Text}, nil
	case model.ContentImage:
		b64, err := imagecodec.EncodeOne(c.Image)
		if err != nil {
			return wirePart{}, err
		}
		return wirePart{Type: "image", Image: b64}, nil
	default:
		return wirePart{}, fmt.Errorf("nested %s content is not supported", c.Kind)
	}
}
