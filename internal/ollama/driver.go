// Package ollama serves the model interface from an Ollama server. Model
// paths are Ollama model names.
package ollama

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image/png"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mengfanShi/MiniCPM-V/internal/model"
	"github.com/ollama/ollama/api"
)

type Config struct {
	URL     string
	Timeout time.Duration
}

type Driver struct {
	client *api.Client
}

func NewDriver(cfg Config) (*Driver, error) {
	base, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse ollama url: %w", err)
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 5 * time.Minute
	}
	return &Driver{client: api.NewClient(base, &http.Client{Timeout: timeout})}, nil
}

// DefaultNames maps the selectable identifiers to Ollama library tags. The
// Ollama library only publishes MiniCPM-V 2.6 builds, so the full and int4
// 2.6 tags stand in for the Llama3-V 2.5 identifiers. Point MODEL_PATHS at a
// locally created 2.5 model to serve the original weights.
func DefaultNames() map[string]string {
	return map[string]string{
		model.DefaultID: "minicpm-v:8b",
		model.Int4ID:    "minicpm-v:8b-2.6-q4_0",
	}
}

// resident keeps a model loaded until it is explicitly unloaded.
var resident = &api.Duration{Duration: -1}

// Load preloads name by sending a generate request without a prompt.
func (d *Driver) Load(ctx context.Context, name string) (model.Model, error) {
	stream := false
	req := &api.GenerateRequest{Model: name, Stream: &stream, KeepAlive: resident}
	if err := d.client.Generate(ctx, req, func(api.GenerateResponse) error { return nil }); err != nil {
		return nil, fmt.Errorf("preload %s: %w", name, err)
	}
	return &Model{client: d.client, name: name}, nil
}

func (d *Driver) IsAvailable(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return d.client.Heartbeat(ctx) == nil
}

type Model struct {
	client *api.Client
	name   string
}

// Chat decodes the JSON conversation and attaches the image to the first user
// turn.
func (m *Model) Chat(ctx context.Context, req model.ImageChat) (string, error) {
	img, err := base64.StdEncoding.DecodeString(req.Image)
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}
	msgs, err := model.DecodeConversation(req.Question)
	if err != nil {
		return "", err
	}

	out := make([]api.Message, len(msgs))
	attached := false
	for i, msg := range msgs {
		out[i] = api.Message{Role: string(msg.Role), Content: msg.Content.Text}
		if !attached && msg.Role == model.RoleUser {
			out[i].Images = []api.ImageData{img}
			attached = true
		}
	}
	return m.chat(ctx, out)
}

func (m *Model) ChatMessages(ctx context.Context, msgs []model.Message) (string, error) {
	out := make([]api.Message, len(msgs))
	for i, msg := range msgs {
		converted, err := toMessage(msg)
		if err != nil {
			return "", fmt.Errorf("message %d: %w", i, err)
		}
		out[i] = converted
	}
	return m.chat(ctx, out)
}

func (m *Model) chat(ctx context.Context, msgs []api.Message) (string, error) {
	stream := false
	req := &api.ChatRequest{
		Model:     m.name,
		Messages:  msgs,
		Stream:    &stream,
		KeepAlive: resident,
	}

	var sb strings.Builder
	err := m.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		sb.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Close unloads the model by sending a zero keep-alive.
func (m *Model) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	stream := false
	req := &api.GenerateRequest{Model: m.name, Stream: &stream, KeepAlive: &api.Duration{Duration: 0}}
	return m.client.Generate(ctx, req, func(api.GenerateResponse) error { return nil })
}

// toMessage flattens a content list into text joined by newlines plus the
// images in order.
func toMessage(msg model.Message) (api.Message, error) {
	out := api.Message{Role: string(msg.Role)}
	parts := []model.Content{msg.Content}
	if msg.Content.Kind == model.ContentList {
		parts = msg.Content.Parts
	}

	var texts []string
	for _, p := range parts {
		switch p.Kind {
		case model.ContentText:
			texts = append(texts, p.Text)
		case model.ContentImage:
			var buf bytes.Buffer
			if err := png.Encode(&buf, p.Image); err != nil {
				return api.Message{}, fmt.Errorf("encode png: %w", err)
			}
			out.Images = append(out.Images, api.ImageData(buf.Bytes()))
		default:
			return api.Message{}, fmt.Errorf("nested %s content is not supported", p.Kind)
		}
	}
	out.Content = strings.Join(texts, "\n")
	return out, nil
}
