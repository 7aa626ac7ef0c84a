package client

import (
	"context"
	"encoding/json"
	"image"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mengfanShi/MiniCPM-V/internal/dto"
	"github.com/mengfanShi/MiniCPM-V/internal/shared"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Config{URL: srv.URL + "/"})
}

func TestClient_UploadImages(t *testing.T) {
	var got dto.UploadRequest
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/upload" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		json.NewEncoder(w).Encode(dto.UploadResponse{Answer: []string{"a cat", "black"}})
	})

	q := "what color?"
	frames := []image.Image{image.NewRGBA(image.Rect(0, 0, 2, 2)), image.NewRGBA(image.Rect(0, 0, 2, 2))}
	answers, err := c.UploadImages(context.Background(), frames, &q, "minicpm-2.5-int4")
	if err != nil {
		t.Fatalf("UploadImages failed: %v", err)
	}
	if len(answers) != 2 || answers[1] != "black" {
		t.Errorf("unexpected answers %v", answers)
	}
	if len(got.ImageBase64List) != 2 || got.Model != "minicpm-2.5-int4" || got.Question == nil || *got.Question != q {
		t.Errorf("unexpected request %+v", got)
	}
}

func TestClient_Upload_APIError(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(dto.UploadResponse{
			Answer: []string{},
			Error:  shared.NewAPIError("unknown_model", `unknown model: "x"`),
		})
	})

	_, err := c.Upload(context.Background(), dto.UploadRequest{ImageBase64List: []string{"x"}, Model: "x"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !IsAPIError(err, "unknown_model") {
		t.Errorf("expected unknown_model api error, got %v", err)
	}
}

func TestClient_Upload_NonJSON(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	})

	if _, err := c.Upload(context.Background(), dto.UploadRequest{}); err == nil {
		t.Error("expected error for a non-JSON body")
	}
}

func TestClient_Models(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/models" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(dto.ModelListResponse{Models: []dto.ModelResponse{
			{ID: "minicpm-2.5", Default: true},
			{ID: "minicpm-2.5-int4"},
		}})
	})

	models, err := c.Models(context.Background())
	if err != nil {
		t.Fatalf("Models failed: %v", err)
	}
	if len(models) != 2 || !models[0].Default {
		t.Errorf("unexpected models %+v", models)
	}
}
