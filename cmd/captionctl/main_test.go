package main

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mengfanShi/MiniCPM-V/internal/dto"
	"github.com/mengfanShi/MiniCPM-V/internal/shared"
)

func TestFormatAnswers(t *testing.T) {
	tests := []struct {
		name     string
		label    string
		question string
		answers  []string
		want     string
	}{
		{"empty", labelImage, "", nil, ""},
		{"description only", labelImage, "", []string{"a cat"}, "图像描述: a cat\n"},
		{"follow-up", labelVideo, "why?", []string{"a dog runs", "it is chasing a ball"},
			"视频描述: a dog runs\n问题: why?\n答案: it is chasing a ball\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatAnswers(tt.label, tt.question, tt.answers); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestImageCommand(t *testing.T) {
	var got dto.UploadRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		json.NewEncoder(w).Encode(dto.UploadResponse{Answer: []string{"a grey square", "grey"}})
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "square.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	png.Encode(f, image.NewGray(image.Rect(0, 0, 4, 4)))
	f.Close()

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"image", path, "--url", srv.URL, "--question", "what color?", "--model", "minicpm-2.5-int4"})
	if err := root.Execute(); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if len(got.ImageBase64List) != 1 || got.Model != "minicpm-2.5-int4" {
		t.Errorf("unexpected request %+v", got)
	}
	want := "图像描述: a grey square\n问题: what color?\n答案: grey\n"
	if out.String() != want {
		t.Errorf("got %q, want %q", out.String(), want)
	}
}

func TestImageCommand_MissingFile(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"image", filepath.Join(t.TempDir(), "missing.png")})
	if err := root.Execute(); err == nil {
		t.Error("expected error for a missing file")
	}
}

// writeIVF writes a 16x16 VP8 IVF file made of copies of the key frame
// fixture used by the video package.
func writeIVF(t *testing.T, frames int) string {
	t.Helper()
	key, err := os.ReadFile(filepath.Join("..", "..", "internal", "video", "testdata", "keyframe.vp8"))
	if err != nil {
		t.Fatalf("read key frame: %v", err)
	}

	var buf bytes.Buffer
	buf.WriteString("DKIF")
	binary.Write(&buf, binary.LittleEndian, uint16(0))
	binary.Write(&buf, binary.LittleEndian, uint16(32))
	buf.WriteString("VP80")
	binary.Write(&buf, binary.LittleEndian, uint16(16))
	binary.Write(&buf, binary.LittleEndian, uint16(16))
	binary.Write(&buf, binary.LittleEndian, uint32(30))
	binary.Write(&buf, binary.LittleEndian, uint32(1))
	binary.Write(&buf, binary.LittleEndian, uint32(frames))
	binary.Write(&buf, binary.LittleEndian, uint32(0))
	for i := 0; i < frames; i++ {
		binary.Write(&buf, binary.LittleEndian, uint32(len(key)))
		binary.Write(&buf, binary.LittleEndian, uint64(i))
		buf.Write(key)
	}

	path := filepath.Join(t.TempDir(), "clip.ivf")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write ivf: %v", err)
	}
	return path
}

func TestVideoCommand(t *testing.T) {
	var got dto.UploadRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		json.NewEncoder(w).Encode(dto.UploadResponse{Answer: []string{"a flat grey clip"}})
	}))
	defer srv.Close()

	path := writeIVF(t, 4)

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"video", path, "--url", srv.URL, "--frames", "2"})
	if err := root.Execute(); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if len(got.ImageBase64List) != 2 {
		t.Errorf("expected 2 sampled frames, got %d", len(got.ImageBase64List))
	}
	if got.Question != nil {
		t.Errorf("expected no question, got %q", *got.Question)
	}
	if want := "视频描述: a flat grey clip\n"; out.String() != want {
		t.Errorf("got %q, want %q", out.String(), want)
	}
}

func TestVideoCommand_NotAVideo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.ivf")
	if err := os.WriteFile(path, []byte("not a video"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	root := newRootCmd()
	root.SetArgs([]string{"video", path})
	if err := root.Execute(); err == nil {
		t.Error("expected error for a malformed IVF file")
	}
}

func TestImageCommand_UnknownModelListsAvailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/models" {
			json.NewEncoder(w).Encode(dto.ModelListResponse{Models: []dto.ModelResponse{
				{ID: "minicpm-2.5", Default: true},
				{ID: "minicpm-2.5-int4"},
			}})
			return
		}
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(dto.UploadResponse{
			Error: shared.NewAPIError("unknown_model", `unknown model: "gpt"`),
		})
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "square.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	png.Encode(f, image.NewGray(image.Rect(0, 0, 4, 4)))
	f.Close()

	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"image", path, "--url", srv.URL, "--model", "gpt"})
	err = root.Execute()
	if err == nil {
		t.Fatal("expected an error for an unknown model")
	}
	if !strings.Contains(err.Error(), "minicpm-2.5, minicpm-2.5-int4") {
		t.Errorf("expected available models in error, got %q", err.Error())
	}
}
