package video

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

func loadKeyFrame(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", "keyframe.vp8"))
	if err != nil {
		t.Fatalf("read key frame: %v", err)
	}
	return data
}

func buildIVF(fourcc string, frames ...[]byte) []byte {
	var buf bytes.Buffer
	buf.WriteString("DKIF")
	binary.Write(&buf, binary.LittleEndian, uint16(0))
	binary.Write(&buf, binary.LittleEndian, uint16(32))
	buf.WriteString(fourcc)
	binary.Write(&buf, binary.LittleEndian, uint16(16))
	binary.Write(&buf, binary.LittleEndian, uint16(16))
	binary.Write(&buf, binary.LittleEndian, uint32(30))
	binary.Write(&buf, binary.LittleEndian, uint32(1))
	binary.Write(&buf, binary.LittleEndian, uint32(len(frames)))
	binary.Write(&buf, binary.LittleEndian, uint32(0))

	for i, f := range frames {
		binary.Write(&buf, binary.LittleEndian, uint32(len(f)))
		binary.Write(&buf, binary.LittleEndian, uint64(i))
		buf.Write(f)
	}
	return buf.Bytes()
}

var interFrame = []byte{0x01, 0x00, 0x00, 0x00}

func TestIVFSource_KeyAndInterFrames(t *testing.T) {
	key := loadKeyFrame(t)
	src, err := NewIVFSource(bytes.NewReader(buildIVF("VP80", key, interFrame, interFrame, key)))
	if err != nil {
		t.Fatalf("NewIVFSource failed: %v", err)
	}
	defer src.Close()

	if src.FrameCount() != 4 {
		t.Errorf("expected 4 frames, got %d", src.FrameCount())
	}

	frames, err := Sample(src, 2)
	if err != nil {
		t.Fatalf("Sample failed: %v", err)
	}
	if len(frames) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(frames))
	}
	for i, f := range frames {
		if b := f.Bounds(); b.Dx() != 16 || b.Dy() != 16 {
			t.Errorf("frame %d: expected 16x16, got %v", i, b)
		}
	}
}

func TestIVFSource_InterFrameRepeatsKeyFrame(t *testing.T) {
	key := loadKeyFrame(t)
	src, err := NewIVFSource(bytes.NewReader(buildIVF("VP80", key, interFrame)))
	if err != nil {
		t.Fatalf("NewIVFSource failed: %v", err)
	}

	first, err := src.Next()
	if err != nil {
		t.Fatalf("first frame: %v", err)
	}
	second, err := src.Next()
	if err != nil {
		t.Fatalf("second frame: %v", err)
	}
	if first != second {
		t.Error("inter frame should repeat the last key frame")
	}
}

func TestIVFSource_InterFrameFirst(t *testing.T) {
	src, err := NewIVFSource(bytes.NewReader(buildIVF("VP80", interFrame)))
	if err != nil {
		t.Fatalf("NewIVFSource failed: %v", err)
	}
	if _, err := src.Next(); err == nil {
		t.Error("expected error for a leading inter frame")
	}
}

func TestIVFSource_UnsupportedCodec(t *testing.T) {
	if _, err := NewIVFSource(bytes.NewReader(buildIVF("VP90"))); err == nil {
		t.Error("expected error for VP9")
	}
}

func TestIVFSource_NotIVF(t *testing.T) {
	if _, err := NewIVFSource(bytes.NewReader([]byte("definitely not an ivf file at all, nope"))); err == nil {
		t.Error("expected error for a non-IVF stream")
	}
}

func TestOpen_IVFByExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.IVF")
	if err := os.WriteFile(path, buildIVF("VP80", loadKeyFrame(t)), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	frames, err := SampleFile(path, DefaultFrames)
	if err != nil {
		t.Fatalf("SampleFile failed: %v", err)
	}
	if len(frames) != 1 {
		t.Errorf("expected 1 frame, got %d", len(frames))
	}
}
