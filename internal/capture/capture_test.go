package capture

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSaveASCIICreatesDirAndFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "captures")
	s := NewStore(dir)

	path, err := s.SaveASCII("alice", "art payload\n")
	if err != nil {
		t.Fatalf("SaveASCII: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Errorf("written outside store dir: %s", path)
	}
	base := filepath.Base(path)
	if !strings.HasPrefix(base, "ascii_alice_") || !strings.HasSuffix(base, ".txt") {
		t.Errorf("unexpected filename %q", base)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "art payload\n" {
		t.Errorf("content = %q", got)
	}
}

func TestSaveASCIISanitizesSender(t *testing.T) {
	s := NewStore(t.TempDir())

	path, err := s.SaveASCII("evil/../name with spaces", "x")
	if err != nil {
		t.Fatalf("SaveASCII: %v", err)
	}
	base := filepath.Base(path)
	if strings.ContainsAny(base, "/\\ ") {
		t.Errorf("separators survived in %q", base)
	}
	if filepath.Dir(path) != s.Dir() {
		t.Errorf("escaped the store dir: %s", path)
	}
}

func TestSaveFrame(t *testing.T) {
	s := NewStore(t.TempDir())
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.SetRGBA(x, y, color.RGBA{10, 200, 30, 255})
		}
	}

	path, err := s.SaveFrame(img)
	if err != nil {
		t.Fatalf("SaveFrame: %v", err)
	}
	base := filepath.Base(path)
	if !strings.HasPrefix(base, "webcam_") || !strings.HasSuffix(base, ".jpg") {
		t.Errorf("unexpected filename %q", base)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() == 0 {
		t.Error("frame file is empty")
	}
}
