// Package capture archives sent ASCII art and captured frames under a
// local directory. The archive is write-only: nothing in the portal reads
// it back, it exists so a sent snapshot survives the session.
package capture

import (
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/momoliu/printportal/internal/util"
)

const frameQuality = 90

// Store writes timestamp-qualified files under a capture directory,
// creating it on first use.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the capture directory path.
func (s *Store) Dir() string { return s.dir }

// SaveASCII archives an ASCII art payload as ascii_<sender>_<ts>.txt and
// returns the written path.
func (s *Store) SaveASCII(sender, payload string) (string, error) {
	name := fmt.Sprintf("ascii_%s_%s.txt", sanitize(sender), time.Now().Format(util.FileLayout))
	path := filepath.Join(s.dir, name)
	if err := s.write(path, []byte(payload)); err != nil {
		return "", fmt.Errorf("save ascii: %w", err)
	}
	return path, nil
}

// SaveFrame archives a captured frame as webcam_<ts>.jpg and returns the
// written path.
func (s *Store) SaveFrame(img image.Image) (string, error) {
	name := fmt.Sprintf("webcam_%s.jpg", time.Now().Format(util.FileLayout))
	path := filepath.Join(s.dir, name)

	f, err := s.create(path)
	if err != nil {
		return "", fmt.Errorf("save frame: %w", err)
	}
	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: frameQuality}); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("save frame: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("save frame: %w", err)
	}
	return path, nil
}

func (s *Store) write(path string, data []byte) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (s *Store) create(path string) (*os.File, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, err
	}
	return os.Create(path)
}

// sanitize keeps sender-derived filename parts free of separators.
func sanitize(name string) string {
	r := strings.NewReplacer("/", "_", "\\", "_", " ", "_", ":", "-")
	return r.Replace(name)
}
