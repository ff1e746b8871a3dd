package printer

import (
	"context"
	"fmt"
	"os"
	"strings"

	logging "github.com/ipfs/go-log/v2"

	"github.com/momoliu/printportal/internal/raster"
)

var log = logging.Logger("printer")

const separator = "=================================================="

// Pipeline funnels parsed messages and composed rasters to one device.
type Pipeline struct {
	device        string
	maxPhotoWidth int
	sub           Submitter
}

// NewPipeline creates a pipeline for the named device. Photos wider than
// maxPhotoWidth are downscaled during composition.
func NewPipeline(device string, maxPhotoWidth int, sub Submitter) *Pipeline {
	return &Pipeline{device: device, maxPhotoWidth: maxPhotoWidth, sub: sub}
}

// FormatTextBlock renders a received text message as a printable block.
func FormatTextBlock(sender, text, timestamp string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n%s\nMESSAGE FROM: %s\nTime: %s\n%s\n\n", separator, sender, timestamp, separator)
	fmt.Fprintf(&b, "%s\n\n%s\n\n", text, separator)
	return b.String()
}

// PrintText submits a pre-formatted text block as a single job.
func (p *Pipeline) PrintText(ctx context.Context, body string) error {
	if err := p.sub.SubmitText(ctx, p.device, body); err != nil {
		return fmt.Errorf("print text: %w", err)
	}
	return nil
}

// PrintImage composes the header+photo document from raw image bytes and
// submits it as one job. Both temporary artifacts (the original bytes and
// the composed document) are removed on every exit path. A composition
// failure skips submission entirely.
func (p *Pipeline) PrintImage(ctx context.Context, sender, timestamp string, photo []byte) error {
	original, err := writeTemp("portal-photo-*.jpg", photo)
	if err != nil {
		return fmt.Errorf("print image: %w", err)
	}
	defer removeTemp(original)

	composed, err := raster.ComposePrintDocument(sender, timestamp, photo, p.maxPhotoWidth)
	if err != nil {
		return fmt.Errorf("print image: %w", err)
	}

	composedPath, err := writeTemp("portal-composed-*.jpg", composed)
	if err != nil {
		return fmt.Errorf("print image: %w", err)
	}
	defer removeTemp(composedPath)

	if err := p.sub.SubmitFile(ctx, p.device, composedPath); err != nil {
		return fmt.Errorf("print image: %w", err)
	}
	return nil
}

// PrintStartupBanner prints the one-time local startup notification.
func (p *Pipeline) PrintStartupBanner(ctx context.Context, me, peer, started string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "\n%s\nPRINTER PORTAL ONLINE\n%s\n", separator, separator)
	fmt.Fprintf(&b, "Device: %s\nListening for: %s\nStarted: %s\nPrinter: %s\n\n", me, peer, started, p.device)
	fmt.Fprintf(&b, "Ready to receive messages and images!\n%s\n\n", separator)
	return p.PrintText(ctx, b.String())
}

func writeTemp(pattern string, data []byte) (string, error) {
	f, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

func removeTemp(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Warnf("temp cleanup failed: %v", err)
	}
}
