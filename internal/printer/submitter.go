// Package printer drives received content to the print spooler: formatted
// text blocks for chat messages and composed raster documents for photos.
package printer

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Submitter submits one job to a named device and blocks until the spooler
// accepts or rejects it. Implementations return an error carrying the
// spooler's diagnostic text on rejection.
type Submitter interface {
	SubmitText(ctx context.Context, device, body string) error
	SubmitFile(ctx context.Context, device, path string) error
}

// LP submits jobs through the lp command. Jobs are always passed as argv,
// never through a shell, so payload content cannot reach a command line.
type LP struct{}

func (LP) SubmitText(ctx context.Context, device, body string) error {
	cmd := exec.CommandContext(ctx, "lp", "-d", device)
	cmd.Stdin = strings.NewReader(body)
	return runLP(cmd)
}

func (LP) SubmitFile(ctx context.Context, device, path string) error {
	cmd := exec.CommandContext(ctx, "lp", "-d", device, "-o", "fit-to-page", path)
	return runLP(cmd)
}

func runLP(cmd *exec.Cmd) error {
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if diag := strings.TrimSpace(stderr.String()); diag != "" {
			return fmt.Errorf("lp: %s: %w", diag, err)
		}
		return fmt.Errorf("lp: %w", err)
	}
	return nil
}
