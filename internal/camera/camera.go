// Package camera grabs single still frames from the local webcam. The
// capture subsystem is a collaborator behind the Camera interface: the
// sender CLI needs exactly one decoded frame, and the portal never links
// capture into its receive path.
package camera

import (
	"context"
	"errors"
	"image"
)

// ErrUnavailable means no usable capture device exists. Fatal to the
// sending utility, irrelevant to a receiver.
var ErrUnavailable = errors.New("no camera available")

// Camera returns one decoded frame or a failure reason.
type Camera interface {
	Capture(ctx context.Context) (image.Image, error)
}

// Default returns the platform camera implementation.
func Default() Camera {
	return platformCamera()
}
