//go:build !linux

package camera

import (
	"context"
	"image"
)

// Frame capture via pion/mediadevices needs the platform driver (V4L2 on
// Linux); other platforms report the device as unavailable.
type noCamera struct{}

func platformCamera() Camera {
	return noCamera{}
}

func (noCamera) Capture(context.Context) (image.Image, error) {
	return nil, ErrUnavailable
}
