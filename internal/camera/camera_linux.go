//go:build linux

package camera

import (
	"context"
	"fmt"
	"image"

	"github.com/pion/mediadevices"
	_ "github.com/pion/mediadevices/pkg/driver/camera"
	"github.com/pion/mediadevices/pkg/prop"
)

// warmupFrames are read and discarded before the kept frame so the
// camera's auto-exposure has settled.
const warmupFrames = 5

type v4l2Camera struct{}

func platformCamera() Camera {
	return v4l2Camera{}
}

// Capture opens the default camera via pion/mediadevices (V4L2), lets the
// sensor settle, and returns the next raw frame as an image.Image.
func (v4l2Camera) Capture(ctx context.Context) (image.Image, error) {
	stream, err := mediadevices.GetUserMedia(mediadevices.MediaStreamConstraints{
		Video: func(c *mediadevices.MediaTrackConstraints) {
			c.Width = prop.IntRanged{Ideal: 1280}
			c.Height = prop.IntRanged{Ideal: 720}
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	tracks := stream.GetVideoTracks()
	if len(tracks) == 0 {
		return nil, ErrUnavailable
	}
	track, ok := tracks[0].(*mediadevices.VideoTrack)
	if !ok {
		return nil, ErrUnavailable
	}
	defer track.Close()

	reader := track.NewReader(false)
	for i := 0; i < warmupFrames; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		frame, release, err := reader.Read()
		if err != nil {
			return nil, fmt.Errorf("camera warmup read: %w", err)
		}
		_ = frame
		release()
	}

	frame, release, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("camera read: %w", err)
	}
	defer release()

	// The frame buffer is recycled after release; copy before returning.
	return cloneFrame(frame), nil
}

func cloneFrame(src image.Image) image.Image {
	b := src.Bounds()
	dst := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			dst.Set(x, y, src.At(x, y))
		}
	}
	return dst
}
