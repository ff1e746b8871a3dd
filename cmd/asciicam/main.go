// Command asciicam captures one webcam frame, renders it as ASCII art,
// and publishes it to the recipient's portal. Art goes to stdout so it
// can be piped; status and diagnostics go to stderr. With -image the
// full-resolution JPEG is sent alongside as a printable envelope.
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"image/jpeg"
	"os"
	"path/filepath"
	"time"

	logging "github.com/ipfs/go-log/v2"

	"github.com/momoliu/printportal/internal/bus"
	"github.com/momoliu/printportal/internal/camera"
	"github.com/momoliu/printportal/internal/capture"
	"github.com/momoliu/printportal/internal/config"
	"github.com/momoliu/printportal/internal/raster"
	"github.com/momoliu/printportal/internal/util"
	"github.com/momoliu/printportal/internal/wire"
)

var (
	broker     = flag.String("broker", config.Default().Broker.URL, "MQTT broker URL")
	sendImage  = flag.Bool("image", false, "also send the full-resolution JPEG for printing")
	gridWidth  = flag.Int("width", config.Default().Capture.GridWidth, "ASCII grid width in cells")
	gridHeight = flag.Int("height", config.Default().Capture.GridHeight, "ASCII grid height in cells")
	captureDir = flag.String("captures", config.Default().Capture.Dir, "directory for local archival copies")
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: asciicam [flags] <sender> <recipient>\n")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()
	logging.SetAllLoggers(logging.LevelError)

	args := flag.Args()
	if len(args) != 2 {
		usage()
		os.Exit(2)
	}
	sender, err := util.ValidateIdentity(args[0])
	if err != nil {
		fatal("sender: %v", err)
	}
	recipient, err := util.ValidateIdentity(args[1])
	if err != nil {
		fatal("recipient: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	frame, err := camera.Default().Capture(ctx)
	if err != nil {
		if errors.Is(err, camera.ErrUnavailable) {
			fatal("%v", err)
		}
		fatal("capture failed: %v", err)
	}

	timestamp := util.Now()
	rows := raster.ToASCII(frame, *gridWidth, *gridHeight, raster.DefaultRamp)
	payload := wire.FormatASCII(sender, timestamp, rows)

	// The art itself is the program's output; everything else is stderr.
	for _, row := range rows {
		fmt.Println(row)
	}

	store := capture.NewStore(*captureDir)
	if path, err := store.SaveASCII(sender, payload); err != nil {
		fmt.Fprintf(os.Stderr, "asciicam: %v\n", err)
	} else {
		fmt.Fprintf(os.Stderr, "saved %s\n", path)
	}

	b := bus.NewMQTT(*broker, sender+"-cam")
	if err := b.Connect(ctx); err != nil {
		fatal("%v", err)
	}
	defer b.Close()

	asciiTopic := wire.ASCIITopic(recipient)
	if err := b.Publish(asciiTopic, []byte(payload), false); err != nil {
		fatal("%v", err)
	}
	fmt.Fprintf(os.Stderr, "ASCII image sent to %s\n", asciiTopic)

	if !*sendImage {
		return
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, frame, &jpeg.Options{Quality: 90}); err != nil {
		fatal("encode frame: %v", err)
	}

	framePath, err := store.SaveFrame(frame)
	if err != nil {
		fmt.Fprintf(os.Stderr, "asciicam: %v\n", err)
		framePath = "webcam.jpg"
	}

	envelope, err := wire.EncodeImage(sender, filepath.Base(framePath), timestamp, buf.Bytes())
	if err != nil {
		fatal("encode envelope: %v", err)
	}
	imageTopic := wire.ImagesTopic(recipient)
	if err := b.Publish(imageTopic, envelope, false); err != nil {
		fatal("%v", err)
	}
	fmt.Fprintf(os.Stderr, "image sent to %s (%d bytes)\n", imageTopic, buf.Len())
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "asciicam: "+format+"\n", args...)
	os.Exit(1)
}
