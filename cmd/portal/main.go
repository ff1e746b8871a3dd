// Command portal is the receiving side: it sits on the bus, tracks the
// peer's presence, shows received ASCII art on the terminal, and prints
// received messages and photos on the configured printer.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	logging "github.com/ipfs/go-log/v2"

	"github.com/momoliu/printportal/internal/bus"
	"github.com/momoliu/printportal/internal/config"
	"github.com/momoliu/printportal/internal/printer"
	"github.com/momoliu/printportal/internal/session"
)

var (
	cfgPath = flag.String("config", "portal.json", "path to the config file")
	noPrint = flag.Bool("no-print", false, "display received content only, never drive the printer")
	debug   = flag.Bool("debug", false, "verbose logging")
)

func main() {
	flag.Parse()

	logging.SetAllLoggers(logging.LevelInfo)
	if *debug {
		logging.SetAllLoggers(logging.LevelDebug)
	}

	cfg, created, err := config.Ensure(*cfgPath)
	if err != nil {
		fatal("config: %v", err)
	}
	if created {
		fmt.Fprintf(os.Stderr, "created %s: fill in identity and peer names, then restart\n", *cfgPath)
		os.Exit(1)
	}

	var pipeline *printer.Pipeline
	if !*noPrint {
		if cfg.Printer.Device == "" {
			fatal("printer.device is not set (run with -no-print for display only)")
		}
		pipeline = printer.NewPipeline(cfg.Printer.Device, cfg.Printer.MaxPhotoWidth, printer.LP{})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(os.Stderr, "connecting to %s as %s (peer: %s)...\n",
		cfg.Broker.URL, cfg.Identity.Name, cfg.Peer.Name)

	sess := session.New(cfg, bus.NewMQTT(cfg.Broker.URL, cfg.Identity.Name), pipeline)
	if err := sess.Run(ctx); err != nil {
		fatal("%v", err)
	}
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "portal: "+format+"\n", args...)
	os.Exit(1)
}
