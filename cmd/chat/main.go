// Command chat is the interactive side of the portal: a terminal chat
// with a presence bar, inline ASCII art, and a /p command that captures
// and sends a webcam snapshot.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	logging "github.com/ipfs/go-log/v2"

	"github.com/momoliu/printportal/internal/config"
)

var cfgPath = flag.String("config", "portal.json", "path to the config file")

func main() {
	flag.Parse()

	// The TUI owns the terminal; background loggers stay quiet.
	logging.SetAllLoggers(logging.LevelError)

	cfg, created, err := config.Ensure(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "chat: config: %v\n", err)
		os.Exit(1)
	}
	if created {
		fmt.Fprintf(os.Stderr, "created %s: fill in identity and peer names, then restart\n", *cfgPath)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	net := NewNetwork(cfg)
	p := tea.NewProgram(initialModel(ctx, net), tea.WithAltScreen())
	_, runErr := p.Run()

	// Announce offline before the connection goes away, whatever the
	// reason for quitting.
	net.Goodbye()

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "chat: %v\n", runErr)
		os.Exit(1)
	}
}
