package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/momoliu/printportal/internal/util"
)

type Config struct {
	Identity Identity `json:"identity"`
	Peer     Peer     `json:"peer"`
	Broker   Broker   `json:"broker"`
	Printer  Printer  `json:"printer"`
	Presence Presence `json:"presence"`
	Capture  Capture  `json:"capture"`
}

type Identity struct {
	// Name is this side's stable identity. It roots the topics this
	// session subscribes to, so both parties must agree on it out-of-band.
	Name string `json:"name"`
}

type Peer struct {
	// Name is the remote party's identity; outbound content is published
	// to topics rooted here.
	Name string `json:"name"`
}

type Broker struct {
	// URL of the MQTT broker, e.g. "tcp://test.mosquitto.org:1883".
	// ws:// and ssl:// schemes work too.
	URL string `json:"url"`
}

type Printer struct {
	// Device is the printer name passed to the spooler (lp -d).
	Device string `json:"device"`

	// MaxPhotoWidth is the widest a received photo may print; wider photos
	// are downscaled with aspect preserved. Narrower photos are never
	// upscaled.
	MaxPhotoWidth int `json:"max_photo_width"`
}

type Presence struct {
	HeartbeatSec int `json:"heartbeat_seconds"`

	// TimeoutSec is how long an interactive client waits without a
	// heartbeat before showing the peer as offline. Must exceed the
	// heartbeat interval. The portal itself never times presence out.
	TimeoutSec int `json:"timeout_seconds"`
}

type Capture struct {
	// Dir is where sent ASCII art and captured frames are archived.
	Dir string `json:"dir"`

	// ASCII grid dimensions in character cells.
	GridWidth  int `json:"grid_width"`
	GridHeight int `json:"grid_height"`
}

func Default() Config {
	return Config{
		Broker: Broker{
			URL: "tcp://test.mosquitto.org:1883",
		},
		Printer: Printer{
			MaxPhotoWidth: 400,
		},
		Presence: Presence{
			HeartbeatSec: 5,
			TimeoutSec:   10,
		},
		Capture: Capture{
			Dir:        "captures",
			GridWidth:  60,
			GridHeight: 30,
		},
	}
}

func (c *Config) Validate() error {
	if _, err := util.ValidateIdentity(c.Identity.Name); err != nil {
		return fmt.Errorf("identity.name: %w", err)
	}
	if _, err := util.ValidateIdentity(c.Peer.Name); err != nil {
		return fmt.Errorf("peer.name: %w", err)
	}
	if c.Identity.Name == c.Peer.Name {
		return errors.New("identity.name and peer.name must differ")
	}

	if c.Broker.URL == "" {
		return errors.New("broker.url is required")
	}

	if c.Printer.MaxPhotoWidth <= 0 {
		return errors.New("printer.max_photo_width must be > 0")
	}

	if c.Presence.HeartbeatSec <= 0 {
		return errors.New("presence.heartbeat_seconds must be > 0")
	}
	if c.Presence.TimeoutSec <= c.Presence.HeartbeatSec {
		return errors.New("presence.timeout_seconds must be > presence.heartbeat_seconds")
	}

	if c.Capture.Dir == "" {
		return errors.New("capture.dir is required")
	}
	if c.Capture.GridWidth <= 0 || c.Capture.GridHeight <= 0 {
		return errors.New("capture grid dimensions must be > 0")
	}

	return nil
}

func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	// Strip UTF-8 BOM if present (common when editing JSON on Windows).
	b = stripBOM(b)

	// Start from defaults so missing JSON fields remain initialized.
	cfg := Default()
	if err := json.Unmarshal(b, &cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// stripBOM removes a UTF-8 byte order mark if present.
func stripBOM(b []byte) []byte {
	if len(b) >= 3 && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		return b[3:]
	}
	return b
}

func Save(path string, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	return util.WriteJSONFile(path, cfg)
}

// Ensure loads config if it exists; otherwise creates a default config file.
// The default config fails validation until identities are filled in, so a
// freshly created file is written without validating and reported as new.
// Returns (cfg, createdNew, err).
func Ensure(path string) (Config, bool, error) {
	if _, err := os.Stat(path); err == nil {
		cfg, err := Load(path)
		return cfg, false, err
	} else if !os.IsNotExist(err) {
		return Config{}, false, err
	}

	cfg := Default()
	if err := util.WriteJSONFile(path, cfg); err != nil {
		return Config{}, false, fmt.Errorf("create default config: %w", err)
	}
	return cfg, true, nil
}
