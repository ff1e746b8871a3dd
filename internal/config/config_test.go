package config

import (
	"os"
	"path/filepath"
	"testing"
)

func validConfig() Config {
	cfg := Default()
	cfg.Identity.Name = "alice"
	cfg.Peer.Name = "bob"
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"empty identity", func(c *Config) { c.Identity.Name = "" }, true},
		{"empty peer", func(c *Config) { c.Peer.Name = "" }, true},
		{"identity with slash", func(c *Config) { c.Identity.Name = "a/b" }, true},
		{"identity with space", func(c *Config) { c.Identity.Name = "a b" }, true},
		{"same names", func(c *Config) { c.Peer.Name = c.Identity.Name }, true},
		{"no broker", func(c *Config) { c.Broker.URL = "" }, true},
		{"zero photo width", func(c *Config) { c.Printer.MaxPhotoWidth = 0 }, true},
		{"zero heartbeat", func(c *Config) { c.Presence.HeartbeatSec = 0 }, true},
		{"timeout equals heartbeat", func(c *Config) { c.Presence.TimeoutSec = c.Presence.HeartbeatSec }, true},
		{"no capture dir", func(c *Config) { c.Capture.Dir = "" }, true},
		{"zero grid", func(c *Config) { c.Capture.GridWidth = 0 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portal.json")
	cfg := validConfig()
	cfg.Printer.Device = "lp0"

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != cfg {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, cfg)
	}
}

func TestLoadInvalidRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portal.json")
	if err := os.WriteFile(path, []byte(`{"identity":{"name":"alice"},"peer":{"name":"alice"}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error for identical names")
	}
}

func TestLoadStripsBOM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portal.json")
	body := append([]byte{0xEF, 0xBB, 0xBF}, []byte(`{"identity":{"name":"alice"},"peer":{"name":"bob"}}`)...)
	if err := os.WriteFile(path, body, 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Identity.Name != "alice" {
		t.Errorf("identity = %q", cfg.Identity.Name)
	}
}

func TestLoadFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portal.json")
	if err := os.WriteFile(path, []byte(`{"identity":{"name":"alice"},"peer":{"name":"bob"}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	def := Default()
	if cfg.Broker.URL != def.Broker.URL {
		t.Errorf("broker url = %q, want default %q", cfg.Broker.URL, def.Broker.URL)
	}
	if cfg.Presence.HeartbeatSec != def.Presence.HeartbeatSec {
		t.Errorf("heartbeat = %d, want %d", cfg.Presence.HeartbeatSec, def.Presence.HeartbeatSec)
	}
}

func TestEnsureCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portal.json")

	cfg, created, err := Ensure(path)
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if !created {
		t.Fatal("expected createdNew on first call")
	}
	if cfg.Broker.URL == "" {
		t.Error("created config missing broker default")
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("config file not written: %v", err)
	}
}

func TestEnsureLoadsExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portal.json")
	want := validConfig()
	if err := Save(path, want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	cfg, created, err := Ensure(path)
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if created {
		t.Fatal("existing file reported as new")
	}
	if cfg.Identity.Name != "alice" || cfg.Peer.Name != "bob" {
		t.Errorf("loaded %+v", cfg)
	}
}
