package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
[app]
server = "Oshimo"

[bridge]
ws_url = "ws://127.0.0.1:26116/bridge"
structured = true
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.App.FlushEveryMin != 5 || cfg.App.RetentionDays != 7 {
		t.Errorf("timer defaults not applied: %+v", cfg.App)
	}
	if cfg.App.Namespace != "hdvtrack-market-data" {
		t.Errorf("namespace default not applied: %q", cfg.App.Namespace)
	}
	if cfg.Storage.Driver != "sqlite" || cfg.Storage.Path == "" {
		t.Errorf("storage defaults not applied: %+v", cfg.Storage)
	}
	if got := cfg.PartitionKey(); got != "hdvtrack-market-data-Oshimo" {
		t.Errorf("partition key %q", got)
	}
}

func TestLoadValidation(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"no server", "[bridge]\nws_url = \"ws://x\"\nstructured = true\n"},
		{"no channels", "[app]\nserver = \"S\"\n[bridge]\nws_url = \"ws://x\"\n"},
		{"no ws url", "[app]\nserver = \"S\"\n[bridge]\nstructured = true\n"},
		{"redis without addr", "[app]\nserver = \"S\"\n[bridge]\nws_url = \"ws://x\"\nstructured = true\n[storage]\ndriver = \"redis\"\n"},
		{"bad driver", "[app]\nserver = \"S\"\n[bridge]\nws_url = \"ws://x\"\nstructured = true\n[storage]\ndriver = \"floppy\"\n"},
	}
	for _, tc := range cases {
		if _, err := Load(writeConfig(t, tc.body)); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("HDVTRACK_SERVER", "Imagiro")
	t.Setenv("HDVTRACK_REDIS_DB", "3")

	path := writeConfig(t, `
[app]
server = "Oshimo"

[bridge]
ws_url = "ws://127.0.0.1:26116/bridge"
scraper = true
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.App.Server != "Imagiro" {
		t.Errorf("env override ignored: %q", cfg.App.Server)
	}
	if cfg.Storage.RedisDB != 3 {
		t.Errorf("int env override ignored: %d", cfg.Storage.RedisDB)
	}
}
