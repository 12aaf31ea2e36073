package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const sampleYAML = `
browser:
  remote: ws://127.0.0.1:9222
page:
  url: https://app.example.org/lists
reconcile:
  button_anchor: .list-header
  extract:
    id_selector: .list-header
    id_attr: data-list-id
    label_selector: .list-title
    fields:
      - placeholder: their name
        selector: .record-name
        transform: first
      - placeholder: phone
        selector: .record-phone
        transform: phone
store:
  path: /tmp/domgraft.db
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	cfg, err := LoadFile(writeConfig(t, sampleYAML))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if cfg.Browser.Remote != "ws://127.0.0.1:9222" {
		t.Errorf("browser.remote: got %q", cfg.Browser.Remote)
	}
	if cfg.Reconcile.ButtonAnchor != ".list-header" {
		t.Errorf("button_anchor: got %q", cfg.Reconcile.ButtonAnchor)
	}
	if len(cfg.Reconcile.Extract.Fields) != 2 {
		t.Fatalf("fields: got %d, want 2", len(cfg.Reconcile.Extract.Fields))
	}
	if got := cfg.Reconcile.Extract.Fields[1].Transform; got != "phone" {
		t.Errorf("fields[1].transform: got %q", got)
	}

	// Defaults fill what the file omits.
	if cfg.Page.NavTimeout != 30*time.Second {
		t.Errorf("nav_timeout default: got %v", cfg.Page.NavTimeout)
	}
	if cfg.Store.WatchInterval != 2*time.Second {
		t.Errorf("watch_interval default: got %v", cfg.Store.WatchInterval)
	}
	if cfg.Store.Path != "/tmp/domgraft.db" {
		t.Errorf("store.path: got %q", cfg.Store.Path)
	}
}

func TestLoadFile_MissingRequired(t *testing.T) {
	_, err := LoadFile(writeConfig(t, "page:\n  url: \"\"\n"))
	if err == nil {
		t.Fatal("want error for empty page.url")
	}
}

func TestLoadFile_BadYAML(t *testing.T) {
	_, err := LoadFile(writeConfig(t, "page: [unclosed"))
	if err == nil {
		t.Fatal("want parse error")
	}
}
