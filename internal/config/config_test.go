package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Backend != "file" {
		t.Errorf("backend = %q, want file", cfg.Backend)
	}
	if cfg.Addr != ":8080" {
		t.Errorf("addr = %q", cfg.Addr)
	}
	if cfg.CustomerPollInterval != 10*time.Second || cfg.StaffPollInterval != 30*time.Second {
		t.Errorf("poll intervals = %v / %v", cfg.CustomerPollInterval, cfg.StaffPollInterval)
	}
	if cfg.SubmissionTTL != 48*time.Hour {
		t.Errorf("submission ttl = %v", cfg.SubmissionTTL)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cafe.yaml")
	body := `
backend: feed
feed_kind: gviz
feed_url: https://example.com/gviz
form_url: https://example.com/formResponse
staff_poll_interval: 45s
log_level: debug
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Backend != "feed" || cfg.FeedKind != "gviz" {
		t.Errorf("backend/feed = %q/%q", cfg.Backend, cfg.FeedKind)
	}
	if cfg.FeedURL != "https://example.com/gviz" {
		t.Errorf("feed url = %q", cfg.FeedURL)
	}
	if cfg.StaffPollInterval != 45*time.Second {
		t.Errorf("staff poll = %v", cfg.StaffPollInterval)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("log level = %q", cfg.LogLevel)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
		ok   bool
	}{
		{"file backend", Config{Backend: "file"}, true},
		{"unknown backend", Config{Backend: "redis"}, false},
		{"gviz missing urls", Config{Backend: "feed", FeedKind: "gviz"}, false},
		{"gviz complete", Config{Backend: "feed", FeedKind: "gviz", FeedURL: "u", FormURL: "f"}, true},
		{"dynamo missing tables", Config{Backend: "feed", FeedKind: "dynamo"}, false},
		{"dynamo complete", Config{Backend: "feed", FeedKind: "dynamo", FeedTable: "t", SubmissionsTable: "s"}, true},
		{"dynamo queue without url", Config{Backend: "feed", FeedKind: "dynamo", FeedTable: "t", SubmissionsTable: "s", UseQueue: true}, false},
		{"unknown feed kind", Config{Backend: "feed", FeedKind: "csv"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.validate()
			if tc.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tc.ok && err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}
