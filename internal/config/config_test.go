package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadMissingFileKeepsDefaults(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "none", "config.yaml"))
	if err := m.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if *m.Config() != *Default() {
		t.Errorf("config = %+v, want defaults", m.Config())
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr error
		check   func(t *testing.T, c *Config)
	}{
		{
			name: "full",
			data: "site: example.com\nusername: editor\nkind: page\ntimeoutSeconds: 5\nsanitizeHTML: false\ntheme: dark\nlog:\n  file: /tmp/x.log\n  level: debug\n",
			check: func(t *testing.T, c *Config) {
				if c.Site != "example.com" || c.Username != "editor" || c.Kind != "page" {
					t.Errorf("form values = %+v", c)
				}
				if c.Timeout() != 5*time.Second || c.SanitizeHTML || c.Theme != "dark" {
					t.Errorf("settings = %+v", c)
				}
				if c.Log.File != "/tmp/x.log" || c.Log.Level != "debug" {
					t.Errorf("log = %+v", c.Log)
				}
			},
		},
		{
			name: "partial keeps defaults",
			data: "site: example.com\n",
			check: func(t *testing.T, c *Config) {
				if c.Kind != "post" || c.TimeoutSeconds != DefaultTimeout || !c.SanitizeHTML {
					t.Errorf("defaults lost: %+v", c)
				}
			},
		},
		{
			name: "blank file",
			data: "\n  \n",
			check: func(t *testing.T, c *Config) {
				if *c != *Default() {
					t.Errorf("config = %+v", c)
				}
			},
		},
		{name: "unknown key", data: "password: hunter2\n", wantErr: ErrConfigParse},
		{name: "bad syntax", data: "site: [oops\n", wantErr: ErrConfigParse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.data), 0o600); err != nil {
				t.Fatal(err)
			}
			m := NewManager(path)
			err := m.Load()
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Load err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			tt.check(t, m.Config())
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		ok     bool
	}{
		{"defaults", func(c *Config) {}, true},
		{"page upper", func(c *Config) { c.Kind = "Page" }, true},
		{"bad kind", func(c *Config) { c.Kind = "story" }, false},
		{"zero timeout", func(c *Config) { c.TimeoutSeconds = 0 }, false},
		{"bad level", func(c *Config) { c.Log.Level = "trace" }, false},
	}
	for _, tt := range tests {
		c := Default()
		tt.mutate(c)
		err := c.Validate()
		if (err == nil) != tt.ok {
			t.Errorf("%s: Validate() = %v", tt.name, err)
		}
		if err != nil && !errors.Is(err, ErrInvalid) {
			t.Errorf("%s: error %v is not ErrInvalid", tt.name, err)
		}
	}
}

// optedIn writes a config file that enables rememberLogin and loads it.
func optedIn(t *testing.T, path string) *Manager {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("rememberLogin: true\n"), DefaultFilePerms); err != nil {
		t.Fatal(err)
	}
	m := NewManager(path)
	if err := m.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return m
}

func TestRememberLoginOffByDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	m := NewManager(path)
	if err := m.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	saved, err := m.RememberLogin("example.com", "editor")
	if err != nil || saved {
		t.Fatalf("RememberLogin = %v, %v; want false, nil", saved, err)
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("config file written without opt-in: %v", err)
	}
	if m.Config().Site != "" || m.Config().Username != "" {
		t.Errorf("effective config changed: %+v", m.Config())
	}

	// Turning it on for one run only is not enough; the file decides.
	m.Override(func(c *Config) { c.RememberLogin = true })
	if saved, _ := m.RememberLogin("example.com", "editor"); saved {
		t.Error("override enabled saving")
	}
}

func TestRememberLoginRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	m := optedIn(t, path)
	saved, err := m.RememberLogin("example.com", "editor")
	if err != nil {
		t.Fatalf("RememberLogin: %v", err)
	}
	if !saved {
		t.Fatal("RememberLogin did not save with rememberLogin: true")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(strings.ToLower(string(data)), "password") {
		t.Errorf("saved config mentions a password:\n%s", data)
	}

	reloaded := NewManager(path)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := reloaded.Config(); got.Site != "example.com" || got.Username != "editor" || !got.RememberLogin {
		t.Errorf("reloaded = %+v", got)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != DefaultFilePerms {
		t.Errorf("perm = %o, want %o", perm, DefaultFilePerms)
	}
}

func TestOverrideIsNotSaved(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	m := optedIn(t, path)
	m.Override(func(c *Config) {
		c.TimeoutSeconds = 5
		c.Theme = "dracula"
	})
	if m.Config().TimeoutSeconds != 5 {
		t.Fatalf("override not applied: %+v", m.Config())
	}
	if _, err := m.RememberLogin("example.com", "editor"); err != nil {
		t.Fatalf("RememberLogin: %v", err)
	}

	reloaded := NewManager(path)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	got := reloaded.Config()
	if got.TimeoutSeconds != DefaultTimeout || got.Theme != "default" {
		t.Errorf("override leaked into file: %+v", got)
	}
	if got.Site != "example.com" {
		t.Errorf("site = %q", got.Site)
	}
}
