// internal/config/config.go

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
)

const (
	DefaultConfigFileName = "config.yaml"
	DefaultLogFileName    = "docpub.log"
	AppDirName            = "docpub"
	DefaultFilePerms      = 0600
	DefaultTimeout        = 30
)

var (
	ErrConfigParse = errors.New("failed to parse config")
	ErrInvalid     = errors.New("invalid config")
)

// Config holds form defaults and ambient settings. It never holds the
// application password.
type Config struct {
	Site           string    `yaml:"site,omitempty"`
	Username       string    `yaml:"username,omitempty"`
	Kind           string    `yaml:"kind,omitempty"`
	TimeoutSeconds int       `yaml:"timeoutSeconds,omitempty"`
	SanitizeHTML   bool      `yaml:"sanitizeHTML"`
	Theme          string    `yaml:"theme,omitempty"`
	RememberLogin  bool      `yaml:"rememberLogin,omitempty"`
	Log            LogConfig `yaml:"log"`
}

type LogConfig struct {
	File  string `yaml:"file,omitempty"`
	Level string `yaml:"level,omitempty"`
}

func Default() *Config {
	return &Config{
		Kind:           "post",
		TimeoutSeconds: DefaultTimeout,
		SanitizeHTML:   true,
		Theme:          "default",
		Log:            LogConfig{Level: "info"},
	}
}

func (c *Config) clone() *Config {
	cp := *c
	return &cp
}

// Timeout is the per-call XML-RPC timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Validate checks the values a user can get wrong in the file or on flags.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Kind) {
	case "post", "page":
	default:
		return fmt.Errorf("%w: kind must be post or page, got %q", ErrInvalid, c.Kind)
	}
	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("%w: timeoutSeconds must be positive", ErrInvalid)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log.level must be debug, info, warn or error, got %q", ErrInvalid, c.Log.Level)
	}
	return nil
}

// Manager owns the config file. Config returns the effective settings, which
// may carry per-run overrides; Save writes only what came from the file plus
// remembered logins, if the file enables them.
type Manager struct {
	configPath string
	config     *Config
	stored     *Config
}

// NewManager uses the default path when configPath is empty.
func NewManager(configPath string) *Manager {
	if configPath == "" {
		defaultPath, err := GetDefaultConfigPath()
		if err == nil {
			configPath = defaultPath
		} else {
			configPath = DefaultConfigFileName
		}
	}

	return &Manager{
		configPath: configPath,
		config:     Default(),
		stored:     Default(),
	}
}

func (m *Manager) Path() string {
	return m.configPath
}

func (m *Manager) Config() *Config {
	return m.config
}

// Load reads the file over the defaults. A missing file leaves the defaults
// in place and is not an error.
func (m *Manager) Load() error {
	data, err := os.ReadFile(m.configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}

	cfg := Default()
	if err := yaml.UnmarshalWithOptions(data, cfg, yaml.Strict()); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrConfigParse, m.configPath, err)
	}
	m.stored = cfg
	m.config = cfg.clone()
	return nil
}

// Override applies per-run changes, such as command-line flags, that are
// never written back to the file.
func (m *Manager) Override(fn func(*Config)) {
	fn(m.config)
}

// Save writes the config, creating its directory.
func (m *Manager) Save() error {
	configDir := filepath.Dir(m.configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(m.stored)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(m.configPath, data, DefaultFilePerms); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// RememberLogin stores the site and username of a successful login so the
// next run pre-fills them. It reports false and touches nothing unless the
// file sets rememberLogin.
func (m *Manager) RememberLogin(site, username string) (bool, error) {
	if !m.stored.RememberLogin {
		return false, nil
	}
	m.config.Site = site
	m.config.Username = username
	if m.stored.Site == site && m.stored.Username == username {
		return true, nil
	}
	m.stored.Site = site
	m.stored.Username = username
	return true, m.Save()
}

func GetDefaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("could not get config directory: %w", err)
	}
	return filepath.Join(dir, AppDirName, DefaultConfigFileName), nil
}

func GetDefaultLogPath() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("could not get cache directory: %w", err)
	}
	return filepath.Join(dir, AppDirName, DefaultLogFileName), nil
}
