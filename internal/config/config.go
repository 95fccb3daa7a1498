// Package config handles XDG configuration directory and file paths.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// AppName is the application directory name.
	AppName = "tdui"

	// OAuthClientFile is the Google OAuth client credentials filename.
	OAuthClientFile = "oauth_client.json"

	// TokenFile is the stored token filename, shared by both backends.
	TokenFile = "token.json"

	// DebugLogFile receives debug output while the TUI owns the terminal.
	DebugLogFile = "debug.log"

	// BackendEnv selects the backend when --backend is not given.
	BackendEnv = "TDUI_BACKEND"

	// TodoistTokenEnv overrides the stored Todoist token.
	TodoistTokenEnv = "TODOIST_API_TOKEN"
)

// Backend names.
const (
	BackendTodoist     = "todoist"
	BackendGoogleTasks = "googletasks"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Backend is the task backend in use.
	Backend string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool
}

// New creates a new Config with the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/tdui or $HOME/.config/tdui.
// If backend is empty, TDUI_BACKEND is consulted, then todoist.
func New(configDir, backend string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	b, err := ParseBackend(backend)
	if err != nil {
		return nil, err
	}
	return &Config{Dir: dir, Backend: b}, nil
}

// ParseBackend normalizes a backend name. Empty falls back to TDUI_BACKEND.
func ParseBackend(name string) (string, error) {
	if name == "" {
		name = os.Getenv(BackendEnv)
	}
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", BackendTodoist:
		return BackendTodoist, nil
	case BackendGoogleTasks, "google":
		return BackendGoogleTasks, nil
	default:
		return "", fmt.Errorf("unknown backend: %s (want %s or %s)", name, BackendTodoist, BackendGoogleTasks)
	}
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// OAuthClientPath returns the path to the OAuth client credentials file.
func (c *Config) OAuthClientPath() string {
	return filepath.Join(c.Dir, OAuthClientFile)
}

// TokenPath returns the path to the stored token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// DebugLogPath returns the path of the TUI debug log.
func (c *Config) DebugLogPath() string {
	return filepath.Join(c.Dir, DebugLogFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasOAuthClient checks if the OAuth client credentials file exists.
func (c *Config) HasOAuthClient() bool {
	_, err := os.Stat(c.OAuthClientPath())
	return err == nil
}

// HasToken checks if a token is available: the token file, or for
// todoist the TODOIST_API_TOKEN environment variable.
func (c *Config) HasToken() bool {
	if c.Backend == BackendTodoist && os.Getenv(TodoistTokenEnv) != "" {
		return true
	}
	_, err := os.Stat(c.TokenPath())
	return err == nil
}

// RemoveToken deletes the token file.
func (c *Config) RemoveToken() error {
	return os.Remove(c.TokenPath())
}
