package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"

	"github.com/adrg/xdg"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// MinWidth is the narrowest max_width accepted
const MinWidth = 20

// Log levels accepted by log_level
var LogLevels = []string{"debug", "info", "warn", "error"}

// Actions that can be bound to keys
const (
	ActionUp       = "up"
	ActionDown     = "down"
	ActionPageUp   = "page_up"
	ActionPageDown = "page_down"
	ActionTop      = "top"
	ActionBottom   = "bottom"
	ActionOpen     = "open"
	ActionBack     = "back"
	ActionOutline  = "outline"
	ActionSwitch   = "switch_pane"
	ActionReload   = "reload"
	ActionVaults   = "vaults"
	ActionHelp     = "help"
	ActionQuit     = "quit"
)

// DefaultKeyBindings returns the keys bound to each action
func DefaultKeyBindings() map[string][]string {
	return map[string][]string{
		ActionUp:       {"up", "k"},
		ActionDown:     {"down", "j"},
		ActionPageUp:   {"pgup", "b"},
		ActionPageDown: {"pgdown", "f", " "},
		ActionTop:      {"home", "g"},
		ActionBottom:   {"end", "G"},
		ActionOpen:     {"enter", "l"},
		ActionBack:     {"esc", "h"},
		ActionOutline:  {"o"},
		ActionSwitch:   {"tab"},
		ActionReload:   {"r"},
		ActionVaults:   {"v"},
		ActionHelp:     {"?"},
		ActionQuit:     {"q", "ctrl+c"},
	}
}

// Config represents the vaultview configuration
type Config struct {
	Vault             string              `json:"vault,omitempty"`
	LogFile           string              `json:"log_file"`
	LogLevel          string              `json:"log_level"`
	MaxWidth          int                 `json:"max_width"`
	ObsidianConfigDir string              `json:"obsidian_config_dir,omitempty"`
	KeyBindings       map[string][]string `json:"key_bindings,omitempty"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		LogFile:     filepath.Join(os.TempDir(), "vaultview.log"),
		LogLevel:    "info",
		MaxWidth:    100,
		KeyBindings: DefaultKeyBindings(),
	}
}

// ConfigPath returns the path to the config file
// Uses ~/.config on all platforms for consistency
// Can be overridden for testing
var ConfigPath = func() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(xdg.ConfigHome, "vaultview", "config.json")
	}
	return filepath.Join(home, ".config", "vaultview", "config.json")
}

// StateFilePath returns the path to the state file
// Can be overridden for testing
var StateFilePath = func() string {
	return filepath.Join(xdg.StateHome, "vaultview", "state.json")
}

// Load reads configuration from the config directory. Keys missing from
// the file keep their defaults; key_bindings entries replace the default
// keys of the actions they name
func Load() (*Config, error) {
	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	var raw struct {
		Vault             string              `json:"vault"`
		LogFile           *string             `json:"log_file"`
		LogLevel          *string             `json:"log_level"`
		MaxWidth          *int                `json:"max_width"`
		ObsidianConfigDir string              `json:"obsidian_config_dir"`
		KeyBindings       map[string][]string `json:"key_bindings"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg := DefaultConfig()
	cfg.Vault = raw.Vault
	cfg.ObsidianConfigDir = raw.ObsidianConfigDir
	if raw.LogFile != nil {
		cfg.LogFile = *raw.LogFile
	}
	if raw.LogLevel != nil {
		cfg.LogLevel = *raw.LogLevel
	}
	if raw.MaxWidth != nil {
		cfg.MaxWidth = *raw.MaxWidth
	}
	for action, keys := range raw.KeyBindings {
		cfg.KeyBindings[action] = keys
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := cfg.ExpandPaths(); err != nil {
		return nil, fmt.Errorf("failed to expand paths: %w", err)
	}

	return cfg, nil
}

// Save writes configuration to the config directory
func (c *Config) Save() error {
	configPath := ConfigPath()

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	levels := make([]any, len(LogLevels))
	for i, l := range LogLevels {
		levels[i] = l
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.LogFile, validation.Required),
		validation.Field(&c.LogLevel, validation.Required, validation.In(levels...)),
		validation.Field(&c.MaxWidth, validation.Min(MinWidth)),
		validation.Field(&c.KeyBindings, validation.By(validateBindings)),
	)
}

func validateBindings(value any) error {
	bindings, _ := value.(map[string][]string)
	known := DefaultKeyBindings()

	actions := make([]string, 0, len(bindings))
	for action := range bindings {
		actions = append(actions, action)
	}
	sort.Strings(actions)

	for _, action := range actions {
		if _, ok := known[action]; !ok {
			return fmt.Errorf("unknown action %q", action)
		}
		keys := bindings[action]
		if len(keys) == 0 {
			return fmt.Errorf("action %q has no keys", action)
		}
		if slices.Contains(keys, "") {
			return fmt.Errorf("action %q has an empty key", action)
		}
	}
	return nil
}

// ExpandPaths expands any ~ or relative paths to absolute paths
func (c *Config) ExpandPaths() error {
	var err error

	c.LogFile, err = expandPath(c.LogFile)
	if err != nil {
		return fmt.Errorf("failed to expand log_file: %w", err)
	}

	c.ObsidianConfigDir, err = expandPath(c.ObsidianConfigDir)
	if err != nil {
		return fmt.Errorf("failed to expand obsidian_config_dir: %w", err)
	}

	return nil
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) (string, error) {
	if path == "" {
		return path, nil
	}

	if path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		if len(path) == 1 {
			return homeDir, nil
		}
		path = filepath.Join(homeDir, path[1:])
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	return absPath, nil
}
