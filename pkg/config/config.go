/*
Package config manages TOML config for axserve.

Settings come from, in order of priority, a path given on the command line,
[UserConfigDir]/axserve/config.toml (created with defaults on first run) and
the built-in defaults. A file with syntax errors is not fatal: every section
that still decodes on its own is kept and the rest fall back to defaults.
*/
package config

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/bastiangx/axserve/internal/utils"
	"github.com/charmbracelet/log"
)

// AppName names the per-user config directory.
const AppName = "axserve"

// Config holds the entire config structure
type Config struct {
	Server ServerConfig `toml:"server"`
	LSP    LSPConfig    `toml:"lsp"`
	Log    LogConfig    `toml:"log"`
	CLI    CliConfig    `toml:"cli"`
}

// ServerConfig has IPC server options.
type ServerConfig struct {
	// MaxPrefix is the longest line prefix, in bytes, a client may send.
	MaxPrefix int  `toml:"max_prefix"`
	Watch     bool `toml:"watch"`
}

// LSPConfig has language server options.
type LSPConfig struct {
	TriggerCharacters []string `toml:"trigger_characters"`
	// PlainText sends expanded text instead of snippets even to clients
	// that support them.
	PlainText bool `toml:"plain_text"`
}

// LogConfig holds logging options.
type LogConfig struct {
	Level string `toml:"level"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	Color  bool   `toml:"color"`
	Prompt string `toml:"prompt"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			MaxPrefix: 512,
			Watch:     false,
		},
		LSP: LSPConfig{
			TriggerCharacters: []string{"."},
			PlainText:         false,
		},
		Log: LogConfig{
			Level: "info",
		},
		CLI: CliConfig{
			Color:  true,
			Prompt: "axs> ",
		},
	}
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	out := *c
	out.LSP.TriggerCharacters = slices.Clone(c.LSP.TriggerCharacters)
	return &out
}

// GetConfigDir returns the first writable per-user config directory
func GetConfigDir() (string, error) {
	return utils.NewPathResolver(AppName).ConfigDir()
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/axserve/config.toml
// 3. Builtin defaults
//
// The returned path is empty when the defaults are in use.
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if utils.FileExists(customConfigPath) {
			config, err := LoadConfig(customConfigPath)
			if err == nil {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
			log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
		} else {
			log.Warnf("Custom config file not found at %s. Trying default path...", customConfigPath)
		}
	}

	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	return LoadConfig(configPath)
}

// LoadConfig loads from a TOML file. Values missing from the file keep their
// defaults.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	config.normalize()
	return config, nil
}

// tryPartialParse salvages the sections of a broken file that still decode
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(section, &config.Server)
	}
	if section, ok := utils.ExtractSection(tempConfig, "lsp"); ok {
		extractLSPConfig(section, &config.LSP)
	}
	if section, ok := utils.ExtractSection(tempConfig, "log"); ok {
		extractLogConfig(section, &config.Log)
	}
	if section, ok := utils.ExtractSection(tempConfig, "cli"); ok {
		extractCliConfig(section, &config.CLI)
	}
	config.normalize()
	return config, nil
}

func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractInt64(data, "max_prefix"); ok {
		server.MaxPrefix = val
	}
	if val, ok := utils.ExtractBool(data, "watch"); ok {
		server.Watch = val
	}
}

func extractLSPConfig(data map[string]any, lsp *LSPConfig) {
	if val, ok := utils.ExtractStringSlice(data, "trigger_characters"); ok {
		lsp.TriggerCharacters = val
	}
	if val, ok := utils.ExtractBool(data, "plain_text"); ok {
		lsp.PlainText = val
	}
}

func extractLogConfig(data map[string]any, logCfg *LogConfig) {
	if val, ok := utils.ExtractString(data, "level"); ok {
		logCfg.Level = val
	}
}

func extractCliConfig(data map[string]any, cli *CliConfig) {
	if val, ok := utils.ExtractBool(data, "color"); ok {
		cli.Color = val
	}
	if val, ok := utils.ExtractString(data, "prompt"); ok {
		cli.Prompt = val
	}
}

// normalize replaces values that cannot work with their defaults.
func (c *Config) normalize() {
	defaults := DefaultConfig()
	if c.Server.MaxPrefix <= 0 {
		log.Warnf("Invalid server.max_prefix %d, using %d", c.Server.MaxPrefix, defaults.Server.MaxPrefix)
		c.Server.MaxPrefix = defaults.Server.MaxPrefix
	}
	chars := c.LSP.TriggerCharacters[:0]
	for _, ch := range c.LSP.TriggerCharacters {
		if ch != "" {
			chars = append(chars, ch)
		}
	}
	if len(chars) == 0 {
		log.Warnf("Empty lsp.trigger_characters, using %q", defaults.LSP.TriggerCharacters)
		chars = defaults.LSP.TriggerCharacters
	}
	c.LSP.TriggerCharacters = chars
	if _, err := log.ParseLevel(strings.ToLower(c.Log.Level)); err != nil {
		log.Warnf("Invalid log.level %q, using %q", c.Log.Level, defaults.Log.Level)
		c.Log.Level = defaults.Log.Level
	}
}

// RebuildConfigFile force creates a new config.toml at default
func RebuildConfigFile() (string, error) {
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		return "", err
	}
	if err := utils.EnsureDir(filepath.Dir(defaultPath)); err != nil {
		return "", err
	}
	return defaultPath, SaveConfig(DefaultConfig(), defaultPath)
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		return "built-in defaults"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}

// Update changes server limits and saves to file. Nil arguments are left as is.
func (c *Config) Update(configPath string, maxPrefix *int, plainText *bool) error {
	if maxPrefix != nil {
		c.Server.MaxPrefix = *maxPrefix
	}
	if plainText != nil {
		c.LSP.PlainText = *plainText
	}
	c.normalize()
	return SaveConfig(c, configPath)
}
