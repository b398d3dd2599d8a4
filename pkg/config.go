package dupetree

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-ini/ini"
)

// Config represents the dupetree configuration file
type Config struct {
	configPath string
	ini        *ini.File
}

// HashConfig represents hash algorithm configuration
type HashConfig struct {
	Default string // Hash algorithm
	Window  string // Prefix/suffix sample window, human size
}

// OutputConfig represents output format configuration
type OutputConfig struct {
	Format string // human, fdupes, json, yaml
}

// VerboseConfig represents verbosity configuration
type VerboseConfig struct {
	Level int    // Default verbose level (0=quiet, 1=basic, 2=detailed, 3=trace)
	Debug string // Default debug flags (comma-separated)
}

// IgnoreConfig represents the global ignore patterns
type IgnoreConfig struct {
	Patterns []string
}

// ErrorsConfig represents error handling policy
type ErrorsConfig struct {
	Unreadable string // abort or skip files whose content cannot be read
}

// AllConfig represents all configuration options
type AllConfig struct {
	Hash    *HashConfig
	Output  *OutputConfig
	Verbose *VerboseConfig
	Ignore  *IgnoreConfig
	Errors  *ErrorsConfig
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/dupetree/config (or the platform equivalent)
func DefaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config directory: %w", err)
	}
	return filepath.Join(dir, "dupetree", "config"), nil
}

// LoadConfig loads configuration from configPath. A missing file yields the
// defaults; nothing is written until Save is called.
func LoadConfig(configPath string) (*Config, error) {
	cfg := &Config{
		configPath: configPath,
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg.ini = ini.Empty()
		if err := cfg.setDefaults(); err != nil {
			return nil, fmt.Errorf("failed to set default config: %w", err)
		}
		return cfg, nil
	}

	iniFile, err := ini.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}
	cfg.ini = iniFile
	return cfg, nil
}

// DefaultConfig returns an in-memory configuration holding the defaults
func DefaultConfig() *Config {
	cfg := &Config{ini: ini.Empty()}
	cfg.setDefaults()
	return cfg
}

// setDefaults sets default configuration values
func (c *Config) setDefaults() error {
	defaults := []struct {
		section, key, value string
	}{
		{"filehash", "default", "sha256"},
		{"filehash", "window", DefaultWindow},
		{"output", "format", FormatHuman},
		{"verbose", "level", "0"},
		{"verbose", "debug", ""},
		{"ignore", "patterns", ""},
		{"errors", "unreadable", UnreadableAbort},
	}

	for _, d := range defaults {
		section, err := c.ini.GetSection(d.section)
		if err != nil {
			section, err = c.ini.NewSection(d.section)
			if err != nil {
				return fmt.Errorf("failed to create %s section: %w", d.section, err)
			}
		}
		if _, err := section.NewKey(d.key, d.value); err != nil {
			return fmt.Errorf("failed to set default %s.%s: %w", d.section, d.key, err)
		}
	}
	return nil
}

// Path returns the file the configuration is loaded from and saved to
func (c *Config) Path() string {
	return c.configPath
}

// GetHashConfig returns the hash configuration
func (c *Config) GetHashConfig() *HashConfig {
	hashConfig := &HashConfig{
		Default: "sha256",
		Window:  DefaultWindow,
	}

	if c.ini.HasSection("filehash") {
		section := c.ini.Section("filehash")
		if value := section.Key("default").String(); value != "" {
			hashConfig.Default = value
		}
		if value := section.Key("window").String(); value != "" {
			hashConfig.Window = value
		}
	}

	return hashConfig
}

// GetOutputConfig returns the output configuration
func (c *Config) GetOutputConfig() *OutputConfig {
	outputConfig := &OutputConfig{
		Format: FormatHuman,
	}

	if c.ini.HasSection("output") {
		if value := c.ini.Section("output").Key("format").String(); value != "" {
			outputConfig.Format = value
		}
	}

	return outputConfig
}

// GetVerboseConfig returns the verbose configuration
func (c *Config) GetVerboseConfig() *VerboseConfig {
	verboseConfig := &VerboseConfig{}

	if c.ini.HasSection("verbose") {
		section := c.ini.Section("verbose")
		if section.HasKey("level") {
			if level, err := section.Key("level").Int(); err == nil {
				verboseConfig.Level = level
			}
		}
		verboseConfig.Debug = section.Key("debug").String()
	}

	return verboseConfig
}

// GetIgnoreConfig returns the configured ignore patterns
func (c *Config) GetIgnoreConfig() *IgnoreConfig {
	ignoreConfig := &IgnoreConfig{}

	if c.ini.HasSection("ignore") {
		for _, pattern := range c.ini.Section("ignore").Key("patterns").Strings(",") {
			if pattern != "" {
				ignoreConfig.Patterns = append(ignoreConfig.Patterns, pattern)
			}
		}
	}

	return ignoreConfig
}

// GetErrorsConfig returns the error handling policy
func (c *Config) GetErrorsConfig() *ErrorsConfig {
	errorsConfig := &ErrorsConfig{
		Unreadable: UnreadableAbort,
	}

	if c.ini.HasSection("errors") {
		if value := c.ini.Section("errors").Key("unreadable").String(); value != "" {
			errorsConfig.Unreadable = strings.ToLower(value)
		}
	}

	return errorsConfig
}

// GetAllConfig returns all configuration options
func (c *Config) GetAllConfig() *AllConfig {
	return &AllConfig{
		Hash:    c.GetHashConfig(),
		Output:  c.GetOutputConfig(),
		Verbose: c.GetVerboseConfig(),
		Ignore:  c.GetIgnoreConfig(),
		Errors:  c.GetErrorsConfig(),
	}
}

// Validate checks every setting
func (c *Config) Validate() error {
	all := c.GetAllConfig()
	if err := ValidateHashAlgorithm(all.Hash.Default); err != nil {
		return err
	}
	if err := ValidateWindow(all.Hash.Window); err != nil {
		return err
	}
	if err := ValidateOutputFormat(all.Output.Format); err != nil {
		return err
	}
	if err := ValidateVerboseLevel(all.Verbose.Level); err != nil {
		return err
	}
	if err := ValidateUnreadablePolicy(all.Errors.Unreadable); err != nil {
		return err
	}
	if _, err := NewIgnoreManager(all.Ignore.Patterns...); err != nil {
		return err
	}
	return nil
}

// Save saves the configuration to disk
func (c *Config) Save() error {
	if c.configPath == "" {
		return fmt.Errorf("no config path set")
	}
	if err := os.MkdirAll(filepath.Dir(c.configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return c.ini.SaveTo(c.configPath)
}

// WriteTo writes the configuration in ini format
func (c *Config) WriteTo(w io.Writer) (int64, error) {
	return c.ini.WriteTo(w)
}

// overrideKeys maps override keys to their section and key
var overrideKeys = map[string][2]string{
	"default":    {"filehash", "default"},
	"window":     {"filehash", "window"},
	"format":     {"output", "format"},
	"level":      {"verbose", "level"},
	"debug":      {"verbose", "debug"},
	"patterns":   {"ignore", "patterns"},
	"unreadable": {"errors", "unreadable"},
}

// ApplyOverrides applies command-line overrides to the configuration
// Accepts strings like "default:sha512", "format:json", "unreadable:skip"
func (c *Config) ApplyOverrides(overrides []string) error {
	for _, override := range overrides {
		parts := strings.SplitN(override, ":", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid override format '%s', expected 'key:value'", override)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		target, ok := overrideKeys[key]
		if !ok {
			return fmt.Errorf("unsupported override key '%s' (supported: default, window, format, level, debug, patterns, unreadable)", key)
		}
		c.ini.Section(target[0]).Key(target[1]).SetValue(value)
	}

	return nil
}

// ValidateHashAlgorithm validates that a hash algorithm is supported
func ValidateHashAlgorithm(algorithm string) error {
	if _, ok := HashTypeFromName(algorithm); !ok {
		return fmt.Errorf("unsupported hash algorithm: %s (supported: sha1, sha256, sha512)", algorithm)
	}
	return nil
}

// ValidateWindow validates the sample window size
func ValidateWindow(window string) error {
	if _, err := ParseHumanSize(window); err != nil {
		return fmt.Errorf("invalid sample window %q: %w", window, err)
	}
	return nil
}

// ValidateOutputFormat validates that an output format is supported
func ValidateOutputFormat(format string) error {
	switch strings.ToLower(format) {
	case FormatHuman, FormatFdupes, FormatJSON, FormatYAML:
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s (supported: human, fdupes, json, yaml)", format)
	}
}

// ValidateVerboseLevel validates that a verbose level is valid
func ValidateVerboseLevel(level int) error {
	if level < 0 || level > 3 {
		return fmt.Errorf("invalid verbose level: %d (supported: 0-3)", level)
	}
	return nil
}

// ValidateUnreadablePolicy validates the unreadable file policy
func ValidateUnreadablePolicy(policy string) error {
	switch strings.ToLower(policy) {
	case UnreadableAbort, UnreadableSkip:
		return nil
	default:
		return fmt.Errorf("unsupported unreadable policy: %s (supported: abort, skip)", policy)
	}
}
