package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/ludo-technologies/qgrade/internal/constants"
)

// Default performance settings
const (
	// DefaultMaxGoroutines bounds concurrent ignore-marker reads
	DefaultMaxGoroutines = 8

	// DefaultTimeoutSeconds bounds the ignore-marker step as a whole
	DefaultTimeoutSeconds = 60
)

// Config represents the main configuration structure
type Config struct {
	// Input describes where exports come from and how they are delimited
	Input InputConfig `json:"input" mapstructure:"input" yaml:"input"`

	// Ignore controls the first-line ignore marker
	Ignore IgnoreConfig `json:"ignore" mapstructure:"ignore" yaml:"ignore"`

	// Analysis holds row filtering configuration
	Analysis AnalysisConfig `json:"analysis" mapstructure:"analysis" yaml:"analysis"`

	// Output holds output formatting configuration
	Output OutputConfig `json:"output" mapstructure:"output" yaml:"output"`

	// Performance bounds the concurrent parts of a run
	Performance PerformanceConfig `json:"performance" mapstructure:"performance" yaml:"performance"`
}

// InputConfig describes the export sources
type InputConfig struct {
	// Sources are export paths or afs URLs read when none are given on the command line
	Sources []string `json:"sources" mapstructure:"sources" yaml:"sources"`

	// Delimiter is the single field separator
	Delimiter string `json:"delimiter" mapstructure:"delimiter" yaml:"delimiter"`

	// Comment marks lines to skip; empty disables comments
	Comment string `json:"comment" mapstructure:"comment" yaml:"comment"`
}

// IgnoreConfig controls ignore-marker resolution
type IgnoreConfig struct {
	// Enabled turns marker lookups on
	Enabled bool `json:"enabled" mapstructure:"enabled" yaml:"enabled"`

	// Marker is searched for in the first line of each violating file
	Marker string `json:"marker" mapstructure:"marker" yaml:"marker"`

	// ProjectRoot is joined with each file identifier before reading it
	ProjectRoot string `json:"projectRoot" mapstructure:"project_root" yaml:"project_root"`
}

// AnalysisConfig holds row filtering configuration
type AnalysisConfig struct {
	// ExcludePatterns drops rows whose file matches (gitignore syntax)
	ExcludePatterns []string `json:"excludePatterns" mapstructure:"exclude_patterns" yaml:"exclude_patterns"`
}

// OutputConfig holds configuration for output formatting
type OutputConfig struct {
	// Format specifies the output format: text, json, yaml
	Format string `json:"format" mapstructure:"format" yaml:"format"`

	// Color enables styled text output on terminals
	Color bool `json:"color" mapstructure:"color" yaml:"color"`

	// MetricsFile receives a Prometheus textfile when set
	MetricsFile string `json:"metricsFile" mapstructure:"metrics_file" yaml:"metrics_file"`

	// Verbose enables debug logging and progress bars
	Verbose bool `json:"verbose" mapstructure:"verbose" yaml:"verbose"`
}

// PerformanceConfig bounds concurrency and run time
type PerformanceConfig struct {
	// MaxGoroutines is the concurrency limit; 0 means the built-in default
	MaxGoroutines int `json:"maxGoroutines" mapstructure:"max_goroutines" yaml:"max_goroutines"`

	// TimeoutSeconds is the time limit; 0 means the built-in default
	TimeoutSeconds int `json:"timeoutSeconds" mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Input: InputConfig{
			Sources:   []string{},
			Delimiter: constants.DefaultDelimiter,
		},
		Ignore: IgnoreConfig{
			Enabled:     true,
			Marker:      constants.DefaultIgnoreMarker,
			ProjectRoot: constants.DefaultProjectRoot,
		},
		Analysis: AnalysisConfig{
			ExcludePatterns: []string{},
		},
		Output: OutputConfig{
			Format: constants.OutputFormatText,
			Color:  true,
		},
		Performance: PerformanceConfig{
			MaxGoroutines:  DefaultMaxGoroutines,
			TimeoutSeconds: DefaultTimeoutSeconds,
		},
	}
}

// LoadConfig loads configuration from file or returns default config
func LoadConfig(configPath string) (*Config, error) {
	return LoadConfigWithTarget(configPath, "")
}

// LoadConfigWithTarget discovers a config file near targetPath unless one is
// given, then layers file values and QGRADE_* environment variables over the
// defaults
func LoadConfigWithTarget(configPath string, targetPath string) (*Config, error) {
	if configPath == "" {
		configPath = findDefaultConfig(targetPath)
	}

	v := newViper()
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// newViper creates an isolated viper instance with defaults and env binding.
// Every key needs a default so AutomaticEnv can see it during Unmarshal.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(constants.EnvVarPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	d := DefaultConfig()
	v.SetDefault("input.sources", d.Input.Sources)
	v.SetDefault("input.delimiter", d.Input.Delimiter)
	v.SetDefault("input.comment", d.Input.Comment)
	v.SetDefault("ignore.enabled", d.Ignore.Enabled)
	v.SetDefault("ignore.marker", d.Ignore.Marker)
	v.SetDefault("ignore.project_root", d.Ignore.ProjectRoot)
	v.SetDefault("analysis.exclude_patterns", d.Analysis.ExcludePatterns)
	v.SetDefault("output.format", d.Output.Format)
	v.SetDefault("output.color", d.Output.Color)
	v.SetDefault("output.metrics_file", d.Output.MetricsFile)
	v.SetDefault("output.verbose", d.Output.Verbose)
	v.SetDefault("performance.max_goroutines", d.Performance.MaxGoroutines)
	v.SetDefault("performance.timeout_seconds", d.Performance.TimeoutSeconds)
	return v
}

// LoadDotEnv loads dir/.env into the process environment if present.
// Variables that are already set win over the file.
func LoadDotEnv(dir string) error {
	path := filepath.Join(dir, ".env")
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}

// searchConfigInDirectory searches for configuration files in a specific directory
func searchConfigInDirectory(dir string, candidates []string) string {
	for _, candidate := range candidates {
		path := filepath.Join(dir, candidate)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// configCandidates lists config file names in lookup order
func configCandidates() []string {
	return []string{
		constants.ToolName + ".yaml",
		constants.ToolName + ".yml",
		"." + constants.ToolName + ".yaml",
		"." + constants.ToolName + ".yml",
		constants.ToolName + ".json",
		"." + constants.ToolName + ".json",
	}
}

// findDefaultConfig looks for a config file from targetPath (or the working
// directory) upward, then in the XDG config directory, then QGRADE_CONFIG
func findDefaultConfig(targetPath string) string {
	candidates := configCandidates()

	start := targetPath
	if start == "" {
		start = "."
	}
	if absPath, err := filepath.Abs(start); err == nil {
		if info, err := os.Stat(absPath); err == nil && !info.IsDir() {
			absPath = filepath.Dir(absPath)
		}

		volume := filepath.VolumeName(absPath)
		for dir := absPath; ; dir = filepath.Dir(dir) {
			if config := searchConfigInDirectory(dir, candidates); config != "" {
				return config
			}

			parent := filepath.Dir(dir)
			if parent == dir || dir == volume ||
				(volume != "" && dir == volume+string(filepath.Separator)) {
				break
			}
		}
	}

	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		if config := searchConfigInDirectory(filepath.Join(xdgConfig, constants.ToolName), candidates); config != "" {
			return config
		}
	} else if home, err := os.UserHomeDir(); err == nil {
		if config := searchConfigInDirectory(filepath.Join(home, ".config", constants.ToolName), candidates); config != "" {
			return config
		}
	}

	if envConfig := os.Getenv(constants.ConfigEnvVar); envConfig != "" {
		if _, err := os.Stat(envConfig); err == nil {
			return envConfig
		}
	}

	return ""
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	validFormats := map[string]bool{
		constants.OutputFormatText: true,
		constants.OutputFormatJSON: true,
		constants.OutputFormatYAML: true,
	}
	if !validFormats[c.Output.Format] {
		return fmt.Errorf("invalid output.format '%s', must be one of: text, json, yaml", c.Output.Format)
	}

	if utf8.RuneCountInString(c.Input.Delimiter) != 1 {
		return fmt.Errorf("input.delimiter must be a single character, got %q", c.Input.Delimiter)
	}
	if d := c.DelimiterRune(); d == '\r' || d == '\n' || d == '"' || d == utf8.RuneError {
		return fmt.Errorf("input.delimiter %q is not allowed", c.Input.Delimiter)
	}
	if utf8.RuneCountInString(c.Input.Comment) > 1 {
		return fmt.Errorf("input.comment must be empty or a single character, got %q", c.Input.Comment)
	}
	if c.Input.Comment != "" && c.CommentRune() == c.DelimiterRune() {
		return fmt.Errorf("input.comment must differ from input.delimiter")
	}

	if c.Ignore.Enabled && strings.TrimSpace(c.Ignore.Marker) == "" {
		return fmt.Errorf("ignore.marker cannot be empty while ignore.enabled is true")
	}

	if c.Performance.MaxGoroutines < 0 {
		return fmt.Errorf("performance.max_goroutines must be >= 0, got %d", c.Performance.MaxGoroutines)
	}
	if c.Performance.TimeoutSeconds < 0 {
		return fmt.Errorf("performance.timeout_seconds must be >= 0, got %d", c.Performance.TimeoutSeconds)
	}

	return nil
}

// DelimiterRune returns the configured field separator
func (c *Config) DelimiterRune() rune {
	r, _ := utf8.DecodeRuneInString(c.Input.Delimiter)
	return r
}

// CommentRune returns the comment character, or 0 when comments are disabled
func (c *Config) CommentRune() rune {
	if c.Input.Comment == "" {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(c.Input.Comment)
	return r
}

// SaveConfig saves configuration to a YAML file
func SaveConfig(config *Config, path string) error {
	// Create a new viper instance to avoid race conditions
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("input", config.Input)
	v.Set("ignore", config.Ignore)
	v.Set("analysis", config.Analysis)
	v.Set("output", config.Output)
	v.Set("performance", config.Performance)

	return v.WriteConfig()
}
