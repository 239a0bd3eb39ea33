// File: internal/config/config.go
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment variable overrides.
const EnvPrefix = "TERMRENDER"

// Interface defines the contract for accessing application configuration.
// This allows for dependency injection and mocking in tests.
type Interface interface {
	Logger() LoggerConfig
	Render() RenderConfig
	Terminal() TerminalConfig
	Watch() WatchConfig

	// Render Setters
	SetRenderWidth(int)
	SetRenderHeight(int)
	SetRenderFullRedraw(bool)
	SetRenderTitleBar(bool)
}

// Config holds the entire application configuration.
// Fields are exported so viper can unmarshal into them; callers should prefer the getters.
type Config struct {
	LoggerCfg   LoggerConfig   `mapstructure:"logger" yaml:"logger"`
	RenderCfg   RenderConfig   `mapstructure:"render" yaml:"render"`
	TerminalCfg TerminalConfig `mapstructure:"terminal" yaml:"terminal"`
	WatchCfg    WatchConfig    `mapstructure:"watch" yaml:"watch"`
}

// --- Interface Method Implementations (Getters) ---

func (c *Config) Logger() LoggerConfig     { return c.LoggerCfg }
func (c *Config) Render() RenderConfig     { return c.RenderCfg }
func (c *Config) Terminal() TerminalConfig { return c.TerminalCfg }
func (c *Config) Watch() WatchConfig       { return c.WatchCfg }

// --- Interface Method Implementations (Setters) ---

func (c *Config) SetRenderWidth(w int)       { c.RenderCfg.Width = w }
func (c *Config) SetRenderHeight(h int)      { c.RenderCfg.Height = h }
func (c *Config) SetRenderFullRedraw(b bool) { c.RenderCfg.FullRedraw = b }
func (c *Config) SetRenderTitleBar(b bool)   { c.RenderCfg.TitleBar = b }

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color codes for different log levels.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// RenderConfig tunes the style/layout/paint pipeline.
type RenderConfig struct {
	// Width is the viewport width in character columns.
	Width int `mapstructure:"width" yaml:"width"`
	// Height is the canvas height in rows. Zero sizes the canvas to the laid out document.
	Height int `mapstructure:"height" yaml:"height"`
	// MaxDepth bounds the recursion of the layout tree builder.
	MaxDepth        int  `mapstructure:"max_depth" yaml:"max_depth"`
	UserAgentStyles bool `mapstructure:"user_agent_styles" yaml:"user_agent_styles"`
	TitleBar        bool `mapstructure:"title_bar" yaml:"title_bar"`
	FullRedraw      bool `mapstructure:"full_redraw" yaml:"full_redraw"`
}

// TerminalConfig controls how cells are encoded for the terminal.
type TerminalConfig struct {
	// ColorProfile is one of "truecolor", "ansi256", "ansi" or "ascii".
	ColorProfile string `mapstructure:"color_profile" yaml:"color_profile"`
}

// WatchConfig configures the re-render loop of the watch command.
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce" yaml:"debounce"`
	MaxFPS   float64       `mapstructure:"max_fps" yaml:"max_fps"`
}

// NewDefaultConfig creates a new configuration struct populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// This should not happen with defaults, but good to be safe.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// SetDefaults initializes default values for various configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "termrender")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)

	// -- Render --
	v.SetDefault("render.width", 80)
	v.SetDefault("render.height", 0)
	v.SetDefault("render.max_depth", 256)
	v.SetDefault("render.user_agent_styles", true)
	v.SetDefault("render.title_bar", false)
	v.SetDefault("render.full_redraw", false)

	// -- Terminal --
	v.SetDefault("terminal.color_profile", "ansi256")

	// -- Watch --
	v.SetDefault("watch.debounce", "150ms")
	v.SetDefault("watch.max_fps", 10.0)
}

// NewConfigFromViper creates a new configuration instance from a viper object.
// Environment variables prefixed with TERMRENDER_ override file values,
// e.g. TERMRENDER_RENDER_WIDTH.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	if err := c.RenderCfg.Validate(); err != nil {
		return fmt.Errorf("render configuration invalid: %w", err)
	}
	if err := c.TerminalCfg.Validate(); err != nil {
		return fmt.Errorf("terminal configuration invalid: %w", err)
	}
	if err := c.WatchCfg.Validate(); err != nil {
		return fmt.Errorf("watch configuration invalid: %w", err)
	}
	return nil
}

// Validate checks the render settings. A zero or negative width is legal
// and produces an empty frame.
func (r *RenderConfig) Validate() error {
	if r.Height < 0 {
		return fmt.Errorf("render.height must not be negative")
	}
	if r.MaxDepth <= 0 {
		return fmt.Errorf("render.max_depth must be a positive integer")
	}
	return nil
}

// Validate checks the terminal settings.
func (t *TerminalConfig) Validate() error {
	switch strings.ToLower(t.ColorProfile) {
	case "truecolor", "ansi256", "ansi", "ascii":
		return nil
	}
	return fmt.Errorf("terminal.color_profile %q is not one of truecolor, ansi256, ansi, ascii", t.ColorProfile)
}

// Validate checks the watch loop settings.
func (w *WatchConfig) Validate() error {
	if w.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative")
	}
	if w.MaxFPS <= 0 {
		return fmt.Errorf("watch.max_fps must be greater than 0")
	}
	return nil
}
