// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ByLCY/tailor/fonts"
	"github.com/ByLCY/tailor/layout"
)

// EnvPrefix 是环境变量前缀，例如 TAILOR_OUTPUT_DIR。
const EnvPrefix = "TAILOR_"

// Config 可以从 JSON 文件加载，所有字段均可省略。
type Config struct {
	// Profile 是导出配置（profile DSL）文件路径；设置后页面与字体参数以其为准。
	Profile string `json:"profile,omitempty"`

	Typeface  string  `json:"typeface,omitempty"`
	PageSize  string  `json:"page_size,omitempty"`
	Landscape bool    `json:"landscape,omitempty"`
	Margin    float64 `json:"margin,omitempty" validate:"gte=0,lte=500"`
	FontSize  float64 `json:"font_size,omitempty" validate:"gte=0,lte=96"`

	OutputDir string `json:"output_dir,omitempty"`
	LogLevel  string `json:"log_level,omitempty" validate:"omitempty,oneof=debug info warn error"`
	Addr      string `json:"addr,omitempty"`
}

// Defaults 返回内置默认值。
func Defaults() Config {
	return Config{
		Typeface:  layout.DefaultTypeface,
		PageSize:  layout.DefaultPageSize,
		Margin:    layout.DefaultMargin,
		FontSize:  layout.DefaultFontSize,
		OutputDir: ".",
		LogLevel:  "info",
		Addr:      ":8080",
	}
}

// LoadConfig loads configuration from a JSON file.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	return &cfg, nil
}

// ApplyEnv 用 TAILOR_* 环境变量覆盖对应字段；lookup 通常为 os.LookupEnv。
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	str := func(key string, dst *string) {
		if v, ok := lookup(EnvPrefix + key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	num := func(key string, dst *float64) error {
		v, ok := lookup(EnvPrefix + key)
		if !ok || strings.TrimSpace(v) == "" {
			return nil
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("config error: %s%s: %w", EnvPrefix, key, err)
		}
		*dst = f
		return nil
	}

	str("PROFILE", &c.Profile)
	str("TYPEFACE", &c.Typeface)
	str("PAGE_SIZE", &c.PageSize)
	str("OUTPUT_DIR", &c.OutputDir)
	str("LOG_LEVEL", &c.LogLevel)
	str("ADDR", &c.Addr)
	if v, ok := lookup(EnvPrefix + "LANDSCAPE"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config error: %sLANDSCAPE: %w", EnvPrefix, err)
		}
		c.Landscape = b
	}
	if err := num("MARGIN", &c.Margin); err != nil {
		return err
	}
	return num("FONT_SIZE", &c.FontSize)
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c
	if result.Typeface == "" {
		result.Typeface = defaults.Typeface
	}
	if result.PageSize == "" {
		result.PageSize = defaults.PageSize
	}
	if result.Margin == 0 {
		result.Margin = defaults.Margin
	}
	if result.FontSize == 0 {
		result.FontSize = defaults.FontSize
	}
	if result.OutputDir == "" {
		result.OutputDir = defaults.OutputDir
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}
	if result.Addr == "" {
		result.Addr = defaults.Addr
	}
	if result.Profile == "" {
		result.Profile = defaults.Profile
	}
	return result
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if c.Typeface != "" {
		if _, err := fonts.Lookup(c.Typeface); err != nil {
			return fmt.Errorf("config error: %w", err)
		}
	}
	if c.PageSize != "" {
		if _, _, err := layout.PageSize(c.PageSize, c.Landscape); err != nil {
			return fmt.Errorf("config error: %w", err)
		}
	}
	if c.Profile != "" {
		if _, err := os.Stat(c.Profile); os.IsNotExist(err) {
			return fmt.Errorf("config error: profile file not found: %s", c.Profile)
		}
	}
	return nil
}

// Settings 解析出导出配置：指定了 profile 时以 profile 为准，否则由各字段构造。
func (c *Config) Settings() (layout.Settings, error) {
	if c.Profile != "" {
		return layout.LoadProfile(c.Profile)
	}
	s := layout.DefaultSettings()
	if c.Typeface != "" {
		s.Typeface = c.Typeface
	}
	if c.PageSize != "" || c.Landscape {
		size := c.PageSize
		if size == "" {
			size = layout.DefaultPageSize
		}
		w, h, err := layout.PageSize(size, c.Landscape)
		if err != nil {
			return s, err
		}
		s.Geometry.Width, s.Geometry.Height = w, h
	}
	if c.Margin > 0 {
		s.Geometry.Margin = c.Margin
	}
	if c.FontSize > 0 {
		s.Typography.FontSize = c.FontSize
	}
	if err := s.Geometry.Validate(); err != nil {
		return s, err
	}
	return s, nil
}

// SlogLevel 将 LogLevel 转换为 slog.Level，无法识别时为 Info。
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
