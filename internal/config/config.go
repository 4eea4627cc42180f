// Package config handles loading, validating, and managing configuration
// for the darkroom photo publishing tool.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config is the top-level configuration for a darkroom gallery.
type Config struct {
	Title           string       `yaml:"title"           mapstructure:"title"`
	Input           string       `yaml:"input"           mapstructure:"input"`
	Output          string       `yaml:"output"          mapstructure:"output"`
	HTML            string       `yaml:"html"            mapstructure:"html"`
	Container       string       `yaml:"container"       mapstructure:"container"`
	Order           string       `yaml:"order"           mapstructure:"order"`
	RemoveOriginals bool         `yaml:"removeOriginals" mapstructure:"removeOriginals"`
	Images          ImageConfig  `yaml:"images"          mapstructure:"images"`
	Git             GitConfig    `yaml:"git"             mapstructure:"git"`
	Server          ServerConfig `yaml:"server"          mapstructure:"server"`
	Deploy          DeployConfig `yaml:"deploy"          mapstructure:"deploy"`
}

// ImageConfig controls resizing and encoding of processed photos.
type ImageConfig struct {
	MaxWidth  int  `yaml:"maxWidth"  mapstructure:"maxWidth"`
	MaxHeight int  `yaml:"maxHeight" mapstructure:"maxHeight"`
	Quality   int  `yaml:"quality"   mapstructure:"quality"`
	WebP      bool `yaml:"webp"      mapstructure:"webp"`
}

// GitConfig controls how published changes are committed and pushed.
type GitConfig struct {
	Remote         string `yaml:"remote"         mapstructure:"remote"`
	CommitTemplate string `yaml:"commitTemplate" mapstructure:"commitTemplate"`
}

// ServerConfig controls the local preview server.
type ServerConfig struct {
	Port       int    `yaml:"port"       mapstructure:"port"`
	Host       string `yaml:"host"       mapstructure:"host"`
	LiveReload bool   `yaml:"livereload" mapstructure:"livereload"`
}

// DeployConfig holds S3/CloudFront deployment settings.
type DeployConfig struct {
	Profile    string           `yaml:"profile"    mapstructure:"profile"`
	S3         S3Config         `yaml:"s3"         mapstructure:"s3"`
	CloudFront CloudFrontConfig `yaml:"cloudfront" mapstructure:"cloudfront"`
}

// S3Config holds AWS S3 deployment settings.
type S3Config struct {
	Bucket string `yaml:"bucket" mapstructure:"bucket"`
	Region string `yaml:"region" mapstructure:"region"`
}

// CloudFrontConfig holds AWS CloudFront invalidation settings.
type CloudFrontConfig struct {
	DistributionID string `yaml:"distributionId" mapstructure:"distributionId"`
}

// Accepted values for Config.Order.
const (
	OrderByName  = "name"
	OrderByTaken = "taken"
)

// Default returns a Config populated with sensible default values.
func Default() *Config {
	return &Config{
		Input:     "incoming",
		Output:    "photos",
		HTML:      "index.html",
		Container: "photo-grid",
		Order:     OrderByName,
		Images: ImageConfig{
			MaxWidth:  1500,
			MaxHeight: 2000,
			Quality:   85,
		},
		Git: GitConfig{
			Remote:         "origin",
			CommitTemplate: "Add %d new photos",
		},
		Server: ServerConfig{
			Port:       1313,
			Host:       "localhost",
			LiveReload: true,
		},
	}
}

// Load reads a configuration file from configPath (YAML or TOML) and returns
// a Config with defaults applied first and file values overlaid on top.
// A missing file is not an error: the defaults are returned unchanged, so a
// bare checkout works without a config file.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	v := viper.New()

	ext := strings.TrimPrefix(filepath.Ext(configPath), ".")
	switch ext {
	case "yaml", "yml":
		v.SetConfigType("yaml")
	case "toml":
		v.SetConfigType("toml")
	default:
		v.SetConfigType("yaml")
	}

	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Validate checks the Config for common errors.
// It returns a descriptive error if:
//   - input, output, html, or container is empty
//   - input and output point at the same directory
//   - order is not a known ordering
//   - image bounds or quality are out of range
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Input) == "" {
		return fmt.Errorf("config: input directory is required")
	}
	if strings.TrimSpace(c.Output) == "" {
		return fmt.Errorf("config: output directory is required")
	}
	if filepath.Clean(c.Input) == filepath.Clean(c.Output) {
		return fmt.Errorf("config: input and output directories must differ (got %q)", c.Input)
	}
	if strings.TrimSpace(c.HTML) == "" {
		return fmt.Errorf("config: html file path is required")
	}
	if strings.TrimSpace(c.Container) == "" {
		return fmt.Errorf("config: container class is required")
	}
	if c.Order != OrderByName && c.Order != OrderByTaken {
		return fmt.Errorf("config: order must be %q or %q (got %q)", OrderByName, OrderByTaken, c.Order)
	}
	if c.Images.MaxWidth <= 0 || c.Images.MaxHeight <= 0 {
		return fmt.Errorf("config: image max dimensions must be positive (got %dx%d)",
			c.Images.MaxWidth, c.Images.MaxHeight)
	}
	if c.Images.Quality < 1 || c.Images.Quality > 100 {
		return fmt.Errorf("config: image quality must be in 1..100 (got %d)", c.Images.Quality)
	}
	return nil
}

// WithOverrides applies CLI flag overrides to the config. Known keys are
// mapped to their corresponding struct fields. The modified config is
// returned for convenient chaining.
func (c *Config) WithOverrides(overrides map[string]any) *Config {
	for key, val := range overrides {
		switch key {
		case "input":
			if s, ok := val.(string); ok && s != "" {
				c.Input = s
			}
		case "output":
			if s, ok := val.(string); ok && s != "" {
				c.Output = s
			}
		case "html":
			if s, ok := val.(string); ok && s != "" {
				c.HTML = s
			}
		case "port":
			if n, ok := val.(int); ok {
				c.Server.Port = n
			}
		case "host":
			if s, ok := val.(string); ok && s != "" {
				c.Server.Host = s
			}
		case "livereload":
			if b, ok := val.(bool); ok {
				c.Server.LiveReload = b
			}
		}
	}
	return c
}
