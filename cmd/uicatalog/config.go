package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gnana997/uicatalog/catalogs"
	"github.com/gnana997/uicatalog/pkg/catalog"
	"github.com/gnana997/uicatalog/pkg/discovery"
)

const defaultConfigPath = ".uicatalog/config.yaml"

// ProjectConfig holds the contents of .uicatalog/config.yaml.
type ProjectConfig struct {
	CatalogPath string   `yaml:"catalog_path"`
	LogLevel    string   `yaml:"log_level"`
	LogFormat   string   `yaml:"log_format"`
	LogFile     string   `yaml:"log_file"` // MCP call log (JSONL); empty disables it
	Watch       bool     `yaml:"watch"`
	Include     []string `yaml:"include"`
	Exclude     []string `yaml:"exclude"`
}

func defaultProjectConfig() *ProjectConfig {
	d := discovery.DefaultConfig()
	return &ProjectConfig{
		LogLevel:  "info",
		LogFormat: "text",
		Include:   d.Include,
		Exclude:   d.Exclude,
	}
}

// loadProjectConfig reads path over the defaults. A missing file is not an
// error.
func loadProjectConfig(path string) (*ProjectConfig, error) {
	cfg := defaultProjectConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.discovery().Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// applyFlags lets explicit flags win over the file.
func (c *ProjectConfig) applyFlags(o *globalOptions) {
	if o.catalogPath != "" {
		c.CatalogPath = o.catalogPath
	}
	if o.logLevel != "" {
		c.LogLevel = o.logLevel
	}
	if o.logFormat != "" {
		c.LogFormat = o.logFormat
	}
}

func (c *ProjectConfig) discovery() discovery.Config {
	return discovery.Config{Include: c.Include, Exclude: c.Exclude}
}

// openStore loads the configured catalog, falling back to the bundled one.
// A store over the bundled catalog has no path and cannot be reloaded.
func openStore(cfg *ProjectConfig, logger *slog.Logger) (*catalog.Store, error) {
	if cfg.CatalogPath != "" {
		store, err := catalog.OpenStore(cfg.CatalogPath, logger)
		if err != nil {
			return nil, fmt.Errorf("load catalog %s: %w", cfg.CatalogPath, err)
		}
		return store, nil
	}

	c, err := catalog.LoadFromBytes(catalogs.FluentUIJSON, catalog.FormatJSON)
	if err != nil {
		return nil, fmt.Errorf("load bundled catalog: %w", err)
	}
	logger.Debug("using bundled catalog", "source", catalogs.DefaultPath, "groups", c.Len())
	return catalog.NewStore(c, "", logger), nil
}
