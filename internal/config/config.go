package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

type Config struct {
	ExportDir    string `toml:"export_dir"`
	ExportBase   string `toml:"export_base"`
	DefaultLimit int    `toml:"default_limit"`
	LogLevel     string `toml:"log_level"`
}

func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		ExportDir:    ".",
		ExportBase:   "Claude-GPT-merge",
		DefaultLimit: 100,
		LogLevel:     "warn",
	}

	cfgPath := filepath.Join(home, ".config", "aax", "config.toml")
	if _, err := os.Stat(cfgPath); err == nil {
		if _, err := toml.DecodeFile(cfgPath, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", cfgPath, err)
		}
	}

	cfg.ExportDir = expandHome(cfg.ExportDir, home)

	return cfg, nil
}

func expandHome(path, home string) string {
	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		return filepath.Join(home, path[2:])
	}
	return path
}
