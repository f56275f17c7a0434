package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/yndnr/gmm7550-go/internal/infra/confloader"
)

// DefaultConfigPath returns the default preferences file path, or "" when
// the user config directory cannot be determined.
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "gmm7550", "cli.yaml")
}

// Load reads preferences from path. A missing file yields Default().
// Keys absent from the file keep their default values. A relative
// config_dir is resolved against the file's directory.
func Load(path string) (*CLIConfig, error) {
	if path == "" {
		path = DefaultConfigPath()
	}

	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}

	l := confloader.NewLoader(confloader.WithEnvPrefix(""), confloader.WithConfigFile(path))
	if err := l.Load(); err != nil {
		return nil, err
	}
	if err := l.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	if cfg.ConfigDir != "" && !filepath.IsAbs(cfg.ConfigDir) {
		cfg.ConfigDir = filepath.Join(filepath.Dir(path), cfg.ConfigDir)
	}
	return cfg, nil
}

// Save writes preferences to path with owner-only permissions, creating
// the parent directory if needed.
func Save(cfg *CLIConfig, path string) error {
	if path == "" {
		path = DefaultConfigPath()
	}
	if path == "" {
		return errors.New("no preferences path: user config directory is unknown")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
