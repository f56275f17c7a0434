package confloader

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/maps"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultEnvPrefix is the default environment variable prefix.
const DefaultEnvPrefix = "GMM7550_"

// Delimiter separates path segments in keys.
const Delimiter = "."

// Loader layers configuration sources into one koanf tree. Later loads
// override earlier ones key by key.
type Loader struct {
	k         *koanf.Koanf
	envPrefix string
	filePath  string
}

// Option configures a Loader.
type Option func(*Loader)

// WithEnvPrefix sets the environment variable prefix. An empty prefix
// disables LoadEnv.
func WithEnvPrefix(prefix string) Option {
	return func(l *Loader) { l.envPrefix = prefix }
}

// WithConfigFile sets the YAML file read by Load.
func WithConfigFile(path string) Option {
	return func(l *Loader) { l.filePath = path }
}

// NewLoader creates an empty loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		k:         koanf.New(Delimiter),
		envPrefix: DefaultEnvPrefix,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Loader) load(what string, p koanf.Provider, parser koanf.Parser) error {
	if err := l.k.Load(p, parser); err != nil {
		return fmt.Errorf("load %s: %w", what, err)
	}
	return nil
}

// Load reads the configured file, then environment variables on top.
func (l *Loader) Load() error {
	if err := l.LoadFile(l.filePath); err != nil {
		return err
	}
	return l.LoadEnv()
}

// LoadFile merges a YAML file. An empty path is a no-op.
func (l *Loader) LoadFile(path string) error {
	if path == "" {
		return nil
	}
	return l.load("file "+path, file.Provider(path), yaml.Parser())
}

// LoadBytes merges an in-memory YAML document.
func (l *Loader) LoadBytes(data []byte) error {
	return l.load("bytes", bytesProvider(data), yaml.Parser())
}

// LoadEnv merges environment variables carrying the prefix.
// GMM7550_SPI_SPEED_HZ sets spi_speed_hz; a double underscore descends
// into a table, so GMM7550_PINS__CFG_DONE sets pins.cfg_done.
func (l *Loader) LoadEnv() error {
	if l.envPrefix == "" {
		return nil
	}
	return l.load("env", env.Provider(l.envPrefix, Delimiter, l.envKey), nil)
}

func (l *Loader) envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, l.envPrefix))
	return strings.ReplaceAll(s, "__", Delimiter)
}

// LoadMap merges Go values. Dotted keys such as "spi.bus" are expanded
// into nested tables.
func (l *Loader) LoadMap(data map[string]any) error {
	return l.load("map", mapProvider(maps.Unflatten(data, Delimiter)), nil)
}

// Unmarshal decodes the subtree at path into target using koanf tags.
func (l *Loader) Unmarshal(path string, target any) error {
	return l.k.Unmarshal(path, target)
}

// Get returns the value at key, or nil.
func (l *Loader) Get(key string) any { return l.k.Get(key) }

// Exists reports whether key is set.
func (l *Loader) Exists(key string) bool { return l.k.Exists(key) }

func (l *Loader) String(key string) string               { return l.k.String(key) }
func (l *Loader) Int(key string) int                     { return l.k.Int(key) }
func (l *Loader) Bool(key string) bool                   { return l.k.Bool(key) }
func (l *Loader) StringMap(key string) map[string]string { return l.k.StringMap(key) }

// Raw returns the whole tree as nested maps.
func (l *Loader) Raw() map[string]any { return l.k.Raw() }

// Keys returns every leaf key in dotted form.
func (l *Loader) Keys() []string { return l.k.Keys() }

// Clone returns an independent copy of the loader and its values.
// Options apply to the copy only.
func (l *Loader) Clone(opts ...Option) *Loader {
	c := &Loader{
		k:         l.k.Copy(),
		envPrefix: l.envPrefix,
		filePath:  l.filePath,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
