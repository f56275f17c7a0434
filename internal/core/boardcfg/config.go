package boardcfg

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spaolacci/murmur3"

	"github.com/yndnr/gmm7550-go/internal/core/domain"
	"github.com/yndnr/gmm7550-go/internal/infra/confloader"
	"github.com/yndnr/gmm7550-go/internal/telemetry/logger"
)

// ErrConfigNotFound is returned by Load when no definition is registered
// under the requested name.
var ErrConfigNotFound = domain.ErrConfigNotFound

// Process hooks for the fatal path of New. Tests replace them.
var (
	osExit           = os.Exit
	stderr io.Writer = os.Stderr
)

// Config is a resolved board configuration.
type Config struct {
	name   string
	def    *Definition
	values *confloader.Loader
}

type options struct {
	registry  *Registry
	envPrefix string
	stderr    io.Writer
	exit      func(int)
}

// Option configures Load and New.
type Option func(*options)

// WithRegistry resolves names in r instead of the default registry.
func WithRegistry(r *Registry) Option {
	return func(o *options) {
		o.registry = r
	}
}

// WithStderr sends the fatal diagnostic of New to w.
func WithStderr(w io.Writer) Option {
	return func(o *options) {
		o.stderr = w
	}
}

// WithExitFunc replaces os.Exit on the fatal path of New. When exit
// returns, New returns nil.
func WithExitFunc(exit func(int)) Option {
	return func(o *options) {
		o.exit = exit
	}
}

// WithEnvOverrides overlays environment variables carrying prefix on the
// resolved attributes. An empty prefix selects confloader.DefaultEnvPrefix.
func WithEnvOverrides(prefix string) Option {
	return func(o *options) {
		if prefix == "" {
			prefix = confloader.DefaultEnvPrefix
		}
		o.envPrefix = prefix
	}
}

// Load resolves the configuration registered under name.
func Load(name string, opts ...Option) (*Config, error) {
	o := options{registry: Default()}
	for _, opt := range opts {
		opt(&o)
	}

	key := NormalizeName(name)
	def, err := o.registry.Lookup(key)
	if err != nil {
		return nil, err
	}

	values := def.values
	if o.envPrefix != "" {
		values = def.values.Clone(confloader.WithEnvPrefix(o.envPrefix))
		if err := values.LoadEnv(); err != nil {
			return nil, fmt.Errorf("configuration %q: %w", key, err)
		}
	}

	logger.Debug("configuration loaded", "name", key, "source", def.Source())
	return &Config{name: key, def: def, values: values}, nil
}

// New resolves the configuration registered under name. A name that
// cannot be resolved is fatal: New reports it on stderr and exits the
// process with status 1.
func New(name string, opts ...Option) *Config {
	cfg, err := Load(name, opts...)
	if err == nil {
		return cfg
	}

	o := options{stderr: stderr, exit: osExit}
	for _, opt := range opts {
		opt(&o)
	}
	fmt.Fprintf(o.stderr, "Cannot load configuration: \"%s\"\n", NormalizeName(name))
	fmt.Fprintln(o.stderr, err)
	o.exit(1)
	return nil
}

// Name returns the normalized configuration name.
func (c *Config) Name() string {
	return c.name
}

// Source describes where the backing definition came from.
func (c *Config) Source() string {
	return c.def.Source()
}

// Get returns the attribute value, or nil when the board does not
// declare it. Any key is accepted.
func (c *Config) Get(key string) any {
	if key == "" {
		return nil
	}
	return c.values.Get(key)
}

// Has reports whether the board declares key.
func (c *Config) Has(key string) bool {
	return key != "" && c.values.Exists(key)
}

// String returns the attribute as a string, or "" when absent.
func (c *Config) String(key string) string {
	return c.values.String(key)
}

// Int returns the attribute as an int, or 0 when absent.
func (c *Config) Int(key string) int {
	return c.values.Int(key)
}

// Bool returns the attribute as a bool, or false when absent.
func (c *Config) Bool(key string) bool {
	return c.values.Bool(key)
}

// StringMap returns a table attribute, or nil when absent.
func (c *Config) StringMap(key string) map[string]string {
	if !c.Has(key) {
		return nil
	}
	return c.values.StringMap(key)
}

// Keys returns all declared attribute paths.
func (c *Config) Keys() []string {
	return c.values.Keys()
}

// All returns a nested copy of every attribute.
func (c *Config) All() map[string]any {
	return c.values.Raw()
}

// Description returns the description attribute.
func (c *Config) Description() string {
	return c.String("description")
}

// CfgMode returns the board's configuration interface mode.
func (c *Config) CfgMode() (domain.CfgMode, error) {
	v := c.Get("cfg_mode")
	if v == nil {
		return 0, domain.ErrCfgModeUnset.WithDetails(c.name)
	}
	return domain.ParseCfgMode(fmt.Sprint(v))
}

// Pin translates a logical signal name through the board's pins table.
// Signal names are matched exactly. Boards without a table use the
// signal name unchanged.
func (c *Config) Pin(signal string) (string, error) {
	return lookupName(c.StringMap("pins"), signal)
}

// Fingerprint returns a digest of the resolved attributes. Equal
// attribute sets have equal fingerprints.
func (c *Config) Fingerprint() uint64 {
	data, err := json.Marshal(c.values.Raw())
	if err != nil {
		return 0
	}
	return murmur3.Sum64(data)
}
