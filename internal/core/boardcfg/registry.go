package boardcfg

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/yndnr/gmm7550-go/internal/core/domain"
	"github.com/yndnr/gmm7550-go/internal/telemetry/logger"
)

// Factory produces a definition. It runs at most once per registration,
// on first resolution.
type Factory func() (*Definition, error)

// entry memoizes the result of a factory.
type entry struct {
	factory Factory
	once    sync.Once
	def     *Definition
	err     error
}

func (e *entry) resolve() (*Definition, error) {
	e.once.Do(func() {
		e.def, e.err = e.factory()
	})
	return e.def, e.err
}

// Registry maps normalized configuration names to definitions.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]*entry),
	}
}

// defaultRegistry holds the embedded definitions. See definitions.go.
var defaultRegistry = NewRegistry()

// Default returns the process-wide registry.
func Default() *Registry {
	return defaultRegistry
}

// NormalizeName returns the registry key for a configuration name.
func NormalizeName(name string) string {
	return strings.ToLower(name)
}

// Register adds a factory under name. It panics if the name is taken.
func (r *Registry) Register(name string, factory Factory) {
	key := NormalizeName(name)
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[key]; exists {
		panic(domain.ErrConfigConflict.WithDetails(fmt.Sprintf("%q", key)))
	}
	logger.Debug("registering configuration", "name", key)
	r.entries[key] = &entry{factory: factory}
}

// RegisterDefinition adds an already-built definition under name.
func (r *Registry) RegisterDefinition(name string, def *Definition) {
	r.Register(name, func() (*Definition, error) { return def, nil })
}

// override replaces any registration under name.
func (r *Registry) override(name string, factory Factory) {
	key := NormalizeName(name)
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[key]; exists {
		logger.Debug("configuration shadowed", "name", key)
	}
	r.entries[key] = &entry{factory: factory}
}

// Lookup resolves name to its definition.
func (r *Registry) Lookup(name string) (*Definition, error) {
	key := NormalizeName(name)

	r.mu.RLock()
	e, ok := r.entries[key]
	r.mu.RUnlock()

	if !ok {
		return nil, domain.ErrConfigNotFound.WithDetails(fmt.Sprintf("no configuration named %q", key))
	}

	def, err := e.resolve()
	if err != nil {
		return nil, fmt.Errorf("resolve %q: %w", key, err)
	}
	return def, nil
}

// Names returns all registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RegisterFS registers every YAML file in dir of fsys, named by its base
// name without extension.
func (r *Registry) RegisterFS(fsys fs.FS, dir string) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return fmt.Errorf("read definitions: %w", err)
	}

	for _, de := range entries {
		if de.IsDir() || !isDefinitionFile(de.Name()) {
			continue
		}
		p := path.Join(dir, de.Name())
		r.Register(definitionName(de.Name()), func() (*Definition, error) {
			data, err := fs.ReadFile(fsys, p)
			if err != nil {
				return nil, err
			}
			return ParseDefinition("builtin:"+p, data)
		})
	}
	return nil
}

// LoadDir registers every YAML file in a directory on disk. A file
// shadows an existing registration with the same name. It returns the
// number of definitions found.
func (r *Registry) LoadDir(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("read config dir: %w", err)
	}

	n := 0
	for _, de := range entries {
		if de.IsDir() || !isDefinitionFile(de.Name()) {
			continue
		}
		p := filepath.Join(dir, de.Name())
		r.override(definitionName(de.Name()), func() (*Definition, error) {
			return LoadDefinitionFile(p)
		})
		n++
	}

	logger.Debug("loaded configuration directory", "path", dir, "definitions", n)
	return n, nil
}

// Clone returns a registry with the same registrations. Definitions that
// were already resolved are shared.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c := NewRegistry()
	for name, e := range r.entries {
		c.entries[name] = e
	}
	return c
}

func isDefinitionFile(name string) bool {
	if strings.HasPrefix(name, ".") {
		return false
	}
	switch strings.ToLower(path.Ext(name)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func definitionName(file string) string {
	return NormalizeName(strings.TrimSuffix(file, path.Ext(file)))
}
