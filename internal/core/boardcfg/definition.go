package boardcfg

import (
	"fmt"

	"github.com/yndnr/gmm7550-go/internal/core/domain"
	"github.com/yndnr/gmm7550-go/internal/infra/confloader"
)

// Definition is the attribute bag backing a configuration. It is not
// modified after construction and may be shared between Configs.
type Definition struct {
	source string
	values *confloader.Loader
}

// NewDefinition builds a definition from Go values. Dotted keys are
// expanded into nested tables.
func NewDefinition(values map[string]any) (*Definition, error) {
	l := confloader.NewLoader()
	if err := l.LoadMap(values); err != nil {
		return nil, domain.ErrConfigInvalid.WithCause(err)
	}
	return &Definition{source: "go", values: l}, nil
}

// ParseDefinition builds a definition from a YAML document. source names
// the document in diagnostics.
func ParseDefinition(source string, data []byte) (*Definition, error) {
	l := confloader.NewLoader()
	if err := l.LoadBytes(data); err != nil {
		return nil, domain.ErrConfigInvalid.WithDetails(source).WithCause(err)
	}
	return &Definition{source: source, values: l}, nil
}

// LoadDefinitionFile builds a definition from a YAML file on disk.
func LoadDefinitionFile(path string) (*Definition, error) {
	l := confloader.NewLoader()
	if err := l.LoadFile(path); err != nil {
		return nil, domain.ErrConfigInvalid.WithDetails(path).WithCause(err)
	}
	return &Definition{source: "file:" + path, values: l}, nil
}

// Source describes where the definition came from.
func (d *Definition) Source() string {
	return d.source
}

func (d *Definition) String() string {
	return fmt.Sprintf("Definition(%s, %d keys)", d.source, len(d.values.Keys()))
}
