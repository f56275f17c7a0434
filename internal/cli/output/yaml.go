package output

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLFormatter formats data as YAML.
type YAMLFormatter struct{}

// Format formats data as a single YAML document.
func (f *YAMLFormatter) Format(w io.Writer, data any) error {
	if t, ok := asTable(data); ok {
		data = t.Records()
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}
