package confloader

import "errors"

// ErrReadBytesNotSupported is returned when ReadBytes is called on a map provider.
var ErrReadBytesNotSupported = errors.New("confloader: ReadBytes not supported by map provider, use Read() instead")

// ErrReadNotSupported is returned when Read is called on a bytes provider.
var ErrReadNotSupported = errors.New("confloader: Read not supported by bytes provider, use ReadBytes() instead")

// mapProvider is a simple koanf provider that loads configuration from a map.
//
// koanf uses ReadBytes() when a parser is given and Read() otherwise.
type mapProvider map[string]any

// ReadBytes returns an error as map provider doesn't support byte serialization.
func (m mapProvider) ReadBytes() ([]byte, error) {
	return nil, ErrReadBytesNotSupported
}

// Read returns the configuration map.
func (m mapProvider) Read() (map[string]any, error) {
	return m, nil
}

// bytesProvider feeds an in-memory document (e.g. from embed.FS) to a parser.
type bytesProvider []byte

// ReadBytes returns the raw document.
func (b bytesProvider) ReadBytes() ([]byte, error) {
	return b, nil
}

// Read returns an error; bytes must go through a parser.
func (b bytesProvider) Read() (map[string]any, error) {
	return nil, ErrReadNotSupported
}
