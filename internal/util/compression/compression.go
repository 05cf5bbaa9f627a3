// Package compression provides the codecs used to store post content.
package compression

import "fmt"

type Compressor interface {
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
}

const (
	Zstd = "zstd"
	Gzip = "gzip"
)

// New returns the compressor registered under name.
func New(name string) (Compressor, error) {
	switch name {
	case Zstd:
		return ZstdCompressor{}, nil
	case Gzip:
		return GzipCompressor{}, nil
	default:
		return nil, fmt.Errorf("unknown compression %q", name)
	}
}
