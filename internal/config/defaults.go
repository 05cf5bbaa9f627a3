package config

// Defaults mirrored from the struct tags in config.go. testdata/defaults.yaml
// is regenerated with `go run ./cmd/generate-config internal/config/testdata/defaults.yaml`.

const (
	DefaultVersion            = "1"
	DefaultSiteName           = "Scribe"
	DefaultServerHost         = "0.0.0.0"
	DefaultServerPort         = "5000"
	DefaultServerMaxBodyBytes = 1048576
	DefaultStoreBackend       = "memory"
	DefaultStoreCompression   = "zstd"
	DefaultRenderSyntaxTheme  = "gruvbox"
	DefaultLoggingLevel       = "info"
)
