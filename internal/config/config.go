package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/debemdeboas/scribe/internal/util/compression"
)

var configLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	configLogger = l
}

var ErrUnsupportedVersion = errors.New("unsupported configuration version")

// Config represents the complete configuration structure
type Config struct {
	Version string        `yaml:"version" default:"1"`
	Site    SiteConfig    `yaml:"site"`
	Server  ServerConfig  `yaml:"server"`
	Store   StoreConfig   `yaml:"store"`
	Render  RenderConfig  `yaml:"render"`
	Logging LoggingConfig `yaml:"logging"`
}

type SiteConfig struct {
	Name        string `yaml:"name" default:"Scribe" env:"SCRIBE_SITE_NAME"`
	Description string `yaml:"description" default:"A tiny in-memory blog"`
}

type ServerConfig struct {
	Host            string `yaml:"host" default:"0.0.0.0" env:"SCRIBE_HOST"`
	Port            string `yaml:"port" default:"5000" env:"SCRIBE_PORT"`
	MaxBodyBytes    int    `yaml:"max_body_bytes" default:"1048576"`
	ShutdownTimeout string `yaml:"shutdown_timeout" default:"10s"`
	Compress        bool   `yaml:"compress" default:"true"`
}

type StoreConfig struct {
	// Backend is "memory" or "sqlite". Both keep posts only for the life of the process.
	Backend     string `yaml:"backend" default:"memory" env:"SCRIBE_STORE"`
	Compression string `yaml:"compression" default:"zstd"`
}

type RenderConfig struct {
	SyntaxTheme string `yaml:"syntax_theme" default:"gruvbox"`
}

type LoggingConfig struct {
	Level string `yaml:"level" default:"info" env:"SCRIBE_LOG_LEVEL"`
	// Format is "console" for human-readable output or "json".
	Format string `yaml:"format" default:"console" env:"SCRIBE_LOG_FORMAT"`
}

const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

func (c *Config) ShutdownTimeout() time.Duration {
	d, err := time.ParseDuration(c.Server.ShutdownTimeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

func (c *Config) Validate() error {
	if c.Version != DefaultVersion {
		return fmt.Errorf("%w: %q", ErrUnsupportedVersion, c.Version)
	}

	switch c.Store.Backend {
	case BackendMemory, BackendSQLite:
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}

	if _, err := compression.New(c.Store.Compression); err != nil {
		return err
	}

	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("server.max_body_bytes must be positive, got %d", c.Server.MaxBodyBytes)
	}

	if _, err := time.ParseDuration(c.Server.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid server.shutdown_timeout: %w", err)
	}

	return nil
}

// LoadConfig reads the YAML file at path on top of the defaults, then applies
// environment overrides. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	config := &Config{}

	// Apply default values first
	applyDefaults(config)

	data, err := os.ReadFile(path)
	if err != nil {
		configLogger.Info().Str("path", path).Msg("Config file not found, using defaults")
	} else if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyEnv(config, os.LookupEnv)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func ApplyDefaults(config interface{}) {
	applyDefaults(config)
}

func applyDefaults(config interface{}) {
	applyTag(config, "default", func(value string) (string, bool) {
		return value, value != ""
	})
}

func applyEnv(config interface{}, lookup func(string) (string, bool)) {
	applyTag(config, "env", func(name string) (string, bool) {
		if name == "" {
			return "", false
		}
		return lookup(name)
	})
}

// applyTag walks the struct behind config and, for every field carrying tag,
// sets the field from resolve(tagValue) when resolve reports ok.
func applyTag(config interface{}, tag string, resolve func(string) (string, bool)) {
	v := reflect.ValueOf(config)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		return
	}

	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		if !field.IsValid() || !field.CanSet() {
			continue
		}

		if field.Kind() == reflect.Struct {
			applyTag(field.Addr().Interface(), tag, resolve)
			continue
		}

		value, ok := resolve(fieldType.Tag.Get(tag))
		if !ok {
			continue
		}

		switch field.Kind() {
		case reflect.String:
			field.SetString(value)
		case reflect.Bool:
			if val, err := strconv.ParseBool(value); err == nil {
				field.SetBool(val)
			}
		case reflect.Int:
			if val, err := strconv.ParseInt(value, 10, 64); err == nil {
				field.SetInt(val)
			}
		case reflect.Slice:
			if field.Type().Elem().Kind() == reflect.String {
				parts := strings.Split(value, ",")
				slice := reflect.MakeSlice(field.Type(), len(parts), len(parts))
				for j, part := range parts {
					slice.Index(j).SetString(strings.TrimSpace(part))
				}
				field.Set(slice)
			}
		default:
			configLogger.Warn().
				Str("field_name", fieldType.Name).
				Str("field_type", field.Kind().String()).
				Str("tag", tag).
				Msg("Unsupported field type")
		}
	}
}
