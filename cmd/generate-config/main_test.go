package main

import (
	"os"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/debemdeboas/scribe/internal/config"
)

func TestGenerate(t *testing.T) {
	out, err := generate()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !strings.HasPrefix(out, header) {
		t.Error("Expected output to start with header")
	}

	var cfg config.Config
	if err := yaml.Unmarshal([]byte(out), &cfg); err != nil {
		t.Fatalf("Failed to parse generated YAML: %v", err)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected generated config to be valid, got %v", err)
	}
	if cfg.Server.Port != config.DefaultServerPort {
		t.Errorf("Expected port %q, got %q", config.DefaultServerPort, cfg.Server.Port)
	}
}

func TestGenerateMatchesGoldenFile(t *testing.T) {
	golden, err := os.ReadFile("../../internal/config/testdata/defaults.yaml")
	if err != nil {
		t.Fatalf("Failed to read golden file: %v", err)
	}

	out, err := generate()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if out != string(golden) {
		t.Errorf("Golden file is stale; regenerate it with cmd/generate-config.\n got:\n%s\nwant:\n%s", out, golden)
	}
}
