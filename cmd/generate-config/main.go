package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/debemdeboas/scribe/internal/config"
)

const header = "# Scribe Configuration Example\n# Copy this file to config.yaml and customize as needed\n\n"

func main() {
	outputFile := "config.example.yaml"
	if len(os.Args) > 1 {
		outputFile = os.Args[1]
	}

	output, err := generate()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating YAML: %v\n", err)
		os.Exit(1)
	}

	if outputFile == "-" {
		fmt.Print(output)
		return
	}

	if err := os.WriteFile(outputFile, []byte(output), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generated example config: %s\n", outputFile)
}

// generate renders the default configuration as commented YAML.
func generate() (string, error) {
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)

	yamlData, err := yaml.Marshal(cfg)
	if err != nil {
		return "", err
	}

	return header + string(yamlData), nil
}
