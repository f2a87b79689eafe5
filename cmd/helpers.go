package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/ziadkadry99/specstudio/internal/backend"
	"github.com/ziadkadry99/specstudio/internal/config"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `specstudio init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// newBackend creates the generation service client from config.
func newBackend(cfg *config.Config) *backend.Client {
	return backend.New(cfg.BackendURL,
		backend.WithTimeout(cfg.Timeout()),
		backend.WithDebug(verbose),
	)
}

// readSpec reads a Markdown specification from path, or stdin for "-".
func readSpec(path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("reading specification: %w", err)
	}
	return string(data), nil
}
