package config

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to specstudio! Let's configure your workbench.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Backend.
	backendPrompt := promptui.Prompt{
		Label:   "Generation service URL",
		Default: cfg.BackendURL,
		Validate: func(s string) error {
			u, err := url.Parse(s)
			if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
				return fmt.Errorf("enter an http(s) URL")
			}
			return nil
		},
	}
	backendURL, err := backendPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("backend url input: %w", err)
	}
	cfg.BackendURL = backendURL

	// 2. Port.
	portPrompt := promptui.Prompt{
		Label:    "UI port",
		Default:  strconv.Itoa(cfg.Port),
		Validate: validatePort,
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port input: %w", err)
	}
	cfg.Port, _ = strconv.Atoi(portStr)

	// 3. Highlight style.
	stylePrompt := promptui.Select{
		Label: "Code highlight style",
		Items: HighlightStyles,
	}
	_, cfg.HighlightStyle, err = stylePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("style selection: %w", err)
	}

	// 4. Flowchart sanitizing.
	sanitizePrompt := promptui.Select{
		Label: "Rewrite flowchart labels mermaid cannot parse",
		Items: []string{"yes", "no"},
	}
	idx, _, err := sanitizePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("sanitize selection: %w", err)
	}
	cfg.SanitizeFlowcharts = idx == 0

	// 5. Output directory for generated code.
	outPrompt := promptui.Prompt{
		Label:   "Directory for generated code",
		Default: cfg.CodegenDir,
	}
	cfg.CodegenDir, err = outPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("output dir input: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, err
	}
	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

func validatePort(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 65535 {
		return fmt.Errorf("enter a port between 1 and 65535")
	}
	return nil
}
