package config

// DefaultConfigFile is the config path used when --config is not given.
const DefaultConfigFile = ".specstudio.yml"

// HighlightStyles are the chroma styles offered by the init wizard.
var HighlightStyles = []string{"github", "monokai", "dracula", "solarized-light", "vs"}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BackendURL:     "http://localhost:5000",
		TimeoutSeconds: 0,
		Port:           8080,
		MaxSessions:    256,
		HighlightStyle: "github",
		CodegenDir:     "generated",
	}
}
