package config

// Config is the top-level specstudio configuration, corresponding to .specstudio.yml.
type Config struct {
	// BackendURL is the root of the generation service.
	BackendURL string `yaml:"backend_url" koanf:"backend_url"`
	// TimeoutSeconds bounds each backend request. Zero disables the timeout.
	TimeoutSeconds int `yaml:"timeout_seconds" koanf:"timeout_seconds"`

	Port            int  `yaml:"port" koanf:"port"`
	AllowAllOrigins bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`
	OpenBrowser     bool `yaml:"open_browser" koanf:"open_browser"`
	MaxSessions     int  `yaml:"max_sessions" koanf:"max_sessions"`

	HighlightStyle     string `yaml:"highlight_style" koanf:"highlight_style"`
	SanitizeFlowcharts bool   `yaml:"sanitize_flowcharts" koanf:"sanitize_flowcharts"`

	CodegenDir string `yaml:"codegen_dir" koanf:"codegen_dir"`
}
