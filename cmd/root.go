package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/specstudio/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "specstudio",
	Short: "Markdown software specs to diagrams and code",
	Long: `specstudio is a workbench for Markdown software specifications. It sends
the specification to a generation service and shows the resulting class,
architecture and use-case diagrams, per-use-case sequence diagrams and
generated source code in the browser, on the command line or over MCP.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultConfigFile, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
