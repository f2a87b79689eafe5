package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/specstudio/internal/backend"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check the generation service",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		client := newBackend(cfg)
		fmt.Printf("Backend:  %s\n", client.BaseURL())
		st, err := client.Status(context.Background())
		if err != nil {
			if code := backend.StatusCode(err); code != 0 {
				return fmt.Errorf("backend responded with status %d", code)
			}
			return fmt.Errorf("backend unreachable: %w", err)
		}

		ai := "disabled"
		if st.AIEnabled {
			ai = "enabled"
		}
		fmt.Printf("AI:       %s\n", ai)
		if st.Model != "" {
			fmt.Printf("Model:    %s\n", st.Model)
		}
		fmt.Printf("Debug:    %t\n", st.DebugMode)
		if st.LogLevel != "" {
			fmt.Printf("Log level: %s\n", st.LogLevel)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
