package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/specstudio/internal/config"
	"github.com/ziadkadry99/specstudio/internal/server"
	"github.com/ziadkadry99/specstudio/internal/site"
)

var (
	servePort int
	serveOpen bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the browser workbench",
	Long:  `Starts the specstudio web UI: edit a Markdown specification, generate diagrams, explore use cases and view generated code.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Port = servePort
		}
		if cmd.Flags().Changed("open") {
			cfg.OpenBrowser = serveOpen
		}

		client := newBackend(cfg)

		ui, err := site.New(site.Options{
			Backend:            client,
			MaxSessions:        cfg.MaxSessions,
			HighlightStyle:     cfg.HighlightStyle,
			SanitizeFlowcharts: cfg.SanitizeFlowcharts,
			AllowAllOrigins:    cfg.AllowAllOrigins,
		})
		if err != nil {
			return fmt.Errorf("creating UI: %w", err)
		}

		srv := server.New(serverConfig(cfg), client)
		ui.RegisterRoutes(srv.Router())

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			srv.Shutdown(context.Background())
		}()

		url := fmt.Sprintf("http://localhost:%d", cfg.Port)
		fmt.Fprintf(os.Stderr, "specstudio %s serving at %s\n", Version, url)
		fmt.Fprintf(os.Stderr, "  Backend: %s\n", cfg.BackendURL)
		fmt.Fprintln(os.Stderr, "Press Ctrl+C to stop.")

		if cfg.OpenBrowser {
			go site.OpenBrowser(url)
		}

		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8080, "port to listen on (overrides config)")
	serveCmd.Flags().BoolVar(&serveOpen, "open", false, "open the workbench in the default browser")
	rootCmd.AddCommand(serveCmd)
}

func serverConfig(cfg *config.Config) server.Config {
	return server.Config{
		Port:       cfg.Port,
		AllowAll:   cfg.AllowAllOrigins,
		BackendURL: cfg.BackendURL,
		Timeout:    cfg.Timeout(),
	}
}
