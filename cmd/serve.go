package main

import (
	"fmt"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glefebvre/mediathek/internal/api"
	"github.com/glefebvre/mediathek/internal/config"
	"github.com/glefebvre/mediathek/internal/logger"
	"github.com/glefebvre/mediathek/internal/shutdown"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Serve the description normalization and film endpoints over HTTP.

The server stops gracefully on SIGINT or SIGTERM.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Get()

		port, _ := cmd.Flags().GetInt("port")
		if port <= 0 {
			port = cfg.API.Port
		}
		if cfg.GetAPILogLevel() != "debug" {
			gin.SetMode(gin.ReleaseMode)
		}

		server := api.NewServer(api.ServerConfig{
			MaxDescriptionLength: cfg.Description.MaxLength,
			CORSOrigins:          cfg.API.CORSOrigins,
		})

		handler := shutdown.New(15 * time.Second)
		handler.Register("http", server.Shutdown)

		if err := serveUntilStopped(func() error { return server.Run(port) }, handler); err != nil {
			logger.AppLogger().Error("server stopped with error", err)
			fmt.Fprintf(os.Stderr, "Error running server: %v\n", err)
			os.Exit(1)
		}

		logger.AppLogger().Info("server stopped")
	},
}

func init() {
	serveCmd.Flags().Int("port", 0, "port to listen on (default from configuration)")
	rootCmd.AddCommand(serveCmd)
}

// serveUntilStopped runs the server until it fails or until a shutdown
// request has run every hook. A server that returns during shutdown still
// waits for the remaining hooks.
func serveUntilStopped(run func() error, handler *shutdown.Handler) error {
	errChan := make(chan error, 1)
	go func() {
		errChan <- run()
	}()

	stopped := make(chan error, 1)
	go func() {
		stopped <- handler.Wait()
	}()

	select {
	case err := <-errChan:
		if err != nil {
			return err
		}
		if handler.IsShuttingDown() {
			return <-stopped
		}
		return nil
	case err := <-stopped:
		return err
	}
}
