package main

import (
	"fmt"
	"os"

	"github.com/glefebvre/mediathek/internal/config"
	"github.com/glefebvre/mediathek/internal/logger"
	"github.com/spf13/cobra"
)

const version = "v0.1.0"

var rootCmd = &cobra.Command{
	Use:   "mediathek",
	Short: "Mediathek builds catalogue entries from broadcaster listings",
	Long: `Mediathek models films harvested from the program listings of German-speaking
public broadcasters and normalizes their descriptions into bounded plain text.`,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of Mediathek",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "Mediathek %s\n", version)
	},
}

var configFile string

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is ./config.yaml)")
	cobra.OnInitialize(initConfig)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	// Skip config loading for version command
	if len(os.Args) > 1 && os.Args[1] == "version" {
		return
	}

	if err := config.LoadFile(configFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	cfg := config.Get()
	logger.InitializeLoggers(cfg.GetAppLogLevel(), cfg.GetAPILogLevel(), cfg.Logging.Format)
	if cfg.IsUsingLegacyLogging() {
		logger.AppLogger().Debug("logging.level is deprecated, use logging.app.level and logging.api.level")
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
