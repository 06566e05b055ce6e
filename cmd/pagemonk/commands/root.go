// Package commands defines the pagemonk CLI command tree.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/pagemonk/pagemonk/internal/client"
	"github.com/pagemonk/pagemonk/internal/config"
	"github.com/pagemonk/pagemonk/internal/observability"
)

var (
	cfgFile string
	verbose bool
	noColor bool
)

var rootCmd = &cobra.Command{
	Use:   "pagemonk",
	Short: "PageMonk document processing client",
	Long: `pagemonk drives the PageMonk document processing backend: upload
documents, convert them to structured markdown, manage extraction
schemas, and run field-level extraction against converted content.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// setup loads configuration and builds the logger and backend client
// shared by every command.
func setup() (*config.Config, *observability.Logger, *client.Client, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, nil, err
	}

	level := cfg.Observability.LogLevel
	if verbose {
		level = "debug"
	}
	logger := observability.NewLogger(observability.LogConfig{
		Level:       level,
		Format:      cfg.Observability.LogFormat,
		ServiceName: "pagemonk",
	})

	cl := client.New(cfg.Backend.BaseURL, logger, client.WithTimeout(cfg.Backend.Timeout))
	return cfg, logger, cl, nil
}
