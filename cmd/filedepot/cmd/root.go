// Package cmd provides the CLI commands for filedepot.
package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/filedepot/filedepot/internal/config"
	"github.com/filedepot/filedepot/internal/logging"
	"github.com/filedepot/filedepot/pkg/version"
)

var (
	configPath string
	rootDir    string
	debugMode  bool

	loggingCleanup func()
)

// NewRootCmd creates the root command for the filedepot CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "filedepot",
		Short: "Searchable index over a directory of distributable files",
		Long: `filedepot maintains an in-memory index over a filesystem subtree and
answers relevance-ranked queries that mix quoted exact phrases with
typo-tolerant fuzzy terms.

Run 'filedepot serve' to keep the index fresh, or use 'search', 'list'
and 'tree' for one-shot queries.`,
		Version:       version.Short(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.SetVersionTemplate("filedepot version {{.Version}}\n")

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to filedepot.yaml")
	cmd.PersistentFlags().StringVarP(&rootDir, "root", "r", "", "Directory to index (overrides config)")
	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")

	cmd.PersistentPreRunE = setupLogging
	cmd.PersistentPostRun = teardownLogging

	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newTreeCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// loadConfig resolves the effective configuration for a command invocation.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if rootDir != "" {
		cfg.Root = rootDir
	}
	return cfg, nil
}

// setupLogging configures the default logger from flags and config.
func setupLogging(_ *cobra.Command, _ []string) error {
	logCfg := logging.DefaultConfig()
	if debugMode {
		logCfg = logging.DebugConfig()
	}

	logger, cleanup, err := logging.Setup(logCfg)
	if err != nil {
		return err
	}

	loggingCleanup = cleanup
	slog.SetDefault(logger)
	return nil
}

// teardownLogging flushes and closes the log file.
func teardownLogging(_ *cobra.Command, _ []string) {
	if loggingCleanup != nil {
		loggingCleanup()
		loggingCleanup = nil
	}
}
