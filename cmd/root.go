package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/titanic-insights/internal/config"
	"github.com/KaramelBytes/titanic-insights/internal/dashboard"
	"github.com/KaramelBytes/titanic-insights/internal/logger"
)

var (
	// Global flags
	cfgFile  string
	debug    bool
	flagData string

	// Loaded configuration
	cfg *cfgpkg.Global
	// Error from the last config load, surfaced by commands that need it
	cfgErr error
)

var rootCmd = &cobra.Command{
	Use:   "titanic",
	Short: "Titanic insights: explore the passenger manifest and predict survival",
	Long: `titanic loads the Titanic passenger manifest and offers the exploratory views
of the dashboard (overview, survival analysis, demographics, charts) on the
command line and over an HTTP API, plus a logistic-regression survival model.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Initialize configuration before executing commands
	cobra.OnInitialize(loadConfig)
	// Persistent global flags available to all subcommands
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.titanic/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagData, "data", "", "passenger CSV (overrides data_path)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	cfgErr = err
	if err != nil {
		// Non-fatal: allow running commands that don't need config
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		cfg = nil
		return
	}
	cfg = c

	// Apply CLI overrides if provided
	if rootCmd.PersistentFlags().Changed("data") && flagData != "" {
		cfg.DataPath = flagData
	}
	if debug {
		cfg.LogMode = "dev"
	}
}

// requireConfig returns the loaded config or the reason it is missing.
func requireConfig() (*cfgpkg.Global, error) {
	if cfg == nil {
		if cfgErr != nil {
			return nil, fmt.Errorf("config unavailable: %w", cfgErr)
		}
		return nil, fmt.Errorf("config not loaded")
	}
	return cfg, nil
}

// newLogger returns the configured logger for long-running commands and a
// quiet one for one-shot commands unless --debug is set.
func newLogger(c *cfgpkg.Global, verbose bool) (*logger.Logger, error) {
	if !verbose && !debug {
		return logger.Nop(), nil
	}
	return logger.New(c.LogMode)
}

// newApp builds the dashboard from the loaded configuration.
func newApp(verbose bool) (*dashboard.App, *cfgpkg.Global, *logger.Logger, error) {
	c, err := requireConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	log, err := newLogger(c, verbose)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return dashboard.New(dashboard.OptionsFromConfig(c), log), c, log, nil
}
