package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/willibrandon/irisconns/internal/config"
	"github.com/willibrandon/irisconns/internal/connfile"
	"github.com/willibrandon/irisconns/internal/conns"
	"github.com/willibrandon/irisconns/internal/db"
	"github.com/willibrandon/irisconns/internal/logger"
	"github.com/willibrandon/irisconns/internal/prompt"
	"github.com/willibrandon/irisconns/internal/storage/sqlite"
)

var (
	// Version info (set by ldflags)
	version = "dev"

	// Flags
	configPath string
	connName   string
	driverName string
	dataDir    string
	debug      bool
)

// app holds what subcommands share once flags and config are loaded.
type app struct {
	cfg      *config.Config
	resolver *connfile.Resolver
	registry *conns.Registry
}

var current *app

func main() {
	rootCmd := &cobra.Command{
		Use:   "irisconns",
		Short: "Resolve named connections and work with their globals",
		Long: `irisconns resolves named connections declared in irisconns / .irisconns files
found in the working directory, its ancestors and the home directory, prompts for
any missing fields, and runs global operations over the resulting connection.

The connection name defaults to $CONN, or "default" when it is unset.`,
		Version:           version,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			teardown()
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default ~/.config/irisconns/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&connName, "conn", "c", "", "connection name (default $CONN or \"default\")")
	rootCmd.PersistentFlags().StringVar(&driverName, "driver", "", "driver: sqlite or postgres (overrides config)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "sqlite data directory (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(
		newGetCmd(),
		newSetCmd(),
		newKillCmd(),
		newShowCmd(),
		newFilesCmd(),
		newCheckCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		// Error already printed by cobra
		teardown()
		os.Exit(1)
	}
}

// setup loads configuration, starts logging and builds the registry.
func setup(cmd *cobra.Command, args []string) error {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFromPath(configPath)
	} else {
		cfg, err = config.LoadConfig()
	}
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if driverName != "" {
		cfg.Driver = driverName
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if err := config.ValidateConfig(cfg); err != nil {
		return err
	}

	logLevel, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	if debug {
		logLevel = logger.LevelDebug
	}
	logger.InitLogger(logLevel, cfg.Log.File)
	if debug {
		fmt.Fprintf(os.Stderr, "Debug mode: Logs written to %s\n", logger.LogPath)
	}
	logger.Debug("irisconns starting", "version", version, "driver", cfg.Driver)

	connector, err := newConnector(cfg)
	if err != nil {
		return err
	}

	resolver := connfile.NewResolver()
	current = &app{
		cfg:      cfg,
		resolver: resolver,
		registry: conns.NewRegistry(connector, resolver,
			conns.WithConsole(prompt.Stdio()),
			conns.WithDefaultName(cfg.DefaultConnection),
		),
	}
	return nil
}

func teardown() {
	if current != nil {
		if err := current.registry.Close(); err != nil {
			logger.Warn("Failed to close connections", "error", err)
		}
		current = nil
	}
	logger.Close()
}

// newConnector returns the connector for the configured driver.
func newConnector(cfg *config.Config) (conns.Connector, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		return sqlite.NewConnector(cfg.DataDir), nil
	case config.DriverPostgres:
		return db.NewConnector(db.PoolOptions{
			SSLMode:  cfg.Postgres.SSLMode,
			MaxConns: int32(cfg.Postgres.PoolMaxConns),
			MinConns: int32(cfg.Postgres.PoolMinConns),
		}), nil
	}
	return nil, fmt.Errorf("unknown driver %q", cfg.Driver)
}
