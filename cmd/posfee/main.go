package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/grzegorzmaniak/posfee/config"
)

// Set with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		configPath = os.Getenv("POSFEE_CONFIG")
		envFile    = ".env"
	)

	root := &cobra.Command{
		Use:           "posfee",
		Short:         "Credit card fee service for the POS checkout",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if envFile == "" {
				return nil
			}
			if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("failed to load %s: %w", envFile, err)
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", configPath, "YAML config file (env POSFEE_CONFIG)")
	root.PersistentFlags().StringVar(&envFile, "env-file", envFile, "dotenv file loaded before the config, empty to skip")

	loadConfig := func() (*config.Config, error) {
		c, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		logger, err := newLogger(c)
		if err != nil {
			return nil, err
		}
		zap.ReplaceGlobals(logger)
		return c, nil
	}

	root.AddCommand(
		newServeCommand(loadConfig),
		newTokenCommand(loadConfig),
		newKeygenCommand(),
		newVersionCommand(),
	)
	return root
}

func newLogger(c *config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	zc := zap.NewProductionConfig()
	if c.Log.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}
