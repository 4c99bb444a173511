// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the statement-scraper CLI.
// run-all is the monthly job; the other subcommands run its stages one
// at a time.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/statement-scraper/internal/logging"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is built from the log_level setting before each command runs.
var logger = zap.NewNop()

// rootCmd is the base command for the statement-scraper CLI.
var rootCmd = &cobra.Command{
	Use:   "statement-scraper",
	Short: "Scrape accessibility statements for product lists",
	Long: `statement-scraper imports product lists from CSV files, fetches each
product's accessibility statement, extracts the review date, WCAG version,
compliance level and related sections, and exports one JSON report per
input file.

Each CSV in the input directory becomes its own table in a local SQLite
file. Products sharing a statement URL are fetched once.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := bindFlags(cmd); err != nil {
			return err
		}
		l, err := logging.New(viper.GetString(keyLogLevel))
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync(logger)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./statement-scraper.yaml or ~/.config/statement-scraper/config.yaml)")
	rootCmd.PersistentFlags().String("db-path", "", "SQLite database file (default scraped_content.db)")
	rootCmd.PersistentFlags().String("log-level", "", "diagnostic log level: debug, info, warn, error (default warn)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("statement-scraper")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "statement-scraper"))
		}
	}

	viper.SetEnvPrefix("STATEMENT_SCRAPER")
	viper.AutomaticEnv()
	setDefaults()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
