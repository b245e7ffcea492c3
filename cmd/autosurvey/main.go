// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the autosurvey CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/autosurvey/internal/logging"
	"github.com/pdiddy/autosurvey/internal/metrics"
	"github.com/pdiddy/autosurvey/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// logger is built in PersistentPreRunE from --verbose and --log-json.
var logger = zap.NewNop()

// rootCmd is the base command for the autosurvey CLI.
var rootCmd = &cobra.Command{
	Use:   "autosurvey",
	Short: "Generate citation-annotated literature surveys from a reference corpus",
	Long: `autosurvey turns a topic into a long-form survey. It retrieves references
from a local corpus, drafts an outline through staged model calls, writes every
subsection with citations, optionally smooths adjacent subsections, and renders
a numbered reference list.

Build the corpus with "corpus ingest", then run "outline", "write", or "run".`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("loading .env: %w", err)
		}

		verbose, _ := cmd.Flags().GetBool("verbose")
		jsonLogs, _ := cmd.Flags().GetBool("log-json")
		l, err := logging.New(verbose, jsonLogs)
		if err != nil {
			return err
		}
		logger = l

		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			logger.Debug("loaded secrets", zap.Strings("keys", keys))
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		defer func() { _ = logger.Sync() }()
		path, _ := cmd.Flags().GetString("metrics-file")
		if path == "" {
			return nil
		}
		return metrics.WriteFile(path)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./autosurvey.yaml or ~/.config/autosurvey/autosurvey.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().Bool("log-json", false, "write logs as JSON")
	rootCmd.PersistentFlags().String("metrics-file", "", "write prometheus metrics in text format to this file on exit")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("autosurvey")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "autosurvey"))
		}
	}

	viper.SetEnvPrefix("AUTOSURVEY")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
