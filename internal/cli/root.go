// Package cli wires configuration, storage and services into cobra commands.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"claimdesk/internal/config"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "claimdesk",
	Short: "News ingestion and claim suggestions for fact-checking moderators",
	Long: `claimdesk ingests RSS/Atom feeds into a shared article store and proposes
checkable factual claims for stored articles.

Configuration comes from environment variables and an optional HCL file
(./config.hcl, ./config.local.hcl, or --config).`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "claimdesk v0.3.0")
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "HCL config file (default: ./config.hcl, ./config.local.hcl)")
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads configuration and builds the logger it asks for.
func loadConfig() (*config.Config, *slog.Logger, error) {
	var files []string
	if cfgFile != "" {
		files = append(files, cfgFile)
	}
	cfg, err := config.Load(files...)
	if err != nil {
		return nil, nil, err
	}
	return cfg, newLogger(cfg.LogLevel), nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
