package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"allmarket/internal/config"
)

var (
	configPath string

	cfg config.Config
	log *logrus.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "allmarket",
	Short: "All Market Brasil lead and affiliate-link backend",
	Long: `allmarket runs the storefront API and the operator bot, and exposes the
same operator actions on the command line.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("error loading configuration: %w", err)
		}
		cfg = loaded
		log = newLogger(cfg.Log.Level)
		return nil
	},
}

func newLogger(level string) *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.JSONFormatter{})
	// stdout carries command output such as CSV exports.
	l.SetOutput(os.Stderr)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		l.WithField("level", level).Warn("Unknown log level, using info")
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)
	return l
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "./configs", "Directory containing config.yaml")

	leadsCmd.AddCommand(leadsListCmd)
	leadsCmd.AddCommand(leadsExportCmd)
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	linkCmd.AddCommand(linkSetCmd)

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(leadsCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(linkCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
