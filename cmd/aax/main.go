package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/ai-archive-explorer/internal/config"
	"github.com/Zuo-Peng/ai-archive-explorer/internal/scan"
	"github.com/Zuo-Peng/ai-archive-explorer/internal/session"
)

var version = "dev"

var logLevel string

func main() {
	rootCmd := &cobra.Command{
		Use:     "aax",
		Short:   "AI Archive Explorer - merge and search ChatGPT and Claude chat exports",
		Version: version,
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug/info/warn/error), overrides config")

	rootCmd.AddCommand(parseCmd())
	rootCmd.AddCommand(searchCmd())
	rootCmd.AddCommand(statsCmd())
	rootCmd.AddCommand(qaCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(viewCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the config file and applies the logging setup.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	level := cfg.LogLevel
	if logLevel != "" {
		level = logLevel
	}
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}
	logrus.SetLevel(parsed)
	logrus.SetOutput(os.Stderr)

	return cfg, nil
}

// ingest expands path arguments and merges every export file into a
// fresh session.
func ingest(args []string) (*session.Session, *session.ParseResult, error) {
	files, err := scan.Expand(args)
	if err != nil {
		return nil, nil, err
	}

	sess := session.New()
	result, err := sess.IngestAll(files)
	if err != nil {
		return nil, nil, err
	}
	return sess, result, nil
}
