package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"surveycoder/internal/config"
	"surveycoder/internal/logging"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootFlags struct {
	configPath string
	dbPath     string
	logLevel   string
	logFormat  string
}

// cfg is loaded once in the persistent pre-run and read by every command.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "surveycoder",
	Short: "LLM-assisted coding of open-ended survey responses",
	Long: "Surveycoder classifies free-text survey responses against a project\n" +
		"codebook using an LLM, with versioned codebooks and persisted results.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		// Optional .env for API keys; absence is fine.
		_ = godotenv.Load()

		level, err := logging.ParseLevel(rootFlags.logLevel)
		if err != nil {
			return err
		}
		logging.Init(level, rootFlags.logFormat)

		cfg, err = config.Load(rootFlags.configPath)
		if err != nil {
			return err
		}
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&rootFlags.configPath, "config", "", "Config file path (default ~/.surveycoder/config.yaml)")
	pf.StringVar(&rootFlags.dbPath, "db", "", "Database path (default ~/.surveycoder/surveycoder.db)")
	pf.StringVar(&rootFlags.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	pf.StringVar(&rootFlags.logFormat, "log-format", "text", "Log format (text, json)")

	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(codebookCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(resultsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
