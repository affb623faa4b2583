package cmd

import (
	"fmt"
	"os"

	"github.com/kartoza/mof-predictor/internal/config"
	"github.com/spf13/cobra"
)

var version = "dev"

var (
	flagConfig       string
	flagHost         string
	flagPort         int
	flagTempDir      string
	flagHistoryDB    string
	flagCORSOrigins  []string
	flagPortFallback bool
)

var rootCmd = &cobra.Command{
	Use:          "mofpredict",
	Short:        "MOF property prediction API",
	SilenceUsage: true,
	Long: `mofpredict predicts the Young's modulus of a metal-organic framework from a
CIF structure file and the Miller indices of the loading direction, and
reports how much each structural feature contributed.

Run without a subcommand to start the HTTP API.`,
	RunE: runServe,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "YAML configuration file")
	pf.StringVar(&flagHost, "host", "", "interface to listen on (default 0.0.0.0)")
	pf.IntVar(&flagPort, "port", 0, "HTTP server port (default 8000)")
	pf.StringVar(&flagTempDir, "temp-dir", "", "directory for transient uploads (default system temp)")
	pf.StringVar(&flagHistoryDB, "history-db", "", "SQLite file for prediction history (disabled when empty)")
	pf.StringSliceVar(&flagCORSOrigins, "cors-origin", nil, "allowed CORS origin, repeatable")
	pf.BoolVar(&flagPortFallback, "port-fallback", false, "try the next ports when the configured one is busy")
}

// Execute is called by main.go.
func Execute(v string) {
	if v != "" {
		version = v
	}
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig resolves the configuration file, environment and any flags the
// user set explicitly, in increasing order of precedence.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("host") {
		cfg.Host = flagHost
	}
	if flags.Changed("port") {
		cfg.Port = flagPort
	}
	if flags.Changed("temp-dir") {
		cfg.TempDir = flagTempDir
	}
	if flags.Changed("history-db") {
		cfg.HistoryDB = flagHistoryDB
	}
	if flags.Changed("cors-origin") {
		cfg.CORSOrigins = flagCORSOrigins
	}
	cfg.Version = version

	return cfg, cfg.Validate()
}
