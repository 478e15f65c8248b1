// Package main provides the CLI entry point for remarksync.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/ukaji3/remarksync-go/internal/logutil"
	"github.com/ukaji3/remarksync-go/pkg/remarksync/host"
	"github.com/ukaji3/remarksync-go/pkg/remarksync/output"
	"github.com/ukaji3/remarksync-go/pkg/remarksync/parser"
)

const envPrefix = "REMARKSYNC"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remarksync",
		Short: "Reconcile back-office spreadsheet extracts",
		Long: `remarksync carries remarks from an old order-tracking workbook to a new one,
merges delivery-note remarks and computes inventory turnover ratios.`,
		SilenceUsage: true,
	}

	cobra.OnInitialize(initConfig)

	cmd.PersistentFlags().String("config", "", "Config file path (optional).")
	cmd.PersistentFlags().String("log-level", "", "Logging level: debug|info|warn|error (defaults to info).")
	cmd.PersistentFlags().String("log-format", "text", "Logging format: text|json.")
	cmd.PersistentFlags().Bool("log-add-source", false, "Include source file:line in logs.")
	cmd.PersistentFlags().String("output-dir", "", "Directory receiving output workbooks (default: current directory).")
	cmd.PersistentFlags().String("csv-charset", "", "Encoding of csv inputs, e.g. windows-1252 (default UTF-8).")
	cmd.PersistentFlags().String("profiles-file", "", "YAML file with additional reconciliation profiles.")

	_ = viper.BindPFlag("config", cmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("logging.level", cmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("logging.format", cmd.PersistentFlags().Lookup("log-format"))
	_ = viper.BindPFlag("logging.add_source", cmd.PersistentFlags().Lookup("log-add-source"))
	_ = viper.BindPFlag("output.dir", cmd.PersistentFlags().Lookup("output-dir"))
	_ = viper.BindPFlag("csv.charset", cmd.PersistentFlags().Lookup("csv-charset"))
	_ = viper.BindPFlag("profiles.file", cmd.PersistentFlags().Lookup("profiles-file"))

	viper.SetDefault("logging.format", "text")
	viper.SetDefault("output.dir", ".")
	viper.SetDefault("output.transient", false)
	viper.SetDefault("host.kill_settle", time.Second)
	viper.SetDefault("host.release_settle", 500*time.Millisecond)

	cmd.AddCommand(newCarryoverCmd())
	cmd.AddCommand(newDeliveryCmd())
	cmd.AddCommand(newTurnoverCmd())
	cmd.AddCommand(newTurnoverMovementCmd())
	cmd.AddCommand(newProfilesCmd())
	return cmd
}

func initConfig() {
	// a missing .env is not an error
	_ = godotenv.Load()

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	cfgFile := strings.TrimSpace(viper.GetString("config"))
	if cfgFile == "" {
		return
	}
	viper.SetConfigFile(cfgFile)
	if err := viper.ReadInConfig(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to read config: %v\n", err)
	}
}

// runLogger returns the configured logger tagged with a fresh run id.
func runLogger() (*slog.Logger, string, error) {
	logger, err := logutil.LoggerFromViper()
	if err != nil {
		return nil, "", err
	}
	runID := uuid.NewString()
	return logger.With("run_id", runID), runID, nil
}

func hostConfigFromViper() host.Config {
	cfg := host.DefaultConfig()
	if viper.IsSet("host.process_name") {
		cfg.ProcessName = viper.GetString("host.process_name")
	}
	if viper.IsSet("host.cache_dir") {
		cfg.CacheDir = viper.GetString("host.cache_dir")
	}
	cfg.KillSettle = viper.GetDuration("host.kill_settle")
	cfg.ReleaseSettle = viper.GetDuration("host.release_settle")
	return cfg
}

func loadOptions(sheet, marker string) parser.LoadOptions {
	return parser.LoadOptions{
		Sheet:        sheet,
		HeaderMarker: marker,
		Charset:      viper.GetString("csv.charset"),
	}
}

// outputFile returns the path of a named output inside the output directory.
func outputFile(name string) (string, error) {
	return output.NamedPath(viper.GetString("output.dir"), name)
}
