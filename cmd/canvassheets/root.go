package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var logLevelMap = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

var rootCmd = &cobra.Command{
	Use:   "canvassheets",
	Short: "Evaluate and export canvas sheet scripts",
	Long: `Canvassheets loads a YAML sheet script, runs its formula passes, and
either prints the resulting project as JSON or exports it as an Excel
workbook.

Configuration sources (in order of precedence):
1. Command line flags
2. Environment variables (CANVASSHEETS_*)

Examples:
  # Evaluate a script and print the project
  canvassheets run model.yaml

  # Override the script's pass count and write the JSON to a file
  canvassheets run model.yaml --passes 2 --out model.json

  # Export the evaluated project as a workbook
  canvassheets export model.yaml --out model.xlsx

  # Environment variables mirror the flags
  CANVASSHEETS_PASSES=2 canvassheets run model.yaml`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := viper.BindPFlags(cmd.Flags()); err != nil {
			return err
		}
		initLogging()
		return nil
	},
}

func init() {
	viper.SetEnvPrefix("CANVASSHEETS")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	rootCmd.PersistentFlags().String("log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "shorthand for --log-level debug")
	rootCmd.PersistentFlags().Int("passes", -1, "formula passes to run (-1 keeps the script's own setting)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(exportCmd)
}

// initLogging routes structured logs to stderr so stdout stays reserved
// for JSON output.
func initLogging() {
	level, ok := logLevelMap[strings.ToLower(viper.GetString("log-level"))]
	if !ok {
		level = slog.LevelWarn
	}
	if viper.GetBool("verbose") {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}
