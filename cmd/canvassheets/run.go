package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/canvassheets/canvassheets-go/canvassheets"
	"github.com/canvassheets/canvassheets-go/canvassheets/script"
)

var runCmd = &cobra.Command{
	Use:   "run <script.yaml>",
	Short: "Evaluate a script and print the project as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runRun,
}

func init() {
	runCmd.Flags().StringP("out", "o", "", "write the JSON to a file instead of stdout")
	runCmd.Flags().Bool("pretty", false, "indent the JSON output")
}

func runRun(cmd *cobra.Command, args []string) error {
	project, err := loadProject(args[0])
	if err != nil {
		return err
	}

	var data []byte
	if viper.GetBool("pretty") {
		data, err = json.MarshalIndent(project, "", "  ")
	} else {
		data, err = json.Marshal(project)
	}
	if err != nil {
		return fmt.Errorf("failed to encode project: %w", err)
	}
	data = append(data, '\n')

	out := viper.GetString("out")
	if out == "" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	slog.Info("wrote project", "path", out, "bytes", len(data))
	return nil
}

// loadProject parses a script, builds the project, and runs the resolved
// number of formula passes. A --passes value of zero or more overrides the
// script's own setting.
func loadProject(path string) (*canvassheets.Project, error) {
	doc, err := script.ParseFile(path)
	if err != nil {
		return nil, err
	}
	project, err := doc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build project: %w", err)
	}

	passes := doc.EffectivePasses()
	if p := viper.GetInt("passes"); p >= 0 {
		passes = p
	}
	for i := 0; i < passes; i++ {
		if err := project.ApplyFormulas(); err != nil {
			return nil, fmt.Errorf("formula pass %d: %w", i+1, err)
		}
	}
	slog.Debug("evaluated script", "script", path, "passes", passes)
	return project, nil
}
