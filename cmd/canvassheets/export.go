package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/canvassheets/canvassheets-go/canvassheets/export"
)

var exportCmd = &cobra.Command{
	Use:   "export <script.yaml>",
	Short: "Evaluate a script and export it as an Excel workbook",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringP("out", "o", "", "path of the .xlsx file to write")
	_ = exportCmd.MarkFlagRequired("out")
}

func runExport(cmd *cobra.Command, args []string) error {
	project, err := loadProject(args[0])
	if err != nil {
		return err
	}
	out := viper.GetString("out")
	if err := export.WriteFile(project, out); err != nil {
		return fmt.Errorf("failed to export workbook: %w", err)
	}
	slog.Info("wrote workbook", "path", out)
	return nil
}
