// Command canvassheets evaluates sheet scripts and prints the resulting
// project as JSON or exports it as an Excel workbook.
// Build with: go build -o bin/canvassheets ./cmd/canvassheets
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
