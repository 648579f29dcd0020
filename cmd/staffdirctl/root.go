package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "staffdirctl",
	Short: "Staff directory sharing and sync server",
	Long:  `Command-line interface for running and managing the staff directory sharing and sync server.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func main() {
	Execute()
}
