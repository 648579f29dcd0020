package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/staffdir/staffdir/pkg/config"
)

// configurationWatchCmd represents the configuration watch command
var configurationWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the config file and print changes as they are applied",
	Long: `Watch the config file and print the configuration each time it is
reloaded. Useful for verifying that edits to the config file parse and
take effect.

Example:
  staffdirctl configuration watch`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := watchConfiguration(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to watch configuration: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	configurationCmd.AddCommand(configurationWatchCmd)
}

func watchConfiguration() error {
	cfg := config.Get()
	fmt.Printf("Watching %s for changes...\n", cfg.ConfigFilePath())

	stop := make(chan struct{})
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		close(stop)
	}()

	return config.Watch(stop, func(fresh *config.Config) {
		fmt.Println("Configuration reloaded:")
		fmt.Print(fresh.FormatText())
	})
}
