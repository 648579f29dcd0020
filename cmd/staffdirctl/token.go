package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/staffdir/staffdir/pkg/audit"
	"github.com/staffdir/staffdir/pkg/db"
	gormstore "github.com/staffdir/staffdir/pkg/server/store/gorm"
)

// tokenCmd represents the token command
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage share link tokens",
	Long:  `Manage share link tokens.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'token' requires a subcommand (reap)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

// tokenReapCmd represents the token reap command
var tokenReapCmd = &cobra.Command{
	Use:   "reap",
	Short: "Delete expired share links",
	Long: `Delete share links whose expiry has passed.

Redemption already rejects expired links, so reaping is purely hygiene.
Use --grace to keep recently expired links around for inspection.

Example:
  staffdirctl token reap
  staffdirctl token reap --grace 24h`,
	Run: func(cmd *cobra.Command, args []string) {
		grace, _ := cmd.Flags().GetDuration("grace")

		if err := reapTokens(grace); err != nil {
			fmt.Fprintf(os.Stderr, "Reap failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)
	tokenCmd.AddCommand(tokenReapCmd)
	tokenReapCmd.Flags().Duration("grace", 0, "Keep links expired less than this long ago")
}

func reapTokens(grace time.Duration) error {
	conn, err := db.Connect(db.Config{})
	if err != nil {
		return err
	}

	cutoff := time.Now().Add(-grace)
	reaped, err := gormstore.NewShareLinkStore(conn).ReapExpired(cutoff)

	audit.Log(audit.ResourceEvent{
		Action:       "token-reap",
		ResourceKind: "share-link",
		Actor:        "staffdirctl",
		Details:      map[string]string{"reaped": strconv.FormatInt(reaped, 10)},
		Success:      err == nil,
		ErrorMessage: errMessage(err),
	})
	if err != nil {
		return err
	}

	fmt.Printf("Reaped %d expired share link(s)\n", reaped)
	return nil
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
