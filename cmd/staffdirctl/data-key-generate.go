package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/staffdir/staffdir/pkg/vault"
)

// dataKeyGenerateCmd represents the data-key > generate command
var dataKeyGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a secret encryption key",
	Long: `
Generate a secret encryption key

Use this command to generate a new hex-encoded 256 bit encryption key. Once generated, this key should be placed into the environment of
the staff directory server. It will be used to encrypt integration credentials before they are stored in the database.

Example:

$ export STAFFDIR_ENCRYPTION_KEY="$(staffdirctl data-key generate)"
`,
	Run: func(cmd *cobra.Command, args []string) {
		key, err := vault.GenerateKeyHex()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Failed to generate key:", err)
			os.Exit(1)
		}
		fmt.Printf("%s", key)
	},
}

func init() {
	dataKeyCmd.AddCommand(dataKeyGenerateCmd)
}
