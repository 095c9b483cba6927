package cmd

import (
	"fmt"

	"github.com/careercompass/compass-web/internal/crypto"
	"github.com/spf13/cobra"
)

var genSecretCmd = &cobra.Command{
	Use:   "gen-secret",
	Short: "Print a random secret for CSRF_SECRET or VIEWSTATE_SECRET",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		secret, err := crypto.GenerateSecret()
		if err != nil {
			return err
		}
		fmt.Println(secret)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(genSecretCmd)
}
