// Package cmd contains all CLI commands for the compass tool.
package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "compass",
	Short: "CareerCompassAI - resume and job description analysis",
	Long: `compass talks to the same analysis service as the web front-end.

Use it to score a resume against a job description from the terminal,
to apply database migrations before starting the server, or to
generate secrets for CSRF_SECRET and VIEWSTATE_SECRET.

Settings can come from flags or COMPASS_* environment variables,
for example COMPASS_ENDPOINT and COMPASS_DATABASE_URL.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// Errors are printed once, by reportError.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		reportError(rootCmd.ErrOrStderr(), err)
	}
	return err
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().Bool("verbose", false, "verbose output")
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig reads ENV variables if set.
func initConfig() {
	viper.SetEnvPrefix("COMPASS")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}
