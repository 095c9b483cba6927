package cmd

import (
	"errors"
	"fmt"

	"github.com/careercompass/compass-web/internal/models"
	"github.com/careercompass/compass-web/migrations"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations for the view state store",
	Long: `Apply every pending migration to the PostgreSQL database used
for view state. The server also migrates on startup; this command is
for deployments that run migrations as a separate step.

Example:
  COMPASS_DATABASE_URL=postgres://localhost/compass compass migrate`,
	Args: cobra.NoArgs,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)

	migrateCmd.Flags().String("database-url", "", "PostgreSQL connection URL")
	viper.BindPFlag("database_url", migrateCmd.Flags().Lookup("database-url"))
}

func runMigrate(cmd *cobra.Command, args []string) error {
	url := viper.GetString("database_url")
	if url == "" {
		return errors.New("database URL is required (--database-url or COMPASS_DATABASE_URL)")
	}

	if err := models.MigrateURL(url, migrations.FS); err != nil {
		return fmt.Errorf("migrating: %w", err)
	}

	fmt.Println("Migrations applied.")
	return nil
}
