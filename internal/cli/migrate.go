package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cognisphere-server/internal/config"
	"github.com/cognisphere-server/internal/database"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}
	cmd.PersistentFlags().String("dir", "", "Path to migrations directory (defaults to database.migrations_path)")

	runner := func(cmd *cobra.Command) (*database.MigrationRunner, error) {
		manager, err := config.NewManager()
		if err != nil {
			return nil, err
		}
		dir, _ := cmd.Flags().GetString("dir")
		if dir == "" {
			dir = manager.GetDatabaseConfig().MigrationsPath
		}
		return database.NewMigrationRunner(manager.GetDatabaseConnectionString(), dir, logger())
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			mr, err := runner(cmd)
			if err != nil {
				return err
			}
			defer mr.Close()
			return mr.Up(context.Background())
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the last migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			mr, err := runner(cmd)
			if err != nil {
				return err
			}
			defer mr.Close()
			return mr.Down(context.Background())
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show the current migration version",
		RunE: func(cmd *cobra.Command, args []string) error {
			mr, err := runner(cmd)
			if err != nil {
				return err
			}
			defer mr.Close()

			version, dirty, err := mr.Version()
			if err != nil {
				return fmt.Errorf("failed to read migration version: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %t)\n", version, dirty)
			return nil
		},
	})

	return cmd
}
