package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cognisphere-server/internal/config"
	"github.com/cognisphere-server/internal/memory"
)

func memoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "memories",
		Short: "Export or import the local memory vault",
	}
	cmd.PersistentFlags().String("vault", "", "Vault database path (defaults to $COGNISPHERE_DATA_DIR/vault.db)")

	openVault := func(cmd *cobra.Command) (*memory.SQLiteStore, error) {
		path, _ := cmd.Flags().GetString("vault")
		if path == "" {
			cfg := config.LoadLiteConfig()
			if err := cfg.EnsureDataDir(); err != nil {
				return nil, fmt.Errorf("failed to create data directory: %w", err)
			}
			path = cfg.VaultDBPath()
		}
		return memory.NewSQLiteStore(path)
	}

	export := &cobra.Command{
		Use:   "export <file>",
		Short: "Write the vault to a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openVault(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			f, err := os.Create(args[0])
			if err != nil {
				return fmt.Errorf("failed to create export file: %w", err)
			}
			defer f.Close()

			patient, _ := cmd.Flags().GetString("patient")
			if err := store.ExportJSON(context.Background(), patient, f); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported vault to %s\n", args[0])
			return nil
		},
	}
	export.Flags().String("patient", "", "Only export this patient's entries")
	cmd.AddCommand(export)

	cmd.AddCommand(&cobra.Command{
		Use:   "import <file>",
		Short: "Load entries from a JSON export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openVault(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open import file: %w", err)
			}
			defer f.Close()

			imported, skipped, err := store.ImportJSON(context.Background(), f)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d entries, skipped %d\n", imported, skipped)
			return nil
		},
	})

	return cmd
}
