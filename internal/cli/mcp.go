package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cognisphere-server/internal/config"
	"github.com/cognisphere-server/internal/setup"
)

func mcpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Register the MCP server with a desktop MCP client",
	}
	cmd.PersistentFlags().String("config", "", "Client config file (defaults to the desktop client location)")
	cmd.AddCommand(mcpInstallCmd(), mcpStatusCmd())
	return cmd
}

func mcpInstallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "install",
		Short: "Add or update the cognisphere entry in the client config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			binary, _ := cmd.Flags().GetString("binary")
			dataDir, _ := cmd.Flags().GetString("data-dir")
			lite := config.LoadLiteConfig()
			if dataDir == "" {
				dataDir = lite.DataDir
			}

			path, err := setup.Register(setup.Options{
				ConfigPath:   configPath,
				BinaryPath:   binary,
				DataDir:      dataDir,
				GeminiAPIKey: lite.GeminiAPIKey,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered %s in %s\n", setup.ServerName, path)
			return nil
		},
	}
	cmd.Flags().String("binary", "", "Path to the mcp-server binary (searched on PATH when empty)")
	cmd.Flags().String("data-dir", "", "Vault directory for the server")
	return cmd
}

func mcpStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether the server is registered and runnable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			status, err := setup.CheckStatus(configPath)
			if err != nil {
				return err
			}
			return render(cmd, map[string]any{
				"config_path": status.ConfigPath,
				"registered":  status.Registered,
				"server_path": status.ServerPath,
				"data_dir":    status.DataDir,
				"issues":      status.Issues,
			})
		},
	}
}
