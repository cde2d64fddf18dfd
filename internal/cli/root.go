// Package cli implements the cognictl command line.
package cli

import (
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/cognisphere-server/internal/config"
)

// NewRootCommand builds the cognictl command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "cognictl",
		Short:         "Cognisphere risk scoring, treatment ranking and vault tooling",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringP("output", "o", "yaml", "Output format: yaml or json")

	root.AddCommand(scoreCmd())
	root.AddCommand(compareCmd())
	root.AddCommand(simulateCmd())
	root.AddCommand(catalogCmd())
	root.AddCommand(migrateCmd())
	root.AddCommand(memoriesCmd())
	root.AddCommand(tokenCmd())
	root.AddCommand(mcpCmd())
	return root
}

// render writes v to the command's output in the format chosen by --output.
func render(cmd *cobra.Command, v any) error {
	format, _ := cmd.Flags().GetString("output")
	out := cmd.OutOrStdout()

	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml", "":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

// logger returns a logger writing to stderr so command output stays clean.
func logger() *logrus.Logger {
	cfg := config.LoadLiteConfig()
	return config.NewLogger(cfg.LogLevel, cfg.LogFormat, "stderr")
}
