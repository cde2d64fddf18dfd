package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/cognisphere-server/internal/domain"
	"github.com/cognisphere-server/internal/report"
	"github.com/cognisphere-server/internal/service"
)

func scoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score an intake record read from a JSON or YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			file, _ := cmd.Flags().GetString("file")
			xlsx, _ := cmd.Flags().GetString("xlsx")

			intake, err := readIntake(file)
			if err != nil {
				return err
			}

			results, err := service.NewAssessmentService(logger(), nil, nil).Score(intake)
			if err != nil {
				return err
			}

			if xlsx != "" {
				data, err := report.AssessmentWorkbook(service.DemoAssessmentID, time.Now(), results)
				if err != nil {
					return err
				}
				if err := os.WriteFile(xlsx, data, 0o644); err != nil {
					return fmt.Errorf("failed to write report: %w", err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Report written to %s\n", xlsx)
			}
			return render(cmd, results)
		},
	}
	cmd.Flags().StringP("file", "f", "", "Intake record file (.json, .yaml or .yml)")
	cmd.Flags().String("xlsx", "", "Also write an XLSX report to this path")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func readIntake(path string) (*domain.IntakeRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read intake file: %w", err)
	}

	var intake domain.IntakeRecord
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &intake)
	} else {
		err = yaml.Unmarshal(data, &intake)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse intake file: %w", err)
	}
	return &intake, nil
}
