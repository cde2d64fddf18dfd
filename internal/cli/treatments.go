package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cognisphere-server/internal/domain"
	"github.com/cognisphere-server/internal/report"
	"github.com/cognisphere-server/internal/service"
	"github.com/cognisphere-server/internal/treatment"
)

func treatmentService() *service.TreatmentService {
	return service.NewTreatmentService(logger(), treatment.NewRanker(nil), nil, nil)
}

func addProfileFlags(cmd *cobra.Command) {
	cmd.Flags().String("disease", "", "Alzheimer's Disease, Parkinson's Disease or Epilepsy")
	cmd.Flags().Int("age", 0, "Patient age")
	cmd.Flags().String("severity", "", "Mild, Moderate, Severe or Very Severe")
	cmd.Flags().Int("comorbidities", 0, "Number of comorbidities")
	cmd.Flags().Int("medications", 0, "Number of current medications")
}

func profileFromFlags(cmd *cobra.Command) domain.PatientProfile {
	disease, _ := cmd.Flags().GetString("disease")
	age, _ := cmd.Flags().GetInt("age")
	severity, _ := cmd.Flags().GetString("severity")
	comorbidities, _ := cmd.Flags().GetInt("comorbidities")
	medications, _ := cmd.Flags().GetInt("medications")
	return domain.PatientProfile{
		Age:              age,
		Disease:          domain.TreatmentDisease(disease),
		Severity:         domain.DiseaseSeverity(severity),
		Comorbidities:    comorbidities,
		MedicationsCount: medications,
	}
}

func compareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Rank the treatments for a disease against a patient profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			profile := profileFromFlags(cmd)
			recs, err := treatmentService().Compare(profile)
			if err != nil {
				return err
			}

			if xlsx, _ := cmd.Flags().GetString("xlsx"); xlsx != "" {
				data, err := report.ComparisonWorkbook(profile, recs)
				if err != nil {
					return err
				}
				if err := os.WriteFile(xlsx, data, 0o644); err != nil {
					return fmt.Errorf("failed to write report: %w", err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Report written to %s\n", xlsx)
			}
			return render(cmd, recs)
		},
	}
	addProfileFlags(cmd)
	cmd.Flags().String("xlsx", "", "Also write an XLSX report to this path")
	_ = cmd.MarkFlagRequired("disease")
	_ = cmd.MarkFlagRequired("age")
	_ = cmd.MarkFlagRequired("severity")
	return cmd
}

func simulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate <treatment-id>",
		Short: "Project a treatment's timeline; profile flags are optional",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var profile *domain.PatientProfile
			if cmd.Flags().Changed("disease") {
				p := profileFromFlags(cmd)
				profile = &p
			}
			sim, err := treatmentService().Simulate(args[0], profile)
			if err != nil {
				return err
			}
			return render(cmd, sim)
		},
	}
	addProfileFlags(cmd)
	return cmd
}

func catalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Print the treatment catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			disease, _ := cmd.Flags().GetString("disease")
			treatments, err := treatmentService().Treatments(domain.TreatmentDisease(disease))
			if err != nil {
				return err
			}
			return render(cmd, treatments)
		},
	}
	cmd.Flags().String("disease", "", "Only list treatments for this disease")
	return cmd
}
