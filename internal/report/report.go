// Package report renders assessment results and treatment comparisons as
// XLSX workbooks for download.
package report

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/cognisphere-server/internal/domain"
)

// ContentType is the MIME type of the generated workbooks.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type sheet struct {
	name    string
	headers []string
	widths  []float64
	rows    [][]any
}

// AssessmentWorkbook renders one assessment: a summary row per disease, then
// the contributing factors and the recommendations.
func AssessmentWorkbook(assessmentID string, date time.Time, results domain.RiskResults) ([]byte, error) {
	summary := sheet{
		name:    "Summary",
		headers: []string{"Disease", "Risk Level", "Probability (%)", "Confidence (%)", "Assessment ID", "Assessment Date"},
		widths:  []float64{22, 12, 16, 16, 38, 20},
	}
	factors := sheet{
		name:    "Risk Factors",
		headers: []string{"Disease", "Factor", "Impact"},
		widths:  []float64{22, 40, 10},
	}
	advice := sheet{
		name:    "Recommendations",
		headers: []string{"Disease", "#", "Recommendation"},
		widths:  []float64{22, 5, 90},
	}

	for _, res := range results.All() {
		name := res.Disease.DisplayName()
		summary.rows = append(summary.rows, []any{
			name, string(res.RiskLevel), res.Probability, res.Confidence,
			assessmentID, date.UTC().Format("2006-01-02 15:04"),
		})
		for _, f := range res.RiskFactors {
			factors.rows = append(factors.rows, []any{name, f.Factor, string(f.Impact)})
		}
		for i, r := range res.Recommendations {
			advice.rows = append(advice.rows, []any{name, i + 1, r})
		}
	}

	return render(summary, factors, advice)
}

// ComparisonWorkbook renders a ranked treatment list together with the
// profile it was ranked for.
func ComparisonWorkbook(profile domain.PatientProfile, recs []domain.TreatmentRecommendation) ([]byte, error) {
	ranking := sheet{
		name: "Treatments",
		headers: []string{
			"Rank", "Treatment", "Category", "Base Efficacy (%)", "Adjusted Efficacy (%)",
			"AI Score", "Risk Level", "Time to Effect (weeks)", "Cost", "Side Effects",
		},
		widths: []float64{6, 28, 22, 16, 20, 10, 12, 20, 10, 60},
	}
	for i, r := range recs {
		ranking.rows = append(ranking.rows, []any{
			i + 1, r.Name, r.Category, r.BaseEfficacy, r.AdjustedEfficacy,
			r.AIScore, string(r.RiskLevel), r.TimeToEffect, string(r.Cost), sideEffectSummary(r.SideEffects),
		})
	}

	patient := sheet{
		name:    "Profile",
		headers: []string{"Field", "Value"},
		widths:  []float64{22, 28},
		rows: [][]any{
			{"Disease", string(profile.Disease)},
			{"Age", profile.Age},
			{"Severity", string(profile.Severity)},
			{"Comorbidities", profile.Comorbidities},
			{"Current Medications", profile.MedicationsCount},
		},
	}

	return render(ranking, patient)
}

func sideEffectSummary(effects []domain.SideEffect) string {
	parts := make([]string, 0, len(effects))
	for _, se := range effects {
		parts = append(parts, fmt.Sprintf("%s (%g%%, %s)", se.Name, se.Probability, se.Severity))
	}
	return strings.Join(parts, "; ")
}

func render(sheets ...sheet) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.name); err != nil {
				return nil, fmt.Errorf("failed to rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			return nil, fmt.Errorf("failed to create sheet %s: %w", s.name, err)
		}
		if err := writeSheet(f, s, headerStyle); err != nil {
			return nil, err
		}
	}
	f.SetActiveSheet(0)

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, s sheet, headerStyle int) error {
	for col, header := range s.headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(s.name, cell, header); err != nil {
			return fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(s.name, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("failed to set header style: %w", err)
		}
	}

	for i, width := range s.widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("failed to convert column number: %w", err)
		}
		if err := f.SetColWidth(s.name, col, col, width); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}

	for r, row := range s.rows {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return fmt.Errorf("failed to convert coordinates: %w", err)
		}
		values := row
		if err := f.SetSheetRow(s.name, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d of %s: %w", r+2, s.name, err)
		}
	}
	return nil
}
