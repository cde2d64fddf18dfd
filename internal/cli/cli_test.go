package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"github.com/cognisphere-server/internal/domain"
	"github.com/cognisphere-server/internal/memory"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeIntake(t *testing.T, name string, intake domain.IntakeRecord) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	var (
		data []byte
		err  error
	)
	if filepath.Ext(name) == ".json" {
		data, err = json.Marshal(intake)
	} else {
		data, err = yaml.Marshal(intake)
	}
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func sampleIntake() domain.IntakeRecord {
	return domain.IntakeRecord{
		Age:                 72,
		Gender:              domain.GenderFemale,
		EducationYears:      8,
		FamilyHistory:       true,
		Hypertension:        true,
		Smoking:             domain.SmokingCurrent,
		AlcoholConsumption:  domain.AlcoholModerate,
		PhysicalActivity:    1,
		SleepHours:          5,
		BMI:                 31,
		MemoryComplaints:    true,
		Confusion:           domain.ConfusionSometimes,
		StressLevel:         4,
		MedicationAdherence: 3,
	}
}

func TestScore(t *testing.T) {
	path := writeIntake(t, "intake.json", sampleIntake())

	out, err := run(t, "score", "--file", path)
	require.NoError(t, err)

	var results domain.RiskResults
	require.NoError(t, yaml.Unmarshal([]byte(out), &results))
	assert.Equal(t, domain.DiseaseAlzheimers, results.Alzheimers.Disease)
	assert.True(t, results.Hypoxia.RiskLevel.IsValid())
	assert.NotEmpty(t, results.Alzheimers.RiskFactors)
}

func TestScore_YAMLWithReport(t *testing.T) {
	path := writeIntake(t, "intake.yaml", sampleIntake())
	xlsx := filepath.Join(t.TempDir(), "report.xlsx")

	out, err := run(t, "score", "-f", path, "--xlsx", xlsx, "-o", "json")
	require.NoError(t, err)

	var results domain.RiskResults
	require.NoError(t, json.Unmarshal([]byte(out), &results))

	f, err := excelize.OpenFile(xlsx)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Summary")
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, "Alzheimer's Disease", rows[1][0])
	assert.Equal(t, string(results.Alzheimers.RiskLevel), rows[1][1])
}

func TestScore_Errors(t *testing.T) {
	_, err := run(t, "score")
	assert.Error(t, err)

	_, err = run(t, "score", "--file", filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "failed to read intake file")

	bad := sampleIntake()
	bad.Age = 10
	_, err = run(t, "score", "--file", writeIntake(t, "bad.json", bad))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCompare(t *testing.T) {
	out, err := run(t, "compare", "--disease", "Parkinson's Disease", "--age", "60", "--severity", "Moderate", "-o", "json")
	require.NoError(t, err)

	var recs []domain.TreatmentRecommendation
	require.NoError(t, json.Unmarshal([]byte(out), &recs))
	require.NotEmpty(t, recs)
	for _, r := range recs {
		assert.Equal(t, domain.TreatmentParkinsons, r.Disease)
	}

	_, err = run(t, "compare", "--disease", "Parkinson's Disease", "--age", "60")
	assert.Error(t, err)

	_, err = run(t, "compare", "--disease", "Gout", "--age", "60", "--severity", "Mild")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCompare_YAMLIsFlat(t *testing.T) {
	out, err := run(t, "compare", "--disease", "Epilepsy", "--age", "30", "--severity", "Mild")
	require.NoError(t, err)

	var recs []map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &recs))
	require.NotEmpty(t, recs)
	assert.Contains(t, recs[0], "name")
	assert.Contains(t, recs[0], "ai_score")
}

func TestSimulate(t *testing.T) {
	out, err := run(t, "simulate", "alz-1", "-o", "json")
	require.NoError(t, err)
	var sim domain.SimulationData
	require.NoError(t, json.Unmarshal([]byte(out), &sim))
	assert.Equal(t, "Donepezil", sim.Treatment.Name)
	assert.Len(t, sim.Timeline, 5)

	out, err = run(t, "simulate", "pd-1", "-o", "json",
		"--disease", "Parkinson's Disease", "--age", "85", "--severity", "Very Severe",
		"--comorbidities", "5", "--medications", "6")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &sim))
	assert.Equal(t, 29, sim.Treatment.AdjustedEfficacy)

	_, err = run(t, "simulate")
	assert.Error(t, err)

	_, err = run(t, "simulate", "unknown")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCatalog(t *testing.T) {
	out, err := run(t, "catalog", "--disease", "Epilepsy")
	require.NoError(t, err)

	var treatments []domain.Treatment
	require.NoError(t, yaml.Unmarshal([]byte(out), &treatments))
	require.NotEmpty(t, treatments)
	for _, tr := range treatments {
		assert.Equal(t, domain.TreatmentEpilepsy, tr.Disease)
	}

	_, err = run(t, "catalog", "--disease", "Flu")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = run(t, "catalog", "-o", "xml")
	assert.ErrorContains(t, err, "unsupported output format")
}

func TestMemoriesExportImport(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "source.db")

	store, err := memory.NewSQLiteStore(source)
	require.NoError(t, err)
	for _, e := range []*domain.MemoryEntry{
		{Title: "Lake house", Date: "1992-07-04", Category: domain.MemoryFamilyEvent, Tags: []string{"summer"}},
		{Title: "Retirement", Date: "2010-03-31", Category: domain.MemoryAchievement},
	} {
		require.NoError(t, store.Save(context.Background(), e))
	}
	require.NoError(t, store.Close())

	export := filepath.Join(dir, "vault.json")
	out, err := run(t, "memories", "export", export, "--vault", source)
	require.NoError(t, err)
	assert.Contains(t, out, export)

	target := filepath.Join(dir, "target.db")
	out, err = run(t, "memories", "import", export, "--vault", target)
	require.NoError(t, err)
	assert.Equal(t, "Imported 2 entries, skipped 0\n", out)

	out, err = run(t, "memories", "import", export, "--vault", target)
	require.NoError(t, err)
	assert.Equal(t, "Imported 0 entries, skipped 2\n", out)
}

func TestMCPInstallAndStatus(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "client.json")
	binary := filepath.Join(dir, "mcp-server")
	require.NoError(t, os.WriteFile(binary, []byte("#!/bin/sh\n"), 0o755))

	out, err := run(t, "mcp", "install", "--config", configPath, "--binary", binary, "--data-dir", filepath.Join(dir, "data"))
	require.NoError(t, err)
	assert.Equal(t, "Registered cognisphere in "+configPath+"\n", out)

	out, err = run(t, "mcp", "status", "--config", configPath, "-o", "json")
	require.NoError(t, err)
	var status map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &status))
	assert.Equal(t, true, status["registered"])
	assert.Equal(t, binary, status["server_path"])
	assert.Equal(t, filepath.Join(dir, "data"), status["data_dir"])
	assert.Nil(t, status["issues"])
}
