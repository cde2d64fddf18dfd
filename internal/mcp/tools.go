package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/cognisphere-server/internal/domain"
	"github.com/cognisphere-server/internal/memory"
)

// vaultPatient owns vault entries added without a patient id.
const vaultPatient = "local"

// replyTimeout bounds a single assistant call.
const replyTimeout = 45 * time.Second

// CompareTreatmentsParams defines parameters for compare_treatments tool
type CompareTreatmentsParams struct {
	Disease          string `json:"disease" jsonschema:"Alzheimer's Disease, Parkinson's Disease or Epilepsy"`
	Age              int    `json:"age"`
	Severity         string `json:"severity" jsonschema:"Mild, Moderate, Severe or Very Severe"`
	Comorbidities    int    `json:"comorbidities,omitempty"`
	MedicationsCount int    `json:"medications_count,omitempty"`
}

func (p CompareTreatmentsParams) profile() domain.PatientProfile {
	return domain.PatientProfile{
		Age:              p.Age,
		Disease:          domain.TreatmentDisease(p.Disease),
		Severity:         domain.DiseaseSeverity(p.Severity),
		Comorbidities:    p.Comorbidities,
		MedicationsCount: p.MedicationsCount,
	}
}

// SimulateTreatmentParams defines parameters for simulate_treatment tool.
// The profile fields are optional; when disease is set they adjust the
// wrapped recommendation.
type SimulateTreatmentParams struct {
	TreatmentID      string `json:"treatment_id" jsonschema:"catalog id such as alz-1"`
	Disease          string `json:"disease,omitempty"`
	Age              int    `json:"age,omitempty"`
	Severity         string `json:"severity,omitempty"`
	Comorbidities    int    `json:"comorbidities,omitempty"`
	MedicationsCount int    `json:"medications_count,omitempty"`
}

// DiseaseFilterParams filters a catalog listing.
type DiseaseFilterParams struct {
	Disease string `json:"disease,omitempty"`
}

// AddMemoryParams defines parameters for add_memory tool
type AddMemoryParams struct {
	PatientID string   `json:"patient_id,omitempty"`
	Title     string   `json:"title"`
	Date      string   `json:"date" jsonschema:"YYYY-MM-DD"`
	Category  string   `json:"category" jsonschema:"Family Event, Achievement, Travel, Medical or Other"`
	Notes     string   `json:"notes,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	PhotoURL  string   `json:"photo_url,omitempty"`
}

// ListMemoriesParams defines parameters for list_memories tool
type ListMemoriesParams struct {
	PatientID string `json:"patient_id,omitempty"`
	Category  string `json:"category,omitempty"`
	Limit     int    `json:"limit,omitempty"`
}

// PatientParams selects a patient's vault.
type PatientParams struct {
	PatientID string `json:"patient_id,omitempty"`
}

// AskAssistantParams defines parameters for ask_memory_assistant tool
type AskAssistantParams struct {
	PatientID string `json:"patient_id,omitempty"`
	Message   string `json:"message"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "score_risk",
		Description: "Score an intake record for Alzheimer's, Parkinson's, epilepsy and hypoxia/stroke risk",
	}, s.handleScoreRisk)
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "compare_treatments",
		Description: "Rank the catalog treatments for a disease against a patient profile",
	}, s.handleCompareTreatments)
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "simulate_treatment",
		Description: "Project the improvement timeline, side effects and monitoring plan of one treatment",
	}, s.handleSimulateTreatment)
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_treatments",
		Description: "List catalog treatments, optionally for one disease",
	}, s.handleListTreatments)
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_games",
		Description: "List cognitive-training games, optionally for one clinical disease type",
	}, s.handleListGames)
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_memory",
		Description: "Add an entry to the memory vault",
	}, s.handleAddMemory)
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_memories",
		Description: "List memory-vault entries, newest first",
	}, s.handleListMemories)
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "memory_insights",
		Description: "Summarise the memory vault by category, month and tag",
	}, s.handleMemoryInsights)
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "ask_memory_assistant",
		Description: "Ask the memory assistant a question answered from the vault",
	}, s.handleAskAssistant)

	s.logger.WithField("tool_count", 9).Info("Registered MCP tools")
}

func (s *Server) handleScoreRisk(ctx context.Context, req *mcp.CallToolRequest, intake domain.IntakeRecord) (*mcp.CallToolResult, any, error) {
	s.logger.WithField("tool", "score_risk").Info("Tool invoked")

	results, err := s.assessments.Score(&intake)
	if err != nil {
		return s.createErrorResult("Invalid intake record", err), nil, nil
	}
	return jsonResult(results)
}

func (s *Server) handleCompareTreatments(ctx context.Context, req *mcp.CallToolRequest, params CompareTreatmentsParams) (*mcp.CallToolResult, any, error) {
	s.logger.WithField("tool", "compare_treatments").Info("Tool invoked")

	recs, err := s.treatments.Compare(params.profile())
	if err != nil {
		return s.createErrorResult("Invalid patient profile", err), nil, nil
	}
	return jsonResult(recs)
}

func (s *Server) handleSimulateTreatment(ctx context.Context, req *mcp.CallToolRequest, params SimulateTreatmentParams) (*mcp.CallToolResult, any, error) {
	s.logger.WithField("tool", "simulate_treatment").Info("Tool invoked")

	if params.TreatmentID == "" {
		return s.createErrorResult("Missing required parameter", fmt.Errorf("treatment_id is required")), nil, nil
	}

	var profile *domain.PatientProfile
	if params.Disease != "" {
		p := CompareTreatmentsParams{
			Disease:          params.Disease,
			Age:              params.Age,
			Severity:         params.Severity,
			Comorbidities:    params.Comorbidities,
			MedicationsCount: params.MedicationsCount,
		}.profile()
		profile = &p
	}

	sim, err := s.treatments.Simulate(params.TreatmentID, profile)
	if err != nil {
		return s.createErrorResult("Simulation failed", err), nil, nil
	}
	return jsonResult(sim)
}

func (s *Server) handleListTreatments(ctx context.Context, req *mcp.CallToolRequest, params DiseaseFilterParams) (*mcp.CallToolResult, any, error) {
	treatments, err := s.treatments.Treatments(domain.TreatmentDisease(params.Disease))
	if err != nil {
		return s.createErrorResult("Invalid disease", err), nil, nil
	}
	return jsonResult(treatments)
}

func (s *Server) handleListGames(ctx context.Context, req *mcp.CallToolRequest, params DiseaseFilterParams) (*mcp.CallToolResult, any, error) {
	games, err := s.training.Games(domain.ClinicalDiseaseType(params.Disease))
	if err != nil {
		return s.createErrorResult("Invalid disease", err), nil, nil
	}
	return jsonResult(games)
}

func (s *Server) handleAddMemory(ctx context.Context, req *mcp.CallToolRequest, params AddMemoryParams) (*mcp.CallToolResult, any, error) {
	s.logger.WithField("tool", "add_memory").Info("Tool invoked")

	entry, err := s.memories.Create(ctx, patientOrDefault(params.PatientID), domain.MemoryEntry{
		Title:    params.Title,
		Date:     params.Date,
		Category: domain.MemoryCategory(params.Category),
		Notes:    params.Notes,
		Tags:     params.Tags,
		PhotoURL: params.PhotoURL,
	})
	if err != nil {
		return s.createErrorResult("Failed to add memory", err), nil, nil
	}
	return jsonResult(entry)
}

func (s *Server) handleListMemories(ctx context.Context, req *mcp.CallToolRequest, params ListMemoriesParams) (*mcp.CallToolResult, any, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = memory.DefaultListLimit
	}
	entries, err := s.memories.List(ctx, patientOrDefault(params.PatientID), domain.MemoryCategory(params.Category), limit)
	if err != nil {
		return s.createErrorResult("Failed to list memories", err), nil, nil
	}
	return jsonResult(entries)
}

func (s *Server) handleMemoryInsights(ctx context.Context, req *mcp.CallToolRequest, params PatientParams) (*mcp.CallToolResult, any, error) {
	insights, err := s.memories.Insights(ctx, patientOrDefault(params.PatientID))
	if err != nil {
		return s.createErrorResult("Failed to summarise memories", err), nil, nil
	}
	return jsonResult(insights)
}

// handleAskAssistant returns the fallback reply as a normal result when only
// the assistant failed.
func (s *Server) handleAskAssistant(ctx context.Context, req *mcp.CallToolRequest, params AskAssistantParams) (*mcp.CallToolResult, any, error) {
	s.logger.WithField("tool", "ask_memory_assistant").Info("Tool invoked")

	ctx, cancel := context.WithTimeout(ctx, replyTimeout)
	defer cancel()

	reply, err := s.memories.Chat(ctx, patientOrDefault(params.PatientID), params.Message)
	if err != nil && !errors.Is(err, domain.ErrChatUnavailable) {
		return s.createErrorResult("Assistant request failed", err), nil, nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: reply.Text},
		},
	}, nil, nil
}

func patientOrDefault(id string) string {
	if id == "" {
		return vaultPatient
	}
	return id
}

func jsonResult(v any) (*mcp.CallToolResult, any, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(data)},
		},
	}, nil, nil
}

// createErrorResult creates a standardized error result for tool calls
func (s *Server) createErrorResult(message string, err error) *mcp.CallToolResult {
	errorText := fmt.Sprintf("Error: %s", message)
	if err != nil {
		errorText += fmt.Sprintf(" - %v", err)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: errorText},
		},
		IsError: true,
	}
}
