package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cognisphere-server/internal/auth"
	"github.com/cognisphere-server/internal/domain"
	"github.com/cognisphere-server/internal/report"
	"github.com/cognisphere-server/internal/service"
)

func (s *Server) handleScore(c *gin.Context) {
	var intake domain.IntakeRecord
	if !bindJSON(c, &intake) {
		return
	}
	results, err := s.services.Assessments.Score(&intake)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

func (s *Server) handleCreateAssessment(c *gin.Context) {
	var intake domain.IntakeRecord
	if !bindJSON(c, &intake) {
		return
	}
	result, err := s.services.Assessments.Assess(c.Request.Context(), auth.PatientID(c), intake)
	if err != nil {
		s.respondError(c, err)
		return
	}

	status := http.StatusOK
	if result.Persisted {
		status = http.StatusCreated
	}
	c.JSON(status, result)
}

func (s *Server) handleListAssessments(c *gin.Context) {
	limit, ok := queryInt(c, "limit", service.DefaultListLimit)
	if !ok {
		return
	}
	assessments, err := s.services.Assessments.List(c.Request.Context(), auth.PatientID(c), limit)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"assessments": assessments, "count": len(assessments)})
}

func (s *Server) handleGetAssessment(c *gin.Context) {
	assessment, err := s.services.Assessments.Get(c.Request.Context(), auth.PatientID(c), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, assessment)
}

func (s *Server) handleAssessmentReport(c *gin.Context) {
	assessment, err := s.services.Assessments.Get(c.Request.Context(), auth.PatientID(c), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	if assessment.Results == nil {
		s.respondError(c, fmt.Errorf("assessment %s has no results: %w", assessment.ID, domain.ErrNotFound))
		return
	}

	data, err := report.AssessmentWorkbook(assessment.ID, assessment.AssessmentDate, *assessment.Results)
	if err != nil {
		s.respondError(c, err)
		return
	}
	attachment(c, "assessment-"+assessment.ID+".xlsx", report.ContentType, data)
}
