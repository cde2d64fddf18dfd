package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cognisphere-server/internal/auth"
	"github.com/cognisphere-server/internal/domain"
	"github.com/cognisphere-server/internal/report"
	"github.com/cognisphere-server/internal/service"
)

type simulationRequest struct {
	TreatmentID string                `json:"treatment_id" binding:"required"`
	Profile     domain.PatientProfile `json:"profile"`
}

func (s *Server) handleListTreatments(c *gin.Context) {
	treatments, err := s.services.Treatments.Treatments(domain.TreatmentDisease(c.Query("disease")))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"treatments": treatments, "count": len(treatments)})
}

func (s *Server) handleGetTreatment(c *gin.Context) {
	treatment, err := s.services.Treatments.Treatment(c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, treatment)
}

func (s *Server) handleCompare(c *gin.Context) {
	var profile domain.PatientProfile
	if !bindJSON(c, &profile) {
		return
	}
	recs, err := s.services.Treatments.Compare(profile)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recommendations": recs, "count": len(recs)})
}

func (s *Server) handleCompareReport(c *gin.Context) {
	var profile domain.PatientProfile
	if !bindJSON(c, &profile) {
		return
	}
	recs, err := s.services.Treatments.Compare(profile)
	if err != nil {
		s.respondError(c, err)
		return
	}
	data, err := report.ComparisonWorkbook(profile, recs)
	if err != nil {
		s.respondError(c, err)
		return
	}
	attachment(c, "treatment-comparison.xlsx", report.ContentType, data)
}

// handleSimulate projects a treatment. When the disease query parameter is
// present the remaining profile fields are read from the query too.
func (s *Server) handleSimulate(c *gin.Context) {
	var profile *domain.PatientProfile
	if disease := c.Query("disease"); disease != "" {
		p := domain.PatientProfile{
			Disease:  domain.TreatmentDisease(disease),
			Severity: domain.DiseaseSeverity(c.Query("severity")),
		}
		var ok bool
		if p.Age, ok = queryInt(c, "age", 0); !ok {
			return
		}
		if p.Comorbidities, ok = queryInt(c, "comorbidities", 0); !ok {
			return
		}
		if p.MedicationsCount, ok = queryInt(c, "medications", 0); !ok {
			return
		}
		profile = &p
	}

	sim, err := s.services.Treatments.Simulate(c.Param("id"), profile)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sim)
}

func (s *Server) handleSaveSimulation(c *gin.Context) {
	var req simulationRequest
	if !bindJSON(c, &req) {
		return
	}
	record, err := s.services.Treatments.SaveSimulation(c.Request.Context(), auth.PatientID(c), req.TreatmentID, req.Profile)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

func (s *Server) handleListSimulations(c *gin.Context) {
	limit, ok := queryInt(c, "limit", service.DefaultListLimit)
	if !ok {
		return
	}
	sims, err := s.services.Treatments.Simulations(c.Request.Context(), auth.PatientID(c), limit)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"simulations": sims, "count": len(sims)})
}
