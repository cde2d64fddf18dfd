package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cognisphere-server/internal/auth"
	"github.com/cognisphere-server/internal/domain"
)

func (s *Server) handleGetProfile(c *gin.Context) {
	if s.services.Patients == nil {
		s.respondError(c, domain.ErrPersistenceOff)
		return
	}
	patient, err := s.services.Patients.GetPatient(c.Request.Context(), auth.PatientID(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, patient)
}

func (s *Server) handleUpdateProfile(c *gin.Context) {
	if s.services.Patients == nil {
		s.respondError(c, domain.ErrPersistenceOff)
		return
	}
	var patient domain.Patient
	if !bindJSON(c, &patient) {
		return
	}
	if patient.Age < 0 || patient.Age > 120 {
		s.respondError(c, domain.AsError([]*domain.ValidationError{
			domain.NewValidationError("age", "must be between 0 and 120", patient.Age),
		}))
		return
	}
	patient.ID = auth.PatientID(c)

	if err := s.services.Patients.UpsertPatient(c.Request.Context(), &patient); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, patient)
}
