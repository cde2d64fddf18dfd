package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cognisphere-server/internal/auth"
	"github.com/cognisphere-server/internal/domain"
)

func (s *Server) handleListGames(c *gin.Context) {
	games, err := s.services.Training.Games(domain.ClinicalDiseaseType(c.Query("disease")))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"games": games, "count": len(games)})
}

func (s *Server) handleRecordSession(c *gin.Context) {
	var session domain.GameSession
	if !bindJSON(c, &session) {
		return
	}
	recorded, err := s.services.Training.RecordSession(c.Request.Context(), auth.PatientID(c), session)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, recorded)
}

func (s *Server) handleTrainingStats(c *gin.Context) {
	stats, err := s.services.Training.Stats(c.Request.Context(), auth.PatientID(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *Server) handleRecordCheckin(c *gin.Context) {
	var checkin domain.WellnessCheckin
	if !bindJSON(c, &checkin) {
		return
	}
	recorded, err := s.services.Training.RecordCheckin(c.Request.Context(), auth.PatientID(c), checkin)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, recorded)
}
