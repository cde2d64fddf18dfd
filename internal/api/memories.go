package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cognisphere-server/internal/auth"
	"github.com/cognisphere-server/internal/domain"
	"github.com/cognisphere-server/internal/memory"
)

type chatRequest struct {
	Message string `json:"message"`
}

// chatResponse always carries a reply. Error is set when the reply is the
// fallback text.
type chatResponse struct {
	Reply domain.ChatMessage `json:"reply"`
	Error string             `json:"error,omitempty"`
}

func (s *Server) handleListMemories(c *gin.Context) {
	limit, ok := queryInt(c, "limit", memory.DefaultListLimit)
	if !ok {
		return
	}
	entries, err := s.services.Memories.List(c.Request.Context(), auth.PatientID(c), domain.MemoryCategory(c.Query("category")), limit)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"memories": entries, "count": len(entries)})
}

func (s *Server) handleCreateMemory(c *gin.Context) {
	var entry domain.MemoryEntry
	if !bindJSON(c, &entry) {
		return
	}
	created, err := s.services.Memories.Create(c.Request.Context(), auth.PatientID(c), entry)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (s *Server) handleGetMemory(c *gin.Context) {
	entry, err := s.services.Memories.Get(c.Request.Context(), auth.PatientID(c), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (s *Server) handleUpdateMemory(c *gin.Context) {
	var entry domain.MemoryEntry
	if !bindJSON(c, &entry) {
		return
	}
	updated, err := s.services.Memories.Update(c.Request.Context(), auth.PatientID(c), c.Param("id"), entry)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) handleDeleteMemory(c *gin.Context) {
	if err := s.services.Memories.Delete(c.Request.Context(), auth.PatientID(c), c.Param("id")); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleMemoryInsights(c *gin.Context) {
	insights, err := s.services.Memories.Insights(c.Request.Context(), auth.PatientID(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, insights)
}

// handleMemoryChat answers with the fallback reply and a 500 when the
// assistant failed.
func (s *Server) handleMemoryChat(c *gin.Context) {
	var req chatRequest
	if !bindJSON(c, &req) {
		return
	}
	reply, err := s.services.Memories.Chat(c.Request.Context(), auth.PatientID(c), req.Message)
	if err != nil {
		if errors.Is(err, domain.ErrChatUnavailable) {
			c.JSON(http.StatusInternalServerError, chatResponse{Reply: reply, Error: domain.ErrChatUnavailable.Error()})
			return
		}
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, chatResponse{Reply: reply})
}
