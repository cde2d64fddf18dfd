package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/cognisphere-server/internal/domain"
	"github.com/cognisphere-server/internal/middleware"
)

// respondError maps a service error onto an APIError response.
func (s *Server) respondError(c *gin.Context, err error) {
	var verrs domain.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		middleware.AbortWithError(c, http.StatusBadRequest, domain.ErrCodeValidation, "request validation failed", verrs)
	case errors.Is(err, domain.ErrInvalidInput):
		middleware.AbortWithError(c, http.StatusBadRequest, domain.ErrCodeInvalidInput, err.Error(), nil)
	case errors.Is(err, domain.ErrNotFound):
		middleware.AbortWithError(c, http.StatusNotFound, domain.ErrCodeNotFound, err.Error(), nil)
	case errors.Is(err, domain.ErrUnauthorized):
		middleware.AbortWithError(c, http.StatusUnauthorized, domain.ErrCodeAuthentication, "unauthorized", nil)
	case errors.Is(err, domain.ErrPersistenceOff):
		middleware.AbortWithError(c, http.StatusServiceUnavailable, domain.ErrCodeDatabase, "persistence is disabled on this server", nil)
	case errors.Is(err, domain.ErrChatUnavailable):
		middleware.AbortWithError(c, http.StatusBadGateway, domain.ErrCodeExternalAPI, "memory assistant unavailable", nil)
	default:
		s.logger.WithFields(logrus.Fields{
			"correlation_id": c.GetString(middleware.CorrelationIDKey),
			"path":           c.FullPath(),
			"error":          err,
		}).Error("Request failed")
		middleware.AbortWithError(c, http.StatusInternalServerError, domain.ErrCodeInternalServer, "internal server error", nil)
	}
}

// bindJSON decodes the request body into dst and answers 400 or 413 on failure.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			middleware.AbortWithError(c, http.StatusRequestEntityTooLarge, domain.ErrCodeInvalidInput, "request body too large", nil)
			return false
		}
		middleware.AbortWithError(c, http.StatusBadRequest, domain.ErrCodeInvalidInput, "invalid request body", err.Error())
		return false
	}
	return true
}

// queryInt reads an optional non-negative integer query parameter.
func queryInt(c *gin.Context, name string, def int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		middleware.AbortWithError(c, http.StatusBadRequest, domain.ErrCodeInvalidInput, "invalid "+name+" parameter", raw)
		return 0, false
	}
	return n, true
}

func attachment(c *gin.Context, filename, contentType string, data []byte) {
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, data)
}
