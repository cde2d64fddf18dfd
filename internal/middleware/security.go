// Package middleware holds the gin middleware shared by every route: security
// headers, correlation IDs, request deadlines, audit logging and body limits.
package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cognisphere-server/internal/domain"
)

const (
	// CorrelationIDKey is the gin context key holding the request's correlation ID.
	CorrelationIDKey = "correlation_id"

	// CorrelationIDHeader carries the correlation ID in both directions.
	CorrelationIDHeader = "X-Correlation-ID"

	// PatientIDKey is set by the auth middleware once a token is verified.
	PatientIDKey = "patient_id"
)

// SecurityHeaders adds security headers to all responses
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Permissions-Policy", "geolocation=(), microphone=(), camera=()")

		// Responses are JSON or file downloads, never pages.
		c.Header("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")

		// Patient data must not be stored by intermediaries
		c.Header("Cache-Control", "no-store")

		if gin.Mode() == gin.ReleaseMode {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}

// CorrelationID adds a unique correlation ID to each request for audit trails
func CorrelationID() gin.HandlerFunc {
	return func(c *gin.Context) {
		correlationID := c.GetHeader(CorrelationIDHeader)
		if _, err := uuid.Parse(correlationID); err != nil {
			correlationID = uuid.NewString()
		}

		c.Set(CorrelationIDKey, correlationID)
		c.Header(CorrelationIDHeader, correlationID)

		c.Next()
	}
}

// RequestTimeout bounds the request context. Handlers that pass the context
// on see it cancelled; if nothing was written by then the client gets a 504.
func RequestTimeout(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if timeout <= 0 {
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		if errors.Is(ctx.Err(), context.DeadlineExceeded) && !c.Writer.Written() {
			AbortWithError(c, http.StatusGatewayTimeout, domain.ErrCodeInternalServer, "request timed out", nil)
		}
	}
}

// BodyLimit caps request bodies at maxBytes.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes > 0 && c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}

type auditEntry struct {
	Timestamp     string `json:"timestamp"`
	CorrelationID any    `json:"correlation_id"`
	PatientID     any    `json:"patient_id,omitempty"`
	Method        string `json:"method"`
	Path          string `json:"path"`
	Status        int    `json:"status"`
	Latency       string `json:"latency"`
	ClientIP      string `json:"client_ip"`
	UserAgent     string `json:"user_agent"`
	ResponseSize  int    `json:"response_size"`
}

// AuditLogger logs one JSON line per request. Query strings are left out
// because they may carry patient identifiers.
func AuditLogger() gin.HandlerFunc {
	return gin.LoggerWithFormatter(FormatAuditLine)
}

// FormatAuditLine renders one audit log line.
func FormatAuditLine(param gin.LogFormatterParams) string {
	entry := auditEntry{
		Timestamp:     param.TimeStamp.UTC().Format(time.RFC3339),
		CorrelationID: param.Keys[CorrelationIDKey],
		PatientID:     param.Keys[PatientIDKey],
		Method:        param.Method,
		Path:          param.Request.URL.Path,
		Status:        param.StatusCode,
		Latency:       param.Latency.String(),
		ClientIP:      param.ClientIP,
		UserAgent:     param.Request.UserAgent(),
		ResponseSize:  param.BodySize,
	}
	line, err := json.Marshal(entry)
	if err != nil {
		return ""
	}
	return string(line) + "\n"
}

// AbortWithError writes a domain.APIError body and stops the chain.
func AbortWithError(c *gin.Context, status int, code, message string, details any) {
	c.AbortWithStatusJSON(status, domain.NewAPIError(code, message, details, c.GetString(CorrelationIDKey)))
}
