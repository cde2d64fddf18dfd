// Package auth verifies the bearer tokens issued by the hosted identity
// provider. The token subject is the patient id.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/cognisphere-server/internal/domain"
	"github.com/cognisphere-server/internal/middleware"
)

// Claims are the token claims the API relies on.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
}

// Verifier checks HS256 tokens against a shared secret.
type Verifier struct {
	secret   []byte
	issuer   string
	audience string
}

// NewVerifier creates a verifier from the auth configuration.
func NewVerifier(cfg domain.AuthConfig) *Verifier {
	return &Verifier{
		secret:   []byte(cfg.JWTSecret),
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
	}
}

// Verify parses tokenStr and returns its claims. Tokens without an
// expiry or a subject are rejected.
func (v *Verifier) Verify(tokenStr string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnauthorized, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: token has no subject", domain.ErrUnauthorized)
	}
	return claims, nil
}

// Issue signs a token for patientID. Used by the CLI and tests.
func (v *Verifier) Issue(patientID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   patientID,
			Issuer:    v.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	if v.audience != "" {
		claims.Audience = jwt.ClaimStrings{v.audience}
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}

// Middleware rejects requests without a valid bearer token and stores the
// patient id under middleware.PatientIDKey.
func Middleware(v *Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			middleware.AbortWithError(c, http.StatusUnauthorized, domain.ErrCodeAuthentication, "missing authorization header", nil)
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
			middleware.AbortWithError(c, http.StatusUnauthorized, domain.ErrCodeAuthentication, "invalid authorization format", nil)
			return
		}

		claims, err := v.Verify(strings.TrimSpace(parts[1]))
		if err != nil {
			message := "invalid token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				message = "token expired"
			}
			middleware.AbortWithError(c, http.StatusUnauthorized, domain.ErrCodeAuthentication, message, nil)
			return
		}

		c.Set(middleware.PatientIDKey, claims.Subject)
		c.Next()
	}
}

// StaticPatient stands in for Middleware when auth is disabled; every
// request acts as patientID.
func StaticPatient(patientID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.PatientIDKey, patientID)
		c.Next()
	}
}

// PatientID returns the authenticated patient id.
func PatientID(c *gin.Context) string {
	return c.GetString(middleware.PatientIDKey)
}
